package ast

// DefaultModule holds the declarations that are not inside an explicit
// module. Every unit has exactly one.
type DefaultModule struct {
	Pos
	Declarations []Declaration
}

// ExplicitModule is "module Name { ... }". Reopening a module with the same
// name adds to the same module.
type ExplicitModule struct {
	Pos
	Name         string
	Declarations []Declaration
}

// TypeDeclaration introduces a new abstract type, optionally extending Extends.
type TypeDeclaration struct {
	Pos
	Name    string
	Extends string

	// Constexpr types only exist while the unit is compiled.
	Constexpr bool
}

// TypeAlias binds Name to the type denoted by Type.
type TypeAlias struct {
	Pos
	Name string
	Type TypeExpression
}

// ExternConst declares a constant whose value is the literal text Literal.
type ExternConst struct {
	Pos
	Name    string
	Type    TypeExpression
	Literal string
}

// GlobalVariable declares a module-level variable.
type GlobalVariable struct {
	Pos
	Name        string
	Type        TypeExpression
	Const       bool
	Initializer Expression
}

// CallableKind is the flavour of a callable unit.
type CallableKind int

const (
	Builtin CallableKind = iota
	Macro
	RuntimeFunction
)

func (k CallableKind) String() string {
	switch k {
	case Builtin:
		return "builtin"
	case Macro:
		return "macro"
	case RuntimeFunction:
		return "runtime"
	}
	return "callable"
}

// Parameter is a named, typed parameter.
type Parameter struct {
	Name string
	Type TypeExpression
}

// LabelSignature is a label parameter of a callable: the callable may exit
// by jumping to it, passing values of Types.
type LabelSignature struct {
	Name  string
	Types []TypeExpression
}

// Signature is the unresolved signature of a callable. A nil Return means
// void.
type Signature struct {
	Parameters []Parameter
	Varargs    bool
	Return     TypeExpression
	Labels     []LabelSignature
}

// Callable declares a builtin, macro or runtime function. External callables
// have no Body. JavaScript marks builtins with JavaScript linkage.
type Callable struct {
	Pos
	Kind       CallableKind
	External   bool
	JavaScript bool
	Name       string
	Signature  *Signature
	Body       Statement
}

// Generic is a callable template over TypeParameters.
type Generic struct {
	Pos
	TypeParameters []string
	Callable       *Callable
}

// Specialization instantiates the generic Name with TypeArguments. Signature
// must match the generic's signature after substitution. External
// specializations have no body.
type Specialization struct {
	Pos
	Name          string
	TypeArguments []TypeExpression
	External      bool
	Signature     *Signature
	Body          Statement
}

func (*DefaultModule) declarationNode()   {}
func (*ExplicitModule) declarationNode()  {}
func (*TypeDeclaration) declarationNode() {}
func (*TypeAlias) declarationNode()       {}
func (*ExternConst) declarationNode()     {}
func (*GlobalVariable) declarationNode()  {}
func (*Callable) declarationNode()        {}
func (*Generic) declarationNode()         {}
func (*Specialization) declarationNode()  {}
