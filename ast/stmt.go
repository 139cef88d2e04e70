package ast

type Block struct {
	Pos
	Statements []Statement
}

type ExpressionStatement struct {
	Pos
	Expression Expression
}

// If is a conditional statement. Constexpr conditions are decided at compile
// time and do not form a control split. Else may be nil.
type If struct {
	Pos
	Constexpr bool
	Condition Expression
	Then      Statement
	Else      Statement
}

type While struct {
	Pos
	Condition Expression
	Body      Statement
}

// For is the C-style loop. Every clause except Body may be nil.
type For struct {
	Pos
	Init   *VarDeclaration
	Test   Expression
	Action Expression
	Body   Statement
}

// ForOf iterates Variable over Iterable, optionally restricted to the
// [Begin, End) range.
type ForOf struct {
	Pos
	Variable *VarDeclaration
	Iterable Expression
	Begin    Expression
	End      Expression
	Body     Statement
}

// TryLabel runs Try; a goto to one of the label blocks transfers control to
// that block's body.
type TryLabel struct {
	Pos
	Try    Statement
	Labels []*LabelBlock
}

// LabelBlock is a handler of a TryLabel statement.
type LabelBlock struct {
	Pos
	Label      string
	Parameters []Parameter
	Varargs    bool
	Body       Statement
}

type Return struct {
	Pos
	Value Expression
}

type Break struct {
	Pos
}

type Continue struct {
	Pos
}

type Goto struct {
	Pos
	Label     string
	Arguments []Expression
}

type TailCall struct {
	Pos
	Call *Call
}

// VarDeclaration declares a local variable, or a local constant when Const is
// set. Initializer may be nil for non-const variables.
type VarDeclaration struct {
	Pos
	Name        string
	Type        TypeExpression
	Const       bool
	Initializer Expression
}

type Debug struct {
	Pos
	Reason         string
	NeverContinues bool
}

// Assert checks Expression at runtime. DebugOnly assertions are dropped from
// release units.
type Assert struct {
	Pos
	Expression Expression
	DebugOnly  bool
	Source     string
}

func (*Block) statementNode()               {}
func (*ExpressionStatement) statementNode() {}
func (*If) statementNode()                  {}
func (*While) statementNode()               {}
func (*For) statementNode()                 {}
func (*ForOf) statementNode()               {}
func (*TryLabel) statementNode()            {}
func (*Return) statementNode()              {}
func (*Break) statementNode()               {}
func (*Continue) statementNode()            {}
func (*Goto) statementNode()                {}
func (*TailCall) statementNode()            {}
func (*VarDeclaration) statementNode()      {}
func (*Debug) statementNode()               {}
func (*Assert) statementNode()              {}
