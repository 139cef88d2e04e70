package compiler

import (
	"fmt"
	"strings"

	"github.com/arc-language/core-builder/ir"
	"github.com/arc-language/core-declarer/ast"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// DeclarationKind identifies what a name is bound to.
type DeclarationKind int

const (
	KindType DeclarationKind = iota
	KindConstant
	KindVariable
	KindCallable
	KindGeneric
	KindModule
	KindLabel
)

func (k DeclarationKind) String() string {
	switch k {
	case KindType:
		return "type"
	case KindConstant:
		return "constant"
	case KindVariable:
		return "variable"
	case KindCallable:
		return "callable"
	case KindGeneric:
		return "generic"
	case KindModule:
		return "module"
	case KindLabel:
		return "label"
	}
	return "declaration"
}

// Declaration is a named binding owned by exactly one scope.
type Declaration interface {
	DeclName() string
	Kind() DeclarationKind
	Position() ast.Pos
}

// TypeDecl binds a name to a canonical type. An alias and its target share
// the same *Type.
type TypeDecl struct {
	Name string
	Type *Type
	Pos  ast.Pos
}

// Constant binds a name to a typed literal.
type Constant struct {
	Name    string
	Type    *Type
	Literal string
	Pos     ast.Pos
}

// Variable is a local, parameter or module-level variable.
type Variable struct {
	Name  string
	Type  *Type
	Const bool
	Pos   ast.Pos
}

func (v *Variable) String() string {
	return fmt.Sprintf("variable %s: %s", v.Name, v.Type)
}

// LabelSignature is a resolved label parameter of a callable.
type LabelSignature struct {
	Name  string
	Types []*Type
}

// Signature is the resolved signature of a callable.
type Signature struct {
	ParameterNames []string
	ParameterTypes []*Type
	Varargs        bool
	Return         *Type
	Labels         []LabelSignature
}

// HasSameParameterTypes compares parameter types by identity.
func (s *Signature) HasSameParameterTypes(o *Signature) bool {
	return s.Varargs == o.Varargs && slices.Equal(s.ParameterTypes, o.ParameterTypes)
}

// HasSameTypesAs compares every type of the two signatures by identity.
func (s *Signature) HasSameTypesAs(o *Signature) bool {
	if !s.HasSameParameterTypes(o) || s.Return != o.Return || len(s.Labels) != len(o.Labels) {
		return false
	}
	for i := range s.Labels {
		if !slices.Equal(s.Labels[i].Types, o.Labels[i].Types) {
			return false
		}
	}
	return true
}

// Accepts reports whether a call with n arguments can target s.
func (s *Signature) Accepts(n int) bool {
	if s.Varargs {
		return n >= len(s.ParameterTypes)
	}
	return n == len(s.ParameterTypes)
}

func (s *Signature) String() string {
	var b strings.Builder
	b.WriteByte('(')
	for i, t := range s.ParameterTypes {
		if i > 0 {
			b.WriteString(", ")
		}
		if i < len(s.ParameterNames) && s.ParameterNames[i] != "" {
			b.WriteString(s.ParameterNames[i])
			b.WriteString(": ")
		}
		b.WriteString(t.String())
	}
	if s.Varargs {
		if len(s.ParameterTypes) > 0 {
			b.WriteString(", ")
		}
		b.WriteString("...")
	}
	b.WriteString("): ")
	b.WriteString(s.Return.String())
	for i, l := range s.Labels {
		if i == 0 {
			b.WriteString(" labels ")
		} else {
			b.WriteString(", ")
		}
		b.WriteString(l.Name)
		if len(l.Types) > 0 {
			names := make([]string, len(l.Types))
			for j, t := range l.Types {
				names[j] = t.String()
			}
			b.WriteString("(" + strings.Join(names, ", ") + ")")
		}
	}
	return b.String()
}

// Callable is a builtin, macro or runtime function. External callables
// interface with already-compiled code and have no body.
type Callable struct {
	Name         string
	CallableKind ast.CallableKind
	External     bool
	JavaScript   bool
	Signature    *Signature
	Body         ast.Statement
	Node         ast.Node
	Module       *Module

	// Function is the prototype declared in the unit's IR module under
	// IRName.
	Function *ir.Function
	IRName   string
	// Specialization is set when the callable was materialized from a
	// generic.
	Specialization *SpecializationKey
	// ChangedVariables is the changed set of the split around the body,
	// including the return variable.
	ChangedVariables VariableSet
}

// DisplayName includes the type arguments of specializations.
func (c *Callable) DisplayName() string {
	if c.Specialization != nil {
		return c.Specialization.String()
	}
	return c.Name
}

// Generic is an uninstantiated callable template.
type Generic struct {
	Name        string
	Declaration *ast.Generic
	Module      *Module

	scopes          []*Scope
	specializations []*Callable
}

// Specializations lists the callables materialized from g, in request order.
func (g *Generic) Specializations() []*Callable {
	return g.specializations
}

// Label is an early-exit target. Parameters are the variables bound when
// control arrives through a goto.
type Label struct {
	Name       string
	Parameters []*Variable
	Pos        ast.Pos
}

func (d *TypeDecl) DeclName() string { return d.Name }
func (d *Constant) DeclName() string { return d.Name }
func (d *Variable) DeclName() string { return d.Name }
func (d *Callable) DeclName() string { return d.Name }
func (d *Generic) DeclName() string  { return d.Name }
func (d *Module) DeclName() string   { return d.Name }
func (d *Label) DeclName() string    { return d.Name }

func (*TypeDecl) Kind() DeclarationKind { return KindType }
func (*Constant) Kind() DeclarationKind { return KindConstant }
func (*Variable) Kind() DeclarationKind { return KindVariable }
func (*Callable) Kind() DeclarationKind { return KindCallable }
func (*Generic) Kind() DeclarationKind  { return KindGeneric }
func (*Module) Kind() DeclarationKind   { return KindModule }
func (*Label) Kind() DeclarationKind    { return KindLabel }

func (d *TypeDecl) Position() ast.Pos { return d.Pos }
func (d *Constant) Position() ast.Pos { return d.Pos }
func (d *Variable) Position() ast.Pos { return d.Pos }
func (d *Callable) Position() ast.Pos {
	if d.Node == nil {
		return ast.Pos{}
	}
	return d.Node.Position()
}
func (d *Generic) Position() ast.Pos { return d.Declaration.Position() }
func (d *Module) Position() ast.Pos  { return d.Pos }
func (d *Label) Position() ast.Pos   { return d.Pos }

// VariableSet is a set of variables compared by identity.
type VariableSet map[*Variable]struct{}

func NewVariableSet(vars ...*Variable) VariableSet {
	s := make(VariableSet, len(vars))
	for _, v := range vars {
		s.Add(v)
	}
	return s
}

func (s VariableSet) Add(v *Variable) { s[v] = struct{}{} }

func (s VariableSet) Contains(v *Variable) bool {
	_, ok := s[v]
	return ok
}

// AddAll folds o into s.
func (s VariableSet) AddAll(o VariableSet) {
	for v := range o {
		s[v] = struct{}{}
	}
}

// Sorted returns the members ordered by name, then declaration position.
func (s VariableSet) Sorted() []*Variable {
	vars := maps.Keys(s)
	slices.SortFunc(vars, func(a, b *Variable) int {
		if a.Name != b.Name {
			return strings.Compare(a.Name, b.Name)
		}
		if a.Pos.Line != b.Pos.Line {
			return a.Pos.Line - b.Pos.Line
		}
		return a.Pos.Column - b.Pos.Column
	})
	return vars
}

// Names returns the sorted variable names.
func (s VariableSet) Names() []string {
	vars := s.Sorted()
	names := make([]string, len(vars))
	for i, v := range vars {
		names[i] = v.Name
	}
	return names
}
