package compiler

import (
	"github.com/arc-language/core-declarer/ast"
	"github.com/arc-language/core-declarer/diagnostics"
)

// Scope is one frame of the scope table: the declarations made directly in a
// module, block or callable body.
type Scope struct {
	symbols map[string][]Declaration
	order   []Declaration
}

// NewScope creates an empty scope.
func NewScope() *Scope {
	return &Scope{symbols: make(map[string][]Declaration)}
}

// Define adds a declaration to this scope. Callables overload when their
// parameter types differ, generics overload, and a module may be bound again
// to itself; any other second binding of a name is a duplicate.
func (s *Scope) Define(decl Declaration) error {
	name := decl.DeclName()
	existing := s.symbols[name]
	for _, old := range existing {
		if !compatible(old, decl) {
			return diagnostics.Errorf(diagnostics.DuplicateDeclaration, decl.Position(),
				"cannot redeclare %s '%s' (already declared as %s at %s)",
				decl.Kind(), name, old.Kind(), old.Position())
		}
		if old == decl {
			return nil
		}
	}
	s.symbols[name] = append(existing, decl)
	s.order = append(s.order, decl)
	return nil
}

func compatible(old, decl Declaration) bool {
	switch d := decl.(type) {
	case *Callable:
		switch o := old.(type) {
		case *Callable:
			return !o.Signature.HasSameParameterTypes(d.Signature)
		case *Generic:
			return true
		}
	case *Generic:
		switch old.(type) {
		case *Callable, *Generic:
			return true
		}
	case *Module:
		return old == decl
	}
	return false
}

// LookupLocal searches only this scope
func (s *Scope) LookupLocal(name string) ([]Declaration, bool) {
	decls, ok := s.symbols[name]
	return decls, ok
}

// Declarations returns everything declared here, in declaration order.
func (s *Scope) Declarations() []Declaration {
	return s.order
}

// Variables returns the variables declared here, in declaration order.
func (s *Scope) Variables() []*Variable {
	var vars []*Variable
	for _, d := range s.order {
		if v, ok := d.(*Variable); ok {
			vars = append(vars, v)
		}
	}
	return vars
}

// universeScope holds the builtin types below every module.
func universeScope(ts *TypeService) *Scope {
	s := NewScope()
	for _, name := range ts.BuiltinNames() {
		t, _ := ts.Builtin(name)
		s.symbols[name] = []Declaration{&TypeDecl{Name: name, Type: t, Pos: ast.Pos{File: "<builtin>"}}}
	}
	return s
}
