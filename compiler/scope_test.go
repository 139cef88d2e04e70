package compiler

import (
	"testing"

	"github.com/arc-language/core-declarer/ast"
	"github.com/arc-language/core-declarer/config"
	"github.com/arc-language/core-declarer/diagnostics"
)

func TestScopeDefineCompatibility(t *testing.T) {
	ts := NewTypeService()
	i32, _ := ts.Builtin("int32")
	i64, _ := ts.Builtin("int64")
	callable := func(params ...*Type) *Callable {
		return &Callable{Name: "f", Signature: &Signature{ParameterTypes: params, Return: ts.Void()}}
	}
	m := &Module{Name: "f"}

	tests := []struct {
		name  string
		first Declaration
		then  Declaration
		ok    bool
	}{
		{"overload", callable(i32), callable(i64), true},
		{"same parameters", callable(i32), callable(i32), false},
		{"generic after callable", callable(i32), &Generic{Name: "f"}, true},
		{"callable after generic", &Generic{Name: "f"}, callable(i32), true},
		{"generics", &Generic{Name: "f"}, &Generic{Name: "f"}, true},
		{"same module", m, m, true},
		{"other module", m, &Module{Name: "f"}, false},
		{"variables", &Variable{Name: "f"}, &Variable{Name: "f"}, false},
		{"type and constant", &TypeDecl{Name: "f"}, &Constant{Name: "f"}, false},
		{"labels", &Label{Name: "f"}, &Label{Name: "f"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewScope()
			if err := s.Define(tt.first); err != nil {
				t.Fatalf("first define: %v", err)
			}
			err := s.Define(tt.then)
			if tt.ok && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if !tt.ok {
				expectKind(t, err, diagnostics.DuplicateDeclaration)
			}
		})
	}
}

func TestScopeStack(t *testing.T) {
	ctx := NewContext(config.Default(), nil)
	if ctx.ScopeDepth() != 1 {
		t.Fatalf("fresh context has %d scopes", ctx.ScopeDepth())
	}

	x := &Variable{Name: "x"}
	inner := &Variable{Name: "x"}
	release := ctx.EnterScope()
	if err := ctx.Declare(x); err != nil {
		t.Fatalf("declare: %v", err)
	}
	func() {
		defer ctx.EnterScope()()
		if err := ctx.Declare(inner); err != nil {
			t.Fatalf("shadow: %v", err)
		}
		if decls, _ := ctx.Lookup("x"); decls[0] != inner {
			t.Errorf("lookup did not find the innermost x")
		}
		if live := ctx.LiveVariables(); !live.Contains(x) || !live.Contains(inner) {
			t.Errorf("live = %v", live.Names())
		}
	}()
	if decls, _ := ctx.Lookup("x"); decls[0] != x {
		t.Errorf("inner x leaked out of its scope")
	}
	release()

	if _, ok := ctx.Lookup("x"); ok {
		t.Errorf("x visible after its scope was released")
	}
	ctx.PopScope()
	if ctx.ScopeDepth() != 1 {
		t.Errorf("universe scope was popped")
	}
}

func TestLookupTypeAndLabel(t *testing.T) {
	ctx := NewContext(config.Default(), nil)
	defer ctx.EnterScope()()
	_ = ctx.Declare(&Variable{Name: "v"})
	_ = ctx.Declare(&Label{Name: "L"})

	if _, err := ctx.LookupType("byte", ast.Pos{}); err != nil {
		t.Errorf("byte: %v", err)
	}
	_, err := ctx.LookupType("v", ast.Pos{})
	expectKind(t, err, diagnostics.TypeResolutionError)
	_, err = ctx.LookupType("nope", ast.Pos{})
	expectKind(t, err, diagnostics.TypeResolutionError)

	if _, err := ctx.LookupLabel("L", ast.Pos{}); err != nil {
		t.Errorf("L: %v", err)
	}
	_, err = ctx.LookupLabel("v", ast.Pos{})
	expectKind(t, err, diagnostics.UnresolvedName)
}

func TestModuleRegistry(t *testing.T) {
	r := NewModuleRegistry()
	a := r.GetModule("A", ast.Pos{})
	if r.GetModule("A", ast.Pos{}) != a {
		t.Errorf("module A created twice")
	}
	if _, ok := r.LookupModule("B"); ok {
		t.Errorf("lookup created module B")
	}
	if got := a.QualifiedName("f"); got != "A_f" {
		t.Errorf("qualified name = %s", got)
	}
	if got := r.Default().QualifiedName("f"); got != "f" {
		t.Errorf("default qualified name = %s", got)
	}
	if a.Scope() == r.Default().Scope() {
		t.Errorf("module A shares the default module's scope")
	}
}
