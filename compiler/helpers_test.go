package compiler

import (
	"testing"

	"github.com/arc-language/core-declarer/ast"
	"github.com/arc-language/core-declarer/config"
	"github.com/arc-language/core-declarer/diagnostics"
	"github.com/davecgh/go-spew/spew"
)

// Small constructors for hand-built syntax trees. Every node gets a distinct
// line so failures point somewhere useful.

var fixtureLine int

func at() ast.Pos {
	fixtureLine++
	return ast.Pos{File: "test.dsl", Line: fixtureLine, Column: 1}
}

func typ(name string) *ast.BasicType {
	return &ast.BasicType{Pos: at(), Name: name}
}

func ident(name string, typeArgs ...ast.TypeExpression) *ast.Identifier {
	return &ast.Identifier{Pos: at(), Name: name, TypeArguments: typeArgs}
}

func num(v string) *ast.NumberLiteral {
	return &ast.NumberLiteral{Pos: at(), Value: v}
}

func call(callee *ast.Identifier, args ...ast.Expression) *ast.Call {
	return &ast.Call{Pos: at(), Callee: callee, Arguments: args}
}

func expr(e ast.Expression) *ast.ExpressionStatement {
	return &ast.ExpressionStatement{Pos: at(), Expression: e}
}

func assign(location ast.Expression, value ast.Expression) *ast.ExpressionStatement {
	return expr(&ast.Assignment{Pos: at(), Location: location, Operator: "=", Value: value})
}

func local(name, t string) *ast.VarDeclaration {
	return &ast.VarDeclaration{Pos: at(), Name: name, Type: typ(t)}
}

func block(stmts ...ast.Statement) *ast.Block {
	return &ast.Block{Pos: at(), Statements: stmts}
}

func param(name, t string) ast.Parameter {
	return ast.Parameter{Name: name, Type: typ(t)}
}

func signature(ret ast.TypeExpression, params ...ast.Parameter) *ast.Signature {
	return &ast.Signature{Parameters: params, Return: ret}
}

func macro(name string, sig *ast.Signature, body ...ast.Statement) *ast.Callable {
	return &ast.Callable{Pos: at(), Kind: ast.Macro, Name: name, Signature: sig, Body: block(body...)}
}

func externMacro(name string, sig *ast.Signature) *ast.Callable {
	return &ast.Callable{Pos: at(), Kind: ast.Macro, External: true, Name: name, Signature: sig}
}

func generic(params []string, c *ast.Callable) *ast.Generic {
	return &ast.Generic{Pos: at(), TypeParameters: params, Callable: c}
}

func module(name string, decls ...ast.Declaration) *ast.ExplicitModule {
	return &ast.ExplicitModule{Pos: at(), Name: name, Declarations: decls}
}

func unit(decls ...ast.Declaration) *ast.Unit {
	return &ast.Unit{Name: "test", Default: &ast.DefaultModule{Pos: at(), Declarations: decls}}
}

func declare(opts *config.Options, u *ast.Unit) (*Context, error) {
	if opts == nil {
		opts = config.Default()
	}
	return NewCompiler(opts).Declare(u)
}

func mustDeclare(t *testing.T, u *ast.Unit) *Context {
	t.Helper()
	ctx, err := declare(nil, u)
	if err != nil {
		t.Fatalf("declaration failed: %v", err)
	}
	return ctx
}

func expectKind(t *testing.T, err error, want diagnostics.Kind) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s, got no error", want)
	}
	kind, ok := diagnostics.KindOf(err)
	if !ok || kind != want {
		t.Fatalf("expected %s, got %v", want, err)
	}
}

// callableNamed returns the only non-specialized callable called name.
func callableNamed(t *testing.T, ctx *Context, name string) *Callable {
	t.Helper()
	var found *Callable
	for _, fn := range ctx.Callables() {
		if fn.Name == name && fn.Specialization == nil {
			if found != nil {
				t.Fatalf("more than one callable named %s", name)
			}
			found = fn
		}
	}
	if found == nil {
		t.Fatalf("no callable named %s in\n%s", name, spew.Sdump(ctx.Callables()))
	}
	return found
}

func moduleDecl(t *testing.T, m *Module, name string) Declaration {
	t.Helper()
	decls, ok := m.Scope().LookupLocal(name)
	if !ok || len(decls) == 0 {
		t.Fatalf("module %q has no declaration %q", m.Name, name)
	}
	return decls[0]
}

func changedNames(t *testing.T, ctx *Context, fn *Callable, node ast.Node) []string {
	t.Helper()
	changed, ok := ctx.ChangedVariables(fn, node)
	if !ok {
		t.Fatalf("no control split recorded at %s", node.Position())
	}
	return changed.Names()
}
