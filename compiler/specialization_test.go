package compiler

import (
	"testing"

	"github.com/arc-language/core-declarer/ast"
	"github.com/arc-language/core-declarer/diagnostics"
	"github.com/davecgh/go-spew/spew"
	"golang.org/x/exp/slices"
)

// identity declares `macro Identity<T>(x: T): T { _return = x; }`.
func identity() *ast.Generic {
	return generic([]string{"T"}, macro("Identity", signature(typ("T"), param("x", "T")),
		assign(ident("_return"), ident("x")),
	))
}

func lookupGeneric(t *testing.T, ctx *Context, name string) *Generic {
	t.Helper()
	g, ok := moduleDecl(t, ctx.DefaultModule(), name).(*Generic)
	if !ok {
		t.Fatalf("%s is not a generic", name)
	}
	return g
}

func builtinType(t *testing.T, ctx *Context, name string) *Type {
	t.Helper()
	ty, ok := ctx.Types.Builtin(name)
	if !ok {
		t.Fatalf("no builtin type %s", name)
	}
	return ty
}

func TestSpecializeTwiceMaterializesOnce(t *testing.T) {
	f := macro("f", signature(nil),
		expr(call(ident("Identity", typ("int32")), num("1"))),
		expr(call(ident("Identity", typ("int32")), num("2"))),
	)
	ctx := mustDeclare(t, unit(identity(), f))

	g := lookupGeneric(t, ctx, "Identity")
	if n := len(g.Specializations()); n != 1 {
		t.Fatalf("expected 1 specialization, got %d\n%s", n, spew.Sdump(g.Specializations()))
	}
	if n := ctx.Queue().Drained(); n != 1 {
		t.Errorf("expected 1 body visit, got %d", n)
	}

	int32Type := builtinType(t, ctx, "int32")
	fn, ok := ctx.Specialization(SpecializationKey{Generic: g, Arguments: []*Type{int32Type}})
	if !ok {
		t.Fatalf("no callable for Identity<int32>")
	}
	if fn.Signature.Return != int32Type || fn.Signature.ParameterTypes[0] != int32Type {
		t.Errorf("unexpected signature %s", fn.Signature)
	}
	if fn.IRName != "Identity_int32" {
		t.Errorf("IR name = %s", fn.IRName)
	}
	if fn.Function == nil {
		t.Errorf("no IR prototype declared")
	}
}

func TestSpecializeRepeatedRequestIsNoOp(t *testing.T) {
	ctx := mustDeclare(t, unit(identity()))
	g := lookupGeneric(t, ctx, "Identity")
	v := NewDeclarationVisitor(ctx)

	key := SpecializationKey{Generic: g, Arguments: []*Type{builtinType(t, ctx, "int32")}}
	template := g.Declaration.Callable
	node := ident("Identity")

	first, err := v.Specialize(key, node, template.Signature, template.Body)
	if err != nil {
		t.Fatalf("specialize: %v", err)
	}
	second, err := v.Specialize(key, node, template.Signature, template.Body)
	if err != nil {
		t.Fatalf("specialize again: %v", err)
	}
	if first != second {
		t.Errorf("second request created a new callable")
	}
	if n := ctx.Queue().Pending(); n != 1 {
		t.Errorf("pending = %d, want 1", n)
	}

	if err := v.DrainQueue(); err != nil {
		t.Fatalf("drain: %v", err)
	}

	// Keys compare by content, not by slice identity.
	again := SpecializationKey{Generic: g, Arguments: []*Type{builtinType(t, ctx, "int32")}}
	third, err := v.Specialize(again, node, template.Signature, template.Body)
	if err != nil {
		t.Fatalf("specialize after drain: %v", err)
	}
	if third != first || ctx.Queue().Pending() != 0 || ctx.Queue().Drained() != 1 {
		t.Errorf("request after drain was not a no-op")
	}
	if ctx.ScopeDepth() != 1 {
		t.Errorf("scope depth = %d after drain", ctx.ScopeDepth())
	}
}

func TestSpecializationsDiscoveredWhileDraining(t *testing.T) {
	// Wrap<T> needs Identity<T>, which is only known once Wrap<int64> is
	// being materialized.
	wrap := generic([]string{"T"}, macro("Wrap", signature(typ("T"), param("x", "T")),
		assign(ident("_return"), call(ident("Identity", typ("T")), ident("x"))),
	))
	f := macro("f", signature(nil), expr(call(ident("Wrap", typ("int64")), num("1"))))
	ctx := mustDeclare(t, unit(identity(), wrap, f))

	if n := ctx.Queue().Drained(); n != 2 {
		t.Fatalf("drained %d specializations, want 2", n)
	}
	int64Type := builtinType(t, ctx, "int64")
	key := SpecializationKey{Generic: lookupGeneric(t, ctx, "Identity"), Arguments: []*Type{int64Type}}
	if _, ok := ctx.Specialization(key); !ok {
		t.Errorf("Identity<int64> was not materialized")
	}
}

func TestRecursiveGenericTerminates(t *testing.T) {
	loop := generic([]string{"T"}, macro("Loop", signature(nil, param("x", "T")),
		expr(call(ident("Loop", typ("T")), ident("x"))),
	))
	f := macro("f", signature(nil), expr(call(ident("Loop", typ("bool")), num("1"))))
	ctx := mustDeclare(t, unit(loop, f))

	if n := ctx.Queue().Drained(); n != 1 {
		t.Errorf("drained %d specializations, want 1", n)
	}
}

func TestSpecializationArityMismatch(t *testing.T) {
	f := macro("f", signature(nil), expr(call(ident("Identity", typ("int32"), typ("int32")), num("1"))))
	_, err := declare(nil, unit(identity(), f))
	expectKind(t, err, diagnostics.InvalidSpecialization)

	ctx := mustDeclare(t, unit(identity()))
	g := lookupGeneric(t, ctx, "Identity")
	_, err = NewDeclarationVisitor(ctx).Specialize(SpecializationKey{Generic: g}, ident("Identity"), nil, nil)
	expectKind(t, err, diagnostics.InvalidSpecialization)
}

func TestGenericCallWithoutTypeArguments(t *testing.T) {
	f := macro("f", signature(nil), expr(call(ident("Identity"), num("1"))))
	_, err := declare(nil, unit(identity(), f))
	expectKind(t, err, diagnostics.InvalidSpecialization)
}

func TestSpecializationOfUnknownGeneric(t *testing.T) {
	spec := &ast.Specialization{
		Pos:           at(),
		Name:          "Missing",
		TypeArguments: []ast.TypeExpression{typ("int32")},
		Signature:     signature(typ("int32"), param("x", "int32")),
		Body:          block(),
	}
	_, err := declare(nil, unit(spec))
	expectKind(t, err, diagnostics.InvalidSpecialization)

	notGeneric := &ast.Specialization{
		Pos:           at(),
		Name:          "f",
		TypeArguments: []ast.TypeExpression{typ("int32")},
		External:      true,
		Signature:     signature(nil),
	}
	_, err = declare(nil, unit(macro("f", signature(nil)), notGeneric))
	expectKind(t, err, diagnostics.InvalidSpecialization)
}

func TestExplicitSpecializationWinsOverLaterRequests(t *testing.T) {
	spec := &ast.Specialization{
		Pos:           at(),
		Name:          "Identity",
		TypeArguments: []ast.TypeExpression{typ("int32")},
		Signature:     signature(typ("int32"), param("x", "int32")),
		Body:          block(assign(ident("_return"), num("0"))),
	}
	f := macro("f", signature(nil), expr(call(ident("Identity", typ("i32")), num("1"))))
	ctx := mustDeclare(t, unit(identity(), spec, f))

	g := lookupGeneric(t, ctx, "Identity")
	if len(g.Specializations()) != 1 {
		t.Fatalf("expected 1 specialization\n%s", spew.Sdump(g.Specializations()))
	}
	if fn := g.Specializations()[0]; fn.Node != spec || fn.Body != spec.Body {
		t.Errorf("the explicit specialization was not the one materialized")
	}
}

func TestExplicitSpecializationSignatureMismatch(t *testing.T) {
	spec := &ast.Specialization{
		Pos:           at(),
		Name:          "Identity",
		TypeArguments: []ast.TypeExpression{typ("int32")},
		Signature:     signature(typ("int64"), param("x", "int32")),
		Body:          block(),
	}
	_, err := declare(nil, unit(identity(), spec))
	expectKind(t, err, diagnostics.InvalidSpecialization)
}

func TestExternalGenericSpecialization(t *testing.T) {
	load := generic([]string{"T"}, externMacro("Load", signature(typ("T"), param("p", "int64"))))
	f := macro("f", signature(nil), expr(call(ident("Load", typ("float64")), num("0"))))
	ctx := mustDeclare(t, unit(load, f))

	fns := lookupGeneric(t, ctx, "Load").Specializations()
	if len(fns) != 1 || !fns[0].External || fns[0].Function == nil {
		t.Fatalf("unexpected specializations\n%s", spew.Sdump(fns))
	}
}

func TestSpecializationKeyString(t *testing.T) {
	ts := NewTypeService()
	i32, _ := ts.Builtin("int32")
	i8, _ := ts.Builtin("int8")
	key := SpecializationKey{
		Generic:   &Generic{Name: "Foo"},
		Arguments: []*Type{i32, ts.PointerTo(i8)},
	}
	if s := key.String(); s != "Foo<int32, *int8>" {
		t.Errorf("String() = %q", s)
	}
	if s := key.mangle(); s != "int32_ptr_int8" {
		t.Errorf("mangle() = %q", s)
	}
}

func identityInt32(body ast.Statement) *ast.Specialization {
	return &ast.Specialization{
		Pos:           at(),
		Name:          "Identity",
		TypeArguments: []ast.TypeExpression{typ("int32")},
		Signature:     signature(typ("int32"), param("x", "int32")),
		Body:          body,
	}
}

func TestExplicitSpecializationReplacesQueuedRequest(t *testing.T) {
	c := call(ident("Identity", typ("int32")), num("1"))
	f := macro("f", signature(nil), expr(c))
	spec := identityInt32(block(assign(ident("_return"), num("0"))))
	ctx := mustDeclare(t, unit(identity(), f, spec))

	g := lookupGeneric(t, ctx, "Identity")
	if len(g.Specializations()) != 1 || ctx.Queue().Drained() != 1 {
		t.Fatalf("expected 1 specialization\n%s", spew.Sdump(g.Specializations()))
	}
	fn := g.Specializations()[0]
	if fn.Node != spec || fn.Body != spec.Body {
		t.Errorf("the generic body was materialized instead of the explicit one")
	}
	if targets := ctx.CallTargets(callableNamed(t, ctx, "f"), c); len(targets) != 1 || targets[0] != fn {
		t.Errorf("call target is not the explicit specialization: %s", spew.Sdump(targets))
	}
}

func TestExplicitSpecializationBodyIsVisitedAfterCall(t *testing.T) {
	f := macro("f", signature(nil), expr(call(ident("Identity", typ("int32")), num("1"))))
	spec := identityInt32(block(assign(ident("kOnlyInExplicitBody"), num("0"))))
	_, err := declare(nil, unit(identity(), f, spec))
	expectKind(t, err, diagnostics.UnresolvedName)
}

func TestDuplicateExplicitSpecialization(t *testing.T) {
	first := identityInt32(block())
	second := identityInt32(block())
	_, err := declare(nil, unit(identity(), first, second))
	expectKind(t, err, diagnostics.DuplicateDeclaration)
}

func TestExplicitSpecializationAfterMaterializationWarns(t *testing.T) {
	f := macro("f", signature(nil), expr(call(ident("Identity", typ("int32")), num("1"))))
	ctx := mustDeclare(t, unit(identity(), f))
	g := lookupGeneric(t, ctx, "Identity")
	materialized := g.Specializations()[0]

	spec := identityInt32(block())
	key := SpecializationKey{Generic: g, Arguments: []*Type{builtinType(t, ctx, "int32")}}
	fn, err := NewDeclarationVisitor(ctx).Specialize(key, spec, spec.Signature, spec.Body)
	if err != nil {
		t.Fatalf("specialize: %v", err)
	}
	if fn != materialized || fn.Node == spec {
		t.Errorf("materialized specialization was replaced")
	}
	if n := ctx.Diagnostics.WarningCount(); n != 1 {
		t.Errorf("warnings = %d, want 1", n)
	}
}

func TestQueuedSpecializationUsesGenericDeclaration(t *testing.T) {
	c := call(ident("Identity", typ("int32")), num("1"))
	ctx := mustDeclare(t, unit(identity(), macro("f", signature(nil), expr(c))))

	g := lookupGeneric(t, ctx, "Identity")
	template := g.Declaration.Callable
	fn := g.Specializations()[0]
	if fn.Node != template || fn.Position() != template.Pos {
		t.Errorf("specialization is anchored at %s, want %s", fn.Position(), template.Pos)
	}
	if fn.CallableKind != ast.Macro {
		t.Errorf("callable kind = %v", fn.CallableKind)
	}
	if got := changedNames(t, ctx, fn, template); !slices.Equal(got, []string{"_return"}) {
		t.Errorf("changed = %v, want [_return]", got)
	}
}
