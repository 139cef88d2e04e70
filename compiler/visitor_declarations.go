package compiler

import (
	"fmt"

	"github.com/arc-language/core-declarer/ast"
	"github.com/arc-language/core-declarer/diagnostics"
)

const returnVariableName = "_return"

// ============================================================================
// MODULES
// ============================================================================

func (v *DeclarationVisitor) visitDefaultModule(d *ast.DefaultModule) error {
	defer v.ctx.EnterModule(v.ctx.DefaultModule())()
	return v.visitDeclarations(d.Declarations)
}

func (v *DeclarationVisitor) visitExplicitModule(d *ast.ExplicitModule) error {
	m := v.ctx.modules.GetModule(d.Name, d.Pos)
	if err := v.ctx.Declare(m); err != nil {
		return err
	}

	v.logger.Debug("entering module '%s'", m.Name)
	defer v.ctx.EnterModule(m)()
	return v.visitDeclarations(d.Declarations)
}

func (v *DeclarationVisitor) visitDeclarations(decls []ast.Declaration) error {
	for _, d := range decls {
		if err := v.visitDeclaration(d); err != nil {
			return err
		}
	}
	return nil
}

// ============================================================================
// TYPES AND CONSTANTS
// ============================================================================

func (v *DeclarationVisitor) visitTypeDeclaration(d *ast.TypeDeclaration) error {
	var parent *Type
	if d.Extends != "" {
		t, err := v.ctx.LookupType(d.Extends, d.Pos)
		if err != nil {
			return err
		}
		parent = t
	}
	var t *Type
	if d.Constexpr {
		t = v.ctx.Types.NewConstexprType(d.Name, parent)
	} else {
		t = v.ctx.Types.NewAbstractType(d.Name, parent)
	}
	return v.ctx.Declare(&TypeDecl{Name: d.Name, Type: t, Pos: d.Pos})
}

func (v *DeclarationVisitor) visitTypeAlias(d *ast.TypeAlias) error {
	t, err := v.resolveType(d.Type)
	if err != nil {
		return err
	}
	if err := v.ctx.Declare(&TypeDecl{Name: d.Name, Type: t, Pos: d.Pos}); err != nil {
		return err
	}
	t.AddAlias(d.Name)
	return nil
}

func (v *DeclarationVisitor) visitExternConst(d *ast.ExternConst) error {
	t, err := v.resolveType(d.Type)
	if err != nil {
		return err
	}
	return v.ctx.Declare(&Constant{Name: d.Name, Type: t, Literal: d.Literal, Pos: d.Pos})
}

func (v *DeclarationVisitor) visitGlobalVariable(d *ast.GlobalVariable) error {
	if d.Const && d.Initializer == nil {
		return diagnostics.Errorf(diagnostics.InvalidDeclaration, d.Pos,
			"constant '%s' has no initializer", d.Name)
	}
	t, err := v.resolveType(d.Type)
	if err != nil {
		return err
	}
	if err := v.visitExpression(d.Initializer); err != nil {
		return err
	}
	return v.ctx.Declare(&Variable{Name: d.Name, Type: t, Const: d.Const, Pos: d.Pos})
}

// ============================================================================
// CALLABLES
// ============================================================================

// checkCallableShape rejects callables whose linkage contradicts their body
// or parameter list.
func checkCallableShape(d *ast.Callable) error {
	sig := d.Signature
	if sig == nil {
		sig = &ast.Signature{}
	}
	switch {
	case d.External && d.Body != nil:
		return diagnostics.Errorf(diagnostics.InvalidDeclaration, d.Pos,
			"external %s '%s' cannot have a body", d.Kind, d.Name)
	case !d.External && d.Body == nil:
		return diagnostics.Errorf(diagnostics.InvalidDeclaration, d.Pos,
			"%s '%s' has no body", d.Kind, d.Name)
	case d.JavaScript && d.Kind != ast.Builtin:
		return diagnostics.Errorf(diagnostics.InvalidDeclaration, d.Pos,
			"only builtins can use JavaScript linkage, '%s' is a %s", d.Name, d.Kind)
	case sig.Varargs && d.Kind == ast.Builtin && !d.JavaScript:
		return diagnostics.Errorf(diagnostics.InvalidDeclaration, d.Pos,
			"builtin '%s' with varargs must use JavaScript linkage", d.Name)
	case d.JavaScript && !sig.Varargs && len(sig.Parameters) < 2:
		return diagnostics.Errorf(diagnostics.InvalidDeclaration, d.Pos,
			"JavaScript builtin '%s' must take the context and the receiver", d.Name)
	}
	return nil
}

func (v *DeclarationVisitor) visitCallable(d *ast.Callable) error {
	if err := checkCallableShape(d); err != nil {
		return err
	}
	sig, err := v.resolveSignature(d.Signature)
	if err != nil {
		return err
	}

	fn := &Callable{
		Name:         d.Name,
		CallableKind: d.Kind,
		External:     d.External,
		JavaScript:   d.JavaScript,
		Signature:    sig,
		Body:         d.Body,
		Node:         d,
		Module:       v.ctx.CurrentModule(),
	}
	if err := v.ctx.Declare(fn); err != nil {
		return err
	}
	v.ctx.addCallable(fn)
	v.logger.Debug("declared %s %s%s", fn.CallableKind, fn.Name, sig)

	if fn.External {
		return nil
	}
	return v.visitCallableBody(fn)
}

// visitCallableBody visits the body of fn in its own scope, with parameters,
// label parameters and the return variable bound, inside a control split
// covering the whole body.
func (v *DeclarationVisitor) visitCallableBody(fn *Callable) error {
	defer v.ctx.EnterFunction(fn)()

	sig := fn.Signature
	pos := fn.Position()

	// Parameters
	for i, name := range sig.ParameterNames {
		if name == "" || name == "_" {
			continue
		}
		p := &Variable{Name: name, Type: sig.ParameterTypes[i], Pos: pos}
		if err := v.ctx.Declare(p); err != nil {
			return err
		}
	}

	// Labels, with one variable per label parameter
	for _, ls := range sig.Labels {
		label := &Label{Name: ls.Name, Pos: pos}
		for i, t := range ls.Types {
			if err := checkLabelParameterType(t, pos); err != nil {
				return err
			}
			if t.IsVoidOrNever() {
				continue
			}
			p := &Variable{Name: fmt.Sprintf("%s%d", ls.Name, i), Type: t, Pos: pos}
			if err := v.ctx.Declare(p); err != nil {
				return err
			}
			label.Parameters = append(label.Parameters, p)
		}
		if err := v.ctx.Declare(label); err != nil {
			return err
		}
	}

	// Return value
	var ret *Variable
	if !sig.Return.IsVoidOrNever() {
		ret = &Variable{Name: returnVariableName, Type: sig.Return, Pos: pos}
		if err := v.ctx.Declare(ret); err != nil {
			return err
		}
	}

	changed, err := v.withControlSplit(fn.Node, func() error {
		return v.visitStatement(fn.Body)
	})
	if err != nil {
		return err
	}
	if ret != nil {
		changed.Add(ret)
	}
	fn.ChangedVariables = changed
	return nil
}

// ============================================================================
// GENERICS
// ============================================================================

func (v *DeclarationVisitor) visitGeneric(d *ast.Generic) error {
	if d.Callable == nil {
		return diagnostics.Errorf(diagnostics.InvalidDeclaration, d.Pos, "generic without a callable")
	}
	if err := checkCallableShape(d.Callable); err != nil {
		return err
	}

	g := &Generic{
		Name:        d.Callable.Name,
		Declaration: d,
		Module:      v.ctx.CurrentModule(),
		scopes:      v.ctx.snapshot(),
	}
	return v.ctx.Declare(g)
}

func (v *DeclarationVisitor) visitSpecialization(d *ast.Specialization) error {
	if d.External == (d.Body != nil) {
		return diagnostics.Errorf(diagnostics.InvalidDeclaration, d.Pos,
			"specialization of '%s' must either be external or have a body", d.Name)
	}

	decls, ok := v.ctx.Lookup(d.Name)
	if !ok {
		return diagnostics.Errorf(diagnostics.InvalidSpecialization, d.Pos,
			"cannot find generic '%s'", d.Name)
	}
	args, err := v.resolveTypes(d.TypeArguments)
	if err != nil {
		return err
	}
	sig, err := v.resolveSignature(d.Signature)
	if err != nil {
		return err
	}

	// Pick the generic whose signature, instantiated with args, is the one
	// given by the specialization.
	var match *Generic
	sawGeneric := false
	for _, decl := range decls {
		g, ok := decl.(*Generic)
		if !ok {
			continue
		}
		sawGeneric = true
		if len(g.Declaration.TypeParameters) != len(args) {
			continue
		}
		key := SpecializationKey{Generic: g, Arguments: args}
		var generic *Signature
		err := v.inGenericScope(key, g.scopes, g.Module, func() error {
			s, err := v.resolveSignature(g.Declaration.Callable.Signature)
			generic = s
			return err
		})
		if err != nil {
			return err
		}
		if !generic.HasSameTypesAs(sig) {
			continue
		}
		if match != nil {
			return diagnostics.Errorf(diagnostics.InvalidSpecialization, d.Pos,
				"specialization of '%s' with signature %s is ambiguous", d.Name, sig)
		}
		match = g
	}
	if !sawGeneric {
		return diagnostics.Errorf(diagnostics.InvalidSpecialization, d.Pos,
			"'%s' is not a generic", d.Name)
	}
	if match == nil {
		return diagnostics.Errorf(diagnostics.InvalidSpecialization, d.Pos,
			"no generic '%s' matches specialization signature %s", d.Name, sig)
	}

	_, err = v.Specialize(SpecializationKey{Generic: match, Arguments: args}, d, d.Signature, d.Body)
	return err
}
