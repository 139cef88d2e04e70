package compiler

import (
	"github.com/arc-language/core-declarer/ast"
	"github.com/arc-language/core-declarer/diagnostics"
)

const (
	trueLabelName  = "_True"
	falseLabelName = "_False"
)

// ============================================================================
// NAMES
// ============================================================================

func (v *DeclarationVisitor) visitIdentifier(e *ast.Identifier) error {
	decls, ok := v.ctx.Lookup(e.Name)
	if !ok {
		return diagnostics.Errorf(diagnostics.UnresolvedName, e.Pos, "cannot find '%s'", e.Name)
	}

	if len(e.TypeArguments) == 0 {
		if len(decls) > 1 {
			return diagnostics.Errorf(diagnostics.UnresolvedName, e.Pos,
				"reference to overloaded '%s' is ambiguous", e.Name)
		}
		v.ctx.bind(e, decls[0])
		return nil
	}

	// A generic reference with explicit type arguments requests the
	// specialization of every generic of that name that fits.
	args, err := v.resolveTypes(e.TypeArguments)
	if err != nil {
		return err
	}
	var first Declaration
	for _, d := range decls {
		g, ok := d.(*Generic)
		if !ok || g.Declaration.Callable.Body == nil || len(g.Declaration.TypeParameters) != len(args) {
			continue
		}
		template := g.Declaration.Callable
		fn, err := v.Specialize(SpecializationKey{Generic: g, Arguments: args}, e, template.Signature, template.Body)
		if err != nil {
			return err
		}
		if first == nil {
			first = fn
		}
	}
	if first == nil {
		return diagnostics.Errorf(diagnostics.InvalidSpecialization, e.Pos,
			"no generic '%s' takes %d type arguments", e.Name, len(args))
	}
	v.ctx.bind(e, first)
	return nil
}

// ============================================================================
// CALLS
// ============================================================================

func (v *DeclarationVisitor) visitCall(e *ast.Call) error {
	callee := e.Callee
	decls, ok := v.ctx.Lookup(callee.Name)
	if !ok {
		return diagnostics.Errorf(diagnostics.UnresolvedName, callee.Pos, "cannot find callable '%s'", callee.Name)
	}

	var typeArgs []*Type
	if len(callee.TypeArguments) > 0 {
		ts, err := v.resolveTypes(callee.TypeArguments)
		if err != nil {
			return err
		}
		typeArgs = ts
	}

	// Collect candidate targets, specializing generics on demand
	var targets []Declaration
	sawGeneric := false
	for _, d := range decls {
		switch d := d.(type) {
		case *Callable:
			if typeArgs == nil && d.Signature.Accepts(len(e.Arguments)) {
				targets = append(targets, d)
			}
		case *Generic:
			sawGeneric = true
			template := d.Declaration.Callable
			if typeArgs == nil || len(d.Declaration.TypeParameters) != len(typeArgs) {
				continue
			}
			if !acceptsArguments(template.Signature, len(e.Arguments)) {
				continue
			}
			fn, err := v.Specialize(SpecializationKey{Generic: d, Arguments: typeArgs}, e, template.Signature, template.Body)
			if err != nil {
				return err
			}
			targets = append(targets, fn)
		default:
			return diagnostics.Errorf(diagnostics.UnresolvedName, callee.Pos,
				"'%s' is a %s, not a callable", callee.Name, d.Kind())
		}
	}

	if len(targets) == 0 {
		switch {
		case sawGeneric && typeArgs == nil:
			return diagnostics.Errorf(diagnostics.InvalidSpecialization, callee.Pos,
				"cannot call generic '%s' without type arguments", callee.Name)
		case typeArgs != nil && !sawGeneric:
			return diagnostics.Errorf(diagnostics.InvalidSpecialization, callee.Pos,
				"'%s' is not a generic", callee.Name)
		case sawGeneric:
			return diagnostics.Errorf(diagnostics.InvalidSpecialization, callee.Pos,
				"no generic '%s' takes %d type arguments and %d arguments",
				callee.Name, len(typeArgs), len(e.Arguments))
		default:
			return diagnostics.Errorf(diagnostics.UnresolvedName, callee.Pos,
				"no overload of '%s' takes %d arguments", callee.Name, len(e.Arguments))
		}
	}
	v.ctx.callTargets[siteKey{v.ctx.currentCallable, e}] = targets
	v.ctx.bind(callee, targets[0])

	// Otherwise labels
	for _, name := range e.Labels {
		if _, err := v.ctx.LookupLabel(name, e.Pos); err != nil {
			return err
		}
	}

	return v.visitExpressions(e.Arguments)
}

func acceptsArguments(sig *ast.Signature, n int) bool {
	if sig == nil {
		return n == 0
	}
	if sig.Varargs {
		return n >= len(sig.Parameters)
	}
	return n == len(sig.Parameters)
}

// ============================================================================
// WRITES
// ============================================================================

func (v *DeclarationVisitor) visitAssignment(e *ast.Assignment) error {
	if err := v.markLocationModified(e.Location); err != nil {
		return err
	}
	if err := v.visitExpression(e.Location); err != nil {
		return err
	}
	return v.visitExpression(e.Value)
}

func (v *DeclarationVisitor) visitIncrementDecrement(e *ast.IncrementDecrement) error {
	if err := v.markLocationModified(e.Location); err != nil {
		return err
	}
	return v.visitExpression(e.Location)
}

// markLocationModified records a write to the variable at the root of loc.
// Writing a field or an element counts as writing the whole variable.
func (v *DeclarationVisitor) markLocationModified(loc ast.Expression) error {
	root := loc
	for done := false; !done; {
		switch l := root.(type) {
		case *ast.FieldAccess:
			root = l.Object
		case *ast.ElementAccess:
			root = l.Array
		default:
			done = true
		}
	}

	id, ok := root.(*ast.Identifier)
	if !ok {
		return nil
	}
	decls, ok := v.ctx.Lookup(id.Name)
	if !ok {
		return diagnostics.Errorf(diagnostics.UnresolvedName, id.Pos, "cannot find '%s'", id.Name)
	}
	variable, ok := decls[0].(*Variable)
	if !ok {
		return nil
	}
	if v.ctx.MarkVariableModified(variable) && v.ctx.Options.Verbose {
		v.logger.Debug("marking variable %s modified in control split at %s",
			variable.Name, v.ctx.splits.Top().Node.Position())
	}
	return nil
}

// ============================================================================
// BRANCHING EXPRESSIONS
// ============================================================================

// declareExpressionForBranch visits a branch condition in its own scope with
// the _True and _False labels bound, so label-based conditions can jump to
// them. Nothing declared here outlives the condition.
func (v *DeclarationVisitor) declareExpressionForBranch(expr ast.Expression) error {
	defer v.ctx.EnterScope()()
	pos := expr.Position()
	if err := v.ctx.Declare(&Label{Name: trueLabelName, Pos: pos}); err != nil {
		return err
	}
	if err := v.ctx.Declare(&Label{Name: falseLabelName, Pos: pos}); err != nil {
		return err
	}
	return v.visitExpression(expr)
}

// visitWithLabel visits expr in its own scope with label bound.
func (v *DeclarationVisitor) visitWithLabel(expr ast.Expression, label string) error {
	defer v.ctx.EnterScope()()
	if err := v.ctx.Declare(&Label{Name: label, Pos: expr.Position()}); err != nil {
		return err
	}
	return v.visitExpression(expr)
}

func (v *DeclarationVisitor) visitLogicalOr(e *ast.LogicalOr) error {
	if err := v.visitWithLabel(e.Left, falseLabelName); err != nil {
		return err
	}
	return v.visitExpression(e.Right)
}

func (v *DeclarationVisitor) visitLogicalAnd(e *ast.LogicalAnd) error {
	if err := v.visitWithLabel(e.Left, trueLabelName); err != nil {
		return err
	}
	return v.visitExpression(e.Right)
}

func (v *DeclarationVisitor) visitConditional(e *ast.Conditional) error {
	if err := v.declareExpressionForBranch(e.Condition); err != nil {
		return err
	}
	_, err := v.withControlSplit(e, func() error {
		if err := v.visitExpression(e.IfTrue); err != nil {
			return err
		}
		return v.visitExpression(e.IfFalse)
	})
	return err
}
