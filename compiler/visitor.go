package compiler

import (
	"fmt"

	"github.com/arc-language/core-declarer/ast"
)

// DeclarationVisitor walks a unit's syntax tree, binding every name in the
// context's scope table and recording the changed variables of each control
// split. The first error aborts the walk.
type DeclarationVisitor struct {
	ctx    *Context
	logger *Logger
}

// NewDeclarationVisitor creates a visitor declaring into ctx
func NewDeclarationVisitor(ctx *Context) *DeclarationVisitor {
	return &DeclarationVisitor{
		ctx:    ctx,
		logger: ctx.Logger,
	}
}

// Visit declares the unit's default module, then drains the specialization
// queue.
func (v *DeclarationVisitor) Visit(unit *ast.Unit) error {
	if unit.Default != nil {
		if err := v.visitDefaultModule(unit.Default); err != nil {
			return err
		}
	}
	return v.DrainQueue()
}

// ============================================================================
// DISPATCH
// ============================================================================

func (v *DeclarationVisitor) visitDeclaration(decl ast.Declaration) error {
	switch d := decl.(type) {
	case *ast.DefaultModule:
		return v.visitDefaultModule(d)
	case *ast.ExplicitModule:
		return v.visitExplicitModule(d)
	case *ast.TypeDeclaration:
		return v.visitTypeDeclaration(d)
	case *ast.TypeAlias:
		return v.visitTypeAlias(d)
	case *ast.ExternConst:
		return v.visitExternConst(d)
	case *ast.GlobalVariable:
		return v.visitGlobalVariable(d)
	case *ast.Callable:
		return v.visitCallable(d)
	case *ast.Generic:
		return v.visitGeneric(d)
	case *ast.Specialization:
		return v.visitSpecialization(d)
	default:
		panic(fmt.Sprintf("unexpected declaration node %T", decl))
	}
}

func (v *DeclarationVisitor) visitStatement(stmt ast.Statement) error {
	if stmt == nil {
		return nil
	}
	switch s := stmt.(type) {
	case *ast.Block:
		return v.visitBlock(s)
	case *ast.ExpressionStatement:
		return v.visitExpression(s.Expression)
	case *ast.If:
		return v.visitIf(s)
	case *ast.While:
		return v.visitWhile(s)
	case *ast.For:
		return v.visitFor(s)
	case *ast.ForOf:
		return v.visitForOf(s)
	case *ast.TryLabel:
		return v.visitTryLabel(s)
	case *ast.Return:
		return v.visitExpression(s.Value)
	case *ast.Break, *ast.Continue, *ast.Debug:
		return nil
	case *ast.Goto:
		return v.visitGoto(s)
	case *ast.TailCall:
		return v.visitCall(s.Call)
	case *ast.VarDeclaration:
		return v.visitVarDeclaration(s)
	case *ast.Assert:
		return v.visitAssert(s)
	default:
		panic(fmt.Sprintf("unexpected statement node %T", stmt))
	}
}

func (v *DeclarationVisitor) visitExpression(expr ast.Expression) error {
	if expr == nil {
		return nil
	}
	switch e := expr.(type) {
	case *ast.Identifier:
		return v.visitIdentifier(e)
	case *ast.NumberLiteral, *ast.StringLiteral:
		return nil
	case *ast.Call:
		return v.visitCall(e)
	case *ast.ElementAccess:
		if err := v.visitExpression(e.Array); err != nil {
			return err
		}
		return v.visitExpression(e.Index)
	case *ast.FieldAccess:
		return v.visitExpression(e.Object)
	case *ast.Assignment:
		return v.visitAssignment(e)
	case *ast.IncrementDecrement:
		return v.visitIncrementDecrement(e)
	case *ast.LogicalOr:
		return v.visitLogicalOr(e)
	case *ast.LogicalAnd:
		return v.visitLogicalAnd(e)
	case *ast.Conditional:
		return v.visitConditional(e)
	default:
		panic(fmt.Sprintf("unexpected expression node %T", expr))
	}
}

func (v *DeclarationVisitor) visitExpressions(exprs []ast.Expression) error {
	for _, e := range exprs {
		if err := v.visitExpression(e); err != nil {
			return err
		}
	}
	return nil
}
