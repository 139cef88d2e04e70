package compiler

import (
	"github.com/arc-language/core-declarer/ast"
	"github.com/arc-language/core-declarer/diagnostics"
)

func (v *DeclarationVisitor) visitBlock(s *ast.Block) error {
	defer v.ctx.EnterScope()()
	for _, stmt := range s.Statements {
		if err := v.visitStatement(stmt); err != nil {
			return err
		}
	}
	return nil
}

// visitVarDeclaration binds a local. The initializer is visited before the
// name is bound, so it sees any outer variable of the same name.
func (v *DeclarationVisitor) visitVarDeclaration(s *ast.VarDeclaration) error {
	if s.Type == nil {
		return diagnostics.Errorf(diagnostics.TypeResolutionError, s.Pos,
			"variable declaration '%s' is missing a type", s.Name)
	}
	if s.Const && s.Initializer == nil {
		return diagnostics.Errorf(diagnostics.InvalidDeclaration, s.Pos,
			"constant '%s' has no initializer", s.Name)
	}
	t, err := v.resolveType(s.Type)
	if err != nil {
		return err
	}
	if err := v.visitExpression(s.Initializer); err != nil {
		return err
	}
	return v.ctx.Declare(&Variable{Name: s.Name, Type: t, Const: s.Const, Pos: s.Pos})
}

func (v *DeclarationVisitor) visitGoto(s *ast.Goto) error {
	label, err := v.ctx.LookupLabel(s.Label, s.Pos)
	if err != nil {
		return err
	}
	v.ctx.bind(s, label)
	return v.visitExpressions(s.Arguments)
}

// visitAssert checks debug-only assertions in debug units only.
func (v *DeclarationVisitor) visitAssert(s *ast.Assert) error {
	if s.DebugOnly && !v.ctx.Options.Debug {
		v.logger.Debug("skipping debug-only assert at %s", s.Pos)
		return nil
	}
	return v.declareExpressionForBranch(s.Expression)
}
