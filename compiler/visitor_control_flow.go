package compiler

import (
	"github.com/arc-language/core-declarer/ast"
	"github.com/arc-language/core-declarer/diagnostics"
)

// withControlSplit runs fn inside a control split opened at node. The split
// is closed on every path; its changed set is returned when fn succeeds.
func (v *DeclarationVisitor) withControlSplit(node ast.Node, fn func() error) (changed VariableSet, err error) {
	v.ctx.PushControlSplit(node)
	defer func() {
		popped, popErr := v.ctx.PopControlSplit()
		if err == nil {
			changed, err = popped, popErr
		}
	}()
	return nil, fn()
}

func (v *DeclarationVisitor) visitIf(s *ast.If) error {
	branches := func() error {
		if err := v.declareExpressionForBranch(s.Condition); err != nil {
			return err
		}
		if err := v.visitStatement(s.Then); err != nil {
			return err
		}
		return v.visitStatement(s.Else)
	}

	// Only one branch of a constexpr if survives, so there is nothing to join.
	if s.Constexpr {
		return branches()
	}
	_, err := v.withControlSplit(s, branches)
	return err
}

// visitWhile opens the split around the condition too: it is evaluated again
// after every iteration.
func (v *DeclarationVisitor) visitWhile(s *ast.While) error {
	defer v.ctx.EnterScope()()
	_, err := v.withControlSplit(s, func() error {
		if err := v.declareExpressionForBranch(s.Condition); err != nil {
			return err
		}
		return v.visitStatement(s.Body)
	})
	return err
}

func (v *DeclarationVisitor) visitFor(s *ast.For) error {
	defer v.ctx.EnterScope()()
	if s.Init != nil {
		if err := v.visitVarDeclaration(s.Init); err != nil {
			return err
		}
	}

	_, err := v.withControlSplit(s, func() error {
		if s.Test != nil {
			if err := v.declareExpressionForBranch(s.Test); err != nil {
				return err
			}
		}
		if err := v.visitStatement(s.Body); err != nil {
			return err
		}
		return v.visitExpression(s.Action)
	})
	return err
}

func (v *DeclarationVisitor) visitForOf(s *ast.ForOf) error {
	defer v.ctx.EnterScope()()
	if err := v.visitVarDeclaration(s.Variable); err != nil {
		return err
	}
	if err := v.visitExpression(s.Iterable); err != nil {
		return err
	}
	if err := v.visitExpression(s.Begin); err != nil {
		return err
	}
	if err := v.visitExpression(s.End); err != nil {
		return err
	}

	_, err := v.withControlSplit(s, func() error {
		return v.visitStatement(s.Body)
	})
	return err
}

// visitTryLabel declares the handler labels for the try block only; each
// handler body then sees its own label parameters. The try block and the
// handlers share one split, as control reaches the join from any of them.
func (v *DeclarationVisitor) visitTryLabel(s *ast.TryLabel) error {
	_, err := v.withControlSplit(s, func() error {
		labels := make([]*Label, len(s.Labels))
		err := func() error {
			defer v.ctx.EnterScope()()
			for i, b := range s.Labels {
				label, err := v.declareLabelBlock(b)
				if err != nil {
					return err
				}
				labels[i] = label
			}
			return v.visitStatement(s.Try)
		}()
		if err != nil {
			return err
		}

		for i, b := range s.Labels {
			if err := v.visitLabelBody(labels[i], b.Body); err != nil {
				return err
			}
		}
		return nil
	})
	return err
}

// declareLabelBlock binds the label of a handler. Its parameter variables
// are created here and bound only inside the handler body.
func (v *DeclarationVisitor) declareLabelBlock(b *ast.LabelBlock) (*Label, error) {
	if b.Varargs {
		return nil, diagnostics.Errorf(diagnostics.InvalidDeclaration, b.Pos,
			"cannot use ... for label parameters")
	}
	label := &Label{Name: b.Label, Pos: b.Pos}
	for _, p := range b.Parameters {
		t, err := v.resolveType(p.Type)
		if err != nil {
			return nil, err
		}
		if err := checkLabelParameterType(t, b.Pos); err != nil {
			return nil, err
		}
		label.Parameters = append(label.Parameters, &Variable{Name: p.Name, Type: t, Pos: b.Pos})
	}
	if err := v.ctx.Declare(label); err != nil {
		return nil, err
	}
	if v.ctx.Options.Verbose {
		v.logger.Debug("declared label %s with %d parameter(s)", label.Name, len(label.Parameters))
	}
	return label, nil
}

// checkLabelParameterType rejects label parameters that cannot carry a
// runtime value.
func checkLabelParameterType(t *Type, pos ast.Pos) error {
	if t.IsConstexpr() {
		return diagnostics.Errorf(diagnostics.InvalidDeclaration, pos,
			"no constexpr type allowed for label arguments, got %s", t)
	}
	return nil
}

func (v *DeclarationVisitor) visitLabelBody(label *Label, body ast.Statement) error {
	defer v.ctx.EnterScope()()
	for _, p := range label.Parameters {
		if err := v.ctx.Declare(p); err != nil {
			return err
		}
	}
	return v.visitStatement(body)
}
