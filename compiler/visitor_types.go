package compiler

import (
	"fmt"

	"github.com/arc-language/core-declarer/ast"
	"github.com/arc-language/core-declarer/diagnostics"
)

// resolveType maps a type expression to its canonical type. Named types go
// through the scope table, so type parameters bound during specialization
// resolve to their arguments.
func (v *DeclarationVisitor) resolveType(expr ast.TypeExpression) (*Type, error) {
	switch t := expr.(type) {
	case *ast.BasicType:
		return v.ctx.LookupType(t.Name, t.Pos)
	case *ast.PointerType:
		elem, err := v.resolveType(t.Elem)
		if err != nil {
			return nil, err
		}
		return v.ctx.Types.PointerTo(elem), nil
	case *ast.ArrayType:
		if t.Length < 0 {
			return nil, diagnostics.Errorf(diagnostics.TypeResolutionError, t.Pos,
				"negative array length %d", t.Length)
		}
		elem, err := v.resolveType(t.Elem)
		if err != nil {
			return nil, err
		}
		return v.ctx.Types.ArrayOf(elem, t.Length), nil
	case nil:
		return nil, diagnostics.Errorf(diagnostics.TypeResolutionError, ast.Pos{}, "missing type")
	default:
		panic(fmt.Sprintf("unexpected type node %T", expr))
	}
}

func (v *DeclarationVisitor) resolveTypes(exprs []ast.TypeExpression) ([]*Type, error) {
	ts := make([]*Type, len(exprs))
	for i, e := range exprs {
		t, err := v.resolveType(e)
		if err != nil {
			return nil, err
		}
		ts[i] = t
	}
	return ts, nil
}

// resolveSignature resolves every type of sig. A missing return type means
// void.
func (v *DeclarationVisitor) resolveSignature(sig *ast.Signature) (*Signature, error) {
	if sig == nil {
		sig = &ast.Signature{}
	}
	out := &Signature{
		ParameterNames: make([]string, len(sig.Parameters)),
		ParameterTypes: make([]*Type, len(sig.Parameters)),
		Varargs:        sig.Varargs,
		Return:         v.ctx.Types.Void(),
	}

	// Parameters
	for i, p := range sig.Parameters {
		t, err := v.resolveType(p.Type)
		if err != nil {
			return nil, err
		}
		out.ParameterNames[i] = p.Name
		out.ParameterTypes[i] = t
	}

	// Return type
	if sig.Return != nil {
		t, err := v.resolveType(sig.Return)
		if err != nil {
			return nil, err
		}
		out.Return = t
	}

	// Labels
	for _, l := range sig.Labels {
		ts, err := v.resolveTypes(l.Types)
		if err != nil {
			return nil, err
		}
		out.Labels = append(out.Labels, LabelSignature{Name: l.Name, Types: ts})
	}
	return out, nil
}
