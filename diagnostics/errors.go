package diagnostics

import (
	"errors"
	"fmt"

	"github.com/arc-language/core-declarer/ast"
)

// Kind classifies a semantic error. Every kind is fatal to the unit.
type Kind int

const (
	// UnresolvedName: an identifier has no declaration in any active scope.
	UnresolvedName Kind = iota + 1
	// DuplicateDeclaration: the name is already bound in the current scope
	// with an incompatible declaration.
	DuplicateDeclaration
	// TypeResolutionError: a type expression cannot be resolved.
	TypeResolutionError
	// InvalidSpecialization: unknown generic, ambiguous match or wrong
	// number of type arguments.
	InvalidSpecialization
	// MalformedControlFlow: internal inconsistency of the split stack.
	MalformedControlFlow
	// InvalidDeclaration: a declaration whose shape is not allowed, such as
	// an external callable with a body.
	InvalidDeclaration
)

func (k Kind) String() string {
	switch k {
	case UnresolvedName:
		return "unresolved name"
	case DuplicateDeclaration:
		return "duplicate declaration"
	case TypeResolutionError:
		return "type resolution error"
	case InvalidSpecialization:
		return "invalid specialization"
	case MalformedControlFlow:
		return "malformed control flow"
	case InvalidDeclaration:
		return "invalid declaration"
	}
	return "unknown error"
}

// Error is a semantic error raised by the declaration pass.
type Error struct {
	Kind    Kind
	Pos     ast.Pos
	Message string
}

// Errorf builds an *Error of the given kind.
func Errorf(kind Kind, pos ast.Pos, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Pos: pos, Message: fmt.Sprintf(format, args...)}
}

func (e *Error) Error() string {
	if e.Pos == (ast.Pos{}) {
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	}
	return fmt.Sprintf("%s: %s: %s", e.Pos, e.Kind, e.Message)
}

// Is reports whether target is an *Error of the same kind, so callers can
// write errors.Is(err, &diagnostics.Error{Kind: diagnostics.UnresolvedName}).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// KindOf extracts the kind of a (possibly wrapped) semantic error.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return 0, false
}
