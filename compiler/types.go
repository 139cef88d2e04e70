package compiler

import (
	"fmt"

	"github.com/arc-language/core-builder/types"
)

// Type is a canonical DSL type. Types are compared by identity: an alias
// resolves to the very same *Type as its target.
type Type struct {
	name    string
	parent  *Type
	elem    *Type
	length  int64
	aliases []string
	lowered types.Type

	constexpr bool
}

// Name is the name the type was created with.
func (t *Type) Name() string { return t.name }

// Aliases lists the alias names registered for t, in registration order.
func (t *Type) Aliases() []string { return t.aliases }

// AddAlias records that name denotes t.
func (t *Type) AddAlias(name string) {
	for _, a := range t.aliases {
		if a == name {
			return
		}
	}
	t.aliases = append(t.aliases, name)
}

// IsConstexpr reports whether t only has compile-time values.
func (t *Type) IsConstexpr() bool { return t.constexpr }

// Parent is the type t extends, or nil.
func (t *Type) Parent() *Type { return t.parent }

// Elem is the element type of pointer and array types.
func (t *Type) Elem() *Type { return t.elem }

// Lowered is the IR type used when generating code for values of t.
func (t *Type) Lowered() types.Type { return t.lowered }

// IsSubtypeOf reports whether t is o or extends it, transitively.
func (t *Type) IsSubtypeOf(o *Type) bool {
	for c := t; c != nil; c = c.parent {
		if c == o {
			return true
		}
	}
	return false
}

// IsVoidOrNever reports whether values of t cannot exist.
func (t *Type) IsVoidOrNever() bool {
	return t.name == "void" || t.name == "never"
}

func (t *Type) String() string {
	if t == nil {
		return "<nil>"
	}
	return t.name
}

type arrayKey struct {
	elem   *Type
	length int64
}

// TypeService owns the canonical type objects of a unit. Named types are
// looked up through the scope table; the service only creates and
// canonicalizes types.
type TypeService struct {
	builtins map[string]*Type
	order    []string
	pointers map[*Type]*Type
	arrays   map[arrayKey]*Type
}

// NewTypeService creates a service preloaded with the builtin types.
func NewTypeService() *TypeService {
	ts := &TypeService{
		builtins: make(map[string]*Type),
		pointers: make(map[*Type]*Type),
		arrays:   make(map[arrayKey]*Type),
	}
	ts.registerBuiltinTypes()
	return ts
}

// registerBuiltinTypes registers primitive types and their aliases
func (ts *TypeService) registerBuiltinTypes() {
	// Signed integers
	ts.builtin("int8", types.I8, "i8")
	ts.builtin("int16", types.I16, "i16")
	ts.builtin("int32", types.I32, "i32", "rune")
	ts.builtin("int64", types.I64, "i64", "int") // Default int is 64-bit
	ts.builtin("int128", types.I128, "i128")

	// Unsigned integers
	ts.builtin("uint8", types.U8, "u8", "byte")
	ts.builtin("uint16", types.U16, "u16")
	ts.builtin("uint32", types.U32, "u32")
	ts.builtin("uint64", types.U64, "u64", "uint")

	// Floating point
	ts.builtin("float16", types.F16, "f16")
	ts.builtin("float32", types.F32, "f32")
	ts.builtin("float64", types.F64, "f64", "float")
	ts.builtin("float128", types.F128, "f128")

	// Special types
	ts.builtin("bool", types.I1, "i1")
	ts.builtin("void", types.Void)
	ts.builtin("never", types.Void)
}

func (ts *TypeService) builtin(name string, lowered types.Type, aliases ...string) {
	t := &Type{name: name, lowered: lowered}
	ts.builtins[name] = t
	ts.order = append(ts.order, name)
	for _, a := range aliases {
		t.AddAlias(a)
		ts.builtins[a] = t
		ts.order = append(ts.order, a)
	}
}

// Builtin returns a builtin type by name or alias.
func (ts *TypeService) Builtin(name string) (*Type, bool) {
	t, ok := ts.builtins[name]
	return t, ok
}

// BuiltinNames lists builtin names and aliases in registration order.
func (ts *TypeService) BuiltinNames() []string {
	return ts.order
}

// Void is the builtin void type.
func (ts *TypeService) Void() *Type { return ts.builtins["void"] }

// NewAbstractType creates a fresh named type extending parent (which may be
// nil). Values of types without a parent are opaque handles.
func (ts *TypeService) NewAbstractType(name string, parent *Type) *Type {
	t := &Type{name: name, parent: parent}
	if parent != nil {
		t.lowered = parent.lowered
	} else {
		t.lowered = types.NewPointer(types.I8)
	}
	return t
}

// NewConstexprType is NewAbstractType for a type whose values only exist at
// compile time.
func (ts *TypeService) NewConstexprType(name string, parent *Type) *Type {
	t := ts.NewAbstractType(name, parent)
	t.constexpr = true
	return t
}

// PointerTo returns the canonical pointer type to elem.
func (ts *TypeService) PointerTo(elem *Type) *Type {
	if t, ok := ts.pointers[elem]; ok {
		return t
	}
	t := &Type{
		name:    "*" + elem.name,
		elem:    elem,
		lowered: types.NewPointer(elem.lowered),
	}
	ts.pointers[elem] = t
	return t
}

// ArrayOf returns the canonical array type of length elements of elem.
func (ts *TypeService) ArrayOf(elem *Type, length int64) *Type {
	key := arrayKey{elem: elem, length: length}
	if t, ok := ts.arrays[key]; ok {
		return t
	}
	t := &Type{
		name:    fmt.Sprintf("[%d]%s", length, elem.name),
		elem:    elem,
		length:  length,
		lowered: types.NewArray(elem.lowered, length),
	}
	ts.arrays[key] = t
	return t
}
