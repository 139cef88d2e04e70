package ast

import "fmt"

// BasicType names a declared type, a builtin type or a generic type
// parameter.
type BasicType struct {
	Pos
	Name string
}

type PointerType struct {
	Pos
	Elem TypeExpression
}

type ArrayType struct {
	Pos
	Elem   TypeExpression
	Length int64
}

func (t *BasicType) String() string   { return t.Name }
func (t *PointerType) String() string { return "*" + t.Elem.String() }
func (t *ArrayType) String() string   { return fmt.Sprintf("[%d]%s", t.Length, t.Elem) }

func (*BasicType) typeNode()   {}
func (*PointerType) typeNode() {}
func (*ArrayType) typeNode()   {}
