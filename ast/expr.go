package ast

// Identifier references a declaration by name. TypeArguments is non-empty for
// references to a specialization of a generic, e.g. Convert<int32>.
type Identifier struct {
	Pos
	Name          string
	TypeArguments []TypeExpression
}

type NumberLiteral struct {
	Pos
	Value string
}

type StringLiteral struct {
	Pos
	Value string
}

// Call invokes Callee. Labels lists the labels passed as early-exit targets
// ("otherwise" clauses).
type Call struct {
	Pos
	Callee    *Identifier
	Arguments []Expression
	Labels    []string
}

type ElementAccess struct {
	Pos
	Array Expression
	Index Expression
}

type FieldAccess struct {
	Pos
	Object Expression
	Field  string
}

// Assignment stores Value into Location. Operator is empty for plain
// assignment and holds the binary operator for compound forms ("+", "|", ...).
type Assignment struct {
	Pos
	Location Expression
	Operator string
	Value    Expression
}

// IncDecOp distinguishes ++ from --.
type IncDecOp int

const (
	Increment IncDecOp = iota
	Decrement
)

type IncrementDecrement struct {
	Pos
	Location Expression
	Op       IncDecOp
	Postfix  bool
}

type LogicalOr struct {
	Pos
	Left  Expression
	Right Expression
}

type LogicalAnd struct {
	Pos
	Left  Expression
	Right Expression
}

// Conditional is the ternary "cond ? a : b".
type Conditional struct {
	Pos
	Condition Expression
	IfTrue    Expression
	IfFalse   Expression
}

func (*Identifier) expressionNode()         {}
func (*NumberLiteral) expressionNode()      {}
func (*StringLiteral) expressionNode()      {}
func (*Call) expressionNode()               {}
func (*ElementAccess) expressionNode()      {}
func (*FieldAccess) expressionNode()        {}
func (*Assignment) expressionNode()         {}
func (*IncrementDecrement) expressionNode() {}
func (*LogicalOr) expressionNode()          {}
func (*LogicalAnd) expressionNode()         {}
func (*Conditional) expressionNode()        {}
