// Package ast defines the syntax tree handed to the declaration pass by the
// parser. The set of node kinds is closed: every interface below carries an
// unexported marker method so variants can only be defined in this package.
package ast

import "fmt"

// Pos is a source position. It is embedded in every node.
type Pos struct {
	File   string
	Line   int
	Column int
}

// Position returns the position itself so embedding Pos satisfies Node.
func (p Pos) Position() Pos { return p }

func (p Pos) String() string {
	if p.File == "" {
		return fmt.Sprintf("%d:%d", p.Line, p.Column)
	}
	return fmt.Sprintf("%s:%d:%d", p.File, p.Line, p.Column)
}

// Node is any syntax tree node.
type Node interface {
	Position() Pos
}

// Expression nodes produce a value.
type Expression interface {
	Node
	expressionNode()
}

// Statement nodes appear in callable bodies.
type Statement interface {
	Node
	statementNode()
}

// Declaration nodes appear at module level.
type Declaration interface {
	Node
	declarationNode()
}

// TypeExpression nodes name a type. They are resolved by the type service.
type TypeExpression interface {
	Node
	fmt.Stringer
	typeNode()
}

// Unit is the root of one compilation unit.
type Unit struct {
	Name    string
	Default *DefaultModule
}
