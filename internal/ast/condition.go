package ast

import "fmt"

// Condition is a symbolic description of an atomic assignment that makes a
// formula true or false. It is derived from a Formula, never parsed.
type Condition interface {
	String() string
	conditionNode()
}

// Literal requires the named atom to have the given truth value
type Literal struct {
	Name  string
	Truth bool
}

// Pair joins the conditions of the two sides of a binary connective
type Pair struct {
	First  Condition
	Second Condition
}

func (*Literal) conditionNode() {}
func (*Pair) conditionNode()    {}

func NewLiteral(name string, truth bool) *Literal { return &Literal{Name: name, Truth: truth} }

func NewPair(first, second Condition) *Pair { return &Pair{First: first, Second: second} }

func (l *Literal) String() string { return fmt.Sprintf("%s=%t", l.Name, l.Truth) }

func (p *Pair) String() string {
	return fmt.Sprintf("(%s, %s)", conditionString(p.First), conditionString(p.Second))
}

func conditionString(c Condition) string {
	if c == nil {
		return "<nil>"
	}
	return c.String()
}

// Literals appends every literal reachable from c to dst, left to right
func Literals(dst []*Literal, c Condition) []*Literal {
	switch c := c.(type) {
	case *Literal:
		return append(dst, c)
	case *Pair:
		dst = Literals(dst, c.First)
		return Literals(dst, c.Second)
	}
	return dst
}
