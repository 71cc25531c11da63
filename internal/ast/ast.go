// Package ast defines the well-formed formula (WFF) tree of the Aris
// propositional logic language.
// Formula trees are strictly tree-shaped: every node owns its children.
// Arguments are the only nodes shared, by name, between statements.
package ast

import "strings"

// Formula is the closed set of WFF nodes
type Formula interface {
	// String renders the formula in source syntax
	String() string
	// Accept implements the visitor pattern for formula traversal
	Accept(visitor Visitor) interface{}
	formulaNode() // Marker method to close the set
}

// Atom is an uppercase-led propositional variable
type Atom struct {
	Name string
}

// Negation is the unary NOT connective
type Negation struct {
	Operand Formula
}

// Conjunction is the binary AND connective
type Conjunction struct {
	Left  Formula
	Right Formula
}

// Disjunction is the binary OR connective
type Disjunction struct {
	Left  Formula
	Right Formula
}

// Conditional is material implication
type Conditional struct {
	Left  Formula
	Right Formula
}

// Argument bundles ordered premises with an optional conclusion.
// A nil Conclusion marks a pure tautology check.
type Argument struct {
	Premises   []Formula
	Conclusion Formula
}

func (*Atom) formulaNode()        {}
func (*Negation) formulaNode()    {}
func (*Conjunction) formulaNode() {}
func (*Disjunction) formulaNode() {}
func (*Conditional) formulaNode() {}
func (*Argument) formulaNode()    {}

func NewAtom(name string) *Atom            { return &Atom{Name: name} }
func Not(operand Formula) *Negation        { return &Negation{Operand: operand} }
func And(left, right Formula) *Conjunction { return &Conjunction{Left: left, Right: right} }
func Or(left, right Formula) *Disjunction  { return &Disjunction{Left: left, Right: right} }
func Implies(left, right Formula) *Conditional {
	return &Conditional{Left: left, Right: right}
}

// NewArgument creates an argument; conclusion may be nil
func NewArgument(conclusion Formula, premises ...Formula) *Argument {
	return &Argument{Premises: premises, Conclusion: conclusion}
}

// AddPremise appends a premise, preserving insertion order
func (a *Argument) AddPremise(premise Formula) {
	a.Premises = append(a.Premises, premise)
}

// IsTautologyCheck reports whether the argument has exactly one premise
// and no conclusion
func (a *Argument) IsTautologyCheck() bool {
	return a.Conclusion == nil && len(a.Premises) == 1
}

func (a *Atom) String() string { return a.Name }

func (n *Negation) String() string { return "!" + n.Operand.String() }

func (c *Conjunction) String() string { return binary(c.Left, "&", c.Right) }

func (d *Disjunction) String() string { return binary(d.Left, "|", d.Right) }

func (c *Conditional) String() string { return binary(c.Left, "->", c.Right) }

// String renders "P1, P2 => C"; without a conclusion only the premises are shown
func (a *Argument) String() string {
	parts := make([]string, len(a.Premises))
	for i, p := range a.Premises {
		parts[i] = p.String()
	}
	premises := strings.Join(parts, ", ")
	if a.Conclusion == nil {
		return premises
	}
	return premises + " => " + a.Conclusion.String()
}

func binary(left Formula, op string, right Formula) string {
	var b strings.Builder
	b.WriteByte('(')
	b.WriteString(left.String())
	b.WriteByte(' ')
	b.WriteString(op)
	b.WriteByte(' ')
	b.WriteString(right.String())
	b.WriteByte(')')
	return b.String()
}
