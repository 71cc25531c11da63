// Package ast - Visitor pattern implementation for formula traversal.
package ast

// Visitor visits every formula node kind
type Visitor interface {
	VisitAtom(node *Atom) interface{}
	VisitNegation(node *Negation) interface{}
	VisitConjunction(node *Conjunction) interface{}
	VisitDisjunction(node *Disjunction) interface{}
	VisitConditional(node *Conditional) interface{}
	VisitArgument(node *Argument) interface{}
}

// BaseVisitor returns nil for all visits so concrete visitors only override
// the methods they need.
type BaseVisitor struct{}

func (v *BaseVisitor) VisitAtom(node *Atom) interface{}               { return nil }
func (v *BaseVisitor) VisitNegation(node *Negation) interface{}       { return nil }
func (v *BaseVisitor) VisitConjunction(node *Conjunction) interface{} { return nil }
func (v *BaseVisitor) VisitDisjunction(node *Disjunction) interface{} { return nil }
func (v *BaseVisitor) VisitConditional(node *Conditional) interface{} { return nil }
func (v *BaseVisitor) VisitArgument(node *Argument) interface{}       { return nil }

func (a *Atom) Accept(visitor Visitor) interface{}        { return visitor.VisitAtom(a) }
func (n *Negation) Accept(visitor Visitor) interface{}    { return visitor.VisitNegation(n) }
func (c *Conjunction) Accept(visitor Visitor) interface{} { return visitor.VisitConjunction(c) }
func (d *Disjunction) Accept(visitor Visitor) interface{} { return visitor.VisitDisjunction(d) }
func (c *Conditional) Accept(visitor Visitor) interface{} { return visitor.VisitConditional(c) }
func (a *Argument) Accept(visitor Visitor) interface{}    { return visitor.VisitArgument(a) }

// Walk visits f and all of its descendants in pre-order. Returning false
// from fn prunes the subtree.
func Walk(f Formula, fn func(Formula) bool) {
	if f == nil || !fn(f) {
		return
	}
	switch n := f.(type) {
	case *Negation:
		Walk(n.Operand, fn)
	case *Conjunction:
		Walk(n.Left, fn)
		Walk(n.Right, fn)
	case *Disjunction:
		Walk(n.Left, fn)
		Walk(n.Right, fn)
	case *Conditional:
		Walk(n.Left, fn)
		Walk(n.Right, fn)
	case *Argument:
		for _, p := range n.Premises {
			Walk(p, fn)
		}
		Walk(n.Conclusion, fn)
	}
}

// Atoms returns the distinct atom names of f in order of first occurrence
func Atoms(f Formula) []string {
	seen := make(map[string]bool)
	var names []string
	Walk(f, func(n Formula) bool {
		if a, ok := n.(*Atom); ok && !seen[a.Name] {
			seen[a.Name] = true
			names = append(names, a.Name)
		}
		return true
	})
	return names
}

// depthVisitor measures nesting depth; an atom has depth 1
type depthVisitor struct {
	BaseVisitor
}

func (v *depthVisitor) VisitAtom(node *Atom) interface{} { return 1 }

func (v *depthVisitor) VisitNegation(node *Negation) interface{} {
	return 1 + node.Operand.Accept(v).(int)
}

func (v *depthVisitor) VisitConjunction(node *Conjunction) interface{} {
	return 1 + max(node.Left.Accept(v).(int), node.Right.Accept(v).(int))
}

func (v *depthVisitor) VisitDisjunction(node *Disjunction) interface{} {
	return 1 + max(node.Left.Accept(v).(int), node.Right.Accept(v).(int))
}

func (v *depthVisitor) VisitConditional(node *Conditional) interface{} {
	return 1 + max(node.Left.Accept(v).(int), node.Right.Accept(v).(int))
}

func (v *depthVisitor) VisitArgument(node *Argument) interface{} {
	depth := 0
	for _, p := range node.Premises {
		depth = max(depth, p.Accept(v).(int))
	}
	if node.Conclusion != nil {
		depth = max(depth, node.Conclusion.Accept(v).(int))
	}
	return depth
}

// Depth returns the nesting depth of f
func Depth(f Formula) int {
	if f == nil {
		return 0
	}
	return f.Accept(&depthVisitor{}).(int)
}
