// Package engine decides propositional formulas: valuation against a set of
// bindings, free symbol discovery through truth conditions, truth table
// enumeration and the tautology and validity checks built on top of them.
package engine

import (
	"sort"

	"github.com/aris-lang/aris/internal/ast"
	"github.com/aris-lang/aris/internal/errors"
)

// Bindings assigns a truth value to each atom name
type Bindings map[string]bool

// Clone returns an independent copy of b
func (b Bindings) Clone() Bindings {
	out := make(Bindings, len(b))
	for k, v := range b {
		out[k] = v
	}
	return out
}

// Names returns the bound atom names in lexical order
func (b Bindings) Names() []string {
	names := make([]string, 0, len(b))
	for k := range b {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Valuate computes the truth value of f under b. An atom missing from b
// yields a MissingSymbol error.
func Valuate(f ast.Formula, b Bindings) (bool, error) {
	switch n := f.(type) {
	case *ast.Atom:
		v, ok := b[n.Name]
		if !ok {
			return false, errors.MissingSymbol(n.Name)
		}
		return v, nil

	case *ast.Negation:
		v, err := Valuate(n.Operand, b)
		if err != nil {
			return false, err
		}
		return !v, nil

	case *ast.Conjunction:
		// both sides are always evaluated so missing symbols surface on either side
		left, err := Valuate(n.Left, b)
		if err != nil {
			return false, err
		}
		right, err := Valuate(n.Right, b)
		if err != nil {
			return false, err
		}
		return left && right, nil

	case *ast.Disjunction:
		left, err := Valuate(n.Left, b)
		if err != nil || left {
			return left, err
		}
		return Valuate(n.Right, b)

	case *ast.Conditional:
		left, err := Valuate(n.Left, b)
		if err != nil {
			return false, err
		}
		if !left {
			return true, nil
		}
		return Valuate(n.Right, b)

	case *ast.Argument:
		return valuateArgument(n, b)
	}
	return false, errors.InvalidUsage("cannot valuate an empty formula")
}

// valuateArgument is the conjunction of all premises and the conclusion.
// Evaluation stops at the first false premise.
func valuateArgument(arg *ast.Argument, b Bindings) (bool, error) {
	for _, p := range arg.Premises {
		v, err := Valuate(p, b)
		if err != nil {
			return false, err
		}
		if !v {
			return false, nil
		}
	}
	if arg.Conclusion == nil {
		return true, nil
	}
	return Valuate(arg.Conclusion, b)
}
