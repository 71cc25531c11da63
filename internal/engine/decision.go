package engine

import (
	"github.com/aris-lang/aris/internal/ast"
	"github.com/aris-lang/aris/internal/errors"
)

const tautologyUsage = "this method can be only invoked on arguments without conclusion and exactly one premise"

// MaxTableAtoms is the widest truth table whose row indices fit in 64 bits
const MaxTableAtoms = 62

// TruthTable enumerates every assignment of symbols. Row i assigns bit
// (N-1-j) of i to symbols[j], so the first symbol is the most significant.
// An empty symbol list yields no rows. The table is always complete; more
// than MaxTableAtoms symbols is a TooManyAtoms error.
func TruthTable(symbols []string) ([]Bindings, error) {
	n := len(symbols)
	if n > MaxTableAtoms {
		return nil, errors.TooManyAtoms(n, MaxTableAtoms)
	}
	if n == 0 {
		return nil, nil
	}
	rows := make([]Bindings, 0, uint64(1)<<n)
	for i := uint64(0); i < uint64(1)<<n; i++ {
		rows = append(rows, row(symbols, i))
	}
	return rows, nil
}

func row(symbols []string, i uint64) Bindings {
	n := len(symbols)
	b := make(Bindings, n)
	for j, name := range symbols {
		b[name] = i&(uint64(1)<<(n-1-j)) != 0
	}
	return b
}

// Checker runs the tautology and validity checks. A positive MaxAtoms caps
// the number of free atoms a check may enumerate; zero means no cap.
type Checker struct {
	MaxAtoms int
}

func (c Checker) limit() int {
	if c.MaxAtoms <= 0 || c.MaxAtoms > MaxTableAtoms {
		return MaxTableAtoms
	}
	return c.MaxAtoms
}

// each calls fn for every row of the truth table over symbols until fn
// returns false or an error. Rows are built lazily.
func (c Checker) each(symbols []string, fn func(Bindings) (bool, error)) error {
	n := len(symbols)
	if n > c.limit() {
		return errors.TooManyAtoms(n, c.limit())
	}
	if n == 0 {
		return nil
	}
	for i := uint64(0); i < uint64(1)<<n; i++ {
		more, err := fn(row(symbols, i))
		if err != nil || !more {
			return err
		}
	}
	return nil
}

// IsTautology reports whether the sole premise of arg is true under every
// assignment of its free atoms. arg must have exactly one premise and no
// conclusion.
func (c Checker) IsTautology(arg *ast.Argument) (bool, error) {
	if arg == nil || !arg.IsTautologyCheck() {
		return false, errors.InvalidUsage(tautologyUsage)
	}
	premise := arg.Premises[0]

	result := true
	err := c.each(FreeSymbols(premise), func(b Bindings) (bool, error) {
		v, err := Valuate(premise, b)
		if err != nil {
			return false, err
		}
		if !v {
			result = false
		}
		return v, nil
	})
	if err != nil {
		return false, err
	}
	return result, nil
}

// IsValid reports whether no assignment makes every premise of arg true
// and its conclusion false.
func (c Checker) IsValid(arg *ast.Argument) (bool, error) {
	if arg == nil || arg.Conclusion == nil {
		return false, errors.InvalidUsage("validity can only be decided for arguments with a conclusion")
	}

	formulae := make([]ast.Formula, 0, len(arg.Premises)+1)
	formulae = append(formulae, ast.Not(arg.Conclusion))
	formulae = append(formulae, arg.Premises...)

	valid := true
	err := c.each(FreeSymbols(formulae...), func(b Bindings) (bool, error) {
		for _, f := range formulae {
			v, err := Valuate(f, b)
			if err != nil {
				return false, err
			}
			if !v {
				return true, nil
			}
		}
		// counterexample: premises hold, conclusion fails
		valid = false
		return false, nil
	})
	if err != nil {
		return false, err
	}
	return valid, nil
}

// IsTautology runs the tautology check without an atom cap
func IsTautology(arg *ast.Argument) (bool, error) {
	return Checker{}.IsTautology(arg)
}

// IsValid runs the validity check without an atom cap
func IsValid(arg *ast.Argument) (bool, error) {
	return Checker{}.IsValid(arg)
}
