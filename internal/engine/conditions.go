package engine

import "github.com/aris-lang/aris/internal/ast"

// TruthConditions derives the conditions under which f is true. A binary
// connective combines the first condition of each operand, so the result
// names every atom of f without enumerating all assignments.
func TruthConditions(f ast.Formula) []ast.Condition {
	switch n := f.(type) {
	case *ast.Negation:
		return FalsehoodConditions(n.Operand)
	case *ast.Atom:
		return []ast.Condition{ast.NewLiteral(n.Name, true)}
	case *ast.Conditional:
		lf, lt := FalsehoodConditions(n.Left), TruthConditions(n.Left)
		rf, rt := FalsehoodConditions(n.Right), TruthConditions(n.Right)
		if len(lf) == 0 {
			return nil
		}
		return []ast.Condition{
			pair(lf, rf),
			pair(lf, rt),
			pair(lt, rt),
		}
	case *ast.Conjunction:
		return []ast.Condition{pair(TruthConditions(n.Left), TruthConditions(n.Right))}
	case *ast.Disjunction:
		lf, lt := FalsehoodConditions(n.Left), TruthConditions(n.Left)
		rf, rt := FalsehoodConditions(n.Right), TruthConditions(n.Right)
		if len(lf) == 0 {
			return nil
		}
		return []ast.Condition{
			pair(lt, rf),
			pair(lf, rt),
			pair(lt, rt),
		}
	}
	return nil
}

// FalsehoodConditions derives the conditions under which f is false
func FalsehoodConditions(f ast.Formula) []ast.Condition {
	switch n := f.(type) {
	case *ast.Negation:
		return TruthConditions(n.Operand)
	case *ast.Atom:
		return []ast.Condition{ast.NewLiteral(n.Name, false)}
	case *ast.Conditional:
		return []ast.Condition{pair(TruthConditions(n.Left), FalsehoodConditions(n.Right))}
	case *ast.Conjunction:
		lf, lt := FalsehoodConditions(n.Left), TruthConditions(n.Left)
		rf, rt := FalsehoodConditions(n.Right), TruthConditions(n.Right)
		return []ast.Condition{
			pair(lf, rf),
			pair(lf, rt),
			pair(lt, rf),
		}
	case *ast.Disjunction:
		return []ast.Condition{pair(FalsehoodConditions(n.Left), FalsehoodConditions(n.Right))}
	}
	return nil
}

func pair(first, second []ast.Condition) ast.Condition {
	return ast.NewPair(head(first), head(second))
}

func head(conds []ast.Condition) ast.Condition {
	if len(conds) == 0 {
		return nil
	}
	return conds[0]
}

// Symbols collects the distinct literal names of conds in first-seen order
func Symbols(conds []ast.Condition) []string {
	return appendSymbols(nil, make(map[string]bool), conds)
}

func appendSymbols(dst []string, seen map[string]bool, conds []ast.Condition) []string {
	var lits []*ast.Literal
	for _, c := range conds {
		lits = ast.Literals(lits[:0], c)
		for _, l := range lits {
			if !seen[l.Name] {
				seen[l.Name] = true
				dst = append(dst, l.Name)
			}
		}
	}
	return dst
}

// FreeSymbols returns the union of the free atoms of fs, discovered through
// their truth conditions, in first-seen order.
func FreeSymbols(fs ...ast.Formula) []string {
	seen := make(map[string]bool)
	var names []string
	for _, f := range fs {
		names = appendSymbols(names, seen, TruthConditions(f))
	}
	return names
}
