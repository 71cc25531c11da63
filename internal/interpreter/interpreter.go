// Package interpreter executes tokenized Aris statements. It owns the atom
// values and named arguments of a run and prints one line per PRINT,
// ASSERT, VALIDATE and VALUATE statement.
package interpreter

import (
	"context"
	"fmt"
	"io"
	"sort"

	"github.com/aris-lang/aris/internal/ast"
	"github.com/aris-lang/aris/internal/engine"
	"github.com/aris-lang/aris/internal/errors"
	"github.com/aris-lang/aris/internal/lexer"
	"github.com/aris-lang/aris/internal/parser"
)

// Logger receives debug traces of executed statements
type Logger interface {
	Debug(format string, args ...interface{})
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...interface{}) {}

// ResultKind identifies the statement that produced a Result
type ResultKind int

const (
	ResultAssertion ResultKind = iota
	ResultValidation
	ResultValuation
)

func (k ResultKind) String() string {
	switch k {
	case ResultAssertion:
		return "assert"
	case ResultValidation:
		return "validate"
	case ResultValuation:
		return "valuate"
	}
	return "unknown"
}

// Result records the outcome of one decision statement
type Result struct {
	Kind     ResultKind
	Argument string
	Value    bool
	Line     int
}

// Option configures an Interpreter
type Option func(*Interpreter)

// WithLogger sets the debug logger
func WithLogger(l Logger) Option {
	return func(in *Interpreter) {
		if l != nil {
			in.logger = l
		}
	}
}

// WithMaxDepth bounds formula nesting; zero means unlimited
func WithMaxDepth(n int) Option {
	return func(in *Interpreter) { in.maxDepth = n }
}

// WithMaxAtoms bounds the number of free atoms a decision may enumerate
func WithMaxAtoms(n int) Option {
	return func(in *Interpreter) { in.checker.MaxAtoms = n }
}

// WithCheckOnly parses statements and resolves argument names without
// running the decision engine or printing anything.
func WithCheckOnly() Option {
	return func(in *Interpreter) { in.checkOnly = true }
}

// Interpreter holds the symbol tables of one run. It is not safe for
// concurrent use.
type Interpreter struct {
	out       io.Writer
	logger    Logger
	maxDepth  int
	checkOnly bool
	checker   engine.Checker

	atoms     engine.Bindings
	arguments map[string]*ast.Argument
	results   []Result
}

// New creates an interpreter writing program output to out
func New(out io.Writer, opts ...Option) *Interpreter {
	in := &Interpreter{
		out:    out,
		logger: nopLogger{},
	}
	for _, opt := range opts {
		opt(in)
	}
	in.Reset()
	return in
}

// Reset discards all atom values, arguments and results
func (in *Interpreter) Reset() {
	in.atoms = make(engine.Bindings)
	in.arguments = make(map[string]*ast.Argument)
	in.results = nil
}

// Atoms returns a copy of the current atom values
func (in *Interpreter) Atoms() engine.Bindings {
	return in.atoms.Clone()
}

// Arguments returns the defined argument names in lexical order
func (in *Interpreter) Arguments() []string {
	names := make([]string, 0, len(in.arguments))
	for name := range in.arguments {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Argument returns the argument defined under name
func (in *Interpreter) Argument(name string) (*ast.Argument, bool) {
	arg, ok := in.arguments[name]
	return arg, ok
}

// Results returns the decision results in execution order
func (in *Interpreter) Results() []Result {
	out := make([]Result, len(in.results))
	copy(out, in.results)
	return out
}

// Run executes statements in order and stops at the first error. Statements
// already executed keep their effects.
func (in *Interpreter) Run(ctx context.Context, statements []lexer.Statement) error {
	for _, stmt := range statements {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := in.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// Exec executes a single statement
func (in *Interpreter) Exec(stmt lexer.Statement) error {
	if len(stmt.Tokens) == 0 {
		return nil
	}
	in.logger.Debug("line %d: %s", stmt.Line, stmt.Head())

	q := stmt.Queue()
	head, _ := q.Pop()
	switch head.Type {
	case lexer.TokenPrint:
		return in.execPrint(q)
	case lexer.TokenAtom:
		return in.execAssign(head.Literal, q)
	case lexer.TokenArgument:
		return in.execArgument(q)
	case lexer.TokenAssert:
		return in.execAssert(stmt.Line, q)
	case lexer.TokenValidate:
		return in.execValidate(stmt.Line, q)
	case lexer.TokenValuate:
		return in.execValuate(stmt.Line, q)
	}
	return errors.UnexpectedSymbol(head.Literal)
}

func (in *Interpreter) execPrint(q *lexer.Queue) error {
	text := ""
	if q.PeekIs(lexer.TokenString) {
		tok, _ := q.Pop()
		text = tok.Literal
	}
	if err := expectEnd(q); err != nil {
		return err
	}
	if in.checkOnly {
		return nil
	}
	_, err := fmt.Fprintln(in.out, text)
	return err
}

// execAssign binds an atom; any value other than true binds false
func (in *Interpreter) execAssign(name string, q *lexer.Queue) error {
	if _, err := expect(q, lexer.TokenAssign); err != nil {
		return err
	}

	tok, ok := q.Pop()
	if !ok {
		return errors.UnexpectedSymbol(errors.EndOfInput)
	}
	if err := expectEnd(q); err != nil {
		return err
	}
	in.atoms[name] = tok.Type == lexer.TokenTrue
	in.logger.Debug("%s := %t", name, in.atoms[name])
	return nil
}

// execArgument parses "name := P1, P2, ... [therefore C]" and stores the
// argument, replacing any earlier definition.
func (in *Interpreter) execArgument(q *lexer.Queue) error {
	id, err := expect(q, lexer.TokenIdentifier)
	if err != nil {
		return err
	}
	if _, err := expect(q, lexer.TokenAssign); err != nil {
		return err
	}

	p := parser.NewParser(q, in.maxDepth)
	arg := ast.NewArgument(nil)
	for !q.Empty() {
		f, err := p.ParseFormula()
		if err != nil {
			return err
		}
		if f != nil {
			arg.AddPremise(f)
			if tok, ok := q.Peek(); ok && !isPremiseSeparator(tok.Type) {
				return errors.UnexpectedSymbol(tok.Literal)
			}
			continue
		}

		sep, _ := q.Pop()
		switch sep.Type {
		case lexer.TokenRightBracket:
			// a stray bracket is skipped once a premise exists
			if len(arg.Premises) == 0 {
				return errors.UnexpectedSymbol(sep.Literal)
			}
		case lexer.TokenComma:
			if q.Empty() {
				return errors.UnexpectedSymbol(errors.EndOfInput)
			}
		case lexer.TokenTherefore:
			if len(arg.Premises) == 0 {
				return errors.MissingPremises(id.Literal)
			}
			if arg.Conclusion, err = requireFormula(p); err != nil {
				return err
			}
			if err := expectEnd(q); err != nil {
				return err
			}
		default:
			return errors.UnexpectedSymbol(sep.Literal)
		}
	}

	if len(arg.Premises) == 0 {
		return errors.MissingPremises(id.Literal)
	}
	in.logger.Debug("argument %s := %s", id.Literal, arg)
	in.arguments[id.Literal] = arg
	return nil
}

func isPremiseSeparator(tt lexer.TokenType) bool {
	switch tt {
	case lexer.TokenComma, lexer.TokenRightBracket, lexer.TokenTherefore:
		return true
	}
	return false
}

func (in *Interpreter) execAssert(line int, q *lexer.Queue) error {
	arg, name, err := in.lookup(q)
	if err != nil || in.checkOnly {
		return err
	}
	ok, err := in.checker.IsTautology(arg)
	if err != nil {
		return err
	}
	in.record(ResultAssertion, name, ok, line)

	verdict := "a tautology"
	if !ok {
		verdict = "not a tautology"
	}
	_, err = fmt.Fprintf(in.out, "argument \"%s\" is %s\n", arg.Premises[0].String(), verdict)
	return err
}

func (in *Interpreter) execValidate(line int, q *lexer.Queue) error {
	arg, name, err := in.lookup(q)
	if err != nil || in.checkOnly {
		return err
	}
	ok, err := in.checker.IsValid(arg)
	if err != nil {
		return err
	}
	in.record(ResultValidation, name, ok, line)

	verdict := "valid"
	if !ok {
		verdict = "invalid"
	}
	_, err = fmt.Fprintf(in.out, "argument \"%s\" is %s\n", arg.String(), verdict)
	return err
}

func (in *Interpreter) execValuate(line int, q *lexer.Queue) error {
	arg, name, err := in.lookup(q)
	if err != nil || in.checkOnly {
		return err
	}
	ok, err := engine.Valuate(arg, in.atoms)
	if err != nil {
		return err
	}
	in.record(ResultValuation, name, ok, line)
	_, err = fmt.Fprintf(in.out, "argument \"%s\" is %t\n", arg.String(), ok)
	return err
}

// lookup pops the argument identifier ending a decision statement
func (in *Interpreter) lookup(q *lexer.Queue) (*ast.Argument, string, error) {
	id, err := expect(q, lexer.TokenIdentifier)
	if err != nil {
		return nil, "", err
	}
	if err := expectEnd(q); err != nil {
		return nil, "", err
	}
	arg, ok := in.arguments[id.Literal]
	if !ok {
		return nil, "", errors.UndefinedArgument(id.Literal)
	}
	return arg, id.Literal, nil
}

func (in *Interpreter) record(kind ResultKind, name string, value bool, line int) {
	in.logger.Debug("%s %s = %t", kind, name, value)
	in.results = append(in.results, Result{Kind: kind, Argument: name, Value: value, Line: line})
}

// requireFormula parses a formula that must be present
func requireFormula(p *parser.Parser) (ast.Formula, error) {
	f, err := p.ParseFormula()
	if err != nil {
		return nil, err
	}
	if f == nil {
		tok, _ := p.Queue().Peek()
		return nil, errors.UnexpectedSymbol(tok.Literal)
	}
	return f, nil
}

func expect(q *lexer.Queue, tt lexer.TokenType) (lexer.Token, error) {
	tok, ok := q.Pop()
	if !ok {
		return tok, errors.UnexpectedSymbol(errors.EndOfInput)
	}
	if tok.Type != tt {
		return tok, errors.UnexpectedSymbol(tok.Literal)
	}
	return tok, nil
}

func expectEnd(q *lexer.Queue) error {
	if tok, ok := q.Peek(); ok {
		return errors.UnexpectedSymbol(tok.Literal)
	}
	return nil
}
