package interpreter

import (
	"bytes"
	"context"
	stderrors "errors"
	"fmt"
	"reflect"
	"strings"
	"testing"

	"github.com/aris-lang/aris/internal/engine"
	"github.com/aris-lang/aris/internal/errors"
	"github.com/aris-lang/aris/internal/lexer"
)

func execSource(t *testing.T, in *Interpreter, src string) error {
	t.Helper()
	statements, err := lexer.TokenizeString(src)
	if err != nil {
		t.Fatalf("tokenize: %v", err)
	}
	return in.Run(context.Background(), statements)
}

func TestStatementOutput(t *testing.T) {
	tests := []struct {
		name     string
		source   string
		expected string
	}{
		{
			name:     "print string",
			source:   `print "hello, world"`,
			expected: "hello, world\n",
		},
		{
			name:     "print empty line",
			source:   "print",
			expected: "\n",
		},
		{
			name:     "tautology",
			source:   "argument lem := (P | !P)\nassert lem",
			expected: "argument \"(P | !P)\" is a tautology\n",
		},
		{
			name:     "not a tautology",
			source:   "argument c := (P & P)\nassert c",
			expected: "argument \"(P & P)\" is not a tautology\n",
		},
		{
			name:     "valid",
			source:   "argument hs := (P -> Q), (Q -> R) => (P -> R)\nvalidate hs",
			expected: "argument \"(P -> Q), (Q -> R) => (P -> R)\" is valid\n",
		},
		{
			name:     "invalid",
			source:   "argument ad := (P | Q) therefore P\nvalidate ad",
			expected: "argument \"(P | Q) => P\" is invalid\n",
		},
		{
			name:     "valuate true",
			source:   "P := true\nQ := false\nargument mp := P, (P -> Q) => Q\nvaluate mp",
			expected: "argument \"P, (P -> Q) => Q\" is false\n",
		},
		{
			name:     "valuate short circuits on false premise",
			source:   "P := false\nargument a := P therefore Q\nvaluate a",
			expected: "argument \"P => Q\" is false\n",
		},
		{
			name:     "valuate without conclusion",
			source:   "P := true\nargument a := P, !!P\nvaluate a",
			expected: "argument \"P, !!P\" is true\n",
		},
		{
			name:     "assign non-literal binds false",
			source:   "Q := true\nP := Q\nargument a := !P\nvaluate a",
			expected: "argument \"!P\" is true\n",
		},
		{
			name:     "stray closing bracket after premise",
			source:   "argument a := (P & Q))\nassert a",
			expected: "argument \"(P & Q)\" is not a tautology\n",
		},
		{
			name:     "stray closing bracket before conclusion",
			source:   "argument a := P, Q) => Q\nvalidate a",
			expected: "argument \"P, Q => Q\" is valid\n",
		},
		{
			name:     "redefinition",
			source:   "argument a := (P & Q)\nassert a\nargument a := (P -> P)\nassert a",
			expected: "argument \"(P & Q)\" is not a tautology\nargument \"(P -> P)\" is a tautology\n",
		},
		{
			name:     "comment lines",
			source:   "// nothing here\n\nprint \"x\" // trailing",
			expected: "x\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			if err := execSource(t, New(&out), tt.source); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if out.String() != tt.expected {
				t.Errorf("output = %q, want %q", out.String(), tt.expected)
			}
		})
	}
}

func TestStatementErrors(t *testing.T) {
	tests := []struct {
		name     string
		source   string
		expected string
		code     string
	}{
		{"undefined argument", "valuate nothing", "Undefined argument nothing", errors.CodeUndefinedArgument},
		{"missing premises", "argument a :=", "Missing premises for argument a", errors.CodeMissingPremises},
		{"missing assign", "argument a", "Unexpected symbol 'null'", errors.CodeMalformedFormula},
		{"trailing after conclusion", "argument a := P, Q therefore R, S", "Unexpected symbol ','", errors.CodeMalformedFormula},
		{"missing separator", "argument a := P (Q & R)", "Unexpected symbol '('", errors.CodeMalformedFormula},
		{"trailing comma", "argument a := P,", "Unexpected symbol 'null'", errors.CodeMalformedFormula},
		{"unclosed formula", "argument a := (P & Q", "Unexpected symbol 'null'", errors.CodeMalformedFormula},
		{"trailing after assignment", "P := true false", "Unexpected symbol 'false'", errors.CodeMalformedFormula},
		{"trailing after print", `print "a" "b"`, "Unexpected symbol 'b'", errors.CodeMalformedFormula},
		{"trailing after non-literal assignment", "P := (Q & R)", "Unexpected symbol 'Q'", errors.CodeMalformedFormula},
		{"valuate unbound", "argument a := P\nvaluate a", "Missing symbol P", errors.CodeMissingSymbol},
		{
			"tautology on two premises",
			"argument a := P, Q\nassert a",
			"this method can be only invoked on arguments without conclusion and exactly one premise",
			errors.CodeInvalidUsage,
		},
		{
			"tautology with conclusion",
			"argument a := P => P\nassert a",
			"this method can be only invoked on arguments without conclusion and exactly one premise",
			errors.CodeInvalidUsage,
		},
		{"validity without conclusion", "argument a := P\nvalidate a", "validity can only be decided for arguments with a conclusion", errors.CodeInvalidUsage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			err := execSource(t, New(&out), tt.source)
			if err == nil {
				t.Fatalf("expected error, output %q", out.String())
			}
			if err.Error() != tt.expected {
				t.Errorf("expected '%s', got '%s'", tt.expected, err.Error())
			}
			if got := errors.CodeOf(err); got != tt.code {
				t.Errorf("code = %s, want %s", got, tt.code)
			}
		})
	}
}

func TestLeadingClosingBracket(t *testing.T) {
	// the adjacency table keeps ")" away from ":=", so build the statement by hand
	stmt := lexer.Statement{Line: 1, Tokens: []lexer.Token{
		lexer.NewToken(lexer.TokenArgument),
		lexer.NewValueToken(lexer.TokenIdentifier, "a"),
		lexer.NewToken(lexer.TokenAssign),
		lexer.NewToken(lexer.TokenRightBracket),
		lexer.NewValueToken(lexer.TokenAtom, "P"),
	}}

	in := New(&bytes.Buffer{})
	err := in.Exec(stmt)
	if err == nil || err.Error() != "Unexpected symbol ')'" {
		t.Fatalf("Exec() = %v", err)
	}
	if _, ok := in.Argument("a"); ok {
		t.Error("argument defined despite the error")
	}
}

func TestRunStopsAtFirstError(t *testing.T) {
	var out bytes.Buffer
	in := New(&out)
	err := execSource(t, in, "print \"one\"\nvaluate missing\nprint \"two\"")
	if !errors.HasCode(err, errors.CodeUndefinedArgument) {
		t.Fatalf("unexpected error %v", err)
	}
	if out.String() != "one\n" {
		t.Errorf("output = %q", out.String())
	}
}

func TestRunHonoursContext(t *testing.T) {
	statements, err := lexer.TokenizeString("print \"x\"")
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out bytes.Buffer
	if err := New(&out).Run(ctx, statements); !stderrors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if out.Len() != 0 {
		t.Errorf("nothing should run after cancellation, got %q", out.String())
	}
}

func TestSymbolTables(t *testing.T) {
	var out bytes.Buffer
	in := New(&out)
	src := strings.Join([]string{
		"P := true",
		"Q := false",
		"argument zeta := (P | Q)",
		"argument alpha := P, Q => P",
		"assert zeta",
		"validate alpha",
		"valuate alpha",
	}, "\n")
	if err := execSource(t, in, src); err != nil {
		t.Fatal(err)
	}

	if got := in.Atoms(); !reflect.DeepEqual(got, engine.Bindings{"P": true, "Q": false}) {
		t.Errorf("Atoms() = %v", got)
	}
	if got := in.Arguments(); !reflect.DeepEqual(got, []string{"alpha", "zeta"}) {
		t.Errorf("Arguments() = %v", got)
	}
	if arg, ok := in.Argument("alpha"); !ok || arg.String() != "P, Q => P" {
		t.Errorf("Argument(alpha) = %v, %t", arg, ok)
	}

	want := []Result{
		{Kind: ResultAssertion, Argument: "zeta", Value: false, Line: 5},
		{Kind: ResultValidation, Argument: "alpha", Value: true, Line: 6},
		{Kind: ResultValuation, Argument: "alpha", Value: false, Line: 7},
	}
	if got := in.Results(); !reflect.DeepEqual(got, want) {
		t.Errorf("Results() = %+v, want %+v", got, want)
	}

	// Atoms returns a copy
	in.Atoms()["P"] = false
	if !in.Atoms()["P"] {
		t.Error("Atoms() exposed internal state")
	}

	in.Reset()
	if len(in.Atoms()) != 0 || len(in.Arguments()) != 0 || len(in.Results()) != 0 {
		t.Error("Reset() left state behind")
	}
}

func TestRepeatedStatementsAreIdempotent(t *testing.T) {
	var out bytes.Buffer
	in := New(&out)
	src := "P := true\nQ := true\nargument a := P, (P -> Q) => Q\n" +
		strings.Repeat("valuate a\nvalidate a\n", 3)
	if err := execSource(t, in, src); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 6 {
		t.Fatalf("expected 6 lines, got %d", len(lines))
	}
	for i := 2; i < len(lines); i++ {
		if lines[i] != lines[i-2] {
			t.Errorf("line %d = %q, want %q", i, lines[i], lines[i-2])
		}
	}
}

func TestLimits(t *testing.T) {
	var out bytes.Buffer

	err := execSource(t, New(&out, WithMaxDepth(3)), "argument a := !!!P")
	if !errors.HasCode(err, errors.CodeDepthExceeded) {
		t.Errorf("expected depth error, got %v", err)
	}
	if err := execSource(t, New(&out, WithMaxDepth(4)), "argument a := !!!P"); err != nil {
		t.Errorf("depth 4 should fit: %v", err)
	}

	err = execSource(t, New(&out, WithMaxAtoms(2)), "argument a := (P & (Q & R))\nassert a")
	if !errors.HasCode(err, errors.CodeTooManyAtoms) {
		t.Errorf("expected atom limit error, got %v", err)
	}
}

func TestCheckOnly(t *testing.T) {
	var out bytes.Buffer
	in := New(&out, WithCheckOnly())

	src := "print \"x\"\nargument a := P, Q => R\nvaluate a\nvalidate a\nS := true"
	if err := execSource(t, in, src); err != nil {
		t.Fatalf("check-only run failed: %v", err)
	}
	if out.Len() != 0 {
		t.Errorf("check-only run printed %q", out.String())
	}
	if len(in.Results()) != 0 {
		t.Errorf("check-only run recorded results")
	}

	err := execSource(t, in, "assert missing")
	if !errors.HasCode(err, errors.CodeUndefinedArgument) {
		t.Errorf("names are still resolved, got %v", err)
	}
}

type recordingLogger struct {
	lines []string
}

func (l *recordingLogger) Debug(format string, args ...interface{}) {
	l.lines = append(l.lines, fmt.Sprintf(format, args...))
}

func TestLogger(t *testing.T) {
	logger := &recordingLogger{}
	var out bytes.Buffer
	in := New(&out, WithLogger(logger))
	if err := execSource(t, in, "argument a := (P | !P)\nassert a"); err != nil {
		t.Fatal(err)
	}

	want := []string{
		"line 1: ARGUMENT",
		"argument a := (P | !P)",
		"line 2: ASSERT",
		"assert a = true",
	}
	if !reflect.DeepEqual(logger.lines, want) {
		t.Errorf("logged %q, want %q", logger.lines, want)
	}
}
