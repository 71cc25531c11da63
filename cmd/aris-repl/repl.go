package main

import (
	"bufio"
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/peterh/liner"

	"github.com/aris-lang/aris/internal/cli"
	"github.com/aris-lang/aris/internal/errors"
	"github.com/aris-lang/aris/internal/interpreter"
	"github.com/aris-lang/aris/internal/lexer"
)

const prompt = "aris> "

var replCommands = []string{":args", ":debug", ":exit", ":help", ":history", ":load", ":q", ":quit", ":reset", ":results", ":vars"}

// lineReader is the input side of a session
type lineReader interface {
	Prompt(prompt string) (string, error)
	AppendHistory(line string)
	Close() error
}

// scannerReader reads plain lines; used when stdin is not a terminal
type scannerReader struct {
	scanner *bufio.Scanner
	out     io.Writer
	echo    bool
}

func newScannerReader(in io.Reader, out io.Writer, showPrompt bool) *scannerReader {
	return &scannerReader{scanner: bufio.NewScanner(in), out: out, echo: showPrompt}
}

func (s *scannerReader) Prompt(p string) (string, error) {
	if s.echo {
		fmt.Fprint(s.out, p)
	}
	if !s.scanner.Scan() {
		if err := s.scanner.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return s.scanner.Text(), nil
}

func (s *scannerReader) AppendHistory(string) {}
func (s *scannerReader) Close() error         { return nil }

// linerReader provides line editing, history and completion on a terminal
type linerReader struct {
	state *liner.State
}

func newLinerReader(r *REPL) *linerReader {
	state := liner.NewLiner()
	state.SetCtrlCAborts(true)
	state.SetCompleter(r.Complete)
	for _, line := range r.history {
		state.AppendHistory(line)
	}
	return &linerReader{state: state}
}

func (l *linerReader) Prompt(p string) (string, error) {
	line, err := l.state.Prompt(p)
	if err == liner.ErrPromptAborted {
		return "", io.EOF
	}
	return line, err
}

func (l *linerReader) AppendHistory(line string) { l.state.AppendHistory(line) }
func (l *linerReader) Close() error              { return l.state.Close() }

// REPL is an interactive session. Atoms and arguments persist across lines
// until :reset.
type REPL struct {
	interp      *interpreter.Interpreter
	logger      *cli.Logger
	out         io.Writer
	historyFile string
	maxHistory  int
	history     []string
	line        int
}

func NewREPL(out io.Writer, cfg *cli.Config, logger *cli.Logger, maxHistory int) *REPL {
	return &REPL{
		interp: interpreter.New(out,
			interpreter.WithLogger(logger),
			interpreter.WithMaxDepth(cfg.MaxDepth),
			interpreter.WithMaxAtoms(cfg.MaxAtoms)),
		logger:      logger,
		out:         out,
		historyFile: cfg.HistoryFile,
		maxHistory:  maxHistory,
	}
}

func (r *REPL) PrintWelcome() {
	info := cli.GetVersionInfo()
	fmt.Fprintf(r.out, "Aris REPL v%s\n", info.Version)
	fmt.Fprintf(r.out, "Type :help for help, :quit to exit\n")
	fmt.Fprintln(r.out)
}

// Run reads lines until EOF or an exit command. Errors are reported and the
// session continues.
func (r *REPL) Run(rd lineReader, showPrompt bool) {
	p := ""
	if showPrompt {
		p = prompt
	}
	for {
		input, err := rd.Prompt(p)
		if err != nil {
			if err != io.EOF {
				fmt.Fprintf(r.out, "Error: %v\n", err)
			}
			break
		}

		line := strings.TrimSpace(input)
		if line == "" {
			continue
		}
		r.AddToHistory(line)
		rd.AppendHistory(line)

		if strings.HasPrefix(line, ":") {
			if r.HandleCommand(line) {
				break
			}
			continue
		}

		if err := r.Evaluate(input); err != nil {
			r.report(err)
		}
	}
}

// Evaluate executes a single statement against the session state
func (r *REPL) Evaluate(input string) error {
	r.line++
	stmt, err := lexer.TokenizeLine(input)
	if err != nil {
		return err
	}
	if stmt == nil {
		return nil
	}
	stmt.Line = r.line
	return r.interp.Exec(*stmt)
}

// EvaluateSource executes a multi-line script against the session state
func (r *REPL) EvaluateSource(ctx context.Context, src io.Reader) error {
	statements, err := lexer.Tokenize(src)
	if err != nil {
		return err
	}
	return r.interp.Run(ctx, statements)
}

func (r *REPL) LoadFile(filename string) error {
	f, err := os.Open(filename)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := r.EvaluateSource(context.Background(), f); err != nil {
		return err
	}
	fmt.Fprintf(r.out, "Loaded file: %s\n", filename)
	return nil
}

// HandleCommand runs a colon command and reports whether the session should end
func (r *REPL) HandleCommand(cmd string) bool {
	parts := strings.Fields(cmd)
	if len(parts) == 0 {
		return false
	}

	switch parts[0] {
	case ":help", ":h":
		r.PrintHelp()
	case ":quit", ":q", ":exit":
		fmt.Fprintln(r.out, "Goodbye!")
		return true
	case ":reset":
		r.interp.Reset()
		fmt.Fprintln(r.out, "Environment reset")
	case ":load":
		if len(parts) < 2 {
			fmt.Fprintln(r.out, "Usage: :load <file>")
			break
		}
		if err := r.LoadFile(parts[1]); err != nil {
			r.report(err)
		}
	case ":history":
		r.ShowHistory()
	case ":vars":
		r.ShowVariables()
	case ":args":
		r.ShowArguments()
	case ":results":
		r.ShowResults()
	case ":debug":
		if len(parts) < 2 {
			fmt.Fprintf(r.out, "Debug mode: %v\n", r.logger.DebugMode)
			break
		}
		switch parts[1] {
		case "on", "true", "1":
			r.logger.DebugMode = true
			fmt.Fprintln(r.out, "Debug mode enabled")
		case "off", "false", "0":
			r.logger.DebugMode = false
			fmt.Fprintln(r.out, "Debug mode disabled")
		default:
			fmt.Fprintln(r.out, "Usage: :debug on|off")
		}
	default:
		fmt.Fprintf(r.out, "Unknown command: %s\n", parts[0])
		fmt.Fprintln(r.out, "Type :help for available commands")
	}

	return false
}

func (r *REPL) PrintHelp() {
	fmt.Fprintln(r.out, "REPL Commands:")
	fmt.Fprintln(r.out, "  :help, :h          Show this help")
	fmt.Fprintln(r.out, "  :quit, :q, :exit   Exit REPL")
	fmt.Fprintln(r.out, "  :reset             Forget all atoms and arguments")
	fmt.Fprintln(r.out, "  :load <file>       Load and execute a script")
	fmt.Fprintln(r.out, "  :history           Show command history")
	fmt.Fprintln(r.out, "  :vars              Show assigned atoms")
	fmt.Fprintln(r.out, "  :args              Show defined arguments")
	fmt.Fprintln(r.out, "  :results           Show decisions made so far")
	fmt.Fprintln(r.out, "  :debug on|off      Toggle debug logging")
	fmt.Fprintln(r.out)
	fmt.Fprintln(r.out, "Enter Aris statements to execute them.")
}

func (r *REPL) AddToHistory(line string) {
	r.history = append(r.history, line)
	if r.maxHistory > 0 && len(r.history) > r.maxHistory {
		r.history = r.history[1:]
	}
}

func (r *REPL) ShowHistory() {
	if len(r.history) == 0 {
		fmt.Fprintln(r.out, "No history")
		return
	}

	fmt.Fprintln(r.out, "Command history:")
	for i, cmd := range r.history {
		fmt.Fprintf(r.out, "%3d: %s\n", i+1, cmd)
	}
}

func (r *REPL) ShowVariables() {
	atoms := r.interp.Atoms()
	if len(atoms) == 0 {
		fmt.Fprintln(r.out, "No atoms assigned")
		return
	}

	fmt.Fprintln(r.out, "Current atoms:")
	for _, name := range atoms.Names() {
		fmt.Fprintf(r.out, "  %s = %t\n", name, atoms[name])
	}
}

func (r *REPL) ShowArguments() {
	names := r.interp.Arguments()
	if len(names) == 0 {
		fmt.Fprintln(r.out, "No arguments defined")
		return
	}

	fmt.Fprintln(r.out, "Current arguments:")
	for _, name := range names {
		arg, _ := r.interp.Argument(name)
		fmt.Fprintf(r.out, "  %s := %s\n", name, arg)
	}
}

func (r *REPL) ShowResults() {
	results := r.interp.Results()
	if len(results) == 0 {
		fmt.Fprintln(r.out, "No results")
		return
	}

	for _, res := range results {
		fmt.Fprintf(r.out, "%3d: %s %s = %t\n", res.Line, res.Kind, res.Argument, res.Value)
	}
}

// Complete offers colon commands, keywords and defined argument names for
// the word under the cursor.
func (r *REPL) Complete(line string) []string {
	start := strings.LastIndexAny(line, " \t") + 1
	prefix, word := line[:start], line[start:]
	if word == "" {
		return nil
	}

	var candidates []string
	if start == 0 && strings.HasPrefix(word, ":") {
		candidates = replCommands
	} else {
		candidates = append([]string{"argument", "assert", "false", "print", "therefore", "true", "validate", "valuate"}, r.interp.Arguments()...)
	}

	var out []string
	for _, c := range candidates {
		if strings.HasPrefix(c, word) && c != word {
			out = append(out, prefix+c)
		}
	}
	sort.Strings(out)
	return out
}

// LoadHistory reads the history file; a missing file is not an error
func (r *REPL) LoadHistory() {
	if r.historyFile == "" {
		return
	}
	content, err := os.ReadFile(r.historyFile)
	if err != nil {
		return
	}

	for _, line := range strings.Split(string(content), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			r.history = append(r.history, line)
		}
	}
	if r.maxHistory > 0 && len(r.history) > r.maxHistory {
		r.history = r.history[len(r.history)-r.maxHistory:]
	}
}

func (r *REPL) SaveHistory() {
	if r.historyFile == "" || len(r.history) == 0 {
		return
	}
	content := strings.Join(r.history, "\n") + "\n"
	if err := os.WriteFile(r.historyFile, []byte(content), 0644); err != nil {
		r.logger.Warn("failed to save history: %v", err)
	}
}

// report prints script errors verbatim and others with an "Error:" prefix
func (r *REPL) report(err error) {
	var se *errors.StandardError
	if stderrors.As(err, &se) {
		fmt.Fprintln(r.out, se.Error())
		return
	}
	fmt.Fprintf(r.out, "Error: %v\n", err)
}
