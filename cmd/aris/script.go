package main

import (
	"bytes"
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"os"

	"github.com/aris-lang/aris/internal/cli"
	"github.com/aris-lang/aris/internal/errors"
	"github.com/aris-lang/aris/internal/interpreter"
	"github.com/aris-lang/aris/internal/lexer"
)

// readSource reads a script from path, or from stdin when path is "-"
func readSource(path string, stdin io.Reader) ([]byte, error) {
	if path == "-" {
		if stdin == nil {
			return nil, fmt.Errorf("no standard input available")
		}
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("failed to read standard input: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read script: %w", err)
	}
	return data, nil
}

func interpreterOptions(cfg *cli.Config, logger *cli.Logger) []interpreter.Option {
	return []interpreter.Option{
		interpreter.WithLogger(logger),
		interpreter.WithMaxDepth(cfg.MaxDepth),
		interpreter.WithMaxAtoms(cfg.MaxAtoms),
	}
}

// execScript tokenizes the whole script, then executes it statement by
// statement. Output produced before a failing statement is kept.
func execScript(ctx context.Context, path string, stdin io.Reader, stdout io.Writer, cfg *cli.Config, logger *cli.Logger) error {
	src, err := readSource(path, stdin)
	if err != nil {
		return err
	}
	logger.Info("running %s (%d bytes)", path, len(src))

	statements, err := lexer.Tokenize(bytes.NewReader(src))
	if err != nil {
		return err
	}
	logger.Debug("%s: %d statements", path, len(statements))

	in := interpreter.New(stdout, interpreterOptions(cfg, logger)...)
	return in.Run(ctx, statements)
}

// checkScript parses a script and resolves its argument names without
// evaluating anything.
func checkScript(ctx context.Context, path string, cfg *cli.Config) error {
	src, err := readSource(path, nil)
	if err != nil {
		return err
	}
	statements, err := lexer.Tokenize(bytes.NewReader(src))
	if err != nil {
		return err
	}
	opts := append(interpreterOptions(cfg, cli.NewLogger(false, false)), interpreter.WithCheckOnly())
	return interpreter.New(io.Discard, opts...).Run(ctx, statements)
}

// reportError writes script errors verbatim and everything else with an
// "Error:" prefix.
func reportError(w io.Writer, err error, logger *cli.Logger) {
	var se *errors.StandardError
	if stderrors.As(err, &se) {
		fmt.Fprintln(w, se.Error())
		logger.Debug("%s", se.Detail())
		return
	}
	fmt.Fprintf(w, "Error: %v\n", err)
}
