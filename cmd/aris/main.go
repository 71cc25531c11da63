// Package main provides the entry point of the aris command. It runs Aris
// scripts, checks them in bulk, re-runs them on change and manages the
// configuration file.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/aris-lang/aris/internal/cli"
	"github.com/aris-lang/aris/internal/watch"
)

const toolName = "aris"

var commands = []cli.CommandInfo{
	{
		Name:        "run",
		Usage:       "aris run [OPTIONS] <file>",
		Description: "Run a script (default when a file is given)",
		Examples:    []string{"aris run proofs.aris", "aris -debug proofs.aris", "cat proofs.aris | aris -"},
		Flags:       commonFlags,
	},
	{
		Name:        "check",
		Usage:       "aris check [OPTIONS] <file>...",
		Description: "Parse scripts and resolve names without evaluating",
		Examples:    []string{"aris check examples/*.aris"},
		Flags:       commonFlags,
	},
	{
		Name:        "watch",
		Usage:       "aris watch [OPTIONS] <file>",
		Description: "Run a script and re-run it on every change",
		Examples:    []string{"aris watch proofs.aris"},
		Flags:       commonFlags,
	},
	{
		Name:        "config",
		Usage:       "aris config [path]",
		Description: "Write the default configuration as JSON",
		Examples:    []string{"aris config ~/.arisrc.json"},
	},
	{
		Name:        "version",
		Usage:       "aris version [--json]",
		Description: "Show version information",
	},
	{
		Name:        "help",
		Usage:       "aris help [command]",
		Description: "Show help for a command",
	},
}

var commonFlags = []cli.FlagInfo{
	{Name: "config", Usage: "Path to a JSON configuration file"},
	{Name: "verbose", Usage: "Log progress to stderr"},
	{Name: "debug", Usage: "Log every executed statement to stderr"},
	{Name: "max-depth", Usage: "Maximum formula nesting depth (0 = unlimited)", Default: fmt.Sprint(cli.DefaultMaxDepth)},
	{Name: "max-atoms", Usage: "Maximum distinct atoms per decision", Default: fmt.Sprint(cli.DefaultMaxAtoms)},
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// run dispatches a command line and returns the process exit code
func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		cli.PrintUsage(stderr, toolName, commands)
		return 1
	}

	sub, rest := args[0], args[1:]
	switch sub {
	case "help", "-h", "--help":
		return help(rest, stdout, stderr)
	case "version", "-v", "--version":
		jsonOutput := false
		for _, arg := range rest {
			if arg == "--json" || arg == "-j" {
				jsonOutput = true
			}
		}
		cli.PrintVersion(stdout, toolName, jsonOutput)
		return 0
	case "run":
		return runCommand(rest, stdin, stdout, stderr)
	case "check":
		return checkCommand(rest, stdout, stderr)
	case "watch":
		return watchCommand(rest, stdout, stderr)
	case "config":
		return configCommand(rest, stdout, stderr)
	default:
		// aris <file> and aris -flag <file> are shorthands for run
		return runCommand(args, stdin, stdout, stderr)
	}
}

func help(args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		cli.PrintUsage(stdout, toolName, commands)
		return 0
	}
	cmd, ok := cli.FindCommand(commands, args[0])
	if !ok {
		fmt.Fprintf(stderr, "unknown command: %s\n", args[0])
		cli.PrintUsage(stderr, toolName, commands)
		return 2
	}
	cli.PrintCommandUsage(stdout, toolName, cmd)
	return 0
}

// options holds the flags shared by run, check and watch
type options struct {
	configPath string
	verbose    bool
	debug      bool
	maxDepth   int
	maxAtoms   int
}

func newFlagSet(name string, stderr io.Writer) (*flag.FlagSet, *options) {
	opts := &options{}
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.configPath, "config", "", "path to a JSON configuration file")
	fs.BoolVar(&opts.verbose, "verbose", false, "log progress to stderr")
	fs.BoolVar(&opts.debug, "debug", false, "log every executed statement to stderr")
	fs.IntVar(&opts.maxDepth, "max-depth", cli.DefaultMaxDepth, "maximum formula nesting depth (0 = unlimited)")
	fs.IntVar(&opts.maxAtoms, "max-atoms", cli.DefaultMaxAtoms, "maximum distinct atoms per decision")
	fs.Usage = func() {
		if cmd, ok := cli.FindCommand(commands, name); ok {
			cli.PrintCommandUsage(stderr, toolName, cmd)
		}
	}
	return fs, opts
}

// settings loads the configuration file and applies explicitly set flags
// on top of it.
func settings(fs *flag.FlagSet, opts *options) (*cli.Config, *cli.Logger, error) {
	cfg, err := cli.LoadConfig(opts.configPath)
	if err != nil {
		return nil, nil, err
	}
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "verbose":
			cfg.Verbose = opts.verbose
		case "debug":
			cfg.Debug = opts.debug
		case "max-depth":
			cfg.MaxDepth = opts.maxDepth
		case "max-atoms":
			cfg.MaxAtoms = opts.maxAtoms
		}
	})
	if cfg.MaxDepth < 0 || cfg.MaxAtoms < 0 {
		return nil, nil, fmt.Errorf("limits must not be negative")
	}
	if err := cfg.CheckRequirement(cli.Version); err != nil {
		return nil, nil, err
	}

	logger := cli.NewLogger(cfg.Verbose, cfg.Debug)
	if opts.configPath != "" {
		logger.Info("loaded configuration from %s", opts.configPath)
	}
	return cfg, logger, nil
}

func parseFlags(name string, args []string, stderr io.Writer) (*flag.FlagSet, *options, int) {
	fs, opts := newFlagSet(name, stderr)
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, nil, 0
		}
		return nil, nil, 2
	}
	return fs, opts, -1
}

func runCommand(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs, opts, code := parseFlags("run", args, stderr)
	if code >= 0 {
		return code
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(stderr, "expected exactly one script")
		fs.Usage()
		return 1
	}
	cfg, logger, err := settings(fs, opts)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	if err := execScript(context.Background(), fs.Arg(0), stdin, stdout, cfg, logger); err != nil {
		reportError(stderr, err, logger)
		return 1
	}
	return 0
}

func checkCommand(args []string, stdout, stderr io.Writer) int {
	fs, opts, code := parseFlags("check", args, stderr)
	if code >= 0 {
		return code
	}
	cmd, _ := cli.FindCommand(commands, "check")
	if err := cli.ValidateArgs(fs.Args(), 1, cmd.Usage); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	cfg, logger, err := settings(fs, opts)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	files := fs.Args()
	results := make([]error, len(files))
	g, gctx := errgroup.WithContext(context.Background())
	g.SetLimit(runtime.NumCPU())
	for i, file := range files {
		i, file := i, file
		g.Go(func() error {
			logger.Debug("checking %s", file)
			results[i] = checkScript(gctx, file, cfg)
			return nil
		})
	}
	_ = g.Wait()

	status := 0
	for i, file := range files {
		if results[i] != nil {
			fmt.Fprintf(stdout, "%s: %v\n", file, results[i])
			status = 1
			continue
		}
		fmt.Fprintf(stdout, "%s: ok\n", file)
	}
	return status
}

func watchCommand(args []string, stdout, stderr io.Writer) int {
	fs, opts, code := parseFlags("watch", args, stderr)
	if code >= 0 {
		return code
	}
	if fs.NArg() != 1 || fs.Arg(0) == "-" {
		fmt.Fprintln(stderr, "expected exactly one script file")
		fs.Usage()
		return 1
	}
	cfg, logger, err := settings(fs, opts)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	w, err := watch.NewFSWatcher()
	if err != nil {
		fmt.Fprintf(stderr, "Error: failed to start watcher: %v\n", err)
		return 1
	}
	defer w.Close()

	path := fs.Arg(0)
	cycle := func(ctx context.Context) error {
		if err := execScript(ctx, path, nil, stdout, cfg, logger); err != nil {
			reportError(stderr, err, logger)
		}
		return nil
	}
	logger.Info("watching %s", path)
	if err := watch.Loop(ctx, w, path, watch.DefaultDebounce, cycle, logger); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func configCommand(args []string, stdout, stderr io.Writer) int {
	cfg := cli.DefaultConfig()
	if len(args) == 0 {
		data, err := json.MarshalIndent(cfg, "", "  ")
		if err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return 1
		}
		fmt.Fprintln(stdout, string(data))
		return 0
	}
	if err := cfg.SaveConfig(args[0]); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	fmt.Fprintf(stdout, "wrote %s\n", args[0])
	return 0
}
