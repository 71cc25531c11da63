// Command aris-repl is an interactive session for Aris statements.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/aris-lang/aris/internal/cli"
	"github.com/aris-lang/aris/internal/term"
)

func main() {
	var (
		showVersion = flag.Bool("version", false, "show version information")
		showHelp    = flag.Bool("help", false, "show help information")
		jsonOutput  = flag.Bool("json", false, "output version in JSON format")
		debugMode   = flag.Bool("debug", false, "log every executed statement")
		verbose     = flag.Bool("verbose", false, "log progress to stderr")
		noPrompt    = flag.Bool("no-prompt", false, "disable interactive prompt")
		evalStr     = flag.String("eval", "", "execute statements and exit")
		loadFile    = flag.String("load", "", "load and execute file before starting REPL")
		configPath  = flag.String("config", "", "path to a JSON configuration file")
		historyFile = flag.String("history", ".aris_history", "history file path")
		maxHistory  = flag.Int("max-history", 1000, "maximum history entries")
		maxDepth    = flag.Int("max-depth", cli.DefaultMaxDepth, "maximum formula nesting depth (0 = unlimited)")
		maxAtoms    = flag.Int("max-atoms", cli.DefaultMaxAtoms, "maximum distinct atoms per decision")
	)

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [OPTIONS]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Aris interactive REPL (Read-Eval-Print Loop).\n\n")
		fmt.Fprintf(os.Stderr, "OPTIONS:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nEXAMPLES:\n")
		fmt.Fprintf(os.Stderr, "  %s                                  # Start interactive REPL\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --eval 'argument a := (P | !P)'  # Execute and exit\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --load proofs.aris               # Load file and start REPL\n", os.Args[0])
	}

	flag.Parse()

	if *showHelp {
		flag.Usage()
		os.Exit(0)
	}

	if *showVersion {
		cli.PrintVersion(os.Stdout, "aris-repl", *jsonOutput)
		os.Exit(0)
	}

	cfg, err := cli.LoadConfig(*configPath)
	if err != nil {
		cli.ExitWithError("%v", err)
	}
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "debug":
			cfg.Debug = *debugMode
		case "verbose":
			cfg.Verbose = *verbose
		case "max-depth":
			cfg.MaxDepth = *maxDepth
		case "max-atoms":
			cfg.MaxAtoms = *maxAtoms
		case "history":
			cfg.HistoryFile = *historyFile
		}
	})
	if cfg.HistoryFile == "" {
		cfg.HistoryFile = *historyFile
	}
	if cfg.MaxDepth < 0 || cfg.MaxAtoms < 0 {
		cli.ExitWithError("limits must not be negative")
	}

	logger := cli.NewLogger(cfg.Verbose, cfg.Debug)
	cli.HandleError(cfg.CheckRequirement(cli.Version), logger)
	repl := NewREPL(os.Stdout, cfg, logger, *maxHistory)

	if *loadFile != "" {
		if err := repl.LoadFile(*loadFile); err != nil {
			cli.ExitWithError("failed to load file %s: %v", *loadFile, err)
		}
	}

	if *evalStr != "" {
		if err := repl.EvaluateSource(context.Background(), strings.NewReader(*evalStr)); err != nil {
			cli.ExitWithCode(1, "%v", err)
		}
		os.Exit(0)
	}

	repl.LoadHistory()

	var rd lineReader
	if term.IsInteractive() && !*noPrompt {
		rd = newLinerReader(repl)
		logger.Debug("line editing enabled")
	} else {
		rd = newScannerReader(os.Stdin, os.Stdout, !*noPrompt)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		rd.Close()
		fmt.Println("\nGoodbye!")
		repl.SaveHistory()
		os.Exit(0)
	}()

	if !*noPrompt {
		repl.PrintWelcome()
	}

	repl.Run(rd, !*noPrompt)
	rd.Close()
	repl.SaveHistory()
}
