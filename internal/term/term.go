// Package term detects whether a file descriptor is an interactive terminal.
package term

import "os"

// IsTerminal reports whether fd refers to a terminal
func IsTerminal(fd uintptr) bool {
	return isTerminal(fd)
}

// IsInteractive reports whether both stdin and stdout are terminals
func IsInteractive() bool {
	return IsTerminal(os.Stdin.Fd()) && IsTerminal(os.Stdout.Fd())
}
