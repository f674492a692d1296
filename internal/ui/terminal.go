package ui

import (
	"os"

	"golang.org/x/term"
)

const (
	defaultWidth = 100
	minWidth     = 40
)

// TerminalWidth returns the width of stdout, or a default when stdout is
// not a terminal.
func TerminalWidth() int {
	w, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || w <= 0 {
		return defaultWidth
	}
	return max(w, minWidth)
}

// IsTerminal reports whether stdin and stdout are both terminals.
func IsTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}
