package ui

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"
)

// QuitCommand is returned by ReadLine at end of input.
const QuitCommand = "/quit"

// Prompt reads input lines with editing and history recall. History is
// loaded from and saved to historyFile.
type Prompt struct {
	line        *liner.State
	historyFile string
}

// NewPrompt puts the terminal in line-editing mode and loads the history.
// Close must be called to restore the terminal.
func NewPrompt(historyFile string) *Prompt {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)

	p := &Prompt{line: line, historyFile: historyFile}
	p.loadHistory()
	return p
}

// ReadLine reads one line. End of input (Ctrl+D) yields QuitCommand and
// Ctrl+C yields an empty line.
func (p *Prompt) ReadLine(prompt string) (string, error) {
	input, err := p.line.Prompt(prompt)
	switch {
	case errors.Is(err, liner.ErrPromptAborted):
		return "", nil
	case errors.Is(err, io.EOF):
		return QuitCommand, nil
	case err != nil:
		return "", fmt.Errorf("read input: %w", err)
	}
	p.remember(input)
	return input, nil
}

// Close saves the history and restores the terminal.
func (p *Prompt) Close() error {
	if err := p.saveHistory(); err != nil {
		slog.Warn("failed to save command history", "path", p.historyFile, "error", err)
	}
	return p.line.Close()
}

func (p *Prompt) remember(input string) {
	if strings.TrimSpace(input) != "" {
		p.line.AppendHistory(input)
	}
}

func (p *Prompt) loadHistory() {
	if p.historyFile == "" {
		return
	}
	f, err := os.Open(p.historyFile)
	if err != nil {
		return
	}
	defer f.Close()
	if _, err := p.line.ReadHistory(f); err != nil {
		slog.Debug("command history partially loaded", "path", p.historyFile, "error", err)
	}
}

func (p *Prompt) saveHistory() error {
	if p.historyFile == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(p.historyFile), 0o700); err != nil {
		return err
	}
	f, err := os.OpenFile(p.historyFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return err
	}
	if _, err := p.line.WriteHistory(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
