package session

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"mvdan.cc/sh/v3/shell"
)

var (
	// ErrUnknownCommand is returned for a slash command that is not recognized.
	ErrUnknownCommand = errors.New("unknown command")
	// ErrUsage is returned when a command's arguments are missing or malformed.
	ErrUsage = errors.New("invalid usage")
)

// UsageError reports a malformed command line together with its usage text.
type UsageError struct {
	Command string
	Usage   string
	Reason  string
}

func (e *UsageError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("%s: %s (usage: %s)", e.Command, e.Reason, e.Usage)
	}
	return "usage: " + e.Usage
}

func (e *UsageError) Unwrap() error { return ErrUsage }

// Command is one parsed line of input. The concrete types below are the
// only implementations.
type Command interface {
	command()
}

type (
	// Empty is a blank line.
	Empty struct{}
	// Prompt is free text sent to the model.
	Prompt struct{ Text string }
	// SetMode switches mode; an empty Name shows the current one.
	SetMode struct{ Name string }
	// SetModel switches model; an empty ID lists the catalog.
	SetModel struct{ ID string }
	// DirAnalyze sends a directory's text files with a prompt.
	DirAnalyze struct{ Path, Prompt string }
	// FileAnalyze sends a single file with a prompt.
	FileAnalyze struct{ Path, Prompt string }
	ShowHistory  struct{}
	ClearHistory struct{}
	ShowStatus   struct{}
	ShowHelp     struct{}
	Quit         struct{}
	// Unknown is a slash command with an unrecognized name.
	Unknown struct{ Name string }
	// Invalid is a recognized command with bad arguments.
	Invalid struct{ Err error }
)

func (Empty) command() {}
func (Prompt) command() {}
func (SetMode) command() {}
func (SetModel) command() {}
func (DirAnalyze) command() {}
func (FileAnalyze) command() {}
func (ShowHistory) command() {}
func (ClearHistory) command() {}
func (ShowStatus) command() {}
func (ShowHelp) command() {}
func (Quit) command() {}
func (Unknown) command() {}
func (Invalid) command() {}

// CommandHelp describes one slash command for /help.
type CommandHelp struct {
	Usage       string
	Description string
}

// Commands lists the slash commands in display order.
var Commands = []CommandHelp{
	{"/help", "Show this list of commands."},
	{"/status", "Show the agent, model and mode."},
	{"/system [mode]", "Switch mode, or show the current system prompt."},
	{"/model [id]", "Switch model, or list the available models."},
	{"/history | /hist", "Show the conversation so far."},
	{"/clear", "Forget the conversation history."},
	{"/analyze <file> <prompt>", "Send one file with a prompt."},
	{"/dir_analyze <dir> <prompt>", "Send the text files of a directory with a prompt."},
	{"/quit | /exit", "Exit."},
}

const (
	usageDirAnalyze = "/dir_analyze <dir> <prompt>"
	usageAnalyze    = "/analyze <file> <prompt>"
)

// Parse turns a raw input line into a Command. It never fails; malformed
// input yields Unknown or Invalid.
func Parse(raw string) Command {
	line := strings.TrimSpace(raw)
	if line == "" {
		return Empty{}
	}
	if !strings.HasPrefix(line, "/") {
		return Prompt{Text: line}
	}

	name, rest := splitFirst(line)
	switch strings.ToLower(name) {
	case "/system":
		return SetMode{Name: rest}
	case "/model":
		return SetModel{ID: rest}
	case "/dir_analyze":
		path, prompt, err := parsePathAndPrompt(name, usageDirAnalyze, rest)
		if err != nil {
			return Invalid{Err: err}
		}
		return DirAnalyze{Path: path, Prompt: prompt}
	case "/analyze":
		path, prompt, err := parsePathAndPrompt(name, usageAnalyze, rest)
		if err != nil {
			return Invalid{Err: err}
		}
		return FileAnalyze{Path: path, Prompt: prompt}
	case "/history", "/hist":
		return ShowHistory{}
	case "/clear":
		return ClearHistory{}
	case "/status":
		return ShowStatus{}
	case "/help":
		return ShowHelp{}
	case "/quit", "/exit":
		return Quit{}
	}
	return Unknown{Name: name}
}

// splitFirst splits s at its first run of whitespace.
func splitFirst(s string) (first, rest string) {
	i := strings.IndexFunc(s, unicode.IsSpace)
	if i < 0 {
		return s, ""
	}
	return s[:i], strings.TrimSpace(s[i:])
}

// globChars would make the shell expansion of an unquoted path match
// files or fan out into several words.
const globChars = "*?[{"

// parsePathAndPrompt splits "<path> <prompt>". The path may be quoted and
// is expanded like a shell word (~, $VAR); one pair of quotes around the
// prompt is removed. Unquoted paths may not contain wildcards or brace
// lists.
func parsePathAndPrompt(name, usage, args string) (string, string, error) {
	if args == "" {
		return "", "", &UsageError{Command: name, Usage: usage}
	}

	var word, rest string
	if q := args[0]; q == '"' || q == '\'' {
		end := strings.IndexByte(args[1:], q)
		if end < 0 {
			return "", "", &UsageError{Command: name, Usage: usage, Reason: "unterminated quote in path"}
		}
		word, rest = args[:end+2], strings.TrimSpace(args[end+2:])
	} else {
		word, rest = splitFirst(args)
		if strings.ContainsAny(word, globChars) {
			return "", "", &UsageError{Command: name, Usage: usage,
				Reason: "wildcards and {a,b} lists are not expanded; name one path, quoted if it contains * ? [ {"}
		}
	}

	fields, err := shell.Fields(word, nil)
	if err != nil || len(fields) != 1 || fields[0] == "" {
		return "", "", &UsageError{Command: name, Usage: usage, Reason: "invalid path " + word}
	}

	prompt := unquote(rest)
	if prompt == "" {
		return "", "", &UsageError{Command: name, Usage: usage, Reason: "missing prompt"}
	}
	return fields[0], prompt, nil
}

// unquote strips one pair of matching surrounding quotes.
func unquote(s string) string {
	if len(s) >= 2 {
		if (s[0] == '"' || s[0] == '\'') && s[len(s)-1] == s[0] {
			return strings.TrimSpace(s[1 : len(s)-1])
		}
	}
	return s
}
