// Package session implements the chat session: it parses input lines into
// commands, keeps the current mode, model and history, and talks to the
// gateway.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/aleph-cli/aleph/internal/collector"
	"github.com/aleph-cli/aleph/internal/config"
	"github.com/aleph-cli/aleph/internal/conversation"
	"github.com/aleph-cli/aleph/internal/gateway"
	"github.com/aleph-cli/aleph/internal/models"
	"github.com/aleph-cli/aleph/internal/modes"
)

// Options configures a Controller.
type Options struct {
	SessionID string // generated when empty
	AgentName string
	Mode      string // initial mode name; "" = core
	Model     string // pinned model id; "" = follow the mode's default
	Gateway   gateway.Gateway
	Catalog   *models.Catalog
	Rules     collector.Rules
}

// Controller owns one chat session. It is not safe for concurrent use;
// the input loop drives it one line at a time.
type Controller struct {
	id      string
	agent   string
	gateway gateway.Gateway
	catalog *models.Catalog
	rules   collector.Rules

	mode    modes.Mode
	model   string
	pinned  bool
	history *conversation.Store
}

// New creates a Controller. It fails on an unknown mode or model.
func New(opts Options) (*Controller, error) {
	if opts.Gateway == nil {
		return nil, errors.New("session: gateway is required")
	}
	if opts.Catalog == nil {
		opts.Catalog = models.NewCatalog(config.ModelsConfig{})
	}

	modeName := opts.Mode
	if modeName == "" {
		modeName = modes.Core
	}
	mode, err := modes.Lookup(modeName)
	if err != nil {
		return nil, err
	}

	c := &Controller{
		id:      opts.SessionID,
		agent:   opts.AgentName,
		gateway: opts.Gateway,
		catalog: opts.Catalog,
		rules:   opts.Rules,
		mode:    mode,
		history: conversation.NewStore(),
	}
	if c.id == "" {
		c.id = uuid.NewString()
	}
	if c.agent == "" {
		c.agent = "Aleph"
	}

	if opts.Model != "" {
		entry, err := c.catalog.Lookup(opts.Model)
		if err != nil {
			return nil, err
		}
		c.model, c.pinned = entry.ID, true
	} else if c.model, err = c.defaultModel(mode); err != nil {
		return nil, err
	}
	return c, nil
}

// SessionID returns the id used to correlate log lines.
func (c *Controller) SessionID() string { return c.id }

// Mode returns the current mode.
func (c *Controller) Mode() modes.Mode { return c.mode }

// Model returns the current model id.
func (c *Controller) Model() string { return c.model }

// History returns a copy of the conversation so far.
func (c *Controller) History() []conversation.Turn { return c.history.Transcript() }

// Status returns a snapshot of the session state.
func (c *Controller) Status() Status {
	return Status{
		SessionID: c.id,
		Agent:     c.agent,
		Mode:      c.mode.Name,
		Model:     c.model,
		Turns:     c.history.Len(),
	}
}

// HandleInput parses and executes one line of input. Every failure is
// reported in the returned Payload; none ends the session.
func (c *Controller) HandleInput(ctx context.Context, raw string) Payload {
	cmd := Parse(raw)
	slog.Debug("handle input", "session", c.id, "command", fmt.Sprintf("%T", cmd))

	switch cmd := cmd.(type) {
	case Empty:
		return Payload{Kind: KindNone}
	case Prompt:
		return c.exchange(ctx, cmd.Text, "")
	case SetMode:
		return c.setMode(cmd.Name)
	case SetModel:
		return c.setModel(cmd.ID)
	case DirAnalyze:
		return c.analyzeDir(ctx, cmd)
	case FileAnalyze:
		return c.analyzeFile(ctx, cmd)
	case ShowHistory:
		return Payload{Kind: KindHistory, Turns: c.history.Transcript()}
	case ClearHistory:
		c.history.Reset()
		return info("Memory wiped.")
	case ShowStatus:
		return Payload{Kind: KindStatus, Status: c.Status()}
	case ShowHelp:
		return Payload{Kind: KindHelp, Commands: Commands}
	case Quit:
		return Payload{Kind: KindNone, Quit: true}
	case Unknown:
		return failure(fmt.Errorf("%w: %s (type /help for commands)", ErrUnknownCommand, cmd.Name))
	case Invalid:
		return failure(cmd.Err)
	}
	return failure(fmt.Errorf("%w: %q", ErrUnknownCommand, raw))
}

func (c *Controller) setMode(name string) Payload {
	if name == "" {
		return Payload{Kind: KindModes, Mode: c.mode, Modes: modes.List()}
	}

	mode, err := modes.Lookup(name)
	if err != nil {
		return failure(err)
	}
	c.mode = mode

	text := "Mode switched to " + strings.ToUpper(mode.Name) + "."
	if !c.pinned {
		if id, err := c.defaultModel(mode); err == nil && id != c.model {
			c.model = id
			text += " Model: " + id + "."
		}
	}
	slog.Info("mode switched", "session", c.id, "mode", mode.Name, "model", c.model)
	return Payload{Kind: KindModes, Text: text, Mode: c.mode, Modes: modes.List()}
}

func (c *Controller) setModel(id string) Payload {
	if id == "" {
		entries := c.catalog.Entries()
		choices := make([]ModelChoice, len(entries))
		for i, e := range entries {
			choices[i] = ModelChoice{Entry: e, Current: e.ID == c.model}
		}
		return Payload{Kind: KindModels, Models: choices}
	}

	entry, err := c.catalog.Lookup(id)
	if err != nil {
		return failure(fmt.Errorf("%w (available: %s)", err, strings.Join(c.catalog.IDs(), ", ")))
	}
	c.model, c.pinned = entry.ID, true
	slog.Info("model switched", "session", c.id, "model", c.model)
	return info("Switched to " + entry.DisplayName() + ".")
}

func (c *Controller) analyzeDir(ctx context.Context, cmd DirAnalyze) Payload {
	dir, err := collector.Collect(cmd.Path, c.rules)
	if err != nil {
		return failure(err)
	}
	if dir.Empty() {
		return info(fmt.Sprintf("No content found in %s (%d files excluded).", cmd.Path, dir.Excluded))
	}

	name := projectName(cmd.Path)
	message := fmt.Sprintf(
		"Analyze the following %d files from the project '%s'. The user wants you to perform the following task: %s\n\nFile contents are provided below.\n\n%s",
		len(dir.Files), name, cmd.Prompt, dir.Text(),
	)
	return c.exchange(ctx, message, collectNotice(dir))
}

func (c *Controller) analyzeFile(ctx context.Context, cmd FileAnalyze) Payload {
	file, err := collector.CollectFile(cmd.Path, c.rules)
	if err != nil {
		return failure(err)
	}
	if file.Empty() {
		return info(fmt.Sprintf("No content found in %s (not a text file or too large).", cmd.Path))
	}

	message := fmt.Sprintf(
		"Analyze the file '%s'. The user wants you to perform the following task: %s\n\nFile contents are provided below.\n\n%s",
		file.Files[0].RelPath, cmd.Prompt, file.Text(),
	)
	return c.exchange(ctx, message, "")
}

// exchange sends message with the history so far and records both turns
// only when the gateway succeeds.
func (c *Controller) exchange(ctx context.Context, message, notice string) Payload {
	reply, err := c.gateway.Complete(ctx, gateway.Request{
		SystemPrompt: c.mode.SystemPrompt,
		History:      c.history.Transcript(),
		Message:      message,
		Model:        c.model,
	})
	if err != nil {
		slog.Debug("exchange failed", "session", c.id, "model", c.model, "error", err)
		return failure(describeGatewayError(err))
	}

	c.history.Append(conversation.RoleUser, message)
	c.history.Append(conversation.RoleAssistant, reply)
	return Payload{Kind: KindReply, Text: reply, Notice: notice}
}

// defaultModel returns the mode's default model, or the first catalog
// entry when the catalog does not offer it.
func (c *Controller) defaultModel(mode modes.Mode) (string, error) {
	if entry, err := c.catalog.Lookup(mode.DefaultModel); err == nil {
		return entry.ID, nil
	}
	ids := c.catalog.IDs()
	if len(ids) == 0 {
		return "", fmt.Errorf("%w: catalog is empty", models.ErrUnknownModel)
	}
	return ids[0], nil
}

// GatewayFailure is the error carried by a payload for a failed exchange.
// Err is the *gateway.Error.
type GatewayFailure struct {
	Kind gateway.Kind
	Err  error
}

func (e *GatewayFailure) Error() string {
	cause := e.Err
	var gerr *gateway.Error
	if errors.As(e.Err, &gerr) && gerr.Err != nil {
		cause = gerr.Err
	}
	return fmt.Sprintf("%s: %v", e.Kind.Describe(), cause)
}

func (e *GatewayFailure) Unwrap() error { return e.Err }

func describeGatewayError(err error) error {
	if errors.Is(err, context.Canceled) {
		return fmt.Errorf("request cancelled: %w", err)
	}
	var gerr *gateway.Error
	if errors.As(err, &gerr) {
		return &GatewayFailure{Kind: gerr.Kind, Err: err}
	}
	return err
}

func projectName(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return filepath.Base(abs)
	}
	return filepath.Base(path)
}

func collectNotice(dir *collector.CollectedDirectory) string {
	notice := fmt.Sprintf("Sent %d files (%d bytes) from %s", len(dir.Files), dir.TotalBytes, dir.Root)
	if skipped := dir.Excluded + dir.Unreadable; skipped > 0 {
		notice += fmt.Sprintf(", %d skipped", skipped)
	}
	if dir.Truncated {
		notice += ", size cap reached"
	}
	return notice + "."
}
