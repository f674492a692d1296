// Package ui renders session payloads to the terminal and reads input lines.
package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/aleph-cli/aleph/internal/config"
	"github.com/aleph-cli/aleph/internal/conversation"
	"github.com/aleph-cli/aleph/internal/modes"
	"github.com/aleph-cli/aleph/internal/session"
)

// Renderer writes session payloads to out.
type Renderer struct {
	out   io.Writer
	md    *glamour.TermRenderer
	width int
	agent string
}

// NewRenderer creates a Renderer. A zero cfg.WordWrap uses the terminal
// width.
func NewRenderer(out io.Writer, cfg config.UIConfig, agent string) (*Renderer, error) {
	width := cfg.WordWrap
	if width <= 0 {
		width = TerminalWidth()
	}
	md, err := newMarkdown(cfg.Style, width)
	if err != nil {
		return nil, fmt.Errorf("markdown renderer: %w", err)
	}
	if agent == "" {
		agent = "Aleph"
	}
	return &Renderer{out: out, md: md, width: width, agent: agent}, nil
}

// Header prints the status panel shown at startup and on /status.
func (r *Renderer) Header(st session.Status) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Agent: %s\n", AgentStyle.Render(st.Agent))
	fmt.Fprintf(&sb, "Model: %s\n", ModelStyle.Render(st.Model))
	fmt.Fprintf(&sb, "Mode:  %s\n", ModeStyle.Render(strings.ToUpper(st.Mode)))
	fmt.Fprintf(&sb, "Turns: %d\n", st.Turns)
	sb.WriteString(DimStyle.Render("Commands: /model, /system, /history, /clear, /analyze, /dir_analyze, /status, /help, /quit"))
	fmt.Fprintln(r.out, HeaderStyle.Render(sb.String()))
}

// Thinking prints the waiting line shown while a request is in flight.
func (r *Renderer) Thinking() {
	fmt.Fprintln(r.out, DimStyle.Render(r.agent+" is thinking..."))
}

// Info prints a short status message.
func (r *Renderer) Info(text string) {
	fmt.Fprintln(r.out, InfoStyle.Render(text))
}

// Error prints an error message.
func (r *Renderer) Error(text string) {
	fmt.Fprintln(r.out, ErrorStyle.Render("Error: ")+text)
}

// Render prints a payload according to its kind.
func (r *Renderer) Render(p session.Payload) {
	switch p.Kind {
	case session.KindNone:
	case session.KindReply:
		if p.Notice != "" {
			fmt.Fprintln(r.out, DimStyle.Render(p.Notice))
		}
		fmt.Fprintln(r.out, ReplyStyle.Render(r.agent+":"))
		fmt.Fprintln(r.out, renderMarkdown(r.md, p.Text))
	case session.KindInfo:
		r.Info(p.Text)
	case session.KindError:
		r.Error(p.Text)
	case session.KindHistory:
		r.history(p.Turns)
	case session.KindModels:
		r.models(p.Models)
	case session.KindModes:
		r.modes(p)
	case session.KindHelp:
		r.help(p.Commands)
	case session.KindStatus:
		r.Header(p.Status)
	default:
		fmt.Fprintln(r.out, p.Text)
	}
}

func (r *Renderer) history(turns []conversation.Turn) {
	if len(turns) == 0 {
		fmt.Fprintln(r.out, DimStyle.Render("No conversation history yet."))
		return
	}
	fmt.Fprintln(r.out, TitleStyle.Render(fmt.Sprintf("Conversation history (%d turns)", len(turns))))
	for _, t := range turns {
		label := UserStyle.Render(fmt.Sprintf("[%d] You", t.Seq))
		if t.Role == conversation.RoleAssistant {
			label = ReplyStyle.Render(fmt.Sprintf("[%d] %s", t.Seq, r.agent))
		}
		stamp := DimStyle.Render(t.Ts.Format("15:04:05"))
		fmt.Fprintf(r.out, "%s %s\n", label, stamp)
		fmt.Fprintln(r.out, renderMarkdown(r.md, t.Content))
	}
}

func (r *Renderer) models(choices []session.ModelChoice) {
	rows := make([][]string, len(choices))
	for i, c := range choices {
		marker := ""
		if c.Current {
			marker = CurrentStyle.Render("●")
		}
		rows[i] = []string{marker, c.ID, c.DisplayName(), c.Description}
	}
	fmt.Fprintln(r.out, TitleStyle.Render("Available models"))
	fmt.Fprintln(r.out, newTable("", "ID", "Name", "Description").Rows(rows...).Render())
	fmt.Fprintln(r.out, DimStyle.Render("Switch with /model <id>"))
}

func (r *Renderer) modes(p session.Payload) {
	if p.Text != "" {
		r.Info(p.Text)
	}
	title := ModeStyle.Render("System prompt (mode: " + strings.ToUpper(p.Mode.Name) + ")")
	body := lipgloss.NewStyle().Width(max(r.width-4, 20)).Render(p.Mode.SystemPrompt)
	fmt.Fprintln(r.out, PanelStyle.Render(title+"\n"+body))

	names := make([]string, len(p.Modes))
	for i, m := range p.Modes {
		names[i] = m.Name
	}
	if len(names) == 0 {
		names = modes.Names()
	}
	fmt.Fprintln(r.out, DimStyle.Render("Quick switch: /system "+strings.Join(names, " | ")))
}

func (r *Renderer) help(commands []session.CommandHelp) {
	rows := make([][]string, len(commands))
	for i, c := range commands {
		rows[i] = []string{c.Usage, c.Description}
	}
	fmt.Fprintln(r.out, TitleStyle.Render("Available commands"))
	fmt.Fprintln(r.out, newTable("Command", "Description").Rows(rows...).Render())
}

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(TableBorderStyle).
		Headers(headers...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return TableHeaderStyle
			}
			return TableCellStyle
		})
}
