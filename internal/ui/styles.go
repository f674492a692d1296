package ui

import "github.com/charmbracelet/lipgloss"

// Palette.
const (
	ColorPrimary   = "#7C3AED" // violet: headings, user label
	ColorSecondary = "#10B981" // green: assistant label, success
	ColorAccent    = "#60A5FA" // blue: model names
	ColorWarning   = "#F59E0B" // amber: mode, warnings
	ColorError     = "#EF4444"
	ColorMuted     = "#6B7280"
	ColorBorder    = "#374151"
)

var (
	Primary   = lipgloss.Color(ColorPrimary)
	Secondary = lipgloss.Color(ColorSecondary)
	Accent    = lipgloss.Color(ColorAccent)
	Warning   = lipgloss.Color(ColorWarning)
	Error     = lipgloss.Color(ColorError)
	Muted     = lipgloss.Color(ColorMuted)
	Border    = lipgloss.Color(ColorBorder)
)

var (
	HeaderStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(Accent).Padding(0, 1)
	PanelStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(Warning).Padding(0, 1)
	TitleStyle  = lipgloss.NewStyle().Foreground(Primary).Bold(true)

	AgentStyle   = lipgloss.NewStyle().Foreground(Accent).Bold(true)
	ModelStyle   = lipgloss.NewStyle().Foreground(Primary)
	ModeStyle    = lipgloss.NewStyle().Foreground(Warning).Bold(true)
	UserStyle    = lipgloss.NewStyle().Foreground(Primary).Bold(true)
	ReplyStyle   = lipgloss.NewStyle().Foreground(Secondary).Bold(true)
	InfoStyle    = lipgloss.NewStyle().Foreground(Secondary)
	DimStyle     = lipgloss.NewStyle().Foreground(Muted).Italic(true)
	ErrorStyle   = lipgloss.NewStyle().Foreground(Error).Bold(true)
	PromptStyle  = lipgloss.NewStyle().Foreground(Primary).Bold(true)
	CurrentStyle = lipgloss.NewStyle().Foreground(Secondary).Bold(true)

	TableHeaderStyle = lipgloss.NewStyle().Foreground(Primary).Bold(true).Padding(0, 1)
	TableCellStyle   = lipgloss.NewStyle().Padding(0, 1)
	TableBorderStyle = lipgloss.NewStyle().Foreground(Border)
)
