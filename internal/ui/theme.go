package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Theme bundles palette + symbols + box borders.
// All UI helpers pull from `current`.
type Theme struct {
	Name string

	Title, Muted, Accent, Success, Pending, Error lipgloss.Style
	Selected, DoneText, Help                      lipgloss.Style

	Border                      lipgloss.Border
	BorderColor                 lipgloss.TerminalColor
	SymDone, SymPending         string
	ProgressFull, ProgressEmpty string
}

var current = build("classic")

// SetTheme switches the active theme. Unknown names fall back to classic.
func SetTheme(name string) {
	current = build(name)
}

// Current exposes what renderers need.
func Current() Theme { return current }

func build(name string) Theme {
	base := Theme{
		Title:         lipgloss.NewStyle().Bold(true),
		Muted:         lipgloss.NewStyle().Faint(true),
		Accent:        lipgloss.NewStyle().Foreground(lipgloss.Color("12")),
		Success:       lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		Pending:       lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		Error:         lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
		Selected:      lipgloss.NewStyle().Bold(true).Reverse(true),
		DoneText:      lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		Help:          lipgloss.NewStyle().Faint(true),
		Border:        lipgloss.RoundedBorder(),
		BorderColor:   lipgloss.Color("8"),
		SymDone:       "✅",
		SymPending:    "❌",
		ProgressFull:  "█",
		ProgressEmpty: "░",
	}

	switch strings.ToLower(name) {
	case "neon":
		base.Name = "neon"
		base.Title = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("13"))
		base.Accent = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
		base.Pending = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
		base.BorderColor = lipgloss.Color("13")
		base.SymDone, base.SymPending = "◼", "◻"
	case "mono":
		base.Name = "mono"
		plain := lipgloss.NewStyle()
		base.Title, base.Accent, base.Success, base.Pending = plain, plain, plain, plain
		base.Error, base.DoneText, base.Muted, base.Help = plain, plain, plain, plain
		base.Selected = lipgloss.NewStyle().Reverse(true)
		base.Border = lipgloss.NormalBorder()
		base.BorderColor = lipgloss.NoColor{}
		base.SymDone, base.SymPending = "[x]", "[ ]"
		base.ProgressFull, base.ProgressEmpty = "#", "-"
	default:
		base.Name = "classic"
	}
	return base
}
