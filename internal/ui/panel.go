package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Makepad-fr/tada/internal/model"
)

// ProgressBar renders a bar with a done/total suffix.
func ProgressBar(done, total, width int) string {
	t := Current()
	if total <= 0 {
		total = 1
	}
	if width < 5 {
		width = 5
	}
	filled := int(float64(done) / float64(total) * float64(width))
	if filled > width {
		filled = width
	}
	pct := int(float64(done) / float64(total) * 100)
	return strings.Repeat(t.ProgressFull, filled) + strings.Repeat(t.ProgressEmpty, width-filled) + fmt.Sprintf(" %3d%%", pct)
}

// Panel frames content with the current theme's border.
func Panel(content string) string {
	t := Current()
	return lipgloss.NewStyle().
		Border(t.Border).
		BorderForeground(t.BorderColor).
		Padding(0, 1).
		Render(content)
}

// Header renders the counts line shown above task lists.
func Header(done, pending, total int) string {
	t := Current()
	return fmt.Sprintf("%s   %s %d  %s %d  %s %d",
		t.Title.Render("Tasks"),
		t.Success.Render(t.SymDone), done,
		t.Pending.Render(t.SymPending), pending,
		t.Accent.Render("Total"), total,
	)
}

// TaskLine renders one row: marker then title, dimmed when done.
func TaskLine(task model.Task) string {
	t := Current()
	if task.Done {
		return t.SymDone + " " + t.DoneText.Render(task.Title)
	}
	return t.SymPending + " " + task.Title
}

// Truncate shortens s to max runes with an ellipsis.
func Truncate(s string, max int) string {
	r := []rune(s)
	if max <= 3 || len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}
