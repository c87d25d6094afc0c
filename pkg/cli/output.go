package cli

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// Styles holds the lipgloss styles for run output.
type Styles struct {
	OK        lipgloss.Style
	Cancelled lipgloss.Style
	Fault     lipgloss.Style
	Launched  lipgloss.Style
	Label     lipgloss.Style
	Dim       lipgloss.Style
}

// DefaultStyles returns the default color scheme.
func DefaultStyles() Styles {
	return Styles{
		OK:        lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#00ff9f")),
		Cancelled: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#ffcc00")),
		Fault:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#ff5f56")),
		Launched:  lipgloss.NewStyle().Foreground(lipgloss.Color("#58a6ff")),
		Label:     lipgloss.NewStyle().Bold(true),
		Dim:       lipgloss.NewStyle().Foreground(lipgloss.Color("#6e7681")),
	}
}

// RenderState renders a run state with its outcome color.
func (s Styles) RenderState(state string) string {
	switch state {
	case "ok":
		return s.OK.Render(state)
	case "cancelled":
		return s.Cancelled.Render(state)
	case "fault":
		return s.Fault.Render(state)
	case "launched":
		return s.Launched.Render(state)
	default:
		return s.Dim.Render(state)
	}
}

// FormatDuration formats a duration to a short human readable string.
func FormatDuration(d time.Duration) string {
	ms := d.Milliseconds()
	if ms < 1000 {
		return fmt.Sprintf("%dms", ms)
	}
	secs := float64(ms) / 1000
	if secs < 60 {
		return fmt.Sprintf("%.1fs", secs)
	}
	mins := int(secs / 60)
	secs = secs - float64(mins*60)
	return fmt.Sprintf("%dm%.1fs", mins, secs)
}
