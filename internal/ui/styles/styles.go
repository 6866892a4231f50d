// Package styles holds the lipgloss palette shared by the CLI and the TUI.
package styles

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Palette
var (
	Primary   = lipgloss.Color("#7D56F4")
	Secondary = lipgloss.Color("#FF79C6")
	Success   = lipgloss.Color("#50FA7B")
	Warning   = lipgloss.Color("#FFB86C")
	Error     = lipgloss.Color("#FF5555")
	Muted     = lipgloss.Color("#6272A4")
	Text      = lipgloss.Color("#F8F8F2")
	Subtle    = lipgloss.Color("#44475A")
)

var (
	Title = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#FFFDF5")).
		Background(Primary).
		Padding(0, 1).
		Bold(true)

	Subtitle = lipgloss.NewStyle().
			Foreground(Muted).
			Italic(true)

	NormalText  = lipgloss.NewStyle().Foreground(Text)
	MutedText   = lipgloss.NewStyle().Foreground(Muted)
	SuccessText = lipgloss.NewStyle().Foreground(Success)
	WarningText = lipgloss.NewStyle().Foreground(Warning)
	ErrorText   = lipgloss.NewStyle().Foreground(Error)

	// Selected is the cursor row in lists
	Selected = lipgloss.NewStyle().
			Foreground(Primary).
			Bold(true)

	App = lipgloss.NewStyle().
		Padding(1, 2)

	Box = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Subtle).
		Padding(0, 1)

	StatusBar = lipgloss.NewStyle().
			Foreground(Text).
			Background(Subtle).
			Padding(0, 1)

	Help = lipgloss.NewStyle().
		Foreground(Muted)

	Spinner = lipgloss.NewStyle().
		Foreground(Primary)
)

var (
	CheckMark = lipgloss.NewStyle().Foreground(Success).SetString("✓")
	CrossMark = lipgloss.NewStyle().Foreground(Error).SetString("✗")
	Bullet    = lipgloss.NewStyle().Foreground(Primary).SetString("•")
	Arrow     = lipgloss.NewStyle().Foreground(Primary).SetString("→")
)

// Plugin list styles
var (
	PluginName = lipgloss.NewStyle().
			Foreground(Text).
			Bold(true)

	PluginInactive = lipgloss.NewStyle().
			Foreground(Muted)

	PluginCRC = lipgloss.NewStyle().
			Foreground(Muted)

	Badge = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#000000")).
		Bold(true).
		Padding(0, 1)

	TagAdded = lipgloss.NewStyle().
			Foreground(Success)

	TagRemoved = lipgloss.NewStyle().
			Foreground(Error).
			Strikethrough(true)
)

// FormatSuccess formats a success message
func FormatSuccess(msg string) string {
	return CheckMark.String() + " " + SuccessText.Render(msg)
}

// FormatError formats an error message
func FormatError(msg string) string {
	return CrossMark.String() + " " + ErrorText.Render(msg)
}

// FormatWarning formats a warning message
func FormatWarning(msg string) string {
	return WarningText.Render("! " + msg)
}

// FormatMessage renders a metadata message with a marker for its level:
// "say", "warn" or "error".
func FormatMessage(level, text string) string {
	switch level {
	case "error":
		return FormatError(text)
	case "warn":
		return FormatWarning(text)
	}
	return Bullet.String() + " " + NormalText.Render(text)
}

// FormatPriority renders a priority, marking global priorities
func FormatPriority(priority int64, global bool) string {
	s := fmt.Sprintf("%d", priority)
	if global {
		return Badge.Background(Secondary).Render("G " + s)
	}
	return MutedText.Render(s)
}

// FormatDirtyBadge returns a styled "dirty" badge
func FormatDirtyBadge() string {
	return Badge.Background(Warning).Render("dirty")
}

// FormatActive returns a styled activity indicator
func FormatActive(active bool) string {
	if active {
		return SuccessText.Render("active")
	}
	return PluginInactive.Render("inactive")
}

// FormatTags renders Bash Tags, removals as struck-through names
func FormatTags(tags []string) string {
	parts := make([]string, 0, len(tags))
	for _, t := range tags {
		if name, ok := strings.CutPrefix(t, "-"); ok {
			parts = append(parts, TagRemoved.Render(name))
			continue
		}
		parts = append(parts, TagAdded.Render(t))
	}
	return strings.Join(parts, " ")
}
