// Package style provides the CLI's colors, icons and text styles.
package style

import "github.com/charmbracelet/lipgloss"

// Brand colors.
var (
	Iris   = lipgloss.Color("#8B5CF6")
	Slate  = lipgloss.Color("#667085")
	Green  = lipgloss.Color("#22A06B")
	Red    = lipgloss.Color("#D93025")
	Yellow = lipgloss.Color("#F59E0B")
)

// Icons.
const (
	Check   = "✓"
	Cross   = "✗"
	Warning = "!"
	Tilde   = "~"
	Dot     = "●"
	Circle  = "○"
)

// Text styles for listings.
var (
	TypeName = lipgloss.NewStyle().Foreground(Iris)
	Muted    = lipgloss.NewStyle().Foreground(Slate)
	Success  = lipgloss.NewStyle().Foreground(Green)
)
