package ui

import (
	"github.com/charmbracelet/lipgloss"
)

// Styles holds the lipgloss styles used for terminal reports. With styling
// disabled every style renders text unchanged and icons degrade to ASCII
// labels, so piped output stays clean.
type Styles struct {
	enabled bool

	// Grade styles
	Success  lipgloss.Style
	Good     lipgloss.Style
	Warning  lipgloss.Style
	Error    lipgloss.Style
	Critical lipgloss.Style

	// Structural styles
	Header    lipgloss.Style
	Subheader lipgloss.Style
	Label     lipgloss.Style
	Value     lipgloss.Style
	Separator lipgloss.Style

	// Icons
	IconSuccess  string
	IconWarning  string
	IconError    string
	IconInfo     string
	IconCritical string
}

// NewStyles creates a style set; enabled selects colored output.
func NewStyles(enabled bool) *Styles {
	s := &Styles{enabled: enabled}

	if enabled {
		s.Success = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))  // Green
		s.Good = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))     // Cyan
		s.Warning = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))  // Yellow
		s.Error = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))     // Red
		s.Critical = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)

		s.Header = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15"))
		s.Subheader = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
		s.Label = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
		s.Value = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
		s.Separator = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))

		s.IconSuccess = "✓"
		s.IconWarning = "⚠"
		s.IconError = "✗"
		s.IconInfo = "ℹ"
		s.IconCritical = "✗"
	} else {
		s.Success = lipgloss.NewStyle()
		s.Good = lipgloss.NewStyle()
		s.Warning = lipgloss.NewStyle()
		s.Error = lipgloss.NewStyle()
		s.Critical = lipgloss.NewStyle()

		s.Header = lipgloss.NewStyle()
		s.Subheader = lipgloss.NewStyle()
		s.Label = lipgloss.NewStyle()
		s.Value = lipgloss.NewStyle()
		s.Separator = lipgloss.NewStyle()

		s.IconSuccess = "OK:"
		s.IconWarning = "WARN:"
		s.IconError = "ERROR:"
		s.IconInfo = "INFO:"
		s.IconCritical = "CRITICAL:"
	}

	return s
}

// Enabled returns whether styling is enabled
func (s *Styles) Enabled() bool {
	return s.enabled
}
