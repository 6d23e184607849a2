package ui

import (
	"io"
	"os"

	"golang.org/x/term"
)

// OutputMode determines how pipeline output is rendered.
type OutputMode int

const (
	// OutputModeInteractive enables colors, spinners, and progress bars
	OutputModeInteractive OutputMode = iota
	// OutputModePlain disables colors and progress (for piped output)
	OutputModePlain
	// OutputModeJSON outputs machine-readable JSON only
	OutputModeJSON
)

// UI bundles output writers, the detected mode, and the style set shared
// by commands and reporters.
type UI struct {
	Mode      OutputMode
	Writer    io.Writer
	ErrWriter io.Writer
	Styles    *Styles
}

// New creates a UI with automatic TTY detection.
func New(w, errW io.Writer, format string) *UI {
	mode := detectMode(w, format)
	return &UI{
		Mode:      mode,
		Writer:    w,
		ErrWriter: errW,
		Styles:    NewStyles(mode == OutputModeInteractive),
	}
}

func detectMode(w io.Writer, format string) OutputMode {
	if format == "json" {
		return OutputModeJSON
	}

	if f, ok := w.(*os.File); ok {
		if term.IsTerminal(int(f.Fd())) {
			return OutputModeInteractive
		}
	}

	return OutputModePlain
}

// IsInteractive reports whether output is going to a TTY.
func (ui *UI) IsInteractive() bool {
	return ui.Mode == OutputModeInteractive
}

// IsJSON reports whether JSON output mode is selected.
func (ui *UI) IsJSON() bool {
	return ui.Mode == OutputModeJSON
}
