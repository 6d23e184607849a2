package ui

import (
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"
)

// ProgressController drives the bubbletea program during a pipeline run.
// All methods are safe to call on a nil controller, so callers never need
// to branch on interactive mode.
type ProgressController struct {
	ui      *UI
	program *tea.Program
}

// StartProgress starts the progress display. Returns nil outside
// interactive mode.
func (ui *UI) StartProgress() *ProgressController {
	if ui.Mode != OutputModeInteractive {
		return nil
	}

	m := NewModel()
	p := tea.NewProgram(m, tea.WithOutput(ui.ErrWriter))

	ctrl := &ProgressController{
		ui:      ui,
		program: p,
	}

	go func() {
		_, _ = p.Run()
	}()

	return ctrl
}

// SetStage updates the current pipeline stage
func (pc *ProgressController) SetStage(stage Stage) {
	if pc != nil && pc.program != nil {
		pc.program.Send(StageMsg(stage))
	}
}

// SetOperation updates the current operation description
func (pc *ProgressController) SetOperation(op string) {
	if pc != nil && pc.program != nil {
		pc.program.Send(OperationMsg(op))
	}
}

// SetChunkCount sets the total number of chunks to process
func (pc *ProgressController) SetChunkCount(count int) {
	if pc != nil && pc.program != nil {
		pc.program.Send(ChunkCountMsg(count))
	}
}

// ChunkDone records one completed chunk and the rules it yielded
func (pc *ProgressController) ChunkDone(extracted int) {
	if pc != nil && pc.program != nil {
		pc.program.Send(ChunkDoneMsg{Extracted: extracted})
	}
}

// Warn surfaces a mid-run extraction warning under the progress bar
func (pc *ProgressController) Warn(level, message string) {
	if pc != nil && pc.program != nil {
		pc.program.Send(WarningMsg{Level: level, Message: message})
	}
}

// Done signals that all work is complete
func (pc *ProgressController) Done(err error) {
	if pc != nil && pc.program != nil {
		pc.program.Send(DoneMsg{Err: err})
		pc.program.Wait()
	}
}

// SimpleSpinner shows a static message for short operations without full
// progress tracking
type SimpleSpinner struct {
	ui      *UI
	program *tea.Program
	done    chan struct{}
}

type simpleSpinnerModel struct {
	message  string
	quitting bool
}

func (m simpleSpinnerModel) Init() tea.Cmd {
	return nil
}

func (m simpleSpinnerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.quitting = true
			return m, tea.Quit
		}
	case DoneMsg:
		m.quitting = true
		return m, tea.Quit
	}
	return m, nil
}

func (m simpleSpinnerModel) View() string {
	if m.quitting {
		return ""
	}
	return fmt.Sprintf("  %s", m.message)
}

// StartSimpleSpinner starts a simple spinner with a message. Outside
// interactive mode the message is printed once instead.
func (ui *UI) StartSimpleSpinner(w io.Writer, message string) *SimpleSpinner {
	if ui.Mode != OutputModeInteractive {
		fmt.Fprintf(w, "%s\n", message)
		return nil
	}

	m := simpleSpinnerModel{message: message}
	p := tea.NewProgram(m, tea.WithOutput(w))

	ss := &SimpleSpinner{
		ui:      ui,
		program: p,
		done:    make(chan struct{}),
	}

	go func() {
		_, _ = p.Run()
		close(ss.done)
	}()

	return ss
}

// Stop stops the simple spinner
func (ss *SimpleSpinner) Stop() {
	if ss != nil && ss.program != nil {
		ss.program.Send(DoneMsg{})
		<-ss.done
	}
}
