package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Stage represents the current stage of the extraction pipeline
type Stage int

const (
	StageDetect Stage = iota
	StageChunk
	StageExtract
	StageAnalyze
	StageDone
)

// Message types for updating the model
type (
	StageMsg      Stage
	OperationMsg  string
	ChunkCountMsg int
	ChunkDoneMsg  struct{ Extracted int }
	WarningMsg    struct{ Level, Message string }
	DoneMsg       struct{ Err error }
)

// Model is the Bubbletea model for pipeline progress display
type Model struct {
	stage      Stage
	spinner    spinner.Model
	progress   progress.Model
	currentOp  string
	chunkCount int
	chunksDone int
	rulesSoFar int
	warnLevel  string
	warning    string
	width      int
	quitting   bool
	err        error
}

// NewModel creates a new progress model
func NewModel() Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	p := progress.New(progress.WithDefaultGradient())

	return Model{
		stage:    StageDetect,
		spinner:  s,
		progress: p,
	}
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return m.spinner.Tick
}

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.quitting = true
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.progress.Width = msg.Width - 4
		if m.progress.Width > 60 {
			m.progress.Width = 60
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case StageMsg:
		m.stage = Stage(msg)
		return m, nil

	case OperationMsg:
		m.currentOp = string(msg)
		return m, nil

	case ChunkCountMsg:
		m.chunkCount = int(msg)
		return m, nil

	case ChunkDoneMsg:
		m.chunksDone++
		m.rulesSoFar += msg.Extracted
		return m, nil

	case WarningMsg:
		// Critical outranks warning; never downgrade mid-run.
		if m.warnLevel != "critical" {
			m.warnLevel = msg.Level
			m.warning = msg.Message
		}
		return m, nil

	case DoneMsg:
		m.err = msg.Err
		m.quitting = true
		return m, tea.Quit
	}

	return m, nil
}

// View renders the model
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var sb strings.Builder

	switch m.stage {
	case StageDetect:
		sb.WriteString(m.spinner.View())
		sb.WriteString(" Detecting language...")

	case StageChunk:
		sb.WriteString(m.spinner.View())
		sb.WriteString(" Chunking source")
		if m.currentOp != "" {
			sb.WriteString(fmt.Sprintf(" (%s)", m.currentOp))
		}

	case StageExtract:
		if m.chunkCount > 0 {
			pct := float64(m.chunksDone) / float64(m.chunkCount)
			sb.WriteString(m.progress.ViewAs(pct))
			sb.WriteString("\n")
		}
		sb.WriteString(m.spinner.View())
		sb.WriteString(" ")
		if m.chunkCount > 0 {
			sb.WriteString(fmt.Sprintf("Extracting rules: chunk %d/%d (%d rules so far)",
				m.chunksDone, m.chunkCount, m.rulesSoFar))
		} else {
			sb.WriteString("Extracting rules...")
		}
		if m.warning != "" {
			style := lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
			if m.warnLevel == "critical" {
				style = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
			}
			sb.WriteString("\n")
			sb.WriteString(style.Render("  ! " + m.warning))
		}

	case StageAnalyze:
		sb.WriteString(m.spinner.View())
		sb.WriteString(" Analyzing completeness...")
	}

	return sb.String()
}
