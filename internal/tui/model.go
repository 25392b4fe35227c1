package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	homedir "github.com/mitchellh/go-homedir"

	"exifsidecar/internal/domain"
	"exifsidecar/internal/presentation"
)

// Phase represents the current state of the TUI
type Phase int

const (
	PhaseExtracting Phase = iota
	PhaseWriting
	PhaseDone
	PhaseError
)

// Messages sent by the pipeline goroutine.
type (
	ProgressMsg struct {
		Phase   Phase
		Current int
		Total   int
		Path    string
	}
	DoneMsg struct {
		Result domain.BatchResult
	}
	ErrorMsg struct {
		Err error
	}
)

type Config struct {
	Inputs  int
	Verbose bool
	// Cancel stops the pipeline when the user quits.
	Cancel context.CancelFunc
}

type Model struct {
	config      Config
	Phase       Phase
	Result      domain.BatchResult
	spinner     spinner.Model
	progress    progress.Model
	current     int
	total       int
	currentFile string
	Err         error
	Quitting    bool
	width       int
}

func NewModel(cfg Config) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = spinnerStyle

	p := progress.New(
		progress.WithDefaultGradient(),
		progress.WithWidth(50),
		progress.WithoutPercentage(),
	)

	return Model{
		config:   cfg,
		Phase:    PhaseExtracting,
		spinner:  s,
		progress: p,
		total:    cfg.Inputs,
		width:    80,
	}
}

func (m Model) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.progress.Width = min(msg.Width-20, 60)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			if m.Phase == PhaseExtracting || m.Phase == PhaseWriting {
				m.Quitting = true
				if m.config.Cancel != nil {
					m.config.Cancel()
				}
			}
			return m, tea.Quit
		case "enter":
			if m.Phase == PhaseDone || m.Phase == PhaseError {
				return m, tea.Quit
			}
		}

	case ProgressMsg:
		m.Phase = msg.Phase
		m.current = msg.Current
		m.total = msg.Total
		m.currentFile = msg.Path
		return m, nil

	case DoneMsg:
		m.Phase = PhaseDone
		m.Result = msg.Result
		return m, tea.Quit

	case ErrorMsg:
		m.Phase = PhaseError
		m.Err = msg.Err
		return m, tea.Quit

	case spinner.TickMsg:
		if m.Phase == PhaseExtracting || m.Phase == PhaseWriting {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
	}

	return m, nil
}

func (m Model) View() string {
	if m.Quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n\n")

	switch m.Phase {
	case PhaseExtracting:
		b.WriteString(m.renderProgress("Extracting metadata"))
	case PhaseWriting:
		b.WriteString(m.renderProgress("Writing sidecars"))
	case PhaseDone:
		b.WriteString(m.renderSummary())
	case PhaseError:
		b.WriteString(m.renderError())
	}

	b.WriteString("\n")
	b.WriteString(m.renderHelp())
	return b.String()
}

func (m Model) renderHeader() string {
	return lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render(iconCamera+" exifsidecar"),
		subtitleStyle.Render(fmt.Sprintf("JSON metadata sidecars for %d images", m.config.Inputs)),
	)
}

func (m Model) renderProgress(label string) string {
	var b strings.Builder

	percent := 0.0
	if m.total > 0 {
		percent = float64(m.current) / float64(m.total)
	}

	b.WriteString(fmt.Sprintf("%s %s...\n\n", m.spinner.View(), label))
	b.WriteString(fmt.Sprintf("  %s\n", m.progress.ViewAs(percent)))
	b.WriteString(fmt.Sprintf("  %s %s\n",
		countStyle.Render(fmt.Sprintf("%d/%d", m.current, m.total)),
		dimStyle.Render(fmt.Sprintf("(%.0f%%)", percent*100)),
	))

	if m.currentFile != "" {
		b.WriteString(fmt.Sprintf("\n  %s %s\n", iconArrow, fileNameStyle.Render(shortenPath(m.currentFile))))
	}
	return b.String()
}

func (m Model) renderSummary() string {
	var b strings.Builder

	b.WriteString(sectionStyle.Render("Summary"))
	b.WriteString("\n\n")
	b.WriteString(fmt.Sprintf("  %s  %s\n", statLabelStyle.Render("Successful:"),
		successStyle.Render(fmt.Sprintf("%s %d", iconSuccess, m.Result.SuccessCount))))
	b.WriteString(fmt.Sprintf("  %s  %s\n", statLabelStyle.Render("Failures:"),
		errorStyle.Render(fmt.Sprintf("%s %d", iconError, m.Result.FailedCount))))

	if m.Result.FailedCount > 0 {
		b.WriteString("\n")
		lines := presentation.FailureLines(m.Result.Failed)
		if !m.config.Verbose && len(lines) > 5 {
			more := len(lines) - 5
			lines = append(lines[:5:5], fmt.Sprintf("... and %d more", more))
		}
		b.WriteString(warningStyle.Render(presentation.JoinLines(lines)))
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) renderError() string {
	return errorBoxStyle.Render(errorStyle.Render(fmt.Sprintf("%s Error: %v", iconError, m.Err)))
}

func (m Model) renderHelp() string {
	var help string
	switch m.Phase {
	case PhaseExtracting, PhaseWriting:
		help = "Press q or ctrl+c to cancel"
	default:
		help = "Press Enter to exit"
	}
	return helpStyle.Render(help)
}

// shortenPath replaces the home directory prefix with ~ for display
func shortenPath(path string) string {
	home, err := homedir.Dir()
	if err != nil || home == "" {
		return path
	}
	if strings.HasPrefix(path, home) {
		return "~" + path[len(home):]
	}
	return path
}
