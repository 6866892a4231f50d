package progress

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/bnema/lootctl/internal/ui/styles"
)

// Messages driving a Model
type (
	StartStepMsg    struct{}
	CompleteStepMsg struct{}
	FailStepMsg     struct{ Err error }
	SubProgressMsg  struct {
		Percent float64
		Detail  string
	}
	DoneMsg struct{ Err error }
)

// Model displays a Progress. The program quits once every step completed
// or one failed.
type Model struct {
	progress *Progress
	spinner  spinner.Model
	bar      progress.Model
	done     bool
	err      error
}

// NewModel creates a model with the given steps
func NewModel(title string, steps ...string) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = styles.Spinner

	return Model{
		progress: NewProgress(title, steps...),
		spinner:  s,
		bar: progress.New(
			progress.WithDefaultGradient(),
			progress.WithWidth(30),
			progress.WithoutPercentage(),
		),
	}
}

func (m Model) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.bar.Width = min(msg.Width-10, 40)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case progress.FrameMsg:
		bar, cmd := m.bar.Update(msg)
		m.bar = bar.(progress.Model)
		return m, cmd

	case StartStepMsg:
		m.progress.Start()

	case CompleteStepMsg:
		m.progress.Complete()
		if m.progress.Done() {
			m.done = true
			return m, tea.Quit
		}

	case FailStepMsg:
		m.progress.Fail(msg.Err)
		m.err = msg.Err
		m.done = true
		return m, tea.Quit

	case SubProgressMsg:
		m.progress.Percent = msg.Percent
		m.progress.Detail = msg.Detail
		return m, m.bar.SetPercent(msg.Percent / 100)

	case DoneMsg:
		m.done = true
		m.err = msg.Err
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) View() string {
	var b strings.Builder

	title := lipgloss.NewStyle().Foreground(styles.Text).Bold(true)
	b.WriteString(title.Render(m.progress.Title) + "\n\n")

	for _, step := range m.progress.Steps {
		icon := StyledIcon(step.State)
		if step.State == StateInProgress {
			icon = m.spinner.View()
		}
		fmt.Fprintf(&b, "  %s %s\n", icon, StepStyle(step.State).Render(step.Name))

		if step.State == StateInProgress && m.progress.Percent > 0 {
			if m.progress.Detail != "" {
				b.WriteString("      " + styles.MutedText.Render(m.progress.Detail) + "\n")
			}
			b.WriteString("    " + m.bar.View() + "\n")
		}
		if step.State == StateError && step.Error != nil {
			b.WriteString("      " + styles.ErrorText.Render(step.Error.Error()) + "\n")
		}
	}
	b.WriteString("\n")
	return b.String()
}

// Err returns the error that stopped the operation, if any
func (m Model) Err() error {
	return m.err
}

// Progress returns the step state
func (m Model) Progress() *Progress {
	return m.progress
}
