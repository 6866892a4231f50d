// Package progress renders multi-step operations such as a masterlist update.
package progress

import (
	"os"

	"github.com/charmbracelet/lipgloss"

	"github.com/bnema/lootctl/internal/ui/styles"
)

// State is the state of one step
type State int

const (
	StatePending State = iota
	StateInProgress
	StateComplete
	StateError
)

// Step is one stage of an operation, e.g. "Fetching masterlist"
type Step struct {
	Name   string
	State  State
	Detail string
	Error  error
}

// Icons is a glyph set for step states
type Icons struct {
	Check   string
	Cross   string
	Pending string
	Warning string
	Spinner string
}

var (
	NerdFontIcons = Icons{
		Check:   "\uf00c",
		Cross:   "\uf00d",
		Pending: "\uf111",
		Warning: "\uf071",
		Spinner: "\uf110",
	}

	ASCIIIcons = Icons{
		Check:   "+",
		Cross:   "x",
		Pending: "o",
		Warning: "!",
		Spinner: "*",
	}
)

// GetIcons returns Nerd Font glyphs when LOOTCTL_NERD_FONTS=1
func GetIcons() Icons {
	if os.Getenv("LOOTCTL_NERD_FONTS") == "1" {
		return NerdFontIcons
	}
	return ASCIIIcons
}

var iconStyles = map[State]lipgloss.Style{
	StatePending:    lipgloss.NewStyle().Foreground(styles.Muted),
	StateInProgress: lipgloss.NewStyle().Foreground(styles.Primary),
	StateComplete:   lipgloss.NewStyle().Foreground(styles.Success),
	StateError:      lipgloss.NewStyle().Foreground(styles.Error),
}

// StyledIcon returns the icon for state
func StyledIcon(state State) string {
	icons := GetIcons()
	glyph := icons.Pending
	switch state {
	case StateComplete:
		glyph = icons.Check
	case StateError:
		glyph = icons.Cross
	case StateInProgress:
		glyph = icons.Spinner
	}
	return iconStyles[state].Render(glyph)
}

// StepStyle returns the text style for a step in state
func StepStyle(state State) lipgloss.Style {
	switch state {
	case StateComplete:
		return styles.SuccessText
	case StateError:
		return styles.ErrorText
	case StateInProgress:
		return styles.NormalText.Bold(true)
	}
	return styles.MutedText
}

// Progress tracks the steps of an operation. Steps run in order; Current
// is the index of the step being worked on.
type Progress struct {
	Title   string
	Steps   []Step
	Current int

	// Percent and Detail describe the running step, e.g. git fetch output.
	Percent float64
	Detail  string
}

// NewProgress creates a progress with all steps pending
func NewProgress(title string, names ...string) *Progress {
	steps := make([]Step, len(names))
	for i, name := range names {
		steps[i] = Step{Name: name}
	}
	return &Progress{Title: title, Steps: steps}
}

func (p *Progress) current() *Step {
	if p.Current < len(p.Steps) {
		return &p.Steps[p.Current]
	}
	return nil
}

// Start marks the current step as running
func (p *Progress) Start() {
	if s := p.current(); s != nil {
		s.State = StateInProgress
		p.Percent, p.Detail = 0, ""
	}
}

// Complete finishes the current step and moves to the next one
func (p *Progress) Complete() {
	if s := p.current(); s != nil {
		s.State = StateComplete
		s.Detail = ""
		p.Percent, p.Detail = 0, ""
		p.Current++
	}
}

// Fail marks the current step as failed
func (p *Progress) Fail(err error) {
	if s := p.current(); s != nil {
		s.State = StateError
		s.Error = err
	}
}

// Done reports whether every step completed
func (p *Progress) Done() bool {
	for _, s := range p.Steps {
		if s.State != StateComplete {
			return false
		}
	}
	return true
}

// Failed reports whether a step failed
func (p *Progress) Failed() bool {
	for _, s := range p.Steps {
		if s.State == StateError {
			return true
		}
	}
	return false
}
