package progress

import (
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct{ msgs []tea.Msg }

func (r *recorder) Send(msg tea.Msg) { r.msgs = append(r.msgs, msg) }

func TestParseGitProgress(t *testing.T) {
	tests := []struct {
		line    string
		percent float64
		detail  string
		ok      bool
	}{
		{"Receiving objects:  67% (156/233)", 67, "Receiving objects: 156/233", true},
		{"remote: Counting objects: 100% (233/233), done.", 100, "Counting objects: 233/233", true},
		{"Resolving deltas:   4% (2/45)", 4, "Resolving deltas: 2/45", true},
		{"Enumerating objects: 233, done.", 0, "Enumerating objects: 233", true},
		{"Total 233 (delta 45), reused 0", 0, "", false},
		{"", 0, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			percent, detail, ok := parseGitProgress(tt.line)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.percent, percent)
			assert.Equal(t, tt.detail, detail)
		})
	}
}

func TestGitWriterSplitsCarriageReturns(t *testing.T) {
	rec := &recorder{}
	w := NewGitWriter(rec)

	n, err := w.Write([]byte("Receiving objects:  10% (1/10)\rReceiving objects:  20% (2/10)\r"))
	require.NoError(t, err)
	assert.Equal(t, 62, n)
	assert.Equal(t, []tea.Msg{
		SubProgressMsg{Percent: 10, Detail: "Receiving objects: 1/10"},
		SubProgressMsg{Percent: 20, Detail: "Receiving objects: 2/10"},
	}, rec.msgs)
}

func TestProgressSteps(t *testing.T) {
	p := NewProgress("Updating masterlist", "Fetch", "Reset")
	assert.False(t, p.Done())

	p.Start()
	assert.Equal(t, StateInProgress, p.Steps[0].State)
	p.Complete()
	p.Start()
	p.Complete()
	assert.True(t, p.Done())

	p.Complete()
	assert.Equal(t, 2, p.Current)
}

func TestModelStopsOnFailure(t *testing.T) {
	m := NewModel("Updating masterlist", "Fetch", "Reset")

	next, _ := m.Update(StartStepMsg{})
	next, cmd := next.Update(FailStepMsg{Err: errors.New("no remote")})
	require.NotNil(t, cmd)

	model := next.(Model)
	assert.EqualError(t, model.Err(), "no remote")
	assert.True(t, model.Progress().Failed())
	assert.Contains(t, model.View(), "no remote")
}
