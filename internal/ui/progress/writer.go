package progress

import (
	"regexp"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// Sender delivers messages to a running program; *tea.Program implements it.
type Sender interface {
	Send(msg tea.Msg)
}

// GitWriter turns git sideband progress into SubProgressMsg messages. It is
// passed as the progress writer of go-git fetch options.
type GitWriter struct {
	sender Sender
}

// NewGitWriter creates a writer sending to s
func NewGitWriter(s Sender) *GitWriter {
	return &GitWriter{sender: s}
}

func (w *GitWriter) Write(p []byte) (int, error) {
	// Sideband output separates updates of the same line with \r.
	for _, line := range strings.FieldsFunc(string(p), func(r rune) bool { return r == '\r' || r == '\n' }) {
		if percent, detail, ok := parseGitProgress(line); ok {
			w.sender.Send(SubProgressMsg{Percent: percent, Detail: detail})
		}
	}
	return len(p), nil
}

var (
	countedProgress = regexp.MustCompile(`^(Counting objects|Compressing objects|Receiving objects|Resolving deltas):\s+(\d+)%\s+\((\d+)/(\d+)\)`)
	enumerating     = regexp.MustCompile(`^Enumerating objects:\s+(\d+)`)
)

// parseGitProgress reads lines such as "Receiving objects:  67% (156/233)".
func parseGitProgress(line string) (float64, string, bool) {
	line = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), "remote:"))
	if m := countedProgress.FindStringSubmatch(line); m != nil {
		percent, _ := strconv.ParseFloat(m[2], 64)
		return percent, m[1] + ": " + m[3] + "/" + m[4], true
	}
	if m := enumerating.FindStringSubmatch(line); m != nil {
		return 0, "Enumerating objects: " + m[1], true
	}
	return 0, "", false
}
