// Package shell performs the desktop actions queries ask for: opening files,
// copying to the clipboard, in-page search and the window title.
package shell

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/log"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
)

// Error codes reported to query clients
const (
	CodeOpenFailed      = 1
	CodeClipboardFailed = 2
)

// Error is a failed desktop action carrying a client-visible code
type Error struct {
	code int
	Op   string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Code returns the client-visible failure code
func (e *Error) Code() int {
	return e.code
}

// Desktop runs actions against the user's desktop session
type Desktop struct {
	ReadmePath string
	LogPath    string

	open  func(path string) error
	copy  func(text string) error
	title io.Writer
	log   *log.Logger

	search string
}

// NewDesktop creates a desktop shell. The window title is written to title,
// usually os.Stderr; nil disables it.
func NewDesktop(readmePath, logPath string, title io.Writer, logger *log.Logger) *Desktop {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Desktop{
		ReadmePath: readmePath,
		LogPath:    logPath,
		open:       xdgOpen,
		copy:       clipboard.WriteAll,
		title:      title,
		log:        logger,
	}
}

func xdgOpen(path string) error {
	return exec.Command("xdg-open", path).Start()
}

// OpenReadme opens the readme in the default application
func (d *Desktop) OpenReadme() error {
	d.log.Info("Opening readme", "path", d.ReadmePath)
	if err := d.open(d.ReadmePath); err != nil {
		return &Error{code: CodeOpenFailed, Op: "open readme", Err: err}
	}
	return nil
}

// OpenLogLocation opens the folder holding the log file
func (d *Desktop) OpenLogLocation() error {
	dir := filepath.Dir(d.LogPath)
	d.log.Info("Opening log location", "path", dir)
	if err := d.open(dir); err != nil {
		return &Error{code: CodeOpenFailed, Op: "open log location", Err: err}
	}
	return nil
}

// Find records text as the active search
func (d *Desktop) Find(text string) error {
	d.log.Debug("Starting search", "text", text)
	d.search = text
	return nil
}

// StopFinding clears the active search
func (d *Desktop) StopFinding() error {
	if d.search != "" {
		d.log.Debug("Cancelling search", "text", d.search)
	}
	d.search = ""
	return nil
}

// Search returns the active search text
func (d *Desktop) Search() string {
	return d.search
}

// CopyText puts text on the system clipboard
func (d *Desktop) CopyText(text string) error {
	if err := d.copy(text); err != nil {
		return &Error{code: CodeClipboardFailed, Op: "copy to clipboard", Err: err}
	}
	return nil
}

// SetTitle sets the terminal window title
func (d *Desktop) SetTitle(title string) {
	if d.title == nil {
		return
	}
	if f, ok := d.title.(*os.File); ok && !isatty.IsTerminal(f.Fd()) {
		return
	}
	termenv.NewOutput(d.title).SetWindowTitle(title)
}
