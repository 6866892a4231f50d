// Package logger sets up the process-wide lootctl log.
package logger

import (
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
)

func init() {
	// Everything goes through Log; keep the package default quiet.
	log.SetLevel(log.FatalLevel)
}

var (
	// Log is the process logger. It discards output until Init is called.
	Log = log.New(io.Discard)

	logFile *os.File
)

// Level maps the debugVerbosity setting to a log level: 0 logs warnings and
// errors, 1 adds info, 2 and above add debug output.
func Level(verbosity int) log.Level {
	switch {
	case verbosity >= 2:
		return log.DebugLevel
	case verbosity == 1:
		return log.InfoLevel
	}
	return log.WarnLevel
}

// Init opens the log file. verbose mirrors the log to stderr at debug level;
// otherwise verbosity picks the level. If the file cannot be opened the log
// goes to stderr only.
func Init(verbose bool, verbosity int) error {
	level := Level(verbosity)
	if verbose {
		level = log.DebugLevel
	}

	var output io.Writer = os.Stderr
	if f, err := openLogFile(); err == nil {
		logFile = f
		output = f
		if verbose {
			output = io.MultiWriter(f, os.Stderr)
		}
	}

	Log = log.NewWithOptions(output, log.Options{
		ReportTimestamp: true,
		Prefix:          "lootctl",
	})
	Log.SetLevel(level)
	return nil
}

func openLogFile() (*os.File, error) {
	path := Path()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, err
	}
	return os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
}

// Close closes the log file
func Close() {
	if logFile != nil {
		_ = logFile.Close()
		logFile = nil
	}
}

// Path returns the log file location
func Path() string {
	cacheDir := os.Getenv("XDG_CACHE_HOME")
	if cacheDir == "" {
		homeDir, _ := os.UserHomeDir()
		cacheDir = filepath.Join(homeDir, ".cache")
	}
	return filepath.Join(cacheDir, "lootctl", "lootctl.log")
}
