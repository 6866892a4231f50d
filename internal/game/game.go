package game

import (
	"os"
	"path/filepath"
)

const (
	// MasterlistFile is the masterlist file name inside a game's local folder
	MasterlistFile = "masterlist.yaml"
	// UserlistFile is the userlist file name inside a game's local folder
	UserlistFile = "userlist.yaml"
)

// Game describes one configured game install
type Game struct {
	Type           Type
	Name           string
	Folder         string
	Master         string
	Path           string
	MasterlistRepo string

	// LocalPath holds the masterlist repository and the userlist.
	LocalPath string
}

// New returns a game with the defaults of its type
func New(t Type, path, localRoot string) Game {
	return Game{
		Type:      t,
		Name:      t.Name(),
		Folder:    t.FolderName(),
		Master:    t.Master(),
		Path:      path,
		LocalPath: filepath.Join(localRoot, t.FolderName()),
	}
}

// IsInstalled reports whether the game's install folder exists
func (g Game) IsInstalled() bool {
	if g.Path == "" {
		return false
	}
	info, err := os.Stat(g.Path)
	return err == nil && info.IsDir()
}

// DataPath returns the folder plugins are installed into
func (g Game) DataPath() string {
	return filepath.Join(g.Path, "Data")
}

// MasterlistPath returns the masterlist location
func (g Game) MasterlistPath() string {
	return filepath.Join(g.LocalPath, MasterlistFile)
}

// UserlistPath returns the userlist location
func (g Game) UserlistPath() string {
	return filepath.Join(g.LocalPath, UserlistFile)
}
