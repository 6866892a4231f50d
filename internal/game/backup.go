package game

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

const (
	// MaxUserlistBackups is the number of userlist backups kept per game
	MaxUserlistBackups = 3
	// BackupTimestampFormat names backup files
	BackupTimestampFormat = "20060102-150405.000000"

	backupDir    = "backups"
	backupPrefix = "userlist-"
)

// BackupDir returns the folder holding the game's userlist backups
func (g Game) BackupDir() string {
	return filepath.Join(g.LocalPath, backupDir)
}

// backupUserlist copies the current userlist into the backup folder and
// prunes old copies. A missing userlist is not an error.
func (s *State) backupUserlist() (string, error) {
	src, err := os.Open(s.Game.UserlistPath())
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", err
	}
	defer func() { _ = src.Close() }()

	if err := os.MkdirAll(s.Game.BackupDir(), 0755); err != nil {
		return "", fmt.Errorf("failed to create backup directory: %w", err)
	}

	name := backupPrefix + s.now().Format(BackupTimestampFormat) + ".yaml"
	path := filepath.Join(s.Game.BackupDir(), name)
	dst, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create backup: %w", err)
	}
	if _, err := io.Copy(dst, src); err != nil {
		_ = dst.Close()
		_ = os.Remove(path)
		return "", fmt.Errorf("failed to back up userlist: %w", err)
	}
	if err := dst.Close(); err != nil {
		return "", err
	}

	if err := s.pruneBackups(); err != nil {
		s.log.Warn("Failed to prune userlist backups", "error", err)
	}
	return path, nil
}

// UserlistBackups lists backup file names, newest first
func (s *State) UserlistBackups() ([]string, error) {
	entries, err := os.ReadDir(s.Game.BackupDir())
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, err
	}

	backups := []string{}
	for _, e := range entries {
		if !e.IsDir() && strings.HasPrefix(e.Name(), backupPrefix) {
			backups = append(backups, e.Name())
		}
	}
	sort.Sort(sort.Reverse(sort.StringSlice(backups)))
	return backups, nil
}

func (s *State) pruneBackups() error {
	backups, err := s.UserlistBackups()
	if err != nil {
		return err
	}
	for _, name := range backups[min(len(backups), MaxUserlistBackups):] {
		if err := os.Remove(filepath.Join(s.Game.BackupDir(), name)); err != nil {
			return err
		}
	}
	return nil
}
