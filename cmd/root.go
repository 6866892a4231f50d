package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/bnema/lootctl/internal/conflict"
	"github.com/bnema/lootctl/internal/logger"
	"github.com/bnema/lootctl/internal/query"
	"github.com/bnema/lootctl/internal/resolver"
	"github.com/bnema/lootctl/internal/session"
	"github.com/bnema/lootctl/internal/shell"
)

// Version info set via ldflags at build time
var (
	version = "0.7.1"
	commit  = "unknown"
)

var (
	verbose      bool
	settingsPath string
	gameFolder   string
	settings     session.Settings
)

var rootCmd = &cobra.Command{
	Use:     "lootctl",
	Short:   "Plugin metadata resolver for Bethesda games",
	Version: version + " (" + commit + ")",
	Long: `lootctl resolves LOOT masterlist and userlist metadata against the
plugins installed for Oblivion, Skyrim, Fallout 3 and Fallout: New Vegas.

Quick start:
  lootctl games                  List configured games
  lootctl data                   Show resolved plugin metadata
  lootctl browse                 Browse plugins interactively
  lootctl serve                  Answer queries on stdin`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, err := session.LoadSettings(settingsPath)
		if err != nil {
			return err
		}
		settings = s
		if err := logger.Init(verbose, settings.DebugVerbosity); err != nil {
			return err
		}
		logger.Log.Debug("Loaded settings", "path", settingsPath, "language", settings.Language)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logger.Close()
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose/debug logging")
	rootCmd.PersistentFlags().StringVar(&settingsPath, "settings", session.DefaultSettingsPath(), "Settings file")
	rootCmd.PersistentFlags().StringVarP(&gameFolder, "game", "g", "", "Game folder to use, e.g. Skyrim")
}

func getLogger() *log.Logger {
	return logger.Log
}

// newSession builds the session and activates the selected game
func newSession() (*session.Session, error) {
	s, err := session.New(settings, session.Options{
		SettingsPath: settingsPath,
		Logger:       getLogger(),
	})
	if err != nil {
		return nil, err
	}
	if err := s.SelectGame(gameFolder); err != nil {
		return nil, fmt.Errorf("failed to select game: %w", err)
	}
	return s, nil
}

// newRouter builds a router over a fresh session
func newRouter() (*query.Router, *session.Session, error) {
	s, err := newSession()
	if err != nil {
		return nil, nil, err
	}

	desktop := shell.NewDesktop(
		filepath.Join(session.DataDir(), "README.md"),
		logger.Path(),
		os.Stderr,
		getLogger(),
	)
	r := query.NewRouter(
		version,
		s,
		resolver.New(getLogger()),
		conflict.NewDetector(getLogger()),
		desktop,
		getLogger(),
	)
	return r, s, nil
}

// saveSession persists the last game and warns on failure
func saveSession(s *session.Session) {
	if err := s.Save(); err != nil {
		getLogger().Warn("Failed to save settings", "error", err)
	}
}
