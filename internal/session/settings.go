package session

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/bnema/lootctl/internal/game"
)

// SettingsFile is the settings file name inside the config directory
const SettingsFile = "settings.yaml"

// AutoGame selects the last used game, or the first installed one
const AutoGame = "auto"

// GameSettings configures one game
type GameSettings struct {
	Type   string `mapstructure:"type" json:"type"`
	Name   string `mapstructure:"name" json:"name"`
	Folder string `mapstructure:"folder" json:"folder"`
	Master string `mapstructure:"master" json:"master"`
	Path   string `mapstructure:"path" json:"path"`
	Repo   string `mapstructure:"repo" json:"repo"`
}

// Settings is the user configuration. It doubles as the getSettings payload.
type Settings struct {
	Language         string         `mapstructure:"language" json:"language"`
	Game             string         `mapstructure:"game" json:"game"`
	LastGame         string         `mapstructure:"lastGame" json:"lastGame"`
	DebugVerbosity   int            `mapstructure:"debugVerbosity" json:"debugVerbosity"`
	UpdateMasterlist bool           `mapstructure:"updateMasterlist" json:"updateMasterlist"`
	Games            []GameSettings `mapstructure:"games" json:"games"`
}

// DefaultSettings returns the settings used when no file exists
func DefaultSettings() Settings {
	s := Settings{
		Language:         "en",
		Game:             AutoGame,
		LastGame:         AutoGame,
		UpdateMasterlist: true,
	}
	for _, t := range game.Types {
		s.Games = append(s.Games, GameSettings{
			Type:   t.String(),
			Name:   t.Name(),
			Folder: t.FolderName(),
			Master: t.Master(),
		})
	}
	return s
}

// ConfigDir returns the lootctl config directory
func ConfigDir() string {
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, _ := os.UserHomeDir()
		configDir = filepath.Join(homeDir, ".config")
	}
	return filepath.Join(configDir, "lootctl")
}

// DataDir returns the directory holding each game's masterlist and userlist
func DataDir() string {
	dataDir := os.Getenv("XDG_DATA_HOME")
	if dataDir == "" {
		homeDir, _ := os.UserHomeDir()
		dataDir = filepath.Join(homeDir, ".local", "share")
	}
	return filepath.Join(dataDir, "lootctl")
}

// DefaultSettingsPath returns the settings file location
func DefaultSettingsPath() string {
	return filepath.Join(ConfigDir(), SettingsFile)
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix("LOOTCTL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	defaults := DefaultSettings()
	v.SetDefault("language", defaults.Language)
	v.SetDefault("game", defaults.Game)
	v.SetDefault("lastGame", defaults.LastGame)
	v.SetDefault("debugVerbosity", defaults.DebugVerbosity)
	v.SetDefault("updateMasterlist", defaults.UpdateMasterlist)
	return v
}

// LoadSettings reads the settings file at path. A missing file yields the
// defaults. LOOTCTL_* environment variables override scalar settings.
func LoadSettings(path string) (Settings, error) {
	v := newViper()

	if _, err := os.Stat(path); err == nil {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Settings{}, fmt.Errorf("failed to read settings: %w", err)
		}
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return Settings{}, fmt.Errorf("failed to parse settings: %w", err)
	}
	if len(s.Games) == 0 {
		s.Games = DefaultSettings().Games
	}
	return s, nil
}

// SaveSettings writes s to path
func SaveSettings(path string, s Settings) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	v := viper.New()
	v.SetConfigType("yaml")
	v.Set("language", s.Language)
	v.Set("game", s.Game)
	v.Set("lastGame", s.LastGame)
	v.Set("debugVerbosity", s.DebugVerbosity)
	v.Set("updateMasterlist", s.UpdateMasterlist)

	games := make([]map[string]interface{}, 0, len(s.Games))
	for _, g := range s.Games {
		games = append(games, map[string]interface{}{
			"type":   g.Type,
			"name":   g.Name,
			"folder": g.Folder,
			"master": g.Master,
			"path":   g.Path,
			"repo":   g.Repo,
		})
	}
	v.Set("games", games)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("failed to write settings: %w", err)
	}
	return nil
}

// toGame builds a game from its settings. Unset fields fall back to the
// defaults of the game type.
func (gs GameSettings) toGame(localRoot string) (game.Game, error) {
	t, err := game.ParseType(gs.Type)
	if err != nil {
		return game.Game{}, err
	}

	g := game.New(t, gs.Path, localRoot)
	if gs.Name != "" {
		g.Name = gs.Name
	}
	if gs.Folder != "" {
		g.Folder = gs.Folder
		g.LocalPath = filepath.Join(localRoot, gs.Folder)
	}
	if gs.Master != "" {
		g.Master = gs.Master
	}
	g.MasterlistRepo = gs.Repo
	return g, nil
}
