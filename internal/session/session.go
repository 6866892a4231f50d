// Package session holds the application state shared by every query: the
// settings, the configured games and the active game.
package session

import (
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/bnema/lootctl/internal/game"
	"github.com/bnema/lootctl/internal/plugins"
)

var (
	ErrUnknownGame      = errors.New("no game is configured with that folder")
	ErrGameNotInstalled = errors.New("game is not installed")
	ErrNoGamesInstalled = errors.New("none of the configured games are installed")
	ErrNoActiveGame     = errors.New("no game is active")
)

// LoaderFunc returns the plugin loader for a game
type LoaderFunc func(g game.Game) plugins.Loader

// InventoryLoader reads plugins from the inventory in the game's data folder
func InventoryLoader(g game.Game) plugins.Loader {
	return plugins.NewInventory(g.DataPath())
}

// Options configures a session
type Options struct {
	SettingsPath string
	LocalRoot    string
	Loader       LoaderFunc
	Logger       *log.Logger
}

// Session is the explicit application state. It is not safe for concurrent
// use; callers serialise queries.
type Session struct {
	Settings Settings

	settingsPath string
	games        []game.Game
	active       *game.State
	loader       LoaderFunc
	log          *log.Logger
}

// New builds a session from settings. No game is active until SelectGame
// or ChangeGame is called.
func New(settings Settings, opts Options) (*Session, error) {
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	if opts.Loader == nil {
		opts.Loader = InventoryLoader
	}
	if opts.LocalRoot == "" {
		opts.LocalRoot = DataDir()
	}

	s := &Session{
		Settings:     settings,
		settingsPath: opts.SettingsPath,
		loader:       opts.Loader,
		log:          opts.Logger,
	}
	for _, gs := range settings.Games {
		g, err := gs.toGame(opts.LocalRoot)
		if err != nil {
			return nil, fmt.Errorf("invalid game %q in settings: %w", gs.Folder, err)
		}
		s.games = append(s.games, g)
	}
	return s, nil
}

// Games returns every configured game
func (s *Session) Games() []game.Game {
	return append([]game.Game(nil), s.games...)
}

// InstalledGames returns the folder names of the installed games
func (s *Session) InstalledGames() []string {
	out := []string{}
	for _, g := range s.games {
		if g.IsInstalled() {
			out = append(out, g.Folder)
		}
	}
	return out
}

// Language returns the supported locale matching the language setting
func (s *Session) Language() string {
	return MatchLanguage(s.Settings.Language)
}

// ActiveGame returns the state of the active game
func (s *Session) ActiveGame() (*game.State, error) {
	if s.active == nil {
		return nil, ErrNoActiveGame
	}
	return s.active, nil
}

// SelectGame activates the game chosen by the settings: the configured
// game, else the last used one, else the first installed game. A non-empty
// override takes precedence over all of them.
func (s *Session) SelectGame(override string) error {
	candidates := []string{override, s.Settings.Game, s.Settings.LastGame}
	for _, folder := range candidates {
		if folder == "" || folder == AutoGame {
			continue
		}
		if g, ok := s.find(folder); ok && g.IsInstalled() {
			return s.ChangeGame(folder)
		}
		if folder == override {
			return fmt.Errorf("%w: %s", ErrGameNotInstalled, folder)
		}
		s.log.Warn("Configured game is not installed", "game", folder)
	}

	installed := s.InstalledGames()
	if len(installed) == 0 {
		return ErrNoGamesInstalled
	}
	return s.ChangeGame(installed[0])
}

// ChangeGame makes the game with the given folder name active. The state of
// the previous game, including any loaded FormIDs, is dropped.
func (s *Session) ChangeGame(folder string) error {
	g, ok := s.find(folder)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownGame, folder)
	}
	if !g.IsInstalled() {
		return fmt.Errorf("%w: %s", ErrGameNotInstalled, folder)
	}

	s.log.Info("Changing active game", "game", g.Folder)
	s.active = game.NewState(g, s.loader(g), s.log)
	s.Settings.LastGame = g.Folder
	return nil
}

// Save writes the settings back to disk
func (s *Session) Save() error {
	if s.settingsPath == "" {
		return nil
	}
	return SaveSettings(s.settingsPath, s.Settings)
}

func (s *Session) find(folder string) (game.Game, bool) {
	for _, g := range s.games {
		if g.Folder == folder {
			return g, true
		}
	}
	return game.Game{}, false
}
