package game

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"

	"github.com/bnema/lootctl/internal/condition"
	"github.com/bnema/lootctl/internal/metadata"
	"github.com/bnema/lootctl/internal/plugins"
)

// State is the loaded data of the active game: installed plugins, load
// order and both metadata lists. It is not safe for concurrent use.
type State struct {
	Game       Game
	Plugins    *plugins.Set
	LoadOrder  []string
	Masterlist *metadata.List
	Userlist   *metadata.List

	loader      plugins.Loader
	listsLoaded bool
	now         func() time.Time
	log         *log.Logger
}

// NewState creates the state for g. Plugins are read through loader.
func NewState(g Game, loader plugins.Loader, logger *log.Logger) *State {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &State{
		Game:       g,
		Plugins:    plugins.NewSet(),
		Masterlist: metadata.NewList(),
		Userlist:   metadata.NewList(),
		loader:     loader,
		now:        time.Now,
		log:        logger,
	}
}

// LoadPlugins reads the installed plugins and their load order. With
// headersOnly set, FormIDs are not read.
func (s *State) LoadPlugins(headersOnly bool) error {
	s.log.Debug("Loading plugins", "game", s.Game.Folder, "headersOnly", headersOnly)

	list, err := s.loader.Load(headersOnly)
	if err != nil {
		return fmt.Errorf("failed to load plugins for %s: %w", s.Game.Name, err)
	}

	s.Plugins = plugins.NewSet(list...)
	s.LoadOrder = make([]string, 0, len(list))
	for _, p := range list {
		s.LoadOrder = append(s.LoadOrder, p.Name)
	}

	s.log.Debug("Loaded plugins", "count", len(list))
	return nil
}

// LoadFormIDs fills in the FormIDs of every installed plugin.
func (s *State) LoadFormIDs() error {
	s.log.Debug("Loading FormIDs", "game", s.Game.Folder)

	list, err := s.loader.Load(false)
	if err != nil {
		return fmt.Errorf("failed to load FormIDs for %s: %w", s.Game.Name, err)
	}
	for _, p := range list {
		if !s.Plugins.Installed(p.Name) {
			s.Plugins.Put(p)
			s.LoadOrder = append(s.LoadOrder, p.Name)
			continue
		}
		if err := s.Plugins.SetFormIDs(p.Name, p.FormIDs); err != nil {
			return err
		}
	}
	return nil
}

// LoadLists parses the masterlist and userlist. A missing file leaves the
// corresponding list empty.
func (s *State) LoadLists() error {
	masterlist, err := loadList(s.Game.MasterlistPath())
	if err != nil {
		return err
	}
	userlist, err := loadList(s.Game.UserlistPath())
	if err != nil {
		return err
	}

	s.Masterlist = masterlist
	s.Userlist = userlist
	s.listsLoaded = true
	s.log.Debug("Parsed metadata lists", "masterlist", s.Masterlist.Len(), "userlist", s.Userlist.Len())
	return nil
}

// EnsureLists parses the lists unless they were already loaded. Commands
// that edit the userlist call it so an unread file is never overwritten.
func (s *State) EnsureLists() error {
	if s.listsLoaded {
		return nil
	}
	return s.LoadLists()
}

// EnsurePlugins loads plugin headers unless plugins were already loaded
func (s *State) EnsurePlugins() error {
	if s.Plugins.Len() > 0 {
		return nil
	}
	return s.LoadPlugins(true)
}

func loadList(path string) (*metadata.List, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return metadata.NewList(), nil
		}
		return nil, fmt.Errorf("failed to open %s: %w", filepath.Base(path), err)
	}
	defer func() { _ = f.Close() }()

	list, err := metadata.DecodeList(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return list, nil
}

// SaveUserlist writes the userlist to disk. The previous file is kept in
// the backup folder.
func (s *State) SaveUserlist() error {
	if err := os.MkdirAll(s.Game.LocalPath, 0755); err != nil {
		return err
	}
	if path, err := s.backupUserlist(); err != nil {
		return err
	} else if path != "" {
		s.log.Debug("Backed up userlist", "path", path)
	}

	tmp := s.Game.UserlistPath() + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return err
	}
	if err := metadata.EncodeList(f, s.Userlist); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, s.Game.UserlistPath())
}

// Provenance returns the masterlist revision and date
func (s *State) Provenance() Provenance {
	return ReadProvenance(s.Game.LocalPath)
}

// IsActive reports whether the named plugin is active
func (s *State) IsActive(name string) bool {
	return s.Plugins.Active(name)
}

// InstalledInLoadOrder returns the installed plugins sorted by load order
func (s *State) InstalledInLoadOrder() []plugins.Plugin {
	out := make([]plugins.Plugin, 0, len(s.LoadOrder))
	for _, name := range s.LoadOrder {
		if p, ok := s.Plugins.Get(name); ok {
			out = append(out, p)
		}
	}
	return out
}

// ConditionContext returns the context conditions are evaluated in
func (s *State) ConditionContext(language string) condition.Context {
	return condition.Context{
		Plugins:  s.Plugins,
		Game:     s.Game.Folder,
		Language: language,
	}
}
