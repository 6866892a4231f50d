package query

import (
	"github.com/bnema/lootctl/internal/resolver"
	"github.com/bnema/lootctl/internal/session"
)

// Payload is the successful result of a query. Every command has its own
// payload type.
type Payload interface {
	payload()
}

// Empty is returned by commands that only have side effects
type Empty struct{}

// Version is the application version, e.g. "0.7.1"
type Version string

// Settings is the current user configuration
type Settings session.Settings

// Languages lists the selectable message languages
type Languages []session.Language

// GameTypes lists the folder names of the supported game types
type GameTypes []string

// InstalledGames lists the folder names of the installed games
type InstalledGames []string

// GameData is the resolved state of the active game
type GameData resolver.GameData

// Conflicts lists the plugins sharing records with the queried plugin
type Conflicts []string

func (Empty) payload()          {}
func (Version) payload()        {}
func (Settings) payload()       {}
func (Languages) payload()      {}
func (GameTypes) payload()      {}
func (InstalledGames) payload() {}
func (GameData) payload()       {}
func (Conflicts) payload()      {}

// MarshalJSON encodes an empty result as an empty string
func (Empty) MarshalJSON() ([]byte, error) {
	return []byte(`""`), nil
}
