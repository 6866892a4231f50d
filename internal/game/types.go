// Package game holds the per-game state the resolver works on.
package game

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownType is returned for an unrecognised game type
var ErrUnknownType = errors.New("unknown game type")

// Type identifies a supported game
type Type int

const (
	TES4 Type = iota
	TES5
	FO3
	FONV
)

// Types lists every supported game type in display order
var Types = []Type{TES4, TES5, FO3, FONV}

var typeInfo = map[Type]struct {
	id, name, folder, master string
}{
	TES4: {"tes4", "TES IV: Oblivion", "Oblivion", "Oblivion.esm"},
	TES5: {"tes5", "TES V: Skyrim", "Skyrim", "Skyrim.esm"},
	FO3:  {"fo3", "Fallout 3", "Fallout3", "Fallout3.esm"},
	FONV: {"fonv", "Fallout: New Vegas", "FalloutNV", "FalloutNV.esm"},
}

// String returns the settings identifier, e.g. "tes4"
func (t Type) String() string {
	if info, ok := typeInfo[t]; ok {
		return info.id
	}
	return fmt.Sprintf("Type(%d)", int(t))
}

// Name returns the display name of the game
func (t Type) Name() string {
	return typeInfo[t].name
}

// FolderName returns the default LOOT folder name of the game
func (t Type) FolderName() string {
	return typeInfo[t].folder
}

// Master returns the game's main master file
func (t Type) Master() string {
	return typeInfo[t].master
}

// ParseType accepts a settings identifier or a folder name
func ParseType(s string) (Type, error) {
	for _, t := range Types {
		if strings.EqualFold(s, t.String()) || strings.EqualFold(s, t.FolderName()) {
			return t, nil
		}
	}
	return 0, fmt.Errorf("%w: %s", ErrUnknownType, s)
}

// MarshalText implements encoding.TextMarshaler
func (t Type) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (t *Type) UnmarshalText(text []byte) error {
	parsed, err := ParseType(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
