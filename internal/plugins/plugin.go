// Package plugins models the plugins installed for a game.
package plugins

import "strings"

// FormIDSet holds the record identifiers a plugin defines or overrides.
type FormIDSet map[uint32]struct{}

// NewFormIDSet builds a set from ids
func NewFormIDSet(ids ...uint32) FormIDSet {
	s := make(FormIDSet, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

// Overlaps reports whether s and o share at least one FormID
func (s FormIDSet) Overlaps(o FormIDSet) bool {
	small, large := s, o
	if len(large) < len(small) {
		small, large = large, small
	}
	for id := range small {
		if _, ok := large[id]; ok {
			return true
		}
	}
	return false
}

// Plugin is the identity of an installed plugin as read from its header
type Plugin struct {
	Name     string
	IsMaster bool
	Active   bool
	LoadsBSA bool
	CRC      uint32
	Version  string
	Masters  []string

	// FormIDs is nil until the full plugin has been loaded.
	FormIDs FormIDSet
}

// Key returns the case-insensitive lookup key for the plugin name
func Key(name string) string {
	return strings.ToLower(name)
}

func (p Plugin) clone() Plugin {
	out := p
	out.Masters = append([]string(nil), p.Masters...)
	if p.FormIDs != nil {
		out.FormIDs = make(FormIDSet, len(p.FormIDs))
		for id := range p.FormIDs {
			out.FormIDs[id] = struct{}{}
		}
	}
	return out
}
