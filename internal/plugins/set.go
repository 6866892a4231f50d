package plugins

import (
	"errors"
	"sort"
)

// ErrNotInstalled is returned for operations on a plugin that is not in the set.
var ErrNotInstalled = errors.New("plugin is not installed")

// Set is the collection of installed plugins keyed by case-insensitive name.
// Iteration follows the lower-cased name order.
type Set struct {
	plugins map[string]*Plugin
	keys    []string
}

// NewSet builds a set. A later plugin with the same name replaces an earlier one.
func NewSet(list ...Plugin) *Set {
	s := &Set{plugins: make(map[string]*Plugin, len(list))}
	for _, p := range list {
		s.Put(p)
	}
	return s
}

// Put adds or replaces a plugin
func (s *Set) Put(p Plugin) {
	k := Key(p.Name)
	cp := p.clone()
	if _, ok := s.plugins[k]; !ok {
		i := sort.SearchStrings(s.keys, k)
		s.keys = append(s.keys, "")
		copy(s.keys[i+1:], s.keys[i:])
		s.keys[i] = k
	}
	s.plugins[k] = &cp
}

// Get returns a copy of the named plugin
func (s *Set) Get(name string) (Plugin, bool) {
	if s == nil {
		return Plugin{}, false
	}
	p, ok := s.plugins[Key(name)]
	if !ok {
		return Plugin{}, false
	}
	return p.clone(), true
}

// SetFormIDs replaces the FormIDs of the named plugin
func (s *Set) SetFormIDs(name string, ids FormIDSet) error {
	p, ok := s.plugins[Key(name)]
	if !ok {
		return ErrNotInstalled
	}
	p.FormIDs = ids
	return nil
}

// First returns the first plugin in iteration order
func (s *Set) First() (Plugin, bool) {
	if s == nil || len(s.keys) == 0 {
		return Plugin{}, false
	}
	return s.plugins[s.keys[0]].clone(), true
}

// All returns copies of every plugin in iteration order
func (s *Set) All() []Plugin {
	if s == nil {
		return nil
	}
	out := make([]Plugin, 0, len(s.keys))
	for _, k := range s.keys {
		out = append(out, s.plugins[k].clone())
	}
	return out
}

// Len returns the number of plugins
func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.keys)
}

// Installed reports whether the named plugin is in the set
func (s *Set) Installed(name string) bool {
	if s == nil {
		return false
	}
	_, ok := s.plugins[Key(name)]
	return ok
}

// Active reports whether the named plugin is installed and active
func (s *Set) Active(name string) bool {
	if s == nil {
		return false
	}
	p, ok := s.plugins[Key(name)]
	return ok && p.Active
}

// Checksum returns the CRC32 of the named plugin
func (s *Set) Checksum(name string) (uint32, bool) {
	if s == nil {
		return 0, false
	}
	p, ok := s.plugins[Key(name)]
	if !ok {
		return 0, false
	}
	return p.CRC, true
}

// Version returns the version string of the named plugin
func (s *Set) Version(name string) (string, bool) {
	if s == nil {
		return "", false
	}
	p, ok := s.plugins[Key(name)]
	if !ok {
		return "", false
	}
	return p.Version, true
}
