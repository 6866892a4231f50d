package metadata

import (
	"errors"
	"strings"
)

// ErrPluginNotFound is returned when a list has no record for a plugin.
var ErrPluginNotFound = errors.New("plugin not found in metadata list")

// List is an ordered set of plugin records keyed by case-insensitive name,
// plus the list's global messages.
type List struct {
	Globals []Message

	plugins []Plugin
	index   map[string]int
}

// NewList returns an empty list.
func NewList() *List {
	return &List{index: make(map[string]int)}
}

func key(name string) string {
	return strings.ToLower(name)
}

// Add stores p. A second record for the same name is merged into the first.
func (l *List) Add(p Plugin) {
	if l.index == nil {
		l.index = make(map[string]int)
	}
	if i, ok := l.index[key(p.Name)]; ok {
		l.plugins[i].MergeMetadata(p)
		return
	}
	l.index[key(p.Name)] = len(l.plugins)
	l.plugins = append(l.plugins, p.Clone())
}

// Find returns a copy of the record for name.
func (l *List) Find(name string) (Plugin, bool) {
	if l == nil {
		return Plugin{}, false
	}
	i, ok := l.index[key(name)]
	if !ok {
		return Plugin{}, false
	}
	return l.plugins[i].Clone(), true
}

// Plugins returns copies of all records in insertion order.
func (l *List) Plugins() []Plugin {
	if l == nil {
		return nil
	}
	out := make([]Plugin, len(l.plugins))
	for i, p := range l.plugins {
		out[i] = p.Clone()
	}
	return out
}

// Len returns the number of plugin records.
func (l *List) Len() int {
	if l == nil {
		return 0
	}
	return len(l.plugins)
}

// Erase removes the record for name.
func (l *List) Erase(name string) error {
	i, ok := l.index[key(name)]
	if !ok {
		return ErrPluginNotFound
	}
	l.plugins = append(l.plugins[:i], l.plugins[i+1:]...)
	l.reindex()
	return nil
}

// Clear removes every plugin record and global message.
func (l *List) Clear() {
	l.Globals = nil
	l.plugins = nil
	l.index = make(map[string]int)
}

// GlobalMessages returns a copy of the global messages.
func (l *List) GlobalMessages() []Message {
	if l == nil {
		return nil
	}
	out := make([]Message, len(l.Globals))
	for i, m := range l.Globals {
		out[i] = m.clone()
	}
	return out
}

func (l *List) reindex() {
	l.index = make(map[string]int, len(l.plugins))
	for i, p := range l.plugins {
		l.index[key(p.Name)] = i
	}
}
