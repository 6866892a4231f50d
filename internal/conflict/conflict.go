// Package conflict finds plugins that edit the same records.
package conflict

import (
	"io"

	"github.com/charmbracelet/log"

	"github.com/bnema/lootctl/internal/plugins"
)

// FormIDLoader fills in the FormIDs of every installed plugin
type FormIDLoader interface {
	LoadFormIDs() error
}

// Detector answers conflict queries over an installed plugin set
type Detector struct {
	log *log.Logger
}

// NewDetector creates a detector
func NewDetector(logger *log.Logger) *Detector {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Detector{log: logger}
}

// ConflictsWith returns the plugins whose FormIDs overlap target's, in the
// set's iteration order. The target itself is never reported and an unknown
// target has no conflicts.
//
// FormIDs are loaded through loader when the first plugin of the set has
// none. Only that plugin is checked: a set where it alone is empty reloads
// needlessly, and one where only later plugins are empty is scanned as is.
func (d *Detector) ConflictsWith(target string, set *plugins.Set, loader FormIDLoader) ([]string, error) {
	if first, ok := set.First(); ok && len(first.FormIDs) == 0 && loader != nil {
		d.log.Debug("Loading FormIDs before conflict check", "first", first.Name)
		if err := loader.LoadFormIDs(); err != nil {
			return nil, err
		}
	}

	conflicts := []string{}
	subject, ok := set.Get(target)
	if !ok {
		d.log.Debug("Conflict target is not installed", "plugin", target)
		return conflicts, nil
	}

	for _, p := range set.All() {
		if plugins.Key(p.Name) == plugins.Key(subject.Name) {
			continue
		}
		if p.FormIDs.Overlaps(subject.FormIDs) {
			d.log.Debug("Found conflicting plugin", "plugin", target, "conflict", p.Name)
			conflicts = append(conflicts, p.Name)
		}
	}
	return conflicts, nil
}
