// Package validity checks that a plugin's requirements and masters are met.
package validity

import (
	"strings"

	"github.com/bnema/lootctl/internal/condition"
	"github.com/bnema/lootctl/internal/metadata"
	"github.com/bnema/lootctl/internal/plugins"
)

const (
	missingText      = "This plugin requires \"%1%\" to be installed, but it is missing."
	incompatibleText = "This plugin is incompatible with \"%1%\", but both are present."
	inactiveText     = "This plugin requires \"%1%\" to be active, but it is inactive."
)

// Check returns an error message for every unmet requirement, present
// incompatibility, missing master and inactive master of an active plugin.
// Each problem is reported once.
func Check(installed plugins.Plugin, meta metadata.Plugin, set condition.PluginLookup) []metadata.Message {
	var out []metadata.Message
	seen := make(map[string]bool)

	report := func(text, name, display string) {
		k := text + "\x00" + strings.ToLower(name)
		if seen[k] {
			return
		}
		seen[k] = true
		out = append(out, metadata.NewMessage(metadata.LevelError, text, display))
	}

	if set == nil {
		return nil
	}

	for _, f := range meta.Requirements {
		if !set.Installed(f.Name) {
			report(missingText, f.Name, f.DisplayName())
		}
	}
	for _, f := range meta.Incompatibilities {
		if set.Installed(f.Name) {
			report(incompatibleText, f.Name, f.DisplayName())
		}
	}
	for _, master := range installed.Masters {
		switch {
		case !set.Installed(master):
			report(missingText, master, master)
		case installed.Active && !set.Active(master):
			report(inactiveText, master, master)
		}
	}
	return out
}
