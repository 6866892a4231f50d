package metadata

import (
	"sort"
	"strings"

	"github.com/bnema/lootctl/internal/condition"
)

// File references another plugin by name, e.g. in a load-after or
// requirement list.
type File struct {
	Name      string
	Display   string
	Condition condition.Condition
}

// DisplayName returns the display name, falling back to the file name.
func (f File) DisplayName() string {
	if f.Display != "" {
		return f.Display
	}
	return f.Name
}

func (f File) key() string {
	return strings.ToLower(f.Name)
}

// Tag is a Bash Tag suggestion. Removal suggestions are written "-Name".
type Tag struct {
	Name      string
	Addition  bool
	Condition condition.Condition
}

// NewTag parses "Name" or "-Name".
func NewTag(s string) Tag {
	if strings.HasPrefix(s, "-") {
		return Tag{Name: strings.TrimPrefix(s, "-")}
	}
	return Tag{Name: s, Addition: true}
}

// String returns the tag as written in metadata files.
func (t Tag) String() string {
	if t.Addition {
		return t.Name
	}
	return "-" + t.Name
}

func (t Tag) key() string {
	return t.String()
}

// DirtyInfo describes what a cleaning utility would remove from a plugin.
// A non-zero CRC limits the entry to that exact plugin build.
type DirtyInfo struct {
	CRC       uint32
	ITMs      uint32
	UDRs      uint32
	Navmeshes uint32
	Utility   string
	Condition condition.Condition
}

// equal compares every field except the condition.
func (d DirtyInfo) equal(o DirtyInfo) bool {
	return d.CRC == o.CRC && d.ITMs == o.ITMs && d.UDRs == o.UDRs &&
		d.Navmeshes == o.Navmeshes && d.Utility == o.Utility
}

func (d DirtyInfo) less(o DirtyInfo) bool {
	switch {
	case d.CRC != o.CRC:
		return d.CRC < o.CRC
	case d.ITMs != o.ITMs:
		return d.ITMs < o.ITMs
	case d.UDRs != o.UDRs:
		return d.UDRs < o.UDRs
	case d.Navmeshes != o.Navmeshes:
		return d.Navmeshes < o.Navmeshes
	}
	return d.Utility < o.Utility
}

// Plugin is the override record a metadata list holds for one plugin name.
type Plugin struct {
	Name string

	// Enabled is only ever set to false by a userlist.
	Enabled bool

	Priority         int64
	ExplicitPriority bool

	LoadAfter         []File
	Requirements      []File
	Incompatibilities []File
	Messages          []Message
	Tags              []Tag
	DirtyInfo         []DirtyInfo
}

// NewPlugin returns a name-only record.
func NewPlugin(name string) Plugin {
	return Plugin{Name: name, Enabled: true}
}

// SetPriority sets an explicit priority.
func (p *Plugin) SetPriority(priority int64) {
	p.Priority = priority
	p.ExplicitPriority = true
}

// HasNameOnly reports whether the record carries no metadata besides its name.
func (p Plugin) HasNameOnly() bool {
	return p.Enabled && !p.ExplicitPriority &&
		len(p.LoadAfter) == 0 && len(p.Requirements) == 0 &&
		len(p.Incompatibilities) == 0 && len(p.Messages) == 0 &&
		len(p.Tags) == 0 && len(p.DirtyInfo) == 0
}

// Clone returns a deep copy. Conditions are immutable and shared.
func (p Plugin) Clone() Plugin {
	out := p
	out.LoadAfter = append([]File(nil), p.LoadAfter...)
	out.Requirements = append([]File(nil), p.Requirements...)
	out.Incompatibilities = append([]File(nil), p.Incompatibilities...)
	if p.Messages != nil {
		out.Messages = make([]Message, len(p.Messages))
		for i, m := range p.Messages {
			out.Messages[i] = m.clone()
		}
	}
	out.Tags = append([]Tag(nil), p.Tags...)
	out.DirtyInfo = append([]DirtyInfo(nil), p.DirtyInfo...)
	return out
}

// MergeMetadata layers src over p. Scalars written by src win, file, tag and
// dirty-info sets are unioned and messages are appended. A name-only src is
// a no-op.
func (p *Plugin) MergeMetadata(src Plugin) {
	if src.HasNameOnly() {
		return
	}

	merged := p.Clone()
	merged.Enabled = src.Enabled
	if src.ExplicitPriority {
		merged.SetPriority(src.Priority)
	}

	merged.LoadAfter = unionFiles(merged.LoadAfter, src.LoadAfter)
	merged.Requirements = unionFiles(merged.Requirements, src.Requirements)
	merged.Incompatibilities = unionFiles(merged.Incompatibilities, src.Incompatibilities)
	for _, m := range src.Messages {
		merged.Messages = append(merged.Messages, m.clone())
	}
	merged.Tags = unionTags(merged.Tags, src.Tags)
	merged.DirtyInfo = unionDirtyInfo(merged.DirtyInfo, src.DirtyInfo)

	*p = merged
}

// MergeView layers a userlist view over a masterlist view. It behaves like
// MergeMetadata except that a non-empty userlist tag set replaces the
// masterlist tags instead of being unioned with them.
func (p *Plugin) MergeView(user Plugin) {
	if user.HasNameOnly() {
		return
	}
	p.MergeMetadata(user)
	if len(user.Tags) > 0 {
		p.Tags = unionTags(nil, user.Tags)
	}
}

// WithoutTags returns a copy with the tag set cleared.
func (p Plugin) WithoutTags() Plugin {
	out := p.Clone()
	out.Tags = nil
	return out
}

// unionFiles keeps the first occurrence of each case-insensitive name and
// returns the result ordered by name.
func unionFiles(dst, src []File) []File {
	seen := make(map[string]bool, len(dst)+len(src))
	out := make([]File, 0, len(dst)+len(src))
	for _, f := range append(append([]File(nil), dst...), src...) {
		if seen[f.key()] {
			continue
		}
		seen[f.key()] = true
		out = append(out, f)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].key() < out[j].key() })
	return out
}

func unionTags(dst, src []Tag) []Tag {
	seen := make(map[string]bool, len(dst)+len(src))
	out := make([]Tag, 0, len(dst)+len(src))
	for _, t := range append(append([]Tag(nil), dst...), src...) {
		if seen[t.key()] {
			continue
		}
		seen[t.key()] = true
		out = append(out, t)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name)
	})
	return out
}

func unionDirtyInfo(dst, src []DirtyInfo) []DirtyInfo {
	out := make([]DirtyInfo, 0, len(dst)+len(src))
	for _, d := range append(append([]DirtyInfo(nil), dst...), src...) {
		dup := false
		for _, existing := range out {
			if existing.equal(d) {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, d)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].less(out[j]) })
	return out
}
