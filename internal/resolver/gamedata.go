package resolver

import (
	"fmt"

	"github.com/bnema/lootctl/internal/condition"
	"github.com/bnema/lootctl/internal/game"
	"github.com/bnema/lootctl/internal/metadata"
)

// GameData is the payload describing the active game
type GameData struct {
	Folder         string          `json:"folder"`
	Masterlist     game.Provenance `json:"masterlist"`
	Plugins        []PluginData    `json:"plugins"`
	GlobalMessages []MessageData   `json:"globalMessages"`
}

// PluginData is one plugin of the game data payload. The masterlist and
// userlist views hold the raw list metadata for editing.
type PluginData struct {
	Type     string `json:"__type"`
	Name     string `json:"name"`
	IsActive bool   `json:"isActive"`
	IsDummy  bool   `json:"isDummy"`
	LoadsBSA bool   `json:"loadsBSA"`
	CRC      string `json:"crc"`
	Version  string `json:"version"`

	Masterlist *ListView `json:"masterlist,omitempty"`
	Userlist   *ListView `json:"userlist,omitempty"`

	ModPriority      int64         `json:"modPriority"`
	IsGlobalPriority bool          `json:"isGlobalPriority"`
	Messages         []MessageData `json:"messages"`
	Tags             []TagData     `json:"tags"`
	IsDirty          bool          `json:"isDirty"`
}

// ListView is the metadata one list holds for a plugin
type ListView struct {
	Enabled          *bool         `json:"enabled,omitempty"`
	ModPriority      int64         `json:"modPriority"`
	IsGlobalPriority bool          `json:"isGlobalPriority"`
	After            []FileData    `json:"after"`
	Req              []FileData    `json:"req"`
	Inc              []FileData    `json:"inc"`
	Msg              []MessageData `json:"msg"`
	Tag              []TagData     `json:"tag"`
	Dirty            []DirtyData   `json:"dirty"`
}

// MessageData is a message as sent to clients
type MessageData struct {
	Type      string        `json:"type"`
	Content   []ContentData `json:"content"`
	Condition string        `json:"condition,omitempty"`
}

// ContentData is one localized message text
type ContentData struct {
	Text     string `json:"str"`
	Language string `json:"lang"`
}

// FileData is a file reference
type FileData struct {
	Name      string `json:"name"`
	Display   string `json:"display,omitempty"`
	Condition string `json:"condition,omitempty"`
}

// TagData is a Bash Tag suggestion
type TagData struct {
	Name       string `json:"name"`
	IsAddition bool   `json:"isAddition"`
	Condition  string `json:"condition,omitempty"`
}

// DirtyData is one dirty-info entry
type DirtyData struct {
	CRC       string `json:"crc,omitempty"`
	ITMs      uint32 `json:"itm"`
	UDRs      uint32 `json:"udr"`
	Navmeshes uint32 `json:"nav"`
	Utility   string `json:"util"`
	Condition string `json:"condition,omitempty"`
}

// GameData resolves every installed plugin of state, in load order, and
// evaluates the masterlist's global messages. The plugins and lists must
// already be loaded. state is not modified.
func (r *Resolver) GameData(state *game.State, language string) GameData {
	ctx := state.ConditionContext(language)

	data := GameData{
		Folder:     state.Game.Folder,
		Masterlist: state.Provenance(),
		Plugins:    []PluginData{},
	}

	var failures []metadata.Message
	for _, installed := range state.InstalledInLoadOrder() {
		rec, err := r.Resolve(installed, state.Masterlist, state.Userlist, ctx)
		if err != nil {
			failures = append(failures, ConditionFailureMessage(installed.Name, err))
		}
		data.Plugins = append(data.Plugins, r.pluginData(rec))
	}

	r.log.Debug("Evaluating global message conditions", "language", language)
	globals := metadata.EvalGlobal(append(state.Masterlist.GlobalMessages(), failures...), ctx)

	data.GlobalMessages = make([]MessageData, 0, len(globals))
	for _, m := range globals {
		data.GlobalMessages = append(data.GlobalMessages, NewMessageData(m))
	}
	return data
}

func (r *Resolver) pluginData(rec Record) PluginData {
	pd := PluginData{
		Type:     "Plugin",
		Name:     rec.Name,
		IsActive: rec.Active,
		LoadsBSA: rec.LoadsBSA,
		CRC:      FormatCRC(rec.CRC),
		Version:  rec.Version,

		ModPriority:      rec.NormalizedPriority,
		IsGlobalPriority: rec.GlobalPriority,
		Messages:         make([]MessageData, 0, len(rec.Messages)),
		Tags:             make([]TagData, 0, len(rec.Tags)),
		IsDirty:          rec.IsDirty,
	}
	for _, m := range rec.Messages {
		pd.Messages = append(pd.Messages, NewMessageData(m))
	}
	for _, t := range rec.Tags {
		pd.Tags = append(pd.Tags, newTagData(t))
	}
	if rec.Masterlist != nil {
		pd.Masterlist = r.listView(*rec.Masterlist, false)
	}
	if rec.Userlist != nil {
		pd.Userlist = r.listView(*rec.Userlist, true)
	}
	return pd
}

func (r *Resolver) listView(p metadata.Plugin, withEnabled bool) *ListView {
	v := &ListView{
		ModPriority:      metadata.NormalizePriority(p.Priority, r.maxPriority),
		IsGlobalPriority: metadata.IsGlobalPriority(p.Priority, r.maxPriority),
		After:            newFileData(p.LoadAfter),
		Req:              newFileData(p.Requirements),
		Inc:              newFileData(p.Incompatibilities),
		Msg:              make([]MessageData, 0, len(p.Messages)),
		Tag:              make([]TagData, 0, len(p.Tags)),
		Dirty:            make([]DirtyData, 0, len(p.DirtyInfo)),
	}
	if withEnabled {
		enabled := p.Enabled
		v.Enabled = &enabled
	}
	for _, m := range p.Messages {
		v.Msg = append(v.Msg, NewMessageData(m))
	}
	for _, t := range p.Tags {
		v.Tag = append(v.Tag, newTagData(t))
	}
	for _, d := range p.DirtyInfo {
		dd := DirtyData{
			ITMs:      d.ITMs,
			UDRs:      d.UDRs,
			Navmeshes: d.Navmeshes,
			Utility:   d.Utility,
			Condition: condition.Source(d.Condition),
		}
		if d.CRC != 0 {
			dd.CRC = FormatCRC(d.CRC)
		}
		v.Dirty = append(v.Dirty, dd)
	}
	return v
}

// FormatCRC renders a checksum as upper-case hex
func FormatCRC(crc uint32) string {
	return fmt.Sprintf("%08X", crc)
}

// NewMessageData converts a message for the wire
func NewMessageData(m metadata.Message) MessageData {
	md := MessageData{
		Type:      string(m.Level),
		Content:   make([]ContentData, 0, len(m.Content)),
		Condition: condition.Source(m.Condition),
	}
	for _, c := range m.Content {
		md.Content = append(md.Content, ContentData{Text: c.Text, Language: c.Language})
	}
	return md
}

func newFileData(files []metadata.File) []FileData {
	out := make([]FileData, 0, len(files))
	for _, f := range files {
		out = append(out, FileData{Name: f.Name, Display: f.Display, Condition: condition.Source(f.Condition)})
	}
	return out
}

func newTagData(t metadata.Tag) TagData {
	return TagData{Name: t.Name, IsAddition: t.Addition, Condition: condition.Source(t.Condition)}
}
