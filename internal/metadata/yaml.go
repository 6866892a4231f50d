package metadata

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/bnema/lootctl/internal/condition"
)

// ErrInvalidList is returned when a metadata list cannot be decoded.
var ErrInvalidList = errors.New("invalid metadata list")

type yamlList struct {
	Globals []yamlMessage `yaml:"globals,omitempty"`
	Plugins []yamlPlugin  `yaml:"plugins,omitempty"`
}

type yamlPlugin struct {
	Name     string        `yaml:"name"`
	Enabled  *bool         `yaml:"enabled,omitempty"`
	Priority *int64        `yaml:"priority,omitempty"`
	After    []yamlFile    `yaml:"after,omitempty"`
	Req      []yamlFile    `yaml:"req,omitempty"`
	Inc      []yamlFile    `yaml:"inc,omitempty"`
	Msg      []yamlMessage `yaml:"msg,omitempty"`
	Tag      []yamlTag     `yaml:"tag,omitempty"`
	Dirty    []yamlDirty   `yaml:"dirty,omitempty"`
}

type yamlFile struct {
	Name      string `yaml:"name"`
	Display   string `yaml:"display,omitempty"`
	Condition string `yaml:"condition,omitempty"`
}

func (f *yamlFile) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		f.Name = node.Value
		return nil
	}
	type plain yamlFile
	return node.Decode((*plain)(f))
}

func (f yamlFile) MarshalYAML() (interface{}, error) {
	if f.Display == "" && f.Condition == "" {
		return f.Name, nil
	}
	type plain yamlFile
	return plain(f), nil
}

type yamlTag struct {
	Name      string `yaml:"name"`
	Condition string `yaml:"condition,omitempty"`
}

func (t *yamlTag) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		t.Name = node.Value
		return nil
	}
	type plain yamlTag
	return node.Decode((*plain)(t))
}

func (t yamlTag) MarshalYAML() (interface{}, error) {
	if t.Condition == "" {
		return t.Name, nil
	}
	type plain yamlTag
	return plain(t), nil
}

type yamlContent struct {
	Text     string `yaml:"str"`
	Language string `yaml:"lang"`
}

// yamlContents is either a plain English string or a list of localized texts.
type yamlContents []yamlContent

func (c *yamlContents) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		*c = yamlContents{{Text: node.Value, Language: DefaultLanguage}}
		return nil
	}
	var list []yamlContent
	if err := node.Decode(&list); err != nil {
		return err
	}
	*c = list
	return nil
}

func (c yamlContents) MarshalYAML() (interface{}, error) {
	if len(c) == 1 && isDefaultLanguage(c[0].Language) {
		return c[0].Text, nil
	}
	return []yamlContent(c), nil
}

type yamlMessage struct {
	Type      string       `yaml:"type"`
	Content   yamlContents `yaml:"content"`
	Subs      []string     `yaml:"subs,omitempty"`
	Condition string       `yaml:"condition,omitempty"`
}

type yamlDirty struct {
	CRC       hexCRC `yaml:"crc,omitempty"`
	Utility   string `yaml:"util"`
	ITMs      uint32 `yaml:"itm,omitempty"`
	UDRs      uint32 `yaml:"udr,omitempty"`
	Navmeshes uint32 `yaml:"nav,omitempty"`
	Condition string `yaml:"condition,omitempty"`
}

// hexCRC is written as 0x-prefixed upper-case hex.
type hexCRC uint32

func (h hexCRC) IsZero() bool {
	return h == 0
}

func (h hexCRC) MarshalYAML() (interface{}, error) {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: fmt.Sprintf("0x%08X", uint32(h))}, nil
}

// ParseList decodes a masterlist or userlist document. Every condition is
// compiled while decoding.
func ParseList(data []byte) (*List, error) {
	var doc yamlList
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidList, err)
	}

	list := NewList()
	for i, m := range doc.Globals {
		msg, err := m.decode()
		if err != nil {
			return nil, fmt.Errorf("%w: global message %d: %v", ErrInvalidList, i+1, err)
		}
		list.Globals = append(list.Globals, msg)
	}
	for _, yp := range doc.Plugins {
		p, err := yp.decode()
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrInvalidList, yp.Name, err)
		}
		list.Add(p)
	}
	return list, nil
}

// DecodeList reads a list document from r.
func DecodeList(r io.Reader) (*List, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read metadata list: %w", err)
	}
	return ParseList(data)
}

// EncodeList writes l in the format ParseList reads.
func EncodeList(w io.Writer, l *List) error {
	doc := yamlList{}
	for _, m := range l.Globals {
		doc.Globals = append(doc.Globals, encodeMessage(m))
	}
	for _, p := range l.plugins {
		doc.Plugins = append(doc.Plugins, encodePlugin(p))
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("failed to encode metadata list: %w", err)
	}
	return enc.Close()
}

// Text renders p the way it would appear in a list. A name-only record
// renders as "name: <name>".
func (p Plugin) Text() (string, error) {
	if p.HasNameOnly() {
		return "name: " + p.Name, nil
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(encodePlugin(p)); err != nil {
		return "", fmt.Errorf("failed to encode %s: %w", p.Name, err)
	}
	if err := enc.Close(); err != nil {
		return "", err
	}
	return strings.TrimRight(buf.String(), "\n"), nil
}

func (yp yamlPlugin) decode() (Plugin, error) {
	if strings.TrimSpace(yp.Name) == "" {
		return Plugin{}, errors.New("plugin entry has no name")
	}

	p := NewPlugin(yp.Name)
	if yp.Enabled != nil {
		p.Enabled = *yp.Enabled
	}
	if yp.Priority != nil {
		p.SetPriority(*yp.Priority)
	}

	var err error
	if p.LoadAfter, err = decodeFiles(yp.After); err != nil {
		return Plugin{}, err
	}
	if p.Requirements, err = decodeFiles(yp.Req); err != nil {
		return Plugin{}, err
	}
	if p.Incompatibilities, err = decodeFiles(yp.Inc); err != nil {
		return Plugin{}, err
	}
	for _, m := range yp.Msg {
		msg, err := m.decode()
		if err != nil {
			return Plugin{}, err
		}
		p.Messages = append(p.Messages, msg)
	}
	for _, t := range yp.Tag {
		tag := NewTag(t.Name)
		if tag.Condition, err = condition.Compile(t.Condition); err != nil {
			return Plugin{}, err
		}
		p.Tags = append(p.Tags, tag)
	}
	for _, d := range yp.Dirty {
		if d.Utility == "" {
			return Plugin{}, errors.New("dirty info has no cleaning utility")
		}
		info := DirtyInfo{
			CRC:       uint32(d.CRC),
			ITMs:      d.ITMs,
			UDRs:      d.UDRs,
			Navmeshes: d.Navmeshes,
			Utility:   d.Utility,
		}
		if info.Condition, err = condition.Compile(d.Condition); err != nil {
			return Plugin{}, err
		}
		p.DirtyInfo = append(p.DirtyInfo, info)
	}

	// Normalise set ordering and duplicates the same way merging does.
	p.LoadAfter = unionFiles(nil, p.LoadAfter)
	p.Requirements = unionFiles(nil, p.Requirements)
	p.Incompatibilities = unionFiles(nil, p.Incompatibilities)
	p.Tags = unionTags(nil, p.Tags)
	p.DirtyInfo = unionDirtyInfo(nil, p.DirtyInfo)
	return p, nil
}

func decodeFiles(in []yamlFile) ([]File, error) {
	out := make([]File, 0, len(in))
	for _, f := range in {
		c, err := condition.Compile(f.Condition)
		if err != nil {
			return nil, err
		}
		out = append(out, File{Name: f.Name, Display: f.Display, Condition: c})
	}
	return out, nil
}

func (m yamlMessage) decode() (Message, error) {
	level := Level(strings.ToLower(m.Type))
	switch level {
	case LevelSay, LevelWarn, LevelError:
	default:
		return Message{}, fmt.Errorf("unknown message type %q", m.Type)
	}
	if len(m.Content) == 0 {
		return Message{}, errors.New("message has no content")
	}

	msg := Message{Level: level}
	for _, c := range m.Content {
		lang := c.Language
		if lang == "" {
			lang = DefaultLanguage
		}
		msg.Content = append(msg.Content, Content{Text: Substitute(c.Text, m.Subs...), Language: lang})
	}

	var err error
	if msg.Condition, err = condition.Compile(m.Condition); err != nil {
		return Message{}, err
	}
	return msg, nil
}

func encodePlugin(p Plugin) yamlPlugin {
	yp := yamlPlugin{Name: p.Name}
	if !p.Enabled {
		disabled := false
		yp.Enabled = &disabled
	}
	if p.ExplicitPriority {
		priority := p.Priority
		yp.Priority = &priority
	}
	yp.After = encodeFiles(p.LoadAfter)
	yp.Req = encodeFiles(p.Requirements)
	yp.Inc = encodeFiles(p.Incompatibilities)
	for _, m := range p.Messages {
		yp.Msg = append(yp.Msg, encodeMessage(m))
	}
	for _, t := range p.Tags {
		yp.Tag = append(yp.Tag, yamlTag{Name: t.String(), Condition: condition.Source(t.Condition)})
	}
	for _, d := range p.DirtyInfo {
		yp.Dirty = append(yp.Dirty, yamlDirty{
			CRC:       hexCRC(d.CRC),
			Utility:   d.Utility,
			ITMs:      d.ITMs,
			UDRs:      d.UDRs,
			Navmeshes: d.Navmeshes,
			Condition: condition.Source(d.Condition),
		})
	}
	return yp
}

func encodeFiles(files []File) []yamlFile {
	var out []yamlFile
	for _, f := range files {
		out = append(out, yamlFile{Name: f.Name, Display: f.Display, Condition: condition.Source(f.Condition)})
	}
	return out
}

func encodeMessage(m Message) yamlMessage {
	ym := yamlMessage{Type: string(m.Level), Condition: condition.Source(m.Condition)}
	for _, c := range m.Content {
		ym.Content = append(ym.Content, yamlContent{Text: c.Text, Language: c.Language})
	}
	return ym
}
