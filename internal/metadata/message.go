package metadata

import (
	"strconv"
	"strings"

	"golang.org/x/text/language"

	"github.com/bnema/lootctl/internal/condition"
)

// Level is the severity of a message. It is serialized as "say", "warn" or
// "error".
type Level string

const (
	LevelSay   Level = "say"
	LevelWarn  Level = "warn"
	LevelError Level = "error"
)

// DefaultLanguage is the content language used when no content matches the
// requested one.
const DefaultLanguage = "en"

// Content is one localized text of a message
type Content struct {
	Text     string
	Language string
}

// Message is a user-facing note attached to a plugin or to the whole list.
type Message struct {
	Level     Level
	Content   []Content
	Condition condition.Condition
}

// NewMessage creates an English message, substituting %1%, %2%, ... with subs.
func NewMessage(level Level, text string, subs ...string) Message {
	return Message{
		Level:   level,
		Content: []Content{{Text: Substitute(text, subs...), Language: DefaultLanguage}},
	}
}

// Substitute replaces the positional placeholders %1%, %2%, ... in text.
func Substitute(text string, subs ...string) string {
	if len(subs) == 0 {
		return text
	}
	pairs := make([]string, 0, 2*len(subs))
	for i, sub := range subs {
		pairs = append(pairs, "%"+strconv.Itoa(i+1)+"%", sub)
	}
	return strings.NewReplacer(pairs...).Replace(text)
}

// Text returns the content best matching lang. English is the fallback, then
// the first content.
func (m Message) Text(lang string) string {
	switch len(m.Content) {
	case 0:
		return ""
	case 1:
		return m.Content[0].Text
	}

	// The matcher falls back to its first tag, so English goes first.
	order := make([]int, 0, len(m.Content))
	for i, c := range m.Content {
		if isDefaultLanguage(c.Language) {
			order = append([]int{i}, order...)
		} else {
			order = append(order, i)
		}
	}

	tags := make([]language.Tag, len(order))
	for i, idx := range order {
		tags[i] = parseLanguage(m.Content[idx].Language)
	}

	if lang == "" {
		return m.Content[order[0]].Text
	}

	_, idx, conf := language.NewMatcher(tags).Match(parseLanguage(lang))
	if conf == language.No || idx < 0 || idx >= len(order) {
		return m.Content[order[0]].Text
	}
	return m.Content[order[idx]].Text
}

// Localize returns a copy of m holding only the content selected for lang.
func (m Message) Localize(lang string) Message {
	out := Message{Level: m.Level, Condition: m.Condition}
	if len(m.Content) == 0 {
		return out
	}
	out.Content = []Content{{Text: m.Text(lang), Language: lang}}
	if lang == "" {
		out.Content[0].Language = DefaultLanguage
	}
	return out
}

// Equal compares level and contents; conditions are ignored.
func (m Message) Equal(o Message) bool {
	if m.Level != o.Level || len(m.Content) != len(o.Content) {
		return false
	}
	for i := range m.Content {
		if m.Content[i] != o.Content[i] {
			return false
		}
	}
	return true
}

func (m Message) clone() Message {
	out := m
	out.Content = append([]Content(nil), m.Content...)
	return out
}

func isDefaultLanguage(code string) bool {
	return code == "" || strings.EqualFold(code, DefaultLanguage)
}

// parseLanguage accepts both "pt_BR" and "pt-BR" style codes.
func parseLanguage(code string) language.Tag {
	if code == "" {
		return language.English
	}
	tag, err := language.Parse(strings.ReplaceAll(code, "_", "-"))
	if err != nil {
		return language.Und
	}
	return tag
}
