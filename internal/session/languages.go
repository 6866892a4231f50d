package session

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// Language is an entry of the getLanguages payload
type Language struct {
	Name   string `json:"name"`
	Locale string `json:"locale"`
}

var languageCodes = []string{"en", "es", "ru", "fr", "zh_CN", "pl", "pt_BR", "fi", "de", "da", "ko"}

var supportedTags = func() []language.Tag {
	tags := make([]language.Tag, len(languageCodes))
	for i, code := range languageCodes {
		tags[i] = language.MustParse(strings.ReplaceAll(code, "_", "-"))
	}
	return tags
}()

var languageMatcher = language.NewMatcher(supportedTags)

// Languages returns the message languages, named in their own language
func Languages() []Language {
	out := make([]Language, len(languageCodes))
	for i, code := range languageCodes {
		out[i] = Language{Name: display.Self.Name(supportedTags[i]), Locale: code}
	}
	return out
}

// MatchLanguage maps a user supplied code such as "pt-PT" or "de_AT" to the
// closest supported locale, defaulting to English.
func MatchLanguage(code string) string {
	if code == "" {
		return languageCodes[0]
	}
	tag, err := language.Parse(strings.ReplaceAll(code, "_", "-"))
	if err != nil {
		return languageCodes[0]
	}
	_, idx, conf := languageMatcher.Match(tag)
	if conf == language.No {
		return languageCodes[0]
	}
	return languageCodes[idx]
}
