package metadata

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSubstitute(t *testing.T) {
	assert.Equal(t, `"A.esp" needs "B.esp"`, Substitute(`"%1%" needs "%2%"`, "A.esp", "B.esp"))
	assert.Equal(t, "no subs %1%", Substitute("no subs %1%"))
}

func TestMessageText(t *testing.T) {
	msg := Message{
		Level: LevelSay,
		Content: []Content{
			{Text: "Bonjour", Language: "fr"},
			{Text: "Hello", Language: "en"},
			{Text: "Olá", Language: "pt_BR"},
		},
	}

	tests := []struct {
		lang string
		want string
	}{
		{"", "Hello"},
		{"en", "Hello"},
		{"fr", "Bonjour"},
		{"pt_BR", "Olá"},
		{"pt-BR", "Olá"},
		{"de", "Hello"},
	}

	for _, tt := range tests {
		t.Run(tt.lang, func(t *testing.T) {
			assert.Equal(t, tt.want, msg.Text(tt.lang))
		})
	}
}

func TestMessageTextWithoutEnglish(t *testing.T) {
	msg := Message{Content: []Content{{Text: "Hallo", Language: "de"}, {Text: "Hej", Language: "da"}}}
	assert.Equal(t, "Hallo", msg.Text("ko"))
}

func TestLocalize(t *testing.T) {
	msg := Message{
		Level:   LevelWarn,
		Content: []Content{{Text: "Hello", Language: "en"}, {Text: "Hola", Language: "es"}},
	}
	got := msg.Localize("es")
	assert.Equal(t, LevelWarn, got.Level)
	assert.Equal(t, []Content{{Text: "Hola", Language: "es"}}, got.Content)
}
