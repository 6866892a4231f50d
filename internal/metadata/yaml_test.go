package metadata

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/lootctl/internal/condition"
)

const sampleList = `
globals:
  - type: say
    content: Masterlist loaded.
  - type: warn
    content:
      - str: Backup your saves.
        lang: en
      - str: Sauvegardez.
        lang: fr
    condition: 'file("Oblivion.esm")'
plugins:
  - name: Unofficial Oblivion Patch.esp
    priority: -100
    after:
      - Oblivion.esm
      - name: DLCShiveringIsles.esp
        display: Shivering Isles
    req: [ Oblivion.esm ]
    inc:
      - name: Old Patch.esp
        condition: 'active("Old Patch.esp")'
    msg:
      - type: warn
        content: '"%1%" is obsolete.'
        subs: [ Old Patch.esp ]
    tag:
      - Relev
      - -Delev
      - name: Graphics
        condition: 'file("Textures.esp")'
    dirty:
      - crc: 0xDEADBEEF
        util: TES4Edit
        itm: 4
        udr: 2
  - name: Disabled.esp
    enabled: false
`

func TestParseList(t *testing.T) {
	l, err := ParseList([]byte(sampleList))
	require.NoError(t, err)

	require.Len(t, l.Globals, 2)
	assert.Equal(t, LevelSay, l.Globals[0].Level)
	assert.Nil(t, l.Globals[0].Condition)
	assert.Equal(t, "Sauvegardez.", l.Globals[1].Text("fr"))
	assert.Equal(t, `file("Oblivion.esm")`, condition.Source(l.Globals[1].Condition))

	uop, ok := l.Find("unofficial oblivion patch.esp")
	require.True(t, ok)
	assert.True(t, uop.ExplicitPriority)
	assert.Equal(t, int64(-100), uop.Priority)
	require.Len(t, uop.LoadAfter, 2)
	assert.Equal(t, "Shivering Isles", uop.LoadAfter[0].DisplayName())
	assert.Equal(t, "Oblivion.esm", uop.LoadAfter[1].Name)
	assert.Len(t, uop.Requirements, 1)
	require.Len(t, uop.Incompatibilities, 1)
	assert.NotNil(t, uop.Incompatibilities[0].Condition)
	require.Len(t, uop.Messages, 1)
	assert.Equal(t, `"Old Patch.esp" is obsolete.`, uop.Messages[0].Text(""))
	assert.Equal(t, []string{"-Delev", "Graphics", "Relev"}, tagNames(uop.Tags))
	require.Len(t, uop.DirtyInfo, 1)
	assert.Equal(t, uint32(0xDEADBEEF), uop.DirtyInfo[0].CRC)

	disabled, ok := l.Find("Disabled.esp")
	require.True(t, ok)
	assert.False(t, disabled.Enabled)
}

func TestParseListErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"not yaml", "plugins: [unterminated"},
		{"bad message type", "plugins:\n  - name: A.esp\n    msg:\n      - type: shout\n        content: hi\n"},
		{"bad condition", "globals:\n  - type: say\n    content: hi\n    condition: 'file(('\n"},
		{"missing name", "plugins:\n  - priority: 1\n"},
		{"dirty without utility", "plugins:\n  - name: A.esp\n    dirty:\n      - itm: 1\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseList([]byte(tt.doc))
			assert.ErrorIs(t, err, ErrInvalidList)
		})
	}
}

func TestEncodeListRoundTrip(t *testing.T) {
	l, err := ParseList([]byte(sampleList))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, EncodeList(&buf, l))

	again, err := ParseList(buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, l.Len(), again.Len())

	want, _ := l.Find("Unofficial Oblivion Patch.esp")
	got, _ := again.Find("Unofficial Oblivion Patch.esp")
	assert.Equal(t, tagNames(want.Tags), tagNames(got.Tags))
	assert.Equal(t, want.DirtyInfo[0].CRC, got.DirtyInfo[0].CRC)
	assert.Equal(t, want.Priority, got.Priority)
}

func TestPluginText(t *testing.T) {
	t.Run("name only", func(t *testing.T) {
		text, err := NewPlugin("A.esp").Text()
		require.NoError(t, err)
		assert.Equal(t, "name: A.esp", text)
	})

	t.Run("with metadata", func(t *testing.T) {
		p := NewPlugin("A.esp")
		p.SetPriority(5)
		p.Tags = []Tag{NewTag("Relev")}
		p.DirtyInfo = []DirtyInfo{{CRC: 0xAB, ITMs: 1, Utility: "Edit"}}

		text, err := p.Text()
		require.NoError(t, err)
		assert.Equal(t, "name: A.esp\npriority: 5\ntag:\n  - Relev\ndirty:\n  - crc: 0x000000AB\n    util: Edit\n    itm: 1", text)
	})
}
