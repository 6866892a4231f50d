package plugins

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetIterationOrder(t *testing.T) {
	s := NewSet(
		Plugin{Name: "Zulu.esp"},
		Plugin{Name: "alpha.esp"},
		Plugin{Name: "Mike.esm"},
	)

	var names []string
	for _, p := range s.All() {
		names = append(names, p.Name)
	}
	assert.Equal(t, []string{"alpha.esp", "Mike.esm", "Zulu.esp"}, names)

	first, ok := s.First()
	require.True(t, ok)
	assert.Equal(t, "alpha.esp", first.Name)
}

func TestSetLookup(t *testing.T) {
	s := NewSet(Plugin{Name: "Oblivion.esm", Active: true, CRC: 0xABCD, Version: "1.2"})

	assert.True(t, s.Installed("oblivion.ESM"))
	assert.True(t, s.Active("OBLIVION.esm"))
	crc, ok := s.Checksum("oblivion.esm")
	assert.True(t, ok)
	assert.Equal(t, uint32(0xABCD), crc)
	v, ok := s.Version("Oblivion.esm")
	assert.True(t, ok)
	assert.Equal(t, "1.2", v)

	assert.False(t, s.Installed("Missing.esp"))
	assert.False(t, s.Active("Missing.esp"))
}

func TestSetReplaceAndFormIDs(t *testing.T) {
	s := NewSet(Plugin{Name: "A.esp"}, Plugin{Name: "a.ESP", Active: true})
	assert.Equal(t, 1, s.Len())
	assert.True(t, s.Active("A.esp"))

	require.NoError(t, s.SetFormIDs("A.esp", NewFormIDSet(1, 2)))
	p, _ := s.Get("A.esp")
	assert.Len(t, p.FormIDs, 2)

	p.FormIDs[3] = struct{}{}
	again, _ := s.Get("A.esp")
	assert.Len(t, again.FormIDs, 2, "Get returns a copy")

	assert.ErrorIs(t, s.SetFormIDs("B.esp", nil), ErrNotInstalled)
}

func TestNilSet(t *testing.T) {
	var s *Set
	assert.False(t, s.Installed("A.esp"))
	assert.Equal(t, 0, s.Len())
	_, ok := s.First()
	assert.False(t, ok)
}

func TestFormIDSetOverlaps(t *testing.T) {
	a := NewFormIDSet(1, 2, 3)
	assert.True(t, a.Overlaps(NewFormIDSet(3, 4)))
	assert.False(t, a.Overlaps(NewFormIDSet(4, 5)))
	assert.False(t, a.Overlaps(nil))
}
