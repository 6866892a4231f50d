package plugins

import (
	"hash/crc32"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const inventoryYAML = `
plugins:
  - name: Oblivion.esm
    active: true
    crc: 0x96D8A1B2
    version: 1.2.0416
    formids: [1, 2, "0x10-0x14"]
  - name: Patch.esp
    active: false
    masters: [Oblivion.esm]
    bsa: false
  - name: Textures.esp
    active: true
`

func writeInventory(t *testing.T, doc string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, InventoryFile), []byte(doc), 0644))
	return dir
}

func TestInventoryLoad(t *testing.T) {
	dir := writeInventory(t, inventoryYAML)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Textures.esp"), []byte("TES4"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "textures.BSA"), nil, 0644))

	got, err := NewInventory(dir).Load(false)
	require.NoError(t, err)
	require.Len(t, got, 3)

	obl := got[0]
	assert.Equal(t, "Oblivion.esm", obl.Name)
	assert.True(t, obl.IsMaster)
	assert.True(t, obl.Active)
	assert.Equal(t, uint32(0x96D8A1B2), obl.CRC)
	assert.Equal(t, "1.2.0416", obl.Version)
	assert.Equal(t, NewFormIDSet(1, 2, 0x10, 0x11, 0x12, 0x13, 0x14), obl.FormIDs)

	patch := got[1]
	assert.False(t, patch.Active)
	assert.False(t, patch.LoadsBSA)
	assert.Equal(t, []string{"Oblivion.esm"}, patch.Masters)

	tex := got[2]
	assert.True(t, tex.LoadsBSA)
	assert.Equal(t, crc32.ChecksumIEEE([]byte("TES4")), tex.CRC)
}

func TestInventoryHeadersOnly(t *testing.T) {
	got, err := NewInventory(writeInventory(t, inventoryYAML)).Load(true)
	require.NoError(t, err)
	for _, p := range got {
		assert.Nil(t, p.FormIDs, p.Name)
	}
}

func TestInventoryErrors(t *testing.T) {
	_, err := NewInventory(t.TempDir()).Load(true)
	assert.Error(t, err)

	_, err = NewInventory(writeInventory(t, "plugins:\n  - active: true\n")).Load(true)
	assert.ErrorIs(t, err, ErrInvalidInventory)

	_, err = NewInventory(writeInventory(t, "plugins:\n  - name: A.esp\n    formids: [\"9-2\"]\n")).Load(false)
	assert.ErrorIs(t, err, ErrInvalidInventory)
}
