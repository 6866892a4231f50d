package game

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/lootctl/internal/metadata"
	"github.com/bnema/lootctl/internal/plugins"
)

type stubLoader struct {
	plugins []plugins.Plugin
	err     error
	calls   []bool
}

func (l *stubLoader) Load(headersOnly bool) ([]plugins.Plugin, error) {
	l.calls = append(l.calls, headersOnly)
	if l.err != nil {
		return nil, l.err
	}
	out := make([]plugins.Plugin, len(l.plugins))
	for i, p := range l.plugins {
		if headersOnly {
			p.FormIDs = nil
		}
		out[i] = p
	}
	return out, nil
}

func testGame(t *testing.T) Game {
	return New(TES4, t.TempDir(), t.TempDir())
}

func TestTypes(t *testing.T) {
	typ, err := ParseType("FalloutNV")
	require.NoError(t, err)
	assert.Equal(t, FONV, typ)

	typ, err = ParseType("tes5")
	require.NoError(t, err)
	assert.Equal(t, "Skyrim", typ.FolderName())

	_, err = ParseType("morrowind")
	assert.ErrorIs(t, err, ErrUnknownType)
}

func TestGameIsInstalled(t *testing.T) {
	g := testGame(t)
	assert.True(t, g.IsInstalled())

	g.Path = filepath.Join(g.Path, "missing")
	assert.False(t, g.IsInstalled())
	assert.False(t, Game{}.IsInstalled())
}

func TestStateLoadPlugins(t *testing.T) {
	loader := &stubLoader{plugins: []plugins.Plugin{
		{Name: "Oblivion.esm", Active: true, FormIDs: plugins.NewFormIDSet(1)},
		{Name: "Zeta.esp"},
		{Name: "Alpha.esp", Active: true, FormIDs: plugins.NewFormIDSet(1, 2)},
	}}
	s := NewState(testGame(t), loader, nil)

	require.NoError(t, s.LoadPlugins(true))
	assert.Equal(t, []string{"Oblivion.esm", "Zeta.esp", "Alpha.esp"}, s.LoadOrder)
	assert.True(t, s.IsActive("alpha.esp"))
	first, _ := s.Plugins.First()
	assert.Nil(t, first.FormIDs)

	require.NoError(t, s.LoadFormIDs())
	alpha, _ := s.Plugins.Get("Alpha.esp")
	assert.Len(t, alpha.FormIDs, 2)
	assert.Equal(t, []bool{true, false}, loader.calls)

	var names []string
	for _, p := range s.InstalledInLoadOrder() {
		names = append(names, p.Name)
	}
	assert.Equal(t, s.LoadOrder, names)
}

func TestStateLoadPluginsError(t *testing.T) {
	s := NewState(testGame(t), &stubLoader{err: errors.New("disk on fire")}, nil)
	err := s.LoadPlugins(true)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk on fire")
}

func TestStateLists(t *testing.T) {
	g := testGame(t)
	require.NoError(t, os.MkdirAll(g.LocalPath, 0755))
	require.NoError(t, os.WriteFile(g.MasterlistPath(), []byte("plugins:\n  - name: A.esp\n    tag: [Relev]\n"), 0644))

	s := NewState(g, &stubLoader{}, nil)
	require.NoError(t, s.LoadLists())
	assert.Equal(t, 1, s.Masterlist.Len())
	assert.Equal(t, 0, s.Userlist.Len())

	p := metadata.NewPlugin("B.esp")
	p.SetPriority(10)
	s.Userlist.Add(p)
	require.NoError(t, s.SaveUserlist())

	reloaded := NewState(g, &stubLoader{}, nil)
	require.NoError(t, reloaded.LoadLists())
	got, ok := reloaded.Userlist.Find("B.esp")
	require.True(t, ok)
	assert.Equal(t, int64(10), got.Priority)
}

func TestStateLoadListsInvalid(t *testing.T) {
	g := testGame(t)
	require.NoError(t, os.MkdirAll(g.LocalPath, 0755))
	require.NoError(t, os.WriteFile(g.UserlistPath(), []byte("plugins: [oops"), 0644))

	err := NewState(g, &stubLoader{}, nil).LoadLists()
	assert.ErrorIs(t, err, metadata.ErrInvalidList)
}

func TestSaveUserlistKeepsBackups(t *testing.T) {
	g := testGame(t)
	s := NewState(g, &stubLoader{}, nil)

	clock := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}

	require.NoError(t, s.SaveUserlist())
	backups, err := s.UserlistBackups()
	require.NoError(t, err)
	assert.Empty(t, backups, "nothing to back up before the first save")

	for i := 0; i < 5; i++ {
		p := metadata.NewPlugin("B.esp")
		p.SetPriority(int64(i))
		s.Userlist.Add(p)
		require.NoError(t, s.SaveUserlist())
	}

	backups, err = s.UserlistBackups()
	require.NoError(t, err)
	require.Len(t, backups, MaxUserlistBackups)
	assert.Equal(t, "userlist-20240301-120005.000000.yaml", backups[0])

	data, err := os.ReadFile(filepath.Join(g.BackupDir(), backups[0]))
	require.NoError(t, err)
	assert.Contains(t, string(data), "priority: 3")
}
