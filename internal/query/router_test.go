package query

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/lootctl/internal/game"
	"github.com/bnema/lootctl/internal/metadata"
	"github.com/bnema/lootctl/internal/plugins"
	"github.com/bnema/lootctl/internal/session"
)

const skyrimMasterlist = `
globals:
  - type: say
    content: Skyrim masterlist.
plugins:
  - name: Alpha.esp
    priority: 10
    tag: [ Relev ]
`

const skyrimUserlist = `
plugins:
  - name: Alpha.esp
    after: [ Skyrim.esm ]
  - name: Beta.esp
    priority: 3
`

type fakeShell struct {
	calls   []string
	titles  []string
	copied  []string
	openErr error
}

func (f *fakeShell) OpenReadme() error {
	f.calls = append(f.calls, "openReadme")
	return f.openErr
}

func (f *fakeShell) OpenLogLocation() error {
	f.calls = append(f.calls, "openLogLocation")
	return f.openErr
}

func (f *fakeShell) Find(text string) error {
	f.calls = append(f.calls, "find:"+text)
	return nil
}

func (f *fakeShell) StopFinding() error {
	f.calls = append(f.calls, "stop")
	return nil
}

func (f *fakeShell) CopyText(text string) error {
	f.copied = append(f.copied, text)
	return nil
}

func (f *fakeShell) SetTitle(title string) {
	f.titles = append(f.titles, title)
}

type codedErr struct{}

func (codedErr) Error() string { return "clipboard unavailable" }
func (codedErr) Code() int     { return 2 }

type stubLoader struct {
	list  []plugins.Plugin
	loads []bool
}

func (s *stubLoader) Load(headersOnly bool) ([]plugins.Plugin, error) {
	s.loads = append(s.loads, headersOnly)
	out := make([]plugins.Plugin, len(s.list))
	for i, p := range s.list {
		out[i] = p
		if headersOnly {
			out[i].FormIDs = nil
		}
	}
	return out, nil
}

type fixture struct {
	router *Router
	shell  *fakeShell
	loader *stubLoader
	local  string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	settings := session.DefaultSettings()
	for i := range settings.Games {
		if settings.Games[i].Folder == "Skyrim" {
			settings.Games[i].Path = t.TempDir()
		}
	}

	local := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(local, "Skyrim"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(local, "Skyrim", game.MasterlistFile), []byte(skyrimMasterlist), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(local, "Skyrim", game.UserlistFile), []byte(skyrimUserlist), 0644))

	loader := &stubLoader{list: []plugins.Plugin{
		{Name: "Skyrim.esm", IsMaster: true, Active: true, CRC: 0x1, FormIDs: plugins.NewFormIDSet(1, 2, 3)},
		{Name: "Alpha.esp", Active: true, CRC: 0xAB, FormIDs: plugins.NewFormIDSet(2, 10)},
		{Name: "Beta.esp", CRC: 0xCD, FormIDs: plugins.NewFormIDSet(20)},
	}}

	s, err := session.New(settings, session.Options{
		LocalRoot: local,
		Loader:    func(game.Game) plugins.Loader { return loader },
	})
	require.NoError(t, err)
	require.NoError(t, s.SelectGame("Skyrim"))

	sh := &fakeShell{}
	return &fixture{
		router: NewRouter("0.7.1", s, nil, nil, sh, nil),
		shell:  sh,
		loader: loader,
		local:  local,
	}
}

func (f *fixture) userlist(t *testing.T) *metadata.List {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(f.local, "Skyrim", game.UserlistFile))
	require.NoError(t, err)
	l, err := metadata.ParseList(data)
	require.NoError(t, err)
	return l
}

func TestBareCommands(t *testing.T) {
	f := newFixture(t)

	p, err := f.router.Handle("getVersion")
	require.NoError(t, err)
	assert.Equal(t, Version("0.7.1"), p)

	p, err = f.router.Handle("getGameTypes")
	require.NoError(t, err)
	assert.Equal(t, GameTypes{"Oblivion", "Skyrim", "Fallout3", "FalloutNV"}, p)

	p, err = f.router.Handle("getInstalledGames")
	require.NoError(t, err)
	assert.Equal(t, InstalledGames{"Skyrim"}, p)

	p, err = f.router.Handle("getLanguages")
	require.NoError(t, err)
	assert.NotEmpty(t, p)

	p, err = f.router.Handle("getSettings")
	require.NoError(t, err)
	assert.Equal(t, "Skyrim", p.(Settings).LastGame)

	_, err = f.router.Handle("openReadme")
	require.NoError(t, err)
	_, err = f.router.Handle("cancelFind")
	require.NoError(t, err)
	assert.Equal(t, []string{"openReadme", "stop"}, f.shell.calls)
}

func TestVersionPayloadIsString(t *testing.T) {
	f := newFixture(t)
	p, err := f.router.Handle("getVersion")
	require.NoError(t, err)

	out, err := json.Marshal(p)
	require.NoError(t, err)
	assert.JSONEq(t, `"0.7.1"`, string(out))
}

func TestGetGameData(t *testing.T) {
	f := newFixture(t)

	p, err := f.router.Handle("getGameData")
	require.NoError(t, err)
	data, ok := p.(GameData)
	require.True(t, ok)

	assert.Equal(t, []string{"LOOT: TES V: Skyrim"}, f.shell.titles)
	assert.Equal(t, []bool{true}, f.loader.loads)
	assert.Equal(t, "Skyrim", data.Folder)
	assert.Equal(t, game.RepoMissing, data.Masterlist.Revision)

	require.Len(t, data.Plugins, 3)
	assert.Equal(t, "Skyrim.esm", data.Plugins[0].Name)

	alpha := data.Plugins[1]
	assert.Equal(t, "Alpha.esp", alpha.Name)
	assert.Equal(t, int64(10), alpha.ModPriority)
	require.NotNil(t, alpha.Masterlist)
	require.NotNil(t, alpha.Userlist)
	require.Len(t, alpha.Tags, 1)
	assert.Equal(t, "Relev", alpha.Tags[0].Name)

	beta := data.Plugins[2]
	assert.Equal(t, int64(3), beta.ModPriority)
	assert.Nil(t, beta.Masterlist)

	require.Len(t, data.GlobalMessages, 1)
	assert.Equal(t, "Skyrim masterlist.", data.GlobalMessages[0].Content[0].Text)
}

func TestChangeGame(t *testing.T) {
	f := newFixture(t)

	p, err := f.router.Handle(`{"name":"changeGame","args":["Skyrim"]}`)
	require.NoError(t, err)
	assert.IsType(t, GameData{}, p)
	assert.Equal(t, []string{"LOOT: TES V: Skyrim"}, f.shell.titles)

	_, err = f.router.Handle(`{"name":"changeGame","args":["Oblivion"]}`)
	var failure *Failure
	require.ErrorAs(t, err, &failure)
	assert.Equal(t, CodeGeneric, failure.Code)
	assert.Contains(t, failure.Message, "Oblivion")
}

func TestFindRestartsSearch(t *testing.T) {
	f := newFixture(t)

	p, err := f.router.Handle(`{"name":"find","args":["Alpha"]}`)
	require.NoError(t, err)
	assert.Equal(t, Empty{}, p)
	assert.Equal(t, []string{"stop", "find:Alpha"}, f.shell.calls)
}

func TestGetConflictingPlugins(t *testing.T) {
	f := newFixture(t)

	_, err := f.router.Handle("getGameData")
	require.NoError(t, err)

	p, err := f.router.Handle(`{"name":"getConflictingPlugins","args":["Alpha.esp"]}`)
	require.NoError(t, err)
	assert.Equal(t, Conflicts{"Skyrim.esm"}, p)
	assert.Equal(t, []bool{true, false}, f.loader.loads)

	p, err = f.router.Handle(`{"name":"getConflictingPlugins","args":["Missing.esp"]}`)
	require.NoError(t, err)
	assert.Equal(t, Conflicts{}, p)
}

func TestConflictsWithoutPriorGameData(t *testing.T) {
	f := newFixture(t)

	p, err := f.router.Handle(`{"name":"getConflictingPlugins","args":["Skyrim.esm"]}`)
	require.NoError(t, err)
	assert.Equal(t, Conflicts{"Alpha.esp"}, p)
}

func TestCopyMetadata(t *testing.T) {
	f := newFixture(t)

	_, err := f.router.Handle(`{"name":"copyMetadata","args":["Unknown.esp"]}`)
	require.NoError(t, err)
	_, err = f.router.Handle(`{"name":"copyMetadata","args":["Beta.esp"]}`)
	require.NoError(t, err)

	require.Len(t, f.shell.copied, 2)
	assert.Equal(t, "name: Unknown.esp", f.shell.copied[0])
	assert.Equal(t, "name: Beta.esp\npriority: 3", f.shell.copied[1])
}

func TestCopyMetadataCodedError(t *testing.T) {
	f := newFixture(t)
	f.router.shell = &failingCopy{fakeShell: f.shell}

	_, err := f.router.Handle(`{"name":"copyMetadata","args":["Beta.esp"]}`)
	var failure *Failure
	require.ErrorAs(t, err, &failure)
	assert.Equal(t, 2, failure.Code)
}

type failingCopy struct{ *fakeShell }

func (failingCopy) CopyText(string) error { return codedErr{} }

func TestClearPluginMetadata(t *testing.T) {
	f := newFixture(t)

	_, err := f.router.Handle(`{"name":"clearPluginMetadata","args":["Beta.esp"]}`)
	require.NoError(t, err)

	l := f.userlist(t)
	_, ok := l.Find("Beta.esp")
	assert.False(t, ok)
	_, ok = l.Find("Alpha.esp")
	assert.True(t, ok, "other entries are kept")

	_, err = f.router.Handle(`{"name":"clearPluginMetadata","args":["Nothing.esp"]}`)
	assert.NoError(t, err)
}

func TestClearAllMetadata(t *testing.T) {
	f := newFixture(t)

	_, err := f.router.Handle("clearAllMetadata")
	require.NoError(t, err)
	assert.Equal(t, 0, f.userlist(t).Len())
}

func TestEnvelopeErrors(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name      string
		request   string
		unhandled bool
	}{
		{name: "malformed json", request: `{"name": "find", "args": [`},
		{name: "not json", request: "openSomething"},
		{name: "missing argument", request: `{"name":"find","args":[]}`},
		{name: "unknown envelope", request: `{"name":"sortPlugins","args":[]}`, unhandled: true},
		{name: "bare name in envelope", request: `{"name":"getVersion"}`, unhandled: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := f.router.Handle(tt.request)
			assert.Nil(t, p)
			if tt.unhandled {
				assert.ErrorIs(t, err, ErrUnhandled)
				return
			}
			var failure *Failure
			require.ErrorAs(t, err, &failure)
			assert.Equal(t, CodeGeneric, failure.Code)
			assert.NotEmpty(t, failure.Message)
		})
	}
}

func TestFailurePassThrough(t *testing.T) {
	f := newFixture(t)
	f.shell.openErr = &Failure{Code: 7, Message: "no file manager"}

	_, err := f.router.Handle("openLogLocation")
	var failure *Failure
	require.ErrorAs(t, err, &failure)
	assert.Equal(t, 7, failure.Code)
	assert.Equal(t, "no file manager", failure.Message)
}

func TestToFailure(t *testing.T) {
	assert.NoError(t, toFailure(nil))
	assert.ErrorIs(t, toFailure(ErrUnhandled), ErrUnhandled)

	var failure *Failure
	require.ErrorAs(t, toFailure(errors.New("boom")), &failure)
	assert.Equal(t, CodeGeneric, failure.Code)
	assert.Equal(t, "boom", failure.Message)
}
