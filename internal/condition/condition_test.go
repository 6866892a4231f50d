package condition

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePlugin struct {
	active  bool
	crc     uint32
	version string
}

type fakeLookup map[string]fakePlugin

func (f fakeLookup) get(name string) (fakePlugin, bool) {
	p, ok := f[strings.ToLower(name)]
	return p, ok
}

func (f fakeLookup) Installed(name string) bool {
	_, ok := f.get(name)
	return ok
}

func (f fakeLookup) Active(name string) bool {
	p, ok := f.get(name)
	return ok && p.active
}

func (f fakeLookup) Checksum(name string) (uint32, bool) {
	p, ok := f.get(name)
	return p.crc, ok
}

func (f fakeLookup) Version(name string) (string, bool) {
	p, ok := f.get(name)
	return p.version, ok
}

func testContext() Context {
	return Context{
		Plugins: fakeLookup{
			"oblivion.esm":           {active: true, crc: 0x96D8A1B2, version: "1.2.0416"},
			"unofficial patch.esp":   {active: true, crc: 0xDEADBEEF, version: "3.2.0"},
			"inactive optional.esp":  {active: false},
		},
		Game:     "Oblivion",
		Language: "pt_BR",
	}
}

func TestEvaluateNil(t *testing.T) {
	ok, err := Evaluate(nil, Context{})
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestEvaluateWrapsErrors(t *testing.T) {
	boom := errors.New("boom")
	_, err := Evaluate(Func(func(Context) (bool, error) { return false, boom }), Context{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrEvaluation)
	assert.Contains(t, err.Error(), "boom")
}

func TestCompileEmpty(t *testing.T) {
	c, err := Compile("   ")
	require.NoError(t, err)
	assert.Nil(t, c)
}

func TestCompileSyntaxError(t *testing.T) {
	_, err := Compile(`file("a.esp" and`)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSyntax)
}

func TestExprEval(t *testing.T) {
	tests := []struct {
		name string
		expr string
		want bool
	}{
		{"file present", `file("Oblivion.esm")`, true},
		{"file missing", `file("Missing.esp")`, false},
		{"active", `active("Unofficial Patch.esp")`, true},
		{"inactive", `active("Inactive Optional.esp")`, false},
		{"negation", `not file("Missing.esp")`, true},
		{"conjunction", `file("Oblivion.esm") and not active("Inactive Optional.esp")`, true},
		{"checksum match", `checksum("Unofficial Patch.esp", "DEADBEEF")`, true},
		{"checksum prefix", `checksum("Unofficial Patch.esp", "0xdeadbeef")`, true},
		{"checksum mismatch", `checksum("Oblivion.esm", "DEADBEEF")`, false},
		{"version greater", `version("Unofficial Patch.esp", "3.1", ">")`, true},
		{"version equal default", `version("Unofficial Patch.esp", "3.2")`, true},
		{"version missing is zero", `version("Missing.esp", "1.0", "<")`, true},
		{"game", `game("oblivion")`, true},
		{"other game", `game("Skyrim")`, false},
		{"language", `language("pt-BR")`, true},
	}

	ctx := testContext()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := Compile(tt.expr)
			require.NoError(t, err)

			got, err := Evaluate(c, ctx)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExprRuntimeError(t *testing.T) {
	c, err := Compile(`undefined_function("x")`)
	require.NoError(t, err)

	_, err = Evaluate(c, testContext())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrEvaluation)
	assert.Contains(t, err.Error(), `undefined_function("x")`)
}

func TestExprBadComparator(t *testing.T) {
	c := MustCompile(`version("Oblivion.esm", "1.0", "~=")`)
	_, err := c.Eval(testContext())
	assert.ErrorIs(t, err, ErrEvaluation)
}

func TestSource(t *testing.T) {
	assert.Equal(t, `file("a.esp")`, Source(MustCompile(` file("a.esp") `)))
	assert.Equal(t, "", Source(Const(true)))
}
