package condition

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Shopify/go-lua"
)

// Expr is a condition written as a Lua boolean expression, for example
//
//	file("Unofficial Oblivion Patch.esp") and not active("Mart's Monster Mod.esm")
//
// The expression can call file, active, checksum, version, game and language.
type Expr struct {
	src string
}

// Compile parses src. An empty or blank src yields a nil condition.
func Compile(src string) (Condition, error) {
	src = strings.TrimSpace(src)
	if src == "" {
		return nil, nil
	}
	l := lua.NewState()
	if err := lua.LoadString(l, chunk(src)); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrSyntax, src, err)
	}
	return &Expr{src: src}, nil
}

// MustCompile is like Compile but panics on a syntax error.
func MustCompile(src string) Condition {
	c, err := Compile(src)
	if err != nil {
		panic(err)
	}
	return c
}

// String returns the expression source.
func (e *Expr) String() string {
	return e.src
}

// Eval runs the expression in a fresh interpreter bound to ctx.
func (e *Expr) Eval(ctx Context) (bool, error) {
	l := lua.NewState()
	register(l, ctx)

	if err := lua.LoadString(l, chunk(e.src)); err != nil {
		return false, fmt.Errorf("%w: %s: %v", ErrSyntax, e.src, err)
	}
	if err := l.ProtectedCall(0, 1, 0); err != nil {
		return false, fmt.Errorf("%w: %s: %v", ErrEvaluation, e.src, err)
	}
	return l.ToBoolean(-1), nil
}

func chunk(src string) string {
	return "return (" + src + ")"
}

func register(l *lua.State, ctx Context) {
	l.Register("file", func(l *lua.State) int {
		name := lua.CheckString(l, 1)
		l.PushBoolean(ctx.Plugins != nil && ctx.Plugins.Installed(name))
		return 1
	})

	l.Register("active", func(l *lua.State) int {
		name := lua.CheckString(l, 1)
		l.PushBoolean(ctx.Plugins != nil && ctx.Plugins.Active(name))
		return 1
	})

	l.Register("checksum", func(l *lua.State) int {
		name := lua.CheckString(l, 1)
		want, err := strconv.ParseUint(strings.TrimPrefix(lua.CheckString(l, 2), "0x"), 16, 32)
		if err != nil {
			lua.ArgumentError(l, 2, "checksum must be a hexadecimal CRC32")
			return 0
		}
		var got uint32
		var ok bool
		if ctx.Plugins != nil {
			got, ok = ctx.Plugins.Checksum(name)
		}
		l.PushBoolean(ok && got == uint32(want))
		return 1
	})

	l.Register("version", func(l *lua.State) int {
		name := lua.CheckString(l, 1)
		want := lua.CheckString(l, 2)
		op := lua.OptString(l, 3, "==")

		have := "0"
		if ctx.Plugins != nil {
			if v, ok := ctx.Plugins.Version(name); ok && v != "" {
				have = v
			}
		}
		ok, err := compareWith(have, want, op)
		if err != nil {
			lua.ArgumentError(l, 3, err.Error())
			return 0
		}
		l.PushBoolean(ok)
		return 1
	})

	l.Register("game", func(l *lua.State) int {
		l.PushBoolean(strings.EqualFold(ctx.Game, lua.CheckString(l, 1)))
		return 1
	})

	l.Register("language", func(l *lua.State) int {
		want := strings.ReplaceAll(lua.CheckString(l, 1), "-", "_")
		l.PushBoolean(strings.EqualFold(strings.ReplaceAll(ctx.Language, "-", "_"), want))
		return 1
	})
}
