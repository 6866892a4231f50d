// Package condition evaluates the conditions attached to metadata entries.
package condition

import (
	"errors"
	"fmt"
)

var (
	// ErrEvaluation is returned when a condition cannot be evaluated.
	ErrEvaluation = errors.New("condition could not be evaluated")
	// ErrSyntax is returned when a condition expression does not parse.
	ErrSyntax = errors.New("invalid condition syntax")
)

// PluginLookup answers questions about the installed plugins of the active
// game. Names are matched case-insensitively.
type PluginLookup interface {
	Installed(name string) bool
	Active(name string) bool
	Checksum(name string) (uint32, bool)
	Version(name string) (string, bool)
}

// Context is the runtime state a condition is evaluated against.
type Context struct {
	Plugins  PluginLookup
	Game     string
	Language string
}

// Condition is a parsed boolean condition.
type Condition interface {
	Eval(ctx Context) (bool, error)
}

// Evaluate evaluates c against ctx. A nil condition is true.
func Evaluate(c Condition, ctx Context) (bool, error) {
	if c == nil {
		return true, nil
	}
	ok, err := c.Eval(ctx)
	if err != nil {
		if errors.Is(err, ErrEvaluation) {
			return false, err
		}
		return false, fmt.Errorf("%w: %w", ErrEvaluation, err)
	}
	return ok, nil
}

// Const is a condition with a fixed outcome.
type Const bool

// Eval returns the constant.
func (c Const) Eval(Context) (bool, error) {
	return bool(c), nil
}

// Func adapts a function to the Condition interface.
type Func func(ctx Context) (bool, error)

// Eval calls f.
func (f Func) Eval(ctx Context) (bool, error) {
	return f(ctx)
}

// Source returns the expression text of c when it has one.
func Source(c Condition) string {
	if s, ok := c.(fmt.Stringer); ok {
		return s.String()
	}
	return ""
}
