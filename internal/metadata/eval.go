package metadata

import (
	"github.com/bnema/lootctl/internal/condition"
)

// GlobalConditionFailure is the text reported when a global message's
// condition fails to evaluate.
const GlobalConditionFailure = "A global message contains a condition that could not be evaluated. Details: %1%"

// EvalGlobal returns the messages whose conditions hold, in their original
// order. A message whose condition cannot be evaluated is kept, and an error
// message citing the failure is appended after the others.
func EvalGlobal(messages []Message, ctx condition.Context) []Message {
	out := make([]Message, 0, len(messages))
	var failures []Message
	for _, m := range messages {
		ok, err := condition.Evaluate(m.Condition, ctx)
		if err != nil {
			out = append(out, m.Localize(ctx.Language))
			failures = append(failures, NewMessage(LevelError, GlobalConditionFailure, err.Error()))
			continue
		}
		if ok {
			out = append(out, m.Localize(ctx.Language))
		}
	}
	return append(out, failures...)
}

// Evaluate drops every conditional entry of p whose condition is false.
// Entries are visited as load-after, requirements, incompatibilities,
// messages, tags, dirty info. The first failing condition stops the pass and
// is returned; the entries not yet visited are left as they were.
func (p *Plugin) Evaluate(ctx condition.Context) error {
	var err error

	if p.LoadAfter, err = filter(p.LoadAfter, ctx, fileCondition); err != nil {
		return err
	}
	if p.Requirements, err = filter(p.Requirements, ctx, fileCondition); err != nil {
		return err
	}
	if p.Incompatibilities, err = filter(p.Incompatibilities, ctx, fileCondition); err != nil {
		return err
	}
	if p.Messages, err = filter(p.Messages, ctx, messageCondition); err != nil {
		return err
	}
	for i := range p.Messages {
		p.Messages[i] = p.Messages[i].Localize(ctx.Language)
	}
	if p.Tags, err = filter(p.Tags, ctx, tagCondition); err != nil {
		return err
	}
	if p.DirtyInfo, err = filter(p.DirtyInfo, ctx, dirtyCondition); err != nil {
		return err
	}

	p.DirtyInfo = p.matchingDirtyInfo(ctx)
	return nil
}

// matchingDirtyInfo keeps entries without a CRC or with the installed CRC.
func (p *Plugin) matchingDirtyInfo(ctx condition.Context) []DirtyInfo {
	if ctx.Plugins == nil {
		return p.DirtyInfo
	}
	crc, installed := ctx.Plugins.Checksum(p.Name)
	out := p.DirtyInfo[:0]
	for _, d := range p.DirtyInfo {
		if d.CRC == 0 || (installed && d.CRC == crc) {
			out = append(out, d)
		}
	}
	return out
}

func filter[T any](items []T, ctx condition.Context, cond func(T) condition.Condition) ([]T, error) {
	out := make([]T, 0, len(items))
	for i, item := range items {
		ok, err := condition.Evaluate(cond(item), ctx)
		if err != nil {
			return append(out, items[i:]...), err
		}
		if ok {
			out = append(out, item)
		}
	}
	return out, nil
}

func fileCondition(f File) condition.Condition { return f.Condition }
func messageCondition(m Message) condition.Condition { return m.Condition }
func tagCondition(t Tag) condition.Condition { return t.Condition }
func dirtyCondition(d DirtyInfo) condition.Condition { return d.Condition }
