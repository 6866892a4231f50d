// Package resolver merges installed plugins with their masterlist and
// userlist metadata into the records shown to the user.
package resolver

import (
	"io"

	"github.com/charmbracelet/log"

	"github.com/bnema/lootctl/internal/condition"
	"github.com/bnema/lootctl/internal/metadata"
	"github.com/bnema/lootctl/internal/plugins"
	"github.com/bnema/lootctl/internal/validity"
)

// PluginConditionFailure is reported in the global messages when a plugin's
// metadata contains a condition that fails to evaluate.
const PluginConditionFailure = "\"%1%\" contains a condition that could not be evaluated. Details: %2%"

// Record is the resolved view of one installed plugin
type Record struct {
	Name     string
	Active   bool
	LoadsBSA bool
	CRC      uint32
	Version  string
	FormIDs  plugins.FormIDSet

	Priority           int64
	NormalizedPriority int64
	GlobalPriority     bool
	Enabled            bool

	LoadAfter         []metadata.File
	Requirements      []metadata.File
	Incompatibilities []metadata.File
	Messages          []metadata.Message
	Tags              []metadata.Tag
	DirtyInfo         []metadata.DirtyInfo
	IsDirty           bool

	// NameOnly is set when neither list has metadata for the plugin.
	NameOnly bool

	// Masterlist and Userlist are the per-list views before the final merge.
	// A view is nil when its list has no metadata for the plugin.
	Masterlist *metadata.Plugin
	Userlist   *metadata.Plugin
}

// Option configures a Resolver
type Option func(*Resolver)

// WithMaxPriority overrides the priority display window
func WithMaxPriority(max int64) Option {
	return func(r *Resolver) {
		if max > 0 {
			r.maxPriority = max
		}
	}
}

// Resolver produces plugin records
type Resolver struct {
	maxPriority int64
	log         *log.Logger
}

// New creates a resolver
func New(logger *log.Logger, opts ...Option) *Resolver {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	r := &Resolver{maxPriority: metadata.MaxPriority, log: logger}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// MaxPriority returns the priority display window in use
func (r *Resolver) MaxPriority() int64 {
	return r.maxPriority
}

// Resolve builds the record for installed. The lists are only read.
//
// A non-nil error means a condition could not be evaluated. The record is
// still complete apart from the entries left unevaluated; callers report the
// error and carry on.
func (r *Resolver) Resolve(installed plugins.Plugin, masterlist, userlist *metadata.List, ctx condition.Context) (Record, error) {
	base := metadata.NewPlugin(installed.Name)

	mlView := base.Clone()
	if ml, ok := masterlist.Find(installed.Name); ok {
		mlView.MergeMetadata(ml)
	}

	// Tags are cleared first so the userlist view only ever holds userlist tags.
	ulView := base.WithoutTags()
	if ul, ok := userlist.Find(installed.Name); ok {
		ulView.MergeMetadata(ul)
	}

	merged := mlView.Clone()
	if !ulView.HasNameOnly() {
		merged.MergeView(ulView)
	}

	evalErr := merged.Evaluate(ctx)
	if evalErr != nil {
		r.log.Error("Plugin contains a condition that could not be evaluated", "plugin", installed.Name, "error", evalErr)
	}

	rec := Record{
		Name:     installed.Name,
		Active:   installed.Active,
		LoadsBSA: installed.LoadsBSA,
		CRC:      installed.CRC,
		Version:  installed.Version,

		Priority:           merged.Priority,
		NormalizedPriority: metadata.NormalizePriority(merged.Priority, r.maxPriority),
		GlobalPriority:     metadata.IsGlobalPriority(merged.Priority, r.maxPriority),
		Enabled:            merged.Enabled,

		LoadAfter:         merged.LoadAfter,
		Requirements:      merged.Requirements,
		Incompatibilities: merged.Incompatibilities,
		Messages:          merged.Messages,
		Tags:              merged.Tags,
		DirtyInfo:         merged.DirtyInfo,
		IsDirty:           len(merged.DirtyInfo) > 0,

		NameOnly: mlView.HasNameOnly() && ulView.HasNameOnly(),
	}
	if installed.FormIDs != nil {
		rec.FormIDs = plugins.NewFormIDSet()
		for id := range installed.FormIDs {
			rec.FormIDs[id] = struct{}{}
		}
	}
	if !mlView.HasNameOnly() {
		rec.Masterlist = &mlView
	}
	if !ulView.HasNameOnly() {
		rec.Userlist = &ulView
	}

	rec.Messages = append(rec.Messages, validity.Check(installed, merged, ctx.Plugins)...)
	for _, d := range merged.DirtyInfo {
		rec.Messages = append(rec.Messages, d.Message())
	}

	return rec, evalErr
}

// ConditionFailureMessage returns the global error message reported for a
// plugin whose conditions failed to evaluate.
func ConditionFailureMessage(name string, err error) metadata.Message {
	return metadata.NewMessage(metadata.LevelError, PluginConditionFailure, name, err.Error())
}
