// Package trace provides a decorator that wraps a shuffle.Operations
// implementation with structured logging of the step decision procedure,
// independent of any particular caller (CLI, test harness, or a larger code
// generator embedding the transformer).
package trace

import (
	"go.uber.org/zap"

	"github.com/stackmachine/stackshuffle/pkg/shuffle"
)

// Operations wraps an inner shuffle.Operations, logging every primitive
// call at debug level and leaving the decision procedure itself
// untouched. Query calls are forwarded without logging. Construct one per call to shuffle.Shuffle (or, more commonly,
// per call to stacklayout.CreateStackLayout) rather than reusing it, since
// it also counts primitives for the summary line logged by Summarize.
type Operations struct {
	inner shuffle.Operations
	log   *zap.Logger

	primitives int
}

var _ shuffle.Operations = (*Operations)(nil)

// New wraps inner with logging on logger. If logger is nil, zap.NewNop() is
// used, so wrapping is always safe even without a configured logger.
func New(inner shuffle.Operations, logger *zap.Logger) *Operations {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Operations{inner: inner, log: logger}
}

func (o *Operations) SourceSize() int { return o.inner.SourceSize() }
func (o *Operations) TargetSize() int { return o.inner.TargetSize() }

func (o *Operations) IsCompatible(s, t int) bool   { return o.inner.IsCompatible(s, t) }
func (o *Operations) SourceIsSame(a, b int) bool   { return o.inner.SourceIsSame(a, b) }
func (o *Operations) SourceMultiplicity(s int) int { return o.inner.SourceMultiplicity(s) }
func (o *Operations) TargetMultiplicity(t int) int { return o.inner.TargetMultiplicity(t) }
func (o *Operations) TargetIsArbitrary(t int) bool { return o.inner.TargetIsArbitrary(t) }

func (o *Operations) Swap(depth int) {
	o.log.Debug("shuffle: emitting swap", zap.Int("depth", depth))
	o.inner.Swap(depth)
	o.primitives++
}

func (o *Operations) Pop() {
	o.log.Debug("shuffle: emitting pop")
	o.inner.Pop()
	o.primitives++
}

func (o *Operations) PushOrDupTarget(t int) {
	o.log.Debug("shuffle: emitting pushOrDup", zap.Int("targetIndex", t))
	o.inner.PushOrDupTarget(t)
	o.primitives++
}

// Primitives returns the number of primitives emitted so far.
func (o *Operations) Primitives() int { return o.primitives }

// Summarize logs a single info-level line describing a completed
// CreateStackLayout call: the scenario name (if any), how many primitives
// were emitted, and whether it succeeded.
func Summarize(logger *zap.Logger, scenario string, primitives int, err error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	fields := []zap.Field{
		zap.String("scenario", scenario),
		zap.Int("primitives", primitives),
	}
	if err != nil {
		logger.Info("shuffle: scenario failed", append(fields, zap.Error(err))...)
		return
	}
	logger.Info("shuffle: scenario completed", fields...)
}
