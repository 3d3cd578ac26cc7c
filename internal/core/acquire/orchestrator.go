// Package acquire turns a document into up to two candidate plain texts by
// walking ordered chains of text backends.
package acquire

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/joseph-ayodele/vending-reports/internal/common"
	"github.com/joseph-ayodele/vending-reports/internal/core/textnorm"
)

// DefaultTimeout bounds a single backend call.
const DefaultTimeout = 2 * time.Minute

// Result is the outcome of one backend attempt.
type Result struct {
	Strategy Strategy
	Text     string
	Err      error
	Duration time.Duration
}

// Empty reports whether the attempt produced no usable text.
func (r Result) Empty() bool { return r.Err != nil || textnorm.Flatten(r.Text) == "" }

// Texts holds the two acquisition slots of a document.
type Texts struct {
	Primary   Result
	Secondary Result
	Attempts  []Result // every backend call in order, memoized calls excluded

	// SecondaryDuplicate is set when slot 2 produced the same text as slot 1
	// and was dropped.
	SecondaryDuplicate bool
}

// Best returns the first non-empty slot text, or "".
func (t Texts) Best() string {
	if !t.Primary.Empty() {
		return t.Primary.Text
	}
	if !t.Secondary.Empty() {
		return t.Secondary.Text
	}
	return ""
}

// Empty reports whether neither slot has text.
func (t Texts) Empty() bool { return t.Primary.Empty() && t.Secondary.Empty() }

// DefaultSlots are the two fallback chains: high fidelity native text first,
// then low fidelity native text, each falling back to embedded text objects
// and finally OCR.
func DefaultSlots() [][]Strategy {
	return [][]Strategy{
		{StrategyLayout, StrategyEmbedded, StrategyOCR},
		{StrategyRaw, StrategyEmbedded, StrategyOCR},
	}
}

// Orchestrator runs the slot chains against registered backends.
type Orchestrator struct {
	backends map[Strategy]Backend
	slots    [][]Strategy
	timeout  time.Duration
	logger   *slog.Logger
}

type Option func(*Orchestrator)

func WithTimeout(d time.Duration) Option {
	return func(o *Orchestrator) {
		if d > 0 {
			o.timeout = d
		}
	}
}

func WithSlots(slots [][]Strategy) Option {
	return func(o *Orchestrator) {
		if len(slots) > 0 {
			o.slots = slots
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// NewOrchestrator registers the given backends. Strategies named in a slot
// without a registered backend are skipped, which is how OCR is disabled.
func NewOrchestrator(backends map[Strategy]Backend, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		backends: make(map[Strategy]Backend, len(backends)),
		slots:    DefaultSlots(),
		timeout:  DefaultTimeout,
		logger:   slog.Default(),
	}
	for s, b := range backends {
		if b != nil {
			o.backends[s] = b
		}
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Has reports whether a backend is registered for s.
func (o *Orchestrator) Has(s Strategy) bool {
	_, ok := o.backends[s]
	return ok
}

// Extract runs one strategy and collapses every failure to "".
func (o *Orchestrator) Extract(ctx context.Context, path string, s Strategy) string {
	r := o.run(ctx, path, s)
	if r.Err != nil {
		return ""
	}
	return r.Text
}

// Acquire walks both slot chains. A backend is called at most once per
// document: the embedded and OCR fallbacks are shared by both slots. Slot 2
// is dropped when its text equals slot 1's.
func (o *Orchestrator) Acquire(ctx context.Context, path string) Texts {
	var out Texts
	cache := make(map[Strategy]Result, len(o.backends))
	attempt := func(s Strategy) Result {
		if r, ok := cache[s]; ok {
			return r
		}
		r := o.run(ctx, path, s)
		cache[s] = r
		out.Attempts = append(out.Attempts, r)
		return r
	}

	results := make([]Result, len(o.slots))
	for i, chain := range o.slots {
		results[i] = o.walk(ctx, chain, attempt)
	}
	if len(results) > 0 {
		out.Primary = results[0]
	}
	if len(results) > 1 {
		out.Secondary = results[1]
	}

	if !out.Secondary.Empty() && out.Secondary.Text == out.Primary.Text {
		o.logger.Debug("acquire.secondary.duplicate", "path", path, "strategy", out.Secondary.Strategy)
		out.Secondary = Result{Strategy: out.Secondary.Strategy}
		out.SecondaryDuplicate = true
	}

	o.logger.Debug("acquire.done",
		"path", path,
		"primary", out.Primary.Strategy,
		"primary_chars", len(out.Primary.Text),
		"secondary", out.Secondary.Strategy,
		"secondary_chars", len(out.Secondary.Text),
		"attempts", len(out.Attempts),
	)
	return out
}

// walk returns the first non-empty result of a chain, or an empty result
// carrying the last strategy tried.
func (o *Orchestrator) walk(ctx context.Context, chain []Strategy, attempt func(Strategy) Result) Result {
	var last Result
	for _, s := range chain {
		if !o.Has(s) {
			continue
		}
		if ctx.Err() != nil {
			return Result{Strategy: s, Err: ctx.Err()}
		}
		r := attempt(s)
		if !r.Empty() {
			return r
		}
		last = Result{Strategy: s, Err: r.Err}
	}
	return last
}

func (o *Orchestrator) run(ctx context.Context, path string, s Strategy) (res Result) {
	res.Strategy = s
	b, ok := o.backends[s]
	if !ok {
		res.Err = fmt.Errorf("%s: %w", s, common.ErrBackendUnavailable)
		return res
	}

	start := time.Now()
	cctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()
	defer func() {
		res.Duration = time.Since(start)
		if r := recover(); r != nil {
			res.Text = ""
			res.Err = fmt.Errorf("%s panic: %v", s, r)
		}
		if res.Err != nil {
			o.logger.Warn("acquire.backend.failed",
				"path", path, "strategy", s,
				"duration_ms", res.Duration.Milliseconds(), "error", res.Err)
		} else {
			o.logger.Debug("acquire.backend.ok",
				"path", path, "strategy", s,
				"duration_ms", res.Duration.Milliseconds(), "chars", len(res.Text))
		}
	}()

	text, err := b.Extract(cctx, path)
	if err != nil {
		res.Err = err
		return res
	}
	res.Text = text
	return res
}
