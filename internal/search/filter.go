// Package search produces the visible message list for a free-text query:
// provider-ranked results after a debounce, substring matches otherwise.
package search

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/vaarthai/vithai/internal/models"
)

// DebounceDelay is the quiet period after a keystroke before the provider is
// asked to rank.
const DebounceDelay = 600 * time.Millisecond

// Ranker orders candidate message ids by relevance to query.
type Ranker interface {
	Rank(ctx context.Context, query string, candidates []Candidate) ([]string, error)
}

// RankerFunc adapts a function to Ranker.
type RankerFunc func(ctx context.Context, query string, candidates []Candidate) ([]string, error)

func (f RankerFunc) Rank(ctx context.Context, query string, candidates []Candidate) ([]string, error) {
	return f(ctx, query, candidates)
}

// Stopper cancels a scheduled function. *time.Timer satisfies it.
type Stopper interface {
	Stop() bool
}

// AfterFunc schedules f to run once after d.
type AfterFunc func(d time.Duration, f func()) Stopper

func timeAfterFunc(d time.Duration, f func()) Stopper {
	return time.AfterFunc(d, f)
}

// Option configures a Filter.
type Option func(*Filter)

// WithAfterFunc replaces the debounce timer.
func WithAfterFunc(fn AfterFunc) Option {
	return func(f *Filter) { f.afterFunc = fn }
}

// WithLogger sets the logger used for provider failures.
func WithLogger(logger zerolog.Logger) Option {
	return func(f *Filter) { f.logger = logger }
}

// WithContext sets the parent context for provider calls.
func WithContext(ctx context.Context) Option {
	return func(f *Filter) { f.ctx = ctx }
}

// OnChange registers a callback run after results or the searching flag
// change.
func OnChange(fn func()) Option {
	return func(f *Filter) { f.onChange = fn }
}

// Filter holds the query state for one screen. Only the most recent query's
// provider call may change the results.
type Filter struct {
	ranker    Ranker
	afterFunc AfterFunc
	logger    zerolog.Logger
	ctx       context.Context
	onChange  func()

	mu          sync.Mutex
	catalog     []models.Message
	query       string
	gen         uint64
	timer       Stopper
	providerIDs []string
	searching   bool
}

// NewFilter returns a filter over catalog ranked by ranker. A nil ranker
// always uses the substring fallback.
func NewFilter(ranker Ranker, catalog []models.Message, opts ...Option) *Filter {
	f := &Filter{
		ranker:    ranker,
		afterFunc: timeAfterFunc,
		logger:    zerolog.Nop(),
		ctx:       context.Background(),
		catalog:   catalog,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// SetQuery records a keystroke. Any pending provider call is superseded.
func (f *Filter) SetQuery(query string) {
	f.mu.Lock()
	gen := f.reset(query)
	if IsQuery(query) && f.ranker != nil {
		f.timer = f.afterFunc(DebounceDelay, func() { f.dispatch(gen) })
	}
	f.mu.Unlock()

	f.changed()
}

// Run sets query and, without waiting for the debounce, asks the ranker
// before returning the results. It is the one-shot form of SetQuery for
// callers that have no keystrokes to coalesce.
func (f *Filter) Run(query string) []models.Message {
	f.mu.Lock()
	gen := f.reset(query)
	f.mu.Unlock()
	f.changed()

	if IsQuery(query) && f.ranker != nil {
		f.dispatch(gen)
	}
	return f.Results()
}

// reset starts a new generation for query. f.mu must be held.
func (f *Filter) reset(query string) uint64 {
	f.query = query
	f.gen++
	if f.timer != nil {
		f.timer.Stop()
		f.timer = nil
	}
	f.providerIDs = nil
	f.searching = false
	return f.gen
}

// Query returns the current query.
func (f *Filter) Query() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.query
}

// IsSearching reports whether the provider call for the current query is in
// flight.
func (f *Filter) IsSearching() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.searching
}

// Results returns the messages to display for the current query.
func (f *Filter) Results() []models.Message {
	f.mu.Lock()
	defer f.mu.Unlock()

	if !IsQuery(f.query) {
		return f.catalog
	}
	if len(f.providerIDs) > 0 {
		if ranked := ByIDs(f.providerIDs, f.catalog); len(ranked) > 0 {
			return ranked
		}
	}
	return Fallback(f.query, f.catalog)
}

func (f *Filter) dispatch(gen uint64) {
	f.mu.Lock()
	if gen != f.gen {
		f.mu.Unlock()
		return
	}
	f.timer = nil
	f.searching = true
	query := f.query
	candidates := Candidates(f.catalog)
	f.mu.Unlock()
	f.changed()

	ids, err := f.ranker.Rank(f.ctx, query, candidates)
	if err != nil {
		f.logger.Error().Err(err).Str("query", query).Msg("search ranking failed, using local match")
		ids = nil
	}

	f.mu.Lock()
	if gen != f.gen {
		f.mu.Unlock()
		f.logger.Debug().Str("query", query).Msg("discarding superseded search result")
		return
	}
	f.providerIDs = ids
	f.searching = false
	f.mu.Unlock()
	f.changed()
}

func (f *Filter) changed() {
	if f.onChange != nil {
		f.onChange()
	}
}
