package search

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/vaarthai/vithai/internal/models"
)

func sampleCatalog() []models.Message {
	return []models.Message{
		{ID: "1", Title: "Faith Sunday", Date: "2024-05-12", SubMessages: []models.Message{
			{ID: "1-1", Title: "Part 1: What is faith?", Date: "2024-05-12", AudioURL: "a"},
			{ID: "1-2", Title: "Part 2", Date: "2024-05-12", AudioURL: "b"},
		}},
		{ID: "2", Title: "Family Meet", Date: "2024-05-10", AudioURL: "x"},
		{ID: "3", Title: "Bible Study", Subtitle: "Romans in depth", Date: "2024-05-08", SubMessages: []models.Message{
			{ID: "3-1", Title: "Chapter 1", Date: "2024-05-08", AudioURL: "c"},
		}},
	}
}

func ids(messages []models.Message) []string {
	out := make([]string, len(messages))
	for i, m := range messages {
		out[i] = m.ID
	}
	return out
}

// fakeTimers captures scheduled functions so tests fire them explicitly.
type fakeTimers struct {
	mu     sync.Mutex
	timers []*fakeTimer
}

type fakeTimer struct {
	delay   time.Duration
	fn      func()
	stopped bool
}

func (t *fakeTimer) Stop() bool {
	was := !t.stopped
	t.stopped = true
	return was
}

func (ft *fakeTimers) AfterFunc(d time.Duration, fn func()) Stopper {
	ft.mu.Lock()
	defer ft.mu.Unlock()
	t := &fakeTimer{delay: d, fn: fn}
	ft.timers = append(ft.timers, t)
	return t
}

func (ft *fakeTimers) count() int {
	ft.mu.Lock()
	defer ft.mu.Unlock()
	return len(ft.timers)
}

func (ft *fakeTimers) fire(t *testing.T, i int) {
	t.Helper()
	ft.mu.Lock()
	timer := ft.timers[i]
	ft.mu.Unlock()
	timer.fn()
}

type stubRanker struct {
	mu      sync.Mutex
	calls   []string
	ids     []string
	err     error
	release chan struct{}
}

func (r *stubRanker) Rank(ctx context.Context, query string, candidates []Candidate) ([]string, error) {
	r.mu.Lock()
	r.calls = append(r.calls, query)
	release := r.release
	r.mu.Unlock()
	if release != nil {
		<-release
	}
	return r.ids, r.err
}

func newFilter(r Ranker) (*Filter, *fakeTimers) {
	timers := &fakeTimers{}
	return NewFilter(r, sampleCatalog(), WithAfterFunc(timers.AfterFunc)), timers
}

func TestFallbackMatchesTopLevelTitle(t *testing.T) {
	require.Equal(t, []string{"1", "1-1"}, ids(Fallback("Faith", sampleCatalog())))
}

func TestFallbackFields(t *testing.T) {
	catalog := sampleCatalog()

	require.Equal(t, []string{"3"}, ids(Fallback("romans", catalog)), "top-level subtitle")
	require.Equal(t, []string{"2"}, ids(Fallback("2024-05-10", catalog)), "top-level date")
	require.Equal(t, []string{"3-1"}, ids(Fallback("CHAPTER", catalog)), "sub-message title")
	require.Equal(t, []string{"3", "3-1"}, ids(Fallback("2024-05-08", catalog)), "date matches parent and child")
	require.Empty(t, Fallback("nothing here", catalog))
}

func TestFallbackDeduplicates(t *testing.T) {
	catalog := []models.Message{
		{ID: "a", Title: "Grace", SubMessages: []models.Message{{ID: "a", Title: "Grace again"}, {ID: "b", Title: "grace 2"}}},
		{ID: "b", Title: "Grace notes"},
	}
	require.Equal(t, []string{"a", "b"}, ids(Fallback("grace", catalog)))
}

func TestByIDsKeepsProviderOrder(t *testing.T) {
	got := ByIDs([]string{"3-1", "missing", "2", "3-1", "1"}, sampleCatalog())
	require.Equal(t, []string{"3-1", "2", "1"}, ids(got))
}

func TestCandidatesFlattenInCatalogOrder(t *testing.T) {
	got := Candidates(sampleCatalog())
	require.Len(t, got, 6)
	require.Equal(t, Candidate{ID: "3", Title: "Bible Study", Subtitle: "Romans in depth"}, got[4])
	require.Equal(t, "1-1", got[1].ID)
}

func TestShortQueryNeverCallsProvider(t *testing.T) {
	r := &stubRanker{ids: []string{"2"}}
	f, timers := newFilter(r)

	for _, q := range []string{"", "F", "ஞ"} {
		f.SetQuery(q)
		require.Equal(t, []string{"1", "2", "3"}, ids(f.Results()))
		require.False(t, f.IsSearching())
	}
	require.Zero(t, timers.count())
	require.Empty(t, r.calls)
}

func TestProviderResultsWin(t *testing.T) {
	r := &stubRanker{ids: []string{"3-1", "unknown", "2"}}
	f, timers := newFilter(r)

	f.SetQuery("visuvasam")
	require.Equal(t, 1, timers.count())
	require.Equal(t, DebounceDelay, timers.timers[0].delay)
	require.Empty(t, f.Results(), "fallback while the provider is pending")

	timers.fire(t, 0)
	require.Equal(t, []string{"visuvasam"}, r.calls)
	require.Equal(t, []string{"3-1", "2"}, ids(f.Results()))
	require.False(t, f.IsSearching())
}

func TestProviderEmptyOrFailingFallsBack(t *testing.T) {
	for name, r := range map[string]*stubRanker{
		"empty":   {ids: []string{}},
		"error":   {err: errors.New("provider down")},
		"foreign": {ids: []string{"nope"}},
	} {
		t.Run(name, func(t *testing.T) {
			f, timers := newFilter(r)
			f.SetQuery("Faith")
			timers.fire(t, 0)

			require.Equal(t, []string{"1", "1-1"}, ids(f.Results()))
			require.False(t, f.IsSearching())
		})
	}
}

func TestNewKeystrokeSupersedesPendingTimer(t *testing.T) {
	r := &stubRanker{ids: []string{"2"}}
	f, timers := newFilter(r)

	f.SetQuery("Fa")
	f.SetQuery("Fam")
	require.Equal(t, 2, timers.count())
	require.True(t, timers.timers[0].stopped)

	// a timer that fired despite Stop must not dispatch
	timers.fire(t, 0)
	require.Empty(t, r.calls)

	timers.fire(t, 1)
	require.Equal(t, []string{"Fam"}, r.calls)
	require.Equal(t, []string{"2"}, ids(f.Results()))
}

func TestSupersededResultDiscarded(t *testing.T) {
	r := &stubRanker{ids: []string{"2"}, release: make(chan struct{})}
	f, timers := newFilter(r)

	f.SetQuery("Faith")
	done := make(chan struct{})
	go func() {
		timers.fire(t, 0)
		close(done)
	}()

	require.Eventually(t, f.IsSearching, time.Second, time.Millisecond)

	f.SetQuery("Bible")
	require.False(t, f.IsSearching())
	close(r.release)
	<-done

	require.Equal(t, []string{"3"}, ids(f.Results()), "stale provider ids are not applied")
	require.False(t, f.IsSearching())
}

func TestClearingQueryResets(t *testing.T) {
	r := &stubRanker{ids: []string{"2"}}
	f, timers := newFilter(r)

	f.SetQuery("Family")
	timers.fire(t, 0)
	require.Equal(t, []string{"2"}, ids(f.Results()))

	f.SetQuery("")
	require.Equal(t, []string{"1", "2", "3"}, ids(f.Results()))
	require.False(t, f.IsSearching())

	f.SetQuery("Fa")
	require.Equal(t, []string{"1", "1-1", "2"}, ids(f.Results()), "earlier provider ids were cleared")
}

func TestNilRankerUsesFallback(t *testing.T) {
	f := NewFilter(nil, sampleCatalog())
	f.SetQuery("chapter")
	require.Equal(t, []string{"3-1"}, ids(f.Results()))
	require.False(t, f.IsSearching())
}

func TestOnChangeNotified(t *testing.T) {
	var changes int
	timers := &fakeTimers{}
	f := NewFilter(&stubRanker{ids: []string{"1"}}, sampleCatalog(),
		WithAfterFunc(timers.AfterFunc),
		OnChange(func() { changes++ }),
	)

	f.SetQuery("Faith")
	timers.fire(t, 0)
	require.Equal(t, 3, changes)
}

func TestRunAsksRankerWithoutDebounce(t *testing.T) {
	r := &stubRanker{ids: []string{"2", "1-2"}}
	f, timers := newFilter(r)

	require.Equal(t, []string{"2", "1-2"}, ids(f.Run("anbu")))
	require.Equal(t, []string{"anbu"}, r.calls)
	require.Zero(t, timers.count())
	require.False(t, f.IsSearching())
}

func TestRunFallsBackOnRankerError(t *testing.T) {
	r := &stubRanker{err: errors.New("provider down")}
	f, _ := newFilter(r)

	require.Equal(t, []string{"1", "1-1"}, ids(f.Run("faith")))
	require.Equal(t, []string{"1", "2", "3"}, ids(f.Run("f")), "short query shows the catalog")
	require.Len(t, r.calls, 1)
}

func TestRunCancelsPendingKeystroke(t *testing.T) {
	r := &stubRanker{ids: []string{"3"}}
	f, timers := newFilter(r)

	f.SetQuery("bible")
	f.Run("romans")
	require.True(t, timers.timers[0].stopped)

	timers.fire(t, 0)
	require.Equal(t, []string{"romans"}, r.calls, "the superseded keystroke never reaches the ranker")
	require.Equal(t, []string{"3"}, ids(f.Results()))
}

func TestFallbackIDsMatchesTitleAndSubtitle(t *testing.T) {
	candidates := Candidates(sampleCatalog())

	require.Equal(t, []string{"1", "1-1"}, FallbackIDs("FAITH", candidates))
	require.Equal(t, []string{"3"}, FallbackIDs("romans", candidates))
	require.Empty(t, FallbackIDs("2024-05", candidates), "dates are not candidate fields")
	require.NotNil(t, FallbackIDs("zzz", candidates))
}
