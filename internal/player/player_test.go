package player

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/vaarthai/vithai/internal/models"
	"github.com/vaarthai/vithai/internal/playlist"
)

type fakeMedia struct {
	mu       sync.Mutex
	src      string
	events   Events
	pending  []func(error)
	position float64
	length   float64
	rate     float64
	pauses   int
}

func newFakeMedia() *fakeMedia {
	return &fakeMedia{length: 100, rate: 1}
}

func (m *fakeMedia) Load(src string, events Events) {
	m.mu.Lock()
	m.src = src
	m.events = events
	m.position = 0
	m.mu.Unlock()
}

func (m *fakeMedia) Play(done func(error)) {
	m.mu.Lock()
	m.pending = append(m.pending, done)
	m.mu.Unlock()
}

func (m *fakeMedia) Pause() {
	m.mu.Lock()
	m.pauses++
	m.mu.Unlock()
}

func (m *fakeMedia) Seek(seconds float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	switch {
	case seconds < 0:
		m.position = 0
	case seconds > m.length:
		m.position = m.length
	default:
		m.position = seconds
	}
}

func (m *fakeMedia) Position() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.position
}

func (m *fakeMedia) SetRate(rate float64) {
	m.mu.Lock()
	m.rate = rate
	m.mu.Unlock()
}

// resolve completes the oldest pending play request.
func (m *fakeMedia) resolve(t *testing.T, err error) {
	t.Helper()
	m.mu.Lock()
	require.NotEmpty(t, m.pending, "no pending play request")
	done := m.pending[0]
	m.pending = m.pending[1:]
	m.mu.Unlock()
	done(err)
}

func (m *fakeMedia) currentEvents() Events {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.events
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 5, 12, 9, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

type recordingNowPlaying struct {
	meta    Metadata
	actions Actions
}

func (r *recordingNowPlaying) SetMetadata(m Metadata) { r.meta = m }
func (r *recordingNowPlaying) SetActions(a Actions)   { r.actions = a }

var (
	trackA = models.Message{ID: "1-1", Title: "Part 1", AudioURL: "https://example.com/a.mp3", Thumbnail: "https://example.com/a.png"}
	trackB = models.Message{ID: "2", Title: "Family Meet", Subtitle: "Love", AudioURL: "https://example.com/b.mp3"}
)

func newTestPlayer() (*Player, *fakeMedia, *fakeClock) {
	media := newFakeMedia()
	clock := newFakeClock()
	p := New(Options{Media: media, Clock: clock, ArtistLabel: "Vaarthayin vithai", AlbumLabel: "Messages"})
	return p, media, clock
}

func TestLoadAutoplays(t *testing.T) {
	p, media, _ := newTestPlayer()
	require.Equal(t, StateIdle, p.Status().State)

	p.Load(trackA)
	require.Equal(t, StateLoading, p.Status().State)
	require.Equal(t, trackA.AudioURL, media.src)

	media.resolve(t, nil)
	require.Equal(t, StatePlaying, p.Status().State)
}

func TestTogglePauseAndResume(t *testing.T) {
	p, media, _ := newTestPlayer()
	p.Load(trackA)
	media.resolve(t, nil)

	p.Toggle()
	require.Equal(t, StatePaused, p.Status().State)
	require.Equal(t, 1, media.pauses)

	p.Toggle()
	require.Equal(t, StatePaused, p.Status().State, "resume waits for the media")
	media.resolve(t, nil)
	require.Equal(t, StatePlaying, p.Status().State)
}

func TestToggleWhenIdleIsNoop(t *testing.T) {
	p, media, _ := newTestPlayer()
	p.Toggle()
	require.Equal(t, StateIdle, p.Status().State)
	require.Empty(t, media.pending)
}

func TestMediaErrorCategories(t *testing.T) {
	tests := []struct {
		code int
		want Category
	}{
		{MediaErrAborted, CategoryAborted},
		{MediaErrNetwork, CategoryNetwork},
		{MediaErrDecode, CategoryDecode},
		{MediaErrSrcUnsupported, CategorySourceNotSupported},
		{99, CategoryFailedToLoad},
	}
	for _, tc := range tests {
		t.Run(string(tc.want), func(t *testing.T) {
			p, media, _ := newTestPlayer()
			p.Load(trackA)
			media.currentEvents().Error(tc.code)

			st := p.Status()
			require.Equal(t, StateErrored, st.State)
			require.Equal(t, tc.want, st.Error)
		})
	}
}

func TestSourceNotSupportedNeverPlays(t *testing.T) {
	p, media, _ := newTestPlayer()
	p.Load(trackA)
	media.resolve(t, &MediaError{Code: MediaErrSrcUnsupported})

	st := p.Status()
	require.Equal(t, StateErrored, st.State)
	require.Equal(t, CategorySourceNotSupported, st.Error)
	require.NotEqual(t, StatePlaying, st.State)
}

func TestToggleFromErroredRetries(t *testing.T) {
	p, media, _ := newTestPlayer()
	p.Load(trackA)
	media.resolve(t, nil)
	media.currentEvents().Error(MediaErrNetwork)
	require.Equal(t, StateErrored, p.Status().State)

	p.Toggle()
	require.Equal(t, CategoryNetwork, p.Status().Error, "error stays until playback resumes")
	media.resolve(t, nil)

	st := p.Status()
	require.Equal(t, StatePlaying, st.State)
	require.Empty(t, st.Error)
}

func TestToggleFailureSurfaces(t *testing.T) {
	p, media, _ := newTestPlayer()
	p.Load(trackA)
	media.resolve(t, nil)
	p.Toggle()

	p.Toggle()
	media.resolve(t, errors.New("not allowed"))

	st := p.Status()
	require.Equal(t, StateErrored, st.State)
	require.Equal(t, CategoryPlayback, st.Error)
}

func TestAutoplayRefusedWaitsForUser(t *testing.T) {
	p, media, _ := newTestPlayer()
	p.Load(trackA)
	media.resolve(t, errors.New("autoplay blocked"))

	st := p.Status()
	require.Equal(t, StatePaused, st.State)
	require.Empty(t, st.Error)
}

func TestTrackChangeDropsStalePlayResult(t *testing.T) {
	p, media, _ := newTestPlayer()
	p.Load(trackA)
	p.Load(trackB)

	// trackA's play finishes late; it must not mark trackB as playing
	media.resolve(t, nil)
	st := p.Status()
	require.Equal(t, StateLoading, st.State)
	require.Equal(t, trackB.ID, st.Track.ID)

	media.resolve(t, nil)
	require.Equal(t, StatePlaying, p.Status().State)
}

func TestAbortedPlayIsNotAnError(t *testing.T) {
	p, media, _ := newTestPlayer()
	p.Load(trackA)
	media.resolve(t, nil)
	p.Toggle()
	p.Toggle()

	media.resolve(t, ErrPlayAborted)
	st := p.Status()
	require.NotEqual(t, StateErrored, st.State)
	require.Empty(t, st.Error)
}

func TestStaleMediaEventsIgnored(t *testing.T) {
	p, media, _ := newTestPlayer()
	p.Load(trackA)
	old := media.currentEvents()
	p.Load(trackB)

	old.Error(MediaErrDecode)
	old.TimeUpdate(42)
	st := p.Status()
	require.Equal(t, StateLoading, st.State)
	require.Zero(t, st.Position)
}

func TestLoadResetsPosition(t *testing.T) {
	p, media, _ := newTestPlayer()
	p.Load(trackA)
	media.resolve(t, nil)
	media.currentEvents().DurationChange(100)
	media.currentEvents().TimeUpdate(30)
	require.Equal(t, 30.0, p.Status().Position)

	p.Load(trackB)
	st := p.Status()
	require.Zero(t, st.Position)
	require.Zero(t, st.Duration)
}

func TestSeekClamps(t *testing.T) {
	p, media, _ := newTestPlayer()
	p.Load(trackA)
	media.currentEvents().DurationChange(100)

	p.Seek(150)
	require.Equal(t, 100.0, p.Status().Position)
	p.Seek(-5)
	require.Equal(t, 0.0, p.Status().Position)
	p.Seek(42.5)
	require.Equal(t, 42.5, media.Position())
}

func TestSkipShowsFeedback(t *testing.T) {
	p, media, clock := newTestPlayer()
	p.Load(trackA)
	media.Seek(50)

	p.Skip(SkipSeconds)
	st := p.Status()
	require.Equal(t, 60.0, st.Position)
	require.Equal(t, Forward, st.Feedback)
	require.Equal(t, "+10s", st.Feedback.Label())

	clock.Advance(FeedbackDuration)
	require.Equal(t, NoFeedback, p.Status().Feedback)

	p.Skip(-SkipSeconds)
	require.Equal(t, Backward, p.Status().Feedback)
	require.Equal(t, 50.0, p.Status().Position)

	// bounds come from the media
	p.Skip(-1000)
	require.Equal(t, 0.0, p.Status().Position)
}

func TestCycleSpeed(t *testing.T) {
	p, media, _ := newTestPlayer()
	p.Load(trackA)

	var got []float64
	for range 6 {
		got = append(got, p.CycleSpeed())
	}
	require.Equal(t, []float64{1.25, 1.5, 2, 0.75, 1, 1.25}, got)
	require.Equal(t, 1.25, media.rate)
}

func TestSpeedSurvivesTrackChange(t *testing.T) {
	p, media, _ := newTestPlayer()
	p.Load(trackA)
	p.CycleSpeed()
	p.Load(trackB)
	require.Equal(t, 1.25, media.rate)
}

func TestEndedAdvancesController(t *testing.T) {
	p, media, _ := newTestPlayer()
	list := playlist.New([]models.Message{trackA, trackB})

	c, err := NewController(p, list, trackB.ID)
	require.NoError(t, err)
	media.resolve(t, nil)

	media.currentEvents().Ended()
	cur, i := c.Current()
	require.Equal(t, 0, i, "next after the last track wraps to the first")
	require.Equal(t, trackA.ID, cur.ID)
	require.Equal(t, StateLoading, p.Status().State)
	require.Equal(t, trackA.AudioURL, media.src)
}

func TestEndedPausesAndSignals(t *testing.T) {
	p, media, _ := newTestPlayer()
	var finished []string
	p.OnFinished(func(m models.Message) { finished = append(finished, m.ID) })

	p.Load(trackA)
	media.resolve(t, nil)
	media.currentEvents().Ended()

	require.Equal(t, StatePaused, p.Status().State)
	require.Equal(t, []string{trackA.ID}, finished)
}

func TestControllerNavigation(t *testing.T) {
	p, media, _ := newTestPlayer()
	list := playlist.New([]models.Message{trackA, trackB})

	c, err := NewController(p, list, trackA.ID)
	require.NoError(t, err)
	require.True(t, c.HasNeighbours())

	require.Equal(t, trackB.ID, c.Previous().ID, "previous from the first track wraps to the last")
	require.Equal(t, trackA.ID, c.Next().ID)
	require.Equal(t, trackB.ID, c.Next().ID)
	require.Equal(t, trackB.AudioURL, media.src)

	require.NoError(t, c.Select(trackA.ID))
	_, i := c.Current()
	require.Equal(t, 0, i)
	require.ErrorIs(t, c.Select("missing"), ErrTrackNotFound)
}

func TestControllerUnknownTrack(t *testing.T) {
	p, _, _ := newTestPlayer()
	list := playlist.New([]models.Message{trackA})

	_, err := NewController(p, list, "missing")
	require.ErrorIs(t, err, ErrTrackNotFound)
	require.Equal(t, StateIdle, p.Status().State)
}

func TestNowPlayingIntegration(t *testing.T) {
	media := newFakeMedia()
	np := &recordingNowPlaying{}
	p := New(Options{Media: media, NowPlaying: np, Clock: newFakeClock(), ArtistLabel: "Vaarthayin vithai", AlbumLabel: "Messages"})

	p.Load(trackA)
	require.Equal(t, "Part 1", np.meta.Title)
	require.Equal(t, "Vaarthayin vithai", np.meta.Artist)
	require.Equal(t, "Messages", np.meta.Album)
	require.Equal(t, []Artwork{{Src: trackA.Thumbnail, Sizes: "512x512", Type: "image/png"}}, np.meta.Artwork)

	p.Load(trackB)
	require.Equal(t, "Love", np.meta.Album)
	media.resolve(t, nil)
	media.resolve(t, nil)
	require.Equal(t, StatePlaying, p.Status().State)

	np.actions.Pause()
	require.Equal(t, StatePaused, p.Status().State)

	media.Seek(20)
	np.actions.SeekForward()
	require.Equal(t, 30.0, media.Position())
	np.actions.SeekBackward()
	require.Equal(t, 20.0, media.Position())
}

func TestShare(t *testing.T) {
	p, _, _ := newTestPlayer()
	p.Load(trackB)

	require.Equal(t, "https://vithai.example/message/2", p.ShareURL("https://vithai.example/"))

	share := p.Share("https://vithai.example", "Vaarthayin vithai")
	require.Equal(t, "Family Meet", share.Title)
	require.Equal(t, "Vaarthayin vithai: Family Meet\nLove", share.Text)
	require.Equal(t, "https://vithai.example/message/2", share.URL)
}
