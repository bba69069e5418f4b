// Package player owns playback of one track at a time: play/pause, seek,
// skip, speed, error state and the host's now-playing integration.
package player

import (
	"errors"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/vaarthai/vithai/internal/models"
)

// SkipSeconds is the nudge applied by gestures and seek actions.
const SkipSeconds = 10

// FeedbackDuration is how long the skip indicator stays visible.
const FeedbackDuration = 500 * time.Millisecond

// Speeds is the playback speed cycle, starting at normal speed.
var Speeds = []float64{1, 1.25, 1.5, 2, 0.75}

// Direction of a skip, shown by the transient feedback indicator.
type Direction int

const (
	NoFeedback Direction = iota
	Forward
	Backward
)

// Label returns the on-screen text for d.
func (d Direction) Label() string {
	switch d {
	case Forward:
		return "+10s"
	case Backward:
		return "-10s"
	default:
		return ""
	}
}

// Status is a snapshot of the player for rendering.
type Status struct {
	State    State
	Track    models.Message
	Position float64
	Duration float64
	Speed    float64
	Error    Category
	Feedback Direction
}

// Options configures a Player.
type Options struct {
	Media      Media
	NowPlaying NowPlaying
	Clock      Clock
	Logger     *zerolog.Logger

	// ArtistLabel and AlbumLabel fill now-playing fields the message lacks.
	ArtistLabel string
	AlbumLabel  string
}

// Player is the playback state machine for a single track at a time. It is
// safe for use from multiple goroutines.
type Player struct {
	media       Media
	nowPlaying  NowPlaying
	clock       Clock
	logger      zerolog.Logger
	artistLabel string
	albumLabel  string

	mu            sync.Mutex
	gen           uint64
	state         State
	track         models.Message
	position      float64
	duration      float64
	speed         float64
	errCategory   Category
	feedback      Direction
	feedbackUntil time.Time
	onFinished    func(models.Message)
	gestures      *GestureDetector
}

// New creates an idle player.
func New(opts Options) *Player {
	p := &Player{
		media:       opts.Media,
		nowPlaying:  opts.NowPlaying,
		clock:       opts.Clock,
		logger:      zerolog.Nop(),
		artistLabel: opts.ArtistLabel,
		albumLabel:  opts.AlbumLabel,
		state:       StateIdle,
		speed:       Speeds[0],
	}
	if opts.Logger != nil {
		p.logger = *opts.Logger
	}
	if p.nowPlaying == nil {
		p.nowPlaying = NopNowPlaying{}
	}
	if p.clock == nil {
		p.clock = systemClock{}
	}
	p.gestures = NewGestureDetector(p.clock)
	return p
}

// OnFinished registers the callback run when a track plays to its end.
func (p *Player) OnFinished(fn func(models.Message)) {
	p.mu.Lock()
	p.onFinished = fn
	p.mu.Unlock()
}

// Status returns the current snapshot.
func (p *Player) Status() Status {
	p.mu.Lock()
	defer p.mu.Unlock()

	s := Status{
		State:    p.state,
		Track:    p.track,
		Position: p.position,
		Duration: p.duration,
		Speed:    p.speed,
		Error:    p.errCategory,
	}
	if p.clock.Now().Before(p.feedbackUntil) {
		s.Feedback = p.feedback
	}
	return s
}

// Load abandons the current track, switches to track and attempts autoplay.
// Results of play attempts issued for earlier tracks are ignored.
func (p *Player) Load(track models.Message) {
	p.mu.Lock()
	p.gen++
	gen := p.gen
	p.track = track
	p.position = 0
	p.duration = 0
	p.errCategory = ""
	p.state, _ = Transition(p.state, EventLoad)
	speed := p.speed
	p.mu.Unlock()

	p.logger.Debug().Str("track", track.ID).Uint64("gen", gen).Msg("loading track")

	p.media.Load(track.AudioURL, &trackEvents{p: p, gen: gen})
	p.media.SetRate(speed)
	p.publishNowPlaying(track)
	p.media.Play(func(err error) { p.playResult(gen, err, true) })
}

// Toggle pauses a playing track, otherwise (re)attempts playback.
func (p *Player) Toggle() {
	p.mu.Lock()
	if p.state == StateIdle {
		p.mu.Unlock()
		return
	}
	if p.state == StatePlaying {
		p.apply(EventPause)
		p.mu.Unlock()
		p.media.Pause()
		return
	}
	gen := p.gen
	p.mu.Unlock()

	p.media.Play(func(err error) { p.playResult(gen, err, false) })
}

// Seek moves to an absolute position clamped to [0, duration].
func (p *Player) Seek(seconds float64) {
	p.mu.Lock()
	if seconds < 0 {
		seconds = 0
	}
	if p.duration > 0 && seconds > p.duration {
		seconds = p.duration
	}
	p.position = seconds
	p.mu.Unlock()

	p.media.Seek(seconds)
}

// Skip moves by a signed offset relative to the media position and shows the
// directional feedback indicator. Bounds are left to the media.
func (p *Player) Skip(delta float64) {
	target := p.media.Position() + delta
	p.media.Seek(target)
	pos := p.media.Position()

	p.mu.Lock()
	p.position = pos
	if delta > 0 {
		p.feedback = Forward
	} else {
		p.feedback = Backward
	}
	p.feedbackUntil = p.clock.Now().Add(FeedbackDuration)
	p.mu.Unlock()
}

// CycleSpeed advances to the next speed in Speeds and returns it.
func (p *Player) CycleSpeed() float64 {
	p.mu.Lock()
	next := Speeds[(speedIndex(p.speed)+1)%len(Speeds)]
	p.speed = next
	p.mu.Unlock()

	p.media.SetRate(next)
	return next
}

// Tap feeds one activation of the cover art at x within a surface of the
// given width. A double activation on one half skips back or forward.
func (p *Player) Tap(x, width float64) {
	switch p.gestures.Activate(x, width) {
	case Backward:
		p.Skip(-SkipSeconds)
	case Forward:
		p.Skip(SkipSeconds)
	}
}

// Share describes the current track for the host's share sheet.
type Share struct {
	Title string
	Text  string
	URL   string
}

// ShareURL returns the canonical deep link for the current track.
func (p *Player) ShareURL(baseURL string) string {
	p.mu.Lock()
	id := p.track.ID
	p.mu.Unlock()
	return DeepLink(baseURL, id)
}

// Share returns share data for the current track. appTitle prefixes the text.
func (p *Player) Share(baseURL, appTitle string) Share {
	p.mu.Lock()
	track := p.track
	p.mu.Unlock()

	return Share{
		Title: track.Title,
		Text:  appTitle + ": " + track.Title + "\n" + track.Subtitle,
		URL:   DeepLink(baseURL, track.ID),
	}
}

// DeepLink builds the /message/{id} link under baseURL.
func DeepLink(baseURL, id string) string {
	return strings.TrimRight(baseURL, "/") + "/message/" + url.PathEscape(id)
}

func (p *Player) publishNowPlaying(track models.Message) {
	album := track.Subtitle
	if album == "" {
		album = p.albumLabel
	}
	p.nowPlaying.SetMetadata(Metadata{
		Title:  track.Title,
		Artist: p.artistLabel,
		Album:  album,
		Artwork: []Artwork{
			{Src: track.Thumbnail, Sizes: "512x512", Type: "image/png"},
		},
	})
	p.nowPlaying.SetActions(Actions{
		Play:         p.Toggle,
		Pause:        p.Toggle,
		SeekBackward: func() { p.Skip(-SkipSeconds) },
		SeekForward:  func() { p.Skip(SkipSeconds) },
	})
}

func (p *Player) playResult(gen uint64, err error, autoplay bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if gen != p.gen {
		p.logger.Debug().Uint64("gen", gen).Uint64("current", p.gen).Msg("dropping stale play result")
		return
	}
	if err == nil {
		p.errCategory = ""
		p.apply(EventStarted)
		return
	}
	if errors.Is(err, ErrPlayAborted) {
		return
	}

	var mediaErr *MediaError
	switch {
	case errors.As(err, &mediaErr):
		p.fail(CategoryForCode(mediaErr.Code))
	case autoplay:
		// autoplay refused by the host; wait for an explicit play
		p.logger.Warn().Err(err).Str("track", p.track.ID).Msg("autoplay failed")
		if p.state == StateLoading {
			p.apply(EventPause)
		}
	default:
		p.logger.Error().Err(err).Str("track", p.track.ID).Msg("playback failed")
		p.fail(CategoryPlayback)
	}
}

// fail and apply must be called with p.mu held.
func (p *Player) fail(category Category) {
	if p.apply(EventFail) {
		p.errCategory = category
	}
}

func (p *Player) apply(event Event) bool {
	next, err := Transition(p.state, event)
	if err != nil {
		p.logger.Debug().Err(err).Msg("ignored player event")
		return false
	}
	p.state = next
	return true
}

func speedIndex(speed float64) int {
	for i, s := range Speeds {
		if s == speed {
			return i
		}
	}
	return -1
}

// trackEvents delivers media notifications for one load generation.
type trackEvents struct {
	p   *Player
	gen uint64
}

func (e *trackEvents) TimeUpdate(position float64) {
	e.p.mu.Lock()
	defer e.p.mu.Unlock()
	if e.gen == e.p.gen {
		e.p.position = position
	}
}

func (e *trackEvents) DurationChange(duration float64) {
	e.p.mu.Lock()
	defer e.p.mu.Unlock()
	if e.gen == e.p.gen {
		e.p.duration = duration
	}
}

func (e *trackEvents) Ended() {
	e.p.mu.Lock()
	if e.gen != e.p.gen {
		e.p.mu.Unlock()
		return
	}
	e.p.apply(EventEnded)
	track := e.p.track
	fn := e.p.onFinished
	e.p.mu.Unlock()

	if fn != nil {
		fn(track)
	}
}

func (e *trackEvents) Error(code int) {
	e.p.mu.Lock()
	defer e.p.mu.Unlock()
	if e.gen != e.p.gen {
		return
	}
	e.p.logger.Error().Int("code", code).Str("track", e.p.track.ID).Msg("audio element error")
	e.p.fail(CategoryForCode(code))
}
