package player

import (
	"errors"
	"time"
)

// ErrPlayAborted is reported by Media.Play when a pending play attempt was
// interrupted by a new load. It is a cancellation, not a playback failure.
var ErrPlayAborted = errors.New("play request interrupted by a new load")

// Media is the platform audio element. Implementations may invoke the Play
// callback and the Events methods from any goroutine.
type Media interface {
	// Load replaces the source and resets position. Events for the new
	// source must be delivered to events.
	Load(src string, events Events)
	Play(done func(error))
	Pause()
	Seek(seconds float64)
	Position() float64
	SetRate(rate float64)
}

// Events receives notifications from Media for one loaded source.
type Events interface {
	TimeUpdate(position float64)
	DurationChange(duration float64)
	Ended()
	Error(code int)
}

// Media error codes reported through Events.Error.
const (
	MediaErrAborted        = 1
	MediaErrNetwork        = 2
	MediaErrDecode         = 3
	MediaErrSrcUnsupported = 4
)

// Category is the human readable class of a playback failure.
type Category string

const (
	CategoryAborted            Category = "aborted"
	CategoryNetwork            Category = "network error"
	CategoryDecode             Category = "decode error"
	CategorySourceNotSupported Category = "source not supported"
	CategoryFailedToLoad       Category = "failed to load audio"
	CategoryPlayback           Category = "playback error"
)

// CategoryForCode maps a media error code to its category.
func CategoryForCode(code int) Category {
	switch code {
	case MediaErrAborted:
		return CategoryAborted
	case MediaErrNetwork:
		return CategoryNetwork
	case MediaErrDecode:
		return CategoryDecode
	case MediaErrSrcUnsupported:
		return CategorySourceNotSupported
	default:
		return CategoryFailedToLoad
	}
}

// MediaError is a failed play attempt carrying a media error code.
type MediaError struct {
	Code int
}

func (e *MediaError) Error() string {
	return string(CategoryForCode(e.Code))
}

// Artwork is a cover image for now-playing integrations.
type Artwork struct {
	Src   string
	Sizes string
	Type  string
}

// Metadata describes the current track to the host's now-playing surface.
type Metadata struct {
	Title   string
	Artist  string
	Album   string
	Artwork []Artwork
}

// Actions are the host's transport buttons bound back onto the player.
type Actions struct {
	Play         func()
	Pause        func()
	SeekBackward func()
	SeekForward  func()
}

// NowPlaying is the host's lock-screen / now-playing capability.
type NowPlaying interface {
	SetMetadata(Metadata)
	SetActions(Actions)
}

// NopNowPlaying is used where the host has no now-playing integration.
type NopNowPlaying struct{}

func (NopNowPlaying) SetMetadata(Metadata) {}
func (NopNowPlaying) SetActions(Actions)   {}

// Clock abstracts time for gesture and feedback timing.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }
