package player

import "fmt"

// State is the playback state of the current track.
type State string

// Event drives a State change.
type Event string

const (
	StateIdle    State = "idle"
	StateLoading State = "loading"
	StatePlaying State = "playing"
	StatePaused  State = "paused"
	StateErrored State = "errored"
)

const (
	EventLoad    Event = "load"
	EventStarted Event = "started"
	EventPause   Event = "pause"
	EventEnded   Event = "ended"
	EventFail    Event = "fail"
)

// Transition returns the state reached from current on event.
func Transition(current State, event Event) (State, error) {
	if event == EventLoad {
		return StateLoading, nil
	}

	switch current {
	case StateIdle:
		return current, invalidTransition(current, event)
	case StateLoading:
		switch event {
		case EventStarted:
			return StatePlaying, nil
		case EventPause:
			return StatePaused, nil
		case EventFail:
			return StateErrored, nil
		default:
			return current, invalidTransition(current, event)
		}
	case StatePlaying:
		switch event {
		case EventPause, EventEnded:
			return StatePaused, nil
		case EventFail:
			return StateErrored, nil
		default:
			return current, invalidTransition(current, event)
		}
	case StatePaused:
		switch event {
		case EventStarted:
			return StatePlaying, nil
		case EventFail:
			return StateErrored, nil
		default:
			return current, invalidTransition(current, event)
		}
	case StateErrored:
		switch event {
		case EventStarted:
			return StatePlaying, nil
		case EventFail:
			return StateErrored, nil
		default:
			return current, invalidTransition(current, event)
		}
	default:
		return current, fmt.Errorf("unknown state %q", current)
	}
}

func invalidTransition(state State, event Event) error {
	return fmt.Errorf("invalid transition: %s --(%s)--> ?", state, event)
}
