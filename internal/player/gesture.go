package player

import (
	"sync"
	"time"
)

// DoubleTapWindow is the maximum gap between two activations on the same
// half for them to count as a double activation.
const DoubleTapWindow = 300 * time.Millisecond

type side int

const (
	sideNone side = iota
	sideLeft
	sideRight
)

// GestureDetector recognises double activations on the left or right half of
// an input surface.
type GestureDetector struct {
	clock Clock

	mu       sync.Mutex
	lastTime time.Time
	lastSide side
}

// NewGestureDetector returns a detector using clock, or the system clock when
// clock is nil.
func NewGestureDetector(clock Clock) *GestureDetector {
	if clock == nil {
		clock = systemClock{}
	}
	return &GestureDetector{clock: clock}
}

// Activate records an activation at x on a surface of the given width. It
// returns Backward or Forward when the activation completes a double
// activation on the left or right half, otherwise NoFeedback.
func (g *GestureDetector) Activate(x, width float64) Direction {
	now := g.clock.Now()
	s := sideRight
	if x < width/2 {
		s = sideLeft
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	result := NoFeedback
	if g.lastSide == s && now.Sub(g.lastTime) < DoubleTapWindow {
		if s == sideLeft {
			result = Backward
		} else {
			result = Forward
		}
	}
	g.lastTime = now
	g.lastSide = s
	return result
}
