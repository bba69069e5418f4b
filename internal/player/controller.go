package player

import (
	"errors"
	"sync"

	"github.com/vaarthai/vithai/internal/models"
	"github.com/vaarthai/vithai/internal/playlist"
)

// ErrTrackNotFound means the requested id is not a playable track. Callers
// render a "no message selected" state.
var ErrTrackNotFound = errors.New("track not found")

// Controller moves a Player through a Playlist, advancing to the next track
// when one finishes.
type Controller struct {
	player *Player
	list   *playlist.Playlist

	mu    sync.Mutex
	index int
}

// NewController positions player at id within list and starts loading it.
func NewController(p *Player, list *playlist.Playlist, id string) (*Controller, error) {
	i, ok := list.IndexOf(id)
	if !ok {
		return nil, ErrTrackNotFound
	}
	c := &Controller{player: p, list: list, index: i}
	p.OnFinished(func(models.Message) { c.Next() })
	p.Load(list.At(i))
	return c, nil
}

// Current returns the current track and its index.
func (c *Controller) Current() (models.Message, int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.list.At(c.index), c.index
}

// HasNeighbours reports whether next/previous controls are enabled.
func (c *Controller) HasNeighbours() bool {
	return c.list.HasNeighbours()
}

// Next loads the following track, wrapping to the first.
func (c *Controller) Next() models.Message {
	return c.move(c.list.Next)
}

// Previous loads the preceding track, wrapping to the last.
func (c *Controller) Previous() models.Message {
	return c.move(c.list.Previous)
}

// Select loads the track with the given id.
func (c *Controller) Select(id string) error {
	i, ok := c.list.IndexOf(id)
	if !ok {
		return ErrTrackNotFound
	}
	c.mu.Lock()
	c.index = i
	c.mu.Unlock()
	c.player.Load(c.list.At(i))
	return nil
}

func (c *Controller) move(step func(int) int) models.Message {
	c.mu.Lock()
	c.index = step(c.index)
	track := c.list.At(c.index)
	c.mu.Unlock()

	c.player.Load(track)
	return track
}
