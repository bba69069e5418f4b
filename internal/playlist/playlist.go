// Package playlist flattens the two-level message catalog into the ordered
// sequence of playable tracks and moves through it with wrap-around.
package playlist

import "github.com/vaarthai/vithai/internal/models"

// Playlist is an immutable ordered sequence of tracks.
type Playlist struct {
	tracks []models.Message
	index  map[string]int
}

// Flatten returns the playable tracks of messages in catalog order. A
// container contributes its sub-messages; any other message contributes
// itself when it has an audio URL.
func Flatten(messages []models.Message) []models.Message {
	tracks := make([]models.Message, 0, len(messages))
	for _, m := range messages {
		if m.IsContainer() {
			tracks = append(tracks, m.SubMessages...)
			continue
		}
		if m.IsLeaf() {
			tracks = append(tracks, m)
		}
	}
	return tracks
}

// New builds a playlist from the catalog's top-level messages.
func New(messages []models.Message) *Playlist {
	tracks := Flatten(messages)
	index := make(map[string]int, len(tracks))
	for i, t := range tracks {
		// first occurrence wins if an id is repeated
		if _, ok := index[t.ID]; !ok {
			index[t.ID] = i
		}
	}
	return &Playlist{tracks: tracks, index: index}
}

// Resolve builds the playlist and locates id in one step.
func Resolve(messages []models.Message, id string) (*Playlist, int, bool) {
	p := New(messages)
	i, ok := p.IndexOf(id)
	return p, i, ok
}

// Len returns the number of tracks.
func (p *Playlist) Len() int {
	return len(p.tracks)
}

// Tracks returns a copy of the track sequence.
func (p *Playlist) Tracks() []models.Message {
	out := make([]models.Message, len(p.tracks))
	copy(out, p.tracks)
	return out
}

// IDs returns the track ids in order.
func (p *Playlist) IDs() []string {
	ids := make([]string, len(p.tracks))
	for i, t := range p.tracks {
		ids[i] = t.ID
	}
	return ids
}

// At returns the track at i. It panics if i is out of range.
func (p *Playlist) At(i int) models.Message {
	return p.tracks[i]
}

// IndexOf returns the zero-based position of id, or false when id is not a
// playable track.
func (p *Playlist) IndexOf(id string) (int, bool) {
	i, ok := p.index[id]
	return i, ok
}

// Next returns the index after i, wrapping from the last track to the first.
// It returns -1 for an empty playlist.
func (p *Playlist) Next(i int) int {
	n := len(p.tracks)
	if n == 0 {
		return -1
	}
	return (mod(i, n) + 1) % n
}

// Previous returns the index before i, wrapping from the first track to the
// last. It returns -1 for an empty playlist.
func (p *Playlist) Previous(i int) int {
	n := len(p.tracks)
	if n == 0 {
		return -1
	}
	return (mod(i, n) - 1 + n) % n
}

// HasNeighbours reports whether next/previous controls should be enabled.
func (p *Playlist) HasNeighbours() bool {
	return len(p.tracks) > 1
}

func mod(i, n int) int {
	return ((i % n) + n) % n
}
