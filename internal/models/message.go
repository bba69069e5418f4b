package models

import (
	"errors"
	"fmt"
	"strings"
)

// Message is a sermon entry. A message with sub-messages is a container and
// is not played directly; any other message must carry an audio URL.
type Message struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Subtitle    string    `json:"subtitle,omitempty"`
	Date        string    `json:"date"`     // YYYY-MM-DD, display only
	Duration    string    `json:"duration"` // MM:SS, display only
	AudioURL    string    `json:"audioUrl"`
	Thumbnail   string    `json:"thumbnail"`
	SubMessages []Message `json:"subMessages,omitempty"`
}

// Catalog is the persisted document: the ordered list of top-level messages.
type Catalog struct {
	Messages []Message `json:"messages"`
}

var (
	ErrTitleRequired  = errors.New("title is required")
	ErrAudioRequired  = errors.New("audioUrl is required for messages without sub-messages")
	ErrNestedMessages = errors.New("sub-messages cannot contain sub-messages")
)

// IsContainer reports whether m groups sub-messages.
func (m Message) IsContainer() bool {
	return len(m.SubMessages) > 0
}

// IsLeaf reports whether m is directly playable.
func (m Message) IsLeaf() bool {
	return !m.IsContainer() && m.AudioURL != ""
}

// Validate checks the container/leaf invariant for m and its children.
func (m Message) Validate() error {
	if strings.TrimSpace(m.Title) == "" {
		return ErrTitleRequired
	}
	if !m.IsContainer() {
		if m.AudioURL == "" {
			return ErrAudioRequired
		}
		return nil
	}
	for i, sub := range m.SubMessages {
		if sub.IsContainer() {
			return ErrNestedMessages
		}
		if err := sub.Validate(); err != nil {
			return fmt.Errorf("subMessages[%d]: %w", i, err)
		}
	}
	return nil
}

// Find returns the message with the given id, looking at top-level messages
// first and then inside containers.
func (c Catalog) Find(id string) (Message, bool) {
	for _, m := range c.Messages {
		if m.ID == id {
			return m, true
		}
	}
	for _, m := range c.Messages {
		for _, sub := range m.SubMessages {
			if sub.ID == id {
				return sub, true
			}
		}
	}
	return Message{}, false
}

// MessagePatch is a partial message. Nil fields are left untouched by Apply.
type MessagePatch struct {
	Title       *string    `json:"title,omitempty"`
	Subtitle    *string    `json:"subtitle,omitempty"`
	Date        *string    `json:"date,omitempty"`
	Duration    *string    `json:"duration,omitempty"`
	AudioURL    *string    `json:"audioUrl,omitempty"`
	Thumbnail   *string    `json:"thumbnail,omitempty"`
	SubMessages *[]Message `json:"subMessages,omitempty"`
}

// Apply merges p over m and returns the result. The id is never changed.
func (p MessagePatch) Apply(m Message) Message {
	if p.Title != nil {
		m.Title = *p.Title
	}
	if p.Subtitle != nil {
		m.Subtitle = *p.Subtitle
	}
	if p.Date != nil {
		m.Date = *p.Date
	}
	if p.Duration != nil {
		m.Duration = *p.Duration
	}
	if p.AudioURL != nil {
		m.AudioURL = *p.AudioURL
	}
	if p.Thumbnail != nil {
		m.Thumbnail = *p.Thumbnail
	}
	if p.SubMessages != nil {
		m.SubMessages = *p.SubMessages
	}
	return m
}

// PatchFrom builds a patch that sets every field of m.
func PatchFrom(m Message) MessagePatch {
	subs := m.SubMessages
	return MessagePatch{
		Title:       &m.Title,
		Subtitle:    &m.Subtitle,
		Date:        &m.Date,
		Duration:    &m.Duration,
		AudioURL:    &m.AudioURL,
		Thumbnail:   &m.Thumbnail,
		SubMessages: &subs,
	}
}
