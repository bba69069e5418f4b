package store

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"

	"github.com/vaarthai/vithai/internal/metrics"
	"github.com/vaarthai/vithai/internal/models"
)

// Catalog is the message catalog on top of a Backend. Writes inside one
// process are serialized; across processes the backend's last write wins.
type Catalog struct {
	backend Backend
	logger  zerolog.Logger
	newID   func() string

	mu sync.Mutex
}

// NewCatalog wraps backend.
func NewCatalog(backend Backend, logger zerolog.Logger) *Catalog {
	return &Catalog{
		backend: backend,
		logger:  logger,
		newID:   func() string { return ulid.Make().String() },
	}
}

// Backend returns the underlying backend.
func (c *Catalog) Backend() Backend {
	return c.backend
}

// List returns every top-level message in display order.
func (c *Catalog) List(ctx context.Context) ([]models.Message, error) {
	doc, err := c.backend.Load(ctx)
	if err != nil {
		return nil, err
	}
	return doc.Messages, nil
}

// Get returns a top-level message or sub-message.
func (c *Catalog) Get(ctx context.Context, id string) (models.Message, error) {
	doc, err := c.backend.Load(ctx)
	if err != nil {
		return models.Message{}, err
	}
	m, ok := doc.Find(id)
	if !ok {
		return models.Message{}, ErrNotFound
	}
	return m, nil
}

// Create stores m at the front of the catalog under a new time-ordered id.
// Any id on m is ignored.
func (c *Catalog) Create(ctx context.Context, m models.Message) (models.Message, error) {
	m.ID = c.newID()
	assignSubIDs(&m)
	if err := m.Validate(); err != nil {
		return models.Message{}, fmt.Errorf("%w: %w", ErrInvalid, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	doc, err := c.backend.Load(ctx)
	if err != nil {
		return models.Message{}, err
	}
	doc.Messages = append([]models.Message{m}, doc.Messages...)
	if err := c.backend.Save(ctx, doc); err != nil {
		return models.Message{}, err
	}

	metrics.CatalogMutations.WithLabelValues("create").Inc()
	c.logger.Info().Str("id", m.ID).Str("title", m.Title).Msg("message created")
	return m, nil
}

// Update merges patch into the top-level message with the given id.
func (c *Catalog) Update(ctx context.Context, id string, patch models.MessagePatch) (models.Message, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	doc, err := c.backend.Load(ctx)
	if err != nil {
		return models.Message{}, err
	}

	idx := -1
	for i, m := range doc.Messages {
		if m.ID == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		return models.Message{}, ErrNotFound
	}

	merged := patch.Apply(doc.Messages[idx])
	assignSubIDs(&merged)
	if err := merged.Validate(); err != nil {
		return models.Message{}, fmt.Errorf("%w: %w", ErrInvalid, err)
	}

	doc.Messages[idx] = merged
	if err := c.backend.Save(ctx, doc); err != nil {
		return models.Message{}, err
	}

	metrics.CatalogMutations.WithLabelValues("update").Inc()
	c.logger.Info().Str("id", id).Msg("message updated")
	return merged, nil
}

// Delete removes the top-level message with the given id. Deleting an
// unknown id succeeds and leaves the catalog as it was.
func (c *Catalog) Delete(ctx context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	doc, err := c.backend.Load(ctx)
	if err != nil {
		return err
	}

	kept := make([]models.Message, 0, len(doc.Messages))
	for _, m := range doc.Messages {
		if m.ID != id {
			kept = append(kept, m)
		}
	}
	doc.Messages = kept
	if err := c.backend.Save(ctx, doc); err != nil {
		return err
	}

	metrics.CatalogMutations.WithLabelValues("delete").Inc()
	c.logger.Info().Str("id", id).Msg("message deleted")
	return nil
}

// Stats summarises the catalog.
type Stats struct {
	Messages   int    `json:"messages"`
	Containers int    `json:"containers"`
	Tracks     int    `json:"tracks"`
	LatestDate string `json:"latest_date,omitempty"`
}

// Stats counts top-level messages, containers and playable tracks.
func (c *Catalog) Stats(ctx context.Context) (Stats, error) {
	doc, err := c.backend.Load(ctx)
	if err != nil {
		return Stats{}, err
	}

	var st Stats
	st.Messages = len(doc.Messages)
	for _, m := range doc.Messages {
		if m.IsContainer() {
			st.Containers++
			for _, sub := range m.SubMessages {
				if sub.AudioURL != "" {
					st.Tracks++
				}
			}
		} else if m.AudioURL != "" {
			st.Tracks++
		}
		// ISO dates compare as strings
		if m.Date > st.LatestDate {
			st.LatestDate = m.Date
		}
	}
	return st, nil
}

// assignSubIDs gives sub-messages without an id one derived from the
// parent, as "<parent>-<n>".
func assignSubIDs(m *models.Message) {
	if len(m.SubMessages) == 0 {
		return
	}

	used := make(map[string]bool, len(m.SubMessages))
	for _, sub := range m.SubMessages {
		if sub.ID != "" {
			used[sub.ID] = true
		}
	}

	subs := make([]models.Message, len(m.SubMessages))
	n := 0
	for i, sub := range m.SubMessages {
		if strings.TrimSpace(sub.ID) == "" {
			for {
				n++
				candidate := fmt.Sprintf("%s-%d", m.ID, n)
				if !used[candidate] {
					sub.ID = candidate
					used[candidate] = true
					break
				}
			}
		}
		subs[i] = sub
	}
	m.SubMessages = subs
}
