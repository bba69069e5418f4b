package store

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/vaarthai/vithai/internal/models"
)

func strPtr(s string) *string { return &s }

func newFileCatalog(t *testing.T) (*Catalog, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data.json")
	backend, err := NewFileBackend(context.Background(), path)
	require.NoError(t, err)

	c := NewCatalog(backend, zerolog.Nop())
	n := 0
	c.newID = func() string {
		n++
		return "id" + string(rune('0'+n))
	}
	return c, path
}

func topIDs(messages []models.Message) []string {
	out := make([]string, len(messages))
	for i, m := range messages {
		out[i] = m.ID
	}
	return out
}

func TestFileBackendSeedsDemoCatalog(t *testing.T) {
	c, path := newFileCatalog(t)

	messages, err := c.List(context.Background())
	require.NoError(t, err)
	require.Equal(t, []string{"1", "2", "3"}, topIDs(messages))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var doc map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &doc))
	require.Contains(t, doc, "messages")
}

func TestFileBackendKeepsExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"messages":[{"id":"x","title":"Only","audioUrl":"a"}]}`), 0644))

	backend, err := NewFileBackend(context.Background(), path)
	require.NoError(t, err)
	doc, err := backend.Load(context.Background())
	require.NoError(t, err)
	require.Equal(t, []string{"x"}, topIDs(doc.Messages))
}

func TestGetFindsSubMessages(t *testing.T) {
	c, _ := newFileCatalog(t)

	m, err := c.Get(context.Background(), "3-1")
	require.NoError(t, err)
	require.Equal(t, "2024-05-08", m.Date)

	_, err = c.Get(context.Background(), "nope")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestCreatePrependsWithNewID(t *testing.T) {
	c, _ := newFileCatalog(t)
	ctx := context.Background()

	created, err := c.Create(ctx, models.Message{ID: "client-chosen", Title: "New", AudioURL: "https://a/b.mp3"})
	require.NoError(t, err)
	require.Equal(t, "id1", created.ID)

	messages, err := c.List(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{"id1", "1", "2", "3"}, topIDs(messages))
}

func TestCreateAssignsSubMessageIDs(t *testing.T) {
	c, _ := newFileCatalog(t)

	created, err := c.Create(context.Background(), models.Message{
		Title: "Series",
		SubMessages: []models.Message{
			{Title: "A", AudioURL: "a"},
			{ID: "id1-1", Title: "B", AudioURL: "b"},
			{Title: "C", AudioURL: "c"},
		},
	})
	require.NoError(t, err)
	require.Equal(t, []string{"id1-2", "id1-1", "id1-3"}, topIDs(created.SubMessages))
}

func TestCreateRejectsInvalid(t *testing.T) {
	c, _ := newFileCatalog(t)

	_, err := c.Create(context.Background(), models.Message{Title: "No audio"})
	require.ErrorIs(t, err, ErrInvalid)
	require.ErrorIs(t, err, models.ErrAudioRequired)
}

func TestUpdateMerges(t *testing.T) {
	c, _ := newFileCatalog(t)
	ctx := context.Background()

	updated, err := c.Update(ctx, "2", models.MessagePatch{Subtitle: strPtr("Love")})
	require.NoError(t, err)
	require.Equal(t, "Love", updated.Subtitle)
	require.Equal(t, "38:15", updated.Duration)
	require.Equal(t, "2", updated.ID)

	got, err := c.Get(ctx, "2")
	require.NoError(t, err)
	require.Equal(t, updated, got)
}

func TestUpdateUnknownOrSubMessage(t *testing.T) {
	c, _ := newFileCatalog(t)

	_, err := c.Update(context.Background(), "missing", models.MessagePatch{Title: strPtr("x")})
	require.ErrorIs(t, err, ErrNotFound)

	_, err = c.Update(context.Background(), "1-1", models.MessagePatch{Title: strPtr("x")})
	require.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteIsIdempotent(t *testing.T) {
	c, _ := newFileCatalog(t)
	ctx := context.Background()

	require.NoError(t, c.Delete(ctx, "2"))
	require.NoError(t, c.Delete(ctx, "2"))
	require.NoError(t, c.Delete(ctx, "never-existed"))

	messages, err := c.List(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{"1", "3"}, topIDs(messages))
}

func TestDeleteEverythingLeavesEmptyList(t *testing.T) {
	c, path := newFileCatalog(t)
	ctx := context.Background()

	for _, id := range []string{"1", "2", "3"} {
		require.NoError(t, c.Delete(ctx, id))
	}
	messages, err := c.List(ctx)
	require.NoError(t, err)
	require.NotNil(t, messages)
	require.Empty(t, messages)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), `"messages": []`)
}

func TestStats(t *testing.T) {
	c, _ := newFileCatalog(t)

	st, err := c.Stats(context.Background())
	require.NoError(t, err)
	require.Equal(t, Stats{Messages: 3, Containers: 2, Tracks: 4, LatestDate: "2024-05-12"}, st)
}

func TestSQLiteStore(t *testing.T) {
	ctx := context.Background()
	s, err := NewSQLiteStore(ctx, filepath.Join(t.TempDir(), "db", "vithai.db"))
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.Ping(ctx))

	doc, err := s.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{"1", "2", "3"}, topIDs(doc.Messages))

	c := NewCatalog(s, zerolog.Nop())
	created, err := c.Create(ctx, models.Message{Title: "Hope", AudioURL: "a"})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)

	doc, err = s.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, created.ID, doc.Messages[0].ID)
	require.Len(t, doc.Messages, 4)
}

func TestPostgresStore(t *testing.T) {
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	ctx := context.Background()

	s, err := NewPostgresStore(ctx, url)
	require.NoError(t, err)
	defer s.Close()

	original, err := s.Load(ctx)
	require.NoError(t, err)
	defer s.Save(ctx, original)

	want := models.Catalog{Messages: []models.Message{{ID: "p", Title: "Pg", AudioURL: "a"}}}
	require.NoError(t, s.Save(ctx, want))
	got, err := s.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, want, got)
}

func storeSamples(t *testing.T, backend, op string) uint64 {
	t.Helper()
	families, err := prometheus.DefaultGatherer.Gather()
	require.NoError(t, err)

	for _, family := range families {
		if family.GetName() != "vithai_store_latency_seconds" {
			continue
		}
		for _, m := range family.GetMetric() {
			labels := map[string]string{}
			for _, l := range m.GetLabel() {
				labels[l.GetName()] = l.GetValue()
			}
			if labels["backend"] == backend && labels["op"] == op {
				return m.GetHistogram().GetSampleCount()
			}
		}
	}
	return 0
}

func TestFileBackendRecordsLatency(t *testing.T) {
	c, _ := newFileCatalog(t)
	ctx := context.Background()

	loads, saves := storeSamples(t, "file", "load"), storeSamples(t, "file", "save")

	_, err := c.List(ctx)
	require.NoError(t, err)
	require.NoError(t, c.Delete(ctx, "2"))

	require.Equal(t, loads+2, storeSamples(t, "file", "load"))
	require.Equal(t, saves+1, storeSamples(t, "file", "save"))
}
