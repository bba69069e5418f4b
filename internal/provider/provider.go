// Package provider asks a generative text service for the daily verse and
// for search rankings, and knows the fixed answers to use when it fails.
package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/vaarthai/vithai/internal/metrics"
	"github.com/vaarthai/vithai/internal/models"
	"github.com/vaarthai/vithai/internal/search"
)

// ErrMalformed is returned when the service answers with something that is
// not the JSON shape asked for.
var ErrMalformed = errors.New("malformed provider response")

// Completer sends a single prompt and returns the raw text reply.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Provider produces verses and rankings from a Completer.
type Provider struct {
	completer Completer
	logger    zerolog.Logger
}

// New returns a Provider. A nil completer makes every call fail, so callers
// always take their fallback.
func New(completer Completer, logger zerolog.Logger) *Provider {
	return &Provider{completer: completer, logger: logger}
}

var errNotConfigured = errors.New("provider not configured")

// FallbackVerse is the fixed verse for lang.
func FallbackVerse(lang models.Language) models.DailyVerse {
	if lang == models.English {
		return models.DailyVerse{
			Verse:     "The Lord is my shepherd; I shall not want.",
			Reference: "Psalm 23:1",
		}
	}
	return models.DailyVerse{
		Verse:     "கர்த்தர் என் மேய்ப்பராயிருக்கிறார்; நான் தாழ்ச்சியடையேன்.",
		Reference: "சங்கீதம் 23:1",
	}
}

func languageName(lang models.Language) string {
	if lang == models.English {
		return "English"
	}
	return "Tamil"
}

// Verse asks for a verse in lang.
func (p *Provider) Verse(ctx context.Context, lang models.Language) (models.DailyVerse, error) {
	prompt := fmt.Sprintf("Generate a powerful Christian Bible verse in %s with its reference. "+
		"Format as JSON with 'verse' and 'reference' keys. Return ONLY the JSON.", languageName(lang))

	text, err := p.complete(ctx, "verse", prompt)
	if err != nil {
		return models.DailyVerse{}, err
	}

	var v models.DailyVerse
	if err := json.Unmarshal([]byte(stripFences(text)), &v); err != nil {
		return models.DailyVerse{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if strings.TrimSpace(v.Verse) == "" || strings.TrimSpace(v.Reference) == "" {
		return models.DailyVerse{}, fmt.Errorf("%w: empty verse or reference", ErrMalformed)
	}
	return v, nil
}

// VerseOrFallback returns Verse, or the fixed verse when the call fails.
func (p *Provider) VerseOrFallback(ctx context.Context, lang models.Language) (models.DailyVerse, bool) {
	v, err := p.Verse(ctx, lang)
	if err != nil {
		p.logger.Error().Err(err).Str("lang", string(lang)).Msg("verse provider failed, using fallback")
		return FallbackVerse(lang), false
	}
	return v, true
}

// Rank orders candidate ids by relevance to query. Queries too short to
// filter on return every candidate id unchanged. It satisfies search.Ranker.
func (p *Provider) Rank(ctx context.Context, query string, candidates []search.Candidate) ([]string, error) {
	if !search.IsQuery(query) {
		ids := make([]string, len(candidates))
		for i, c := range candidates {
			ids[i] = c.ID
		}
		return ids, nil
	}

	list, err := json.Marshal(candidates)
	if err != nil {
		return nil, err
	}
	prompt := fmt.Sprintf(`You are a search engine for a Christian church app.
User Query: %q
Available Messages: %s

The user might search in English, Tamil, or transliterated Tamil (e.g., "visuvasam" for "விசுவாசம்").
Identify which messages best match the user's intent.
Return a JSON array of message IDs, ordered by relevance.
Return ONLY the JSON array.`, query, list)

	text, err := p.complete(ctx, "search", prompt)
	if err != nil {
		return nil, err
	}
	return parseIDs(text)
}

func (p *Provider) complete(ctx context.Context, op, prompt string) (string, error) {
	if p.completer == nil {
		metrics.ProviderCalls.WithLabelValues(op, "error").Inc()
		return "", errNotConfigured
	}

	start := time.Now()
	text, err := p.completer.Complete(ctx, prompt)
	metrics.ProviderLatency.WithLabelValues(op).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.ProviderCalls.WithLabelValues(op, "error").Inc()
		return "", fmt.Errorf("%s: %w", op, err)
	}
	metrics.ProviderCalls.WithLabelValues(op, "ok").Inc()
	return text, nil
}

// parseIDs reads a JSON array of ids. Numeric ids are accepted and rendered
// as strings; any other element type is skipped.
func parseIDs(text string) ([]string, error) {
	var raw []interface{}
	if err := json.Unmarshal([]byte(stripFences(text)), &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	ids := make([]string, 0, len(raw))
	for _, v := range raw {
		switch id := v.(type) {
		case string:
			ids = append(ids, id)
		case float64:
			ids = append(ids, strconv.FormatFloat(id, 'f', -1, 64))
		}
	}
	return ids, nil
}

// stripFences removes a surrounding markdown code fence, which chat models
// add even when told not to.
func stripFences(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "```") {
		return text
	}
	if i := strings.IndexByte(text, '\n'); i >= 0 {
		text = text[i+1:]
	} else {
		text = strings.TrimPrefix(text, "```")
	}
	text = strings.TrimSuffix(strings.TrimSpace(text), "```")
	return strings.TrimSpace(text)
}
