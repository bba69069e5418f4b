package search

import (
	"strings"
	"unicode/utf8"

	"github.com/vaarthai/vithai/internal/models"
)

// MinQueryLength is the shortest query that filters the catalog.
const MinQueryLength = 2

// Candidate is the view of a message sent to the ranking provider.
type Candidate struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Subtitle string `json:"subtitle"`
}

// IsQuery reports whether q is long enough to filter on.
func IsQuery(q string) bool {
	return utf8.RuneCountInString(q) >= MinQueryLength
}

// FlattenAll lists every top-level message followed by its sub-messages, in
// catalog order.
func FlattenAll(messages []models.Message) []models.Message {
	all := make([]models.Message, 0, len(messages))
	for _, m := range messages {
		all = append(all, m)
		all = append(all, m.SubMessages...)
	}
	return all
}

// Candidates builds the provider input for messages.
func Candidates(messages []models.Message) []Candidate {
	all := FlattenAll(messages)
	out := make([]Candidate, len(all))
	for i, m := range all {
		out[i] = Candidate{ID: m.ID, Title: m.Title, Subtitle: m.Subtitle}
	}
	return out
}

// ByIDs maps ranked ids back to messages, keeping the given order and
// dropping ids that are not in the catalog or repeat an earlier id.
func ByIDs(ids []string, messages []models.Message) []models.Message {
	byID := make(map[string]models.Message)
	for _, m := range FlattenAll(messages) {
		if _, ok := byID[m.ID]; !ok {
			byID[m.ID] = m
		}
	}

	out := make([]models.Message, 0, len(ids))
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		m, ok := byID[id]
		if !ok || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, m)
	}
	return out
}

// Fallback is the local substring match. A top-level message matches on
// title, subtitle or date; a sub-message matches on title or date. Results
// keep encounter order and the first occurrence of each id.
func Fallback(query string, messages []models.Message) []models.Message {
	q := strings.ToLower(strings.TrimSpace(query))

	var results []models.Message
	seen := make(map[string]bool)
	add := func(m models.Message) {
		if seen[m.ID] {
			return
		}
		seen[m.ID] = true
		results = append(results, m)
	}

	for _, m := range messages {
		if contains(m.Title, q) || (m.Subtitle != "" && contains(m.Subtitle, q)) || contains(m.Date, q) {
			add(m)
		}
		for _, sub := range m.SubMessages {
			if contains(sub.Title, q) || contains(sub.Date, q) {
				add(sub)
			}
		}
	}
	return results
}

// FallbackIDs is the substring match over provider candidates. Candidates
// carry no date, so only title and subtitle are compared.
func FallbackIDs(query string, candidates []Candidate) []string {
	q := strings.ToLower(strings.TrimSpace(query))

	ids := []string{}
	seen := make(map[string]bool)
	for _, c := range candidates {
		if seen[c.ID] || !(contains(c.Title, q) || contains(c.Subtitle, q)) {
			continue
		}
		seen[c.ID] = true
		ids = append(ids, c.ID)
	}
	return ids
}

func contains(field, lowerQuery string) bool {
	return strings.Contains(strings.ToLower(field), lowerQuery)
}
