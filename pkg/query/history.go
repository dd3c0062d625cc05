package query

import "strings"

// DefaultHistorySize bounds the search history when the host injects no
// explicit limit.
const DefaultHistorySize = 10

// History is the bounded, de-duplicated, most-recent-first list of committed
// query strings. Only explicit executions (e.g. pressing Enter) are pushed;
// per-keystroke evaluation never touches history.
//
// History is not safe for concurrent use; the engine serializes access.
type History struct {
	entries []string
	max     int
}

// NewHistory creates a history bounded to max entries.
// Non-positive max falls back to DefaultHistorySize.
func NewHistory(max int) *History {
	if max <= 0 {
		max = DefaultHistorySize
	}
	return &History{max: max}
}

// Push records a committed query at the front. An already-present entry is
// moved to the front instead of duplicated; empty and whitespace-only
// queries are ignored. The oldest entry falls off when the bound is exceeded.
func (h *History) Push(q string) {
	if strings.TrimSpace(q) == "" {
		return
	}
	for i, existing := range h.entries {
		if existing == q {
			h.entries = append(h.entries[:i], h.entries[i+1:]...)
			break
		}
	}
	h.entries = append([]string{q}, h.entries...)
	if len(h.entries) > h.max {
		h.entries = h.entries[:h.max]
	}
}

// Entries returns a copy of the history, most recent first.
func (h *History) Entries() []string {
	out := make([]string, len(h.entries))
	copy(out, h.entries)
	return out
}

// Replace overwrites the history with entries restored from the persistence
// collaborator, preserving order and re-applying the bound.
func (h *History) Replace(entries []string) {
	h.entries = h.entries[:0]
	for i := len(entries) - 1; i >= 0; i-- {
		h.Push(entries[i])
	}
}

// Len returns the number of stored entries.
func (h *History) Len() int { return len(h.entries) }

// SearchState bundles the live query, the active filter chip, and the
// committed-query history.
type SearchState struct {
	Query   Query
	History *History
}

// NewSearchState creates a search state with an empty query, the all filter,
// and a history bounded to historySize entries.
func NewSearchState(historySize int) SearchState {
	return SearchState{
		Query:   Query{Filter: FilterAll},
		History: NewHistory(historySize),
	}
}
