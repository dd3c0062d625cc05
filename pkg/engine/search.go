package engine

import (
	"context"
	"strings"

	"github.com/pow3r-build/constellation/pkg/observability"
	"github.com/pow3r-build/constellation/pkg/persist"
	"github.com/pow3r-build/constellation/pkg/query"
)

// SetQuery updates the live query text and re-derives visibility. Hosts call
// this on every keystroke; it cannot fail and never touches history.
func (e *Engine) SetQuery(text string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.search.Query.Text = text
	e.applySearchLocked()
}

// SetFilter activates a filter chip and re-derives visibility. Unknown
// filter values are rejected and the previous filter stays active.
func (e *Engine) SetFilter(raw string) error {
	f, err := query.ParseFilter(raw)
	if err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.search.Query.Filter = f
	e.applySearchLocked()
	return nil
}

// CommitQuery records the current query text in the history, the signal
// that the user explicitly executed it rather than typed through it. The
// text is trimmed first; a whitespace-only query is not recorded. When a
// persistence collaborator is configured the updated history is saved
// through it; a store failure leaves the in-memory history intact.
func (e *Engine) CommitQuery(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	text := strings.TrimSpace(e.search.Query.Text)
	if text == "" {
		return nil
	}
	e.search.History.Push(text)
	e.logger.Debug("committed query", "query", text, "history", e.search.History.Len())

	if e.store == nil {
		return nil
	}
	return persist.SaveHistory(ctx, e.store, e.search.History.Entries())
}

// RestoreHistory loads the committed-query history from the persistence
// collaborator. A missing history is not an error; the engine simply starts
// with an empty one.
func (e *Engine) RestoreHistory(ctx context.Context) error {
	if e.store == nil {
		return nil
	}
	entries, err := persist.LoadHistory(ctx, e.store)
	if err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.search.History.Replace(entries)
	return nil
}

// Query returns the live query text.
func (e *Engine) Query() string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.search.Query.Text
}

// Filter returns the active filter chip.
func (e *Engine) Filter() query.Filter {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.search.Query.Filter
}

// History returns the committed-query history, most recent first.
func (e *Engine) History() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.search.History.Entries()
}

// Matches evaluates the live query and returns the matched node IDs in
// canonical order.
func (e *Engine) Matches() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()

	nodes := query.Match(e.m, e.search.Query)
	ids := make([]string, len(nodes))
	for i, n := range nodes {
		ids[i] = n.ID
	}
	return ids
}

// applySearchLocked re-derives visibility from the search state and emits
// the query hook. Callers must hold the write lock.
func (e *Engine) applySearchLocked() {
	if e.m.Empty() {
		return
	}
	matched := e.refreshLocked()
	observability.Engine().OnQuery(e.search.Query.Text, string(e.search.Query.Filter), matched)
}
