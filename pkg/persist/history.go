package persist

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/pow3r-build/constellation/pkg/observability"
)

// HistoryKey is the store key under which the committed-query history lives.
const HistoryKey = "search-history"

// SaveHistory persists the committed-query history, most recent first.
func SaveHistory(ctx context.Context, store Store, entries []string) error {
	data, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("marshal history: %w", err)
	}
	if err := store.Set(ctx, HistoryKey, data); err != nil {
		return fmt.Errorf("save history: %w", err)
	}
	observability.Store().OnStoreSet(HistoryKey, len(data))
	return nil
}

// LoadHistory restores the committed-query history. A missing key yields an
// empty history, not an error.
func LoadHistory(ctx context.Context, store Store) ([]string, error) {
	data, found, err := store.Get(ctx, HistoryKey)
	observability.Store().OnStoreGet(HistoryKey, found)
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}
	if !found {
		return nil, nil
	}

	var entries []string
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parse history: %w", err)
	}
	return entries, nil
}
