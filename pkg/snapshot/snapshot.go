// Package snapshot captures and restores named workspace states: the
// canonical model together with the view state (mode, collapse flag, query,
// filter) that produced the current scene.
//
// Snapshots let a user bookmark a view of the graph (for example "broken
// nodes across all repos, collapsed, timeline") and return to it later, or
// share it in a hosted deployment. The Store interface has implementations
// for in-memory use and MongoDB.
package snapshot

import (
	"context"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/pow3r-build/constellation/pkg/errors"
	"github.com/pow3r-build/constellation/pkg/model"
)

// ViewState is the engine state captured alongside the model.
type ViewState struct {
	Mode      string `json:"mode" bson:"mode"`
	Collapsed bool   `json:"collapsed" bson:"collapsed"`
	Query     string `json:"query" bson:"query"`
	Filter    string `json:"filter" bson:"filter"`
}

// Snapshot is one saved workspace state.
type Snapshot struct {
	ID        string       `json:"id" bson:"_id"`
	Name      string       `json:"name" bson:"name"`
	CreatedAt time.Time    `json:"created_at" bson:"created_at"`
	View      ViewState    `json:"view" bson:"view"`
	Model     *model.Model `json:"model" bson:"model"`
}

// New creates a snapshot with a fresh ID and the current time.
func New(name string, view ViewState, m *model.Model) *Snapshot {
	return &Snapshot{
		ID:        uuid.NewString(),
		Name:      name,
		CreatedAt: time.Now().UTC(),
		View:      view,
		Model:     m,
	}
}

// Store is the interface for snapshot storage backends.
type Store interface {
	// Save persists a snapshot, overwriting any snapshot with the same ID.
	Save(ctx context.Context, s *Snapshot) error

	// Load retrieves a snapshot by ID.
	// Returns a SNAPSHOT_NOT_FOUND error when the ID is unknown.
	Load(ctx context.Context, id string) (*Snapshot, error)

	// List returns all snapshot metadata, newest first. The returned
	// snapshots carry no model payload.
	List(ctx context.Context) ([]*Snapshot, error)

	// Delete removes a snapshot. Deleting a missing snapshot is a no-op.
	Delete(ctx context.Context, id string) error

	// Close releases backend resources.
	Close(ctx context.Context) error
}

// notFound builds the canonical missing-snapshot error.
func notFound(id string) error {
	return apperrors.New(apperrors.ErrCodeSnapshotNotFound, "no snapshot %q", id)
}
