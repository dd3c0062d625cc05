package snapshot

import (
	"context"
	"testing"
	"time"

	apperrors "github.com/pow3r-build/constellation/pkg/errors"
	"github.com/pow3r-build/constellation/pkg/model"
)

func smallModel(t *testing.T) *model.Model {
	t.Helper()
	m := model.New()
	if err := m.AddCluster(&model.ProjectCluster{ID: "alpha", Name: "Alpha", Visible: true}); err != nil {
		t.Fatalf("AddCluster: %v", err)
	}
	if err := m.AddNode(&model.Node{ID: "alpha-ui", Name: "ui", ProjectID: "alpha", Visible: true}); err != nil {
		t.Fatalf("AddNode: %v", err)
	}
	return m
}

func TestNewSnapshot(t *testing.T) {
	view := ViewState{Mode: "timeline", Collapsed: true, Query: "auth", Filter: "broken"}
	snap := New("broken stuff", view, smallModel(t))

	if snap.ID == "" {
		t.Error("snapshot has no ID")
	}
	if snap.Name != "broken stuff" || snap.View != view {
		t.Errorf("snapshot = %+v", snap)
	}
	if snap.CreatedAt.IsZero() {
		t.Error("CreatedAt not stamped")
	}
	if other := New("x", view, nil); other.ID == snap.ID {
		t.Error("snapshot IDs collide")
	}
}

func TestMemoryStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	snap := New("main view", ViewState{Mode: "free3d", Filter: "all"}, smallModel(t))
	if err := s.Save(ctx, snap); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := s.Load(ctx, snap.ID)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.Name != "main view" || got.Model == nil || got.Model.NodeCount() != 1 {
		t.Errorf("Load = %+v", got)
	}

	// Overwriting by ID replaces the snapshot.
	snap.Name = "renamed"
	if err := s.Save(ctx, snap); err != nil {
		t.Fatalf("Save(overwrite): %v", err)
	}
	got, _ = s.Load(ctx, snap.ID)
	if got.Name != "renamed" {
		t.Errorf("after overwrite Name = %q", got.Name)
	}
}

func TestMemoryStoreLoadUnknown(t *testing.T) {
	s := NewMemoryStore()
	_, err := s.Load(context.Background(), "ghost")
	if !apperrors.Is(err, apperrors.ErrCodeSnapshotNotFound) {
		t.Errorf("Load(ghost) = %v, want SNAPSHOT_NOT_FOUND", err)
	}
}

func TestMemoryStoreList(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	old := New("old", ViewState{}, smallModel(t))
	old.CreatedAt = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	mid := New("mid", ViewState{}, smallModel(t))
	mid.CreatedAt = time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	recent := New("recent", ViewState{}, smallModel(t))
	recent.CreatedAt = time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

	for _, snap := range []*Snapshot{mid, old, recent} {
		if err := s.Save(ctx, snap); err != nil {
			t.Fatalf("Save(%s): %v", snap.Name, err)
		}
	}

	got, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("List returned %d snapshots", len(got))
	}
	wantOrder := []string{"recent", "mid", "old"}
	for i, name := range wantOrder {
		if got[i].Name != name {
			t.Errorf("List[%d] = %s, want %s", i, got[i].Name, name)
		}
		if got[i].Model != nil {
			t.Errorf("List[%d] carries a model payload", i)
		}
	}

	// List returns metadata copies; the stored snapshot keeps its model.
	loaded, _ := s.Load(ctx, recent.ID)
	if loaded.Model == nil {
		t.Error("List stripped the stored snapshot's model")
	}
}

func TestMemoryStoreDelete(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	snap := New("doomed", ViewState{}, nil)
	if err := s.Save(ctx, snap); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := s.Delete(ctx, snap.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := s.Load(ctx, snap.ID); !apperrors.Is(err, apperrors.ErrCodeSnapshotNotFound) {
		t.Errorf("Load after delete = %v, want SNAPSHOT_NOT_FOUND", err)
	}

	// Deleting again is a no-op.
	if err := s.Delete(ctx, snap.ID); err != nil {
		t.Errorf("Delete(missing): %v", err)
	}
}
