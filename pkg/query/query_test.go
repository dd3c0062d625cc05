package query

import (
	"testing"

	apperrors "github.com/pow3r-build/constellation/pkg/errors"
	"github.com/pow3r-build/constellation/pkg/model"
)

func buildModel(t *testing.T) *model.Model {
	t.Helper()
	m := model.New()

	clusters := []*model.ProjectCluster{
		{ID: "frontend", Name: "Frontend Shell", Visible: true},
		{ID: "backend", Name: "Backend Services", Visible: true},
	}
	for _, c := range clusters {
		if err := m.AddCluster(c); err != nil {
			t.Fatalf("AddCluster(%s): %v", c.ID, err)
		}
	}

	nodes := []*model.Node{
		{ID: model.NodeID("frontend", "nav"), Name: "Navigation Bar", Type: "ui", Status: model.StatusBuilt, ProjectID: "frontend", Visible: true},
		{ID: model.NodeID("frontend", "auth"), Name: "Auth Widget", Type: "ui", Status: model.StatusBuilding, ProjectID: "frontend", Visible: true},
		{ID: model.NodeID("backend", "api"), Name: "REST API", Type: "service", Status: model.StatusBuilt, ProjectID: "backend", Visible: true},
		{ID: model.NodeID("backend", "auth"), Name: "Auth Service", Type: "service", Status: model.StatusBroken, ProjectID: "backend", Visible: true},
	}
	for _, n := range nodes {
		if err := m.AddNode(n); err != nil {
			t.Fatalf("AddNode(%s): %v", n.ID, err)
		}
	}
	return m
}

func ids(nodes []*model.Node) []string {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = n.ID
	}
	return out
}

func assertIDs(t *testing.T, got []*model.Node, want ...string) {
	t.Helper()
	gotIDs := ids(got)
	if len(gotIDs) != len(want) {
		t.Fatalf("matched %v, want %v", gotIDs, want)
	}
	for i := range want {
		if gotIDs[i] != want[i] {
			t.Fatalf("matched %v, want %v", gotIDs, want)
		}
	}
}

func TestParseFilter(t *testing.T) {
	tests := []struct {
		raw     string
		wantErr bool
	}{
		{"all", false},
		{"repos", false},
		{"nodes", false},
		{"built", false},
		{"building", false},
		{"broken", false},
		{"backlogged", false},
		{"blocked", false},
		{"burned", false},
		{"green", true},
		{"everything", true},
		{"", true},
	}
	for _, tt := range tests {
		_, err := ParseFilter(tt.raw)
		if tt.wantErr && !apperrors.Is(err, apperrors.ErrCodeInvalidFilter) {
			t.Errorf("ParseFilter(%q) = %v, want INVALID_FILTER", tt.raw, err)
		}
		if !tt.wantErr && err != nil {
			t.Errorf("ParseFilter(%q): %v", tt.raw, err)
		}
	}
}

func TestFilterIsStatus(t *testing.T) {
	for _, f := range []Filter{FilterAll, FilterRepos, FilterNodes} {
		if f.IsStatus() {
			t.Errorf("%s must not be a status predicate", f)
		}
	}
	if !Filter("broken").IsStatus() {
		t.Error("broken must be a status predicate")
	}
}

func TestMatchEmptyQuery(t *testing.T) {
	m := buildModel(t)
	got := Match(m, Query{Filter: FilterAll})
	assertIDs(t, got, "frontend-nav", "frontend-auth", "backend-api", "backend-auth")
}

func TestMatchTextContainment(t *testing.T) {
	m := buildModel(t)

	// Name containment, case-insensitive.
	got := Match(m, Query{Text: "AUTH", Filter: FilterAll})
	assertIDs(t, got, "frontend-auth", "backend-auth")

	// Type containment.
	got = Match(m, Query{Text: "service", Filter: FilterAll})
	assertIDs(t, got, "backend-api", "backend-auth")

	got = Match(m, Query{Text: "nomatch", Filter: FilterAll})
	assertIDs(t, got)
}

func TestMatchStatusFilterANDed(t *testing.T) {
	m := buildModel(t)

	got := Match(m, Query{Text: "auth", Filter: Filter("broken")})
	assertIDs(t, got, "backend-auth")

	// Status filter alone, no text.
	got = Match(m, Query{Filter: Filter("built")})
	assertIDs(t, got, "frontend-nav", "backend-api")
}

func TestMatchRepoPrefix(t *testing.T) {
	m := buildModel(t)

	got := Match(m, Query{Text: "repo:backend", Filter: FilterAll})
	assertIDs(t, got, "backend-api", "backend-auth")

	// repo: takes precedence over an active status filter.
	got = Match(m, Query{Text: "repo:backend", Filter: Filter("built")})
	assertIDs(t, got, "backend-api", "backend-auth")

	// Bare prefix matches every project.
	got = Match(m, Query{Text: "repo:", Filter: FilterAll})
	assertIDs(t, got, "frontend-nav", "frontend-auth", "backend-api", "backend-auth")

	got = Match(m, Query{Text: "REPO:Frontend", Filter: FilterAll})
	assertIDs(t, got, "frontend-nav", "frontend-auth")
}

func TestMatchNilModel(t *testing.T) {
	if got := Match(nil, Query{Text: "x"}); got != nil {
		t.Errorf("Match on nil model = %v, want nil", got)
	}
	if got := Match(model.New(), Query{Text: "x"}); got != nil {
		t.Errorf("Match on empty model = %v, want nil", got)
	}
}

func TestHistoryPush(t *testing.T) {
	h := NewHistory(3)
	h.Push("a")
	h.Push("b")
	h.Push("c")

	want := []string{"c", "b", "a"}
	got := h.Entries()
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Entries = %v, want %v", got, want)
		}
	}

	// Re-pushing moves to the front without duplicating.
	h.Push("a")
	got = h.Entries()
	if got[0] != "a" || h.Len() != 3 {
		t.Errorf("after re-push: %v", got)
	}

	// Exceeding the bound drops the oldest.
	h.Push("d")
	got = h.Entries()
	if h.Len() != 3 || got[0] != "d" || got[2] != "c" {
		t.Errorf("after overflow: %v", got)
	}

	// Empty and whitespace-only pushes are ignored.
	for _, q := range []string{"", "  ", "\t"} {
		h.Push(q)
		if h.Len() != 3 {
			t.Errorf("push of %q changed history to %v", q, h.Entries())
		}
	}
}

func TestHistoryReplace(t *testing.T) {
	h := NewHistory(10)
	h.Push("stale")
	h.Replace([]string{"newest", "middle", "oldest"})

	got := h.Entries()
	want := []string{"newest", "middle", "oldest"}
	if len(got) != len(want) {
		t.Fatalf("Entries = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Entries = %v, want %v", got, want)
		}
	}
}

func TestHistoryDefaultBound(t *testing.T) {
	h := NewHistory(0)
	for i := 0; i < 15; i++ {
		h.Push(string(rune('a' + i)))
	}
	if h.Len() != DefaultHistorySize {
		t.Errorf("Len = %d, want %d", h.Len(), DefaultHistorySize)
	}
}

func TestEntriesIsACopy(t *testing.T) {
	h := NewHistory(5)
	h.Push("a")
	got := h.Entries()
	got[0] = "mutated"
	if h.Entries()[0] != "a" {
		t.Error("Entries exposed internal storage")
	}
}
