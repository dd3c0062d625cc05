package ingest

import (
	"strings"
	"testing"

	apperrors "github.com/pow3r-build/constellation/pkg/errors"
	"github.com/pow3r-build/constellation/pkg/model"
)

const v1Feed = `{
  "projects": [
    {
      "projectName": "Alpha",
      "nodes": [
        {"id": "ui", "name": "UI", "type": "ui", "status": "green"},
        {"id": "api", "name": "API", "type": "service", "status": "orange"},
        {"id": "db", "name": "DB", "type": "service", "status": "red"}
      ],
      "edges": [
        {"from": "ui", "to": "api", "type": "dependsOn"},
        {"from": "api", "to": "ghost", "type": "uses"}
      ]
    },
    {
      "projectName": "Beta",
      "nodes": [
        {"id": "docs", "name": "Docs", "type": "doc", "status": "gray"}
      ]
    }
  ]
}`

func TestReadJSONV1(t *testing.T) {
	m, diag, err := ReadJSON(strings.NewReader(v1Feed), nil)
	if err != nil {
		t.Fatalf("ReadJSON: %v", err)
	}

	if m.ClusterCount() != 2 || m.NodeCount() != 4 {
		t.Fatalf("got %d clusters / %d nodes, want 2/4", m.ClusterCount(), m.NodeCount())
	}

	// Node IDs are globally qualified with the project slug.
	n, ok := m.Node("alpha-ui")
	if !ok {
		t.Fatal("node alpha-ui not found")
	}
	if n.Status != model.StatusBuilt {
		t.Errorf("legacy green = %s, want built", n.Status)
	}
	if n.Progress != 100 {
		t.Errorf("progress = %d, want 100 (default for built)", n.Progress)
	}
	if n.Quality != DefaultQuality {
		t.Errorf("quality = %v, want %v", n.Quality, DefaultQuality)
	}

	// One edge resolved, one dropped (unknown endpoint).
	if m.EdgeCount() != 1 {
		t.Errorf("edges = %d, want 1", m.EdgeCount())
	}
	if diag.DroppedEdges != 1 {
		t.Errorf("dropped edges = %d, want 1", diag.DroppedEdges)
	}
}

func TestReadJSONBareArray(t *testing.T) {
	feed := `[{"projectName": "Solo", "nodes": [{"id": "a", "status": "green"}]}]`
	m, _, err := ReadJSON(strings.NewReader(feed), nil)
	if err != nil {
		t.Fatalf("ReadJSON: %v", err)
	}
	if m.ClusterCount() != 1 || m.NodeCount() != 1 {
		t.Errorf("got %d clusters / %d nodes, want 1/1", m.ClusterCount(), m.NodeCount())
	}
}

func TestReadJSONV2PhaseCompleteness(t *testing.T) {
	feed := `[{
      "name": "Gamma",
      "assets": [
        {"id": "web", "type": "component.ui.react",
         "status": {"phase": "orange", "completeness": 0.6}}
      ]
    }]`
	m, _, err := ReadJSON(strings.NewReader(feed), nil)
	if err != nil {
		t.Fatalf("ReadJSON: %v", err)
	}

	n, ok := m.Node("gamma-web")
	if !ok {
		t.Fatal("node gamma-web not found")
	}
	if n.Status != model.StatusBuilding {
		t.Errorf("status = %s, want building", n.Status)
	}
	if n.Progress != 60 {
		t.Errorf("progress = %d, want 60 (completeness 0.6)", n.Progress)
	}
	if n.Type != "ui" {
		t.Errorf("type = %s, want ui (mapped from component.ui.react)", n.Type)
	}
}

func TestReadJSONV3StateProgress(t *testing.T) {
	feed := `[{
      "name": "Delta",
      "assets": [
        {"id": "agent", "type": "agent.abacus",
         "status": {"state": "blocked", "progress": 30, "qualityScore": 0.9}},
        {"id": "weird", "type": "entirely.new.kind",
         "status": {"state": "built"}}
      ]
    }]`
	m, diag, err := ReadJSON(strings.NewReader(feed), nil)
	if err != nil {
		t.Fatalf("ReadJSON: %v", err)
	}

	agent, _ := m.Node("delta-agent")
	if agent.Status != model.StatusBlocked || agent.Progress != 30 {
		t.Errorf("agent = %s/%d, want blocked/30", agent.Status, agent.Progress)
	}
	if agent.Quality != 0.9 {
		t.Errorf("quality = %v, want 0.9", agent.Quality)
	}
	if agent.Type != "ai" {
		t.Errorf("type = %s, want ai", agent.Type)
	}

	// Unknown dotted type maps to the generic file type.
	weird, _ := m.Node("delta-weird")
	if weird.Type != "file" {
		t.Errorf("unknown dotted type = %s, want file", weird.Type)
	}
	// Progress falls back to the status default when absent.
	if weird.Progress != 100 {
		t.Errorf("progress = %d, want 100", weird.Progress)
	}

	if diag.DefaultedStatuses != 0 {
		t.Errorf("defaulted statuses = %d, want 0", diag.DefaultedStatuses)
	}
}

func TestReadJSONDefaultsUnknownStatus(t *testing.T) {
	feed := `[{"name": "Eps", "nodes": [{"id": "x"}, {"id": "y", "status": "plaid"}]}]`
	m, diag, err := ReadJSON(strings.NewReader(feed), nil)
	if err != nil {
		t.Fatalf("ReadJSON: %v", err)
	}

	for _, id := range []string{"eps-x", "eps-y"} {
		n, _ := m.Node(id)
		if n.Status != model.StatusBacklogged {
			t.Errorf("%s status = %s, want backlogged", id, n.Status)
		}
	}
	if diag.DefaultedStatuses != 2 {
		t.Errorf("defaulted statuses = %d, want 2", diag.DefaultedStatuses)
	}
}

func TestReadJSONNoData(t *testing.T) {
	tests := []struct {
		name string
		feed string
	}{
		{"EmptyInput", ""},
		{"Null", "null"},
		{"EmptyArray", "[]"},
		{"EmptyDocument", `{"success": true, "projects": []}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := ReadJSON(strings.NewReader(tt.feed), nil)
			if !apperrors.Is(err, apperrors.ErrCodeNoData) {
				t.Errorf("err = %v, want NO_DATA", err)
			}
		})
	}
}

func TestReadJSONMalformed(t *testing.T) {
	_, _, err := ReadJSON(strings.NewReader("{not json"), nil)
	if !apperrors.Is(err, apperrors.ErrCodeInvalidInput) {
		t.Errorf("err = %v, want INVALID_INPUT", err)
	}
}

func TestEmptyProjectKeptAsCluster(t *testing.T) {
	feed := `[{"name": "Hollow"}, {"name": "Full", "nodes": [{"id": "n"}]}]`
	m, diag, err := ReadJSON(strings.NewReader(feed), nil)
	if err != nil {
		t.Fatalf("ReadJSON: %v", err)
	}
	if m.ClusterCount() != 2 {
		t.Errorf("clusters = %d, want 2 (empty project retained)", m.ClusterCount())
	}
	if diag.EmptyProjects != 1 {
		t.Errorf("empty projects = %d, want 1", diag.EmptyProjects)
	}
}

func TestCrossProjectEdgeWithQualifiedIDs(t *testing.T) {
	feed := `[
      {"name": "Alpha", "nodes": [{"id": "api"}]},
      {"name": "Beta", "nodes": [{"id": "cli"}],
       "edges": [{"source": "beta-cli", "target": "alpha-api", "type": "uses"}]}
    ]`
	m, diag, err := ReadJSON(strings.NewReader(feed), nil)
	if err != nil {
		t.Fatalf("ReadJSON: %v", err)
	}
	if m.EdgeCount() != 1 {
		t.Fatalf("edges = %d, want 1 (qualified cross-project edge)", m.EdgeCount())
	}
	if diag.DroppedEdges != 0 {
		t.Errorf("dropped = %d, want 0", diag.DroppedEdges)
	}
	e := m.Edges[0]
	if e.From != "beta-cli" || e.To != "alpha-api" {
		t.Errorf("edge = %s -> %s", e.From, e.To)
	}
	if e.Strength != model.DefaultEdgeStrength {
		t.Errorf("strength = %v, want default", e.Strength)
	}
}

func TestSlug(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Alpha", "alpha"},
		{"My Cool Project!", "my-cool-project"},
		{"a--b", "a-b"},
		{"  spaced  ", "spaced"},
	}
	for _, tt := range tests {
		if got := Slug(tt.in); got != tt.want {
			t.Errorf("Slug(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
