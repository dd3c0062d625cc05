package export

import (
	"fmt"
	"strings"
	"testing"

	"github.com/pow3r-build/constellation/pkg/model"
)

func buildModel(t *testing.T) *model.Model {
	t.Helper()
	m := model.New()

	for _, c := range []*model.ProjectCluster{
		{ID: "alpha", Name: "Alpha", Visible: true},
		{ID: "beta", Name: "Beta", Visible: true},
	} {
		if err := m.AddCluster(c); err != nil {
			t.Fatalf("AddCluster(%s): %v", c.ID, err)
		}
	}

	for _, n := range []*model.Node{
		{ID: "alpha-ui", Name: "ui", Type: "ui", Status: model.StatusBuilt, Progress: 100, ProjectID: "alpha", Visible: true},
		{ID: "alpha-api", Name: "api", Type: "service", Status: model.StatusBuilding, Progress: 50, ProjectID: "alpha", Visible: true},
		{ID: "beta-cli", Name: "cli", Type: "tool", Status: model.StatusBroken, Progress: 75, ProjectID: "beta", Visible: true},
		{ID: "beta-secret", Name: "secret", Type: "tool", Status: model.StatusBuilt, Progress: 100, ProjectID: "beta", Visible: false},
	} {
		if err := m.AddNode(n); err != nil {
			t.Fatalf("AddNode(%s): %v", n.ID, err)
		}
	}

	for _, e := range []*model.Edge{
		{From: "alpha-api", To: "beta-cli", Type: model.EdgeDependsOn, Strength: 1, Visible: true},
		{From: "alpha-ui", To: "beta-secret", Type: model.EdgeUses, Strength: 1, Visible: false},
	} {
		if !m.AddEdge(e) {
			t.Fatalf("AddEdge(%s -> %s) dropped", e.From, e.To)
		}
	}
	return m
}

func TestToDOT(t *testing.T) {
	dot := ToDOT(buildModel(t), Options{})

	for _, want := range []string{
		"digraph G {",
		"rankdir=LR",
		`subgraph "cluster_alpha"`,
		`subgraph "cluster_beta"`,
		`label="Alpha"`,
		`"alpha-ui" [label="ui\nbuilt 100%", fillcolor="#4ade80"]`,
		`"alpha-api" [label="api\nbuilding 50%", fillcolor="#fb923c"]`,
		`"beta-cli" [label="cli\nbroken 75%", fillcolor="#f87171"]`,
		`"alpha-api" -> "beta-cli" [label="dependsOn"]`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT missing %q:\n%s", want, dot)
		}
	}

	// Hidden entities and their edges are skipped.
	if strings.Contains(dot, "beta-secret") {
		t.Errorf("DOT includes hidden node:\n%s", dot)
	}
}

func TestToDOTIncludeHidden(t *testing.T) {
	dot := ToDOT(buildModel(t), Options{IncludeHidden: true})
	if !strings.Contains(dot, `"beta-secret"`) {
		t.Errorf("IncludeHidden skipped hidden node:\n%s", dot)
	}
	if !strings.Contains(dot, `"alpha-ui" -> "beta-secret"`) {
		t.Errorf("IncludeHidden skipped hidden edge:\n%s", dot)
	}
}

func TestToDOTEmptyModel(t *testing.T) {
	dot := ToDOT(model.New(), Options{})
	if !strings.HasPrefix(dot, "digraph G {") || !strings.HasSuffix(dot, "}\n") {
		t.Errorf("empty DOT malformed:\n%s", dot)
	}
}

func TestToMermaid(t *testing.T) {
	out := ToMermaid(buildModel(t), Options{})

	if !strings.HasPrefix(out, "```mermaid\ngraph TB") || !strings.HasSuffix(out, "```") {
		t.Fatalf("Mermaid block malformed:\n%s", out)
	}
	for _, want := range []string{
		`alpha_ui["ui<br/>state: built<br/>progress: 100%"]`,
		`beta_cli["cli<br/>state: broken<br/>progress: 75%"]`,
		"alpha_api -->|dependsOn| beta_cli",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Mermaid missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "secret") {
		t.Errorf("Mermaid includes hidden node:\n%s", out)
	}
}

func TestMaxNodesCap(t *testing.T) {
	m := model.New()
	if err := m.AddCluster(&model.ProjectCluster{ID: "p", Name: "P", Visible: true}); err != nil {
		t.Fatalf("AddCluster: %v", err)
	}
	for i := 0; i < 10; i++ {
		n := &model.Node{
			ID:        fmt.Sprintf("p-n%d", i),
			Name:      fmt.Sprintf("n%d", i),
			Status:    model.StatusBuilt,
			ProjectID: "p",
			Visible:   true,
		}
		if err := m.AddNode(n); err != nil {
			t.Fatalf("AddNode: %v", err)
		}
	}

	dot := ToDOT(m, Options{MaxNodes: 3})
	got := strings.Count(dot, "fillcolor")
	if got != 3 {
		t.Errorf("capped DOT has %d nodes, want 3:\n%s", got, dot)
	}

	// The cap keeps canonical order: the first three nodes survive.
	if !strings.Contains(dot, `"p-n0"`) || strings.Contains(dot, `"p-n3"`) {
		t.Errorf("cap did not preserve canonical prefix:\n%s", dot)
	}
}

func TestMermaidID(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"alpha-ui", "alpha_ui"},
		{"a.b/c d", "a_b_c_d"},
		{"Already_OK9", "Already_OK9"},
	}
	for _, tt := range tests {
		if got := mermaidID(tt.in); got != tt.want {
			t.Errorf("mermaidID(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestHexColorFallback(t *testing.T) {
	if got := hexColor(model.Status("weird")); got != statusHex[model.StatusBacklogged] {
		t.Errorf("unknown status color = %q", got)
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="8pt" height="6pt" viewBox="0.00 0.00 216.00 188.00" xmlns="http://www.w3.org/2000/svg"><g/></svg>`)
	out := string(normalizeViewBox(in))

	if !strings.Contains(out, `viewBox="0 0 216.00 188.00"`) {
		t.Errorf("viewBox not normalized: %s", out)
	}
	if !strings.Contains(out, `width="216" height="188"`) {
		t.Errorf("pixel dimensions missing: %s", out)
	}

	// SVGs without a viewBox pass through untouched.
	plain := []byte(`<svg><g/></svg>`)
	if got := normalizeViewBox(plain); string(got) != string(plain) {
		t.Errorf("viewBox-less SVG rewritten: %s", got)
	}
}
