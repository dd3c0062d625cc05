package visibility

import (
	"testing"

	"github.com/pow3r-build/constellation/pkg/model"
	"github.com/pow3r-build/constellation/pkg/query"
)

// buildModel assembles two projects with five nodes and one cross-project
// edge from alpha-api to beta-cli.
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
		{ID: "alpha-ui", Name: "ui", Type: "ui", Status: model.StatusBuilt, ProjectID: "alpha", Visible: true},
		{ID: "alpha-api", Name: "api", Type: "service", Status: model.StatusBuilding, ProjectID: "alpha", Visible: true},
		{ID: "alpha-db", Name: "db", Type: "service", Status: model.StatusBroken, ProjectID: "alpha", Visible: true},
		{ID: "beta-docs", Name: "docs", Type: "doc", Status: model.StatusBacklogged, ProjectID: "beta", Visible: true},
		{ID: "beta-cli", Name: "cli", Type: "tool", Status: model.StatusBuilt, ProjectID: "beta", Visible: true},
	} {
		if err := m.AddNode(n); err != nil {
			t.Fatalf("AddNode(%s): %v", n.ID, err)
		}
	}

	if !m.AddEdge(&model.Edge{From: "alpha-api", To: "beta-cli", Type: model.EdgeDependsOn, Strength: 1, Visible: true}) {
		t.Fatal("AddEdge dropped a valid edge")
	}
	return m
}

func applyQuery(t *testing.T, m *model.Model, q query.Query) {
	t.Helper()
	Apply(m, q, query.Match(m, q))
	if err := m.Validate(); err != nil {
		t.Fatalf("visibility invariant broken: %v", err)
	}
}

func visibleNodes(m *model.Model) map[string]bool {
	out := make(map[string]bool)
	for _, n := range m.Nodes {
		if n.Visible {
			out[n.ID] = true
		}
	}
	return out
}

func TestApplyAllFilterEmptyQuery(t *testing.T) {
	m := buildModel(t)
	applyQuery(t, m, query.Query{Filter: query.FilterAll})

	if got := len(visibleNodes(m)); got != 5 {
		t.Errorf("%d nodes visible, want 5", got)
	}
	for _, c := range m.Clusters {
		if !c.Visible {
			t.Errorf("cluster %s hidden", c.ID)
		}
	}
	if !m.Edges[0].Visible {
		t.Error("edge hidden with both endpoints visible")
	}
}

func TestApplyReposFilterHidesNodes(t *testing.T) {
	m := buildModel(t)
	applyQuery(t, m, query.Query{Filter: query.FilterRepos})

	if got := len(visibleNodes(m)); got != 0 {
		t.Errorf("%d nodes visible in repos view, want 0", got)
	}
	for _, c := range m.Clusters {
		if !c.Visible {
			t.Errorf("cluster %s hidden on empty query", c.ID)
		}
	}
	if m.Edges[0].Visible {
		t.Error("edge visible while its endpoints are hidden")
	}
}

func TestApplyReposFilterWithQuery(t *testing.T) {
	m := buildModel(t)
	applyQuery(t, m, query.Query{Text: "cli", Filter: query.FilterRepos})

	alpha, _ := m.Cluster("alpha")
	beta, _ := m.Cluster("beta")
	if alpha.Visible {
		t.Error("alpha visible with no matched nodes")
	}
	if !beta.Visible {
		t.Error("beta hidden despite matched node")
	}
}

func TestApplyTextQueryPropagatesToClusters(t *testing.T) {
	m := buildModel(t)
	applyQuery(t, m, query.Query{Text: "docs", Filter: query.FilterAll})

	vis := visibleNodes(m)
	if len(vis) != 1 || !vis["beta-docs"] {
		t.Errorf("visible nodes = %v, want only beta-docs", vis)
	}
	alpha, _ := m.Cluster("alpha")
	beta, _ := m.Cluster("beta")
	if alpha.Visible {
		t.Error("alpha visible with all its nodes hidden")
	}
	if !beta.Visible {
		t.Error("beta hidden with a visible node")
	}
}

func TestEdgeVisibilityIsEndpointConjunction(t *testing.T) {
	m := buildModel(t)

	// Only one endpoint matched: the edge must hide.
	applyQuery(t, m, query.Query{Text: "api", Filter: query.FilterAll})
	if m.Edges[0].Visible {
		t.Error("edge visible with hidden endpoint beta-cli")
	}

	// Both endpoints matched: the edge shows again.
	applyQuery(t, m, query.Query{Filter: query.FilterAll})
	if !m.Edges[0].Visible {
		t.Error("edge hidden with both endpoints visible")
	}
}

func TestApplyStatusFilter(t *testing.T) {
	m := buildModel(t)
	applyQuery(t, m, query.Query{Filter: query.Filter("built")})

	vis := visibleNodes(m)
	if len(vis) != 2 || !vis["alpha-ui"] || !vis["beta-cli"] {
		t.Errorf("visible nodes = %v, want alpha-ui and beta-cli", vis)
	}
}

func TestRefreshEdges(t *testing.T) {
	m := buildModel(t)
	applyQuery(t, m, query.Query{Filter: query.FilterAll})

	// Direct node hide (collapse arrival) leaves a stale visible edge until
	// the refresh re-derives it.
	n, _ := m.Node("beta-cli")
	n.Visible = false
	RefreshEdges(m)
	if m.Edges[0].Visible {
		t.Error("edge still visible after endpoint hidden")
	}
	if err := m.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestApplyEmptyModelNoOp(t *testing.T) {
	Apply(nil, query.Query{}, nil)
	Apply(model.New(), query.Query{}, nil)
	RefreshEdges(nil)
}
