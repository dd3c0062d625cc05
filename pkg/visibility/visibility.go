// Package visibility derives cluster, node, and edge show/hide state from
// query results and the active filter chip.
//
// Propagation runs after every query, filter, or mode mutation and flows in
// one direction: cluster visibility derives from node visibility, and edge
// visibility derives from both endpoints. An edge is never independently
// visible: a visible edge always has two visible endpoints after every
// application, with no externally observable intermediate state.
package visibility

import (
	"github.com/pow3r-build/constellation/pkg/model"
	"github.com/pow3r-build/constellation/pkg/query"
)

// Apply recomputes all visibility flags on the model from the matched node
// set produced by the query engine.
//
// Rules:
//   - filter == repos: all nodes hidden; a cluster shows iff it contains at
//     least one matched node, or all clusters show when the query is empty
//     and no repo: prefix is active.
//   - filter == nodes or all (or a status filter): exactly the matched nodes
//     show; a cluster shows iff it owns at least one visible node.
//   - Edge visibility is the conjunction of its endpoints' visibility.
//
// A nil or empty model is a no-op.
func Apply(m *model.Model, q query.Query, matched []*model.Node) {
	if m.Empty() {
		return
	}

	matchedSet := make(map[string]bool, len(matched))
	for _, n := range matched {
		matchedSet[n.ID] = true
	}

	_, repoQuery := q.RepoTerm()

	if q.Filter == query.FilterRepos {
		// Repos view: node cards are hidden entirely; clusters represent
		// their projects.
		for _, n := range m.Nodes {
			n.Visible = false
		}
		showAll := q.Empty() && !repoQuery
		for _, c := range m.Clusters {
			c.Visible = showAll || clusterHasMatch(c, matchedSet)
		}
	} else {
		for _, n := range m.Nodes {
			n.Visible = matchedSet[n.ID]
		}
		for _, c := range m.Clusters {
			c.Visible = clusterHasMatch(c, matchedSet)
		}
	}

	RefreshEdges(m)
}

// RefreshEdges re-derives edge visibility from current node visibility.
// Call after any direct node visibility change (e.g. collapse arrival) to
// restore the endpoint invariant.
func RefreshEdges(m *model.Model) {
	if m.Empty() {
		return
	}
	for _, e := range m.Edges {
		from, okF := m.Node(e.From)
		to, okT := m.Node(e.To)
		e.Visible = okF && okT && from.Visible && to.Visible
	}
}

func clusterHasMatch(c *model.ProjectCluster, matched map[string]bool) bool {
	for _, id := range c.NodeIDs {
		if matched[id] {
			return true
		}
	}
	return false
}
