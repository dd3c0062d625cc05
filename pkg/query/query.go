// Package query parses search text and filter chips into node predicates
// and evaluates them over the canonical model.
//
// The grammar is deliberately small:
//
//   - "repo:<substr>" matches projects whose name contains the term
//     (case-insensitive). The repo: prefix takes precedence: any active
//     status filter is ignored while it is present.
//   - Any other text substring-matches node name or type (case-insensitive
//     containment, no fuzzy scoring).
//   - The all/repos/nodes filter chips are view-mode toggles consumed by the
//     visibility propagator, not attribute predicates. Any other filter
//     value is a status equality check ANDed with the text predicate.
//
// Results are ordered subsets of the model's node list, so repeated
// evaluation over the same model yields identical ordering.
package query

import (
	"strings"

	apperrors "github.com/pow3r-build/constellation/pkg/errors"
	"github.com/pow3r-build/constellation/pkg/model"
)

// Filter is an active filter chip value.
type Filter string

// View-mode filter values. Everything else must be a canonical status.
const (
	FilterAll   Filter = "all"
	FilterRepos Filter = "repos"
	FilterNodes Filter = "nodes"
)

// RepoPrefix introduces a project-name query.
const RepoPrefix = "repo:"

// ParseFilter validates a raw filter chip identifier.
// Valid values are the view-mode toggles (all, repos, nodes) and the
// canonical status names. Unknown identifiers are rejected with an
// INVALID_FILTER error instead of silently defaulting.
func ParseFilter(raw string) (Filter, error) {
	f := Filter(raw)
	switch f {
	case FilterAll, FilterRepos, FilterNodes:
		return f, nil
	}
	if model.Status(raw).IsValid() {
		return f, nil
	}
	return "", apperrors.New(apperrors.ErrCodeInvalidFilter,
		"unknown filter: %q (must be all, repos, nodes, or a status name)", raw)
}

// IsStatus reports whether the filter is a status predicate rather than a
// view-mode toggle.
func (f Filter) IsStatus() bool {
	switch f {
	case FilterAll, FilterRepos, FilterNodes:
		return false
	}
	return model.Status(f).IsValid()
}

// Query is one parsed search request: free text plus the active filter chip.
type Query struct {
	Text   string
	Filter Filter
}

// RepoTerm returns the project-name term and true when the query uses the
// repo: prefix. The term may be empty ("repo:" alone), which matches all
// projects.
func (q Query) RepoTerm() (string, bool) {
	if !strings.HasPrefix(strings.ToLower(q.Text), RepoPrefix) {
		return "", false
	}
	return strings.TrimSpace(q.Text[len(RepoPrefix):]), true
}

// Empty reports whether the query has no text.
func (q Query) Empty() bool {
	return strings.TrimSpace(q.Text) == ""
}

// Match evaluates the query over the model and returns the matched nodes in
// canonical order. An empty query matches all nodes (subject to a status
// filter). A nil or empty model yields no matches, never an error; queries
// must be safe while a data load is in flight.
func Match(m *model.Model, q Query) []*model.Node {
	if m.Empty() {
		return nil
	}

	if term, ok := q.RepoTerm(); ok {
		return matchByProject(m, term)
	}

	text := strings.ToLower(strings.TrimSpace(q.Text))
	statusFilter := q.Filter.IsStatus()

	var matched []*model.Node
	for _, n := range m.Nodes {
		if text != "" && !containsFold(n.Name, text) && !containsFold(n.Type, text) {
			continue
		}
		if statusFilter && n.Status != model.Status(q.Filter) {
			continue
		}
		matched = append(matched, n)
	}
	return matched
}

// matchByProject returns all nodes of projects whose name contains term.
// Any concurrently active status filter is ignored: the repo: prefix has
// explicit precedence.
func matchByProject(m *model.Model, term string) []*model.Node {
	var matched []*model.Node
	for _, c := range m.Clusters {
		if term != "" && !containsFold(c.Name, term) {
			continue
		}
		matched = append(matched, m.ClusterNodes(c.ID)...)
	}
	return matched
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}
