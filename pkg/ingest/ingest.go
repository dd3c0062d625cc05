// Package ingest converts heterogeneous project status documents into the
// canonical model consumed by the layout, query, and transform engines.
//
// Three historical schema generations are accepted:
//   - v1: projects carry a "nodes" array; statuses are legacy color strings
//     ("green", "orange", "red", "gray")
//   - v2: projects carry an "assets" array; statuses are objects with a
//     legacy "phase" and fractional "completeness"
//   - v3: assets carry structured statuses with "state" and "progress"
//
// Malformed records are tolerated via normalization defaults rather than
// rejected: an unknown status becomes backlogged, a missing quality score
// becomes 0.5, and a project that yields zero parsable nodes is retained as
// an empty cluster (logged as a diagnostic, not treated as a failure).
// Edges whose endpoints do not resolve are dropped silently and counted.
//
// Missing or empty top-level input yields ErrNoData, which is an explicit
// signal rather than a failure; callers use it to render an empty state.
package ingest

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"

	apperrors "github.com/pow3r-build/constellation/pkg/errors"
	"github.com/pow3r-build/constellation/pkg/model"
	"github.com/pow3r-build/constellation/pkg/observability"
)

// ErrNoData is returned when the input contains no project descriptors.
// Check with errors.Is or apperrors.Is(err, apperrors.ErrCodeNoData).
var ErrNoData = apperrors.New(apperrors.ErrCodeNoData, "no project data")

// Project is one raw project descriptor as found in aggregated status feeds.
// Either Nodes (v1) or Assets (v2/v3) is populated; both may be empty.
type Project struct {
	ProjectName string          `json:"projectName"`
	Name        string          `json:"name"`
	Status      json.RawMessage `json:"status"`
	Nodes       []Record        `json:"nodes"`
	Assets      []Record        `json:"assets"`
	Edges       []EdgeRecord    `json:"edges"`
	Stats       map[string]any  `json:"stats"`
}

// DisplayName returns the project name, preferring the v1 "projectName"
// field over the aggregated "name" field.
func (p Project) DisplayName() string {
	if p.ProjectName != "" {
		return p.ProjectName
	}
	return p.Name
}

// Record is one raw node or asset descriptor.
type Record struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Type     string          `json:"type"`
	Status   json.RawMessage `json:"status"`
	Metadata map[string]any  `json:"metadata"`
}

// EdgeRecord is one raw edge descriptor. Endpoints appear either as
// from/to (status files) or source/target (aggregated feeds).
type EdgeRecord struct {
	From     string   `json:"from"`
	To       string   `json:"to"`
	Source   string   `json:"source"`
	Target   string   `json:"target"`
	Type     string   `json:"type"`
	Strength *float64 `json:"strength"`
}

// endpoints returns the resolved from/to pair of the edge record.
func (e EdgeRecord) endpoints() (string, string) {
	from, to := e.From, e.To
	if from == "" {
		from = e.Source
	}
	if to == "" {
		to = e.Target
	}
	return from, to
}

// document is the optional wrapper emitted by the aggregator:
// {"success": true, "projects": [...]}.
type document struct {
	Projects []Project `json:"projects"`
}

// Diagnostics counts ingestion events that are tolerated rather than fatal.
type Diagnostics struct {
	// EmptyProjects is the number of projects that yielded zero nodes and
	// were kept as empty clusters.
	EmptyProjects int

	// DroppedEdges is the number of edges discarded because an endpoint did
	// not resolve to an ingested node.
	DroppedEdges int

	// DefaultedStatuses is the number of records whose status was absent or
	// unparsable and fell back to the backlogged default.
	DefaultedStatuses int
}

// ReadJSON decodes a project feed from r and builds the canonical model.
// Both a bare project array and an aggregator document wrapping a
// "projects" array are accepted.
func ReadJSON(r io.Reader, logger *log.Logger) (*model.Model, Diagnostics, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, Diagnostics{}, fmt.Errorf("read input: %w", err)
	}
	projects, err := decodeProjects(data)
	if err != nil {
		return nil, Diagnostics{}, err
	}
	return Build(projects, logger)
}

func decodeProjects(data []byte) ([]Project, error) {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "" || trimmed == "null" {
		return nil, nil
	}
	if strings.HasPrefix(trimmed, "[") {
		var projects []Project
		if err := json.Unmarshal(data, &projects); err != nil {
			return nil, apperrors.Wrap(apperrors.ErrCodeInvalidInput, err, "decoding project array")
		}
		return projects, nil
	}
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInvalidInput, err, "decoding project document")
	}
	return doc.Projects, nil
}

// Build converts raw project descriptors into a canonical model.
// The returned model preserves descriptor order as canonical order. A nil
// or empty descriptor list yields ErrNoData.
func Build(projects []Project, logger *log.Logger) (*model.Model, Diagnostics, error) {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	var diag Diagnostics
	if len(projects) == 0 {
		return nil, diag, ErrNoData
	}

	observability.Ingest().OnIngestStart(len(projects))

	m := model.New()
	for _, p := range projects {
		name := p.DisplayName()
		if name == "" {
			name = "unnamed"
		}
		cluster := &model.ProjectCluster{
			ID:      Slug(name),
			Name:    name,
			Status:  projectStatus(p),
			Visible: true,
		}
		if err := m.AddCluster(cluster); err != nil {
			// Duplicate project names collapse into the first occurrence.
			logger.Warn("skipping duplicate project", "project", name)
			continue
		}

		records := p.Nodes
		if len(records) == 0 {
			records = p.Assets
		}
		for _, rec := range records {
			if rec.ID == "" {
				continue
			}
			node, defaulted := buildNode(cluster.ID, rec)
			if defaulted {
				diag.DefaultedStatuses++
			}
			if err := m.AddNode(node); err != nil {
				logger.Warn("skipping duplicate node", "node", node.ID)
			}
		}

		if len(cluster.NodeIDs) == 0 {
			diag.EmptyProjects++
			logger.Debug("project yielded zero nodes, keeping empty cluster", "project", name)
		}
	}

	for _, p := range projects {
		clusterID := Slug(p.DisplayName())
		if clusterID == "" {
			clusterID = Slug("unnamed")
		}
		for _, er := range p.Edges {
			rawFrom, rawTo := er.endpoints()
			if rawFrom == "" || rawTo == "" {
				diag.DroppedEdges++
				continue
			}
			from := resolveEndpoint(m, clusterID, rawFrom)
			to := resolveEndpoint(m, clusterID, rawTo)
			if from == "" || to == "" {
				diag.DroppedEdges++
				continue
			}
			strength := model.DefaultEdgeStrength
			if er.Strength != nil {
				strength = *er.Strength
			}
			edge := &model.Edge{
				From:     from,
				To:       to,
				Type:     model.NormalizeEdgeType(er.Type),
				Strength: strength,
			}
			if !m.AddEdge(edge) {
				diag.DroppedEdges++
			}
		}
	}

	logger.Info("ingested project data",
		"projects", m.ClusterCount(),
		"nodes", m.NodeCount(),
		"edges", m.EdgeCount(),
		"dropped_edges", diag.DroppedEdges,
		"empty_projects", diag.EmptyProjects)
	observability.Ingest().OnIngestComplete(m.ClusterCount(), m.NodeCount(), m.EdgeCount(), diag.DroppedEdges)

	return m, diag, nil
}

// resolveEndpoint maps a raw edge endpoint to a node ID. Endpoints may be
// written as raw per-project IDs or as already-qualified global IDs; both
// forms resolve. Returns "" when neither resolves.
func resolveEndpoint(m *model.Model, clusterID, raw string) string {
	qualified := model.NodeID(clusterID, raw)
	if _, ok := m.Node(qualified); ok {
		return qualified
	}
	if _, ok := m.Node(raw); ok {
		return raw
	}
	return ""
}

func buildNode(clusterID string, rec Record) (*model.Node, bool) {
	status, progress, quality, defaulted := decodeStatus(rec.Status)

	name := rec.Name
	if name == "" {
		if title, ok := rec.Metadata["title"].(string); ok && title != "" {
			name = title
		} else {
			name = rec.ID
		}
	}

	return &model.Node{
		ID:        model.NodeID(clusterID, rec.ID),
		Name:      name,
		Type:      mapRecordType(rec.Type),
		Status:    status,
		Progress:  progress,
		Quality:   quality,
		ProjectID: clusterID,
		Metadata:  rec.Metadata,
		Visible:   true,
	}, defaulted
}

// projectStatus normalizes the project-level status, defaulting like nodes.
func projectStatus(p Project) model.Status {
	s, _, _, _ := decodeStatus(p.Status)
	return s
}

// Slug derives a stable cluster identifier from a project name: lowercase,
// with runs of non-alphanumeric characters collapsed to single dashes.
func Slug(name string) string {
	var b strings.Builder
	lastDash := true // suppress leading dash
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

// recordTypeMapping converts dotted asset types from v2/v3 feeds into the
// short node type vocabulary the visualization uses.
var recordTypeMapping = map[string]string{
	"component.ui.react": "ui",
	"component.ui.3d":    "3d",
	"service.backend":    "service",
	"config.schema":      "config",
	"doc.markdown":       "doc",
	"plugin.obsidian":    "plugin",
	"agent.abacus":       "ai",
	"library.js":         "lib",
	"workflow.ci-cd":     "workflow",
	"test.e2e":           "test",
	"knowledge.particle": "knowledge",
}

func mapRecordType(raw string) string {
	if raw == "" {
		return "file"
	}
	if mapped, ok := recordTypeMapping[raw]; ok {
		return mapped
	}
	if !strings.Contains(raw, ".") {
		// v1 node types are already short names; pass them through.
		return raw
	}
	return "file"
}
