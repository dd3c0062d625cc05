// Package model defines the canonical in-memory representation of ingested
// project data: clusters, nodes, edges, positions, and the data payloads
// handed to external render and detail collaborators.
//
// The canonical model is built once per data load by pkg/ingest and is then
// mutated only in narrowly defined ways: positions move during layout
// transitions and drags, and visibility flags flip when queries or transform
// state change. Identity (IDs, ownership, edge endpoints) is immutable after
// construction; a new data load replaces the whole model rather than
// patching it.
package model

import (
	"errors"
	"fmt"
	"math"
)

// Sentinel errors for model integrity checks.
var (
	// ErrOwnershipMismatch is returned by [Model.Validate] when the sum of
	// cluster node sets does not equal the total node count, or a node
	// references a cluster that does not own it.
	ErrOwnershipMismatch = errors.New("node ownership mismatch")

	// ErrDanglingEdge is returned by [Model.Validate] when an edge endpoint
	// does not resolve to a known node. Ingestion drops such edges, so this
	// indicates model corruption.
	ErrDanglingEdge = errors.New("edge endpoint not in model")

	// ErrEdgeVisibility is returned by [Model.Validate] when an edge is
	// visible while one of its endpoints is hidden.
	ErrEdgeVisibility = errors.New("visible edge with hidden endpoint")
)

// Position is a point in the 3D scene space.
type Position struct {
	X float64 `json:"x" bson:"x"`
	Y float64 `json:"y" bson:"y"`
	Z float64 `json:"z" bson:"z"`
}

// Add returns the position translated by the given deltas.
func (p Position) Add(dx, dy, dz float64) Position {
	return Position{X: p.X + dx, Y: p.Y + dy, Z: p.Z + dz}
}

// Lerp returns the linear interpolation between p and target at t in [0,1].
func (p Position) Lerp(target Position, t float64) Position {
	return Position{
		X: p.X + (target.X-p.X)*t,
		Y: p.Y + (target.Y-p.Y)*t,
		Z: p.Z + (target.Z-p.Z)*t,
	}
}

// DistanceTo returns the Euclidean distance between two positions.
func (p Position) DistanceTo(q Position) float64 {
	dx, dy, dz := q.X-p.X, q.Y-p.Y, q.Z-p.Z
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}

// Node is a single visual unit representing one component or asset within a
// project. IDs are globally unique: "<projectID>-<rawID>".
type Node struct {
	ID        string         `json:"id" bson:"id"`
	Name      string         `json:"name" bson:"name"`
	Type      string         `json:"type" bson:"type"`
	Status    Status         `json:"status" bson:"status"`
	Progress  int            `json:"progress" bson:"progress"`
	Quality   float64        `json:"quality" bson:"quality"`
	ProjectID string         `json:"project_id" bson:"project_id"`
	Position  Position       `json:"position" bson:"position"`
	Metadata  map[string]any `json:"metadata,omitempty" bson:"metadata,omitempty"`
	Visible   bool           `json:"visible" bson:"visible"`
}

// ProjectCluster is the spatial grouping of all nodes belonging to one
// ingested project. It owns its nodes: every node belongs to exactly one
// cluster, and NodeIDs preserves canonical ingestion order.
type ProjectCluster struct {
	ID      string   `json:"id" bson:"id"`
	Name    string   `json:"name" bson:"name"`
	Status  Status   `json:"status" bson:"status"`
	NodeIDs []string `json:"node_ids" bson:"node_ids"`
	Center  Position `json:"center" bson:"center"`
	Visible bool     `json:"visible" bson:"visible"`
}

// Edge is a directed relationship between two nodes, possibly cross-project.
type Edge struct {
	From     string   `json:"from" bson:"from"`
	To       string   `json:"to" bson:"to"`
	Type     EdgeType `json:"type" bson:"type"`
	Strength float64  `json:"strength" bson:"strength"`
	Visible  bool     `json:"visible" bson:"visible"`
}

// Model is the canonical, schema-agnostic representation of all ingested
// project data. Slices preserve canonical ingestion order, which layout and
// query results depend on for determinism.
//
// Model is not safe for concurrent use without external synchronization;
// the engine guards it with a single-writer/multi-reader discipline.
type Model struct {
	Clusters []*ProjectCluster `json:"clusters" bson:"clusters"`
	Nodes    []*Node           `json:"nodes" bson:"nodes"`
	Edges    []*Edge           `json:"edges" bson:"edges"`

	nodesByID    map[string]*Node
	clustersByID map[string]*ProjectCluster
}

// New creates an empty model with initialized indices.
func New() *Model {
	return &Model{
		nodesByID:    make(map[string]*Node),
		clustersByID: make(map[string]*ProjectCluster),
	}
}

// AddCluster appends a cluster and indexes it by ID.
// Duplicate cluster IDs are rejected.
func (m *Model) AddCluster(c *ProjectCluster) error {
	if c.ID == "" {
		return fmt.Errorf("cluster ID must not be empty")
	}
	if _, exists := m.clustersByID[c.ID]; exists {
		return fmt.Errorf("duplicate cluster ID %q", c.ID)
	}
	m.Clusters = append(m.Clusters, c)
	m.clustersByID[c.ID] = c
	return nil
}

// AddNode appends a node, indexes it, and records it on its owning cluster.
// The owning cluster must already exist.
func (m *Model) AddNode(n *Node) error {
	if n.ID == "" {
		return fmt.Errorf("node ID must not be empty")
	}
	if _, exists := m.nodesByID[n.ID]; exists {
		return fmt.Errorf("duplicate node ID %q", n.ID)
	}
	owner, ok := m.clustersByID[n.ProjectID]
	if !ok {
		return fmt.Errorf("node %q references unknown cluster %q", n.ID, n.ProjectID)
	}
	m.Nodes = append(m.Nodes, n)
	m.nodesByID[n.ID] = n
	owner.NodeIDs = append(owner.NodeIDs, n.ID)
	return nil
}

// AddEdge appends an edge between two existing nodes.
// Returns false without modifying the model if either endpoint is unknown;
// the caller counts dropped edges as a diagnostic.
func (m *Model) AddEdge(e *Edge) bool {
	if _, ok := m.nodesByID[e.From]; !ok {
		return false
	}
	if _, ok := m.nodesByID[e.To]; !ok {
		return false
	}
	m.Edges = append(m.Edges, e)
	return true
}

// Node returns the node with the given ID, or nil and false if not found.
// Safe on a nil model.
func (m *Model) Node(id string) (*Node, bool) {
	if m == nil {
		return nil, false
	}
	n, ok := m.nodesByID[id]
	return n, ok
}

// Cluster returns the cluster with the given ID, or nil and false if not found.
// Safe on a nil model.
func (m *Model) Cluster(id string) (*ProjectCluster, bool) {
	if m == nil {
		return nil, false
	}
	c, ok := m.clustersByID[id]
	return c, ok
}

// ClusterNodes returns the nodes owned by the cluster in canonical order.
func (m *Model) ClusterNodes(clusterID string) []*Node {
	c, ok := m.clustersByID[clusterID]
	if !ok {
		return nil
	}
	nodes := make([]*Node, 0, len(c.NodeIDs))
	for _, id := range c.NodeIDs {
		if n, ok := m.nodesByID[id]; ok {
			nodes = append(nodes, n)
		}
	}
	return nodes
}

// NodeCount returns the number of nodes in the model.
func (m *Model) NodeCount() int { return len(m.Nodes) }

// ClusterCount returns the number of clusters in the model.
func (m *Model) ClusterCount() int { return len(m.Clusters) }

// EdgeCount returns the number of edges in the model.
func (m *Model) EdgeCount() int { return len(m.Edges) }

// Empty reports whether the model contains no clusters and no nodes.
// A nil model is empty.
func (m *Model) Empty() bool {
	return m == nil || (len(m.Clusters) == 0 && len(m.Nodes) == 0)
}

// Reindex rebuilds the internal lookup maps from the exported slices.
// Call this after deserializing a Model from JSON or BSON, where only the
// exported fields survive the round trip.
func (m *Model) Reindex() {
	m.nodesByID = make(map[string]*Node, len(m.Nodes))
	for _, n := range m.Nodes {
		m.nodesByID[n.ID] = n
	}
	m.clustersByID = make(map[string]*ProjectCluster, len(m.Clusters))
	for _, c := range m.Clusters {
		m.clustersByID[c.ID] = c
	}
}

// Validate checks structural integrity and the visibility invariant.
// It verifies that every node is owned by exactly one cluster and that the
// per-cluster node sets partition the node list, that all edge endpoints
// resolve, and that no visible edge has a hidden endpoint.
func (m *Model) Validate() error {
	owned := make(map[string]string, len(m.Nodes)) // node ID -> cluster ID
	total := 0
	for _, c := range m.Clusters {
		for _, id := range c.NodeIDs {
			if prev, dup := owned[id]; dup {
				return fmt.Errorf("%w: node %q owned by %q and %q", ErrOwnershipMismatch, id, prev, c.ID)
			}
			owned[id] = c.ID
			total++
		}
	}
	if total != len(m.Nodes) {
		return fmt.Errorf("%w: clusters own %d nodes, model has %d", ErrOwnershipMismatch, total, len(m.Nodes))
	}
	for _, n := range m.Nodes {
		if owned[n.ID] != n.ProjectID {
			return fmt.Errorf("%w: node %q claims cluster %q", ErrOwnershipMismatch, n.ID, n.ProjectID)
		}
	}
	for _, e := range m.Edges {
		from, okF := m.nodesByID[e.From]
		to, okT := m.nodesByID[e.To]
		if !okF || !okT {
			return fmt.Errorf("%w: %s -> %s", ErrDanglingEdge, e.From, e.To)
		}
		if e.Visible && (!from.Visible || !to.Visible) {
			return fmt.Errorf("%w: %s -> %s", ErrEdgeVisibility, e.From, e.To)
		}
	}
	return nil
}

// NodeID derives the globally unique node ID from a project ID and the raw
// per-project node identifier.
func NodeID(projectID, rawID string) string {
	return projectID + "-" + rawID
}
