package model

// Frame is the complete render payload emitted to the external 3D pipeline.
// It contains only data: positions, visibility flags, and color keys. All
// mesh, label, and material creation happens outside the engine.
//
// Frames are value snapshots: mutating a Frame never affects the canonical
// model it was derived from.
type Frame struct {
	Clusters []ClusterSprite `json:"clusters" bson:"clusters"`
	Nodes    []NodeSprite    `json:"nodes" bson:"nodes"`
	Edges    []EdgeSprite    `json:"edges" bson:"edges"`
}

// NodeSprite is the per-node render contract.
type NodeSprite struct {
	ID          string   `json:"id" bson:"id"`
	Position    Position `json:"position" bson:"position"`
	Visible     bool     `json:"visible" bson:"visible"`
	StatusColor string   `json:"status_color" bson:"status_color"`
}

// ClusterSprite is the per-cluster render contract.
type ClusterSprite struct {
	ID          string   `json:"id" bson:"id"`
	Position    Position `json:"position" bson:"position"`
	Visible     bool     `json:"visible" bson:"visible"`
	StatusColor string   `json:"status_color" bson:"status_color"`
}

// EdgeSprite is the per-edge render contract.
type EdgeSprite struct {
	FromID   string `json:"from_id" bson:"from_id"`
	ToID     string `json:"to_id" bson:"to_id"`
	Visible  bool   `json:"visible" bson:"visible"`
	ColorKey string `json:"color_key" bson:"color_key"`
}

// Detail is the read-only payload handed to the external detail panel when
// an entity is selected. It is a projection of the canonical model and
// carries no references back into it.
type Detail struct {
	ID       string         `json:"id"`
	Name     string         `json:"name"`
	Type     string         `json:"type"`
	Status   Status         `json:"status"`
	Progress int            `json:"progress"`
	Quality  float64        `json:"quality"`
	Project  string         `json:"project"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// Snapshot builds a Frame from the current model state.
func (m *Model) Snapshot() Frame {
	f := Frame{
		Clusters: make([]ClusterSprite, len(m.Clusters)),
		Nodes:    make([]NodeSprite, len(m.Nodes)),
		Edges:    make([]EdgeSprite, len(m.Edges)),
	}
	for i, c := range m.Clusters {
		f.Clusters[i] = ClusterSprite{
			ID:          c.ID,
			Position:    c.Center,
			Visible:     c.Visible,
			StatusColor: c.Status.Color(),
		}
	}
	for i, n := range m.Nodes {
		f.Nodes[i] = NodeSprite{
			ID:          n.ID,
			Position:    n.Position,
			Visible:     n.Visible,
			StatusColor: n.Status.Color(),
		}
	}
	for i, e := range m.Edges {
		f.Edges[i] = EdgeSprite{
			FromID:   e.From,
			ToID:     e.To,
			Visible:  e.Visible,
			ColorKey: e.Type.ColorKey(),
		}
	}
	return f
}
