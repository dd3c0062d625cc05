// Package layout computes spatial target positions for the canonical model
// under the four transform modes.
//
// The layout engine is a pure function of (mode, model, collapsed): it never
// mutates the model, only proposes target positions keyed by entity ID. The
// transform state machine owns applying those targets, either instantly or
// through an animated interpolation.
//
// All geometry constants are injected through Config, so hosts can tune
// radii, spacing, and jitter without recompiling.
package layout

import (
	"math"

	apperrors "github.com/pow3r-build/constellation/pkg/errors"
	"github.com/pow3r-build/constellation/pkg/model"
)

// Mode is the active layout/interaction mode.
type Mode string

// Transform modes.
const (
	// ModeFree3D arranges clusters on a ring with alternating depth and
	// fans each cluster's nodes out on a smaller concentric circle.
	ModeFree3D Mode = "free3d"

	// ModeLocked2D packs the visible entities on a flat square grid with
	// fixed spacing. Entities become individually draggable in this mode.
	ModeLocked2D Mode = "locked2d"

	// ModeTimeline places nodes along a spiral ordered by canonical
	// ingestion order.
	ModeTimeline Mode = "timeline"

	// ModeQuantum keeps current positions; the mode switch only restyles,
	// which is a rendering concern outside this engine.
	ModeQuantum Mode = "quantum"
)

var validModes = map[Mode]bool{
	ModeFree3D:   true,
	ModeLocked2D: true,
	ModeTimeline: true,
	ModeQuantum:  true,
}

// ParseMode validates a raw mode identifier.
// Unknown identifiers are rejected with an INVALID_MODE error rather than
// silently falling back to a default.
func ParseMode(raw string) (Mode, error) {
	m := Mode(raw)
	if !validModes[m] {
		return "", apperrors.New(apperrors.ErrCodeInvalidMode,
			"unknown transform mode: %q (must be one of: free3d, locked2d, timeline, quantum)", raw)
	}
	return m, nil
}

// String returns the mode identifier.
func (m Mode) String() string { return string(m) }

// AllowsDrag reports whether the mode enables per-entity drag interaction.
func (m Mode) AllowsDrag() bool { return m == ModeLocked2D }

// Config holds the injected geometry constants.
type Config struct {
	// Free3D ring: cluster circle radius grows with cluster count,
	// R = ClusterRingBase + ClusterRingStep*count.
	ClusterRingBase float64 `toml:"cluster_ring_base"`
	ClusterRingStep float64 `toml:"cluster_ring_step"`

	// Alternating depth offset applied to every other cluster on the ring.
	ClusterZOffset float64 `toml:"cluster_z_offset"`

	// Node circle inside a cluster: r = NodeRingBase + NodeRingStep*count.
	NodeRingBase float64 `toml:"node_ring_base"`
	NodeRingStep float64 `toml:"node_ring_step"`

	// Locked2D grid cell spacing.
	GridSpacing float64 `toml:"grid_spacing"`

	// Timeline spiral: number of full turns, outer radius, minimum radius
	// reached at the end of the spiral, and total height climbed.
	SpiralTurns     float64 `toml:"spiral_turns"`
	SpiralRadius    float64 `toml:"spiral_radius"`
	SpiralMinRadius float64 `toml:"spiral_min_radius"`
	SpiralHeight    float64 `toml:"spiral_height"`

	// Deterministic per-node jitter amplitude on the timeline spiral.
	JitterAmplitude float64 `toml:"jitter_amplitude"`
}

// DefaultConfig returns the geometry constants used when the host injects
// nothing.
func DefaultConfig() Config {
	return Config{
		ClusterRingBase: 60,
		ClusterRingStep: 14,
		ClusterZOffset:  25,
		NodeRingBase:    12,
		NodeRingStep:    1.5,
		GridSpacing:     20,
		SpiralTurns:     3,
		SpiralRadius:    80,
		SpiralMinRadius: 15,
		SpiralHeight:    120,
		JitterAmplitude: 2.5,
	}
}

// Targets maps entity IDs (clusters and nodes) to proposed positions.
type Targets map[string]model.Position

// Engine computes layout targets. It holds only configuration and is safe
// for concurrent use.
type Engine struct {
	cfg Config
}

// New creates a layout engine with the given geometry configuration.
// Zero-valued config fields fall back to defaults.
func New(cfg Config) *Engine {
	def := DefaultConfig()
	if cfg.ClusterRingBase == 0 {
		cfg.ClusterRingBase = def.ClusterRingBase
	}
	if cfg.ClusterRingStep == 0 {
		cfg.ClusterRingStep = def.ClusterRingStep
	}
	if cfg.ClusterZOffset == 0 {
		cfg.ClusterZOffset = def.ClusterZOffset
	}
	if cfg.NodeRingBase == 0 {
		cfg.NodeRingBase = def.NodeRingBase
	}
	if cfg.NodeRingStep == 0 {
		cfg.NodeRingStep = def.NodeRingStep
	}
	if cfg.GridSpacing == 0 {
		cfg.GridSpacing = def.GridSpacing
	}
	if cfg.SpiralTurns == 0 {
		cfg.SpiralTurns = def.SpiralTurns
	}
	if cfg.SpiralRadius == 0 {
		cfg.SpiralRadius = def.SpiralRadius
	}
	if cfg.SpiralMinRadius == 0 {
		cfg.SpiralMinRadius = def.SpiralMinRadius
	}
	if cfg.SpiralHeight == 0 {
		cfg.SpiralHeight = def.SpiralHeight
	}
	if cfg.JitterAmplitude == 0 {
		cfg.JitterAmplitude = def.JitterAmplitude
	}
	return &Engine{cfg: cfg}
}

// Config returns the effective geometry configuration.
func (e *Engine) Config() Config { return e.cfg }

// Compute proposes target positions for every cluster and node under the
// given mode. The model is never mutated. A nil or empty model produces an
// empty target set; clusters with zero nodes still receive positions.
// Locked2D is the exception to full coverage: it packs only the visible
// entities, so hidden ones receive no target.
//
// When collapsed is true, every node targets its owning cluster's center
// regardless of mode.
func (e *Engine) Compute(mode Mode, m *model.Model, collapsed bool) (Targets, error) {
	if !validModes[mode] {
		return nil, apperrors.New(apperrors.ErrCodeInvalidMode, "unknown transform mode: %q", mode)
	}
	targets := make(Targets)
	if m.Empty() {
		return targets, nil
	}

	switch mode {
	case ModeFree3D:
		e.computeFree3D(m, targets)
	case ModeLocked2D:
		e.computeLocked2D(m, targets)
	case ModeTimeline:
		e.computeTimeline(m, targets)
	case ModeQuantum:
		computeQuantum(m, targets)
	}

	if collapsed {
		// Collapse overrides node targets: each node retracts into its
		// owning cluster's proposed center.
		for _, n := range m.Nodes {
			if c, ok := m.Cluster(n.ProjectID); ok {
				center, proposed := targets[c.ID]
				if !proposed {
					center = c.Center
				}
				targets[n.ID] = center
			}
		}
	}

	return targets, nil
}

// computeFree3D places clusters evenly on a circle whose radius grows with
// cluster count, alternating each cluster's depth, then fans each cluster's
// nodes out on a smaller concentric circle whose radius grows mildly with
// node count.
func (e *Engine) computeFree3D(m *model.Model, targets Targets) {
	count := len(m.Clusters)
	ringRadius := e.cfg.ClusterRingBase + e.cfg.ClusterRingStep*float64(count)

	for i, c := range m.Clusters {
		angle := 2 * math.Pi * float64(i) / float64(count)
		z := e.cfg.ClusterZOffset
		if i%2 == 1 {
			z = -z
		}
		center := model.Position{
			X: ringRadius * math.Cos(angle),
			Y: ringRadius * math.Sin(angle),
			Z: z,
		}
		targets[c.ID] = center

		nodes := m.ClusterNodes(c.ID)
		nodeRadius := e.cfg.NodeRingBase + e.cfg.NodeRingStep*float64(len(nodes))
		for j, n := range nodes {
			nodeAngle := 2 * math.Pi * float64(j) / float64(len(nodes))
			targets[n.ID] = model.Position{
				X: center.X + nodeRadius*math.Cos(nodeAngle),
				Y: center.Y + nodeRadius*math.Sin(nodeAngle),
				Z: center.Z,
			}
		}
	}
}

// computeLocked2D packs the visible clusters and nodes on a flat square grid
// in canonical order. Hidden entities receive no target and keep their
// positions. With cols = ceil(sqrt(N)) over the visible count and fixed
// spacing the grid has zero overlap by construction; no iterative relaxation
// is needed.
func (e *Engine) computeLocked2D(m *model.Model, targets Targets) {
	ids := make([]string, 0, len(m.Clusters)+len(m.Nodes))
	for _, c := range m.Clusters {
		if !c.Visible {
			continue
		}
		ids = append(ids, c.ID)
	}
	for _, n := range m.Nodes {
		if !n.Visible {
			continue
		}
		ids = append(ids, n.ID)
	}

	cols := int(math.Ceil(math.Sqrt(float64(len(ids)))))
	if cols == 0 {
		return
	}
	spacing := e.cfg.GridSpacing
	// Center the grid on the origin.
	rows := (len(ids) + cols - 1) / cols
	offsetX := spacing * float64(cols-1) / 2
	offsetY := spacing * float64(rows-1) / 2

	for i, id := range ids {
		col := i % cols
		row := i / cols
		targets[id] = model.Position{
			X: spacing*float64(col) - offsetX,
			Y: offsetY - spacing*float64(row),
			Z: 0,
		}
	}
}

// computeTimeline places nodes along a spiral parameterized by normalized
// index t over canonical ingestion order: the angle sweeps SpiralTurns full
// turns, the radius shrinks linearly from SpiralRadius to SpiralMinRadius,
// and the height grows linearly to SpiralHeight. A small per-node jitter
// breaks exact collinearity; it is a deterministic function of the node ID,
// never wall-clock randomness, so layouts are stable across reloads.
//
// Clusters keep their current centers: the timeline is a node arrangement.
func (e *Engine) computeTimeline(m *model.Model, targets Targets) {
	for _, c := range m.Clusters {
		targets[c.ID] = c.Center
	}

	n := len(m.Nodes)
	for i, node := range m.Nodes {
		t := 0.0
		if n > 1 {
			t = float64(i) / float64(n-1)
		}
		angle := t * e.cfg.SpiralTurns * 2 * math.Pi
		radius := e.cfg.SpiralRadius - (e.cfg.SpiralRadius-e.cfg.SpiralMinRadius)*t
		height := e.cfg.SpiralHeight * t

		jx, jy := jitter(node.ID, e.cfg.JitterAmplitude)
		targets[node.ID] = model.Position{
			X: radius*math.Cos(angle) + jx,
			Y: radius*math.Sin(angle) + jy,
			Z: height,
		}
	}
}

// computeQuantum proposes every entity's current position: switching to
// quantum mode restyles entities without moving them.
func computeQuantum(m *model.Model, targets Targets) {
	for _, c := range m.Clusters {
		targets[c.ID] = c.Center
	}
	for _, n := range m.Nodes {
		targets[n.ID] = n.Position
	}
}
