package engine

import (
	"time"

	"github.com/pow3r-build/constellation/pkg/layout"
	"github.com/pow3r-build/constellation/pkg/model"
	"github.com/pow3r-build/constellation/pkg/observability"
	"github.com/pow3r-build/constellation/pkg/visibility"
)

// animation is one entity's in-flight interpolation. The start time is
// stamped by the first Tick after enqueue so the engine never reads the
// wall clock itself.
type animation struct {
	from model.Position
	to   model.Position

	start    time.Time
	duration time.Duration

	// gen is the supersession token of the request that enqueued this
	// animation. Kept for logging; supersession itself works by map
	// replacement in Engine.anims.
	gen uint64

	// hideOnArrival marks a collapse animation: the node hides the moment
	// it reaches the cluster center, never before.
	hideOnArrival bool
}

// easeOutCubic maps linear progress t in [0,1] to eased progress.
// Fast start, gentle settle.
func easeOutCubic(t float64) float64 {
	u := 1 - t
	return 1 - u*u*u
}

// enqueue registers animations toward targets for the model's entities.
// Visible entities animate from their current position; hidden entities
// snap straight to the target so the layout stays coherent when they
// reappear. Existing animations for the same entities are superseded.
//
// Callers must hold the write lock and have bumped the generation.
func (e *Engine) enqueue(targets layout.Targets, hideOnArrival bool) {
	for _, c := range e.m.Clusters {
		to, ok := targets[c.ID]
		if !ok {
			continue
		}
		if !c.Visible {
			c.Center = to
			delete(e.anims, c.ID)
			continue
		}
		e.anims[c.ID] = &animation{
			from:     c.Center,
			to:       to,
			duration: e.cfg.AnimationDuration,
			gen:      e.generation,
		}
	}
	for _, n := range e.m.Nodes {
		to, ok := targets[n.ID]
		if !ok {
			continue
		}
		if !n.Visible {
			n.Position = to
			delete(e.anims, n.ID)
			// A node that is already hidden when collapse begins is at its
			// target now; record it as collapse-hidden so a later query
			// mutation cannot resurface it before expand.
			if hideOnArrival {
				e.hiddenByCollapse[n.ID] = true
			}
			continue
		}
		e.anims[n.ID] = &animation{
			from:          n.Position,
			to:            to,
			duration:      e.cfg.AnimationDuration,
			gen:           e.generation,
			hideOnArrival: hideOnArrival,
		}
	}
}

// Tick advances every in-flight animation to the given time and reports
// whether any remain active. Hosts call this once per rendered frame; an
// idle engine returns false immediately.
//
// Animations complete exactly at their target position. Completing collapse
// animations hide their node and re-derive edge visibility in the same tick,
// so no frame ever shows an edge into a hidden node.
func (e *Engine) Tick(now time.Time) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if len(e.anims) == 0 {
		return false
	}

	hid := false
	var elapsed time.Duration
	for id, a := range e.anims {
		if a.start.IsZero() {
			a.start = now
		}
		t := float64(now.Sub(a.start)) / float64(a.duration)
		if t < 1 {
			e.setPosition(id, a.from.Lerp(a.to, easeOutCubic(t)))
			continue
		}
		e.setPosition(id, a.to)
		if d := now.Sub(a.start); d > elapsed {
			elapsed = d
		}
		if a.hideOnArrival {
			if n, ok := e.m.Node(id); ok {
				n.Visible = false
				e.hiddenByCollapse[id] = true
				hid = true
			}
		}
		delete(e.anims, id)
	}
	if hid {
		visibility.RefreshEdges(e.m)
	}

	if len(e.anims) == 0 {
		e.logger.Debug("animation complete", "generation", e.generation)
		observability.Engine().OnAnimationComplete(e.generation, elapsed)
		return false
	}
	return true
}

// Animating reports whether any animations are in flight.
func (e *Engine) Animating() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.anims) > 0
}

// setPosition writes a position to whichever entity owns the id.
func (e *Engine) setPosition(id string, p model.Position) {
	if n, ok := e.m.Node(id); ok {
		n.Position = p
		return
	}
	if c, ok := e.m.Cluster(id); ok {
		c.Center = p
	}
}
