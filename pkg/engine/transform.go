package engine

import (
	apperrors "github.com/pow3r-build/constellation/pkg/errors"
	"github.com/pow3r-build/constellation/pkg/layout"
	"github.com/pow3r-build/constellation/pkg/model"
	"github.com/pow3r-build/constellation/pkg/observability"
)

// SetMode switches the active transform mode and enqueues animations toward
// the new layout. Unknown mode names are rejected without touching state.
// Re-applying the current mode recomputes the same targets; with no model
// loaded the mode still changes but nothing animates.
func (e *Engine) SetMode(raw string) error {
	mode, err := layout.ParseMode(raw)
	if err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.mode = mode
	if e.m.Empty() {
		return nil
	}

	targets, err := e.layouts.Compute(mode, e.m, e.collapsed)
	if err != nil {
		return err
	}
	e.generation++
	e.enqueue(targets, false)

	e.logger.Info("transform", "mode", mode, "collapsed", e.collapsed, "generation", e.generation)
	observability.Engine().OnTransform(string(mode), e.collapsed, e.generation)
	return nil
}

// SetCollapsed toggles the collapse flag.
//
// Collapsing animates every node toward its cluster's center and hides it on
// arrival; cluster centers are untouched. Each node's position is captured
// before it moves, unless a capture from an earlier collapse is still held.
//
// Expanding restores visibility per the active search state immediately and
// animates every node back to its captured position. The captures are then
// released, so the next collapse records fresh positions.
func (e *Engine) SetCollapsed(collapsed bool) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if collapsed == e.collapsed {
		return nil
	}
	e.collapsed = collapsed
	if e.m.Empty() {
		return nil
	}
	e.generation++

	if collapsed {
		e.collapseLocked()
	} else {
		e.expandLocked()
	}

	e.logger.Info("transform", "mode", e.mode, "collapsed", collapsed, "generation", e.generation)
	observability.Engine().OnTransform(string(e.mode), collapsed, e.generation)
	return nil
}

func (e *Engine) collapseLocked() {
	targets := make(layout.Targets, e.m.NodeCount())
	for _, n := range e.m.Nodes {
		if _, ok := e.precollapse[n.ID]; !ok {
			e.precollapse[n.ID] = n.Position
		}
		if c, ok := e.m.Cluster(n.ProjectID); ok {
			targets[n.ID] = c.Center
		}
	}
	e.enqueue(targets, true)
}

func (e *Engine) expandLocked() {
	targets := make(layout.Targets, len(e.precollapse))
	for id, p := range e.precollapse {
		targets[id] = p
	}

	// Visibility comes back before the outward animation starts, so nodes
	// are seen leaving the cluster centers rather than popping in at the end.
	e.hiddenByCollapse = make(map[string]bool)
	e.refreshLocked()

	e.enqueue(targets, false)
	e.precollapse = make(map[string]model.Position)
}

// Drag displaces a single entity by the given deltas. Dragging is only
// honored in modes that allow it; other modes reject the call and leave
// every position untouched.
func (e *Engine) Drag(id string, dx, dy, dz float64) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.mode.AllowsDrag() {
		return apperrors.New(apperrors.ErrCodeInvalidInput, "drag is not available in mode %s", e.mode)
	}
	if e.m.Empty() {
		return apperrors.New(apperrors.ErrCodeEntityNotFound, "no entity %q", id)
	}
	// A drag takes manual control of the entity; any in-flight animation
	// for it is abandoned where it stands.
	delete(e.anims, id)
	return layout.Drag(e.m, id, dx, dy, dz)
}
