package engine

import (
	apperrors "github.com/pow3r-build/constellation/pkg/errors"
	"github.com/pow3r-build/constellation/pkg/model"
)

// Describe resolves an entity ID to its detail payload, the data behind a
// selection panel. Both nodes and clusters resolve; anything else is an
// ENTITY_NOT_FOUND error.
func (e *Engine) Describe(id string) (model.Detail, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if n, ok := e.m.Node(id); ok {
		d := model.Detail{
			ID:       n.ID,
			Name:     n.Name,
			Type:     n.Type,
			Status:   n.Status,
			Progress: n.Progress,
			Quality:  n.Quality,
			Metadata: n.Metadata,
		}
		if c, ok := e.m.Cluster(n.ProjectID); ok {
			d.Project = c.Name
		}
		return d, nil
	}
	if c, ok := e.m.Cluster(id); ok {
		return model.Detail{
			ID:      c.ID,
			Name:    c.Name,
			Type:    "project",
			Status:  c.Status,
			Project: c.Name,
		}, nil
	}
	return model.Detail{}, apperrors.New(apperrors.ErrCodeEntityNotFound, "no entity %q", id)
}
