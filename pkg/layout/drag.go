package layout

import (
	apperrors "github.com/pow3r-build/constellation/pkg/errors"
	"github.com/pow3r-build/constellation/pkg/model"
)

// Drag applies a host-supplied drag delta to a single entity.
// Only the dragged entity moves; a drag never triggers a relayout of other
// entities. The entity may be a node or a cluster; unknown IDs are rejected
// with an ENTITY_NOT_FOUND error.
//
// Drag is the one layout operation that mutates the model directly, because
// drags are instantaneous position edits rather than proposed targets.
func Drag(m *model.Model, id string, dx, dy, dz float64) error {
	if m == nil {
		return apperrors.New(apperrors.ErrCodeEntityNotFound, "no model loaded")
	}
	if n, ok := m.Node(id); ok {
		n.Position = n.Position.Add(dx, dy, dz)
		return nil
	}
	if c, ok := m.Cluster(id); ok {
		c.Center = c.Center.Add(dx, dy, dz)
		return nil
	}
	return apperrors.New(apperrors.ErrCodeEntityNotFound, "unknown entity: %q", id)
}
