package domain

import (
	"github.com/google/uuid"

	"github.com/brightclass/brightclass-backend/internal/platform/apierr"
)

// Reorder moves movedID to newIndex within the sibling list and returns the
// ids in their new order. Indices are dense and zero-based; a newIndex past
// the end clamps to the last position. The input order is taken as the
// current order.
func Reorder(ids []uuid.UUID, movedID uuid.UUID, newIndex int) ([]uuid.UUID, error) {
	cur := -1
	for i, id := range ids {
		if id == movedID {
			cur = i
			break
		}
	}
	if cur == -1 {
		return nil, apierr.NotFound("entity")
	}
	if newIndex < 0 {
		newIndex = 0
	}
	if newIndex > len(ids)-1 {
		newIndex = len(ids) - 1
	}
	if newIndex == cur {
		out := make([]uuid.UUID, len(ids))
		copy(out, ids)
		return out, nil
	}

	out := make([]uuid.UUID, 0, len(ids))
	for i, id := range ids {
		if i != cur {
			out = append(out, id)
		}
	}
	out = append(out[:newIndex], append([]uuid.UUID{movedID}, out[newIndex:]...)...)
	return out, nil
}
