package advice

import (
	"context"

	"github.com/google/uuid"
)

// Repository persists advice history. Append-only by design: repeated
// identical requests each create a new record.
type Repository interface {
	Create(ctx context.Context, r *Record) error
	ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*Record, int, error)
}
