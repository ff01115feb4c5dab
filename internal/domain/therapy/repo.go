package therapy

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, l *Log) error
	GetByID(ctx context.Context, id uuid.UUID) (*Log, error)
	ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*Log, int, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
