package survey

import (
	"context"

	"github.com/google/uuid"
)

// TemplateRepository is the read-only template store consumed by the
// scoring path. Upsert exists for the seed command only.
type TemplateRepository interface {
	GetByCode(ctx context.Context, code string) (*Template, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Template, error)
	ListActive(ctx context.Context) ([]*Template, error)
	Upsert(ctx context.Context, t *Template) error
}

// ResponseRepository persists survey submissions.
type ResponseRepository interface {
	Create(ctx context.Context, r *Response) error
	GetByID(ctx context.Context, id uuid.UUID) (*Response, error)
	ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*Response, int, error)
}
