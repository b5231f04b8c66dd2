package catalog

import (
	"context"

	"github.com/google/uuid"
)

// TestRepository persists catalog tests.
type TestRepository interface {
	Create(ctx context.Context, t *Test) error
	GetByID(ctx context.Context, id uuid.UUID) (*Test, error)
	Update(ctx context.Context, t *Test) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, category string, limit, offset int) ([]*Test, int, error)
	ListAll(ctx context.Context) ([]*Test, error)
}
