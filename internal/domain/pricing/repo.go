package pricing

import (
	"context"

	"github.com/google/uuid"
)

// ExternalLabRepository persists external labs.
type ExternalLabRepository interface {
	Create(ctx context.Context, l *ExternalLab) error
	GetByID(ctx context.Context, id uuid.UUID) (*ExternalLab, error)
	Update(ctx context.Context, l *ExternalLab) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context) ([]*ExternalLab, error)
}

// LabPriceRepository persists per-lab test prices.
type LabPriceRepository interface {
	Upsert(ctx context.Context, p *LabPrice) error
	Delete(ctx context.Context, testID, labID uuid.UUID) error
	ListByTest(ctx context.Context, testID uuid.UUID) ([]LabPrice, error)
	ListAll(ctx context.Context) ([]LabPrice, error)
}
