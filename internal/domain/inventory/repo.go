package inventory

import (
	"context"

	"github.com/google/uuid"
)

// ItemRepository defines data access for inventory items.
type ItemRepository interface {
	Create(ctx context.Context, it *InventoryItem) error
	GetByID(ctx context.Context, id uuid.UUID) (*InventoryItem, error)
	Update(ctx context.Context, it *InventoryItem) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, limit, offset int) ([]*InventoryItem, int, error)
	AddStock(ctx context.Context, id uuid.UUID, amount float64) error
}

// PurchaseRepository defines data access for purchases and their lots.
// Update touches the purchase header only; lots change through LotRepository.
type PurchaseRepository interface {
	Create(ctx context.Context, p *Purchase) error
	GetByID(ctx context.Context, id uuid.UUID) (*Purchase, error)
	Update(ctx context.Context, p *Purchase) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, limit, offset int) ([]*Purchase, int, error)
}

// LotRepository defines lot access across purchases.
type LotRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Lot, error)
	Update(ctx context.Context, l *Lot) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, filter LotFilter, limit, offset int) ([]*Lot, int, error)
}
