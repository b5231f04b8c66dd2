package sales

import (
	"context"

	"github.com/google/uuid"
)

// SaleRepository defines data access for sales and their tests.
type SaleRepository interface {
	Create(ctx context.Context, s *Sale) error
	GetByID(ctx context.Context, id uuid.UUID) (*Sale, error)
	List(ctx context.Context, limit, offset int) ([]*Sale, int, error)
	ListAll(ctx context.Context) ([]*Sale, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error
	GetSaleTest(ctx context.Context, saleID, saleTestID uuid.UUID) (*SaleTest, error)
	UpdateSaleTest(ctx context.Context, st *SaleTest) error
	ListSaleTests(ctx context.Context, saleID uuid.UUID) ([]SaleTest, error)
	CountByClient(ctx context.Context, clientID uuid.UUID) (int, error)
}

// QuoteRepository defines data access for quotes.
type QuoteRepository interface {
	Create(ctx context.Context, q *Quote) error
	GetByID(ctx context.Context, id uuid.UUID) (*Quote, error)
	List(ctx context.Context, limit, offset int) ([]*Quote, int, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
