package worklist

import (
	"context"

	"github.com/google/uuid"

	"github.com/labcore/lims/internal/domain/catalog"
	"github.com/labcore/lims/internal/domain/pricing"
	"github.com/labcore/lims/internal/domain/sales"
)

// AssignmentRepository defines data access for referral assignments.
type AssignmentRepository interface {
	Upsert(ctx context.Context, a *ReferralAssignment) error
	GetBySaleTest(ctx context.Context, saleTestID uuid.UUID) (*ReferralAssignment, error)
	ListBySale(ctx context.Context, saleID uuid.UUID) ([]*ReferralAssignment, error)
	Delete(ctx context.Context, saleTestID uuid.UUID) error
}

// SaleSource is the slice of the sales store the worklist reads.
type SaleSource interface {
	ListAll(ctx context.Context) ([]*sales.Sale, error)
	GetSaleTest(ctx context.Context, saleID, saleTestID uuid.UUID) (*sales.SaleTest, error)
}

// TestSource reads catalog tests to tell externally sourced work apart
// from in-house work.
type TestSource interface {
	GetByID(ctx context.Context, id uuid.UUID) (*catalog.Test, error)
}

// PriceSource exposes the external lab price table for referral work.
type PriceSource interface {
	BestLabForTest(ctx context.Context, testID uuid.UUID) (uuid.UUID, float64, error)
	ListPricesByTest(ctx context.Context, testID uuid.UUID) ([]pricing.LabPrice, error)
}
