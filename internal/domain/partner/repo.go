package partner

import (
	"context"

	"github.com/google/uuid"
)

// DoctorRepository persists doctors.
type DoctorRepository interface {
	Create(ctx context.Context, d *Doctor) error
	GetByID(ctx context.Context, id uuid.UUID) (*Doctor, error)
	Update(ctx context.Context, d *Doctor) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, limit, offset int) ([]*Doctor, int, error)
	AddEarnings(ctx context.Context, id uuid.UUID, amount float64) error
}

// ReferralLabRepository persists referral labs.
type ReferralLabRepository interface {
	Create(ctx context.Context, l *ReferralLab) error
	GetByID(ctx context.Context, id uuid.UUID) (*ReferralLab, error)
	Update(ctx context.Context, l *ReferralLab) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, limit, offset int) ([]*ReferralLab, int, error)
	AddEarnings(ctx context.Context, id uuid.UUID, amount float64) error
}
