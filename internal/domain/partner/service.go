package partner

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

type Service struct {
	doctors DoctorRepository
	labs    ReferralLabRepository
}

func NewService(doctors DoctorRepository, labs ReferralLabRepository) *Service {
	return &Service{doctors: doctors, labs: labs}
}

// -- Doctors --

func (s *Service) CreateDoctor(ctx context.Context, d *Doctor) error {
	if d.Name == "" {
		return fmt.Errorf("name is required")
	}
	if d.CommissionPercentage < 0 || d.CommissionPercentage > 100 {
		return fmt.Errorf("commission percentage must be between 0 and 100")
	}
	if d.CommissionPercentage == 0 {
		d.CommissionPercentage = DefaultCommissionPercentage
	}
	d.TotalEarned = 0
	return s.doctors.Create(ctx, d)
}

func (s *Service) GetDoctor(ctx context.Context, id uuid.UUID) (*Doctor, error) {
	return s.doctors.GetByID(ctx, id)
}

func (s *Service) UpdateDoctor(ctx context.Context, d *Doctor) error {
	if d.Name == "" {
		return fmt.Errorf("name is required")
	}
	if d.CommissionPercentage < 0 || d.CommissionPercentage > 100 {
		return fmt.Errorf("commission percentage must be between 0 and 100")
	}
	existing, err := s.doctors.GetByID(ctx, d.ID)
	if err != nil {
		return fmt.Errorf("doctor not found")
	}
	// Earnings only move through AddDoctorEarnings.
	d.TotalEarned = existing.TotalEarned
	return s.doctors.Update(ctx, d)
}

func (s *Service) DeleteDoctor(ctx context.Context, id uuid.UUID) error {
	return s.doctors.Delete(ctx, id)
}

func (s *Service) ListDoctors(ctx context.Context, limit, offset int) ([]*Doctor, int, error) {
	return s.doctors.List(ctx, limit, offset)
}

// AddDoctorEarnings credits commission to a doctor. Called once per sale,
// inside the sale creation transaction.
func (s *Service) AddDoctorEarnings(ctx context.Context, id uuid.UUID, amount float64) error {
	if amount < 0 {
		return fmt.Errorf("earnings amount must not be negative")
	}
	return s.doctors.AddEarnings(ctx, id, amount)
}

// -- Referral labs --

func (s *Service) CreateReferralLab(ctx context.Context, l *ReferralLab) error {
	if l.Name == "" {
		return fmt.Errorf("name is required")
	}
	l.TotalEarned = 0
	return s.labs.Create(ctx, l)
}

func (s *Service) GetReferralLab(ctx context.Context, id uuid.UUID) (*ReferralLab, error) {
	return s.labs.GetByID(ctx, id)
}

func (s *Service) UpdateReferralLab(ctx context.Context, l *ReferralLab) error {
	if l.Name == "" {
		return fmt.Errorf("name is required")
	}
	if _, err := s.labs.GetByID(ctx, l.ID); err != nil {
		return fmt.Errorf("referral lab not found")
	}
	return s.labs.Update(ctx, l)
}

func (s *Service) DeleteReferralLab(ctx context.Context, id uuid.UUID) error {
	return s.labs.Delete(ctx, id)
}

func (s *Service) ListReferralLabs(ctx context.Context, limit, offset int) ([]*ReferralLab, int, error) {
	return s.labs.List(ctx, limit, offset)
}

// AddLabEarnings credits the full sale total to a referral lab.
func (s *Service) AddLabEarnings(ctx context.Context, id uuid.UUID, amount float64) error {
	if amount < 0 {
		return fmt.Errorf("earnings amount must not be negative")
	}
	return s.labs.AddEarnings(ctx, id, amount)
}
