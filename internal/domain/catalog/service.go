package catalog

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

type Service struct {
	tests TestRepository
}

func NewService(tests TestRepository) *Service {
	return &Service{tests: tests}
}

func (s *Service) validate(t *Test) error {
	if t.Name == "" {
		return fmt.Errorf("name is required")
	}
	if !ValidCategory(t.Category) {
		return fmt.Errorf("invalid category: %s", t.Category)
	}
	if t.Price < 0 {
		return fmt.Errorf("price must not be negative")
	}
	if t.DerivedPrice != nil && *t.DerivedPrice < 0 {
		return fmt.Errorf("derived price must not be negative")
	}
	if t.DurationHours != nil && *t.DurationHours <= 0 {
		return fmt.Errorf("duration hours must be positive")
	}
	return nil
}

func (s *Service) CreateTest(ctx context.Context, t *Test) error {
	if err := s.validate(t); err != nil {
		return err
	}
	return s.tests.Create(ctx, t)
}

func (s *Service) GetTest(ctx context.Context, id uuid.UUID) (*Test, error) {
	return s.tests.GetByID(ctx, id)
}

func (s *Service) UpdateTest(ctx context.Context, t *Test) error {
	if err := s.validate(t); err != nil {
		return err
	}
	if _, err := s.tests.GetByID(ctx, t.ID); err != nil {
		return fmt.Errorf("test not found")
	}
	return s.tests.Update(ctx, t)
}

// DeleteTest removes a catalog entry. Sales carry their own snapshot of the
// test name and price, so past sales are unaffected.
func (s *Service) DeleteTest(ctx context.Context, id uuid.UUID) error {
	return s.tests.Delete(ctx, id)
}

func (s *Service) ListTests(ctx context.Context, category string, limit, offset int) ([]*Test, int, error) {
	if category != "" && !ValidCategory(category) {
		return nil, 0, fmt.Errorf("invalid category: %s", category)
	}
	return s.tests.List(ctx, category, limit, offset)
}

func (s *Service) ListAllTests(ctx context.Context) ([]*Test, error) {
	return s.tests.ListAll(ctx)
}
