package pricing

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/labcore/lims/internal/domain/catalog"
)

type Service struct {
	labs    ExternalLabRepository
	prices  LabPriceRepository
	tests   catalog.TestRepository
	markups Markups
}

func NewService(labs ExternalLabRepository, prices LabPriceRepository, tests catalog.TestRepository, markups Markups) *Service {
	return &Service{labs: labs, prices: prices, tests: tests, markups: markups}
}

// Markups returns the configured sale markups.
func (s *Service) Markups() Markups {
	return s.markups
}

// -- External labs --

func (s *Service) CreateExternalLab(ctx context.Context, l *ExternalLab) error {
	if l.Name == "" {
		return fmt.Errorf("name is required")
	}
	return s.labs.Create(ctx, l)
}

func (s *Service) UpdateExternalLab(ctx context.Context, l *ExternalLab) error {
	if l.Name == "" {
		return fmt.Errorf("name is required")
	}
	if _, err := s.labs.GetByID(ctx, l.ID); err != nil {
		return fmt.Errorf("external lab not found")
	}
	return s.labs.Update(ctx, l)
}

func (s *Service) DeleteExternalLab(ctx context.Context, id uuid.UUID) error {
	return s.labs.Delete(ctx, id)
}

func (s *Service) ListExternalLabs(ctx context.Context) ([]*ExternalLab, error) {
	return s.labs.List(ctx)
}

// -- Lab prices --

func (s *Service) SetLabPrice(ctx context.Context, p *LabPrice) error {
	if p.Price < 0 {
		return fmt.Errorf("price must not be negative")
	}
	if _, err := s.tests.GetByID(ctx, p.TestID); err != nil {
		return fmt.Errorf("test not found")
	}
	if _, err := s.labs.GetByID(ctx, p.LabID); err != nil {
		return fmt.Errorf("external lab not found")
	}
	return s.prices.Upsert(ctx, p)
}

func (s *Service) DeleteLabPrice(ctx context.Context, testID, labID uuid.UUID) error {
	return s.prices.Delete(ctx, testID, labID)
}

func (s *Service) ListPricesByTest(ctx context.Context, testID uuid.UUID) ([]LabPrice, error) {
	return s.prices.ListByTest(ctx, testID)
}

// BestLabForTest returns the external lab paying the most for a test, or
// uuid.Nil when no lab has a positive price for it.
func (s *Service) BestLabForTest(ctx context.Context, testID uuid.UUID) (uuid.UUID, float64, error) {
	labPrices, err := s.prices.ListByTest(ctx, testID)
	if err != nil {
		return uuid.Nil, 0, err
	}
	labID, price := BestLab(labPrices)
	return labID, price, nil
}

// ResolvePrice computes the charged price for a single test using the
// current lab price table.
func (s *Service) ResolvePrice(ctx context.Context, testID uuid.UUID, useDerived bool) (float64, error) {
	t, err := s.tests.GetByID(ctx, testID)
	if err != nil {
		return 0, fmt.Errorf("test not found")
	}
	labPrices, err := s.prices.ListByTest(ctx, testID)
	if err != nil {
		return 0, err
	}
	return Resolve(t, useDerived, labPrices, s.markups), nil
}

// PriceTableRow is one test in the full price comparison table.
type PriceTableRow struct {
	TestID           uuid.UUID             `json:"testId"`
	TestName         string                `json:"testName"`
	Category         string                `json:"category"`
	IsExternal       bool                  `json:"isExternal"`
	CatalogPrice     float64               `json:"catalogPrice"`
	LabPrices        map[uuid.UUID]float64 `json:"labPrices"`
	EstablishedPrice float64               `json:"establishedPrice"`
}

// PriceTable builds the full comparison table (every test against every
// external lab) with the established client price per test.
func (s *Service) PriceTable(ctx context.Context) ([]PriceTableRow, []*ExternalLab, error) {
	tests, err := s.tests.ListAll(ctx)
	if err != nil {
		return nil, nil, err
	}
	labs, err := s.labs.List(ctx)
	if err != nil {
		return nil, nil, err
	}
	all, err := s.prices.ListAll(ctx)
	if err != nil {
		return nil, nil, err
	}

	byTest := make(map[uuid.UUID][]LabPrice)
	for _, p := range all {
		byTest[p.TestID] = append(byTest[p.TestID], p)
	}

	rows := make([]PriceTableRow, 0, len(tests))
	for _, t := range tests {
		lp := byTest[t.ID]
		row := PriceTableRow{
			TestID:           t.ID,
			TestName:         t.Name,
			Category:         t.Category,
			IsExternal:       t.IsExternal || t.Price <= 0,
			CatalogPrice:     t.Price,
			LabPrices:        make(map[uuid.UUID]float64, len(lp)),
			EstablishedPrice: Resolve(t, false, lp, s.markups),
		}
		for _, p := range lp {
			row.LabPrices[p.LabID] = p.Price
		}
		rows = append(rows, row)
	}
	return rows, labs, nil
}
