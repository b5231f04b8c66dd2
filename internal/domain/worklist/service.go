package worklist

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

type Service struct {
	sales       SaleSource
	assignments AssignmentRepository
	tests       TestSource
	prices      PriceSource
}

func NewService(sales SaleSource, assignments AssignmentRepository, tests TestSource, prices PriceSource) *Service {
	return &Service{sales: sales, assignments: assignments, tests: tests, prices: prices}
}

// PendingEntries lists every not-yet-completed sale test across all sales.
func (s *Service) PendingEntries(ctx context.Context) ([]Entry, error) {
	saleList, err := s.sales.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	return Pending(Flatten(saleList)), nil
}

// Matrix builds the bench worksheet over every sale test, completed ones
// included: a finished cell keeps showing its result and can be reopened
// from the sheet. Optionally restricted to one category.
func (s *Service) Matrix(ctx context.Context, category string) (Matrix, error) {
	saleList, err := s.sales.ListAll(ctx)
	if err != nil {
		return Matrix{}, err
	}
	return BuildMatrix(Flatten(saleList), category), nil
}

// Referrals lists the pending externally sourced tests with every lab that
// prices them. Tests without a persisted assignment default to the
// best-paying lab; the default carries a zero assignment ID.
func (s *Service) Referrals(ctx context.Context) ([]ReferralEntry, error) {
	entries, err := s.PendingEntries(ctx)
	if err != nil {
		return nil, err
	}
	var out []ReferralEntry
	for _, e := range entries {
		t, err := s.tests.GetByID(ctx, e.Test.TestID)
		if err != nil {
			continue
		}
		if t.Price > 0 && !t.IsExternal {
			continue
		}
		labs, err := s.prices.ListPricesByTest(ctx, e.Test.TestID)
		if err != nil {
			return nil, err
		}
		a, err := s.assignments.GetBySaleTest(ctx, e.Test.ID)
		if err != nil {
			a = nil
			if labID, _, lerr := s.prices.BestLabForTest(ctx, e.Test.TestID); lerr == nil && labID != uuid.Nil {
				a = &ReferralAssignment{SaleID: e.SaleID, SaleTestID: e.Test.ID, LabID: labID}
			}
		}
		out = append(out, ReferralEntry{Entry: e, Labs: labs, Assignment: a})
	}
	return out, nil
}

// Dispatch sends a sale test to an external lab. When labID is nil the
// best-paying lab for the test is chosen. Dispatching the same test again
// moves it to the new lab.
func (s *Service) Dispatch(ctx context.Context, saleID, saleTestID uuid.UUID, labID *uuid.UUID) (*ReferralAssignment, error) {
	st, err := s.sales.GetSaleTest(ctx, saleID, saleTestID)
	if err != nil {
		return nil, fmt.Errorf("sale test not found")
	}

	target := uuid.Nil
	if labID != nil {
		target = *labID
	} else {
		target, _, err = s.prices.BestLabForTest(ctx, st.TestID)
		if err != nil {
			return nil, err
		}
	}
	if target == uuid.Nil {
		return nil, fmt.Errorf("no external lab available for this test")
	}

	a := &ReferralAssignment{
		SaleID:     saleID,
		SaleTestID: saleTestID,
		LabID:      target,
	}
	if err := s.assignments.Upsert(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

// Assignments lists the referral assignments of one sale.
func (s *Service) Assignments(ctx context.Context, saleID uuid.UUID) ([]*ReferralAssignment, error) {
	return s.assignments.ListBySale(ctx, saleID)
}

// Recall removes the assignment of a sale test, keeping the work in house.
func (s *Service) Recall(ctx context.Context, saleTestID uuid.UUID) error {
	return s.assignments.Delete(ctx, saleTestID)
}
