package pricing

import (
	"testing"

	"github.com/google/uuid"

	"github.com/labcore/lims/internal/domain/catalog"
)

var testMarkups = Markups{Normal: 30, Derived: 10}

func fptr(f float64) *float64 { return &f }

func TestResolve_InternalPrice(t *testing.T) {
	tt := &catalog.Test{Price: 150}
	if got := Resolve(tt, false, nil, testMarkups); got != 150 {
		t.Errorf("expected 150, got %v", got)
	}
}

func TestResolve_DerivedPrice(t *testing.T) {
	tt := &catalog.Test{Price: 150, DerivedPrice: fptr(120)}
	if got := Resolve(tt, true, nil, testMarkups); got != 120 {
		t.Errorf("expected derived price 120, got %v", got)
	}
}

func TestResolve_DerivedFallsBackToPrice(t *testing.T) {
	tt := &catalog.Test{Price: 150}
	if got := Resolve(tt, true, nil, testMarkups); got != 150 {
		t.Errorf("expected fallback to 150, got %v", got)
	}

	tt.DerivedPrice = fptr(0)
	if got := Resolve(tt, true, nil, testMarkups); got != 150 {
		t.Errorf("expected fallback to 150 for zero derived price, got %v", got)
	}
}

func TestResolve_ExternalNormalMarkup(t *testing.T) {
	tt := &catalog.Test{Price: 0}
	prices := []LabPrice{
		{LabID: uuid.New(), Price: 80},
		{LabID: uuid.New(), Price: 95},
		{LabID: uuid.New(), Price: 60},
	}
	if got := Resolve(tt, false, prices, testMarkups); got != 125 {
		t.Errorf("expected 95+30=125, got %v", got)
	}
}

func TestResolve_ExternalDerivedMarkup(t *testing.T) {
	tt := &catalog.Test{Price: 0}
	prices := []LabPrice{{LabID: uuid.New(), Price: 95}}
	if got := Resolve(tt, true, prices, testMarkups); got != 105 {
		t.Errorf("expected 95+10=105, got %v", got)
	}
}

func TestResolve_ExternalFlagWinsOverPrice(t *testing.T) {
	// A positive catalog price is ignored when the test is flagged external.
	tt := &catalog.Test{Price: 200, IsExternal: true}
	prices := []LabPrice{{LabID: uuid.New(), Price: 50}}
	if got := Resolve(tt, false, prices, testMarkups); got != 80 {
		t.Errorf("expected 50+30=80, got %v", got)
	}
}

func TestResolve_ExternalNoLabPrices(t *testing.T) {
	tt := &catalog.Test{Price: 0}
	if got := Resolve(tt, false, nil, testMarkups); got != 0 {
		t.Errorf("expected 0 when no lab prices the test, got %v", got)
	}
}

func TestBestLab(t *testing.T) {
	a, b := uuid.New(), uuid.New()
	prices := []LabPrice{
		{LabID: a, Price: 80},
		{LabID: b, Price: 95},
	}
	labID, price := BestLab(prices)
	if labID != b || price != 95 {
		t.Errorf("expected lab %v at 95, got %v at %v", b, labID, price)
	}
}

func TestBestLab_Empty(t *testing.T) {
	labID, price := BestLab(nil)
	if labID != uuid.Nil || price != 0 {
		t.Errorf("expected nil lab and 0, got %v at %v", labID, price)
	}
}
