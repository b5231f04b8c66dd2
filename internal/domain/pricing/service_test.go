package pricing

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"

	"github.com/labcore/lims/internal/domain/catalog"
)

type mockExtLabRepo struct {
	labs map[uuid.UUID]*ExternalLab
}

func newMockExtLabRepo() *mockExtLabRepo {
	return &mockExtLabRepo{labs: make(map[uuid.UUID]*ExternalLab)}
}

func (m *mockExtLabRepo) Create(ctx context.Context, l *ExternalLab) error {
	l.ID = uuid.New()
	m.labs[l.ID] = l
	return nil
}

func (m *mockExtLabRepo) GetByID(ctx context.Context, id uuid.UUID) (*ExternalLab, error) {
	l, ok := m.labs[id]
	if !ok {
		return nil, fmt.Errorf("not found")
	}
	return l, nil
}

func (m *mockExtLabRepo) Update(ctx context.Context, l *ExternalLab) error {
	m.labs[l.ID] = l
	return nil
}

func (m *mockExtLabRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(m.labs, id)
	return nil
}

func (m *mockExtLabRepo) List(ctx context.Context) ([]*ExternalLab, error) {
	var items []*ExternalLab
	for _, l := range m.labs {
		items = append(items, l)
	}
	return items, nil
}

type mockLabPriceRepo struct {
	prices map[string]LabPrice
}

func newMockLabPriceRepo() *mockLabPriceRepo {
	return &mockLabPriceRepo{prices: make(map[string]LabPrice)}
}

func priceKey(testID, labID uuid.UUID) string {
	return testID.String() + "/" + labID.String()
}

func (m *mockLabPriceRepo) Upsert(ctx context.Context, p *LabPrice) error {
	m.prices[priceKey(p.TestID, p.LabID)] = *p
	return nil
}

func (m *mockLabPriceRepo) Delete(ctx context.Context, testID, labID uuid.UUID) error {
	delete(m.prices, priceKey(testID, labID))
	return nil
}

func (m *mockLabPriceRepo) ListByTest(ctx context.Context, testID uuid.UUID) ([]LabPrice, error) {
	var items []LabPrice
	for _, p := range m.prices {
		if p.TestID == testID {
			items = append(items, p)
		}
	}
	return items, nil
}

func (m *mockLabPriceRepo) ListAll(ctx context.Context) ([]LabPrice, error) {
	var items []LabPrice
	for _, p := range m.prices {
		items = append(items, p)
	}
	return items, nil
}

type mockTestRepo struct {
	tests map[uuid.UUID]*catalog.Test
}

func newMockTestRepo() *mockTestRepo {
	return &mockTestRepo{tests: make(map[uuid.UUID]*catalog.Test)}
}

func (m *mockTestRepo) add(t *catalog.Test) *catalog.Test {
	t.ID = uuid.New()
	m.tests[t.ID] = t
	return t
}

func (m *mockTestRepo) Create(ctx context.Context, t *catalog.Test) error {
	m.add(t)
	return nil
}

func (m *mockTestRepo) GetByID(ctx context.Context, id uuid.UUID) (*catalog.Test, error) {
	t, ok := m.tests[id]
	if !ok {
		return nil, fmt.Errorf("not found")
	}
	return t, nil
}

func (m *mockTestRepo) Update(ctx context.Context, t *catalog.Test) error { return nil }
func (m *mockTestRepo) Delete(ctx context.Context, id uuid.UUID) error    { return nil }

func (m *mockTestRepo) List(ctx context.Context, category string, limit, offset int) ([]*catalog.Test, int, error) {
	all, _ := m.ListAll(ctx)
	return all, len(all), nil
}

func (m *mockTestRepo) ListAll(ctx context.Context) ([]*catalog.Test, error) {
	var items []*catalog.Test
	for _, t := range m.tests {
		items = append(items, t)
	}
	return items, nil
}

func newTestService() (*Service, *mockExtLabRepo, *mockLabPriceRepo, *mockTestRepo) {
	labs := newMockExtLabRepo()
	prices := newMockLabPriceRepo()
	tests := newMockTestRepo()
	return NewService(labs, prices, tests, testMarkups), labs, prices, tests
}

func TestSetLabPrice_UnknownTest(t *testing.T) {
	svc, labs, _, _ := newTestService()
	l := &ExternalLab{Name: "Lab Uno"}
	labs.Create(context.Background(), l)

	err := svc.SetLabPrice(context.Background(), &LabPrice{TestID: uuid.New(), LabID: l.ID, Price: 10})
	if err == nil {
		t.Fatal("expected error for unknown test")
	}
}

func TestSetLabPrice_UpsertOverwrites(t *testing.T) {
	svc, labs, prices, tests := newTestService()
	l := &ExternalLab{Name: "Lab Uno"}
	labs.Create(context.Background(), l)
	tt := tests.add(&catalog.Test{Name: "Glucosa", Category: "quimica"})

	if err := svc.SetLabPrice(context.Background(), &LabPrice{TestID: tt.ID, LabID: l.ID, Price: 40}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := svc.SetLabPrice(context.Background(), &LabPrice{TestID: tt.ID, LabID: l.ID, Price: 55}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, _ := prices.ListByTest(context.Background(), tt.ID)
	if len(got) != 1 || got[0].Price != 55 {
		t.Errorf("expected single price 55, got %v", got)
	}
}

func TestResolvePrice_External(t *testing.T) {
	svc, labs, _, tests := newTestService()
	l := &ExternalLab{Name: "Lab Uno"}
	labs.Create(context.Background(), l)
	tt := tests.add(&catalog.Test{Name: "Cultivo", Category: "microbiologia", Price: 0})

	svc.SetLabPrice(context.Background(), &LabPrice{TestID: tt.ID, LabID: l.ID, Price: 70})

	price, err := svc.ResolvePrice(context.Background(), tt.ID, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if price != 100 {
		t.Errorf("expected 70+30=100, got %v", price)
	}
}

func TestPriceTable(t *testing.T) {
	svc, labs, _, tests := newTestService()
	l := &ExternalLab{Name: "Lab Uno"}
	labs.Create(context.Background(), l)
	tests.add(&catalog.Test{Name: "Hemograma", Category: "hematologia", Price: 150})
	external := tests.add(&catalog.Test{Name: "Cultivo", Category: "microbiologia", Price: 0})
	svc.SetLabPrice(context.Background(), &LabPrice{TestID: external.ID, LabID: l.ID, Price: 70})

	rows, tableLabs, err := svc.PriceTable(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if len(tableLabs) != 1 {
		t.Fatalf("expected 1 lab, got %d", len(tableLabs))
	}

	byName := make(map[string]PriceTableRow)
	for _, r := range rows {
		byName[r.TestName] = r
	}
	if byName["Hemograma"].EstablishedPrice != 150 {
		t.Errorf("expected internal price 150, got %v", byName["Hemograma"].EstablishedPrice)
	}
	if byName["Hemograma"].IsExternal {
		t.Error("internal test marked external")
	}
	if byName["Cultivo"].EstablishedPrice != 100 {
		t.Errorf("expected external price 100, got %v", byName["Cultivo"].EstablishedPrice)
	}
	if byName["Cultivo"].LabPrices[l.ID] != 70 {
		t.Errorf("expected lab price 70, got %v", byName["Cultivo"].LabPrices[l.ID])
	}
	if !byName["Cultivo"].IsExternal {
		t.Error("zero-priced test should be marked external")
	}
}
