package partner

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
)

type mockDoctorRepo struct {
	doctors map[uuid.UUID]*Doctor
}

func newMockDoctorRepo() *mockDoctorRepo {
	return &mockDoctorRepo{doctors: make(map[uuid.UUID]*Doctor)}
}

func (m *mockDoctorRepo) Create(ctx context.Context, d *Doctor) error {
	d.ID = uuid.New()
	m.doctors[d.ID] = d
	return nil
}

func (m *mockDoctorRepo) GetByID(ctx context.Context, id uuid.UUID) (*Doctor, error) {
	d, ok := m.doctors[id]
	if !ok {
		return nil, fmt.Errorf("not found")
	}
	return d, nil
}

func (m *mockDoctorRepo) Update(ctx context.Context, d *Doctor) error {
	if _, ok := m.doctors[d.ID]; !ok {
		return fmt.Errorf("not found")
	}
	m.doctors[d.ID] = d
	return nil
}

func (m *mockDoctorRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(m.doctors, id)
	return nil
}

func (m *mockDoctorRepo) List(ctx context.Context, limit, offset int) ([]*Doctor, int, error) {
	var items []*Doctor
	for _, d := range m.doctors {
		items = append(items, d)
	}
	return items, len(items), nil
}

func (m *mockDoctorRepo) AddEarnings(ctx context.Context, id uuid.UUID, amount float64) error {
	d, ok := m.doctors[id]
	if !ok {
		return fmt.Errorf("not found")
	}
	d.TotalEarned += amount
	return nil
}

type mockLabRepo struct {
	labs map[uuid.UUID]*ReferralLab
}

func newMockLabRepo() *mockLabRepo {
	return &mockLabRepo{labs: make(map[uuid.UUID]*ReferralLab)}
}

func (m *mockLabRepo) Create(ctx context.Context, l *ReferralLab) error {
	l.ID = uuid.New()
	m.labs[l.ID] = l
	return nil
}

func (m *mockLabRepo) GetByID(ctx context.Context, id uuid.UUID) (*ReferralLab, error) {
	l, ok := m.labs[id]
	if !ok {
		return nil, fmt.Errorf("not found")
	}
	return l, nil
}

func (m *mockLabRepo) Update(ctx context.Context, l *ReferralLab) error {
	if _, ok := m.labs[l.ID]; !ok {
		return fmt.Errorf("not found")
	}
	m.labs[l.ID] = l
	return nil
}

func (m *mockLabRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(m.labs, id)
	return nil
}

func (m *mockLabRepo) List(ctx context.Context, limit, offset int) ([]*ReferralLab, int, error) {
	var items []*ReferralLab
	for _, l := range m.labs {
		items = append(items, l)
	}
	return items, len(items), nil
}

func (m *mockLabRepo) AddEarnings(ctx context.Context, id uuid.UUID, amount float64) error {
	l, ok := m.labs[id]
	if !ok {
		return fmt.Errorf("not found")
	}
	l.TotalEarned += amount
	return nil
}

func TestCreateDoctor_DefaultCommission(t *testing.T) {
	svc := NewService(newMockDoctorRepo(), newMockLabRepo())
	d := &Doctor{Name: "Dr. Perez"}
	if err := svc.CreateDoctor(context.Background(), d); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.CommissionPercentage != DefaultCommissionPercentage {
		t.Errorf("expected default commission %v, got %v", DefaultCommissionPercentage, d.CommissionPercentage)
	}
}

func TestCreateDoctor_NameRequired(t *testing.T) {
	svc := NewService(newMockDoctorRepo(), newMockLabRepo())
	if err := svc.CreateDoctor(context.Background(), &Doctor{}); err == nil {
		t.Fatal("expected error for missing name")
	}
}

func TestCreateDoctor_InvalidCommission(t *testing.T) {
	svc := NewService(newMockDoctorRepo(), newMockLabRepo())
	if err := svc.CreateDoctor(context.Background(), &Doctor{Name: "Dr. Perez", CommissionPercentage: 150}); err == nil {
		t.Fatal("expected error for commission above 100")
	}
}

func TestDoctor_Commission(t *testing.T) {
	d := &Doctor{CommissionPercentage: 20}
	if got := d.Commission(250); got != 50 {
		t.Errorf("expected commission 50, got %v", got)
	}
	d.CommissionPercentage = 0
	if got := d.Commission(250); got != 0 {
		t.Errorf("expected commission 0, got %v", got)
	}
}

func TestUpdateDoctor_PreservesEarnings(t *testing.T) {
	repo := newMockDoctorRepo()
	svc := NewService(repo, newMockLabRepo())
	d := &Doctor{Name: "Dr. Perez", CommissionPercentage: 20}
	if err := svc.CreateDoctor(context.Background(), d); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := svc.AddDoctorEarnings(context.Background(), d.ID, 80); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	updated := &Doctor{ID: d.ID, Name: "Dr. Perez", CommissionPercentage: 25, TotalEarned: 0}
	if err := svc.UpdateDoctor(context.Background(), updated); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.TotalEarned != 80 {
		t.Errorf("expected earnings 80 to be preserved, got %v", updated.TotalEarned)
	}
}

func TestAddDoctorEarnings_Accumulates(t *testing.T) {
	repo := newMockDoctorRepo()
	svc := NewService(repo, newMockLabRepo())
	d := &Doctor{Name: "Dr. Perez"}
	svc.CreateDoctor(context.Background(), d)

	svc.AddDoctorEarnings(context.Background(), d.ID, 40)
	svc.AddDoctorEarnings(context.Background(), d.ID, 25)

	got, _ := repo.GetByID(context.Background(), d.ID)
	if got.TotalEarned != 65 {
		t.Errorf("expected accumulated earnings 65, got %v", got.TotalEarned)
	}
}

func TestAddDoctorEarnings_NegativeRejected(t *testing.T) {
	svc := NewService(newMockDoctorRepo(), newMockLabRepo())
	if err := svc.AddDoctorEarnings(context.Background(), uuid.New(), -5); err == nil {
		t.Fatal("expected error for negative earnings")
	}
}

func TestAddLabEarnings_Accumulates(t *testing.T) {
	labs := newMockLabRepo()
	svc := NewService(newMockDoctorRepo(), labs)
	l := &ReferralLab{Name: "Lab Central"}
	svc.CreateReferralLab(context.Background(), l)

	svc.AddLabEarnings(context.Background(), l.ID, 100)
	svc.AddLabEarnings(context.Background(), l.ID, 150)

	got, _ := labs.GetByID(context.Background(), l.ID)
	if got.TotalEarned != 250 {
		t.Errorf("expected accumulated earnings 250, got %v", got.TotalEarned)
	}
}
