package sales

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/labcore/lims/internal/domain/catalog"
	"github.com/labcore/lims/internal/domain/partner"
	"github.com/labcore/lims/internal/domain/registry"
)

// ClientDirectory is the slice of the client registry a sale needs: looking
// up the billed client or registering a walk-in on the spot.
type ClientDirectory interface {
	GetByID(ctx context.Context, id uuid.UUID) (*registry.Client, error)
	Create(ctx context.Context, c *registry.Client) error
}

// TestCatalog resolves ordered test IDs to their catalog entries.
type TestCatalog interface {
	GetByID(ctx context.Context, id uuid.UUID) (*catalog.Test, error)
}

// PriceResolver computes the charge for one test at assembly time.
type PriceResolver interface {
	ResolvePrice(ctx context.Context, testID uuid.UUID, useDerived bool) (float64, error)
}

// DoctorDirectory and LabDirectory credit referral earnings inside the sale
// creation transaction.
type DoctorDirectory interface {
	GetByID(ctx context.Context, id uuid.UUID) (*partner.Doctor, error)
	AddEarnings(ctx context.Context, id uuid.UUID, amount float64) error
}

type LabDirectory interface {
	GetByID(ctx context.Context, id uuid.UUID) (*partner.ReferralLab, error)
	AddEarnings(ctx context.Context, id uuid.UUID, amount float64) error
}

// TxRunner runs fn atomically. In production this wraps db.WithTx over the
// pool; tests pass a passthrough.
type TxRunner func(ctx context.Context, fn func(ctx context.Context) error) error

type Service struct {
	sales   SaleRepository
	quotes  QuoteRepository
	clients ClientDirectory
	tests   TestCatalog
	prices  PriceResolver
	doctors DoctorDirectory
	labs    LabDirectory
	runTx   TxRunner
	now     func() time.Time
}

func NewService(sales SaleRepository, quotes QuoteRepository, clients ClientDirectory,
	tests TestCatalog, prices PriceResolver, doctors DoctorDirectory, labs LabDirectory,
	runTx TxRunner) *Service {
	if runTx == nil {
		runTx = func(ctx context.Context, fn func(ctx context.Context) error) error {
			return fn(ctx)
		}
	}
	return &Service{
		sales:   sales,
		quotes:  quotes,
		clients: clients,
		tests:   tests,
		prices:  prices,
		doctors: doctors,
		labs:    labs,
		runTx:   runTx,
		now:     time.Now,
	}
}

// TestSelection is one ordered test, with an optional delivery override.
type TestSelection struct {
	TestID       uuid.UUID  `json:"testId"`
	DeliveryDate *time.Time `json:"deliveryDate,omitempty"`
}

// NewClientInput registers a walk-in client as part of sale creation.
type NewClientInput struct {
	Name     string  `json:"name"`
	Document string  `json:"document"`
	Email    *string `json:"email,omitempty"`
	Phone    *string `json:"phone,omitempty"`
	Age      *int    `json:"age,omitempty"`
}

type PaymentInput struct {
	AmountPaid    float64 `json:"amountPaid"`
	PaymentType   string  `json:"paymentType"`
	PaymentMethod string  `json:"paymentMethod"`
	Observation   *string `json:"observation,omitempty"`
}

type CreateSaleInput struct {
	ClientID        *uuid.UUID      `json:"clientId,omitempty"`
	NewClient       *NewClientInput `json:"newClient,omitempty"`
	DoctorID        *uuid.UUID      `json:"doctorId,omitempty"`
	ReferralLabID   *uuid.UUID      `json:"referralLabId,omitempty"`
	UseDerivedPrice bool            `json:"useDerivedPrice"`
	Tests           []TestSelection `json:"tests"`
	Payment         *PaymentInput   `json:"payment,omitempty"`
}

type CreateQuoteInput struct {
	Tests          []TestSelection `json:"tests"`
	ExpirationDate *time.Time      `json:"expirationDate,omitempty"`
}

// UpdateSaleTestInput is a partial update of one sale test from the bench.
type UpdateSaleTestInput struct {
	Status       *string    `json:"status,omitempty"`
	DeliveryDate *time.Time `json:"deliveryDate,omitempty"`
	Repetition   *int       `json:"repetition,omitempty"`
	Control      *int       `json:"control,omitempty"`
	Calibration  *int       `json:"calibration,omitempty"`
	Result       *string    `json:"result,omitempty"`
	Delivered    *bool      `json:"delivered,omitempty"`
}

// CreateSale assembles and persists a sale in a single transaction: client
// resolution, test pricing, the sale row with its tests, and the referral
// earnings credits. A failure at any step leaves nothing behind.
func (s *Service) CreateSale(ctx context.Context, in *CreateSaleInput) (*Sale, error) {
	if len(in.Tests) == 0 {
		return nil, fmt.Errorf("at least one test is required")
	}
	var sale *Sale
	err := s.runTx(ctx, func(ctx context.Context) error {
		var err error
		sale, err = s.assembleSale(ctx, in, nil)
		return err
	})
	if err != nil {
		return nil, err
	}
	return sale, nil
}

// ConvertQuote turns a quote into a sale. The quote's test snapshots and
// total are reused as-is, so the client pays what was quoted even if catalog
// or lab prices moved since. The quote is deleted in the same transaction.
func (s *Service) ConvertQuote(ctx context.Context, quoteID uuid.UUID, in *CreateSaleInput) (*Sale, error) {
	var sale *Sale
	err := s.runTx(ctx, func(ctx context.Context) error {
		q, err := s.quotes.GetByID(ctx, quoteID)
		if err != nil {
			return fmt.Errorf("quote not found")
		}
		sale, err = s.assembleSale(ctx, in, q)
		if err != nil {
			return err
		}
		return s.quotes.Delete(ctx, quoteID)
	})
	if err != nil {
		return nil, err
	}
	return sale, nil
}

// assembleSale does the shared work of CreateSale and ConvertQuote. It must
// run inside a transaction. When quote is non-nil its tests and frozen total
// take the place of resolved pricing.
func (s *Service) assembleSale(ctx context.Context, in *CreateSaleInput, quote *Quote) (*Sale, error) {
	client, err := s.resolveClient(ctx, in)
	if err != nil {
		return nil, err
	}

	sale := &Sale{
		ClientID:   client.ID,
		ClientName: client.Name,
		ClientCode: client.ClientCode,
	}

	var doctor *partner.Doctor
	if in.DoctorID != nil {
		doctor, err = s.doctors.GetByID(ctx, *in.DoctorID)
		if err != nil {
			return nil, fmt.Errorf("doctor not found")
		}
		sale.DoctorID = &doctor.ID
		sale.DoctorName = &doctor.Name
	}

	var lab *partner.ReferralLab
	if in.ReferralLabID != nil {
		lab, err = s.labs.GetByID(ctx, *in.ReferralLabID)
		if err != nil {
			return nil, fmt.Errorf("referral lab not found")
		}
		sale.ReferralLabID = &lab.ID
		sale.ReferralLabName = &lab.Name
	}

	if quote != nil {
		sale.Tests = s.testsFromQuote(quote)
		sale.Total = quote.Total
	} else {
		// The cashier toggles derived pricing per sale, independently of
		// whether a referral lab is attached.
		sale.Tests, sale.Total, err = s.assembleTests(ctx, in.Tests, in.UseDerivedPrice)
		if err != nil {
			return nil, err
		}
	}

	if doctor != nil {
		commission := doctor.Commission(sale.Total)
		sale.DoctorCommission = &commission
	}

	payment := PaymentInfo{}
	if in.Payment != nil {
		payment = NewPaymentInfo(sale.Total, in.Payment.AmountPaid,
			in.Payment.PaymentType, in.Payment.PaymentMethod, in.Payment.Observation)
	} else {
		payment = NewPaymentInfo(sale.Total, 0, "", "", nil)
	}
	sale.Payment = &payment
	sale.Status = ComputeSaleStatus(sale.Tests)

	if err := s.sales.Create(ctx, sale); err != nil {
		return nil, err
	}
	if doctor != nil {
		if err := s.doctors.AddEarnings(ctx, doctor.ID, *sale.DoctorCommission); err != nil {
			return nil, err
		}
	}
	if lab != nil {
		if err := s.labs.AddEarnings(ctx, lab.ID, sale.Total); err != nil {
			return nil, err
		}
	}
	return sale, nil
}

func (s *Service) resolveClient(ctx context.Context, in *CreateSaleInput) (*registry.Client, error) {
	switch {
	case in.ClientID != nil:
		client, err := s.clients.GetByID(ctx, *in.ClientID)
		if err != nil {
			return nil, fmt.Errorf("client not found")
		}
		return client, nil
	case in.NewClient != nil:
		nc := in.NewClient
		if nc.Name == "" || nc.Document == "" {
			return nil, fmt.Errorf("new client requires name and document")
		}
		client := &registry.Client{
			Name:       nc.Name,
			Document:   nc.Document,
			Email:      nc.Email,
			Phone:      nc.Phone,
			Age:        nc.Age,
			ClientCode: registry.GenerateClientCode(nc.Document, nc.Name),
		}
		if err := s.clients.Create(ctx, client); err != nil {
			return nil, err
		}
		return client, nil
	default:
		return nil, fmt.Errorf("client is required")
	}
}

func (s *Service) assembleTests(ctx context.Context, selections []TestSelection, useDerived bool) ([]SaleTest, float64, error) {
	var tests []SaleTest
	var total float64
	for _, sel := range selections {
		t, err := s.tests.GetByID(ctx, sel.TestID)
		if err != nil {
			return nil, 0, fmt.Errorf("test %s not found", sel.TestID)
		}
		price, err := s.prices.ResolvePrice(ctx, t.ID, useDerived)
		if err != nil {
			return nil, 0, err
		}
		tests = append(tests, SaleTest{
			TestID:       t.ID,
			TestName:     t.Name,
			Category:     t.Category,
			Price:        price,
			Status:       StatusPending,
			DeliveryDate: s.deliveryDate(sel.DeliveryDate, t.DurationHours),
		})
		total += price
	}
	return tests, total, nil
}

func (s *Service) deliveryDate(override *time.Time, durationHours *int) *time.Time {
	if override != nil {
		return override
	}
	hours := DefaultDurationHours
	if durationHours != nil && *durationHours > 0 {
		hours = *durationHours
	}
	d := s.now().Add(time.Duration(hours) * time.Hour)
	return &d
}

// testsFromQuote copies quote test snapshots into fresh pending sale tests.
func (s *Service) testsFromQuote(q *Quote) []SaleTest {
	tests := make([]SaleTest, len(q.Tests))
	for i, qt := range q.Tests {
		d := s.now().Add(DefaultDurationHours * time.Hour)
		tests[i] = SaleTest{
			TestID:       qt.TestID,
			TestName:     qt.TestName,
			Category:     qt.Category,
			Price:        qt.Price,
			Status:       StatusPending,
			DeliveryDate: &d,
		}
	}
	return tests
}

func (s *Service) GetSale(ctx context.Context, id uuid.UUID) (*Sale, error) {
	return s.sales.GetByID(ctx, id)
}

func (s *Service) ListSales(ctx context.Context, limit, offset int) ([]*Sale, int, error) {
	return s.sales.List(ctx, limit, offset)
}

// UpdateSaleTest applies a bench-side patch to one test of a sale and
// re-derives the sale status, both in one transaction. Moving a test out of
// completed keeps its CompletedAt stamp. Delivery can only be flagged on a
// completed test.
func (s *Service) UpdateSaleTest(ctx context.Context, saleID, saleTestID uuid.UUID, in *UpdateSaleTestInput) (*SaleTest, error) {
	var updated *SaleTest
	err := s.runTx(ctx, func(ctx context.Context) error {
		st, err := s.sales.GetSaleTest(ctx, saleID, saleTestID)
		if err != nil {
			return fmt.Errorf("sale test not found")
		}
		if in.Status != nil {
			if !ValidTestStatus(*in.Status) {
				return fmt.Errorf("invalid status %q", *in.Status)
			}
			if *in.Status == StatusCompleted && st.Status != StatusCompleted {
				now := s.now()
				st.CompletedAt = &now
			}
			st.Status = *in.Status
		}
		if in.DeliveryDate != nil {
			st.DeliveryDate = in.DeliveryDate
		}
		if in.Repetition != nil {
			st.Repetition = in.Repetition
		}
		if in.Control != nil {
			st.Control = in.Control
		}
		if in.Calibration != nil {
			st.Calibration = in.Calibration
		}
		if in.Result != nil {
			st.Result = in.Result
		}
		if in.Delivered != nil {
			if *in.Delivered && st.Status != StatusCompleted {
				return fmt.Errorf("only completed tests can be delivered")
			}
			st.Delivered = *in.Delivered
		}
		if err := s.sales.UpdateSaleTest(ctx, st); err != nil {
			return err
		}
		tests, err := s.sales.ListSaleTests(ctx, saleID)
		if err != nil {
			return err
		}
		if err := s.sales.UpdateStatus(ctx, saleID, ComputeSaleStatus(tests)); err != nil {
			return err
		}
		updated = st
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// CreateQuote prices a set of tests without a client. Quotes always use
// normal pricing.
func (s *Service) CreateQuote(ctx context.Context, in *CreateQuoteInput) (*Quote, error) {
	if len(in.Tests) == 0 {
		return nil, fmt.Errorf("at least one test is required")
	}
	tests, total, err := s.assembleTests(ctx, in.Tests, false)
	if err != nil {
		return nil, err
	}
	for i := range tests {
		tests[i].DeliveryDate = nil
	}
	q := &Quote{
		Tests:          tests,
		Total:          total,
		ExpirationDate: in.ExpirationDate,
	}
	if err := s.quotes.Create(ctx, q); err != nil {
		return nil, err
	}
	return q, nil
}

func (s *Service) GetQuote(ctx context.Context, id uuid.UUID) (*Quote, error) {
	return s.quotes.GetByID(ctx, id)
}

func (s *Service) ListQuotes(ctx context.Context, limit, offset int) ([]*Quote, int, error) {
	return s.quotes.List(ctx, limit, offset)
}

func (s *Service) DeleteQuote(ctx context.Context, id uuid.UUID) error {
	return s.quotes.Delete(ctx, id)
}
