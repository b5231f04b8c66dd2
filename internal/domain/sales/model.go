package sales

import (
	"time"

	"github.com/google/uuid"
)

// Sale test statuses. Transitions between them are free form: bench work is
// corrected by moving a test back as often as needed.
const (
	StatusPending     = "pending"
	StatusSampleTaken = "sample_taken"
	StatusInProgress  = "in_progress"
	StatusCompleted   = "completed"
)

// Sale statuses, derived from the tests and never set directly.
const (
	SaleActive    = "active"
	SaleCompleted = "completed"
)

// Payment types and methods.
const (
	PaymentComplete = "completo"
	PaymentCredit   = "credito"

	MethodCash = "efectivo"
	MethodBank = "banco"
)

// DefaultDurationHours is the turnaround assumed for tests without a
// catalog duration.
const DefaultDurationHours = 24

var validTestStatuses = map[string]bool{
	StatusPending:     true,
	StatusSampleTaken: true,
	StatusInProgress:  true,
	StatusCompleted:   true,
}

// ValidTestStatus reports whether s is a known sale test status.
func ValidTestStatus(s string) bool {
	return validTestStatuses[s]
}

// SaleTest maps to the sale_tests table: one ordered test within a sale,
// with a snapshot of the catalog name/category/price at assembly time.
type SaleTest struct {
	ID           uuid.UUID  `db:"id" json:"id"`
	SaleID       uuid.UUID  `db:"sale_id" json:"saleId"`
	TestID       uuid.UUID  `db:"test_id" json:"testId"`
	TestName     string     `db:"test_name" json:"testName"`
	Category     string     `db:"category" json:"category"`
	Price        float64    `db:"price" json:"price"`
	Status       string     `db:"status" json:"status"`
	DeliveryDate *time.Time `db:"delivery_date" json:"deliveryDate,omitempty"`
	Repetition   *int       `db:"repetition" json:"repetition,omitempty"`
	Control      *int       `db:"control" json:"control,omitempty"`
	Calibration  *int       `db:"calibration" json:"calibration,omitempty"`
	Result       *string    `db:"result" json:"result,omitempty"`
	CompletedAt  *time.Time `db:"completed_at" json:"completedAt,omitempty"`
	Delivered    bool       `db:"delivered" json:"delivered"`
}

// PaymentInfo is stored on the sale row. Change is what was handed back at
// the counter; an amount below the total is allowed (credit sales record the
// shortfall implicitly).
type PaymentInfo struct {
	AmountPaid    float64 `db:"payment_amount_paid" json:"amountPaid"`
	Change        float64 `db:"payment_change" json:"change"`
	PaymentType   string  `db:"payment_type" json:"paymentType"`
	PaymentMethod string  `db:"payment_method" json:"paymentMethod"`
	Observation   *string `db:"payment_observation" json:"observation,omitempty"`
}

// NewPaymentInfo fills payment defaults: a zero amount means paid in full,
// and untyped payments are complete cash payments.
func NewPaymentInfo(total, amountPaid float64, paymentType, paymentMethod string, observation *string) PaymentInfo {
	if amountPaid <= 0 {
		amountPaid = total
	}
	if paymentType == "" {
		paymentType = PaymentComplete
	}
	if paymentMethod == "" {
		paymentMethod = MethodCash
	}
	change := amountPaid - total
	if change < 0 {
		change = 0
	}
	return PaymentInfo{
		AmountPaid:    amountPaid,
		Change:        change,
		PaymentType:   paymentType,
		PaymentMethod: paymentMethod,
		Observation:   observation,
	}
}

// Sale maps to the sales table. Client and partner names are denormalized so
// that later registry edits never rewrite sale history.
type Sale struct {
	ID               uuid.UUID    `db:"id" json:"id"`
	ClientID         uuid.UUID    `db:"client_id" json:"clientId"`
	ClientName       string       `db:"client_name" json:"clientName"`
	ClientCode       string       `db:"client_code" json:"clientCode"`
	DoctorID         *uuid.UUID   `db:"doctor_id" json:"doctorId,omitempty"`
	DoctorName       *string      `db:"doctor_name" json:"doctorName,omitempty"`
	DoctorCommission *float64     `db:"doctor_commission" json:"doctorCommission,omitempty"`
	ReferralLabID    *uuid.UUID   `db:"referral_lab_id" json:"referralLabId,omitempty"`
	ReferralLabName  *string      `db:"referral_lab_name" json:"referralLabName,omitempty"`
	Tests            []SaleTest   `json:"tests"`
	Total            float64      `db:"total" json:"total"`
	Status           string       `db:"status" json:"status"`
	Payment          *PaymentInfo `json:"payment,omitempty"`
	CreatedAt        time.Time    `db:"created_at" json:"createdAt"`
}

// Quote maps to the quotes table: a priced set of tests with no client or
// payment attached. Converting a quote produces a sale and removes the quote.
type Quote struct {
	ID             uuid.UUID  `db:"id" json:"id"`
	Tests          []SaleTest `json:"tests"`
	Total          float64    `db:"total" json:"total"`
	ExpirationDate *time.Time `db:"expiration_date" json:"expirationDate,omitempty"`
	CreatedAt      time.Time  `db:"created_at" json:"createdAt"`
}

// ComputeSaleStatus derives the sale status from its tests: completed only
// when every test is completed. A sale with no tests is active.
func ComputeSaleStatus(tests []SaleTest) string {
	if len(tests) == 0 {
		return SaleActive
	}
	for _, t := range tests {
		if t.Status != StatusCompleted {
			return SaleActive
		}
	}
	return SaleCompleted
}
