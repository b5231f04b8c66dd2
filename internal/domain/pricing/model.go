package pricing

import (
	"time"

	"github.com/google/uuid"

	"github.com/labcore/lims/internal/domain/catalog"
)

// ExternalLab maps to the external_labs table: a lab we send samples to
// when a test is not run in house.
type ExternalLab struct {
	ID        uuid.UUID `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Phone     *string   `db:"phone" json:"phone,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// LabPrice maps to the lab_prices table: what a given external lab charges
// us for a given test. One row per (test, lab).
type LabPrice struct {
	TestID uuid.UUID `db:"test_id" json:"testId"`
	LabID  uuid.UUID `db:"lab_id" json:"labId"`
	Price  float64   `db:"price" json:"price"`
}

// Markups are the flat amounts added on top of the best external lab price
// when charging the client. Loaded from configuration.
type Markups struct {
	Normal  float64
	Derived float64
}

// Resolve computes the price charged for a test at sale time.
//
// Internally priced tests charge the catalog price, or the derived price
// when the sale goes through a referral lab and a positive derived price is
// set. Externally sourced tests (zero price or flagged external) charge the
// highest external lab price plus the applicable markup, or 0 when no lab
// prices this test yet.
func Resolve(t *catalog.Test, useDerived bool, labPrices []LabPrice, m Markups) float64 {
	if t.Price > 0 && !t.IsExternal {
		if useDerived && t.DerivedPrice != nil && *t.DerivedPrice > 0 {
			return *t.DerivedPrice
		}
		return t.Price
	}

	_, best := BestLab(labPrices)
	if best <= 0 {
		return 0
	}
	if useDerived {
		return best + m.Derived
	}
	return best + m.Normal
}

// BestLab returns the external lab with the highest positive price for a
// test, which is where the sample is sent by default. Returns uuid.Nil and
// 0 when no lab prices the test.
func BestLab(labPrices []LabPrice) (uuid.UUID, float64) {
	var labID uuid.UUID
	var best float64
	for _, lp := range labPrices {
		if lp.Price > best {
			best = lp.Price
			labID = lp.LabID
		}
	}
	return labID, best
}
