package catalog

import (
	"time"

	"github.com/google/uuid"
)

// Test maps to the tests table. Price semantics: a positive Price is charged
// directly; a zero Price (or IsExternal) means the work is sent out and the
// charge is derived from the external lab price table at sale time.
type Test struct {
	ID            uuid.UUID  `db:"id" json:"id"`
	Name          string     `db:"name" json:"name"`
	Abbreviation  *string    `db:"abbreviation" json:"abbreviation,omitempty"`
	Category      string     `db:"category" json:"category"`
	Price         float64    `db:"price" json:"price"`
	DerivedPrice  *float64   `db:"derived_price" json:"derivedPrice,omitempty"`
	DurationHours *int       `db:"duration_hours" json:"durationHours,omitempty"`
	IsExternal    bool       `db:"is_external" json:"isExternal"`
	CreatedAt     time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt     *time.Time `db:"updated_at" json:"updatedAt,omitempty"`
}

// Categories is the fixed set of test categories, in worksheet display order.
var Categories = []string{
	"hematologia",
	"copros",
	"quimica",
	"inmunologia",
	"microbiologia",
	"orina",
}

var validCategories = func() map[string]bool {
	m := make(map[string]bool, len(Categories))
	for _, c := range Categories {
		m[c] = true
	}
	return m
}()

// ValidCategory reports whether cat is one of the known categories.
func ValidCategory(cat string) bool {
	return validCategories[cat]
}
