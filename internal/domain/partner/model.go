package partner

import (
	"time"

	"github.com/google/uuid"
)

// DefaultCommissionPercentage applies when a doctor is created without an
// explicit commission.
const DefaultCommissionPercentage = 20.0

// Doctor maps to the doctors table. TotalEarned accumulates commission from
// every sale the doctor referred; it is never decremented.
type Doctor struct {
	ID                   uuid.UUID `db:"id" json:"id"`
	Name                 string    `db:"name" json:"name"`
	LicenseNumber        *string   `db:"license_number" json:"licenseNumber,omitempty"`
	Phone                *string   `db:"phone" json:"phone,omitempty"`
	Address              *string   `db:"address" json:"address,omitempty"`
	CommissionPercentage float64   `db:"commission_percentage" json:"commissionPercentage"`
	TotalEarned          float64   `db:"total_earned" json:"totalEarned"`
	CreatedAt            time.Time `db:"created_at" json:"createdAt"`
}

// Commission returns the doctor's cut of a sale total.
func (d *Doctor) Commission(total float64) float64 {
	return total * d.CommissionPercentage / 100
}

// ReferralLab maps to the referral_labs table. A referral lab ("derivado")
// sends clients to us and is credited the full sale total.
type ReferralLab struct {
	ID          uuid.UUID `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Phone       *string   `db:"phone" json:"phone,omitempty"`
	TotalEarned float64   `db:"total_earned" json:"totalEarned"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
}
