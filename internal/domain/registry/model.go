package registry

import (
	"time"
	"unicode"

	"github.com/google/uuid"
)

// Client maps to the clients table. A client is the patient the lab work is
// billed to; sales keep a denormalized copy of the name and code so that
// later edits here never rewrite sale history.
type Client struct {
	ID         uuid.UUID `db:"id" json:"id"`
	Name       string    `db:"name" json:"name"`
	Email      *string   `db:"email" json:"email,omitempty"`
	Phone      *string   `db:"phone" json:"phone,omitempty"`
	Document   string    `db:"document" json:"document"`
	ClientCode string    `db:"client_code" json:"clientCode"`
	Age        *int      `db:"age" json:"age,omitempty"`
	CreatedAt  time.Time `db:"created_at" json:"createdAt"`
}

// GenerateClientCode derives the display code for a client from its identity
// document and name: the first three digits of the document joined with the
// first three letters of the name, uppercased. Short inputs are padded with
// '0' and 'X' respectively, so the code always has the form "DDD-LLL".
func GenerateClientCode(document, name string) string {
	var digits []rune
	for _, r := range document {
		if unicode.IsDigit(r) {
			digits = append(digits, r)
			if len(digits) == 3 {
				break
			}
		}
	}
	for len(digits) < 3 {
		digits = append(digits, '0')
	}

	var letters []rune
	for _, r := range name {
		if unicode.IsLetter(r) {
			letters = append(letters, unicode.ToUpper(r))
			if len(letters) == 3 {
				break
			}
		}
	}
	for len(letters) < 3 {
		letters = append(letters, 'X')
	}

	return string(digits) + "-" + string(letters)
}
