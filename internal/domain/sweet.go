package domain

import (
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Limits of the sweets table columns: quantity is INTEGER, price is DECIMAL(10,2)
const MaxQuantity = math.MaxInt32

var MaxPrice = decimal.RequireFromString("99999999.99")

// Sweet represents a purchasable item in the catalog
type Sweet struct {
	ID          uuid.UUID `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Category    string    `json:"category" db:"category"`
	Price       Money     `json:"price" db:"price"`
	Quantity    int       `json:"quantity" db:"quantity"`
	Description *string   `json:"description,omitempty" db:"description"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// SweetFilter narrows a catalog search. Nil fields impose no constraint.
type SweetFilter struct {
	Name     *string
	Category *string
	MinPrice *decimal.Decimal
	MaxPrice *decimal.Decimal
}

// Matches reports whether s satisfies every constraint set on f. It is the
// in-memory statement of the search rules the repository expresses in SQL:
// case-insensitive substrings and inclusive price bounds.
func (f SweetFilter) Matches(s *Sweet) bool {
	if f.Name != nil && !containsFold(s.Name, *f.Name) {
		return false
	}
	if f.Category != nil && !containsFold(s.Category, *f.Category) {
		return false
	}
	if f.MinPrice != nil && s.Price.LessThan(*f.MinPrice) {
		return false
	}
	if f.MaxPrice != nil && s.Price.GreaterThan(*f.MaxPrice) {
		return false
	}
	return true
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
