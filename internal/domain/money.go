package domain

import (
	"github.com/shopspring/decimal"
)

// PriceScale is the number of decimal places kept for currency amounts
const PriceScale = 2

// Money is a currency amount. It serializes with exactly PriceScale places,
// so 29.9 goes out as "29.90".
type Money struct {
	decimal.Decimal
}

// RoundPrice normalizes a currency amount to PriceScale places
func RoundPrice(d decimal.Decimal) Money {
	return Money{d.Round(PriceScale)}
}

func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(`"` + m.StringFixed(PriceScale) + `"`), nil
}
