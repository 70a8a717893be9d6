package domain

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMoneyMarshalsWithTwoPlaces(t *testing.T) {
	for in, want := range map[string]string{
		"29.9":  `"29.90"`,
		"2":     `"2.00"`,
		"0":     `"0.00"`,
		"1.005": `"1.01"`,
		"0.5":   `"0.50"`,
	} {
		raw, err := json.Marshal(RoundPrice(decimal.RequireFromString(in)))
		require.NoError(t, err)
		assert.Equal(t, want, string(raw), "amount %s", in)
	}

	raw, err := json.Marshal(Money{})
	require.NoError(t, err)
	assert.Equal(t, `"0.00"`, string(raw))
}

func TestMoneyInsideStructs(t *testing.T) {
	raw, err := json.Marshal(&Purchase{
		PriceAtPurchase: RoundPrice(decimal.RequireFromString("2.99")),
		TotalAmount:     RoundPrice(decimal.RequireFromString("29.9")),
	})
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"price_at_purchase":"2.99"`)
	assert.Contains(t, string(raw), `"total_amount":"29.90"`)
}

func TestMoneyUnmarshalAcceptsStringsAndNumbers(t *testing.T) {
	var fromString, fromNumber Money
	require.NoError(t, json.Unmarshal([]byte(`"29.90"`), &fromString))
	require.NoError(t, json.Unmarshal([]byte(`29.9`), &fromNumber))

	assert.True(t, fromString.Equal(fromNumber.Decimal))
	assert.Equal(t, "29.90", fromNumber.StringFixed(2))
}
