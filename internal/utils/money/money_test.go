package money_test

import (
	"encoding/json"
	"testing"

	"github.com/domohq/domo_backend/internal/utils/money"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToDecimal(t *testing.T) {
	tests := []struct {
		name  string
		input any
		want  string
	}{
		{"nil", nil, "0"},
		{"int", 42, "42"},
		{"float rounds to cents", 10.005, "10.01"},
		{"dot decimal string", "12.50", "12.5"},
		{"comma decimal string", "12,50", "12.5"},
		{"brazilian thousands", "1.234,56", "1234.56"},
		{"us thousands", "1,234.56", "1234.56"},
		{"currency symbol", "R$ 10,00", "10"},
		{"repeated dots are thousands", "1.000.000", "1000000"},
		{"negative", "-3,20", "-3.2"},
		{"garbage", "abc", "0"},
		{"empty", "", "0"},
		{"lone separator", ",", "0"},
		{"unsupported type", struct{}{}, "0"},
		{"decimal passthrough", decimal.RequireFromString("7.129"), "7.13"},
		{"json number", json.Number("99.9"), "99.9"},
		{"exponent string", "1e3", "1000"},
		{"exponent json number", json.Number("2.5E2"), "250"},
		{"negative exponent", "1.5e-1", "0.15"},
		{"padded plain number", "  42.10 ", "42.1"},
		{"absurd exponent", "1e400", "0"},
		{"long fraction", "0.1234567890123456789", "0.12"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := money.ToDecimal(tt.input)
			assert.True(t, decimal.RequireFromString(tt.want).Equal(got), "got %s", got)
		})
	}
}

func TestAmount_UnmarshalJSON(t *testing.T) {
	var payload struct {
		A money.Amount `json:"a"`
		B money.Amount `json:"b"`
		C money.Amount `json:"c"`
		D money.Amount `json:"d"`
		E money.Amount `json:"e"`
	}
	err := json.Unmarshal([]byte(`{"a": 10.5, "b": "1.000,25", "c": "oops", "d": null, "e": 1e3}`), &payload)
	require.NoError(t, err)

	assert.True(t, decimal.RequireFromString("10.5").Equal(payload.A.Decimal))
	assert.True(t, decimal.RequireFromString("1000.25").Equal(payload.B.Decimal))
	assert.True(t, payload.C.IsZero())
	assert.True(t, payload.D.IsZero())
	assert.True(t, decimal.NewFromInt(1000).Equal(payload.E.Decimal), "got %s", payload.E)
}

func TestAmount_MarshalJSON(t *testing.T) {
	out, err := json.Marshal(money.NewAmount(decimal.NewFromInt(5)))
	require.NoError(t, err)
	assert.JSONEq(t, `"5.00"`, string(out))
}
