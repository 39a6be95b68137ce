// Package money is the leniency boundary for amounts coming from clients.
// Anything that cannot be read as a number becomes 0.00; invariant checks downstream
// only ever see the resulting decimal.
package money

import (
	"encoding/json"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
)

// Zero is 0.00.
var Zero = decimal.New(0, -2)

// ToDecimal converts numbers and loosely formatted strings ("1.234,56", "R$ 10,00",
// "12.5") into a decimal rounded to cents. It never fails.
func ToDecimal(value any) decimal.Decimal {
	switch v := value.(type) {
	case nil:
		return Zero
	case decimal.Decimal:
		return v.Round(2)
	case *decimal.Decimal:
		if v == nil {
			return Zero
		}
		return v.Round(2)
	case int:
		return decimal.NewFromInt(int64(v)).Round(2)
	case int64:
		return decimal.NewFromInt(v).Round(2)
	case float64:
		return decimal.NewFromFloat(v).Round(2)
	case json.Number:
		return parseString(v.String())
	case string:
		return parseString(v)
	case *string:
		if v == nil {
			return Zero
		}
		return parseString(*v)
	default:
		return Zero
	}
}

// maxExponent bounds strictly parsed numbers such as "1e400" that no ledger column holds.
const maxExponent = 18

func parseString(s string) decimal.Decimal {
	s = strings.TrimSpace(s)
	if d, err := decimal.NewFromString(s); err == nil {
		if d.Exponent() > maxExponent {
			return Zero
		}
		return d.Round(2)
	}
	return parseLoose(s)
}

// parseLoose keeps digits and separators only, for inputs like "R$ 1.234,56".
func parseLoose(s string) decimal.Decimal {
	var b strings.Builder
	negative := false
	for _, r := range strings.TrimSpace(s) {
		switch {
		case unicode.IsDigit(r), r == '.', r == ',':
			b.WriteRune(r)
		case r == '-' && b.Len() == 0:
			negative = true
		}
	}
	cleaned := normalizeSeparators(b.String())
	if cleaned == "" {
		return Zero
	}
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return Zero
	}
	if negative {
		d = d.Neg()
	}
	return d.Round(2)
}

// normalizeSeparators keeps the last separator as the decimal point when both
// appear. A lone comma is decimal; repeated dots are thousands.
func normalizeSeparators(s string) string {
	lastDot := strings.LastIndex(s, ".")
	lastComma := strings.LastIndex(s, ",")
	switch {
	case lastDot >= 0 && lastComma >= 0:
		if lastComma > lastDot {
			s = strings.ReplaceAll(s, ".", "")
			return strings.Replace(s, ",", ".", 1)
		}
		return strings.ReplaceAll(s, ",", "")
	case lastComma >= 0:
		if strings.Count(s, ",") > 1 {
			return strings.ReplaceAll(s, ",", "")
		}
		return strings.Replace(s, ",", ".", 1)
	case strings.Count(s, ".") > 1:
		return strings.ReplaceAll(s, ".", "")
	}
	return s
}

// Amount is a JSON money field that accepts numbers or strings and never fails to
// decode. It marshals as a fixed two-decimal string.
type Amount struct {
	decimal.Decimal
}

// NewAmount wraps d.
func NewAmount(d decimal.Decimal) Amount {
	return Amount{Decimal: d}
}

// UnmarshalJSON implements json.Unmarshaler leniently.
func (a *Amount) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	if raw == "null" || raw == "" {
		a.Decimal = Zero
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		a.Decimal = parseString(s)
		return nil
	}
	a.Decimal = parseString(raw)
	return nil
}

// MarshalJSON implements json.Marshaler.
func (a Amount) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.StringFixed(2))
}
