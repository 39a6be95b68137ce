package accounting

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// SplitInstallments divides value into n installments truncated to cents. The first
// installment absorbs the remainder so the parts always sum to value and the first
// is never smaller than the others.
func SplitInstallments(value decimal.Decimal, n int) ([]decimal.Decimal, error) {
	if n < 1 {
		return nil, fmt.Errorf("installments must be at least 1, got %d", n)
	}
	if !value.IsPositive() {
		return nil, fmt.Errorf("value must be positive, got %s", value.String())
	}

	value = value.Round(2)
	each := value.Div(decimal.NewFromInt(int64(n))).Truncate(2)
	first := value.Sub(each.Mul(decimal.NewFromInt(int64(n - 1))))

	parts := make([]decimal.Decimal, n)
	parts[0] = first
	for i := 1; i < n; i++ {
		parts[i] = each
	}
	return parts, nil
}

// Sum adds up amounts.
func Sum(amounts []decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, a := range amounts {
		total = total.Add(a)
	}
	return total
}
