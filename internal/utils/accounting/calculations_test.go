package accounting_test

import (
	"testing"

	"github.com/domohq/domo_backend/internal/utils/accounting"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitInstallments(t *testing.T) {
	tests := []struct {
		name  string
		value string
		n     int
		want  []string
	}{
		{"single installment", "59.90", 1, []string{"59.90"}},
		{"remainder goes to the first", "100.00", 3, []string{"33.34", "33.33", "33.33"}},
		{"even split", "120.00", 4, []string{"30", "30", "30", "30"}},
		{"cents over many months", "10.00", 12, []string{"0.87", "0.83", "0.83", "0.83", "0.83", "0.83", "0.83", "0.83", "0.83", "0.83", "0.83", "0.83"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			value := decimal.RequireFromString(tt.value)
			parts, err := accounting.SplitInstallments(value, tt.n)
			require.NoError(t, err)
			require.Len(t, parts, len(tt.want))
			for i, w := range tt.want {
				assert.True(t, decimal.RequireFromString(w).Equal(parts[i]), "installment %d = %s", i, parts[i])
			}
			assert.True(t, value.Equal(accounting.Sum(parts)))
		})
	}
}

func TestSplitInstallments_SumInvariant(t *testing.T) {
	for cents := int64(1); cents <= 2500; cents += 37 {
		value := decimal.New(cents, -2)
		for n := 1; n <= 24; n++ {
			parts, err := accounting.SplitInstallments(value, n)
			require.NoError(t, err)
			assert.True(t, value.Equal(accounting.Sum(parts)), "value %s n %d", value, n)
			assert.True(t, parts[0].GreaterThanOrEqual(parts[n-1]), "value %s n %d", value, n)
		}
	}
}

func TestSplitInstallments_Invalid(t *testing.T) {
	_, err := accounting.SplitInstallments(decimal.NewFromInt(10), 0)
	assert.Error(t, err)
	_, err = accounting.SplitInstallments(decimal.Zero, 2)
	assert.Error(t, err)
}
