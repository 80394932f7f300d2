package money_test

import (
	"testing"

	"github.com/ceramtrade/fincore/internal/apperrors"
	"github.com/ceramtrade/fincore/internal/utils/money"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decimalPtr(d decimal.Decimal) *decimal.Decimal {
	return &d
}

func TestToBase(t *testing.T) {
	tests := []struct {
		name   string
		amount decimal.Decimal
		rate   decimal.Decimal
		want   decimal.Decimal
	}{
		{
			name:   "base currency at rate one",
			amount: decimal.NewFromInt(1000),
			rate:   decimal.NewFromInt(1),
			want:   decimal.NewFromInt(1000),
		},
		{
			name:   "foreign currency conversion",
			amount: decimal.NewFromInt(1000),
			rate:   decimal.NewFromFloat(4.85),
			want:   decimal.NewFromInt(4850),
		},
		{
			name:   "fractional amount keeps precision",
			amount: decimal.NewFromFloat(33.33),
			rate:   decimal.NewFromInt(3),
			want:   decimal.NewFromFloat(99.99),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := money.ToBase(tt.amount, tt.rate)
			assert.True(t, tt.want.Equal(got), "want %s, got %s", tt.want, got)
		})
	}
}

func TestResolveRate(t *testing.T) {
	const base = "LYD"

	t.Run("base currency ignores supplied rate", func(t *testing.T) {
		rate, err := money.ResolveRate(base, base, decimalPtr(decimal.NewFromInt(7)))
		require.NoError(t, err)
		assert.True(t, decimal.NewFromInt(1).Equal(rate))
	})

	t.Run("empty currency means base", func(t *testing.T) {
		rate, err := money.ResolveRate("", base, nil)
		require.NoError(t, err)
		assert.True(t, decimal.NewFromInt(1).Equal(rate))
	})

	t.Run("foreign currency requires a rate", func(t *testing.T) {
		_, err := money.ResolveRate("USD", base, nil)
		require.Error(t, err)
		assert.ErrorIs(t, err, apperrors.ErrValidation)
	})

	t.Run("foreign currency rate must be positive", func(t *testing.T) {
		_, err := money.ResolveRate("USD", base, decimalPtr(decimal.Zero))
		require.Error(t, err)
		assert.ErrorIs(t, err, apperrors.ErrValidation)

		_, err = money.ResolveRate("USD", base, decimalPtr(decimal.NewFromInt(-2)))
		require.Error(t, err)
		assert.ErrorIs(t, err, apperrors.ErrValidation)
	})

	t.Run("valid foreign rate passes through", func(t *testing.T) {
		want := decimal.NewFromFloat(4.85)
		rate, err := money.ResolveRate("USD", base, &want)
		require.NoError(t, err)
		assert.True(t, want.Equal(rate))
	})
}
