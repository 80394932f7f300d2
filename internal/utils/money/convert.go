package money

import (
	"fmt"

	"github.com/ceramtrade/fincore/internal/apperrors"
	"github.com/shopspring/decimal"
)

// ToBase converts an original-currency amount to the base currency at the
// given exchange rate. Base-currency amounts use rate 1.
func ToBase(amount decimal.Decimal, exchangeRate decimal.Decimal) decimal.Decimal {
	return amount.Mul(exchangeRate)
}

// ResolveRate validates and resolves the exchange rate for an amount
// denominated in currencyCode against baseCurrency. For base-currency
// amounts the rate is implicitly 1 and any supplied rate is ignored.
// For foreign currencies the rate is required and must be positive.
func ResolveRate(currencyCode, baseCurrency string, exchangeRate *decimal.Decimal) (decimal.Decimal, error) {
	if currencyCode == "" || currencyCode == baseCurrency {
		return decimal.NewFromInt(1), nil
	}
	if exchangeRate == nil {
		return decimal.Zero, fmt.Errorf("%w: exchange rate is required for currency %s", apperrors.ErrValidation, currencyCode)
	}
	if exchangeRate.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero, fmt.Errorf("%w: exchange rate must be positive, got %s", apperrors.ErrValidation, exchangeRate.String())
	}
	return *exchangeRate, nil
}
