package domain

import (
	"github.com/shopspring/decimal"
)

// CurrencyValue carries an amount in its original currency together with
// its plan-base-currency equivalent. All arithmetic across values (sums,
// comparisons, net worth) operates on BaseEquivalent; Amount and Currency
// are preserved for reporting.
type CurrencyValue struct {
	Amount         decimal.Decimal `json:"amount" yaml:"amount"`
	Currency       string          `json:"currency" yaml:"currency"`
	BaseEquivalent decimal.Decimal `json:"base_equivalent" yaml:"base_equivalent"`
	ExchangeRate   decimal.Decimal `json:"exchange_rate" yaml:"exchange_rate"`
	AsOf           int             `json:"as_of" yaml:"as_of"`
}

// BaseValue builds a CurrencyValue already denominated in the base
// currency (rate 1).
func BaseValue(amount decimal.Decimal, baseCurrency string, asOf int) CurrencyValue {
	return CurrencyValue{
		Amount:         amount,
		Currency:       baseCurrency,
		BaseEquivalent: amount,
		ExchangeRate:   decimal.NewFromInt(1),
		AsOf:           asOf,
	}
}

// IsZero reports whether the base equivalent is exactly zero.
func (cv CurrencyValue) IsZero() bool {
	return cv.BaseEquivalent.IsZero()
}

// SumBase totals the base-currency equivalents of the given values.
func SumBase(values ...CurrencyValue) decimal.Decimal {
	total := decimal.Zero
	for _, v := range values {
		total = total.Add(v.BaseEquivalent)
	}
	return total
}
