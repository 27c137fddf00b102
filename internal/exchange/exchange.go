// Package exchange converts amounts between plan currencies. A Normalizer
// is built once per scenario from a rate table and the plan base currency;
// every CurrencyValue it produces keeps the rate used, so records stay
// stable even if a later table differs.
package exchange

import (
	"sort"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"

	"github.com/thall/longview/internal/domain"
)

// RateTable maps currency code to units of the base currency per one unit
// of that currency. The base currency itself needs no entry.
type RateTable map[string]decimal.Decimal

// Normalizer converts amounts into the plan base currency.
type Normalizer struct {
	base  string
	rates RateTable
}

// NewNormalizer builds a Normalizer for the given base currency.
func NewNormalizer(baseCurrency string, rates RateTable) *Normalizer {
	return &Normalizer{base: baseCurrency, rates: rates}
}

// BaseCurrency returns the plan base currency code.
func (n *Normalizer) BaseCurrency() string { return n.base }

// Currencies lists every currency the normalizer can convert, base first.
func (n *Normalizer) Currencies() []string {
	out := make([]string, 0, len(n.rates)+1)
	out = append(out, n.base)
	for code := range n.rates {
		if code != n.base {
			out = append(out, code)
		}
	}
	sort.Strings(out[1:])
	return out
}

// Rate returns units of base currency per one unit of currency.
func (n *Normalizer) Rate(currency string) (decimal.Decimal, bool) {
	if currency == n.base {
		return decimal.NewFromInt(1), true
	}
	r, ok := n.rates[currency]
	return r, ok
}

// Normalize converts amount from currency into a CurrencyValue carrying
// both the original and the base equivalent. asOf is the plan year the
// conversion belongs to. Fails with MissingRateError when the currency has
// no table entry.
func (n *Normalizer) Normalize(amount decimal.Decimal, currency string, asOf int) (domain.CurrencyValue, error) {
	rate, ok := n.Rate(currency)
	if !ok {
		return domain.CurrencyValue{}, &domain.MissingRateError{Currency: currency, AsOf: asOf}
	}
	return domain.CurrencyValue{
		Amount:         amount,
		Currency:       currency,
		BaseEquivalent: amount.Mul(rate),
		ExchangeRate:   rate,
		AsOf:           asOf,
	}, nil
}

// Zero returns a zero value denominated in the base currency.
func (n *Normalizer) Zero(asOf int) domain.CurrencyValue {
	return domain.BaseValue(decimal.Zero, n.base, asOf)
}

// Base wraps an amount already in the base currency.
func (n *Normalizer) Base(amount decimal.Decimal, asOf int) domain.CurrencyValue {
	return domain.BaseValue(amount, n.base, asOf)
}

// Display renders the base equivalent rounded to the currency's minor
// units. Rounding happens here, at the reporting edge only; aggregation
// upstream stays unrounded.
func Display(cv domain.CurrencyValue, baseCurrency string) string {
	c := money.GetCurrency(baseCurrency)
	if c == nil {
		return cv.BaseEquivalent.Round(2).String()
	}
	scaled := cv.BaseEquivalent.Shift(int32(c.Fraction)).Round(0)
	return money.New(scaled.IntPart(), baseCurrency).Display()
}

// KnownCurrency reports whether code is a recognized ISO 4217 code.
func KnownCurrency(code string) bool {
	return money.GetCurrency(code) != nil
}
