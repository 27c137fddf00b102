package projection

import (
	"github.com/shopspring/decimal"
)

var (
	monthsPerYear = decimal.NewFromInt(12)
	one           = decimal.NewFromInt(1)
	twelve        = 12
)

// mortgage amortizes a fixed-rate loan with the standard annuity formula.
// The monthly payment is fixed at origination; each month's interest is
// charged on the running balance and the remainder of the payment retires
// principal, so the balance reaches zero exactly at term.
type mortgage struct {
	monthlyRate    decimal.Decimal
	monthlyPayment decimal.Decimal
	balance        decimal.Decimal
	monthsLeft     int
}

// newMortgage originates a loan of principal at the annual nominal rate
// over termYears. A zero rate degenerates to straight-line principal.
func newMortgage(principal, annualRate decimal.Decimal, termYears int) *mortgage {
	months := termYears * twelve
	m := &mortgage{balance: principal, monthsLeft: months}
	if months == 0 || !principal.IsPositive() {
		m.balance = decimal.Zero
		return m
	}
	if annualRate.IsZero() {
		m.monthlyPayment = principal.Div(decimal.NewFromInt(int64(months)))
		return m
	}
	m.monthlyRate = annualRate.Div(monthsPerYear)
	// payment = P * r * (1+r)^n / ((1+r)^n - 1)
	factor := one.Add(m.monthlyRate).Pow(decimal.NewFromInt(int64(months)))
	m.monthlyPayment = principal.Mul(m.monthlyRate).Mul(factor).Div(factor.Sub(one))
	return m
}

// advanceYear runs up to twelve monthly payments, returning the totals.
func (m *mortgage) advanceYear() (paid, interest, principal decimal.Decimal) {
	for i := 0; i < twelve && m.monthsLeft > 0 && m.balance.IsPositive(); i++ {
		monthInterest := m.balance.Mul(m.monthlyRate)
		monthPrincipal := m.monthlyPayment.Sub(monthInterest)
		if monthPrincipal.GreaterThan(m.balance) {
			monthPrincipal = m.balance
		}
		m.balance = m.balance.Sub(monthPrincipal)
		m.monthsLeft--

		paid = paid.Add(monthInterest.Add(monthPrincipal))
		interest = interest.Add(monthInterest)
		principal = principal.Add(monthPrincipal)
	}
	return paid, interest, principal
}

func (m *mortgage) outstanding() decimal.Decimal {
	return m.balance
}
