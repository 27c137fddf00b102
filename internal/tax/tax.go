// Package tax computes jurisdiction-specific tax breakdowns. Each
// supported variant is one Calculator implementation; scenarios select a
// calculator through the Registry by the tax system's variant string,
// never by inspecting the config shape.
package tax

import (
	"github.com/shopspring/decimal"

	"github.com/thall/longview/internal/domain"
)

// Assessment is one year's result: the component breakdown in the tax
// system's own currency, plus the student loan balance after this year's
// interest and repayment (unchanged when the system levies no loan).
type Assessment struct {
	Breakdown   domain.TaxBreakdown
	LoanBalance decimal.Decimal
}

// Calculator computes the tax owed on one year's gross income. year is
// the calendar year (threshold indexing depends on it). loanBalance is
// the student loan balance entering the year.
type Calculator interface {
	Compute(gross decimal.Decimal, year int, sys *domain.TaxSystem, loanBalance decimal.Decimal) (Assessment, error)
}

// Registry maps tax system variants to calculators.
type Registry struct {
	byVariant map[string]Calculator
}

// NewRegistry returns a registry with the built-in variants registered.
func NewRegistry() *Registry {
	r := &Registry{byVariant: make(map[string]Calculator)}
	r.Register(domain.VariantUK, &UKCalculator{})
	r.Register(domain.VariantUSState, &USCalculator{})
	r.Register(domain.VariantTaxFree, &TaxFreeCalculator{})
	return r
}

// Register adds or replaces the calculator for a variant.
func (r *Registry) Register(variant string, c Calculator) {
	r.byVariant[variant] = c
}

// For returns the calculator for the system's variant, or an
// UnsupportedJurisdictionError.
func (r *Registry) For(sys *domain.TaxSystem) (Calculator, error) {
	c, ok := r.byVariant[sys.Variant]
	if !ok {
		return nil, &domain.UnsupportedJurisdictionError{ID: sys.ID, Variant: sys.Variant}
	}
	return c, nil
}

// Compute looks up the system's calculator and runs it.
func (r *Registry) Compute(gross decimal.Decimal, year int, sys *domain.TaxSystem, loanBalance decimal.Decimal) (Assessment, error) {
	c, err := r.For(sys)
	if err != nil {
		return Assessment{}, err
	}
	return c.Compute(gross, year, sys, loanBalance)
}

// hasComponent reports whether the system levies the named component.
func hasComponent(sys *domain.TaxSystem, name string) bool {
	for _, c := range sys.Components {
		if c == name {
			return true
		}
	}
	return false
}

func clampZero(v decimal.Decimal) decimal.Decimal {
	if v.IsNegative() {
		return decimal.Zero
	}
	return v
}
