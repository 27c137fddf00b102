package tax

import (
	"github.com/shopspring/decimal"

	"github.com/thall/longview/internal/domain"
)

// USCalculator implements federal brackets with cumulative base amounts,
// FICA payroll taxes, and optional simple progressive state and city
// tables.
type USCalculator struct{}

func (c *USCalculator) Compute(gross decimal.Decimal, year int, sys *domain.TaxSystem, loanBalance decimal.Decimal) (Assessment, error) {
	cfg := sys.Config
	out := Assessment{LoanBalance: loanBalance}

	if hasComponent(sys, domain.ComponentFederalTax) {
		if cfg.Federal == nil {
			return Assessment{}, &domain.TaxCalculationError{
				System: sys.ID, Component: domain.ComponentFederalTax, Year: year,
				Msg: "missing federal config",
			}
		}
		amount, err := federalTax(gross, cfg.Federal, sys.ID, year)
		if err != nil {
			return Assessment{}, err
		}
		out.Breakdown.Components = append(out.Breakdown.Components,
			domain.TaxComponent{Name: domain.ComponentFederalTax, Amount: amount})
	}

	if hasComponent(sys, domain.ComponentFICA) {
		if cfg.FICA == nil {
			return Assessment{}, &domain.TaxCalculationError{
				System: sys.ID, Component: domain.ComponentFICA, Year: year,
				Msg: "missing fica config",
			}
		}
		out.Breakdown.Components = append(out.Breakdown.Components,
			domain.TaxComponent{Name: domain.ComponentFICA, Amount: fica(gross, cfg.FICA)})
	}

	if hasComponent(sys, domain.ComponentStateTax) {
		amount, err := bracketWalk(gross, cfg.State, sys.ID, domain.ComponentStateTax, year)
		if err != nil {
			return Assessment{}, err
		}
		out.Breakdown.Components = append(out.Breakdown.Components,
			domain.TaxComponent{Name: domain.ComponentStateTax, Amount: amount})
	}

	if hasComponent(sys, domain.ComponentCityTax) {
		amount, err := bracketWalk(gross, cfg.City, sys.ID, domain.ComponentCityTax, year)
		if err != nil {
			return Assessment{}, err
		}
		out.Breakdown.Components = append(out.Breakdown.Components,
			domain.TaxComponent{Name: domain.ComponentCityTax, Amount: amount})
	}

	if hasComponent(sys, domain.ComponentStudentLoan) {
		repayment, newBalance := studentLoanYear(gross, loanBalance, cfg.StudentLoan)
		out.Breakdown.Components = append(out.Breakdown.Components,
			domain.TaxComponent{Name: domain.ComponentStudentLoan, Amount: repayment})
		out.LoanBalance = newBalance
	}

	return out, nil
}

// federalTax applies the standard deduction, then finds the taxable
// income's bracket and uses its cumulative base instead of re-summing the
// lower brackets. A nil limit marks the open top bracket.
func federalTax(gross decimal.Decimal, cfg *domain.FederalConfig, systemID string, year int) (decimal.Decimal, error) {
	if len(cfg.Brackets) == 0 {
		return decimal.Zero, &domain.TaxCalculationError{
			System: systemID, Component: domain.ComponentFederalTax, Year: year,
			Msg: "empty bracket table",
		}
	}
	if err := checkFederalSorted(cfg.Brackets, systemID, year); err != nil {
		return decimal.Zero, err
	}

	taxable := clampZero(gross.Sub(cfg.StandardDeduction))
	lower := decimal.Zero
	for _, b := range cfg.Brackets {
		if b.Limit == nil || taxable.LessThanOrEqual(*b.Limit) {
			return b.Base.Add(taxable.Sub(lower).Mul(b.Rate)), nil
		}
		lower = *b.Limit
	}
	// table ends with a finite limit; tax income above it at the last rate
	last := cfg.Brackets[len(cfg.Brackets)-1]
	return last.Base.Add(taxable.Sub(lower).Mul(last.Rate)), nil
}

func checkFederalSorted(brackets []domain.FederalBracket, systemID string, year int) error {
	var prev *decimal.Decimal
	for i, b := range brackets {
		if b.Limit == nil {
			if i != len(brackets)-1 {
				return &domain.TaxCalculationError{
					System: systemID, Component: domain.ComponentFederalTax, Year: year,
					Msg: "open bracket before end of table",
				}
			}
			continue
		}
		if prev != nil && !b.Limit.GreaterThan(*prev) {
			return &domain.TaxCalculationError{
				System: systemID, Component: domain.ComponentFederalTax, Year: year,
				Msg: "brackets not sorted ascending",
			}
		}
		prev = b.Limit
	}
	return nil
}

// fica sums Social Security up to the wage cap, Medicare on all wages,
// and the additional Medicare rate above its floor.
func fica(gross decimal.Decimal, cfg *domain.FICAConfig) decimal.Decimal {
	ss := decimal.Min(gross, cfg.SocialSecurityWageCap).Mul(cfg.SocialSecurityRate)
	medicare := gross.Mul(cfg.MedicareRate)
	additional := clampZero(gross.Sub(cfg.AdditionalMedicareFloor)).Mul(cfg.AdditionalMedicareRate)
	return ss.Add(medicare).Add(additional)
}

// bracketWalk is the plain marginal walk used for state and city tables:
// each slice of income between consecutive limits is taxed at its rate.
func bracketWalk(gross decimal.Decimal, table *domain.BracketTable, systemID, component string, year int) (decimal.Decimal, error) {
	if table == nil || len(table.Brackets) == 0 {
		return decimal.Zero, &domain.TaxCalculationError{
			System: systemID, Component: component, Year: year,
			Msg: "missing bracket table",
		}
	}

	tax := decimal.Zero
	lower := decimal.Zero
	var prev *decimal.Decimal
	for i, b := range table.Brackets {
		if b.Limit == nil {
			if i != len(table.Brackets)-1 {
				return decimal.Zero, &domain.TaxCalculationError{
					System: systemID, Component: component, Year: year,
					Msg: "open bracket before end of table",
				}
			}
			tax = tax.Add(clampZero(gross.Sub(lower)).Mul(b.Rate))
			return tax, nil
		}
		if prev != nil && !b.Limit.GreaterThan(*prev) {
			return decimal.Zero, &domain.TaxCalculationError{
				System: systemID, Component: component, Year: year,
				Msg: "brackets not sorted ascending",
			}
		}
		prev = b.Limit
		tax = tax.Add(clampZero(decimal.Min(gross, *b.Limit).Sub(lower)).Mul(b.Rate))
		lower = *b.Limit
	}
	return tax, nil
}
