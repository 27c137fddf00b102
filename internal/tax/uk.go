package tax

import (
	"github.com/shopspring/decimal"

	"github.com/thall/longview/internal/domain"
)

var (
	two = decimal.NewFromInt(2)
	one = decimal.NewFromInt(1)
)

// UKCalculator implements progressive income tax with a tapered personal
// allowance, two-band National Insurance, and an income-contingent
// student loan.
type UKCalculator struct{}

func (c *UKCalculator) Compute(gross decimal.Decimal, year int, sys *domain.TaxSystem, loanBalance decimal.Decimal) (Assessment, error) {
	cfg := sys.Config
	out := Assessment{LoanBalance: loanBalance}

	if hasComponent(sys, domain.ComponentIncomeTax) {
		if cfg.Bands == nil || cfg.Rates == nil {
			return Assessment{}, &domain.TaxCalculationError{
				System: sys.ID, Component: domain.ComponentIncomeTax, Year: year,
				Msg: "missing bands or rates",
			}
		}
		f := indexFactor(year, cfg.Bands.FreezeUntilYear, cfg.InflationRate)
		amount := ukIncomeTax(gross, cfg.Bands, cfg.Rates, f)
		out.Breakdown.Components = append(out.Breakdown.Components,
			domain.TaxComponent{Name: domain.ComponentIncomeTax, Amount: amount})
	}

	if hasComponent(sys, domain.ComponentNationalInsurance) {
		if cfg.NIBands == nil || cfg.NIRates == nil {
			return Assessment{}, &domain.TaxCalculationError{
				System: sys.ID, Component: domain.ComponentNationalInsurance, Year: year,
				Msg: "missing ni_bands or ni_rates",
			}
		}
		f := decimal.NewFromInt(1)
		if cfg.Bands != nil {
			f = indexFactor(year, cfg.Bands.FreezeUntilYear, cfg.InflationRate)
		}
		amount := nationalInsurance(gross, cfg.NIBands, cfg.NIRates, f)
		out.Breakdown.Components = append(out.Breakdown.Components,
			domain.TaxComponent{Name: domain.ComponentNationalInsurance, Amount: amount})
	}

	if hasComponent(sys, domain.ComponentStudentLoan) {
		repayment, newBalance := studentLoanYear(gross, loanBalance, cfg.StudentLoan)
		out.Breakdown.Components = append(out.Breakdown.Components,
			domain.TaxComponent{Name: domain.ComponentStudentLoan, Amount: repayment})
		out.LoanBalance = newBalance
	}

	return out, nil
}

// indexFactor grows thresholds by inflation once the freeze period ends.
// Thresholds stay nominal through freezeUntil inclusive.
func indexFactor(year, freezeUntil int, inflation decimal.Decimal) decimal.Decimal {
	if freezeUntil == 0 || year <= freezeUntil || inflation.IsZero() {
		return one
	}
	return one.Add(inflation).Pow(decimal.NewFromInt(int64(year - freezeUntil)))
}

// ukIncomeTax walks the three bands over gross income. The personal
// allowance shrinks £1 for every £2 of income above the taper threshold,
// floored at zero.
func ukIncomeTax(gross decimal.Decimal, bands *domain.UKBands, rates *domain.UKRates, f decimal.Decimal) decimal.Decimal {
	allowance := bands.PersonalAllowance.Mul(f)
	basicLimit := bands.BasicRateLimit.Mul(f)
	higherLimit := bands.HigherRateLimit.Mul(f)
	taper := bands.TaperThreshold.Mul(f)

	if taper.IsPositive() && gross.GreaterThan(taper) {
		allowance = clampZero(allowance.Sub(gross.Sub(taper).Div(two)))
	}

	tax := clampZero(decimal.Min(gross, basicLimit).Sub(allowance)).Mul(rates.Basic)
	tax = tax.Add(clampZero(decimal.Min(gross, higherLimit).Sub(basicLimit)).Mul(rates.Higher))
	tax = tax.Add(clampZero(gross.Sub(higherLimit)).Mul(rates.Additional))
	return tax
}

// nationalInsurance walks the two Class 1 employee bands.
func nationalInsurance(gross decimal.Decimal, bands *domain.NIBands, rates *domain.NIRates, f decimal.Decimal) decimal.Decimal {
	primary := bands.PrimaryThreshold.Mul(f)
	upper := bands.UpperEarningsLimit.Mul(f)

	ni := clampZero(decimal.Min(gross, upper).Sub(primary)).Mul(rates.Main)
	ni = ni.Add(clampZero(gross.Sub(upper)).Mul(rates.Upper))
	return ni
}
