package tax

import (
	"github.com/shopspring/decimal"

	"github.com/thall/longview/internal/domain"
)

// studentLoanYear applies one year of an income-contingent loan: interest
// accrues first at a rate that scales linearly with income between the
// lower and upper interest thresholds, then the repayment (rate × income
// above the repayment threshold, capped at the outstanding balance) is
// deducted. Returns the repayment and the balance carried forward.
func studentLoanYear(gross, balance decimal.Decimal, cfg *domain.StudentLoanConfig) (repayment, newBalance decimal.Decimal) {
	if cfg == nil || !balance.IsPositive() {
		return decimal.Zero, clampZero(balance)
	}

	rate := cfg.InterestBaseRate.Add(interestPremium(gross, cfg))
	newBalance = balance.Add(balance.Mul(rate))

	over := gross.Sub(cfg.RepaymentThreshold)
	if over.IsPositive() {
		repayment = over.Mul(cfg.RepaymentRate)
		if repayment.GreaterThan(newBalance) {
			repayment = newBalance
		}
	}
	newBalance = newBalance.Sub(repayment)
	return repayment, newBalance
}

func interestPremium(gross decimal.Decimal, cfg *domain.StudentLoanConfig) decimal.Decimal {
	if cfg.InterestMaxPremium.IsZero() {
		return decimal.Zero
	}
	if gross.LessThanOrEqual(cfg.InterestLowerThreshold) {
		return decimal.Zero
	}
	if gross.GreaterThanOrEqual(cfg.InterestUpperThreshold) {
		return cfg.InterestMaxPremium
	}
	span := cfg.InterestUpperThreshold.Sub(cfg.InterestLowerThreshold)
	if span.IsZero() {
		return cfg.InterestMaxPremium
	}
	return cfg.InterestMaxPremium.Mul(gross.Sub(cfg.InterestLowerThreshold)).Div(span)
}
