package tax

import (
	"github.com/shopspring/decimal"

	"github.com/thall/longview/internal/domain"
)

// TaxFreeCalculator levies nothing. Every listed component reports zero,
// except a student loan, which keeps accruing and being repaid from gross
// income regardless of jurisdiction.
type TaxFreeCalculator struct{}

func (c *TaxFreeCalculator) Compute(gross decimal.Decimal, year int, sys *domain.TaxSystem, loanBalance decimal.Decimal) (Assessment, error) {
	out := Assessment{LoanBalance: loanBalance}
	for _, name := range sys.Components {
		if name == domain.ComponentStudentLoan {
			repayment, newBalance := studentLoanYear(gross, loanBalance, sys.Config.StudentLoan)
			out.Breakdown.Components = append(out.Breakdown.Components,
				domain.TaxComponent{Name: name, Amount: repayment})
			out.LoanBalance = newBalance
			continue
		}
		out.Breakdown.Components = append(out.Breakdown.Components,
			domain.TaxComponent{Name: name, Amount: decimal.Zero})
	}
	return out, nil
}
