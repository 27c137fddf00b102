package projection

import (
	"github.com/shopspring/decimal"

	"github.com/thall/longview/internal/domain"
)

// wrapperSplit is one year's savings allocated across the configured
// wrappers, in base currency. The contributions sum to max(0, savings);
// the bonus is the government top-up on the LISA contribution and is
// credited in addition to the savings themselves.
type wrapperSplit struct {
	lisa  decimal.Decimal
	isa   decimal.Decimal
	sipp  decimal.Decimal
	gia   decimal.Decimal
	bonus decimal.Decimal
}

// allocateSavings fills the wrappers in LISA, ISA, SIPP order with any
// overflow landing in the GIA. The allowances are configured in the
// phase currency; rate converts them to base terms. Negative savings
// allocate nothing.
func allocateSavings(savings decimal.Decimal, cfg *domain.InvestmentAllocationConfig, rate decimal.Decimal) wrapperSplit {
	var out wrapperSplit
	remaining := decimal.Max(savings, decimal.Zero)

	out.lisa = decimal.Min(remaining, cfg.LISAAllowance.Mul(rate))
	remaining = remaining.Sub(out.lisa)

	// the LISA contribution consumes part of the overall ISA allowance
	isaCap := decimal.Max(cfg.ISAAllowance.Mul(rate).Sub(out.lisa), decimal.Zero)
	out.isa = decimal.Min(remaining, isaCap)
	remaining = remaining.Sub(out.isa)

	out.sipp = decimal.Min(remaining, cfg.SIPPAllowance.Mul(rate))
	remaining = remaining.Sub(out.sipp)

	out.gia = remaining
	out.bonus = out.lisa.Mul(cfg.LISABonusRate)
	return out
}
