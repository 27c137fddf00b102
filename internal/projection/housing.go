package projection

import (
	"github.com/shopspring/decimal"

	"github.com/thall/longview/internal/domain"
)

// houseState tracks one property from purchase through amortization, in
// the property's own currency.
type houseState struct {
	cfg         *domain.HousingConfig
	purchased   bool
	value       decimal.Decimal
	loan        *mortgage
	depositPaid decimal.Decimal
}

// growthRate returns the market growth applied in plan year y (1-based);
// rate i of the sequence applies in year i+1. Beyond the sequence the
// configured extension policy takes over.
func growthRate(cfg *domain.HousingConfig, y int) decimal.Decimal {
	idx := y - 2
	if idx < 0 {
		return decimal.Zero
	}
	if idx < len(cfg.PriceGrowth) {
		return cfg.PriceGrowth[idx]
	}
	switch cfg.GrowthExtension {
	case domain.GrowthExtendZero:
		return decimal.Zero
	default: // repeat_last
		if len(cfg.PriceGrowth) == 0 {
			return decimal.Zero
		}
		return cfg.PriceGrowth[len(cfg.PriceGrowth)-1]
	}
}

// purchasePrice compounds the base price through the purchase year.
func purchasePrice(cfg *domain.HousingConfig) decimal.Decimal {
	price := cfg.BasePrice
	for y := 2; y <= cfg.PurchaseYear; y++ {
		price = price.Mul(one.Add(growthRate(cfg, y)))
	}
	return price
}

// buy executes the purchase: the deposit comes out of liquid assets and
// the remainder becomes a mortgage.
func (h *houseState) buy() {
	price := purchasePrice(h.cfg)
	h.depositPaid = price.Mul(h.cfg.DepositRate)
	h.loan = newMortgage(price.Sub(h.depositPaid), h.cfg.MortgageRate, h.cfg.MortgageTermYears)
	h.value = price
	h.purchased = true
}

// appreciate grows the property's value for one year after purchase.
// Falls back to the plan inflation rate when no explicit rate is set.
func (h *houseState) appreciate(inflation decimal.Decimal) {
	rate := h.cfg.AppreciationRate
	if rate.IsZero() {
		rate = inflation
	}
	h.value = h.value.Mul(one.Add(rate))
}

// equity is value minus outstanding mortgage.
func (h *houseState) equity() decimal.Decimal {
	if !h.purchased {
		return decimal.Zero
	}
	return h.value.Sub(h.loan.outstanding())
}

// rentalCredit returns the year's net rental income when the plan is
// living away from the property's market.
func (h *houseState) rentalCredit(currentLocation string) decimal.Decimal {
	r := h.cfg.RentalIncome
	if !h.purchased || r == nil || !r.WhenAbroad || currentLocation == h.cfg.Market {
		return decimal.Zero
	}
	return r.MonthlyRate.Mul(monthsPerYear).Mul(one.Sub(r.ManagementFee))
}
