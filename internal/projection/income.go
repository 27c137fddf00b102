package projection

import (
	"github.com/shopspring/decimal"

	"github.com/thall/longview/internal/domain"
)

// yearlyIncome is the effective gross income parts for one plan year, in
// the phase currency.
type yearlyIncome struct {
	salary decimal.Decimal
	bonus  decimal.Decimal
	rsu    decimal.Decimal
}

// rsuPool spreads each year's grant evenly over the vesting window, so
// the amount vesting in a year is the sum of the active tranches.
type rsuPool struct {
	vestYears     int
	vestingByYear map[int]decimal.Decimal
}

func newRSUPool(vestYears int) *rsuPool {
	if vestYears < 1 {
		vestYears = 4
	}
	return &rsuPool{vestYears: vestYears, vestingByYear: map[int]decimal.Decimal{}}
}

// grant books a new award in year, vesting in equal tranches over the
// pool's window starting that same year.
func (p *rsuPool) grant(year int, amount decimal.Decimal) {
	if !amount.IsPositive() {
		return
	}
	tranche := amount.Div(decimal.NewFromInt(int64(p.vestYears)))
	for y := year; y < year+p.vestYears; y++ {
		p.vestingByYear[y] = p.vestingByYear[y].Add(tranche)
	}
}

// vested returns the amount vesting in year.
func (p *rsuPool) vested(year int) decimal.Decimal {
	return p.vestingByYear[year]
}

// incomeForYear applies the progression model, explicit year entries, and
// the phase location's market adjustment. The progression is keyed on the
// plan year throughout, so a phase change does not restart the curve.
func incomeForYear(cfg *domain.IncomeConfig, location string, planYear int, pool *rsuPool) yearlyIncome {
	salary := cfg.BaseSalary
	if cfg.Progression.Type == domain.ProgressionCompoundRate && planYear > 1 {
		salary = salary.Mul(one.Add(cfg.Progression.Rate).Pow(decimal.NewFromInt(int64(planYear - 1))))
	}

	adj, hasAdj := cfg.MarketAdjustments[location]
	if hasAdj && !adj.SalaryMultiplier.IsZero() {
		salary = salary.Mul(adj.SalaryMultiplier)
	}

	bonus := salary.Mul(cfg.BonusRate)
	if hasAdj && !adj.BonusMultiplier.IsZero() {
		bonus = salary.Mul(cfg.BonusRate).Mul(adj.BonusMultiplier)
	}

	grantAmount := salary.Mul(cfg.RSURate)
	if hasAdj && !adj.RSUMultiplier.IsZero() {
		grantAmount = grantAmount.Mul(adj.RSUMultiplier)
	}

	out := yearlyIncome{salary: salary, bonus: bonus}

	// explicit entries win over the computed figures
	if entry, ok := cfg.Progression.Overrides[planYear]; ok {
		if entry.Salary != nil {
			out.salary = *entry.Salary
		}
		if entry.Bonus != nil {
			out.bonus = *entry.Bonus
		}
		if entry.RSU != nil {
			out.rsu = *entry.RSU
			return out
		}
	}

	if planYear >= cfg.RSUStartYear {
		pool.grant(planYear, grantAmount)
	}
	out.rsu = pool.vested(planYear)
	return out
}
