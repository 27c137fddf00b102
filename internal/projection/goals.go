package projection

import (
	"github.com/shopspring/decimal"

	"github.com/thall/longview/internal/domain"
)

// goalCosts itemizes the universal goal expenses for one plan year, in
// the base currency.
type goalCosts struct {
	university      decimal.Decimal
	marriage        decimal.Decimal
	child           decimal.Decimal
	personal        decimal.Decimal
	parentalSupport decimal.Decimal
	travel          decimal.Decimal
}

// goalCostsFor evaluates every configured goal for the plan year.
// houseYear is the fallback parental-support switch year: support drops
// to the after amount once the first house purchase year is reached.
// inflFactor scales the recurring goals (personal, parental support,
// travel, ongoing child cost); one-off costs and scheduled fees are
// charged at their configured nominal amounts.
func goalCostsFor(year int, goals domain.GoalExpensesConfig, houseYear int, inflFactor decimal.Decimal) goalCosts {
	var out goalCosts

	if u := goals.University; u != nil {
		if fee, ok := u.Fees[year]; ok {
			out.university = fee
		}
	}

	if m := goals.Marriage; m != nil && year >= m.StartYear && year <= m.EndYear {
		span := decimal.NewFromInt(int64(m.EndYear - m.StartYear + 1))
		out.marriage = m.TotalCost.Div(span)
	}

	if c := goals.Child; c != nil && c.BirthYear >= 1 {
		switch {
		case year == c.BirthYear:
			out.child = c.OneOffCost
		case year > c.BirthYear:
			out.child = c.AnnualCost.Mul(inflFactor)
		}
	}

	out.personal = goals.Personal.Amount(year).Mul(inflFactor)

	if p := goals.ParentalSupport; p != nil {
		switchYear := p.SwitchYear
		if switchYear == 0 {
			switchYear = houseYear
		}
		amount := p.AnnualBefore
		if switchYear > 0 && year >= switchYear {
			amount = p.AnnualAfter
		}
		out.parentalSupport = amount.Mul(inflFactor)
	}

	out.travel = goals.TravelAnnual.Mul(inflFactor)

	return out
}
