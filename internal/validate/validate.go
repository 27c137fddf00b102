// Package validate runs structural and cross-reference checks over a
// resolved scenario before projection. Validation never fails with an
// error of its own: every finding lands in the returned ValidationResult,
// categorized so a caller can render actionable messages.
package validate

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/thall/longview/internal/domain"
	"github.com/thall/longview/internal/exchange"
	"github.com/thall/longview/internal/template"
)

var one = decimal.NewFromInt(1)

// Validator checks scenarios against the known tax systems and templates.
type Validator struct {
	taxSystems map[string]*domain.TaxSystem
	templates  *template.Store
}

// New builds a validator over the given reference data.
func New(systems []*domain.TaxSystem, templates *template.Store) *Validator {
	byID := make(map[string]*domain.TaxSystem, len(systems))
	for _, s := range systems {
		byID[s.ID] = s
	}
	return &Validator{taxSystems: byID, templates: templates}
}

// Validate checks one scenario and returns the categorized findings.
func (v *Validator) Validate(sc *domain.Scenario) domain.ValidationResult {
	result := domain.ValidationResult{IsValid: true}

	v.checkAssumptions(sc, &result)
	v.checkPhases(sc, &result)
	v.checkTiling(sc, &result)
	v.checkGoals(sc, &result)

	return result
}

func (v *Validator) checkAssumptions(sc *domain.Scenario, result *domain.ValidationResult) {
	a := sc.Assumptions
	if a.PlanDurationYears < 1 {
		result.AddError(domain.CategoryRange, "assumptions.plan_duration_years",
			"must be at least 1, got %d", a.PlanDurationYears)
	}
	if a.StartAge < 0 {
		result.AddError(domain.CategoryRange, "assumptions.start_age",
			"must be non-negative, got %d", a.StartAge)
	}
	if a.BaseCurrency == "" {
		result.AddError(domain.CategoryStructure, "assumptions.base_currency", "missing")
	} else if !exchange.KnownCurrency(a.BaseCurrency) {
		result.AddError(domain.CategoryRange, "assumptions.base_currency",
			"unknown currency code %q", a.BaseCurrency)
	}
	if a.InflationRate.IsNegative() {
		result.AddWarning(domain.CategoryRange, "assumptions.inflation_rate",
			"negative inflation rate %s", a.InflationRate)
	}
	if a.StudentLoanDebt.IsNegative() {
		result.AddError(domain.CategoryRange, "assumptions.student_loan_debt",
			"must be non-negative, got %s", a.StudentLoanDebt)
	}
}

func (v *Validator) checkPhases(sc *domain.Scenario, result *domain.ValidationResult) {
	if len(sc.Phases) == 0 {
		result.AddError(domain.CategoryStructure, "phases", "scenario has no phases")
		return
	}

	for i, p := range sc.Phases {
		field := fmt.Sprintf("phases[%d]", i)

		if p.Duration() < 1 {
			result.AddError(domain.CategoryRange, field+".duration",
				"phase %q spans [%d, %d]; duration must be at least 1 year",
				p.Name, p.StartYear, p.EndYear)
		}

		sys, ok := v.taxSystems[p.TaxSystem]
		if !ok {
			result.AddError(domain.CategoryReference, field+".tax_system",
				"unknown tax system %q", p.TaxSystem)
		} else if p.Currency != "" && sys.Currency != "" && p.Currency != sys.Currency {
			result.AddError(domain.CategoryReference, field+".currency",
				"phase currency %s does not match tax system %s currency %s",
				p.Currency, sys.ID, sys.Currency)
		}

		if p.Currency == "" {
			result.AddError(domain.CategoryStructure, field+".currency", "missing")
		} else if !exchange.KnownCurrency(p.Currency) {
			result.AddError(domain.CategoryRange, field+".currency",
				"unknown currency code %q", p.Currency)
		}

		if p.IncomeTemplate == "" {
			result.AddError(domain.CategoryStructure, field+".income_template", "missing")
		} else if !v.templates.Has(p.IncomeTemplate) {
			result.AddError(domain.CategoryReference, field+".income_template",
				"unknown template %q", p.IncomeTemplate)
		}

		if p.RelocationCost.IsNegative() {
			result.AddError(domain.CategoryRange, field+".relocation_cost",
				"must be non-negative, got %s", p.RelocationCost)
		}

		if p.Housing != nil {
			v.checkHousing(p.Housing, sc, field+".housing", result)
		}

		if a := p.InvestmentAllocation; a != nil {
			for name, amount := range map[string]decimal.Decimal{
				"lisa_allowance":  a.LISAAllowance,
				"isa_allowance":   a.ISAAllowance,
				"sipp_allowance":  a.SIPPAllowance,
				"lisa_bonus_rate": a.LISABonusRate,
			} {
				if amount.IsNegative() {
					result.AddError(domain.CategoryRange, field+".investment_allocation."+name,
						"must be non-negative, got %s", amount)
				}
			}
		}
	}
}

func (v *Validator) checkHousing(h *domain.HousingConfig, sc *domain.Scenario, field string, result *domain.ValidationResult) {
	switch h.Strategy {
	case domain.StrategyUKHome, domain.StrategyLocalHome:
	case "":
		result.AddError(domain.CategoryStructure, field+".strategy", "missing")
	default:
		result.AddError(domain.CategoryReference, field+".strategy",
			"unknown housing strategy %q", h.Strategy)
	}

	if h.PurchaseYear < 1 || h.PurchaseYear > sc.Assumptions.PlanDurationYears {
		result.AddError(domain.CategoryRange, field+".purchase_year",
			"year %d outside plan [1, %d]", h.PurchaseYear, sc.Assumptions.PlanDurationYears)
	}
	if !h.BasePrice.IsPositive() {
		result.AddError(domain.CategoryRange, field+".base_price",
			"must be positive, got %s", h.BasePrice)
	}
	if h.DepositRate.IsNegative() || h.DepositRate.GreaterThan(one) {
		result.AddError(domain.CategoryRange, field+".deposit_rate",
			"must be within [0, 1], got %s", h.DepositRate)
	}
	if h.MortgageTermYears < 1 && h.DepositRate.LessThan(one) {
		result.AddError(domain.CategoryRange, field+".mortgage_term_years",
			"must be at least 1 when a mortgage is taken, got %d", h.MortgageTermYears)
	}
	switch h.GrowthExtension {
	case "", domain.GrowthExtendRepeatLast, domain.GrowthExtendZero:
	default:
		result.AddError(domain.CategoryReference, field+".growth_extension",
			"unknown policy %q", h.GrowthExtension)
	}
	if h.Currency != "" && !exchange.KnownCurrency(h.Currency) {
		result.AddError(domain.CategoryRange, field+".currency",
			"unknown currency code %q", h.Currency)
	}
}

// checkTiling enforces the central temporal invariant: phases must cover
// [1, plan_duration_years] exactly, no gaps, no overlaps.
func (v *Validator) checkTiling(sc *domain.Scenario, result *domain.ValidationResult) {
	if len(sc.Phases) == 0 || sc.Assumptions.PlanDurationYears < 1 {
		return
	}

	ordered := make([]domain.Phase, len(sc.Phases))
	copy(ordered, sc.Phases)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].StartYear < ordered[j].StartYear })

	if ordered[0].StartYear != 1 {
		result.AddError(domain.CategoryStructure, "phases",
			"first phase starts at year %d, expected 1", ordered[0].StartYear)
	}
	for i := 1; i < len(ordered); i++ {
		prev, cur := ordered[i-1], ordered[i]
		switch {
		case cur.StartYear > prev.EndYear+1:
			result.AddError(domain.CategoryStructure, "phases",
				"gap between phase %q (ends year %d) and phase %q (starts year %d)",
				prev.Name, prev.EndYear, cur.Name, cur.StartYear)
		case cur.StartYear <= prev.EndYear:
			result.AddError(domain.CategoryStructure, "phases",
				"phase %q overlaps phase %q at year %d",
				cur.Name, prev.Name, cur.StartYear)
		}
	}
	if last := ordered[len(ordered)-1]; last.EndYear != sc.Assumptions.PlanDurationYears {
		result.AddError(domain.CategoryStructure, "phases",
			"last phase ends at year %d, expected plan duration %d",
			last.EndYear, sc.Assumptions.PlanDurationYears)
	}
}

func (v *Validator) checkGoals(sc *domain.Scenario, result *domain.ValidationResult) {
	g := sc.Goals
	duration := sc.Assumptions.PlanDurationYears

	if g.Marriage != nil {
		if g.Marriage.EndYear < g.Marriage.StartYear {
			result.AddError(domain.CategoryRange, "goals.marriage",
				"end year %d before start year %d", g.Marriage.EndYear, g.Marriage.StartYear)
		}
		if g.Marriage.TotalCost.IsNegative() {
			result.AddError(domain.CategoryRange, "goals.marriage.total_cost",
				"must be non-negative, got %s", g.Marriage.TotalCost)
		}
	}
	if g.Child != nil && (g.Child.BirthYear < 1 || g.Child.BirthYear > duration) {
		result.AddWarning(domain.CategoryRange, "goals.child.birth_year",
			"year %d outside plan [1, %d]; child costs will never apply", g.Child.BirthYear, duration)
	}
	if g.University != nil {
		for year, fee := range g.University.Fees {
			if fee.IsNegative() {
				result.AddError(domain.CategoryRange, "goals.university.fees",
					"fee for year %d must be non-negative, got %s", year, fee)
			}
		}
	}
	if g.TravelAnnual.IsNegative() {
		result.AddError(domain.CategoryRange, "goals.travel_annual",
			"must be non-negative, got %s", g.TravelAnnual)
	}
}
