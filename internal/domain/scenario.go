package domain

import (
	"github.com/shopspring/decimal"
)

// Housing strategies. The strategy names the market a purchase draws
// from: uk_home keeps the property in the UK market regardless of the
// current phase, local_home buys in the phase's own market.
const (
	StrategyUKHome    = "uk_home"
	StrategyLocalHome = "local_home"
)

// Growth extension policies for a price_growth sequence shorter than the
// years it must cover.
const (
	GrowthExtendRepeatLast = "repeat_last"
	GrowthExtendZero       = "zero"
)

// Scenario is one fully parameterized plan: an ordered set of phases over
// a shared set of assumptions and universal goals. Phases must exactly
// tile [1, Assumptions.PlanDurationYears].
type Scenario struct {
	ID          string             `yaml:"id" json:"id"`
	Name        string             `yaml:"name" json:"name"`
	Description string             `yaml:"description,omitempty" json:"description,omitempty"`
	Phases      []Phase            `yaml:"phases" json:"phases"`
	Goals       GoalExpensesConfig `yaml:"goals" json:"goals"`
	Assumptions Assumptions        `yaml:"assumptions" json:"assumptions"`
}

// Phase is one contiguous span of plan years in a fixed jurisdiction.
// StartYear and EndYear are inclusive and 1-based relative to plan start.
type Phase struct {
	Name      string `yaml:"name" json:"name"`
	StartYear int    `yaml:"start_year" json:"start_year"`
	EndYear   int    `yaml:"end_year" json:"end_year"`

	Location  string `yaml:"location" json:"location"`
	Currency  string `yaml:"currency" json:"currency"`
	TaxSystem string `yaml:"tax_system" json:"tax_system"`

	IncomeTemplate  string         `yaml:"income_template" json:"income_template"`
	IncomeOverrides map[string]any `yaml:"income_overrides,omitempty" json:"income_overrides,omitempty"`
	Params          map[string]any `yaml:"params,omitempty" json:"params,omitempty"`

	Expenses LocationExpenses `yaml:"expenses" json:"expenses"`
	Housing  *HousingConfig   `yaml:"housing,omitempty" json:"housing,omitempty"`

	// InvestmentAllocation, when set, splits the year's positive savings
	// across tax-advantaged wrappers and credits the LISA bonus on top.
	InvestmentAllocation *InvestmentAllocationConfig `yaml:"investment_allocation,omitempty" json:"investment_allocation,omitempty"`

	// RelocationCost is a one-off expense charged in the phase's first
	// year, in the phase currency.
	RelocationCost decimal.Decimal `yaml:"relocation_cost,omitempty" json:"relocation_cost,omitempty"`
}

// Duration is the number of plan years the phase covers.
func (p Phase) Duration() int {
	return p.EndYear - p.StartYear + 1
}

// Contains reports whether the plan year falls inside the phase.
func (p Phase) Contains(year int) bool {
	return year >= p.StartYear && year <= p.EndYear
}

// LocationExpenses are the recurring costs of living in one location, in
// the phase currency. Monthly figures are annualized by the projector.
type LocationExpenses struct {
	RentMonthly       decimal.Decimal `yaml:"rent_monthly" json:"rent_monthly"`
	HealthcareMonthly decimal.Decimal `yaml:"healthcare_monthly" json:"healthcare_monthly"`
	GeneralMonthly    decimal.Decimal `yaml:"general_monthly" json:"general_monthly"`

	// RetirementContributionRate is a fraction of salary diverted to a
	// retirement account, counted as an expense for cash-flow purposes.
	RetirementContributionRate decimal.Decimal `yaml:"retirement_contribution_rate" json:"retirement_contribution_rate"`
}

// HousingConfig describes a property purchase inside a phase.
type HousingConfig struct {
	Strategy     string          `yaml:"strategy" json:"strategy"`
	Market       string          `yaml:"market" json:"market"`
	PurchaseYear int             `yaml:"purchase_year" json:"purchase_year"`
	BasePrice    decimal.Decimal `yaml:"base_price" json:"base_price"`
	Currency     string          `yaml:"currency" json:"currency"`

	// PriceGrowth compounds the base price year by year before purchase;
	// rate i applies in plan year i+1. GrowthExtension selects how to
	// continue once the sequence runs out.
	PriceGrowth     []decimal.Decimal `yaml:"price_growth" json:"price_growth"`
	GrowthExtension string            `yaml:"growth_extension,omitempty" json:"growth_extension,omitempty"`

	DepositRate       decimal.Decimal `yaml:"deposit_rate" json:"deposit_rate"`
	MortgageRate      decimal.Decimal `yaml:"mortgage_rate" json:"mortgage_rate"`
	MortgageTermYears int             `yaml:"mortgage_term_years" json:"mortgage_term_years"`

	// AppreciationRate grows the property's value after purchase. When
	// zero, the plan inflation rate is used.
	AppreciationRate decimal.Decimal `yaml:"appreciation_rate,omitempty" json:"appreciation_rate,omitempty"`

	RentalIncome *RentalIncomeConfig `yaml:"rental_income,omitempty" json:"rental_income,omitempty"`
}

// InvestmentAllocationConfig caps the annual wrapper contributions, in
// the phase currency. The LISA allowance counts against the ISA
// allowance; anything over the SIPP allowance spills into a GIA.
type InvestmentAllocationConfig struct {
	LISAAllowance decimal.Decimal `yaml:"lisa_allowance" json:"lisa_allowance"`
	ISAAllowance  decimal.Decimal `yaml:"isa_allowance" json:"isa_allowance"`
	SIPPAllowance decimal.Decimal `yaml:"sipp_allowance" json:"sipp_allowance"`
	LISABonusRate decimal.Decimal `yaml:"lisa_bonus_rate" json:"lisa_bonus_rate"`
}

// RentalIncomeConfig credits net rent from the property while the plan is
// in a phase located outside the property's market.
type RentalIncomeConfig struct {
	MonthlyRate   decimal.Decimal `yaml:"monthly_rate" json:"monthly_rate"`
	ManagementFee decimal.Decimal `yaml:"management_fee" json:"management_fee"`
	WhenAbroad    bool            `yaml:"when_abroad" json:"when_abroad"`
}

// GoalExpensesConfig holds the universal life-goal costs applied across
// all phases, in the base currency.
type GoalExpensesConfig struct {
	University      *UniversityGoal      `yaml:"university,omitempty" json:"university,omitempty"`
	Marriage        *MarriageGoal        `yaml:"marriage,omitempty" json:"marriage,omitempty"`
	Child           *ChildGoal           `yaml:"child,omitempty" json:"child,omitempty"`
	Personal        *PersonalExpenses    `yaml:"personal,omitempty" json:"personal,omitempty"`
	ParentalSupport *ParentalSupportGoal `yaml:"parental_support,omitempty" json:"parental_support,omitempty"`
	TravelAnnual    decimal.Decimal      `yaml:"travel_annual,omitempty" json:"travel_annual,omitempty"`
}

// UniversityGoal pays tuition fees over a fixed schedule of plan years.
type UniversityGoal struct {
	Fees map[int]decimal.Decimal `yaml:"fees" json:"fees"`
}

// MarriageGoal spreads a total cost evenly across [StartYear, EndYear].
type MarriageGoal struct {
	TotalCost decimal.Decimal `yaml:"total_cost" json:"total_cost"`
	StartYear int             `yaml:"start_year" json:"start_year"`
	EndYear   int             `yaml:"end_year" json:"end_year"`
}

// ChildGoal charges a one-off cost in BirthYear and an ongoing annual
// cost from BirthYear onwards.
type ChildGoal struct {
	BirthYear  int             `yaml:"birth_year" json:"birth_year"`
	OneOffCost decimal.Decimal `yaml:"one_off_cost" json:"one_off_cost"`
	AnnualCost decimal.Decimal `yaml:"annual_cost" json:"annual_cost"`
}

// PersonalExpenses looks up a year-keyed amount with a default fallback.
type PersonalExpenses struct {
	ByYear  map[int]decimal.Decimal `yaml:"by_year,omitempty" json:"by_year,omitempty"`
	Default decimal.Decimal         `yaml:"default" json:"default"`
}

// Amount returns the year's entry, or the default when no entry exists.
func (p *PersonalExpenses) Amount(year int) decimal.Decimal {
	if p == nil {
		return decimal.Zero
	}
	if v, ok := p.ByYear[year]; ok {
		return v
	}
	return p.Default
}

// ParentalSupportGoal switches the annual amount once a house purchase
// happens in SwitchYear.
type ParentalSupportGoal struct {
	AnnualBefore decimal.Decimal `yaml:"annual_before" json:"annual_before"`
	AnnualAfter  decimal.Decimal `yaml:"annual_after" json:"annual_after"`
	SwitchYear   int             `yaml:"switch_year" json:"switch_year"`
}

// Assumptions are the plan-wide parameters shared by all phases.
type Assumptions struct {
	StartYear         int `yaml:"start_year" json:"start_year"`
	PlanDurationYears int `yaml:"plan_duration_years" json:"plan_duration_years"`
	StartAge          int `yaml:"start_age" json:"start_age"`

	BaseCurrency string `yaml:"base_currency" json:"base_currency"`

	// InflationRate is the default; InflationPath supplies year-keyed
	// departures from it.
	InflationRate decimal.Decimal         `yaml:"inflation_rate" json:"inflation_rate"`
	InflationPath map[int]decimal.Decimal `yaml:"inflation_path,omitempty" json:"inflation_path,omitempty"`

	InvestmentReturnRate decimal.Decimal `yaml:"investment_return_rate" json:"investment_return_rate"`

	StudentLoanDebt decimal.Decimal `yaml:"student_loan_debt,omitempty" json:"student_loan_debt,omitempty"`

	InitialSavings     decimal.Decimal `yaml:"initial_savings,omitempty" json:"initial_savings,omitempty"`
	InitialInvestments decimal.Decimal `yaml:"initial_investments,omitempty" json:"initial_investments,omitempty"`
}

// InflationFor returns the year's inflation rate, falling back to the
// plan default when the path has no entry.
func (a Assumptions) InflationFor(year int) decimal.Decimal {
	if v, ok := a.InflationPath[year]; ok {
		return v
	}
	return a.InflationRate
}

// IncomeConfig is the decoded shape of a resolved income template.
type IncomeConfig struct {
	BaseSalary        decimal.Decimal             `yaml:"base_salary" json:"base_salary"`
	BonusRate         decimal.Decimal             `yaml:"bonus_rate" json:"bonus_rate"`
	RSURate           decimal.Decimal             `yaml:"rsu_rate" json:"rsu_rate"`
	RSUVestYears      int                         `yaml:"rsu_vest_years,omitempty" json:"rsu_vest_years,omitempty"`
	RSUStartYear      int                         `yaml:"rsu_start_year,omitempty" json:"rsu_start_year,omitempty"`
	Progression       Progression                 `yaml:"progression" json:"progression"`
	MarketAdjustments map[string]MarketAdjustment `yaml:"market_adjustments,omitempty" json:"market_adjustments,omitempty"`
}

// Progression types.
const (
	ProgressionYearlyOverrides = "yearly_overrides"
	ProgressionCompoundRate    = "compound_rate"
)

// Progression describes how salary evolves across plan years. With
// compound_rate, an explicit year entry still wins over the computed
// figure.
type Progression struct {
	Type      string               `yaml:"type" json:"type"`
	Rate      decimal.Decimal      `yaml:"rate,omitempty" json:"rate,omitempty"`
	Overrides map[int]YearlyIncome `yaml:"overrides,omitempty" json:"overrides,omitempty"`
}

// YearlyIncome is one explicit progression entry. Nil fields leave the
// computed value in place.
type YearlyIncome struct {
	Salary *decimal.Decimal `yaml:"salary,omitempty" json:"salary,omitempty"`
	Bonus  *decimal.Decimal `yaml:"bonus,omitempty" json:"bonus,omitempty"`
	RSU    *decimal.Decimal `yaml:"rsu,omitempty" json:"rsu,omitempty"`
}

// MarketAdjustment scales the template's income figures for a location.
type MarketAdjustment struct {
	SalaryMultiplier decimal.Decimal `yaml:"salary_multiplier" json:"salary_multiplier"`
	BonusMultiplier  decimal.Decimal `yaml:"bonus_multiplier" json:"bonus_multiplier"`
	RSUMultiplier    decimal.Decimal `yaml:"rsu_multiplier" json:"rsu_multiplier"`
}
