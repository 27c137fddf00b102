package domain

import (
	"github.com/shopspring/decimal"
)

// Tax component names. A tax system lists the subset it levies, in the
// order they should be computed and reported.
const (
	ComponentIncomeTax         = "income_tax"
	ComponentNationalInsurance = "national_insurance"
	ComponentStudentLoan       = "student_loan"
	ComponentFederalTax        = "federal_tax"
	ComponentFICA              = "fica"
	ComponentStateTax          = "state_tax"
	ComponentCityTax           = "city_tax"
)

// Tax system variants. Each variant maps to one registered calculator.
const (
	VariantUK      = "uk"
	VariantUSState = "us_state"
	VariantTaxFree = "tax_free"
)

// TaxSystem is a declarative description of one jurisdiction's levies.
// Scenarios reference systems by ID; the variant selects the calculation
// strategy and Config carries the variant-specific parameters.
type TaxSystem struct {
	ID         string    `yaml:"id" json:"id"`
	Name       string    `yaml:"name" json:"name"`
	Variant    string    `yaml:"variant" json:"variant"`
	Currency   string    `yaml:"currency" json:"currency"`
	Components []string  `yaml:"components" json:"components"`
	Config     TaxConfig `yaml:"config" json:"config"`
}

// TaxConfig holds the union of per-variant parameters. A UK system fills
// the bands/rates/NI/student-loan fields; a US state system fills the
// federal/FICA/state/city tables. Unused sections stay nil.
type TaxConfig struct {
	Bands       *UKBands           `yaml:"bands,omitempty" json:"bands,omitempty"`
	Rates       *UKRates           `yaml:"rates,omitempty" json:"rates,omitempty"`
	NIBands     *NIBands           `yaml:"ni_bands,omitempty" json:"ni_bands,omitempty"`
	NIRates     *NIRates           `yaml:"ni_rates,omitempty" json:"ni_rates,omitempty"`
	StudentLoan *StudentLoanConfig `yaml:"student_loan,omitempty" json:"student_loan,omitempty"`
	Federal     *FederalConfig     `yaml:"federal,omitempty" json:"federal,omitempty"`
	FICA        *FICAConfig        `yaml:"fica,omitempty" json:"fica,omitempty"`
	State       *BracketTable      `yaml:"state,omitempty" json:"state,omitempty"`
	City        *BracketTable      `yaml:"city,omitempty" json:"city,omitempty"`

	// InflationRate indexes thresholds once any freeze period expires.
	InflationRate decimal.Decimal `yaml:"inflation_rate" json:"inflation_rate"`
}

// UKBands are the income tax thresholds. FreezeUntilYear holds thresholds
// nominal through that calendar year; afterwards they index with
// InflationRate.
type UKBands struct {
	PersonalAllowance decimal.Decimal `yaml:"personal_allowance" json:"personal_allowance"`
	BasicRateLimit    decimal.Decimal `yaml:"basic_rate_limit" json:"basic_rate_limit"`
	HigherRateLimit   decimal.Decimal `yaml:"higher_rate_limit" json:"higher_rate_limit"`
	TaperThreshold    decimal.Decimal `yaml:"taper_threshold" json:"taper_threshold"`
	FreezeUntilYear   int             `yaml:"freeze_until_year" json:"freeze_until_year"`
}

// UKRates are the three marginal income tax rates.
type UKRates struct {
	Basic      decimal.Decimal `yaml:"basic" json:"basic"`
	Higher     decimal.Decimal `yaml:"higher" json:"higher"`
	Additional decimal.Decimal `yaml:"additional" json:"additional"`
}

// NIBands are the Class 1 employee thresholds.
type NIBands struct {
	PrimaryThreshold   decimal.Decimal `yaml:"primary_threshold" json:"primary_threshold"`
	UpperEarningsLimit decimal.Decimal `yaml:"upper_earnings_limit" json:"upper_earnings_limit"`
}

// NIRates are the main and above-upper-limit NI rates.
type NIRates struct {
	Main  decimal.Decimal `yaml:"main" json:"main"`
	Upper decimal.Decimal `yaml:"upper" json:"upper"`
}

// StudentLoanConfig describes an income-contingent loan plan. Interest is
// RPI plus a premium that scales linearly with income between the lower
// and upper interest thresholds.
type StudentLoanConfig struct {
	RepaymentThreshold     decimal.Decimal `yaml:"repayment_threshold" json:"repayment_threshold"`
	RepaymentRate          decimal.Decimal `yaml:"repayment_rate" json:"repayment_rate"`
	InterestBaseRate       decimal.Decimal `yaml:"interest_base_rate" json:"interest_base_rate"`
	InterestMaxPremium     decimal.Decimal `yaml:"interest_max_premium" json:"interest_max_premium"`
	InterestLowerThreshold decimal.Decimal `yaml:"interest_lower_threshold" json:"interest_lower_threshold"`
	InterestUpperThreshold decimal.Decimal `yaml:"interest_upper_threshold" json:"interest_upper_threshold"`
}

// FederalBracket is one row of the US federal table: the marginal rate
// applies above the previous row's limit, and Base is the cumulative tax
// owed at the bottom of the row. A nil Limit marks the open top bracket.
type FederalBracket struct {
	Limit *decimal.Decimal `yaml:"limit" json:"limit"`
	Rate  decimal.Decimal  `yaml:"rate" json:"rate"`
	Base  decimal.Decimal  `yaml:"base" json:"base"`
}

// FederalConfig carries the federal bracket table and standard deduction.
type FederalConfig struct {
	StandardDeduction decimal.Decimal  `yaml:"standard_deduction" json:"standard_deduction"`
	Brackets          []FederalBracket `yaml:"brackets" json:"brackets"`
}

// FICAConfig describes Social Security and Medicare payroll taxes.
type FICAConfig struct {
	SocialSecurityRate      decimal.Decimal `yaml:"social_security_rate" json:"social_security_rate"`
	SocialSecurityWageCap   decimal.Decimal `yaml:"social_security_wage_cap" json:"social_security_wage_cap"`
	MedicareRate            decimal.Decimal `yaml:"medicare_rate" json:"medicare_rate"`
	AdditionalMedicareRate  decimal.Decimal `yaml:"additional_medicare_rate" json:"additional_medicare_rate"`
	AdditionalMedicareFloor decimal.Decimal `yaml:"additional_medicare_floor" json:"additional_medicare_floor"`
}

// SimpleBracket is one row of a plain marginal table (state/city taxes).
// A nil Limit marks the open top bracket.
type SimpleBracket struct {
	Limit *decimal.Decimal `yaml:"limit" json:"limit"`
	Rate  decimal.Decimal  `yaml:"rate" json:"rate"`
}

// BracketTable is a plain marginal bracket walk over gross income.
type BracketTable struct {
	Brackets []SimpleBracket `yaml:"brackets" json:"brackets"`
}

// TaxComponent is one levy within a year's assessment, in the tax
// system's own currency.
type TaxComponent struct {
	Name   string          `json:"name"`
	Amount decimal.Decimal `json:"amount"`
}

// TaxBreakdown is the ordered set of components levied in one year.
type TaxBreakdown struct {
	Components []TaxComponent `json:"components"`
}

// Total sums all components.
func (tb TaxBreakdown) Total() decimal.Decimal {
	total := decimal.Zero
	for _, c := range tb.Components {
		total = total.Add(c.Amount)
	}
	return total
}

// Amount returns the named component, or zero if absent.
func (tb TaxBreakdown) Amount(name string) decimal.Decimal {
	for _, c := range tb.Components {
		if c.Name == name {
			return c.Amount
		}
	}
	return decimal.Zero
}
