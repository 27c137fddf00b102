package config

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const multiPhaseDoc = `
templates:
  - name: senior_engineer
    version: "1"
    params:
      base_salary: 95000
      bonus_rate: 0.15
      rsu_rate: 0.20
      progression:
        type: compound_rate
        rate: 0.04

tax_systems:
  - id: uk
    name: United Kingdom
    variant: uk
    currency: GBP
    components: [income_tax, national_insurance, student_loan]
    config:
      bands:
        personal_allowance: 12570
        basic_rate_limit: 50270
        higher_rate_limit: 125140
        taper_threshold: 100000
        freeze_until_year: 2028
      rates:
        basic: 0.20
        higher: 0.40
        additional: 0.45
      ni_bands:
        primary_threshold: 12570
        upper_earnings_limit: 50270
      ni_rates:
        main: 0.08
        upper: 0.02
      inflation_rate: 0.025
  - id: uae
    name: Dubai
    variant: tax_free
    currency: AED
    components: [income_tax]

exchange_rates:
  AED: 0.215
  USD: 0.79

scenarios:
  - scenario:
      id: uk_then_dubai
      name: UK then Dubai
    phases:
      - name: london
        duration: 3
        location: london
        currency: GBP
        tax_system: uk
        income_template: senior_engineer
      - name: dubai
        duration: 7
        location: dubai
        currency: AED
        tax_system: uae
        income_template: senior_engineer
        relocation_cost: 20000
    goals:
      travel_annual: 3000
    assumptions:
      start_year: 2026
      plan_duration_years: 10
      start_age: 30
      base_currency: GBP
      inflation_rate: 0.025
      investment_return_rate: 0.06
      student_loan_debt: 45000
`

const singlePhaseDoc = `
templates:
  - name: senior_engineer
    params:
      base_salary: 95000

tax_systems:
  - id: uk
    variant: uk
    currency: GBP
    components: [income_tax]

scenarios:
  - scenario:
      id: stay_uk
      name: Stay in the UK
    location: london
    currency: GBP
    tax_system: uk
    income_template: senior_engineer
    expenses:
      location_expenses:
        rent_monthly: 1800
        general_monthly: 1200
      goals:
        travel_annual: 3000
    assumptions:
      start_year: 2026
      plan_duration_years: 10
      start_age: 30
      base_currency: GBP
`

func TestParseMultiPhaseDocument(t *testing.T) {
	input, err := NewInputParser().Parse([]byte(multiPhaseDoc))
	require.NoError(t, err)

	require.Len(t, input.Templates, 1)
	assert.Equal(t, "senior_engineer", input.Templates[0].Name)

	require.Len(t, input.TaxSystems, 2)
	uk := input.TaxSystems[0]
	require.NotNil(t, uk.Config.Bands)
	assert.True(t, uk.Config.Bands.PersonalAllowance.Equal(decimal.NewFromInt(12570)))
	assert.Equal(t, 2028, uk.Config.Bands.FreezeUntilYear)

	require.Len(t, input.Scenarios, 1)
	sc := input.Scenarios[0]
	require.Len(t, sc.Phases, 2)

	// durations laid out contiguously in document order
	assert.Equal(t, 1, sc.Phases[0].StartYear)
	assert.Equal(t, 3, sc.Phases[0].EndYear)
	assert.Equal(t, 4, sc.Phases[1].StartYear)
	assert.Equal(t, 10, sc.Phases[1].EndYear)
	assert.True(t, sc.Phases[1].RelocationCost.Equal(decimal.NewFromInt(20000)))

	rate, ok := input.Rates["AED"]
	require.True(t, ok)
	assert.True(t, rate.Equal(decimal.RequireFromString("0.215")))
}

func TestParseSinglePhaseDocument(t *testing.T) {
	input, err := NewInputParser().Parse([]byte(singlePhaseDoc))
	require.NoError(t, err)

	sc := input.Scenarios[0]
	require.Len(t, sc.Phases, 1)
	p := sc.Phases[0]
	assert.Equal(t, 1, p.StartYear)
	assert.Equal(t, 10, p.EndYear)
	assert.Equal(t, "london", p.Location)
	assert.True(t, p.Expenses.RentMonthly.Equal(decimal.NewFromInt(1800)))

	// goals hoisted from the expenses block
	assert.True(t, sc.Goals.TravelAnnual.Equal(decimal.NewFromInt(3000)))
}

func TestParseRejectsZeroDurationPhase(t *testing.T) {
	doc := `
scenarios:
  - scenario: {id: bad, name: Bad}
    phases:
      - name: nowhere
        duration: 0
        location: x
        currency: GBP
        tax_system: uk
        income_template: t
    assumptions: {plan_duration_years: 5, base_currency: GBP}
`
	_, err := NewInputParser().Parse([]byte(doc))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duration")
}

func TestParseRejectsDuplicateTemplates(t *testing.T) {
	doc := `
templates:
  - name: twin
    params: {a: 1}
  - name: twin
    params: {a: 2}
scenarios:
  - scenario: {id: s, name: S}
    location: x
    currency: GBP
    tax_system: uk
    income_template: twin
    assumptions: {plan_duration_years: 5, base_currency: GBP}
`
	_, err := NewInputParser().Parse([]byte(doc))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate template")
}

func TestParseRejectsEmptyDocument(t *testing.T) {
	_, err := NewInputParser().Parse([]byte("templates: []"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least one scenario")
}

func TestParseExplicitYearsConflictingDuration(t *testing.T) {
	doc := `
scenarios:
  - scenario: {id: s, name: S}
    phases:
      - name: p
        start_year: 1
        end_year: 4
        duration: 2
        location: x
        currency: GBP
        tax_system: uk
        income_template: t
    assumptions: {plan_duration_years: 4, base_currency: GBP}
`
	_, err := NewInputParser().Parse([]byte(doc))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "conflicts")
}
