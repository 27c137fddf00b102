package tax

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thall/longview/internal/domain"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }
func dp(s string) *decimal.Decimal {
	v := decimal.RequireFromString(s)
	return &v
}

func ukSystem() *domain.TaxSystem {
	return &domain.TaxSystem{
		ID:       "uk",
		Variant:  domain.VariantUK,
		Currency: "GBP",
		Components: []string{
			domain.ComponentIncomeTax,
			domain.ComponentNationalInsurance,
			domain.ComponentStudentLoan,
		},
		Config: domain.TaxConfig{
			Bands: &domain.UKBands{
				PersonalAllowance: d("12570"),
				BasicRateLimit:    d("50270"),
				HigherRateLimit:   d("125140"),
				TaperThreshold:    d("100000"),
				FreezeUntilYear:   2028,
			},
			Rates: &domain.UKRates{
				Basic:      d("0.20"),
				Higher:     d("0.40"),
				Additional: d("0.45"),
			},
			NIBands: &domain.NIBands{
				PrimaryThreshold:   d("12570"),
				UpperEarningsLimit: d("50270"),
			},
			NIRates: &domain.NIRates{
				Main:  d("0.08"),
				Upper: d("0.02"),
			},
			StudentLoan: &domain.StudentLoanConfig{
				RepaymentThreshold:     d("28470"),
				RepaymentRate:          d("0.09"),
				InterestBaseRate:       d("0.043"),
				InterestMaxPremium:     d("0.03"),
				InterestLowerThreshold: d("28470"),
				InterestUpperThreshold: d("51245"),
			},
			InflationRate: d("0.025"),
		},
	}
}

func usSystem() *domain.TaxSystem {
	return &domain.TaxSystem{
		ID:       "us_ny",
		Variant:  domain.VariantUSState,
		Currency: "USD",
		Components: []string{
			domain.ComponentFederalTax,
			domain.ComponentFICA,
			domain.ComponentStateTax,
			domain.ComponentCityTax,
		},
		Config: domain.TaxConfig{
			Federal: &domain.FederalConfig{
				StandardDeduction: d("15000"),
				Brackets: []domain.FederalBracket{
					{Limit: dp("11925"), Rate: d("0.10"), Base: d("0")},
					{Limit: dp("48475"), Rate: d("0.12"), Base: d("1192.50")},
					{Limit: dp("96950"), Rate: d("0.22"), Base: d("5595.50")},
					{Limit: dp("206700"), Rate: d("0.24"), Base: d("17843.50")},
					{Limit: dp("394600"), Rate: d("0.32"), Base: d("46253.50")},
					{Limit: dp("626350"), Rate: d("0.35"), Base: d("104755.50")},
					{Limit: nil, Rate: d("0.37"), Base: d("186601.50")},
				},
			},
			FICA: &domain.FICAConfig{
				SocialSecurityRate:      d("0.062"),
				SocialSecurityWageCap:   d("176100"),
				MedicareRate:            d("0.0145"),
				AdditionalMedicareRate:  d("0.009"),
				AdditionalMedicareFloor: d("200000"),
			},
			State: &domain.BracketTable{
				Brackets: []domain.SimpleBracket{
					{Limit: dp("80650"), Rate: d("0.055")},
					{Limit: dp("215400"), Rate: d("0.06")},
					{Limit: nil, Rate: d("0.0685")},
				},
			},
			City: &domain.BracketTable{
				Brackets: []domain.SimpleBracket{
					{Limit: dp("50000"), Rate: d("0.035")},
					{Limit: nil, Rate: d("0.0388")},
				},
			},
		},
	}
}

func dubaiSystem() *domain.TaxSystem {
	return &domain.TaxSystem{
		ID:         "uae",
		Variant:    domain.VariantTaxFree,
		Currency:   "AED",
		Components: []string{domain.ComponentIncomeTax, domain.ComponentNationalInsurance},
	}
}

func TestUKIncomeTaxBasicRate(t *testing.T) {
	reg := NewRegistry()

	a, err := reg.Compute(d("45000"), 2026, ukSystem(), decimal.Zero)
	require.NoError(t, err)

	// 0.20 × (45000 − 12570)
	assert.True(t, a.Breakdown.Amount(domain.ComponentIncomeTax).Equal(d("6486")),
		"got %s", a.Breakdown.Amount(domain.ComponentIncomeTax))
	// 0.08 × (45000 − 12570)
	assert.True(t, a.Breakdown.Amount(domain.ComponentNationalInsurance).Equal(d("2594.40")),
		"got %s", a.Breakdown.Amount(domain.ComponentNationalInsurance))
}

func TestUKPersonalAllowanceTaper(t *testing.T) {
	reg := NewRegistry()

	a, err := reg.Compute(d("110000"), 2026, ukSystem(), decimal.Zero)
	require.NoError(t, err)

	// allowance 12570 − (110000 − 100000)/2 = 7570
	// (50270 − 7570) × 0.20 + (110000 − 50270) × 0.40
	assert.True(t, a.Breakdown.Amount(domain.ComponentIncomeTax).Equal(d("32432")),
		"got %s", a.Breakdown.Amount(domain.ComponentIncomeTax))
}

func TestUKIncomeBelowAllowanceIsZero(t *testing.T) {
	reg := NewRegistry()

	a, err := reg.Compute(d("10000"), 2026, ukSystem(), decimal.Zero)
	require.NoError(t, err)
	assert.True(t, a.Breakdown.Amount(domain.ComponentIncomeTax).IsZero())
	assert.True(t, a.Breakdown.Amount(domain.ComponentNationalInsurance).IsZero())
}

func TestUKStudentLoanRepayment(t *testing.T) {
	reg := NewRegistry()
	balance := d("40000")

	a, err := reg.Compute(d("45000"), 2026, ukSystem(), balance)
	require.NoError(t, err)

	// 0.09 × (45000 − 28470)
	repayment := a.Breakdown.Amount(domain.ComponentStudentLoan)
	assert.True(t, repayment.Equal(d("1487.70")), "got %s", repayment)

	// balance accrued interest above base rate then shrank by the repayment
	assert.True(t, a.LoanBalance.GreaterThan(balance.Sub(repayment)))
	assert.True(t, a.LoanBalance.LessThan(balance.Mul(d("1.073")).Sub(repayment).Add(d("0.01"))))
}

func TestUKStudentLoanZeroBalance(t *testing.T) {
	reg := NewRegistry()

	a, err := reg.Compute(d("45000"), 2026, ukSystem(), decimal.Zero)
	require.NoError(t, err)
	assert.True(t, a.Breakdown.Amount(domain.ComponentStudentLoan).IsZero())
	assert.True(t, a.LoanBalance.IsZero())
}

func TestUKStudentLoanRepaymentCappedAtBalance(t *testing.T) {
	reg := NewRegistry()

	a, err := reg.Compute(d("100000"), 2026, ukSystem(), d("500"))
	require.NoError(t, err)
	assert.True(t, a.LoanBalance.IsZero(), "got %s", a.LoanBalance)
	// repayment never exceeds balance plus interest
	assert.True(t, a.Breakdown.Amount(domain.ComponentStudentLoan).LessThan(d("600")))
}

func TestUKThresholdIndexingAfterFreeze(t *testing.T) {
	reg := NewRegistry()
	sys := ukSystem()

	frozen, err := reg.Compute(d("45000"), 2028, sys, decimal.Zero)
	require.NoError(t, err)
	indexed, err := reg.Compute(d("45000"), 2030, sys, decimal.Zero)
	require.NoError(t, err)

	// a larger allowance means less tax once indexing resumes
	assert.True(t, indexed.Breakdown.Amount(domain.ComponentIncomeTax).
		LessThan(frozen.Breakdown.Amount(domain.ComponentIncomeTax)))
}

func TestUSFederalTaxCumulativeBase(t *testing.T) {
	reg := NewRegistry()

	a, err := reg.Compute(d("150000"), 2026, usSystem(), decimal.Zero)
	require.NoError(t, err)

	// taxable 135000 falls in the 24% bracket:
	// 17843.50 + 0.24 × (135000 − 96950) = 26975.50
	assert.True(t, a.Breakdown.Amount(domain.ComponentFederalTax).Equal(d("26975.50")),
		"got %s", a.Breakdown.Amount(domain.ComponentFederalTax))

	// 150000 × 0.062 + 150000 × 0.0145
	assert.True(t, a.Breakdown.Amount(domain.ComponentFICA).Equal(d("11475")),
		"got %s", a.Breakdown.Amount(domain.ComponentFICA))
}

func TestUSFICAWageCapAndAdditionalMedicare(t *testing.T) {
	reg := NewRegistry()

	a, err := reg.Compute(d("250000"), 2026, usSystem(), decimal.Zero)
	require.NoError(t, err)

	// 176100 × 0.062 + 250000 × 0.0145 + 50000 × 0.009
	want := d("10918.20").Add(d("3625")).Add(d("450"))
	assert.True(t, a.Breakdown.Amount(domain.ComponentFICA).Equal(want),
		"got %s", a.Breakdown.Amount(domain.ComponentFICA))
}

func TestUSStateWalkMatchesCumulative(t *testing.T) {
	reg := NewRegistry()
	gross := d("150000")

	a, err := reg.Compute(gross, 2026, usSystem(), decimal.Zero)
	require.NoError(t, err)

	// 80650 × 0.055 + (150000 − 80650) × 0.06
	wantState := d("80650").Mul(d("0.055")).Add(d("69350").Mul(d("0.06")))
	assert.True(t, a.Breakdown.Amount(domain.ComponentStateTax).Equal(wantState),
		"got %s", a.Breakdown.Amount(domain.ComponentStateTax))

	// 50000 × 0.035 + 100000 × 0.0388
	wantCity := d("1750").Add(d("3880"))
	assert.True(t, a.Breakdown.Amount(domain.ComponentCityTax).Equal(wantCity),
		"got %s", a.Breakdown.Amount(domain.ComponentCityTax))
}

func TestUSTopOpenBracket(t *testing.T) {
	reg := NewRegistry()

	a, err := reg.Compute(d("800000"), 2026, usSystem(), decimal.Zero)
	require.NoError(t, err)

	// taxable 785000: 186601.50 + 0.37 × (785000 − 626350)
	want := d("186601.50").Add(d("158650").Mul(d("0.37")))
	assert.True(t, a.Breakdown.Amount(domain.ComponentFederalTax).Equal(want),
		"got %s", a.Breakdown.Amount(domain.ComponentFederalTax))
}

func TestUSUnsortedBracketsRejected(t *testing.T) {
	reg := NewRegistry()
	sys := usSystem()
	sys.Config.Federal.Brackets[1], sys.Config.Federal.Brackets[2] =
		sys.Config.Federal.Brackets[2], sys.Config.Federal.Brackets[1]

	_, err := reg.Compute(d("150000"), 2026, sys, decimal.Zero)
	require.Error(t, err)
	var taxErr *domain.TaxCalculationError
	require.ErrorAs(t, err, &taxErr)
	assert.Equal(t, domain.ComponentFederalTax, taxErr.Component)
	assert.Equal(t, 2026, taxErr.Year)
}

func TestTaxFreeAllComponentsZero(t *testing.T) {
	reg := NewRegistry()

	for _, gross := range []string{"0", "50000", "1000000"} {
		a, err := reg.Compute(d(gross), 2026, dubaiSystem(), decimal.Zero)
		require.NoError(t, err)
		assert.True(t, a.Breakdown.Total().IsZero(), "gross %s: got %s", gross, a.Breakdown.Total())
		assert.Len(t, a.Breakdown.Components, 2)
	}
}

func TestTaxFreeStudentLoanStillAccrues(t *testing.T) {
	reg := NewRegistry()
	sys := dubaiSystem()
	sys.Components = append(sys.Components, domain.ComponentStudentLoan)
	sys.Config.StudentLoan = ukSystem().Config.StudentLoan
	balance := d("40000")

	a, err := reg.Compute(d("60000"), 2026, sys, balance)
	require.NoError(t, err)
	assert.True(t, a.Breakdown.Amount(domain.ComponentStudentLoan).IsPositive())
	assert.False(t, a.LoanBalance.Equal(balance))
}

func TestUnsupportedJurisdiction(t *testing.T) {
	reg := NewRegistry()
	sys := &domain.TaxSystem{ID: "mars", Variant: "martian"}

	_, err := reg.Compute(d("100"), 2026, sys, decimal.Zero)
	require.Error(t, err)
	var unsupported *domain.UnsupportedJurisdictionError
	require.ErrorAs(t, err, &unsupported)
	assert.Equal(t, "mars", unsupported.ID)
}

func TestComponentsNeverNegative(t *testing.T) {
	reg := NewRegistry()

	for _, gross := range []string{"0", "5000", "12570", "28470", "50270", "100000", "125140", "500000"} {
		a, err := reg.Compute(d(gross), 2026, ukSystem(), d("40000"))
		require.NoError(t, err)
		for _, c := range a.Breakdown.Components {
			assert.False(t, c.Amount.IsNegative(), "gross %s component %s: %s", gross, c.Name, c.Amount)
		}
	}
}
