package domain

import (
	"github.com/shopspring/decimal"
)

// RunStatus tracks a scenario through its projection run.
type RunStatus string

const (
	StatusPending  RunStatus = "PENDING"
	StatusInPhase  RunStatus = "IN_PHASE"
	StatusComplete RunStatus = "COMPLETE"
	StatusFailed   RunStatus = "FAILED"
)

// IncomeBreakdown splits one year's gross income, each part carrying its
// original currency and base-currency equivalent.
type IncomeBreakdown struct {
	Salary       CurrencyValue `json:"salary"`
	Bonus        CurrencyValue `json:"bonus"`
	RSUVested    CurrencyValue `json:"rsu_vested"`
	RentalIncome CurrencyValue `json:"rental_income"`
}

// TotalBase sums all income parts in the base currency.
func (i IncomeBreakdown) TotalBase() decimal.Decimal {
	return SumBase(i.Salary, i.Bonus, i.RSUVested, i.RentalIncome)
}

// GoalBreakdown itemizes the universal goal costs charged in one year.
type GoalBreakdown struct {
	University      CurrencyValue `json:"university"`
	Marriage        CurrencyValue `json:"marriage"`
	Child           CurrencyValue `json:"child"`
	Personal        CurrencyValue `json:"personal"`
	ParentalSupport CurrencyValue `json:"parental_support"`
	Travel          CurrencyValue `json:"travel"`
}

// TotalBase sums all goal costs in the base currency.
func (g GoalBreakdown) TotalBase() decimal.Decimal {
	return SumBase(g.University, g.Marriage, g.Child, g.Personal, g.ParentalSupport, g.Travel)
}

// ExpenseBreakdown splits one year's outgoings.
type ExpenseBreakdown struct {
	Rent                   CurrencyValue `json:"rent"`
	Healthcare             CurrencyValue `json:"healthcare"`
	General                CurrencyValue `json:"general"`
	RetirementContribution CurrencyValue `json:"retirement_contribution"`
	MortgagePayment        CurrencyValue `json:"mortgage_payment"`
	Relocation             CurrencyValue `json:"relocation"`
	Goals                  GoalBreakdown `json:"goals"`
}

// TotalBase sums all expenses, goals included, in the base currency.
func (e ExpenseBreakdown) TotalBase() decimal.Decimal {
	return SumBase(e.Rent, e.Healthcare, e.General, e.RetirementContribution, e.MortgagePayment, e.Relocation).
		Add(e.Goals.TotalBase())
}

// TaxRecord is a year's tax breakdown with each component normalized to
// the base currency.
type TaxRecord struct {
	Components []TaxComponentValue `json:"components"`
	Total      CurrencyValue       `json:"total"`
}

// TaxComponentValue is one levy with currency provenance.
type TaxComponentValue struct {
	Name  string        `json:"name"`
	Value CurrencyValue `json:"value"`
}

// Amount returns the named component's base equivalent, or zero.
func (t TaxRecord) Amount(name string) decimal.Decimal {
	for _, c := range t.Components {
		if c.Name == name {
			return c.Value.BaseEquivalent
		}
	}
	return decimal.Zero
}

// InvestmentBreakdown tracks the invested balance through one year.
// Allocation is set only for phases that configure wrapper allowances.
type InvestmentBreakdown struct {
	Contribution CurrencyValue         `json:"contribution"`
	Growth       CurrencyValue         `json:"growth"`
	Balance      CurrencyValue         `json:"balance"`
	Allocation   *InvestmentAllocation `json:"allocation,omitempty"`
}

// InvestmentAllocation is the split of one year's savings across the
// tax-advantaged wrappers, plus the government LISA bonus credited on
// top of the contribution.
type InvestmentAllocation struct {
	LISA      CurrencyValue `json:"lisa"`
	ISA       CurrencyValue `json:"isa"`
	SIPP      CurrencyValue `json:"sipp"`
	GIA       CurrencyValue `json:"gia"`
	LISABonus CurrencyValue `json:"lisa_bonus"`
}

// HousingRecord is the property position at the end of one year. Zero
// values throughout when no purchase has happened yet.
type HousingRecord struct {
	PropertyValue   CurrencyValue `json:"property_value"`
	MortgageBalance CurrencyValue `json:"mortgage_balance"`
	Equity          CurrencyValue `json:"equity"`
	DepositPaid     CurrencyValue `json:"deposit_paid"`
}

// NetWorthBreakdown is the year-end position. Total covers investments
// plus house equity; the student loan is reported alongside but repaid
// out of income via the tax breakdown, so it stays outside the total.
type NetWorthBreakdown struct {
	Investments     CurrencyValue `json:"investments"`
	HouseEquity     CurrencyValue `json:"house_equity"`
	StudentLoanDebt CurrencyValue `json:"student_loan_debt"`
	Total           CurrencyValue `json:"total"`
}

// FinancialDataPoint is one plan year's full financial record, produced
// exactly once and never mutated afterwards. The audit fields repeat the
// year's flows in base currency so that the net-worth recurrence
//
//	net_worth(n) = net_worth(n-1) + savings + growth + lisa bonus - goal one-offs + equity delta - deposit
//
// can be checked without re-deriving the flows from the breakdowns.
type FinancialDataPoint struct {
	Year         int    `json:"year"`
	CalendarYear int    `json:"calendar_year"`
	Age          int    `json:"age"`
	PhaseName    string `json:"phase_name"`
	Location     string `json:"location"`
	Jurisdiction string `json:"jurisdiction"`
	Currency     string `json:"currency"`

	Income      IncomeBreakdown     `json:"income"`
	Expenses    ExpenseBreakdown    `json:"expenses"`
	Tax         TaxRecord           `json:"tax"`
	Investments InvestmentBreakdown `json:"investments"`
	Housing     HousingRecord       `json:"housing"`
	NetWorth    NetWorthBreakdown   `json:"net_worth"`

	SavingsBase     decimal.Decimal `json:"savings_base"`
	GrowthBase      decimal.Decimal `json:"growth_base"`
	LISABonusBase   decimal.Decimal `json:"lisa_bonus_base"`
	GoalCostsBase   decimal.Decimal `json:"goal_costs_base"`
	EquityDeltaBase decimal.Decimal `json:"equity_delta_base"`
	DepositPaidBase decimal.Decimal `json:"deposit_paid_base"`
}

// FinancialScenario is one projection run's immutable output: the ordered
// data points plus metadata about how the scenario was composed and
// whether it validated. Re-running produces a fresh object.
type FinancialScenario struct {
	Name        string               `json:"name"`
	Status      RunStatus            `json:"status"`
	Validation  ValidationResult     `json:"validation"`
	Composition map[string]string    `json:"composition,omitempty"`
	DataPoints  []FinancialDataPoint `json:"data_points"`

	// FailureYear and FailureErr are set only when Status is FAILED.
	FailureYear int    `json:"failure_year,omitempty"`
	FailureErr  string `json:"failure_error,omitempty"`
}

// FinalNetWorth returns the last year's total net worth, or zero when the
// run produced no data points.
func (fs *FinancialScenario) FinalNetWorth() decimal.Decimal {
	if len(fs.DataPoints) == 0 {
		return decimal.Zero
	}
	return fs.DataPoints[len(fs.DataPoints)-1].NetWorth.Total.BaseEquivalent
}
