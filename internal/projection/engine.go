// Package projection runs the year-by-year financial projection: it walks
// a scenario's phases in order, resolving income templates, computing tax
// and expenses, amortizing mortgages, and emitting one immutable
// FinancialDataPoint per plan year.
package projection

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/thall/longview/internal/domain"
	"github.com/thall/longview/internal/exchange"
	"github.com/thall/longview/internal/tax"
	"github.com/thall/longview/internal/template"
	"github.com/thall/longview/internal/validate"
)

// Engine projects scenarios against a shared set of templates, tax
// systems, and exchange rates. Safe for concurrent Run calls: per-run
// state lives on the stack and the template cache is lock-guarded.
type Engine struct {
	resolver  *template.Resolver
	registry  *tax.Registry
	validator *validate.Validator
	systems   map[string]*domain.TaxSystem
	rates     exchange.RateTable
	logger    Logger
}

// NewEngine builds an engine over the given reference data.
func NewEngine(store *template.Store, systems []*domain.TaxSystem, rates exchange.RateTable) *Engine {
	byID := make(map[string]*domain.TaxSystem, len(systems))
	for _, s := range systems {
		byID[s.ID] = s
	}
	return &Engine{
		resolver:  template.NewResolver(store),
		registry:  tax.NewRegistry(),
		validator: validate.New(systems, store),
		systems:   byID,
		rates:     rates,
		logger:    NopLogger{},
	}
}

// SetLogger replaces the engine's logger. Passing nil restores the no-op.
func (e *Engine) SetLogger(l Logger) {
	if l == nil {
		l = NopLogger{}
	}
	e.logger = l
}

// Run projects one scenario. It never returns an error: validation
// findings and projection failures land on the returned FinancialScenario
// so a batch of scenarios can partially fail.
func (e *Engine) Run(sc *domain.Scenario) *domain.FinancialScenario {
	result := &domain.FinancialScenario{
		Name:        sc.Name,
		Status:      domain.StatusPending,
		Composition: composition(sc),
	}

	result.Validation = e.validator.Validate(sc)
	if !result.Validation.IsValid {
		e.logger.Warnf("scenario %s failed validation with %d errors", sc.Name, len(result.Validation.Errors))
		result.Status = domain.StatusFailed
		result.FailureErr = "validation failed"
		return result
	}

	norm := exchange.NewNormalizer(sc.Assumptions.BaseCurrency, e.rates)
	run := &runState{
		sc:       sc,
		norm:     norm,
		invested: sc.Assumptions.InitialSavings.Add(sc.Assumptions.InitialInvestments),
		loanBase: sc.Assumptions.StudentLoanDebt,
	}
	for i := range sc.Phases {
		if h := sc.Phases[i].Housing; h != nil {
			run.houses = append(run.houses, &houseState{cfg: h})
			if run.firstHouseYear == 0 || h.PurchaseYear < run.firstHouseYear {
				run.firstHouseYear = h.PurchaseYear
			}
		}
	}

	// the validator only checks that phases tile the plan; document
	// order is not significant
	phases := make([]domain.Phase, len(sc.Phases))
	copy(phases, sc.Phases)
	sort.Slice(phases, func(i, j int) bool { return phases[i].StartYear < phases[j].StartYear })

	result.Status = domain.StatusInPhase
	phaseIdx := 0
	e.logger.Infof("scenario %s: entering phase %q", sc.Name, phases[0].Name)

	for year := 1; year <= sc.Assumptions.PlanDurationYears; year++ {
		for year > phases[phaseIdx].EndYear {
			phaseIdx++
			run.pool = nil
			e.logger.Infof("scenario %s: year %d, entering phase %q", sc.Name, year, phases[phaseIdx].Name)
		}

		dp, err := e.projectYear(run, &phases[phaseIdx], year)
		if err != nil {
			perr := &domain.ProjectionError{Scenario: sc.Name, Year: year, Component: componentOf(err), Err: err}
			e.logger.Errorf("scenario %s aborted: %v", sc.Name, perr)
			result.Status = domain.StatusFailed
			result.FailureYear = year
			result.FailureErr = perr.Error()
			return result
		}
		result.DataPoints = append(result.DataPoints, *dp)
	}

	result.Status = domain.StatusComplete
	e.logger.Infof("scenario %s complete: final net worth %s", sc.Name,
		exchange.Display(result.DataPoints[len(result.DataPoints)-1].NetWorth.Total, sc.Assumptions.BaseCurrency))
	return result
}

// RunAll projects scenarios in parallel with at most workers running at
// once. Scenarios are independent; a failed one occupies its slot in the
// result with a FAILED status rather than stopping the batch.
func (e *Engine) RunAll(ctx context.Context, scenarios []*domain.Scenario, workers int) ([]*domain.FinancialScenario, error) {
	if workers < 1 {
		workers = 1
	}
	results := make([]*domain.FinancialScenario, len(scenarios))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, sc := range scenarios {
		i, sc := i, sc
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = e.Run(sc)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// runState carries the mutable balances across years of one run. All
// monetary fields are in the base currency except house state.
type runState struct {
	sc   *domain.Scenario
	norm *exchange.Normalizer

	invested decimal.Decimal
	loanBase decimal.Decimal

	houses         []*houseState
	firstHouseYear int
	prevEquity     decimal.Decimal

	pool      *rsuPool
	poolPhase string
}

func (e *Engine) projectYear(run *runState, phase *domain.Phase, year int) (*domain.FinancialDataPoint, error) {
	sc := run.sc
	norm := run.norm
	calendarYear := sc.Assumptions.StartYear + year - 1

	// income
	ec, err := e.resolver.Resolve(phase.IncomeTemplate, phase.IncomeOverrides, phase.Params, year)
	if err != nil {
		return nil, err
	}
	var incomeCfg domain.IncomeConfig
	if err := template.Decode(ec, &incomeCfg); err != nil {
		return nil, err
	}
	if run.pool == nil || run.poolPhase != phase.Name {
		run.pool = newRSUPool(incomeCfg.RSUVestYears)
		run.poolPhase = phase.Name
	}
	inc := incomeForYear(&incomeCfg, phase.Location, year, run.pool)

	// housing events before income aggregation: purchases establish the
	// deposit and mortgage, rental credit depends on ownership
	depositBase := decimal.Zero
	var depositCV domain.CurrencyValue
	for _, h := range run.houses {
		if !h.purchased && h.cfg.PurchaseYear == year {
			h.buy()
			cv, err := norm.Normalize(h.depositPaid, h.cfg.Currency, year)
			if err != nil {
				return nil, err
			}
			depositCV = cv
			depositBase = depositBase.Add(cv.BaseEquivalent)
			e.logger.Debugf("scenario %s: year %d house purchase, deposit %s", sc.Name, year, exchange.Display(cv, norm.BaseCurrency()))
		} else if h.purchased {
			h.appreciate(sc.Assumptions.InflationFor(year))
		}
	}

	rentalBase := decimal.Zero
	for _, h := range run.houses {
		credit := h.rentalCredit(phase.Location)
		if credit.IsPositive() {
			cv, err := norm.Normalize(credit, h.cfg.Currency, year)
			if err != nil {
				return nil, err
			}
			rentalBase = rentalBase.Add(cv.BaseEquivalent)
		}
	}

	salaryCV, err := norm.Normalize(inc.salary, phase.Currency, year)
	if err != nil {
		return nil, err
	}
	bonusCV, err := norm.Normalize(inc.bonus, phase.Currency, year)
	if err != nil {
		return nil, err
	}
	rsuCV, err := norm.Normalize(inc.rsu, phase.Currency, year)
	if err != nil {
		return nil, err
	}
	income := domain.IncomeBreakdown{
		Salary:       salaryCV,
		Bonus:        bonusCV,
		RSUVested:    rsuCV,
		RentalIncome: norm.Base(rentalBase, year),
	}

	// tax on the full gross, in the phase currency
	phaseRate, ok := norm.Rate(phase.Currency)
	if !ok {
		return nil, &domain.MissingRateError{Currency: phase.Currency, AsOf: year}
	}
	gross := inc.salary.Add(inc.bonus).Add(inc.rsu).Add(rentalBase.Div(phaseRate))

	sys := e.systems[phase.TaxSystem]
	sysRate, ok := norm.Rate(sys.Currency)
	if !ok {
		return nil, &domain.MissingRateError{Currency: sys.Currency, AsOf: year}
	}
	assessment, err := e.registry.Compute(gross, calendarYear, sys, run.loanBase.Div(sysRate))
	if err != nil {
		return nil, err
	}
	run.loanBase = assessment.LoanBalance.Mul(sysRate)

	taxRecord := domain.TaxRecord{}
	for _, c := range assessment.Breakdown.Components {
		cv, err := norm.Normalize(c.Amount, sys.Currency, year)
		if err != nil {
			return nil, err
		}
		taxRecord.Components = append(taxRecord.Components, domain.TaxComponentValue{Name: c.Name, Value: cv})
	}
	taxTotalCV, err := norm.Normalize(assessment.Breakdown.Total(), sys.Currency, year)
	if err != nil {
		return nil, err
	}
	taxRecord.Total = taxTotalCV

	// recurring expenses
	expenses, err := e.buildExpenses(run, phase, year, inc.salary)
	if err != nil {
		return nil, err
	}
	expenses.Goals, err = e.buildGoals(run, year)
	if err != nil {
		return nil, err
	}

	// balances
	recurringBase := domain.SumBase(expenses.Rent, expenses.Healthcare, expenses.General,
		expenses.RetirementContribution, expenses.MortgagePayment, expenses.Relocation)
	savings := income.TotalBase().Sub(taxRecord.Total.BaseEquivalent).Sub(recurringBase)
	growth := run.invested.Mul(sc.Assumptions.InvestmentReturnRate)
	goalsBase := expenses.Goals.TotalBase()

	lisaBonus := decimal.Zero
	var allocation *domain.InvestmentAllocation
	if ac := phase.InvestmentAllocation; ac != nil {
		split := allocateSavings(savings, ac, phaseRate)
		lisaBonus = split.bonus
		allocation = &domain.InvestmentAllocation{
			LISA:      norm.Base(split.lisa, year),
			ISA:       norm.Base(split.isa, year),
			SIPP:      norm.Base(split.sipp, year),
			GIA:       norm.Base(split.gia, year),
			LISABonus: norm.Base(split.bonus, year),
		}
	}

	run.invested = run.invested.Add(growth).Add(savings).Add(lisaBonus).Sub(goalsBase).Sub(depositBase)

	valueBase, balanceBase, equityBase := decimal.Zero, decimal.Zero, decimal.Zero
	for _, h := range run.houses {
		if !h.purchased {
			continue
		}
		rate, ok := norm.Rate(h.cfg.Currency)
		if !ok {
			return nil, &domain.MissingRateError{Currency: h.cfg.Currency, AsOf: year}
		}
		valueBase = valueBase.Add(h.value.Mul(rate))
		balanceBase = balanceBase.Add(h.loan.outstanding().Mul(rate))
		equityBase = equityBase.Add(h.equity().Mul(rate))
	}
	equityDelta := equityBase.Sub(run.prevEquity)
	run.prevEquity = equityBase

	netWorth := run.invested.Add(equityBase)

	dp := &domain.FinancialDataPoint{
		Year:         year,
		CalendarYear: calendarYear,
		Age:          sc.Assumptions.StartAge + year - 1,
		PhaseName:    phase.Name,
		Location:     phase.Location,
		Jurisdiction: phase.TaxSystem,
		Currency:     phase.Currency,
		Income:       income,
		Expenses:     expenses,
		Tax:          taxRecord,
		Investments: domain.InvestmentBreakdown{
			Contribution: norm.Base(savings.Add(lisaBonus).Sub(goalsBase).Sub(depositBase), year),
			Growth:       norm.Base(growth, year),
			Balance:      norm.Base(run.invested, year),
			Allocation:   allocation,
		},
		Housing: domain.HousingRecord{
			PropertyValue:   norm.Base(valueBase, year),
			MortgageBalance: norm.Base(balanceBase, year),
			Equity:          norm.Base(equityBase, year),
			DepositPaid:     depositCV,
		},
		NetWorth: domain.NetWorthBreakdown{
			Investments:     norm.Base(run.invested, year),
			HouseEquity:     norm.Base(equityBase, year),
			StudentLoanDebt: norm.Base(run.loanBase, year),
			Total:           norm.Base(netWorth, year),
		},
		SavingsBase:     savings,
		GrowthBase:      growth,
		LISABonusBase:   lisaBonus,
		GoalCostsBase:   goalsBase,
		EquityDeltaBase: equityDelta,
		DepositPaidBase: depositBase,
	}
	return dp, nil
}

func (e *Engine) buildExpenses(run *runState, phase *domain.Phase, year int, salary decimal.Decimal) (domain.ExpenseBreakdown, error) {
	norm := run.norm
	le := phase.Expenses
	var out domain.ExpenseBreakdown
	var err error

	// living costs scale with the year's inflation factor
	annual := monthsPerYear.Mul(one.Add(run.sc.Assumptions.InflationFor(year)))
	if out.Rent, err = norm.Normalize(le.RentMonthly.Mul(annual), phase.Currency, year); err != nil {
		return out, err
	}
	if out.Healthcare, err = norm.Normalize(le.HealthcareMonthly.Mul(annual), phase.Currency, year); err != nil {
		return out, err
	}
	if out.General, err = norm.Normalize(le.GeneralMonthly.Mul(annual), phase.Currency, year); err != nil {
		return out, err
	}
	if out.RetirementContribution, err = norm.Normalize(salary.Mul(le.RetirementContributionRate), phase.Currency, year); err != nil {
		return out, err
	}

	relocation := decimal.Zero
	if year == phase.StartYear {
		relocation = phase.RelocationCost
	}
	if out.Relocation, err = norm.Normalize(relocation, phase.Currency, year); err != nil {
		return out, err
	}

	paidBase := decimal.Zero
	for _, h := range run.houses {
		if !h.purchased {
			continue
		}
		paid, _, _ := h.loan.advanceYear()
		if paid.IsZero() {
			continue
		}
		cv, err := norm.Normalize(paid, h.cfg.Currency, year)
		if err != nil {
			return out, err
		}
		paidBase = paidBase.Add(cv.BaseEquivalent)
	}
	out.MortgagePayment = norm.Base(paidBase, year)

	return out, nil
}

func (e *Engine) buildGoals(run *runState, year int) (domain.GoalBreakdown, error) {
	inflFactor := one.Add(run.sc.Assumptions.InflationFor(year))
	costs := goalCostsFor(year, run.sc.Goals, run.firstHouseYear, inflFactor)
	norm := run.norm
	return domain.GoalBreakdown{
		University:      norm.Base(costs.university, year),
		Marriage:        norm.Base(costs.marriage, year),
		Child:           norm.Base(costs.child, year),
		Personal:        norm.Base(costs.personal, year),
		ParentalSupport: norm.Base(costs.parentalSupport, year),
		Travel:          norm.Base(costs.travel, year),
	}, nil
}

// composition records which template each phase drew its income from.
func composition(sc *domain.Scenario) map[string]string {
	out := make(map[string]string, len(sc.Phases))
	for _, p := range sc.Phases {
		out[p.Name] = p.IncomeTemplate
	}
	return out
}

// componentOf maps an error to the pipeline component it came from, for
// diagnosis in ProjectionError.
func componentOf(err error) string {
	switch err.(type) {
	case *domain.TemplateNotFoundError, *domain.CircularInheritanceError, *domain.ExpressionError:
		return "template"
	case *domain.MissingRateError:
		return "currency"
	case *domain.TaxCalculationError, *domain.UnsupportedJurisdictionError:
		return "tax"
	default:
		return "projection"
	}
}
