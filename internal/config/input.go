// Package config loads plan documents from YAML: templates, tax systems,
// exchange rates, and scenarios. Single-phase scenario documents are
// normalized into the one-phase form the engine consumes, and phase lists
// written with durations get their start/end years computed here.
package config

import (
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/thall/longview/internal/domain"
	"github.com/thall/longview/internal/exchange"
)

// Input is one fully parsed plan document set.
type Input struct {
	Templates  []*domain.Template
	TaxSystems []*domain.TaxSystem
	Rates      exchange.RateTable
	Scenarios  []*domain.Scenario
}

// InputParser handles parsing of input configuration files.
type InputParser struct{}

// NewInputParser creates a new input parser.
func NewInputParser() *InputParser {
	return &InputParser{}
}

// LoadFromFile loads a plan document from a YAML file.
func (ip *InputParser) LoadFromFile(filename string) (*Input, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}
	return ip.Parse(data)
}

// Parse parses a plan document.
func (ip *InputParser) Parse(data []byte) (*Input, error) {
	var raw rawDocument
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	input := &Input{
		Templates:  raw.Templates,
		TaxSystems: raw.TaxSystems,
		Rates:      exchange.RateTable(raw.ExchangeRates),
	}

	for i := range raw.Scenarios {
		sc, err := normalizeScenario(&raw.Scenarios[i])
		if err != nil {
			return nil, fmt.Errorf("scenario %d (%s): %w", i, raw.Scenarios[i].Scenario.ID, err)
		}
		input.Scenarios = append(input.Scenarios, sc)
	}

	if err := ip.checkDocument(input); err != nil {
		return nil, fmt.Errorf("document validation failed: %w", err)
	}
	return input, nil
}

// checkDocument enforces the document-level requirements that must hold
// before the scenario validator can even run.
func (ip *InputParser) checkDocument(input *Input) error {
	if len(input.Scenarios) == 0 {
		return fmt.Errorf("at least one scenario is required")
	}
	seen := map[string]bool{}
	for _, t := range input.Templates {
		if t.Name == "" {
			return fmt.Errorf("template with empty name")
		}
		if seen[t.Name] {
			return fmt.Errorf("duplicate template name %q", t.Name)
		}
		seen[t.Name] = true
	}
	systems := map[string]bool{}
	for _, s := range input.TaxSystems {
		if s.ID == "" {
			return fmt.Errorf("tax system with empty id")
		}
		if systems[s.ID] {
			return fmt.Errorf("duplicate tax system id %q", s.ID)
		}
		systems[s.ID] = true
	}
	return nil
}

type rawDocument struct {
	Templates     []*domain.Template         `yaml:"templates"`
	TaxSystems    []*domain.TaxSystem        `yaml:"tax_systems"`
	ExchangeRates map[string]decimal.Decimal `yaml:"exchange_rates"`
	Scenarios     []rawScenario              `yaml:"scenarios"`
}

type rawScenario struct {
	Scenario struct {
		ID          string `yaml:"id"`
		Name        string `yaml:"name"`
		Description string `yaml:"description"`
	} `yaml:"scenario"`

	// multi-phase form
	Phases []rawPhase `yaml:"phases"`

	// single-phase form
	Location             string                             `yaml:"location"`
	Currency             string                             `yaml:"currency"`
	TaxSystem            string                             `yaml:"tax_system"`
	IncomeTemplate       string                             `yaml:"income_template"`
	IncomeOverrides      map[string]any                     `yaml:"income_overrides"`
	Params               map[string]any                     `yaml:"params"`
	Expenses             *rawExpenses                       `yaml:"expenses"`
	Housing              *domain.HousingConfig              `yaml:"housing"`
	InvestmentAllocation *domain.InvestmentAllocationConfig `yaml:"investment_allocation"`

	Goals       domain.GoalExpensesConfig `yaml:"goals"`
	Assumptions domain.Assumptions        `yaml:"assumptions"`
}

type rawExpenses struct {
	LocationExpenses domain.LocationExpenses    `yaml:"location_expenses"`
	Goals            *domain.GoalExpensesConfig `yaml:"goals"`
}

type rawPhase struct {
	domain.Phase `yaml:",inline"`
	Duration     int `yaml:"duration"`
}

// normalizeScenario converts either document form into the phase-tiled
// scenario shape. Phases written with a duration instead of explicit
// years are laid out contiguously in document order.
func normalizeScenario(raw *rawScenario) (*domain.Scenario, error) {
	sc := &domain.Scenario{
		ID:          raw.Scenario.ID,
		Name:        raw.Scenario.Name,
		Description: raw.Scenario.Description,
		Goals:       raw.Goals,
		Assumptions: raw.Assumptions,
	}

	if len(raw.Phases) == 0 {
		// single-phase form spans the whole plan
		phase := domain.Phase{
			Name:            raw.Location,
			StartYear:       1,
			EndYear:         raw.Assumptions.PlanDurationYears,
			Location:        raw.Location,
			Currency:        raw.Currency,
			TaxSystem:       raw.TaxSystem,
			IncomeTemplate:  raw.IncomeTemplate,
			IncomeOverrides: raw.IncomeOverrides,
			Params:          raw.Params,
			Housing:         raw.Housing,

			InvestmentAllocation: raw.InvestmentAllocation,
		}
		if raw.Expenses != nil {
			phase.Expenses = raw.Expenses.LocationExpenses
			if raw.Expenses.Goals != nil {
				sc.Goals = *raw.Expenses.Goals
			}
		}
		sc.Phases = []domain.Phase{phase}
		return sc, nil
	}

	next := 1
	for i, rp := range raw.Phases {
		p := rp.Phase
		if p.StartYear == 0 && p.EndYear == 0 {
			if rp.Duration < 1 {
				return nil, fmt.Errorf("phase %d (%s): duration must be at least 1", i, p.Name)
			}
			p.StartYear = next
			p.EndYear = next + rp.Duration - 1
		} else if rp.Duration != 0 && rp.Duration != p.Duration() {
			return nil, fmt.Errorf("phase %d (%s): duration %d conflicts with years [%d, %d]",
				i, p.Name, rp.Duration, p.StartYear, p.EndYear)
		}
		next = p.EndYear + 1
		sc.Phases = append(sc.Phases, p)
	}
	return sc, nil
}
