package domain

import (
	"fmt"
	"strings"
)

// ExpressionError reports a placeholder expression that could not be
// evaluated (unknown identifier, bad token, division by zero).
type ExpressionError struct {
	Expr string
	Msg  string
}

func (e *ExpressionError) Error() string {
	return fmt.Sprintf("expression %q: %s", e.Expr, e.Msg)
}

// MissingRateError reports a currency with no entry in the rate table.
type MissingRateError struct {
	Currency string
	AsOf     int
}

func (e *MissingRateError) Error() string {
	return fmt.Sprintf("no exchange rate for %s (year %d)", e.Currency, e.AsOf)
}

// UnsupportedJurisdictionError reports a tax system whose variant has no
// registered calculator.
type UnsupportedJurisdictionError struct {
	ID      string
	Variant string
}

func (e *UnsupportedJurisdictionError) Error() string {
	return fmt.Sprintf("tax system %s: no calculator registered for variant %q", e.ID, e.Variant)
}

// TaxCalculationError reports a malformed tax configuration discovered
// during computation, e.g. a bracket table that is not sorted ascending.
// Always fatal to the scenario being projected.
type TaxCalculationError struct {
	System    string
	Component string
	Year      int
	Msg       string
}

func (e *TaxCalculationError) Error() string {
	return fmt.Sprintf("tax system %s, component %s, year %d: %s", e.System, e.Component, e.Year, e.Msg)
}

// TemplateNotFoundError reports a reference to a template name that is not
// in the store.
type TemplateNotFoundError struct {
	Name string
}

func (e *TemplateNotFoundError) Error() string {
	return fmt.Sprintf("template %q not found", e.Name)
}

// CircularInheritanceError reports a template extends-chain that revisits
// one of its own ancestors.
type CircularInheritanceError struct {
	Chain []string
}

func (e *CircularInheritanceError) Error() string {
	return fmt.Sprintf("circular template inheritance: %s", strings.Join(e.Chain, " -> "))
}

// ProjectionError reports a failure during a projection run, carrying the
// plan year and component for diagnosis.
type ProjectionError struct {
	Scenario  string
	Year      int
	Component string
	Err       error
}

func (e *ProjectionError) Error() string {
	return fmt.Sprintf("scenario %s, year %d, %s: %v", e.Scenario, e.Year, e.Component, e.Err)
}

func (e *ProjectionError) Unwrap() error { return e.Err }
