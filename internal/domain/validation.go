package domain

import "fmt"

// Diagnostic categories. STRUCTURE covers shape problems (tiling gaps,
// zero phases), REFERENCE covers dangling ids, RANGE covers out-of-bound
// values.
type DiagnosticCategory string

const (
	CategoryStructure DiagnosticCategory = "STRUCTURE"
	CategoryReference DiagnosticCategory = "REFERENCE"
	CategoryRange     DiagnosticCategory = "RANGE"
)

// Diagnostic is one validation finding.
type Diagnostic struct {
	Category DiagnosticCategory `json:"category"`
	Field    string             `json:"field"`
	Message  string             `json:"message"`
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("[%s] %s: %s", d.Category, d.Field, d.Message)
}

// ValidationResult collects errors and warnings for one scenario.
// Validation never fails with an error of its own; a malformed scenario
// shows up here instead.
type ValidationResult struct {
	IsValid  bool         `json:"is_valid"`
	Errors   []Diagnostic `json:"errors"`
	Warnings []Diagnostic `json:"warnings"`
}

// AddError records an error and marks the result invalid.
func (vr *ValidationResult) AddError(category DiagnosticCategory, field, format string, args ...any) {
	vr.Errors = append(vr.Errors, Diagnostic{
		Category: category,
		Field:    field,
		Message:  fmt.Sprintf(format, args...),
	})
	vr.IsValid = false
}

// AddWarning records a non-fatal finding.
func (vr *ValidationResult) AddWarning(category DiagnosticCategory, field, format string, args ...any) {
	vr.Warnings = append(vr.Warnings, Diagnostic{
		Category: category,
		Field:    field,
		Message:  fmt.Sprintf(format, args...),
	})
}
