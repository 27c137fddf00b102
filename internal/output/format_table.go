package output

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/thall/longview/internal/domain"
)

// TableFormatter renders a projected scenario as a console table.
type TableFormatter struct{}

// Format generates the year-by-year table plus a status header.
func (tf *TableFormatter) Format(fs *domain.FinancialScenario, baseCurrency string) string {
	var sb strings.Builder

	sb.WriteString("FINANCIAL PROJECTION\n")
	sb.WriteString(strings.Repeat("=", 100) + "\n")
	sb.WriteString(fmt.Sprintf("Scenario: %s\n", fs.Name))
	sb.WriteString(fmt.Sprintf("Status:   %s\n", fs.Status))
	if fs.Status == domain.StatusFailed {
		sb.WriteString(fmt.Sprintf("Failure:  %s\n", fs.FailureErr))
	}
	for _, e := range fs.Validation.Errors {
		sb.WriteString(fmt.Sprintf("  error: %s\n", e))
	}
	for _, w := range fs.Validation.Warnings {
		sb.WriteString(fmt.Sprintf("  warning: %s\n", w))
	}
	sb.WriteString("\n")

	if len(fs.DataPoints) == 0 {
		return sb.String()
	}

	numWidth := 14
	sb.WriteString(fmt.Sprintf("%4s %4s %-12s %*s %*s %*s %*s %*s\n",
		"Year", "Age", "Phase",
		numWidth, "Gross Income",
		numWidth, "Tax",
		numWidth, "Expenses",
		numWidth, "Investments",
		numWidth, "Net Worth"))
	sb.WriteString(strings.Repeat("-", 100) + "\n")

	for _, dp := range fs.DataPoints {
		sb.WriteString(fmt.Sprintf("%4d %4d %-12s %*s %*s %*s %*s %*s\n",
			dp.Year, dp.Age, tf.truncate(dp.PhaseName, 12),
			numWidth, tf.formatDecimal(dp.Income.TotalBase()),
			numWidth, tf.formatDecimal(dp.Tax.Total.BaseEquivalent),
			numWidth, tf.formatDecimal(dp.Expenses.TotalBase()),
			numWidth, tf.formatDecimal(dp.Investments.Balance.BaseEquivalent),
			numWidth, tf.formatDecimal(dp.NetWorth.Total.BaseEquivalent)))
	}
	sb.WriteString(strings.Repeat("=", 100) + "\n")

	last := fs.DataPoints[len(fs.DataPoints)-1]
	sb.WriteString(fmt.Sprintf("Final net worth (%s): %s\n", baseCurrency,
		tf.formatDecimal(last.NetWorth.Total.BaseEquivalent)))

	return sb.String()
}

// formatDecimal compacts large figures for display.
func (tf *TableFormatter) formatDecimal(d decimal.Decimal) string {
	if d.Abs().GreaterThanOrEqual(decimal.NewFromInt(1000000)) {
		return d.Div(decimal.NewFromInt(1000000)).StringFixed(2) + "M"
	} else if d.Abs().GreaterThanOrEqual(decimal.NewFromInt(1000)) {
		return d.Div(decimal.NewFromInt(1000)).StringFixed(1) + "K"
	}
	return d.StringFixed(0)
}

func (tf *TableFormatter) truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
