package output

import (
	"encoding/csv"
	"strconv"
	"strings"

	"github.com/thall/longview/internal/domain"
)

// CSVFormatter renders the year-by-year data points as CSV. Amounts are
// base-currency equivalents rounded to two places, the reporting edge.
type CSVFormatter struct{}

// Format generates CSV output for one projected scenario.
func (cf *CSVFormatter) Format(fs *domain.FinancialScenario) (string, error) {
	var sb strings.Builder
	writer := csv.NewWriter(&sb)

	header := []string{
		"Year",
		"Calendar Year",
		"Age",
		"Phase",
		"Location",
		"Currency",
		"Salary",
		"Bonus",
		"RSU Vested",
		"Rental Income",
		"Gross Income",
		"Tax Total",
		"Expenses Total",
		"Goal Costs",
		"Mortgage Balance",
		"House Equity",
		"Investment Balance",
		"Student Loan",
		"Net Worth",
	}
	if err := writer.Write(header); err != nil {
		return "", err
	}

	for _, dp := range fs.DataPoints {
		if err := writer.Write(cf.formatRow(&dp)); err != nil {
			return "", err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// formatRow formats one data point as a CSV row.
func (cf *CSVFormatter) formatRow(dp *domain.FinancialDataPoint) []string {
	return []string{
		strconv.Itoa(dp.Year),
		strconv.Itoa(dp.CalendarYear),
		strconv.Itoa(dp.Age),
		dp.PhaseName,
		dp.Location,
		dp.Currency,
		dp.Income.Salary.BaseEquivalent.StringFixed(2),
		dp.Income.Bonus.BaseEquivalent.StringFixed(2),
		dp.Income.RSUVested.BaseEquivalent.StringFixed(2),
		dp.Income.RentalIncome.BaseEquivalent.StringFixed(2),
		dp.Income.TotalBase().StringFixed(2),
		dp.Tax.Total.BaseEquivalent.StringFixed(2),
		dp.Expenses.TotalBase().StringFixed(2),
		dp.Expenses.Goals.TotalBase().StringFixed(2),
		dp.Housing.MortgageBalance.BaseEquivalent.StringFixed(2),
		dp.Housing.Equity.BaseEquivalent.StringFixed(2),
		dp.Investments.Balance.BaseEquivalent.StringFixed(2),
		dp.NetWorth.StudentLoanDebt.BaseEquivalent.StringFixed(2),
		dp.NetWorth.Total.BaseEquivalent.StringFixed(2),
	}
}
