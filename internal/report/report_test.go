package report

import (
	"strings"
	"testing"
	"time"

	"shifa-backend/internal/finance"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func entry(y int, m time.Month, d int, amount float64) finance.Entry {
	return finance.Entry{Date: time.Date(y, m, d, 0, 0, 0, 0, time.UTC), Amount: amount}
}

func TestBuildSummary(t *testing.T) {
	revenue := []finance.Entry{
		entry(2024, time.January, 5, 100),
		entry(2024, time.February, 10, 50),
	}
	expenses := []finance.Entry{
		entry(2024, time.January, 15, 30),
	}

	s := BuildSummary(revenue, expenses)
	assert.InDelta(t, 150, s.TotalIncome, 1e-9)
	assert.InDelta(t, 30, s.TotalExpenses, 1e-9)
	assert.InDelta(t, 120, s.NetProfit, 1e-9)
	assert.InDelta(t, 80, s.ProfitMargin, 1e-9)
	assert.Equal(t, 2, s.TotalRecords)
	assert.Equal(t, 1, s.TotalExpenseItems)
}

func TestBuildSummaryEmpty(t *testing.T) {
	s := BuildSummary(nil, nil)
	assert.Equal(t, 0.0, s.TotalIncome)
	assert.Equal(t, 0.0, s.TotalExpenses)
	assert.Equal(t, 0.0, s.ProfitMargin)
	assert.Equal(t, 0, s.TotalRecords)
}

func TestExportRowsLaboratory(t *testing.T) {
	records := []LabRecord{
		{
			InvoiceNo:     "LAB-1",
			Date:          "2024-01-05",
			PatientName:   "Ahmad",
			TestType:      "blood",
			AmountCharged: 500,
			AmountPaid:    300,
			BalanceDue:    200,
		},
	}

	rows := exportRows(TypeLaboratory, records)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"Invoice No", "Date", "Patient", "Test Type", "Charged", "Paid", "Balance Due"}, rows[0])
	assert.Equal(t, []string{"LAB-1", "2024-01-05", "Ahmad", "blood", "500.00", "300.00", "200.00"}, rows[1])
}

func TestExportRowsPharmacyAndGlassHeaders(t *testing.T) {
	pharmacy := exportRows(TypePharmacy, []PharmacyRecord{})
	require.Len(t, pharmacy, 1)
	assert.Equal(t, "Quantity", pharmacy[0][4])

	glass := exportRows(TypeGlass, []GlassRecord{})
	require.Len(t, glass, 1)
	assert.Equal(t, "Frame", glass[0][3])
}

func TestWriteCSV(t *testing.T) {
	data, err := writeCSV([][]string{
		{"a", "b"},
		{"1", "has, comma"},
	})
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "a,b", lines[0])
	assert.Equal(t, `1,"has, comma"`, lines[1])
}

func TestMonthRows(t *testing.T) {
	revenue := []finance.Entry{entry(2024, time.January, 5, 100)}
	expenses := []finance.Entry{entry(2024, time.February, 1, 40)}

	rows := monthRows(finance.MonthlySeries(revenue, expenses))
	require.Len(t, rows, 2)
	assert.Equal(t, MonthRowResponse{Month: "Jan 2024", Revenue: 100, Expenses: 0, Profit: 100}, rows[0])
	assert.Equal(t, MonthRowResponse{Month: "Feb 2024", Revenue: 0, Expenses: 40, Profit: -40}, rows[1])
}
