package finance

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMonthlySeriesWorkedExample(t *testing.T) {
	revenue := []Entry{
		{Date: day(2024, time.January, 5), Amount: 100},
		{Date: day(2024, time.February, 10), Amount: 50},
	}
	expenses := []Entry{
		{Date: day(2024, time.January, 15), Amount: 30},
	}

	rows := MonthlySeries(revenue, expenses)
	require.Len(t, rows, 2)

	assert.Equal(t, "Jan 2024", rows[0].Label())
	assert.InDelta(t, 100, rows[0].Revenue, 1e-9)
	assert.InDelta(t, 30, rows[0].Expenses, 1e-9)
	assert.InDelta(t, 70, rows[0].Profit, 1e-9)

	assert.Equal(t, "Feb 2024", rows[1].Label())
	assert.InDelta(t, 50, rows[1].Revenue, 1e-9)
	assert.InDelta(t, 0, rows[1].Expenses, 1e-9)
	assert.InDelta(t, 50, rows[1].Profit, 1e-9)
}

func TestMonthlySeriesEmptyInputs(t *testing.T) {
	rows := MonthlySeries(nil, nil)
	assert.Empty(t, rows)
}

func TestMonthlySeriesChronologicalAcrossYears(t *testing.T) {
	// "Feb 2024" sorts after "Jan 2025" lexicographically; the series
	// must still come out in calendar order.
	revenue := []Entry{
		{Date: day(2025, time.January, 1), Amount: 10},
		{Date: day(2024, time.February, 1), Amount: 20},
		{Date: day(2024, time.December, 1), Amount: 30},
	}

	rows := MonthlySeries(revenue, nil)
	require.Len(t, rows, 3)
	assert.Equal(t, "Feb 2024", rows[0].Label())
	assert.Equal(t, "Dec 2024", rows[1].Label())
	assert.Equal(t, "Jan 2025", rows[2].Label())
}

func TestMonthlySeriesKeepsMonthsFromEitherStream(t *testing.T) {
	revenue := []Entry{{Date: day(2024, time.January, 5), Amount: 100}}
	expenses := []Entry{{Date: day(2024, time.March, 1), Amount: 40}}

	rows := MonthlySeries(revenue, expenses)
	require.Len(t, rows, 2)
	assert.Equal(t, "Jan 2024", rows[0].Label())
	assert.InDelta(t, 0, rows[0].Expenses, 1e-9)
	assert.Equal(t, "Mar 2024", rows[1].Label())
	assert.InDelta(t, 0, rows[1].Revenue, 1e-9)

	for _, row := range rows {
		assert.InDelta(t, row.Revenue-row.Expenses, row.Profit, 1e-9)
	}
}

func TestDailySeries(t *testing.T) {
	revenue := []Entry{
		{Date: day(2024, time.January, 1), Amount: 100},
		{Date: day(2024, time.January, 1), Amount: 50},
		{Date: day(2024, time.January, 3), Amount: 25},
	}
	expenses := []Entry{
		{Date: day(2024, time.January, 2), Amount: 30},
	}

	rows := DailySeries(revenue, expenses, day(2024, time.January, 1), day(2024, time.January, 3))
	require.Len(t, rows, 3)

	assert.Equal(t, DayRow{Date: "2024-01-01", Income: 150, Expenses: 0}, rows[0])
	assert.Equal(t, DayRow{Date: "2024-01-02", Income: 0, Expenses: 30}, rows[1])
	assert.Equal(t, DayRow{Date: "2024-01-03", Income: 25, Expenses: 0}, rows[2])
}

func TestDailySeriesDerivesRangeFromData(t *testing.T) {
	revenue := []Entry{{Date: day(2024, time.January, 2), Amount: 10}}
	expenses := []Entry{{Date: day(2024, time.January, 4), Amount: 5}}

	rows := DailySeries(revenue, expenses, time.Time{}, time.Time{})
	require.Len(t, rows, 3)
	assert.Equal(t, "2024-01-02", rows[0].Date)
	assert.Equal(t, "2024-01-04", rows[2].Date)
}

func TestDailySeriesEmpty(t *testing.T) {
	assert.Empty(t, DailySeries(nil, nil, time.Time{}, time.Time{}))
}

func TestDailySeriesInvertedRange(t *testing.T) {
	revenue := []Entry{{Date: day(2024, time.January, 2), Amount: 10}}
	rows := DailySeries(revenue, nil, day(2024, time.January, 5), day(2024, time.January, 1))
	assert.Empty(t, rows)
}
