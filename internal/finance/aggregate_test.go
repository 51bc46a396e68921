package finance

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestTotalEmpty(t *testing.T) {
	total := Total(nil)
	assert.Equal(t, 0.0, total)
	assert.False(t, total != total, "total must never be NaN")

	assert.Equal(t, 0.0, Total([]Entry{}))
}

func TestTotal(t *testing.T) {
	entries := []Entry{
		{Date: day(2024, time.January, 5), Amount: 100},
		{Date: day(2024, time.February, 10), Amount: 50},
	}
	assert.InDelta(t, 150, Total(entries), 1e-9)
}

func TestNetProfitMatchesTotals(t *testing.T) {
	revenue := []Entry{
		{Date: day(2024, time.January, 5), Amount: 100},
		{Date: day(2024, time.February, 10), Amount: 50},
	}
	expenses := []Entry{
		{Date: day(2024, time.January, 15), Amount: 30},
	}

	assert.InDelta(t, Total(revenue)-Total(expenses), NetProfit(revenue, expenses), 1e-9)
	assert.InDelta(t, 120, NetProfit(revenue, expenses), 1e-9)
}

func TestNetProfitCanBeNegative(t *testing.T) {
	revenue := []Entry{{Date: day(2024, time.March, 1), Amount: 10}}
	expenses := []Entry{{Date: day(2024, time.March, 2), Amount: 25}}
	assert.InDelta(t, -15, NetProfit(revenue, expenses), 1e-9)
}

func TestProfitMargin(t *testing.T) {
	tests := []struct {
		name     string
		revenue  []Entry
		expenses []Entry
		want     float64
	}{
		{
			name: "worked example",
			revenue: []Entry{
				{Date: day(2024, time.January, 5), Amount: 100},
				{Date: day(2024, time.February, 10), Amount: 50},
			},
			expenses: []Entry{{Date: day(2024, time.January, 15), Amount: 30}},
			want:     80.0,
		},
		{
			name: "zero revenue returns exactly zero",
			expenses: []Entry{
				{Date: day(2024, time.January, 15), Amount: 30},
			},
			want: 0,
		},
		{
			name: "empty inputs",
			want: 0,
		},
		{
			name:    "all profit",
			revenue: []Entry{{Date: day(2024, time.June, 1), Amount: 200}},
			want:    100,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ProfitMargin(tt.revenue, tt.expenses)
			assert.InDelta(t, tt.want, got, 1e-9)
			assert.False(t, got != got, "margin must never be NaN")
		})
	}
}

func TestFilterByRange(t *testing.T) {
	jan := Entry{Date: day(2024, time.January, 5), Amount: 100}
	feb := Entry{Date: day(2024, time.February, 10), Amount: 50}
	mar := Entry{Date: day(2024, time.March, 20), Amount: 75}
	entries := []Entry{jan, feb, mar}

	from := day(2024, time.February, 10)
	to := day(2024, time.March, 20)

	t.Run("both bounds inclusive", func(t *testing.T) {
		got := FilterByRange(entries, &from, &to)
		assert.Equal(t, []Entry{feb, mar}, got)
	})

	t.Run("nil bounds are unbounded", func(t *testing.T) {
		assert.Len(t, FilterByRange(entries, nil, nil), 3)
		assert.Len(t, FilterByRange(entries, &from, nil), 2)
		assert.Len(t, FilterByRange(entries, nil, &from), 2)
	})

	t.Run("zero dates are excluded, not fatal", func(t *testing.T) {
		withBad := append([]Entry{{Amount: 999}}, entries...)
		got := FilterByRange(withBad, nil, nil)
		assert.Len(t, got, 3)
	})

	t.Run("input is not mutated", func(t *testing.T) {
		before := make([]Entry, len(entries))
		copy(before, entries)
		FilterByRange(entries, &from, &to)
		assert.Equal(t, before, entries)
	})

	t.Run("filtering is idempotent", func(t *testing.T) {
		once := FilterByRange(entries, &from, &to)
		twice := FilterByRange(once, &from, &to)
		assert.Equal(t, once, twice)
	})
}

func TestGroupByCategoryPartitionConsistency(t *testing.T) {
	entries := []Entry{
		{Date: day(2024, time.January, 5), Amount: 100, Category: "blood"},
		{Date: day(2024, time.January, 8), Amount: 40, Category: "urine"},
		{Date: day(2024, time.February, 10), Amount: 50, Category: "blood"},
	}

	groups := GroupByCategory(entries)
	require.Len(t, groups, 2)
	assert.InDelta(t, 150, groups["blood"], 1e-9)
	assert.InDelta(t, 40, groups["urine"], 1e-9)

	var sum float64
	for _, v := range groups {
		sum += v
	}
	assert.InDelta(t, Total(entries), sum, 1e-9, "sum of parts must equal the whole")
}

func TestGroupByCommutesWithFilter(t *testing.T) {
	entries := []Entry{
		{Date: day(2024, time.January, 5), Amount: 100, Category: "a"},
		{Date: day(2024, time.February, 10), Amount: 50, Category: "b"},
		{Date: day(2024, time.March, 1), Amount: 25, Category: "a"},
	}
	from := day(2024, time.January, 1)
	to := day(2024, time.February, 28)

	grouped := GroupByCategory(FilterByRange(entries, &from, &to))
	assert.InDelta(t, 100, grouped["a"], 1e-9)
	assert.InDelta(t, 50, grouped["b"], 1e-9)
}

func TestSalaryFromCollections(t *testing.T) {
	tests := []struct {
		name       string
		collected  float64
		percentage float64
		want       float64
	}{
		{"worked example 40% of 500", 500, 40, 200},
		{"zero percentage", 500, 0, 0},
		{"full percentage", 500, 100, 500},
		{"negative clamps to 0", 500, -10, 0},
		{"over 100 clamps to 100", 500, 150, 500},
		{"zero collections", 0, 40, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, SalaryFromCollections(tt.collected, tt.percentage), 1e-9)
		})
	}
}
