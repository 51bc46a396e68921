// Package finance holds the period-bounded aggregation used by every report
// and dashboard endpoint. Everything here is a pure function over already
// fetched records: no database access, no package state, inputs are never
// mutated. Revenue entries carry the amount actually paid - collected cash is
// the canonical income metric, not the amount charged.
package finance

import "time"

// Entry is one dated monetary record reduced to what aggregation needs.
// Handlers convert fetched rows (lab tests, pharmacy sales, glass sales,
// expenses) into entries before calling into this package.
type Entry struct {
	Date     time.Time
	Amount   float64
	Category string
}

// FilterByRange keeps entries whose date falls inside the inclusive bounds.
// A nil bound is unbounded on that side. Entries with a zero date (the result
// of an unparseable date upstream) are excluded rather than crashing the
// report.
func FilterByRange(entries []Entry, from, to *time.Time) []Entry {
	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if e.Date.IsZero() {
			continue
		}
		if from != nil && e.Date.Before(*from) {
			continue
		}
		if to != nil && e.Date.After(*to) {
			continue
		}
		out = append(out, e)
	}
	return out
}

// Total sums the amounts. An empty slice gives 0, never NaN.
func Total(entries []Entry) float64 {
	var total float64
	for _, e := range entries {
		total += e.Amount
	}
	return total
}

// NetProfit may be negative; the sign is meaningful to the caller.
func NetProfit(revenue, expenses []Entry) float64 {
	return Total(revenue) - Total(expenses)
}

// ProfitMargin returns net profit as a percentage of total revenue.
// Defined as exactly 0 when revenue is 0 - division by zero must never
// reach the rendering layer.
func ProfitMargin(revenue, expenses []Entry) float64 {
	totalRevenue := Total(revenue)
	if totalRevenue <= 0 {
		return 0
	}
	return NetProfit(revenue, expenses) / totalRevenue * 100
}

// GroupByCategory sums amounts per category. The per-category totals always
// add up to Total over the same entries.
func GroupByCategory(entries []Entry) map[string]float64 {
	groups := make(map[string]float64)
	for _, e := range entries {
		groups[e.Category] += e.Amount
	}
	return groups
}

// SalaryFromCollections derives a doctor-salary amount from revenue collected
// over a sub-period. The percentage is clamped to [0,100]. The caller freezes
// the result into the expense record; it is never recomputed afterwards.
func SalaryFromCollections(collected, percentage float64) float64 {
	if percentage < 0 {
		percentage = 0
	}
	if percentage > 100 {
		percentage = 100
	}
	return collected * percentage / 100
}
