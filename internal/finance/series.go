package finance

import (
	"sort"
	"time"
)

// MonthKey identifies a calendar month. Buckets are keyed by year+month, not
// by a display string, so ordering is always chronological - "Jan 2025" can
// never sort before "Feb 2024".
type MonthKey struct {
	Year  int
	Month time.Month
}

func monthKeyOf(t time.Time) MonthKey {
	return MonthKey{Year: t.Year(), Month: t.Month()}
}

func (k MonthKey) before(other MonthKey) bool {
	if k.Year != other.Year {
		return k.Year < other.Year
	}
	return k.Month < other.Month
}

// Label renders the month for display, e.g. "Jan 2024".
func (k MonthKey) Label() string {
	return time.Date(k.Year, k.Month, 1, 0, 0, 0, 0, time.UTC).Format("Jan 2006")
}

// MonthRow is one row of the monthly trend series.
type MonthRow struct {
	Year     int
	Month    time.Month
	Revenue  float64
	Expenses float64
	Profit   float64
}

// Label renders the row's month for display.
func (r MonthRow) Label() string {
	return MonthKey{Year: r.Year, Month: r.Month}.Label()
}

// MonthlySeries buckets both streams by calendar month. A month present in
// either stream gets a row; the missing side is 0. Rows are sorted ascending
// by calendar time. Zero-dated entries are skipped.
func MonthlySeries(revenue, expenses []Entry) []MonthRow {
	revByMonth := make(map[MonthKey]float64)
	expByMonth := make(map[MonthKey]float64)

	for _, e := range revenue {
		if e.Date.IsZero() {
			continue
		}
		revByMonth[monthKeyOf(e.Date)] += e.Amount
	}
	for _, e := range expenses {
		if e.Date.IsZero() {
			continue
		}
		expByMonth[monthKeyOf(e.Date)] += e.Amount
	}

	keys := make([]MonthKey, 0, len(revByMonth)+len(expByMonth))
	seen := make(map[MonthKey]bool)
	for k := range revByMonth {
		keys = append(keys, k)
		seen[k] = true
	}
	for k := range expByMonth {
		if !seen[k] {
			keys = append(keys, k)
		}
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].before(keys[j]) })

	rows := make([]MonthRow, 0, len(keys))
	for _, k := range keys {
		rev := revByMonth[k]
		exp := expByMonth[k]
		rows = append(rows, MonthRow{
			Year:     k.Year,
			Month:    k.Month,
			Revenue:  rev,
			Expenses: exp,
			Profit:   rev - exp,
		})
	}
	return rows
}

// DayRow is one row of the daily breakdown returned by report endpoints.
type DayRow struct {
	Date     string  `json:"date"` // "2006-01-02"
	Income   float64 `json:"income"`
	Expenses float64 `json:"expenses"`
}

// DailySeries produces one row per day between from and to (inclusive), with
// 0 for days without records. When either bound is zero the range is derived
// from the data itself; no data means an empty series.
func DailySeries(revenue, expenses []Entry, from, to time.Time) []DayRow {
	if from.IsZero() || to.IsZero() {
		min, max, ok := dateSpan(revenue, expenses)
		if !ok {
			return []DayRow{}
		}
		if from.IsZero() {
			from = min
		}
		if to.IsZero() {
			to = max
		}
	}
	from = truncateDay(from)
	to = truncateDay(to)
	if to.Before(from) {
		return []DayRow{}
	}

	dayMap := make(map[string]DayRow)
	for current := from; !current.After(to); current = current.AddDate(0, 0, 1) {
		dateStr := current.Format("2006-01-02")
		dayMap[dateStr] = DayRow{Date: dateStr}
	}

	for _, e := range revenue {
		if e.Date.IsZero() {
			continue
		}
		dateStr := e.Date.Format("2006-01-02")
		if row, ok := dayMap[dateStr]; ok {
			row.Income += e.Amount
			dayMap[dateStr] = row
		}
	}
	for _, e := range expenses {
		if e.Date.IsZero() {
			continue
		}
		dateStr := e.Date.Format("2006-01-02")
		if row, ok := dayMap[dateStr]; ok {
			row.Expenses += e.Amount
			dayMap[dateStr] = row
		}
	}

	rows := make([]DayRow, 0, len(dayMap))
	for _, row := range dayMap {
		rows = append(rows, row)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Date < rows[j].Date })
	return rows
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func dateSpan(revenue, expenses []Entry) (min, max time.Time, ok bool) {
	for _, set := range [][]Entry{revenue, expenses} {
		for _, e := range set {
			if e.Date.IsZero() {
				continue
			}
			if !ok {
				min, max, ok = e.Date, e.Date, true
				continue
			}
			if e.Date.Before(min) {
				min = e.Date
			}
			if e.Date.After(max) {
				max = e.Date
			}
		}
	}
	return min, max, ok
}
