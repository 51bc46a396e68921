package finance

import "sort"

// FeedItem is one row of the combined transaction feed. Amount is signed for
// display: positive for revenue, negative for expenses.
type FeedItem struct {
	Date     string  `json:"date"` // "2006-01-02"
	Kind     string  `json:"kind"` // "revenue" / "expense"
	Category string  `json:"category"`
	Amount   float64 `json:"amount"`
}

// CombinedFeed merges both streams most-recent-first. The sort is stable:
// same-day rows keep their relative input order (revenue before expenses),
// so repeated calls over the same data render identically. Zero-dated
// entries are excluded.
func CombinedFeed(revenue, expenses []Entry) []FeedItem {
	type dated struct {
		item FeedItem
		when int64
	}

	merged := make([]dated, 0, len(revenue)+len(expenses))
	for _, e := range revenue {
		if e.Date.IsZero() {
			continue
		}
		merged = append(merged, dated{
			item: FeedItem{
				Date:     e.Date.Format("2006-01-02"),
				Kind:     "revenue",
				Category: e.Category,
				Amount:   e.Amount,
			},
			when: e.Date.Unix(),
		})
	}
	for _, e := range expenses {
		if e.Date.IsZero() {
			continue
		}
		merged = append(merged, dated{
			item: FeedItem{
				Date:     e.Date.Format("2006-01-02"),
				Kind:     "expense",
				Category: e.Category,
				Amount:   -e.Amount,
			},
			when: e.Date.Unix(),
		})
	}

	sort.SliceStable(merged, func(i, j int) bool { return merged[i].when > merged[j].when })

	items := make([]FeedItem, 0, len(merged))
	for _, d := range merged {
		items = append(items, d.item)
	}
	return items
}
