package report

import (
	"time"

	"shifa-backend/internal/auth"
	"shifa-backend/internal/finance"

	"github.com/gofiber/fiber/v2"
)

type MonthRowResponse struct {
	Month    string  `json:"month"` // "Jan 2024"
	Revenue  float64 `json:"revenue"`
	Expenses float64 `json:"expenses"`
	Profit   float64 `json:"profit"`
}

type OverviewResponse struct {
	StartDate string  `json:"start_date,omitempty"`
	EndDate   string  `json:"end_date,omitempty"`
	Summary   Summary `json:"summary"`

	RevenueByLine      map[string]float64 `json:"revenue_by_line"`
	ExpensesByCategory map[string]float64 `json:"expenses_by_category"`

	MonthlySeries []MonthRowResponse `json:"monthly_series"`
	Transactions  []finance.FeedItem `json:"transactions"`
}

// GET /api/reports/overview?startDate=&endDate=&branch_id=
// Cross-line dashboard: totals, distributions, monthly trend and a combined
// most-recent-first transaction feed.
func OverviewHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		scope, err := auth.ResolveReadScope(c)
		if err != nil {
			return err
		}
		from, to, err := parseRange(c)
		if err != nil {
			return err
		}

		revenue, err := fetchAllRevenue(scope, from, to)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not load records")
		}
		expenses, _, err := fetchExpenses(scope, from, to)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not load expenses")
		}

		res := OverviewResponse{
			Summary:            BuildSummary(revenue, expenses),
			RevenueByLine:      finance.GroupByCategory(revenue),
			ExpensesByCategory: finance.GroupByCategory(expenses),
			MonthlySeries:      monthRows(finance.MonthlySeries(revenue, expenses)),
			Transactions:       finance.CombinedFeed(revenue, expenses),
		}
		if !from.IsZero() {
			res.StartDate = from.Format("2006-01-02")
		}
		if !to.IsZero() {
			res.EndDate = to.Format("2006-01-02")
		}

		return c.JSON(res)
	}
}

// fetchAllRevenue merges the three business lines into one entry stream,
// categorized by line so the overview can break revenue down per line.
func fetchAllRevenue(scope *uint, from, to time.Time) ([]finance.Entry, error) {
	var all []finance.Entry
	for _, reportType := range []string{TypeLaboratory, TypePharmacy, TypeGlass} {
		entries, _, err := fetchRevenue(reportType, scope, from, to)
		if err != nil {
			return nil, err
		}
		for i := range entries {
			entries[i].Category = reportType
		}
		all = append(all, entries...)
	}
	return all, nil
}

func monthRows(rows []finance.MonthRow) []MonthRowResponse {
	out := make([]MonthRowResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, MonthRowResponse{
			Month:    r.Label(),
			Revenue:  r.Revenue,
			Expenses: r.Expenses,
			Profit:   r.Profit,
		})
	}
	return out
}
