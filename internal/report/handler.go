package report

import (
	"time"

	"shifa-backend/internal/auth"
	"shifa-backend/internal/database"
	"shifa-backend/internal/finance"
	"shifa-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// Summary is the scalar block every report response starts with.
type Summary struct {
	TotalIncome       float64 `json:"total_income"`
	TotalExpenses     float64 `json:"total_expenses"`
	NetProfit         float64 `json:"net_profit"`
	ProfitMargin      float64 `json:"profit_margin"`
	TotalRecords      int     `json:"total_records"`
	TotalExpenseItems int     `json:"total_expense_items"`
}

// BuildSummary reduces the two entry streams to the scalar block.
func BuildSummary(revenue, expenses []finance.Entry) Summary {
	return Summary{
		TotalIncome:       finance.Total(revenue),
		TotalExpenses:     finance.Total(expenses),
		NetProfit:         finance.NetProfit(revenue, expenses),
		ProfitMargin:      finance.ProfitMargin(revenue, expenses),
		TotalRecords:      len(revenue),
		TotalExpenseItems: len(expenses),
	}
}

type Response struct {
	ReportType string           `json:"report_type"`
	StartDate  string           `json:"start_date,omitempty"`
	EndDate    string           `json:"end_date,omitempty"`
	Summary    Summary          `json:"summary"`
	DailyData  []finance.DayRow `json:"daily_data"`
	Records    any              `json:"records"`
	Expenses   []ExpenseRow     `json:"expenses"`
}

type ExpenseRow struct {
	ID          uint    `json:"id"`
	Date        string  `json:"date"`
	Category    string  `json:"category"`
	Type        string  `json:"type"`
	Amount      float64 `json:"amount"`
	Description string  `json:"description"`
}

const (
	TypeLaboratory = "laboratory"
	TypePharmacy   = "pharmacy"
	TypeGlass      = "glass"
)

func parseDate(s string) (time.Time, error) {
	if d, err := time.Parse("2006-01-02", s); err == nil {
		return d, nil
	}
	return time.Parse(time.RFC3339, s)
}

// parseRange reads the optional startDate/endDate query bounds. A zero time
// means the bound is absent.
func parseRange(c *fiber.Ctx) (from, to time.Time, err error) {
	if s := c.Query("startDate"); s != "" {
		from, err = parseDate(s)
		if err != nil {
			return from, to, fiber.NewError(fiber.StatusBadRequest, "startDate is invalid")
		}
	}
	if s := c.Query("endDate"); s != "" {
		to, err = parseDate(s)
		if err != nil {
			return from, to, fiber.NewError(fiber.StatusBadRequest, "endDate is invalid")
		}
	}
	if !from.IsZero() && !to.IsZero() && to.Before(from) {
		return from, to, fiber.NewError(fiber.StatusBadRequest, "endDate is before startDate")
	}
	return from, to, nil
}

// applyFilters narrows a query to the branch scope and inclusive date range.
func applyFilters(q *gorm.DB, scope *uint, from, to time.Time) *gorm.DB {
	if scope != nil {
		q = q.Where("branch_id = ?", *scope)
	}
	if !from.IsZero() {
		q = q.Where("date >= ?", from)
	}
	if !to.IsZero() {
		q = q.Where("date <= ?", to)
	}
	return q.Order("date desc, id desc")
}

// GET /api/reports/:type?startDate=&endDate=&branch_id=
func ReportHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reportType := c.Params("type")
		switch reportType {
		case TypeLaboratory, TypePharmacy, TypeGlass:
		default:
			return fiber.NewError(fiber.StatusNotFound, "Unknown report type")
		}

		scope, err := auth.ResolveReadScope(c)
		if err != nil {
			return err
		}
		from, to, err := parseRange(c)
		if err != nil {
			return err
		}

		revenue, records, err := fetchRevenue(reportType, scope, from, to)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not load records")
		}
		expenses, expenseRows, err := fetchExpenses(scope, from, to)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not load expenses")
		}

		res := Response{
			ReportType: reportType,
			Summary:    BuildSummary(revenue, expenses),
			DailyData:  finance.DailySeries(revenue, expenses, from, to),
			Records:    records,
			Expenses:   expenseRows,
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

// ---------------------------------
// row shapes for drill-down tables
// ---------------------------------

type LabRecord struct {
	ID            uint    `json:"id"`
	InvoiceNo     string  `json:"invoice_no"`
	Date          string  `json:"date"`
	PatientName   string  `json:"patient_name"`
	TestType      string  `json:"test_type"`
	AmountCharged float64 `json:"amount_charged"`
	AmountPaid    float64 `json:"amount_paid"`
	BalanceDue    float64 `json:"balance_due"`
}

type PharmacyRecord struct {
	ID            uint    `json:"id"`
	InvoiceNo     string  `json:"invoice_no"`
	Date          string  `json:"date"`
	CustomerName  string  `json:"customer_name"`
	ItemName      string  `json:"item_name"`
	Quantity      int     `json:"quantity"`
	PaymentMethod string  `json:"payment_method"`
	AmountCharged float64 `json:"amount_charged"`
	AmountPaid    float64 `json:"amount_paid"`
	BalanceDue    float64 `json:"balance_due"`
}

type GlassRecord struct {
	ID            uint    `json:"id"`
	InvoiceNo     string  `json:"invoice_no"`
	Date          string  `json:"date"`
	CustomerName  string  `json:"customer_name"`
	FrameModel    string  `json:"frame_model"`
	LensType      string  `json:"lens_type"`
	PaymentMethod string  `json:"payment_method"`
	AmountCharged float64 `json:"amount_charged"`
	AmountPaid    float64 `json:"amount_paid"`
	BalanceDue    float64 `json:"balance_due"`
}

// fetchRevenue loads one business line's records in range and converts them
// to aggregation entries. Collected cash (amount_paid) is the income metric.
func fetchRevenue(reportType string, scope *uint, from, to time.Time) ([]finance.Entry, any, error) {
	switch reportType {
	case TypeLaboratory:
		var tests []models.LabTest
		q := database.DB.Model(&models.LabTest{})
		if err := applyFilters(q, scope, from, to).Find(&tests).Error; err != nil {
			return nil, nil, err
		}
		entries := make([]finance.Entry, 0, len(tests))
		rows := make([]LabRecord, 0, len(tests))
		for _, t := range tests {
			entries = append(entries, finance.Entry{Date: t.Date, Amount: t.AmountPaid, Category: t.TestType})
			rows = append(rows, LabRecord{
				ID:            t.ID,
				InvoiceNo:     t.InvoiceNo,
				Date:          t.Date.Format("2006-01-02"),
				PatientName:   t.PatientName,
				TestType:      t.TestType,
				AmountCharged: t.AmountCharged,
				AmountPaid:    t.AmountPaid,
				BalanceDue:    t.BalanceDue(),
			})
		}
		return entries, rows, nil

	case TypePharmacy:
		var sales []models.PharmacySale
		q := database.DB.Model(&models.PharmacySale{}).Preload("Item")
		if err := applyFilters(q, scope, from, to).Find(&sales).Error; err != nil {
			return nil, nil, err
		}
		entries := make([]finance.Entry, 0, len(sales))
		rows := make([]PharmacyRecord, 0, len(sales))
		for _, s := range sales {
			entries = append(entries, finance.Entry{Date: s.Date, Amount: s.AmountPaid, Category: s.PaymentMethod})
			rows = append(rows, PharmacyRecord{
				ID:            s.ID,
				InvoiceNo:     s.InvoiceNo,
				Date:          s.Date.Format("2006-01-02"),
				CustomerName:  s.CustomerName,
				ItemName:      s.Item.Name,
				Quantity:      s.Quantity,
				PaymentMethod: s.PaymentMethod,
				AmountCharged: s.AmountCharged,
				AmountPaid:    s.AmountPaid,
				BalanceDue:    s.BalanceDue(),
			})
		}
		return entries, rows, nil

	case TypeGlass:
		var sales []models.GlassSale
		q := database.DB.Model(&models.GlassSale{})
		if err := applyFilters(q, scope, from, to).Find(&sales).Error; err != nil {
			return nil, nil, err
		}
		entries := make([]finance.Entry, 0, len(sales))
		rows := make([]GlassRecord, 0, len(sales))
		for _, s := range sales {
			entries = append(entries, finance.Entry{Date: s.Date, Amount: s.AmountPaid, Category: s.PaymentMethod})
			rows = append(rows, GlassRecord{
				ID:            s.ID,
				InvoiceNo:     s.InvoiceNo,
				Date:          s.Date.Format("2006-01-02"),
				CustomerName:  s.CustomerName,
				FrameModel:    s.FrameModel,
				LensType:      s.LensType,
				PaymentMethod: s.PaymentMethod,
				AmountCharged: s.AmountCharged,
				AmountPaid:    s.AmountPaid,
				BalanceDue:    s.BalanceDue(),
			})
		}
		return entries, rows, nil
	}

	return nil, nil, nil
}

func fetchExpenses(scope *uint, from, to time.Time) ([]finance.Entry, []ExpenseRow, error) {
	var expenses []models.Expense
	q := database.DB.Model(&models.Expense{}).Preload("Category")
	if err := applyFilters(q, scope, from, to).Find(&expenses).Error; err != nil {
		return nil, nil, err
	}

	entries := make([]finance.Entry, 0, len(expenses))
	rows := make([]ExpenseRow, 0, len(expenses))
	for _, e := range expenses {
		entries = append(entries, finance.Entry{Date: e.Date, Amount: e.Amount, Category: e.Category.Name})
		rows = append(rows, ExpenseRow{
			ID:          e.ID,
			Date:        e.Date.Format("2006-01-02"),
			Category:    e.Category.Name,
			Type:        string(e.Type),
			Amount:      e.Amount,
			Description: e.Description,
		})
	}
	return entries, rows, nil
}
