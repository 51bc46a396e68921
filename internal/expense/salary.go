package expense

import (
	"time"

	"shifa-backend/internal/auth"
	"shifa-backend/internal/database"
	"shifa-backend/internal/finance"
	"shifa-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type SalaryPreviewResponse struct {
	FromDate       string  `json:"from_date"`
	ToDate         string  `json:"to_date"`
	Percentage     float64 `json:"percentage"`
	CalculatedFrom float64 `json:"calculated_from"`
	Amount         float64 `json:"amount"`
}

// GET /api/expenses/salary-preview?from=&to=&percentage=
// Live recompute for the creation form. Nothing is persisted; the snapshot
// only freezes when the expense itself is created.
func SalaryPreviewHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		branchID, err := auth.ResolveWriteBranch(c, nil)
		if err != nil {
			return err
		}

		fromStr := c.Query("from")
		toStr := c.Query("to")
		if fromStr == "" || toStr == "" {
			return fiber.NewError(fiber.StatusBadRequest, "from and to are required (YYYY-MM-DD)")
		}
		from, err := parseDate(fromStr)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "from is invalid")
		}
		to, err := parseDate(toStr)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "to is invalid")
		}
		if to.Before(from) {
			return fiber.NewError(fiber.StatusBadRequest, "to is before from")
		}

		pct := clampPercentage(c.QueryFloat("percentage", 0))

		collected, err := collectedBetween(branchID, from, to)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not sum collections")
		}

		return c.JSON(SalaryPreviewResponse{
			FromDate:       from.Format("2006-01-02"),
			ToDate:         to.Format("2006-01-02"),
			Percentage:     pct,
			CalculatedFrom: collected,
			Amount:         finance.SalaryFromCollections(collected, pct),
		})
	}
}

func clampPercentage(pct float64) float64 {
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return pct
}

// collectedBetween sums amount_paid over every revenue stream of a branch
// within the inclusive date range. This is the base of the doctor-salary
// derivation.
func collectedBetween(branchID uint, from, to time.Time) (float64, error) {
	var collected float64

	type summed struct {
		Total float64
	}

	for _, model := range []any{
		&models.LabTest{},
		&models.PharmacySale{},
		&models.GlassSale{},
	} {
		var s summed
		err := database.DB.Model(model).
			Select("COALESCE(SUM(amount_paid), 0) AS total").
			Where("branch_id = ? AND date >= ? AND date <= ?", branchID, from, to).
			Scan(&s).Error
		if err != nil {
			return 0, err
		}
		collected += s.Total
	}

	return collected, nil
}
