package expense

import (
	"fmt"
	"strings"
	"time"

	"shifa-backend/internal/audit"
	"shifa-backend/internal/auth"
	"shifa-backend/internal/database"
	"shifa-backend/internal/finance"
	"shifa-backend/internal/models"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

type ExpenseCategoryResponse struct {
	ID       uint   `json:"id"`
	BranchID uint   `json:"branch_id"`
	Name     string `json:"name"`
}

type CreateExpenseCategoryRequest struct {
	Name     string `json:"name" validate:"required"`
	BranchID *uint  `json:"branch_id"`
}

type UpdateExpenseCategoryRequest struct {
	Name *string `json:"name"`
}

type CreateExpenseRequest struct {
	Date        string  `json:"date" validate:"required"` // "2025-12-09"
	CategoryID  uint    `json:"category_id" validate:"required"`
	Type        string  `json:"type"` // "normal" (default) or "doctor_salary"
	Amount      float64 `json:"amount" validate:"gte=0"`
	Description string  `json:"description"`
	BranchID    *uint   `json:"branch_id"`

	// doctor_salary only
	Percentage *float64 `json:"percentage"`
	FromDate   *string  `json:"from_date"`
	ToDate     *string  `json:"to_date"`
}

type UpdateExpenseRequest struct {
	Date        *string  `json:"date"`
	CategoryID  *uint    `json:"category_id"`
	Amount      *float64 `json:"amount"`
	Description *string  `json:"description"`
}

type ExpenseResponse struct {
	ID          uint    `json:"id"`
	BranchID    uint    `json:"branch_id"`
	CategoryID  uint    `json:"category_id"`
	Category    string  `json:"category"`
	Type        string  `json:"type"`
	Date        string  `json:"date"`
	Amount      float64 `json:"amount"`
	Description string  `json:"description"`

	Percentage     *float64 `json:"percentage,omitempty"`
	CalculatedFrom *float64 `json:"calculated_from,omitempty"`
	FromDate       *string  `json:"from_date,omitempty"`
	ToDate         *string  `json:"to_date,omitempty"`
}

func toResponse(e models.Expense) ExpenseResponse {
	res := ExpenseResponse{
		ID:             e.ID,
		BranchID:       e.BranchID,
		CategoryID:     e.CategoryID,
		Category:       e.Category.Name,
		Type:           string(e.Type),
		Date:           e.Date.Format("2006-01-02"),
		Amount:         e.Amount,
		Description:    e.Description,
		Percentage:     e.Percentage,
		CalculatedFrom: e.CalculatedFrom,
	}
	if e.FromDate != nil {
		s := e.FromDate.Format("2006-01-02")
		res.FromDate = &s
	}
	if e.ToDate != nil {
		s := e.ToDate.Format("2006-01-02")
		res.ToDate = &s
	}
	return res
}

func parseDate(s string) (time.Time, error) {
	if d, err := time.Parse("2006-01-02", s); err == nil {
		return d, nil
	}
	return time.Parse(time.RFC3339, s)
}

// -------------------------
// Expense Category CRUD
// -------------------------

// GET /api/expense-categories (any authenticated user)
func ListExpenseCategoriesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		scope, err := auth.ResolveReadScope(c)
		if err != nil {
			return err
		}

		q := database.DB.Model(&models.ExpenseCategory{})
		if scope != nil {
			q = q.Where("branch_id = ?", *scope)
		}

		var cats []models.ExpenseCategory
		if err := q.Order("name asc").Find(&cats).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list categories")
		}

		res := make([]ExpenseCategoryResponse, 0, len(cats))
		for _, cat := range cats {
			res = append(res, ExpenseCategoryResponse{
				ID:       cat.ID,
				BranchID: cat.BranchID,
				Name:     cat.Name,
			})
		}
		return c.JSON(res)
	}
}

// POST /api/admin/expense-categories (admin)
func CreateExpenseCategoryHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateExpenseCategoryRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		body.Name = strings.TrimSpace(body.Name)
		if body.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Name is required")
		}

		branchID, err := auth.ResolveWriteBranch(c, body.BranchID)
		if err != nil {
			return err
		}

		cat := models.ExpenseCategory{BranchID: branchID, Name: body.Name}
		if err := database.DB.Create(&cat).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not create category")
		}

		return c.Status(fiber.StatusCreated).JSON(ExpenseCategoryResponse{
			ID:       cat.ID,
			BranchID: cat.BranchID,
			Name:     cat.Name,
		})
	}
}

// PUT /api/admin/expense-categories/:id (admin)
func UpdateExpenseCategoryHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var cat models.ExpenseCategory
		if err := database.DB.First(&cat, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Category not found")
		}

		var body UpdateExpenseCategoryRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		if body.Name != nil {
			name := strings.TrimSpace(*body.Name)
			if name == "" {
				return fiber.NewError(fiber.StatusBadRequest, "Name cannot be empty")
			}
			cat.Name = name
		}

		if err := database.DB.Save(&cat).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not update category")
		}

		return c.JSON(ExpenseCategoryResponse{
			ID:       cat.ID,
			BranchID: cat.BranchID,
			Name:     cat.Name,
		})
	}
}

// DELETE /api/admin/expense-categories/:id (admin)
func DeleteExpenseCategoryHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var cat models.ExpenseCategory
		if err := database.DB.First(&cat, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Category not found")
		}

		var expenseCount int64
		database.DB.Model(&models.Expense{}).Where("category_id = ?", cat.ID).Count(&expenseCount)
		if expenseCount > 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Category has expenses and cannot be deleted")
		}

		if err := database.DB.Delete(&cat).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not delete category")
		}

		return c.JSON(fiber.Map{"deleted": cat.ID})
	}
}

// -------------------------
// Expense CRUD
// -------------------------

// POST /api/expenses
// A doctor_salary expense derives its amount once, from revenue collected in
// from_date..to_date, and freezes it. Any amount in the request body is
// ignored for that type.
func CreateExpenseHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateExpenseRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		if err := validate.Struct(body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Missing or invalid fields: "+err.Error())
		}

		date, err := parseDate(body.Date)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "date must be YYYY-MM-DD")
		}

		branchID, err := auth.ResolveWriteBranch(c, body.BranchID)
		if err != nil {
			return err
		}

		var cat models.ExpenseCategory
		if err := database.DB.First(&cat, "id = ?", body.CategoryID).Error; err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Category not found")
		}

		expType := models.ExpenseTypeNormal
		if body.Type == string(models.ExpenseTypeDoctorSalary) {
			expType = models.ExpenseTypeDoctorSalary
		} else if body.Type != "" && body.Type != string(models.ExpenseTypeNormal) {
			return fiber.NewError(fiber.StatusBadRequest, "type must be normal or doctor_salary")
		}

		exp := models.Expense{
			BranchID:    branchID,
			CategoryID:  cat.ID,
			Category:    cat,
			Type:        expType,
			Date:        date,
			Amount:      body.Amount,
			Description: strings.TrimSpace(body.Description),
		}

		if expType == models.ExpenseTypeDoctorSalary {
			if body.Percentage == nil || body.FromDate == nil || body.ToDate == nil {
				return fiber.NewError(fiber.StatusBadRequest, "doctor_salary needs percentage, from_date and to_date")
			}
			from, err := parseDate(*body.FromDate)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "from_date must be YYYY-MM-DD")
			}
			to, err := parseDate(*body.ToDate)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "to_date must be YYYY-MM-DD")
			}
			if to.Before(from) {
				return fiber.NewError(fiber.StatusBadRequest, "to_date is before from_date")
			}

			collected, err := collectedBetween(branchID, from, to)
			if err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Could not sum collections")
			}

			pct := clampPercentage(*body.Percentage)
			exp.Amount = finance.SalaryFromCollections(collected, pct)
			exp.Percentage = &pct
			exp.CalculatedFrom = &collected
			exp.FromDate = &from
			exp.ToDate = &to
		}

		if err := database.DB.Create(&exp).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not create expense")
		}

		userID, userName, _ := audit.Actor(c)
		_ = audit.WriteLog(audit.LogOptions{
			BranchID:    &branchID,
			UserID:      userID,
			UserName:    userName,
			EntityType:  "expense",
			EntityID:    exp.ID,
			Action:      models.AuditActionCreate,
			Description: fmt.Sprintf("Expense %s %.2f", cat.Name, exp.Amount),
			After:       exp,
		})

		return c.Status(fiber.StatusCreated).JSON(toResponse(exp))
	}
}

// GET /api/expenses?startDate=&endDate=&branch_id=
func ListExpensesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		scope, err := auth.ResolveReadScope(c)
		if err != nil {
			return err
		}

		q := database.DB.Model(&models.Expense{}).Preload("Category")
		if scope != nil {
			q = q.Where("branch_id = ?", *scope)
		}
		if s := c.Query("startDate"); s != "" {
			from, err := parseDate(s)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "startDate is invalid")
			}
			q = q.Where("date >= ?", from)
		}
		if s := c.Query("endDate"); s != "" {
			to, err := parseDate(s)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "endDate is invalid")
			}
			q = q.Where("date <= ?", to)
		}

		var expenses []models.Expense
		if err := q.Order("date desc, id desc").Find(&expenses).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list expenses")
		}

		res := make([]ExpenseResponse, 0, len(expenses))
		for _, e := range expenses {
			res = append(res, toResponse(e))
		}
		return c.JSON(res)
	}
}

// GET /api/expenses/:id
func GetExpenseHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var exp models.Expense
		if err := database.DB.Preload("Category").First(&exp, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Expense not found")
		}
		if err := requireScope(c, exp.BranchID); err != nil {
			return err
		}
		return c.JSON(toResponse(exp))
	}
}

// PUT /api/expenses/:id
// The persisted amount of a doctor_salary expense is authoritative: it is
// never rederived here, only overwritten when the caller sends a new amount
// explicitly.
func UpdateExpenseHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var exp models.Expense
		if err := database.DB.Preload("Category").First(&exp, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Expense not found")
		}
		if err := requireScope(c, exp.BranchID); err != nil {
			return err
		}

		before := exp

		var body UpdateExpenseRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		if body.Date != nil {
			date, err := parseDate(*body.Date)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "date must be YYYY-MM-DD")
			}
			exp.Date = date
		}
		if body.CategoryID != nil {
			var cat models.ExpenseCategory
			if err := database.DB.First(&cat, "id = ?", *body.CategoryID).Error; err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "Category not found")
			}
			exp.CategoryID = cat.ID
			exp.Category = cat
		}
		if body.Amount != nil {
			if *body.Amount < 0 {
				return fiber.NewError(fiber.StatusBadRequest, "amount cannot be negative")
			}
			exp.Amount = *body.Amount
		}
		if body.Description != nil {
			exp.Description = strings.TrimSpace(*body.Description)
		}

		if err := database.DB.Save(&exp).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not update expense")
		}

		userID, userName, _ := audit.Actor(c)
		_ = audit.WriteLog(audit.LogOptions{
			BranchID:    &exp.BranchID,
			UserID:      userID,
			UserName:    userName,
			EntityType:  "expense",
			EntityID:    exp.ID,
			Action:      models.AuditActionUpdate,
			Description: fmt.Sprintf("Expense #%d updated", exp.ID),
			Before:      before,
			After:       exp,
		})

		return c.JSON(toResponse(exp))
	}
}

// DELETE /api/expenses/:id
func DeleteExpenseHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var exp models.Expense
		if err := database.DB.First(&exp, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Expense not found")
		}
		if err := requireScope(c, exp.BranchID); err != nil {
			return err
		}

		if err := database.DB.Delete(&exp).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not delete expense")
		}

		userID, userName, _ := audit.Actor(c)
		_ = audit.WriteLog(audit.LogOptions{
			BranchID:    &exp.BranchID,
			UserID:      userID,
			UserName:    userName,
			EntityType:  "expense",
			EntityID:    exp.ID,
			Action:      models.AuditActionDelete,
			Description: fmt.Sprintf("Expense #%d deleted", exp.ID),
			After:       exp,
		})

		return c.JSON(fiber.Map{"deleted": exp.ID})
	}
}

func requireScope(c *fiber.Ctx, branchID uint) error {
	scope, err := auth.ResolveReadScope(c)
	if err != nil {
		return err
	}
	if scope != nil && *scope != branchID {
		return fiber.NewError(fiber.StatusForbidden, "Record belongs to another branch")
	}
	return nil
}
