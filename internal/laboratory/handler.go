package laboratory

import (
	"fmt"
	"strings"
	"time"

	"shifa-backend/internal/audit"
	"shifa-backend/internal/auth"
	"shifa-backend/internal/database"
	"shifa-backend/internal/models"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

var validate = validator.New()

type CreateLabTestRequest struct {
	Date          string  `json:"date" validate:"required"` // "2025-12-09"
	PatientName   string  `json:"patient_name" validate:"required"`
	TestType      string  `json:"test_type" validate:"required"`
	AmountCharged float64 `json:"amount_charged" validate:"gte=0"`
	AmountPaid    float64 `json:"amount_paid" validate:"gte=0"`
	InvoiceNo     string  `json:"invoice_no"`
	BranchID      *uint   `json:"branch_id"` // admin only, staff use their own branch
}

type UpdateLabTestRequest struct {
	Date          *string  `json:"date"`
	PatientName   *string  `json:"patient_name"`
	TestType      *string  `json:"test_type"`
	AmountCharged *float64 `json:"amount_charged"`
	AmountPaid    *float64 `json:"amount_paid"`
}

type LabTestResponse struct {
	ID            uint    `json:"id"`
	BranchID      uint    `json:"branch_id"`
	InvoiceNo     string  `json:"invoice_no"`
	PatientName   string  `json:"patient_name"`
	TestType      string  `json:"test_type"`
	Date          string  `json:"date"`
	AmountCharged float64 `json:"amount_charged"`
	AmountPaid    float64 `json:"amount_paid"`
	BalanceDue    float64 `json:"balance_due"`
}

func toResponse(t models.LabTest) LabTestResponse {
	return LabTestResponse{
		ID:            t.ID,
		BranchID:      t.BranchID,
		InvoiceNo:     t.InvoiceNo,
		PatientName:   t.PatientName,
		TestType:      t.TestType,
		Date:          t.Date.Format("2006-01-02"),
		AmountCharged: t.AmountCharged,
		AmountPaid:    t.AmountPaid,
		BalanceDue:    t.BalanceDue(),
	}
}

func parseDate(s string) (time.Time, error) {
	if d, err := time.Parse("2006-01-02", s); err == nil {
		return d, nil
	}
	return time.Parse(time.RFC3339, s)
}

// POST /api/lab-tests
func CreateLabTestHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateLabTestRequest
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

		invoiceNo := strings.TrimSpace(body.InvoiceNo)
		if invoiceNo == "" {
			invoiceNo = "LAB-" + uuid.New().String()[:8]
		}

		test := models.LabTest{
			BranchID:      branchID,
			InvoiceNo:     invoiceNo,
			PatientName:   strings.TrimSpace(body.PatientName),
			TestType:      strings.TrimSpace(body.TestType),
			Date:          date,
			AmountCharged: body.AmountCharged,
			AmountPaid:    body.AmountPaid,
		}

		if err := database.DB.Create(&test).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not create lab test")
		}

		userID, userName, _ := audit.Actor(c)
		_ = audit.WriteLog(audit.LogOptions{
			BranchID:    &branchID,
			UserID:      userID,
			UserName:    userName,
			EntityType:  "lab_test",
			EntityID:    test.ID,
			Action:      models.AuditActionCreate,
			Description: fmt.Sprintf("Lab test %s for %s", test.TestType, test.PatientName),
			After:       test,
		})

		return c.Status(fiber.StatusCreated).JSON(toResponse(test))
	}
}

// GET /api/lab-tests?startDate=&endDate=&branch_id=
func ListLabTestsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		scope, err := auth.ResolveReadScope(c)
		if err != nil {
			return err
		}

		q := database.DB.Model(&models.LabTest{})
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

		var tests []models.LabTest
		if err := q.Order("date desc, id desc").Find(&tests).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list lab tests")
		}

		res := make([]LabTestResponse, 0, len(tests))
		for _, t := range tests {
			res = append(res, toResponse(t))
		}
		return c.JSON(res)
	}
}

// GET /api/lab-tests/:id
func GetLabTestHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var test models.LabTest
		if err := database.DB.First(&test, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Lab test not found")
		}
		if err := requireScope(c, test.BranchID); err != nil {
			return err
		}
		return c.JSON(toResponse(test))
	}
}

// PUT /api/lab-tests/:id
func UpdateLabTestHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var test models.LabTest
		if err := database.DB.First(&test, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Lab test not found")
		}
		if err := requireScope(c, test.BranchID); err != nil {
			return err
		}

		before := test

		var body UpdateLabTestRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		if body.Date != nil {
			date, err := parseDate(*body.Date)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "date must be YYYY-MM-DD")
			}
			test.Date = date
		}
		if body.PatientName != nil {
			name := strings.TrimSpace(*body.PatientName)
			if name == "" {
				return fiber.NewError(fiber.StatusBadRequest, "patient_name cannot be empty")
			}
			test.PatientName = name
		}
		if body.TestType != nil {
			tt := strings.TrimSpace(*body.TestType)
			if tt == "" {
				return fiber.NewError(fiber.StatusBadRequest, "test_type cannot be empty")
			}
			test.TestType = tt
		}
		if body.AmountCharged != nil {
			if *body.AmountCharged < 0 {
				return fiber.NewError(fiber.StatusBadRequest, "amount_charged cannot be negative")
			}
			test.AmountCharged = *body.AmountCharged
		}
		if body.AmountPaid != nil {
			if *body.AmountPaid < 0 {
				return fiber.NewError(fiber.StatusBadRequest, "amount_paid cannot be negative")
			}
			test.AmountPaid = *body.AmountPaid
		}

		if err := database.DB.Save(&test).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not update lab test")
		}

		userID, userName, _ := audit.Actor(c)
		_ = audit.WriteLog(audit.LogOptions{
			BranchID:    &test.BranchID,
			UserID:      userID,
			UserName:    userName,
			EntityType:  "lab_test",
			EntityID:    test.ID,
			Action:      models.AuditActionUpdate,
			Description: fmt.Sprintf("Lab test #%d updated", test.ID),
			Before:      before,
			After:       test,
		})

		return c.JSON(toResponse(test))
	}
}

// DELETE /api/lab-tests/:id
func DeleteLabTestHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var test models.LabTest
		if err := database.DB.First(&test, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Lab test not found")
		}
		if err := requireScope(c, test.BranchID); err != nil {
			return err
		}

		if err := database.DB.Delete(&test).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not delete lab test")
		}

		userID, userName, _ := audit.Actor(c)
		_ = audit.WriteLog(audit.LogOptions{
			BranchID:    &test.BranchID,
			UserID:      userID,
			UserName:    userName,
			EntityType:  "lab_test",
			EntityID:    test.ID,
			Action:      models.AuditActionDelete,
			Description: fmt.Sprintf("Lab test #%d deleted", test.ID),
			After:       test,
		})

		return c.JSON(fiber.Map{"deleted": test.ID})
	}
}

// requireScope rejects branch-scoped users touching another branch's record.
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
