package glass

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

type CreateGlassSaleRequest struct {
	Date          string  `json:"date" validate:"required"`
	CustomerName  string  `json:"customer_name" validate:"required"`
	FrameModel    string  `json:"frame_model"`
	LensType      string  `json:"lens_type"`
	PaymentMethod string  `json:"payment_method" validate:"required,oneof=cash card mobile"`
	AmountCharged float64 `json:"amount_charged" validate:"gte=0"`
	AmountPaid    float64 `json:"amount_paid" validate:"gte=0"`
	InvoiceNo     string  `json:"invoice_no"`
	BranchID      *uint   `json:"branch_id"`
}

type UpdateGlassSaleRequest struct {
	Date          *string  `json:"date"`
	CustomerName  *string  `json:"customer_name"`
	FrameModel    *string  `json:"frame_model"`
	LensType      *string  `json:"lens_type"`
	PaymentMethod *string  `json:"payment_method"`
	AmountCharged *float64 `json:"amount_charged"`
	AmountPaid    *float64 `json:"amount_paid"`
}

type GlassSaleResponse struct {
	ID            uint    `json:"id"`
	BranchID      uint    `json:"branch_id"`
	InvoiceNo     string  `json:"invoice_no"`
	CustomerName  string  `json:"customer_name"`
	FrameModel    string  `json:"frame_model"`
	LensType      string  `json:"lens_type"`
	PaymentMethod string  `json:"payment_method"`
	Date          string  `json:"date"`
	AmountCharged float64 `json:"amount_charged"`
	AmountPaid    float64 `json:"amount_paid"`
	BalanceDue    float64 `json:"balance_due"`
}

func toResponse(s models.GlassSale) GlassSaleResponse {
	return GlassSaleResponse{
		ID:            s.ID,
		BranchID:      s.BranchID,
		InvoiceNo:     s.InvoiceNo,
		CustomerName:  s.CustomerName,
		FrameModel:    s.FrameModel,
		LensType:      s.LensType,
		PaymentMethod: s.PaymentMethod,
		Date:          s.Date.Format("2006-01-02"),
		AmountCharged: s.AmountCharged,
		AmountPaid:    s.AmountPaid,
		BalanceDue:    s.BalanceDue(),
	}
}

func parseDate(s string) (time.Time, error) {
	if d, err := time.Parse("2006-01-02", s); err == nil {
		return d, nil
	}
	return time.Parse(time.RFC3339, s)
}

// POST /api/glass-sales
func CreateGlassSaleHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateGlassSaleRequest
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
			invoiceNo = "GLS-" + uuid.New().String()[:8]
		}

		sale := models.GlassSale{
			BranchID:      branchID,
			InvoiceNo:     invoiceNo,
			CustomerName:  strings.TrimSpace(body.CustomerName),
			FrameModel:    strings.TrimSpace(body.FrameModel),
			LensType:      strings.TrimSpace(body.LensType),
			PaymentMethod: body.PaymentMethod,
			Date:          date,
			AmountCharged: body.AmountCharged,
			AmountPaid:    body.AmountPaid,
		}

		if err := database.DB.Create(&sale).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not create glass sale")
		}

		userID, userName, _ := audit.Actor(c)
		_ = audit.WriteLog(audit.LogOptions{
			BranchID:    &branchID,
			UserID:      userID,
			UserName:    userName,
			EntityType:  "glass_sale",
			EntityID:    sale.ID,
			Action:      models.AuditActionCreate,
			Description: fmt.Sprintf("Glass sale for %s", sale.CustomerName),
			After:       sale,
		})

		return c.Status(fiber.StatusCreated).JSON(toResponse(sale))
	}
}

// GET /api/glass-sales?startDate=&endDate=&branch_id=
func ListGlassSalesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		scope, err := auth.ResolveReadScope(c)
		if err != nil {
			return err
		}

		q := database.DB.Model(&models.GlassSale{})
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

		var sales []models.GlassSale
		if err := q.Order("date desc, id desc").Find(&sales).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list glass sales")
		}

		res := make([]GlassSaleResponse, 0, len(sales))
		for _, s := range sales {
			res = append(res, toResponse(s))
		}
		return c.JSON(res)
	}
}

// GET /api/glass-sales/:id
func GetGlassSaleHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var sale models.GlassSale
		if err := database.DB.First(&sale, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Glass sale not found")
		}
		if err := requireScope(c, sale.BranchID); err != nil {
			return err
		}
		return c.JSON(toResponse(sale))
	}
}

// PUT /api/glass-sales/:id
func UpdateGlassSaleHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var sale models.GlassSale
		if err := database.DB.First(&sale, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Glass sale not found")
		}
		if err := requireScope(c, sale.BranchID); err != nil {
			return err
		}

		before := sale

		var body UpdateGlassSaleRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		if body.Date != nil {
			date, err := parseDate(*body.Date)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "date must be YYYY-MM-DD")
			}
			sale.Date = date
		}
		if body.CustomerName != nil {
			name := strings.TrimSpace(*body.CustomerName)
			if name == "" {
				return fiber.NewError(fiber.StatusBadRequest, "customer_name cannot be empty")
			}
			sale.CustomerName = name
		}
		if body.FrameModel != nil {
			sale.FrameModel = strings.TrimSpace(*body.FrameModel)
		}
		if body.LensType != nil {
			sale.LensType = strings.TrimSpace(*body.LensType)
		}
		if body.PaymentMethod != nil {
			switch *body.PaymentMethod {
			case "cash", "card", "mobile":
				sale.PaymentMethod = *body.PaymentMethod
			default:
				return fiber.NewError(fiber.StatusBadRequest, "payment_method must be cash, card or mobile")
			}
		}
		if body.AmountCharged != nil {
			if *body.AmountCharged < 0 {
				return fiber.NewError(fiber.StatusBadRequest, "amount_charged cannot be negative")
			}
			sale.AmountCharged = *body.AmountCharged
		}
		if body.AmountPaid != nil {
			if *body.AmountPaid < 0 {
				return fiber.NewError(fiber.StatusBadRequest, "amount_paid cannot be negative")
			}
			sale.AmountPaid = *body.AmountPaid
		}

		if err := database.DB.Save(&sale).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not update glass sale")
		}

		userID, userName, _ := audit.Actor(c)
		_ = audit.WriteLog(audit.LogOptions{
			BranchID:    &sale.BranchID,
			UserID:      userID,
			UserName:    userName,
			EntityType:  "glass_sale",
			EntityID:    sale.ID,
			Action:      models.AuditActionUpdate,
			Description: fmt.Sprintf("Glass sale #%d updated", sale.ID),
			Before:      before,
			After:       sale,
		})

		return c.JSON(toResponse(sale))
	}
}

// DELETE /api/glass-sales/:id
func DeleteGlassSaleHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var sale models.GlassSale
		if err := database.DB.First(&sale, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Glass sale not found")
		}
		if err := requireScope(c, sale.BranchID); err != nil {
			return err
		}

		if err := database.DB.Delete(&sale).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not delete glass sale")
		}

		userID, userName, _ := audit.Actor(c)
		_ = audit.WriteLog(audit.LogOptions{
			BranchID:    &sale.BranchID,
			UserID:      userID,
			UserName:    userName,
			EntityType:  "glass_sale",
			EntityID:    sale.ID,
			Action:      models.AuditActionDelete,
			Description: fmt.Sprintf("Glass sale #%d deleted", sale.ID),
			After:       sale,
		})

		return c.JSON(fiber.Map{"deleted": sale.ID})
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
