package pharmacy

import (
	"fmt"
	"strings"
	"time"

	"shifa-backend/internal/audit"
	"shifa-backend/internal/auth"
	"shifa-backend/internal/database"
	"shifa-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CreateSaleRequest struct {
	Date          string  `json:"date" validate:"required"`
	ItemID        uint    `json:"item_id" validate:"required"`
	CustomerName  string  `json:"customer_name" validate:"required"`
	PaymentMethod string  `json:"payment_method" validate:"required,oneof=cash card mobile"`
	Quantity      int     `json:"quantity" validate:"gt=0"`
	AmountCharged float64 `json:"amount_charged" validate:"gte=0"`
	AmountPaid    float64 `json:"amount_paid" validate:"gte=0"`
	InvoiceNo     string  `json:"invoice_no"`
	BranchID      *uint   `json:"branch_id"`
}

type UpdateSaleRequest struct {
	Date          *string  `json:"date"`
	CustomerName  *string  `json:"customer_name"`
	PaymentMethod *string  `json:"payment_method"`
	AmountCharged *float64 `json:"amount_charged"`
	AmountPaid    *float64 `json:"amount_paid"`
}

type SaleResponse struct {
	ID            uint    `json:"id"`
	BranchID      uint    `json:"branch_id"`
	ItemID        uint    `json:"item_id"`
	ItemName      string  `json:"item_name"`
	InvoiceNo     string  `json:"invoice_no"`
	CustomerName  string  `json:"customer_name"`
	PaymentMethod string  `json:"payment_method"`
	Quantity      int     `json:"quantity"`
	Date          string  `json:"date"`
	AmountCharged float64 `json:"amount_charged"`
	AmountPaid    float64 `json:"amount_paid"`
	BalanceDue    float64 `json:"balance_due"`
}

func toSaleResponse(s models.PharmacySale) SaleResponse {
	return SaleResponse{
		ID:            s.ID,
		BranchID:      s.BranchID,
		ItemID:        s.ItemID,
		ItemName:      s.Item.Name,
		InvoiceNo:     s.InvoiceNo,
		CustomerName:  s.CustomerName,
		PaymentMethod: s.PaymentMethod,
		Quantity:      s.Quantity,
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

// POST /api/pharmacy-sales
// Creating a sale takes the sold quantity off the item's stock.
func CreateSaleHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateSaleRequest
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
			invoiceNo = "PHM-" + uuid.New().String()[:8]
		}

		var sale models.PharmacySale
		txErr := database.DB.Transaction(func(tx *gorm.DB) error {
			var item models.PharmacyItem
			if err := tx.First(&item, "id = ? AND branch_id = ?", body.ItemID, branchID).Error; err != nil {
				return fiber.NewError(fiber.StatusNotFound, "Item not found in this branch")
			}
			if item.QuantityOnHand < body.Quantity {
				return fiber.NewError(fiber.StatusBadRequest,
					fmt.Sprintf("Not enough stock: %d on hand", item.QuantityOnHand))
			}

			item.QuantityOnHand -= body.Quantity
			if err := tx.Save(&item).Error; err != nil {
				return err
			}

			sale = models.PharmacySale{
				BranchID:      branchID,
				ItemID:        item.ID,
				Item:          item,
				InvoiceNo:     invoiceNo,
				CustomerName:  strings.TrimSpace(body.CustomerName),
				PaymentMethod: body.PaymentMethod,
				Quantity:      body.Quantity,
				Date:          date,
				AmountCharged: body.AmountCharged,
				AmountPaid:    body.AmountPaid,
			}
			return tx.Create(&sale).Error
		})
		if txErr != nil {
			if fe, ok := txErr.(*fiber.Error); ok {
				return fe
			}
			return fiber.NewError(fiber.StatusInternalServerError, "Could not create sale")
		}

		userID, userName, _ := audit.Actor(c)
		_ = audit.WriteLog(audit.LogOptions{
			BranchID:    &branchID,
			UserID:      userID,
			UserName:    userName,
			EntityType:  "pharmacy_sale",
			EntityID:    sale.ID,
			Action:      models.AuditActionCreate,
			Description: fmt.Sprintf("Pharmacy sale %s x%d", sale.Item.Name, sale.Quantity),
			After:       sale,
		})

		return c.Status(fiber.StatusCreated).JSON(toSaleResponse(sale))
	}
}

// GET /api/pharmacy-sales?startDate=&endDate=&branch_id=
func ListSalesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		scope, err := auth.ResolveReadScope(c)
		if err != nil {
			return err
		}

		q := database.DB.Model(&models.PharmacySale{}).Preload("Item")
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

		var sales []models.PharmacySale
		if err := q.Order("date desc, id desc").Find(&sales).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list sales")
		}

		res := make([]SaleResponse, 0, len(sales))
		for _, s := range sales {
			res = append(res, toSaleResponse(s))
		}
		return c.JSON(res)
	}
}

// GET /api/pharmacy-sales/:id
func GetSaleHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var sale models.PharmacySale
		if err := database.DB.Preload("Item").First(&sale, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Sale not found")
		}
		if err := requireScope(c, sale.BranchID); err != nil {
			return err
		}
		return c.JSON(toSaleResponse(sale))
	}
}

// PUT /api/pharmacy-sales/:id
// Quantity and item are fixed once sold; money and identity fields can change.
func UpdateSaleHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var sale models.PharmacySale
		if err := database.DB.Preload("Item").First(&sale, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Sale not found")
		}
		if err := requireScope(c, sale.BranchID); err != nil {
			return err
		}

		before := sale

		var body UpdateSaleRequest
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
			return fiber.NewError(fiber.StatusInternalServerError, "Could not update sale")
		}

		userID, userName, _ := audit.Actor(c)
		_ = audit.WriteLog(audit.LogOptions{
			BranchID:    &sale.BranchID,
			UserID:      userID,
			UserName:    userName,
			EntityType:  "pharmacy_sale",
			EntityID:    sale.ID,
			Action:      models.AuditActionUpdate,
			Description: fmt.Sprintf("Pharmacy sale #%d updated", sale.ID),
			Before:      before,
			After:       sale,
		})

		return c.JSON(toSaleResponse(sale))
	}
}

// DELETE /api/pharmacy-sales/:id
// Deleting a sale puts the sold quantity back on the shelf.
func DeleteSaleHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var sale models.PharmacySale
		if err := database.DB.Preload("Item").First(&sale, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Sale not found")
		}
		if err := requireScope(c, sale.BranchID); err != nil {
			return err
		}

		txErr := database.DB.Transaction(func(tx *gorm.DB) error {
			var item models.PharmacyItem
			if err := tx.First(&item, "id = ?", sale.ItemID).Error; err == nil {
				item.QuantityOnHand += sale.Quantity
				if err := tx.Save(&item).Error; err != nil {
					return err
				}
			}
			return tx.Delete(&sale).Error
		})
		if txErr != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not delete sale")
		}

		userID, userName, _ := audit.Actor(c)
		_ = audit.WriteLog(audit.LogOptions{
			BranchID:    &sale.BranchID,
			UserID:      userID,
			UserName:    userName,
			EntityType:  "pharmacy_sale",
			EntityID:    sale.ID,
			Action:      models.AuditActionDelete,
			Description: fmt.Sprintf("Pharmacy sale #%d deleted", sale.ID),
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
