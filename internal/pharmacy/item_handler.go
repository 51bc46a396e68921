package pharmacy

import (
	"strings"

	"shifa-backend/internal/auth"
	"shifa-backend/internal/database"
	"shifa-backend/internal/models"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

type CreateItemRequest struct {
	Name            string  `json:"name" validate:"required"`
	UnitPrice       float64 `json:"unit_price" validate:"gte=0"`
	InitialQuantity int     `json:"initial_quantity" validate:"gte=0"`
	BranchID        *uint   `json:"branch_id"`
}

type UpdateItemRequest struct {
	Name           *string  `json:"name"`
	UnitPrice      *float64 `json:"unit_price"`
	QuantityOnHand *int     `json:"quantity_on_hand"`
}

type ItemResponse struct {
	ID               uint    `json:"id"`
	BranchID         uint    `json:"branch_id"`
	Name             string  `json:"name"`
	UnitPrice        float64 `json:"unit_price"`
	InitialQuantity  int     `json:"initial_quantity"`
	QuantityOnHand   int     `json:"quantity_on_hand"`
	RemainingPercent float64 `json:"remaining_percent"`
}

func toItemResponse(i models.PharmacyItem) ItemResponse {
	return ItemResponse{
		ID:               i.ID,
		BranchID:         i.BranchID,
		Name:             i.Name,
		UnitPrice:        i.UnitPrice,
		InitialQuantity:  i.InitialQuantity,
		QuantityOnHand:   i.QuantityOnHand,
		RemainingPercent: i.RemainingPercent(),
	}
}

// POST /api/pharmacy-items (admin)
func CreateItemHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateItemRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		if err := validate.Struct(body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Missing or invalid fields: "+err.Error())
		}

		branchID, err := auth.ResolveWriteBranch(c, body.BranchID)
		if err != nil {
			return err
		}

		item := models.PharmacyItem{
			BranchID:        branchID,
			Name:            strings.TrimSpace(body.Name),
			UnitPrice:       body.UnitPrice,
			InitialQuantity: body.InitialQuantity,
			QuantityOnHand:  body.InitialQuantity,
		}

		if err := database.DB.Create(&item).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not create item")
		}

		return c.Status(fiber.StatusCreated).JSON(toItemResponse(item))
	}
}

// GET /api/pharmacy-items
func ListItemsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		scope, err := auth.ResolveReadScope(c)
		if err != nil {
			return err
		}

		q := database.DB.Model(&models.PharmacyItem{})
		if scope != nil {
			q = q.Where("branch_id = ?", *scope)
		}

		var items []models.PharmacyItem
		if err := q.Order("name asc").Find(&items).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list items")
		}

		res := make([]ItemResponse, 0, len(items))
		for _, i := range items {
			res = append(res, toItemResponse(i))
		}
		return c.JSON(res)
	}
}

// PUT /api/pharmacy-items/:id (admin)
func UpdateItemHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var item models.PharmacyItem
		if err := database.DB.First(&item, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Item not found")
		}

		var body UpdateItemRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		if body.Name != nil {
			name := strings.TrimSpace(*body.Name)
			if name == "" {
				return fiber.NewError(fiber.StatusBadRequest, "name cannot be empty")
			}
			item.Name = name
		}
		if body.UnitPrice != nil {
			if *body.UnitPrice < 0 {
				return fiber.NewError(fiber.StatusBadRequest, "unit_price cannot be negative")
			}
			item.UnitPrice = *body.UnitPrice
		}
		if body.QuantityOnHand != nil {
			if *body.QuantityOnHand < 0 {
				return fiber.NewError(fiber.StatusBadRequest, "quantity_on_hand cannot be negative")
			}
			item.QuantityOnHand = *body.QuantityOnHand
		}

		if err := database.DB.Save(&item).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not update item")
		}

		return c.JSON(toItemResponse(item))
	}
}

// DELETE /api/pharmacy-items/:id (admin)
func DeleteItemHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var item models.PharmacyItem
		if err := database.DB.First(&item, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Item not found")
		}

		var saleCount int64
		database.DB.Model(&models.PharmacySale{}).Where("item_id = ?", item.ID).Count(&saleCount)
		if saleCount > 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Item has recorded sales and cannot be deleted")
		}

		if err := database.DB.Delete(&item).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not delete item")
		}

		return c.JSON(fiber.Map{"deleted": item.ID})
	}
}
