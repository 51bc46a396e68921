package audit

import (
	"encoding/json"
	"fmt"
	"time"

	"shifa-backend/internal/auth"
	"shifa-backend/internal/database"
	"shifa-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type LogOptions struct {
	BranchID    *uint
	UserID      uint
	UserName    string
	EntityType  string
	EntityID    uint
	Action      models.AuditAction
	Description string
	Before      any
	After       any
}

// Actor returns the id and display name of the authenticated user, for
// stamping audit rows.
func Actor(c *fiber.Ctx) (uint, string, error) {
	userIDVal := c.Locals(auth.CtxUserIDKey)
	userID, ok := userIDVal.(uint)
	if !ok {
		return 0, "", fiber.NewError(fiber.StatusForbidden, "User information missing")
	}

	var user models.User
	if err := database.DB.First(&user, "id = ?", userID).Error; err != nil {
		return userID, "", nil
	}
	return userID, user.Name, nil
}

func WriteLog(opts LogOptions) error {
	// jsonb columns want "null", not an empty string
	beforeStr := "null"
	afterStr := "null"

	if opts.Before != nil {
		if b, err := json.Marshal(opts.Before); err == nil {
			beforeStr = string(b)
		}
	}
	if opts.After != nil {
		if b, err := json.Marshal(opts.After); err == nil {
			afterStr = string(b)
		}
	}

	log := models.AuditLog{
		BranchID:    opts.BranchID,
		UserID:      opts.UserID,
		UserName:    opts.UserName,
		EntityType:  opts.EntityType,
		EntityID:    opts.EntityID,
		Action:      opts.Action,
		Description: opts.Description,
		BeforeData:  beforeStr,
		AfterData:   afterStr,
	}

	if err := database.DB.Create(&log).Error; err != nil {
		logrus.WithError(err).WithField("entity_type", opts.EntityType).Warn("audit log write failed")
		return fmt.Errorf("audit log write failed: %w", err)
	}

	return nil
}

// UndoLog reverses the change a log row recorded: deletes what a create made,
// restores the before-state of an update, recreates what a delete removed.
func UndoLog(logID uint, userID uint, userName string) error {
	var log models.AuditLog
	if err := database.DB.First(&log, "id = ?", logID).Error; err != nil {
		return fmt.Errorf("log not found: %w", err)
	}

	if log.IsUndone {
		return fmt.Errorf("this change was already undone")
	}

	switch log.Action {
	case models.AuditActionCreate:
		if err := deleteEntity(log.EntityType, log.EntityID); err != nil {
			return fmt.Errorf("could not delete entity: %w", err)
		}

	case models.AuditActionUpdate:
		if err := restoreEntity(log.EntityType, log.EntityID, log.BeforeData); err != nil {
			return fmt.Errorf("could not restore entity: %w", err)
		}

	case models.AuditActionDelete:
		if err := recreateEntity(log.EntityType, log.AfterData); err != nil {
			return fmt.Errorf("could not recreate entity: %w", err)
		}

	default:
		return fmt.Errorf("this action cannot be undone")
	}

	now := time.Now()
	log.IsUndone = true
	log.UndoneBy = &userID
	log.UndoneAt = &now

	if err := database.DB.Save(&log).Error; err != nil {
		return fmt.Errorf("could not update log: %w", err)
	}

	undoLog := models.AuditLog{
		BranchID:    log.BranchID,
		UserID:      userID,
		UserName:    userName,
		EntityType:  log.EntityType,
		EntityID:    log.EntityID,
		Action:      models.AuditActionUndo,
		Description: fmt.Sprintf("Undone: %s", log.Description),
		BeforeData:  log.AfterData,
		AfterData:   log.BeforeData,
		Undone:      true,
	}

	if err := database.DB.Create(&undoLog).Error; err != nil {
		return fmt.Errorf("could not write undo log: %w", err)
	}

	return nil
}

func deleteEntity(entityType string, entityID uint) error {
	switch entityType {
	case "lab_test":
		return database.DB.Delete(&models.LabTest{}, "id = ?", entityID).Error
	case "pharmacy_sale":
		return database.DB.Delete(&models.PharmacySale{}, "id = ?", entityID).Error
	case "glass_sale":
		return database.DB.Delete(&models.GlassSale{}, "id = ?", entityID).Error
	case "expense":
		return database.DB.Delete(&models.Expense{}, "id = ?", entityID).Error
	default:
		return fmt.Errorf("unknown entity type: %s", entityType)
	}
}

func recreateEntity(entityType string, dataJSON string) error {
	switch entityType {
	case "lab_test":
		var test models.LabTest
		if err := json.Unmarshal([]byte(dataJSON), &test); err != nil {
			return err
		}
		test.ID = 0
		return database.DB.Create(&test).Error

	case "pharmacy_sale":
		var sale models.PharmacySale
		if err := json.Unmarshal([]byte(dataJSON), &sale); err != nil {
			return err
		}
		sale.ID = 0
		return database.DB.Create(&sale).Error

	case "glass_sale":
		var sale models.GlassSale
		if err := json.Unmarshal([]byte(dataJSON), &sale); err != nil {
			return err
		}
		sale.ID = 0
		return database.DB.Create(&sale).Error

	case "expense":
		var expense models.Expense
		if err := json.Unmarshal([]byte(dataJSON), &expense); err != nil {
			return err
		}
		expense.ID = 0
		return database.DB.Create(&expense).Error

	default:
		return fmt.Errorf("unknown entity type: %s", entityType)
	}
}

func restoreEntity(entityType string, entityID uint, dataJSON string) error {
	switch entityType {
	case "lab_test":
		var test models.LabTest
		if err := json.Unmarshal([]byte(dataJSON), &test); err != nil {
			return err
		}
		return database.DB.Model(&models.LabTest{}).Where("id = ?", entityID).Updates(map[string]interface{}{
			"branch_id":      test.BranchID,
			"invoice_no":     test.InvoiceNo,
			"patient_name":   test.PatientName,
			"test_type":      test.TestType,
			"date":           test.Date,
			"amount_charged": test.AmountCharged,
			"amount_paid":    test.AmountPaid,
		}).Error

	case "pharmacy_sale":
		var sale models.PharmacySale
		if err := json.Unmarshal([]byte(dataJSON), &sale); err != nil {
			return err
		}
		return database.DB.Model(&models.PharmacySale{}).Where("id = ?", entityID).Updates(map[string]interface{}{
			"branch_id":      sale.BranchID,
			"item_id":        sale.ItemID,
			"invoice_no":     sale.InvoiceNo,
			"customer_name":  sale.CustomerName,
			"payment_method": sale.PaymentMethod,
			"quantity":       sale.Quantity,
			"date":           sale.Date,
			"amount_charged": sale.AmountCharged,
			"amount_paid":    sale.AmountPaid,
		}).Error

	case "glass_sale":
		var sale models.GlassSale
		if err := json.Unmarshal([]byte(dataJSON), &sale); err != nil {
			return err
		}
		return database.DB.Model(&models.GlassSale{}).Where("id = ?", entityID).Updates(map[string]interface{}{
			"branch_id":      sale.BranchID,
			"invoice_no":     sale.InvoiceNo,
			"customer_name":  sale.CustomerName,
			"frame_model":    sale.FrameModel,
			"lens_type":      sale.LensType,
			"payment_method": sale.PaymentMethod,
			"date":           sale.Date,
			"amount_charged": sale.AmountCharged,
			"amount_paid":    sale.AmountPaid,
		}).Error

	case "expense":
		var expense models.Expense
		if err := json.Unmarshal([]byte(dataJSON), &expense); err != nil {
			return err
		}
		// the salary derivation snapshot travels with the record untouched
		return database.DB.Model(&models.Expense{}).Where("id = ?", entityID).Updates(map[string]interface{}{
			"branch_id":       expense.BranchID,
			"category_id":     expense.CategoryID,
			"type":            expense.Type,
			"date":            expense.Date,
			"amount":          expense.Amount,
			"description":     expense.Description,
			"percentage":      expense.Percentage,
			"calculated_from": expense.CalculatedFrom,
			"from_date":       expense.FromDate,
			"to_date":         expense.ToDate,
		}).Error

	default:
		return fmt.Errorf("unknown entity type: %s", entityType)
	}
}
