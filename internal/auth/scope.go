package auth

import (
	"fmt"

	"shifa-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

// ResolveReadScope decides which branches a request may read. Branch-scoped
// users (staff) always see their own branch. Admin and CEO may narrow to one
// branch with ?branch_id=, otherwise they see every branch (nil).
func ResolveReadScope(c *fiber.Ctx) (*uint, error) {
	roleVal := c.Locals(CtxUserRoleKey)
	role, ok := roleVal.(models.UserRole)
	if !ok {
		return nil, fiber.NewError(fiber.StatusForbidden, "Role information missing")
	}

	if role == models.RoleStaff {
		bVal := c.Locals(CtxBranchIDKey)
		bPtr, ok := bVal.(*uint)
		if !ok || bPtr == nil {
			return nil, fiber.NewError(fiber.StatusForbidden, "Branch information missing")
		}
		return bPtr, nil
	}

	// admin / ceo
	bidStr := c.Query("branch_id")
	if bidStr == "" {
		return nil, nil
	}
	var bid uint
	if _, err := fmt.Sscan(bidStr, &bid); err != nil || bid == 0 {
		return nil, fiber.NewError(fiber.StatusBadRequest, "branch_id is invalid")
	}
	return &bid, nil
}

// ResolveWriteBranch decides which branch a write lands in. Staff always
// write into their own branch; admin must name one, in the body or query.
func ResolveWriteBranch(c *fiber.Ctx, bodyBranchID *uint) (uint, error) {
	roleVal := c.Locals(CtxUserRoleKey)
	role, ok := roleVal.(models.UserRole)
	if !ok {
		return 0, fiber.NewError(fiber.StatusForbidden, "Role information missing")
	}

	if role == models.RoleStaff {
		bVal := c.Locals(CtxBranchIDKey)
		bPtr, ok := bVal.(*uint)
		if !ok || bPtr == nil {
			return 0, fiber.NewError(fiber.StatusForbidden, "Branch information missing")
		}
		return *bPtr, nil
	}

	if bodyBranchID != nil && *bodyBranchID != 0 {
		return *bodyBranchID, nil
	}

	bidStr := c.Query("branch_id")
	if bidStr != "" {
		var bid uint
		if _, err := fmt.Sscan(bidStr, &bid); err == nil && bid != 0 {
			return bid, nil
		}
	}

	return 0, fiber.NewError(fiber.StatusBadRequest, "branch_id is required")
}

// CurrentUserID returns the id of the authenticated user.
func CurrentUserID(c *fiber.Ctx) (uint, error) {
	userIDVal := c.Locals(CtxUserIDKey)
	userID, ok := userIDVal.(uint)
	if !ok {
		return 0, fiber.NewError(fiber.StatusForbidden, "User information missing")
	}
	return userID, nil
}
