package main

import (
	"strings"

	"shifa-backend/internal/admin"
	"shifa-backend/internal/audit"
	"shifa-backend/internal/auth"
	"shifa-backend/internal/config"
	"shifa-backend/internal/database"
	"shifa-backend/internal/expense"
	"shifa-backend/internal/glass"
	"shifa-backend/internal/laboratory"
	"shifa-backend/internal/models"
	"shifa-backend/internal/pharmacy"
	"shifa-backend/internal/report"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/sirupsen/logrus"
)

func main() {
	cfg := config.Load()
	database.Init(cfg)

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if e, ok := err.(*fiber.Error); ok {
				return c.Status(e.Code).JSON(fiber.Map{
					"error": e.Message,
				})
			}
			logrus.WithError(err).Error("unexpected error")
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Unexpected server error",
			})
		},
	})

	corsOrigins := strings.Split(cfg.CORSOrigins, ",")
	for i := range corsOrigins {
		corsOrigins[i] = strings.TrimSpace(corsOrigins[i])
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(corsOrigins, ","),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
	}))

	api := app.Group("/api")

	// Public auth
	api.Post("/auth/register-admin", auth.RegisterAdminHandler(cfg))
	api.Post("/auth/login", auth.LoginHandler(cfg))

	// Protected
	protected := api.Group("")
	protected.Use(auth.JWTMiddleware(cfg))

	protected.Get("/auth/me", auth.MeHandler())

	// Admin routes
	adminRoutes := protected.Group("/admin")
	adminRoutes.Use(auth.RequireRole(models.RoleAdmin))

	adminRoutes.Post("/branches", admin.CreateBranchHandler())
	adminRoutes.Get("/branches", admin.ListBranchesHandler())
	adminRoutes.Get("/branches/:id", admin.GetBranchHandler())
	adminRoutes.Put("/branches/:id", admin.UpdateBranchHandler())
	adminRoutes.Delete("/branches/:id", admin.DeleteBranchHandler())

	adminRoutes.Post("/users", admin.CreateUserHandler())
	adminRoutes.Get("/users", admin.ListUsersHandler())
	adminRoutes.Delete("/users/:id", admin.DeleteUserHandler())

	adminRoutes.Post("/expense-categories", expense.CreateExpenseCategoryHandler())
	adminRoutes.Put("/expense-categories/:id", expense.UpdateExpenseCategoryHandler())
	adminRoutes.Delete("/expense-categories/:id", expense.DeleteExpenseCategoryHandler())

	adminRoutes.Post("/pharmacy-items", pharmacy.CreateItemHandler())
	adminRoutes.Put("/pharmacy-items/:id", pharmacy.UpdateItemHandler())
	adminRoutes.Delete("/pharmacy-items/:id", pharmacy.DeleteItemHandler())

	// Record entry: staff and admin write, everyone authenticated reads.
	writers := auth.RequireRole(models.RoleAdmin, models.RoleStaff)

	protected.Post("/lab-tests", writers, laboratory.CreateLabTestHandler())
	protected.Get("/lab-tests", laboratory.ListLabTestsHandler())
	protected.Get("/lab-tests/:id", laboratory.GetLabTestHandler())
	protected.Put("/lab-tests/:id", writers, laboratory.UpdateLabTestHandler())
	protected.Delete("/lab-tests/:id", writers, laboratory.DeleteLabTestHandler())

	protected.Get("/pharmacy-items", pharmacy.ListItemsHandler())
	protected.Post("/pharmacy-sales", writers, pharmacy.CreateSaleHandler())
	protected.Get("/pharmacy-sales", pharmacy.ListSalesHandler())
	protected.Get("/pharmacy-sales/:id", pharmacy.GetSaleHandler())
	protected.Put("/pharmacy-sales/:id", writers, pharmacy.UpdateSaleHandler())
	protected.Delete("/pharmacy-sales/:id", writers, pharmacy.DeleteSaleHandler())

	protected.Post("/glass-sales", writers, glass.CreateGlassSaleHandler())
	protected.Get("/glass-sales", glass.ListGlassSalesHandler())
	protected.Get("/glass-sales/:id", glass.GetGlassSaleHandler())
	protected.Put("/glass-sales/:id", writers, glass.UpdateGlassSaleHandler())
	protected.Delete("/glass-sales/:id", writers, glass.DeleteGlassSaleHandler())

	protected.Get("/expense-categories", expense.ListExpenseCategoriesHandler())
	// salary-preview before :id so the literal segment wins
	protected.Get("/expenses/salary-preview", writers, expense.SalaryPreviewHandler())
	protected.Post("/expenses", writers, expense.CreateExpenseHandler())
	protected.Get("/expenses", expense.ListExpensesHandler())
	protected.Get("/expenses/:id", expense.GetExpenseHandler())
	protected.Put("/expenses/:id", writers, expense.UpdateExpenseHandler())
	protected.Delete("/expenses/:id", writers, expense.DeleteExpenseHandler())

	// Reports: every role; staff is branch-scoped inside the handlers.
	// overview before :type so the literal segment wins
	protected.Get("/reports/overview", report.OverviewHandler())
	protected.Get("/reports/:type/export", report.ExportHandler())
	protected.Get("/reports/:type", report.ReportHandler())

	// Audit logs
	protected.Get("/audit-logs", audit.ListAuditLogsHandler())
	protected.Post("/audit-logs/:id/undo", auth.RequireRole(models.RoleAdmin), audit.UndoAuditLogHandler())

	logrus.WithField("port", cfg.HTTPPort).Info("server listening")
	if err := app.Listen(":" + cfg.HTTPPort); err != nil {
		logrus.Fatal(err)
	}
}
