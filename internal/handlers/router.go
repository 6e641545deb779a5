package handlers

import (
	"kirayo/internal/app"
	"kirayo/internal/handlers/middleware"
	"kirayo/internal/logger"

	"github.com/gofiber/fiber/v2"
)

type Handler struct {
	middleware middleware.Middleware
	log        logger.Logger
	router     fiber.Router
}

func Router(router fiber.Router, app *app.App) (err error) {
	router.Use(app.Middleware.TraceID())

	setupWebSocketRoute(router, app)
	setupUploadsRoute(router, app)

	api := router.Group("/api")
	HealthHandler(api, app.Config)
	NewAuthHandler(*app, api).Register()
	NewBookingHandler(*app, api).Register()
	NewOwnerHandler(*app, api).Register()

	complaintHandler := NewComplaintHandler(*app, api)
	complaintHandler.Register()
	complaintHandler.RegisterRestrictions(router)

	NewRentalBrowsingHandler(*app, router).Register()
	NewNotificationHandler(*app, router).Register()
	NewReportHandler(*app, router).Register()

	paymentHandler := NewPaymentHandler(*app, router)
	paymentHandler.Register()

	admin := router.Group("/admin", app.Middleware.RequireAuth(), app.Middleware.RequireAdmin())
	NewAdminHandler(*app, admin).Register()
	paymentHandler.RegisterAdmin(admin)

	return nil
}

// setupUploadsRoute serves uploaded files. Filenames are resolved
// through the upload service so path traversal never escapes the
// upload directory.
func setupUploadsRoute(router fiber.Router, app *app.App) {
	router.Get("/uploads/:filename", func(c *fiber.Ctx) error {
		path, err := app.UploadService.Resolve(c.Params("filename"))
		if err != nil {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "File not found",
			})
		}
		return c.SendFile(path)
	})
}
