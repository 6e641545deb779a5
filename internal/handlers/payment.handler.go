package handlers

import (
	"kirayo/internal/app"
	paymentController "kirayo/internal/controllers/payment"
	"kirayo/internal/handlers/middleware"
	"kirayo/internal/logger"
	"kirayo/internal/models"

	"github.com/gofiber/fiber/v2"
)

type PaymentHandler struct {
	Handler
	controller paymentController.PaymentControllerInterface
}

func NewPaymentHandler(app app.App, router fiber.Router) *PaymentHandler {
	return &PaymentHandler{
		controller: app.Controllers.Payment,
		Handler: Handler{
			log:        logger.New("handlers").File("payment_handler"),
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *PaymentHandler) Register() {
	payment := h.router.Group("/payment", h.middleware.RequireAuth())

	payment.Get("/my", h.getMyPayments)
	payment.Get("/:id", h.getPaymentStatus)
	payment.Post("/release/:id", h.middleware.RequireAdmin(), h.release)
}

// RegisterAdmin mounts the held payment queue under the admin group.
func (h *PaymentHandler) RegisterAdmin(admin fiber.Router) {
	admin.Get("/held-payments", h.getHeldPayments)
	admin.Post("/held-payments/:id/release", h.release)
}

func (h *PaymentHandler) getPaymentStatus(c *fiber.Ctx) error {
	user := middleware.GetUser(c)

	bookingID, err := c.ParamsInt("id")
	if err != nil {
		return badRequest(c, "Invalid booking id")
	}

	status, err := h.controller.GetPaymentStatus(c.UserContext(), user, bookingID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"payment": status})
}

func (h *PaymentHandler) release(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("release")

	bookingID, err := c.ParamsInt("id")
	if err != nil {
		return badRequest(c, "Invalid booking id")
	}

	var req models.ReleasePaymentRequest
	if err := c.BodyParser(&req); err != nil {
		log.Info("invalid payload", "error", err.Error())
		return badRequest(c, "Invalid request body")
	}

	booking, err := h.controller.Release(c.UserContext(), bookingID, req)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"booking": booking})
}

func (h *PaymentHandler) getMyPayments(c *fiber.Ctx) error {
	user := middleware.GetUser(c)

	bookings, err := h.controller.GetMyPayments(c.UserContext(), user, parseBookingFilter(c))
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"payments": bookings})
}

func (h *PaymentHandler) getHeldPayments(c *fiber.Ctx) error {
	bookings, err := h.controller.GetHeldPayments(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"payments": bookings})
}
