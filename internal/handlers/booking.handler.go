package handlers

import (
	"time"

	"kirayo/internal/app"
	bookingController "kirayo/internal/controllers/booking"
	"kirayo/internal/handlers/middleware"
	"kirayo/internal/logger"
	"kirayo/internal/models"
	"kirayo/internal/repositories"

	"github.com/gofiber/fiber/v2"
)

type BookingHandler struct {
	Handler
	controller bookingController.BookingControllerInterface
}

func NewBookingHandler(app app.App, router fiber.Router) *BookingHandler {
	return &BookingHandler{
		controller: app.Controllers.Booking,
		Handler: Handler{
			log:        logger.New("handlers").File("booking_handler"),
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *BookingHandler) Register() {
	booking := h.router.Group("/booking", h.middleware.RequireAuth())

	booking.Get("/items/:itemID/fields", h.getRenterFields)
	booking.Post("/requirements", h.middleware.RequireUnrestricted(), h.submitRequirements)
	booking.Post("/:id/payment", h.completePayment)
	booking.Post("/:id/confirm-delivery", h.renterConfirmDelivery)
	booking.Get("/my", h.getMyBookings)
	booking.Get("/:id", h.getBooking)
}

func (h *BookingHandler) getRenterFields(c *fiber.Ctx) error {
	itemID, err := c.ParamsInt("itemID")
	if err != nil {
		return badRequest(c, "Invalid item id")
	}

	fields, err := h.controller.GetRenterFields(c.UserContext(), itemID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"fields": fields})
}

func (h *BookingHandler) submitRequirements(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("submitRequirements")
	user := middleware.GetUser(c)

	var req models.SubmitRequirementsRequest
	if err := c.BodyParser(&req); err != nil {
		log.Info("invalid payload", "error", err.Error())
		return badRequest(c, "Invalid request body")
	}

	booking, created, err := h.controller.SubmitRequirements(c.UserContext(), user, req)
	if err != nil {
		return respondError(c, err)
	}

	status := fiber.StatusOK
	if created {
		status = fiber.StatusCreated
	}
	return c.Status(status).JSON(fiber.Map{"booking": booking})
}

func (h *BookingHandler) completePayment(c *fiber.Ctx) error {
	user := middleware.GetUser(c)

	bookingID, err := c.ParamsInt("id")
	if err != nil {
		return badRequest(c, "Invalid booking id")
	}

	var req models.CompletePaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	booking, err := h.controller.CompletePayment(c.UserContext(), user, bookingID, req)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"booking": booking})
}

func (h *BookingHandler) renterConfirmDelivery(c *fiber.Ctx) error {
	user := middleware.GetUser(c)

	bookingID, err := c.ParamsInt("id")
	if err != nil {
		return badRequest(c, "Invalid booking id")
	}

	var req models.ConfirmDeliveryRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	booking, err := h.controller.RenterConfirmDelivery(c.UserContext(), user, bookingID, req)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"booking": booking})
}

func (h *BookingHandler) getMyBookings(c *fiber.Ctx) error {
	user := middleware.GetUser(c)

	bookings, err := h.controller.GetRenterBookings(c.UserContext(), user.ID, parseBookingFilter(c))
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"bookings": bookings})
}

func (h *BookingHandler) getBooking(c *fiber.Ctx) error {
	user := middleware.GetUser(c)

	bookingID, err := c.ParamsInt("id")
	if err != nil {
		return badRequest(c, "Invalid booking id")
	}

	booking, err := h.controller.GetBooking(c.UserContext(), user, bookingID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"booking": booking})
}

// parseBookingFilter reads the shared list filter query params.
func parseBookingFilter(c *fiber.Ctx) repositories.BookingFilter {
	filter := repositories.BookingFilter{
		Status:        c.Query("status"),
		PaymentStatus: models.PaymentStatus(c.Query("payment_status")),
		PaymentMethod: c.Query("method"),
		Search:        c.Query("search"),
	}
	if from, err := time.Parse("2006-01-02", c.Query("from")); err == nil {
		filter.From = &from
	}
	if to, err := time.Parse("2006-01-02", c.Query("to")); err == nil {
		end := to.Add(24*time.Hour - time.Nanosecond)
		filter.To = &end
	}
	return filter
}
