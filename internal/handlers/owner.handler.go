package handlers

import (
	"kirayo/internal/app"
	bookingController "kirayo/internal/controllers/booking"
	ownerController "kirayo/internal/controllers/owner"
	rentalController "kirayo/internal/controllers/rental"
	"kirayo/internal/handlers/middleware"
	"kirayo/internal/logger"
	"kirayo/internal/models"

	"github.com/gofiber/fiber/v2"
)

// OwnerHandler covers the owner-facing surface: applications to become
// an owner, the owner's items and their renter input fields, and the
// owner side of the booking workflow.
type OwnerHandler struct {
	Handler
	owners   ownerController.OwnerControllerInterface
	rentals  rentalController.RentalControllerInterface
	bookings bookingController.BookingControllerInterface
}

func NewOwnerHandler(app app.App, router fiber.Router) *OwnerHandler {
	return &OwnerHandler{
		owners:   app.Controllers.Owner,
		rentals:  app.Controllers.Rental,
		bookings: app.Controllers.Booking,
		Handler: Handler{
			log:        logger.New("handlers").File("owner_handler"),
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *OwnerHandler) Register() {
	owner := h.router.Group("/owner", h.middleware.RequireAuth())

	// Application to become an owner, open to any authenticated user.
	owner.Get("/application-form", h.getApplicationForm)
	owner.Post("/requests", h.middleware.RequireUnrestricted(), h.submitRequest)
	owner.Get("/requests/my", h.getMyRequests)

	items := owner.Group("/items", h.middleware.RequireOwner())
	items.Post("/", h.createItem)
	items.Get("/", h.getMyItems)
	items.Post("/upload", h.uploadImage)
	items.Get("/stats", h.getStats)
	items.Get("/:itemID", h.getItem)
	items.Put("/:itemID", h.updateItem)
	items.Delete("/:itemID", h.deleteItem)

	fields := items.Group("/:itemID/fields")
	fields.Post("/", h.createInputField)
	fields.Put("/:fieldID", h.updateInputField)
	fields.Delete("/:fieldID", h.deleteInputField)

	bookings := owner.Group("/bookings", h.middleware.RequireOwner())
	bookings.Get("/", h.getOwnerBookings)
	bookings.Post("/:id/accept", h.acceptBooking)
	bookings.Post("/:id/reject", h.rejectBooking)
	bookings.Post("/:id/confirm-delivery", h.confirmDelivery)
}

func (h *OwnerHandler) getApplicationForm(c *fiber.Ctx) error {
	form, err := h.owners.GetApplicationForm(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"requirements": form})
}

func (h *OwnerHandler) submitRequest(c *fiber.Ctx) error {
	user := middleware.GetUser(c)

	var req models.OwnerRequestSubmission
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	request, err := h.owners.SubmitRequest(c.UserContext(), user, req)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"request": request})
}

func (h *OwnerHandler) getMyRequests(c *fiber.Ctx) error {
	user := middleware.GetUser(c)

	requests, err := h.owners.GetMyRequests(c.UserContext(), user.ID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"requests": requests})
}

func (h *OwnerHandler) createItem(c *fiber.Ctx) error {
	user := middleware.GetUser(c)

	var req models.RentalItemCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	item, err := h.rentals.CreateItem(c.UserContext(), user, req)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"item": item})
}

func (h *OwnerHandler) getMyItems(c *fiber.Ctx) error {
	user := middleware.GetUser(c)

	items, err := h.rentals.GetOwnerItems(c.UserContext(), user.ID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"items": items})
}

func (h *OwnerHandler) uploadImage(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("uploadImage")

	file, err := c.FormFile("file")
	if err != nil {
		log.Info("missing upload file", "error", err.Error())
		return badRequest(c, "A file is required")
	}

	filename, err := h.rentals.UploadItemImage(c.UserContext(), file)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"filename": filename,
		"url":      "/uploads/" + filename,
	})
}

func (h *OwnerHandler) getStats(c *fiber.Ctx) error {
	user := middleware.GetUser(c)

	stats, err := h.rentals.GetOwnerStats(c.UserContext(), user.ID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"stats": stats})
}

func (h *OwnerHandler) getItem(c *fiber.Ctx) error {
	itemID, err := c.ParamsInt("itemID")
	if err != nil {
		return badRequest(c, "Invalid item id")
	}

	item, err := h.rentals.GetItem(c.UserContext(), itemID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"item": item})
}

func (h *OwnerHandler) updateItem(c *fiber.Ctx) error {
	user := middleware.GetUser(c)

	itemID, err := c.ParamsInt("itemID")
	if err != nil {
		return badRequest(c, "Invalid item id")
	}

	var req models.RentalItemUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	item, err := h.rentals.UpdateItem(c.UserContext(), user, itemID, req)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"item": item})
}

func (h *OwnerHandler) deleteItem(c *fiber.Ctx) error {
	user := middleware.GetUser(c)

	itemID, err := c.ParamsInt("itemID")
	if err != nil {
		return badRequest(c, "Invalid item id")
	}

	if err := h.rentals.DeleteItem(c.UserContext(), user, itemID); err != nil {
		return respondError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *OwnerHandler) createInputField(c *fiber.Ctx) error {
	user := middleware.GetUser(c)

	itemID, err := c.ParamsInt("itemID")
	if err != nil {
		return badRequest(c, "Invalid item id")
	}

	var req models.RenterInputFieldRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	field, err := h.rentals.CreateInputField(c.UserContext(), user, itemID, req)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"field": field})
}

func (h *OwnerHandler) updateInputField(c *fiber.Ctx) error {
	user := middleware.GetUser(c)

	itemID, err := c.ParamsInt("itemID")
	if err != nil {
		return badRequest(c, "Invalid item id")
	}
	fieldID, err := c.ParamsInt("fieldID")
	if err != nil {
		return badRequest(c, "Invalid field id")
	}

	var req models.RenterInputFieldRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	field, err := h.rentals.UpdateInputField(c.UserContext(), user, itemID, fieldID, req)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"field": field})
}

func (h *OwnerHandler) deleteInputField(c *fiber.Ctx) error {
	user := middleware.GetUser(c)

	itemID, err := c.ParamsInt("itemID")
	if err != nil {
		return badRequest(c, "Invalid item id")
	}
	fieldID, err := c.ParamsInt("fieldID")
	if err != nil {
		return badRequest(c, "Invalid field id")
	}

	if err := h.rentals.DeleteInputField(c.UserContext(), user, itemID, fieldID); err != nil {
		return respondError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *OwnerHandler) getOwnerBookings(c *fiber.Ctx) error {
	user := middleware.GetUser(c)

	bookings, err := h.bookings.GetOwnerBookings(c.UserContext(), user.ID, parseBookingFilter(c))
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"bookings": bookings})
}

func (h *OwnerHandler) acceptBooking(c *fiber.Ctx) error {
	user := middleware.GetUser(c)

	bookingID, err := c.ParamsInt("id")
	if err != nil {
		return badRequest(c, "Invalid booking id")
	}

	booking, err := h.bookings.OwnerAccept(c.UserContext(), user, bookingID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"booking": booking})
}

func (h *OwnerHandler) rejectBooking(c *fiber.Ctx) error {
	user := middleware.GetUser(c)

	bookingID, err := c.ParamsInt("id")
	if err != nil {
		return badRequest(c, "Invalid booking id")
	}

	var req models.RejectBookingRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	booking, err := h.bookings.OwnerReject(c.UserContext(), user, bookingID, req)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"booking": booking})
}

func (h *OwnerHandler) confirmDelivery(c *fiber.Ctx) error {
	user := middleware.GetUser(c)

	bookingID, err := c.ParamsInt("id")
	if err != nil {
		return badRequest(c, "Invalid booking id")
	}

	var req models.ConfirmDeliveryRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	booking, err := h.bookings.OwnerConfirmDelivery(c.UserContext(), user, bookingID, req)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"booking": booking})
}
