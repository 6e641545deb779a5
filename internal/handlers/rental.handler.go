package handlers

import (
	"kirayo/internal/app"
	rentalController "kirayo/internal/controllers/rental"
	"kirayo/internal/logger"

	"github.com/gofiber/fiber/v2"
)

// RentalBrowsingHandler is the public item discovery surface.
type RentalBrowsingHandler struct {
	Handler
	controller rentalController.RentalControllerInterface
}

func NewRentalBrowsingHandler(app app.App, router fiber.Router) *RentalBrowsingHandler {
	return &RentalBrowsingHandler{
		controller: app.Controllers.Rental,
		Handler: Handler{
			log:        logger.New("handlers").File("rental_handler"),
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *RentalBrowsingHandler) Register() {
	browse := h.router.Group("/rental-browsing")

	browse.Get("/categories", h.getCategories)
	browse.Get("/categories/:categoryID/items", h.getCategoryItems)
	browse.Get("/items/:itemID", h.getItem)
}

func (h *RentalBrowsingHandler) getCategories(c *fiber.Ctx) error {
	listings, err := h.controller.BrowseCategories(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"categories": listings})
}

func (h *RentalBrowsingHandler) getCategoryItems(c *fiber.Ctx) error {
	categoryID, err := c.ParamsInt("categoryID")
	if err != nil {
		return badRequest(c, "Invalid category id")
	}

	items, err := h.controller.BrowseCategoryItems(c.UserContext(), categoryID, c.Query("search"))
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"items": items})
}

func (h *RentalBrowsingHandler) getItem(c *fiber.Ctx) error {
	itemID, err := c.ParamsInt("itemID")
	if err != nil {
		return badRequest(c, "Invalid item id")
	}

	item, err := h.controller.GetItem(c.UserContext(), itemID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"item": item})
}
