package handlers

import (
	"kirayo/internal/app"
	complaintController "kirayo/internal/controllers/complaint"
	"kirayo/internal/handlers/middleware"
	"kirayo/internal/logger"
	"kirayo/internal/models"

	"github.com/gofiber/fiber/v2"
)

type ComplaintHandler struct {
	Handler
	controller complaintController.ComplaintControllerInterface
}

func NewComplaintHandler(app app.App, router fiber.Router) *ComplaintHandler {
	return &ComplaintHandler{
		controller: app.Controllers.Complaint,
		Handler: Handler{
			log:        logger.New("handlers").File("complaint_handler"),
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *ComplaintHandler) Register() {
	complaints := h.router.Group("/complaints", h.middleware.RequireAuth())

	complaints.Post("/", h.submit)
	complaints.Get("/my", h.getMine)
	complaints.Get("/:id", h.get)
	complaints.Put("/:id", h.update)
	complaints.Delete("/:id", h.withdraw)

	admin := complaints.Group("/admin", h.middleware.RequireAdmin())
	admin.Get("/pending", h.getPending)
	admin.Post("/:id/resolve", h.resolve)
}

// RegisterRestrictions mounts the admin restriction endpoints.
func (h *ComplaintHandler) RegisterRestrictions(router fiber.Router) {
	restrictions := router.Group("/restrictions", h.middleware.RequireAuth(), h.middleware.RequireAdmin())

	restrictions.Get("/", h.getRestrictions)
	restrictions.Get("/:userID", h.getUserRestriction)
	restrictions.Post("/:userID/warn", h.warnUser)
	restrictions.Post("/:userID/unblock", h.unblockUser)
}

func (h *ComplaintHandler) submit(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("submit")
	user := middleware.GetUser(c)

	var req models.ComplaintCreateRequest
	if err := c.BodyParser(&req); err != nil {
		log.Info("invalid payload", "error", err.Error())
		return badRequest(c, "Invalid request body")
	}

	complaint, err := h.controller.SubmitComplaint(c.UserContext(), user, req)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"complaint": complaint})
}

func (h *ComplaintHandler) getMine(c *fiber.Ctx) error {
	user := middleware.GetUser(c)

	complaints, err := h.controller.GetMyComplaints(c.UserContext(), user.ID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"complaints": complaints})
}

func (h *ComplaintHandler) get(c *fiber.Ctx) error {
	user := middleware.GetUser(c)

	complaintID, err := c.ParamsInt("id")
	if err != nil {
		return badRequest(c, "Invalid complaint id")
	}

	complaint, err := h.controller.GetComplaint(c.UserContext(), user, complaintID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"complaint": complaint})
}

func (h *ComplaintHandler) update(c *fiber.Ctx) error {
	user := middleware.GetUser(c)

	complaintID, err := c.ParamsInt("id")
	if err != nil {
		return badRequest(c, "Invalid complaint id")
	}

	var req models.ComplaintUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	complaint, err := h.controller.UpdateComplaint(c.UserContext(), user, complaintID, req)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"complaint": complaint})
}

func (h *ComplaintHandler) withdraw(c *fiber.Ctx) error {
	user := middleware.GetUser(c)

	complaintID, err := c.ParamsInt("id")
	if err != nil {
		return badRequest(c, "Invalid complaint id")
	}

	if err := h.controller.WithdrawComplaint(c.UserContext(), user, complaintID); err != nil {
		return respondError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *ComplaintHandler) getPending(c *fiber.Ctx) error {
	complaints, err := h.controller.GetPendingComplaints(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"complaints": complaints})
}

func (h *ComplaintHandler) resolve(c *fiber.Ctx) error {
	complaintID, err := c.ParamsInt("id")
	if err != nil {
		return badRequest(c, "Invalid complaint id")
	}

	var req models.ComplaintResolveRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	complaint, err := h.controller.ResolveComplaint(c.UserContext(), complaintID, req)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"complaint": complaint})
}

func (h *ComplaintHandler) getRestrictions(c *fiber.Ctx) error {
	restrictions, err := h.controller.GetRestrictions(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"restrictions": restrictions})
}

func (h *ComplaintHandler) getUserRestriction(c *fiber.Ctx) error {
	userID, err := c.ParamsInt("userID")
	if err != nil {
		return badRequest(c, "Invalid user id")
	}

	restriction, err := h.controller.GetUserRestriction(c.UserContext(), userID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"restriction": restriction})
}

func (h *ComplaintHandler) warnUser(c *fiber.Ctx) error {
	userID, err := c.ParamsInt("userID")
	if err != nil {
		return badRequest(c, "Invalid user id")
	}

	var req struct {
		Message string `json:"message"`
	}
	if err := c.BodyParser(&req); err != nil && len(c.Body()) > 0 {
		return badRequest(c, "Invalid request body")
	}

	restriction, err := h.controller.WarnUser(c.UserContext(), userID, req.Message)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"restriction": restriction})
}

func (h *ComplaintHandler) unblockUser(c *fiber.Ctx) error {
	userID, err := c.ParamsInt("userID")
	if err != nil {
		return badRequest(c, "Invalid user id")
	}

	restriction, err := h.controller.UnblockUser(c.UserContext(), userID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"restriction": restriction})
}
