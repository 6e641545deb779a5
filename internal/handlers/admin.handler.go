package handlers

import (
	"kirayo/internal/app"
	adminController "kirayo/internal/controllers/admin"
	categoryController "kirayo/internal/controllers/category"
	ownerController "kirayo/internal/controllers/owner"
	"kirayo/internal/handlers/middleware"
	"kirayo/internal/logger"
	"kirayo/internal/models"

	"github.com/gofiber/fiber/v2"
)

// AdminHandler covers user administration, the category catalog and
// owner application review.
type AdminHandler struct {
	Handler
	admins     adminController.AdminControllerInterface
	categories categoryController.CategoryControllerInterface
	owners     ownerController.OwnerControllerInterface
}

func NewAdminHandler(app app.App, router fiber.Router) *AdminHandler {
	return &AdminHandler{
		admins:     app.Controllers.Admin,
		categories: app.Controllers.Category,
		owners:     app.Controllers.Owner,
		Handler: Handler{
			log:        logger.New("handlers").File("admin_handler"),
			router:     router,
			middleware: app.Middleware,
		},
	}
}

// Register mounts everything under the admin group, which the router
// protects with RequireAuth + RequireAdmin.
func (h *AdminHandler) Register() {
	h.router.Get("/dashboard", h.getDashboard)
	h.router.Get("/dashboard/revenue", h.getRevenueDetails)
	h.router.Get("/dashboard/activity", h.getRecentActivity)

	users := h.router.Group("/users")
	users.Get("/", h.getUsers)
	users.Post("/", h.createUser)
	users.Get("/:userID", h.getUser)
	users.Put("/:userID", h.updateUser)
	users.Delete("/:userID", h.deleteUser)
	users.Post("/:userID/restrict", h.restrictUser)
	users.Post("/:userID/unrestrict", h.unrestrictUser)

	categories := h.router.Group("/categories")
	categories.Get("/", h.getCategories)
	categories.Post("/", h.createCategory)
	categories.Get("/:categoryID", h.getCategory)
	categories.Put("/:categoryID", h.updateCategory)
	categories.Delete("/:categoryID", h.deleteCategory)
	categories.Post("/:categoryID/requirements", h.addRequirement)
	categories.Put("/:categoryID/requirements/:requirementID", h.updateRequirement)
	categories.Delete("/:categoryID/requirements/:requirementID", h.deleteRequirement)

	ownerRequests := h.router.Group("/owner-requests")
	ownerRequests.Get("/", h.getOwnerRequests)
	ownerRequests.Post("/:id/approve", h.approveOwnerRequest)
	ownerRequests.Post("/:id/reject", h.rejectOwnerRequest)

	ownerRequirements := h.router.Group("/owner-requirements")
	ownerRequirements.Get("/", h.getOwnerRequirements)
	ownerRequirements.Post("/", h.createOwnerRequirement)
	ownerRequirements.Put("/reorder", h.reorderOwnerRequirements)
	ownerRequirements.Put("/:id", h.updateOwnerRequirement)
	ownerRequirements.Delete("/:id", h.deleteOwnerRequirement)
}

func (h *AdminHandler) getDashboard(c *fiber.Ctx) error {
	stats, err := h.admins.GetDashboard(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"dashboard": stats})
}

func (h *AdminHandler) getRevenueDetails(c *fiber.Ctx) error {
	filter := parseBookingFilter(c)

	details, err := h.admins.GetRevenueDetails(c.UserContext(), filter.From, filter.To)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"revenue": details})
}

func (h *AdminHandler) getRecentActivity(c *fiber.Ctx) error {
	activity, err := h.admins.GetRecentActivity(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"activity": activity})
}

func (h *AdminHandler) getUsers(c *fiber.Ctx) error {
	users, err := h.admins.GetUsers(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"users": users})
}

func (h *AdminHandler) createUser(c *fiber.Ctx) error {
	var req adminController.AdminUserCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	user, err := h.admins.CreateUser(c.UserContext(), req)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"user": user})
}

func (h *AdminHandler) getUser(c *fiber.Ctx) error {
	userID, err := c.ParamsInt("userID")
	if err != nil {
		return badRequest(c, "Invalid user id")
	}

	user, err := h.admins.GetUser(c.UserContext(), userID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"user": user})
}

func (h *AdminHandler) updateUser(c *fiber.Ctx) error {
	admin := middleware.GetUser(c)

	userID, err := c.ParamsInt("userID")
	if err != nil {
		return badRequest(c, "Invalid user id")
	}

	var req adminController.AdminUserUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	user, err := h.admins.UpdateUser(c.UserContext(), admin, userID, req)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"user": user})
}

func (h *AdminHandler) deleteUser(c *fiber.Ctx) error {
	admin := middleware.GetUser(c)

	userID, err := c.ParamsInt("userID")
	if err != nil {
		return badRequest(c, "Invalid user id")
	}

	if err := h.admins.DeleteUser(c.UserContext(), admin, userID); err != nil {
		return respondError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *AdminHandler) restrictUser(c *fiber.Ctx) error {
	return h.setRestricted(c, true)
}

func (h *AdminHandler) unrestrictUser(c *fiber.Ctx) error {
	return h.setRestricted(c, false)
}

func (h *AdminHandler) setRestricted(c *fiber.Ctx, restricted bool) error {
	admin := middleware.GetUser(c)

	userID, err := c.ParamsInt("userID")
	if err != nil {
		return badRequest(c, "Invalid user id")
	}

	user, err := h.admins.SetRestricted(c.UserContext(), admin, userID, restricted)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"user": user})
}

func (h *AdminHandler) getCategories(c *fiber.Ctx) error {
	categories, err := h.categories.GetCategories(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"categories": categories})
}

func (h *AdminHandler) createCategory(c *fiber.Ctx) error {
	var req models.CategoryCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	category, err := h.categories.CreateCategory(c.UserContext(), req)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"category": category})
}

func (h *AdminHandler) getCategory(c *fiber.Ctx) error {
	categoryID, err := c.ParamsInt("categoryID")
	if err != nil {
		return badRequest(c, "Invalid category id")
	}

	category, err := h.categories.GetCategory(c.UserContext(), categoryID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"category": category})
}

func (h *AdminHandler) updateCategory(c *fiber.Ctx) error {
	categoryID, err := c.ParamsInt("categoryID")
	if err != nil {
		return badRequest(c, "Invalid category id")
	}

	var req models.CategoryCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	category, err := h.categories.UpdateCategory(c.UserContext(), categoryID, req)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"category": category})
}

func (h *AdminHandler) deleteCategory(c *fiber.Ctx) error {
	categoryID, err := c.ParamsInt("categoryID")
	if err != nil {
		return badRequest(c, "Invalid category id")
	}

	if err := h.categories.DeleteCategory(c.UserContext(), categoryID); err != nil {
		return respondError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *AdminHandler) addRequirement(c *fiber.Ctx) error {
	categoryID, err := c.ParamsInt("categoryID")
	if err != nil {
		return badRequest(c, "Invalid category id")
	}

	var req models.RequirementCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	requirement, err := h.categories.AddRequirement(c.UserContext(), categoryID, req)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"requirement": requirement})
}

func (h *AdminHandler) updateRequirement(c *fiber.Ctx) error {
	categoryID, err := c.ParamsInt("categoryID")
	if err != nil {
		return badRequest(c, "Invalid category id")
	}
	requirementID, err := c.ParamsInt("requirementID")
	if err != nil {
		return badRequest(c, "Invalid requirement id")
	}

	var req models.RequirementCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	requirement, err := h.categories.UpdateRequirement(c.UserContext(), categoryID, requirementID, req)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"requirement": requirement})
}

func (h *AdminHandler) deleteRequirement(c *fiber.Ctx) error {
	categoryID, err := c.ParamsInt("categoryID")
	if err != nil {
		return badRequest(c, "Invalid category id")
	}
	requirementID, err := c.ParamsInt("requirementID")
	if err != nil {
		return badRequest(c, "Invalid requirement id")
	}

	if err := h.categories.DeleteRequirement(c.UserContext(), categoryID, requirementID); err != nil {
		return respondError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *AdminHandler) getOwnerRequests(c *fiber.Ctx) error {
	status := models.OwnerRequestStatus(c.Query("status"))

	requests, err := h.owners.GetRequests(c.UserContext(), status)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"requests": requests})
}

func (h *AdminHandler) approveOwnerRequest(c *fiber.Ctx) error {
	requestID, err := c.ParamsInt("id")
	if err != nil {
		return badRequest(c, "Invalid request id")
	}

	request, err := h.owners.ApproveRequest(c.UserContext(), requestID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"request": request})
}

func (h *AdminHandler) rejectOwnerRequest(c *fiber.Ctx) error {
	requestID, err := c.ParamsInt("id")
	if err != nil {
		return badRequest(c, "Invalid request id")
	}

	var req models.OwnerRequestDecision
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	request, err := h.owners.RejectRequest(c.UserContext(), requestID, req.Reason)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"request": request})
}

func (h *AdminHandler) getOwnerRequirements(c *fiber.Ctx) error {
	activeOnly := c.QueryBool("active", false)

	requirements, err := h.owners.GetRequirements(c.UserContext(), activeOnly)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"requirements": requirements})
}

func (h *AdminHandler) createOwnerRequirement(c *fiber.Ctx) error {
	var req models.OwnerRequirementRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	requirement, err := h.owners.CreateRequirement(c.UserContext(), req)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"requirement": requirement})
}

func (h *AdminHandler) updateOwnerRequirement(c *fiber.Ctx) error {
	requirementID, err := c.ParamsInt("id")
	if err != nil {
		return badRequest(c, "Invalid requirement id")
	}

	var req models.OwnerRequirementRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	requirement, err := h.owners.UpdateRequirement(c.UserContext(), requirementID, req)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"requirement": requirement})
}

func (h *AdminHandler) deleteOwnerRequirement(c *fiber.Ctx) error {
	requirementID, err := c.ParamsInt("id")
	if err != nil {
		return badRequest(c, "Invalid requirement id")
	}

	if err := h.owners.DeleteRequirement(c.UserContext(), requirementID); err != nil {
		return respondError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *AdminHandler) reorderOwnerRequirements(c *fiber.Ctx) error {
	var req models.OwnerRequirementReorderRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	if err := h.owners.ReorderRequirements(c.UserContext(), req); err != nil {
		return respondError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}
