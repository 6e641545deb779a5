package handlers

import (
	"kirayo/internal/app"
	notificationController "kirayo/internal/controllers/notification"
	"kirayo/internal/handlers/middleware"
	"kirayo/internal/logger"
	"kirayo/internal/models"

	"github.com/gofiber/fiber/v2"
)

type NotificationHandler struct {
	Handler
	controller notificationController.NotificationControllerInterface
}

func NewNotificationHandler(app app.App, router fiber.Router) *NotificationHandler {
	return &NotificationHandler{
		controller: app.Controllers.Notification,
		Handler: Handler{
			log:        logger.New("handlers").File("notification_handler"),
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *NotificationHandler) Register() {
	notifications := h.router.Group("/notifications", h.middleware.RequireAuth())

	notifications.Get("/", h.list)
	notifications.Get("/unread-count", h.unreadCount)
	notifications.Get("/:id", h.get)
	notifications.Post("/:id/read", h.markRead)
	notifications.Delete("/:id", h.delete)
	notifications.Post("/", h.middleware.RequireAdmin(), h.send)
}

func (h *NotificationHandler) list(c *fiber.Ctx) error {
	user := middleware.GetUser(c)

	notifications, err := h.controller.GetNotifications(c.UserContext(), user.ID, c.QueryInt("limit"))
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"notifications": notifications})
}

func (h *NotificationHandler) get(c *fiber.Ctx) error {
	user := middleware.GetUser(c)

	notificationID, err := c.ParamsInt("id")
	if err != nil {
		return badRequest(c, "Invalid notification id")
	}

	notification, err := h.controller.GetNotification(c.UserContext(), user, notificationID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"notification": notification})
}

func (h *NotificationHandler) unreadCount(c *fiber.Ctx) error {
	user := middleware.GetUser(c)

	count, err := h.controller.GetUnreadCount(c.UserContext(), user.ID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"count": count})
}

func (h *NotificationHandler) markRead(c *fiber.Ctx) error {
	user := middleware.GetUser(c)

	notificationID, err := c.ParamsInt("id")
	if err != nil {
		return badRequest(c, "Invalid notification id")
	}

	notification, err := h.controller.MarkRead(c.UserContext(), user, notificationID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"notification": notification})
}

func (h *NotificationHandler) send(c *fiber.Ctx) error {
	var req models.NotificationCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	if err := h.controller.SendNotification(c.UserContext(), req); err != nil {
		return respondError(c, err)
	}

	return c.SendStatus(fiber.StatusCreated)
}

func (h *NotificationHandler) delete(c *fiber.Ctx) error {
	user := middleware.GetUser(c)

	notificationID, err := c.ParamsInt("id")
	if err != nil {
		return badRequest(c, "Invalid notification id")
	}

	if err := h.controller.DeleteNotification(c.UserContext(), user, notificationID); err != nil {
		return respondError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}
