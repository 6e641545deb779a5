package handlers

import (
	"kirayo/internal/app"
	authController "kirayo/internal/controllers/auth"
	"kirayo/internal/handlers/middleware"
	"kirayo/internal/logger"
	"kirayo/internal/models"

	"github.com/gofiber/fiber/v2"
)

type AuthHandler struct {
	Handler
	controller authController.AuthControllerInterface
}

func NewAuthHandler(app app.App, router fiber.Router) *AuthHandler {
	return &AuthHandler{
		controller: app.Controllers.Auth,
		Handler: Handler{
			log:        logger.New("handlers").File("auth_handler"),
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *AuthHandler) Register() {
	auth := h.router.Group("/auth")

	auth.Post("/register", h.register)
	auth.Post("/login", h.login)

	protected := auth.Group("/", h.middleware.RequireAuth())
	protected.Get("/me", h.getProfile)
	protected.Put("/me", h.updateProfile)
}

func (h *AuthHandler) register(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("register")

	var req models.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		log.Info("invalid register payload", "error", err.Error())
		return badRequest(c, "Invalid request body")
	}

	profile, err := h.controller.Register(c.UserContext(), req)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"user": profile})
}

func (h *AuthHandler) login(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("login")

	var req models.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		log.Info("invalid login payload", "error", err.Error())
		return badRequest(c, "Invalid request body")
	}

	resp, err := h.controller.Login(c.UserContext(), req)
	if err != nil {
		return respondError(c, err)
	}

	c.Cookie(&fiber.Cookie{
		Name:     middleware.AccessTokenCookie,
		Value:    resp.Token,
		HTTPOnly: true,
		SameSite: "Lax",
		Path:     "/",
	})

	return c.JSON(resp)
}

func (h *AuthHandler) getProfile(c *fiber.Ctx) error {
	user := middleware.GetUser(c)

	profile, err := h.controller.GetProfile(c.UserContext(), user.ID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"user": profile})
}

func (h *AuthHandler) updateProfile(c *fiber.Ctx) error {
	user := middleware.GetUser(c)

	var req authController.ProfileUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	profile, err := h.controller.UpdateProfile(c.UserContext(), user.ID, req)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"user": profile})
}
