package handlers

import (
	"kirayo/internal/app"
	"kirayo/internal/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// setupWebSocketRoute authenticates the upgrade request by token query
// parameter and hands the connection to the notification hub.
func setupWebSocketRoute(router fiber.Router, app *app.App) {
	log := logger.New("handlers").File("websocket_handler")

	router.Use("/ws", func(c *fiber.Ctx) error {
		if !websocket.IsWebSocketUpgrade(c) {
			return fiber.ErrUpgradeRequired
		}

		token := c.Query("token")
		if token == "" {
			token = c.Cookies("access_token")
		}
		claims, err := app.TokenService.Verify(token)
		if err != nil {
			log.Info("websocket auth failed", "error", err.Error())
			return c.SendStatus(fiber.StatusUnauthorized)
		}

		c.Locals("userID", claims.UserID)
		return c.Next()
	})

	router.Get("/ws", websocket.New(func(conn *websocket.Conn) {
		userID, ok := conn.Locals("userID").(int)
		if !ok {
			_ = conn.Close()
			return
		}
		app.Websocket.HandleConnection(conn, userID)
	}))
}
