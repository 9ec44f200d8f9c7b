package realtime

import (
	"go-pm/pkg/utils"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
)

type RealtimeController struct {
	Hub *Hub
}

func NewRealtimeController(hub *Hub) *RealtimeController {
	return &RealtimeController{Hub: hub}
}

// RequireUpgrade rejects plain HTTP requests to the websocket endpoint.
func (h *RealtimeController) RequireUpgrade(c *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}
	return c.Next()
}

func (h *RealtimeController) HandleWebSocket(c *websocket.Conn) {
	userID := ""
	if claims, ok := c.Locals(utils.UserClaimsKey).(*utils.UserClaims); ok {
		userID = claims.UserID
	}
	h.Hub.Serve(c, userID)
}
