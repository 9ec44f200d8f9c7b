package realtime

import (
	"go-pm/internal/common/api"
	"go-pm/internal/config"
	"go-pm/internal/middleware"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
)

type RealtimeApi struct {
	controller *RealtimeController
	config     *config.Config
}

func NewRealtimeApi(controller *RealtimeController, config *config.Config) api.Route {
	return &RealtimeApi{
		controller: controller,
		config:     config,
	}
}

func (h *RealtimeApi) Setup(app *fiber.App) {
	app.Get("/api/ws",
		middleware.AuthMiddleware(h.config.SkipAuth),
		h.controller.RequireUpgrade,
		websocket.New(h.controller.HandleWebSocket),
	)
}
