package alert

import (
	"go-pm/internal/common/api"
	"go-pm/internal/config"
	"go-pm/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type AlertApi struct {
	controller *AlertController
	config     *config.Config
}

func NewAlertApi(controller *AlertController, config *config.Config) api.Route {
	return &AlertApi{
		controller: controller,
		config:     config,
	}
}

func (h *AlertApi) Setup(app *fiber.App) {
	alerts := app.Group("/api/alerts", middleware.AuthMiddleware(h.config.SkipAuth))

	alerts.Get("/", h.controller.ListAlerts)
	alerts.Post("/", h.controller.CreateAlert)
	alerts.Get("/export", h.controller.Export)
	alerts.Get("/:id", h.controller.GetAlert)
	alerts.Patch("/:id/acknowledge", h.controller.Acknowledge)
	alerts.Patch("/:id/dismiss", h.controller.Dismiss)
	alerts.Patch("/:id/assign", h.controller.Assign)
	alerts.Post("/:id/complete", h.controller.Complete)
}
