package taxonomy

import (
	"go-pm/internal/common/api"
	"go-pm/internal/config"
	"go-pm/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type TaxonomyApi struct {
	controller *TaxonomyController
	config     *config.Config
}

func NewTaxonomyApi(controller *TaxonomyController, config *config.Config) api.Route {
	return &TaxonomyApi{
		controller: controller,
		config:     config,
	}
}

func (h *TaxonomyApi) Setup(app *fiber.App) {
	group := app.Group("/api/taxonomy", middleware.AuthMiddleware(h.config.SkipAuth))

	group.Get("/", h.controller.GetTaxonomy)
	group.Get("/resolve", h.controller.Resolve)
}
