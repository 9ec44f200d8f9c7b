package workflow

import (
	"go-pm/internal/common/api"
	"go-pm/internal/config"
	"go-pm/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type WorkflowApi struct {
	controller *WorkflowController
	config     *config.Config
}

func NewWorkflowApi(controller *WorkflowController, config *config.Config) api.Route {
	return &WorkflowApi{
		controller: controller,
		config:     config,
	}
}

func (h *WorkflowApi) Setup(app *fiber.App) {
	workflows := app.Group("/api/workflows", middleware.AuthMiddleware(h.config.SkipAuth))

	workflows.Post("/", h.controller.CreateWorkflow)
	workflows.Get("/project/:projectId", h.controller.GetProjectWorkflow)
	workflows.Put("/project/:projectId/workflow/:stepId", h.controller.UpdateProjectStep)
	workflows.Post("/:workflowId/steps/:stepId/complete", h.controller.CompleteStep)
}
