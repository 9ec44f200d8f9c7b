package workflow

import (
	"errors"

	"go-pm/internal/config"

	"github.com/gofiber/fiber/v2"
)

type WorkflowController struct {
	Service   WorkflowService
	NoteLimit int
}

func NewWorkflowController(service WorkflowService, cfg *config.Config) *WorkflowController {
	return &WorkflowController{Service: service, NoteLimit: cfg.CompletionNoteLimit}
}

// respondError writes both "error" and "message"; task desk clients read
// "message".
func respondError(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	switch {
	case errors.Is(err, ErrWorkflowNotFound), errors.Is(err, ErrStepNotFound):
		status = fiber.StatusNotFound
	case errors.Is(err, ErrInvalidWorkflow):
		status = fiber.StatusBadRequest
	case errors.Is(err, ErrWorkflowExists):
		status = fiber.StatusConflict
	}
	return c.Status(status).JSON(fiber.Map{"error": err.Error(), "message": err.Error()})
}

func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": msg, "message": msg})
}

// CreateWorkflow godoc
// @Summary Create a project workflow
// @Tags workflows
// @Accept json
// @Produce json
// @Param workflow body ProjectWorkflow true "Workflow"
// @Success 201 {object} ProjectWorkflow
// @Router /api/workflows [post]
func (ctrl *WorkflowController) CreateWorkflow(c *fiber.Ctx) error {
	var wf ProjectWorkflow
	if err := c.BodyParser(&wf); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if err := ctrl.Service.CreateWorkflow(c.UserContext(), &wf); err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(wf)
}

// CompleteStep godoc
// @Summary Complete a workflow step
// @Description Idempotent. Closes the step's alerts and broadcasts workflow_step_completed.
// @Tags workflows
// @Accept json
// @Produce json
// @Param workflowId path string true "Workflow ID"
// @Param stepId path string true "Step ID"
// @Param body body StepCompletionInput true "Completion"
// @Success 200 {object} StepCompletionResult
// @Router /api/workflows/{workflowId}/steps/{stepId}/complete [post]
func (ctrl *WorkflowController) CompleteStep(c *fiber.Ctx) error {
	var input StepCompletionInput
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&input); err != nil {
			return badRequest(c, "Invalid request body")
		}
	}
	if ctrl.NoteLimit > 0 && len(input.Notes) > ctrl.NoteLimit {
		return badRequest(c, "Notes are too long")
	}

	result, err := ctrl.Service.CompleteStep(c.UserContext(), c.Params("workflowId"), c.Params("stepId"), input)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(result)
}

// GetProjectWorkflow godoc
// @Summary Project workflow checklist
// @Tags workflows
// @Produce json
// @Param projectId path string true "Project ID"
// @Success 200 {object} ProjectWorkflow
// @Router /api/workflows/project/{projectId} [get]
func (ctrl *WorkflowController) GetProjectWorkflow(c *fiber.Ctx) error {
	wf, err := ctrl.Service.GetProjectWorkflow(c.UserContext(), c.Params("projectId"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(wf)
}

// UpdateProjectStep godoc
// @Summary Set a checklist step's completed flag
// @Tags workflows
// @Accept json
// @Produce json
// @Param projectId path string true "Project ID"
// @Param stepId path string true "Step ID"
// @Param body body StepUpdateInput true "State"
// @Success 200 {object} WorkflowStep
// @Router /api/workflows/project/{projectId}/workflow/{stepId} [put]
func (ctrl *WorkflowController) UpdateProjectStep(c *fiber.Ctx) error {
	var input StepUpdateInput
	if err := c.BodyParser(&input); err != nil {
		return badRequest(c, "Invalid request body")
	}
	step, err := ctrl.Service.UpdateProjectStep(c.UserContext(), c.Params("projectId"), c.Params("stepId"), input.Completed)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(step)
}
