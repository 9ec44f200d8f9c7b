package alert

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
)

type AlertController struct {
	Service AlertService
}

func NewAlertController(service AlertService) *AlertController {
	return &AlertController{Service: service}
}

func filterFromQuery(c *fiber.Ctx) AlertFilter {
	return AlertFilter{
		Status:    c.Query("status"),
		UserID:    c.Query("userId"),
		ProjectID: c.Query("projectId"),
		Priority:  c.Query("priority"),
	}
}

func errorStatus(err error) int {
	switch {
	case errors.Is(err, ErrAlertNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, ErrAlertNotActive):
		return fiber.StatusConflict
	case errors.Is(err, ErrAssigneeRequired),
		errors.Is(err, ErrLineItemRequired),
		errors.Is(err, ErrInvalidAlert),
		errors.Is(err, ErrInvalidPriority),
		errors.Is(err, ErrNotesTooLong):
		return fiber.StatusBadRequest
	default:
		return fiber.StatusInternalServerError
	}
}

func respondError(c *fiber.Ctx, err error) error {
	return c.Status(errorStatus(err)).JSON(fiber.Map{"error": err.Error()})
}

// ListAlerts godoc
// @Summary List workflow alerts
// @Description Newest first, with section, line item and responsible role resolved from the taxonomy
// @Tags alerts
// @Produce json
// @Param status query string false "active, dismissed or completed"
// @Param userId query string false "Assignee"
// @Param projectId query string false "Project"
// @Param priority query string false "low, medium or high"
// @Success 200 {array} WorkflowAlert
// @Router /api/alerts [get]
func (ctrl *AlertController) ListAlerts(c *fiber.Ctx) error {
	alerts, err := ctrl.Service.ListAlerts(c.UserContext(), filterFromQuery(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(alerts)
}

// CreateAlert godoc
// @Summary Raise a workflow alert
// @Tags alerts
// @Accept json
// @Produce json
// @Param alert body WorkflowAlert true "Alert"
// @Success 201 {object} WorkflowAlert
// @Router /api/alerts [post]
func (ctrl *AlertController) CreateAlert(c *fiber.Ctx) error {
	var alert WorkflowAlert
	if err := c.BodyParser(&alert); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if err := ctrl.Service.CreateAlert(c.UserContext(), &alert); err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(alert)
}

// GetAlert godoc
// @Summary Get one alert
// @Tags alerts
// @Param id path string true "Alert ID"
// @Success 200 {object} WorkflowAlert
// @Router /api/alerts/{id} [get]
func (ctrl *AlertController) GetAlert(c *fiber.Ctx) error {
	alert, err := ctrl.Service.GetAlert(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(alert)
}

// Acknowledge godoc
// @Summary Mark an alert read
// @Tags alerts
// @Param id path string true "Alert ID"
// @Router /api/alerts/{id}/acknowledge [patch]
func (ctrl *AlertController) Acknowledge(c *fiber.Ctx) error {
	if err := ctrl.Service.Acknowledge(c.UserContext(), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"success": true})
}

// Dismiss godoc
// @Summary Dismiss an alert
// @Tags alerts
// @Param id path string true "Alert ID"
// @Router /api/alerts/{id}/dismiss [patch]
func (ctrl *AlertController) Dismiss(c *fiber.Ctx) error {
	if err := ctrl.Service.Dismiss(c.UserContext(), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"success": true})
}

// Assign godoc
// @Summary Reassign an alert
// @Tags alerts
// @Accept json
// @Param id path string true "Alert ID"
// @Param body body AssignInput true "Assignee"
// @Success 200 {object} WorkflowAlert
// @Router /api/alerts/{id}/assign [patch]
func (ctrl *AlertController) Assign(c *fiber.Ctx) error {
	var input AssignInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	alert, err := ctrl.Service.Assign(c.UserContext(), c.Params("id"), input.AssignedTo)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(alert)
}

// Complete godoc
// @Summary Complete the line item behind an alert
// @Tags alerts
// @Accept json
// @Param id path string true "Alert ID"
// @Param body body CompleteInput true "Line item"
// @Router /api/alerts/{id}/complete [post]
func (ctrl *AlertController) Complete(c *fiber.Ctx) error {
	var input CompleteInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if err := ctrl.Service.Complete(c.UserContext(), c.Params("id"), input); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"success": true})
}

// Export godoc
// @Summary Export alerts to Excel
// @Tags alerts
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Router /api/alerts/export [get]
func (ctrl *AlertController) Export(c *fiber.Ctx) error {
	data, filename, err := ctrl.Service.ExportAlerts(c.UserContext(), filterFromQuery(c))
	if err != nil {
		return respondError(c, err)
	}
	c.Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	return c.Send(data)
}
