package audit

import (
	"errors"
	"strconv"
	"time"

	common_models "go-pm/internal/common/models"

	"github.com/gofiber/fiber/v2"
)

type AuditController struct {
	Service AuditService
}

func NewAuditController(service AuditService) *AuditController {
	return &AuditController{Service: service}
}

// ListLogs godoc
// @Summary List audit entries
// @Tags audit
// @Produce json
// @Param module query string false "alerts or workflows"
// @Param recordId query string false "Alert or step ID"
// @Param action query string false "Audit action"
// @Param actorId query string false "User who made the change"
// @Param since query string false "RFC3339 lower bound"
// @Router /api/audit-logs [get]
func (ctrl *AuditController) ListLogs(c *fiber.Ctx) error {
	page, _ := strconv.ParseInt(c.Query("page", "1"), 10, 64)
	limit, _ := strconv.ParseInt(c.Query("limit", "20"), 10, 64)

	filter := LogFilter{
		Module:   c.Query("module"),
		RecordID: c.Query("recordId"),
		Action:   common_models.AuditAction(c.Query("action")),
		ActorID:  c.Query("actorId"),
	}
	if since := c.Query("since"); since != "" {
		t, err := time.Parse(time.RFC3339, since)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "since must be an RFC3339 timestamp",
			})
		}
		filter.Since = t
	}

	logs, err := ctrl.Service.ListLogs(c.UserContext(), filter, page, limit)
	if errors.Is(err, ErrUnknownModule) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(logs)
}
