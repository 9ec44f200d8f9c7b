package system

import (
	"context"
	"time"

	"go-pm/internal/database"
	"go-pm/internal/features/realtime"
	"go-pm/internal/features/taxonomy"

	"github.com/gofiber/fiber/v2"
)

// Pinger reports whether the database is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthController struct {
	DB       Pinger
	Taxonomy *taxonomy.Store
	Hub      *realtime.Hub
}

func NewHealthController(db *database.MongodbDB, tax *taxonomy.Store, hub *realtime.Hub) *HealthController {
	return &HealthController{DB: db, Taxonomy: tax, Hub: hub}
}

// Health godoc
// @Summary      Service health
// @Tags         system
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Failure      503  {object}  map[string]interface{}
// @Router       /health [get]
func (h *HealthController) Health(ctx *fiber.Ctx) error {
	pingCtx, cancel := context.WithTimeout(ctx.UserContext(), 2*time.Second)
	defer cancel()

	status := fiber.StatusOK
	dbStatus := "ok"
	if err := h.DB.Ping(pingCtx); err != nil {
		status = fiber.StatusServiceUnavailable
		dbStatus = err.Error()
	}

	body := fiber.Map{
		"status":   "ok",
		"database": dbStatus,
		"time":     time.Now().UTC(),
	}
	if status != fiber.StatusOK {
		body["status"] = "degraded"
	}
	if h.Taxonomy != nil {
		body["taxonomyPhases"] = len(h.Taxonomy.Current().Document().Phases)
	}
	if h.Hub != nil {
		body["realtimeClients"] = h.Hub.Count()
	}
	return ctx.Status(status).JSON(body)
}
