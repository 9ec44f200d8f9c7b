package audit

import (
	"context"
	"time"

	common_models "go-pm/internal/common/models"
	"go-pm/internal/middleware"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type AuditService interface {
	LogChange(ctx context.Context, action common_models.AuditAction, module string, recordID string, changes map[string]common_models.Change) error
	ListLogs(ctx context.Context, filter LogFilter, page, limit int64) ([]common_models.AuditLog, error)
}

type AuditServiceImpl struct {
	Repo AuditRepository
	now  func() time.Time
}

func NewAuditService(repo AuditRepository) AuditService {
	return &AuditServiceImpl{
		Repo: repo,
		now:  time.Now,
	}
}

// LogChange records who did what to which alert or step. The actor comes from
// the request context; background jobs are logged as "system".
func (s *AuditServiceImpl) LogChange(ctx context.Context, action common_models.AuditAction, module string, recordID string, changes map[string]common_models.Change) error {
	actorID, actorName := "system", "System"
	if claims, ok := middleware.ClaimsFromContext(ctx); ok {
		actorID, actorName = claims.UserID, claims.Name
	}

	log := common_models.AuditLog{
		ID:        primitive.NewObjectID(),
		Action:    action,
		Module:    module,
		RecordID:  recordID,
		ActorID:   actorID,
		ActorName: actorName,
		Changes:   changes,
		Timestamp: s.now(),
	}
	return s.Repo.Create(ctx, log)
}

const maxPageSize = 100

// ListLogs pages through the trail newest first. Pages start at 1 and are
// capped at maxPageSize entries.
func (s *AuditServiceImpl) ListLogs(ctx context.Context, filter LogFilter, page, limit int64) ([]common_models.AuditLog, error) {
	if err := filter.validate(); err != nil {
		return nil, err
	}
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	return s.Repo.List(ctx, filter, limit, (page-1)*limit)
}
