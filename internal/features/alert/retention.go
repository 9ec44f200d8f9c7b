package alert

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go-pm/internal/config"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// RetentionSweeper periodically purges closed alerts older than the
// configured retention window.
type RetentionSweeper struct {
	service   AlertService
	schedule  string
	retention time.Duration
	log       *zap.Logger

	mu        sync.Mutex
	scheduler *cron.Cron
}

func NewRetentionSweeper(service AlertService, cfg *config.Config, log *zap.Logger) *RetentionSweeper {
	return &RetentionSweeper{
		service:   service,
		schedule:  cfg.AlertRetentionCron,
		retention: time.Duration(cfg.AlertRetentionDays) * 24 * time.Hour,
		log:       log,
	}
}

// Start registers the sweep on the cron schedule. A zero or negative
// retention disables the sweeper.
func (r *RetentionSweeper) Start() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.retention <= 0 {
		r.log.Info("Alert retention disabled")
		return nil
	}
	if _, err := cron.ParseStandard(r.schedule); err != nil {
		return fmt.Errorf("invalid alert retention schedule %q: %w", r.schedule, err)
	}

	r.scheduler = cron.New()
	if _, err := r.scheduler.AddFunc(r.schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		r.Sweep(ctx)
	}); err != nil {
		return err
	}
	r.scheduler.Start()
	r.log.Info("Alert retention sweeper started",
		zap.String("schedule", r.schedule),
		zap.Duration("retention", r.retention))
	return nil
}

func (r *RetentionSweeper) Stop() {
	r.mu.Lock()
	scheduler := r.scheduler
	r.scheduler = nil
	r.mu.Unlock()

	if scheduler != nil {
		<-scheduler.Stop().Done()
	}
}

// Sweep runs one purge now.
func (r *RetentionSweeper) Sweep(ctx context.Context) (int64, error) {
	n, err := r.service.PurgeClosed(ctx, r.retention)
	if err != nil {
		r.log.Error("Alert retention sweep failed", zap.Error(err))
		return 0, err
	}
	r.log.Info("Alert retention sweep finished", zap.Int64("deleted", n))
	return n, nil
}
