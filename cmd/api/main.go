package main

import (
	"context"
	"fmt"
	"log"
	"time"

	common_api "go-pm/internal/common/api"
	"go-pm/internal/config"
	"go-pm/internal/database"
	"go-pm/internal/features/alert"
	"go-pm/internal/features/audit"
	"go-pm/internal/features/notification"
	"go-pm/internal/features/realtime"
	"go-pm/internal/features/system"
	"go-pm/internal/features/taxonomy"
	"go-pm/internal/features/workflow"
	"go-pm/internal/logger"
	"go-pm/internal/middleware"
	"go-pm/pkg/utils"

	_ "go-pm/docs" // Import swagger docs

	"github.com/gofiber/fiber/v2"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

// NewFiberServer creates a new Fiber app instance
func NewFiberServer(cfg *config.Config) *fiber.App {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	app.Use(middleware.CORSMiddleware(cfg.CORSAllowedOrigins))

	return app
}

// AsRoute tags the constructor so Fx adds it to the "routes" group.
func AsRoute(f any) any {
	return fx.Annotate(
		f,
		fx.As(new(common_api.Route)),
		fx.ResultTags(`group:"routes"`),
	)
}

// RegisterAllRoutes takes the group "routes" and calls Setup() on each one.
func RegisterAllRoutes(app *fiber.App, routes []common_api.Route, log *zap.Logger) {
	log.Info("Registering routes", zap.Int("count", len(routes)))
	for _, route := range routes {
		log.Debug("Setting up route", zap.String("route", fmt.Sprintf("%T", route)))
		route.Setup(app)
	}
}

var RegisterAllRoutesWithAnnotation = fx.Annotate(
	RegisterAllRoutes,
	fx.ParamTags(``, `group:"routes"`, ``),
)

// StartServer starts Fiber in a goroutine and shuts it down when the app exits.
func StartServer(lc fx.Lifecycle, app *fiber.App, cfg *config.Config) {
	utils.SetSecret(cfg.JWTSecret)

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				port := fmt.Sprintf(":%s", cfg.Port)
				if err := app.Listen(port); err != nil {
					log.Fatalf("Server failed to start: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return app.Shutdown()
		},
	})
}

// InitializeIndexes ensures that necessary database indexes are created
func InitializeIndexes(lc fx.Lifecycle, alertRepo alert.AlertRepository, workflowRepo workflow.WorkflowRepository, auditRepo audit.AuditRepository, log *zap.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
				defer cancel()

				if err := alertRepo.EnsureIndexes(ctx); err != nil {
					log.Error("Failed to ensure alert indexes", zap.Error(err))
				}
				if err := workflowRepo.EnsureIndexes(ctx); err != nil {
					log.Error("Failed to ensure workflow indexes", zap.Error(err))
				}
				if err := auditRepo.EnsureIndexes(ctx); err != nil {
					log.Error("Failed to ensure audit indexes", zap.Error(err))
				}
			}()
			return nil
		},
	})
}

// StartTaxonomyWatcher hot reloads the taxonomy override file when one is configured.
func StartTaxonomyWatcher(lc fx.Lifecycle, cfg *config.Config, store *taxonomy.Store, log *zap.Logger) error {
	if !cfg.WatchTaxonomy || store.Path() == "" {
		return nil
	}
	watcher, err := taxonomy.NewWatcher(store, log)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			return watcher.Start(ctx)
		},
		OnStop: func(context.Context) error {
			cancel()
			return watcher.Stop()
		},
	})
	return nil
}

// StartRetentionSweeper schedules the purge of closed alerts.
func StartRetentionSweeper(lc fx.Lifecycle, sweeper *alert.RetentionSweeper) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return sweeper.Start()
		},
		OnStop: func(ctx context.Context) error {
			sweeper.Stop()
			return nil
		},
	})
}

// CloseHub disconnects realtime clients before the server goes away.
func CloseHub(lc fx.Lifecycle, hub *realtime.Hub) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			hub.Close()
			return nil
		},
	})
}

// @title           Project Workflow Alerts API
// @version         1.0
// @description     Workflow alerts, project checklists and the task taxonomy.

// @host            localhost:8080
// @BasePath        /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	app := fx.New(
		fx.Provide(
			config.LoadConfig,
			logger.NewLogger,
			NewFiberServer,
			database.NewDatabase,

			taxonomy.LoadStore,
			realtime.NewHub,

			// Repositories
			audit.NewAuditRepository,
			notification.NewNotificationRepository,
			alert.NewAlertRepository,
			workflow.NewWorkflowRepository,

			// Services
			audit.NewAuditService,
			notification.NewNotificationService,
			alert.NewAlertService,
			workflow.NewWorkflowService,
			alert.NewRetentionSweeper,

			// Interface adapters to break the alert/workflow cycle
			func(s workflow.WorkflowService) alert.LineItemCompleter { return s },
			func(h *realtime.Hub) alert.Broadcaster { return h },

			// Controllers
			audit.NewAuditController,
			notification.NewNotificationController,
			alert.NewAlertController,
			workflow.NewWorkflowController,
			taxonomy.NewTaxonomyController,
			realtime.NewRealtimeController,
			system.NewDebugController,
			system.NewHealthController,

			// Routes
			AsRoute(audit.NewAuditApi),
			AsRoute(notification.NewNotificationApi),
			AsRoute(alert.NewAlertApi),
			AsRoute(workflow.NewWorkflowApi),
			AsRoute(taxonomy.NewTaxonomyApi),
			AsRoute(realtime.NewRealtimeApi),
			AsRoute(system.NewDebugApi),
			AsRoute(system.NewHealthApi),
			AsRoute(system.NewSwaggerApi),
		),
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log}
		}),
		fx.Invoke(
			RegisterAllRoutesWithAnnotation,
			StartServer,
			StartTaxonomyWatcher,
			StartRetentionSweeper,
			CloseHub,
			InitializeIndexes,
		),
	)

	app.Run()
}
