package logger

import (
	"go-pm/internal/config"
	"go-pm/internal/database"

	"go.uber.org/fx"
	"go.uber.org/zap"
)

// NewLogger builds the console logger and tees every entry into the Mongo log sink.
func NewLogger(lc fx.Lifecycle, cfg *config.Config, mongodb *database.MongodbDB) (*zap.Logger, error) {
	var zapConfig zap.Config
	if cfg.IsProduction() {
		zapConfig = zap.NewProductionConfig()
	} else {
		zapConfig = zap.NewDevelopmentConfig()
	}

	// Caller function name is copied into the persisted record
	zapConfig.EncoderConfig.FunctionKey = "func"

	baseLogger, err := zapConfig.Build()
	if err != nil {
		return nil, err
	}

	dbWriter := NewDBLogWriter(NewMongoLogSink(mongodb), cfg.AppId, 1000)
	lc.Append(fx.StopHook(func() {
		_ = baseLogger.Sync()
		dbWriter.Close()
	}))

	finalCore := NewDBCore(baseLogger.Core(), dbWriter)
	return zap.New(finalCore, zap.AddCaller()), nil
}
