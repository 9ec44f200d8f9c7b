package logger

import (
	"context"
	"sync"
	"testing"

	common_models "go-pm/internal/common/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type memorySink struct {
	mu      sync.Mutex
	records []common_models.Log
}

func (s *memorySink) Insert(ctx context.Context, record common_models.Log) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, record)
	return nil
}

func TestDBCore_PersistsContextFields(t *testing.T) {
	sink := &memorySink{}
	writer := NewDBLogWriter(sink, "go-pm-test", 10)

	base, observed := observer.New(zapcore.DebugLevel)
	log := zap.New(NewDBCore(base, writer)).With(zap.String("userId", "u-1"))

	log.Warn("checklist sync failed", zap.String("alertId", "a-1"), zap.String("ip", "10.0.0.1"))
	writer.Close()

	require.Len(t, sink.records, 1)
	got := sink.records[0]
	assert.Equal(t, "checklist sync failed", got.Message)
	assert.Equal(t, "u-1", got.UserID)
	assert.Equal(t, "a-1", got.AlertID)
	assert.Equal(t, "10.0.0.1", got.IpAddress)
	assert.Equal(t, 30, got.LogLevelId)
	assert.Equal(t, "go-pm-test", got.ApplicationId)

	// the wrapped core still receives the entry
	assert.Equal(t, 1, observed.Len())
}

func TestDBLogWriter_DropsAfterClose(t *testing.T) {
	sink := &memorySink{}
	writer := NewDBLogWriter(sink, "go-pm-test", 1)
	writer.Close()

	writer.AddLog(LogEntry{Level: zapcore.InfoLevel, Message: "late"})
	writer.Close()

	assert.Empty(t, sink.records)
}
