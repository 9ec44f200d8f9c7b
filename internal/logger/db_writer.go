package logger

import (
	"context"
	"fmt"
	"sync"
	"time"

	common_models "go-pm/internal/common/models"
	"go-pm/internal/database"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap/zapcore"
)

// LogEntry holds the data passed from zap to the writer goroutine
type LogEntry struct {
	Level     zapcore.Level
	Message   string
	IpAddress string
	UserID    string
	AlertID   string
	Caller    string
}

// LogSink persists a single log record.
type LogSink interface {
	Insert(ctx context.Context, record common_models.Log) error
}

type mongoLogSink struct {
	collection *mongo.Collection
}

func NewMongoLogSink(mongodb *database.MongodbDB) LogSink {
	return &mongoLogSink{collection: mongodb.DB.Collection("logs")}
}

func (s *mongoLogSink) Insert(ctx context.Context, record common_models.Log) error {
	_, err := s.collection.InsertOne(ctx, record)
	return err
}

// DBLogWriter drains log entries into the sink on a background goroutine.
type DBLogWriter struct {
	sink     LogSink
	logChan  chan LogEntry
	appId    string
	finished chan struct{}

	mu     sync.RWMutex
	closed bool
}

func NewDBLogWriter(sink LogSink, appId string, buffer int) *DBLogWriter {
	writer := &DBLogWriter{
		sink:     sink,
		logChan:  make(chan LogEntry, buffer),
		appId:    appId,
		finished: make(chan struct{}),
	}

	go writer.processLogs()

	return writer
}

// AddLog never blocks the caller; entries are dropped when the buffer is full.
func (w *DBLogWriter) AddLog(entry LogEntry) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if w.closed {
		return
	}

	select {
	case w.logChan <- entry:
	default:
		fmt.Println("DB Log Channel Full! Dropping log:", entry.Message)
	}
}

// Close stops accepting entries and waits for the buffered ones to be written.
func (w *DBLogWriter) Close() {
	w.mu.Lock()
	if !w.closed {
		w.closed = true
		close(w.logChan)
	}
	w.mu.Unlock()
	<-w.finished
}

func (w *DBLogWriter) processLogs() {
	defer close(w.finished)
	for entry := range w.logChan {
		record := common_models.Log{
			Message:       entry.Message,
			Caller:        entry.Caller,
			IpAddress:     entry.IpAddress,
			UserID:        entry.UserID,
			AlertID:       entry.AlertID,
			LogLevelId:    mapLevelToInt(entry.Level),
			ApplicationId: w.appId,
			CreatedOnUtc:  time.Now().UTC(),
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		// Errors are ignored to keep the API running
		_ = w.sink.Insert(ctx, record)
		cancel()
	}
}

func mapLevelToInt(l zapcore.Level) int {
	switch l {
	case zapcore.DebugLevel:
		return 10
	case zapcore.InfoLevel:
		return 20
	case zapcore.WarnLevel:
		return 30
	case zapcore.ErrorLevel:
		return 40
	case zapcore.FatalLevel:
		return 50
	default:
		return 20
	}
}
