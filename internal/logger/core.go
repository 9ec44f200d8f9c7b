package logger

import (
	"go.uber.org/zap/zapcore"
)

// DBCore is a zap core that forwards entries to the DB writer before the wrapped core.
type DBCore struct {
	zapcore.Core
	writer *DBLogWriter
	fields []zapcore.Field
}

func NewDBCore(baseCore zapcore.Core, writer *DBLogWriter) zapcore.Core {
	return &DBCore{
		Core:   baseCore,
		writer: writer,
	}
}

// With keeps the DB sink attached to child loggers and remembers their context fields.
func (c *DBCore) With(fields []zapcore.Field) zapcore.Core {
	merged := make([]zapcore.Field, 0, len(c.fields)+len(fields))
	merged = append(merged, c.fields...)
	merged = append(merged, fields...)
	return &DBCore{
		Core:   c.Core.With(fields),
		writer: c.writer,
		fields: merged,
	}
}

func (c *DBCore) Write(entry zapcore.Entry, fields []zapcore.Field) error {
	record := LogEntry{
		Level:   entry.Level,
		Message: entry.Message,
		Caller:  entry.Caller.Function,
	}
	for _, f := range c.fields {
		applyField(&record, f)
	}
	for _, f := range fields {
		applyField(&record, f)
	}

	c.writer.AddLog(record)

	return c.Core.Write(entry, fields)
}

func (c *DBCore) Check(ent zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if c.Enabled(ent.Level) {
		return ce.AddCore(ent, c)
	}
	return ce
}

func applyField(record *LogEntry, f zapcore.Field) {
	if f.Type != zapcore.StringType {
		return
	}
	switch f.Key {
	case "ip":
		record.IpAddress = f.String
	case "userId":
		record.UserID = f.String
	case "alertId":
		record.AlertID = f.String
	}
}
