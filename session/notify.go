package session

import (
	"log"
	"strings"
)

// Level of a user-facing notification
type Level string

const (
	LevelInfo    Level = "info"
	LevelSuccess Level = "success"
	LevelError   Level = "error"
)

// NotificationSink receives transient user-facing notifications
type NotificationSink interface {
	Notify(level Level, message string)
}

// LogSink writes notifications to the standard logger.
// With ErrorsOnly set only error notifications are logged.
type LogSink struct {
	ErrorsOnly bool
}

// LogSinkFor builds the sink for a LOG_LEVEL value; "error" keeps only errors
func LogSinkFor(logLevel string) LogSink {
	return LogSink{ErrorsOnly: strings.EqualFold(strings.TrimSpace(logLevel), "error")}
}

// Notify logs the notification
func (s LogSink) Notify(level Level, message string) {
	if s.ErrorsOnly && level != LevelError {
		return
	}
	log.Printf("[NOTIFY] %s: %s", level, message)
}

func notify(sink NotificationSink, level Level, message string) {
	if sink != nil {
		sink.Notify(level, message)
	}
}
