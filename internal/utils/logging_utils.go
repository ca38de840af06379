package utils

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// GenerateTraceId returns a fresh trace id for a request.
func GenerateTraceId() string {
	return uuid.New().String()
}

func logEntry(entry *log.Entry, level, message string) {
	switch level {
	case "debug":
		entry.Debug(message)
	case "info":
		entry.Info(message)
	case "warn":
		entry.Warn(message)
	case "error":
		entry.Error(message)
	default:
		entry.Info(message)
	}
}

// LogWithTrace logs a message annotated with the request's trace id.
func LogWithTrace(c *gin.Context, level, message string) {
	traceId, _ := c.Value(TraceIdKey.String()).(string)
	entry := log.WithFields(log.Fields{
		"traceId": traceId,
	})

	logEntry(entry, level, message)
}

// LogErrorWithTrace logs an error message with the underlying cause attached.
func LogErrorWithTrace(c *gin.Context, message string, err error) {
	traceId, _ := c.Value(TraceIdKey.String()).(string)
	entry := log.WithFields(log.Fields{
		"traceId": traceId,
		"error":   err,
	})

	logEntry(entry, "error", message)
}
