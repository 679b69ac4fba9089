package notify

import (
	"savesync/internal/logger"

	"go.uber.org/zap"
)

// Logger routes events into the structured log instead of the desktop.
// Daemon mode defaults to this so headless hosts still record conflicts.
type Logger struct{}

func (Logger) Notify(title, message string, priority Priority) {
	fields := []zap.Field{
		zap.String("message", message),
		zap.String("priority", string(priority)),
	}

	if priority == PriorityCritical {
		logger.Log.Error(title, fields...)
		return
	}

	logger.Log.Info(title, fields...)
}
