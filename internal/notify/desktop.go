package notify

import (
	"os/exec"

	"savesync/internal/logger"

	"go.uber.org/zap"
)

// Desktop sends events to the desktop via notify-send. Critical events do
// not expire so an unresolved conflict stays on screen until dismissed.
type Desktop struct{}

func (Desktop) Notify(title, message string, priority Priority) {
	args := []string{"-u", string(priority), title}
	if priority == PriorityCritical {
		args = append([]string{"-t", "0"}, args...)
	}
	if message != "" {
		args = append(args, message)
	}

	cmd := exec.Command("notify-send", args...)
	if err := cmd.Run(); err != nil {
		logger.Log.Debug("notify-send failed",
			zap.String("title", title),
			zap.Error(err))
	}
}
