package strategy

import (
	"os"
	"path/filepath"
	"time"

	"savesync/internal/logger"
	"savesync/internal/model"

	"go.uber.org/zap"
)

const NameFilename = "filename"

// Filename is the default strategy: the base name of the file is the save
// identity, and the file modification time is the save timestamp.
type Filename struct{}

func (*Filename) Name() string {
	return NameFilename
}

func (*Filename) Identity(path string) model.Identity {
	return model.Identity(filepath.Base(path))
}

func (*Filename) Timestamp(path string) float64 {
	info, err := os.Stat(path)
	if err != nil {
		logger.Log.Debug("failed to stat save file",
			zap.String("path", path),
			zap.Error(err))
		return 0
	}

	return float64(info.ModTime().UnixNano()) / float64(time.Second)
}
