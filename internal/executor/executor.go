package executor

import (
	"fmt"
	"os"
	"path/filepath"

	"savesync/internal/logger"
	"savesync/internal/util"

	"go.uber.org/zap"
)

// Executor performs the one-directional file copies the engine decides on.
// Copies go through a temp file and rename so a crash never leaves a
// half-written save on either side.
type Executor struct {
	// DryRun logs the copy that would happen instead of writing anything.
	DryRun bool
}

// Copy copies src to dst. When dst is an existing directory the file is
// placed inside it under src's base name; otherwise dst is taken as the
// exact destination path (the overwrite case).
func (e *Executor) Copy(src, dst string) (string, error) {
	target := dst
	if info, err := os.Stat(dst); err == nil && info.IsDir() {
		target = filepath.Join(dst, filepath.Base(src))
	}

	if e.DryRun {
		logger.Log.Info("dry run: would copy",
			zap.String("src", src),
			zap.String("dst", target))
		return target, nil
	}

	if err := util.CopyFile(src, target); err != nil {
		return target, fmt.Errorf("failed to copy %s: %w", src, err)
	}

	return target, nil
}
