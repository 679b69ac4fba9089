package engine

import (
	"fmt"

	"savesync/internal/executor"
	"savesync/internal/index"
	"savesync/internal/logger"
	"savesync/internal/model"
	"savesync/internal/notify"
	"savesync/internal/strategy"
	"savesync/internal/util"

	"go.uber.org/zap"
)

// HistoryStore records the outcome of every attempted copy action.
type HistoryStore interface {
	Save(record model.SyncRecord) error
}

// Summary counts what one reconciliation pass did.
type Summary struct {
	Copied    int
	InSync    int
	Conflicts int
	Failures  int
	Skipped   int // game entries skipped because a directory was unreadable
}

func (s *Summary) add(other Summary) {
	s.Copied += other.Copied
	s.InSync += other.InSync
	s.Conflicts += other.Conflicts
	s.Failures += other.Failures
	s.Skipped += other.Skipped
}

// Reconciler decides, per logical save, which side of a game entry holds
// the newer version and asks the executor to copy it to the other side.
type Reconciler struct {
	exec     *executor.Executor
	notifier notify.Notifier
	history  HistoryStore
}

// New builds a Reconciler. history may be nil when no record should be
// kept (dry runs).
func New(exec *executor.Executor, notifier notify.Notifier, history HistoryStore) *Reconciler {
	if notifier == nil {
		notifier = notify.Noop{}
	}

	return &Reconciler{exec: exec, notifier: notifier, history: history}
}

// SyncAll reconciles every game entry in turn. An unreadable directory
// skips that entry only; all other errors are per-file and already
// accounted for in the summary.
func (r *Reconciler) SyncAll(entries []model.GameEntry) Summary {
	var total Summary

	for _, entry := range entries {
		sum, err := r.SyncEntry(entry)
		total.add(sum)

		if err != nil {
			total.Skipped++
			logger.Log.Error("skipping game entry",
				zap.String("game", entry.Name),
				zap.Error(err))
		}
	}

	return total
}

// SyncEntry runs the two-pass reconciliation for one game entry.
//
// Pass one walks the client directory: saves unknown to the backup are
// copied over, diverged saves are resolved by timestamp, and
// equal-timestamp divergence is reported as a conflict and left alone.
// Both listings are then rebuilt from current disk state and pass two
// restores any save that exists only in the backup. The rebuild is what
// keeps a save copied in pass one from being copied again in pass two.
func (r *Reconciler) SyncEntry(entry model.GameEntry) (Summary, error) {
	var sum Summary

	strat, err := strategy.ForName(entry.StrategyName)
	if err != nil {
		return sum, err
	}

	client, err := index.Scan(entry.ClientPath, entry.SaveSuffix, model.SideClient, strat)
	if err != nil {
		return sum, err
	}

	backup, err := index.Scan(entry.BackupPath, entry.SaveSuffix, model.SideBackup, strat)
	if err != nil {
		return sum, err
	}

	for _, f := range client.Files() {
		id := strat.Identity(f)
		if id == model.IdentityIgnore {
			continue
		}
		if id == model.IdentityEmpty {
			r.reportExtractionFailure(f)
			sum.Failures++
			continue
		}

		counterpart, found := backup.Find(id)
		if !found {
			r.copy(entry, id, f, entry.BackupPath, model.DirectionToBackup, &sum)
			continue
		}

		equal, err := util.FilesEqual(f, counterpart.Path)
		if err != nil {
			logger.Log.Warn("failed to compare save contents",
				zap.String("game", entry.Name),
				zap.String("client", f),
				zap.String("backup", counterpart.Path),
				zap.Error(err))
			sum.Failures++
			continue
		}

		if equal {
			sum.InSync++
			continue
		}

		ord, err := Compare(strat.Timestamp(f), strat.Timestamp(counterpart.Path))
		if err != nil {
			r.notifier.Notify(
				fmt.Sprintf("Failed to sync save for %s", entry.Name),
				fmt.Sprintf("Cannot tell which side of save %q is newer: %v", id, err),
				notify.PriorityNormal)
			sum.Failures++
			continue
		}

		switch ord {
		case OrderEqual:
			r.notifier.Notify(
				fmt.Sprintf("Failed to sync save for %s", entry.Name),
				fmt.Sprintf("Save %q exists on both sides with different contents but the same modification timestamp", id),
				notify.PriorityCritical)
			sum.Conflicts++
		case OrderFirstNewer:
			r.copy(entry, id, f, counterpart.Path, model.DirectionToBackup, &sum)
		case OrderSecondNewer:
			r.copy(entry, id, counterpart.Path, f, model.DirectionToClient, &sum)
		}
	}

	// rescan so saves just written to the backup are visible
	client, err = index.Scan(entry.ClientPath, entry.SaveSuffix, model.SideClient, strat)
	if err != nil {
		return sum, err
	}

	backup, err = index.Scan(entry.BackupPath, entry.SaveSuffix, model.SideBackup, strat)
	if err != nil {
		return sum, err
	}

	for _, f := range backup.Files() {
		id := strat.Identity(f)
		if id == model.IdentityIgnore {
			continue
		}
		if id == model.IdentityEmpty {
			r.reportExtractionFailure(f)
			sum.Failures++
			continue
		}

		if _, found := client.Find(id); !found {
			r.copy(entry, id, f, entry.ClientPath, model.DirectionToClient, &sum)
		}
	}

	return sum, nil
}

func (r *Reconciler) reportExtractionFailure(path string) {
	r.notifier.Notify(
		fmt.Sprintf("Failed to extract name from save file %s", path),
		"",
		notify.PriorityNormal)
}

func (r *Reconciler) copy(entry model.GameEntry, id model.Identity, src, dst string, direction model.Direction, sum *Summary) {
	target, err := r.exec.Copy(src, dst)

	record := model.SyncRecord{
		Game:      entry.Name,
		Identity:  id,
		Direction: direction,
		SrcPath:   src,
		DstPath:   target,
		Err:       err,
	}

	if r.history != nil {
		if herr := r.history.Save(record); herr != nil {
			logger.Log.Warn("failed to save history",
				zap.Error(herr))
		}
	}

	if err != nil {
		logger.Log.Error("failed to sync save",
			zap.String("game", entry.Name),
			zap.String("identity", string(id)),
			zap.String("direction", string(direction)),
			zap.Error(err))
		sum.Failures++
		return
	}

	sum.Copied++
	logger.Log.Info("synced save",
		zap.String("game", entry.Name),
		zap.String("identity", string(id)),
		zap.String("direction", string(direction)),
		zap.String("src", src),
		zap.String("dst", target))

	word := "to"
	if direction == model.DirectionToClient {
		word = "from"
	}
	r.notifier.Notify(
		fmt.Sprintf("Synced save for %s", entry.Name),
		fmt.Sprintf("Synced save %q %s backup", string(id), word),
		notify.PriorityNormal)
}
