package daemon

import (
	"sync"
	"time"

	"savesync/internal/engine"
	"savesync/internal/model"
)

type GameState struct {
	mu        sync.RWMutex
	Entry     model.GameEntry
	StartedAt time.Time
	runs      int
	copied    int
	conflicts int
	failures  int
	lastRun   *time.Time
	StopCh    chan struct{}
}

func NewGameState(entry model.GameEntry) *GameState {
	return &GameState{
		Entry:     entry,
		StartedAt: time.Now(),
		StopCh:    make(chan struct{}, 1),
	}
}

func (s *GameState) RecordRun(sum engine.Summary) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	s.lastRun = &now
	s.runs++
	s.copied += sum.Copied
	s.conflicts += sum.Conflicts
	s.failures += sum.Failures
}

func (s *GameState) Snapshot() model.GameSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return model.GameSnapshot{
		Game:      s.Entry.Name,
		Client:    s.Entry.ClientPath,
		Backup:    s.Entry.BackupPath,
		StartedAt: s.StartedAt,
		Runs:      s.runs,
		Copied:    s.copied,
		Conflicts: s.conflicts,
		Failures:  s.failures,
		LastRun:   s.lastRun,
	}
}
