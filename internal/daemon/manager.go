package daemon

import (
	"fmt"
	"sync"
	"time"

	"savesync/internal/config"
	"savesync/internal/engine"
	"savesync/internal/logger"
	"savesync/internal/model"
	"savesync/internal/pipeline"
	"savesync/internal/watcher"

	"go.uber.org/zap"
)

const eventBufferSize = 64

// Manager runs one watch loop per configured game: filesystem events from
// both save directories are filtered, coalesced into bursts, and every
// burst triggers a full reconciliation pass for that game. A periodic
// pass backstops anything the watcher missed.
type Manager struct {
	mu         sync.RWMutex
	games      map[string]*GameState
	cfg        *config.Config
	reconciler *engine.Reconciler
}

func NewManager(cfg *config.Config, reconciler *engine.Reconciler) *Manager {
	return &Manager{
		games:      make(map[string]*GameState),
		cfg:        cfg,
		reconciler: reconciler,
	}
}

func (m *Manager) StartGame(entry model.GameEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.games[entry.Name]; exists {
		return fmt.Errorf("game %q already watched", entry.Name)
	}

	w, err := watcher.New(eventBufferSize)
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}

	if err := w.Watch(entry.ClientPath); err != nil {
		w.Stop()
		return fmt.Errorf("failed to watch client dir: %w", err)
	}

	if err := w.Watch(entry.BackupPath); err != nil {
		w.Stop()
		return fmt.Errorf("failed to watch backup dir: %w", err)
	}

	w.Start()

	state := NewGameState(entry)
	m.games[entry.Name] = state

	go m.runLoop(state, w)

	logger.Log.Info("game watch started",
		zap.String("game", entry.Name),
		zap.String("client", entry.ClientPath),
		zap.String("backup", entry.BackupPath))

	return nil
}

func (m *Manager) runLoop(state *GameState, w *watcher.Watcher) {
	defer func() {
		w.Stop()

		m.mu.Lock()
		delete(m.games, state.Entry.Name)
		m.mu.Unlock()

		logger.Log.Info("game watch stopped",
			zap.String("game", state.Entry.Name))
	}()

	filteredCh := pipeline.Filter(w.Events(), m.cfg.IgnoreList)
	triggerCh := pipeline.Coalesce(filteredCh, time.Duration(m.cfg.CoalesceMS)*time.Millisecond)

	interval := time.Duration(m.cfg.SyncIntervalMin) * time.Minute
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	// reconcile once at startup so a backlog from before the daemon
	// started is not stuck waiting for the next change
	m.runOnce(state)

	for {
		select {
		case _, ok := <-triggerCh:
			if !ok {
				return
			}
			m.runOnce(state)

		case <-ticker.C:
			m.runOnce(state)

		case <-state.StopCh:
			return
		}
	}
}

func (m *Manager) runOnce(state *GameState) {
	sum, err := m.reconciler.SyncEntry(state.Entry)
	if err != nil {
		logger.Log.Error("reconciliation failed",
			zap.String("game", state.Entry.Name),
			zap.Error(err))
	}

	state.RecordRun(sum)
}

// SyncAll runs an immediate reconciliation pass for every watched game.
func (m *Manager) SyncAll() {
	m.mu.RLock()
	states := make([]*GameState, 0, len(m.games))
	for _, state := range m.games {
		states = append(states, state)
	}
	m.mu.RUnlock()

	for _, state := range states {
		m.runOnce(state)
	}
}

func (m *Manager) StopGame(name string) error {
	m.mu.RLock()
	state, exists := m.games[name]
	m.mu.RUnlock()

	if !exists {
		return fmt.Errorf("game %q not watched", name)
	}

	state.StopCh <- struct{}{}
	return nil
}

func (m *Manager) StopAll() {
	m.mu.RLock()
	names := make([]string, 0, len(m.games))
	for name := range m.games {
		names = append(names, name)
	}
	m.mu.RUnlock()

	for _, name := range names {
		_ = m.StopGame(name)
	}
}

func (m *Manager) Snapshots() []model.GameSnapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	snaps := make([]model.GameSnapshot, 0, len(m.games))
	for _, state := range m.games {
		snaps = append(snaps, state.Snapshot())
	}

	return snaps
}
