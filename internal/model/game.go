package model

// GameEntry is the static per-title configuration. ClientPath is where the
// game itself writes saves, BackupPath is the externally synced mirror.
// SaveSuffix, when non-empty, restricts reconciliation to files ending with
// that exact suffix. StrategyName selects the identity/timestamp extraction
// strategy registered under that name.
type GameEntry struct {
	Name         string
	ClientPath   string
	BackupPath   string
	SaveSuffix   string
	StrategyName string
}
