package model

import "time"

// GameSnapshot is the daemon's point-in-time view of one watched game.
type GameSnapshot struct {
	Game      string     `json:"game"`
	Client    string     `json:"client"`
	Backup    string     `json:"backup"`
	StartedAt time.Time  `json:"started_at"`
	Runs      int        `json:"runs"`
	Copied    int        `json:"copied"`
	Conflicts int        `json:"conflicts"`
	Failures  int        `json:"failures"`
	LastRun   *time.Time `json:"last_run"`
}
