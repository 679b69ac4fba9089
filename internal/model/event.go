package model

import "time"

type EventType string

const (
	EventCreate EventType = "CREATE"
	EventWrite  EventType = "WRITE"
	EventRemove EventType = "REMOVE"
	EventRename EventType = "RENAME"
)

// FileEvent is a raw filesystem change observed in one of a game's
// directories, before filtering and coalescing.
type FileEvent struct {
	Type      EventType
	Path      string
	Timestamp time.Time
}
