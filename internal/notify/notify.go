package notify

// Priority of a user-facing event.
type Priority string

const (
	PriorityNormal   Priority = "normal"
	PriorityCritical Priority = "critical"
)

// Notifier surfaces human-readable reconciliation events. It is a pure
// side-effecting sink: the engine never inspects a result, and a failing
// notifier must never fail a sync.
type Notifier interface {
	Notify(title, message string, priority Priority)
}

// Noop drops every event. Used for --no-notify runs.
type Noop struct{}

func (Noop) Notify(string, string, Priority) {}
