package strategy

import (
	"fmt"

	"savesync/internal/model"
)

// Strategy extracts a logical save identity and a save timestamp from a
// file on disk. Identity returns model.IdentityEmpty when extraction fails
// and model.IdentityIgnore when the file must be excluded from
// reconciliation; it never panics on malformed input. Timestamp returns
// unix seconds, or 0 when the timestamp cannot be determined.
type Strategy interface {
	Name() string
	Identity(path string) model.Identity
	Timestamp(path string) float64
}

// ForName resolves a configured strategy name. The empty name selects the
// filename strategy.
func ForName(name string) (Strategy, error) {
	switch name {
	case "", NameFilename:
		return &Filename{}, nil
	case NameArchive:
		return &Archive{}, nil
	default:
		return nil, fmt.Errorf("unknown save strategy: %q", name)
	}
}

// Known reports whether name resolves to a registered strategy. Used by
// config validation so a typo fails at startup, not mid-run.
func Known(name string) bool {
	_, err := ForName(name)
	return err == nil
}
