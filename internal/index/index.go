package index

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"savesync/internal/model"
	"savesync/internal/strategy"
)

// Listing is an ephemeral view of one save directory: the file paths that
// matched the suffix filter at scan time, plus the strategy used to key
// them. Lookups re-resolve identities on every call instead of caching, so
// a lookup always reflects what is on disk right now; save collections are
// small enough that the repeated linear scans do not matter.
type Listing struct {
	Side  model.Side
	files []string
	strat strategy.Strategy
}

// Scan lists the regular files directly inside dir (no recursion),
// keeping only those ending in suffix when suffix is non-empty. An
// unreadable directory is fatal for the owning game entry, not for the
// whole run; callers skip the entry and move on.
func Scan(dir, suffix string, side model.Side, strat strategy.Strategy) (*Listing, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", dir, err)
	}

	var files []string
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		if suffix != "" && !strings.HasSuffix(entry.Name(), suffix) {
			continue
		}
		files = append(files, filepath.Join(dir, entry.Name()))
	}

	return &Listing{Side: side, files: files, strat: strat}, nil
}

// Files returns the scanned paths in directory order.
func (l *Listing) Files() []string {
	return l.files
}

// Find returns the first file whose resolved identity equals id. Sentinel
// identities never match: files that failed extraction or are ignored stay
// invisible to lookups.
func (l *Listing) Find(id model.Identity) (model.SaveFile, bool) {
	if id.Sentinel() {
		return model.SaveFile{}, false
	}

	for _, f := range l.files {
		if l.strat.Identity(f) == id {
			return model.SaveFile{Path: f, Side: l.Side, Identity: id}, true
		}
	}

	return model.SaveFile{}, false
}
