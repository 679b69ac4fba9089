package strategy

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"savesync/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilenameIdentity(t *testing.T) {
	strat := &Filename{}

	tests := map[string]struct {
		path string
		want model.Identity
	}{
		"plain name":    {path: "/saves/hero.savegame", want: "hero.savegame"},
		"nested path":   {path: "/a/b/c/quick.savegame", want: "quick.savegame"},
		"name with dot": {path: "/saves/ng+.final.savegame", want: "ng+.final.savegame"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tt.want, strat.Identity(tt.path))
		})
	}
}

func TestFilenameTimestamp(t *testing.T) {
	strat := &Filename{}

	path := filepath.Join(t.TempDir(), "hero.savegame")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0644))

	mtime := time.Date(2026, 3, 15, 18, 22, 41, 0, time.Local)
	require.NoError(t, os.Chtimes(path, mtime, mtime))

	got := strat.Timestamp(path)
	assert.InDelta(t, float64(mtime.Unix()), got, 0.001)
}

func TestFilenameTimestampMissingFile(t *testing.T) {
	strat := &Filename{}

	got := strat.Timestamp(filepath.Join(t.TempDir(), "gone.savegame"))
	assert.Zero(t, got)
}
