package engine

import (
	"archive/zip"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"savesync/internal/executor"
	"savesync/internal/model"
	"savesync/internal/notify"
	"savesync/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordedEvent struct {
	title    string
	message  string
	priority notify.Priority
}

type eventRecorder struct {
	events []recordedEvent
}

func (r *eventRecorder) Notify(title, message string, priority notify.Priority) {
	r.events = append(r.events, recordedEvent{title, message, priority})
}

func (r *eventRecorder) critical() []recordedEvent {
	var out []recordedEvent
	for _, e := range r.events {
		if e.priority == notify.PriorityCritical {
			out = append(out, e)
		}
	}
	return out
}

type memHistory struct {
	records []model.SyncRecord
}

func (m *memHistory) Save(record model.SyncRecord) error {
	m.records = append(m.records, record)
	return nil
}

func newTestReconciler() (*Reconciler, *eventRecorder, *memHistory) {
	rec := &eventRecorder{}
	hist := &memHistory{}
	return New(&executor.Executor{}, rec, hist), rec, hist
}

func testEntry(t *testing.T, strategyName string) model.GameEntry {
	t.Helper()

	return model.GameEntry{
		Name:         "TestGame",
		ClientPath:   t.TempDir(),
		BackupPath:   t.TempDir(),
		SaveSuffix:   "savegame",
		StrategyName: strategyName,
	}
}

func writeSave(t *testing.T, dir, name, content string, mtime time.Time) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	require.NoError(t, os.Chtimes(path, mtime, mtime))
	return path
}

func readSave(t *testing.T, path string) string {
	t.Helper()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestSyncEntryClientOnlySaveCopiedToBackup(t *testing.T) {
	entry := testEntry(t, "filename")
	reconciler, events, hist := newTestReconciler()

	writeSave(t, entry.ClientPath, "hero.savegame", "progress", time.Now())

	sum, err := reconciler.SyncEntry(entry)
	require.NoError(t, err)

	assert.Equal(t, 1, sum.Copied)
	assert.Equal(t, "progress", readSave(t, filepath.Join(entry.BackupPath, "hero.savegame")))

	require.Len(t, events.events, 1)
	assert.Equal(t, "Synced save for TestGame", events.events[0].title)
	assert.Equal(t, notify.PriorityNormal, events.events[0].priority)

	require.Len(t, hist.records, 1)
	assert.Equal(t, model.DirectionToBackup, hist.records[0].Direction)
	assert.Equal(t, model.Identity("hero.savegame"), hist.records[0].Identity)
}

func TestSyncEntryBackupOnlySaveRestored(t *testing.T) {
	entry := testEntry(t, "filename")
	reconciler, events, hist := newTestReconciler()

	writeSave(t, entry.BackupPath, "hero.savegame", "progress", time.Now())

	sum, err := reconciler.SyncEntry(entry)
	require.NoError(t, err)

	assert.Equal(t, 1, sum.Copied)
	assert.Equal(t, "progress", readSave(t, filepath.Join(entry.ClientPath, "hero.savegame")))

	require.Len(t, events.events, 1)
	require.Len(t, hist.records, 1)
	assert.Equal(t, model.DirectionToClient, hist.records[0].Direction)
}

func TestSyncEntryIdenticalContentNoAction(t *testing.T) {
	entry := testEntry(t, "filename")
	reconciler, events, hist := newTestReconciler()

	now := time.Now()
	writeSave(t, entry.ClientPath, "hero.savegame", "progress", now)
	writeSave(t, entry.BackupPath, "hero.savegame", "progress", now.Add(-time.Hour))

	sum, err := reconciler.SyncEntry(entry)
	require.NoError(t, err)

	assert.Equal(t, 0, sum.Copied)
	assert.Equal(t, 1, sum.InSync)
	assert.Empty(t, events.events)
	assert.Empty(t, hist.records)
}

func TestSyncEntryClientNewerWins(t *testing.T) {
	entry := testEntry(t, "filename")
	reconciler, events, hist := newTestReconciler()

	now := time.Now()
	writeSave(t, entry.ClientPath, "hero.savegame", "newer", now)
	writeSave(t, entry.BackupPath, "hero.savegame", "older", now.Add(-time.Minute))

	sum, err := reconciler.SyncEntry(entry)
	require.NoError(t, err)

	assert.Equal(t, 1, sum.Copied)
	assert.Equal(t, "newer", readSave(t, filepath.Join(entry.BackupPath, "hero.savegame")))
	assert.Equal(t, "newer", readSave(t, filepath.Join(entry.ClientPath, "hero.savegame")))

	require.Len(t, events.events, 1)
	require.Len(t, hist.records, 1)
	assert.Equal(t, model.DirectionToBackup, hist.records[0].Direction)
}

func TestSyncEntryBackupNewerWins(t *testing.T) {
	entry := testEntry(t, "filename")
	reconciler, _, hist := newTestReconciler()

	now := time.Now()
	writeSave(t, entry.ClientPath, "hero.savegame", "older", now.Add(-time.Minute))
	writeSave(t, entry.BackupPath, "hero.savegame", "newer", now)

	sum, err := reconciler.SyncEntry(entry)
	require.NoError(t, err)

	assert.Equal(t, 1, sum.Copied)
	assert.Equal(t, "newer", readSave(t, filepath.Join(entry.ClientPath, "hero.savegame")))

	require.Len(t, hist.records, 1)
	assert.Equal(t, model.DirectionToClient, hist.records[0].Direction)
}

func TestSyncEntrySameTimestampDivergenceIsConflict(t *testing.T) {
	entry := testEntry(t, "filename")
	reconciler, events, hist := newTestReconciler()

	now := time.Now()
	writeSave(t, entry.ClientPath, "hero.savegame", "version a", now)
	writeSave(t, entry.BackupPath, "hero.savegame", "version b", now)

	sum, err := reconciler.SyncEntry(entry)
	require.NoError(t, err)

	assert.Equal(t, 0, sum.Copied)
	assert.Equal(t, 1, sum.Conflicts)
	assert.Empty(t, hist.records)

	// nothing overwritten
	assert.Equal(t, "version a", readSave(t, filepath.Join(entry.ClientPath, "hero.savegame")))
	assert.Equal(t, "version b", readSave(t, filepath.Join(entry.BackupPath, "hero.savegame")))

	critical := events.critical()
	require.Len(t, critical, 1)
	assert.Contains(t, critical[0].message, "hero.savegame")
	assert.Contains(t, critical[0].message, "same modification timestamp")
	require.Len(t, events.events, 1)
}

func TestSyncEntrySuffixFilterSkipsOtherFiles(t *testing.T) {
	entry := testEntry(t, "filename")
	reconciler, _, _ := newTestReconciler()

	writeSave(t, entry.ClientPath, "hero.savegame", "progress", time.Now())
	writeSave(t, entry.ClientPath, "notes.txt", "not a save", time.Now())

	sum, err := reconciler.SyncEntry(entry)
	require.NoError(t, err)

	assert.Equal(t, 1, sum.Copied)
	_, err = os.Stat(filepath.Join(entry.BackupPath, "notes.txt"))
	assert.True(t, os.IsNotExist(err))
}

func TestSyncEntryIdempotent(t *testing.T) {
	entry := testEntry(t, "filename")
	reconciler, _, _ := newTestReconciler()

	now := time.Now()
	writeSave(t, entry.ClientPath, "hero.savegame", "one", now)
	writeSave(t, entry.ClientPath, "villain.savegame", "two", now)
	writeSave(t, entry.BackupPath, "ranger.savegame", "three", now)

	first, err := reconciler.SyncEntry(entry)
	require.NoError(t, err)
	assert.Equal(t, 3, first.Copied)

	second, err := reconciler.SyncEntry(entry)
	require.NoError(t, err)
	assert.Equal(t, 0, second.Copied)
	assert.Equal(t, 3, second.InSync)
	assert.Equal(t, 0, second.Conflicts)
	assert.Equal(t, 0, second.Failures)
}

func TestSyncAllSkipsUnreadableEntry(t *testing.T) {
	broken := model.GameEntry{
		Name:         "Broken",
		ClientPath:   filepath.Join(t.TempDir(), "does-not-exist"),
		BackupPath:   t.TempDir(),
		StrategyName: "filename",
	}
	healthy := testEntry(t, "filename")

	reconciler, _, _ := newTestReconciler()
	writeSave(t, healthy.ClientPath, "hero.savegame", "progress", time.Now())

	sum := reconciler.SyncAll([]model.GameEntry{broken, healthy})

	assert.Equal(t, 1, sum.Skipped)
	assert.Equal(t, 1, sum.Copied)
	assert.FileExists(t, filepath.Join(healthy.BackupPath, "hero.savegame"))
}

func TestSyncEntryUnknownStrategy(t *testing.T) {
	entry := testEntry(t, "nope")
	reconciler, _, _ := newTestReconciler()

	_, err := reconciler.SyncEntry(entry)
	assert.Error(t, err)
}

// writeArchiveSave builds a zip-packaged save with a saveinfo.xml metadata
// document, the shape the archive strategy consumes.
func writeArchiveSave(t *testing.T, dir, name, saveName, timestamp, payload string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	require.NoError(t, err)

	zw := zip.NewWriter(f)

	meta, err := zw.Create("saveinfo.xml")
	require.NoError(t, err)

	xmlDoc := "<SaveGameInfo><Data>"
	if saveName != "" {
		xmlDoc += fmt.Sprintf(`<Simple name="UserSaveName" value="%s"/>`, saveName)
	}
	if timestamp != "" {
		xmlDoc += fmt.Sprintf(`<Simple name="RealTimestamp" value="%s"/>`, timestamp)
	}
	xmlDoc += "</Data></SaveGameInfo>"
	_, err = meta.Write([]byte(xmlDoc))
	require.NoError(t, err)

	data, err := zw.Create("save.dat")
	require.NoError(t, err)
	_, err = data.Write([]byte(payload))
	require.NoError(t, err)

	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())
	return path
}

func TestSyncEntryArchiveSaveMatchedByEmbeddedName(t *testing.T) {
	entry := testEntry(t, "archive")
	reconciler, events, hist := newTestReconciler()

	writeArchiveSave(t, entry.ClientPath,
		"Chapter2 MyHero.savegame", "Boss Fight", "03/15/2026 18:22:41", "payload")

	sum, err := reconciler.SyncEntry(entry)
	require.NoError(t, err)

	assert.Equal(t, 1, sum.Copied)
	require.Len(t, events.events, 1)
	require.Len(t, hist.records, 1)
	assert.Equal(t, model.Identity("Boss Fight"), hist.records[0].Identity)

	// the copy resolves to the same identity on the backup side
	copied := filepath.Join(entry.BackupPath, "Chapter2 MyHero.savegame")
	assert.FileExists(t, copied)

	second, err := reconciler.SyncEntry(entry)
	require.NoError(t, err)
	assert.Equal(t, 0, second.Copied)
}

func TestSyncEntryArchiveMatchesRenamedCounterpart(t *testing.T) {
	entry := testEntry(t, "archive")
	reconciler, _, _ := newTestReconciler()

	// same logical save, different on-disk names on the two sides
	client := writeArchiveSave(t, entry.ClientPath,
		"Chapter3 MyHero.savegame", "Boss Fight", "03/15/2026 19:00:00", "newer payload")
	old := writeArchiveSave(t, entry.BackupPath,
		"Chapter2 MyHero.savegame", "Boss Fight", "03/15/2026 18:22:41", "older payload")

	sum, err := reconciler.SyncEntry(entry)
	require.NoError(t, err)

	assert.Equal(t, 1, sum.Copied)
	assert.Equal(t, 0, sum.Conflicts)

	// backup counterpart overwritten in place under its old name
	equal, err := util.FilesEqual(client, old)
	require.NoError(t, err)
	assert.True(t, equal)
}

func TestSyncEntryAutosaveIgnoredEntirely(t *testing.T) {
	entry := testEntry(t, "archive")
	reconciler, events, hist := newTestReconciler()

	// autosaves are skipped before the archive is even opened, so plain
	// bytes are enough here
	writeSave(t, entry.ClientPath, "Chapter2 autosave_001.savegame", "junk", time.Now())

	sum, err := reconciler.SyncEntry(entry)
	require.NoError(t, err)

	assert.Equal(t, 0, sum.Copied)
	assert.Equal(t, 0, sum.Failures)
	assert.Empty(t, events.events)
	assert.Empty(t, hist.records)

	entries, err := os.ReadDir(entry.BackupPath)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestSyncEntryMalformedNameReportedAndSkipped(t *testing.T) {
	entry := testEntry(t, "archive")
	reconciler, events, _ := newTestReconciler()

	// no internal whitespace: identity extraction fails
	writeSave(t, entry.ClientPath, "corrupted.savegame", "junk", time.Now())

	sum, err := reconciler.SyncEntry(entry)
	require.NoError(t, err)

	assert.Equal(t, 1, sum.Failures)
	assert.Equal(t, 0, sum.Copied)
	require.Len(t, events.events, 1)
	assert.Equal(t, notify.PriorityNormal, events.events[0].priority)
	assert.Contains(t, events.events[0].title, "Failed to extract name")
}

func TestSyncEntryMissingTimestampIsRecoverable(t *testing.T) {
	entry := testEntry(t, "archive")
	reconciler, events, hist := newTestReconciler()

	// same identity, different contents, no RealTimestamp field on either
	// side: the pair is reported and skipped, the run keeps going
	writeArchiveSave(t, entry.ClientPath,
		"Chapter2 MyHero.savegame", "Boss Fight", "", "payload a")
	writeArchiveSave(t, entry.BackupPath,
		"Chapter2 MyHero.savegame", "Boss Fight", "", "payload b")
	writeArchiveSave(t, entry.ClientPath,
		"Chapter9 Other.savegame", "Other Save", "03/15/2026 20:00:00", "payload c")

	sum, err := reconciler.SyncEntry(entry)
	require.NoError(t, err)

	assert.Equal(t, 0, sum.Conflicts)
	assert.Equal(t, 1, sum.Failures)
	assert.Equal(t, 1, sum.Copied, "the undecidable pair must not stop the rest of the run")
	require.Len(t, hist.records, 1)
	assert.Equal(t, model.Identity("Other Save"), hist.records[0].Identity)

	var found bool
	for _, e := range events.events {
		if e.priority == notify.PriorityNormal && e.title == "Failed to sync save for TestGame" {
			found = true
		}
	}
	assert.True(t, found, "timestamp failure must be surfaced")
}
