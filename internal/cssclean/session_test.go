package cssclean

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// projectSnapshot writes the given CSS files under a temp root and returns a
// snapshot whose records all come from them
func projectSnapshot(t *testing.T, cssFiles map[string]string) (*Snapshot, string) {
	t.Helper()
	root := t.TempDir()

	var names []string
	for name, content := range cssFiles {
		path := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
		names = append(names, name)
	}

	snap := sampleSnapshot()
	snap.ProjectRoot = root
	snap.Files = Files{HTML: []string{"index.html"}, CSS: names}
	return snap, root
}

func TestSessionSaveNewFile(t *testing.T) {
	snap, root := projectSnapshot(t, map[string]string{"main.css": "original"})
	session := NewSession(snap, nil)

	res, err := session.Save(SaveOptions{Filename: "out/cleaned.css"})
	require.NoError(t, err)

	assert.False(t, res.Overwritten)
	assert.Equal(t, "out/cleaned.css", res.OutputPath)
	assert.Equal(t, []string{"out/cleaned.css"}, res.SavedFiles)
	assert.Equal(t, "session.json", res.SessionPath)
	assert.Equal(t, session.ExportCSS(), readFile(t, filepath.Join(root, "out", "cleaned.css")))
	assert.Equal(t, len(session.ExportCSS()), res.Size)
	assert.Equal(t, "original", readFile(t, filepath.Join(root, "main.css")))

	loaded, err := LoadSessionFile(filepath.Join(root, "session.json"))
	require.NoError(t, err)
	assert.Equal(t, snap.Records(), loaded.Records())
}

func TestSessionSaveOverwrite(t *testing.T) {
	snap, root := projectSnapshot(t, map[string]string{
		"a.css":        ".card { padding: 1rem; }",
		"styles/b.css": ".old-banner { display: none; }",
	})
	snap.Files.CSS = []string{"a.css", "styles/b.css"}
	session := NewSession(snap, nil)

	res, err := session.Save(SaveOptions{Overwrite: true, Now: testTime})
	require.NoError(t, err)

	assert.True(t, res.Overwritten)
	assert.Equal(t, "Original CSS files", res.OutputPath)
	assert.Equal(t, []string{"a.css", "styles/b.css"}, res.SavedFiles)

	suffix := ".backup.1772366400000"
	assert.Equal(t, []string{"backup/a.css" + suffix, "backup/styles/b.css" + suffix}, res.Backups)

	t.Run("backups hold the previous content", func(t *testing.T) {
		assert.Equal(t, ".card { padding: 1rem; }", readFile(t, filepath.Join(root, "backup", "a.css"+suffix)))
		assert.Equal(t, ".old-banner { display: none; }", readFile(t, filepath.Join(root, "backup", "styles", "b.css"+suffix)))
	})

	t.Run("every original receives the same export", func(t *testing.T) {
		export := session.ExportCSS()
		assert.Equal(t, export, readFile(t, filepath.Join(root, "a.css")))
		assert.Equal(t, export, readFile(t, filepath.Join(root, "styles", "b.css")))
	})
}

func TestSessionSaveOverwriteBackupFailure(t *testing.T) {
	snap, root := projectSnapshot(t, map[string]string{"a.css": "keep me"})
	// A directory where a stylesheet should be cannot be backed up
	require.NoError(t, os.MkdirAll(filepath.Join(root, "b.css"), 0755))
	snap.Files.CSS = []string{"a.css", "b.css"}
	session := NewSession(snap, nil)

	_, err := session.Save(SaveOptions{Overwrite: true, Now: testTime})
	require.Error(t, err)

	var overwriteErr *OverwriteError
	require.True(t, errors.As(err, &overwriteErr))
	assert.Equal(t, "b.css", overwriteErr.Failed)
	assert.Empty(t, overwriteErr.Written)
	assert.Equal(t, KindPersistence, Kind(err))

	assert.Equal(t, "keep me", readFile(t, filepath.Join(root, "a.css")), "no original is written before every backup exists")
	assert.NoFileExists(t, filepath.Join(root, "session.json"))
}

func TestSessionSaveOverwriteWriteFailure(t *testing.T) {
	snap, root := projectSnapshot(t, map[string]string{
		"a.css": "first",
		"b.css": "second",
	})
	snap.Files.CSS = []string{"a.css", "b.css"}
	session := NewSession(snap, nil)

	orig := writeCSSFile
	writeCSSFile = func(name string, data []byte, perm os.FileMode) error {
		if filepath.Base(name) == "b.css" {
			return os.ErrPermission
		}
		return orig(name, data, perm)
	}
	t.Cleanup(func() { writeCSSFile = orig })

	res, err := session.Save(SaveOptions{Overwrite: true, Now: testTime})
	require.Error(t, err)

	var overwriteErr *OverwriteError
	require.True(t, errors.As(err, &overwriteErr))
	assert.Equal(t, []string{"a.css"}, overwriteErr.Written)
	assert.Equal(t, "b.css", overwriteErr.Failed)
	assert.Equal(t, []string{"a.css"}, res.SavedFiles)
	assert.Len(t, res.Backups, 2)

	assert.Equal(t, session.ExportCSS(), readFile(t, filepath.Join(root, "a.css")))
	assert.Equal(t, "second", readFile(t, filepath.Join(root, "b.css")))
	assert.NoFileExists(t, filepath.Join(root, "session.json"))
}

func TestSessionEncode(t *testing.T) {
	session := NewSession(sampleSnapshot(), nil)

	var buf bytes.Buffer
	require.NoError(t, session.Encode(&buf))

	loaded, err := ReadSnapshot(&buf)
	require.NoError(t, err)
	assert.Equal(t, session.Snapshot().Records(), loaded.Records())
}

func TestSessionSaveRejectsEscapingPath(t *testing.T) {
	snap, _ := projectSnapshot(t, map[string]string{"main.css": "x"})
	session := NewSession(snap, nil)

	_, err := session.Save(SaveOptions{Filename: "../outside.css"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrOutsideRoot))
	assert.Equal(t, KindForbidden, Kind(err))
}

func TestSessionRestore(t *testing.T) {
	session := NewSession(sampleSnapshot(), nil)
	session.ToggleAll(false)

	stats, err := session.Restore(RestoreOriginal)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Active)

	stats, err = session.Restore(RestoreAll)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Active)

	_, err = session.Restore("everything")
	require.Error(t, err)
	assert.Equal(t, KindBadRequest, Kind(err))
}

func TestSessionConcurrentToggles(t *testing.T) {
	session := NewSession(sampleSnapshot(), nil)
	selectors := []string{".card", ".card-title", ".old-banner"}

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, _, _ = session.Toggle(selectors[i%len(selectors)], i%2 == 0)
			_ = session.ExportCSS()
		}(i)
	}
	wg.Wait()

	stats := session.Stats()
	assert.Equal(t, 3, stats.Total)
	assert.Equal(t, stats.Total, stats.Active+stats.Disabled)
}

func TestSessionSnapshotIsDetached(t *testing.T) {
	session := NewSession(sampleSnapshot(), nil)
	copied := session.Snapshot()

	_, err := copied.Toggle(".card", false)
	require.NoError(t, err)

	rec, ok := session.Lookup(".card")
	require.True(t, ok)
	assert.True(t, rec.Active)
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}
