package cssclean

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveInRoot(t *testing.T) {
	root := t.TempDir()

	tests := []struct {
		rel     string
		want    string
		wantErr bool
	}{
		{"a.css", filepath.Join(root, "a.css"), false},
		{"styles/b.css", filepath.Join(root, "styles", "b.css"), false},
		{"styles/../a.css", filepath.Join(root, "a.css"), false},
		{"", root, false},
		{"../a.css", "", true},
		{"styles/../../a.css", "", true},
		{"..", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.rel, func(t *testing.T) {
			got, err := ResolveInRoot(root, tt.rel)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrOutsideRoot)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBackupName(t *testing.T) {
	assert.Equal(t, "backup/styles/b.css.backup.1772366400000", backupName("styles/b.css", "backup", testTime))
	assert.Equal(t, "old/a.css.backup.1772366400000", backupName("a.css", "old/", testTime))
}

func TestOverwriteFiles(t *testing.T) {
	root := writeProject(t, map[string]string{
		"a.css": "a",
		"b.css": "b",
	})

	written, backups, err := overwriteFiles(root, []string{"a.css", "b.css"}, "new", "backup", testTime)
	require.NoError(t, err)
	assert.Equal(t, []string{"a.css", "b.css"}, written)
	assert.Len(t, backups, 2)

	assert.Equal(t, "new", readFile(t, filepath.Join(root, "a.css")))
	assert.Equal(t, "new", readFile(t, filepath.Join(root, "b.css")))
	assert.Equal(t, "a", readFile(t, filepath.Join(root, filepath.FromSlash(backups[0]))))
	assert.Equal(t, "b", readFile(t, filepath.Join(root, filepath.FromSlash(backups[1]))))
}

func TestOverwriteFilesWriteFailure(t *testing.T) {
	root := writeProject(t, map[string]string{
		"a.css":        "a",
		"styles/b.css": "b",
		"c.css":        "c",
	})

	diskFull := errors.New("no space left on device")
	orig := writeCSSFile
	writeCSSFile = func(name string, data []byte, perm os.FileMode) error {
		if filepath.Base(name) == "b.css" {
			return diskFull
		}
		return orig(name, data, perm)
	}
	t.Cleanup(func() { writeCSSFile = orig })

	written, backups, err := overwriteFiles(root, []string{"a.css", "styles/b.css", "c.css"}, "new", "backup", testTime)
	require.Error(t, err)
	require.ErrorIs(t, err, diskFull)

	var overwriteErr *OverwriteError
	require.ErrorAs(t, err, &overwriteErr)
	assert.Equal(t, []string{"a.css"}, overwriteErr.Written)
	assert.Equal(t, "styles/b.css", overwriteErr.Failed)
	assert.Equal(t, KindPersistence, Kind(err))
	assert.Equal(t, []string{"a.css"}, written)

	// Every backup was made before the first write
	assert.Len(t, backups, 3)

	assert.Equal(t, "new", readFile(t, filepath.Join(root, "a.css")))
	assert.Equal(t, "b", readFile(t, filepath.Join(root, "styles", "b.css")))
	assert.Equal(t, "c", readFile(t, filepath.Join(root, "c.css")))
}
