package cssclean

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// ResolveInRoot joins a slash-separated relative path onto root and rejects
// anything that escapes it.
func ResolveInRoot(root, rel string) (string, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return "", fmt.Errorf("resolve root: %w", err)
	}
	full := filepath.Join(absRoot, filepath.FromSlash(rel))
	r, err := filepath.Rel(absRoot, full)
	if err != nil || r == ".." || strings.HasPrefix(r, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %s", ErrOutsideRoot, rel)
	}
	return full, nil
}

// backupName returns the backup path of a CSS file: <backupDir>/<rel>.backup.<unix millis>
func backupName(rel string, backupDir string, now time.Time) string {
	return filepath.ToSlash(filepath.Join(backupDir, filepath.FromSlash(rel))) +
		".backup." + strconv.FormatInt(now.UnixMilli(), 10)
}

// writeCSSFile replaces the content of an original stylesheet
var writeCSSFile = os.WriteFile

// overwriteFiles backs up every file first and only then overwrites them one by one.
// A failed backup leaves every original untouched. A failed write stops the sequence;
// earlier files keep the new content, later ones keep the old.
func overwriteFiles(root string, cssFiles []string, content string, backupDir string, now time.Time) (written, backups []string, err error) {
	for _, rel := range cssFiles {
		src, err := ResolveInRoot(root, rel)
		if err != nil {
			return nil, backups, &OverwriteError{Failed: rel, Err: err}
		}
		backup := backupName(rel, backupDir, now)
		dst, err := ResolveInRoot(root, backup)
		if err != nil {
			return nil, backups, &OverwriteError{Failed: rel, Err: err}
		}
		if err := copyFile(src, dst); err != nil {
			return nil, backups, &OverwriteError{Failed: rel, Err: fmt.Errorf("backup: %w", err)}
		}
		backups = append(backups, backup)
	}

	for _, rel := range cssFiles {
		path, err := ResolveInRoot(root, rel)
		if err != nil {
			return written, backups, &OverwriteError{Written: written, Failed: rel, Err: err}
		}
		if err := writeCSSFile(path, []byte(content), 0o644); err != nil {
			return written, backups, &OverwriteError{Written: written, Failed: rel, Err: fmt.Errorf("write: %w", err)}
		}
		written = append(written, rel)
	}

	return written, backups, nil
}

// writeOutputFile writes the reduced stylesheet to a new file under root
func writeOutputFile(root, rel, content string) error {
	path, err := ResolveInRoot(root, rel)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return &OverwriteError{Failed: rel, Err: err}
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return &OverwriteError{Failed: rel, Err: fmt.Errorf("write: %w", err)}
	}
	return nil
}

// copyFile copies src to dst and syncs dst before returning
func copyFile(src, dst string) (err error) {
	// #nosec G304 - src is a project CSS file resolved inside the root
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := out.Close(); err == nil {
			err = cerr
		}
	}()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Sync()
}
