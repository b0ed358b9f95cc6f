package cssclean

import (
	"fmt"
	"io"
	"sync"

	"go.uber.org/zap"
)

// Restore modes accepted by Session.Restore
const (
	RestoreOriginal = "original"
	RestoreAll      = "all"
)

// Session owns the one live snapshot of a process. Every operation holds the
// session lock for its whole duration, so a save never observes a half-applied toggle.
type Session struct {
	mu   sync.Mutex
	snap *Snapshot
	log  *zap.Logger
}

// NewSession wraps a snapshot
func NewSession(snap *Snapshot, logger *zap.Logger) *Session {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Session{snap: snap, log: logger}
}

// Toggle sets one selector's active flag
func (s *Session) Toggle(selector string, active bool) (SelectorRecord, Stats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, err := s.snap.Toggle(selector, active)
	if err != nil {
		return SelectorRecord{}, s.snap.Stats, err
	}
	s.log.Debug("Toggled selector", zap.String("selector", selector), zap.Bool("active", active))
	return rec, s.snap.Stats, nil
}

// ToggleAll sets every selector's active flag
func (s *Session) ToggleAll(active bool) Stats {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snap.ToggleAll(active)
	s.log.Debug("Toggled all selectors", zap.Bool("active", active))
	return s.snap.Stats
}

// RestoreOriginal reverts to the classifier's verdicts
func (s *Session) RestoreOriginal() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snap.RestoreOriginal()
	s.log.Debug("Restored original state")
	return s.snap.Stats
}

// RestoreAll enables every selector
func (s *Session) RestoreAll() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snap.RestoreAll()
	s.log.Debug("Restored all selectors to active")
	return s.snap.Stats
}

// Restore dispatches on a restore mode name
func (s *Session) Restore(mode string) (Stats, error) {
	switch mode {
	case RestoreOriginal:
		return s.RestoreOriginal(), nil
	case RestoreAll:
		return s.RestoreAll(), nil
	default:
		return s.Stats(), fmt.Errorf("%w: %q", ErrInvalidRestoreMode, mode)
	}
}

// Stats returns the current counts
func (s *Session) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snap.ComputeStats()
}

// ExportCSS returns the reduced stylesheet for the current toggles
func (s *Session) ExportCSS() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snap.ExportCSS()
}

// Lookup returns a copy of one record
func (s *Session) Lookup(selector string) (SelectorRecord, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snap.Lookup(selector)
}

// ProjectRoot returns the directory the snapshot was analyzed from
func (s *Session) ProjectRoot() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snap.ProjectRoot
}

// Snapshot returns a deep copy of the current snapshot
func (s *Session) Snapshot() *Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	files := Files{
		HTML: append([]string{}, s.snap.Files.HTML...),
		CSS:  append([]string{}, s.snap.Files.CSS...),
	}
	return NewSnapshot(s.snap.ProjectRoot, files, s.snap.Records(), s.snap.Timestamp)
}

// Encode writes the current snapshot as session JSON
func (s *Session) Encode(w io.Writer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return WriteSnapshot(w, s.snap)
}

// Save exports the active selectors and persists the session, as one operation.
//
// With Overwrite, every original CSS file is backed up before any of them is
// rewritten, and each receives the same reduced stylesheet. Otherwise the
// stylesheet goes to opts.Filename. The session file is written last.
func (s *Session) Save(opts SaveOptions) (*SaveResult, error) {
	opts.defaults()

	s.mu.Lock()
	defer s.mu.Unlock()

	root := s.snap.ProjectRoot
	content := s.snap.ExportCSS()
	result := &SaveResult{
		Overwritten: opts.Overwrite,
		Size:        len(content),
	}

	if opts.Overwrite {
		written, backups, err := overwriteFiles(root, s.snap.Files.CSS, content, opts.BackupDir, opts.Now)
		result.SavedFiles = written
		result.Backups = backups
		if err != nil {
			s.log.Error("Overwrite failed", zap.Strings("written", written), zap.Error(err))
			return result, err
		}
		result.OutputPath = "Original CSS files"
		for i, rel := range written {
			s.log.Info("Overwritten CSS file", zap.String("file", rel), zap.String("backup", backups[i]))
		}
	} else {
		if err := writeOutputFile(root, opts.Filename, content); err != nil {
			return result, err
		}
		result.OutputPath = opts.Filename
		result.SavedFiles = []string{opts.Filename}
		s.log.Info("Saved cleaned CSS", zap.String("file", opts.Filename), zap.Int("bytes", len(content)))
	}

	sessionPath, err := ResolveInRoot(root, opts.SessionFile)
	if err != nil {
		return result, err
	}
	if err := SaveSessionFile(sessionPath, s.snap); err != nil {
		return result, &OverwriteError{Written: result.SavedFiles, Failed: opts.SessionFile, Err: err}
	}
	result.SessionPath = opts.SessionFile
	result.Stats = s.snap.ComputeStats()

	return result, nil
}
