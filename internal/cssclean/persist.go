package cssclean

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// WriteSnapshot serializes a snapshot as indented JSON
func WriteSnapshot(w io.Writer, s *Snapshot) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	encoder.SetEscapeHTML(false)
	return encoder.Encode(s)
}

// ReadSnapshot restores a snapshot written by WriteSnapshot, verdicts and toggles included.
// Stats are recounted from the records rather than trusted.
func ReadSnapshot(r io.Reader) (*Snapshot, error) {
	var s Snapshot
	if err := json.NewDecoder(r).Decode(&s); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	if s.Selectors == nil {
		return nil, fmt.Errorf("decode session: missing selectors")
	}
	if s.Files.HTML == nil {
		s.Files.HTML = []string{}
	}
	if s.Files.CSS == nil {
		s.Files.CSS = []string{}
	}
	s.Stats = s.ComputeStats()
	return &s, nil
}

// LoadSessionFile reads a persisted session
func LoadSessionFile(path string) (*Snapshot, error) {
	// #nosec G304 - session path is chosen by the operator
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open session: %w", err)
	}
	defer f.Close()
	return ReadSnapshot(f)
}

// SaveSessionFile writes a session next to a temporary file and renames it into place
func SaveSessionFile(path string, s *Snapshot) error {
	var buf bytes.Buffer
	if err := WriteSnapshot(&buf, s); err != nil {
		return fmt.Errorf("encode session: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	return nil
}
