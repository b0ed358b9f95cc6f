package cssclean

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Snapshot is the full state of one analysis run
type Snapshot struct {
	Timestamp   time.Time    `json:"timestamp"`
	ProjectRoot string       `json:"projectRoot"`
	Selectors   *SelectorMap `json:"selectors"`
	Stats       Stats        `json:"stats"`
	Files       Files        `json:"files"`
}

// NewSnapshot builds a snapshot from freshly classified records.
// It panics on a duplicate selector, which means the rule store is broken.
func NewSnapshot(root string, files Files, records []SelectorRecord, now time.Time) *Snapshot {
	m := NewSelectorMap()
	for _, r := range records {
		if !m.add(r) {
			panic(fmt.Sprintf("cssclean: duplicate selector record %q", r.Selector))
		}
	}
	s := &Snapshot{
		Timestamp:   now,
		ProjectRoot: root,
		Selectors:   m,
		Files:       files,
	}
	s.Stats = s.ComputeStats()
	return s
}

// Toggle sets the active flag of one selector
func (s *Snapshot) Toggle(selector string, active bool) (SelectorRecord, error) {
	rec, ok := s.Selectors.index[selector]
	if !ok {
		return SelectorRecord{}, fmt.Errorf("%w: %q", ErrSelectorNotFound, selector)
	}
	rec.Active = active
	s.Stats = s.ComputeStats()
	return *rec, nil
}

// ToggleAll sets every selector's active flag to the same value
func (s *Snapshot) ToggleAll(active bool) {
	for _, rec := range s.Selectors.records {
		rec.Active = active
	}
	s.Stats = s.ComputeStats()
}

// RestoreOriginal reverts every manual toggle: active = !unused
func (s *Snapshot) RestoreOriginal() {
	for _, rec := range s.Selectors.records {
		rec.Active = !rec.Unused
	}
	s.Stats = s.ComputeStats()
}

// RestoreAll enables every selector, unused or not
func (s *Snapshot) RestoreAll() {
	s.ToggleAll(true)
}

// ComputeStats recounts every record
func (s *Snapshot) ComputeStats() Stats {
	var st Stats
	for _, rec := range s.Selectors.records {
		st.Total++
		if rec.Unused {
			st.Unused++
		}
		if rec.Active {
			st.Active++
		}
	}
	st.Used = st.Total - st.Unused
	st.Disabled = st.Total - st.Active
	return st
}

// ExportCSS concatenates the rule text of every active selector in insertion order
func (s *Snapshot) ExportCSS() string {
	var sb strings.Builder
	for _, rec := range s.Selectors.records {
		if rec.Active {
			sb.WriteString(rec.RuleText)
		}
	}
	return sb.String()
}

// Lookup returns a copy of one record
func (s *Snapshot) Lookup(selector string) (SelectorRecord, bool) {
	rec, ok := s.Selectors.index[selector]
	if !ok {
		return SelectorRecord{}, false
	}
	return rec.clone(), true
}

// Records returns copies of every record in insertion order
func (s *Snapshot) Records() []SelectorRecord {
	out := make([]SelectorRecord, len(s.Selectors.records))
	for i, rec := range s.Selectors.records {
		out[i] = rec.clone()
	}
	return out
}

func (r *SelectorRecord) clone() SelectorRecord {
	c := *r
	c.SourceFiles = append([]string(nil), r.SourceFiles...)
	return c
}

// SelectorMap is a selector-keyed map that remembers insertion order.
// It serializes as a JSON object whose keys keep that order.
type SelectorMap struct {
	records []*SelectorRecord
	index   map[string]*SelectorRecord
}

// NewSelectorMap creates an empty map
func NewSelectorMap() *SelectorMap {
	return &SelectorMap{index: make(map[string]*SelectorRecord)}
}

// Len returns the number of records
func (m *SelectorMap) Len() int { return len(m.records) }

// Keys returns the selectors in insertion order
func (m *SelectorMap) Keys() []string {
	keys := make([]string, len(m.records))
	for i, rec := range m.records {
		keys[i] = rec.Selector
	}
	return keys
}

func (m *SelectorMap) add(r SelectorRecord) bool {
	if _, exists := m.index[r.Selector]; exists {
		return false
	}
	rec := r.clone()
	m.records = append(m.records, &rec)
	m.index[rec.Selector] = &rec
	return true
}

// MarshalJSON writes the records as an object in insertion order
func (m *SelectorMap) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, rec := range m.records {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := marshalRaw(rec.Selector)
		if err != nil {
			return nil, err
		}
		val, err := marshalRaw(rec)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// marshalRaw encodes v without escaping <, > and & so selectors stay readable in session files
func marshalRaw(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// UnmarshalJSON reads an object of records, keeping the key order of the input
func (m *SelectorMap) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("selectors: expected object, got %v", tok)
	}

	fresh := NewSelectorMap()
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("selectors: expected key, got %v", tok)
		}

		var rec SelectorRecord
		if err := dec.Decode(&rec); err != nil {
			return fmt.Errorf("selectors: %q: %w", key, err)
		}
		// Sessions written by older tools may omit the inner selector field
		rec.Selector = key
		if !fresh.add(rec) {
			return fmt.Errorf("selectors: duplicate key %q", key)
		}
	}
	if _, err := dec.Token(); err != nil {
		return err
	}

	*m = *fresh
	return nil
}
