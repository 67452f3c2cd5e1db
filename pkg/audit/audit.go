// Package audit appends one JSONL record per hook decision so guard
// activity can be reviewed later. Writes are best-effort by contract: a
// hook run must never fail because the audit log is unavailable, so
// callers log append errors at debug and move on.
package audit

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rogpeppe/go-internal/lockedfile"
)

// Record is one hook decision.
type Record struct {
	ID       string    `json:"id"`
	Time     time.Time `json:"time"`
	Hook     string    `json:"hook"`
	Event    string    `json:"event"`
	ToolName string    `json:"tool_name,omitempty"`
	Decision string    `json:"decision"`
	Reason   string    `json:"reason,omitempty"`
}

// Store appends and reads audit records. Concurrent hook processes append
// to the same file, so all file access goes through a file lock.
type Store struct {
	path string
}

// NewStore creates a store writing to path, or to the default
// ~/.claudeguard/audit.jsonl when path is empty.
func NewStore(path string) (*Store, error) {
	if path == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil, errors.Wrap(err, "failed to get user home directory")
		}
		path = filepath.Join(homeDir, ".claudeguard", "audit.jsonl")
	}
	return &Store{path: path}, nil
}

// Path returns the audit log location.
func (s *Store) Path() string {
	return s.path
}

// Append writes one record as a JSON line. Missing ID and Time fields are
// filled in.
func (s *Store) Append(record Record) error {
	if record.ID == "" {
		record.ID = uuid.New().String()
	}
	if record.Time.IsZero() {
		record.Time = time.Now().UTC()
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(record); err != nil {
		return errors.Wrap(err, "failed to encode audit record")
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return errors.Wrap(err, "failed to create audit directory")
	}

	f, err := lockedfile.OpenFile(s.path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		return errors.Wrap(err, "failed to open audit log")
	}
	defer f.Close()

	if _, err := f.Write(buf.Bytes()); err != nil {
		return errors.Wrap(err, "failed to append audit record")
	}
	return nil
}

// ReadRecent returns up to limit records, most recent first. A limit of
// zero or less returns everything. Lines that fail to parse are skipped;
// the log is best-effort on the read side too.
func (s *Store) ReadRecent(limit int) ([]Record, error) {
	data, err := lockedfile.Read(s.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to read audit log")
	}

	var records []Record
	for _, line := range bytes.Split(data, []byte("\n")) {
		line = bytes.TrimSpace(line)
		if len(line) == 0 {
			continue
		}
		var record Record
		if err := json.Unmarshal(line, &record); err != nil {
			continue
		}
		records = append(records, record)
	}

	for i, j := 0, len(records)-1; i < j; i, j = i+1, j-1 {
		records[i], records[j] = records[j], records[i]
	}
	if limit > 0 && len(records) > limit {
		records = records[:limit]
	}
	return records, nil
}
