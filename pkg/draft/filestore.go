package draft

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/goliatone/go-collegecms/pkg/formdata"
)

// FileStoreOption customises the file store.
type FileStoreOption func(*FileStore)

// WithFileStoreWarnFunc overrides where unreadable-snapshot warnings go.
func WithFileStoreWarnFunc(warn func(format string, args ...any)) FileStoreOption {
	return func(s *FileStore) {
		s.warn = warn
		s.warnSpecified = true
	}
}

// FileStore keeps one JSON file per draft key under a directory. It is the
// durable-storage analogue of the browser's local storage: wholesale
// overwrites, last write wins.
type FileStore struct {
	dir           string
	warn          func(format string, args ...any)
	warnSpecified bool
}

// NewFileStore constructs a FileStore rooted at dir, creating it when absent.
func NewFileStore(dir string, options ...FileStoreOption) (*FileStore, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, errors.New("draft: directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("draft: create directory: %w", err)
	}
	s := &FileStore{dir: dir}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(s)
	}
	if !s.warnSpecified {
		s.warn = log.Printf
	}
	return s, nil
}

// Load reads the snapshot for key. A missing file reports (nil, nil); a
// corrupt one is logged and likewise treated as absent so a bad snapshot can
// never block a session.
func (s *FileStore) Load(key string) (formdata.Record, error) {
	data, err := os.ReadFile(s.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("draft: read snapshot %q: %w", key, err)
	}

	record, err := formdata.FromJSON(data)
	if err != nil {
		s.warnf("draft: corrupt snapshot %q ignored: %v", key, err)
		return nil, nil
	}
	return record, nil
}

// Save overwrites the snapshot for key.
func (s *FileStore) Save(key string, record formdata.Record) error {
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("draft: encode snapshot %q: %w", key, err)
	}
	if err := os.WriteFile(s.path(key), data, 0o644); err != nil {
		return fmt.Errorf("draft: write snapshot %q: %w", key, err)
	}
	return nil
}

// Clear removes the snapshot for key. Clearing an absent snapshot is not an
// error, so submit and reset paths can call it unconditionally.
func (s *FileStore) Clear(key string) error {
	if err := os.Remove(s.path(key)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("draft: clear snapshot %q: %w", key, err)
	}
	return nil
}

func (s *FileStore) path(key string) string {
	return filepath.Join(s.dir, sanitizeKey(key)+".json")
}

// sanitizeKey keeps snapshot file names flat regardless of what lands in the
// session identifier.
func sanitizeKey(key string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '-' || r == '_':
			return r
		default:
			return '_'
		}
	}, key)
}

func (s *FileStore) warnf(format string, args ...any) {
	if s.warn == nil {
		return
	}
	s.warn(format, args...)
}
