package cache

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// fileEnvelope is the on-disk JSON format: a versioned, ordered entry list.
type fileEnvelope struct {
	Version string  `json:"version"`
	SavedAt string  `json:"saved_at"`
	Entries []Entry `json:"entries"`
}

const fileFormatVersion = "1.0"

// FileStore persists the entry list to a single JSON file, replaced
// atomically on every save.
type FileStore struct {
	path string
}

// NewFileStore creates a file-backed store at the given path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Save writes the full entry list, using a temp-file rename so a crash
// mid-write never corrupts the previous snapshot.
func (s *FileStore) Save(entries []Entry) error {
	envelope := fileEnvelope{
		Version: fileFormatVersion,
		SavedAt: time.Now().UTC().Format(time.RFC3339),
		Entries: entries,
	}

	data, err := json.MarshalIndent(envelope, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding cache entries: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("creating cache directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".cache-*.json")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing cache file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing cache file: %w", err)
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replacing cache file: %w", err)
	}
	return nil
}

// Load reads the persisted entry list in order. A missing file is an
// empty set; a malformed file returns an error the caller may treat as
// an empty set.
func (s *FileStore) Load() ([]Entry, error) {
	data, err := os.ReadFile(s.path) // #nosec G304 - path is configured by the operator
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading cache file: %w", err)
	}

	var envelope fileEnvelope
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, fmt.Errorf("decoding cache file: %w", err)
	}
	return envelope.Entries, nil
}

// Clear removes the persisted file.
func (s *FileStore) Clear() error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing cache file: %w", err)
	}
	return nil
}

// Verify FileStore implements Store
var _ Store = (*FileStore)(nil)
