package cache

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// FileStore is the tier-3 backend: one JSON file per key under a local
// directory, each embedding its own expiry timestamp as epoch seconds:
// {"value": <payload>, "expires_at": <epoch seconds>}. That on-disk shape is
// part of the contract other collaborators may read.
type FileStore struct {
	dir string
}

type fileEntry struct {
	Value     json.RawMessage `json:"value"`
	ExpiresAt float64         `json:"expires_at"`
}

func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir}
}

// Dir returns the cache directory.
func (s *FileStore) Dir() string {
	return s.dir
}

var fileKeyReplacer = strings.NewReplacer(":", "_", "/", "_")

func (s *FileStore) path(key string) string {
	return filepath.Join(s.dir, fileKeyReplacer.Replace(key)+".json")
}

// Read returns the stored payload and its expiry. ok=false with a nil error
// means the key is absent. A zero or absent expires_at comes back as the zero
// time, which callers treat as never-expiring.
func (s *FileStore) Read(key string) (value string, expiresAt time.Time, ok bool, err error) {
	data, err := os.ReadFile(s.path(key))
	if os.IsNotExist(err) {
		return "", time.Time{}, false, nil
	}
	if err != nil {
		return "", time.Time{}, false, err
	}
	var entry fileEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		return "", time.Time{}, false, err
	}
	if entry.ExpiresAt == 0 {
		return string(entry.Value), time.Time{}, true, nil
	}
	sec := int64(entry.ExpiresAt)
	nsec := int64((entry.ExpiresAt - float64(sec)) * float64(time.Second))
	return string(entry.Value), time.Unix(sec, nsec), true, nil
}

// Write stores the payload, creating the cache directory on demand.
func (s *FileStore) Write(key, value string, expiresAt time.Time) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return err
	}
	entry := fileEntry{
		Value:     json.RawMessage(value),
		ExpiresAt: float64(expiresAt.UnixNano()) / float64(time.Second),
	}
	data, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	return os.WriteFile(s.path(key), data, 0o644)
}

// Delete removes the key's file; a missing file is not an error.
func (s *FileStore) Delete(key string) error {
	err := os.Remove(s.path(key))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// Count reports the number of cache files currently on disk.
func (s *FileStore) Count() (int, error) {
	entries, err := os.ReadDir(s.dir)
	if os.IsNotExist(err) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	n := 0
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".json") {
			n++
		}
	}
	return n, nil
}
