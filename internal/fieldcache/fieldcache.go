// Package fieldcache stores discovered Jira field identifiers between runs.
//
// The cache only speeds things up: every read failure is reported as a miss
// and callers fall back to asking Jira again.
package fieldcache

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Store is a tiny string key/value store.
type Store interface {
	// Get returns the cached value for key. ok is false on any failure.
	Get(key string) (value string, ok bool)
	// Set overwrites the value for key.
	Set(key, value string) error
}

// FilePrefix is prepended to every cache file name.
const FilePrefix = "jira_cli_"

// FileStore keeps one flat text file per key in Dir.
type FileStore struct {
	Dir string
}

// NewFileStore returns a FileStore rooted at dir, or the OS temp dir when
// dir is empty.
func NewFileStore(dir string) *FileStore {
	if dir == "" {
		dir = os.TempDir()
	}
	return &FileStore{Dir: dir}
}

// Path returns the file backing key.
func (s *FileStore) Path(key string) string {
	return filepath.Join(s.Dir, FilePrefix+key+".txt")
}

// Get reads the trimmed file contents. Missing, unreadable or blank files
// are all misses.
func (s *FileStore) Get(key string) (string, bool) {
	data, err := os.ReadFile(s.Path(key)) // #nosec G304 - path built from fixed prefix and key
	if err != nil {
		return "", false
	}
	value := strings.TrimSpace(string(data))
	if value == "" || strings.ContainsAny(value, "\r\n\x00") {
		return "", false
	}
	return value, true
}

// Set writes value to the key's file, replacing previous content.
func (s *FileStore) Set(key, value string) error {
	return os.WriteFile(s.Path(key), []byte(value), 0600)
}

// MemoryStore is a Store held in memory. The zero value is ready to use.
type MemoryStore struct {
	mu     sync.Mutex
	values map[string]string
	sets   int
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string]string)}
}

func (s *MemoryStore) Get(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.values[key]
	return v, ok
}

func (s *MemoryStore) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.values == nil {
		s.values = make(map[string]string)
	}
	s.values[key] = value
	s.sets++
	return nil
}

// Writes returns how many times Set has been called.
func (s *MemoryStore) Writes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sets
}
