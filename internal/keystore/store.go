// Package keystore persists the ordered pool of translation API keys.
//
// The file is a JSON array of strings written with two-space indentation
// and non-ASCII characters kept literal. Writes go to a temp file in the
// same directory followed by a rename, under an advisory lock on
// "<file>.lock" so concurrent processes never interleave.
package keystore

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/gofrs/flock"

	"subtitlecat/internal/services"
)

// Store is the in-memory key pool bound to its file. Safe for concurrent use.
type Store struct {
	mu   sync.Mutex
	path string
	keys []string
	lock *flock.Flock
}

// Open loads the key file at path. A missing file yields an empty pool.
func Open(path string) (*Store, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, services.Wrap(services.ErrConfiguration, "keystore", "open", "empty key file path", nil)
	}
	s := &Store{path: path, lock: flock.New(path + ".lock")}
	keys, err := s.read()
	if err != nil {
		return nil, err
	}
	s.keys = keys
	return s, nil
}

// Path returns the backing file.
func (s *Store) Path() string {
	return s.path
}

func (s *Store) read() ([]string, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read key file: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}
	var raw []string
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "keystore", "parse", s.path, err)
	}
	keys := make([]string, 0, len(raw))
	for _, key := range raw {
		if key = strings.TrimSpace(key); key != "" {
			keys = append(keys, key)
		}
	}
	return keys, nil
}

// List returns a copy of the keys in order.
func (s *Store) List() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.keys...)
}

// Len returns the pool size.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.keys)
}

// Add appends key and persists the pool.
func (s *Store) Add(key string) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return services.Wrap(services.ErrValidation, "keystore", "add", "empty key", nil)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.keys = append(s.keys, key)
	if err := s.persistLocked(); err != nil {
		s.keys = s.keys[:len(s.keys)-1]
		return err
	}
	return nil
}

// Remove deletes the key at the zero-based index and persists the pool. It
// returns the removed key.
func (s *Store) Remove(index int) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if index < 0 || index >= len(s.keys) {
		return "", services.Wrap(services.ErrValidation, "keystore", "remove", fmt.Sprintf("index %d out of range (%d keys)", index+1, len(s.keys)), nil)
	}
	removed := s.keys[index]
	previous := append([]string(nil), s.keys...)
	s.keys = append(s.keys[:index:index], s.keys[index+1:]...)
	if err := s.persistLocked(); err != nil {
		s.keys = previous
		return "", err
	}
	return removed, nil
}

// Persist writes the current pool to disk.
func (s *Store) Persist() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.persistLocked()
}

func (s *Store) persistLocked() error {
	data, err := Encode(s.keys)
	if err != nil {
		return err
	}
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("create key directory: %w", err)
	}

	if err := s.lock.Lock(); err != nil {
		return fmt.Errorf("lock key file: %w", err)
	}
	defer func() { _ = s.lock.Unlock() }()

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp key file: %w", err)
	}
	tmpName := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpName) }
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		cleanup()
		return fmt.Errorf("write key file: %w", err)
	}
	if err := tmp.Chmod(0o600); err != nil {
		_ = tmp.Close()
		cleanup()
		return fmt.Errorf("chmod key file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return fmt.Errorf("close key file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		cleanup()
		return fmt.Errorf("replace key file: %w", err)
	}
	return nil
}

// Encode renders keys in the on-disk format.
func Encode(keys []string) ([]byte, error) {
	if keys == nil {
		keys = []string{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(keys); err != nil {
		return nil, fmt.Errorf("encode keys: %w", err)
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// Mask shows the first four characters of key followed by an ellipsis.
func Mask(key string) string {
	runes := []rune(key)
	if len(runes) <= 4 {
		return string(runes) + "..."
	}
	return string(runes[:4]) + "..."
}
