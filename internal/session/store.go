package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"eskimo_admin/internal/config"
)

// Store is the local key-value medium the session lives in. Every read goes
// to the medium, so changes made by another process are picked up on the
// next read. There is no locking between processes.
type Store interface {
	Get(key string) (string, bool)
	Set(values map[string]string) error
	Delete(keys ...string) error
}

// FileStore keeps the keys as a flat JSON object in a single file.
type FileStore struct {
	path string
}

func NewFileStore(cfg config.Config) *FileStore {
	return &FileStore{path: strings.TrimSpace(cfg.SessionFile)}
}

func (s *FileStore) Get(key string) (string, bool) {
	values, err := s.read()
	if err != nil {
		return "", false
	}
	value, ok := values[key]
	return value, ok
}

func (s *FileStore) Set(values map[string]string) error {
	current, err := s.read()
	if err != nil {
		current = map[string]string{}
	}
	for key, value := range values {
		current[key] = value
	}
	return s.write(current)
}

func (s *FileStore) Delete(keys ...string) error {
	current, err := s.read()
	if err != nil {
		return nil
	}
	for _, key := range keys {
		delete(current, key)
	}
	return s.write(current)
}

func (s *FileStore) read() (map[string]string, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, err
	}
	values := map[string]string{}
	if err := json.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("decode session file: %w", err)
	}
	return values, nil
}

func (s *FileStore) write(values map[string]string) error {
	if s.path == "" {
		return errors.New("session file path is empty")
	}
	data, err := json.Marshal(values)
	if err != nil {
		return fmt.Errorf("encode session file: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".session-*")
	if err != nil {
		return fmt.Errorf("write session file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("write session file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("write session file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("write session file: %w", err)
	}
	return nil
}
