package tokenstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"
)

type fileEntry struct {
	Value     string    `json:"value"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type fileContents struct {
	Entries map[string]fileEntry `json:"entries"`
}

// FileJar is a Medium that persists entries as JSON in a single file, so that a
// command-line session survives between invocations. The file is re-read on every
// access: another process sharing the same file sees changes on its next read.
type FileJar struct {
	path string
	now  func() time.Time
	mu   sync.Mutex
}

func NewFileJar(path string) *FileJar {
	return &FileJar{
		path: path,
		now:  time.Now,
	}
}

func (j *FileJar) Path() string {
	return j.path
}

func (j *FileJar) Get(name string) (string, bool) {
	j.mu.Lock()
	defer j.mu.Unlock()

	contents := j.load()
	entry, ok := contents.Entries[name]
	if !ok || !j.now().Before(entry.ExpiresAt) {
		return "", false
	}
	return entry.Value, true
}

func (j *FileJar) Set(name string, value string, ttl time.Duration) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	contents := j.load()
	contents.Entries[name] = fileEntry{
		Value:     value,
		ExpiresAt: j.now().Add(ttl),
	}
	return j.save(contents)
}

func (j *FileJar) Delete(name string) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	contents := j.load()
	if _, ok := contents.Entries[name]; !ok {
		return nil
	}
	delete(contents.Entries, name)
	return j.save(contents)
}

// load reads the file, treating a missing or unparseable file as empty
func (j *FileJar) load() *fileContents {
	contents := &fileContents{Entries: make(map[string]fileEntry)}
	b, err := os.ReadFile(j.path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			slog.Warn("failed to read session file", "path", j.path, "error", err)
		}
		return contents
	}
	if err := json.Unmarshal(b, contents); err != nil {
		slog.Warn("ignoring unreadable session file", "path", j.path, "error", err)
		return &fileContents{Entries: make(map[string]fileEntry)}
	}
	if contents.Entries == nil {
		contents.Entries = make(map[string]fileEntry)
	}
	return contents
}

// save writes the file atomically, dropping any entries that have already expired
func (j *FileJar) save(contents *fileContents) error {
	now := j.now()
	for name, entry := range contents.Entries {
		if !now.Before(entry.ExpiresAt) {
			delete(contents.Entries, name)
		}
	}

	if err := os.MkdirAll(filepath.Dir(j.path), 0o700); err != nil {
		return fmt.Errorf("failed to create session directory: %w", err)
	}
	b, err := json.MarshalIndent(contents, "", "  ")
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(j.path), filepath.Base(j.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create session file: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(b); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write session file: %w", err)
	}
	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to set session file permissions: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write session file: %w", err)
	}
	if err := os.Rename(tmp.Name(), j.path); err != nil {
		return fmt.Errorf("failed to replace session file: %w", err)
	}
	return nil
}

var _ Medium = (*FileJar)(nil)
