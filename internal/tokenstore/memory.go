package tokenstore

import (
	"sync"
	"time"
)

type memoryEntry struct {
	value     string
	expiresAt time.Time
}

// MemoryJar is a Medium backed by an in-process map
type MemoryJar struct {
	mu      sync.Mutex
	now     func() time.Time
	entries map[string]memoryEntry
}

func NewMemoryJar() *MemoryJar {
	return NewMemoryJarWithClock(time.Now)
}

// NewMemoryJarWithClock returns a MemoryJar that evaluates expiry against the given
// clock
func NewMemoryJarWithClock(now func() time.Time) *MemoryJar {
	return &MemoryJar{
		now:     now,
		entries: make(map[string]memoryEntry),
	}
}

func (j *MemoryJar) Get(name string) (string, bool) {
	j.mu.Lock()
	defer j.mu.Unlock()

	entry, ok := j.entries[name]
	if !ok {
		return "", false
	}
	if !j.now().Before(entry.expiresAt) {
		delete(j.entries, name)
		return "", false
	}
	return entry.value, true
}

func (j *MemoryJar) Set(name string, value string, ttl time.Duration) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	j.entries[name] = memoryEntry{
		value:     value,
		expiresAt: j.now().Add(ttl),
	}
	return nil
}

func (j *MemoryJar) Delete(name string) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	delete(j.entries, name)
	return nil
}

var _ Medium = (*MemoryJar)(nil)
