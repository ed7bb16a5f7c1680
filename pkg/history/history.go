// Package history keeps the user's recent generation prompts so they can be
// recalled and resubmitted. Entries live in a small JSON file under the
// config directory.
package history

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MaxEntries bounds how many prompts are kept; the oldest fall off.
const MaxEntries = 10

// Entry is one remembered prompt.
type Entry struct {
	ID        string    `json:"id"`
	Prompt    string    `json:"prompt"`
	Timestamp time.Time `json:"timestamp"`
}

// Store holds the prompt ring and persists it across sessions.
type Store struct {
	mu      sync.Mutex
	path    string
	entries []Entry
}

// Load opens (or initializes) the history file at the given path. A missing
// or unreadable file starts an empty history rather than failing: prompt
// history is a convenience, never a startup blocker.
func Load(path string) *Store {
	s := &Store{path: path}
	data, err := os.ReadFile(path)
	if err != nil {
		return s
	}
	if err := json.Unmarshal(data, &s.entries); err != nil {
		s.entries = nil
	}
	if len(s.entries) > MaxEntries {
		s.entries = s.entries[:MaxEntries]
	}
	return s
}

// Add records a prompt at the front of the ring. Blank prompts and an exact
// repeat of the most recent prompt are ignored.
func (s *Store) Add(prompt string) {
	if prompt == "" {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.entries) > 0 && s.entries[0].Prompt == prompt {
		return
	}

	entry := Entry{
		ID:        uuid.NewString(),
		Prompt:    prompt,
		Timestamp: time.Now(),
	}
	s.entries = append([]Entry{entry}, s.entries...)
	if len(s.entries) > MaxEntries {
		s.entries = s.entries[:MaxEntries]
	}
	s.persistLocked()
}

// Entries returns the prompts, most recent first.
func (s *Store) Entries() []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Entry(nil), s.entries...)
}

// persistLocked writes the ring to disk. Write failures are reported on
// stderr but do not surface to callers; see Load.
func (s *Store) persistLocked() {
	data, err := json.MarshalIndent(s.entries, "", "  ")
	if err != nil {
		return
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		fmt.Fprintf(os.Stderr, "failed to create history directory: %v\n", err)
		return
	}
	if err := os.WriteFile(s.path, data, 0644); err != nil {
		fmt.Fprintf(os.Stderr, "failed to write prompt history: %v\n", err)
	}
}
