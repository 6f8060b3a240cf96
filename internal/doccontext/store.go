// Package doccontext holds the single process-wide document context: the text
// extracted from the most recent successful upload. It is shared by every caller,
// so the last successful upload answers every subsequent question.
package doccontext

import "sync"

// Snapshot is a consistent read of the store.
type Snapshot struct {
	Text    string
	Version uint64
}

// Store is a single-slot, last-writer-wins text holder. The zero value is ready to use.
type Store struct {
	mu      sync.RWMutex
	text    string
	version uint64
}

// New returns an empty store.
func New() *Store {
	return &Store{}
}

// Set replaces the current text and returns the new version.
func (s *Store) Set(text string) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.text = text
	s.version++
	return s.version
}

// Get returns the current text, or "" if nothing was ever set.
func (s *Store) Get() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.text
}

// Snapshot returns text and version read together.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{Text: s.text, Version: s.version}
}

// Version returns the number of writes so far.
func (s *Store) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}
