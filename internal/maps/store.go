package maps

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"
)

var (
	// ErrNotFound is returned when no level has the requested name.
	ErrNotFound = errors.New("level not found")
	// ErrAlreadyExists is returned when creating a level whose name is taken.
	ErrAlreadyExists = errors.New("level already exists")
)

// StoredLevel is a level registered in a Store.
type StoredLevel struct {
	ID    string
	Level *Level
}

// Store is an in-memory registry of named levels.
// Get hands out clones so editing never reaches back into the store.
type Store struct {
	mu     sync.RWMutex
	levels map[string]StoredLevel
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{levels: make(map[string]StoredLevel)}
}

// Create registers a level under its name and returns the new id.
func (s *Store) Create(l *Level) (string, error) {
	if l == nil {
		return "", errors.New("create level: nil level")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.levels[l.Name]; ok {
		return "", fmt.Errorf("create level %q: %w", l.Name, ErrAlreadyExists)
	}
	id := uuid.New().String()
	s.levels[l.Name] = StoredLevel{ID: id, Level: l.Clone()}
	return id, nil
}

// Put registers or replaces a level, keeping the id of an existing entry.
func (s *Store) Put(l *Level) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := uuid.New().String()
	if prev, ok := s.levels[l.Name]; ok {
		id = prev.ID
	}
	s.levels[l.Name] = StoredLevel{ID: id, Level: l.Clone()}
	return id
}

// Get returns a copy of the named level.
func (s *Store) Get(name string) (StoredLevel, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sl, ok := s.levels[name]
	if !ok {
		return StoredLevel{}, fmt.Errorf("there's no level with name %q: %w", name, ErrNotFound)
	}
	return StoredLevel{ID: sl.ID, Level: sl.Level.Clone()}, nil
}

// Exists reports whether a level with the given name is registered.
func (s *Store) Exists(name string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.levels[name]
	return ok
}

// Names returns all level names in sorted order.
func (s *Store) Names() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.levels))
	for n := range s.levels {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Next returns the name following current in sorted order, wrapping around.
// An unknown current name yields the first level.
func (s *Store) Next(current string) (string, error) {
	names := s.Names()
	if len(names) == 0 {
		return "", fmt.Errorf("next level: %w", ErrNotFound)
	}
	for i, n := range names {
		if n == current {
			return names[(i+1)%len(names)], nil
		}
	}
	return names[0], nil
}
