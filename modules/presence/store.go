package presence

import (
	"sort"
	"sync"

	domain "github.com/Hanan11240/chat-app/domain/chat"
)

type entry struct {
	user domain.User
	seq  uint64
}

// Store holds the authoritative mapping of connection ID to User.
// Users are returned in the order they were last upserted.
type Store struct {
	mu    sync.RWMutex
	users map[string]entry
	seq   uint64
}

// NewStore creates an empty presence store.
func NewStore() *Store {
	return &Store{
		users: make(map[string]entry),
	}
}

// Upsert inserts or replaces the user for id.
func (s *Store) Upsert(id, name, room string) domain.User {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.seq++
	user := domain.User{ID: id, Name: name, Room: room}
	s.users[id] = entry{user: user, seq: s.seq}
	return user
}

// Remove deletes the user for id. Removing an unknown id is a no-op.
func (s *Store) Remove(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.users, id)
}

// Get returns the user for id.
func (s *Store) Get(id string) (domain.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.users[id]
	return e.user, ok
}

// All returns a snapshot of every user.
func (s *Store) All() []domain.User {
	s.mu.RLock()
	entries := make([]entry, 0, len(s.users))
	for _, e := range s.users {
		entries = append(entries, e)
	}
	s.mu.RUnlock()

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].seq < entries[j].seq
	})

	result := make([]domain.User, len(entries))
	for i, e := range entries {
		result[i] = e.user
	}
	return result
}

// Len returns the number of users present.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.users)
}
