package user

import (
	"errors"
	"strings"
	"sync"
	"time"
)

var (
	ErrEmailTaken = errors.New("email address already in use")
	ErrNotFound   = errors.New("user not found")
)

type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash []byte    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Store holds registered users in memory. Accounts live for the
// process lifetime only.
type Store struct {
	mu      sync.RWMutex
	byID    map[string]User
	byEmail map[string]string
}

func NewStore() *Store {
	return &Store{
		byID:    make(map[string]User),
		byEmail: make(map[string]string),
	}
}

func (s *Store) Create(u User) error {
	key := normalize(u.Email)

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byEmail[key]; ok {
		return ErrEmailTaken
	}
	s.byID[u.ID] = u
	s.byEmail[key] = u.ID
	return nil
}

func (s *Store) ByID(id string) (User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.byID[id]
	if !ok {
		return User{}, ErrNotFound
	}
	return u, nil
}

func (s *Store) ByEmail(email string) (User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byEmail[normalize(email)]
	if !ok {
		return User{}, ErrNotFound
	}
	return s.byID[id], nil
}

// UpdatePassword replaces the stored hash, used by the recovery flow.
func (s *Store) UpdatePassword(id string, hash []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.byID[id]
	if !ok {
		return ErrNotFound
	}
	u.PasswordHash = hash
	u.UpdatedAt = time.Now().UTC()
	s.byID[id] = u
	return nil
}

func normalize(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
