// Package token implements the forgot-password flow: short-lived
// recovery tokens issued by email.
package token

import (
	"context"
	"sync"
	"time"

	"github.com/skillswap/skillswap-api/random"
)

// Mailer delivers the recovery token; delivery runs in the background.
type Mailer interface {
	SendRecovery(ctx context.Context, to, token string) error
}

type entry struct {
	userID  string
	expires time.Time
}

// Store holds unconsumed recovery tokens in memory.
type Store struct {
	mu     sync.Mutex
	tokens map[string]entry
}

func NewStore() *Store {
	return &Store{tokens: make(map[string]entry)}
}

func (s *Store) Issue(userID string, ttl time.Duration) (string, error) {
	tok, err := random.StringSecure(26)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	s.tokens[tok] = entry{userID: userID, expires: time.Now().Add(ttl)}
	s.mu.Unlock()

	return tok, nil
}

// Consume redeems a token at most once. Expired tokens miss.
func (s *Store) Consume(tok string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.tokens[tok]
	if !ok {
		return "", false
	}
	delete(s.tokens, tok)

	if time.Now().After(e.expires) {
		return "", false
	}
	return e.userID, true
}
