package enroll

import (
	"fmt"
	"sync"
	"time"

	"github.com/skillswap/skillswap-api/random"
)

// payloadTTL bounds how long an unconsumed handoff payload may sit in
// the store. The confirmation view consumes its token right after the
// redirect, so anything older belongs to a navigation that never
// happened.
const payloadTTL = 15 * time.Minute

type payload struct {
	ctx     Context
	expires time.Time
}

// Handoff transfers the Context from the form to the confirmation
// view. Single writer, single reader: a payload is keyed by a one-time
// token and consumed at most once. Nothing here is persisted, and
// payloads whose token is never presented expire.
type Handoff struct {
	mu       sync.Mutex
	payloads map[string]payload
	now      func() time.Time
}

func NewHandoff() *Handoff {
	return &Handoff{
		payloads: make(map[string]payload),
		now:      time.Now,
	}
}

func (h *Handoff) Put(c Context) (string, error) {
	token, err := random.StringSecure(32)
	if err != nil {
		return "", fmt.Errorf("generating handoff token: %w", err)
	}

	h.mu.Lock()
	h.sweep()
	h.payloads[token] = payload{ctx: c, expires: h.now().Add(payloadTTL)}
	h.mu.Unlock()

	return token, nil
}

// Take consumes the payload for token. A second Take with the same
// token, or a Take past the payload's expiry, misses, which sends the
// confirmation view down its fallback path.
func (h *Handoff) Take(token string) (Context, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	p, ok := h.payloads[token]
	if !ok {
		return Context{}, false
	}
	delete(h.payloads, token)

	if h.now().After(p.expires) {
		return Context{}, false
	}
	return p.ctx, true
}

// sweep drops expired payloads so abandoned tokens cannot accumulate.
// Callers hold h.mu.
func (h *Handoff) sweep() {
	now := h.now()
	for token, p := range h.payloads {
		if now.After(p.expires) {
			delete(h.payloads, token)
		}
	}
}
