package enroll

import (
	"testing"
	"time"
)

func TestHandoffOneShot(t *testing.T) {
	h := NewHandoff()

	c := Context{CourseName: "Beginner Guitar Lessons", Price: 20.00, ImageURL: "https://example.com/guitar.png"}

	token, err := h.Put(c)
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	if token == "" {
		t.Fatal("expected a token")
	}

	got, ok := h.Take(token)
	if !ok {
		t.Fatal("first take must hit")
	}
	if got != c {
		t.Fatalf("expected %+v, got %+v", c, got)
	}

	if _, ok := h.Take(token); ok {
		t.Fatal("second take must miss")
	}
}

func TestHandoffUnknownToken(t *testing.T) {
	h := NewHandoff()

	if _, ok := h.Take("nope"); ok {
		t.Fatal("unknown token must miss")
	}
}

func TestHandoffExpiry(t *testing.T) {
	h := NewHandoff()

	clock := time.Now()
	h.now = func() time.Time { return clock }

	token, err := h.Put(Context{CourseName: "Beginner Guitar Lessons"})
	if err != nil {
		t.Fatalf("put: %v", err)
	}

	clock = clock.Add(payloadTTL + time.Second)

	if _, ok := h.Take(token); ok {
		t.Fatal("an expired payload must miss")
	}
}

func TestHandoffSweepsExpired(t *testing.T) {
	h := NewHandoff()

	clock := time.Now()
	h.now = func() time.Time { return clock }

	if _, err := h.Put(Context{CourseName: "a"}); err != nil {
		t.Fatal(err)
	}

	clock = clock.Add(payloadTTL + time.Second)

	// The next write sweeps the stale entry, so abandoned tokens do
	// not accumulate.
	if _, err := h.Put(Context{CourseName: "b"}); err != nil {
		t.Fatal(err)
	}
	if got := len(h.payloads); got != 1 {
		t.Fatalf("expected the expired payload to be swept, %d remain", got)
	}
}

func TestHandoffDistinctTokens(t *testing.T) {
	h := NewHandoff()

	t1, err := h.Put(Context{CourseName: "a"})
	if err != nil {
		t.Fatal(err)
	}
	t2, err := h.Put(Context{CourseName: "b"})
	if err != nil {
		t.Fatal(err)
	}
	if t1 == t2 {
		t.Fatal("tokens must be unique")
	}
}
