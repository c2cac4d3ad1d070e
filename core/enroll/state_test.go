package enroll

import (
	"errors"
	"testing"
)

func TestSubmissionLifecycle(t *testing.T) {
	s := newSubmission()

	if got := s.State(); got != StateIdle {
		t.Fatalf("expected %s, got %s", StateIdle, got)
	}
	if !s.begin() {
		t.Fatal("first begin must win")
	}
	if s.begin() {
		t.Fatal("second begin must lose")
	}
	if !s.complete(nil) {
		t.Fatal("completion of a live submission must apply")
	}
	if got := s.State(); got != StateSucceeded {
		t.Fatalf("expected %s, got %s", StateSucceeded, got)
	}
}

func TestSubmissionFailure(t *testing.T) {
	s := newSubmission()
	s.begin()

	if !s.complete(errors.New("card declined")) {
		t.Fatal("failure of a live submission must apply")
	}
	if got := s.State(); got != StateFailed {
		t.Fatalf("expected %s, got %s", StateFailed, got)
	}
	if s.Err() == nil {
		t.Fatal("failure must carry its error")
	}
}

func TestAbandonSuppressesCompletion(t *testing.T) {
	s := newSubmission()
	s.begin()

	if !s.abandon() {
		t.Fatal("abandoning a live submission must win")
	}
	if s.complete(nil) {
		t.Fatal("completion after abandon must be suppressed")
	}
	if got := s.State(); got != StateSubmitting {
		t.Fatalf("suppressed update must leave %s, got %s", StateSubmitting, got)
	}
}

func TestAbandonAfterCompletion(t *testing.T) {
	s := newSubmission()
	s.begin()
	s.complete(nil)

	// The outcome landed first: the waiter must honor it instead of
	// walking away from a Succeeded machine with nothing recorded.
	if s.abandon() {
		t.Fatal("abandon after completion must report the landed outcome")
	}
	if got := s.State(); got != StateSucceeded {
		t.Fatalf("expected %s, got %s", StateSucceeded, got)
	}
}
