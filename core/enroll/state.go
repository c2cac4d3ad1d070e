package enroll

import (
	"context"
	"sync"
	"time"
)

type State string

const (
	StateIdle       State = "idle"
	StateSubmitting State = "submitting"
	StateSucceeded  State = "succeeded"
	StateFailed     State = "failed"
)

// Processor stands at the payment seam. The shipped implementation is
// simulated and always succeeds; a real provider plugs in here with
// its failure branch intact.
type Processor interface {
	Process(ctx context.Context, amount float64) error
}

// SimulatedProcessor resolves after a fixed delay. The delay runs to
// completion unconditionally: abandoning the submission does not stop
// the timer, it only suppresses the resulting state update.
type SimulatedProcessor struct {
	Delay time.Duration
}

func (p SimulatedProcessor) Process(ctx context.Context, amount float64) error {
	timer := time.NewTimer(p.Delay)
	defer timer.Stop()
	<-timer.C
	return nil
}

// submission is the per-attempt state machine:
// Idle -> Submitting -> Succeeded | Failed.
type submission struct {
	mu        sync.Mutex
	state     State
	err       error
	abandoned bool
	done      chan struct{}
}

func newSubmission() *submission {
	return &submission{
		state: StateIdle,
		done:  make(chan struct{}),
	}
}

func (s *submission) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *submission) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// begin moves Idle to Submitting. Only one begin wins.
func (s *submission) begin() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateIdle {
		return false
	}
	s.state = StateSubmitting
	return true
}

// complete applies the delayed outcome. An abandoned submission keeps
// its Submitting state: the update would land on a discarded view.
// done is closed either way so no waiter leaks.
func (s *submission) complete(err error) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	defer close(s.done)

	if s.state != StateSubmitting || s.abandoned {
		return false
	}

	if err != nil {
		s.state = StateFailed
		s.err = err
		return true
	}
	s.state = StateSucceeded
	return true
}

// abandon marks the submitter as gone before the outcome arrived. It
// reports false when the outcome already landed, in which case the
// caller must honor the completed state instead of walking away.
func (s *submission) abandon() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateSubmitting {
		return false
	}
	s.abandoned = true
	return true
}
