package enroll

import "sync"

// Registry keeps successful enrollments per user, in memory, feeding
// the profile view.
type Registry struct {
	mu     sync.RWMutex
	byUser map[string][]Enrollment
}

func NewRegistry() *Registry {
	return &Registry{byUser: make(map[string][]Enrollment)}
}

func (r *Registry) Add(e Enrollment) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byUser[e.UserID] = append(r.byUser[e.UserID], e)
}

func (r *Registry) ByUser(userID string) []Enrollment {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Enrollment, len(r.byUser[userID]))
	copy(out, r.byUser[userID])
	return out
}

func (r *Registry) Owns(userID string, courseID int) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, e := range r.byUser[userID] {
		if e.CourseID == courseID {
			return true
		}
	}
	return false
}
