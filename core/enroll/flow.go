package enroll

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/skillswap/skillswap-api/api/background"
	"github.com/skillswap/skillswap-api/core/catalog"
	"github.com/skillswap/skillswap-api/validate"
)

// InvalidDraftError reports a draft that failed validation. The
// submission machine is never started for such a draft.
type InvalidDraftError struct {
	Err error
}

func (e *InvalidDraftError) Error() string {
	return fmt.Sprintf("invalid enrollment draft: %v", e.Err)
}

func (e *InvalidDraftError) Unwrap() error { return e.Err }

// Flow orchestrates Detail -> Form -> Confirmation: it resolves
// courses, drives the submission machine, records successful
// enrollments and stages the one-shot handoff payload.
type Flow struct {
	log           logrus.FieldLogger
	catalog       *catalog.Catalog
	proc          Processor
	bg            *background.Background
	handoff       *Handoff
	registry      *Registry
	downloadDelay time.Duration

	mu        sync.Mutex
	subs      map[string]*submission
	downloads map[string]*download
}

type Config struct {
	Log           logrus.FieldLogger
	Catalog       *catalog.Catalog
	Processor     Processor
	Background    *background.Background
	DownloadDelay time.Duration
}

func NewFlow(cfg Config) *Flow {
	return &Flow{
		log:           cfg.Log,
		catalog:       cfg.Catalog,
		proc:          cfg.Processor,
		bg:            cfg.Background,
		handoff:       NewHandoff(),
		registry:      NewRegistry(),
		downloadDelay: cfg.DownloadDelay,
		subs:          make(map[string]*submission),
		downloads:     make(map[string]*download),
	}
}

func (f *Flow) Registry() *Registry { return f.registry }

// ResolveCourse looks up id, degrading to the fallback record with the
// advisory flag set when the catalog cannot satisfy it.
func (f *Flow) ResolveCourse(id int) (catalog.Course, bool) {
	return f.catalog.Lookup(id)
}

// Result is what a completed submission hands back: the recorded
// enrollment, the one-time handoff token and the view to move to.
type Result struct {
	Enrollment Enrollment `json:"enrollment"`
	Token      string     `json:"handoffToken"`
	RedirectTo string     `json:"redirectTo"`
}

// Submit validates the draft, runs the submission machine and waits
// for the outcome. The payment timer itself is never cancelled: if ctx
// expires while waiting, the submission is abandoned and the delayed
// state update is suppressed rather than applied to a discarded view.
func (f *Flow) Submit(ctx context.Context, userID string, courseID int, d Draft) (Result, error) {
	if err := validate.Check(d); err != nil {
		return Result{}, &InvalidDraftError{Err: err}
	}

	crs, advisory := f.catalog.Lookup(courseID)
	if advisory {
		f.log.WithField("course_id", courseID).Warn("enrolling against the fallback course record")
	}

	// The selection is locked to the resolved course whatever the
	// client sent.
	d.Course = crs.Name

	sub := newSubmission()
	key := flowKey(userID, courseID)
	f.mu.Lock()
	f.subs[key] = sub
	f.mu.Unlock()

	if !sub.begin() {
		return Result{}, fmt.Errorf("submission for course[%d] already started", courseID)
	}

	f.bg.Add(func() {
		err := f.proc.Process(context.Background(), crs.Price)
		if !sub.complete(err) {
			f.log.WithField("course_id", courseID).Info("suppressed stale submission update")
		}
	})

	select {
	case <-sub.done:
	case <-ctx.Done():
		// If the outcome landed before the abandon took hold, the
		// machine already transitioned: record it rather than leaving
		// a Succeeded status with no enrollment behind it.
		if sub.abandon() {
			return Result{}, fmt.Errorf("submitter went away: %w", ctx.Err())
		}
	}

	if err := sub.Err(); err != nil {
		return Result{}, fmt.Errorf("processing payment for course[%d]: %w", courseID, err)
	}

	enr := Enrollment{
		ID:           validate.GenerateID(),
		UserID:       userID,
		CourseID:     courseID,
		CourseName:   crs.Name,
		Price:        crs.Price,
		StudentName:  d.Name,
		StudentEmail: d.Email,
		State:        StateSucceeded,
		CreatedAt:    time.Now().UTC(),
	}
	f.registry.Add(enr)

	token, err := f.handoff.Put(Context{
		CourseName: crs.Name,
		Price:      crs.Price,
		ImageURL:   crs.ImageURL,
	})
	if err != nil {
		return Result{}, fmt.Errorf("staging the confirmation handoff: %w", err)
	}

	return Result{
		Enrollment: enr,
		Token:      token,
		RedirectTo: fmt.Sprintf("/enroll-success/%d", courseID),
	}, nil
}

// Status reports the latest submission state for a user and course,
// Idle when none was ever started.
func (f *Flow) Status(userID string, courseID int) State {
	f.mu.Lock()
	defer f.mu.Unlock()

	sub, ok := f.subs[flowKey(userID, courseID)]
	if !ok {
		return StateIdle
	}
	return sub.State()
}

// TakeHandoff consumes the one-shot confirmation payload.
func (f *Flow) TakeHandoff(token string) (Context, bool) {
	return f.handoff.Take(token)
}

// StartDownload drives the material download for a user and course.
// Only the first call out of Initial schedules the timer; later calls
// observe the current state.
func (f *Flow) StartDownload(userID string, courseID int) (DownloadState, string) {
	crs, _ := f.catalog.Lookup(courseID)

	key := flowKey(userID, courseID)
	f.mu.Lock()
	dl, ok := f.downloads[key]
	if !ok {
		dl = newDownload(crs.Name)
		f.downloads[key] = dl
	}
	f.mu.Unlock()

	if dl.start() {
		delay := f.downloadDelay
		f.bg.Add(func() {
			timer := time.NewTimer(delay)
			defer timer.Stop()
			<-timer.C
			dl.finish()
		})
	}

	return dl.snapshot()
}

func flowKey(userID string, courseID int) string {
	return fmt.Sprintf("%s/%d", userID, courseID)
}
