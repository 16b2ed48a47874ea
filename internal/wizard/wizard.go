// Package wizard holds the state of one application session: the single
// mutable record, the current step, submit-gated navigation and the
// generated document.
package wizard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/vredrick/cofa-passport/internal/application"
	"github.com/vredrick/cofa-passport/internal/metrics"
	"github.com/vredrick/cofa-passport/internal/validation"
)

var (
	// ErrStepInvalid is returned by Submit and Generate when validation fails.
	ErrStepInvalid = errors.New("step has validation errors")
	// ErrGenerationPending is returned by Generate while a fill is running.
	ErrGenerationPending = errors.New("generation already in progress")
	// ErrStepLocked is returned by GoTo for a step not yet reached.
	ErrStepLocked = errors.New("step not reached yet")
	// ErrNotReview is returned by Generate outside the review step.
	ErrNotReview = errors.New("generate is only available on the review step")
	// ErrSessionReset is returned by Generate when Reset ran during the fill.
	ErrSessionReset = errors.New("session was reset during generation")
)

// Filler renders a record to document bytes.
type Filler interface {
	Fill(ctx context.Context, rec application.Record) ([]byte, error)
}

// Namer derives the output filename of a record.
type Namer interface {
	Filename(rec application.Record) string
}

// Artifact is a generated document and its download name.
type Artifact struct {
	Bytes    []byte
	Filename string

	released bool
}

// Release drops the document bytes. It is safe to call more than once.
func (a *Artifact) Release() {
	if a == nil {
		return
	}
	a.Bytes = nil
	a.released = true
}

// Released reports whether Release was called.
func (a *Artifact) Released() bool {
	return a != nil && a.released
}

// Session owns exactly one record. All methods are safe for concurrent use.
type Session struct {
	mu sync.Mutex

	id        uuid.UUID
	record    application.Record
	step      Step
	completed map[Step]bool
	attempted bool
	errs      validation.Errors

	generating bool
	artifact   *Artifact

	filler  Filler
	namer   Namer
	base    *slog.Logger
	logger  *slog.Logger
	metrics *metrics.Metrics
}

// Option configures a Session.
type Option func(*Session)

func WithLogger(l *slog.Logger) Option {
	return func(s *Session) { s.base = l }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Session) { s.metrics = m }
}

// NewSession starts a session on the type step with a blank record.
func NewSession(filler Filler, namer Namer, opts ...Option) *Session {
	s := &Session{
		filler: filler,
		namer:  namer,
		base:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.reset()
	return s
}

func (s *Session) reset() {
	s.id = uuid.New()
	s.record = application.NewRecord()
	s.step = StepType
	s.completed = map[Step]bool{}
	s.attempted = false
	s.errs = validation.Errors{}
	s.artifact.Release()
	s.artifact = nil
	s.logger = s.base.With("session", s.id.String())
}

// ID identifies the session in logs.
func (s *Session) ID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.id.String()
}

// Record returns a copy of the current record.
func (s *Session) Record() application.Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.record
}

// Step returns the current step.
func (s *Session) Step() Step {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.step
}

// Completed reports whether step was submitted without errors.
func (s *Session) Completed(step Step) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.completed[step]
}

// Errors returns the errors of the current step. It stays empty until the
// step has been submitted once.
func (s *Session) Errors() validation.Errors {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(validation.Errors, len(s.errs))
	for k, v := range s.errs {
		out[k] = v
	}
	return out
}

// Update applies fn to a copy of the record and stores the result. After a
// submit attempt on the current step the errors are recomputed.
func (s *Session) Update(fn func(*application.Record)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.record
	fn(&next)
	s.record = next

	if s.attempted {
		s.errs = Validate(s.step, s.record)
	}
}

// Submit validates the current step. When it passes the step is marked
// complete and the session advances; the review step does not advance.
func (s *Session) Submit() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.attempted = true
	s.errs = Validate(s.step, s.record)
	if s.errs.Has() {
		s.metrics.IncrementValidationFailure(s.step.Section())
		s.logger.Debug("step rejected", "step", s.step.String(), "errors", len(s.errs))
		return fmt.Errorf("%s: %w", s.step, ErrStepInvalid)
	}

	s.completed[s.step] = true
	if s.step < StepReview {
		s.enter(s.step + 1)
	}
	return nil
}

// Back moves to the previous step. It is a no-op on the first step.
func (s *Session) Back() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.step > StepType {
		s.enter(s.step - 1)
	}
}

// GoTo jumps to a completed step, or to the step right after the last
// completed one.
func (s *Session) GoTo(step Step) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if step < StepType || step > StepReview {
		return fmt.Errorf("unknown step %d", int(step))
	}
	if step != s.step && !s.completed[step] && !s.reachable(step) {
		return fmt.Errorf("%s: %w", step, ErrStepLocked)
	}
	s.enter(step)
	return nil
}

// reachable reports whether every step before target is complete.
func (s *Session) reachable(target Step) bool {
	for st := StepType; st < target; st++ {
		if !s.completed[st] {
			return false
		}
	}
	return true
}

func (s *Session) enter(step Step) {
	s.step = step
	s.attempted = false
	s.errs = validation.Errors{}
}

// Reset discards the record, the progress and any artifact, and starts a new
// session identity.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reset()
}

// Artifact returns the last generated document, or nil.
func (s *Session) Artifact() *Artifact {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.artifact
}

// Generate fills the record and names the result. It is only available on
// the review step, once the whole record validates. The previous artifact is
// released when the new one replaces it. A failed generation keeps the
// previous artifact and may be retried.
func (s *Session) Generate(ctx context.Context) (*Artifact, error) {
	s.mu.Lock()
	if s.step != StepReview {
		s.mu.Unlock()
		return nil, ErrNotReview
	}
	if s.generating {
		s.mu.Unlock()
		return nil, ErrGenerationPending
	}
	s.attempted = true
	s.errs = Validate(StepReview, s.record)
	if s.errs.Has() {
		s.metrics.IncrementValidationFailure(StepReview.Section())
		s.mu.Unlock()
		return nil, fmt.Errorf("%s: %w", StepReview, ErrStepInvalid)
	}
	s.generating = true
	rec := s.record
	id := s.id
	logger := s.logger
	s.mu.Unlock()

	out, err := s.filler.Fill(ctx, rec)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.generating = false

	if err != nil {
		logger.Error("generation failed", "error", err)
		return nil, fmt.Errorf("generation failed: %w", err)
	}

	art := &Artifact{Bytes: out, Filename: s.namer.Filename(rec)}
	if s.id != id {
		art.Release()
		return nil, ErrSessionReset
	}
	s.artifact.Release()
	s.artifact = art
	s.completed[StepReview] = true
	logger.Info("document generated", "filename", art.Filename, "bytes", len(out))
	return art, nil
}
