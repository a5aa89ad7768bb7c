package session

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"followership/internal/model"
)

// ErrClosed is returned by a session that has been retired from memory.
// Callers look the session up again to get a fresh instance.
var ErrClosed = errors.New("session closed")

// ReportGenerator produces the HTML report fragment for a scored submission
type ReportGenerator interface {
	GenerateReport(ctx context.Context, req model.ReportRequest) (string, error)
}

// ReportGeneratorFunc adapts a function to ReportGenerator
type ReportGeneratorFunc func(ctx context.Context, req model.ReportRequest) (string, error)

func (f ReportGeneratorFunc) GenerateReport(ctx context.Context, req model.ReportRequest) (string, error) {
	return f(ctx, req)
}

// Observer is notified after every accepted transition. It runs while the
// session lock is held and must not call back into the Session.
type Observer func(id string, state model.SessionState)

// Option configures a Session
type Option func(*Session)

// WithTimeout bounds each report generation call. A timeout surfaces as a
// generation failure.
func WithTimeout(d time.Duration) Option {
	return func(s *Session) { s.timeout = d }
}

// WithObserver registers a state change observer
func WithObserver(o Observer) Option {
	return func(s *Session) { s.observers = append(s.observers, o) }
}

// Session serialises all transitions of one respondent session and drives
// the asynchronous report generation call.
type Session struct {
	id        string
	generator ReportGenerator
	timeout   time.Duration
	observers []Observer

	mu       sync.Mutex
	state    model.SessionState
	cancel   context.CancelFunc // Cancels the in-flight generation, if any
	closed   bool
	inflight sync.WaitGroup
}

// New creates a session in the intro step
func New(id string, generator ReportGenerator, opts ...Option) *Session {
	return Restore(id, model.NewSessionState(), generator, opts...)
}

// Restore creates a session from a previously persisted state
func Restore(id string, state model.SessionState, generator ReportGenerator, opts ...Option) *Session {
	s := &Session{
		id:        id,
		generator: generator,
		state:     Recover(state),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ID returns the session identifier
func (s *Session) ID() string {
	return s.id
}

// State returns a snapshot of the current state
func (s *Session) State() model.SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Peek calls fn with the current state while holding the session lock, so no
// transition or observer call can interleave with fn.
func (s *Session) Peek(fn func(model.SessionState)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.state)
}

// Retire closes the session unless a report generation is in flight.
// Dispatch on a retired session returns ErrClosed.
func (s *Session) Retire() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil || s.state.Step == model.StepGeneratingReport {
		return false
	}
	s.closed = true
	return true
}

// Dispatch applies ev. An accepted Submit starts report generation in the
// background; the result arrives later as a ReportReady or ReportFailed
// transition.
func (s *Session) Dispatch(ev Event) (model.SessionState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return s.state, ErrClosed
	}
	next, err := Apply(s.state, ev)
	if err != nil {
		return s.state, err
	}

	if _, ok := ev.(Restart); ok && s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}

	s.commit(next)

	if _, ok := ev.(Submit); ok {
		s.startGeneration(next)
	}
	return next, nil
}

// Wait blocks until no report generation is in flight
func (s *Session) Wait() {
	s.inflight.Wait()
}

// startGeneration must be called with s.mu held
func (s *Session) startGeneration(state model.SessionState) {
	var (
		ctx    context.Context
		cancel context.CancelFunc
	)
	if s.timeout > 0 {
		ctx, cancel = context.WithTimeout(context.Background(), s.timeout)
	} else {
		ctx, cancel = context.WithCancel(context.Background())
	}
	s.cancel = cancel

	req := model.ReportRequest{
		Identity:                   state.Identity,
		Scores:                     state.Pending.Scores,
		Type:                       state.Pending.Type,
		AnswersParticipation:       state.Pending.AnswersParticipation,
		AnswersIndependentThinking: state.Pending.AnswersIndependentThinking,
	}

	s.inflight.Add(1)
	go func() {
		defer s.inflight.Done()
		defer cancel()
		html, err := s.generate(ctx, req)
		s.complete(state.Generation, html, err)
	}()
}

func (s *Session) generate(ctx context.Context, req model.ReportRequest) (html string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("report generator panicked: %v", r)
		}
	}()
	if s.generator == nil {
		return "", errors.New("no report generator configured")
	}
	return s.generator.GenerateReport(ctx, req)
}

func (s *Session) complete(generation uint64, html string, genErr error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var ev Event = ReportReady{Generation: generation, ReportHTML: html}
	if genErr != nil {
		log.Printf("Session %s: report generation failed: %v", s.id, genErr)
		ev = ReportFailed{Generation: generation, Message: failureMessage(genErr)}
	}

	next, err := Apply(s.state, ev)
	if err != nil {
		log.Printf("Session %s: discarding report for generation %d: %v", s.id, generation, err)
		return
	}
	s.cancel = nil
	s.commit(next)
}

func (s *Session) commit(next model.SessionState) {
	s.state = next
	for _, o := range s.observers {
		o(s.id, next)
	}
}

func failureMessage(err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return "report generation timed out"
	}
	return err.Error()
}
