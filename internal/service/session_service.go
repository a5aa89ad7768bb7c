package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"followership/internal/cache"
	"followership/internal/model"
	"followership/internal/session"

	"github.com/google/uuid"
)

// MsgStateChanged is pushed to a session's sockets after every transition
const MsgStateChanged = "state_changed"

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrResultNotReady  = errors.New("session has no result yet")
)

// SessionService owns the live respondent sessions
type SessionService struct {
	authSvc      *AuthService
	generator    session.ReportGenerator
	sessionCache cache.SessionCache
	broadcaster  Broadcaster
	timeout      time.Duration
	now          func() time.Time

	mu       sync.RWMutex
	sessions map[string]*liveSession
}

type liveSession struct {
	*session.Session
	lastUsed atomic.Int64 // Unix nanoseconds
}

// NewSessionService creates a new session service. timeout bounds each
// report generation call.
func NewSessionService(
	authSvc *AuthService,
	generator session.ReportGenerator,
	sessionCache cache.SessionCache,
	timeout time.Duration,
) *SessionService {
	return &SessionService{
		authSvc:      authSvc,
		generator:    generator,
		sessionCache: sessionCache,
		timeout:      timeout,
		now:          time.Now,
		sessions:     make(map[string]*liveSession),
	}
}

// SetBroadcaster sets the broadcaster for WebSocket events
func (s *SessionService) SetBroadcaster(b Broadcaster) {
	s.broadcaster = b
}

// Create starts a new session and returns its access token
func (s *SessionService) Create(ctx context.Context) (*model.SessionCreated, error) {
	id := uuid.New().String()
	token, err := s.authSvc.GenerateSessionToken(id)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	sess := session.New(id, s.generator, s.options()...)
	state := sess.State()
	if err := s.persist(ctx, id, state); err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.sessions[id] = s.track(sess)
	s.mu.Unlock()

	log.Printf("Session %s created", id)
	return &model.SessionCreated{
		SessionView: view(id, state),
		Token:       token,
	}, nil
}

// Get returns the current view of a session
func (s *SessionService) Get(ctx context.Context, id string) (*model.SessionView, error) {
	sess, err := s.lookup(ctx, id)
	if err != nil {
		return nil, err
	}
	v := view(id, sess.State())
	return &v, nil
}

// Snapshot calls fn with the current view while no transition can run.
// Anything fn enqueues is ordered before the next state change broadcast.
func (s *SessionService) Snapshot(ctx context.Context, id string, fn func(model.SessionView)) error {
	sess, err := s.lookup(ctx, id)
	if err != nil {
		return err
	}
	sess.Peek(func(state model.SessionState) {
		fn(view(id, state))
	})
	return nil
}

// Dispatch applies ev to the session. A refused event returns the unchanged
// view together with the refusal error.
func (s *SessionService) Dispatch(ctx context.Context, id string, ev session.Event) (*model.SessionView, error) {
	for {
		sess, err := s.lookup(ctx, id)
		if err != nil {
			return nil, err
		}
		state, err := sess.Dispatch(ev)
		if errors.Is(err, session.ErrClosed) {
			// Evicted between lookup and dispatch; the next lookup rehydrates it
			continue
		}
		v := view(id, state)
		return &v, err
	}
}

// Result returns the analysis result of a completed session
func (s *SessionService) Result(ctx context.Context, id string) (*model.SessionState, *model.AnalysisResult, error) {
	sess, err := s.lookup(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	state := sess.State()
	if state.Step != model.StepShowingResult || state.Result == nil {
		return &state, nil, ErrResultNotReady
	}
	return &state, state.Result, nil
}

// Wait blocks until every in-flight report generation has finished
func (s *SessionService) Wait() {
	s.mu.RLock()
	live := make([]*liveSession, 0, len(s.sessions))
	for _, sess := range s.sessions {
		live = append(live, sess)
	}
	s.mu.RUnlock()

	for _, sess := range live {
		sess.Wait()
	}
}

// Evict drops sessions unused for longer than idle from memory. Sessions
// generating a report stay. An evicted session is rehydrated from Redis on
// its next request; when Redis no longer holds it either, its sockets are
// closed.
func (s *SessionService) Evict(ctx context.Context, idle time.Duration) int {
	cutoff := s.now().Add(-idle).UnixNano()

	var evicted []string
	s.mu.Lock()
	for id, sess := range s.sessions {
		if sess.lastUsed.Load() > cutoff || !sess.Retire() {
			continue
		}
		delete(s.sessions, id)
		evicted = append(evicted, id)
	}
	s.mu.Unlock()

	for _, id := range evicted {
		if s.stored(ctx, id) {
			continue
		}
		log.Printf("Session %s expired", id)
		if s.broadcaster != nil {
			s.broadcaster.DisconnectSession(id)
		}
	}
	return len(evicted)
}

// RunEviction calls Evict every interval until ctx is cancelled
func (s *SessionService) RunEviction(ctx context.Context, interval, idle time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.Evict(ctx, idle); n > 0 {
				log.Printf("Evicted %d idle sessions", n)
			}
		}
	}
}

// stored reports whether Redis still holds the session. Lookup errors count
// as present so a Redis outage does not drop sockets.
func (s *SessionService) stored(ctx context.Context, id string) bool {
	if s.sessionCache == nil {
		return false
	}
	st, err := s.sessionCache.Get(ctx, id)
	if err != nil {
		log.Printf("Failed to check session %s: %v", id, err)
		return true
	}
	return st != nil
}

func (s *SessionService) track(sess *session.Session) *liveSession {
	ls := &liveSession{Session: sess}
	ls.lastUsed.Store(s.now().UnixNano())
	return ls
}

// lookup returns the live session, rehydrating it from Redis when this
// process has not seen it yet.
func (s *SessionService) lookup(ctx context.Context, id string) (*liveSession, error) {
	s.mu.RLock()
	sess, ok := s.sessions[id]
	s.mu.RUnlock()
	if ok {
		sess.lastUsed.Store(s.now().UnixNano())
		return sess, nil
	}

	if s.sessionCache == nil {
		return nil, ErrSessionNotFound
	}
	stored, err := s.sessionCache.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	if stored == nil {
		return nil, ErrSessionNotFound
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if sess, ok := s.sessions[id]; ok {
		return sess, nil
	}
	restored := session.Restore(id, *stored, s.generator, s.options()...)
	if stored.Step != restored.State().Step {
		log.Printf("Session %s restored from %s as %s", id, stored.Step, restored.State().Step)
		if err := s.persist(ctx, id, restored.State()); err != nil {
			log.Printf("Failed to persist restored session %s: %v", id, err)
		}
	}
	sess = s.track(restored)
	s.sessions[id] = sess
	return sess, nil
}

func (s *SessionService) options() []session.Option {
	return []session.Option{
		session.WithTimeout(s.timeout),
		session.WithObserver(s.onStateChange),
	}
}

// onStateChange runs under the session lock, so writes reach Redis in transition order
func (s *SessionService) onStateChange(id string, state model.SessionState) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.persist(ctx, id, state); err != nil {
		log.Printf("Failed to persist session %s: %v", id, err)
	}
	if s.broadcaster != nil {
		s.broadcaster.BroadcastToSession(id, MsgStateChanged, view(id, state))
	}
}

func (s *SessionService) persist(ctx context.Context, id string, state model.SessionState) error {
	if s.sessionCache == nil {
		return nil
	}
	if err := s.sessionCache.Set(ctx, id, state); err != nil {
		return fmt.Errorf("failed to store session: %w", err)
	}
	return nil
}

func view(id string, state model.SessionState) model.SessionView {
	return model.SessionView{
		ID:            id,
		State:         state,
		AnsweredCount: state.Answers.AnsweredCount(),
	}
}
