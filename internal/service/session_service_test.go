package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"followership/internal/model"
	"followership/internal/session"
	"followership/internal/testutil"
)

func newTestSessionService(t *testing.T, gen session.ReportGenerator) (*SessionService, *testutil.SessionCache, *testutil.Broadcaster) {
	t.Helper()
	sc := testutil.NewSessionCache()
	b := &testutil.Broadcaster{}
	s := NewSessionService(newTestAuth(t), gen, sc, 0)
	s.SetBroadcaster(b)
	return s, sc, b
}

func staticReport(html string) session.ReportGenerator {
	return session.ReportGeneratorFunc(func(context.Context, model.ReportRequest) (string, error) {
		return html, nil
	})
}

// completeSession drives a new session to the result step
func completeSession(t *testing.T, s *SessionService) string {
	t.Helper()
	ctx := context.Background()
	created, err := s.Create(ctx)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	id := created.ID
	var answers model.AnswerSet
	for i := range answers {
		answers[i] = 5
	}
	for _, ev := range []session.Event{
		session.Start{},
		session.SubmitIdentity{Identity: model.RespondentIdentity{Name: "Kim", Company: "Acme"}},
		session.ReplaceAnswers{Answers: answers},
		session.Submit{},
	} {
		if _, err := s.Dispatch(ctx, id, ev); err != nil {
			t.Fatalf("Dispatch(%T): %v", ev, err)
		}
	}
	s.Wait()
	return id
}

func TestSessionService_CreateAndGet(t *testing.T) {
	s, sc, _ := newTestSessionService(t, staticReport("<p/>"))
	ctx := context.Background()

	created, err := s.Create(ctx)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.ID == "" || created.Token == "" {
		t.Fatalf("created = %+v", created)
	}
	if created.State.Step != model.StepIntro {
		t.Errorf("step = %s", created.State.Step)
	}
	claims, err := s.authSvc.ValidateSessionToken(created.Token)
	if err != nil || claims.SessionID != created.ID {
		t.Errorf("token claims = %+v, %v", claims, err)
	}
	if stored, _ := sc.Get(ctx, created.ID); stored == nil {
		t.Error("new session not persisted")
	}

	if _, err := s.Get(ctx, "missing"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Get(missing) err = %v", err)
	}
}

func TestSessionService_FullFlow(t *testing.T) {
	s, sc, b := newTestSessionService(t, staticReport("<h3>ok</h3>"))
	id := completeSession(t, s)

	v, err := s.Get(context.Background(), id)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if v.State.Step != model.StepShowingResult || v.AnsweredCount != model.QuestionCount {
		t.Fatalf("view = %+v", v)
	}
	_, result, err := s.Result(context.Background(), id)
	if err != nil || result.ReportHTML != "<h3>ok</h3>" || result.Type.Code != model.TypeExemplary {
		t.Fatalf("Result = %+v, %v", result, err)
	}

	stored, _ := sc.Get(context.Background(), id)
	if stored == nil || stored.Step != model.StepShowingResult {
		t.Fatalf("cache holds %+v", stored)
	}

	msgs := b.Snapshot()
	if len(msgs) != 5 {
		t.Fatalf("broadcasts = %d, want 5", len(msgs))
	}
	last := msgs[len(msgs)-1]
	if last.SessionID != id || last.Type != MsgStateChanged {
		t.Errorf("last broadcast = %+v", last)
	}
	if pv, ok := last.Payload.(model.SessionView); !ok || pv.State.Step != model.StepShowingResult {
		t.Errorf("last payload = %+v", last.Payload)
	}
}

func TestSessionService_RefusalReturnsView(t *testing.T) {
	s, _, _ := newTestSessionService(t, staticReport("<p/>"))
	created, _ := s.Create(context.Background())

	v, err := s.Dispatch(context.Background(), created.ID, session.Submit{})
	if !errors.Is(err, session.ErrInvalidTransition) {
		t.Fatalf("err = %v", err)
	}
	if v == nil || v.State.Step != model.StepIntro {
		t.Fatalf("view = %+v", v)
	}
	if _, _, err := s.Result(context.Background(), created.ID); !errors.Is(err, ErrResultNotReady) {
		t.Errorf("Result err = %v", err)
	}
}

func TestSessionService_RehydratesFromCache(t *testing.T) {
	sc := testutil.NewSessionCache()
	auth := newTestAuth(t)

	first := NewSessionService(auth, staticReport("<p/>"), sc, 0)
	created, _ := first.Create(context.Background())
	if _, err := first.Dispatch(context.Background(), created.ID, session.Start{}); err != nil {
		t.Fatal(err)
	}

	// A second process sees the same Redis
	second := NewSessionService(auth, staticReport("<p/>"), sc, 0)
	v, err := second.Get(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if v.State.Step != model.StepCollectingIdentity {
		t.Fatalf("step = %s", v.State.Step)
	}
}

func TestSessionService_RehydrateInterruptedGeneration(t *testing.T) {
	sc := testutil.NewSessionCache()
	auth := newTestAuth(t)

	pending := &model.Assessment{}
	sc.Set(context.Background(), "s1", model.SessionState{
		Step:       model.StepGeneratingReport,
		Generation: 3,
		Pending:    pending,
	})

	s := NewSessionService(auth, staticReport("<p/>"), sc, 0)
	v, err := s.Get(context.Background(), "s1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if v.State.Step != model.StepShowingError {
		t.Fatalf("step = %s, want ERROR", v.State.Step)
	}
	stored, _ := sc.Get(context.Background(), "s1")
	if stored.Step != model.StepShowingError {
		t.Errorf("recovered state not persisted: %s", stored.Step)
	}
}

func TestSessionService_CacheFailure(t *testing.T) {
	s, sc, _ := newTestSessionService(t, staticReport("<p/>"))
	sc.Err = errors.New("redis down")
	if _, err := s.Create(context.Background()); err == nil {
		t.Fatal("Create succeeded without storage")
	}
}

// fakeClock lets tests move the service's notion of "now"
type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func TestSessionService_EvictIdleSession(t *testing.T) {
	s, _, b := newTestSessionService(t, staticReport("<p/>"))
	clock := &fakeClock{t: time.Unix(1_700_000_000, 0)}
	s.now = clock.Now
	ctx := context.Background()

	idle, _ := s.Create(ctx)
	clock.Advance(20 * time.Minute)
	active, _ := s.Create(ctx)
	clock.Advance(15 * time.Minute)

	if n := s.Evict(ctx, 30*time.Minute); n != 1 {
		t.Fatalf("Evict = %d, want 1", n)
	}
	s.mu.RLock()
	_, idleLive := s.sessions[idle.ID]
	_, activeLive := s.sessions[active.ID]
	s.mu.RUnlock()
	if idleLive || !activeLive {
		t.Fatalf("live after eviction: idle=%v active=%v", idleLive, activeLive)
	}
	if got := b.Disconnected(); len(got) != 0 {
		t.Errorf("disconnected %v while Redis still holds the session", got)
	}

	// Rehydrated from Redis on the next request
	v, err := s.Dispatch(ctx, idle.ID, session.Start{})
	if err != nil {
		t.Fatalf("Dispatch after eviction: %v", err)
	}
	if v.State.Step != model.StepCollectingIdentity {
		t.Errorf("step = %s", v.State.Step)
	}
}

func TestSessionService_EvictKeepsGeneratingSession(t *testing.T) {
	release := make(chan struct{})
	gen := session.ReportGeneratorFunc(func(ctx context.Context, _ model.ReportRequest) (string, error) {
		select {
		case <-release:
			return "<p/>", nil
		case <-ctx.Done():
			return "", ctx.Err()
		}
	})
	s, _, _ := newTestSessionService(t, gen)
	clock := &fakeClock{t: time.Unix(1_700_000_000, 0)}
	s.now = clock.Now
	ctx := context.Background()

	created, _ := s.Create(ctx)
	var answers model.AnswerSet
	for i := range answers {
		answers[i] = 3
	}
	for _, ev := range []session.Event{
		session.Start{},
		session.SubmitIdentity{Identity: model.RespondentIdentity{Name: "Kim", Company: "Acme"}},
		session.ReplaceAnswers{Answers: answers},
		session.Submit{},
	} {
		if _, err := s.Dispatch(ctx, created.ID, ev); err != nil {
			t.Fatalf("Dispatch(%T): %v", ev, err)
		}
	}

	clock.Advance(time.Hour)
	if n := s.Evict(ctx, time.Minute); n != 0 {
		t.Fatalf("evicted %d sessions during generation", n)
	}

	close(release)
	s.Wait()
	v, err := s.Get(ctx, created.ID)
	if err != nil || v.State.Step != model.StepShowingResult {
		t.Fatalf("view = %+v, %v", v, err)
	}

	clock.Advance(time.Hour)
	if n := s.Evict(ctx, time.Minute); n != 1 {
		t.Fatalf("Evict after completion = %d, want 1", n)
	}
}

func TestSessionService_EvictExpiredDisconnectsSockets(t *testing.T) {
	s, sc, b := newTestSessionService(t, staticReport("<p/>"))
	clock := &fakeClock{t: time.Unix(1_700_000_000, 0)}
	s.now = clock.Now
	ctx := context.Background()

	created, _ := s.Create(ctx)
	// Redis TTL ran out
	sc.Delete(ctx, created.ID)
	clock.Advance(time.Hour)

	if n := s.Evict(ctx, time.Minute); n != 1 {
		t.Fatalf("Evict = %d, want 1", n)
	}
	if got := b.Disconnected(); len(got) != 1 || got[0] != created.ID {
		t.Fatalf("disconnected = %v", got)
	}
	if _, err := s.Get(ctx, created.ID); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Get after expiry err = %v", err)
	}
}

func TestSessionService_SnapshotSeesCurrentState(t *testing.T) {
	s, _, _ := newTestSessionService(t, staticReport("<p/>"))
	ctx := context.Background()
	created, _ := s.Create(ctx)
	if _, err := s.Dispatch(ctx, created.ID, session.Start{}); err != nil {
		t.Fatal(err)
	}

	var got model.SessionView
	if err := s.Snapshot(ctx, created.ID, func(v model.SessionView) { got = v }); err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	if got.ID != created.ID || got.State.Step != model.StepCollectingIdentity {
		t.Errorf("snapshot = %+v", got)
	}
	if err := s.Snapshot(ctx, "missing", func(model.SessionView) {}); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Snapshot(missing) err = %v", err)
	}
}
