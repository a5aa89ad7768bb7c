package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"followership/internal/model"
)

// blockingGenerator holds every call until the test releases it
type blockingGenerator struct {
	calls   chan model.ReportRequest
	release chan result
}

type result struct {
	html string
	err  error
}

func newBlockingGenerator() *blockingGenerator {
	return &blockingGenerator{
		calls:   make(chan model.ReportRequest, 4),
		release: make(chan result, 4),
	}
}

func (g *blockingGenerator) GenerateReport(ctx context.Context, req model.ReportRequest) (string, error) {
	g.calls <- req
	select {
	case r := <-g.release:
		return r.html, r.err
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

func readySession(t *testing.T, gen ReportGenerator, opts ...Option) *Session {
	t.Helper()
	s := New("s1", gen, opts...)
	for _, ev := range []Event{Start{}, SubmitIdentity{Identity: testIdentity}} {
		if _, err := s.Dispatch(ev); err != nil {
			t.Fatalf("Dispatch(%s): %v", ev.eventName(), err)
		}
	}
	for i := 0; i < model.QuestionCount; i++ {
		if _, err := s.Dispatch(SetAnswer{Index: i, Value: 3}); err != nil {
			t.Fatalf("SetAnswer(%d): %v", i, err)
		}
	}
	return s
}

func waitCall(t *testing.T, g *blockingGenerator) model.ReportRequest {
	t.Helper()
	select {
	case req := <-g.calls:
		return req
	case <-time.After(2 * time.Second):
		t.Fatal("generator was not called")
	}
	return model.ReportRequest{}
}

func TestSession_SubmitGeneratesReport(t *testing.T) {
	g := newBlockingGenerator()
	s := readySession(t, g)

	st, err := s.Dispatch(Submit{})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if st.Step != model.StepGeneratingReport {
		t.Fatalf("step = %s, want ANALYZING", st.Step)
	}

	req := waitCall(t, g)
	if req.Identity != testIdentity || req.Scores.Participation != 30 || req.Type.Code != model.TypePragmatic {
		t.Fatalf("request = %+v", req)
	}

	if _, err := s.Dispatch(Submit{}); !errors.Is(err, ErrGenerationInFlight) {
		t.Fatalf("second submit err = %v", err)
	}

	g.release <- result{html: "<p>report</p>"}
	s.Wait()

	got := s.State()
	if got.Step != model.StepShowingResult || got.Result == nil || got.Result.ReportHTML != "<p>report</p>" {
		t.Fatalf("state = %+v", got)
	}
}

func TestSession_GeneratorFailure(t *testing.T) {
	s := readySession(t, ReportGeneratorFunc(func(context.Context, model.ReportRequest) (string, error) {
		return "", errors.New("upstream 500")
	}))
	if _, err := s.Dispatch(Submit{}); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	s.Wait()

	got := s.State()
	if got.Step != model.StepShowingError || got.Error != "upstream 500" {
		t.Fatalf("state = %+v", got)
	}
	if got.Answers != fullAnswers(3) {
		t.Error("answers lost on failure")
	}
}

func TestSession_GeneratorPanic(t *testing.T) {
	s := readySession(t, ReportGeneratorFunc(func(context.Context, model.ReportRequest) (string, error) {
		panic("nil map")
	}))
	if _, err := s.Dispatch(Submit{}); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	s.Wait()

	if got := s.State(); got.Step != model.StepShowingError {
		t.Fatalf("step = %s, want ERROR", got.Step)
	}
}

func TestSession_Timeout(t *testing.T) {
	g := newBlockingGenerator()
	s := readySession(t, g, WithTimeout(20*time.Millisecond))
	if _, err := s.Dispatch(Submit{}); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	s.Wait()

	got := s.State()
	if got.Step != model.StepShowingError || got.Error != "report generation timed out" {
		t.Fatalf("state = %+v", got)
	}
}

func TestSession_RestartDiscardsLateReport(t *testing.T) {
	g := newBlockingGenerator()
	s := readySession(t, g)
	if _, err := s.Dispatch(Submit{}); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	waitCall(t, g)

	st, err := s.Dispatch(Restart{})
	if err != nil {
		t.Fatalf("Restart: %v", err)
	}
	if st.Step != model.StepIntro {
		t.Fatalf("step = %s", st.Step)
	}
	// Restart cancels the call; the generator sees ctx.Done and returns.
	s.Wait()

	got := s.State()
	if got.Step != model.StepIntro || got.Result != nil || got.Error != "" {
		t.Fatalf("late completion leaked into restarted session: %+v", got)
	}
}

func TestSession_ObserverSeesEveryTransition(t *testing.T) {
	var (
		mu    sync.Mutex
		steps []model.Step
	)
	obs := WithObserver(func(id string, st model.SessionState) {
		if id != "s1" {
			t.Errorf("observer id = %q", id)
		}
		mu.Lock()
		steps = append(steps, st.Step)
		mu.Unlock()
	})
	s := readySession(t, ReportGeneratorFunc(func(context.Context, model.ReportRequest) (string, error) {
		return "<p/>", nil
	}), obs)
	if _, err := s.Dispatch(Submit{}); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	s.Wait()
	if _, err := s.Dispatch(Retry{}); err == nil {
		t.Fatal("retry from RESULT accepted")
	}

	mu.Lock()
	defer mu.Unlock()
	// start, identity, 20 answers, submit, ready
	if want := 2 + model.QuestionCount + 2; len(steps) != want {
		t.Fatalf("observer called %d times, want %d", len(steps), want)
	}
	if steps[len(steps)-1] != model.StepShowingResult {
		t.Errorf("last observed step = %s", steps[len(steps)-1])
	}
}

func TestRestore_InterruptedGeneration(t *testing.T) {
	st := stateAt(t, model.StepGeneratingReport)
	s := Restore("s2", st, nil)
	got := s.State()
	if got.Step != model.StepShowingError {
		t.Fatalf("step = %s, want ERROR", got.Step)
	}
	if _, err := s.Dispatch(Retry{}); err != nil {
		t.Fatalf("Retry after restore: %v", err)
	}
}

func TestSession_NilGenerator(t *testing.T) {
	s := readySession(t, nil)
	if _, err := s.Dispatch(Submit{}); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	s.Wait()
	if got := s.State(); got.Step != model.StepShowingError {
		t.Fatalf("step = %s", got.Step)
	}
}

func TestSession_RetireRefusesInFlightGeneration(t *testing.T) {
	g := newBlockingGenerator()
	s := readySession(t, g)
	if _, err := s.Dispatch(Submit{}); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	waitCall(t, g)

	if s.Retire() {
		t.Fatal("retired a session with a generation in flight")
	}
	g.release <- result{html: "<p/>"}
	s.Wait()

	if !s.Retire() {
		t.Fatal("Retire refused an idle session")
	}
	st, err := s.Dispatch(Restart{})
	if !errors.Is(err, ErrClosed) {
		t.Fatalf("Dispatch after Retire err = %v, want ErrClosed", err)
	}
	if st.Step != model.StepShowingResult {
		t.Errorf("retired session changed state: %s", st.Step)
	}
}

func TestSession_PeekHoldsLock(t *testing.T) {
	s := New("s1", nil)
	done := make(chan struct{})

	s.Peek(func(st model.SessionState) {
		if st.Step != model.StepIntro {
			t.Errorf("step = %s", st.Step)
		}
		go func() {
			s.Dispatch(Start{})
			close(done)
		}()
		select {
		case <-done:
			t.Error("transition ran while Peek held the lock")
		case <-time.After(50 * time.Millisecond):
		}
	})
	<-done
	if got := s.State(); got.Step != model.StepCollectingIdentity {
		t.Errorf("step after Peek = %s", got.Step)
	}
}
