package service

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"followership/internal/config"
	"followership/internal/model"
	"followership/internal/scoring"
)

func testReportRequest() model.ReportRequest {
	var answers model.AnswerSet
	for i := range answers {
		answers[i] = 5
		if i >= model.QuestionsPerAxis {
			answers[i] = 1
		}
	}
	a := scoring.Assess(answers)
	return model.ReportRequest{
		Identity:                   model.RespondentIdentity{Name: "홍길동", Company: "Acme"},
		Scores:                     a.Scores,
		Type:                       a.Type,
		AnswersParticipation:       a.AnswersParticipation,
		AnswersIndependentThinking: a.AnswersIndependentThinking,
	}
}

func newTestEvaluator(t *testing.T, handler http.HandlerFunc) *EvaluatorService {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	cfg := &config.AIConfig{
		APIKey:    "test-key",
		BaseURL:   srv.URL + "/models",
		Models:    config.GeminiModels{Report: "gemini-test"},
		TimeoutMS: 2000,
	}
	s := NewEvaluatorService(cfg, NewCatalogService(nil))
	s.now = func() time.Time { return time.Date(2026, 3, 5, 9, 0, 0, 0, time.UTC) }
	return s
}

func geminiReply(w http.ResponseWriter, text string) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"candidates": []interface{}{
			map[string]interface{}{
				"content": map[string]interface{}{
					"parts": []interface{}{map[string]string{"text": text}},
				},
			},
		},
	})
}

func TestGenerateReport_CallsGemini(t *testing.T) {
	var prompt, path, key, query string
	s := newTestEvaluator(t, func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		key = r.Header.Get("x-goog-api-key")
		query = r.URL.RawQuery
		body, _ := io.ReadAll(r.Body)
		var req struct {
			Contents []struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"contents"`
		}
		if err := json.Unmarshal(body, &req); err != nil {
			t.Errorf("request body: %v", err)
		}
		prompt = req.Contents[0].Parts[0].Text
		geminiReply(w, "```html\n<div>report</div>\n```")
	})

	html, err := s.GenerateReport(context.Background(), testReportRequest())
	if err != nil {
		t.Fatalf("GenerateReport: %v", err)
	}
	if html != "<div>report</div>" {
		t.Errorf("html = %q, fences not stripped", html)
	}
	if path != "/models/gemini-test:generateContent" || key != "test-key" {
		t.Errorf("called %s with key %q", path, key)
	}
	if query != "" {
		t.Errorf("query string = %q, key belongs in the header", query)
	}
	for _, want := range []string{"홍길동", "Acme", "2026. 3. 5.", "50점 / 50점", "10점 / 50점", "순응형 (Conformist)", "1. 주어진 역할이나 상사의 지시에 온전히 따르는 것이 1순위이다: 5점"} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestGenerateReport_Errors(t *testing.T) {
	t.Run("api error", func(t *testing.T) {
		s := newTestEvaluator(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
			w.Write([]byte(`{"error":{"message":"quota exceeded"}}`))
		})
		_, err := s.GenerateReport(context.Background(), testReportRequest())
		if err == nil || !strings.Contains(err.Error(), "quota exceeded") {
			t.Fatalf("err = %v", err)
		}
	})
	t.Run("no candidates", func(t *testing.T) {
		s := newTestEvaluator(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"candidates":[]}`))
		})
		if _, err := s.GenerateReport(context.Background(), testReportRequest()); !errors.Is(err, ErrEmptyReport) {
			t.Fatalf("err = %v, want ErrEmptyReport", err)
		}
	})
	t.Run("only fences", func(t *testing.T) {
		s := newTestEvaluator(t, func(w http.ResponseWriter, r *http.Request) {
			geminiReply(w, "```html\n```")
		})
		if _, err := s.GenerateReport(context.Background(), testReportRequest()); !errors.Is(err, ErrEmptyReport) {
			t.Fatalf("err = %v, want ErrEmptyReport", err)
		}
	})
	t.Run("missing key", func(t *testing.T) {
		s := NewEvaluatorService(&config.AIConfig{TimeoutMS: 1000}, nil)
		if _, err := s.GenerateReport(context.Background(), testReportRequest()); !errors.Is(err, ErrMissingAPIKey) {
			t.Fatalf("err = %v, want ErrMissingAPIKey", err)
		}
	})
	t.Run("cancelled", func(t *testing.T) {
		s := newTestEvaluator(t, func(w http.ResponseWriter, r *http.Request) {
			<-r.Context().Done()
		})
		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()
		if _, err := s.GenerateReport(ctx, testReportRequest()); !errors.Is(err, context.DeadlineExceeded) {
			t.Fatalf("err = %v, want deadline exceeded", err)
		}
	})
}

func TestGenerateReport_Mock(t *testing.T) {
	s := NewEvaluatorService(&config.AIConfig{Mock: true, TimeoutMS: 1000}, nil)
	html, err := s.GenerateReport(context.Background(), testReportRequest())
	if err != nil {
		t.Fatalf("GenerateReport: %v", err)
	}
	if !strings.Contains(html, "순응형") || !strings.Contains(html, "홍길동") {
		t.Errorf("mock report = %q", html)
	}
}

func TestGenerateReport_TransportErrorHidesKey(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL
	srv.Close()

	cfg := &config.AIConfig{
		APIKey:    "SECRET-KEY-123",
		BaseURL:   base + "/models",
		Models:    config.GeminiModels{Report: "m"},
		TimeoutMS: 2000,
	}
	evaluator := NewEvaluatorService(cfg, nil)

	_, err := evaluator.GenerateReport(context.Background(), testReportRequest())
	if err == nil {
		t.Fatal("request to a closed server succeeded")
	}
	if strings.Contains(err.Error(), "SECRET-KEY-123") || strings.Contains(err.Error(), base) {
		t.Fatalf("error exposes endpoint or key: %v", err)
	}

	// The failure ends up in the session state clients can read
	s, sc, _ := newTestSessionService(t, evaluator)
	id := completeSession(t, s)
	v, err := s.Get(context.Background(), id)
	if err != nil {
		t.Fatal(err)
	}
	if v.State.Step != model.StepShowingError {
		t.Fatalf("step = %s, want ERROR", v.State.Step)
	}
	if strings.Contains(v.State.Error, "SECRET-KEY-123") {
		t.Fatalf("session error leaks key: %q", v.State.Error)
	}
	stored, _ := sc.Get(context.Background(), id)
	if stored == nil || strings.Contains(stored.Error, "SECRET-KEY-123") {
		t.Fatalf("persisted error leaks key: %+v", stored)
	}
}
