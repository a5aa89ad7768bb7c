package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"followership/internal/config"
	"followership/internal/model"
)

var (
	ErrMissingAPIKey = errors.New("GEMINI_API_KEY is not configured")
	ErrEmptyReport   = errors.New("empty response from Gemini")
)

// QuestionSource provides the question texts quoted in the report prompt
type QuestionSource interface {
	Questions() []model.Question
}

// EvaluatorService generates followership reports via the Gemini API
type EvaluatorService struct {
	config    *config.AIConfig
	client    *http.Client
	questions QuestionSource
	now       func() time.Time
}

// NewEvaluatorService creates a new evaluator service. cfg is usually
// Config.AI from config.Load.
func NewEvaluatorService(cfg *config.AIConfig, questions QuestionSource) *EvaluatorService {
	return &EvaluatorService{
		config: cfg,
		client: &http.Client{
			Timeout: cfg.Timeout(),
		},
		questions: questions,
		now:       time.Now,
	}
}

// GenerateReport returns the HTML report fragment for a scored submission.
// The markup is passed through verbatim apart from stripping code fences.
func (s *EvaluatorService) GenerateReport(ctx context.Context, req model.ReportRequest) (string, error) {
	if s.config.Mock {
		return s.mockReport(req), nil
	}
	if !s.config.IsEnabled() {
		return "", ErrMissingAPIKey
	}

	prompt := s.buildReportPrompt(req)
	response, err := s.callGemini(ctx, s.config.Models.Report, prompt)
	if err != nil {
		return "", err
	}

	html := stripCodeFences(response)
	if strings.TrimSpace(html) == "" {
		return "", ErrEmptyReport
	}
	return html, nil
}

// callGemini makes a request to a specific Gemini model
func (s *EvaluatorService) callGemini(ctx context.Context, modelName, prompt string) (string, error) {
	reqBody := map[string]interface{}{
		"contents": []map[string]interface{}{
			{
				"parts": []map[string]string{
					{"text": prompt},
				},
			},
		},
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", s.config.ModelEndpoint(modelName), bytes.NewBuffer(jsonBody))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", s.config.APIKey)

	resp, err := s.client.Do(req)
	if err != nil {
		// Session errors are shown to the respondent; keep the endpoint out of them
		var uerr *url.Error
		if errors.As(err, &uerr) {
			return "", fmt.Errorf("gemini request failed: %w", uerr.Err)
		}
		return "", fmt.Errorf("gemini request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var apiErr struct {
			Error struct {
				Message string `json:"message"`
			} `json:"error"`
		}
		if json.Unmarshal(body, &apiErr) == nil && apiErr.Error.Message != "" {
			return "", fmt.Errorf("gemini %s: %s", resp.Status, apiErr.Error.Message)
		}
		return "", fmt.Errorf("gemini %s", resp.Status)
	}

	// Parse Gemini response structure
	var geminiResp struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
	}

	if err := json.Unmarshal(body, &geminiResp); err != nil {
		return "", fmt.Errorf("decode gemini response: %w", err)
	}

	if len(geminiResp.Candidates) > 0 && len(geminiResp.Candidates[0].Content.Parts) > 0 {
		var sb strings.Builder
		for _, p := range geminiResp.Candidates[0].Content.Parts {
			sb.WriteString(p.Text)
		}
		return sb.String(), nil
	}

	return "", ErrEmptyReport
}

func (s *EvaluatorService) buildReportPrompt(req model.ReportRequest) string {
	var questions []model.Question
	if s.questions != nil {
		questions = s.questions.Questions()
	}
	if len(questions) != model.QuestionCount {
		questions = model.DefaultQuestions()
	}

	name := req.Identity.Name
	t := req.Type
	return fmt.Sprintf(`당신은 조직 심리학과 리더십 전문가입니다. 켈리(Robert E. Kelley)의 팔로워십 이론을 기반으로 %[1]s님을 위한 퍼스널 브랜딩 리포트를 작성합니다.

**진단 대상자 정보:**
- 이름: %[1]s
- 회사: %[2]s
- 진단일: %[3]s

**진단 점수:**
- 능동적 참여 (A): %[4]d점 / 50점
- 독립적/비판적 사고 (B): %[5]d점 / 50점
- 진단 유형: %[6]s (%[7]s) 팔로워

**상세 응답 데이터:**
[능동적 참여 문항 (A)]
%[8]s

[독립적/비판적 사고 문항 (B)]
%[9]s

**작성 지침:**
1. 가독성을 최우선으로 고려하세요.
2. HTML 태그에 Tailwind CSS 클래스를 직접 적용하세요.
3. 중요한 키워드는 볼드체, 색상 등을 사용하여 강조해주세요.
4. **절대로 <table> 태그를 사용하지 마세요.** 모든 내용은 <p>, <ul>, <li> 태그만 사용하세요.
5. 역량 개발 계획은 반드시 단순한 번호 리스트(<ol><li>)로 작성하세요. 복잡한 레이아웃 금지.

**HTML 출력 형식:**
다섯 개의 섹션을 <div class="space-y-6 text-gray-800"> 안에 순서대로 작성하세요.
1. 🧐 유형별 특징 분석: "%[1]s님은 <span class="text-blue-600">%[6]s</span>의 전형적인 특징을 보이고 있습니다."로 시작하고 분석 문단 2개
2. 💪 당신의 핵심 강점: 강점 5개
3. 🔧 개선이 필요한 영역: 개선점 4개
4. 🚀 역량 개발 계획: One Point Advice 한 문장, 3개월/6개월/1년 내 구체적 행동
5. 🎓 종합 평가: 2-3문장

HTML 조각만 반환하세요.`,
		name, req.Identity.Company, s.now().Format("2006. 1. 2."),
		req.Scores.Participation, req.Scores.IndependentThinking, t.Name, t.English,
		formatAnswers(questions[:model.QuestionsPerAxis], req.AnswersParticipation),
		formatAnswers(questions[model.QuestionsPerAxis:], req.AnswersIndependentThinking),
	)
}

func formatAnswers(questions []model.Question, answers [model.QuestionsPerAxis]int) string {
	lines := make([]string, len(answers))
	for i, score := range answers {
		lines[i] = fmt.Sprintf("%d. %s: %d점", i+1, questions[i].Text, score)
	}
	return strings.Join(lines, "\n")
}

// stripCodeFences removes markdown code fences the model sometimes wraps HTML in
func stripCodeFences(s string) string {
	s = strings.ReplaceAll(s, "```html", "")
	s = strings.ReplaceAll(s, "```", "")
	return strings.TrimSpace(s)
}

func (s *EvaluatorService) mockReport(req model.ReportRequest) string {
	return fmt.Sprintf(`<div class="space-y-6 text-gray-800"><div class="bg-white p-5 rounded-xl border-2 border-black"><h3>🧐 유형별 특징 분석</h3><p>"%s님은 <span class="text-blue-600">%s</span>의 전형적인 특징을 보이고 있습니다."</p><p>능동적 참여 %d점, 독립적/비판적 사고 %d점</p></div></div>`,
		req.Identity.Name, req.Type.Name, req.Scores.Participation, req.Scores.IndependentThinking)
}
