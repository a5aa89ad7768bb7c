package model

import (
	"errors"
	"fmt"
)

// Axis is one of the two measured dimensions of the questionnaire
type Axis string

const (
	AxisParticipation       Axis = "Participation"       // Active engagement (Part A)
	AxisIndependentThinking Axis = "IndependentThinking" // Critical, independent thought (Part B)
)

const (
	QuestionCount    = 20
	QuestionsPerAxis = 10
)

var ErrInvalidCatalog = errors.New("invalid question catalog")

// Question is an immutable questionnaire item
type Question struct {
	ID   int    `json:"id" bson:"id"` // 1..20, unique
	Text string `json:"text" bson:"text"`
	Axis Axis   `json:"axis" bson:"axis"`
}

// AxisAt returns the axis measured by the answer at position index.
// Positions 0-9 belong to Participation, 10-19 to IndependentThinking.
func AxisAt(index int) Axis {
	if index < QuestionsPerAxis {
		return AxisParticipation
	}
	return AxisIndependentThinking
}

// ValidateCatalog checks that a question set has the fixed shape the scorer
// relies on: 20 entries, ids 1..20 without duplicates, axis-partitioned 10/10.
func ValidateCatalog(questions []Question) error {
	if len(questions) != QuestionCount {
		return fmt.Errorf("%w: want %d questions, got %d", ErrInvalidCatalog, QuestionCount, len(questions))
	}
	seen := make(map[int]bool, len(questions))
	for i, q := range questions {
		if q.ID < 1 || q.ID > QuestionCount {
			return fmt.Errorf("%w: question at position %d has id %d", ErrInvalidCatalog, i, q.ID)
		}
		if seen[q.ID] {
			return fmt.Errorf("%w: duplicate id %d", ErrInvalidCatalog, q.ID)
		}
		seen[q.ID] = true
		if q.Axis != AxisAt(i) {
			return fmt.Errorf("%w: position %d must be %s, got %q", ErrInvalidCatalog, i, AxisAt(i), q.Axis)
		}
		if q.Text == "" {
			return fmt.Errorf("%w: question %d has no text", ErrInvalidCatalog, q.ID)
		}
	}
	return nil
}

// DefaultQuestions returns the built-in Kelley followership questionnaire
func DefaultQuestions() []Question {
	return []Question{
		{ID: 1, Axis: AxisParticipation, Text: "주어진 역할이나 상사의 지시에 온전히 따르는 것이 1순위이다"},
		{ID: 2, Axis: AxisParticipation, Text: "상사의 공로가 되는 것은 알지만 조직에 공헌을 수 있는 일이라면 최선을 다한다"},
		{ID: 3, Axis: AxisParticipation, Text: "자신의 업무 이외의 일이라도 상사의 요청은 할 수 있는 한 받아들인다"},
		{ID: 4, Axis: AxisParticipation, Text: "다른 사람이 경원시하는 성가신 일이라고 해도 상사의 지시라면 원칙적으로 받아들인다"},
		{ID: 5, Axis: AxisParticipation, Text: "상사와 의견이 다를 때는 최종적으로 자신을 숙이고 상사에게 맞춘다"},
		{ID: 6, Axis: AxisParticipation, Text: "회사가 요구하는 인재상이나 상사가 기대하는 행동이 무엇인지 숙고한다"},
		{ID: 7, Axis: AxisParticipation, Text: "직장 전체에서 결정한 방침은 적극적으로 받아들이고 행동한다"},
		{ID: 8, Axis: AxisParticipation, Text: "직장에서 의견 대립 등 마찰이 발생하면 직장의 화합을 위해 나서서 노력한다"},
		{ID: 9, Axis: AxisParticipation, Text: "설령 상사에게 문제가 있다 하더라도 더 나은 관계를 위해 노력한다"},
		{ID: 10, Axis: AxisParticipation, Text: "세세한 부분까지 일을 처리하여 상사의 업무가 줄어드는 것이 이상적이라고 생각한다"},
		{ID: 11, Axis: AxisIndependentThinking, Text: "상사에게 지시를 받으면 그 지시가 적절한지 따져 본다"},
		{ID: 12, Axis: AxisIndependentThinking, Text: "상사가 판단을 망설일 때는 다른 각도에서 의견을 제시하고, 조언한다"},
		{ID: 13, Axis: AxisIndependentThinking, Text: "상사가 업무에 대해 시정 명령을 내리면, 자신의 의견을 전하며 최선의 선택 방법을 모색한다"},
		{ID: 14, Axis: AxisIndependentThinking, Text: "상사의 움직임을 두루 살피고, 마음에 걸리는 점이 있으면 의견을 이야기 한다"},
		{ID: 15, Axis: AxisIndependentThinking, Text: "업무 방식이나 조직 문화에 대해서 아이디어나 개선점을 제안한다"},
		{ID: 16, Axis: AxisIndependentThinking, Text: "상사에게 조언을 들으면, 들은 내용을 바탕으로 나름대로 생각하고 나서 수용한다"},
		{ID: 17, Axis: AxisIndependentThinking, Text: "상사가 무모하거나 잘못된 방향으로 일을 진행하는 것처럼 보이면, 솔직한 나의 생각을 전한다"},
		{ID: 18, Axis: AxisIndependentThinking, Text: "조직이 어려운 상황에 처해진 상사에게 의존하지 않고 스스로 돌파구를 열기 위해 노력한다"},
		{ID: 19, Axis: AxisIndependentThinking, Text: "자기 신념과 가치관에 따라 일하고 있는지 생각한다"},
		{ID: 20, Axis: AxisIndependentThinking, Text: "자신의 내부 평가가 하락할 위험성이 있다하더라도, 옳다고 판단한 일은 관철 시키려 한다"},
	}
}
