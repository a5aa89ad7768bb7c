package model

import (
	"errors"
	"strings"
)

var ErrMissingIdentity = errors.New("name and company are required")

// RespondentIdentity is collected once per session before questions are shown
type RespondentIdentity struct {
	Name    string `json:"name" bson:"name"`
	Company string `json:"company" bson:"company"`
}

// Valid reports whether both fields carry text
func (i RespondentIdentity) Valid() bool {
	return strings.TrimSpace(i.Name) != "" && strings.TrimSpace(i.Company) != ""
}

// ScorePair holds the two axis sub-scores, each in [10, 50] for a complete answer set
type ScorePair struct {
	Participation       int `json:"scoreParticipation" bson:"scoreParticipation"`
	IndependentThinking int `json:"scoreIndependentThinking" bson:"scoreIndependentThinking"`
}

// Assessment is the deterministic outcome of a submitted answer set
type Assessment struct {
	Scores                     ScorePair             `json:"scores"`
	Type                       FollowershipType      `json:"type"`
	AnswersParticipation       [QuestionsPerAxis]int `json:"answersParticipation"`
	AnswersIndependentThinking [QuestionsPerAxis]int `json:"answersIndependentThinking"`
}

// ReportRequest is the input handed to the external report generator
type ReportRequest struct {
	Identity                   RespondentIdentity
	Scores                     ScorePair
	Type                       FollowershipType
	AnswersParticipation       [QuestionsPerAxis]int
	AnswersIndependentThinking [QuestionsPerAxis]int
}

// AnalysisResult is the terminal record of a completed session
type AnalysisResult struct {
	Type                       FollowershipType      `json:"type"`
	ScoreParticipation         int                   `json:"scoreParticipation"`
	ScoreIndependentThinking   int                   `json:"scoreIndependentThinking"`
	ReportHTML                 string                `json:"reportHtml"` // Opaque fragment from the generator, not sanitized
	AnswersParticipation       [QuestionsPerAxis]int `json:"answersParticipation"`
	AnswersIndependentThinking [QuestionsPerAxis]int `json:"answersIndependentThinking"`
}

// NewAnalysisResult embeds the generated markup verbatim into a result
func NewAnalysisResult(a Assessment, reportHTML string) *AnalysisResult {
	return &AnalysisResult{
		Type:                       a.Type,
		ScoreParticipation:         a.Scores.Participation,
		ScoreIndependentThinking:   a.Scores.IndependentThinking,
		ReportHTML:                 reportHTML,
		AnswersParticipation:       a.AnswersParticipation,
		AnswersIndependentThinking: a.AnswersIndependentThinking,
	}
}
