// Package session implements the respondent session lifecycle as an explicit
// transition function over model.SessionState.
package session

import (
	"errors"
	"fmt"

	"followership/internal/model"
	"followership/internal/scoring"
)

// DefaultErrorMessage is stored when the report generator fails without a message
const DefaultErrorMessage = "분석 중 오류가 발생했습니다."

var (
	ErrIncompleteSubmission = errors.New("every question must be answered before submitting")
	ErrMissingIdentity      = model.ErrMissingIdentity
	ErrInvalidAnswer        = model.ErrInvalidAnswer
	ErrInvalidTransition    = errors.New("transition not allowed in current step")
	ErrGenerationInFlight   = errors.New("a report is already being generated")
	ErrStaleReport          = errors.New("report completion does not match the current generation")
	ErrInterrupted          = errors.New("report generation was interrupted, please try again")
)

// Event is an input to the state machine
type Event interface {
	eventName() string
}

// Start leaves the intro screen
type Start struct{}

// Back returns from identity entry to the intro screen
type Back struct{}

// SubmitIdentity records name and company and moves on to the questions
type SubmitIdentity struct {
	Identity model.RespondentIdentity
}

// SetAnswer stores one answer; Value 0 clears it
type SetAnswer struct {
	Index int
	Value int
}

// ReplaceAnswers overwrites the whole answer set at once
type ReplaceAnswers struct {
	Answers model.AnswerSet
}

// Submit asks for the answers to be scored and a report generated
type Submit struct{}

// ReportReady completes generation with the generator's markup
type ReportReady struct {
	Generation uint64
	ReportHTML string
}

// ReportFailed completes generation with a failure
type ReportFailed struct {
	Generation uint64
	Message    string
}

// Retry returns from the error screen to the questions
type Retry struct{}

// Restart discards everything and returns to the intro screen
type Restart struct{}

func (Start) eventName() string          { return "start" }
func (Back) eventName() string           { return "back" }
func (SubmitIdentity) eventName() string { return "submit_identity" }
func (SetAnswer) eventName() string      { return "set_answer" }
func (ReplaceAnswers) eventName() string { return "replace_answers" }
func (Submit) eventName() string         { return "submit" }
func (ReportReady) eventName() string    { return "report_ready" }
func (ReportFailed) eventName() string   { return "report_failed" }
func (Retry) eventName() string          { return "retry" }
func (Restart) eventName() string        { return "restart" }

// Apply computes the state that follows s on event ev. When the event is
// refused the unchanged state is returned together with an error, so a
// refusal never mutates the session.
func Apply(s model.SessionState, ev Event) (model.SessionState, error) {
	switch e := ev.(type) {
	case Restart:
		next := model.NewSessionState()
		next.Generation = s.Generation + 1
		return next, nil

	case Start:
		if s.Step != model.StepIntro {
			return s, invalid(s, ev)
		}
		s.Step = model.StepCollectingIdentity
		return s, nil

	case Back:
		if s.Step != model.StepCollectingIdentity {
			return s, invalid(s, ev)
		}
		s.Step = model.StepIntro
		return s, nil

	case SubmitIdentity:
		if s.Step != model.StepCollectingIdentity {
			return s, invalid(s, ev)
		}
		if !e.Identity.Valid() {
			return s, ErrMissingIdentity
		}
		s.Identity = e.Identity
		s.Step = model.StepCollectingAnswers
		return s, nil

	case SetAnswer:
		if s.Step != model.StepCollectingAnswers {
			return s, invalid(s, ev)
		}
		next := s
		if err := next.Answers.Set(e.Index, e.Value); err != nil {
			return s, err
		}
		return next, nil

	case ReplaceAnswers:
		if s.Step != model.StepCollectingAnswers {
			return s, invalid(s, ev)
		}
		var checked model.AnswerSet
		for i, v := range e.Answers {
			if err := checked.Set(i, v); err != nil {
				return s, err
			}
		}
		s.Answers = e.Answers
		return s, nil

	case Submit:
		if s.Step == model.StepGeneratingReport {
			return s, ErrGenerationInFlight
		}
		if s.Step != model.StepCollectingAnswers {
			return s, invalid(s, ev)
		}
		if !s.Answers.Complete() {
			return s, ErrIncompleteSubmission
		}
		assessment := scoring.Assess(s.Answers)
		s.Pending = &assessment
		s.Generation++
		s.Error = ""
		s.Step = model.StepGeneratingReport
		return s, nil

	case ReportReady:
		if err := checkCompletion(s, e.Generation); err != nil {
			return s, err
		}
		s.Result = model.NewAnalysisResult(*s.Pending, e.ReportHTML)
		s.Pending = nil
		s.Step = model.StepShowingResult
		return s, nil

	case ReportFailed:
		if err := checkCompletion(s, e.Generation); err != nil {
			return s, err
		}
		s.Error = e.Message
		if s.Error == "" {
			s.Error = DefaultErrorMessage
		}
		s.Pending = nil
		s.Step = model.StepShowingError
		return s, nil

	case Retry:
		if s.Step != model.StepShowingError {
			return s, invalid(s, ev)
		}
		s.Error = ""
		s.Step = model.StepCollectingAnswers
		return s, nil
	}

	return s, fmt.Errorf("%w: unknown event %T", ErrInvalidTransition, ev)
}

// Recover turns a state restored from storage into one that can make
// progress. A session persisted mid-generation has lost its generator call,
// so it is moved to the error step where the user can retry.
func Recover(s model.SessionState) model.SessionState {
	if s.Step != model.StepGeneratingReport {
		return s
	}
	if s.Pending == nil {
		// No assessment to complete against; fall back to the error screen directly.
		s.Step = model.StepShowingError
		s.Error = ErrInterrupted.Error()
		return s
	}
	next, err := Apply(s, ReportFailed{Generation: s.Generation, Message: ErrInterrupted.Error()})
	if err != nil {
		return s
	}
	return next
}

func checkCompletion(s model.SessionState, generation uint64) error {
	if s.Step != model.StepGeneratingReport || s.Pending == nil || generation != s.Generation {
		return ErrStaleReport
	}
	return nil
}

func invalid(s model.SessionState, ev Event) error {
	return fmt.Errorf("%w: %s from %s", ErrInvalidTransition, ev.eventName(), s.Step)
}
