package model

// Step is the current screen of a respondent session
type Step string

const (
	StepIntro              Step = "INTRO"
	StepCollectingIdentity Step = "USER_INFO"
	StepCollectingAnswers  Step = "QUESTIONS"
	StepGeneratingReport   Step = "ANALYZING"
	StepShowingResult      Step = "RESULT"
	StepShowingError       Step = "ERROR"
)

// SessionState is the full state of one respondent session
type SessionState struct {
	Step     Step               `json:"step"`
	Identity RespondentIdentity `json:"identity"`
	Answers  AnswerSet          `json:"answers"`
	Result   *AnalysisResult    `json:"result,omitempty"`
	Error    string             `json:"error,omitempty"`

	// Generation increments on every accepted submit and on restart.
	// A report completion carrying an older generation is discarded.
	Generation uint64      `json:"generation"`
	Pending    *Assessment `json:"pending,omitempty"` // Set while GeneratingReport
}

// NewSessionState returns the state of a freshly started session
func NewSessionState() SessionState {
	return SessionState{Step: StepIntro}
}

// SessionView is what clients receive for a session
type SessionView struct {
	ID            string       `json:"sessionId"`
	State         SessionState `json:"state"`
	AnsweredCount int          `json:"answeredCount"`
}

// SessionCreated is returned when a new session starts
type SessionCreated struct {
	SessionView
	Token string `json:"token"`
}
