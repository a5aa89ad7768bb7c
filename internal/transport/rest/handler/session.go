package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"followership/internal/model"
	"followership/internal/service"
	"followership/internal/session"
	"followership/internal/transport/rest/middleware"

	"github.com/gorilla/mux"
)

// SessionHandler handles respondent session endpoints
type SessionHandler struct {
	sessionSvc *service.SessionService
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(sessionSvc *service.SessionService) *SessionHandler {
	return &SessionHandler{sessionSvc: sessionSvc}
}

// Create handles POST /v1/sessions
func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	created, err := h.sessionSvc.Create(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// Get handles GET /v1/sessions/{id}
func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	view, err := h.sessionSvc.Get(r.Context(), middleware.GetSessionID(r.Context()))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// Start handles POST /v1/sessions/{id}/start
func (h *SessionHandler) Start(w http.ResponseWriter, r *http.Request) {
	h.dispatch(w, r, session.Start{}, http.StatusOK)
}

// Back handles POST /v1/sessions/{id}/back
func (h *SessionHandler) Back(w http.ResponseWriter, r *http.Request) {
	h.dispatch(w, r, session.Back{}, http.StatusOK)
}

// Identity handles PUT /v1/sessions/{id}/identity
func (h *SessionHandler) Identity(w http.ResponseWriter, r *http.Request) {
	var identity model.RespondentIdentity
	if err := json.NewDecoder(r.Body).Decode(&identity); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	h.dispatch(w, r, session.SubmitIdentity{Identity: identity}, http.StatusOK)
}

type answerRequest struct {
	Value int `json:"value"`
}

// SetAnswer handles PUT /v1/sessions/{id}/answers/{index}. Index is zero-based.
func (h *SessionHandler) SetAnswer(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(mux.Vars(r)["index"])
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid answer index")
		return
	}
	var req answerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	h.dispatch(w, r, session.SetAnswer{Index: index, Value: req.Value}, http.StatusOK)
}

type answersRequest struct {
	Answers []int `json:"answers"`
}

// SetAnswers handles PUT /v1/sessions/{id}/answers with all 20 values
func (h *SessionHandler) SetAnswers(w http.ResponseWriter, r *http.Request) {
	var req answersRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(req.Answers) != model.QuestionCount {
		writeErrorCode(w, http.StatusUnprocessableEntity,
			"answers must contain exactly "+strconv.Itoa(model.QuestionCount)+" values", "invalid_answer")
		return
	}
	var answers model.AnswerSet
	copy(answers[:], req.Answers)
	h.dispatch(w, r, session.ReplaceAnswers{Answers: answers}, http.StatusOK)
}

// Submit handles POST /v1/sessions/{id}/submit. The report is generated in
// the background, so an accepted submit answers 202 in the ANALYZING step.
func (h *SessionHandler) Submit(w http.ResponseWriter, r *http.Request) {
	h.dispatch(w, r, session.Submit{}, http.StatusAccepted)
}

// Retry handles POST /v1/sessions/{id}/retry
func (h *SessionHandler) Retry(w http.ResponseWriter, r *http.Request) {
	h.dispatch(w, r, session.Retry{}, http.StatusOK)
}

// Restart handles POST /v1/sessions/{id}/restart
func (h *SessionHandler) Restart(w http.ResponseWriter, r *http.Request) {
	h.dispatch(w, r, session.Restart{}, http.StatusOK)
}

// Result handles GET /v1/sessions/{id}/result
func (h *SessionHandler) Result(w http.ResponseWriter, r *http.Request) {
	_, result, err := h.sessionSvc.Result(r.Context(), middleware.GetSessionID(r.Context()))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

type refusalResponse struct {
	ErrorResponse
	Session *model.SessionView `json:"session,omitempty"`
}

func (h *SessionHandler) dispatch(w http.ResponseWriter, r *http.Request, ev session.Event, okStatus int) {
	view, err := h.sessionSvc.Dispatch(r.Context(), middleware.GetSessionID(r.Context()), ev)
	if err == nil {
		writeJSON(w, okStatus, view)
		return
	}
	if view == nil || errors.Is(err, service.ErrSessionNotFound) {
		writeServiceError(w, err)
		return
	}

	// Refusals carry the unchanged session so clients can resync
	status, body := errorStatus(err)
	writeJSON(w, status, refusalResponse{
		ErrorResponse: body,
		Session:       view,
	})
}
