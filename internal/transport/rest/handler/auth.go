package handler

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"followership/internal/model"
	"followership/internal/service"
	"followership/internal/session"
	"followership/internal/storage"
)

// AuthHandler handles authentication endpoints
type AuthHandler struct {
	authSvc *service.AuthService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authSvc *service.AuthService) *AuthHandler {
	return &AuthHandler{authSvc: authSvc}
}

// Login handles POST /v1/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req model.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	resp, err := h.authSvc.Login(req.Username, req.Password)
	if err != nil {
		log.Printf("Failed admin login for %q", req.Username)
		writeError(w, http.StatusUnauthorized, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// ErrorResponse is the body of every error reply
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// Helper functions
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeErrorCode(w, status, message, "")
}

func writeErrorCode(w http.ResponseWriter, status int, message, code string) {
	writeJSON(w, status, ErrorResponse{Error: message, Code: code})
}

func writeServiceError(w http.ResponseWriter, err error) {
	status, body := errorStatus(err)
	writeJSON(w, status, body)
}

// errorStatus maps domain errors onto an HTTP status and error body
func errorStatus(err error) (int, ErrorResponse) {
	status, code := http.StatusInternalServerError, "internal"
	switch {
	case errors.Is(err, session.ErrIncompleteSubmission):
		status, code = http.StatusUnprocessableEntity, "incomplete_submission"
	case errors.Is(err, session.ErrMissingIdentity):
		status, code = http.StatusUnprocessableEntity, "missing_identity"
	case errors.Is(err, session.ErrInvalidAnswer):
		status, code = http.StatusUnprocessableEntity, "invalid_answer"
	case errors.Is(err, session.ErrGenerationInFlight):
		status, code = http.StatusConflict, "generation_in_flight"
	case errors.Is(err, session.ErrInvalidTransition):
		status, code = http.StatusConflict, "invalid_transition"
	case errors.Is(err, service.ErrResultNotReady):
		status, code = http.StatusConflict, "result_not_ready"
	case errors.Is(err, service.ErrSessionNotFound):
		status, code = http.StatusNotFound, "session_not_found"
	case errors.Is(err, service.ErrReportNotFound), errors.Is(err, storage.ErrNotFound):
		status, code = http.StatusNotFound, "report_not_found"
	case errors.Is(err, service.ErrNotPDF):
		status, code = http.StatusUnsupportedMediaType, "not_pdf"
	case errors.Is(err, service.ErrFileTooLarge):
		status, code = http.StatusRequestEntityTooLarge, "file_too_large"
	}

	message := err.Error()
	if status == http.StatusInternalServerError {
		log.Printf("Request failed: %v", err)
		message = "internal server error"
	}
	return status, ErrorResponse{Error: message, Code: code}
}
