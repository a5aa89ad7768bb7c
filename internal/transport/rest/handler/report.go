package handler

import (
	"errors"
	"io"
	"log"
	"mime"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"followership/internal/service"
	"followership/internal/transport/rest/middleware"

	"github.com/gorilla/mux"
)

// ReportHandler handles PDF archiving and the admin report endpoints
type ReportHandler struct {
	archiveSvc *service.ArchiveService
	maxBytes   int64
}

// NewReportHandler creates a new report handler
func NewReportHandler(archiveSvc *service.ArchiveService, maxBytes int64) *ReportHandler {
	return &ReportHandler{archiveSvc: archiveSvc, maxBytes: maxBytes}
}

// Archive handles POST /v1/sessions/{id}/archive. The PDF is sent either as
// the raw body or as the "file" part of a multipart form.
func (h *ReportHandler) Archive(w http.ResponseWriter, r *http.Request) {
	// Leave room for multipart framing around the file
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes+64<<10)

	var body io.Reader = r.Body
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "multipart/form-data" {
		file, _, err := r.FormFile("file")
		if err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				writeServiceError(w, service.ErrFileTooLarge)
				return
			}
			writeError(w, http.StatusBadRequest, "missing file part")
			return
		}
		defer file.Close()
		body = file
	}

	record, err := h.archiveSvc.Archive(r.Context(), middleware.GetSessionID(r.Context()), body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			err = service.ErrFileTooLarge
		}
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, record)
}

// List handles GET /v1/admin/reports
func (h *ReportHandler) List(w http.ResponseWriter, r *http.Request) {
	var limit int64
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = n
	}

	records, err := h.archiveSvc.List(r.Context(), limit)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, records)
}

// Stats handles GET /v1/admin/reports/stats
func (h *ReportHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.archiveSvc.Stats(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// Download handles GET /v1/admin/reports/{id}/file
func (h *ReportHandler) Download(w http.ResponseWriter, r *http.Request) {
	record, rc, err := h.archiveSvc.Open(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeServiceError(w, err)
		return
	}
	defer rc.Close()

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", contentDisposition(record.FileName))
	if record.SizeBytes > 0 {
		w.Header().Set("Content-Length", strconv.FormatInt(record.SizeBytes, 10))
	}
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, rc); err != nil {
		log.Printf("Failed to stream report %s: %v", record.ID, err)
	}
}

// Delete handles DELETE /v1/admin/reports/{id}
func (h *ReportHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := h.archiveSvc.Delete(r.Context(), id); err != nil {
		writeServiceError(w, err)
		return
	}
	log.Printf("Report %s deleted by %s", id, middleware.GetAdmin(r.Context()))
	w.WriteHeader(http.StatusNoContent)
}

// contentDisposition keeps an ASCII fallback for clients that ignore filename*
func contentDisposition(name string) string {
	fallback := strings.Map(func(r rune) rune {
		if r < 0x20 || r > 0x7e || r == '"' || r == '\\' {
			return '_'
		}
		return r
	}, name)
	return `attachment; filename="` + fallback + `"; filename*=UTF-8''` + url.PathEscape(name)
}
