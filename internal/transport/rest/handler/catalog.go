package handler

import (
	"net/http"

	"followership/internal/service"
)

// CatalogHandler serves the questionnaire and the type catalog
type CatalogHandler struct {
	catalogSvc *service.CatalogService
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(catalogSvc *service.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalogSvc: catalogSvc}
}

// Questions handles GET /v1/questions
func (h *CatalogHandler) Questions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.catalogSvc.Questions())
}

// Types handles GET /v1/types
func (h *CatalogHandler) Types(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.catalogSvc.Types())
}
