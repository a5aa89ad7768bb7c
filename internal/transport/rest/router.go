package rest

import (
	"net/http"

	_ "followership/docs"
	"followership/internal/service"
	"followership/internal/transport/rest/handler"
	"followership/internal/transport/rest/middleware"
	"followership/internal/transport/ws"

	"github.com/gorilla/mux"
	"github.com/swaggo/swag"
)

// Container holds all dependencies for the router
type Container struct {
	AuthService    *service.AuthService
	CatalogService *service.CatalogService
	SessionService *service.SessionService
	ArchiveService *service.ArchiveService
	WSHub          *ws.Hub
	AllowedOrigins []string
	MaxUploadBytes int64
}

// NewRouter creates the API router with all endpoints
func NewRouter(c *Container) http.Handler {
	r := mux.NewRouter()

	// Initialize handlers
	authHandler := handler.NewAuthHandler(c.AuthService)
	catalogHandler := handler.NewCatalogHandler(c.CatalogService)
	sessionHandler := handler.NewSessionHandler(c.SessionService)
	reportHandler := handler.NewReportHandler(c.ArchiveService, c.MaxUploadBytes)
	wsHandler := ws.NewHandler(c.WSHub, c.AuthService, c.SessionService, c.AllowedOrigins)

	// Initialize middleware
	authMW := middleware.NewAuthMiddleware(c.AuthService)

	// CORS middleware (apply first)
	r.Use(middleware.CORS(c.AllowedOrigins))

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	// OpenAPI document
	r.HandleFunc("/swagger/doc.json", func(w http.ResponseWriter, r *http.Request) {
		doc, err := swag.ReadDoc()
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(doc))
	}).Methods("GET")

	// API v1 routes
	v1 := r.PathPrefix("/v1").Subrouter()

	// Public routes
	v1.HandleFunc("/auth/login", authHandler.Login).Methods("POST", "OPTIONS")
	v1.HandleFunc("/questions", catalogHandler.Questions).Methods("GET", "OPTIONS")
	v1.HandleFunc("/types", catalogHandler.Types).Methods("GET", "OPTIONS")
	v1.HandleFunc("/sessions", sessionHandler.Create).Methods("POST", "OPTIONS")

	// WebSocket routes (public with token in query param)
	v1.HandleFunc("/ws/sessions/{id}", wsHandler.SessionWS).Methods("GET")

	// Session routes (require a token for that session)
	sessionRoutes := v1.PathPrefix("/sessions/{id}").Subrouter()
	sessionRoutes.Use(authMW.RequireSession)

	sessionRoutes.HandleFunc("", sessionHandler.Get).Methods("GET", "OPTIONS")
	sessionRoutes.HandleFunc("/start", sessionHandler.Start).Methods("POST", "OPTIONS")
	sessionRoutes.HandleFunc("/back", sessionHandler.Back).Methods("POST", "OPTIONS")
	sessionRoutes.HandleFunc("/identity", sessionHandler.Identity).Methods("PUT", "OPTIONS")
	sessionRoutes.HandleFunc("/answers", sessionHandler.SetAnswers).Methods("PUT", "OPTIONS")
	sessionRoutes.HandleFunc("/answers/{index}", sessionHandler.SetAnswer).Methods("PUT", "OPTIONS")
	sessionRoutes.HandleFunc("/submit", sessionHandler.Submit).Methods("POST", "OPTIONS")
	sessionRoutes.HandleFunc("/retry", sessionHandler.Retry).Methods("POST", "OPTIONS")
	sessionRoutes.HandleFunc("/restart", sessionHandler.Restart).Methods("POST", "OPTIONS")
	sessionRoutes.HandleFunc("/result", sessionHandler.Result).Methods("GET", "OPTIONS")
	sessionRoutes.HandleFunc("/archive", reportHandler.Archive).Methods("POST", "OPTIONS")

	// Admin routes (require admin auth)
	adminRoutes := v1.PathPrefix("/admin").Subrouter()
	adminRoutes.Use(authMW.RequireAdmin)

	adminRoutes.HandleFunc("/reports", reportHandler.List).Methods("GET", "OPTIONS")
	adminRoutes.HandleFunc("/reports/stats", reportHandler.Stats).Methods("GET", "OPTIONS")
	adminRoutes.HandleFunc("/reports/{id}/file", reportHandler.Download).Methods("GET", "OPTIONS")
	adminRoutes.HandleFunc("/reports/{id}", reportHandler.Delete).Methods("DELETE", "OPTIONS")

	return r
}
