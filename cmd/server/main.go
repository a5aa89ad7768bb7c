package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"followership/internal/app"
	"followership/internal/config"
	"followership/internal/service"
	"followership/internal/transport/rest"
	"followership/internal/transport/ws"
)

// @title Followership Assessment API
// @version 1.0
// @description Kelley followership questionnaire with AI report generation
// @host localhost:8080
// @BasePath /v1
func main() {
	log.Println("started")
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	// Log model settings
	log.Printf("AI Config:")
	log.Printf("  Report:    %s", cfg.AI.Models.Report)
	log.Printf("  Timeout:   %s", cfg.AI.Timeout())
	switch {
	case cfg.AI.Mock:
		log.Println("  Mode:      mock reports")
	case cfg.AI.IsEnabled():
		log.Println("  API Key:   configured ✓")
	default:
		log.Println("  API Key:   NOT SET (report generation will fail)")
	}
	if !cfg.AdminConfigured() {
		log.Println("Warning: ADMIN_PASSWORD not set, admin login disabled")
	}

	backend, err := app.Connect(ctx, cfg)
	if err != nil {
		log.Fatal("Failed to connect backends:", err)
	}
	defer backend.Close(context.Background())

	// Initialize WebSocket hub
	wsHub := ws.NewHub()
	log.Println("WebSocket hub started")

	// Initialize services
	authSvc, err := service.NewAuthService(service.AuthConfig{
		JWTSecret:         cfg.JWTSecret,
		AdminUsername:     cfg.AdminUsername,
		AdminPasswordHash: cfg.AdminPasswordHash,
		AdminPassword:     cfg.AdminPassword,
		AdminTokenTTL:     cfg.AdminTokenTTL,
		SessionTokenTTL:   cfg.SessionTTL,
	})
	if err != nil {
		log.Fatal("Failed to init auth:", err)
	}

	catalogSvc := service.NewCatalogService(backend.QuestionRepo)
	if err := catalogSvc.Load(ctx); err != nil {
		log.Fatal("Failed to load question catalog:", err)
	}

	evaluator := service.NewEvaluatorService(&cfg.AI, catalogSvc)
	sessionSvc := service.NewSessionService(authSvc, evaluator, backend.SessionCache, cfg.AI.Timeout())
	archiveSvc := service.NewArchiveService(sessionSvc, backend.ReportRepo, backend.Reports, backend.StatsCache, cfg.PublicURL, cfg.MaxUploadBytes)

	// Inject broadcaster (wsHub implements service.Broadcaster)
	sessionSvc.SetBroadcaster(wsHub)

	evictCtx, stopEviction := context.WithCancel(ctx)
	defer stopEviction()
	go sessionSvc.RunEviction(evictCtx, time.Minute, cfg.SessionIdleTimeout)

	// Create router with container
	container := &rest.Container{
		AuthService:    authSvc,
		CatalogService: catalogSvc,
		SessionService: sessionSvc,
		ArchiveService: archiveSvc,
		WSHub:          wsHub,
		AllowedOrigins: cfg.AllowedOrigins,
		MaxUploadBytes: cfg.MaxUploadBytes,
	}

	router := rest.NewRouter(container)

	// Start server
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Printf("Server starting on :%s", cfg.Port)
		log.Println("Endpoints:")
		log.Println("  GET  /v1/questions")
		log.Println("  POST /v1/sessions")
		log.Println("  POST /v1/sessions/{id}/submit")
		log.Println("  POST /v1/sessions/{id}/archive")
		log.Println("  GET  /v1/admin/reports")
		log.Println("  WS   /v1/ws/sessions/{id}")

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("ListenAndServe:", err)
		}
	}()

	// Wait for interrupt
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	// Let in-flight reports land in Redis before the clients close
	stopEviction()
	sessionSvc.Wait()
	wsHub.Close()

	log.Println("Server exited")
}
