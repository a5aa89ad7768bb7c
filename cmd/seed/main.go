package main

import (
	"context"
	"log"
	"time"

	"followership/internal/app"
	"followership/internal/config"
	"followership/internal/service"
)

// Writes the built-in question catalog to MongoDB
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	backend, err := app.Connect(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to connect: %v", err)
	}
	defer backend.Close(ctx)

	catalog := service.NewCatalogService(backend.QuestionRepo)
	if err := catalog.Seed(ctx); err != nil {
		log.Fatalf("Failed to seed questions: %v", err)
	}

	log.Printf("Seeded %d questions into %s.questions", len(catalog.Questions()), cfg.MongoDatabase)
}
