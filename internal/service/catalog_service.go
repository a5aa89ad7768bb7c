package service

import (
	"context"
	"fmt"
	"log"
	"sync"

	"followership/internal/model"
	"followership/internal/repository"
)

// CatalogService serves the question catalog and the followership type catalog
type CatalogService struct {
	questionRepo repository.QuestionRepo

	mu        sync.RWMutex
	questions []model.Question
}

// NewCatalogService creates a catalog service holding the built-in questions
// until Load replaces them.
func NewCatalogService(questionRepo repository.QuestionRepo) *CatalogService {
	return &CatalogService{
		questionRepo: questionRepo,
		questions:    model.DefaultQuestions(),
	}
}

// Load reads the catalog from storage. An empty collection keeps the
// built-in catalog; a malformed one is an error.
func (s *CatalogService) Load(ctx context.Context) error {
	if s.questionRepo == nil {
		return nil
	}
	questions, err := s.questionRepo.List(ctx)
	if err != nil {
		return fmt.Errorf("load questions: %w", err)
	}
	if len(questions) == 0 {
		log.Println("Question collection empty, using built-in catalog")
		return nil
	}
	if err := model.ValidateCatalog(questions); err != nil {
		return err
	}

	s.mu.Lock()
	s.questions = questions
	s.mu.Unlock()
	log.Printf("Loaded %d questions from MongoDB", len(questions))
	return nil
}

// Seed writes the built-in catalog to storage
func (s *CatalogService) Seed(ctx context.Context) error {
	questions := model.DefaultQuestions()
	if err := s.questionRepo.ReplaceAll(ctx, questions); err != nil {
		return fmt.Errorf("seed questions: %w", err)
	}
	s.mu.Lock()
	s.questions = questions
	s.mu.Unlock()
	return nil
}

// Questions returns a copy of the active catalog
func (s *CatalogService) Questions() []model.Question {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Question, len(s.questions))
	copy(out, s.questions)
	return out
}

// Types returns the followership type catalog
func (s *CatalogService) Types() []model.FollowershipType {
	return model.FollowershipTypes()
}
