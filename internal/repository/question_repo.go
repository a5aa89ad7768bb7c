package repository

import (
	"context"

	"followership/internal/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// QuestionRepo handles MongoDB operations for the questionnaire catalog
type QuestionRepo interface {
	List(ctx context.Context) ([]model.Question, error)
	ReplaceAll(ctx context.Context, questions []model.Question) error
}

type questionRepo struct {
	collection *mongo.Collection
}

// NewQuestionRepo creates a new question repository
func NewQuestionRepo(db *mongo.Database) QuestionRepo {
	return &questionRepo{
		collection: db.Collection("questions"),
	}
}

// List returns the catalog ordered by question id
func (r *questionRepo) List(ctx context.Context) ([]model.Question, error) {
	opts := options.Find().SetSort(bson.D{{Key: "id", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var questions []model.Question
	if err := cursor.All(ctx, &questions); err != nil {
		return nil, err
	}
	return questions, nil
}

// ReplaceAll upserts every question by id and removes the rest
func (r *questionRepo) ReplaceAll(ctx context.Context, questions []model.Question) error {
	ids := make([]int, 0, len(questions))
	models := make([]mongo.WriteModel, 0, len(questions))
	for _, q := range questions {
		ids = append(ids, q.ID)
		models = append(models, mongo.NewReplaceOneModel().
			SetFilter(bson.M{"id": q.ID}).
			SetReplacement(q).
			SetUpsert(true))
	}
	if len(models) > 0 {
		if _, err := r.collection.BulkWrite(ctx, models); err != nil {
			return err
		}
	}
	_, err := r.collection.DeleteMany(ctx, bson.M{"id": bson.M{"$nin": ids}})
	return err
}
