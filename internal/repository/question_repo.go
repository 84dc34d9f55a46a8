package repository

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"quizroom/internal/model"
)

// QuestionSource yields the question bank in play order.
type QuestionSource interface {
	GetAll(ctx context.Context) ([]model.Question, error)
}

// QuestionRepo is the Mongo-backed question bank.
type QuestionRepo interface {
	QuestionSource
	ReplaceAll(ctx context.Context, questions []model.Question) error
	Count(ctx context.Context) (int64, error)
}

// questionDoc keeps the bank order next to the question fields.
type questionDoc struct {
	Order          int `bson:"order"`
	model.Question `bson:",inline"`
}

type questionRepo struct {
	collection *mongo.Collection
}

func NewQuestionRepo(client *mongo.Client, database string) QuestionRepo {
	db := client.Database(database)
	return &questionRepo{
		collection: db.Collection("questions"),
	}
}

func (r *questionRepo) GetAll(ctx context.Context) ([]model.Question, error) {
	opts := options.Find().SetSort(bson.D{{Key: "order", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []questionDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	questions := make([]model.Question, len(docs))
	for i := range docs {
		questions[i] = docs[i].Question
	}
	return questions, nil
}

// ReplaceAll drops the current bank and inserts questions in order.
func (r *questionRepo) ReplaceAll(ctx context.Context, questions []model.Question) error {
	if _, err := r.collection.DeleteMany(ctx, bson.M{}); err != nil {
		return fmt.Errorf("clear questions: %w", err)
	}
	if len(questions) == 0 {
		return nil
	}

	docs := make([]interface{}, len(questions))
	for i, q := range questions {
		docs[i] = questionDoc{Order: i, Question: q}
	}
	if _, err := r.collection.InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("insert questions: %w", err)
	}
	return nil
}

func (r *questionRepo) Count(ctx context.Context) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{})
}

// LoadBank reads every question from src and validates the bank.
func LoadBank(ctx context.Context, src QuestionSource) ([]model.Question, error) {
	questions, err := src.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load questions: %w", err)
	}
	if err := model.ValidateBank(questions); err != nil {
		return nil, err
	}
	return questions, nil
}
