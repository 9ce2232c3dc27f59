package mongo

import (
	"context"

	"taskhub/internal/db/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CreateCompletion appends a completion or cancellation event
func (s *Store) CreateCompletion(ctx context.Context, c *models.Completion) error {
	_, err := s.completions.InsertOne(ctx, fromCompletion(c))
	return err
}

// ListCompletionKeys retrieves the key_time of every event reported by phone
func (s *Store) ListCompletionKeys(ctx context.Context, phone string) ([]string, error) {
	opts := insertionOrder().SetProjection(bson.M{"key_time": 1, "_id": 0})
	cur, err := s.completions.Find(ctx, bson.M{"phone": phone}, opts)
	if err != nil {
		return nil, err
	}
	var docs []struct {
		KeyTime string `bson:"key_time"`
	}
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(docs))
	for _, d := range docs {
		keys = append(keys, d.KeyTime)
	}
	return keys, nil
}

// CountCompletions counts the events reported under keyTime
func (s *Store) CountCompletions(ctx context.Context, keyTime string) (int64, error) {
	return s.completions.CountDocuments(ctx, bson.M{"key_time": keyTime}, options.Count())
}

// ListCompletionsByTasks retrieves every event reported against the given task IDs
func (s *Store) ListCompletionsByTasks(ctx context.Context, taskIDs []string) ([]models.Completion, error) {
	if len(taskIDs) == 0 {
		return nil, nil
	}
	cur, err := s.completions.Find(ctx, bson.M{"id_task": bson.M{"$in": inStrings(taskIDs)}}, insertionOrder())
	if err != nil {
		return nil, err
	}
	var docs []completionDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	events := make([]models.Completion, 0, len(docs))
	for _, d := range docs {
		events = append(events, d.model())
	}
	return events, nil
}
