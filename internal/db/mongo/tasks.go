package mongo

import (
	"context"

	"taskhub/internal/db/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
)

func (s *Store) findTasks(ctx context.Context, filter bson.M) ([]models.Task, error) {
	cur, err := s.tasks.Find(ctx, filter, insertionOrder())
	if err != nil {
		return nil, err
	}
	var docs []taskDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	tasks := make([]models.Task, 0, len(docs))
	for _, d := range docs {
		tasks = append(tasks, d.model())
	}
	return tasks, nil
}

// CreateTask creates a new task in the database
func (s *Store) CreateTask(ctx context.Context, t *models.Task) error {
	_, err := s.tasks.InsertOne(ctx, fromTask(t))
	return err
}

// ListTasksByGroups retrieves the tasks of the named groups in insertion order
func (s *Store) ListTasksByGroups(ctx context.Context, groups []string) ([]models.Task, error) {
	if len(groups) == 0 {
		return nil, nil
	}
	return s.findTasks(ctx, bson.M{"group": bson.M{"$in": inStrings(groups)}})
}

// ListTasksByCreator retrieves the tasks created by phone in insertion order
func (s *Store) ListTasksByCreator(ctx context.Context, phone string) ([]models.Task, error) {
	return s.findTasks(ctx, bson.M{"created_by": phone})
}

// UpdateTask replaces the mutable fields of a task owned by createdBy
func (s *Store) UpdateTask(ctx context.Context, id uuid.UUID, createdBy string, f models.TaskFields) (int64, error) {
	res, err := s.tasks.UpdateOne(ctx, bson.M{"_id": id.String(), "created_by": createdBy}, bson.M{"$set": taskUpdateSet(f)})
	if err != nil {
		return 0, err
	}
	return res.MatchedCount, nil
}

// DeleteTask removes a task owned by createdBy
func (s *Store) DeleteTask(ctx context.Context, id uuid.UUID, createdBy string) (int64, error) {
	res, err := s.tasks.DeleteOne(ctx, bson.M{"_id": id.String(), "created_by": createdBy})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// DeleteTasksByGroups removes every task belonging to the named groups
func (s *Store) DeleteTasksByGroups(ctx context.Context, groups []string) (int64, error) {
	if len(groups) == 0 {
		return 0, nil
	}
	res, err := s.tasks.DeleteMany(ctx, bson.M{"group": bson.M{"$in": inStrings(groups)}})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

func taskUpdateSet(f models.TaskFields) bson.M {
	return bson.M{
		"title":       f.Title,
		"description": f.Description,
		"start_date":  f.StartDate,
		"end_date":    f.EndDate,
		"start_time":  f.StartTime,
		"end_time":    f.EndTime,
		"repeat_days": nonNil(f.RepeatDays),
		"group":       f.Group,
		"task_type":   f.TaskType,
		"importance":  f.Importance,
		"needphoto":   f.NeedPhoto,
		"needcomment": f.NeedComment,
	}
}
