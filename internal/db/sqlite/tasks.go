package sqlite

import (
	"context"
	"fmt"

	"taskhub/internal/db/models"

	"github.com/google/uuid"
)

const taskColumns = `id, title, description, start_date, end_date, start_time, end_time,
	repeat_days, group_name, task_type, importance, created_by, created_name,
	needphoto, needcomment, created_at`

func scanTask(row rowScanner) (*models.Task, error) {
	t := &models.Task{}
	var id, repeatDays, createdAt string
	err := row.Scan(
		&id, &t.Title, &t.Description, &t.StartDate, &t.EndDate, &t.StartTime, &t.EndTime,
		&repeatDays, &t.Group, &t.TaskType, &t.Importance, &t.CreatedBy, &t.CreatedName,
		&t.NeedPhoto, &t.NeedComment, &createdAt,
	)
	if err != nil {
		return nil, err
	}
	t.ID, _ = uuid.Parse(id)
	t.RepeatDays = parseList(repeatDays)
	t.CreatedAt = parseTime(createdAt)
	return t, nil
}

func (s *Store) queryTasks(ctx context.Context, where string, args ...any) ([]models.Task, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+taskColumns+` FROM tasks WHERE `+where+` ORDER BY rowid`, args...)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	var tasks []models.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *t)
	}
	return tasks, rows.Err()
}

func (s *Store) CreateTask(ctx context.Context, t *models.Task) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO tasks (`+taskColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID.String(), t.Title, t.Description, t.StartDate, t.EndDate, t.StartTime, t.EndTime,
		jsonList(t.RepeatDays), t.Group, t.TaskType, t.Importance, t.CreatedBy, t.CreatedName,
		t.NeedPhoto, t.NeedComment, formatTime(t.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("insert task: %w", err)
	}
	return nil
}

func (s *Store) ListTasksByGroups(ctx context.Context, groups []string) ([]models.Task, error) {
	if len(groups) == 0 {
		return nil, nil
	}
	marks, args := placeholders(groups)
	return s.queryTasks(ctx, `group_name IN (`+marks+`)`, args...)
}

func (s *Store) ListTasksByCreator(ctx context.Context, phone string) ([]models.Task, error) {
	return s.queryTasks(ctx, `created_by = ?`, phone)
}

func (s *Store) UpdateTask(ctx context.Context, id uuid.UUID, createdBy string, f models.TaskFields) (int64, error) {
	return affected(s.db.ExecContext(ctx, `
		UPDATE tasks
		SET title = ?, description = ?, start_date = ?, end_date = ?, start_time = ?, end_time = ?,
			repeat_days = ?, group_name = ?, task_type = ?, importance = ?, needphoto = ?, needcomment = ?
		WHERE id = ? AND created_by = ?`,
		f.Title, f.Description, f.StartDate, f.EndDate, f.StartTime, f.EndTime,
		jsonList(f.RepeatDays), f.Group, f.TaskType, f.Importance, f.NeedPhoto, f.NeedComment,
		id.String(), createdBy,
	))
}

func (s *Store) DeleteTask(ctx context.Context, id uuid.UUID, createdBy string) (int64, error) {
	return affected(s.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ? AND created_by = ?`, id.String(), createdBy))
}

func (s *Store) DeleteTasksByGroups(ctx context.Context, groups []string) (int64, error) {
	if len(groups) == 0 {
		return 0, nil
	}
	marks, args := placeholders(groups)
	return affected(s.db.ExecContext(ctx, `DELETE FROM tasks WHERE group_name IN (`+marks+`)`, args...))
}
