package db

import (
	"context"

	"taskhub/internal/db/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/lib/pq"
)

const taskColumns = `
	id, title, description, start_date, end_date, start_time, end_time,
	repeat_days, group_name, task_type, importance, created_by, created_name,
	needphoto, needcomment, created_at`

func scanTask(row pgx.Row, t *models.Task) error {
	return row.Scan(
		&t.ID,
		&t.Title,
		&t.Description,
		&t.StartDate,
		&t.EndDate,
		&t.StartTime,
		&t.EndTime,
		&t.RepeatDays,
		&t.Group,
		&t.TaskType,
		&t.Importance,
		&t.CreatedBy,
		&t.CreatedName,
		&t.NeedPhoto,
		&t.NeedComment,
		&t.CreatedAt,
	)
}

func (db *DB) queryTasks(ctx context.Context, query string, args ...any) ([]models.Task, error) {
	rows, err := db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []models.Task
	for rows.Next() {
		var t models.Task
		if err := scanTask(rows, &t); err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

// CreateTask creates a new task in the database
func (db *DB) CreateTask(ctx context.Context, task *models.Task) error {
	query := `
		INSERT INTO tasks (
			id, title, description, start_date, end_date, start_time, end_time,
			repeat_days, group_name, task_type, importance, created_by, created_name,
			needphoto, needcomment, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8::text[], $9, $10, $11, $12, $13, $14, $15, $16)`

	_, err := db.Exec(ctx, query,
		task.ID.String(),
		task.Title,
		task.Description,
		task.StartDate,
		task.EndDate,
		task.StartTime,
		task.EndTime,
		task.RepeatDays,
		task.Group,
		task.TaskType,
		task.Importance,
		task.CreatedBy,
		task.CreatedName,
		task.NeedPhoto,
		task.NeedComment,
		task.CreatedAt,
	)
	return err
}

// ListTasksByGroups retrieves the tasks of the named groups in insertion order
func (db *DB) ListTasksByGroups(ctx context.Context, groups []string) ([]models.Task, error) {
	if len(groups) == 0 {
		return nil, nil
	}
	return db.queryTasks(ctx,
		`SELECT `+taskColumns+` FROM tasks WHERE group_name = ANY($1::text[]) ORDER BY created_at`,
		pq.StringArray(groups))
}

// ListTasksByCreator retrieves the tasks created by phone in insertion order
func (db *DB) ListTasksByCreator(ctx context.Context, phone string) ([]models.Task, error) {
	return db.queryTasks(ctx,
		`SELECT `+taskColumns+` FROM tasks WHERE created_by = $1 ORDER BY created_at`,
		phone)
}

// UpdateTask replaces the mutable fields of a task owned by createdBy
func (db *DB) UpdateTask(ctx context.Context, id uuid.UUID, createdBy string, f models.TaskFields) (int64, error) {
	query := `
		UPDATE tasks
		SET title = $3, description = $4, start_date = $5, end_date = $6,
			start_time = $7, end_time = $8, repeat_days = $9::text[], group_name = $10,
			task_type = $11, importance = $12, needphoto = $13, needcomment = $14
		WHERE id = $1 AND created_by = $2`

	tag, err := db.Exec(ctx, query,
		id.String(),
		createdBy,
		f.Title,
		f.Description,
		f.StartDate,
		f.EndDate,
		f.StartTime,
		f.EndTime,
		f.RepeatDays,
		f.Group,
		f.TaskType,
		f.Importance,
		f.NeedPhoto,
		f.NeedComment,
	)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// DeleteTask removes a task owned by createdBy
func (db *DB) DeleteTask(ctx context.Context, id uuid.UUID, createdBy string) (int64, error) {
	tag, err := db.Exec(ctx, `DELETE FROM tasks WHERE id = $1 AND created_by = $2`, id.String(), createdBy)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// DeleteTasksByGroups removes every task belonging to the named groups
func (db *DB) DeleteTasksByGroups(ctx context.Context, groups []string) (int64, error) {
	if len(groups) == 0 {
		return 0, nil
	}
	tag, err := db.Exec(ctx, `DELETE FROM tasks WHERE group_name = ANY($1::text[])`, pq.StringArray(groups))
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
