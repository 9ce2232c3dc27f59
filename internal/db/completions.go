package db

import (
	"context"

	"taskhub/internal/db/models"

	"github.com/lib/pq"
)

// CreateCompletion appends a completion or cancellation event
func (db *DB) CreateCompletion(ctx context.Context, c *models.Completion) error {
	query := `
		INSERT INTO completed_tasks (
			id, id_task, key_time, phone, start_time, finish_time,
			pause_start, pause_end, cancel_time, comment, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7::text[], $8::text[], $9, $10, $11, $12)`

	_, err := db.Exec(ctx, query,
		c.ID.String(),
		c.TaskID,
		c.KeyTime,
		c.Phone,
		c.StartTime,
		c.FinishTime,
		c.PauseStart,
		c.PauseEnd,
		c.CancelTime,
		c.Comment,
		c.Status,
		c.CreatedAt,
	)
	return err
}

// ListCompletionKeys retrieves the key_time of every event reported by phone
func (db *DB) ListCompletionKeys(ctx context.Context, phone string) ([]string, error) {
	rows, err := db.Query(ctx,
		`SELECT key_time FROM completed_tasks WHERE phone = $1 ORDER BY created_at`, phone)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, err
		}
		keys = append(keys, k)
	}
	return keys, rows.Err()
}

// CountCompletions counts the events reported under keyTime
func (db *DB) CountCompletions(ctx context.Context, keyTime string) (int64, error) {
	var n int64
	err := db.QueryRow(ctx, `SELECT count(*) FROM completed_tasks WHERE key_time = $1`, keyTime).Scan(&n)
	return n, err
}

// ListCompletionsByTasks retrieves every event reported against the given task IDs
func (db *DB) ListCompletionsByTasks(ctx context.Context, taskIDs []string) ([]models.Completion, error) {
	if len(taskIDs) == 0 {
		return nil, nil
	}
	query := `
		SELECT id, id_task, key_time, phone, start_time, finish_time,
			pause_start, pause_end, cancel_time, comment, status, created_at
		FROM completed_tasks
		WHERE id_task = ANY($1::text[])
		ORDER BY created_at`

	rows, err := db.Query(ctx, query, pq.StringArray(taskIDs))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []models.Completion
	for rows.Next() {
		var c models.Completion
		err := rows.Scan(
			&c.ID,
			&c.TaskID,
			&c.KeyTime,
			&c.Phone,
			&c.StartTime,
			&c.FinishTime,
			&c.PauseStart,
			&c.PauseEnd,
			&c.CancelTime,
			&c.Comment,
			&c.Status,
			&c.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		events = append(events, c)
	}
	return events, rows.Err()
}
