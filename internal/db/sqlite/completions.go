package sqlite

import (
	"context"
	"fmt"

	"taskhub/internal/db/models"

	"github.com/google/uuid"
)

func (s *Store) CreateCompletion(ctx context.Context, c *models.Completion) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO completed_tasks (
			id, id_task, key_time, phone, start_time, finish_time,
			pause_start, pause_end, cancel_time, comment, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		c.ID.String(), c.TaskID, c.KeyTime, c.Phone, c.StartTime, c.FinishTime,
		jsonList(c.PauseStart), jsonList(c.PauseEnd), c.CancelTime, c.Comment, c.Status,
		formatTime(c.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("insert completion: %w", err)
	}
	return nil
}

func (s *Store) ListCompletionKeys(ctx context.Context, phone string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT key_time FROM completed_tasks WHERE phone = ? ORDER BY rowid`, phone)
	if err != nil {
		return nil, fmt.Errorf("list completion keys: %w", err)
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

func (s *Store) CountCompletions(ctx context.Context, keyTime string) (int64, error) {
	var n int64
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM completed_tasks WHERE key_time = ?`, keyTime).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count completions: %w", err)
	}
	return n, nil
}

func (s *Store) ListCompletionsByTasks(ctx context.Context, taskIDs []string) ([]models.Completion, error) {
	if len(taskIDs) == 0 {
		return nil, nil
	}
	marks, args := placeholders(taskIDs)
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, id_task, key_time, phone, start_time, finish_time,
			pause_start, pause_end, cancel_time, comment, status, created_at
		FROM completed_tasks
		WHERE id_task IN (`+marks+`)
		ORDER BY rowid`, args...)
	if err != nil {
		return nil, fmt.Errorf("list completions: %w", err)
	}
	defer rows.Close()

	var events []models.Completion
	for rows.Next() {
		var c models.Completion
		var id, pauseStart, pauseEnd, createdAt string
		err := rows.Scan(
			&id, &c.TaskID, &c.KeyTime, &c.Phone, &c.StartTime, &c.FinishTime,
			&pauseStart, &pauseEnd, &c.CancelTime, &c.Comment, &c.Status, &createdAt,
		)
		if err != nil {
			return nil, err
		}
		c.ID, _ = uuid.Parse(id)
		c.PauseStart = parseList(pauseStart)
		c.PauseEnd = parseList(pauseEnd)
		c.CreatedAt = parseTime(createdAt)
		events = append(events, c)
	}
	return events, rows.Err()
}
