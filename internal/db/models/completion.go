package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Completion statuses.
const (
	StatusCancelled = 0
	StatusCompleted = 1
)

// Completion is one reported event against a task instance. Events are
// append-only; the same key may be reported more than once.
type Completion struct {
	ID         uuid.UUID      `db:"id" json:"_id"`
	TaskID     string         `db:"id_task" json:"id_task"`
	KeyTime    string         `db:"key_time" json:"key_time"`
	Phone      string         `db:"phone" json:"phone"`
	StartTime  string         `db:"start_time" json:"start_time,omitempty"`
	FinishTime string         `db:"finish_time" json:"finish_time,omitempty"`
	PauseStart pq.StringArray `db:"pause_start" json:"pause_start,omitempty"`
	PauseEnd   pq.StringArray `db:"pause_end" json:"pause_end,omitempty"`
	CancelTime string         `db:"cancel_time" json:"cancel_time,omitempty"`
	Comment    string         `db:"comment" json:"comment"`
	Status     int            `db:"status" json:"status"`
	CreatedAt  time.Time      `db:"created_at" json:"-"`
}
