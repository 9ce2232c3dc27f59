package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type Task struct {
	ID          uuid.UUID `db:"id" json:"_id"`
	TaskFields
	CreatedBy   string    `db:"created_by" json:"created_by"`
	CreatedName string    `db:"created_name" json:"created_name"`
	CreatedAt   time.Time `db:"created_at" json:"-"`
}

// TaskFields is the mutable part of a task; an update replaces all of it.
type TaskFields struct {
	Title       string         `db:"title" json:"title"`
	Description string         `db:"description" json:"description"`
	StartDate   string         `db:"start_date" json:"start_date"`
	EndDate     string         `db:"end_date" json:"end_date"`
	StartTime   string         `db:"start_time" json:"start_time"`
	EndTime     string         `db:"end_time" json:"end_time"`
	RepeatDays  pq.StringArray `db:"repeat_days" json:"repeat_days"`
	Group       string         `db:"group_name" json:"group"`
	TaskType    string         `db:"task_type" json:"task_type"`
	Importance  int            `db:"importance" json:"importance"`
	NeedPhoto   int            `db:"needphoto" json:"needphoto"`
	NeedComment int            `db:"needcomment" json:"needcomment"`
}
