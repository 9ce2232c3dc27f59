package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type Group struct {
	ID           uuid.UUID      `db:"id" json:"-"`
	Name         string         `db:"group_name" json:"group_name"`
	ManagerPhone string         `db:"manager_phone" json:"manager_phone"`
	UserPhones   pq.StringArray `db:"user_phones" json:"user_phones"`
	Active       int            `db:"active" json:"active"`
	CreatedAt    time.Time      `db:"created_at" json:"-"`
}

// GroupUpdate holds the fields of an admin edit. Active is always written.
type GroupUpdate struct {
	ManagerPhone *string
	UserPhones   []string
	Active       int
}
