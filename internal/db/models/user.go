package models

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID           uuid.UUID `db:"id" json:"_id"`
	Name         string    `db:"name" json:"name"`
	Phone        string    `db:"phone" json:"phone"`
	PasswordHash string    `db:"password" json:"-"`
	Role         Role      `db:"status" json:"status"`
	CreatedAt    time.Time `db:"created_at" json:"-"`
}

// Contact is the name/phone projection used by the assignment pickers.
type Contact struct {
	Name  string `db:"name" json:"name"`
	Phone string `db:"phone" json:"phone"`
}

// UserUpdate holds the fields of an admin edit. Nil fields are left untouched.
type UserUpdate struct {
	Name         *string
	PasswordHash *string
	Role         *Role
}

// Empty reports whether the update would change nothing.
func (u UserUpdate) Empty() bool {
	return u.Name == nil && u.PasswordHash == nil && u.Role == nil
}
