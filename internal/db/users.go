package db

import (
	"context"
	"fmt"
	"strings"

	"taskhub/internal/db/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/lib/pq"
)

const userColumns = `id, name, phone, password, status, created_at`

func scanUser(row pgx.Row, u *models.User) error {
	return row.Scan(&u.ID, &u.Name, &u.Phone, &u.PasswordHash, &u.Role, &u.CreatedAt)
}

// GetUserByPhone retrieves a user by phone number
func (db *DB) GetUserByPhone(ctx context.Context, phone string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE phone = $1`

	user := &models.User{}
	err := scanUser(db.QueryRow(ctx, query, phone), user)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error getting user: %w", err)
	}
	return user, nil
}

// GetUserByID retrieves a user by its ID
func (db *DB) GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	user := &models.User{}
	err := scanUser(db.QueryRow(ctx, query, id.String()), user)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error getting user: %w", err)
	}
	return user, nil
}

// CreateUser inserts a new user
func (db *DB) CreateUser(ctx context.Context, u *models.User) error {
	query := `
		INSERT INTO users (id, name, phone, password, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := db.Exec(ctx, query,
		u.ID.String(),
		u.Name,
		u.Phone,
		u.PasswordHash,
		u.Role.String(),
		u.CreatedAt,
	)
	if isUniqueViolation(err) {
		return models.ErrDuplicate
	}
	return err
}

// ListUsers retrieves users whose role is not in excludeRoles
func (db *DB) ListUsers(ctx context.Context, excludeRoles []string) ([]models.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE NOT (status = ANY($1::text[]))
		ORDER BY created_at`

	rows, err := db.Query(ctx, query, pq.StringArray(excludeRoles))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		var u models.User
		if err := scanUser(rows, &u); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// ListContacts retrieves name and phone of users whose role is not in excludeRoles
func (db *DB) ListContacts(ctx context.Context, excludeRoles []string) ([]models.Contact, error) {
	query := `
		SELECT name, phone
		FROM users
		WHERE NOT (status = ANY($1::text[]))
		ORDER BY created_at`

	rows, err := db.Query(ctx, query, pq.StringArray(excludeRoles))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var contacts []models.Contact
	for rows.Next() {
		var c models.Contact
		if err := rows.Scan(&c.Name, &c.Phone); err != nil {
			return nil, err
		}
		contacts = append(contacts, c)
	}
	return contacts, rows.Err()
}

// UpdateUser sets the non-nil fields of upd
func (db *DB) UpdateUser(ctx context.Context, id uuid.UUID, upd models.UserUpdate) (int64, error) {
	query, args, err := userUpdateQuery(id, upd)
	if err != nil {
		return 0, err
	}
	tag, err := db.Exec(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// userUpdateQuery numbers placeholders after $1, which is always the ID.
func userUpdateQuery(id uuid.UUID, upd models.UserUpdate) (string, []any, error) {
	var sets []string
	args := []any{id.String()}
	add := func(column string, v any) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	if upd.Name != nil {
		add("name", *upd.Name)
	}
	if upd.PasswordHash != nil {
		add("password", *upd.PasswordHash)
	}
	if upd.Role != nil {
		add("status", upd.Role.String())
	}
	if len(sets) == 0 {
		return "", nil, fmt.Errorf("empty user update")
	}
	return `UPDATE users SET ` + strings.Join(sets, ", ") + ` WHERE id = $1`, args, nil
}

// DeleteUser removes a user by ID
func (db *DB) DeleteUser(ctx context.Context, id uuid.UUID) (int64, error) {
	tag, err := db.Exec(ctx, `DELETE FROM users WHERE id = $1`, id.String())
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
