package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"taskhub/internal/db/models"

	"github.com/google/uuid"
)

const userColumns = `id, name, phone, password, status, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*models.User, error) {
	u := &models.User{}
	var id, createdAt string
	if err := row.Scan(&id, &u.Name, &u.Phone, &u.PasswordHash, &u.Role, &createdAt); err != nil {
		return nil, err
	}
	u.ID, _ = uuid.Parse(id)
	u.CreatedAt = parseTime(createdAt)
	return u, nil
}

func (s *Store) getUser(ctx context.Context, where string, arg any) (*models.User, error) {
	u, err := scanUser(s.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE `+where, arg))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

func (s *Store) GetUserByPhone(ctx context.Context, phone string) (*models.User, error) {
	return s.getUser(ctx, "phone = ?", phone)
}

func (s *Store) GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return s.getUser(ctx, "id = ?", id.String())
}

func (s *Store) CreateUser(ctx context.Context, u *models.User) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO users (id, name, phone, password, status, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		u.ID.String(), u.Name, u.Phone, u.PasswordHash, u.Role.String(), formatTime(u.CreatedAt),
	)
	if isUniqueViolation(err) {
		return models.ErrDuplicate
	}
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func exclusionClause(excludeRoles []string) (string, []any) {
	if len(excludeRoles) == 0 {
		return "", nil
	}
	marks, args := placeholders(excludeRoles)
	return ` WHERE status NOT IN (` + marks + `)`, args
}

func (s *Store) ListUsers(ctx context.Context, excludeRoles []string) ([]models.User, error) {
	where, args := exclusionClause(excludeRoles)
	rows, err := s.db.QueryContext(ctx, `SELECT `+userColumns+` FROM users`+where+` ORDER BY rowid`, args...)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *u)
	}
	return users, rows.Err()
}

func (s *Store) ListContacts(ctx context.Context, excludeRoles []string) ([]models.Contact, error) {
	where, args := exclusionClause(excludeRoles)
	rows, err := s.db.QueryContext(ctx, `SELECT name, phone FROM users`+where+` ORDER BY rowid`, args...)
	if err != nil {
		return nil, fmt.Errorf("list contacts: %w", err)
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

func (s *Store) UpdateUser(ctx context.Context, id uuid.UUID, upd models.UserUpdate) (int64, error) {
	var sets []string
	var args []any
	if upd.Name != nil {
		sets = append(sets, "name = ?")
		args = append(args, *upd.Name)
	}
	if upd.PasswordHash != nil {
		sets = append(sets, "password = ?")
		args = append(args, *upd.PasswordHash)
	}
	if upd.Role != nil {
		sets = append(sets, "status = ?")
		args = append(args, upd.Role.String())
	}
	if len(sets) == 0 {
		return 0, fmt.Errorf("empty user update")
	}
	args = append(args, id.String())
	return affected(s.db.ExecContext(ctx, `UPDATE users SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...))
}

func (s *Store) DeleteUser(ctx context.Context, id uuid.UUID) (int64, error) {
	return affected(s.db.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id.String()))
}
