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

const groupColumns = `id, group_name, manager_phone, user_phones, active, created_at`

// memberOf matches groups whose JSON member list contains the bound phone.
const memberOf = `EXISTS (SELECT 1 FROM json_each(groups.user_phones) WHERE json_each.value = ?)`

func scanGroup(row rowScanner) (*models.Group, error) {
	g := &models.Group{}
	var id, phones, createdAt string
	if err := row.Scan(&id, &g.Name, &g.ManagerPhone, &phones, &g.Active, &createdAt); err != nil {
		return nil, err
	}
	g.ID, _ = uuid.Parse(id)
	g.UserPhones = parseList(phones)
	g.CreatedAt = parseTime(createdAt)
	return g, nil
}

func (s *Store) queryGroups(ctx context.Context, where string, args ...any) ([]models.Group, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+groupColumns+` FROM groups`+where+` ORDER BY rowid`, args...)
	if err != nil {
		return nil, fmt.Errorf("list groups: %w", err)
	}
	defer rows.Close()

	var groups []models.Group
	for rows.Next() {
		g, err := scanGroup(rows)
		if err != nil {
			return nil, err
		}
		groups = append(groups, *g)
	}
	return groups, rows.Err()
}

func (s *Store) GetGroup(ctx context.Context, name string) (*models.Group, error) {
	g, err := scanGroup(s.db.QueryRowContext(ctx, `SELECT `+groupColumns+` FROM groups WHERE group_name = ?`, name))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get group %q: %w", name, err)
	}
	return g, nil
}

func (s *Store) CreateGroup(ctx context.Context, g *models.Group) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO groups (id, group_name, manager_phone, user_phones, active, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		g.ID.String(), g.Name, g.ManagerPhone, jsonList(g.UserPhones), g.Active, formatTime(g.CreatedAt),
	)
	if isUniqueViolation(err) {
		return models.ErrDuplicate
	}
	if err != nil {
		return fmt.Errorf("insert group: %w", err)
	}
	return nil
}

func (s *Store) ListGroups(ctx context.Context) ([]models.Group, error) {
	return s.queryGroups(ctx, "")
}

func (s *Store) ListGroupsByManager(ctx context.Context, phone string) ([]models.Group, error) {
	return s.queryGroups(ctx, ` WHERE manager_phone = ?`, phone)
}

func (s *Store) ListActiveGroupsForMember(ctx context.Context, phone string) ([]models.Group, error) {
	return s.queryGroups(ctx, ` WHERE active = 1 AND `+memberOf, phone)
}

func (s *Store) UpdateGroup(ctx context.Context, name string, upd models.GroupUpdate) (int64, error) {
	sets := []string{"active = ?"}
	args := []any{upd.Active}
	if upd.ManagerPhone != nil {
		sets = append(sets, "manager_phone = ?")
		args = append(args, *upd.ManagerPhone)
	}
	if len(upd.UserPhones) > 0 {
		sets = append(sets, "user_phones = ?")
		args = append(args, jsonList(upd.UserPhones))
	}
	args = append(args, name)
	return affected(s.db.ExecContext(ctx, `UPDATE groups SET `+strings.Join(sets, ", ")+` WHERE group_name = ?`, args...))
}

func (s *Store) DeleteGroup(ctx context.Context, name string) (int64, error) {
	return affected(s.db.ExecContext(ctx, `DELETE FROM groups WHERE group_name = ?`, name))
}

func (s *Store) DeleteGroupsByManager(ctx context.Context, phone string) (int64, error) {
	return affected(s.db.ExecContext(ctx, `DELETE FROM groups WHERE manager_phone = ?`, phone))
}

func (s *Store) RemoveMember(ctx context.Context, phone string) (int64, error) {
	const query = `
	UPDATE groups
	SET user_phones = (
		SELECT json_group_array(j.value)
		FROM json_each(groups.user_phones) AS j
		WHERE j.value <> ?
	)
	WHERE ` + memberOf
	return affected(s.db.ExecContext(ctx, query, phone, phone))
}
