package db

import (
	"context"
	"fmt"
	"strings"

	"taskhub/internal/db/models"

	"github.com/jackc/pgx/v5"
	"github.com/lib/pq"
)

const groupColumns = `id, group_name, manager_phone, user_phones, active, created_at`

func scanGroup(row pgx.Row, g *models.Group) error {
	return row.Scan(&g.ID, &g.Name, &g.ManagerPhone, &g.UserPhones, &g.Active, &g.CreatedAt)
}

func (db *DB) queryGroups(ctx context.Context, query string, args ...any) ([]models.Group, error) {
	rows, err := db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var groups []models.Group
	for rows.Next() {
		var g models.Group
		if err := scanGroup(rows, &g); err != nil {
			return nil, err
		}
		groups = append(groups, g)
	}
	return groups, rows.Err()
}

// GetGroup retrieves a group by name
func (db *DB) GetGroup(ctx context.Context, name string) (*models.Group, error) {
	query := `SELECT ` + groupColumns + ` FROM groups WHERE group_name = $1`

	group := &models.Group{}
	err := scanGroup(db.QueryRow(ctx, query, name), group)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error getting group: %w", err)
	}
	return group, nil
}

// CreateGroup inserts a new group
func (db *DB) CreateGroup(ctx context.Context, g *models.Group) error {
	query := `
		INSERT INTO groups (id, group_name, manager_phone, user_phones, active, created_at)
		VALUES ($1, $2, $3, $4::text[], $5, $6)`

	_, err := db.Exec(ctx, query,
		g.ID.String(),
		g.Name,
		g.ManagerPhone,
		g.UserPhones,
		g.Active,
		g.CreatedAt,
	)
	if isUniqueViolation(err) {
		return models.ErrDuplicate
	}
	return err
}

// ListGroups retrieves every group
func (db *DB) ListGroups(ctx context.Context) ([]models.Group, error) {
	return db.queryGroups(ctx, `SELECT `+groupColumns+` FROM groups ORDER BY created_at`)
}

// ListGroupsByManager retrieves the groups managed by phone
func (db *DB) ListGroupsByManager(ctx context.Context, phone string) ([]models.Group, error) {
	return db.queryGroups(ctx,
		`SELECT `+groupColumns+` FROM groups WHERE manager_phone = $1 ORDER BY created_at`,
		phone)
}

// ListActiveGroupsForMember retrieves the active groups listing phone as a member
func (db *DB) ListActiveGroupsForMember(ctx context.Context, phone string) ([]models.Group, error) {
	return db.queryGroups(ctx,
		`SELECT `+groupColumns+` FROM groups WHERE active = 1 AND $1 = ANY(user_phones) ORDER BY created_at`,
		phone)
}

// UpdateGroup applies an admin edit to the named group
func (db *DB) UpdateGroup(ctx context.Context, name string, upd models.GroupUpdate) (int64, error) {
	query, args := groupUpdateQuery(name, upd)
	tag, err := db.Exec(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func groupUpdateQuery(name string, upd models.GroupUpdate) (string, []any) {
	sets := []string{"active = $2"}
	args := []any{name, upd.Active}
	if upd.ManagerPhone != nil {
		args = append(args, *upd.ManagerPhone)
		sets = append(sets, fmt.Sprintf("manager_phone = $%d", len(args)))
	}
	if len(upd.UserPhones) > 0 {
		args = append(args, pq.StringArray(upd.UserPhones))
		sets = append(sets, fmt.Sprintf("user_phones = $%d::text[]", len(args)))
	}
	return `UPDATE groups SET ` + strings.Join(sets, ", ") + ` WHERE group_name = $1`, args
}

// DeleteGroup removes a group by name
func (db *DB) DeleteGroup(ctx context.Context, name string) (int64, error) {
	tag, err := db.Exec(ctx, `DELETE FROM groups WHERE group_name = $1`, name)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// DeleteGroupsByManager removes every group managed by phone
func (db *DB) DeleteGroupsByManager(ctx context.Context, phone string) (int64, error) {
	tag, err := db.Exec(ctx, `DELETE FROM groups WHERE manager_phone = $1`, phone)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// RemoveMember pulls phone from every group's member list
func (db *DB) RemoveMember(ctx context.Context, phone string) (int64, error) {
	query := `
		UPDATE groups
		SET user_phones = array_remove(user_phones, $1)
		WHERE $1 = ANY(user_phones)`

	tag, err := db.Exec(ctx, query, phone)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
