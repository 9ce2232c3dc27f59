package service

import (
	"context"

	"taskhub/internal/db/models"

	"github.com/google/uuid"
)

// Store is the persistence surface the services need. Lookups return
// (nil, nil) when nothing matches; mutations report how many records they
// matched so callers can tell a miss from a failure. No method spans more
// than one record type, and none of them is transactional with another.
type Store interface {
	UserStore
	GroupStore
	TaskStore
	CompletionStore
	Ping(ctx context.Context) error
	Close() error
}

type UserStore interface {
	GetUserByPhone(ctx context.Context, phone string) (*models.User, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	// CreateUser returns models.ErrDuplicate when the phone is taken.
	CreateUser(ctx context.Context, u *models.User) error
	ListUsers(ctx context.Context, excludeRoles []string) ([]models.User, error)
	ListContacts(ctx context.Context, excludeRoles []string) ([]models.Contact, error)
	UpdateUser(ctx context.Context, id uuid.UUID, upd models.UserUpdate) (int64, error)
	DeleteUser(ctx context.Context, id uuid.UUID) (int64, error)
}

type GroupStore interface {
	GetGroup(ctx context.Context, name string) (*models.Group, error)
	// CreateGroup returns models.ErrDuplicate when the name is taken.
	CreateGroup(ctx context.Context, g *models.Group) error
	ListGroups(ctx context.Context) ([]models.Group, error)
	ListGroupsByManager(ctx context.Context, phone string) ([]models.Group, error)
	ListActiveGroupsForMember(ctx context.Context, phone string) ([]models.Group, error)
	UpdateGroup(ctx context.Context, name string, upd models.GroupUpdate) (int64, error)
	DeleteGroup(ctx context.Context, name string) (int64, error)
	DeleteGroupsByManager(ctx context.Context, phone string) (int64, error)
	// RemoveMember pulls phone from every group's member list.
	RemoveMember(ctx context.Context, phone string) (int64, error)
}

type TaskStore interface {
	CreateTask(ctx context.Context, t *models.Task) error
	// ListTasksByGroups returns tasks in insertion order.
	ListTasksByGroups(ctx context.Context, groups []string) ([]models.Task, error)
	ListTasksByCreator(ctx context.Context, phone string) ([]models.Task, error)
	UpdateTask(ctx context.Context, id uuid.UUID, createdBy string, f models.TaskFields) (int64, error)
	DeleteTask(ctx context.Context, id uuid.UUID, createdBy string) (int64, error)
	DeleteTasksByGroups(ctx context.Context, groups []string) (int64, error)
}

type CompletionStore interface {
	CreateCompletion(ctx context.Context, c *models.Completion) error
	ListCompletionKeys(ctx context.Context, phone string) ([]string, error)
	CountCompletions(ctx context.Context, keyTime string) (int64, error)
	ListCompletionsByTasks(ctx context.Context, taskIDs []string) ([]models.Completion, error)
}
