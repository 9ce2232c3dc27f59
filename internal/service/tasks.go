package service

import (
	"context"
	"errors"
	"sort"
	"time"

	"taskhub/internal/apperr"
	"taskhub/internal/db/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const taskNotFound = "The task was not found or you do not have sufficient rights"

// Tasks manages tasks and their visibility through group membership.
type Tasks struct {
	store Store
	log   *zap.SugaredLogger
}

func NewTasks(store Store, log *zap.SugaredLogger) *Tasks {
	return &Tasks{store: store, log: log}
}

// TaskList is what a member sees: the tasks of its active groups and the
// keys it has already reported.
type TaskList struct {
	Tasks         []models.Task `json:"tasks"`
	CompletedKeys []string      `json:"completedKeys"`
}

// Legacy returns the list in its old shape: the tasks followed by the key
// list as the last element.
func (l *TaskList) Legacy() []any {
	out := make([]any, 0, len(l.Tasks)+1)
	for i := range l.Tasks {
		out = append(out, l.Tasks[i])
	}
	return append(out, l.CompletedKeys)
}

// requireManager fails with Forbidden unless the named group exists and is
// managed by phone.
func (t *Tasks) requireManager(ctx context.Context, groupName, phone string) error {
	group, err := t.store.GetGroup(ctx, groupName)
	if err != nil {
		return apperr.Persistence(dbUnavailable, err)
	}
	if group == nil || group.ManagerPhone != phone {
		return apperr.Forbidden("You do not have permission to create tasks in this group")
	}
	return nil
}

// CreateTask stores a task in a group managed by phone.
func (t *Tasks) CreateTask(ctx context.Context, f models.TaskFields, phone string) (*models.Task, error) {
	if err := t.requireManager(ctx, f.Group, phone); err != nil {
		return nil, err
	}

	creator, err := t.store.GetUserByPhone(ctx, phone)
	if err != nil {
		return nil, apperr.Persistence(dbUnavailable, err)
	}
	if creator == nil {
		return nil, apperr.NotFound("User not found")
	}

	f.RepeatDays = nonNilSlice(f.RepeatDays)
	task := &models.Task{
		ID:          uuid.New(),
		TaskFields:  f,
		CreatedBy:   phone,
		CreatedName: creator.Name,
		CreatedAt:   time.Now().UTC(),
	}
	if err := t.store.CreateTask(ctx, task); err != nil {
		return nil, apperr.Persistence("Failed to save task to database", err)
	}
	t.log.Infow("task created", "id", task.ID, "group", f.Group, "by", phone)
	return task, nil
}

// ListMyTasks returns the tasks of every active group listing phone, most
// important first, with the completion keys phone has reported.
func (t *Tasks) ListMyTasks(ctx context.Context, phone string) (*TaskList, error) {
	groups, err := t.store.ListActiveGroupsForMember(ctx, phone)
	if err != nil {
		return nil, apperr.Persistence(dbUnavailable, err)
	}

	tasks, err := t.store.ListTasksByGroups(ctx, groupNames(groups))
	if err != nil {
		return nil, apperr.Persistence(dbUnavailable, err)
	}
	byImportance(tasks)

	keys, err := t.store.ListCompletionKeys(ctx, phone)
	if err != nil {
		return nil, apperr.Persistence(dbUnavailable, err)
	}

	return &TaskList{Tasks: nonNilSlice(tasks), CompletedKeys: nonNilSlice(keys)}, nil
}

// ListMyCreatedTasks returns the tasks created by phone, most important first.
func (t *Tasks) ListMyCreatedTasks(ctx context.Context, phone string) ([]models.Task, error) {
	tasks, err := t.store.ListTasksByCreator(ctx, phone)
	if err != nil {
		return nil, apperr.Persistence(dbUnavailable, err)
	}
	byImportance(tasks)
	return nonNilSlice(tasks), nil
}

// DeleteTask removes a task created by phone. A missing task and a task
// owned by someone else are the same NotFound.
func (t *Tasks) DeleteTask(ctx context.Context, rawID, phone string) error {
	id, err := uuid.Parse(rawID)
	if err != nil {
		return apperr.NotFound(taskNotFound)
	}
	n, err := t.store.DeleteTask(ctx, id, phone)
	if err != nil {
		return apperr.Persistence(dbUnavailable, err)
	}
	if n == 0 {
		return apperr.NotFound(taskNotFound)
	}
	return nil
}

// UpdateTask replaces every mutable field of a task created by phone. The
// target group must be managed by phone as well.
func (t *Tasks) UpdateTask(ctx context.Context, rawID string, f models.TaskFields, phone string) error {
	id, err := uuid.Parse(rawID)
	if err != nil {
		return apperr.NotFound(taskNotFound)
	}
	if err := t.requireManager(ctx, f.Group, phone); err != nil {
		return err
	}
	f.RepeatDays = nonNilSlice(f.RepeatDays)
	n, err := t.store.UpdateTask(ctx, id, phone, f)
	if err != nil {
		return apperr.Persistence("Failed to update task to database", err)
	}
	if n == 0 {
		return apperr.NotFound(taskNotFound)
	}
	return nil
}

// ErrNoMembers is the cause reported when a percentage is asked for a group
// without members.
var ErrNoMembers = errors.New("group has no members")

// CompletionPercentage returns the number of events reported under keyTime
// as a percentage of the group's member count.
func (t *Tasks) CompletionPercentage(ctx context.Context, groupName, keyTime string) (float64, error) {
	group, err := t.store.GetGroup(ctx, groupName)
	if err != nil {
		return 0, apperr.Persistence(dbUnavailable, err)
	}
	if group == nil {
		return 0, apperr.NotFound("Group not found")
	}
	if len(group.UserPhones) == 0 {
		return 0, apperr.Wrap(apperr.KindNotFound, "Group has no members", ErrNoMembers)
	}

	count, err := t.store.CountCompletions(ctx, keyTime)
	if err != nil {
		return 0, apperr.Persistence(dbUnavailable, err)
	}
	return float64(count) / float64(len(group.UserPhones)) * 100, nil
}

// byImportance sorts tasks by importance, highest first, keeping store order
// among equals.
func byImportance(tasks []models.Task) {
	sort.SliceStable(tasks, func(i, j int) bool {
		return tasks[i].Importance > tasks[j].Importance
	})
}
