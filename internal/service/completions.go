package service

import (
	"context"
	"encoding/csv"
	"io"
	"strconv"
	"strings"
	"time"

	"taskhub/internal/apperr"
	"taskhub/internal/db/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Completions records completion and cancellation events.
type Completions struct {
	store Store
	log   *zap.SugaredLogger
}

func NewCompletions(store Store, log *zap.SugaredLogger) *Completions {
	return &Completions{store: store, log: log}
}

// CompletionReport is a member's report of a finished task instance.
type CompletionReport struct {
	StartTime  string
	FinishTime string
	PauseStart []string
	PauseEnd   []string
	TaskID     string
	KeyTime    string
	Comment    string
}

// CancellationReport is a member's report of a cancelled task instance.
type CancellationReport struct {
	CancelTime string
	TaskID     string
	KeyTime    string
	Comment    string
}

// RecordCompletion appends a completed event for phone.
func (c *Completions) RecordCompletion(ctx context.Context, phone string, r CompletionReport) error {
	return c.record(ctx, &models.Completion{
		TaskID:     r.TaskID,
		KeyTime:    r.KeyTime,
		Phone:      phone,
		StartTime:  r.StartTime,
		FinishTime: r.FinishTime,
		PauseStart: nonNilSlice(r.PauseStart),
		PauseEnd:   nonNilSlice(r.PauseEnd),
		Comment:    r.Comment,
		Status:     models.StatusCompleted,
	})
}

// RecordCancellation appends a cancelled event for phone. A comment is required.
func (c *Completions) RecordCancellation(ctx context.Context, phone string, r CancellationReport) error {
	if strings.TrimSpace(r.Comment) == "" {
		return apperr.BadRequest("A comment is required to cancel a task")
	}
	return c.record(ctx, &models.Completion{
		TaskID:     r.TaskID,
		KeyTime:    r.KeyTime,
		Phone:      phone,
		CancelTime: r.CancelTime,
		PauseStart: []string{},
		PauseEnd:   []string{},
		Comment:    r.Comment,
		Status:     models.StatusCancelled,
	})
}

func (c *Completions) record(ctx context.Context, event *models.Completion) error {
	event.ID = uuid.New()
	event.CreatedAt = time.Now().UTC()
	if err := c.store.CreateCompletion(ctx, event); err != nil {
		return apperr.Persistence("Failed to save task information", err)
	}
	c.log.Debugw("completion recorded", "task", event.TaskID, "key", event.KeyTime, "phone", event.Phone, "status", event.Status)
	return nil
}

var reportHeader = []string{"task_id", "title", "key_time", "phone", "completed", "cancelled"}

// GroupReport writes a CSV with one row per task, reported key and group
// member, counting the completed and cancelled events of that member. Tasks
// nobody has reported on yet produce no rows.
func (c *Completions) GroupReport(ctx context.Context, groupName string, w io.Writer) error {
	group, err := c.store.GetGroup(ctx, groupName)
	if err != nil {
		return apperr.Persistence(dbUnavailable, err)
	}
	if group == nil {
		return apperr.NotFound("Group not found")
	}

	tasks, err := c.store.ListTasksByGroups(ctx, []string{group.Name})
	if err != nil {
		return apperr.Persistence(dbUnavailable, err)
	}
	ids := make([]string, 0, len(tasks))
	for _, t := range tasks {
		ids = append(ids, t.ID.String())
	}
	events, err := c.store.ListCompletionsByTasks(ctx, ids)
	if err != nil {
		return apperr.Persistence(dbUnavailable, err)
	}

	type cell struct{ task, key, phone string }
	type tally struct{ completed, cancelled int }
	counts := make(map[cell]*tally)
	keys := make(map[string][]string, len(tasks))
	seen := make(map[[2]string]bool)
	for _, e := range events {
		if !seen[[2]string{e.TaskID, e.KeyTime}] {
			seen[[2]string{e.TaskID, e.KeyTime}] = true
			keys[e.TaskID] = append(keys[e.TaskID], e.KeyTime)
		}
		k := cell{e.TaskID, e.KeyTime, e.Phone}
		tl, ok := counts[k]
		if !ok {
			tl = &tally{}
			counts[k] = tl
		}
		if e.Status == models.StatusCompleted {
			tl.completed++
		} else {
			tl.cancelled++
		}
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(reportHeader); err != nil {
		return err
	}
	for _, t := range tasks {
		id := t.ID.String()
		for _, key := range keys[id] {
			for _, phone := range group.UserPhones {
				tl := counts[cell{id, key, phone}]
				if tl == nil {
					tl = &tally{}
				}
				row := []string{id, t.Title, key, phone, strconv.Itoa(tl.completed), strconv.Itoa(tl.cancelled)}
				if err := cw.Write(row); err != nil {
					return err
				}
			}
		}
	}
	cw.Flush()
	return cw.Error()
}
