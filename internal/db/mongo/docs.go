package mongo

import (
	"time"

	"taskhub/internal/db/models"

	"github.com/google/uuid"
)

type userDoc struct {
	ID        string    `bson:"_id"`
	Name      string    `bson:"name"`
	Phone     string    `bson:"phone"`
	Password  string    `bson:"password"`
	Status    string    `bson:"status"`
	CreatedAt time.Time `bson:"created_at"`
}

func fromUser(u *models.User) userDoc {
	return userDoc{
		ID:        u.ID.String(),
		Name:      u.Name,
		Phone:     u.Phone,
		Password:  u.PasswordHash,
		Status:    u.Role.String(),
		CreatedAt: u.CreatedAt,
	}
}

func (d userDoc) model() models.User {
	id, _ := uuid.Parse(d.ID)
	return models.User{
		ID:           id,
		Name:         d.Name,
		Phone:        d.Phone,
		PasswordHash: d.Password,
		Role:         models.Role(d.Status),
		CreatedAt:    d.CreatedAt,
	}
}

type groupDoc struct {
	ID           string    `bson:"_id"`
	GroupName    string    `bson:"group_name"`
	ManagerPhone string    `bson:"manager_phone"`
	UserPhones   []string  `bson:"user_phones"`
	Active       int       `bson:"active"`
	CreatedAt    time.Time `bson:"created_at"`
}

func fromGroup(g *models.Group) groupDoc {
	return groupDoc{
		ID:           g.ID.String(),
		GroupName:    g.Name,
		ManagerPhone: g.ManagerPhone,
		UserPhones:   nonNil(g.UserPhones),
		Active:       g.Active,
		CreatedAt:    g.CreatedAt,
	}
}

func (d groupDoc) model() models.Group {
	id, _ := uuid.Parse(d.ID)
	return models.Group{
		ID:           id,
		Name:         d.GroupName,
		ManagerPhone: d.ManagerPhone,
		UserPhones:   nonNil(d.UserPhones),
		Active:       d.Active,
		CreatedAt:    d.CreatedAt,
	}
}

type taskDoc struct {
	ID          string    `bson:"_id"`
	Title       string    `bson:"title"`
	Description string    `bson:"description"`
	StartDate   string    `bson:"start_date"`
	EndDate     string    `bson:"end_date"`
	StartTime   string    `bson:"start_time"`
	EndTime     string    `bson:"end_time"`
	RepeatDays  []string  `bson:"repeat_days"`
	Group       string    `bson:"group"`
	TaskType    string    `bson:"task_type"`
	Importance  int       `bson:"importance"`
	CreatedBy   string    `bson:"created_by"`
	CreatedName string    `bson:"created_name"`
	NeedPhoto   int       `bson:"needphoto"`
	NeedComment int       `bson:"needcomment"`
	CreatedAt   time.Time `bson:"created_at"`
}

func fromTask(t *models.Task) taskDoc {
	return taskDoc{
		ID:          t.ID.String(),
		Title:       t.Title,
		Description: t.Description,
		StartDate:   t.StartDate,
		EndDate:     t.EndDate,
		StartTime:   t.StartTime,
		EndTime:     t.EndTime,
		RepeatDays:  nonNil(t.RepeatDays),
		Group:       t.Group,
		TaskType:    t.TaskType,
		Importance:  t.Importance,
		CreatedBy:   t.CreatedBy,
		CreatedName: t.CreatedName,
		NeedPhoto:   t.NeedPhoto,
		NeedComment: t.NeedComment,
		CreatedAt:   t.CreatedAt,
	}
}

func (d taskDoc) model() models.Task {
	id, _ := uuid.Parse(d.ID)
	return models.Task{
		ID: id,
		TaskFields: models.TaskFields{
			Title:       d.Title,
			Description: d.Description,
			StartDate:   d.StartDate,
			EndDate:     d.EndDate,
			StartTime:   d.StartTime,
			EndTime:     d.EndTime,
			RepeatDays:  nonNil(d.RepeatDays),
			Group:       d.Group,
			TaskType:    d.TaskType,
			Importance:  d.Importance,
			NeedPhoto:   d.NeedPhoto,
			NeedComment: d.NeedComment,
		},
		CreatedBy:   d.CreatedBy,
		CreatedName: d.CreatedName,
		CreatedAt:   d.CreatedAt,
	}
}

type completionDoc struct {
	ID         string    `bson:"_id"`
	TaskID     string    `bson:"id_task"`
	KeyTime    string    `bson:"key_time"`
	Phone      string    `bson:"phone"`
	StartTime  string    `bson:"start_time,omitempty"`
	FinishTime string    `bson:"finish_time,omitempty"`
	PauseStart []string  `bson:"pause_start,omitempty"`
	PauseEnd   []string  `bson:"pause_end,omitempty"`
	CancelTime string    `bson:"cancel_time,omitempty"`
	Comment    string    `bson:"comment"`
	Status     int       `bson:"status"`
	CreatedAt  time.Time `bson:"created_at"`
}

func fromCompletion(c *models.Completion) completionDoc {
	return completionDoc{
		ID:         c.ID.String(),
		TaskID:     c.TaskID,
		KeyTime:    c.KeyTime,
		Phone:      c.Phone,
		StartTime:  c.StartTime,
		FinishTime: c.FinishTime,
		PauseStart: c.PauseStart,
		PauseEnd:   c.PauseEnd,
		CancelTime: c.CancelTime,
		Comment:    c.Comment,
		Status:     c.Status,
		CreatedAt:  c.CreatedAt,
	}
}

func (d completionDoc) model() models.Completion {
	id, _ := uuid.Parse(d.ID)
	return models.Completion{
		ID:         id,
		TaskID:     d.TaskID,
		KeyTime:    d.KeyTime,
		Phone:      d.Phone,
		StartTime:  d.StartTime,
		FinishTime: d.FinishTime,
		PauseStart: d.PauseStart,
		PauseEnd:   d.PauseEnd,
		CancelTime: d.CancelTime,
		Comment:    d.Comment,
		Status:     d.Status,
		CreatedAt:  d.CreatedAt,
	}
}

func nonNil(list []string) []string {
	if list == nil {
		return []string{}
	}
	return list
}
