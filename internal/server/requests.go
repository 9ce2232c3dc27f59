package server

import (
	"taskhub/internal/db/models"
	"taskhub/internal/service"
)

type loginRequest struct {
	Phone    string `json:"phone" binding:"required,min=13"`
	Password string `json:"password" binding:"required,min=6,max=20"`
}

type registerRequest struct {
	Name     string `json:"name" binding:"required"`
	Phone    string `json:"phone" binding:"required,min=13"`
	Password string `json:"password" binding:"required,min=6,max=20"`
	Status   string `json:"status" binding:"required"`
}

type deleteUserRequest struct {
	ID    string `json:"id" binding:"required"`
	Phone string `json:"phone"`
}

type deleteGroupRequest struct {
	GroupName string `json:"group_name" binding:"required"`
}

type createGroupRequest struct {
	GroupName    string   `json:"group_name" binding:"required"`
	ManagerPhone string   `json:"manager_phone" binding:"required"`
	UserPhones   []string `json:"user_phones"`
}

type editUserRequest struct {
	ID       string  `json:"id" binding:"required"`
	Name     *string `json:"name"`
	Password *string `json:"password" binding:"omitempty,min=6,max=20"`
	Status   *string `json:"status"`
}

type editGroupRequest struct {
	GroupName    string   `json:"group_name" binding:"required"`
	ManagerPhone *string  `json:"manager_phone"`
	UserPhones   []string `json:"user_phones"`
	Active       *int     `json:"active" binding:"required,oneof=0 1"`
}

// taskRequest is the body of POST /tasks. Its keys are camelCase.
type taskRequest struct {
	Title       string   `json:"title" binding:"required"`
	Description string   `json:"description"`
	StartDate   string   `json:"startDate"`
	EndDate     string   `json:"endDate"`
	StartTime   string   `json:"startTime"`
	EndTime     string   `json:"endTime"`
	RepeatDays  []string `json:"repeatDays"`
	Group       string   `json:"group" binding:"required"`
	TaskType    string   `json:"taskType"`
	Importance  int      `json:"importance"`
	NeedPhoto   int      `json:"needphoto" binding:"oneof=0 1"`
	NeedComment int      `json:"needcomment" binding:"oneof=0 1"`
}

func (r taskRequest) fields() models.TaskFields {
	return models.TaskFields{
		Title:       r.Title,
		Description: r.Description,
		StartDate:   r.StartDate,
		EndDate:     r.EndDate,
		StartTime:   r.StartTime,
		EndTime:     r.EndTime,
		RepeatDays:  r.RepeatDays,
		Group:       r.Group,
		TaskType:    r.TaskType,
		Importance:  r.Importance,
		NeedPhoto:   r.NeedPhoto,
		NeedComment: r.NeedComment,
	}
}

// taskEditRequest is the body of PUT /update_task/. Its keys are snake_case
// and created_by is accepted but ignored; the owner is the caller.
type taskEditRequest struct {
	TaskID      string   `json:"taskid" binding:"required"`
	Title       string   `json:"title" binding:"required"`
	Description string   `json:"description"`
	StartDate   string   `json:"start_date"`
	EndDate     string   `json:"end_date"`
	StartTime   string   `json:"start_time"`
	EndTime     string   `json:"end_time"`
	RepeatDays  []string `json:"repeat_days"`
	Group       string   `json:"group" binding:"required"`
	TaskType    string   `json:"task_type"`
	Importance  int      `json:"importance"`
	CreatedBy   string   `json:"created_by"`
	NeedPhoto   int      `json:"needphoto" binding:"oneof=0 1"`
	NeedComment int      `json:"needcomment" binding:"oneof=0 1"`
}

func (r taskEditRequest) fields() models.TaskFields {
	return models.TaskFields{
		Title:       r.Title,
		Description: r.Description,
		StartDate:   r.StartDate,
		EndDate:     r.EndDate,
		StartTime:   r.StartTime,
		EndTime:     r.EndTime,
		RepeatDays:  r.RepeatDays,
		Group:       r.Group,
		TaskType:    r.TaskType,
		Importance:  r.Importance,
		NeedPhoto:   r.NeedPhoto,
		NeedComment: r.NeedComment,
	}
}

type completionRequest struct {
	StartTime  string   `json:"start_time"`
	FinishTime string   `json:"finish_time"`
	PauseStart []string `json:"pause_start"`
	PauseEnd   []string `json:"pause_end"`
	TaskID     string   `json:"id_task" binding:"required"`
	KeyTime    string   `json:"keyTime" binding:"required"`
	Comment    string   `json:"comment"`
}

func (r completionRequest) report() service.CompletionReport {
	return service.CompletionReport{
		StartTime:  r.StartTime,
		FinishTime: r.FinishTime,
		PauseStart: r.PauseStart,
		PauseEnd:   r.PauseEnd,
		TaskID:     r.TaskID,
		KeyTime:    r.KeyTime,
		Comment:    r.Comment,
	}
}

type cancelRequest struct {
	CancelTime string `json:"cancel_time"`
	TaskID     string `json:"id_task" binding:"required"`
	KeyTime    string `json:"keyTime" binding:"required"`
	Comment    string `json:"comment"`
}

func (r cancelRequest) report() service.CancellationReport {
	return service.CancellationReport{
		CancelTime: r.CancelTime,
		TaskID:     r.TaskID,
		KeyTime:    r.KeyTime,
		Comment:    r.Comment,
	}
}
