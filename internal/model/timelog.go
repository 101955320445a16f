package model

import "time"

const (
	MaxTimelogHours   = 24
	MaxTimelogMinutes = 59
)

type Timelog struct {
	ID         string
	EmployeeID string
	ProjectID  string
	Date       time.Time
	Hours      int
	Minutes    int
	Note       *string
	Version    int64
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

type TimelogCreate struct {
	EmployeeID string
	ProjectID  string
	Date       time.Time
	Hours      int
	Minutes    int
	Note       *string
}

type TimelogUpdate struct {
	ProjectID *string
	Date      *time.Time
	Hours     *int
	Minutes   *int
	Note      *string
}

type TimelogCreateRequest struct {
	ProjectID string    `json:"project_id" binding:"required,uuid"`
	Date      time.Time `json:"date" binding:"required"`
	Hours     *int      `json:"hours" binding:"required,min=0,max=24"`
	Minutes   *int      `json:"minutes" binding:"required,min=0,max=59"`
	Note      *string   `json:"note" binding:"omitempty,max=254"`
}

type TimelogUpdateRequest struct {
	ProjectID *string    `json:"project_id" binding:"omitempty,uuid"`
	Date      *time.Time `json:"date"`
	Hours     *int       `json:"hours" binding:"omitempty,min=0,max=24"`
	Minutes   *int       `json:"minutes" binding:"omitempty,min=0,max=59"`
	Note      *string    `json:"note" binding:"omitempty,max=254"`
}

type TimelogResponse struct {
	ID         string    `json:"id"`
	EmployeeID string    `json:"employee_id"`
	ProjectID  string    `json:"project_id"`
	Date       time.Time `json:"date"`
	Hours      int       `json:"hours"`
	Minutes    int       `json:"minutes"`
	Note       *string   `json:"note"`
}

func NewTimelogResponse(t *Timelog) TimelogResponse {
	return TimelogResponse{
		ID:         t.ID,
		EmployeeID: t.EmployeeID,
		ProjectID:  t.ProjectID,
		Date:       t.Date,
		Hours:      t.Hours,
		Minutes:    t.Minutes,
		Note:       t.Note,
	}
}
