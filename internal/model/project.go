package model

import "time"

type Project struct {
	ID          string
	Name        string
	Description *string
	IsActive    bool
	StartDate   time.Time
	EndDate     *time.Time
	Version     int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type ProjectCreate struct {
	Name        string
	Description *string
	IsActive    *bool
	StartDate   time.Time
	EndDate     *time.Time
}

type ProjectUpdate struct {
	Name        *string
	Description *string
	IsActive    *bool
	StartDate   *time.Time
	EndDate     *time.Time
}

type ProjectCreateRequest struct {
	Name        string     `json:"name" binding:"required,max=254"`
	Description *string    `json:"description" binding:"omitempty,max=254"`
	IsActive    *bool      `json:"is_active"`
	StartDate   time.Time  `json:"start_date" binding:"required"`
	EndDate     *time.Time `json:"end_date"`
}

type ProjectUpdateRequest struct {
	Name        *string    `json:"name" binding:"omitempty,min=1,max=254"`
	Description *string    `json:"description" binding:"omitempty,max=254"`
	IsActive    *bool      `json:"is_active"`
	StartDate   *time.Time `json:"start_date"`
	EndDate     *time.Time `json:"end_date"`
}

type ProjectResponse struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description *string    `json:"description"`
	IsActive    bool       `json:"is_active"`
	StartDate   time.Time  `json:"start_date"`
	EndDate     *time.Time `json:"end_date"`
}

func NewProjectResponse(p *Project) ProjectResponse {
	return ProjectResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		IsActive:    p.IsActive,
		StartDate:   p.StartDate,
		EndDate:     p.EndDate,
	}
}
