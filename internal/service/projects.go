package service

import (
	"context"
	"fmt"

	"github.com/JakubPluta/emp-worklog/internal/db"
	"github.com/JakubPluta/emp-worklog/internal/logging"
	"github.com/JakubPluta/emp-worklog/internal/model"
)

type ProjectService struct {
	repo db.ProjectRepository
	log  logging.Logger
}

func NewProjectService(repo db.ProjectRepository, log logging.Logger) *ProjectService {
	return &ProjectService{repo: repo, log: log}
}

func (s *ProjectService) Get(ctx context.Context, id string) (*model.Project, error) {
	return s.repo.GetOneByID(ctx, id)
}

func (s *ProjectService) List(ctx context.Context, activeOnly bool, offset, limit int) ([]model.Project, int64, error) {
	filter := db.Filter{}
	if activeOnly {
		filter = db.Where("is_active", true)
	}
	items, err := s.repo.GetMany(ctx, filter, offset, limit)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (s *ProjectService) Create(ctx context.Context, req model.ProjectCreateRequest) (*model.Project, error) {
	if req.EndDate != nil && req.EndDate.Before(req.StartDate) {
		return nil, fmt.Errorf("%w: end_date is before start_date", ErrValidation)
	}
	project, err := s.repo.Create(ctx, model.ProjectCreate{
		Name:        req.Name,
		Description: req.Description,
		IsActive:    req.IsActive,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
	})
	if err != nil {
		return nil, err
	}
	s.log.Info(ctx, "project created", "project_id", project.ID)
	return project, nil
}

func (s *ProjectService) Update(ctx context.Context, project *model.Project, req model.ProjectUpdateRequest) (*model.Project, error) {
	start, end := project.StartDate, project.EndDate
	if req.StartDate != nil {
		start = *req.StartDate
	}
	if req.EndDate != nil {
		end = req.EndDate
	}
	if end != nil && end.Before(start) {
		return nil, fmt.Errorf("%w: end_date is before start_date", ErrValidation)
	}
	return s.repo.Update(ctx, project, model.ProjectUpdate{
		Name:        req.Name,
		Description: req.Description,
		IsActive:    req.IsActive,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
	})
}

func (s *ProjectService) Delete(ctx context.Context, project *model.Project) (*model.Project, error) {
	deleted, err := s.repo.Delete(ctx, project)
	if err != nil {
		return nil, err
	}
	s.log.Info(ctx, "project deleted", "project_id", deleted.ID)
	return deleted, nil
}
