package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/JakubPluta/emp-worklog/internal/db"
	"github.com/JakubPluta/emp-worklog/internal/logging"
	"github.com/JakubPluta/emp-worklog/internal/model"
)

// TimelogService scopes every operation to the acting identity. Entries of
// other employees are invisible to non-superusers and reported as not found.
type TimelogService struct {
	repo     db.TimelogRepository
	projects db.ProjectRepository
	log      logging.Logger
}

type TimelogQuery struct {
	EmployeeID string
	ProjectID  string
}

func NewTimelogService(repo db.TimelogRepository, projects db.ProjectRepository, log logging.Logger) *TimelogService {
	return &TimelogService{repo: repo, projects: projects, log: log}
}

func (s *TimelogService) Get(ctx context.Context, actor *model.User, id string) (*model.Timelog, error) {
	entry, err := s.repo.GetOneByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.IsSuperuser && entry.EmployeeID != actor.ID {
		return nil, db.ErrNotFound
	}
	return entry, nil
}

func (s *TimelogService) List(ctx context.Context, actor *model.User, q TimelogQuery, offset, limit int) ([]model.Timelog, int64, error) {
	filter := db.Filter{}
	switch {
	case !actor.IsSuperuser:
		filter = db.Where("employee_id", actor.ID)
	case q.EmployeeID != "":
		filter = db.Where("employee_id", q.EmployeeID)
	}
	if q.ProjectID != "" {
		filter = filter.And("project_id", q.ProjectID)
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

func (s *TimelogService) Create(ctx context.Context, actor *model.User, req model.TimelogCreateRequest) (*model.Timelog, error) {
	if err := validateDuration(*req.Hours, *req.Minutes); err != nil {
		return nil, err
	}
	if err := s.checkProject(ctx, req.ProjectID); err != nil {
		return nil, err
	}
	entry, err := s.repo.Create(ctx, model.TimelogCreate{
		EmployeeID: actor.ID,
		ProjectID:  req.ProjectID,
		Date:       req.Date,
		Hours:      *req.Hours,
		Minutes:    *req.Minutes,
		Note:       req.Note,
	})
	if errors.Is(err, db.ErrInvalidReference) {
		return nil, fmt.Errorf("%w: unknown project", ErrValidation)
	}
	if err != nil {
		return nil, err
	}
	s.log.Debug(ctx, "timelog created", "timelog_id", entry.ID, "employee_id", actor.ID)
	return entry, nil
}

func (s *TimelogService) Update(ctx context.Context, actor *model.User, id string, req model.TimelogUpdateRequest) (*model.Timelog, error) {
	entry, err := s.Get(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	hours, minutes := entry.Hours, entry.Minutes
	if req.Hours != nil {
		hours = *req.Hours
	}
	if req.Minutes != nil {
		minutes = *req.Minutes
	}
	if err := validateDuration(hours, minutes); err != nil {
		return nil, err
	}
	if req.ProjectID != nil && *req.ProjectID != entry.ProjectID {
		if err := s.checkProject(ctx, *req.ProjectID); err != nil {
			return nil, err
		}
	}

	updated, err := s.repo.Update(ctx, entry, model.TimelogUpdate{
		ProjectID: req.ProjectID,
		Date:      req.Date,
		Hours:     req.Hours,
		Minutes:   req.Minutes,
		Note:      req.Note,
	})
	if errors.Is(err, db.ErrInvalidReference) {
		return nil, fmt.Errorf("%w: unknown project", ErrValidation)
	}
	return updated, err
}

func (s *TimelogService) Delete(ctx context.Context, actor *model.User, id string) (*model.Timelog, error) {
	entry, err := s.Get(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	return s.repo.Delete(ctx, entry)
}

func (s *TimelogService) checkProject(ctx context.Context, projectID string) error {
	project, err := s.projects.GetOneByID(ctx, projectID)
	if errors.Is(err, db.ErrNotFound) {
		return fmt.Errorf("%w: unknown project", ErrValidation)
	}
	if err != nil {
		return err
	}
	if !project.IsActive {
		return fmt.Errorf("%w: project is not active", ErrValidation)
	}
	return nil
}

func validateDuration(hours, minutes int) error {
	if hours < 0 || hours > model.MaxTimelogHours || minutes < 0 || minutes > model.MaxTimelogMinutes {
		return fmt.Errorf("%w: hours or minutes out of range", ErrValidation)
	}
	if hours*60+minutes > model.MaxTimelogHours*60 {
		return fmt.Errorf("%w: a single entry cannot exceed 24 hours", ErrValidation)
	}
	return nil
}
