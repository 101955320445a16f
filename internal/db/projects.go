package db

import (
	"time"

	"github.com/JakubPluta/emp-worklog/internal/model"
	"github.com/jackc/pgx/v5"
)

type ProjectRepository = Repository[model.Project, model.ProjectCreate, model.ProjectUpdate]

var ProjectSchema = Schema[model.Project, model.ProjectCreate, model.ProjectUpdate]{
	Table: "projects",
	Columns: []string{
		"id", "name", "description", "is_active", "start_date", "end_date",
		"version", "created_at", "updated_at",
	},
	Unique: []string{"name"},
	Order:  []Order{{Column: "created_at"}},

	New: func() *model.Project {
		return &model.Project{IsActive: true}
	},
	Scan: func(row pgx.Row) (*model.Project, error) {
		var p model.Project
		err := row.Scan(
			&p.ID,
			&p.Name,
			&p.Description,
			&p.IsActive,
			&p.StartDate,
			&p.EndDate,
			&p.Version,
			&p.CreatedAt,
			&p.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		return &p, nil
	},
	Get: func(p *model.Project, column string) any {
		switch column {
		case "id":
			return p.ID
		case "name":
			return p.Name
		case "description":
			return p.Description
		case "is_active":
			return p.IsActive
		case "start_date":
			return p.StartDate
		case "end_date":
			return p.EndDate
		case "version":
			return p.Version
		case "created_at":
			return p.CreatedAt
		case "updated_at":
			return p.UpdatedAt
		}
		return nil
	},
	Set: func(p *model.Project, column string, value any) {
		switch column {
		case "id":
			p.ID = value.(string)
		case "name":
			p.Name = value.(string)
		case "description":
			p.Description = ptr(value.(string))
		case "is_active":
			p.IsActive = value.(bool)
		case "start_date":
			p.StartDate = value.(time.Time)
		case "end_date":
			p.EndDate = ptr(value.(time.Time))
		case "version":
			p.Version = value.(int64)
		case "created_at":
			p.CreatedAt = value.(time.Time)
		case "updated_at":
			p.UpdatedAt = value.(time.Time)
		}
	},
	Insert: func(in model.ProjectCreate) []Assignment {
		out := []Assignment{
			{Column: "name", Value: in.Name},
			{Column: "start_date", Value: in.StartDate},
		}
		if in.Description != nil {
			out = append(out, Assignment{Column: "description", Value: *in.Description})
		}
		if in.IsActive != nil {
			out = append(out, Assignment{Column: "is_active", Value: *in.IsActive})
		}
		if in.EndDate != nil {
			out = append(out, Assignment{Column: "end_date", Value: *in.EndDate})
		}
		return out
	},
	Update: func(in model.ProjectUpdate) []Assignment {
		var out []Assignment
		if in.Name != nil {
			out = append(out, Assignment{Column: "name", Value: *in.Name})
		}
		if in.Description != nil {
			out = append(out, Assignment{Column: "description", Value: *in.Description})
		}
		if in.IsActive != nil {
			out = append(out, Assignment{Column: "is_active", Value: *in.IsActive})
		}
		if in.StartDate != nil {
			out = append(out, Assignment{Column: "start_date", Value: *in.StartDate})
		}
		if in.EndDate != nil {
			out = append(out, Assignment{Column: "end_date", Value: *in.EndDate})
		}
		return out
	},
}

func ptr[T any](v T) *T {
	return &v
}
