package db

import (
	"time"

	"github.com/JakubPluta/emp-worklog/internal/model"
	"github.com/jackc/pgx/v5"
)

type TimelogRepository = Repository[model.Timelog, model.TimelogCreate, model.TimelogUpdate]

var TimelogSchema = Schema[model.Timelog, model.TimelogCreate, model.TimelogUpdate]{
	Table: "timelogs",
	Columns: []string{
		"id", "employee_id", "project_id", "date", "hours", "minutes", "note",
		"version", "created_at", "updated_at",
	},
	Order: []Order{{Column: "date", Desc: true}, {Column: "created_at"}},

	New: func() *model.Timelog {
		return &model.Timelog{}
	},
	Scan: func(row pgx.Row) (*model.Timelog, error) {
		var t model.Timelog
		err := row.Scan(
			&t.ID,
			&t.EmployeeID,
			&t.ProjectID,
			&t.Date,
			&t.Hours,
			&t.Minutes,
			&t.Note,
			&t.Version,
			&t.CreatedAt,
			&t.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		return &t, nil
	},
	Get: func(t *model.Timelog, column string) any {
		switch column {
		case "id":
			return t.ID
		case "employee_id":
			return t.EmployeeID
		case "project_id":
			return t.ProjectID
		case "date":
			return t.Date
		case "hours":
			return t.Hours
		case "minutes":
			return t.Minutes
		case "note":
			return t.Note
		case "version":
			return t.Version
		case "created_at":
			return t.CreatedAt
		case "updated_at":
			return t.UpdatedAt
		}
		return nil
	},
	Set: func(t *model.Timelog, column string, value any) {
		switch column {
		case "id":
			t.ID = value.(string)
		case "employee_id":
			t.EmployeeID = value.(string)
		case "project_id":
			t.ProjectID = value.(string)
		case "date":
			t.Date = value.(time.Time)
		case "hours":
			t.Hours = value.(int)
		case "minutes":
			t.Minutes = value.(int)
		case "note":
			t.Note = ptr(value.(string))
		case "version":
			t.Version = value.(int64)
		case "created_at":
			t.CreatedAt = value.(time.Time)
		case "updated_at":
			t.UpdatedAt = value.(time.Time)
		}
	},
	Insert: func(in model.TimelogCreate) []Assignment {
		out := []Assignment{
			{Column: "employee_id", Value: in.EmployeeID},
			{Column: "project_id", Value: in.ProjectID},
			{Column: "date", Value: in.Date},
			{Column: "hours", Value: in.Hours},
			{Column: "minutes", Value: in.Minutes},
		}
		if in.Note != nil {
			out = append(out, Assignment{Column: "note", Value: *in.Note})
		}
		return out
	},
	Update: func(in model.TimelogUpdate) []Assignment {
		var out []Assignment
		if in.ProjectID != nil {
			out = append(out, Assignment{Column: "project_id", Value: *in.ProjectID})
		}
		if in.Date != nil {
			out = append(out, Assignment{Column: "date", Value: *in.Date})
		}
		if in.Hours != nil {
			out = append(out, Assignment{Column: "hours", Value: *in.Hours})
		}
		if in.Minutes != nil {
			out = append(out, Assignment{Column: "minutes", Value: *in.Minutes})
		}
		if in.Note != nil {
			out = append(out, Assignment{Column: "note", Value: *in.Note})
		}
		return out
	},
}
