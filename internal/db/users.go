package db

import (
	"time"

	"github.com/JakubPluta/emp-worklog/internal/model"
	"github.com/jackc/pgx/v5"
)

type UserRepository = Repository[model.User, model.UserCreate, model.UserUpdate]

var UserSchema = Schema[model.User, model.UserCreate, model.UserUpdate]{
	Table: "users",
	Columns: []string{
		"id", "email", "name", "hashed_password", "is_active", "is_superuser",
		"version", "created_at", "updated_at",
	},
	Unique: []string{"email"},
	Order:  []Order{{Column: "created_at"}},

	New: func() *model.User {
		return &model.User{IsActive: true}
	},
	Scan: func(row pgx.Row) (*model.User, error) {
		var u model.User
		err := row.Scan(
			&u.ID,
			&u.Email,
			&u.Name,
			&u.HashedPassword,
			&u.IsActive,
			&u.IsSuperuser,
			&u.Version,
			&u.CreatedAt,
			&u.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		return &u, nil
	},
	Get: func(u *model.User, column string) any {
		switch column {
		case "id":
			return u.ID
		case "email":
			return u.Email
		case "name":
			return u.Name
		case "hashed_password":
			return u.HashedPassword
		case "is_active":
			return u.IsActive
		case "is_superuser":
			return u.IsSuperuser
		case "version":
			return u.Version
		case "created_at":
			return u.CreatedAt
		case "updated_at":
			return u.UpdatedAt
		}
		return nil
	},
	Set: func(u *model.User, column string, value any) {
		switch column {
		case "id":
			u.ID = value.(string)
		case "email":
			u.Email = value.(string)
		case "name":
			u.Name = value.(string)
		case "hashed_password":
			u.HashedPassword = value.(string)
		case "is_active":
			u.IsActive = value.(bool)
		case "is_superuser":
			u.IsSuperuser = value.(bool)
		case "version":
			u.Version = value.(int64)
		case "created_at":
			u.CreatedAt = value.(time.Time)
		case "updated_at":
			u.UpdatedAt = value.(time.Time)
		}
	},
	Insert: func(in model.UserCreate) []Assignment {
		out := []Assignment{
			{Column: "email", Value: in.Email},
			{Column: "name", Value: in.Name},
			{Column: "hashed_password", Value: in.HashedPassword},
		}
		if in.IsActive != nil {
			out = append(out, Assignment{Column: "is_active", Value: *in.IsActive})
		}
		if in.IsSuperuser != nil {
			out = append(out, Assignment{Column: "is_superuser", Value: *in.IsSuperuser})
		}
		return out
	},
	Update: func(in model.UserUpdate) []Assignment {
		var out []Assignment
		if in.Email != nil {
			out = append(out, Assignment{Column: "email", Value: *in.Email})
		}
		if in.Name != nil {
			out = append(out, Assignment{Column: "name", Value: *in.Name})
		}
		if in.HashedPassword != nil {
			out = append(out, Assignment{Column: "hashed_password", Value: *in.HashedPassword})
		}
		if in.IsActive != nil {
			out = append(out, Assignment{Column: "is_active", Value: *in.IsActive})
		}
		if in.IsSuperuser != nil {
			out = append(out, Assignment{Column: "is_superuser", Value: *in.IsSuperuser})
		}
		return out
	},
}
