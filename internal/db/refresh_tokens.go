package db

import (
	"time"

	"github.com/JakubPluta/emp-worklog/internal/model"
	"github.com/jackc/pgx/v5"
)

type RefreshTokenRepository = Repository[model.RefreshToken, model.RefreshTokenCreate, model.RefreshTokenUpdate]

// RefreshTokenSchema stores one row per issued refresh token, keyed by jti.
var RefreshTokenSchema = Schema[model.RefreshToken, model.RefreshTokenCreate, model.RefreshTokenUpdate]{
	Table:   "refresh_tokens",
	Columns: []string{"id", "user_id", "expires_at", "revoked_at", "version", "created_at"},
	Order:   []Order{{Column: "created_at"}},

	New: func() *model.RefreshToken {
		return &model.RefreshToken{}
	},
	Scan: func(row pgx.Row) (*model.RefreshToken, error) {
		var t model.RefreshToken
		err := row.Scan(&t.ID, &t.UserID, &t.ExpiresAt, &t.RevokedAt, &t.Version, &t.CreatedAt)
		if err != nil {
			return nil, err
		}
		return &t, nil
	},
	Get: func(t *model.RefreshToken, column string) any {
		switch column {
		case "id":
			return t.ID
		case "user_id":
			return t.UserID
		case "expires_at":
			return t.ExpiresAt
		case "revoked_at":
			return t.RevokedAt
		case "version":
			return t.Version
		case "created_at":
			return t.CreatedAt
		}
		return nil
	},
	Set: func(t *model.RefreshToken, column string, value any) {
		switch column {
		case "id":
			t.ID = value.(string)
		case "user_id":
			t.UserID = value.(string)
		case "expires_at":
			t.ExpiresAt = value.(time.Time)
		case "revoked_at":
			t.RevokedAt = ptr(value.(time.Time))
		case "version":
			t.Version = value.(int64)
		case "created_at":
			t.CreatedAt = value.(time.Time)
		}
	},
	Insert: func(in model.RefreshTokenCreate) []Assignment {
		return []Assignment{
			{Column: "id", Value: in.ID},
			{Column: "user_id", Value: in.UserID},
			{Column: "expires_at", Value: in.ExpiresAt},
		}
	},
	Update: func(in model.RefreshTokenUpdate) []Assignment {
		if in.RevokedAt == nil {
			return nil
		}
		return []Assignment{{Column: "revoked_at", Value: *in.RevokedAt}}
	},
}
