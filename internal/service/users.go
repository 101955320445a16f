package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/JakubPluta/emp-worklog/internal/db"
	"github.com/JakubPluta/emp-worklog/internal/logging"
	"github.com/JakubPluta/emp-worklog/internal/model"
	"github.com/JakubPluta/emp-worklog/internal/security"
)

type UserService struct {
	repo   db.UserRepository
	hasher *security.Hasher
	log    logging.Logger
}

func NewUserService(repo db.UserRepository, hasher *security.Hasher, log logging.Logger) *UserService {
	return &UserService{repo: repo, hasher: hasher, log: log}
}

func (s *UserService) GetByID(ctx context.Context, id string) (*model.User, error) {
	user, err := s.repo.GetOneByID(ctx, id)
	if errors.Is(err, db.ErrNotFound) {
		return nil, ErrIdentityNotFound
	}
	return user, err
}

func (s *UserService) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	user, err := s.repo.GetOne(ctx, db.Where("email", email))
	if errors.Is(err, db.ErrNotFound) {
		return nil, ErrIdentityNotFound
	}
	return user, err
}

func (s *UserService) List(ctx context.Context, offset, limit int) ([]model.User, int64, error) {
	users, err := s.repo.GetMany(ctx, db.Filter{}, offset, limit)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.repo.Count(ctx, db.Filter{})
	if err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

func (s *UserService) Create(ctx context.Context, req model.UserCreateRequest) (*model.User, error) {
	digest, err := s.hasher.Hash(ctx, req.Password)
	if err != nil {
		return nil, err
	}
	user, err := s.repo.Create(ctx, model.UserCreate{
		Email:          req.Email,
		Name:           req.Name,
		HashedPassword: digest,
		IsActive:       req.IsActive,
		IsSuperuser:    req.IsSuperuser,
	})
	if errors.Is(err, db.ErrDuplicate) {
		return nil, ErrDuplicateEmail
	}
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	s.log.Info(ctx, "user created", "user_id", user.ID, "superuser", user.IsSuperuser)
	return user, nil
}

// Update applies the set fields of req to user. A new password is hashed
// before it reaches storage.
func (s *UserService) Update(ctx context.Context, user *model.User, req model.UserUpdateRequest) (*model.User, error) {
	in := model.UserUpdate{
		Email:       req.Email,
		Name:        req.Name,
		IsActive:    req.IsActive,
		IsSuperuser: req.IsSuperuser,
	}
	if req.Password != nil {
		digest, err := s.hasher.Hash(ctx, *req.Password)
		if err != nil {
			return nil, err
		}
		in.HashedPassword = &digest
	}

	updated, err := s.repo.Update(ctx, user, in)
	switch {
	case errors.Is(err, db.ErrDuplicate):
		return nil, ErrDuplicateEmail
	case errors.Is(err, db.ErrNotFound):
		return nil, ErrIdentityNotFound
	case err != nil:
		return nil, err
	}
	return updated, nil
}

// UpdateSelf is the self-service update; role flags are never touched.
func (s *UserService) UpdateSelf(ctx context.Context, user *model.User, req model.UserUpdateMeRequest) (*model.User, error) {
	return s.Update(ctx, user, model.UserUpdateRequest{
		Email:    req.Email,
		Name:     req.Name,
		Password: req.Password,
	})
}

func (s *UserService) Delete(ctx context.Context, user *model.User) (*model.User, error) {
	deleted, err := s.repo.Delete(ctx, user)
	if errors.Is(err, db.ErrNotFound) {
		return nil, ErrIdentityNotFound
	}
	if err != nil {
		return nil, err
	}
	s.log.Info(ctx, "user deleted", "user_id", deleted.ID)
	return deleted, nil
}

// Authenticate checks an email/password pair. Unknown emails and wrong
// passwords are reported the same way.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*model.User, error) {
	user, err := s.repo.GetOne(ctx, db.Where("email", email))
	if errors.Is(err, db.ErrNotFound) {
		s.hasher.VerifyDecoy(ctx, password)
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if !s.hasher.Verify(ctx, password, user.HashedPassword) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, ErrIdentityInactive
	}

	if s.hasher.NeedsRehash(user.HashedPassword) {
		if rehashed, err := s.rehash(ctx, user, password); err != nil {
			s.log.Warn(ctx, "password rehash failed", "user_id", user.ID, "error", err)
		} else {
			user = rehashed
		}
	}
	return user, nil
}

func (s *UserService) rehash(ctx context.Context, user *model.User, password string) (*model.User, error) {
	digest, err := s.hasher.Hash(ctx, password)
	if err != nil {
		return nil, err
	}
	return s.repo.Update(ctx, user, model.UserUpdate{HashedPassword: &digest})
}
