package model

import "time"

type User struct {
	ID             string
	Email          string
	Name           string
	HashedPassword string
	IsActive       bool
	IsSuperuser    bool
	Version        int64
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// UserCreate is the sparse storage input for a new user. Nil flags take the
// column defaults.
type UserCreate struct {
	Email          string
	Name           string
	HashedPassword string
	IsActive       *bool
	IsSuperuser    *bool
}

// UserUpdate carries only the fields to change.
type UserUpdate struct {
	Email          *string
	Name           *string
	HashedPassword *string
	IsActive       *bool
	IsSuperuser    *bool
}

type UserRegisterRequest struct {
	Email    string `json:"email" binding:"required,email,max=254"`
	Name     string `json:"name" binding:"required,max=254"`
	Password string `json:"password" binding:"required,max=72"`
}

type UserCreateRequest struct {
	Email       string `json:"email" binding:"required,email,max=254"`
	Name        string `json:"name" binding:"required,max=254"`
	Password    string `json:"password" binding:"required,max=72"`
	IsActive    *bool  `json:"is_active"`
	IsSuperuser *bool  `json:"is_superuser"`
}

// UserUpdateMeRequest is the self-service update; it cannot touch role flags.
type UserUpdateMeRequest struct {
	Email    *string `json:"email" binding:"omitempty,email,max=254"`
	Name     *string `json:"name" binding:"omitempty,min=1,max=254"`
	Password *string `json:"password" binding:"omitempty,min=1,max=72"`
}

type UserUpdateRequest struct {
	Email       *string `json:"email" binding:"omitempty,email,max=254"`
	Name        *string `json:"name" binding:"omitempty,min=1,max=254"`
	Password    *string `json:"password" binding:"omitempty,min=1,max=72"`
	IsActive    *bool   `json:"is_active"`
	IsSuperuser *bool   `json:"is_superuser"`
}

// UserResponse is the public view of a user; it never carries the digest.
type UserResponse struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	Name        string `json:"name"`
	IsActive    bool   `json:"is_active"`
	IsSuperuser bool   `json:"is_superuser"`
}

func NewUserResponse(u *User) UserResponse {
	return UserResponse{
		ID:          u.ID,
		Email:       u.Email,
		Name:        u.Name,
		IsActive:    u.IsActive,
		IsSuperuser: u.IsSuperuser,
	}
}

type UserPasswordRequest struct {
	Password string `json:"password" binding:"required,max=72"`
}
