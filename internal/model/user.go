package model

import "time"

const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

// User represents an account managed by the backend
type User struct {
	ID           int          `json:"id"`
	NationalCode string       `json:"nationalCode"`
	FirstName    string       `json:"firstName"`
	LastName     string       `json:"lastName"`
	FatherName   string       `json:"fatherName"`
	ProfileImage *string      `json:"profileImage,omitempty"` // Pointer for optional field
	Role         string       `json:"role"`
	CreatedAt    time.Time    `json:"createdAt"`
	UpdatedAt    time.Time    `json:"updatedAt"`
	ReportCards  []ReportCard `json:"reportCards,omitempty"`
}

// FullName joins first and last name the way lists display them
func (u User) FullName() string {
	return u.FirstName + " " + u.LastName
}

// HasKnownRole reports whether the user's role is one the portal serves
func (u User) HasKnownRole() bool {
	return u.Role == RoleAdmin || u.Role == RoleUser
}

// IsAdmin reports whether the user has the ADMIN role
func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// CreateUserRequest is used for creating a new user
type CreateUserRequest struct {
	NationalCode string `json:"nationalCode" form:"nationalCode" validate:"required"`
	FirstName    string `json:"firstName" form:"firstName" validate:"required"`
	LastName     string `json:"lastName" form:"lastName" validate:"required"`
	FatherName   string `json:"fatherName" form:"fatherName" validate:"required"`
	Password     string `json:"password" form:"password" validate:"required,min=6"`
	Role         string `json:"role" form:"role" validate:"required,oneof=USER ADMIN"`
}

// UpdateUserRequest carries a partial update, nil fields are left untouched
type UpdateUserRequest struct {
	NationalCode *string `json:"nationalCode,omitempty" validate:"omitempty,min=1"`
	FirstName    *string `json:"firstName,omitempty" validate:"omitempty,min=1"`
	LastName     *string `json:"lastName,omitempty" validate:"omitempty,min=1"`
	FatherName   *string `json:"fatherName,omitempty" validate:"omitempty,min=1"`
	Password     *string `json:"password,omitempty" validate:"omitempty,min=6"`
	Role         *string `json:"role,omitempty" validate:"omitempty,oneof=USER ADMIN"`
}

// LoginRequest is the body of POST /auth/login
type LoginRequest struct {
	NationalCode string `json:"nationalCode" form:"nationalCode" validate:"required"`
	Password     string `json:"password" form:"password" validate:"required"`
}

// LoginResponse is returned by the backend on successful login
type LoginResponse struct {
	AccessToken string `json:"access_token"`
	User        User   `json:"user"`
}
