package ports

import (
	"time"
)

// Request/response types shared between handlers and services.

// CreateTaskRequest is the write shape for task creation. Related records are
// supplied by identifier and resolved at validation time. The completion flag
// is deliberately absent: new tasks always start unfinished.
type CreateTaskRequest struct {
	Title       string     `json:"title" validate:"required,max=255"`
	Description string     `json:"description"`
	TagIDs      []int64    `json:"tag_ids" validate:"required,min=1"`
	CategoryID  int64      `json:"category_id" validate:"required"`
	EndAt       *time.Time `json:"end_at"`
	Attachment  *string    `json:"attachment"`
}

// UpdateTaskRequest is the write shape for full and partial task updates.
// Nil fields are left untouched. Unlike creation, is_finish is writable here.
type UpdateTaskRequest struct {
	Title       *string    `json:"title" validate:"omitempty,max=255"`
	Description *string    `json:"description"`
	IsFinish    *bool      `json:"is_finish"`
	TagIDs      []int64    `json:"tag_ids" validate:"omitempty,min=1"`
	CategoryID  *int64     `json:"category_id"`
	EndAt       *time.Time `json:"end_at"`
	Attachment  *string    `json:"attachment"`
}

// CreateTagRequest is the write shape for tag creation.
type CreateTagRequest struct {
	Name        string `json:"name" validate:"required,max=255"`
	Description string `json:"description"`
}

// UpdateTagRequest is the write shape for tag updates.
type UpdateTagRequest struct {
	Name        *string `json:"name" validate:"omitempty,max=255"`
	Description *string `json:"description"`
}

// CreateCategoryRequest is the write shape for category creation.
type CreateCategoryRequest struct {
	Name string `json:"name" validate:"required,max=255"`
}

// UpdateCategoryRequest is the write shape for category updates.
type UpdateCategoryRequest struct {
	Name *string `json:"name" validate:"omitempty,max=255"`
}

// LoginRequest carries credentials for token issuance.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// RefreshRequest carries a refresh token to exchange for a new access token.
type RefreshRequest struct {
	Refresh string `json:"refresh" validate:"required"`
}

// TokenPair is the response of the token endpoints.
type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh,omitempty"`
}

// RegisterRequest carries the fields needed to create an account.
type RegisterRequest struct {
	Email       string `json:"email" validate:"required,email"`
	Username    string `json:"username" validate:"required,max=150"`
	Password    string `json:"password" validate:"required,min=8"`
	IsStaff     bool   `json:"is_staff"`
	IsSuperuser bool   `json:"is_superuser"`
}

// PaginatedResponse wraps list results with paging metadata.
type PaginatedResponse[T any] struct {
	Data   []T   `json:"data"`
	Total  int64 `json:"total"`
	Limit  int   `json:"limit"`
	Offset int   `json:"offset"`
}

// NewPaginated builds a paginated response for a page of results.
func NewPaginated[T any](data []T, total int64, limit, offset int) PaginatedResponse[T] {
	return PaginatedResponse[T]{Data: data, Total: total, Limit: limit, Offset: offset}
}
