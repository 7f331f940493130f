package entities

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Common errors
var (
	ErrTaskNotFound     = errors.New("task not found")
	ErrTagNotFound      = errors.New("tag not found")
	ErrCategoryNotFound = errors.New("category not found")
	ErrUserNotFound     = errors.New("user not found")
	ErrUnauthorized     = errors.New("unauthorized")
	ErrForbidden        = errors.New("forbidden")
	ErrInvalidToken     = errors.New("invalid token")
)

// MaxNameLength is the upper bound for task titles and tag/category names.
const MaxNameLength = 255

// User represents an account that can authenticate and own tasks.
type User struct {
	ID           uuid.UUID  `json:"id" db:"id"`
	Email        string     `json:"email" db:"email"`
	Username     string     `json:"username" db:"username"`
	PasswordHash string     `json:"-" db:"password_hash"`
	IsStaff      bool       `json:"is_staff" db:"is_staff"`
	IsSuperuser  bool       `json:"is_superuser" db:"is_superuser"`
	IsActive     bool       `json:"is_active" db:"is_active"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at" db:"updated_at"`
	LastLoginAt  *time.Time `json:"last_login_at" db:"last_login_at"`
}

// IsElevated reports whether the user bypasses ownership restrictions.
func (u *User) IsElevated() bool {
	return u.IsStaff || u.IsSuperuser
}

// Actor is the authenticated caller of an operation. It carries just enough
// identity to evaluate ownership and elevation checks.
type Actor struct {
	ID       uuid.UUID
	Username string
	Elevated bool
}

// SeesAll reports whether the actor's task listing is unfiltered by ownership.
func (a Actor) SeesAll() bool {
	return a.Elevated
}

// CanModify reports whether the actor may mutate or delete the task.
func (a Actor) CanModify(t *Task) bool {
	return a.Elevated || t.CreatorID == a.ID
}

// CanView reports whether the task is visible to the actor at all.
func (a Actor) CanView(t *Task) bool {
	return a.Elevated || t.CreatorID == a.ID
}

// Tag labels tasks. Names are unique across the collection. Deleting a tag
// simply drops its memberships, it is not a protected reference.
type Tag struct {
	ID          int64  `json:"id" db:"id"`
	Name        string `json:"name" db:"name"`
	Description string `json:"description" db:"description"`
}

// Category groups tasks. Names are unique, and a category cannot be deleted
// while any task references it.
type Category struct {
	ID   int64  `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
}

// Task is the central record of the system. The read representation nests the
// full tag and category objects; write payloads reference them by identifier.
type Task struct {
	ID          int64      `json:"id" db:"id"`
	Title       string     `json:"title" db:"title"`
	Description string     `json:"description" db:"description"`
	IsFinish    bool       `json:"is_finish" db:"is_finish"`
	Tags        []Tag      `json:"tags" db:"-"`
	Category    Category   `json:"category" db:"category"`
	CategoryID  int64      `json:"-" db:"category_id"`
	EndAt       *time.Time `json:"end_at" db:"end_at"`
	Attachment  *string    `json:"attachment" db:"attachment"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" db:"updated_at"`
	CreatorID   uuid.UUID  `json:"creator_id" db:"creator_id"`
}

// TagIDs returns the identifiers of the task's tags.
func (t *Task) TagIDs() []int64 {
	ids := make([]int64, 0, len(t.Tags))
	for _, tag := range t.Tags {
		ids = append(ids, tag.ID)
	}
	return ids
}

// ValidationError collects field-level validation failures. Each offending
// field maps to the list of reasons it was rejected.
type ValidationError map[string][]string

func (e ValidationError) Error() string {
	fields := make([]string, 0, len(e))
	for field := range e {
		fields = append(fields, field)
	}
	return fmt.Sprintf("validation failed: %s", strings.Join(fields, ", "))
}

// Add appends a reason to the field's violation list.
func (e ValidationError) Add(field, reason string) {
	e[field] = append(e[field], reason)
}

// ReferenceError reports that an identifier payload field named one or more
// related records that do not exist.
type ReferenceError struct {
	Field string
	IDs   []int64
}

func (e *ReferenceError) Error() string {
	return fmt.Sprintf("%s: related record does not exist: %v", e.Field, e.IDs)
}

// ConstraintError reports a uniqueness or protected-reference breach at the
// storage boundary.
type ConstraintError struct {
	Relation string
	Field    string
	Reason   string
}

func (e *ConstraintError) Error() string {
	return fmt.Sprintf("%s.%s: %s", e.Relation, e.Field, e.Reason)
}
