package ports

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/gotodo/core/internal/domain/entities"
)

// TagRepository defines the interface for tag data operations
type TagRepository interface {
	Create(ctx context.Context, tag *entities.Tag) error
	GetByID(ctx context.Context, id int64) (*entities.Tag, error)
	GetByIDs(ctx context.Context, ids []int64) ([]entities.Tag, error)
	Update(ctx context.Context, tag *entities.Tag) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, filter TagFilter) ([]*entities.Tag, int64, error)
}

// CategoryRepository defines the interface for category data operations
type CategoryRepository interface {
	Create(ctx context.Context, category *entities.Category) error
	GetByID(ctx context.Context, id int64) (*entities.Category, error)
	Update(ctx context.Context, category *entities.Category) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, filter CategoryFilter) ([]*entities.Category, int64, error)
}

// TaskRepository defines the interface for task data operations. Tasks are
// always loaded with their category and tags resolved.
type TaskRepository interface {
	Create(ctx context.Context, task *entities.Task, tagIDs []int64) error
	GetByID(ctx context.Context, id int64) (*entities.Task, error)
	Update(ctx context.Context, task *entities.Task, tagIDs []int64) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, filter TaskFilter) ([]*entities.Task, int64, error)
	// ToggleStatus flips is_finish in a single atomic update and returns the
	// resulting value.
	ToggleStatus(ctx context.Context, id int64) (bool, error)
}

// UserRepository defines the interface for user data operations
type UserRepository interface {
	Create(ctx context.Context, user *entities.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.User, error)
	GetByUsername(ctx context.Context, username string) (*entities.User, error)
	GetByEmail(ctx context.Context, email string) (*entities.User, error)
	Delete(ctx context.Context, id uuid.UUID) error
	UpdateLastLogin(ctx context.Context, id uuid.UUID, t time.Time) error
}

// IDRange holds comparison predicates over an identifier column.
type IDRange struct {
	GT  *int64
	GTE *int64
	LT  *int64
	LTE *int64
}

// IsZero reports whether no comparison was requested.
func (r IDRange) IsZero() bool {
	return r.GT == nil && r.GTE == nil && r.LT == nil && r.LTE == nil
}

// TextMatch holds exact and substring predicates over a text column.
type TextMatch struct {
	Exact     *string
	Contains  *string
	IContains *string
}

// TagFilter narrows tag listings. HasTask and TaskCount are derived
// predicates computed from a grouped count over the task relation.
type TagFilter struct {
	ID        IDRange
	Name      TextMatch
	HasTask   *bool
	TaskCount *int64
	Search    *string
	Ordering  string
	Limit     int
	Offset    int
}

// CategoryFilter narrows category listings.
type CategoryFilter struct {
	ID       IDRange
	Name     TextMatch
	Search   *string
	Ordering string
	Limit    int
	Offset   int
}

// TaskFilter narrows task listings. CreatorID is set by the service layer for
// non-elevated callers before any other predicate applies.
type TaskFilter struct {
	ID         IDRange
	Title      TextMatch
	IsFinish   *bool
	TagName    *string
	CategoryID *int64
	CreatorID  *uuid.UUID
	Search     *string
	Ordering   string
	Limit      int
	Offset     int
}
