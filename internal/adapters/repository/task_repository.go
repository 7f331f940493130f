package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/gotodo/core/internal/domain/entities"
	"github.com/gotodo/core/internal/ports"
)

var taskOrderColumns = map[string]string{
	"id":         "tasks.id",
	"title":      "tasks.title",
	"is_finish":  "tasks.is_finish",
	"end_at":     "tasks.end_at",
	"created_at": "tasks.created_at",
	"updated_at": "tasks.updated_at",
}

// taskColumns selects the task row together with its category, aliased so
// sqlx scans the category into the nested struct.
var taskColumns = []string{
	"tasks.id",
	"tasks.title",
	"tasks.description",
	"tasks.is_finish",
	"tasks.category_id",
	"tasks.end_at",
	"tasks.attachment",
	"tasks.created_at",
	"tasks.updated_at",
	"tasks.creator_id",
	`categories.id AS "category.id"`,
	`categories.name AS "category.name"`,
}

// TaskRepositoryImpl implements the TaskRepository interface
type TaskRepositoryImpl struct {
	db *sqlx.DB
}

// NewTaskRepository creates a new task repository
func NewTaskRepository(db *sqlx.DB) ports.TaskRepository {
	return &TaskRepositoryImpl{db: db}
}

func (r *TaskRepositoryImpl) Create(ctx context.Context, task *entities.Task, tagIDs []int64) error {
	// A single clock read stamps both timestamps so that created_at and
	// updated_at are exactly equal on insert.
	now := time.Now().UTC()

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin create task: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO tasks (title, description, is_finish, category_id, end_at, attachment, creator_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $8)
		RETURNING id`

	err = tx.QueryRowContext(ctx, query,
		task.Title, task.Description, task.IsFinish, task.CategoryID,
		task.EndAt, task.Attachment, task.CreatorID, now,
	).Scan(&task.ID)
	if err != nil {
		return fmt.Errorf("create task: %w", translateError(err, "task"))
	}

	task.CreatedAt = now
	task.UpdatedAt = now

	if err := insertTaskTags(ctx, tx, task.ID, tagIDs); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit create task: %w", err)
	}

	return nil
}

func (r *TaskRepositoryImpl) GetByID(ctx context.Context, id int64) (*entities.Task, error) {
	builder := psql.Select(taskColumns...).
		From("tasks").
		Join("categories ON categories.id = tasks.category_id").
		Where(sq.Eq{"tasks.id": id})

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build task query: %w", err)
	}

	var task entities.Task
	if err := r.db.GetContext(ctx, &task, query, args...); err != nil {
		if err == sql.ErrNoRows {
			return nil, entities.ErrTaskNotFound
		}
		return nil, fmt.Errorf("get task by id: %w", err)
	}

	if err := r.loadTags(ctx, []*entities.Task{&task}); err != nil {
		return nil, err
	}

	return &task, nil
}

func (r *TaskRepositoryImpl) Update(ctx context.Context, task *entities.Task, tagIDs []int64) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin update task: %w", err)
	}
	defer tx.Rollback()

	query := `
		UPDATE tasks
		SET title = $2, description = $3, is_finish = $4, category_id = $5,
			end_at = $6, attachment = $7, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`

	err = tx.QueryRowContext(ctx, query,
		task.ID, task.Title, task.Description, task.IsFinish,
		task.CategoryID, task.EndAt, task.Attachment,
	).Scan(&task.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return entities.ErrTaskNotFound
		}
		return fmt.Errorf("update task: %w", translateError(err, "task"))
	}

	if tagIDs != nil {
		if _, err := tx.ExecContext(ctx, `DELETE FROM task_tags WHERE task_id = $1`, task.ID); err != nil {
			return fmt.Errorf("clear task tags: %w", err)
		}

		if err := insertTaskTags(ctx, tx, task.ID, tagIDs); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit update task: %w", err)
	}

	return nil
}

func (r *TaskRepositoryImpl) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete task: %w", translateError(err, "task"))
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return entities.ErrTaskNotFound
	}

	return nil
}

// ToggleStatus flips is_finish in one atomic statement. Concurrent toggles
// serialize on the row lock; there is no read-then-write window.
func (r *TaskRepositoryImpl) ToggleStatus(ctx context.Context, id int64) (bool, error) {
	query := `
		UPDATE tasks
		SET is_finish = NOT is_finish, updated_at = NOW()
		WHERE id = $1
		RETURNING is_finish`

	var isFinish bool
	err := r.db.QueryRowContext(ctx, query, id).Scan(&isFinish)
	if err != nil {
		if err == sql.ErrNoRows {
			return false, entities.ErrTaskNotFound
		}
		return false, fmt.Errorf("toggle task status: %w", err)
	}

	return isFinish, nil
}

func (r *TaskRepositoryImpl) List(ctx context.Context, filter ports.TaskFilter) ([]*entities.Task, int64, error) {
	conds := taskConds(filter)

	builder := psql.Select(taskColumns...).
		From("tasks").
		Join("categories ON categories.id = tasks.category_id")
	for _, c := range conds {
		builder = builder.Where(c)
	}

	builder = builder.OrderBy(orderClause(filter.Ordering, taskOrderColumns, "tasks.id"))
	builder = applyPaging(builder, filter.Limit, filter.Offset)

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build task query: %w", err)
	}

	var tasks []*entities.Task
	if err := r.db.SelectContext(ctx, &tasks, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list tasks: %w", err)
	}

	countBuilder := psql.Select("COUNT(*)").From("tasks")
	for _, c := range conds {
		countBuilder = countBuilder.Where(c)
	}

	countQuery, countArgs, err := countBuilder.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build task count query: %w", err)
	}

	var total int64
	if err := r.db.GetContext(ctx, &total, countQuery, countArgs...); err != nil {
		return nil, 0, fmt.Errorf("count tasks: %w", err)
	}

	if err := r.loadTags(ctx, tasks); err != nil {
		return nil, 0, err
	}

	return tasks, total, nil
}

func taskConds(filter ports.TaskFilter) []sq.Sqlizer {
	conds := idRangeConds("tasks.id", filter.ID)
	conds = append(conds, textMatchConds("tasks.title", filter.Title)...)

	if filter.IsFinish != nil {
		conds = append(conds, sq.Eq{"tasks.is_finish": *filter.IsFinish})
	}

	if filter.CategoryID != nil {
		conds = append(conds, sq.Eq{"tasks.category_id": *filter.CategoryID})
	}

	if filter.CreatorID != nil {
		conds = append(conds, sq.Eq{"tasks.creator_id": *filter.CreatorID})
	}

	if filter.TagName != nil {
		conds = append(conds, sq.Expr(
			`EXISTS (SELECT 1 FROM task_tags tt JOIN tags ON tags.id = tt.tag_id
				WHERE tt.task_id = tasks.id AND tags.name = ?)`,
			*filter.TagName,
		))
	}

	if filter.Search != nil {
		pattern := likePattern(*filter.Search)
		conds = append(conds, sq.Or{
			sq.ILike{"tasks.title": pattern},
			sq.ILike{"tasks.description": pattern},
		})
	}

	return conds
}

// loadTags resolves the tags of each task with one query over the join table.
func (r *TaskRepositoryImpl) loadTags(ctx context.Context, tasks []*entities.Task) error {
	byID := make(map[int64]*entities.Task, len(tasks))
	ids := make([]int64, 0, len(tasks))
	for _, task := range tasks {
		task.Tags = []entities.Tag{}
		byID[task.ID] = task
		ids = append(ids, task.ID)
	}

	if len(ids) == 0 {
		return nil
	}

	query := `
		SELECT tt.task_id, tags.id, tags.name, tags.description
		FROM task_tags tt
		JOIN tags ON tags.id = tt.tag_id
		WHERE tt.task_id = ANY($1)
		ORDER BY tags.id`

	rows, err := r.db.QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		return fmt.Errorf("load task tags: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var taskID int64
		var tag entities.Tag
		if err := rows.Scan(&taskID, &tag.ID, &tag.Name, &tag.Description); err != nil {
			return fmt.Errorf("scan task tag: %w", err)
		}

		if task, ok := byID[taskID]; ok {
			task.Tags = append(task.Tags, tag)
		}
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate task tags: %w", err)
	}

	return nil
}

func insertTaskTags(ctx context.Context, tx *sqlx.Tx, taskID int64, tagIDs []int64) error {
	if len(tagIDs) == 0 {
		return nil
	}

	builder := psql.Insert("task_tags").Columns("task_id", "tag_id")
	for _, tagID := range tagIDs {
		builder = builder.Values(taskID, tagID)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return fmt.Errorf("build task tags insert: %w", err)
	}

	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert task tags: %w", translateError(err, "task"))
	}

	return nil
}
