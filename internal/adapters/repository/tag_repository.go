package repository

import (
	"context"
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/gotodo/core/internal/domain/entities"
	"github.com/gotodo/core/internal/ports"
)

// taskCountSubquery counts referencing tasks per tag at query time. The count
// is always derived from the join table, never stored.
const taskCountSubquery = "(SELECT COUNT(*) FROM task_tags tt WHERE tt.tag_id = tags.id)"

var tagOrderColumns = map[string]string{
	"id":   "tags.id",
	"name": "tags.name",
}

// TagRepositoryImpl implements the TagRepository interface
type TagRepositoryImpl struct {
	db *sqlx.DB
}

// NewTagRepository creates a new tag repository
func NewTagRepository(db *sqlx.DB) ports.TagRepository {
	return &TagRepositoryImpl{db: db}
}

func (r *TagRepositoryImpl) Create(ctx context.Context, tag *entities.Tag) error {
	query := `
		INSERT INTO tags (name, description)
		VALUES ($1, $2)
		RETURNING id`

	err := r.db.QueryRowContext(ctx, query, tag.Name, tag.Description).Scan(&tag.ID)
	if err != nil {
		return fmt.Errorf("create tag: %w", translateError(err, "tag"))
	}

	return nil
}

func (r *TagRepositoryImpl) GetByID(ctx context.Context, id int64) (*entities.Tag, error) {
	query := `SELECT id, name, description FROM tags WHERE id = $1`

	var tag entities.Tag
	err := r.db.GetContext(ctx, &tag, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, entities.ErrTagNotFound
		}
		return nil, fmt.Errorf("get tag by id: %w", err)
	}

	return &tag, nil
}

func (r *TagRepositoryImpl) GetByIDs(ctx context.Context, ids []int64) ([]entities.Tag, error) {
	query := `SELECT id, name, description FROM tags WHERE id = ANY($1) ORDER BY id`

	var tags []entities.Tag
	err := r.db.SelectContext(ctx, &tags, query, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("get tags by ids: %w", err)
	}

	return tags, nil
}

func (r *TagRepositoryImpl) Update(ctx context.Context, tag *entities.Tag) error {
	query := `UPDATE tags SET name = $2, description = $3 WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, tag.ID, tag.Name, tag.Description)
	if err != nil {
		return fmt.Errorf("update tag: %w", translateError(err, "tag"))
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return entities.ErrTagNotFound
	}

	return nil
}

func (r *TagRepositoryImpl) Delete(ctx context.Context, id int64) error {
	// Memberships go with the tag, tags are not a protected reference.
	query := `DELETE FROM tags WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete tag: %w", translateError(err, "tag"))
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return entities.ErrTagNotFound
	}

	return nil
}

func (r *TagRepositoryImpl) List(ctx context.Context, filter ports.TagFilter) ([]*entities.Tag, int64, error) {
	conds := tagConds(filter)

	builder := psql.Select("tags.id", "tags.name", "tags.description").From("tags")
	for _, c := range conds {
		builder = builder.Where(c)
	}

	builder = builder.OrderBy(orderClause(filter.Ordering, tagOrderColumns, "tags.id"))
	builder = applyPaging(builder, filter.Limit, filter.Offset)

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build tag query: %w", err)
	}

	var tags []*entities.Tag
	if err := r.db.SelectContext(ctx, &tags, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list tags: %w", err)
	}

	countBuilder := psql.Select("COUNT(*)").From("tags")
	for _, c := range conds {
		countBuilder = countBuilder.Where(c)
	}

	countQuery, countArgs, err := countBuilder.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build tag count query: %w", err)
	}

	var total int64
	if err := r.db.GetContext(ctx, &total, countQuery, countArgs...); err != nil {
		return nil, 0, fmt.Errorf("count tags: %w", err)
	}

	return tags, total, nil
}

// tagConds translates the filter into WHERE conditions. has_task and
// task_count may legally combine; the conditions simply intersect.
func tagConds(filter ports.TagFilter) []sq.Sqlizer {
	conds := idRangeConds("tags.id", filter.ID)
	conds = append(conds, textMatchConds("tags.name", filter.Name)...)

	if filter.HasTask != nil {
		if *filter.HasTask {
			conds = append(conds, sq.Expr(taskCountSubquery+" > 0"))
		} else {
			conds = append(conds, sq.Expr(taskCountSubquery+" = 0"))
		}
	}

	if filter.TaskCount != nil {
		conds = append(conds, sq.Expr(taskCountSubquery+" = ?", *filter.TaskCount))
	}

	if filter.Search != nil {
		conds = append(conds, sq.ILike{"tags.name": likePattern(*filter.Search)})
	}

	return conds
}
