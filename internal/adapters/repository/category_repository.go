package repository

import (
	"context"
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"

	"github.com/gotodo/core/internal/domain/entities"
	"github.com/gotodo/core/internal/ports"
)

var categoryOrderColumns = map[string]string{
	"id":   "categories.id",
	"name": "categories.name",
}

// CategoryRepositoryImpl implements the CategoryRepository interface
type CategoryRepositoryImpl struct {
	db *sqlx.DB
}

// NewCategoryRepository creates a new category repository
func NewCategoryRepository(db *sqlx.DB) ports.CategoryRepository {
	return &CategoryRepositoryImpl{db: db}
}

func (r *CategoryRepositoryImpl) Create(ctx context.Context, category *entities.Category) error {
	query := `
		INSERT INTO categories (name)
		VALUES ($1)
		RETURNING id`

	err := r.db.QueryRowContext(ctx, query, category.Name).Scan(&category.ID)
	if err != nil {
		return fmt.Errorf("create category: %w", translateError(err, "category"))
	}

	return nil
}

func (r *CategoryRepositoryImpl) GetByID(ctx context.Context, id int64) (*entities.Category, error) {
	query := `SELECT id, name FROM categories WHERE id = $1`

	var category entities.Category
	err := r.db.GetContext(ctx, &category, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, entities.ErrCategoryNotFound
		}
		return nil, fmt.Errorf("get category by id: %w", err)
	}

	return &category, nil
}

func (r *CategoryRepositoryImpl) Update(ctx context.Context, category *entities.Category) error {
	query := `UPDATE categories SET name = $2 WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, category.ID, category.Name)
	if err != nil {
		return fmt.Errorf("update category: %w", translateError(err, "category"))
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return entities.ErrCategoryNotFound
	}

	return nil
}

func (r *CategoryRepositoryImpl) Delete(ctx context.Context, id int64) error {
	// The tasks FK is ON DELETE RESTRICT; a referenced category surfaces as a
	// ConstraintError instead of cascading.
	query := `DELETE FROM categories WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete category: %w", translateError(err, "category"))
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return entities.ErrCategoryNotFound
	}

	return nil
}

func (r *CategoryRepositoryImpl) List(ctx context.Context, filter ports.CategoryFilter) ([]*entities.Category, int64, error) {
	conds := categoryConds(filter)

	builder := psql.Select("categories.id", "categories.name").From("categories")
	for _, c := range conds {
		builder = builder.Where(c)
	}

	builder = builder.OrderBy(orderClause(filter.Ordering, categoryOrderColumns, "categories.id"))
	builder = applyPaging(builder, filter.Limit, filter.Offset)

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build category query: %w", err)
	}

	var categories []*entities.Category
	if err := r.db.SelectContext(ctx, &categories, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list categories: %w", err)
	}

	countBuilder := psql.Select("COUNT(*)").From("categories")
	for _, c := range conds {
		countBuilder = countBuilder.Where(c)
	}

	countQuery, countArgs, err := countBuilder.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build category count query: %w", err)
	}

	var total int64
	if err := r.db.GetContext(ctx, &total, countQuery, countArgs...); err != nil {
		return nil, 0, fmt.Errorf("count categories: %w", err)
	}

	return categories, total, nil
}

func categoryConds(filter ports.CategoryFilter) []sq.Sqlizer {
	conds := idRangeConds("categories.id", filter.ID)
	conds = append(conds, textMatchConds("categories.name", filter.Name)...)

	if filter.Search != nil {
		conds = append(conds, sq.ILike{"categories.name": likePattern(*filter.Search)})
	}

	return conds
}
