package repository

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gotodo/core/internal/domain/entities"
	"github.com/gotodo/core/internal/ports"
)

func TestTagCreateDuplicateName(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTagRepository(db)

	mock.ExpectQuery("INSERT INTO tags").
		WithArgs("urgent", "").
		WillReturnError(&pq.Error{Code: "23505", Column: "name"})

	err := repo.Create(context.Background(), &entities.Tag{Name: "urgent"})

	var constraintErr *entities.ConstraintError
	require.ErrorAs(t, err, &constraintErr)
	assert.Equal(t, "tag", constraintErr.Relation)
	assert.Equal(t, "already exists", constraintErr.Reason)
}

func TestTagListHasTaskDerivedFilter(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTagRepository(db)

	// The membership count is always computed from the join table.
	subquery := regexp.QuoteMeta(taskCountSubquery)

	mock.ExpectQuery(`SELECT tags\.id, tags\.name, tags\.description FROM tags WHERE ` + subquery + ` > 0`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "description"}).
			AddRow(int64(1), "urgent", ""))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM tags WHERE ` + subquery + ` > 0`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int64(1)))

	hasTask := true
	tags, total, err := repo.List(context.Background(), ports.TagFilter{HasTask: &hasTask, Limit: 20})
	require.NoError(t, err)

	assert.Equal(t, int64(1), total)
	require.Len(t, tags, 1)
	assert.Equal(t, "urgent", tags[0].Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTagListTaskCountFilter(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTagRepository(db)

	subquery := regexp.QuoteMeta(taskCountSubquery)

	mock.ExpectQuery(subquery + ` = \$1`).
		WithArgs(int64(2)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "description"}))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM tags`).
		WithArgs(int64(2)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int64(0)))

	count := int64(2)
	tags, total, err := repo.List(context.Background(), ports.TagFilter{TaskCount: &count, Limit: 20})
	require.NoError(t, err)

	assert.Empty(t, tags)
	assert.Equal(t, int64(0), total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTagListHasTaskAndTaskCountIntersect(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTagRepository(db)

	subquery := regexp.QuoteMeta(taskCountSubquery)

	// Both derived predicates land in one WHERE; a tag must satisfy both.
	mock.ExpectQuery(`SELECT tags\.id, tags\.name, tags\.description FROM tags WHERE ` + subquery + ` = 0 AND ` + subquery + ` = \$1`).
		WithArgs(int64(0)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "description"}).
			AddRow(int64(4), "idle", ""))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM tags WHERE ` + subquery + ` = 0 AND ` + subquery + ` = \$1`).
		WithArgs(int64(0)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int64(1)))

	hasTask := false
	count := int64(0)
	tags, total, err := repo.List(context.Background(), ports.TagFilter{
		HasTask:   &hasTask,
		TaskCount: &count,
		Limit:     20,
	})
	require.NoError(t, err)

	assert.Equal(t, int64(1), total)
	require.Len(t, tags, 1)
	assert.Equal(t, "idle", tags[0].Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTagGetByIDNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTagRepository(db)

	mock.ExpectQuery("SELECT id, name, description FROM tags").
		WithArgs(int64(42)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "description"}))

	_, err := repo.GetByID(context.Background(), 42)
	assert.ErrorIs(t, err, entities.ErrTagNotFound)
}
