package repository

import (
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gotodo/core/internal/domain/entities"
	"github.com/gotodo/core/internal/ports"
)

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return sqlx.NewDb(db, "sqlmock"), mock
}

func TestTranslateErrorUniqueViolation(t *testing.T) {
	err := translateError(&pq.Error{Code: "23505", Column: "name"}, "tag")

	var constraintErr *entities.ConstraintError
	require.ErrorAs(t, err, &constraintErr)
	assert.Equal(t, "tag", constraintErr.Relation)
	assert.Equal(t, "name", constraintErr.Field)
	assert.Equal(t, "already exists", constraintErr.Reason)
}

func TestTranslateErrorForeignKeyViolation(t *testing.T) {
	err := translateError(&pq.Error{Code: "23503", Constraint: "tasks_category_id_fkey"}, "category")

	var constraintErr *entities.ConstraintError
	require.ErrorAs(t, err, &constraintErr)
	assert.Equal(t, "category", constraintErr.Relation)
	assert.Equal(t, "tasks_category_id_fkey", constraintErr.Field)
	assert.Equal(t, "protected reference has dependents", constraintErr.Reason)
}

func TestTranslateErrorPassesThroughUnknown(t *testing.T) {
	sentinel := errors.New("connection reset")
	assert.Equal(t, sentinel, translateError(sentinel, "task"))
}

func TestOrderClause(t *testing.T) {
	allowed := map[string]string{"id": "tasks.id", "created_at": "tasks.created_at"}

	assert.Equal(t, "tasks.created_at ASC", orderClause("created_at", allowed, "tasks.id"))
	assert.Equal(t, "tasks.created_at DESC", orderClause("-created_at", allowed, "tasks.id"))
	assert.Equal(t, "tasks.id ASC", orderClause("", allowed, "tasks.id"))
	assert.Equal(t, "tasks.id ASC", orderClause("password", allowed, "tasks.id"))
}

func TestIDRangeConds(t *testing.T) {
	gt := int64(3)
	lte := int64(9)

	conds := idRangeConds("tasks.id", ports.IDRange{GT: &gt, LTE: &lte})
	require.Len(t, conds, 2)

	sql, args, err := conds[0].ToSql()
	require.NoError(t, err)
	assert.Equal(t, "tasks.id > ?", sql)
	assert.Equal(t, []interface{}{int64(3)}, args)

	sql, args, err = conds[1].ToSql()
	require.NoError(t, err)
	assert.Equal(t, "tasks.id <= ?", sql)
	assert.Equal(t, []interface{}{int64(9)}, args)
}

func TestTextMatchConds(t *testing.T) {
	needle := "ship"

	conds := textMatchConds("tasks.title", ports.TextMatch{IContains: &needle})
	require.Len(t, conds, 1)

	sql, args, err := conds[0].ToSql()
	require.NoError(t, err)
	assert.Equal(t, "tasks.title ILIKE ?", sql)
	assert.Equal(t, []interface{}{"%ship%"}, args)
}

func TestLikePatternEscapesMetacharacters(t *testing.T) {
	assert.Equal(t, `%100\%%`, likePattern("100%"))
	assert.Equal(t, `%a\_b%`, likePattern("a_b"))
	assert.Equal(t, `%c:\\temp%`, likePattern(`c:\temp`))
	assert.Equal(t, "%plain%", likePattern("plain"))
}

func TestTextMatchCondsEscapePatternTerms(t *testing.T) {
	needle := "100%"

	conds := textMatchConds("tasks.title", ports.TextMatch{Contains: &needle})
	require.Len(t, conds, 1)

	_, args, err := conds[0].ToSql()
	require.NoError(t, err)
	assert.Equal(t, []interface{}{`%100\%%`}, args)
}
