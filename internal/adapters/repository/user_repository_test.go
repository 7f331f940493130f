package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gotodo/core/internal/domain/entities"
)

func TestUserGetByEmail(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)

	id := uuid.New()
	now := time.Now().UTC()
	columns := []string{
		"id", "email", "username", "password_hash", "is_staff", "is_superuser",
		"is_active", "created_at", "updated_at", "last_login_at",
	}

	mock.ExpectQuery("SELECT .+ FROM users").
		WithArgs("alice@example.com").
		WillReturnRows(sqlmock.NewRows(columns).
			AddRow(id.String(), "alice@example.com", "alice", "hash", false, false, true, now, now, nil))

	user, err := repo.GetByEmail(context.Background(), "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, id, user.ID)
	assert.Equal(t, "alice", user.Username)
}

func TestUserGetByEmailNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)

	mock.ExpectQuery("SELECT .+ FROM users").
		WithArgs("nobody@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.GetByEmail(context.Background(), "nobody@example.com")
	assert.ErrorIs(t, err, entities.ErrUserNotFound)
}

func TestUserDeleteProtectedByOwnedTasks(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)

	id := uuid.New()
	mock.ExpectExec("DELETE FROM users").
		WithArgs(id).
		WillReturnError(&pq.Error{Code: "23503", Constraint: "tasks_creator_id_fkey"})

	err := repo.Delete(context.Background(), id)

	var constraintErr *entities.ConstraintError
	require.ErrorAs(t, err, &constraintErr)
	assert.Equal(t, "user", constraintErr.Relation)
	assert.Equal(t, "protected reference has dependents", constraintErr.Reason)
}

func TestUserDeleteNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)

	id := uuid.New()
	mock.ExpectExec("DELETE FROM users").
		WithArgs(id).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Delete(context.Background(), id)
	assert.ErrorIs(t, err, entities.ErrUserNotFound)
}
