package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gotodo/core/internal/domain/entities"
	"github.com/gotodo/core/internal/ports"
)

func TestTaskCreateStampsEqualTimestamps(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTaskRepository(db)

	creatorID := uuid.New()
	task := &entities.Task{
		Title:      "Ship release",
		CategoryID: 3,
		CreatorID:  creatorID,
	}

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO tasks").
		WithArgs("Ship release", "", false, int64(3), nil, nil, creatorID, sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(7)))
	mock.ExpectExec("INSERT INTO task_tags").
		WithArgs(int64(7), int64(1), int64(7), int64(2)).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	err := repo.Create(context.Background(), task, []int64{1, 2})
	require.NoError(t, err)

	assert.Equal(t, int64(7), task.ID)
	assert.False(t, task.CreatedAt.IsZero())
	assert.True(t, task.CreatedAt.Equal(task.UpdatedAt))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTaskToggleStatusFlipsAtomically(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTaskRepository(db)

	mock.ExpectQuery(`UPDATE tasks\s+SET is_finish = NOT is_finish`).
		WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"is_finish"}).AddRow(true))

	isFinish, err := repo.ToggleStatus(context.Background(), 5)
	require.NoError(t, err)
	assert.True(t, isFinish)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTaskToggleStatusNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTaskRepository(db)

	mock.ExpectQuery("UPDATE tasks").
		WithArgs(int64(42)).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.ToggleStatus(context.Background(), 42)
	assert.ErrorIs(t, err, entities.ErrTaskNotFound)
}

func TestTaskDeleteNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTaskRepository(db)

	mock.ExpectExec("DELETE FROM tasks").
		WithArgs(int64(42)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Delete(context.Background(), 42)
	assert.ErrorIs(t, err, entities.ErrTaskNotFound)
}

func TestTaskListAppliesFiltersAndLoadsTags(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTaskRepository(db)

	creatorID := uuid.New()
	now := time.Now().UTC()
	columns := []string{
		"id", "title", "description", "is_finish", "category_id",
		"end_at", "attachment", "created_at", "updated_at", "creator_id",
		"category.id", "category.name",
	}

	mock.ExpectQuery(`SELECT .+ FROM tasks JOIN categories ON categories\.id = tasks\.category_id WHERE tasks\.is_finish = \$1 AND tasks\.creator_id = \$2 ORDER BY tasks\.id ASC LIMIT 20`).
		WithArgs(false, creatorID).
		WillReturnRows(sqlmock.NewRows(columns).
			AddRow(int64(1), "Ship release", "", false, int64(3), nil, nil, now, now, creatorID.String(), int64(3), "work"))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM tasks`).
		WithArgs(false, creatorID).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int64(1)))
	mock.ExpectQuery(`SELECT tt\.task_id, tags\.id, tags\.name, tags\.description`).
		WithArgs(sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"task_id", "id", "name", "description"}).
			AddRow(int64(1), int64(9), "urgent", ""))

	isFinish := false
	tasks, total, err := repo.List(context.Background(), ports.TaskFilter{
		IsFinish:  &isFinish,
		CreatorID: &creatorID,
		Limit:     20,
	})
	require.NoError(t, err)

	assert.Equal(t, int64(1), total)
	require.Len(t, tasks, 1)
	assert.Equal(t, "work", tasks[0].Category.Name)
	require.Len(t, tasks[0].Tags, 1)
	assert.Equal(t, "urgent", tasks[0].Tags[0].Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTaskListEmptyResultSkipsTagQuery(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTaskRepository(db)

	mock.ExpectQuery("SELECT .+ FROM tasks").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM tasks`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int64(0)))

	tasks, total, err := repo.List(context.Background(), ports.TaskFilter{Limit: 20})
	require.NoError(t, err)
	assert.Empty(t, tasks)
	assert.Equal(t, int64(0), total)
	assert.NoError(t, mock.ExpectationsWereMet())
}
