package repository

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taskflow/taskflow-api/internal/models"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupRepoTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Task{}))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	return db
}

func newTask(userID uint64, title string, created time.Time) *models.Task {
	return &models.Task{
		UserID:     userID,
		Title:      title,
		EffortDays: 1,
		DueDate:    time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC),
		Status:     models.TaskStatusPending,
		CreatedAt:  created,
	}
}

func TestTaskRepository_ListByUser_ScopedAndOrdered(t *testing.T) {
	db := setupRepoTestDB(t)
	repo := NewTaskRepository(db)

	base := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, repo.Create(newTask(1, "first", base)))
	require.NoError(t, repo.Create(newTask(1, "second", base.Add(time.Hour))))
	require.NoError(t, repo.Create(newTask(2, "other user", base.Add(2*time.Hour))))

	tasks, err := repo.ListByUser(1, nil)
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.Equal(t, "second", tasks[0].Title)
	assert.Equal(t, "first", tasks[1].Title)
}

func TestTaskRepository_ListByUser_StatusFilter(t *testing.T) {
	db := setupRepoTestDB(t)
	repo := NewTaskRepository(db)

	base := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	done := newTask(1, "done", base)
	done.Status = models.TaskStatusCompleted
	require.NoError(t, repo.Create(done))
	require.NoError(t, repo.Create(newTask(1, "open", base.Add(time.Minute))))

	status := models.TaskStatusCompleted
	tasks, err := repo.ListByUser(1, &status)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "done", tasks[0].Title)
}

func TestTaskRepository_FindByIDForUser_OwnershipMismatch(t *testing.T) {
	db := setupRepoTestDB(t)
	repo := NewTaskRepository(db)

	task := newTask(1, "mine", time.Now())
	require.NoError(t, repo.Create(task))

	found, err := repo.FindByIDForUser(task.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, "mine", found.Title)

	_, err = repo.FindByIDForUser(task.ID, 2)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestTaskRepository_DeleteForUser(t *testing.T) {
	db := setupRepoTestDB(t)
	repo := NewTaskRepository(db)

	task := newTask(1, "mine", time.Now())
	require.NoError(t, repo.Create(task))

	// Wrong user reads as not-found and leaves the row alone.
	err := repo.DeleteForUser(task.ID, 2)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	_, err = repo.FindByIDForUser(task.ID, 1)
	require.NoError(t, err)

	require.NoError(t, repo.DeleteForUser(task.ID, 1))
	_, err = repo.FindByIDForUser(task.ID, 1)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	// Deleting again is not-found, not an error.
	err = repo.DeleteForUser(task.ID, 1)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestTaskRepository_Update_OwnershipMismatch(t *testing.T) {
	db := setupRepoTestDB(t)
	repo := NewTaskRepository(db)

	task := newTask(1, "mine", time.Now())
	require.NoError(t, repo.Create(task))

	stolen := *task
	stolen.UserID = 2
	stolen.Title = "hijacked"
	err := repo.Update(&stolen)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	found, err := repo.FindByIDForUser(task.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, "mine", found.Title)
}

// SQL-level checks against a mocked connection: deletes are parameterized
// and always carry the user_id predicate.
func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	db, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{})
	require.NoError(t, err)

	t.Cleanup(func() {
		sqlDB.Close()
	})

	return db, mock
}

func TestTaskRepository_DeleteSQLIsUserScoped(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewTaskRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM `tasks` WHERE id = \\? AND user_id = \\?").
		WithArgs(42, 7).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.DeleteForUser(42, 7))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTaskRepository_UpdateSQLIsUserScoped(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewTaskRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `tasks` SET .+ WHERE id = \\? AND user_id = \\?").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	task := newTask(7, "ghost", time.Now())
	task.ID = 42
	err := repo.Update(task)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}
