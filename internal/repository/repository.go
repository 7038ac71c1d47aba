package repository

import (
	"github.com/taskflow/taskflow-api/internal/models"
)

// TaskRepository defines the interface for task data access. Every method
// is scoped to the owning user; a task belonging to someone else behaves
// exactly like a missing task.
type TaskRepository interface {
	// Create inserts a new task for its UserID.
	Create(task *models.Task) error

	// FindByIDForUser finds a task by ID owned by the given user.
	FindByIDForUser(id, userID uint64) (*models.Task, error)

	// ListByUser retrieves all of a user's tasks, newest-created-first,
	// optionally filtered by status.
	ListByUser(userID uint64, status *models.TaskStatus) ([]models.Task, error)

	// Update saves a task; reports gorm.ErrRecordNotFound when the row
	// does not exist under the task's user.
	Update(task *models.Task) error

	// DeleteForUser hard deletes a task owned by the given user.
	DeleteForUser(id, userID uint64) error
}

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(user *models.User) error

	// FindByID finds a user by ID
	FindByID(id uint64) (*models.User, error)

	// FindByEmail finds a user by email
	FindByEmail(email string) (*models.User, error)

	// FindByUsername finds a user by username
	FindByUsername(username string) (*models.User, error)
}
