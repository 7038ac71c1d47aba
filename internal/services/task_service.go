package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/taskflow/taskflow-api/internal/models"
	"github.com/taskflow/taskflow-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrTaskNotFound  = errors.New("task not found")
	ErrTitleRequired = errors.New("title is required")
	ErrInvalidEffort = errors.New("effort_days must be a positive integer")
	ErrInvalidStatus = errors.New("invalid task status")
)

// TaskService handles task business logic
type TaskService struct {
	taskRepo repository.TaskRepository
}

// NewTaskService creates a new TaskService
func NewTaskService(taskRepo repository.TaskRepository) *TaskService {
	return &TaskService{
		taskRepo: taskRepo,
	}
}

// CreateTaskInput represents input for creating a task. A nil EffortDays
// defaults to 1; an explicit non-positive value is rejected.
type CreateTaskInput struct {
	UserID      uint64
	Title       string
	Description string
	EffortDays  *int
	DueDate     time.Time
}

// UpdateTaskInput represents input for replacing a task. A nil Status keeps
// the current value.
type UpdateTaskInput struct {
	UserID      uint64
	Title       string
	Description string
	EffortDays  *int
	DueDate     time.Time
	Status      *models.TaskStatus
}

// ListTasks returns all of a user's tasks, newest-created-first.
func (s *TaskService) ListTasks(userID uint64, status *models.TaskStatus) ([]models.Task, error) {
	if status != nil && !status.IsValid() {
		return nil, ErrInvalidStatus
	}

	tasks, err := s.taskRepo.ListByUser(userID, status)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, nil
}

// GetTask returns a task owned by the user.
func (s *TaskService) GetTask(taskID, userID uint64) (*models.Task, error) {
	task, err := s.taskRepo.FindByIDForUser(taskID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	return task, nil
}

// CreateTask validates input and creates a new pending task.
func (s *TaskService) CreateTask(input CreateTaskInput) (*models.Task, error) {
	effort, err := resolveEffort(input.EffortDays)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(input.Title) == "" {
		return nil, ErrTitleRequired
	}

	task := &models.Task{
		UserID:      input.UserID,
		Title:       strings.TrimSpace(input.Title),
		Description: input.Description,
		EffortDays:  effort,
		DueDate:     input.DueDate,
		Status:      models.TaskStatusPending,
	}

	if err := s.taskRepo.Create(task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	return task, nil
}

// UpdateTask replaces a task's fields. Ownership mismatch reads as
// not-found so task existence is never leaked across users.
func (s *TaskService) UpdateTask(taskID uint64, input UpdateTaskInput) (*models.Task, error) {
	effort, err := resolveEffort(input.EffortDays)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(input.Title) == "" {
		return nil, ErrTitleRequired
	}
	if input.Status != nil && !input.Status.IsValid() {
		return nil, ErrInvalidStatus
	}

	task, err := s.taskRepo.FindByIDForUser(taskID, input.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	task.Title = strings.TrimSpace(input.Title)
	task.Description = input.Description
	task.EffortDays = effort
	task.DueDate = input.DueDate
	if input.Status != nil {
		task.Status = *input.Status
	}

	if err := s.taskRepo.Update(task); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	return s.taskRepo.FindByIDForUser(task.ID, input.UserID)
}

// DeleteTask hard deletes a task owned by the user.
func (s *TaskService) DeleteTask(taskID, userID uint64) error {
	if err := s.taskRepo.DeleteForUser(taskID, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTaskNotFound
		}
		return fmt.Errorf("failed to delete task: %w", err)
	}
	return nil
}

func resolveEffort(effort *int) (int, error) {
	if effort == nil {
		return 1, nil
	}
	if *effort < 1 {
		return 0, ErrInvalidEffort
	}
	return *effort, nil
}
