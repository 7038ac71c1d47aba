package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/taskflow/taskflow-api/internal/constants"
	"github.com/taskflow/taskflow-api/internal/dto"
	apierrors "github.com/taskflow/taskflow-api/internal/errors"
	"github.com/taskflow/taskflow-api/internal/middleware"
	"github.com/taskflow/taskflow-api/internal/models"
	"github.com/taskflow/taskflow-api/internal/services"
)

const excelContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// TaskHandler coordinates task-related HTTP handlers.
type TaskHandler struct {
	taskService   *services.TaskService
	importService *services.ImportService
	exportService *services.ExportService
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(taskService *services.TaskService, importService *services.ImportService, exportService *services.ExportService) *TaskHandler {
	return &TaskHandler{
		taskService:   taskService,
		importService: importService,
		exportService: exportService,
	}
}

// taskRequest is the shared body shape for create and update.
type taskRequest struct {
	Title       string  `json:"title" binding:"required"`
	Description string  `json:"description"`
	EffortDays  *int    `json:"effort_days" binding:"omitempty,min=1"`
	DueDate     string  `json:"due_date" binding:"required"`
	Status      *string `json:"status" binding:"omitempty,oneof=pending in_progress completed"`
}

// ListTasks returns all of the caller's tasks, newest-created-first.
// An optional status query parameter narrows the result.
func (h *TaskHandler) ListTasks(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	var status *models.TaskStatus
	if raw := c.Query("status"); raw != "" {
		s := models.TaskStatus(raw)
		if !s.IsValid() {
			apierrors.BadRequest(c, "Invalid status filter")
			return
		}
		status = &s
	}

	tasks, err := h.taskService.ListTasks(userID, status)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskListResponse(tasks))
}

// GetTask returns a single task owned by the caller.
func (h *TaskHandler) GetTask(c *gin.Context) {
	userID, taskID, ok := taskRequestIDs(c)
	if !ok {
		return
	}

	task, err := h.taskService.GetTask(taskID, userID)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// CreateTask creates a new task for the caller.
func (h *TaskHandler) CreateTask(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	var req taskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequestWithDetails(c, "Validation failed", apierrors.ValidationDetails(err))
		return
	}

	dueDate, ok := parseDueDate(c, req.DueDate)
	if !ok {
		return
	}

	task, err := h.taskService.CreateTask(services.CreateTaskInput{
		UserID:      userID,
		Title:       req.Title,
		Description: req.Description,
		EffortDays:  req.EffortDays,
		DueDate:     dueDate,
	})
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToTaskDTO(*task))
}

// UpdateTask replaces the fields of a task owned by the caller.
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	userID, taskID, ok := taskRequestIDs(c)
	if !ok {
		return
	}

	var req taskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequestWithDetails(c, "Validation failed", apierrors.ValidationDetails(err))
		return
	}

	dueDate, ok := parseDueDate(c, req.DueDate)
	if !ok {
		return
	}

	var status *models.TaskStatus
	if req.Status != nil {
		s := models.TaskStatus(*req.Status)
		status = &s
	}

	task, err := h.taskService.UpdateTask(taskID, services.UpdateTaskInput{
		UserID:      userID,
		Title:       req.Title,
		Description: req.Description,
		EffortDays:  req.EffortDays,
		DueDate:     dueDate,
		Status:      status,
	})
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// DeleteTask hard deletes a task owned by the caller.
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	userID, taskID, ok := taskRequestIDs(c)
	if !ok {
		return
	}

	if err := h.taskService.DeleteTask(taskID, userID); err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Task deleted successfully",
	})
}

// ExportExcel streams the caller's tasks as an xlsx attachment. The
// workbook is built in memory and written straight to the response.
func (h *TaskHandler) ExportExcel(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	f, err := h.exportService.ExcelForUser(userID)
	if err != nil {
		apierrors.InternalError(c, "Failed to generate export")
		return
	}
	defer f.Close()

	filename := services.ExportFileName(time.Now())
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Header("Content-Type", excelContentType)
	c.Status(http.StatusOK)

	if err := f.Write(c.Writer); err != nil {
		// Headers are already out; nothing useful left to send.
		_ = c.Error(err)
	}
}

// BulkUpload imports tasks from an uploaded CSV or xlsx file. The upload
// is staged to a temp file that is removed on every exit path.
func (h *TaskHandler) BulkUpload(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		apierrors.BadRequest(c, "A multipart file field named 'file' is required")
		return
	}

	contentType := fileHeader.Header.Get("Content-Type")
	if !services.SupportedContentType(contentType) {
		apierrors.BadRequest(c, "Unsupported file type: upload a CSV or Excel file")
		return
	}

	tmpPath := filepath.Join(os.TempDir(),
		fmt.Sprintf("taskflow_upload_%d_%s", time.Now().UnixNano(), filepath.Base(fileHeader.Filename)))
	if err := c.SaveUploadedFile(fileHeader, tmpPath); err != nil {
		apierrors.InternalError(c, "Failed to store uploaded file")
		return
	}
	defer os.Remove(tmpPath)

	file, err := os.Open(tmpPath)
	if err != nil {
		apierrors.InternalError(c, "Failed to read uploaded file")
		return
	}
	defer file.Close()

	summary, err := h.importService.ImportFile(userID, file, contentType)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrUnsupportedFileType):
			apierrors.BadRequest(c, err.Error())
		case errors.Is(err, services.ErrNoValidRows):
			c.JSON(http.StatusBadRequest, dto.ImportResultResponse{
				Message: "No valid rows found in file",
				Errors:  summary.Errors,
			})
		default:
			apierrors.InternalError(c, "Failed to process uploaded file")
		}
		return
	}

	c.JSON(http.StatusOK, dto.ImportResultResponse{
		Message:  "Import completed",
		Imported: summary.Imported,
		Errors:   summary.Errors,
	})
}

// taskRequestIDs pulls the caller's user ID and the :id path parameter.
func taskRequestIDs(c *gin.Context) (userID, taskID uint64, ok bool) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return 0, 0, false
	}

	taskID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid task ID")
		return 0, 0, false
	}

	return userID, taskID, true
}

func parseDueDate(c *gin.Context, raw string) (time.Time, bool) {
	due, err := time.Parse(constants.DateLayout, raw)
	if err != nil {
		apierrors.BadRequestWithDetails(c, "Validation failed", []apierrors.FieldError{
			{Field: "due_date", Message: "must be a valid date in YYYY-MM-DD format"},
		})
		return time.Time{}, false
	}
	return due, true
}

func respondTaskError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrTaskNotFound):
		apierrors.NotFound(c, "Task not found")
	case errors.Is(err, services.ErrTitleRequired),
		errors.Is(err, services.ErrInvalidEffort),
		errors.Is(err, services.ErrInvalidStatus):
		apierrors.BadRequest(c, err.Error())
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}
