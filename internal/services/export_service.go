package services

import (
	"fmt"
	"time"

	"github.com/taskflow/taskflow-api/internal/constants"
	"github.com/taskflow/taskflow-api/internal/repository"
	"github.com/xuri/excelize/v2"
)

const exportSheet = "Tasks"

var exportColumns = []struct {
	Header string
	Width  float64
}{
	{"Title", 30},
	{"Description", 40},
	{"Effort (Days)", 14},
	{"Due Date", 14},
	{"Status", 14},
	{"Created At", 20},
}

// ExportService renders a user's tasks into a spreadsheet.
type ExportService struct {
	taskRepo repository.TaskRepository
}

// NewExportService creates a new ExportService
func NewExportService(taskRepo repository.TaskRepository) *ExportService {
	return &ExportService{
		taskRepo: taskRepo,
	}
}

// ExcelForUser builds the workbook in memory: one "Tasks" sheet, bold
// light-gray header, fixed column widths, tasks newest-created-first. The
// caller streams it with File.Write; nothing touches disk.
func (s *ExportService) ExcelForUser(userID uint64) (*excelize.File, error) {
	tasks, err := s.taskRepo.ListByUser(userID, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		return nil, fmt.Errorf("failed to name worksheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"D9D9D9"}},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	for i, col := range exportColumns {
		name, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(exportSheet, name+"1", col.Header); err != nil {
			return nil, err
		}
		if err := f.SetColWidth(exportSheet, name, name, col.Width); err != nil {
			return nil, err
		}
	}
	if err := f.SetCellStyle(exportSheet, "A1", "F1", headerStyle); err != nil {
		return nil, err
	}

	for i, task := range tasks {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		values := []interface{}{
			task.Title,
			task.Description,
			task.EffortDays,
			task.DueDate.Format(constants.DateLayout),
			string(task.Status),
			task.CreatedAt.Format("2006-01-02 15:04:05"),
		}
		if err := f.SetSheetRow(exportSheet, cell, &values); err != nil {
			return nil, err
		}
	}

	return f, nil
}

// ExportFileName returns the attachment name for a workbook generated now.
func ExportFileName(now time.Time) string {
	return fmt.Sprintf("tasks_export_%s.xlsx", now.Format("20060102_150405"))
}
