package services

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/taskflow/taskflow-api/internal/importer"
	"github.com/taskflow/taskflow-api/internal/models"
	"github.com/taskflow/taskflow-api/internal/repository"
)

var (
	ErrUnsupportedFileType = errors.New("unsupported file type: expected CSV or Excel")
	ErrNoValidRows         = errors.New("no valid rows found in file")
)

// csvContentTypes includes application/vnd.ms-excel because browsers on
// machines with Excel installed report CSV uploads under that type.
var csvContentTypes = map[string]bool{
	"text/csv":                 true,
	"application/csv":          true,
	"application/vnd.ms-excel": true,
}

var excelContentTypes = map[string]bool{
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet": true,
}

// ImportSummary is the outcome of a bulk import: how many rows were
// persisted and a description of every row that was not.
type ImportSummary struct {
	Imported int
	Errors   []string
}

// ImportService orchestrates bulk task imports.
type ImportService struct {
	taskRepo repository.TaskRepository
}

// NewImportService creates a new ImportService
func NewImportService(taskRepo repository.TaskRepository) *ImportService {
	return &ImportService{
		taskRepo: taskRepo,
	}
}

// SupportedContentType reports whether the declared MIME type can be
// imported at all. The upload boundary calls this before any parsing.
func SupportedContentType(contentType string) bool {
	ct := normalizeContentType(contentType)
	return csvContentTypes[ct] || excelContentTypes[ct]
}

// ImportFile parses the upload, normalizes every row, and inserts the valid
// candidates for the user. A bad row never aborts the batch: normalization
// and insert failures are accumulated per row and the rest proceed. When no
// row at all is valid the method reports ErrNoValidRows alongside the full
// error list and nothing is written.
func (s *ImportService) ImportFile(userID uint64, file io.Reader, contentType string) (*ImportSummary, error) {
	ct := normalizeContentType(contentType)

	var rows []importer.Row
	var err error
	switch {
	case csvContentTypes[ct]:
		rows, err = importer.ReadCSV(file)
	case excelContentTypes[ct]:
		rows, err = importer.ReadExcel(file)
	default:
		return nil, ErrUnsupportedFileType
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse file: %w", err)
	}

	var candidates []*importer.Candidate
	var rowErrors []string
	for _, row := range rows {
		candidate, err := importer.Normalize(row)
		if err != nil {
			rowErrors = append(rowErrors, err.Error())
			continue
		}
		candidates = append(candidates, candidate)
	}

	if len(candidates) == 0 {
		return &ImportSummary{Errors: rowErrors}, ErrNoValidRows
	}

	// Sequential best-effort inserts; no batch transaction. Rows committed
	// before a failure stay committed.
	imported := 0
	for _, candidate := range candidates {
		task := models.Task{
			UserID:      userID,
			Title:       candidate.Title,
			Description: candidate.Description,
			EffortDays:  candidate.EffortDays,
			DueDate:     candidate.DueDate,
			Status:      models.TaskStatusPending,
		}
		if err := s.taskRepo.Create(&task); err != nil {
			rowErrors = append(rowErrors, fmt.Sprintf("row %d: failed to insert: %v", candidate.Index, err))
			continue
		}
		imported++
	}

	return &ImportSummary{
		Imported: imported,
		Errors:   rowErrors,
	}, nil
}

func normalizeContentType(contentType string) string {
	ct, _, _ := strings.Cut(contentType, ";")
	return strings.ToLower(strings.TrimSpace(ct))
}
