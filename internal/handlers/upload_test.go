package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taskflow/taskflow-api/internal/dto"
	"github.com/taskflow/taskflow-api/internal/models"
	"github.com/xuri/excelize/v2"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// uploadFile posts content as the multipart `file` field with an explicit
// part content type, the way browsers submit file inputs.
func (env testEnv) uploadFile(t *testing.T, token, filename, contentType string, content []byte) *httptest.ResponseRecorder {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, filename))
	header.Set("Content-Type", contentType)
	part, err := writer.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/tasks/bulk-upload", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	return w
}

func taskCount(t *testing.T, env testEnv) int64 {
	t.Helper()
	var count int64
	require.NoError(t, env.db.Model(&models.Task{}).Count(&count).Error)
	return count
}

func TestBulkUpload_CSVPartialSuccess(t *testing.T) {
	env := setupTestEnv(t)
	token := env.register(t, "alice", "alice@example.com")

	csv := "title,description,effort_days,due_date\n" +
		`"A","",2,"2024-12-31"` + "\n" +
		`"","",1,"2024-12-30"` + "\n"

	w := env.uploadFile(t, token, "tasks.csv", "text/csv", []byte(csv))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp dto.ImportResultResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Imported)
	require.Len(t, resp.Errors, 1)
	assert.Contains(t, resp.Errors[0], "row 2")

	var task models.Task
	require.NoError(t, env.db.First(&task).Error)
	assert.Equal(t, "A", task.Title)
	assert.Equal(t, 2, task.EffortDays)
	assert.Equal(t, "2024-12-31", task.DueDate.Format("2006-01-02"))
}

func TestBulkUpload_AllRowsValidOmitsErrors(t *testing.T) {
	env := setupTestEnv(t)
	token := env.register(t, "alice", "alice@example.com")

	csv := "title,due_date\nA,2024-12-31\nB,2024-12-30\n"

	w := env.uploadFile(t, token, "tasks.csv", "text/csv", []byte(csv))
	require.Equal(t, http.StatusOK, w.Code)

	// `errors` must be absent from the body, not an empty list.
	var raw map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &raw))
	assert.NotContains(t, raw, "errors")
	assert.Equal(t, float64(2), raw["imported"])
}

func TestBulkUpload_ZeroValidRows(t *testing.T) {
	env := setupTestEnv(t)
	token := env.register(t, "alice", "alice@example.com")

	csv := "title,due_date\n,2024-12-31\n,bad-date\n"

	w := env.uploadFile(t, token, "tasks.csv", "text/csv", []byte(csv))
	require.Equal(t, http.StatusBadRequest, w.Code)

	var resp dto.ImportResultResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 0, resp.Imported)
	assert.Len(t, resp.Errors, 2)
	assert.Equal(t, int64(0), taskCount(t, env))
}

func TestBulkUpload_UnsupportedType(t *testing.T) {
	env := setupTestEnv(t)
	token := env.register(t, "alice", "alice@example.com")

	w := env.uploadFile(t, token, "tasks.json", "application/json", []byte(`[{"title":"A"}]`))
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, int64(0), taskCount(t, env))
}

func TestBulkUpload_MissingFileField(t *testing.T) {
	env := setupTestEnv(t)
	token := env.register(t, "alice", "alice@example.com")

	req := httptest.NewRequest(http.MethodPost, "/api/tasks/bulk-upload", bytes.NewReader(nil))
	req.Header.Set("Content-Type", "multipart/form-data; boundary=x")
	req.Header.Set("Authorization", "Bearer "+token)

	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBulkUpload_Excel(t *testing.T) {
	env := setupTestEnv(t)
	token := env.register(t, "alice", "alice@example.com")

	f := excelize.NewFile()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]interface{}{"title", "description", "effort", "due date"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]interface{}{"From Excel", "imported", 4, "2024-12-31"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A3", &[]interface{}{"", "missing title", 1, "2024-12-31"}))

	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	require.NoError(t, f.Close())

	w := env.uploadFile(t, token, "tasks.xlsx", xlsxContentType, buf.Bytes())
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp dto.ImportResultResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Imported)
	assert.Len(t, resp.Errors, 1)

	var task models.Task
	require.NoError(t, env.db.First(&task).Error)
	assert.Equal(t, "From Excel", task.Title)
	assert.Equal(t, 4, task.EffortDays)
}

func TestExportExcelEndpoint(t *testing.T) {
	env := setupTestEnv(t)
	token := env.register(t, "alice", "alice@example.com")

	for _, title := range []string{"First", "Second"} {
		w := env.doJSON(t, http.MethodPost, "/api/tasks", map[string]interface{}{
			"title":       title,
			"effort_days": 2,
			"due_date":    "2024-12-31",
		}, token)
		require.Equal(t, http.StatusCreated, w.Code)
	}

	w := env.doJSON(t, http.MethodGet, "/api/tasks/export/excel", nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, xlsxContentType, w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "attachment")
	assert.Contains(t, w.Header().Get("Content-Disposition"), "tasks_export_")

	f, err := excelize.OpenReader(bytes.NewReader(w.Body.Bytes()))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Tasks")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Title", rows[0][0])
}

func TestExportExcelRequiresAuth(t *testing.T) {
	env := setupTestEnv(t)

	w := env.doJSON(t, http.MethodGet, "/api/tasks/export/excel", nil, "")
	require.Equal(t, http.StatusUnauthorized, w.Code)
}
