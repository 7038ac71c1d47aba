package importer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadCSV_HeaderAliases(t *testing.T) {
	input := "Title,Description,Effort (Days),Due Date\n" +
		"Ship release,Cut the tag,2,2024-12-31\n"

	rows, err := ReadCSV(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, rows, 1)

	assert.Equal(t, 1, rows[0].Index)
	assert.Equal(t, "Ship release", rows[0].Title)
	assert.Equal(t, "Cut the tag", rows[0].Description)
	assert.Equal(t, "2", rows[0].Effort)
	assert.Equal(t, "2024-12-31", rows[0].DueDate)
}

func TestReadCSV_CaseInsensitiveHeaders(t *testing.T) {
	input := "TITLE,DESCRIPTION,EFFORT_DAYS,DUE_DATE\nA,,1,2024-12-31\n"

	rows, err := ReadCSV(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "A", rows[0].Title)
	assert.Equal(t, "2024-12-31", rows[0].DueDate)
}

func TestReadCSV_UnknownColumnsIgnored(t *testing.T) {
	input := "priority,title,due_date\nhigh,A,2024-12-31\n"

	rows, err := ReadCSV(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "A", rows[0].Title)
	assert.Equal(t, "", rows[0].Description)
}

func TestReadCSV_ShortRecords(t *testing.T) {
	// Records shorter than the header leave trailing fields empty rather
	// than failing the read.
	input := "title,description,effort_days,due_date\nA\n"

	rows, err := ReadCSV(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "A", rows[0].Title)
	assert.Equal(t, "", rows[0].DueDate)
}

func TestReadCSV_Empty(t *testing.T) {
	rows, err := ReadCSV(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, rows)
}

// The worked example from the import contract: one valid row, one row with
// a missing title.
func TestReadCSV_ThenNormalize(t *testing.T) {
	input := "title,description,effort_days,due_date\n" +
		`"A","",2,"2024-12-31"` + "\n" +
		`"","",1,"2024-12-30"` + "\n"

	rows, err := ReadCSV(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, rows, 2)

	first, err := Normalize(rows[0])
	require.NoError(t, err)
	assert.Equal(t, "A", first.Title)
	assert.Equal(t, 2, first.EffortDays)
	assert.Equal(t, "2024-12-31", first.DueDate.Format("2006-01-02"))

	_, err = Normalize(rows[1])
	require.Error(t, err)
	assert.Contains(t, err.Error(), "row 2")
}
