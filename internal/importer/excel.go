package importer

import (
	"errors"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// ReadExcel reads the first worksheet of an xlsx file. Row 1 is always the
// header; columns 1-4 are read positionally as title, description, effort,
// due date.
func ReadExcel(r io.Reader) ([]Row, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open spreadsheet: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New("spreadsheet has no worksheets")
	}

	cells, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read worksheet %q: %w", sheets[0], err)
	}

	var rows []Row
	for i, record := range cells {
		if i == 0 {
			continue
		}
		rows = append(rows, Row{
			Index:       i,
			Title:       cellAt(record, 0),
			Description: cellAt(record, 1),
			Effort:      cellAt(record, 2),
			DueDate:     cellAt(record, 3),
		})
	}

	return rows, nil
}

func cellAt(record []string, i int) string {
	if i >= len(record) {
		return ""
	}
	return record[i]
}
