package importer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Recognized header aliases, matched case-insensitively.
var headerAliases = map[string]string{
	"title":         "title",
	"description":   "description",
	"effort_days":   "effort",
	"effort":        "effort",
	"effort (days)": "effort",
	"due_date":      "due_date",
	"due date":      "due_date",
}

// ReadCSV reads delimited-text rows. The first record is the header and
// supplies column positions; unrecognized columns are ignored.
func ReadCSV(r io.Reader) ([]Row, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	columns := map[string]int{}
	for i, name := range header {
		key := strings.ToLower(strings.TrimSpace(name))
		if field, ok := headerAliases[key]; ok {
			if _, seen := columns[field]; !seen {
				columns[field] = i
			}
		}
	}

	var rows []Row
	index := 0
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV record: %w", err)
		}

		index++
		rows = append(rows, Row{
			Index:       index,
			Title:       fieldAt(record, columns, "title"),
			Description: fieldAt(record, columns, "description"),
			Effort:      fieldAt(record, columns, "effort"),
			DueDate:     fieldAt(record, columns, "due_date"),
		})
	}

	return rows, nil
}

func fieldAt(record []string, columns map[string]int, field string) string {
	i, ok := columns[field]
	if !ok || i >= len(record) {
		return ""
	}
	return record[i]
}
