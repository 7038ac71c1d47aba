// Package importer turns uploaded tabular files into task candidates.
// Both source formats (delimited text and spreadsheets) are reduced to the
// same intermediate Row so validation lives in exactly one place.
package importer

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Row is the uniform intermediate representation of one data row. Index is
// the 1-based position within the source, header row excluded.
type Row struct {
	Index       int
	Title       string
	Description string
	Effort      string
	DueDate     string
}

// Candidate is a validated task candidate ready for insertion.
type Candidate struct {
	Index       int
	Title       string
	Description string
	EffortDays  int
	DueDate     time.Time
}

// dueDateLayouts are tried in order. The last entry matches how xlsx
// readers render date cells by default, so exported files re-import.
var dueDateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006/01/02",
	"01/02/2006",
	"1/2/06 15:04",
}

// Normalize validates one row and produces a task candidate. Title and due
// date failures reject the row; a bad effort value silently falls back to 1.
// That asymmetry is intentional and matches the documented import contract.
func Normalize(row Row) (*Candidate, error) {
	title := strings.TrimSpace(row.Title)
	if title == "" {
		return nil, fmt.Errorf("row %d: title is required", row.Index)
	}

	effort := 1
	if raw := strings.TrimSpace(row.Effort); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n >= 1 {
			effort = n
		}
	}

	rawDue := strings.TrimSpace(row.DueDate)
	if rawDue == "" {
		return nil, fmt.Errorf("row %d: due date is required", row.Index)
	}
	due, err := parseDueDate(rawDue)
	if err != nil {
		return nil, fmt.Errorf("row %d: invalid due date %q", row.Index, rawDue)
	}

	return &Candidate{
		Index:       row.Index,
		Title:       title,
		Description: strings.TrimSpace(row.Description),
		EffortDays:  effort,
		DueDate:     due,
	}, nil
}

// parseDueDate accepts any supported layout and truncates to date precision.
func parseDueDate(raw string) (time.Time, error) {
	for _, layout := range dueDateLayouts {
		t, err := time.Parse(layout, raw)
		if err != nil {
			continue
		}
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
	}
	return time.Time{}, fmt.Errorf("unrecognized date format: %q", raw)
}
