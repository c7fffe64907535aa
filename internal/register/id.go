// Package register holds the pure core of the correspondence tracker: row
// projection, the confirmation and link indexes, stats aggregation and
// search. Nothing in this package performs I/O; callers feed it row
// snapshots loaded from storage.
package register

import (
	"errors"
	"strconv"
	"strings"

	"github.com/Intern1-ss/Inward-outward-management-system/internal/storage"
)

// ErrBadEntryID is returned when an entry id does not parse to a known
// sheet and row number.
var ErrBadEntryID = errors.New("invalid entry ID format")

// ParseEntryID splits a composite id "<Sheet>-<RowNumber>" into its parts.
// Only the Inward and Outward sheets are valid targets, and data rows start
// at row 2 (row 1 is the header position).
func ParseEntryID(id string) (sheet string, rowNumber int64, err error) {
	parts := strings.SplitN(id, "-", 2)
	if len(parts) < 2 {
		return "", 0, ErrBadEntryID
	}

	sheet = parts[0]
	if sheet != storage.SheetInward && sheet != storage.SheetOutward {
		return "", 0, ErrBadEntryID
	}

	rowNumber, convErr := strconv.ParseInt(parts[1], 10, 64)
	if convErr != nil || rowNumber < 2 {
		return "", 0, ErrBadEntryID
	}

	return sheet, rowNumber, nil
}
