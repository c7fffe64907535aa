package register

import (
	"github.com/Intern1-ss/Inward-outward-management-system/internal/storage"
)

// ConfirmationIndex maps "<Sheet>-<Row>" to the confirmation recorded for
// that entry.
type ConfirmationIndex map[string]storage.ConfirmationRecord

// BuildConfirmationIndex scans the confirmation log once in append order.
// Duplicate keys should not occur (the log is unique per entry), but if one
// slips in, the later record wins.
func BuildConfirmationIndex(recs []storage.ConfirmationRecord) ConfirmationIndex {
	idx := make(ConfirmationIndex, len(recs))
	for _, rec := range recs {
		if rec.SheetName == "" || rec.RowNumber == 0 {
			continue
		}
		idx[storage.EntryID(rec.SheetName, rec.RowNumber)] = rec
	}
	return idx
}

// Has reports whether an entry id has a recorded confirmation.
func (idx ConfirmationIndex) Has(entryID string) bool {
	_, ok := idx[entryID]
	return ok
}
