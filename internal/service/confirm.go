package service

import (
	"context"
	"errors"
	"time"

	"github.com/Intern1-ss/Inward-outward-management-system/internal/register"
	"github.com/Intern1-ss/Inward-outward-management-system/internal/storage"
)

// fallbackConfirmer is recorded when a confirmation arrives without a
// resolvable user identity.
const fallbackConfirmer = "system-user"

// ConfirmEntry records the one-time confirmation of an entry. Preconditions
// are checked in a fixed order: the id must parse, the row must exist, the
// entry must be complete and must not already be confirmed. The storage
// layer's uniqueness rule backstops the last check against concurrent
// confirms.
func (s *Service) ConfirmEntry(ctx context.Context, userEmail, entryID, note string) (*storage.ConfirmationRecord, error) {
	sheet, rowNumber, err := register.ParseEntryID(entryID)
	if err != nil {
		return nil, ErrBadEntryID
	}

	row, err := s.entries.GetRow(ctx, sheet, rowNumber)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrEntryNotFound
		}
		return nil, WrapError(err, "failed to load entry")
	}
	if !register.IsComplete(row) {
		return nil, ErrEntryIncomplete
	}

	confirmLog, err := s.confirmations.ListAll(ctx)
	if err != nil {
		return nil, WrapError(err, "failed to load confirmation log")
	}
	if register.BuildConfirmationIndex(confirmLog).Has(entryID) {
		return nil, ErrAlreadyConfirmed
	}

	user := s.CurrentUser(userEmail).Email
	if user == "" {
		user = fallbackConfirmer
	}

	rec := storage.ConfirmationRecord{
		CreatedAt:  s.now().UTC().Format(time.RFC3339),
		UserEmail:  user,
		SheetName:  sheet,
		RowNumber:  rowNumber,
		EntryID:    entryID,
		Status:     "Confirmed",
		Note:       note,
		ActionType: "User Confirmation",
	}
	if err := s.confirmations.Insert(ctx, &rec); err != nil {
		if errors.Is(err, storage.ErrDuplicate) {
			return nil, ErrAlreadyConfirmed
		}
		return nil, WrapError(err, "failed to record confirmation")
	}

	s.log(ctx).InfoContext(ctx, "entry confirmed", "entry_id", entryID, "user", user)
	return &rec, nil
}
