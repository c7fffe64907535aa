package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var (
	// ErrNotFound is returned when a record is not found.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when an insert violates a uniqueness rule.
	ErrDuplicate = errors.New("duplicate record")
)

// EntryID formats the positional composite id "<Sheet>-<RowNumber>".
func EntryID(sheet string, rowNumber int64) string {
	return fmt.Sprintf("%s-%d", sheet, rowNumber)
}

// EntryStore defines the interface for register row operations.
type EntryStore interface {
	// ListRows returns all rows of a sheet in row-number order.
	ListRows(ctx context.Context, sheet string) ([]EntryRow, error)
	// GetRow gets a single row. Returns nil and ErrNotFound if not found.
	GetRow(ctx context.Context, sheet string, rowNumber int64) (*EntryRow, error)
	// LastRowNumber returns the highest allocated row number of a sheet,
	// or 1 when the sheet holds no data (the header row position).
	LastRowNumber(ctx context.Context, sheet string) (int64, error)
	// Append allocates the next row number and serial for the sheet and
	// inserts the row. RowNumber, SerialNo and UID are filled in on return.
	Append(ctx context.Context, row *EntryRow) error
	// Update overwrites an existing row in place, preserving its serial
	// number, UID and row number.
	Update(ctx context.Context, row *EntryRow) error
	// UpdateAction overwrites only the action/status cell of a row.
	UpdateAction(ctx context.Context, sheet string, rowNumber int64, action string) error
}

// EntryRepo provides methods for register row operations.
// It implements the EntryStore interface.
type EntryRepo struct {
	db *sql.DB
}

// NewEntryRepo creates a new EntryRepo.
func NewEntryRepo(db *sql.DB) *EntryRepo {
	return &EntryRepo{db: db}
}

const entryColumns = `sheet, row_number, uid, serial_no, means, ref_no, person, subject,
	actor, occurred_at, action_status, file_reference, postal_tariff, due_date`

func scanEntryRow(scanner interface{ Scan(...any) error }) (*EntryRow, error) {
	var r EntryRow
	err := scanner.Scan(&r.Sheet, &r.RowNumber, &r.UID, &r.SerialNo, &r.Means, &r.RefNo,
		&r.Person, &r.Subject, &r.Actor, &r.OccurredAt, &r.ActionStatus,
		&r.FileReference, &r.PostalTariff, &r.DueDate)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// ListRows returns all rows of a sheet in row-number order.
func (r *EntryRepo) ListRows(ctx context.Context, sheet string) ([]EntryRow, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+entryColumns+" FROM entries WHERE sheet = ? ORDER BY row_number",
		sheet,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query entries: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []EntryRow
	for rows.Next() {
		row, err := scanEntryRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan entry row: %w", err)
		}
		result = append(result, *row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate entry rows: %w", err)
	}

	return result, nil
}

// GetRow gets a single row by sheet and row number.
// Returns nil and ErrNotFound if not found.
func (r *EntryRepo) GetRow(ctx context.Context, sheet string, rowNumber int64) (*EntryRow, error) {
	row, err := scanEntryRow(r.db.QueryRowContext(ctx,
		"SELECT "+entryColumns+" FROM entries WHERE sheet = ? AND row_number = ?",
		sheet, rowNumber,
	))
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query entry: %w", err)
	}
	return row, nil
}

// LastRowNumber returns the highest allocated row number of a sheet.
// An empty sheet reports 1, the position of the header row.
func (r *EntryRepo) LastRowNumber(ctx context.Context, sheet string) (int64, error) {
	var last int64
	err := r.db.QueryRowContext(ctx,
		"SELECT COALESCE(MAX(row_number), 1) FROM entries WHERE sheet = ?",
		sheet,
	).Scan(&last)
	if err != nil {
		return 0, fmt.Errorf("failed to query last row number: %w", err)
	}
	return last, nil
}

// Append allocates the next row number for the sheet inside a transaction and
// inserts the row. The serial number is row_number-1, so sequential appends
// produce strictly increasing serials with no gaps. Row numbers are allocated
// once and never reused, which keeps the positional entry ids stable.
func (r *EntryRepo) Append(ctx context.Context, row *EntryRow) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	var last int64
	if err := tx.QueryRowContext(ctx,
		"SELECT COALESCE(MAX(row_number), 1) FROM entries WHERE sheet = ?",
		row.Sheet,
	).Scan(&last); err != nil {
		return fmt.Errorf("failed to query last row number: %w", err)
	}

	row.RowNumber = last + 1
	row.SerialNo = row.RowNumber - 1
	if row.UID == "" {
		row.UID = uuid.New().String()
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO entries (`+entryColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		row.Sheet, row.RowNumber, row.UID, row.SerialNo, row.Means, row.RefNo,
		row.Person, row.Subject, row.Actor, row.OccurredAt, row.ActionStatus,
		row.FileReference, row.PostalTariff, row.DueDate,
	)
	if err != nil {
		return fmt.Errorf("failed to insert entry: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit entry append: %w", err)
	}
	return nil
}

// Update overwrites an existing row in place. The serial number, UID and row
// number of the stored row are preserved regardless of what the caller set.
func (r *EntryRepo) Update(ctx context.Context, row *EntryRow) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE entries SET means = ?, ref_no = ?, person = ?, subject = ?, actor = ?,
			occurred_at = ?, action_status = ?, file_reference = ?, postal_tariff = ?, due_date = ?
		 WHERE sheet = ? AND row_number = ?`,
		row.Means, row.RefNo, row.Person, row.Subject, row.Actor,
		row.OccurredAt, row.ActionStatus, row.FileReference, row.PostalTariff, row.DueDate,
		row.Sheet, row.RowNumber,
	)
	if err != nil {
		return fmt.Errorf("failed to update entry: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read update result: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateAction overwrites only the action/status cell of a row.
func (r *EntryRepo) UpdateAction(ctx context.Context, sheet string, rowNumber int64, action string) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE entries SET action_status = ? WHERE sheet = ? AND row_number = ?",
		action, sheet, rowNumber,
	)
	if err != nil {
		return fmt.Errorf("failed to update action: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read update result: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
