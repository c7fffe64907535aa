package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mattn/go-sqlite3"
)

// ConfirmationStore defines the interface for the Confirmations append log.
type ConfirmationStore interface {
	// ListAll returns every confirmation in append order.
	ListAll(ctx context.Context) ([]ConfirmationRecord, error)
	// Insert appends one confirmation. Returns ErrDuplicate when the entry
	// already has a confirmation recorded.
	Insert(ctx context.Context, rec *ConfirmationRecord) error
}

// ConfirmationRepo provides methods for confirmation log operations.
// It implements the ConfirmationStore interface.
type ConfirmationRepo struct {
	db *sql.DB
}

// NewConfirmationRepo creates a new ConfirmationRepo.
func NewConfirmationRepo(db *sql.DB) *ConfirmationRepo {
	return &ConfirmationRepo{db: db}
}

// ListAll returns every confirmation in append order.
func (r *ConfirmationRepo) ListAll(ctx context.Context) ([]ConfirmationRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, created_at, user_email, sheet_name, row_number, entry_id, status, note, action_type
		 FROM confirmations ORDER BY id`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query confirmations: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []ConfirmationRecord
	for rows.Next() {
		var c ConfirmationRecord
		if err := rows.Scan(&c.ID, &c.CreatedAt, &c.UserEmail, &c.SheetName, &c.RowNumber,
			&c.EntryID, &c.Status, &c.Note, &c.ActionType); err != nil {
			return nil, fmt.Errorf("failed to scan confirmation: %w", err)
		}
		result = append(result, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate confirmations: %w", err)
	}

	return result, nil
}

// Insert appends one confirmation. The unique index on (sheet_name, row_number)
// makes the check-then-append of a confirm operation safe against concurrent
// callers: the second writer gets ErrDuplicate instead of a second record.
func (r *ConfirmationRepo) Insert(ctx context.Context, rec *ConfirmationRecord) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO confirmations (created_at, user_email, sheet_name, row_number, entry_id, status, note, action_type)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.CreatedAt, rec.UserEmail, rec.SheetName, rec.RowNumber,
		rec.EntryID, rec.Status, rec.Note, rec.ActionType,
	)
	if err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && sqliteErr.Code == sqlite3.ErrConstraint {
			return ErrDuplicate
		}
		return fmt.Errorf("failed to insert confirmation: %w", err)
	}

	if id, err := res.LastInsertId(); err == nil {
		rec.ID = id
	}
	return nil
}
