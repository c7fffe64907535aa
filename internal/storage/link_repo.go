package storage

import (
	"context"
	"database/sql"
	"fmt"
)

// LinkStore defines the interface for the Entry_Links append log.
type LinkStore interface {
	// ListAll returns every link edge in append order.
	ListAll(ctx context.Context) ([]LinkRecord, error)
	// InsertBatch appends all edges of one link action in a single
	// transaction, so forward and reverse edges land together or not at all.
	InsertBatch(ctx context.Context, recs []LinkRecord) error
}

// LinkRepo provides methods for link log operations.
// It implements the LinkStore interface.
type LinkRepo struct {
	db *sql.DB
}

// NewLinkRepo creates a new LinkRepo.
func NewLinkRepo(db *sql.DB) *LinkRepo {
	return &LinkRepo{db: db}
}

// ListAll returns every link edge in append order.
func (r *LinkRepo) ListAll(ctx context.Context) ([]LinkRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, link_id, primary_entry_id, linked_entry_id, link_type, created_at, created_by, notes, link_group_id
		 FROM entry_links ORDER BY id`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query entry links: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []LinkRecord
	for rows.Next() {
		var l LinkRecord
		if err := rows.Scan(&l.ID, &l.LinkID, &l.PrimaryEntry, &l.LinkedEntry, &l.LinkType,
			&l.CreatedAt, &l.CreatedBy, &l.Notes, &l.LinkGroupID); err != nil {
			return nil, fmt.Errorf("failed to scan entry link: %w", err)
		}
		result = append(result, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate entry links: %w", err)
	}

	return result, nil
}

// InsertBatch appends all edges of one link action in a single transaction.
func (r *LinkRepo) InsertBatch(ctx context.Context, recs []LinkRecord) error {
	if len(recs) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO entry_links (link_id, primary_entry_id, linked_entry_id, link_type, created_at, created_by, notes, link_group_id)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
	)
	if err != nil {
		return fmt.Errorf("failed to prepare link insert: %w", err)
	}
	defer func() {
		_ = stmt.Close()
	}()

	for i := range recs {
		l := &recs[i]
		if _, err := stmt.ExecContext(ctx, l.LinkID, l.PrimaryEntry, l.LinkedEntry,
			l.LinkType, l.CreatedAt, l.CreatedBy, l.Notes, l.LinkGroupID); err != nil {
			return fmt.Errorf("failed to insert link edge: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit link batch: %w", err)
	}
	return nil
}
