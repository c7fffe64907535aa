// Package service implements the correspondence tracker operations on top of
// the storage repositories and the pure register core.
package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/Intern1-ss/Inward-outward-management-system/internal/config"
	"github.com/Intern1-ss/Inward-outward-management-system/internal/contextutil"
	"github.com/Intern1-ss/Inward-outward-management-system/internal/mailer"
	"github.com/Intern1-ss/Inward-outward-management-system/internal/register"
	"github.com/Intern1-ss/Inward-outward-management-system/internal/storage"
)

// Service provides the register operations.
type Service struct {
	entries       storage.EntryStore
	confirmations storage.ConfirmationStore
	links         storage.LinkStore
	mail          mailer.Mailer
	cfg           *config.Config
	now           func() time.Time
}

// New creates a new Service.
func New(entries storage.EntryStore, confirmations storage.ConfirmationStore, links storage.LinkStore, mail mailer.Mailer, cfg *config.Config) *Service {
	return &Service{
		entries:       entries,
		confirmations: confirmations,
		links:         links,
		mail:          mail,
		cfg:           cfg,
		now:           time.Now,
	}
}

func (s *Service) log(ctx context.Context) *slog.Logger {
	return contextutil.LoggerFromContext(ctx)
}

// viewer resolves the advisory identity for an operation.
func (s *Service) viewer(email string) register.Viewer {
	return register.Viewer{Email: email, IsAdmin: s.cfg.IsAdmin(email)}
}

// registerState is a point-in-time load of all four registers.
type registerState struct {
	inward        []storage.EntryRow
	outward       []storage.EntryRow
	confirmations register.ConfirmationIndex
	confirmLog    []storage.ConfirmationRecord
	links         register.LinkIndex
	linkLog       []storage.LinkRecord
	snapshot      register.RowSnapshot
}

// loadState reads both entry sheets and both append logs and builds the
// lookup indexes the register core works on.
func (s *Service) loadState(ctx context.Context) (*registerState, error) {
	inward, err := s.entries.ListRows(ctx, storage.SheetInward)
	if err != nil {
		return nil, WrapError(err, "failed to load inward register")
	}
	outward, err := s.entries.ListRows(ctx, storage.SheetOutward)
	if err != nil {
		return nil, WrapError(err, "failed to load outward register")
	}
	confirmLog, err := s.confirmations.ListAll(ctx)
	if err != nil {
		return nil, WrapError(err, "failed to load confirmation log")
	}
	linkLog, err := s.links.ListAll(ctx)
	if err != nil {
		return nil, WrapError(err, "failed to load link log")
	}

	return &registerState{
		inward:        inward,
		outward:       outward,
		confirmations: register.BuildConfirmationIndex(confirmLog),
		confirmLog:    confirmLog,
		links:         register.BuildLinkIndex(linkLog),
		linkLog:       linkLog,
		snapshot:      register.BuildRowSnapshot(inward, outward),
	}, nil
}

// decorate folds confirmation and link state into a projected entry.
func (st *registerState) decorate(e *register.Entry) {
	e.Confirmed = st.confirmations.Has(e.ID)
	e.LinkedEntries = st.links.Resolve(e.ID, st.snapshot)
	e.HasLinks = len(e.LinkedEntries) > 0
}

// projectSheet projects one sheet's rows for a viewer with confirmation and
// link state folded in, preserving row order.
func (st *registerState) projectSheet(rows []storage.EntryRow, viewer register.Viewer) []register.Entry {
	entries := make([]register.Entry, 0, len(rows))
	for i := range rows {
		e, ok := register.Project(&rows[i], viewer)
		if !ok {
			continue
		}
		st.decorate(e)
		entries = append(entries, *e)
	}
	return entries
}
