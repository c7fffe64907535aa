package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Intern1-ss/Inward-outward-management-system/internal/register"
	"github.com/Intern1-ss/Inward-outward-management-system/internal/storage"
)

// UserInfo identifies the caller of an operation.
type UserInfo struct {
	Email   string `json:"email"`
	IsAdmin bool   `json:"isAdmin"`
}

// CurrentUser resolves the caller's identity and admin flag.
func (s *Service) CurrentUser(email string) UserInfo {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		email = s.cfg.DefaultUser
	}
	return UserInfo{Email: email, IsAdmin: s.cfg.IsAdmin(email)}
}

// DashboardStats is the pending/confirmed summary shown on the dashboard.
type DashboardStats struct {
	Inward  register.Stats `json:"inward"`
	Outward register.Stats `json:"outward"`
	Total   register.Stats `json:"total"`
}

// InitialData is everything the UI needs on first load.
type InitialData struct {
	User           UserInfo         `json:"user"`
	InwardEntries  []register.Entry `json:"inwardEntries"`
	OutwardEntries []register.Entry `json:"outwardEntries"`
	Stats          DashboardStats   `json:"stats"`
}

// GetInitialData loads the user identity, both projected registers and the
// dashboard stats in one call.
func (s *Service) GetInitialData(ctx context.Context, userEmail string) (*InitialData, error) {
	user := s.CurrentUser(userEmail)
	viewer := s.viewer(user.Email)

	st, err := s.loadState(ctx)
	if err != nil {
		return nil, err
	}

	data := &InitialData{
		User:           user,
		InwardEntries:  st.projectSheet(st.inward, viewer),
		OutwardEntries: st.projectSheet(st.outward, viewer),
		Stats:          computeDashboard(st, viewer),
	}
	s.log(ctx).InfoContext(ctx, "initial data loaded",
		"user", user.Email,
		"inward_entries", len(data.InwardEntries),
		"outward_entries", len(data.OutwardEntries),
	)
	return data, nil
}

// GetDashboardData recomputes the pending/confirmed stats for the viewer.
func (s *Service) GetDashboardData(ctx context.Context, userEmail string) (*DashboardStats, error) {
	viewer := s.viewer(s.CurrentUser(userEmail).Email)

	st, err := s.loadState(ctx)
	if err != nil {
		return nil, err
	}
	stats := computeDashboard(st, viewer)
	return &stats, nil
}

func computeDashboard(st *registerState, viewer register.Viewer) DashboardStats {
	stats := DashboardStats{
		Inward:  register.ComputeStats(st.inward, viewer, st.confirmations),
		Outward: register.ComputeStats(st.outward, viewer, st.confirmations),
	}
	stats.Total = stats.Inward
	stats.Total.Add(stats.Outward)
	return stats
}

// EntriesWithDetails carries both projected registers.
type EntriesWithDetails struct {
	InwardEntries  []register.Entry `json:"inwardEntries"`
	OutwardEntries []register.Entry `json:"outwardEntries"`
}

// GetEntriesWithDetails projects both registers with confirmation and link
// state folded in, in row order.
func (s *Service) GetEntriesWithDetails(ctx context.Context, userEmail string) (*EntriesWithDetails, error) {
	viewer := s.viewer(s.CurrentUser(userEmail).Email)

	st, err := s.loadState(ctx)
	if err != nil {
		return nil, err
	}
	return &EntriesWithDetails{
		InwardEntries:  st.projectSheet(st.inward, viewer),
		OutwardEntries: st.projectSheet(st.outward, viewer),
	}, nil
}

// EntryInput carries the editable fields of a register entry.
type EntryInput struct {
	Type          string `json:"type"` // "Inward" or "Outward"
	DateTime      string `json:"dateTime"`
	Means         string `json:"means"`
	RefNo         string `json:"refNo"`
	Person        string `json:"person"`
	Subject       string `json:"subject"`
	ActionStatus  string `json:"actionStatus"`
	FileReference string `json:"fileReference"`
	PostalTariff  string `json:"postalTariff"`
	DueDate       string `json:"dueDate"`
}

func (in *EntryInput) sheet() (string, error) {
	switch in.Type {
	case storage.SheetInward, storage.SheetOutward:
		return in.Type, nil
	}
	return "", &ValidationError{Field: "type", Message: "must be Inward or Outward"}
}

func (in *EntryInput) validate() error {
	if strings.TrimSpace(in.DateTime) == "" ||
		strings.TrimSpace(in.Means) == "" ||
		strings.TrimSpace(in.Subject) == "" {
		return ErrMissingRequired
	}
	return nil
}

// referenceCode builds the auto-assigned register number for a serial, like
// "INW/2026/001". Serials past 999 widen naturally.
func referenceCode(sheet string, year int, serial int64) string {
	prefix := "INW"
	if sheet == storage.SheetOutward {
		prefix = "OTW"
	}
	return fmt.Sprintf("%s/%d/%03d", prefix, year, serial)
}

// CreateNewEntry appends one entry to the named register. When no reference
// number is supplied, one is generated from the allocated serial.
func (s *Service) CreateNewEntry(ctx context.Context, userEmail string, in EntryInput) (*register.Entry, error) {
	sheet, err := in.sheet()
	if err != nil {
		return nil, err
	}
	if err := in.validate(); err != nil {
		return nil, err
	}
	user := s.CurrentUser(userEmail)

	row := storage.EntryRow{
		Sheet:         sheet,
		Means:         strings.TrimSpace(in.Means),
		RefNo:         strings.TrimSpace(in.RefNo),
		Person:        strings.TrimSpace(in.Person),
		Subject:       strings.TrimSpace(in.Subject),
		Actor:         user.Email,
		OccurredAt:    strings.TrimSpace(in.DateTime),
		ActionStatus:  strings.TrimSpace(in.ActionStatus),
		FileReference: strings.TrimSpace(in.FileReference),
		PostalTariff:  strings.TrimSpace(in.PostalTariff),
		DueDate:       strings.TrimSpace(in.DueDate),
	}
	if err := s.entries.Append(ctx, &row); err != nil {
		return nil, WrapError(err, "failed to create entry")
	}

	// The serial is known only after the append allocated the row, so the
	// auto reference number is filled in with a second write.
	if row.RefNo == "" {
		row.RefNo = referenceCode(sheet, s.now().Year(), row.SerialNo)
		if err := s.entries.Update(ctx, &row); err != nil {
			return nil, WrapError(err, "failed to assign reference number")
		}
	}

	s.log(ctx).InfoContext(ctx, "entry created",
		"entry_id", row.EntryID(),
		"register", sheet,
		"user", user.Email,
	)

	entry, _ := register.Project(&row, register.Viewer{IsAdmin: true})
	return entry, nil
}

// UpdateEntry overwrites the editable fields of an existing entry. The
// actor, serial and reference id are preserved.
func (s *Service) UpdateEntry(ctx context.Context, userEmail, entryID string, in EntryInput) (*register.Entry, error) {
	sheet, rowNumber, err := register.ParseEntryID(entryID)
	if err != nil {
		return nil, ErrBadEntryID
	}
	if err := in.validate(); err != nil {
		return nil, err
	}
	viewer := s.viewer(s.CurrentUser(userEmail).Email)

	row, err := s.entries.GetRow(ctx, sheet, rowNumber)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrEntryNotFound
		}
		return nil, WrapError(err, "failed to load entry")
	}
	if !viewer.CanSee(row.Actor) {
		return nil, ErrEntryNotFound
	}

	row.Means = strings.TrimSpace(in.Means)
	if ref := strings.TrimSpace(in.RefNo); ref != "" {
		row.RefNo = ref
	}
	row.Person = strings.TrimSpace(in.Person)
	row.Subject = strings.TrimSpace(in.Subject)
	row.OccurredAt = strings.TrimSpace(in.DateTime)
	row.ActionStatus = strings.TrimSpace(in.ActionStatus)
	row.FileReference = strings.TrimSpace(in.FileReference)
	row.PostalTariff = strings.TrimSpace(in.PostalTariff)
	row.DueDate = strings.TrimSpace(in.DueDate)

	if err := s.entries.Update(ctx, row); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrEntryNotFound
		}
		return nil, WrapError(err, "failed to update entry")
	}

	s.log(ctx).InfoContext(ctx, "entry updated", "entry_id", entryID, "user", viewer.Email)

	entry, _ := register.Project(row, register.Viewer{IsAdmin: true})
	return entry, nil
}

// UpdateEntryAction overwrites only the action/status cell of an entry.
func (s *Service) UpdateEntryAction(ctx context.Context, userEmail, entryID, action string) error {
	sheet, rowNumber, err := register.ParseEntryID(entryID)
	if err != nil {
		return ErrBadEntryID
	}
	viewer := s.viewer(s.CurrentUser(userEmail).Email)

	row, err := s.entries.GetRow(ctx, sheet, rowNumber)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return ErrEntryNotFound
		}
		return WrapError(err, "failed to load entry")
	}
	if !viewer.CanSee(row.Actor) {
		return ErrEntryNotFound
	}

	if err := s.entries.UpdateAction(ctx, sheet, rowNumber, strings.TrimSpace(action)); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return ErrEntryNotFound
		}
		return WrapError(err, "failed to update action")
	}

	s.log(ctx).InfoContext(ctx, "entry action updated", "entry_id", entryID, "user", viewer.Email)
	return nil
}
