package register

import (
	"strings"
	"time"

	"github.com/Intern1-ss/Inward-outward-management-system/internal/storage"
)

// Viewer is the advisory identity an entry list is projected for. Identity
// is used for filtering and attribution only, never enforcement.
type Viewer struct {
	Email   string
	IsAdmin bool
}

// CanSee reports whether the viewer sees a row with the given actor field.
// Admins see everything; an unresolved viewer identity sees everything;
// rows whose actor field is empty are legacy/unowned and default to visible.
func (v Viewer) CanSee(actor string) bool {
	if v.IsAdmin || v.Email == "" {
		return true
	}
	if actor == "" {
		return true
	}
	return strings.EqualFold(actor, v.Email)
}

// LinkedEntry is a resolved link target carried on an Entry.
type LinkedEntry struct {
	ID       string `json:"id"`
	Type     string `json:"type"`
	Subject  string `json:"subject"`
	Person   string `json:"person"`
	LinkType string `json:"linkType"`
	LinkedBy string `json:"linkedBy"`
	GroupID  string `json:"uuid"`
}

// Entry is the normalized view of one register row.
type Entry struct {
	ID            string        `json:"id"`
	Type          string        `json:"type"`
	UID           string        `json:"uid"`
	SerialNo      int64         `json:"serialNumber"`
	Subject       string        `json:"subject"`
	Person        string        `json:"person"`
	Actor         string        `json:"user"`
	DateTime      string        `json:"dateTime"`
	Means         string        `json:"means"`
	FileReference string        `json:"fileReference"`
	PostalTariff  string        `json:"postalTariff"`
	Complete      bool          `json:"complete"`
	Confirmed     bool          `json:"confirmed"`
	LinkedEntries []LinkedEntry `json:"linkedEntries"`
	HasLinks      bool          `json:"hasLinks"`

	// Inward-only fields.
	InwardNo    string `json:"inwardNo,omitempty"`
	ActionTaken string `json:"actionTaken,omitempty"`

	// Outward-only fields.
	OutwardNo  string `json:"outwardNo,omitempty"`
	CaseClosed string `json:"caseClosed,omitempty"`
	DueDate    string `json:"dueDate,omitempty"`

	// OccurredAt is the parsed Date & Time used for ordering. Zero when the
	// raw value is absent or unparseable.
	OccurredAt time.Time `json:"-"`
}

var dateTimeLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	"2006-01-02",
	"01/02/2006 15:04",
	"01/02/2006",
}

// ParseDateTime parses a raw Date & Time cell. The second return is false
// when the value does not parse; projection carries the raw text through in
// that case rather than failing.
func ParseDateTime(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range dateTimeLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// FormatDateTime renders a raw Date & Time cell for display. Unparseable
// values are returned as-is.
func FormatDateTime(raw string) string {
	t, ok := ParseDateTime(raw)
	if !ok {
		return strings.TrimSpace(raw)
	}
	return t.Format("Jan 02, 2006, 03:04 PM")
}

// IsComplete reports whether a row has everything needed to be actionable:
// means, person, subject and a Date & Time value. The actor field is not
// required; this is the single completeness definition applied everywhere.
func IsComplete(row *storage.EntryRow) bool {
	return row.Means != "" && row.Person != "" && row.Subject != "" && strings.TrimSpace(row.OccurredAt) != ""
}

func isBlank(row *storage.EntryRow) bool {
	return row.Means == "" && row.RefNo == "" && row.Person == "" && row.Subject == "" &&
		row.Actor == "" && strings.TrimSpace(row.OccurredAt) == "" && row.ActionStatus == "" &&
		row.FileReference == "" && row.PostalTariff == "" && row.DueDate == ""
}

// Project maps one raw row to an Entry, or reports false when the row is
// omitted: entirely empty, missing a subject, or not visible to the viewer.
// Confirmation and link state are folded in by the caller afterwards.
func Project(row *storage.EntryRow, viewer Viewer) (*Entry, bool) {
	if isBlank(row) {
		return nil, false
	}
	if row.Subject == "" {
		return nil, false
	}
	if !viewer.CanSee(row.Actor) {
		return nil, false
	}

	e := &Entry{
		ID:            row.EntryID(),
		Type:          row.Sheet,
		UID:           row.UID,
		SerialNo:      row.SerialNo,
		Subject:       row.Subject,
		Person:        row.Person,
		Actor:         row.Actor,
		DateTime:      FormatDateTime(row.OccurredAt),
		Means:         row.Means,
		FileReference: row.FileReference,
		PostalTariff:  row.PostalTariff,
		Complete:      IsComplete(row),
		LinkedEntries: []LinkedEntry{},
	}
	if t, ok := ParseDateTime(row.OccurredAt); ok {
		e.OccurredAt = t
	}

	switch row.Sheet {
	case storage.SheetInward:
		e.InwardNo = row.RefNo
		e.ActionTaken = row.ActionStatus
	case storage.SheetOutward:
		e.OutwardNo = row.RefNo
		e.CaseClosed = row.ActionStatus
		if e.CaseClosed == "" {
			e.CaseClosed = "No"
		}
		e.DueDate = row.DueDate
	}

	return e, true
}
