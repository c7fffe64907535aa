package register

import (
	"github.com/Intern1-ss/Inward-outward-management-system/internal/storage"
)

// LinkEdge is one directed edge as seen from its primary entry.
type LinkEdge struct {
	LinkID      string
	LinkedEntry string
	LinkType    string
	CreatedBy   string
	Notes       string
	GroupID     string
}

// LinkIndex maps a primary entry id to its outgoing edges. Because every
// link action writes both directions, looking up either endpoint finds the
// other.
type LinkIndex map[string][]LinkEdge

// BuildLinkIndex scans the link log once in append order. Re-linked pairs
// are kept as-is; the log is append-only and never de-duplicated.
func BuildLinkIndex(recs []storage.LinkRecord) LinkIndex {
	idx := make(LinkIndex)
	for _, rec := range recs {
		if rec.PrimaryEntry == "" || rec.LinkedEntry == "" {
			continue
		}
		idx[rec.PrimaryEntry] = append(idx[rec.PrimaryEntry], LinkEdge{
			LinkID:      rec.LinkID,
			LinkedEntry: rec.LinkedEntry,
			LinkType:    rec.LinkType,
			CreatedBy:   rec.CreatedBy,
			Notes:       rec.Notes,
			GroupID:     rec.LinkGroupID,
		})
	}
	return idx
}

// RowSnapshot is a point-in-time lookup of all register rows by entry id,
// used to resolve link targets against live data.
type RowSnapshot map[string]storage.EntryRow

// BuildRowSnapshot indexes row slices by their entry id.
func BuildRowSnapshot(sheets ...[]storage.EntryRow) RowSnapshot {
	snap := make(RowSnapshot)
	for _, rows := range sheets {
		for _, row := range rows {
			snap[row.EntryID()] = row
		}
	}
	return snap
}

// Resolve returns the linked entries of entryID with subject and person
// resolved from the row snapshot. Edges whose target row no longer exists
// are silently dropped.
func (idx LinkIndex) Resolve(entryID string, snap RowSnapshot) []LinkedEntry {
	edges := idx[entryID]
	resolved := make([]LinkedEntry, 0, len(edges))
	for _, edge := range edges {
		target, ok := snap[edge.LinkedEntry]
		if !ok {
			continue
		}
		subject := target.Subject
		if subject == "" {
			subject = "No Subject"
		}
		person := target.Person
		if person == "" {
			person = "Unknown"
		}
		resolved = append(resolved, LinkedEntry{
			ID:       edge.LinkedEntry,
			Type:     target.Sheet,
			Subject:  subject,
			Person:   person,
			LinkType: edge.LinkType,
			LinkedBy: edge.CreatedBy,
			GroupID:  edge.GroupID,
		})
	}
	return resolved
}
