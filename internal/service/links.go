package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Intern1-ss/Inward-outward-management-system/internal/register"
	"github.com/Intern1-ss/Inward-outward-management-system/internal/storage"
)

const manualLinkType = "Manual Link"

// LinkResult reports the outcome of one link action.
type LinkResult struct {
	LinkGroupID string `json:"linkGroupId"`
	LinkedCount int    `json:"linkedCount"`
}

// LinkEntries links a primary entry to one or more targets. Every pair gets
// a forward and a reverse edge sharing one group UUID, and all edges of the
// action are appended atomically.
func (s *Service) LinkEntries(ctx context.Context, userEmail, primaryID string, targetIDs []string) (*LinkResult, error) {
	if len(targetIDs) == 0 {
		return nil, &ValidationError{Field: "targetIds", Message: "at least one target entry is required"}
	}

	if err := s.checkEntryExists(ctx, primaryID); err != nil {
		return nil, err
	}
	seen := map[string]bool{primaryID: true}
	targets := make([]string, 0, len(targetIDs))
	for _, id := range targetIDs {
		if seen[id] {
			continue
		}
		seen[id] = true
		if err := s.checkEntryExists(ctx, id); err != nil {
			return nil, err
		}
		targets = append(targets, id)
	}
	if len(targets) == 0 {
		return nil, &ValidationError{Field: "targetIds", Message: "cannot link an entry to itself"}
	}

	user := s.CurrentUser(userEmail).Email
	groupID := uuid.New().String()
	createdAt := s.now().UTC().Format(time.RFC3339)
	notes := fmt.Sprintf("Linked by %s - UUID: %s", user, groupID)

	recs := make([]storage.LinkRecord, 0, 2*len(targets))
	for _, target := range targets {
		recs = append(recs,
			storage.LinkRecord{
				LinkID:       uuid.New().String(),
				PrimaryEntry: primaryID,
				LinkedEntry:  target,
				LinkType:     manualLinkType,
				CreatedAt:    createdAt,
				CreatedBy:    user,
				Notes:        notes,
				LinkGroupID:  groupID,
			},
			storage.LinkRecord{
				LinkID:       uuid.New().String(),
				PrimaryEntry: target,
				LinkedEntry:  primaryID,
				LinkType:     manualLinkType,
				CreatedAt:    createdAt,
				CreatedBy:    user,
				Notes:        notes,
				LinkGroupID:  groupID,
			},
		)
	}
	if err := s.links.InsertBatch(ctx, recs); err != nil {
		return nil, WrapError(err, "failed to record links")
	}

	s.log(ctx).InfoContext(ctx, "entries linked",
		"primary", primaryID,
		"targets", len(targets),
		"link_group", groupID,
		"user", user,
	)
	return &LinkResult{LinkGroupID: groupID, LinkedCount: len(targets)}, nil
}

func (s *Service) checkEntryExists(ctx context.Context, entryID string) error {
	sheet, rowNumber, err := register.ParseEntryID(entryID)
	if err != nil {
		return ErrBadEntryID
	}
	if _, err := s.entries.GetRow(ctx, sheet, rowNumber); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return ErrEntryNotFound
		}
		return WrapError(err, "failed to load entry")
	}
	return nil
}

// GetLinkableEntries lists the entries a given entry may be linked to:
// everything visible to the caller except the entry itself and its existing
// link targets, newest first.
func (s *Service) GetLinkableEntries(ctx context.Context, userEmail, excludeID string) ([]register.Entry, error) {
	if _, _, err := register.ParseEntryID(excludeID); err != nil {
		return nil, ErrBadEntryID
	}
	viewer := s.viewer(s.CurrentUser(userEmail).Email)

	st, err := s.loadState(ctx)
	if err != nil {
		return nil, err
	}

	alreadyLinked := make(map[string]bool)
	for _, linked := range st.links.Resolve(excludeID, st.snapshot) {
		alreadyLinked[linked.ID] = true
	}

	var linkable []register.Entry
	for _, entries := range [][]register.Entry{
		st.projectSheet(st.inward, viewer),
		st.projectSheet(st.outward, viewer),
	} {
		for _, e := range entries {
			if e.ID == excludeID || alreadyLinked[e.ID] {
				continue
			}
			linkable = append(linkable, e)
		}
	}
	register.SortEntriesByDate(linkable)
	return linkable, nil
}

// GetAllLinkedEntries lists every visible entry that has at least one link,
// newest first.
func (s *Service) GetAllLinkedEntries(ctx context.Context, userEmail string) ([]register.Entry, error) {
	viewer := s.viewer(s.CurrentUser(userEmail).Email)

	st, err := s.loadState(ctx)
	if err != nil {
		return nil, err
	}

	var linked []register.Entry
	for _, entries := range [][]register.Entry{
		st.projectSheet(st.inward, viewer),
		st.projectSheet(st.outward, viewer),
	} {
		for _, e := range entries {
			if e.HasLinks {
				linked = append(linked, e)
			}
		}
	}
	register.SortEntriesByDate(linked)
	return linked, nil
}

// LinkStats summarizes the link log.
type LinkStats struct {
	TotalLinkActions int `json:"totalLinkActions"`
	TotalEdges       int `json:"totalEdges"`
	LinkedEntries    int `json:"linkedEntries"`
}

// GetLinkStatistics summarizes the link log: distinct group UUIDs, raw
// edges, and distinct entries participating in at least one link.
func (s *Service) GetLinkStatistics(ctx context.Context) (*LinkStats, error) {
	linkLog, err := s.links.ListAll(ctx)
	if err != nil {
		return nil, WrapError(err, "failed to load link log")
	}

	groups := make(map[string]bool)
	entries := make(map[string]bool)
	for _, rec := range linkLog {
		if rec.LinkGroupID != "" {
			groups[rec.LinkGroupID] = true
		}
		entries[rec.PrimaryEntry] = true
	}
	return &LinkStats{
		TotalLinkActions: len(groups),
		TotalEdges:       len(linkLog),
		LinkedEntries:    len(entries),
	}, nil
}
