package service

import (
	"context"
	"sort"
	"strings"

	"github.com/Intern1-ss/Inward-outward-management-system/internal/register"
	"github.com/Intern1-ss/Inward-outward-management-system/internal/storage"
)

// Link filter modes accepted by SearchEntries.
const (
	FilterAll        = "all"
	FilterLinkedOnly = "linked-only"
	FilterNoLinks    = "no-links"
	FilterByUUID     = "by-uuid"
)

// Kind filter modes accepted by SearchEntries.
const (
	KindAll     = "all"
	KindInward  = "inward"
	KindOutward = "outward"
)

// SearchEntries scans the registers for the query. A row matches only when
// the full query string appears in its searchable text; the relevance score
// ranks matches, it never admits them. The kind filter restricts the scan to
// one register. The link filter narrows the result set: FilterAll
// additionally pulls in entries linked to a direct hit, FilterLinkedOnly and
// FilterNoLinks keep only hits with or without links, and FilterByUUID
// switches to a link-group lookup where the query is matched against group
// UUIDs instead of entry fields.
//
// Results order direct hits first, then by relevance, then newest first.
// Repeating a query over unchanged registers returns the same ordering.
func (s *Service) SearchEntries(ctx context.Context, userEmail, query, kindFilter, linkFilter string) ([]register.SearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptyQuery
	}
	if linkFilter == FilterByUUID {
		return s.SearchByUUID(ctx, userEmail, query)
	}
	if linkFilter == "" {
		linkFilter = FilterAll
	}
	if kindFilter == "" {
		kindFilter = KindAll
	}

	viewer := s.viewer(s.CurrentUser(userEmail).Email)
	st, err := s.loadState(ctx)
	if err != nil {
		return nil, err
	}

	q := strings.ToLower(query)
	results := []register.SearchResult{}

	scan := func(rows []storage.EntryRow) {
		for i := range rows {
			row := &rows[i]
			text := register.SearchText(row)
			if !strings.Contains(text, q) {
				continue
			}
			entry, ok := register.Project(row, viewer)
			if !ok {
				continue
			}
			st.decorate(entry)

			switch linkFilter {
			case FilterLinkedOnly:
				if !entry.HasLinks {
					continue
				}
			case FilterNoLinks:
				if entry.HasLinks {
					continue
				}
			}

			results = append(results, register.SearchResult{
				Entry:          *entry,
				RelevanceScore: register.RelevanceScore(text, q),
				IsDirectResult: true,
			})
		}
	}
	if kindFilter != KindOutward {
		scan(st.inward)
	}
	if kindFilter != KindInward {
		scan(st.outward)
	}

	if linkFilter == FilterAll {
		results = append(results, s.pullLinkedResults(st, viewer, results)...)
	}

	results = register.DedupeResults(results)
	register.SortResults(results)

	s.log(ctx).InfoContext(ctx, "search executed",
		"query", query,
		"kind_filter", kindFilter,
		"link_filter", linkFilter,
		"results", len(results),
	)
	return results, nil
}

// pullLinkedResults projects the link targets of direct hits as indirect
// results, annotated with the hit that pulled them in.
func (s *Service) pullLinkedResults(st *registerState, viewer register.Viewer, direct []register.SearchResult) []register.SearchResult {
	var indirect []register.SearchResult
	for i := range direct {
		hit := &direct[i]
		for _, linked := range hit.LinkedEntries {
			row, ok := st.snapshot[linked.ID]
			if !ok {
				continue
			}
			entry, ok := register.Project(&row, viewer)
			if !ok {
				continue
			}
			st.decorate(entry)
			indirect = append(indirect, register.SearchResult{
				Entry: *entry,
				LinkedTo: &register.EntryRef{
					ID:      hit.ID,
					Type:    hit.Type,
					Subject: hit.Subject,
				},
			})
		}
	}
	return indirect
}

// SearchByUUID finds every entry whose link edges carry the given group
// UUID, either in the group column or embedded in the notes text.
func (s *Service) SearchByUUID(ctx context.Context, userEmail, query string) ([]register.SearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptyQuery
	}

	viewer := s.viewer(s.CurrentUser(userEmail).Email)
	st, err := s.loadState(ctx)
	if err != nil {
		return nil, err
	}

	matched := make(map[string]bool)
	for _, rec := range st.linkLog {
		if rec.LinkGroupID != query && !strings.Contains(rec.Notes, query) {
			continue
		}
		matched[rec.PrimaryEntry] = true
		matched[rec.LinkedEntry] = true
	}

	ids := make([]string, 0, len(matched))
	for id := range matched {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	results := []register.SearchResult{}
	for _, id := range ids {
		row, ok := st.snapshot[id]
		if !ok {
			continue
		}
		entry, ok := register.Project(&row, viewer)
		if !ok {
			continue
		}
		st.decorate(entry)
		results = append(results, register.SearchResult{
			Entry:          *entry,
			MatchedByUUID:  true,
			IsDirectResult: true,
		})
	}
	register.SortResults(results)

	s.log(ctx).InfoContext(ctx, "uuid search executed", "query", query, "results", len(results))
	return results, nil
}
