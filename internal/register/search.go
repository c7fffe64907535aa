package register

import (
	"sort"
	"strings"

	"github.com/Intern1-ss/Inward-outward-management-system/internal/storage"
)

// SearchText builds the lowercase haystack for one row: the fixed field
// subset searched by every query (means, reference number, person, subject,
// actor, action/status, file reference).
func SearchText(row *storage.EntryRow) string {
	return strings.ToLower(strings.Join([]string{
		row.Means,
		row.RefNo,
		row.Person,
		row.Subject,
		row.Actor,
		row.ActionStatus,
		row.FileReference,
	}, " "))
}

// RelevanceScore scores a haystack against a lowercase query: 10 points per
// occurrence of each whitespace-split token, plus a 50 point bonus when the
// full query string appears verbatim.
func RelevanceScore(text, query string) int {
	score := 0
	for _, token := range strings.Fields(query) {
		score += strings.Count(text, token) * 10
	}
	if strings.Contains(text, query) {
		score += 50
	}
	return score
}

// EntryRef identifies the direct hit an indirect search result was pulled
// in through.
type EntryRef struct {
	ID      string `json:"id"`
	Type    string `json:"type"`
	Subject string `json:"subject"`
}

// SearchResult is one search hit: an Entry plus scoring metadata.
type SearchResult struct {
	Entry
	RelevanceScore int       `json:"relevanceScore"`
	IsDirectResult bool      `json:"isDirectResult,omitempty"`
	MatchedByUUID  bool      `json:"matchedByUUID,omitempty"`
	LinkedTo       *EntryRef `json:"linkedToEntry,omitempty"`
}

// SortResults orders search hits: direct hits before indirect ones, then by
// relevance score descending, then by timestamp descending. The sort is
// stable, so repeating a query over unchanged data yields an identical
// ordering.
func SortResults(results []SearchResult) {
	sort.SliceStable(results, func(i, j int) bool {
		a, b := &results[i], &results[j]
		if a.IsDirectResult != b.IsDirectResult {
			return a.IsDirectResult
		}
		if a.RelevanceScore != b.RelevanceScore {
			return a.RelevanceScore > b.RelevanceScore
		}
		return a.OccurredAt.After(b.OccurredAt)
	})
}

// DedupeResults drops later hits that repeat an earlier hit's entry id.
func DedupeResults(results []SearchResult) []SearchResult {
	seen := make(map[string]bool, len(results))
	out := results[:0]
	for _, r := range results {
		if seen[r.ID] {
			continue
		}
		seen[r.ID] = true
		out = append(out, r)
	}
	return out
}

// SortEntriesByDate orders entries newest first, stable.
func SortEntriesByDate(entries []Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].OccurredAt.After(entries[j].OccurredAt)
	})
}
