package register

import (
	"sort"
	"strings"

	"github.com/Intern1-ss/Inward-outward-management-system/internal/storage"
)

// Stats counts the two work buckets. Pending means complete but not yet
// confirmed; Confirmed means a confirmation fact exists. The buckets are
// mutually exclusive: a confirmed entry is never counted as pending, and
// incomplete unconfirmed rows are counted in neither.
type Stats struct {
	Pending   int `json:"pending"`
	Confirmed int `json:"confirmed"`
}

// Add folds another Stats value in. The fold is commutative and
// associative, so per-sheet results can be combined in any order.
func (s *Stats) Add(other Stats) {
	s.Pending += other.Pending
	s.Confirmed += other.Confirmed
}

// ComputeStats folds one sheet's rows into counters for the viewer. Rows
// without a subject and rows the viewer cannot see are skipped.
func ComputeStats(rows []storage.EntryRow, viewer Viewer, confirmations ConfirmationIndex) Stats {
	var stats Stats
	for i := range rows {
		row := &rows[i]
		if row.Subject == "" {
			continue
		}
		if !viewer.CanSee(row.Actor) {
			continue
		}

		switch {
		case confirmations.Has(row.EntryID()):
			stats.Confirmed++
		case IsComplete(row):
			stats.Pending++
		}
	}
	return stats
}

// UserActivity is one row of the per-user admin breakdown.
type UserActivity struct {
	Email            string `json:"email"`
	InwardEntries    int    `json:"inwardEntries"`
	OutwardEntries   int    `json:"outwardEntries"`
	ConfirmedEntries int    `json:"confirmedEntries"`
	TotalEntries     int    `json:"totalEntries"`
	IsAdmin          bool   `json:"isAdmin"`
}

// BuildUserBreakdown aggregates entry and confirmation counts per actor
// identity, most active users first. Confirmations by identities that never
// recorded an entry are not reported.
func BuildUserBreakdown(inward, outward []storage.EntryRow, confirmations []storage.ConfirmationRecord, admins map[string]bool) []UserActivity {
	byEmail := make(map[string]*UserActivity)

	count := func(rows []storage.EntryRow, isInward bool) {
		for i := range rows {
			email := strings.ToLower(rows[i].Actor)
			if email == "" {
				continue
			}
			act, ok := byEmail[email]
			if !ok {
				act = &UserActivity{Email: email, IsAdmin: admins[email]}
				byEmail[email] = act
			}
			if isInward {
				act.InwardEntries++
			} else {
				act.OutwardEntries++
			}
		}
	}
	count(inward, true)
	count(outward, false)

	for _, rec := range confirmations {
		email := strings.ToLower(rec.UserEmail)
		if act, ok := byEmail[email]; ok {
			act.ConfirmedEntries++
		}
	}

	result := make([]UserActivity, 0, len(byEmail))
	for _, act := range byEmail {
		act.TotalEntries = act.InwardEntries + act.OutwardEntries
		result = append(result, *act)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].TotalEntries != result[j].TotalEntries {
			return result[i].TotalEntries > result[j].TotalEntries
		}
		return result[i].Email < result[j].Email
	})
	return result
}
