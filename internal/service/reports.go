package service

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/Intern1-ss/Inward-outward-management-system/internal/register"
	"github.com/Intern1-ss/Inward-outward-management-system/internal/report"
	"github.com/Intern1-ss/Inward-outward-management-system/internal/storage"
)

// AdminStats is the system overview shown in the admin panel.
type AdminStats struct {
	InwardEntries  int                     `json:"inwardEntries"`
	OutwardEntries int                     `json:"outwardEntries"`
	Confirmations  int                     `json:"confirmations"`
	LinkStats      LinkStats               `json:"linkStats"`
	PendingTotal   int                     `json:"pendingTotal"`
	Users          []register.UserActivity `json:"users"`
}

// GetAdminStatistics builds the system overview. Only admins may call it.
func (s *Service) GetAdminStatistics(ctx context.Context, userEmail string) (*AdminStats, error) {
	user := s.CurrentUser(userEmail)
	if !user.IsAdmin {
		return nil, ErrAccessDenied
	}

	st, err := s.loadState(ctx)
	if err != nil {
		return nil, err
	}

	adminView := register.Viewer{IsAdmin: true}
	pending := register.ComputeStats(st.inward, adminView, st.confirmations)
	pending.Add(register.ComputeStats(st.outward, adminView, st.confirmations))

	groups := make(map[string]bool)
	entries := make(map[string]bool)
	for _, rec := range st.linkLog {
		if rec.LinkGroupID != "" {
			groups[rec.LinkGroupID] = true
		}
		entries[rec.PrimaryEntry] = true
	}

	return &AdminStats{
		InwardEntries:  len(st.inward),
		OutwardEntries: len(st.outward),
		Confirmations:  len(st.confirmLog),
		LinkStats: LinkStats{
			TotalLinkActions: len(groups),
			TotalEdges:       len(st.linkLog),
			LinkedEntries:    len(entries),
		},
		PendingTotal: pending.Pending,
		Users:        register.BuildUserBreakdown(st.inward, st.outward, st.confirmLog, s.cfg.AdminUsers),
	}, nil
}

// FinancialItem is one outward dispatch in the expenditure report.
type FinancialItem struct {
	OutwardNo    string  `json:"outwardNo"`
	DateTime     string  `json:"dateTime"`
	Person       string  `json:"person"`
	Subject      string  `json:"subject"`
	PostalTariff float64 `json:"postalTariff"`
	CrossNo      string  `json:"crossNo"`
}

// FinancialReport totals postal expenditure over the outward register.
type FinancialReport struct {
	Items            []FinancialItem `json:"items"`
	TotalExpenditure float64         `json:"totalExpenditure"`
}

// GenerateFinancialReport walks the outward register, optionally restricted
// to a date range, and totals the postal tariffs. The cross number of each
// dispatch is the reference number of its first linked inward entry.
func (s *Service) GenerateFinancialReport(ctx context.Context, userEmail string, from, to time.Time) (*FinancialReport, error) {
	viewer := s.viewer(s.CurrentUser(userEmail).Email)

	st, err := s.loadState(ctx)
	if err != nil {
		return nil, err
	}

	result := &FinancialReport{Items: []FinancialItem{}}
	for i := range st.outward {
		row := &st.outward[i]
		if row.Subject == "" || !viewer.CanSee(row.Actor) {
			continue
		}
		occurred, parsed := register.ParseDateTime(row.OccurredAt)
		if !from.IsZero() && (!parsed || occurred.Before(from)) {
			continue
		}
		if !to.IsZero() && (!parsed || occurred.After(to)) {
			continue
		}

		tariff := parseTariff(row.PostalTariff)
		item := FinancialItem{
			OutwardNo:    row.RefNo,
			DateTime:     register.FormatDateTime(row.OccurredAt),
			Person:       row.Person,
			Subject:      row.Subject,
			PostalTariff: tariff,
			CrossNo:      crossReference(st, row.EntryID()),
		}
		result.Items = append(result.Items, item)
		result.TotalExpenditure += tariff
	}
	return result, nil
}

// parseTariff reads a tariff cell as a number, tolerating currency noise
// like "Rs. 25.50". Unreadable cells count as zero.
func parseTariff(raw string) float64 {
	cleaned := strings.Map(func(r rune) rune {
		if (r >= '0' && r <= '9') || r == '.' {
			return r
		}
		return -1
	}, raw)
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0
	}
	return v
}

// crossReference returns the reference number of the first inward entry
// linked to the given outward entry, or empty when none is linked.
func crossReference(st *registerState, entryID string) string {
	for _, linked := range st.links.Resolve(entryID, st.snapshot) {
		if linked.Type != storage.SheetInward {
			continue
		}
		if row, ok := st.snapshot[linked.ID]; ok {
			return row.RefNo
		}
	}
	return ""
}

// SystemReport is the full-system summary an admin can export.
type SystemReport struct {
	GeneratedAt    string         `json:"generatedAt"`
	InwardEntries  int            `json:"inwardEntries"`
	OutwardEntries int            `json:"outwardEntries"`
	InwardStats    register.Stats `json:"inwardStats"`
	OutwardStats   register.Stats `json:"outwardStats"`
	Confirmations  int            `json:"confirmations"`
	LinkEdges      int            `json:"linkEdges"`
	PendingItems   int            `json:"pendingItems"`
}

// GenerateSystemReport builds the whole-system summary across both
// registers. Only admins may call it.
func (s *Service) GenerateSystemReport(ctx context.Context, userEmail string) (*SystemReport, error) {
	user := s.CurrentUser(userEmail)
	if !user.IsAdmin {
		return nil, ErrAccessDenied
	}

	st, err := s.loadState(ctx)
	if err != nil {
		return nil, err
	}

	adminView := register.Viewer{IsAdmin: true}
	rep := &SystemReport{
		GeneratedAt:    s.now().UTC().Format(time.RFC3339),
		InwardEntries:  len(st.inward),
		OutwardEntries: len(st.outward),
		InwardStats:    register.ComputeStats(st.inward, adminView, st.confirmations),
		OutwardStats:   register.ComputeStats(st.outward, adminView, st.confirmations),
		Confirmations:  len(st.confirmLog),
		LinkEdges:      len(st.linkLog),
		PendingItems:   len(report.BuildPendingItems(st.inward, st.outward, st.confirmations)),
	}
	return rep, nil
}

// SendWeeklyPendingReport emails the pending-work digest to the configured
// boss address. When nothing is pending, no mail is sent.
func (s *Service) SendWeeklyPendingReport(ctx context.Context) error {
	logger := s.log(ctx)
	if s.cfg.BossEmail == "" {
		logger.WarnContext(ctx, "weekly report skipped, BOSS_EMAIL not configured")
		return nil
	}

	st, err := s.loadState(ctx)
	if err != nil {
		return err
	}

	items := report.BuildPendingItems(st.inward, st.outward, st.confirmations)
	if len(items) == 0 {
		logger.InfoContext(ctx, "weekly report skipped, nothing pending")
		return nil
	}

	generatedAt := s.now().Format("Jan 02, 2006")
	body, err := report.RenderDigest(items, s.cfg.ReportNote, generatedAt)
	if err != nil {
		return WrapError(err, "failed to render weekly report")
	}
	if err := s.mail.Send(ctx, s.cfg.BossEmail, s.cfg.ReportSubject, body); err != nil {
		logger.ErrorContext(ctx, "failed to send weekly report", "error", err)
		return WrapError(err, "failed to send weekly report")
	}

	logger.InfoContext(ctx, "weekly report sent",
		"to", s.cfg.BossEmail,
		"pending_items", len(items),
	)
	return nil
}
