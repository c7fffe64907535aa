package service

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"sort"
	"strings"
	"testing"
	"time"

	"go.uber.org/mock/gomock"

	"github.com/Intern1-ss/Inward-outward-management-system/internal/config"
	"github.com/Intern1-ss/Inward-outward-management-system/internal/mailer"
	"github.com/Intern1-ss/Inward-outward-management-system/internal/mailer/mocks"
	"github.com/Intern1-ss/Inward-outward-management-system/internal/storage"
)

func testConfig() *config.Config {
	return &config.Config{
		AdminUsers:    map[string]bool{"boss@example.com": true},
		BossEmail:     "boss@example.com",
		ReportSubject: "Inward/Outward Pending Report",
	}
}

func newTestService(t *testing.T, mail mailer.Mailer) (*Service, *sql.DB) {
	t.Helper()

	db, err := storage.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() {
		_ = db.Close()
	})
	if err := storage.Migrate(db); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	svc := New(
		storage.NewEntryRepo(db),
		storage.NewConfirmationRepo(db),
		storage.NewLinkRepo(db),
		mail,
		testConfig(),
	)
	svc.now = func() time.Time {
		return time.Date(2026, 8, 30, 11, 0, 0, 0, time.UTC)
	}
	return svc, db
}

func mustCreate(t *testing.T, svc *Service, user string, in EntryInput) string {
	t.Helper()
	entry, err := svc.CreateNewEntry(context.Background(), user, in)
	if err != nil {
		t.Fatalf("CreateNewEntry() failed: %v", err)
	}
	return entry.ID
}

func completeInput(entryType string) EntryInput {
	return EntryInput{
		Type:     entryType,
		DateTime: "2026-08-10 14:30:00",
		Means:    "Post",
		Person:   "Acme Corp",
		Subject:  "Invoice",
	}
}

func TestCreateNewEntry(t *testing.T) {
	svc, _ := newTestService(t, nil)
	ctx := context.Background()

	entry, err := svc.CreateNewEntry(ctx, "alice@example.com", completeInput(storage.SheetInward))
	if err != nil {
		t.Fatalf("CreateNewEntry() failed: %v", err)
	}
	if entry.ID != "Inward-2" {
		t.Errorf("ID = %q, want Inward-2", entry.ID)
	}
	if entry.InwardNo != "INW/2026/001" {
		t.Errorf("InwardNo = %q, want auto reference INW/2026/001", entry.InwardNo)
	}
	if entry.Actor != "alice@example.com" {
		t.Errorf("Actor = %q", entry.Actor)
	}

	second, err := svc.CreateNewEntry(ctx, "alice@example.com", completeInput(storage.SheetOutward))
	if err != nil {
		t.Fatalf("CreateNewEntry() failed: %v", err)
	}
	if second.OutwardNo != "OTW/2026/001" {
		t.Errorf("OutwardNo = %q, want OTW/2026/001", second.OutwardNo)
	}

	in := completeInput(storage.SheetInward)
	in.RefNo = "CUSTOM-1"
	third, err := svc.CreateNewEntry(ctx, "alice@example.com", in)
	if err != nil {
		t.Fatalf("CreateNewEntry() failed: %v", err)
	}
	if third.InwardNo != "CUSTOM-1" {
		t.Errorf("InwardNo = %q, caller-supplied reference must win", third.InwardNo)
	}
}

func TestCreateNewEntryValidation(t *testing.T) {
	svc, _ := newTestService(t, nil)
	ctx := context.Background()

	tests := []struct {
		name   string
		mutate func(*EntryInput)
	}{
		{name: "missing date", mutate: func(in *EntryInput) { in.DateTime = "" }},
		{name: "missing means", mutate: func(in *EntryInput) { in.Means = " " }},
		{name: "missing subject", mutate: func(in *EntryInput) { in.Subject = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := completeInput(storage.SheetInward)
			tt.mutate(&in)
			if _, err := svc.CreateNewEntry(ctx, "alice@example.com", in); !errors.Is(err, ErrMissingRequired) {
				t.Errorf("CreateNewEntry() error = %v, want ErrMissingRequired", err)
			}
		})
	}

	in := completeInput("Archive")
	var vErr *ValidationError
	if _, err := svc.CreateNewEntry(ctx, "alice@example.com", in); !errors.As(err, &vErr) {
		t.Errorf("CreateNewEntry(bad type) error = %v, want ValidationError", err)
	}
}

func TestConfirmEntry(t *testing.T) {
	svc, _ := newTestService(t, nil)
	ctx := context.Background()

	id := mustCreate(t, svc, "alice@example.com", completeInput(storage.SheetInward))

	rec, err := svc.ConfirmEntry(ctx, "alice@example.com", id, "filed")
	if err != nil {
		t.Fatalf("ConfirmEntry() failed: %v", err)
	}
	if rec.Status != "Confirmed" || rec.ActionType != "User Confirmation" || rec.Note != "filed" {
		t.Errorf("record = %+v", rec)
	}
	if rec.UserEmail != "alice@example.com" {
		t.Errorf("UserEmail = %q", rec.UserEmail)
	}

	if _, err := svc.ConfirmEntry(ctx, "bob@example.com", id, ""); !errors.Is(err, ErrAlreadyConfirmed) {
		t.Errorf("second confirm error = %v, want ErrAlreadyConfirmed", err)
	}
}

func TestConfirmEntryPreconditions(t *testing.T) {
	svc, _ := newTestService(t, nil)
	ctx := context.Background()

	// An incomplete entry must be created directly, validation blocks it.
	incomplete := storage.EntryRow{Sheet: storage.SheetInward, Subject: "draft"}
	if err := svc.entries.Append(ctx, &incomplete); err != nil {
		t.Fatalf("Append() failed: %v", err)
	}

	tests := []struct {
		name    string
		entryID string
		wantErr error
	}{
		{name: "bad id", entryID: "garbage", wantErr: ErrBadEntryID},
		{name: "bad sheet", entryID: "Archive-2", wantErr: ErrBadEntryID},
		{name: "missing row", entryID: "Outward-7", wantErr: ErrEntryNotFound},
		{name: "incomplete entry", entryID: incomplete.EntryID(), wantErr: ErrEntryIncomplete},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.ConfirmEntry(ctx, "alice@example.com", tt.entryID, ""); !errors.Is(err, tt.wantErr) {
				t.Errorf("ConfirmEntry(%q) error = %v, want %v", tt.entryID, err, tt.wantErr)
			}
		})
	}
}

func TestConfirmEntryFallbackUser(t *testing.T) {
	svc, _ := newTestService(t, nil)
	ctx := context.Background()

	id := mustCreate(t, svc, "", completeInput(storage.SheetInward))
	rec, err := svc.ConfirmEntry(ctx, "", id, "")
	if err != nil {
		t.Fatalf("ConfirmEntry() failed: %v", err)
	}
	if rec.UserEmail != fallbackConfirmer {
		t.Errorf("UserEmail = %q, want %q", rec.UserEmail, fallbackConfirmer)
	}
}

func TestLinkEntries(t *testing.T) {
	svc, _ := newTestService(t, nil)
	ctx := context.Background()

	inwardID := mustCreate(t, svc, "alice@example.com", completeInput(storage.SheetInward))
	outwardID := mustCreate(t, svc, "alice@example.com", completeInput(storage.SheetOutward))

	result, err := svc.LinkEntries(ctx, "alice@example.com", inwardID, []string{outwardID})
	if err != nil {
		t.Fatalf("LinkEntries() failed: %v", err)
	}
	if result.LinkedCount != 1 || result.LinkGroupID == "" {
		t.Errorf("result = %+v", result)
	}

	edges, err := svc.links.ListAll(ctx)
	if err != nil {
		t.Fatalf("ListAll() failed: %v", err)
	}
	if len(edges) != 2 {
		t.Fatalf("got %d edges, want forward and reverse", len(edges))
	}
	if edges[0].PrimaryEntry != inwardID || edges[0].LinkedEntry != outwardID {
		t.Errorf("forward edge = %+v", edges[0])
	}
	if edges[1].PrimaryEntry != outwardID || edges[1].LinkedEntry != inwardID {
		t.Errorf("reverse edge = %+v", edges[1])
	}
	for _, edge := range edges {
		if edge.LinkGroupID != result.LinkGroupID {
			t.Error("edges must carry the action's group UUID")
		}
		if edge.LinkType != manualLinkType {
			t.Errorf("LinkType = %q", edge.LinkType)
		}
		wantNotes := "Linked by alice@example.com - UUID: " + result.LinkGroupID
		if edge.Notes != wantNotes {
			t.Errorf("Notes = %q, want %q", edge.Notes, wantNotes)
		}
	}
}

func TestLinkEntriesMultipleTargets(t *testing.T) {
	svc, _ := newTestService(t, nil)
	ctx := context.Background()

	primary := mustCreate(t, svc, "alice@example.com", completeInput(storage.SheetInward))
	first := mustCreate(t, svc, "alice@example.com", completeInput(storage.SheetOutward))
	second := mustCreate(t, svc, "alice@example.com", completeInput(storage.SheetOutward))

	result, err := svc.LinkEntries(ctx, "alice@example.com", primary, []string{first, second})
	if err != nil {
		t.Fatalf("LinkEntries() failed: %v", err)
	}
	if result.LinkedCount != 2 {
		t.Errorf("LinkedCount = %d, want 2", result.LinkedCount)
	}

	edges, err := svc.links.ListAll(ctx)
	if err != nil {
		t.Fatalf("ListAll() failed: %v", err)
	}
	if len(edges) != 4 {
		t.Fatalf("got %d edges, want a forward and reverse pair per target", len(edges))
	}
	for _, edge := range edges {
		if edge.LinkGroupID != result.LinkGroupID {
			t.Errorf("edge %s->%s group = %q, want %q", edge.PrimaryEntry, edge.LinkedEntry, edge.LinkGroupID, result.LinkGroupID)
		}
	}

	linked, err := svc.GetAllLinkedEntries(ctx, "alice@example.com")
	if err != nil {
		t.Fatalf("GetAllLinkedEntries() failed: %v", err)
	}
	adjacency := make(map[string][]string)
	for _, entry := range linked {
		for _, le := range entry.LinkedEntries {
			adjacency[entry.ID] = append(adjacency[entry.ID], le.ID)
		}
	}
	sort.Strings(adjacency[primary])
	want := []string{first, second}
	sort.Strings(want)
	if len(adjacency[primary]) != 2 || adjacency[primary][0] != want[0] || adjacency[primary][1] != want[1] {
		t.Errorf("links for %s = %v, want %v", primary, adjacency[primary], want)
	}
	for _, target := range []string{first, second} {
		if got := adjacency[target]; len(got) != 1 || got[0] != primary {
			t.Errorf("links for %s = %v, want [%s]", target, got, primary)
		}
	}
}

func TestLinkEntriesErrors(t *testing.T) {
	svc, _ := newTestService(t, nil)
	ctx := context.Background()

	id := mustCreate(t, svc, "alice@example.com", completeInput(storage.SheetInward))

	if _, err := svc.LinkEntries(ctx, "alice@example.com", id, nil); err == nil {
		t.Error("LinkEntries() with no targets must fail")
	}
	if _, err := svc.LinkEntries(ctx, "alice@example.com", "bad", []string{id}); !errors.Is(err, ErrBadEntryID) {
		t.Errorf("bad primary error = %v, want ErrBadEntryID", err)
	}
	if _, err := svc.LinkEntries(ctx, "alice@example.com", id, []string{"Outward-9"}); !errors.Is(err, ErrEntryNotFound) {
		t.Errorf("missing target error = %v, want ErrEntryNotFound", err)
	}
	if _, err := svc.LinkEntries(ctx, "alice@example.com", id, []string{id}); err == nil {
		t.Error("LinkEntries() to itself must fail")
	}
}

func TestSearchEntries(t *testing.T) {
	svc, _ := newTestService(t, nil)
	ctx := context.Background()

	in := completeInput(storage.SheetInward)
	in.Subject = "Tax notice from revenue department"
	taxID := mustCreate(t, svc, "alice@example.com", in)

	out := completeInput(storage.SheetOutward)
	out.Subject = "Reply about salaries"
	replyID := mustCreate(t, svc, "alice@example.com", out)

	other := completeInput(storage.SheetInward)
	other.Subject = "Stationery order"
	mustCreate(t, svc, "alice@example.com", other)

	if _, err := svc.LinkEntries(ctx, "alice@example.com", taxID, []string{replyID}); err != nil {
		t.Fatalf("LinkEntries() failed: %v", err)
	}

	t.Run("all pulls linked entries", func(t *testing.T) {
		results, err := svc.SearchEntries(ctx, "alice@example.com", "tax", KindAll, FilterAll)
		if err != nil {
			t.Fatalf("SearchEntries() failed: %v", err)
		}
		if len(results) != 2 {
			t.Fatalf("got %d results, want direct hit plus linked entry", len(results))
		}
		if results[0].ID != taxID || !results[0].IsDirectResult {
			t.Errorf("results[0] = %+v, want direct tax hit first", results[0].Entry)
		}
		if results[1].ID != replyID || results[1].IsDirectResult {
			t.Errorf("results[1] = %+v, want indirect linked entry", results[1].Entry)
		}
		if results[1].LinkedTo == nil || results[1].LinkedTo.ID != taxID {
			t.Error("indirect result must name the hit that pulled it in")
		}
	})

	t.Run("linked-only", func(t *testing.T) {
		results, err := svc.SearchEntries(ctx, "alice@example.com", "stationery", KindAll, FilterLinkedOnly)
		if err != nil {
			t.Fatalf("SearchEntries() failed: %v", err)
		}
		if len(results) != 0 {
			t.Errorf("got %d results, unlinked hit must be filtered out", len(results))
		}
	})

	t.Run("no-links", func(t *testing.T) {
		results, err := svc.SearchEntries(ctx, "alice@example.com", "tax", KindAll, FilterNoLinks)
		if err != nil {
			t.Fatalf("SearchEntries() failed: %v", err)
		}
		if len(results) != 0 {
			t.Errorf("got %d results, linked hit must be filtered out", len(results))
		}
	})

	t.Run("multi-token query matches as a phrase", func(t *testing.T) {
		results, err := svc.SearchEntries(ctx, "alice@example.com", "tax invoice", KindAll, FilterAll)
		if err != nil {
			t.Fatalf("SearchEntries() failed: %v", err)
		}
		if len(results) != 0 {
			t.Errorf("got %d results, a row matching one token only must not match", len(results))
		}
	})

	t.Run("kind filter restricts the scanned register", func(t *testing.T) {
		results, err := svc.SearchEntries(ctx, "alice@example.com", "salaries", KindInward, FilterAll)
		if err != nil {
			t.Fatalf("SearchEntries() failed: %v", err)
		}
		if len(results) != 0 {
			t.Errorf("got %d results, outward hit must not leak into an inward search", len(results))
		}

		results, err = svc.SearchEntries(ctx, "alice@example.com", "salaries", KindOutward, FilterAll)
		if err != nil {
			t.Fatalf("SearchEntries() failed: %v", err)
		}
		if len(results) != 2 {
			t.Fatalf("got %d results, want direct outward hit plus linked inward entry", len(results))
		}
		if results[0].ID != replyID || !results[0].IsDirectResult {
			t.Errorf("results[0] = %+v, want direct reply hit first", results[0].Entry)
		}
		if results[1].ID != taxID || results[1].IsDirectResult {
			t.Errorf("results[1] = %+v, want indirect linked entry", results[1].Entry)
		}
	})

	t.Run("no matches returns an empty list", func(t *testing.T) {
		results, err := svc.SearchEntries(ctx, "alice@example.com", "telegram", KindAll, FilterAll)
		if err != nil {
			t.Fatalf("SearchEntries() failed: %v", err)
		}
		if results == nil {
			t.Fatal("results must be an empty list, not nil")
		}
		if len(results) != 0 {
			t.Errorf("got %d results, want 0", len(results))
		}
	})

	t.Run("empty query", func(t *testing.T) {
		if _, err := svc.SearchEntries(ctx, "alice@example.com", "  ", KindAll, FilterAll); !errors.Is(err, ErrEmptyQuery) {
			t.Errorf("error = %v, want ErrEmptyQuery", err)
		}
	})
}

func TestSearchByUUID(t *testing.T) {
	svc, _ := newTestService(t, nil)
	ctx := context.Background()

	inwardID := mustCreate(t, svc, "alice@example.com", completeInput(storage.SheetInward))
	outwardID := mustCreate(t, svc, "alice@example.com", completeInput(storage.SheetOutward))
	result, err := svc.LinkEntries(ctx, "alice@example.com", inwardID, []string{outwardID})
	if err != nil {
		t.Fatalf("LinkEntries() failed: %v", err)
	}

	results, err := svc.SearchEntries(ctx, "alice@example.com", result.LinkGroupID, KindAll, FilterByUUID)
	if err != nil {
		t.Fatalf("SearchEntries(by-uuid) failed: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("got %d results, want both endpoints of the group", len(results))
	}
	for _, r := range results {
		if !r.MatchedByUUID {
			t.Errorf("result %s missing MatchedByUUID", r.ID)
		}
	}

	none, err := svc.SearchEntries(ctx, "alice@example.com", "no-such-group", KindAll, FilterByUUID)
	if err != nil {
		t.Fatalf("SearchEntries(by-uuid) failed: %v", err)
	}
	if none == nil {
		t.Fatal("results must be an empty list, not nil")
	}
	if len(none) != 0 {
		t.Errorf("got %d results for unknown group, want 0", len(none))
	}
}

func TestGetInitialDataVisibility(t *testing.T) {
	svc, _ := newTestService(t, nil)
	ctx := context.Background()

	mustCreate(t, svc, "alice@example.com", completeInput(storage.SheetInward))
	mustCreate(t, svc, "carol@example.com", completeInput(storage.SheetInward))

	data, err := svc.GetInitialData(ctx, "alice@example.com")
	if err != nil {
		t.Fatalf("GetInitialData() failed: %v", err)
	}
	if len(data.InwardEntries) != 1 {
		t.Errorf("alice sees %d inward entries, want 1", len(data.InwardEntries))
	}
	if data.Stats.Total.Pending != 1 {
		t.Errorf("alice pending = %d, want 1", data.Stats.Total.Pending)
	}

	adminData, err := svc.GetInitialData(ctx, "boss@example.com")
	if err != nil {
		t.Fatalf("GetInitialData() failed: %v", err)
	}
	if !adminData.User.IsAdmin {
		t.Error("boss must be flagged admin")
	}
	if len(adminData.InwardEntries) != 2 {
		t.Errorf("admin sees %d inward entries, want 2", len(adminData.InwardEntries))
	}
}

func TestUpdateEntryAction(t *testing.T) {
	svc, _ := newTestService(t, nil)
	ctx := context.Background()

	id := mustCreate(t, svc, "alice@example.com", completeInput(storage.SheetInward))
	if err := svc.UpdateEntryAction(ctx, "alice@example.com", id, "Forwarded to accounts"); err != nil {
		t.Fatalf("UpdateEntryAction() failed: %v", err)
	}

	data, err := svc.GetEntriesWithDetails(ctx, "alice@example.com")
	if err != nil {
		t.Fatalf("GetEntriesWithDetails() failed: %v", err)
	}
	if data.InwardEntries[0].ActionTaken != "Forwarded to accounts" {
		t.Errorf("ActionTaken = %q", data.InwardEntries[0].ActionTaken)
	}

	// Another non-admin user cannot touch alice's entry.
	if err := svc.UpdateEntryAction(ctx, "carol@example.com", id, "x"); !errors.Is(err, ErrEntryNotFound) {
		t.Errorf("foreign update error = %v, want ErrEntryNotFound", err)
	}
}

func TestUpdateEntry(t *testing.T) {
	svc, _ := newTestService(t, nil)
	ctx := context.Background()

	id := mustCreate(t, svc, "alice@example.com", completeInput(storage.SheetInward))

	in := completeInput(storage.SheetInward)
	in.Subject = "Corrected invoice"
	entry, err := svc.UpdateEntry(ctx, "alice@example.com", id, in)
	if err != nil {
		t.Fatalf("UpdateEntry() failed: %v", err)
	}
	if entry.Subject != "Corrected invoice" {
		t.Errorf("Subject = %q", entry.Subject)
	}
	if entry.InwardNo != "INW/2026/001" {
		t.Errorf("InwardNo = %q, reference must survive an update with no refNo", entry.InwardNo)
	}

	if _, err := svc.UpdateEntry(ctx, "alice@example.com", "Inward-99", in); !errors.Is(err, ErrEntryNotFound) {
		t.Errorf("missing entry error = %v, want ErrEntryNotFound", err)
	}
}

func TestGetAdminStatistics(t *testing.T) {
	svc, _ := newTestService(t, nil)
	ctx := context.Background()

	if _, err := svc.GetAdminStatistics(ctx, "alice@example.com"); !errors.Is(err, ErrAccessDenied) {
		t.Fatalf("non-admin error = %v, want ErrAccessDenied", err)
	}

	inwardID := mustCreate(t, svc, "alice@example.com", completeInput(storage.SheetInward))
	outwardID := mustCreate(t, svc, "alice@example.com", completeInput(storage.SheetOutward))
	if _, err := svc.ConfirmEntry(ctx, "alice@example.com", inwardID, ""); err != nil {
		t.Fatalf("ConfirmEntry() failed: %v", err)
	}
	if _, err := svc.LinkEntries(ctx, "alice@example.com", inwardID, []string{outwardID}); err != nil {
		t.Fatalf("LinkEntries() failed: %v", err)
	}

	stats, err := svc.GetAdminStatistics(ctx, "boss@example.com")
	if err != nil {
		t.Fatalf("GetAdminStatistics() failed: %v", err)
	}
	if stats.InwardEntries != 1 || stats.OutwardEntries != 1 || stats.Confirmations != 1 {
		t.Errorf("stats = %+v", stats)
	}
	if stats.LinkStats.TotalEdges != 2 || stats.LinkStats.TotalLinkActions != 1 || stats.LinkStats.LinkedEntries != 2 {
		t.Errorf("link stats = %+v", stats.LinkStats)
	}
	if stats.PendingTotal != 1 {
		t.Errorf("PendingTotal = %d, want 1 (outward unconfirmed)", stats.PendingTotal)
	}
	if len(stats.Users) != 1 || stats.Users[0].Email != "alice@example.com" {
		t.Errorf("users = %+v", stats.Users)
	}
}

func TestGenerateSystemReport(t *testing.T) {
	svc, _ := newTestService(t, nil)
	ctx := context.Background()

	if _, err := svc.GenerateSystemReport(ctx, "alice@example.com"); !errors.Is(err, ErrAccessDenied) {
		t.Fatalf("non-admin error = %v, want ErrAccessDenied", err)
	}

	inwardID := mustCreate(t, svc, "alice@example.com", completeInput(storage.SheetInward))
	mustCreate(t, svc, "alice@example.com", completeInput(storage.SheetOutward))
	if _, err := svc.ConfirmEntry(ctx, "alice@example.com", inwardID, ""); err != nil {
		t.Fatalf("ConfirmEntry() failed: %v", err)
	}

	rep, err := svc.GenerateSystemReport(ctx, "boss@example.com")
	if err != nil {
		t.Fatalf("GenerateSystemReport() failed: %v", err)
	}
	if rep.InwardEntries != 1 || rep.OutwardEntries != 1 {
		t.Errorf("report = %+v", rep)
	}
	if rep.InwardStats.Confirmed != 1 || rep.OutwardStats.Pending != 1 {
		t.Errorf("stats = %+v / %+v", rep.InwardStats, rep.OutwardStats)
	}
	if rep.PendingItems != 1 {
		t.Errorf("PendingItems = %d, want 1", rep.PendingItems)
	}
	if rep.GeneratedAt == "" {
		t.Error("GeneratedAt missing")
	}
}

func TestGenerateFinancialReport(t *testing.T) {
	svc, _ := newTestService(t, nil)
	ctx := context.Background()

	inwardID := mustCreate(t, svc, "alice@example.com", completeInput(storage.SheetInward))

	out := completeInput(storage.SheetOutward)
	out.PostalTariff = "Rs. 25.50"
	outwardID := mustCreate(t, svc, "alice@example.com", out)
	if _, err := svc.LinkEntries(ctx, "alice@example.com", outwardID, []string{inwardID}); err != nil {
		t.Fatalf("LinkEntries() failed: %v", err)
	}

	out2 := completeInput(storage.SheetOutward)
	out2.DateTime = "2025-01-05"
	out2.PostalTariff = "10"
	mustCreate(t, svc, "alice@example.com", out2)

	t.Run("full range", func(t *testing.T) {
		rep, err := svc.GenerateFinancialReport(ctx, "alice@example.com", time.Time{}, time.Time{})
		if err != nil {
			t.Fatalf("GenerateFinancialReport() failed: %v", err)
		}
		if len(rep.Items) != 2 {
			t.Fatalf("got %d items, want 2", len(rep.Items))
		}
		if rep.TotalExpenditure != 35.5 {
			t.Errorf("TotalExpenditure = %v, want 35.5", rep.TotalExpenditure)
		}
		if rep.Items[0].CrossNo != "INW/2026/001" {
			t.Errorf("CrossNo = %q, want the linked inward reference", rep.Items[0].CrossNo)
		}
		if rep.Items[1].CrossNo != "" {
			t.Errorf("unlinked CrossNo = %q, want empty", rep.Items[1].CrossNo)
		}
	})

	t.Run("date range", func(t *testing.T) {
		from := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
		rep, err := svc.GenerateFinancialReport(ctx, "alice@example.com", from, time.Time{})
		if err != nil {
			t.Fatalf("GenerateFinancialReport() failed: %v", err)
		}
		if len(rep.Items) != 1 || rep.TotalExpenditure != 25.5 {
			t.Errorf("report = %+v, want only the 2026 dispatch", rep)
		}
	})
}

func TestSendWeeklyPendingReport(t *testing.T) {
	ctrl := gomock.NewController(t)

	t.Run("sends digest when work is pending", func(t *testing.T) {
		mockMail := mocks.NewMockMailer(ctrl)
		svc, _ := newTestService(t, mockMail)
		ctx := context.Background()

		mustCreate(t, svc, "alice@example.com", completeInput(storage.SheetInward))

		mockMail.EXPECT().
			Send(gomock.Any(), "boss@example.com", "Inward/Outward Pending Report", gomock.Any()).
			DoAndReturn(func(_ context.Context, _, _, body string) error {
				if !strings.Contains(body, "Inward-2") {
					t.Errorf("digest body missing pending entry")
				}
				return nil
			})

		if err := svc.SendWeeklyPendingReport(ctx); err != nil {
			t.Fatalf("SendWeeklyPendingReport() failed: %v", err)
		}
	})

	t.Run("no mail when nothing is pending", func(t *testing.T) {
		mockMail := mocks.NewMockMailer(ctrl)
		svc, _ := newTestService(t, mockMail)

		if err := svc.SendWeeklyPendingReport(context.Background()); err != nil {
			t.Fatalf("SendWeeklyPendingReport() failed: %v", err)
		}
	})

	t.Run("no mail when boss address unset", func(t *testing.T) {
		mockMail := mocks.NewMockMailer(ctrl)
		svc, _ := newTestService(t, mockMail)
		svc.cfg.BossEmail = ""

		mustCreate(t, svc, "alice@example.com", completeInput(storage.SheetInward))
		if err := svc.SendWeeklyPendingReport(context.Background()); err != nil {
			t.Fatalf("SendWeeklyPendingReport() failed: %v", err)
		}
	})

	t.Run("mailer failure surfaces", func(t *testing.T) {
		mockMail := mocks.NewMockMailer(ctrl)
		svc, _ := newTestService(t, mockMail)

		mustCreate(t, svc, "alice@example.com", completeInput(storage.SheetInward))
		mockMail.EXPECT().
			Send(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(errors.New("relay down"))

		if err := svc.SendWeeklyPendingReport(context.Background()); err == nil {
			t.Fatal("SendWeeklyPendingReport() must surface mailer errors")
		}
	})
}

func TestGetLinkableEntries(t *testing.T) {
	svc, _ := newTestService(t, nil)
	ctx := context.Background()

	a := mustCreate(t, svc, "alice@example.com", completeInput(storage.SheetInward))
	b := mustCreate(t, svc, "alice@example.com", completeInput(storage.SheetOutward))
	c := mustCreate(t, svc, "alice@example.com", completeInput(storage.SheetInward))

	if _, err := svc.LinkEntries(ctx, "alice@example.com", a, []string{b}); err != nil {
		t.Fatalf("LinkEntries() failed: %v", err)
	}

	linkable, err := svc.GetLinkableEntries(ctx, "alice@example.com", a)
	if err != nil {
		t.Fatalf("GetLinkableEntries() failed: %v", err)
	}
	if len(linkable) != 1 || linkable[0].ID != c {
		t.Errorf("linkable = %+v, want only the unlinked entry %s", linkable, c)
	}
}

func TestGetAllLinkedEntries(t *testing.T) {
	svc, _ := newTestService(t, nil)
	ctx := context.Background()

	a := mustCreate(t, svc, "alice@example.com", completeInput(storage.SheetInward))
	b := mustCreate(t, svc, "alice@example.com", completeInput(storage.SheetOutward))
	mustCreate(t, svc, "alice@example.com", completeInput(storage.SheetInward))

	if _, err := svc.LinkEntries(ctx, "alice@example.com", a, []string{b}); err != nil {
		t.Fatalf("LinkEntries() failed: %v", err)
	}

	linked, err := svc.GetAllLinkedEntries(ctx, "alice@example.com")
	if err != nil {
		t.Fatalf("GetAllLinkedEntries() failed: %v", err)
	}
	if len(linked) != 2 {
		t.Errorf("got %d linked entries, want 2", len(linked))
	}
}
