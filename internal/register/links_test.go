package register

import (
	"testing"

	"github.com/Intern1-ss/Inward-outward-management-system/internal/storage"
)

func TestLinkIndexResolve(t *testing.T) {
	records := []storage.LinkRecord{
		{LinkID: "l1", PrimaryEntry: "Inward-2", LinkedEntry: "Outward-2", LinkType: "Manual Link", CreatedBy: "alice@example.com", LinkGroupID: "g1"},
		{LinkID: "l2", PrimaryEntry: "Outward-2", LinkedEntry: "Inward-2", LinkType: "Manual Link", CreatedBy: "alice@example.com", LinkGroupID: "g1"},
		{LinkID: "l3", PrimaryEntry: "Inward-2", LinkedEntry: "Outward-99", LinkType: "Manual Link", CreatedBy: "alice@example.com", LinkGroupID: "g2"},
		{PrimaryEntry: "", LinkedEntry: "Inward-2"},
	}
	snap := BuildRowSnapshot(
		[]storage.EntryRow{{Sheet: storage.SheetInward, RowNumber: 2, Subject: "Invoice", Person: "Acme"}},
		[]storage.EntryRow{{Sheet: storage.SheetOutward, RowNumber: 2}},
	)

	idx := BuildLinkIndex(records)

	linked := idx.Resolve("Inward-2", snap)
	if len(linked) != 1 {
		t.Fatalf("Resolve(Inward-2) returned %d entries, want 1 (dangling target dropped)", len(linked))
	}
	if linked[0].ID != "Outward-2" {
		t.Errorf("linked ID = %q, want Outward-2", linked[0].ID)
	}
	if linked[0].Subject != "No Subject" || linked[0].Person != "Unknown" {
		t.Errorf("blank target fields = (%q, %q), want placeholders", linked[0].Subject, linked[0].Person)
	}
	if linked[0].GroupID != "g1" {
		t.Errorf("GroupID = %q, want g1", linked[0].GroupID)
	}

	reverse := idx.Resolve("Outward-2", snap)
	if len(reverse) != 1 || reverse[0].ID != "Inward-2" {
		t.Fatalf("Resolve(Outward-2) = %+v, want the reverse edge to Inward-2", reverse)
	}
	if reverse[0].Subject != "Invoice" {
		t.Errorf("reverse Subject = %q, want Invoice", reverse[0].Subject)
	}

	if got := idx.Resolve("Inward-999", snap); len(got) != 0 {
		t.Errorf("Resolve(unknown) = %+v, want empty", got)
	}
}
