package storage

// Sheet names of the two correspondence registers. They double as the first
// component of an entry id ("Inward-2").
const (
	SheetInward  = "Inward"
	SheetOutward = "Outward"
)

// EntryRow is one raw row of the Inward or Outward register.
//
// Free-text fields are stored exactly as written, including OccurredAt: a
// value that fails to parse as a date is still carried through rather than
// rejected, the same tolerance a paper register gives its clerks.
type EntryRow struct {
	Sheet         string // SheetInward or SheetOutward
	RowNumber     int64  // 1-based, data starts at 2
	UID           string // durable opaque id assigned at creation
	SerialNo      int64  // Sl. No column, RowNumber-1 by construction
	Means         string
	RefNo         string // Inward No / Outward No
	Person        string // From Whom / To Whom
	Subject       string
	Actor         string // Taken By / Sent By
	OccurredAt    string // Date & Time, raw text
	ActionStatus  string // Action Taken (inward) / Case Closed (outward)
	FileReference string
	PostalTariff  string
	DueDate       string // outward only
}

// EntryID returns the positional composite id "<Sheet>-<RowNumber>".
func (r *EntryRow) EntryID() string {
	return EntryID(r.Sheet, r.RowNumber)
}

// ConfirmationRecord is one append-only fact in the Confirmations log.
type ConfirmationRecord struct {
	ID         int64
	CreatedAt  string // RFC3339
	UserEmail  string
	SheetName  string
	RowNumber  int64
	EntryID    string
	Status     string
	Note       string
	ActionType string
}

// LinkRecord is one directed edge in the Entry_Links log. Every user link
// action materializes as two records (forward and reverse) sharing one
// LinkGroupID.
type LinkRecord struct {
	ID            int64
	LinkID        string
	PrimaryEntry  string
	LinkedEntry   string
	LinkType      string
	CreatedAt     string // RFC3339
	CreatedBy     string
	Notes         string
	LinkGroupID   string
}
