// Package report renders the weekly pending-work email digest.
package report

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/yuin/goldmark"

	"github.com/Intern1-ss/Inward-outward-management-system/internal/register"
	"github.com/Intern1-ss/Inward-outward-management-system/internal/storage"
)

// Digest statuses. An inward entry with no action recorded needs a decision;
// everything else pending just awaits physical filing work.
const (
	StatusActionRequired      = "Action Required"
	StatusPendingPhysicalWork = "Pending Physical Work"
)

// PendingItem is one line of the weekly digest.
type PendingItem struct {
	EntryID  string
	Register string
	RefNo    string
	Person   string
	Subject  string
	DateTime string
	Status   string
}

// BuildPendingItems collects every complete, unconfirmed entry from both
// registers in row order, inward first.
func BuildPendingItems(inward, outward []storage.EntryRow, confirmations register.ConfirmationIndex) []PendingItem {
	var items []PendingItem

	collect := func(rows []storage.EntryRow) {
		for i := range rows {
			row := &rows[i]
			if !register.IsComplete(row) {
				continue
			}
			if confirmations.Has(row.EntryID()) {
				continue
			}

			status := StatusPendingPhysicalWork
			if row.Sheet == storage.SheetInward && row.ActionStatus == "" {
				status = StatusActionRequired
			}
			items = append(items, PendingItem{
				EntryID:  row.EntryID(),
				Register: row.Sheet,
				RefNo:    row.RefNo,
				Person:   row.Person,
				Subject:  row.Subject,
				DateTime: register.FormatDateTime(row.OccurredAt),
				Status:   status,
			})
		}
	}
	collect(inward)
	collect(outward)

	return items
}

var digestTemplate = template.Must(template.New("digest").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #222;">
  <h2>Pending Correspondence Report</h2>
  <p>{{.Total}} entr{{if eq .Total 1}}y{{else}}ies{{end}} pending as of {{.GeneratedAt}}.</p>
  {{.Note}}
  <table border="1" cellpadding="6" cellspacing="0" style="border-collapse: collapse;">
    <tr style="background: #f0f0f0;">
      <th>Entry</th><th>Register</th><th>Ref No</th><th>From/To</th>
      <th>Subject</th><th>Date</th><th>Status</th>
    </tr>
    {{range .Items}}
    <tr>
      <td>{{.EntryID}}</td>
      <td>{{.Register}}</td>
      <td>{{.RefNo}}</td>
      <td>{{.Person}}</td>
      <td>{{.Subject}}</td>
      <td>{{.DateTime}}</td>
      <td{{if eq .Status "Action Required"}} style="color: #b00;"{{end}}>{{.Status}}</td>
    </tr>
    {{end}}
  </table>
</body>
</html>`))

// RenderDigest renders the digest email body. The note is Markdown and is
// converted to HTML, so operators can put links and emphasis into the
// configured report note.
func RenderDigest(items []PendingItem, noteMarkdown, generatedAt string) (string, error) {
	var note bytes.Buffer
	if noteMarkdown != "" {
		if err := goldmark.Convert([]byte(noteMarkdown), &note); err != nil {
			return "", fmt.Errorf("failed to render report note: %w", err)
		}
	}

	data := struct {
		Items       []PendingItem
		Total       int
		Note        template.HTML
		GeneratedAt string
	}{
		Items:       items,
		Total:       len(items),
		Note:        template.HTML(note.String()),
		GeneratedAt: generatedAt,
	}

	var buf bytes.Buffer
	if err := digestTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render digest: %w", err)
	}
	return buf.String(), nil
}
