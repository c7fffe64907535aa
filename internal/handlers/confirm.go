package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Intern1-ss/Inward-outward-management-system/internal/contextutil"
	"github.com/Intern1-ss/Inward-outward-management-system/internal/service"
)

// ConfirmHandler handles HTTP requests for entry confirmation.
type ConfirmHandler struct {
	svc *service.Service
}

// NewConfirmHandler creates a new ConfirmHandler.
func NewConfirmHandler(svc *service.Service) *ConfirmHandler {
	return &ConfirmHandler{svc: svc}
}

// ConfirmEntry records the one-time confirmation of an entry.
func (h *ConfirmHandler) ConfirmEntry(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	entryID := chi.URLParam(r, "entryID")

	var body struct {
		Note string `json:"note"`
	}
	if !decodeBody(w, r, &body) {
		return
	}

	rec, err := h.svc.ConfirmEntry(ctx, contextutil.UserEmailFromContext(ctx), entryID, body.Note)
	if err != nil {
		writeServiceError(w, ctx, err)
		return
	}
	writeSuccess(w, "Entry confirmed successfully", envelope{
		"entryId":     rec.EntryID,
		"confirmedBy": rec.UserEmail,
		"confirmedAt": rec.CreatedAt,
	})
}
