package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Intern1-ss/Inward-outward-management-system/internal/contextutil"
	"github.com/Intern1-ss/Inward-outward-management-system/internal/service"
)

// EntryHandler handles HTTP requests for register entries.
type EntryHandler struct {
	svc *service.Service
}

// NewEntryHandler creates a new EntryHandler.
func NewEntryHandler(svc *service.Service) *EntryHandler {
	return &EntryHandler{svc: svc}
}

// GetCurrentUser returns the caller's resolved identity.
func (h *EntryHandler) GetCurrentUser(w http.ResponseWriter, r *http.Request) {
	user := h.svc.CurrentUser(contextutil.UserEmailFromContext(r.Context()))
	writeSuccess(w, "User resolved", envelope{"user": user})
}

// GetInitialData returns identity, both registers and stats in one call.
func (h *EntryHandler) GetInitialData(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	data, err := h.svc.GetInitialData(ctx, contextutil.UserEmailFromContext(ctx))
	if err != nil {
		writeServiceError(w, ctx, err)
		return
	}
	writeSuccess(w, "Initial data loaded", envelope{
		"user":           data.User,
		"inwardEntries":  data.InwardEntries,
		"outwardEntries": data.OutwardEntries,
		"stats":          data.Stats,
	})
}

// GetDashboardData returns the pending/confirmed stats.
func (h *EntryHandler) GetDashboardData(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	stats, err := h.svc.GetDashboardData(ctx, contextutil.UserEmailFromContext(ctx))
	if err != nil {
		writeServiceError(w, ctx, err)
		return
	}
	writeSuccess(w, "Dashboard data loaded", envelope{"stats": stats})
}

// GetEntries returns both registers with confirmation and link state.
func (h *EntryHandler) GetEntries(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	data, err := h.svc.GetEntriesWithDetails(ctx, contextutil.UserEmailFromContext(ctx))
	if err != nil {
		writeServiceError(w, ctx, err)
		return
	}
	writeSuccess(w, "Entries loaded", envelope{
		"inwardEntries":  data.InwardEntries,
		"outwardEntries": data.OutwardEntries,
	})
}

// CreateEntry appends a new entry to the named register.
func (h *EntryHandler) CreateEntry(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var in service.EntryInput
	if !decodeBody(w, r, &in) {
		return
	}

	entry, err := h.svc.CreateNewEntry(ctx, contextutil.UserEmailFromContext(ctx), in)
	if err != nil {
		writeServiceError(w, ctx, err)
		return
	}
	writeSuccess(w, "Entry created successfully", envelope{"entry": entry})
}

// UpdateEntry overwrites the editable fields of an entry.
func (h *EntryHandler) UpdateEntry(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	entryID := chi.URLParam(r, "entryID")

	var in service.EntryInput
	if !decodeBody(w, r, &in) {
		return
	}

	entry, err := h.svc.UpdateEntry(ctx, contextutil.UserEmailFromContext(ctx), entryID, in)
	if err != nil {
		writeServiceError(w, ctx, err)
		return
	}
	writeSuccess(w, "Entry updated successfully", envelope{"entry": entry})
}

// UpdateEntryAction overwrites only the action/status cell of an entry.
func (h *EntryHandler) UpdateEntryAction(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	entryID := chi.URLParam(r, "entryID")

	var body struct {
		Action string `json:"action"`
	}
	if !decodeBody(w, r, &body) {
		return
	}

	if err := h.svc.UpdateEntryAction(ctx, contextutil.UserEmailFromContext(ctx), entryID, body.Action); err != nil {
		writeServiceError(w, ctx, err)
		return
	}
	writeSuccess(w, "Action updated successfully", nil)
}
