package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Intern1-ss/Inward-outward-management-system/internal/contextutil"
	"github.com/Intern1-ss/Inward-outward-management-system/internal/service"
)

// LinkHandler handles HTTP requests for entry links.
type LinkHandler struct {
	svc *service.Service
}

// NewLinkHandler creates a new LinkHandler.
func NewLinkHandler(svc *service.Service) *LinkHandler {
	return &LinkHandler{svc: svc}
}

// LinkEntries links a primary entry to one or more targets.
func (h *LinkHandler) LinkEntries(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var body struct {
		PrimaryID string   `json:"primaryId"`
		TargetIDs []string `json:"targetIds"`
	}
	if !decodeBody(w, r, &body) {
		return
	}

	result, err := h.svc.LinkEntries(ctx, contextutil.UserEmailFromContext(ctx), body.PrimaryID, body.TargetIDs)
	if err != nil {
		writeServiceError(w, ctx, err)
		return
	}
	writeSuccess(w, "Entries linked successfully", envelope{
		"linkGroupId": result.LinkGroupID,
		"linkedCount": result.LinkedCount,
	})
}

// GetLinkableEntries lists entries a given entry may be linked to.
func (h *LinkHandler) GetLinkableEntries(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	entryID := chi.URLParam(r, "entryID")

	entries, err := h.svc.GetLinkableEntries(ctx, contextutil.UserEmailFromContext(ctx), entryID)
	if err != nil {
		writeServiceError(w, ctx, err)
		return
	}
	writeSuccess(w, "Linkable entries loaded", envelope{"entries": entries})
}

// GetAllLinkedEntries lists every entry with at least one link.
func (h *LinkHandler) GetAllLinkedEntries(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	entries, err := h.svc.GetAllLinkedEntries(ctx, contextutil.UserEmailFromContext(ctx))
	if err != nil {
		writeServiceError(w, ctx, err)
		return
	}
	writeSuccess(w, "Linked entries loaded", envelope{"entries": entries})
}

// GetLinkStatistics summarizes the link log.
func (h *LinkHandler) GetLinkStatistics(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	stats, err := h.svc.GetLinkStatistics(ctx)
	if err != nil {
		writeServiceError(w, ctx, err)
		return
	}
	writeSuccess(w, "Link statistics loaded", envelope{"stats": stats})
}
