package handlers

import (
	"net/http"

	"github.com/Intern1-ss/Inward-outward-management-system/internal/contextutil"
	"github.com/Intern1-ss/Inward-outward-management-system/internal/service"
)

// SearchHandler handles HTTP requests for entry search.
type SearchHandler struct {
	svc *service.Service
}

// NewSearchHandler creates a new SearchHandler.
func NewSearchHandler(svc *service.Service) *SearchHandler {
	return &SearchHandler{svc: svc}
}

// Search scans the registers for the query. The optional kindFilter
// parameter accepts all, inward or outward; the optional linkFilter
// parameter accepts all, linked-only, no-links or by-uuid.
func (h *SearchHandler) Search(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	query := r.URL.Query().Get("q")
	kindFilter := r.URL.Query().Get("kindFilter")
	linkFilter := r.URL.Query().Get("linkFilter")

	results, err := h.svc.SearchEntries(ctx, contextutil.UserEmailFromContext(ctx), query, kindFilter, linkFilter)
	if err != nil {
		writeServiceError(w, ctx, err)
		return
	}
	writeSuccess(w, "Search completed", envelope{
		"results": results,
		"count":   len(results),
	})
}
