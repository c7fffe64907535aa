package handlers

import (
	"net/http"
	"time"

	"github.com/Intern1-ss/Inward-outward-management-system/internal/contextutil"
	"github.com/Intern1-ss/Inward-outward-management-system/internal/service"
)

// ReportHandler handles HTTP requests for reports and admin statistics.
type ReportHandler struct {
	svc *service.Service
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(svc *service.Service) *ReportHandler {
	return &ReportHandler{svc: svc}
}

// GetAdminStatistics returns the system overview. Admin only.
func (h *ReportHandler) GetAdminStatistics(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	stats, err := h.svc.GetAdminStatistics(ctx, contextutil.UserEmailFromContext(ctx))
	if err != nil {
		writeServiceError(w, ctx, err)
		return
	}
	writeSuccess(w, "Admin statistics loaded", envelope{"stats": stats})
}

// GetSystemReport returns the whole-system summary. Admin only.
func (h *ReportHandler) GetSystemReport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	rep, err := h.svc.GenerateSystemReport(ctx, contextutil.UserEmailFromContext(ctx))
	if err != nil {
		writeServiceError(w, ctx, err)
		return
	}
	writeSuccess(w, "System report generated", envelope{"report": rep})
}

// GetFinancialReport totals postal expenditure over the outward register.
// Optional from and to query parameters restrict the date range
// (YYYY-MM-DD).
func (h *ReportHandler) GetFinancialReport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	from, ok := parseDateParam(w, r, "from")
	if !ok {
		return
	}
	to, ok := parseDateParam(w, r, "to")
	if !ok {
		return
	}
	if !to.IsZero() {
		// Make the range inclusive of the whole end day.
		to = to.Add(24*time.Hour - time.Second)
	}

	rep, err := h.svc.GenerateFinancialReport(ctx, contextutil.UserEmailFromContext(ctx), from, to)
	if err != nil {
		writeServiceError(w, ctx, err)
		return
	}
	writeSuccess(w, "Financial report generated", envelope{
		"items":            rep.Items,
		"totalExpenditure": rep.TotalExpenditure,
	})
}

func parseDateParam(w http.ResponseWriter, r *http.Request, name string) (time.Time, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return time.Time{}, true
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		writeFailure(w, http.StatusBadRequest, "Invalid "+name+" date, expected YYYY-MM-DD")
		return time.Time{}, false
	}
	return t, true
}

// TriggerWeeklyReport sends the pending-work digest immediately. Admin only;
// the scheduler calls the service directly.
func (h *ReportHandler) TriggerWeeklyReport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	user := h.svc.CurrentUser(contextutil.UserEmailFromContext(ctx))
	if !user.IsAdmin {
		writeServiceError(w, ctx, service.ErrAccessDenied)
		return
	}

	if err := h.svc.SendWeeklyPendingReport(ctx); err != nil {
		writeServiceError(w, ctx, err)
		return
	}
	writeSuccess(w, "Pending report processed", nil)
}
