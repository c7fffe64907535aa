package http

import (
	"database/sql"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/Intern1-ss/Inward-outward-management-system/internal/handlers"
	"github.com/Intern1-ss/Inward-outward-management-system/internal/service"
)

// Deps holds dependencies for the HTTP router.
type Deps struct {
	Service *service.Service
	DB      *sql.DB
}

// NewRouter creates a new HTTP router with the provided dependencies.
func NewRouter(deps *Deps) http.Handler {
	r := chi.NewRouter()

	// Add chi middleware
	r.Use(middleware.Recoverer)
	r.Use(LoggerMiddleware)
	r.Use(IdentityMiddleware)
	r.Use(CORS)

	entryHandler := handlers.NewEntryHandler(deps.Service)
	confirmHandler := handlers.NewConfirmHandler(deps.Service)
	linkHandler := handlers.NewLinkHandler(deps.Service)
	searchHandler := handlers.NewSearchHandler(deps.Service)
	reportHandler := handlers.NewReportHandler(deps.Service)
	healthHandler := handlers.NewHealthHandler(deps.DB)

	r.Route("/api", func(r chi.Router) {
		r.Method(http.MethodGet, "/health", healthHandler)

		r.Get("/user", entryHandler.GetCurrentUser)
		r.Get("/initial-data", entryHandler.GetInitialData)
		r.Get("/dashboard", entryHandler.GetDashboardData)

		r.Route("/entries", func(r chi.Router) {
			r.Get("/", entryHandler.GetEntries)
			r.Post("/", entryHandler.CreateEntry)
			r.Put("/{entryID}", entryHandler.UpdateEntry)
			r.Patch("/{entryID}/action", entryHandler.UpdateEntryAction)
			r.Post("/{entryID}/confirm", confirmHandler.ConfirmEntry)
			r.Get("/{entryID}/linkable", linkHandler.GetLinkableEntries)
		})

		r.Route("/links", func(r chi.Router) {
			r.Post("/", linkHandler.LinkEntries)
			r.Get("/entries", linkHandler.GetAllLinkedEntries)
			r.Get("/stats", linkHandler.GetLinkStatistics)
		})

		r.Get("/search", searchHandler.Search)

		r.Route("/reports", func(r chi.Router) {
			r.Get("/system", reportHandler.GetSystemReport)
			r.Get("/financial", reportHandler.GetFinancialReport)
			r.Post("/weekly", reportHandler.TriggerWeeklyReport)
		})

		r.Get("/admin/stats", reportHandler.GetAdminStatistics)
	})

	return r
}
