package statshttp

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"
)

// MountRoutes registers analytics endpoints onto the router.
func (h *Handler) MountRoutes(r chi.Router) {
	if h == nil {
		return
	}
	limiter := httprate.Limit(10, time.Minute,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
		}),
	)

	r.Route("/stats", func(r chi.Router) {
		r.Get("/dashboard", h.handleDashboard)
		r.Get("/overview", h.handleOverview)
		r.Get("/production", h.handleProduction)
		r.Get("/market", h.handleMarket)
		r.Get("/financial", h.handleFinancial)
		r.Get("/trend", h.handleTrend)
		r.Get("/crm", h.handleCRM)
		r.Group(func(gr chi.Router) {
			gr.Use(limiter)
			gr.Get("/export.csv", h.handleCSV)
		})
	})
}
