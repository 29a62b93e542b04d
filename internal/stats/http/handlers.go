// Package statshttp exposes the workshop analytics dashboard over HTTP.
package statshttp

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/taller-erp/taller-erp/internal/platform/httpx"
	"github.com/taller-erp/taller-erp/internal/stats"
	"github.com/taller-erp/taller-erp/internal/stats/export"
)

const requestTimeout = 5 * time.Second

// StatsService defines the dashboard data contract used by the handler.
type StatsService interface {
	GetDashboard(ctx context.Context, filter stats.Filter) (stats.Dashboard, error)
	GetOverview(ctx context.Context, filter stats.Filter) (stats.Overview, error)
	GetProduction(ctx context.Context, filter stats.Filter) (stats.ProductionStats, error)
	GetMarket(ctx context.Context, filter stats.Filter) (stats.MarketStats, error)
	GetFinancial(ctx context.Context, filter stats.Filter) (stats.FinancialStats, error)
	GetTrend(ctx context.Context, filter stats.Filter) (stats.TrendStats, error)
	GetCRM(ctx context.Context) (stats.CRMStats, error)
}

// Handler coordinates HTTP requests for the analytics dashboard.
type Handler struct {
	logger   *slog.Logger
	service  StatsService
	validate *validator.Validate
	csvPool  sync.Pool
}

// NewHandler constructs the stats HTTP handler.
func NewHandler(logger *slog.Logger, service StatsService) *Handler {
	h := &Handler{
		logger:   logger,
		service:  service,
		validate: validator.New(),
	}
	h.csvPool.New = func() interface{} { return new(bytes.Buffer) }
	return h
}

func (h *Handler) parseFilter(r *http.Request) (stats.Filter, error) {
	timeframe, err := stats.ParseTimeframe(strings.TrimSpace(r.URL.Query().Get("timeframe")))
	if err != nil {
		return stats.Filter{}, fmt.Errorf("%w: %s", httpx.ErrValidation, err)
	}
	category, err := stats.ParseCategory(strings.TrimSpace(r.URL.Query().Get("category")))
	if err != nil {
		return stats.Filter{}, fmt.Errorf("%w: %s", httpx.ErrValidation, err)
	}
	filter := stats.Filter{Timeframe: timeframe, Category: category}
	if err := h.validate.Struct(filter); err != nil {
		return stats.Filter{}, fmt.Errorf("%w: %s", httpx.ErrValidation, err)
	}
	return filter, nil
}

func (h *Handler) handleDashboard(w http.ResponseWriter, r *http.Request) {
	filter, err := h.parseFilter(r)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	dashboard, err := h.service.GetDashboard(ctx, filter)
	if err != nil {
		h.serverError(w, "load dashboard", err)
		return
	}
	httpx.JSON(w, http.StatusOK, dashboard)
}

func (h *Handler) handleOverview(w http.ResponseWriter, r *http.Request) {
	h.respondDataset(w, r, func(ctx context.Context, filter stats.Filter) (any, error) {
		return h.service.GetOverview(ctx, filter)
	})
}

func (h *Handler) handleProduction(w http.ResponseWriter, r *http.Request) {
	h.respondDataset(w, r, func(ctx context.Context, filter stats.Filter) (any, error) {
		return h.service.GetProduction(ctx, filter)
	})
}

func (h *Handler) handleMarket(w http.ResponseWriter, r *http.Request) {
	h.respondDataset(w, r, func(ctx context.Context, filter stats.Filter) (any, error) {
		return h.service.GetMarket(ctx, filter)
	})
}

func (h *Handler) handleFinancial(w http.ResponseWriter, r *http.Request) {
	h.respondDataset(w, r, func(ctx context.Context, filter stats.Filter) (any, error) {
		return h.service.GetFinancial(ctx, filter)
	})
}

func (h *Handler) handleTrend(w http.ResponseWriter, r *http.Request) {
	h.respondDataset(w, r, func(ctx context.Context, filter stats.Filter) (any, error) {
		return h.service.GetTrend(ctx, filter)
	})
}

func (h *Handler) handleCRM(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	crm, err := h.service.GetCRM(ctx)
	if err != nil {
		h.serverError(w, "load crm", err)
		return
	}
	httpx.JSON(w, http.StatusOK, crm)
}

func (h *Handler) respondDataset(w http.ResponseWriter, r *http.Request, load func(context.Context, stats.Filter) (any, error)) {
	filter, err := h.parseFilter(r)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	data, err := load(ctx, filter)
	if err != nil {
		h.serverError(w, "load dataset", err)
		return
	}
	httpx.JSON(w, http.StatusOK, data)
}

func (h *Handler) handleCSV(w http.ResponseWriter, r *http.Request) {
	filter, err := h.parseFilter(r)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	dashboard, err := h.service.GetDashboard(ctx, filter)
	if err != nil {
		h.serverError(w, "load dashboard", err)
		return
	}

	buf := h.csvPool.Get().(*bytes.Buffer)
	buf.Reset()
	defer func() {
		buf.Reset()
		h.csvPool.Put(buf)
	}()

	sections := []func() error{
		func() error { return export.WriteOverviewCSV(buf, dashboard.Overview) },
		func() error { return export.WriteProductionCSV(buf, dashboard.Production) },
		func() error { return export.WriteMarketCSV(buf, dashboard.Market) },
		func() error { return export.WriteFinancialCSV(buf, dashboard.Financial) },
		func() error { return export.WriteTrendCSV(buf, dashboard.Trend) },
		func() error { return export.WriteCRMCSV(buf, dashboard.CRM) },
	}
	for i, write := range sections {
		if i > 0 {
			buf.WriteString("\n")
		}
		if err := write(); err != nil {
			h.serverError(w, "write csv", err)
			return
		}
	}

	filename := fmt.Sprintf("taller-stats-%s-%s.csv", filter.Timeframe, filter.Category)
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	if _, err := w.Write(buf.Bytes()); err != nil {
		h.logError("stream csv", err)
	}
}

func (h *Handler) serverError(w http.ResponseWriter, msg string, err error) {
	h.logError(msg, err)
	httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
}

func (h *Handler) logError(msg string, err error) {
	if h.logger != nil {
		h.logger.Error(msg, slog.Any("error", err))
	}
}
