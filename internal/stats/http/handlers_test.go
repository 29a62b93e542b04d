package statshttp

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/taller-erp/taller-erp/internal/stats"
)

type stubService struct {
	dashboard  stats.Dashboard
	lastFilter stats.Filter
}

func (s *stubService) GetDashboard(ctx context.Context, filter stats.Filter) (stats.Dashboard, error) {
	s.lastFilter = filter
	return s.dashboard, nil
}

func (s *stubService) GetOverview(ctx context.Context, filter stats.Filter) (stats.Overview, error) {
	s.lastFilter = filter
	return s.dashboard.Overview, nil
}

func (s *stubService) GetProduction(ctx context.Context, filter stats.Filter) (stats.ProductionStats, error) {
	return s.dashboard.Production, nil
}

func (s *stubService) GetMarket(ctx context.Context, filter stats.Filter) (stats.MarketStats, error) {
	return s.dashboard.Market, nil
}

func (s *stubService) GetFinancial(ctx context.Context, filter stats.Filter) (stats.FinancialStats, error) {
	return s.dashboard.Financial, nil
}

func (s *stubService) GetTrend(ctx context.Context, filter stats.Filter) (stats.TrendStats, error) {
	return s.dashboard.Trend, nil
}

func (s *stubService) GetCRM(ctx context.Context) (stats.CRMStats, error) {
	return s.dashboard.CRM, nil
}

func newTestRouter(service StatsService) http.Handler {
	r := chi.NewRouter()
	NewHandler(nil, service).MountRoutes(r)
	return r
}

func TestHandleDashboardDefaultsFilter(t *testing.T) {
	service := &stubService{dashboard: stats.Dashboard{
		Overview: stats.Overview{Timeframe: stats.TimeframeMonth, Category: stats.CategoryAll},
	}}
	router := newTestRouter(service)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/stats/dashboard", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, stats.TimeframeMonth, service.lastFilter.Timeframe)
	require.Equal(t, stats.CategoryAll, service.lastFilter.Category)

	var payload struct {
		Overview stats.Overview `json:"overview"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	require.Equal(t, stats.TimeframeMonth, payload.Overview.Timeframe)
}

func TestHandleDashboardRejectsUnknownTimeframe(t *testing.T) {
	router := newTestRouter(&stubService{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/stats/dashboard?timeframe=quarter", nil))

	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), "Validation Failed")
}

func TestHandleOverviewPassesFilter(t *testing.T) {
	service := &stubService{}
	router := newTestRouter(service)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/stats/overview?timeframe=week&category=bordado", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, stats.TimeframeWeek, service.lastFilter.Timeframe)
	require.Equal(t, stats.CategoryEmbroidery, service.lastFilter.Category)
}

func TestHandleCSVStreamsSections(t *testing.T) {
	service := &stubService{dashboard: stats.Dashboard{
		Overview: stats.Overview{Timeframe: stats.TimeframeMonth, Category: stats.CategoryAll},
		Financial: stats.FinancialStats{ByCategory: map[stats.Category]float64{
			stats.CategoryConfection: 100,
		}},
		Trend: stats.TrendStats{BestDay: "Lun"},
	}}
	router := newTestRouter(service)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/stats/export.csv", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "text/csv; charset=utf-8", rec.Header().Get("Content-Type"))
	require.Contains(t, rec.Header().Get("Content-Disposition"), "taller-stats-month-all.csv")

	body := rec.Body.String()
	require.Contains(t, body, "Metric,Current,Previous")
	require.Contains(t, body, "Best Day,Lun")
	require.True(t, strings.Count(body, "\n\n") >= 5, "sections must be blank-line separated")
}
