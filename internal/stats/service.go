package stats

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/taller-erp/taller-erp/internal/workshop"
)

// SnapshotSource loads the order and client snapshots the engines run
// over. The production implementation is the workshop pgx repository.
type SnapshotSource interface {
	ListOrders(ctx context.Context) ([]workshop.Order, error)
	ListClients(ctx context.Context) ([]workshop.Client, error)
}

// Filter scopes a dashboard request.
type Filter struct {
	Timeframe Timeframe `validate:"required"`
	Category  Category  `validate:"required"`
}

// Service coordinates snapshot loading, the pure engines and the cache
// layer. The engines themselves never touch I/O.
type Service struct {
	source SnapshotSource
	cache  *Cache
	now    func() time.Time
	group  singleflight.Group
}

// NewService wires a SnapshotSource with a Cache helper.
func NewService(source SnapshotSource, cache *Cache) *Service {
	return &Service{source: source, cache: cache, now: time.Now}
}

// Overview is the dashboard header: current metrics, the congruent
// previous period for comparison, and the derived headline figures.
type Overview struct {
	Timeframe      Timeframe     `json:"timeframe"`
	Category       Category      `json:"category"`
	Windows        PeriodWindows `json:"windows"`
	Current        Metrics       `json:"current"`
	Previous       Metrics       `json:"previous"`
	UniqueClients  int           `json:"unique_clients"`
	PrevClients    int           `json:"prev_clients"`
	CompletionRate float64       `json:"completion_rate"`
}

// Dashboard bundles every dataset a single page load needs.
type Dashboard struct {
	Overview   Overview        `json:"overview"`
	Production ProductionStats `json:"production"`
	Market     MarketStats     `json:"market"`
	Financial  FinancialStats  `json:"financial"`
	Trend      TrendStats      `json:"trend"`
	CRM        CRMStats        `json:"crm"`
}

// filterOrders selects the subset inside the window that passes the
// category filter. Trashed orders are soft-deleted and never reach any
// aggregation. Inputs are never mutated.
func filterOrders(orders []workshop.Order, window Window, category Category) []workshop.Order {
	subset := make([]workshop.Order, 0, len(orders))
	for _, order := range orders {
		if order.Status == workshop.StatusTrash {
			continue
		}
		if !window.Contains(order.CreatedAt) {
			continue
		}
		if !MatchesFilter(order, category) {
			continue
		}
		subset = append(subset, order)
	}
	return subset
}

func (s *Service) currentSubset(ctx context.Context, filter Filter) ([]workshop.Order, PeriodWindows, error) {
	orders, err := s.source.ListOrders(ctx)
	if err != nil {
		return nil, PeriodWindows{}, err
	}
	windows := ResolvePeriod(filter.Timeframe, s.now())
	return filterOrders(orders, windows.Current, filter.Category), windows, nil
}

// GetOverview resolves the headline metrics using cache-aware lookups.
func (s *Service) GetOverview(ctx context.Context, filter Filter) (Overview, error) {
	loader := func(ctx context.Context) (interface{}, error) {
		orders, err := s.source.ListOrders(ctx)
		if err != nil {
			return Overview{}, err
		}
		windows := ResolvePeriod(filter.Timeframe, s.now())
		current := filterOrders(orders, windows.Current, filter.Category)
		previous := filterOrders(orders, windows.Previous, filter.Category)

		overview := Overview{
			Timeframe:     filter.Timeframe,
			Category:      filter.Category,
			Windows:       windows,
			Current:       AggregateMetrics(current),
			Previous:      AggregateMetrics(previous),
			UniqueClients: UniqueClients(current),
			PrevClients:   UniqueClients(previous),
		}
		overview.CompletionRate = overview.Current.CompletionRate()
		return overview, nil
	}

	var overview Overview
	if err := s.cache.FetchJSON(ctx, keyDataset("overview", filter), &overview, loader); err != nil {
		return Overview{}, err
	}
	return overview, nil
}

// GetProduction resolves the production dataset for the filter.
func (s *Service) GetProduction(ctx context.Context, filter Filter) (ProductionStats, error) {
	loader := func(ctx context.Context) (interface{}, error) {
		subset, _, err := s.currentSubset(ctx, filter)
		if err != nil {
			return ProductionStats{}, err
		}
		return ComputeProduction(subset, s.now()), nil
	}

	var stats ProductionStats
	if err := s.cache.FetchJSON(ctx, keyDataset("production", filter), &stats, loader); err != nil {
		return ProductionStats{}, err
	}
	return stats, nil
}

// GetMarket resolves the product ranking dataset for the filter.
func (s *Service) GetMarket(ctx context.Context, filter Filter) (MarketStats, error) {
	loader := func(ctx context.Context) (interface{}, error) {
		subset, _, err := s.currentSubset(ctx, filter)
		if err != nil {
			return MarketStats{}, err
		}
		return ComputeMarketRanking(subset), nil
	}

	var stats MarketStats
	if err := s.cache.FetchJSON(ctx, keyDataset("market", filter), &stats, loader); err != nil {
		return MarketStats{}, err
	}
	return stats, nil
}

// GetFinancial resolves the revenue breakdown dataset for the filter.
func (s *Service) GetFinancial(ctx context.Context, filter Filter) (FinancialStats, error) {
	loader := func(ctx context.Context) (interface{}, error) {
		subset, _, err := s.currentSubset(ctx, filter)
		if err != nil {
			return FinancialStats{}, err
		}
		return ComputeFinancialBreakdown(subset), nil
	}

	var stats FinancialStats
	if err := s.cache.FetchJSON(ctx, keyDataset("financial", filter), &stats, loader); err != nil {
		return FinancialStats{}, err
	}
	return stats, nil
}

// GetTrend resolves the revenue-over-time series for the filter.
func (s *Service) GetTrend(ctx context.Context, filter Filter) (TrendStats, error) {
	loader := func(ctx context.Context) (interface{}, error) {
		subset, _, err := s.currentSubset(ctx, filter)
		if err != nil {
			return TrendStats{}, err
		}
		return ComputeTrend(subset, filter.Timeframe), nil
	}

	var stats TrendStats
	if err := s.cache.FetchJSON(ctx, keyDataset("trend", filter), &stats, loader); err != nil {
		return TrendStats{}, err
	}
	return stats, nil
}

// GetCRM resolves the client-intelligence dataset. CRM always spans the
// full history, so the period filter does not participate in the key.
func (s *Service) GetCRM(ctx context.Context) (CRMStats, error) {
	loader := func(ctx context.Context) (interface{}, error) {
		orders, err := s.source.ListOrders(ctx)
		if err != nil {
			return CRMStats{}, err
		}
		clients, err := s.source.ListClients(ctx)
		if err != nil {
			return CRMStats{}, err
		}
		return SegmentClients(clients, orders, s.now()), nil
	}

	var stats CRMStats
	if err := s.cache.FetchJSON(ctx, "stats:crm", &stats, loader); err != nil {
		return CRMStats{}, err
	}
	return stats, nil
}

// GetDashboard assembles every dataset in parallel. Concurrent requests
// for the same filter collapse onto a single build.
func (s *Service) GetDashboard(ctx context.Context, filter Filter) (Dashboard, error) {
	value, err, _ := s.group.Do(keyDataset("dashboard", filter), func() (interface{}, error) {
		var dash Dashboard
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() (err error) {
			dash.Overview, err = s.GetOverview(gctx, filter)
			return err
		})
		g.Go(func() (err error) {
			dash.Production, err = s.GetProduction(gctx, filter)
			return err
		})
		g.Go(func() (err error) {
			dash.Market, err = s.GetMarket(gctx, filter)
			return err
		})
		g.Go(func() (err error) {
			dash.Financial, err = s.GetFinancial(gctx, filter)
			return err
		})
		g.Go(func() (err error) {
			dash.Trend, err = s.GetTrend(gctx, filter)
			return err
		})
		g.Go(func() (err error) {
			dash.CRM, err = s.GetCRM(gctx)
			return err
		})
		if err := g.Wait(); err != nil {
			return Dashboard{}, err
		}
		return dash, nil
	})
	if err != nil {
		return Dashboard{}, err
	}
	return value.(Dashboard), nil
}

// Invalidate bumps the cache version after a snapshot mutation.
func (s *Service) Invalidate(ctx context.Context) error {
	return s.cache.Bump(ctx)
}
