package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"github.com/taller-erp/taller-erp/internal/stats"
)

const warmupScopeTimeout = 20 * time.Second

// StatsWarmupJob pre-populates the dashboard caches for the filter
// combinations the UI requests most, so the first morning load is warm.
type StatsWarmupJob struct {
	Service *stats.Service
	Logger  *slog.Logger
	clock   func() time.Time
}

// NewStatsWarmupJob wires dependencies for the warmup handler.
func NewStatsWarmupJob(service *stats.Service, logger *slog.Logger) *StatsWarmupJob {
	return &StatsWarmupJob{
		Service: service,
		Logger:  logger,
		clock: func() time.Time {
			return time.Now().UTC()
		},
	}
}

// Handle processes stats warmup tasks.
func (j *StatsWarmupJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.Service == nil {
		return errors.New("stats warmup: handler not configured")
	}
	var payload StatsWarmupPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}

	timeframes, err := warmupTimeframes(payload.Timeframes)
	if err != nil {
		return asynq.SkipRetry
	}
	categories, err := warmupCategories(payload.Categories)
	if err != nil {
		return asynq.SkipRetry
	}

	logger := j.logger()
	logger.Info("starting stats warmup",
		slog.Int("timeframes", len(timeframes)), slog.Int("categories", len(categories)))

	started := j.now()
	warmed := 0
	for _, tf := range timeframes {
		for _, category := range categories {
			if err := j.warmFilter(ctx, stats.Filter{Timeframe: tf, Category: category}); err != nil {
				logger.Error("warm filter",
					slog.String("timeframe", string(tf)), slog.String("category", string(category)), slog.Any("error", err))
				return err
			}
			warmed++
		}
	}

	logger.Info("completed stats warmup", slog.Int("filters", warmed), slog.Duration("duration", time.Since(started)))
	return nil
}

func (j *StatsWarmupJob) warmFilter(ctx context.Context, filter stats.Filter) error {
	scopeCtx, cancel := context.WithTimeout(ctx, warmupScopeTimeout)
	defer cancel()
	_, err := j.Service.GetDashboard(scopeCtx, filter)
	return err
}

func warmupTimeframes(raw []string) ([]stats.Timeframe, error) {
	if len(raw) == 0 {
		return []stats.Timeframe{
			stats.TimeframeToday, stats.TimeframeWeek, stats.TimeframeMonth,
			stats.TimeframeYear, stats.TimeframeAll,
		}, nil
	}
	timeframes := make([]stats.Timeframe, 0, len(raw))
	for _, token := range raw {
		tf, err := stats.ParseTimeframe(token)
		if err != nil {
			return nil, err
		}
		timeframes = append(timeframes, tf)
	}
	return timeframes, nil
}

func warmupCategories(raw []string) ([]stats.Category, error) {
	if len(raw) == 0 {
		return []stats.Category{stats.CategoryAll}, nil
	}
	categories := make([]stats.Category, 0, len(raw))
	for _, token := range raw {
		category, err := stats.ParseCategory(token)
		if err != nil {
			return nil, err
		}
		categories = append(categories, category)
	}
	return categories, nil
}

func (j *StatsWarmupJob) logger() *slog.Logger {
	if j.Logger != nil {
		return j.Logger.With(slog.String("job", TaskStatsWarmup))
	}
	return slog.Default().With(slog.String("job", TaskStatsWarmup))
}

func (j *StatsWarmupJob) now() time.Time {
	if j.clock != nil {
		return j.clock()
	}
	return time.Now().UTC()
}
