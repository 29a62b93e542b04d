package stats

import (
	"fmt"
	"sort"
	"time"

	"github.com/taller-erp/taller-erp/internal/workshop"
)

// TrendPoint is one bucket of the revenue-over-time series.
type TrendPoint struct {
	Label   string  `json:"label"`
	Revenue float64 `json:"revenue"`
}

// TrendStats is the sales-trend dataset: a chronological revenue series
// bucketed to the timeframe granularity and the strongest weekday.
type TrendStats struct {
	Points  []TrendPoint `json:"points"`
	BestDay string       `json:"best_day"`
}

var spanishWeekdays = [7]string{"Dom", "Lun", "Mar", "Mié", "Jue", "Vie", "Sáb"}

var spanishMonths = [12]string{"ene", "feb", "mar", "abr", "may", "jun", "jul", "ago", "sep", "oct", "nov", "dic"}

// ComputeTrend buckets non-cancelled revenue over time: hourly for
// today, monthly for year/all, daily otherwise. Points come back in
// chronological order.
func ComputeTrend(orders []workshop.Order, tf Timeframe) TrendStats {
	sorted := make([]workshop.Order, len(orders))
	copy(sorted, orders)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt.Before(sorted[j].CreatedAt)
	})

	revenue := make(map[string]float64)
	var labels []string
	weekdayRevenue := make(map[int]float64)

	for _, order := range sorted {
		if order.Status == workshop.StatusCancelled {
			continue
		}
		label := trendLabel(order.CreatedAt, tf)
		if _, seen := revenue[label]; !seen {
			labels = append(labels, label)
		}
		revenue[label] += order.TotalAmount
		weekdayRevenue[int(order.CreatedAt.Weekday())] += order.TotalAmount
	}

	points := make([]TrendPoint, 0, len(labels))
	for _, label := range labels {
		points = append(points, TrendPoint{Label: label, Revenue: revenue[label]})
	}

	bestDay := "-"
	var bestRevenue float64
	for day := 0; day < 7; day++ {
		if amount, ok := weekdayRevenue[day]; ok && amount > bestRevenue {
			bestRevenue = amount
			bestDay = spanishWeekdays[day]
		}
	}

	return TrendStats{Points: points, BestDay: bestDay}
}

func trendLabel(t time.Time, tf Timeframe) string {
	switch tf {
	case TimeframeToday:
		return fmt.Sprintf("%02d:00", t.Hour())
	case TimeframeYear, TimeframeAll:
		return spanishMonths[t.Month()-1]
	default:
		return t.Format("02/01")
	}
}

// UniqueClients counts the distinct clients referenced by a subset.
func UniqueClients(orders []workshop.Order) int {
	seen := make(map[string]struct{}, len(orders))
	for _, order := range orders {
		seen[order.ClientID] = struct{}{}
	}
	return len(seen)
}
