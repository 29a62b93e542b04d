package stats

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/taller-erp/taller-erp/internal/workshop"
)

// FunnelCounts holds the order count per production stage.
type FunnelCounts struct {
	Reception int `json:"reception"`
	Prep      int `json:"prep"`
	Active    int `json:"active"`
	Finishing int `json:"finishing"`
	Completed int `json:"completed"`
}

// MaterialEstimates are the projected consumptions for the subset.
// Fabric uses per-garment coefficients, thread a flat per-unit figure,
// and sublimation paper the annotations embedded in descriptions.
type MaterialEstimates struct {
	FabricMeters      float64 `json:"fabric_meters"`
	ThreadMeters      float64 `json:"thread_meters"`
	SublimationMeters float64 `json:"sublimation_meters"`
	SublimationJobs   int     `json:"sublimation_jobs"`
}

// SizeCount is one bar of the size histogram.
type SizeCount struct {
	Size  string `json:"size"`
	Count int    `json:"count"`
}

// GenderCounts tallies item quantities by garment target over the
// confection subset. Items without a gender are left out.
type GenderCounts struct {
	Male   int `json:"male"`
	Female int `json:"female"`
	Kids   int `json:"kids"`
}

// ProductionStats is the production-tab dataset.
type ProductionStats struct {
	Funnel          FunnelCounts      `json:"funnel"`
	Materials       MaterialEstimates `json:"materials"`
	Sizes           []SizeCount       `json:"sizes"`
	Gender          GenderCounts      `json:"gender"`
	AvgLeadTimeDays float64           `json:"avg_lead_time_days"`
	OverdueCount    int               `json:"overdue_count"`
	QualityRate     float64           `json:"quality_rate"`
	ReturnCount     int               `json:"return_count"`
}

const (
	threadMetersPerUnit = 250
	sizeHistogramTop    = 8
)

// consumptionPattern matches the bracketed estimate the sublimation
// intake form appends to descriptions, e.g. "[Consumo Estimado: 2.5 mts]".
var consumptionPattern = regexp.MustCompile(`\[Consumo Estimado: (.*?) mts\]`)

// Per-garment fabric coefficients in meters, keyed by descriptor
// keyword. First match wins; unknown garments fall back to 0.5.
var fabricCoefficients = []struct {
	keyword string
	meters  float64
}{
	{"chaqueta", 1.5},
	{"pantalón", 1.2},
	{"pantalon", 1.2},
	{"camisa", 1.4},
	{"franela", 1.0},
	{"polo", 1.0},
	{"vestido", 2.0},
	{"gorra", 0.3},
	{"short", 0.6},
	{"delantal", 0.8},
}

const defaultFabricMeters = 0.5

// Long size tokens are free-text notes from service orders, not sizes.
// A few legitimate sizes exceed the length cutoff and are whitelisted.
var sizeWhitelist = map[string]bool{"2XL": true, "3XL": true, "4XL": true}

// ComputeProduction derives the production dataset for an order subset
// relative to now.
func ComputeProduction(orders []workshop.Order, now time.Time) ProductionStats {
	var stats ProductionStats

	sizeCounts := make(map[string]int)
	var sizeOrder []string
	var totalLeadDays float64
	leadSamples := 0

	for _, order := range orders {
		if stage, ok := order.Status.Funnel(); ok {
			switch stage {
			case workshop.StageReception:
				stats.Funnel.Reception++
			case workshop.StagePrep:
				stats.Funnel.Prep++
			case workshop.StageActive:
				stats.Funnel.Active++
			case workshop.StageFinishing:
				stats.Funnel.Finishing++
			case workshop.StageCompleted:
				stats.Funnel.Completed++
			}
		}

		stats.Materials.SublimationMeters += parseConsumption(order.Description)

		confection := ClassifyOrder(order) == CategoryConfection
		for _, item := range order.Items {
			if confection {
				stats.Materials.FabricMeters += fabricMeters(item.Type) * float64(item.Quantity)
				switch item.Gender {
				case workshop.GenderMale:
					stats.Gender.Male += item.Quantity
				case workshop.GenderFemale:
					stats.Gender.Female += item.Quantity
				case workshop.GenderBoy, workshop.GenderGirl:
					stats.Gender.Kids += item.Quantity
				}
			}
			stats.Materials.ThreadMeters += float64(item.Quantity) * threadMetersPerUnit

			name := strings.ToLower(itemName(order, item))
			if strings.Contains(name, "sublima") || matchesAny(name, sublimationGoods) {
				stats.Materials.SublimationJobs += item.Quantity
			}

			if token, ok := sizeToken(item.Size); ok {
				if _, seen := sizeCounts[token]; !seen {
					sizeOrder = append(sizeOrder, token)
				}
				sizeCounts[token] += item.Quantity
			}
		}

		switch order.Status {
		case workshop.StatusDelivered:
			days := order.Deadline.Sub(order.StartedAt()).Hours() / 24
			if days > 0 {
				totalLeadDays += days
				leadSamples++
			}
		case workshop.StatusReturned:
			stats.ReturnCount++
		}

		if !order.Status.Terminal() && !order.Deadline.IsZero() && order.Deadline.Before(now) {
			stats.OverdueCount++
		}
	}

	stats.Sizes = topSizes(sizeCounts, sizeOrder)
	if leadSamples > 0 {
		stats.AvgLeadTimeDays = totalLeadDays / float64(leadSamples)
	}
	stats.QualityRate = 100
	if len(orders) > 0 {
		stats.QualityRate = 100 - float64(stats.ReturnCount)/float64(len(orders))*100
	}
	return stats
}

// parseConsumption extracts the annotated sublimation paper meters from
// a description. Malformed or absent annotations contribute 0.
func parseConsumption(description string) float64 {
	match := consumptionPattern.FindStringSubmatch(description)
	if len(match) < 2 {
		return 0
	}
	value, err := strconv.ParseFloat(strings.TrimSpace(match[1]), 64)
	if err != nil {
		return 0
	}
	return value
}

func fabricMeters(itemType string) float64 {
	lower := strings.ToLower(itemType)
	for _, coef := range fabricCoefficients {
		if strings.Contains(lower, coef.keyword) {
			return coef.meters
		}
	}
	return defaultFabricMeters
}

func sizeToken(raw string) (string, bool) {
	token := strings.ToUpper(strings.TrimSpace(raw))
	if token == "" {
		return "", false
	}
	if utf8.RuneCountInString(token) < 5 || sizeWhitelist[token] {
		return token, true
	}
	return "", false
}

func topSizes(counts map[string]int, order []string) []SizeCount {
	firstSeen := make(map[string]int, len(order))
	for idx, token := range order {
		firstSeen[token] = idx
	}
	sizes := make([]SizeCount, 0, len(counts))
	for token, count := range counts {
		sizes = append(sizes, SizeCount{Size: token, Count: count})
	}
	sort.SliceStable(sizes, func(i, j int) bool {
		if sizes[i].Count != sizes[j].Count {
			return sizes[i].Count > sizes[j].Count
		}
		return firstSeen[sizes[i].Size] < firstSeen[sizes[j].Size]
	})
	if len(sizes) > sizeHistogramTop {
		sizes = sizes[:sizeHistogramTop]
	}
	return sizes
}
