package stats

import (
	"sort"
	"time"

	"github.com/taller-erp/taller-erp/internal/workshop"
)

// Segment is the loyalty tier assigned to a client from lifetime
// spend, frequency and recency.
type Segment string

const (
	SegmentChampion  Segment = "Champion"
	SegmentLoyal     Segment = "Leal"
	SegmentAtRisk    Segment = "En Riesgo"
	SegmentInactive  Segment = "Inactivo"
	SegmentPromising Segment = "Prometedor"
)

// Segments lists every tier in display order.
var Segments = []Segment{SegmentChampion, SegmentLoyal, SegmentPromising, SegmentAtRisk, SegmentInactive}

const (
	championSpend     = 1000
	championOrders    = 10
	loyalOrders       = 3
	atRiskDays        = 90
	inactiveDays      = 180
	neverOrderedDays  = 999
	acquisitionMonths = 6
)

// ClientProfile is the derived lifetime record for one client.
type ClientProfile struct {
	ClientID   string     `json:"client_id"`
	Name       string     `json:"name"`
	TotalSpent float64    `json:"total_spent"`
	OrderCount int        `json:"order_count"`
	LastOrder  *time.Time `json:"last_order,omitempty"`
	Segment    Segment    `json:"segment"`
}

// ScatterPoint positions a client on the frequency/value plane.
type ScatterPoint struct {
	Name    string  `json:"name"`
	Orders  int     `json:"orders"`
	Spent   float64 `json:"spent"`
	Segment Segment `json:"segment"`
}

// MonthCount is one bar of the acquisition histogram.
type MonthCount struct {
	Month string `json:"month"`
	Count int    `json:"count"`
}

// CRMStats is the client-intelligence dataset. Unlike the other
// engines it always works on lifetime history, never on the period
// filter: segmentation by definition spans a client's whole record.
type CRMStats struct {
	Segments      map[Segment]int `json:"segments"`
	Scatter       []ScatterPoint  `json:"scatter"`
	TopSpenders   []ClientProfile `json:"top_spenders"`
	Acquisition   []MonthCount    `json:"acquisition"`
	RetentionRate float64         `json:"retention_rate"`
	TotalClients  int             `json:"total_clients"`
	ActiveClients int             `json:"active_clients"`
}

// classifySegment applies the tier rules in documented priority order.
// Note the At-Risk rule (90+ days) fires before the Inactive rule
// (180+ days) can ever be reached; the ordering is preserved as the
// business documented it.
func classifySegment(totalSpent float64, orderCount int, daysSinceLast float64) Segment {
	switch {
	case totalSpent > championSpend || orderCount >= championOrders:
		return SegmentChampion
	case orderCount >= loyalOrders && daysSinceLast < atRiskDays:
		return SegmentLoyal
	case orderCount > 0 && daysSinceLast > atRiskDays:
		return SegmentAtRisk
	case orderCount > 0 && daysSinceLast > inactiveDays:
		return SegmentInactive
	default:
		return SegmentPromising
	}
}

// SegmentClients derives the CRM dataset from the full client and
// order history. Cancelled orders never count toward a client's record.
func SegmentClients(clients []workshop.Client, orders []workshop.Order, now time.Time) CRMStats {
	ordersByClient := make(map[string][]workshop.Order, len(clients))
	for _, order := range orders {
		if order.Status == workshop.StatusCancelled || order.Status == workshop.StatusTrash {
			continue
		}
		ordersByClient[order.ClientID] = append(ordersByClient[order.ClientID], order)
	}

	stats := CRMStats{
		Segments:     make(map[Segment]int, len(Segments)),
		TotalClients: len(clients),
	}
	for _, segment := range Segments {
		stats.Segments[segment] = 0
	}

	months := acquisitionWindow(now)
	monthIndex := make(map[string]int, len(months))
	for idx, month := range months {
		monthIndex[month.Month] = idx
	}

	var profiles []ClientProfile
	withOrders := 0
	returning := 0

	for _, client := range clients {
		profile := buildProfile(client, ordersByClient[client.ID], now)
		stats.Segments[profile.Segment]++

		if profile.OrderCount > 0 {
			withOrders++
			if profile.OrderCount > 1 {
				returning++
			}
			stats.Scatter = append(stats.Scatter, ScatterPoint{
				Name:    profile.Name,
				Orders:  profile.OrderCount,
				Spent:   profile.TotalSpent,
				Segment: profile.Segment,
			})
		}
		if profile.TotalSpent > 0 {
			profiles = append(profiles, profile)
		}

		if now.Sub(client.CreatedAt).Hours()/24 <= inactiveDays {
			key := monthLabel(client.CreatedAt)
			if idx, ok := monthIndex[key]; ok {
				months[idx].Count++
			}
		}
	}

	sort.SliceStable(profiles, func(i, j int) bool {
		return profiles[i].TotalSpent > profiles[j].TotalSpent
	})
	if len(profiles) > rankingTop {
		profiles = profiles[:rankingTop]
	}
	stats.TopSpenders = profiles
	stats.Acquisition = months

	if withOrders > 0 {
		stats.RetentionRate = float64(returning) / float64(withOrders) * 100
	}
	stats.ActiveClients = stats.Segments[SegmentChampion] + stats.Segments[SegmentLoyal] + stats.Segments[SegmentPromising]
	return stats
}

func buildProfile(client workshop.Client, orders []workshop.Order, now time.Time) ClientProfile {
	profile := ClientProfile{
		ClientID: client.ID,
		Name:     client.DisplayName(),
	}
	var last time.Time
	for _, order := range orders {
		profile.TotalSpent += order.TotalAmount
		profile.OrderCount++
		if order.CreatedAt.After(last) {
			last = order.CreatedAt
		}
	}

	daysSinceLast := float64(neverOrderedDays)
	if !last.IsZero() {
		profile.LastOrder = &last
		daysSinceLast = now.Sub(last).Hours() / 24
	}
	profile.Segment = classifySegment(profile.TotalSpent, profile.OrderCount, daysSinceLast)
	return profile
}

// acquisitionWindow builds the rolling 6-month histogram skeleton so
// months without new clients still chart as zero.
func acquisitionWindow(now time.Time) []MonthCount {
	// Anchor at the first of the month so late-month dates never skip a
	// month when stepping back.
	anchor := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	months := make([]MonthCount, 0, acquisitionMonths)
	for i := acquisitionMonths - 1; i >= 0; i-- {
		months = append(months, MonthCount{Month: monthLabel(anchor.AddDate(0, -i, 0))})
	}
	return months
}

func monthLabel(t time.Time) string {
	return spanishMonths[t.Month()-1]
}
