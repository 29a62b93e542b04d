package stats

import "github.com/taller-erp/taller-erp/internal/workshop"

// Metrics are the core KPIs computed over an order subset. All revenue
// figures are sums of order totals; AvgTicket divides potential revenue
// by order count and is 0 for an empty set.
type Metrics struct {
	TotalCount int `json:"total_count"`

	RevenueRealized    float64 `json:"revenue_realized"`
	RevenuePending     float64 `json:"revenue_pending"`
	RevenueLost        float64 `json:"revenue_lost"`
	RevenuePotential   float64 `json:"revenue_potential"`
	RevenueTotalDemand float64 `json:"revenue_total_demand"`
	AvgTicket          float64 `json:"avg_ticket"`

	TotalItems  int     `json:"total_items"`
	RushCount   int     `json:"rush_count"`
	RushRevenue float64 `json:"rush_revenue"`

	DeliveredCount int `json:"delivered_count"`
	ActiveCount    int `json:"active_count"`
	ReadyCount     int `json:"ready_count"`
	CancelledCount int `json:"cancelled_count"`
}

// AggregateMetrics computes the KPI record for an order subset.
// Deterministic for a given input; tolerates an empty slice.
func AggregateMetrics(orders []workshop.Order) Metrics {
	var m Metrics
	m.TotalCount = len(orders)

	var readyRevenue float64
	for _, order := range orders {
		m.TotalItems += order.TotalQuantity()
		if order.Priority.Rush() {
			m.RushCount++
			m.RushRevenue += order.TotalAmount
		}

		switch order.Status {
		case workshop.StatusDelivered:
			m.DeliveredCount++
			m.RevenueRealized += order.TotalAmount
		case workshop.StatusReady:
			m.ReadyCount++
			readyRevenue += order.TotalAmount
		case workshop.StatusCancelled:
			m.CancelledCount++
			m.RevenueLost += order.TotalAmount
		case workshop.StatusReturned, workshop.StatusTrash:
			// returned orders await rework, trashed ones are soft-deleted;
			// neither contributes revenue
		default:
			m.ActiveCount++
			m.RevenuePending += order.TotalAmount
		}
	}

	m.RevenuePotential = m.RevenueRealized + m.RevenuePending + readyRevenue
	m.RevenueTotalDemand = m.RevenuePotential + m.RevenueLost
	if m.TotalCount > 0 {
		m.AvgTicket = m.RevenuePotential / float64(m.TotalCount)
	}
	return m
}

// CompletionRate returns the delivered+ready share of the subset as a
// percentage, 0 when the subset is empty.
func (m Metrics) CompletionRate() float64 {
	if m.TotalCount == 0 {
		return 0
	}
	return float64(m.DeliveredCount+m.ReadyCount) / float64(m.TotalCount) * 100
}
