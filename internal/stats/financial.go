package stats

import (
	"sort"

	"github.com/taller-erp/taller-erp/internal/workshop"
)

// RevenueShare is one entry of a revenue ranking or breakdown.
type RevenueShare struct {
	Name    string  `json:"name"`
	Revenue float64 `json:"revenue"`
}

// FinancialStats is the financial-tab deep dive. Cancelled orders are
// excluded throughout: their revenue is already reported as lost by the
// metric aggregator.
type FinancialStats struct {
	ByCategory  map[Category]float64 `json:"by_category"`
	TopClients  []RevenueShare       `json:"top_clients"`
	TopProducts []RevenueShare       `json:"top_products"`
}

// ComputeFinancialBreakdown accumulates revenue by coarse category, by
// client display name, and by product. An order's total is not priced
// per line, so product revenue distributes it proportionally by
// quantity share; the attributed parts always reconcile to the order
// total up to floating-point rounding.
func ComputeFinancialBreakdown(orders []workshop.Order) FinancialStats {
	byCategory := map[Category]float64{
		CategoryConfection:  0,
		CategoryEmbroidery:  0,
		CategorySublimation: 0,
		CategorySewing:      0,
	}
	clients := newRevenueTally()
	products := newRevenueTally()

	for _, order := range orders {
		if order.Status == workshop.StatusCancelled {
			continue
		}
		byCategory[ClassifyOrder(order)] += order.TotalAmount
		clients.add(order.ClientName, order.TotalAmount)

		totalQty := order.TotalQuantity()
		if totalQty == 0 {
			continue
		}
		unitPrice := order.TotalAmount / float64(totalQty)
		for _, item := range order.Items {
			products.add(itemName(order, item), unitPrice*float64(item.Quantity))
		}
	}

	return FinancialStats{
		ByCategory:  byCategory,
		TopClients:  clients.top(rankingTop),
		TopProducts: products.top(rankingTop),
	}
}

type revenueTally struct {
	amounts map[string]float64
	order   []string
}

func newRevenueTally() *revenueTally {
	return &revenueTally{amounts: make(map[string]float64)}
}

func (t *revenueTally) add(name string, amount float64) {
	if _, seen := t.amounts[name]; !seen {
		t.order = append(t.order, name)
	}
	t.amounts[name] += amount
}

func (t *revenueTally) top(n int) []RevenueShare {
	firstSeen := make(map[string]int, len(t.order))
	for idx, name := range t.order {
		firstSeen[name] = idx
	}
	ranked := make([]RevenueShare, 0, len(t.amounts))
	for name, amount := range t.amounts {
		ranked = append(ranked, RevenueShare{Name: name, Revenue: amount})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Revenue != ranked[j].Revenue {
			return ranked[i].Revenue > ranked[j].Revenue
		}
		return firstSeen[ranked[i].Name] < firstSeen[ranked[j].Name]
	})
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}
