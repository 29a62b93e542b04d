package stats

import (
	"sort"

	"github.com/taller-erp/taller-erp/internal/workshop"
)

// ProductCount is one entry of a popularity ranking.
type ProductCount struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

// MarketStats ranks the top sellers per sub-bucket and overall.
type MarketStats struct {
	Buckets    map[SubBucket][]ProductCount `json:"buckets"`
	TopOverall []ProductCount               `json:"top_overall"`
}

const rankingTop = 5

// tally accumulates quantities per product name while remembering the
// order names were first seen, so ties rank deterministically.
type tally struct {
	counts map[string]int
	order  []string
}

func newTally() *tally {
	return &tally{counts: make(map[string]int)}
}

func (t *tally) add(name string, quantity int) {
	if _, seen := t.counts[name]; !seen {
		t.order = append(t.order, name)
	}
	t.counts[name] += quantity
}

func (t *tally) top(n int) []ProductCount {
	firstSeen := make(map[string]int, len(t.order))
	for idx, name := range t.order {
		firstSeen[name] = idx
	}
	ranked := make([]ProductCount, 0, len(t.counts))
	for name, qty := range t.counts {
		ranked = append(ranked, ProductCount{Name: name, Quantity: qty})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Quantity != ranked[j].Quantity {
			return ranked[i].Quantity > ranked[j].Quantity
		}
		return firstSeen[ranked[i].Name] < firstSeen[ranked[j].Name]
	})
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

// ComputeMarketRanking buckets every line item of the subset into the
// ten sub-buckets and ranks the top sellers per bucket plus overall.
func ComputeMarketRanking(orders []workshop.Order) MarketStats {
	overall := newTally()
	buckets := make(map[SubBucket]*tally, len(SubBuckets))
	for _, bucket := range SubBuckets {
		buckets[bucket] = newTally()
	}

	for _, order := range orders {
		for _, item := range order.Items {
			name := itemName(order, item)
			overall.add(name, item.Quantity)
			buckets[ClassifyItem(name)].add(name, item.Quantity)
		}
	}

	stats := MarketStats{
		Buckets:    make(map[SubBucket][]ProductCount, len(SubBuckets)),
		TopOverall: overall.top(rankingTop),
	}
	for _, bucket := range SubBuckets {
		stats.Buckets[bucket] = buckets[bucket].top(rankingTop)
	}
	return stats
}
