package stats

import (
	"testing"

	"github.com/taller-erp/taller-erp/internal/workshop"
)

func TestComputeMarketRankingBuckets(t *testing.T) {
	orders := []workshop.Order{
		{
			GarmentModel: "Uniformes",
			Items: []workshop.OrderItem{
				{Type: "Chemise pique", Quantity: 10},
				{Type: "Chaqueta ejecutiva", Quantity: 3},
			},
		},
		{
			GarmentModel: "Chemise pique",
			// Untyped item falls back to the order's model.
			Items: []workshop.OrderItem{{Quantity: 5}},
		},
		{
			GarmentModel: "Servicios",
			Items:        []workshop.OrderItem{{Type: "Bordado de logo", Quantity: 20}},
		},
	}
	stats := ComputeMarketRanking(orders)

	chemises := stats.Buckets[BucketChemises]
	if len(chemises) != 1 || chemises[0].Name != "Chemise pique" || chemises[0].Quantity != 15 {
		t.Fatalf("unexpected chemise ranking: %+v", chemises)
	}
	if got := stats.Buckets[BucketEmbroidery]; len(got) != 1 || got[0].Quantity != 20 {
		t.Fatalf("unexpected embroidery ranking: %+v", got)
	}
	if len(stats.Buckets[BucketPants]) != 0 {
		t.Fatalf("empty bucket must rank empty, got %+v", stats.Buckets[BucketPants])
	}
	if stats.TopOverall[0].Name != "Bordado de logo" || stats.TopOverall[1].Name != "Chemise pique" {
		t.Fatalf("unexpected overall order: %+v", stats.TopOverall)
	}
}

func TestComputeMarketRankingTopFiveAndTies(t *testing.T) {
	var items []workshop.OrderItem
	names := []string{"Gorra A", "Gorra B", "Gorra C", "Gorra D", "Gorra E", "Gorra F"}
	for _, name := range names {
		items = append(items, workshop.OrderItem{Type: name, Quantity: 2})
	}
	stats := ComputeMarketRanking([]workshop.Order{{Items: items}})

	top := stats.TopOverall
	if len(top) != rankingTop {
		t.Fatalf("expected top %d, got %d", rankingTop, len(top))
	}
	// All tied; first encountered wins.
	for i, want := range names[:rankingTop] {
		if top[i].Name != want {
			t.Fatalf("tie break must follow first encounter, got %+v", top)
		}
	}
}
