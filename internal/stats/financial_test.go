package stats

import (
	"math"
	"testing"

	"github.com/taller-erp/taller-erp/internal/workshop"
)

func TestComputeFinancialBreakdownCategories(t *testing.T) {
	orders := []workshop.Order{
		{GarmentModel: "Chaqueta", ClientName: "Colegio San José", TotalAmount: 300},
		{GarmentModel: "Bordado de logo", ClientName: "Ferretería El Clavo", TotalAmount: 120},
		{GarmentModel: "Ruedo", ClientName: "Colegio San José", TotalAmount: 15},
		{GarmentModel: "Chaqueta", ClientName: "Cancelada CA", TotalAmount: 999, Status: workshop.StatusCancelled},
	}
	stats := ComputeFinancialBreakdown(orders)

	if stats.ByCategory[CategoryConfection] != 300 {
		t.Fatalf("expected 300 confection, got %v", stats.ByCategory[CategoryConfection])
	}
	if stats.ByCategory[CategoryEmbroidery] != 120 || stats.ByCategory[CategorySewing] != 15 {
		t.Fatalf("unexpected category split: %+v", stats.ByCategory)
	}
	// Every category keys the map even with no revenue.
	if _, ok := stats.ByCategory[CategorySublimation]; !ok {
		t.Fatalf("sublimation slice missing: %+v", stats.ByCategory)
	}
	if stats.TopClients[0].Name != "Colegio San José" || stats.TopClients[0].Revenue != 315 {
		t.Fatalf("unexpected top client: %+v", stats.TopClients)
	}
	for _, share := range stats.TopClients {
		if share.Name == "Cancelada CA" {
			t.Fatalf("cancelled revenue must not rank: %+v", stats.TopClients)
		}
	}
}

func TestComputeFinancialBreakdownProductAttribution(t *testing.T) {
	orders := []workshop.Order{{
		ClientName:  "Hotel Central",
		TotalAmount: 100,
		Items: []workshop.OrderItem{
			{Type: "Delantal", Quantity: 1},
			{Type: "Camisa", Quantity: 3},
		},
	}}
	stats := ComputeFinancialBreakdown(orders)

	products := map[string]float64{}
	var attributed float64
	for _, share := range stats.TopProducts {
		products[share.Name] = share.Revenue
		attributed += share.Revenue
	}
	if products["Delantal"] != 25 || products["Camisa"] != 75 {
		t.Fatalf("expected 25/75 split, got %+v", products)
	}
	if math.Abs(attributed-100) > 1e-9 {
		t.Fatalf("attribution must reconcile to the order total, got %v", attributed)
	}
}

func TestComputeFinancialBreakdownZeroQuantity(t *testing.T) {
	orders := []workshop.Order{{
		ClientName:  "Hotel Central",
		TotalAmount: 100,
		Items:       []workshop.OrderItem{{Type: "Camisa", Quantity: 0}},
	}}
	stats := ComputeFinancialBreakdown(orders)
	if len(stats.TopProducts) != 0 {
		t.Fatalf("zero-quantity order must skip product attribution: %+v", stats.TopProducts)
	}
	// Client revenue still counts.
	if stats.TopClients[0].Revenue != 100 {
		t.Fatalf("client revenue must survive: %+v", stats.TopClients)
	}
}
