package stats

import (
	"testing"
	"time"

	"github.com/taller-erp/taller-erp/internal/workshop"
)

func clientOrders(clientID string, count int, amount float64, last time.Time) []workshop.Order {
	orders := make([]workshop.Order, 0, count)
	for i := 0; i < count; i++ {
		orders = append(orders, workshop.Order{
			ClientID:    clientID,
			TotalAmount: amount,
			Status:      workshop.StatusDelivered,
			CreatedAt:   last.AddDate(0, 0, -i),
		})
	}
	return orders
}

func TestSegmentClientsTiers(t *testing.T) {
	now := at(2025, time.June, 15, 12)
	clients := []workshop.Client{
		{ID: "c1", Name: "Campeón", CreatedAt: now.AddDate(-2, 0, 0)},
		{ID: "c2", Name: "Fiel", CreatedAt: now.AddDate(-1, 0, 0)},
		{ID: "c3", Name: "Dormido", CreatedAt: now.AddDate(-1, 0, 0)},
		{ID: "c4", Name: "Nuevo", CreatedAt: now.AddDate(0, 0, -10)},
	}
	var orders []workshop.Order
	orders = append(orders, clientOrders("c1", 12, 100, now.AddDate(0, 0, -5))...)
	orders = append(orders, clientOrders("c2", 4, 10, now.AddDate(0, 0, -10))...)
	orders = append(orders, clientOrders("c3", 1, 50, now.AddDate(0, 0, -200))...)

	stats := SegmentClients(clients, orders, now)

	if stats.Segments[SegmentChampion] != 1 {
		t.Fatalf("expected one champion: %+v", stats.Segments)
	}
	if stats.Segments[SegmentLoyal] != 1 {
		t.Fatalf("expected one loyal client: %+v", stats.Segments)
	}
	if stats.Segments[SegmentPromising] != 1 {
		t.Fatalf("client without orders must be promising: %+v", stats.Segments)
	}
	if stats.TotalClients != 4 || stats.ActiveClients != 3 {
		t.Fatalf("unexpected client counts: %+v", stats)
	}
	if stats.TopSpenders[0].Name != "Campeón" || stats.TopSpenders[0].TotalSpent != 1200 {
		t.Fatalf("unexpected top spender: %+v", stats.TopSpenders)
	}
	// 2 of 3 clients with orders came back.
	if stats.RetentionRate < 66 || stats.RetentionRate > 67 {
		t.Fatalf("expected ~66.7%% retention, got %.2f", stats.RetentionRate)
	}
}

func TestSegmentClientsLongInactiveStaysAtRisk(t *testing.T) {
	// The at-risk rule (90+ days) is evaluated before the inactive rule
	// (180+ days), so even a 200-day-silent client lands in En Riesgo.
	now := at(2025, time.June, 15, 12)
	clients := []workshop.Client{{ID: "c1", Name: "Dormido", CreatedAt: now.AddDate(-2, 0, 0)}}
	orders := clientOrders("c1", 1, 50, now.AddDate(0, 0, -200))

	stats := SegmentClients(clients, orders, now)
	if stats.Segments[SegmentAtRisk] != 1 || stats.Segments[SegmentInactive] != 0 {
		t.Fatalf("200-day client must classify En Riesgo: %+v", stats.Segments)
	}
}

func TestSegmentClientsIgnoresCancelled(t *testing.T) {
	now := at(2025, time.June, 15, 12)
	clients := []workshop.Client{{ID: "c1", Name: "Solo Cancela", CreatedAt: now.AddDate(-1, 0, 0)}}
	orders := []workshop.Order{
		{ClientID: "c1", TotalAmount: 5000, Status: workshop.StatusCancelled, CreatedAt: now.AddDate(0, 0, -3)},
	}

	stats := SegmentClients(clients, orders, now)
	if stats.Segments[SegmentPromising] != 1 {
		t.Fatalf("cancelled-only client must be promising: %+v", stats.Segments)
	}
	if len(stats.TopSpenders) != 0 || len(stats.Scatter) != 0 {
		t.Fatalf("cancelled revenue must not chart: %+v", stats)
	}
	if stats.RetentionRate != 0 {
		t.Fatalf("no real orders means 0 retention, got %.2f", stats.RetentionRate)
	}
}

func TestSegmentClientsAcquisitionHistogram(t *testing.T) {
	now := at(2025, time.June, 15, 12)
	clients := []workshop.Client{
		{ID: "c1", Name: "Mayo", CreatedAt: at(2025, time.May, 3, 0)},
		{ID: "c2", Name: "Junio", CreatedAt: at(2025, time.June, 1, 0)},
		{ID: "c3", Name: "Viejo", CreatedAt: at(2023, time.June, 1, 0)},
	}
	stats := SegmentClients(clients, nil, now)

	if len(stats.Acquisition) != acquisitionMonths {
		t.Fatalf("expected %d months, got %d", acquisitionMonths, len(stats.Acquisition))
	}
	if stats.Acquisition[0].Month != "ene" || stats.Acquisition[5].Month != "jun" {
		t.Fatalf("unexpected month window: %+v", stats.Acquisition)
	}
	byMonth := map[string]int{}
	for _, m := range stats.Acquisition {
		byMonth[m.Month] += m.Count
	}
	if byMonth["may"] != 1 || byMonth["jun"] != 1 {
		t.Fatalf("new clients must land in their month: %+v", stats.Acquisition)
	}
	if byMonth["ene"] != 0 {
		t.Fatalf("months without signups must stay zero: %+v", stats.Acquisition)
	}
}
