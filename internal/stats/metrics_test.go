package stats

import (
	"testing"

	"github.com/taller-erp/taller-erp/internal/workshop"
)

func TestAggregateMetricsEmpty(t *testing.T) {
	m := AggregateMetrics(nil)
	if m.TotalCount != 0 || m.AvgTicket != 0 || m.RevenueTotalDemand != 0 {
		t.Fatalf("empty subset must be all zeros: %+v", m)
	}
	if m.CompletionRate() != 0 {
		t.Fatalf("completion rate must be 0 on empty subset")
	}
}

func TestAggregateMetricsRevenueBuckets(t *testing.T) {
	orders := []workshop.Order{
		{Status: workshop.StatusDelivered, TotalAmount: 100, Items: []workshop.OrderItem{{Quantity: 2}}},
		{Status: workshop.StatusReady, TotalAmount: 50},
		{Status: workshop.StatusSewing, TotalAmount: 80, Priority: workshop.PriorityUrgent},
		{Status: workshop.StatusCancelled, TotalAmount: 40},
		{Status: workshop.StatusReturned, TotalAmount: 30},
	}
	m := AggregateMetrics(orders)

	if m.TotalCount != 5 || m.TotalItems != 2 {
		t.Fatalf("unexpected counts: %+v", m)
	}
	if m.RevenueRealized != 100 || m.RevenuePending != 80 || m.RevenueLost != 40 {
		t.Fatalf("unexpected revenue split: %+v", m)
	}
	// Realized + pending + ready; returned orders contribute nothing.
	if m.RevenuePotential != 230 {
		t.Fatalf("expected potential 230, got %.2f", m.RevenuePotential)
	}
	if m.RevenueTotalDemand != 270 {
		t.Fatalf("expected total demand 270, got %.2f", m.RevenueTotalDemand)
	}
	if m.AvgTicket != 46 {
		t.Fatalf("expected avg ticket 46, got %.2f", m.AvgTicket)
	}
	if m.RushCount != 1 || m.RushRevenue != 80 {
		t.Fatalf("unexpected rush figures: %+v", m)
	}
	if m.DeliveredCount != 1 || m.ReadyCount != 1 || m.ActiveCount != 1 || m.CancelledCount != 1 {
		t.Fatalf("unexpected status counts: %+v", m)
	}
	if m.CompletionRate() != 40 {
		t.Fatalf("expected completion 40%%, got %.2f", m.CompletionRate())
	}
}

func TestAggregateMetricsDoesNotMutateInput(t *testing.T) {
	orders := []workshop.Order{{Status: workshop.StatusDelivered, TotalAmount: 10}}
	_ = AggregateMetrics(orders)
	if orders[0].TotalAmount != 10 || orders[0].Status != workshop.StatusDelivered {
		t.Fatalf("input mutated: %+v", orders[0])
	}
}
