package workshop

import (
	"testing"
	"time"
)

func TestStatusFunnelCoverage(t *testing.T) {
	inFunnel := map[OrderStatus]FunnelStage{
		StatusReceived:       StageReception,
		StatusPendingCut:     StagePrep,
		StatusSewing:         StageActive,
		StatusQualityControl: StageFinishing,
		StatusDelivered:      StageCompleted,
	}
	for status, want := range inFunnel {
		stage, ok := status.Funnel()
		if !ok || stage != want {
			t.Fatalf("%s: expected stage %s, got %s (%v)", status, want, stage, ok)
		}
	}
	for _, status := range []OrderStatus{StatusCancelled, StatusPaused, StatusReturned, StatusTrash} {
		if _, ok := status.Funnel(); ok {
			t.Fatalf("%s must sit outside the funnel", status)
		}
	}
}

func TestStatusTerminal(t *testing.T) {
	if !StatusDelivered.Terminal() || !StatusCancelled.Terminal() || !StatusTrash.Terminal() {
		t.Fatalf("delivered, cancelled and trashed are terminal")
	}
	if StatusReturned.Terminal() {
		t.Fatalf("returned orders are still in play")
	}
}

func TestPriorityRush(t *testing.T) {
	if PriorityNormal.Rush() || Priority("").Rush() {
		t.Fatalf("normal priority is not rush")
	}
	if !PriorityUrgent.Rush() || !PriorityVeryUrgent.Rush() {
		t.Fatalf("urgent tiers are rush")
	}
}

func TestOrderStartedAtFallsBack(t *testing.T) {
	created := time.Date(2025, time.March, 1, 10, 0, 0, 0, time.UTC)
	reception := created.AddDate(0, 0, 2)

	order := Order{CreatedAt: created}
	if !order.StartedAt().Equal(created) {
		t.Fatalf("expected creation fallback, got %v", order.StartedAt())
	}
	order.ReceptionDate = reception
	if !order.StartedAt().Equal(reception) {
		t.Fatalf("expected reception date, got %v", order.StartedAt())
	}
}

func TestClientDisplayName(t *testing.T) {
	c := Client{Name: "Ana Contreras"}
	if c.DisplayName() != "Ana Contreras" {
		t.Fatalf("expected contact name, got %s", c.DisplayName())
	}
	c.BusinessName = "Hotel Central"
	if c.DisplayName() != "Hotel Central" {
		t.Fatalf("business name must win, got %s", c.DisplayName())
	}
}
