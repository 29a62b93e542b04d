package stats

import (
	"math"
	"testing"
	"time"

	"github.com/taller-erp/taller-erp/internal/workshop"
)

func TestParseConsumption(t *testing.T) {
	if got := parseConsumption("Franelas sublimadas\n\n[Consumo Estimado: 3.2 mts]"); got != 3.2 {
		t.Fatalf("expected 3.2, got %v", got)
	}
	if got := parseConsumption("[Consumo Estimado: abc mts]"); got != 0 {
		t.Fatalf("malformed annotation must contribute 0, got %v", got)
	}
	if got := parseConsumption("sin anotación"); got != 0 {
		t.Fatalf("missing annotation must contribute 0, got %v", got)
	}
}

func TestComputeProductionEmpty(t *testing.T) {
	stats := ComputeProduction(nil, at(2025, time.March, 12, 10))
	if stats.QualityRate != 100 {
		t.Fatalf("quality rate must default to 100, got %.2f", stats.QualityRate)
	}
	if stats.AvgLeadTimeDays != 0 || stats.OverdueCount != 0 {
		t.Fatalf("empty subset must be zeros: %+v", stats)
	}
}

func TestComputeProductionFunnelAndMaterials(t *testing.T) {
	now := at(2025, time.March, 12, 10)
	orders := []workshop.Order{
		{
			Status:       workshop.StatusReceived,
			GarmentModel: "Uniformes escolares",
			Items: []workshop.OrderItem{
				{Type: "Chaqueta", Quantity: 2, Gender: workshop.GenderMale, Size: "M"},
				{Type: "Pantalón", Quantity: 1, Gender: workshop.GenderGirl, Size: "S"},
			},
		},
		{
			Status:       workshop.StatusSewing,
			GarmentModel: "Sublimación de franelas",
			Description:  "Tiraje corto [Consumo Estimado: 2.5 mts]",
			Items:        []workshop.OrderItem{{Type: "Franela sublimada", Quantity: 4, Size: "M"}},
		},
		{Status: workshop.StatusReady},
		{Status: workshop.StatusReturned},
	}
	stats := ComputeProduction(orders, now)

	if stats.Funnel.Reception != 1 || stats.Funnel.Active != 1 || stats.Funnel.Completed != 1 {
		t.Fatalf("unexpected funnel: %+v", stats.Funnel)
	}
	// 2 chaquetas at 1.5 plus 1 pantalón at 1.2; the sublimation order is
	// not confection so its items add no fabric.
	if math.Abs(stats.Materials.FabricMeters-4.2) > 1e-9 {
		t.Fatalf("expected 4.2 fabric meters, got %v", stats.Materials.FabricMeters)
	}
	if stats.Materials.ThreadMeters != 7*threadMetersPerUnit {
		t.Fatalf("expected thread for 7 units, got %v", stats.Materials.ThreadMeters)
	}
	if stats.Materials.SublimationMeters != 2.5 {
		t.Fatalf("expected annotated 2.5 mts, got %v", stats.Materials.SublimationMeters)
	}
	if stats.Materials.SublimationJobs != 4 {
		t.Fatalf("expected 4 sublimation units, got %d", stats.Materials.SublimationJobs)
	}
	if stats.Gender.Male != 2 || stats.Gender.Kids != 1 || stats.Gender.Female != 0 {
		t.Fatalf("unexpected gender counts: %+v", stats.Gender)
	}
	if stats.ReturnCount != 1 {
		t.Fatalf("expected 1 return, got %d", stats.ReturnCount)
	}
	if stats.QualityRate != 75 {
		t.Fatalf("expected quality 75%%, got %.2f", stats.QualityRate)
	}
}

func TestComputeProductionSizes(t *testing.T) {
	orders := []workshop.Order{{
		Status: workshop.StatusReceived,
		Items: []workshop.OrderItem{
			{Type: "Franela", Size: "m", Quantity: 3},
			{Type: "Franela", Size: "M ", Quantity: 2},
			{Type: "Franela", Size: "2XL", Quantity: 1},
			{Type: "Servicio", Size: "según muestra", Quantity: 1},
			{Type: "Franela", Size: "", Quantity: 5},
		},
	}}
	stats := ComputeProduction(orders, at(2025, time.March, 12, 10))
	if len(stats.Sizes) != 2 {
		t.Fatalf("expected 2 size bars, got %+v", stats.Sizes)
	}
	if stats.Sizes[0].Size != "M" || stats.Sizes[0].Count != 5 {
		t.Fatalf("sizes must normalise and merge case: %+v", stats.Sizes)
	}
	if stats.Sizes[1].Size != "2XL" {
		t.Fatalf("whitelisted long size must survive: %+v", stats.Sizes)
	}
}

func TestComputeProductionLeadTimeAndOverdue(t *testing.T) {
	now := at(2025, time.March, 12, 10)
	orders := []workshop.Order{
		{
			Status:        workshop.StatusDelivered,
			ReceptionDate: at(2025, time.March, 1, 0),
			Deadline:      at(2025, time.March, 5, 0),
		},
		{
			// Deadline before reception; negative sample must be dropped.
			Status:        workshop.StatusDelivered,
			ReceptionDate: at(2025, time.March, 8, 0),
			Deadline:      at(2025, time.March, 6, 0),
		},
		{Status: workshop.StatusSewing, Deadline: at(2025, time.March, 10, 0)},
		{Status: workshop.StatusCancelled, Deadline: at(2025, time.March, 10, 0)},
	}
	stats := ComputeProduction(orders, now)
	if stats.AvgLeadTimeDays != 4 {
		t.Fatalf("expected 4 day lead time, got %v", stats.AvgLeadTimeDays)
	}
	if stats.OverdueCount != 1 {
		t.Fatalf("only the active late order is overdue, got %d", stats.OverdueCount)
	}
}
