// Package export serialises dashboard datasets for download.
package export

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/taller-erp/taller-erp/internal/stats"
)

var categoryOrder = []stats.Category{
	stats.CategoryConfection,
	stats.CategoryEmbroidery,
	stats.CategorySublimation,
	stats.CategorySewing,
}

// WriteOverviewCSV serialises the headline metrics to CSV.
func WriteOverviewCSV(w io.Writer, overview stats.Overview) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()

	if err := writer.Write([]string{"Metric", "Current", "Previous"}); err != nil {
		return err
	}
	records := [][]string{
		{"Timeframe", string(overview.Timeframe), ""},
		{"Category", string(overview.Category), ""},
		{"Orders", itoa(overview.Current.TotalCount), itoa(overview.Previous.TotalCount)},
		{"Revenue Realized", formatFloat(overview.Current.RevenueRealized), formatFloat(overview.Previous.RevenueRealized)},
		{"Revenue Pending", formatFloat(overview.Current.RevenuePending), formatFloat(overview.Previous.RevenuePending)},
		{"Revenue Lost", formatFloat(overview.Current.RevenueLost), formatFloat(overview.Previous.RevenueLost)},
		{"Revenue Potential", formatFloat(overview.Current.RevenuePotential), formatFloat(overview.Previous.RevenuePotential)},
		{"Average Ticket", formatFloat(overview.Current.AvgTicket), formatFloat(overview.Previous.AvgTicket)},
		{"Items", itoa(overview.Current.TotalItems), itoa(overview.Previous.TotalItems)},
		{"Rush Orders", itoa(overview.Current.RushCount), itoa(overview.Previous.RushCount)},
		{"Unique Clients", itoa(overview.UniqueClients), itoa(overview.PrevClients)},
		{"Completion Rate", formatFloat(overview.CompletionRate), formatFloat(overview.Previous.CompletionRate())},
	}
	for _, record := range records {
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// WriteProductionCSV emits funnel and material figures as CSV.
func WriteProductionCSV(w io.Writer, production stats.ProductionStats) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()

	if err := writer.Write([]string{"Metric", "Value"}); err != nil {
		return err
	}
	records := [][]string{
		{"Funnel Reception", itoa(production.Funnel.Reception)},
		{"Funnel Prep", itoa(production.Funnel.Prep)},
		{"Funnel Active", itoa(production.Funnel.Active)},
		{"Funnel Finishing", itoa(production.Funnel.Finishing)},
		{"Funnel Completed", itoa(production.Funnel.Completed)},
		{"Fabric Meters", formatFloat(production.Materials.FabricMeters)},
		{"Thread Meters", formatFloat(production.Materials.ThreadMeters)},
		{"Sublimation Meters", formatFloat(production.Materials.SublimationMeters)},
		{"Sublimation Jobs", itoa(production.Materials.SublimationJobs)},
		{"Average Lead Time Days", formatFloat(production.AvgLeadTimeDays)},
		{"Overdue", itoa(production.OverdueCount)},
		{"Quality Rate", formatFloat(production.QualityRate)},
		{"Returns", itoa(production.ReturnCount)},
	}
	for _, record := range records {
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	for _, size := range production.Sizes {
		if err := writer.Write([]string{"Size " + size.Size, itoa(size.Count)}); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// WriteMarketCSV emits the product ranking as CSV.
func WriteMarketCSV(w io.Writer, market stats.MarketStats) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()

	if err := writer.Write([]string{"Bucket", "Product", "Quantity"}); err != nil {
		return err
	}
	for _, entry := range market.TopOverall {
		if err := writer.Write([]string{"overall", entry.Name, itoa(entry.Quantity)}); err != nil {
			return err
		}
	}
	for _, bucket := range stats.SubBuckets {
		for _, entry := range market.Buckets[bucket] {
			if err := writer.Write([]string{string(bucket), entry.Name, itoa(entry.Quantity)}); err != nil {
				return err
			}
		}
	}
	writer.Flush()
	return writer.Error()
}

// WriteFinancialCSV emits the revenue breakdown as CSV.
func WriteFinancialCSV(w io.Writer, financial stats.FinancialStats) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()

	if err := writer.Write([]string{"Section", "Name", "Revenue"}); err != nil {
		return err
	}
	for _, category := range categoryOrder {
		if err := writer.Write([]string{"category", string(category), formatFloat(financial.ByCategory[category])}); err != nil {
			return err
		}
	}
	for _, client := range financial.TopClients {
		if err := writer.Write([]string{"client", client.Name, formatFloat(client.Revenue)}); err != nil {
			return err
		}
	}
	for _, product := range financial.TopProducts {
		if err := writer.Write([]string{"product", product.Name, formatFloat(product.Revenue)}); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// WriteTrendCSV emits the revenue series as CSV.
func WriteTrendCSV(w io.Writer, trend stats.TrendStats) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()

	if err := writer.Write([]string{"Bucket", "Revenue"}); err != nil {
		return err
	}
	for _, point := range trend.Points {
		if err := writer.Write([]string{point.Label, formatFloat(point.Revenue)}); err != nil {
			return err
		}
	}
	if err := writer.Write([]string{"Best Day", trend.BestDay}); err != nil {
		return err
	}
	writer.Flush()
	return writer.Error()
}

// WriteCRMCSV emits the client segmentation as CSV.
func WriteCRMCSV(w io.Writer, crm stats.CRMStats) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()

	if err := writer.Write([]string{"Segment", "Clients"}); err != nil {
		return err
	}
	for _, segment := range stats.Segments {
		if err := writer.Write([]string{string(segment), itoa(crm.Segments[segment])}); err != nil {
			return err
		}
	}
	records := [][]string{
		{"Total", itoa(crm.TotalClients)},
		{"Active", itoa(crm.ActiveClients)},
		{"Retention Rate", formatFloat(crm.RetentionRate)},
	}
	for _, record := range records {
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	for _, spender := range crm.TopSpenders {
		if err := writer.Write([]string{"Top " + spender.Name, formatFloat(spender.TotalSpent)}); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func itoa(v int) string {
	return strconv.Itoa(v)
}
