package stats

import (
	"fmt"
	"strings"

	"github.com/taller-erp/taller-erp/internal/workshop"
)

// Category is the coarse service family of an order, used for
// dashboard filtering and the 4-slice revenue breakdown.
type Category string

const (
	CategoryAll         Category = "all"
	CategoryConfection  Category = "confeccion"
	CategoryEmbroidery  Category = "bordado"
	CategorySublimation Category = "sublimacion"
	CategorySewing      Category = "costura"
)

// ParseCategory validates a category filter token.
func ParseCategory(raw string) (Category, error) {
	switch Category(raw) {
	case CategoryAll, CategoryConfection, CategoryEmbroidery, CategorySublimation, CategorySewing:
		return Category(raw), nil
	case "":
		return CategoryAll, nil
	}
	return "", fmt.Errorf("stats: unknown category %q", raw)
}

// Orders placed through the generic intake form carry one of these
// sentinel model labels instead of a garment model.
var sentinelModels = map[string]Category{
	"Otro (Bordado)":     CategoryEmbroidery,
	"Otro (Sublimación)": CategorySublimation,
	"Otro (Costura)":     CategorySewing,
	"Otro (Confección)":  CategoryConfection,
}

type categoryRule struct {
	category Category
	keywords []string
}

// Ordered rule table: first match wins. Confection is the fallback, so
// it carries no keywords here.
var categoryRules = []categoryRule{
	{CategoryEmbroidery, []string{"bordado"}},
	{CategorySublimation, []string{"sublima"}},
	{CategorySewing, []string{"ruedo", "ajuste", "costura", "cierre", "zurcido"}},
}

// ClassifyOrder assigns exactly one coarse category to an order.
// Sentinel model labels win outright; otherwise the model name and each
// item type are tested against the keyword table. Unmatched orders are
// confection work.
func ClassifyOrder(order workshop.Order) Category {
	if cat, ok := sentinelModels[order.GarmentModel]; ok {
		return cat
	}
	model := strings.ToLower(order.GarmentModel)
	for _, rule := range categoryRules {
		if matchesAny(model, rule.keywords) {
			return rule.category
		}
		for _, item := range order.Items {
			if matchesAny(strings.ToLower(item.Type), rule.keywords) {
				return rule.category
			}
		}
	}
	return CategoryConfection
}

// MatchesFilter reports whether an order passes the category filter.
func MatchesFilter(order workshop.Order, filter Category) bool {
	if filter == CategoryAll {
		return true
	}
	return ClassifyOrder(order) == filter
}

func matchesAny(name string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(name, kw) {
			return true
		}
	}
	return false
}

// SubBucket is the fine, item-level product grouping used by the
// market ranking.
type SubBucket string

const (
	BucketJackets            SubBucket = "jackets"
	BucketChemises           SubBucket = "chemises"
	BucketShirts             SubBucket = "shirts"
	BucketPants              SubBucket = "pants"
	BucketAprons             SubBucket = "aprons"
	BucketEmbroidery         SubBucket = "embroidery"
	BucketSublimationService SubBucket = "sublimation_service"
	BucketSublimationProduct SubBucket = "sublimation_product"
	BucketSewing             SubBucket = "sewing"
	BucketOthers             SubBucket = "others"
)

// SubBuckets lists the ten buckets in ranking display order.
var SubBuckets = []SubBucket{
	BucketJackets, BucketChemises, BucketShirts, BucketPants, BucketAprons,
	BucketEmbroidery, BucketSublimationService, BucketSublimationProduct,
	BucketSewing, BucketOthers,
}

// Physical sublimation goods; anything else under "sublima" is a print
// service (meters, transfers).
var sublimationGoods = []string{"taza", "termo", "chapa", "mousepad", "lanyard"}

var subBucketRules = []struct {
	bucket   SubBucket
	keywords []string
}{
	{BucketEmbroidery, []string{"bordado", "ponchado", "aplique"}},
	// sublimation handled separately for the service/product split
	{BucketSewing, []string{"ruedo", "ajuste", "costura", "cierre", "zurcido"}},
	{BucketJackets, []string{"chaqueta", "cortaviento", "sueter", "hoodie"}},
	{BucketChemises, []string{"chemise", "polo"}},
	{BucketShirts, []string{"camisa", "columbia"}},
	{BucketPants, []string{"pantalón", "pantalon", "jean", "cargo"}},
	{BucketAprons, []string{"delantal"}},
}

// ClassifyItem assigns a line item to exactly one sub-bucket by its
// descriptor (the item type, or the order's model when the item has
// none). Embroidery outranks sublimation, which outranks sewing and the
// garment buckets.
func ClassifyItem(name string) SubBucket {
	lower := strings.ToLower(name)
	if matchesAny(lower, subBucketRules[0].keywords) {
		return BucketEmbroidery
	}
	if strings.Contains(lower, "sublima") {
		if matchesAny(lower, sublimationGoods) {
			return BucketSublimationProduct
		}
		return BucketSublimationService
	}
	for _, rule := range subBucketRules[1:] {
		if matchesAny(lower, rule.keywords) {
			return rule.bucket
		}
	}
	return BucketOthers
}

// itemName resolves the display name of a line item, falling back to
// the order's garment model for items captured without a type.
func itemName(order workshop.Order, item workshop.OrderItem) string {
	if item.Type != "" {
		return item.Type
	}
	return order.GarmentModel
}
