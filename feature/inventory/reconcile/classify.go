package reconcile

import (
	"strings"

	"lv-inventory/core/procore"
	"lv-inventory/feature/inventory/models"
)

// relevanceKeywords mark a purchase order as low-voltage relevant when any of
// them appears in its title or description. This is a substring heuristic;
// false positives and negatives are expected and accepted.
var relevanceKeywords = []string{
	"low voltage",
	"lv",
	"communications",
	"data",
	"telecom",
	"network",
	"cable",
}

// IsRelevant reports whether a purchase order is in scope for low-voltage
// inventory tracking.
func IsRelevant(order procore.PurchaseOrder) bool {
	haystack := strings.ToLower(order.Title + " " + order.Description)
	for _, kw := range relevanceKeywords {
		if strings.Contains(haystack, kw) {
			return true
		}
	}
	return false
}

// categoryRule maps description keywords to a material category.
type categoryRule struct {
	keywords []string
	category string
}

// categoryRules is evaluated in order; the first matching rule wins.
var categoryRules = []categoryRule{
	{[]string{"cable", "wire"}, models.CategoryCable},
	{[]string{"connector", "terminal"}, models.CategoryConnectors},
	{[]string{"camera", "sensor"}, models.CategoryDevices},
	{[]string{"switch", "router", "access point"}, models.CategoryNetwork},
	{[]string{"card reader", "door"}, models.CategoryAccess},
	{[]string{"speaker", "microphone", "projector"}, models.CategoryAV},
	{[]string{"alarm", "motion", "security"}, models.CategorySecurity},
	{[]string{"phone", "telecom"}, models.CategoryTelecom},
	{[]string{"fiber"}, models.CategoryFiber},
	{[]string{"tool"}, models.CategoryTools},
	{[]string{"bracket", "mount"}, models.CategoryMounting},
	{[]string{"conduit", "raceway", "tray"}, models.CategoryConduit},
}

// InferCategory classifies a line item description into a material category.
func InferCategory(description string) string {
	haystack := strings.ToLower(description)
	for _, rule := range categoryRules {
		for _, kw := range rule.keywords {
			if strings.Contains(haystack, kw) {
				return rule.category
			}
		}
	}
	return models.CategoryOther
}
