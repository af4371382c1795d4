package inventory

import "lv-inventory/feature/inventory/models"

// CategorySummary is the per-category slice of an inventory report.
type CategorySummary struct {
	// Count is the number of records in the category.
	Count int `json:"count"`
	// Value is the total value of the category (cost * total quantity).
	Value float64 `json:"value"`
}

// Report summarizes an inventory snapshot.
type Report struct {
	// TotalItems is the number of records after filtering.
	TotalItems int `json:"total_items"`
	// TotalValue is the sum of cost * total quantity across records.
	TotalValue float64 `json:"total_value"`
	// NeedingReorder counts records at or below their reorder threshold.
	NeedingReorder int `json:"needing_reorder"`
	// ByCategory breaks down count and value per category.
	ByCategory map[string]CategorySummary `json:"by_category"`
}

// BuildReport computes summary statistics over a record snapshot, applying
// the optional filter first. Pure function of its input; no side effects.
func BuildReport(records []models.Record, filter Filter) Report {
	report := Report{
		ByCategory: make(map[string]CategorySummary),
	}

	for i := range records {
		rec := &records[i]
		if !filter.matches(rec) {
			continue
		}

		value := rec.TotalValue()
		report.TotalItems++
		report.TotalValue += value
		if rec.NeedsReorder() {
			report.NeedingReorder++
		}

		category := rec.Category
		if category == "" {
			category = models.CategoryOther
		}
		summary := report.ByCategory[category]
		summary.Count++
		summary.Value += value
		report.ByCategory[category] = summary
	}

	return report
}
