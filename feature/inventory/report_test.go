package inventory_test

import (
	"testing"

	"lv-inventory/feature/inventory"
	"lv-inventory/feature/inventory/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildReportTotals(t *testing.T) {
	records := []models.Record{
		{Category: models.CategoryCable, UnitCost: 10, Available: 1},
		{Category: models.CategoryCable, UnitCost: 20, Available: 1, Allocated: 1},
		{Category: models.CategoryDevices, UnitCost: 30, Available: 1},
	}

	report := inventory.BuildReport(records, inventory.Filter{})

	assert.Equal(t, 3, report.TotalItems)
	assert.Equal(t, 80.0, report.TotalValue) // 10 + 40 + 30

	require.Contains(t, report.ByCategory, models.CategoryCable)
	assert.Equal(t, 2, report.ByCategory[models.CategoryCable].Count)
	assert.Equal(t, 50.0, report.ByCategory[models.CategoryCable].Value)
	assert.Equal(t, 30.0, report.ByCategory[models.CategoryDevices].Value)
}

func TestBuildReportReorderCount(t *testing.T) {
	records := []models.Record{
		{Category: models.CategoryCable, Available: 5, ReorderThreshold: 5},
		{Category: models.CategoryCable, Available: 6, ReorderThreshold: 5},
		{Category: models.CategoryCable, Available: 0, ReorderThreshold: 0},
	}

	report := inventory.BuildReport(records, inventory.Filter{})
	assert.Equal(t, 2, report.NeedingReorder)
}

func TestBuildReportFilter(t *testing.T) {
	records := []models.Record{
		{Category: models.CategoryCable, Description: "Cat6 cable", UnitCost: 10, Available: 1},
		{Category: models.CategoryFiber, Description: "OM4 fiber", UnitCost: 100, Available: 1},
	}

	report := inventory.BuildReport(records, inventory.Filter{Category: "fiber"})
	assert.Equal(t, 1, report.TotalItems)
	assert.Equal(t, 100.0, report.TotalValue)
	assert.NotContains(t, report.ByCategory, models.CategoryCable)
}

func TestBuildReportUncategorized(t *testing.T) {
	report := inventory.BuildReport([]models.Record{{UnitCost: 5, Available: 2}}, inventory.Filter{})
	assert.Equal(t, 10.0, report.ByCategory[models.CategoryOther].Value)
}
