package inventory

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"lv-inventory/feature/inventory/models"
)

// csvHeader is the fixed export column order. Downstream spreadsheets key on
// these positions, so the order is part of the contract.
var csvHeader = []string{
	"ID",
	"Category",
	"Sub-Category",
	"Manufacturer",
	"Part Number",
	"Description",
	"Unit",
	"Quantity Available",
	"Quantity Allocated",
	"Total Quantity",
	"Reorder Threshold",
	"Reorder Quantity",
	"Location",
	"Cost",
	"Total Value",
	"Last Updated",
}

// ExportCSV renders the records as CSV in the fixed column order.
func ExportCSV(records []models.Record) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(csvHeader); err != nil {
		return nil, fmt.Errorf("failed to write csv header: %w", err)
	}

	for i := range records {
		rec := &records[i]
		row := []string{
			rec.ID,
			rec.Category,
			rec.SubCategory,
			rec.Manufacturer,
			rec.PartNumber,
			rec.Description,
			rec.Unit,
			formatQuantity(rec.Available),
			formatQuantity(rec.Allocated),
			formatQuantity(rec.Total()),
			formatQuantity(rec.ReorderThreshold),
			formatQuantity(rec.ReorderQuantity),
			rec.Location,
			formatQuantity(rec.UnitCost),
			formatQuantity(rec.TotalValue()),
			rec.UpdatedAt.Format(time.RFC3339),
		}
		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("failed to write csv row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush csv: %w", err)
	}
	return buf.Bytes(), nil
}

// ExportJSON renders the records as an indented JSON array.
func ExportJSON(records []models.Record) ([]byte, error) {
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode records: %w", err)
	}
	return data, nil
}

// formatQuantity renders a quantity or cost without trailing zeros.
func formatQuantity(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
