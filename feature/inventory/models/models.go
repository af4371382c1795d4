package models

import "time"

// Material categories used for classification. New records synthesized from
// purchase orders are classified into one of these by keyword inference.
const (
	CategoryCable      = "Cable"
	CategoryConnectors = "Connectors"
	CategoryDevices    = "Devices"
	CategoryNetwork    = "Network Equipment"
	CategoryAccess     = "Access Control"
	CategoryAV         = "Audio/Visual"
	CategorySecurity   = "Security"
	CategoryTelecom    = "Telecommunications"
	CategoryFiber      = "Fiber Optics"
	CategoryTools      = "Tools"
	CategoryMounting   = "Mounting Hardware"
	CategoryConduit    = "Conduit & Raceways"
	CategoryOther      = "Other"
)

// LocationFromPO marks records synthesized from purchase order line items,
// so their provenance survives export and re-import.
const LocationFromPO = "Receiving - From PO"

// Record is a single low-voltage material line in a project's inventory.
//
// Available and Allocated are the two quantity fields the allocation
// operations mutate. Both are kept non-negative at all times; the total on
// hand is their sum.
type Record struct {
	ID          string `json:"id"`
	ProjectID   string `json:"project_id"`
	Category    string `json:"category"`
	SubCategory string `json:"sub_category,omitempty"`

	Manufacturer string `json:"manufacturer,omitempty"`
	PartNumber   string `json:"part_number,omitempty"`
	Description  string `json:"description"`
	Unit         string `json:"unit,omitempty"`

	Available float64 `json:"quantity_available"`
	Allocated float64 `json:"quantity_allocated"`

	ReorderThreshold float64 `json:"reorder_threshold"`
	ReorderQuantity  float64 `json:"reorder_quantity"`

	Location string  `json:"location,omitempty"`
	UnitCost float64 `json:"cost"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"last_updated"`

	CustomFields map[string]string `json:"custom_fields,omitempty"`
}

// Total returns the total quantity on hand (available + allocated).
func (r *Record) Total() float64 {
	return r.Available + r.Allocated
}

// NeedsReorder reports whether available stock has dropped to or below the
// reorder threshold. The boundary case available == threshold counts.
func (r *Record) NeedsReorder() bool {
	return r.Available <= r.ReorderThreshold
}

// TotalValue returns the value of all quantity on hand.
func (r *Record) TotalValue() float64 {
	return r.UnitCost * r.Total()
}

// AdjustMode selects which quantity field an adjustment targets.
type AdjustMode string

const (
	// ModeStock adjusts available stock directly (receiving or removal).
	ModeStock AdjustMode = "stock"
	// ModeAllocation moves quantity between available and allocated.
	ModeAllocation AdjustMode = "allocation"
)

// Valid reports whether the mode is one of the known adjustment modes.
func (m AdjustMode) Valid() bool {
	return m == ModeStock || m == ModeAllocation
}
