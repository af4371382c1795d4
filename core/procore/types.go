package procore

// Purchase order statuses as reported by Procore.
const (
	StatusDraft    = "Draft"
	StatusPending  = "Pending"
	StatusApproved = "Approved"
	StatusClosed   = "Closed"
)

// PurchaseOrder is a purchase order contract as returned by the vendor.
type PurchaseOrder struct {
	// ID is the vendor-assigned identifier.
	ID int64 `json:"id"`
	// Title is the short order title.
	Title string `json:"title"`
	// Description is the free-form order description.
	Description string `json:"description"`
	// Status is one of the Status* constants.
	Status string `json:"status"`
}

// LineItem is a single line of a purchase order. Read-only input; this
// system never writes line items back.
type LineItem struct {
	// Description is the free-form item description.
	Description string `json:"description"`
	// PartNumber is the manufacturer part number, if known.
	PartNumber string `json:"part_number,omitempty"`
	// Manufacturer is the item manufacturer, if known.
	Manufacturer string `json:"manufacturer,omitempty"`
	// Quantity is the ordered quantity.
	Quantity float64 `json:"quantity"`
	// ReceivedQuantity is the quantity already received against this line.
	ReceivedQuantity float64 `json:"received_quantity"`
	// UnitCost is the cost per unit.
	UnitCost float64 `json:"unit_cost"`
	// Unit is the unit of measure.
	Unit string `json:"uom"`
}
