// Package inventory implements low-voltage material tracking for construction
// projects.
//
// Each project keeps an in-memory collection of material records (cable,
// connectors, devices and the like) with stock and allocation quantities.
// The collection persists to Procore custom fields, with a local database
// snapshot as a fallback when the vendor is unreachable.
//
// # Components
//
//   - Store: The in-memory per-project record collection with adjustment,
//     search and matching semantics.
//   - Service: Orchestrates stores, persistence, reconciliation, reporting
//     and export archiving.
//   - Handler: Exposes HTTP endpoints for CRUD, adjustments, reports,
//     exports and reconciliation runs.
//   - reconcile: Applies received purchase-order line items to the inventory.
//
// # HTTP Endpoints
//
//   - POST /projects/:projectId/inventory/items : Add a record.
//   - POST /projects/:projectId/inventory/items/:id/adjust : Adjust quantities.
//   - POST /projects/:projectId/inventory/reconcile : Run PO reconciliation.
//   - GET  /projects/:projectId/inventory/report : Aggregated report.
package inventory
