package reconcile

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"lv-inventory/core/procore"
	"lv-inventory/feature/inventory/models"

	"go.uber.org/zap"
)

// RecordStore is the slice of the inventory store the engine needs.
type RecordStore interface {
	// Match finds the record a line item applies to (part number first,
	// then description substring, first match in insertion order).
	Match(partNumber, description string) (models.Record, bool)
	// Add inserts a synthesized record and returns the stored copy.
	Add(rec models.Record) models.Record
	// Adjust applies a stock adjustment to an existing record.
	Adjust(id string, delta float64, mode models.AdjustMode) (models.Record, error)
}

// Persister saves the record store after a run that touched records.
type Persister interface {
	Persist(ctx context.Context, projectID string) error
}

// Notifier receives reorder alerts for records left at or below threshold.
type Notifier interface {
	PublishReorder(ctx context.Context, rec models.Record) error
}

// Result summarizes a reconciliation run.
type Result struct {
	// OrdersFetched is the number of purchase orders returned by the vendor.
	OrdersFetched int `json:"orders_fetched"`
	// OrdersApplied is the number of relevant Approved/Closed orders whose
	// line items were applied.
	OrdersApplied int `json:"orders_applied"`
	// RecordsCreated counts records synthesized from unmatched line items.
	RecordsCreated int `json:"records_created"`
	// RecordsAdjusted counts existing records that received a stock adjustment.
	RecordsAdjusted int `json:"records_adjusted"`
	// RecordsTouched is the number of distinct records created or adjusted.
	RecordsTouched int `json:"records_touched"`
}

// Engine reconciles a project's inventory against its purchase orders.
//
// A run fetches every purchase order for the project, keeps the low-voltage
// relevant ones in Approved or Closed status, and applies their line items to
// the record store: matched items become stock adjustments for the not-yet-
// received quantity, unmatched items become new records. The store is
// persisted exactly once at the end, and only if anything was touched.
//
// Runs for the same project are serialized by a per-project lock; adjustments
// already applied when a fetch fails mid-run are not rolled back.
type Engine struct {
	api      procore.API
	persist  Persister
	notifier Notifier
	logger   *zap.Logger
	cache    *orderCache

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// Option configures an Engine.
type Option func(*Engine)

// WithOrderCacheTTL enables purchase-order caching with the given TTL.
func WithOrderCacheTTL(ttl time.Duration) Option {
	return func(e *Engine) {
		e.cache = newOrderCache(ttl)
	}
}

// WithNotifier attaches a reorder alert notifier.
func WithNotifier(n Notifier) Option {
	return func(e *Engine) {
		e.notifier = n
	}
}

// NewEngine creates a reconciliation engine.
func NewEngine(api procore.API, persist Persister, logger *zap.Logger, opts ...Option) *Engine {
	e := &Engine{
		api:     api,
		persist: persist,
		logger:  logger,
		cache:   newOrderCache(0),
		locks:   make(map[string]*sync.Mutex),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// InvalidateOrders drops the cached purchase orders for a project, forcing
// the next run to fetch from the vendor.
func (e *Engine) InvalidateOrders(projectID string) {
	e.cache.invalidate(projectID)
}

// projectLock returns the mutex serializing runs for a project.
func (e *Engine) projectLock(projectID string) *sync.Mutex {
	e.mu.Lock()
	defer e.mu.Unlock()

	l, ok := e.locks[projectID]
	if !ok {
		l = &sync.Mutex{}
		e.locks[projectID] = l
	}
	return l
}

// Run reconciles the given project against its record store. Any vendor
// fetch failure aborts the run and surfaces to the caller; adjustments
// applied before the failure stand.
func (e *Engine) Run(ctx context.Context, projectID string, store RecordStore) (*Result, error) {
	lock := e.projectLock(projectID)
	lock.Lock()
	defer lock.Unlock()

	orders, err := e.cache.get(ctx, projectID, func(ctx context.Context) ([]procore.PurchaseOrder, error) {
		return e.api.ListPurchaseOrders(ctx, projectID)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch purchase orders for project %s: %w", projectID, err)
	}

	result := &Result{OrdersFetched: len(orders)}
	touched := make(map[string]struct{})

	for _, order := range orders {
		if !IsRelevant(order) {
			continue
		}
		// Pending orders are invisible to inventory until approved.
		if order.Status != procore.StatusApproved && order.Status != procore.StatusClosed {
			continue
		}

		items, err := e.api.ListLineItems(ctx, order.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch line items for order %d: %w", order.ID, err)
		}

		result.OrdersApplied++
		for _, item := range items {
			rec, created, changed := e.applyLineItem(store, projectID, order, item)
			if !changed {
				continue
			}
			if created {
				result.RecordsCreated++
			} else {
				result.RecordsAdjusted++
			}
			touched[rec.ID] = struct{}{}

			if e.notifier != nil && rec.NeedsReorder() {
				if err := e.notifier.PublishReorder(ctx, rec); err != nil {
					e.logger.Warn("Failed to publish reorder alert",
						zap.String("record_id", rec.ID), zap.Error(err))
				}
			}
		}
	}

	result.RecordsTouched = len(touched)
	if result.RecordsTouched == 0 {
		return result, nil
	}

	if err := e.persist.Persist(ctx, projectID); err != nil {
		return result, fmt.Errorf("failed to persist after reconciliation: %w", err)
	}
	return result, nil
}

// applyLineItem applies one line item to the store. It returns the touched
// record, whether it was created, and whether anything changed at all.
func (e *Engine) applyLineItem(store RecordStore, projectID string, order procore.PurchaseOrder, item procore.LineItem) (models.Record, bool, bool) {
	if rec, ok := store.Match(item.PartNumber, item.Description); ok {
		change := item.Quantity - item.ReceivedQuantity
		if change <= 0 {
			return models.Record{}, false, false
		}
		updated, err := store.Adjust(rec.ID, change, models.ModeStock)
		if err != nil {
			// The record was just matched; the only way to get here is a
			// concurrent delete, in which case there is nothing to adjust.
			e.logger.Warn("Matched record vanished during reconciliation",
				zap.String("record_id", rec.ID), zap.Error(err))
			return models.Record{}, false, false
		}
		return updated, false, true
	}

	rec := store.Add(models.Record{
		ProjectID:        projectID,
		Category:         InferCategory(item.Description),
		Manufacturer:     item.Manufacturer,
		PartNumber:       item.PartNumber,
		Description:      item.Description,
		Unit:             item.Unit,
		Available:        item.Quantity,
		ReorderThreshold: math.Floor(item.Quantity * 0.2),
		ReorderQuantity:  item.Quantity,
		Location:         models.LocationFromPO,
		UnitCost:         item.UnitCost,
		CustomFields: map[string]string{
			"source_order": order.Title,
		},
	})
	return rec, true, true
}
