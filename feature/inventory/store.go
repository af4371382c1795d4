package inventory

import (
	"errors"
	"strings"
	"sync"
	"time"

	"lv-inventory/feature/inventory/models"

	"github.com/google/uuid"
)

var (
	// ErrNotFound indicates the id does not resolve to a record.
	ErrNotFound = errors.New("inventory: record not found")

	// ErrInsufficientStock indicates an allocation request exceeds the
	// available quantity.
	ErrInsufficientStock = errors.New("inventory: insufficient stock")

	// ErrInvalidMode indicates an unknown adjustment mode.
	ErrInvalidMode = errors.New("inventory: invalid adjustment mode")
)

// Store is the in-memory record store. It exclusively owns all records:
// accessors hand out copies and external code never mutates the internal
// collection directly.
//
// Records keep their insertion order, which the reconciliation matching rules
// depend on (first match wins in insertion order). A part-number index
// accelerates exact-part matching without changing that order.
type Store struct {
	mu      sync.RWMutex
	records []*models.Record
	byID    map[string]*models.Record
	byPart  map[string]*models.Record // first-inserted record per part number
}

// NewStore creates an empty record store.
func NewStore() *Store {
	return &Store{
		byID:   make(map[string]*models.Record),
		byPart: make(map[string]*models.Record),
	}
}

// Add inserts a record, assigning an ID and timestamps when absent,
// and returns the stored copy.
func (s *Store) Add(rec models.Record) models.Record {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = now
	}
	rec.UpdatedAt = now

	// Quantities start non-negative and stay that way.
	if rec.Available < 0 {
		rec.Available = 0
	}
	if rec.Allocated < 0 {
		rec.Allocated = 0
	}

	stored := rec
	s.records = append(s.records, &stored)
	s.byID[stored.ID] = &stored
	if stored.PartNumber != "" {
		if _, exists := s.byPart[stored.PartNumber]; !exists {
			s.byPart[stored.PartNumber] = &stored
		}
	}

	return rec
}

// Get returns a copy of the record with the given id.
func (s *Store) Get(id string) (models.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.byID[id]
	if !ok {
		return models.Record{}, ErrNotFound
	}
	return *rec, nil
}

// Patch describes a partial field edit. Nil fields are left unchanged.
type Patch struct {
	Category         *string            `json:"category,omitempty"`
	SubCategory      *string            `json:"sub_category,omitempty"`
	Manufacturer     *string            `json:"manufacturer,omitempty"`
	PartNumber       *string            `json:"part_number,omitempty"`
	Description      *string            `json:"description,omitempty"`
	Unit             *string            `json:"unit,omitempty"`
	ReorderThreshold *float64           `json:"reorder_threshold,omitempty"`
	ReorderQuantity  *float64           `json:"reorder_quantity,omitempty"`
	Location         *string            `json:"location,omitempty"`
	UnitCost         *float64           `json:"cost,omitempty"`
	CustomFields     map[string]string  `json:"custom_fields,omitempty"`
}

// Update applies a partial field edit and bumps the last-updated timestamp.
func (s *Store) Update(id string, patch Patch) (models.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.byID[id]
	if !ok {
		return models.Record{}, ErrNotFound
	}

	if patch.Category != nil {
		rec.Category = *patch.Category
	}
	if patch.SubCategory != nil {
		rec.SubCategory = *patch.SubCategory
	}
	if patch.Manufacturer != nil {
		rec.Manufacturer = *patch.Manufacturer
	}
	if patch.PartNumber != nil && *patch.PartNumber != rec.PartNumber {
		rec.PartNumber = *patch.PartNumber
		s.rebuildPartIndex()
	}
	if patch.Description != nil {
		rec.Description = *patch.Description
	}
	if patch.Unit != nil {
		rec.Unit = *patch.Unit
	}
	if patch.ReorderThreshold != nil {
		rec.ReorderThreshold = *patch.ReorderThreshold
	}
	if patch.ReorderQuantity != nil {
		rec.ReorderQuantity = *patch.ReorderQuantity
	}
	if patch.Location != nil {
		rec.Location = *patch.Location
	}
	if patch.UnitCost != nil {
		rec.UnitCost = *patch.UnitCost
	}
	for k, v := range patch.CustomFields {
		if rec.CustomFields == nil {
			rec.CustomFields = make(map[string]string)
		}
		rec.CustomFields[k] = v
	}

	rec.UpdatedAt = time.Now()
	return *rec, nil
}

// Delete removes the record with the given id.
func (s *Store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byID[id]; !ok {
		return ErrNotFound
	}
	delete(s.byID, id)

	for i, rec := range s.records {
		if rec.ID == id {
			s.records = append(s.records[:i], s.records[i+1:]...)
			break
		}
	}
	s.rebuildPartIndex()
	return nil
}

// Adjust applies a quantity adjustment to a record and returns the updated copy.
//
// In stock mode the delta is applied to available directly; a removal larger
// than what is on hand silently floors available at zero. In allocation mode
// a positive delta reserves available stock (failing with
// ErrInsufficientStock when available < delta, leaving the record untouched)
// and a negative delta returns allocated stock, clamped so allocated never
// goes below zero.
func (s *Store) Adjust(id string, delta float64, mode models.AdjustMode) (models.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.byID[id]
	if !ok {
		return models.Record{}, ErrNotFound
	}

	switch mode {
	case models.ModeStock:
		rec.Available += delta
		if rec.Available < 0 {
			rec.Available = 0
		}
	case models.ModeAllocation:
		if delta > 0 {
			if rec.Available < delta {
				return models.Record{}, ErrInsufficientStock
			}
			rec.Available -= delta
			rec.Allocated += delta
		} else {
			returned := -delta
			if returned > rec.Allocated {
				returned = rec.Allocated
			}
			rec.Allocated -= returned
			rec.Available += returned
		}
	default:
		return models.Record{}, ErrInvalidMode
	}

	rec.UpdatedAt = time.Now()
	return *rec, nil
}

// Filter selects records by case-insensitive substring match. Every set
// field must match for a record to pass.
type Filter struct {
	Category     string `json:"category,omitempty"`
	SubCategory  string `json:"sub_category,omitempty"`
	Manufacturer string `json:"manufacturer,omitempty"`
	PartNumber   string `json:"part_number,omitempty"`
	Description  string `json:"description,omitempty"`
	Location     string `json:"location,omitempty"`
}

func (f Filter) matches(rec *models.Record) bool {
	fields := []struct{ want, have string }{
		{f.Category, rec.Category},
		{f.SubCategory, rec.SubCategory},
		{f.Manufacturer, rec.Manufacturer},
		{f.PartNumber, rec.PartNumber},
		{f.Description, rec.Description},
		{f.Location, rec.Location},
	}
	for _, field := range fields {
		if field.want == "" {
			continue
		}
		if !strings.Contains(strings.ToLower(field.have), strings.ToLower(field.want)) {
			return false
		}
	}
	return true
}

// Search returns copies of all records matching the filter, in insertion order.
func (s *Store) Search(filter Filter) []models.Record {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.Record
	for _, rec := range s.records {
		if filter.matches(rec) {
			out = append(out, *rec)
		}
	}
	return out
}

// NeedingReorder returns copies of all records at or below their reorder
// threshold, in insertion order.
func (s *Store) NeedingReorder() []models.Record {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.Record
	for _, rec := range s.records {
		if rec.NeedsReorder() {
			out = append(out, *rec)
		}
	}
	return out
}

// Snapshot returns copies of all records in insertion order.
func (s *Store) Snapshot() []models.Record {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Record, 0, len(s.records))
	for _, rec := range s.records {
		out = append(out, *rec)
	}
	return out
}

// Replace swaps the entire collection, preserving the given order.
// Used when loading a persisted snapshot.
func (s *Store) Replace(recs []models.Record) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = make([]*models.Record, 0, len(recs))
	s.byID = make(map[string]*models.Record, len(recs))
	s.byPart = make(map[string]*models.Record)

	for _, rec := range recs {
		stored := rec
		if stored.ID == "" {
			stored.ID = uuid.NewString()
		}
		s.records = append(s.records, &stored)
		s.byID[stored.ID] = &stored
		if stored.PartNumber != "" {
			if _, exists := s.byPart[stored.PartNumber]; !exists {
				s.byPart[stored.PartNumber] = &stored
			}
		}
	}
}

// Len returns the number of records.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// Match finds the record a purchase order line item applies to: an exact
// part-number match first (via the index), then the first record in
// insertion order whose description contains the line description,
// case-insensitively.
func (s *Store) Match(partNumber, description string) (models.Record, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if partNumber != "" {
		if rec, ok := s.byPart[partNumber]; ok {
			return *rec, true
		}
	}

	if description == "" {
		return models.Record{}, false
	}
	needle := strings.ToLower(description)
	for _, rec := range s.records {
		if strings.Contains(strings.ToLower(rec.Description), needle) {
			return *rec, true
		}
	}
	return models.Record{}, false
}

// rebuildPartIndex recomputes the part-number index. Callers hold s.mu.
func (s *Store) rebuildPartIndex() {
	s.byPart = make(map[string]*models.Record)
	for _, rec := range s.records {
		if rec.PartNumber == "" {
			continue
		}
		if _, exists := s.byPart[rec.PartNumber]; !exists {
			s.byPart[rec.PartNumber] = rec
		}
	}
}
