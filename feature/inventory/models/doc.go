// Package models defines the inventory record type and its derived fields.
//
// A Record tracks one low-voltage material line: identity, classification,
// identification, unit of measure, the available/allocated quantity pair,
// reorder policy, location, cost, timestamps, and free-form custom fields.
//
// The record invariants are:
//
//	Available >= 0
//	Allocated >= 0
//	Total = Available + Allocated
//
// and the reorder flag is derived, never stored:
//
//	NeedsReorder = Available <= ReorderThreshold
package models
