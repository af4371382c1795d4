// Package reconcile syncs a project's inventory records against purchase
// order data from the vendor system.
//
// A run works through every purchase order of a project: orders whose title
// or description carries a low-voltage keyword are classified relevant, and
// among those only orders in Approved or Closed status mutate inventory.
// Each line item either tops up the matching record by its not-yet-received
// quantity or, when nothing matches, synthesizes a new record with an
// inferred category and default reorder policy.
//
// Runs for the same project are serialized by a per-project lock, and the
// purchase order fetch can be cached with a TTL so closely spaced triggers
// share one vendor call.
package reconcile
