// Package procore is the client for the Procore construction-management API.
//
// The inventory feature consumes three vendor surfaces, all JSON over HTTPS
// with bearer-token authentication:
//
//   - purchase orders per project,
//   - line items per purchase order,
//   - a persisted inventory collection keyed by project (list/replace).
//
// # Sessions
//
// OAuth tokens are never held in package-level state. A Session is an explicit
// value owned by the Client and persisted through a SessionStore at defined
// lifecycle boundaries: loaded lazily before the first request, saved after
// every token exchange or refresh. A Redis-backed store keeps sessions across
// restarts; the in-memory store serves tests.
//
// # Errors
//
// Transport failures and non-2xx responses surface as ErrUpstreamUnavailable.
// A failed token exchange or refresh surfaces as ErrAuthenticationFailed and
// requires a new login.
package procore
