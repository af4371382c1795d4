package procore

import "errors"

var (
	// ErrUpstreamUnavailable indicates a Procore API call failed.
	// Callers may fall back to the local snapshot store on load.
	ErrUpstreamUnavailable = errors.New("procore: upstream unavailable")

	// ErrAuthenticationFailed indicates a token exchange or refresh failed.
	// The session is unusable and a new login is required.
	ErrAuthenticationFailed = errors.New("procore: authentication failed")

	// ErrNoSession indicates no session has been established or stored yet.
	ErrNoSession = errors.New("procore: no session")
)
