// Package server holds configuration for the HTTP server.
//
// The actual Fiber application is assembled in the start command; this
// package only owns the partial configuration (port, API key) so that the
// config loader can bind defaults from struct tags.
package server
