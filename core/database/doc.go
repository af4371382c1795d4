// Package database manages the connection to the local snapshot database.
//
// The database is the offline fallback for inventory persistence: the
// inventory feature stores a serialized snapshot per project here whenever it
// saves, and loads from it when the vendor API is unreachable.
//
// Both sqlite (default, single-binary deployments and tests) and mysql
// (shared deployments) are supported through GORM dialectors.
package database
