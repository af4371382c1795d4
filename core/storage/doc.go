// Package storage provides the object storage client for the export archive.
//
// Generated CSV and JSON inventory exports are archived to an S3-compatible
// bucket so that past snapshots remain retrievable after the in-memory store
// has moved on. The Client interface wraps the subset of Minio operations the
// archive needs, which keeps handlers and services mockable in tests (see the
// mocks subpackage).
package storage
