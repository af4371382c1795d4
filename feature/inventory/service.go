package inventory

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	"lv-inventory/core/procore"
	"lv-inventory/core/storage"
	"lv-inventory/feature/inventory/alerts"
	"lv-inventory/feature/inventory/localstore"
	"lv-inventory/feature/inventory/models"
	"lv-inventory/feature/inventory/reconcile"

	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
)

// Service orchestrates the record stores, vendor persistence, the local
// fallback store, exports, and reconciliation. It owns one record store per
// project, created on first touch.
type Service struct {
	api    procore.API
	local  *localstore.Store
	logger *zap.Logger
	engine *reconcile.Engine

	archive       storage.Client
	archiveBucket string
	notifier      alerts.Publisher
	cacheTTL      time.Duration

	mu     sync.Mutex
	stores map[string]*Store
}

// Option configures a Service.
type Option func(*Service)

// WithArchive enables archiving of generated exports to object storage.
func WithArchive(client storage.Client, bucket string) Option {
	return func(s *Service) {
		s.archive = client
		s.archiveBucket = bucket
	}
}

// WithNotifier attaches a reorder alert publisher.
func WithNotifier(p alerts.Publisher) Option {
	return func(s *Service) {
		s.notifier = p
	}
}

// WithOrderCacheTTL enables purchase-order caching in the reconciliation
// engine with the given TTL.
func WithOrderCacheTTL(ttl time.Duration) Option {
	return func(s *Service) { s.cacheTTL = ttl }
}

// NewService creates an inventory service.
func NewService(api procore.API, local *localstore.Store, logger *zap.Logger, opts ...Option) *Service {
	s := &Service{
		api:    api,
		local:  local,
		logger: logger,
		stores: make(map[string]*Store),
	}
	for _, opt := range opts {
		opt(s)
	}

	engineOpts := []reconcile.Option{}
	if s.cacheTTL > 0 {
		engineOpts = append(engineOpts, reconcile.WithOrderCacheTTL(s.cacheTTL))
	}
	if s.notifier != nil {
		engineOpts = append(engineOpts, reconcile.WithNotifier(s.notifier))
	}
	s.engine = reconcile.NewEngine(api, s, logger, engineOpts...)

	return s
}

// storeFor returns the record store of a project, creating it when absent.
func (s *Service) storeFor(projectID string) *Store {
	s.mu.Lock()
	defer s.mu.Unlock()

	store, ok := s.stores[projectID]
	if !ok {
		store = NewStore()
		s.stores[projectID] = store
	}
	return store
}

// AddItem inserts a record into a project's inventory.
func (s *Service) AddItem(projectID string, rec models.Record) models.Record {
	rec.ProjectID = projectID
	return s.storeFor(projectID).Add(rec)
}

// UpdateItem applies a partial field edit.
func (s *Service) UpdateItem(projectID, id string, patch Patch) (models.Record, error) {
	return s.storeFor(projectID).Update(id, patch)
}

// DeleteItem removes a record.
func (s *Service) DeleteItem(projectID, id string) error {
	return s.storeFor(projectID).Delete(id)
}

// AdjustQuantity applies a stock or allocation adjustment and publishes a
// reorder alert when the record ends at or below its threshold.
func (s *Service) AdjustQuantity(ctx context.Context, projectID, id string, delta float64, mode models.AdjustMode) (models.Record, error) {
	rec, err := s.storeFor(projectID).Adjust(id, delta, mode)
	if err != nil {
		return models.Record{}, err
	}

	if s.notifier != nil && rec.NeedsReorder() {
		if err := s.notifier.PublishReorder(ctx, rec); err != nil {
			s.logger.Warn("Failed to publish reorder alert",
				zap.String("record_id", rec.ID), zap.Error(err))
		}
	}
	return rec, nil
}

// SearchItems returns the records matching the filter.
func (s *Service) SearchItems(projectID string, filter Filter) []models.Record {
	return s.storeFor(projectID).Search(filter)
}

// ItemsNeedingReorder returns the records at or below their reorder threshold.
func (s *Service) ItemsNeedingReorder(projectID string) []models.Record {
	return s.storeFor(projectID).NeedingReorder()
}

// GenerateReport computes summary statistics over the current snapshot.
func (s *Service) GenerateReport(projectID string, filter Filter) Report {
	return BuildReport(s.storeFor(projectID).Snapshot(), filter)
}

// Load populates a project's store from the vendor, falling back to the
// local snapshot when the vendor is unavailable. Returns the record count.
// An empty store is not an error: a project may simply have no snapshot yet.
func (s *Service) Load(ctx context.Context, projectID string) (int, error) {
	var records []models.Record

	raw, err := s.api.GetInventory(ctx, projectID)
	switch {
	case err == nil:
		if len(raw) > 0 {
			if err := json.Unmarshal(raw, &records); err != nil {
				return 0, fmt.Errorf("invalid inventory payload for project %s: %w", projectID, err)
			}
		}
	case errors.Is(err, procore.ErrUpstreamUnavailable):
		s.logger.Warn("Vendor unavailable on load, using local snapshot",
			zap.String("project_id", projectID), zap.Error(err))

		data, lerr := s.local.Load(ctx, projectID)
		if errors.Is(lerr, localstore.ErrNoSnapshot) {
			records = nil
		} else if lerr != nil {
			return 0, lerr
		} else if err := json.Unmarshal(data, &records); err != nil {
			return 0, fmt.Errorf("corrupt local snapshot for project %s: %w", projectID, err)
		}
	default:
		// Authentication and session errors abort the load.
		return 0, err
	}

	s.storeFor(projectID).Replace(records)
	return len(records), nil
}

// Save persists a project's snapshot: always to the local store, then
// best-effort to the vendor. A vendor failure is logged, never surfaced, so
// data is never lost locally but may lag upstream.
func (s *Service) Save(ctx context.Context, projectID string) error {
	snapshot := s.storeFor(projectID).Snapshot()
	data, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}

	if err := s.local.Save(ctx, projectID, data); err != nil {
		return err
	}

	if err := s.api.ReplaceInventory(ctx, projectID, data); err != nil {
		s.logger.Warn("Failed to sync snapshot upstream",
			zap.String("project_id", projectID), zap.Error(err))
	}
	return nil
}

// Persist implements reconcile.Persister.
func (s *Service) Persist(ctx context.Context, projectID string) error {
	return s.Save(ctx, projectID)
}

// Reconcile runs purchase-order reconciliation for a project.
func (s *Service) Reconcile(ctx context.Context, projectID string) (*reconcile.Result, error) {
	return s.engine.Run(ctx, projectID, s.storeFor(projectID))
}

// InvalidateOrders forces the next reconciliation to fetch fresh purchase
// orders instead of reusing the cached set.
func (s *Service) InvalidateOrders(projectID string) {
	s.engine.InvalidateOrders(projectID)
}

// ExportCSV renders the project snapshot as CSV and optionally archives it.
func (s *Service) ExportCSV(ctx context.Context, projectID string, archive bool) ([]byte, error) {
	data, err := ExportCSV(s.storeFor(projectID).Snapshot())
	if err != nil {
		return nil, err
	}
	if archive {
		if err := s.archiveExport(ctx, projectID, "csv", "text/csv", data); err != nil {
			return nil, err
		}
	}
	return data, nil
}

// ExportJSON renders the project snapshot as JSON and optionally archives it.
func (s *Service) ExportJSON(ctx context.Context, projectID string, archive bool) ([]byte, error) {
	data, err := ExportJSON(s.storeFor(projectID).Snapshot())
	if err != nil {
		return nil, err
	}
	if archive {
		if err := s.archiveExport(ctx, projectID, "json", "application/json", data); err != nil {
			return nil, err
		}
	}
	return data, nil
}

// archiveExport uploads an export to the archive bucket.
func (s *Service) archiveExport(ctx context.Context, projectID, ext, contentType string, data []byte) error {
	if s.archive == nil {
		return errors.New("inventory: export archive is not configured")
	}

	if err := s.ensureBucket(ctx); err != nil {
		return err
	}

	name := fmt.Sprintf("exports/%s/%s.%s", projectID, time.Now().UTC().Format("20060102T150405Z"), ext)
	_, err := s.archive.PutObject(ctx, s.archiveBucket, name,
		bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return fmt.Errorf("failed to archive export %s: %w", name, err)
	}

	s.logger.Info("Archived export",
		zap.String("project_id", projectID), zap.String("object", name))
	return nil
}

// ensureBucket creates the archive bucket if it does not exist yet.
func (s *Service) ensureBucket(ctx context.Context) error {
	exists, err := s.archive.BucketExists(ctx, s.archiveBucket)
	if err != nil {
		return fmt.Errorf("failed to check archive bucket: %w", err)
	}
	if exists {
		return nil
	}
	if err := s.archive.MakeBucket(ctx, s.archiveBucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("failed to create archive bucket: %w", err)
	}
	return nil
}

// ListExports lists the archived export object names for a project, newest last.
func (s *Service) ListExports(ctx context.Context, projectID string) ([]string, error) {
	if s.archive == nil {
		return nil, errors.New("inventory: export archive is not configured")
	}

	prefix := "exports/" + projectID + "/"
	var names []string
	for obj := range s.archive.ListObjects(ctx, s.archiveBucket, minio.ListObjectsOptions{
		Prefix:    prefix,
		Recursive: true,
	}) {
		if obj.Err != nil {
			return nil, fmt.Errorf("failed to list archived exports: %w", obj.Err)
		}
		names = append(names, obj.Key)
	}
	sort.Strings(names)
	return names, nil
}

// DownloadExport fetches an archived export by object name.
func (s *Service) DownloadExport(ctx context.Context, name string) (io.ReadCloser, error) {
	if s.archive == nil {
		return nil, errors.New("inventory: export archive is not configured")
	}
	obj, err := s.archive.GetObject(ctx, s.archiveBucket, name, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch archived export %s: %w", name, err)
	}
	return obj, nil
}
