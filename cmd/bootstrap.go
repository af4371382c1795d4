package cmd

import (
	"fmt"
	"time"

	"lv-inventory/core/config"
	"lv-inventory/core/database"
	"lv-inventory/core/procore"
	"lv-inventory/core/storage"
	"lv-inventory/feature/inventory"
	"lv-inventory/feature/inventory/alerts"
	"lv-inventory/feature/inventory/localstore"

	"go.uber.org/zap"
)

// orderCacheTTL bounds how long reconciliation reuses fetched purchase
// orders before hitting the vendor again.
const orderCacheTTL = 5 * time.Minute

// buildService wires the full inventory service from configuration: vendor
// client with its Redis session store, local snapshot database, export
// archive, and the optional reorder alert publisher. The returned cleanup
// releases the broker connection and must run on shutdown.
func buildService(cfg *config.Config, l *zap.Logger) (*inventory.Service, *procore.Client, func(), error) {
	db, err := database.Connect(cfg.Database)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	local, err := localstore.New(db)
	if err != nil {
		return nil, nil, nil, err
	}

	sessions := procore.NewRedisSessionStore(cfg.Session)
	api := procore.NewClient(cfg.Procore, sessions, l)

	archive, err := storage.NewClient(cfg.Storage)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to connect to storage: %w", err)
	}

	opts := []inventory.Option{
		inventory.WithArchive(archive, cfg.Storage.Bucket),
		inventory.WithOrderCacheTTL(orderCacheTTL),
	}

	publisher, err := alerts.NewAMQPPublisher(cfg.Alerts)
	if err != nil {
		// Alerting is auxiliary. A dead broker must not keep inventory down.
		l.Warn("Reorder alert publisher unavailable", zap.Error(err))
	} else if publisher != nil {
		opts = append(opts, inventory.WithNotifier(publisher))
	}

	cleanup := func() {
		if err := publisher.Close(); err != nil {
			l.Warn("Failed to close alert publisher", zap.Error(err))
		}
	}

	return inventory.NewService(api, local, l, opts...), api, cleanup, nil
}
