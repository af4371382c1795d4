package cmd

import (
	"context"
	"fmt"

	"lv-inventory/core/config"
	"lv-inventory/core/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var reconcileProject string

// reconcileCmd applies received purchase orders to a project's inventory.
var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Reconcile purchase orders into project inventory",
	Long: `Fetches the project's purchase orders from Procore, applies the received
quantities of relevant Approved/Closed orders to the inventory, and
persists the result.

Examples:
  # Reconcile one project
  lv-inventory reconcile --project 42178`,
	RunE: runReconcile,
}

func init() {
	reconcileCmd.Flags().StringVar(&reconcileProject, "project", "", "Procore project ID (required)")
	_ = reconcileCmd.MarkFlagRequired("project")

	RootCmd.AddCommand(reconcileCmd)
}

func runReconcile(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	// Load configuration
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Initialize logger
	l, err := logger.New(&cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	l.Info("Starting purchase order reconciliation",
		zap.String("project_id", reconcileProject))

	svc, _, cleanup, err := buildService(cfg, l)
	if err != nil {
		return err
	}
	defer cleanup()

	// Load the current snapshot first so adjustments apply to known records.
	count, err := svc.Load(ctx, reconcileProject)
	if err != nil {
		return fmt.Errorf("failed to load inventory: %w", err)
	}
	l.Info("Inventory loaded", zap.Int("records", count))

	// A manual run should see the vendor's current orders, not a cached set.
	svc.InvalidateOrders(reconcileProject)

	result, err := svc.Reconcile(ctx, reconcileProject)
	if err != nil {
		return fmt.Errorf("reconciliation failed: %w", err)
	}

	l.Info("Reconciliation complete",
		zap.Int("orders_fetched", result.OrdersFetched),
		zap.Int("orders_applied", result.OrdersApplied),
		zap.Int("records_created", result.RecordsCreated),
		zap.Int("records_adjusted", result.RecordsAdjusted),
		zap.Int("records_touched", result.RecordsTouched),
	)
	return nil
}
