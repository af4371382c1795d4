package cmd

import (
	"context"
	"fmt"
	"os"

	"lv-inventory/core/config"
	"lv-inventory/core/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	exportProject string
	exportFormat  string
	exportOutput  string
	exportArchive bool
)

// exportCmd dumps a project's inventory as CSV or JSON.
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export project inventory to CSV or JSON",
	Long: `Loads the project's inventory (from Procore, or the local snapshot when
the vendor is unreachable) and writes it as CSV or JSON.

Examples:
  # CSV to stdout
  lv-inventory export --project 42178

  # JSON to a file, also archived to object storage
  lv-inventory export --project 42178 --format json --out inventory.json --archive`,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVar(&exportProject, "project", "", "Procore project ID (required)")
	exportCmd.Flags().StringVar(&exportFormat, "format", "csv", "Output format: csv or json")
	exportCmd.Flags().StringVar(&exportOutput, "out", "", "Output file (stdout when empty)")
	exportCmd.Flags().BoolVar(&exportArchive, "archive", false, "Also upload the export to the archive bucket")
	_ = exportCmd.MarkFlagRequired("project")

	RootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
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

	svc, _, cleanup, err := buildService(cfg, l)
	if err != nil {
		return err
	}
	defer cleanup()

	count, err := svc.Load(ctx, exportProject)
	if err != nil {
		return fmt.Errorf("failed to load inventory: %w", err)
	}
	l.Info("Inventory loaded",
		zap.String("project_id", exportProject), zap.Int("records", count))

	var data []byte
	switch exportFormat {
	case "csv":
		data, err = svc.ExportCSV(ctx, exportProject, exportArchive)
	case "json":
		data, err = svc.ExportJSON(ctx, exportProject, exportArchive)
	default:
		return fmt.Errorf("unknown format %q: want csv or json", exportFormat)
	}
	if err != nil {
		return fmt.Errorf("export failed: %w", err)
	}

	if exportOutput == "" {
		_, err = os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(exportOutput, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", exportOutput, err)
	}
	l.Info("Export written", zap.String("path", exportOutput))
	return nil
}
