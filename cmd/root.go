package cmd

import (
	"fmt"
	"os"

	"lv-inventory/core/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "lv-inventory",
	Short: "Low Voltage Inventory Service",
	Long: `Low Voltage Inventory tracks construction materials per project,
persists inventory snapshots to Procore, and reconciles received
purchase orders into stock levels.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	if err := RootCmd.Execute(); err != nil {
		// Console format for CLI error reporting; debug level picks the
		// development encoder with ISO8601 timestamps instead of epoch.
		cfg := &logger.Config{
			Level:  "debug",
			Format: "console",
		}

		l, logErr := logger.New(cfg)
		if logErr == nil {
			l.Error("command failed", zap.Error(err))
			_ = l.Sync()
		} else {
			// Absolute fallback if logger creation fails (rare)
			fmt.Println(err)
		}
		os.Exit(1)
	}
}
