package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/tbrooke/backup-monitor/internal/domain"
)

// NewValidateCmd creates the validate command.
func NewValidateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate configuration and test connectivity",
		Long: `Validate the configuration file and test connectivity to the
configured event sink.

This checks:
- Config file syntax and field values
- Backup tier directory presence (informational)
- Sink reachability`,
		RunE: runValidate,
	}

	return cmd
}

func runValidate(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
	defer cancel()

	fmt.Println("Configuration:")
	cfg, err := loadConfig()
	if err != nil {
		fmt.Printf("  ✗ Config: %v\n", err)
		return err
	}
	fmt.Printf("  ✓ Config valid\n")
	fmt.Printf("  Backup root: %s\n", cfg.BackupRoot)
	fmt.Printf("  Expected interval: %.0fh\n", cfg.ExpectedIntervalHours)
	fmt.Printf("  Retention: %d daily / %d weekly / %d monthly\n",
		cfg.Retention.Daily, cfg.Retention.Weekly, cfg.Retention.Monthly)
	fmt.Printf("  Schedule: %s\n", cfg.Schedule)
	fmt.Printf("  Sink: %s\n", cfg.Sink.Type)
	if cfg.Disk.Enabled {
		fmt.Printf("  Disk collector: %s (warn %.0f%%, crit %.0f%%)\n",
			cfg.Disk.Path, cfg.Disk.WarningPercent, cfg.Disk.CriticalPercent)
	}
	fmt.Println()

	fmt.Println("Checks:")
	logger, _ := setupLogging(cfg)

	// A missing tier directory is legal (no backups yet), so this is
	// informational only.
	for _, tier := range domain.BackupTypes {
		dir := cfg.TierDir(tier.String())
		if _, err := os.Stat(dir); err != nil {
			fmt.Printf("  - Tier directory %s not present yet\n", dir)
		} else {
			fmt.Printf("  ✓ Tier directory %s found\n", dir)
		}
	}

	eventSink := buildSink(cfg, logger)
	if err := eventSink.Validate(ctx); err != nil {
		fmt.Printf("  ✗ Sink (%s): %v\n", cfg.Sink.Type, err)
	} else {
		fmt.Printf("  ✓ Sink (%s) reachable\n", cfg.Sink.Type)
	}

	fmt.Println()
	fmt.Println("Validation complete.")
	return nil
}
