package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tbrooke/backup-monitor/internal/domain"
)

// NewRunCmd creates the run command.
func NewRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a single collection cycle and exit",
		Long: `Run one scan-analyze-emit cycle against the configured backup root
and exit. The exit code reflects the run itself, not backup health:
a critical backup tree still exits zero as long as the monitor could
evaluate and emit it.`,
		RunE: runRun,
	}

	return cmd
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger, err := setupLogging(cfg)
	if err != nil {
		return fmt.Errorf("failed to setup logging: %w", err)
	}

	m := buildMonitor(cfg, logger)

	report := m.Run(cmd.Context())
	if report.Overall == domain.OverallError {
		return fmt.Errorf("collection run failed: %s", report.Error)
	}

	logger.Info("run finished",
		"health_score", report.HealthScore,
		"overall", report.Overall,
		"freshness", report.Freshness.Status,
		"integrity", report.Integrity.Status,
	)

	return nil
}
