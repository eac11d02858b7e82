package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/tbrooke/backup-monitor/internal/config"
	"github.com/tbrooke/backup-monitor/internal/domain"
	"github.com/tbrooke/backup-monitor/internal/monitor"
)

// NewServeCmd creates the serve command.
func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the monitor in foreground on its cron schedule",
		Long: `Run the collection loop in foreground mode, triggering a cycle on
the configured cron schedule, and expose a /healthz liveness endpoint
that reports whether the monitor itself is still running on time.

Use Ctrl+C to stop.`,
		RunE: runServe,
	}

	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger, err := setupLogging(cfg)
	if err != nil {
		return fmt.Errorf("failed to setup logging: %w", err)
	}
	logger.Info("starting backup-monitor in foreground mode")

	m := buildMonitor(cfg, logger)

	scheduler, err := monitor.NewScheduler(m, cfg.Schedule,
		monitor.WithCollectOnStartup(cfg.CollectOnStartup),
		monitor.WithSchedulerLogger(logger),
	)
	if err != nil {
		return fmt.Errorf("failed to create scheduler: %w", err)
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigCh
		logger.Info("received signal, shutting down", "signal", sig)
		cancel()
	}()

	var healthServer *http.Server
	if cfg.Liveness.Bind != "" {
		healthServer = startHealthServer(cfg, m.State(), logger)
		defer shutdownHealthServer(healthServer, logger)
	}

	if err := scheduler.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("scheduler error: %w", err)
	}

	logger.Info("backup-monitor stopped")
	return nil
}

// healthResponse is the /healthz payload.
type healthResponse struct {
	Status              string   `json:"status"`
	MinutesSinceLastRun *float64 `json:"minutes_since_last_run,omitempty"`
}

// startHealthServer exposes the monitor's self-health: healthy means
// a collection run completed within the liveness threshold, whatever
// the backups themselves looked like.
func startHealthServer(cfg *config.Config, state *domain.RunState, logger *slog.Logger) *http.Server {
	threshold := time.Duration(cfg.Liveness.ThresholdMinutes) * time.Minute

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		now := time.Now()
		resp := healthResponse{Status: "ok"}

		if mins, ok := state.MinutesSince(now); ok {
			resp.MinutesSinceLastRun = &mins
		}

		w.Header().Set("Content-Type", "application/json")
		if !state.Alive(now, threshold) {
			resp.Status = "stale"
			w.WriteHeader(http.StatusServiceUnavailable)
		}
		_ = json.NewEncoder(w).Encode(resp)
	})

	server := &http.Server{Addr: cfg.Liveness.Bind, Handler: mux}

	go func() {
		logger.Info("liveness endpoint listening", "addr", cfg.Liveness.Bind)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("liveness server failed", "error", err)
		}
	}()

	return server
}

func shutdownHealthServer(server *http.Server, logger *slog.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Warn("liveness server shutdown failed", "error", err)
	}
}
