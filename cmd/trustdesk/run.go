package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"paythru/trustdesk/pkg/audit"
	"paythru/trustdesk/pkg/config"
	"paythru/trustdesk/pkg/maintenance"
	"paythru/trustdesk/pkg/registry"
	"paythru/trustdesk/pkg/registry/storage"
	"paythru/trustdesk/pkg/retry"
	"paythru/trustdesk/pkg/server"
	"paythru/trustdesk/pkg/telemetry/logging"
	"paythru/trustdesk/pkg/telemetry/metrics"
	"paythru/trustdesk/pkg/trustcenter"
)

var runFlags struct {
	listenAddress string
	logLevel      string
	dryRun        bool
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the Trustdesk server",
	Long: `Start the Trustdesk server with the specified configuration.

The server exposes the internal registry API, the audit trail, the public
trust center portal, health probes, and the metrics endpoint.

Examples:
  # Start with default config
  trustdesk run

  # Start with custom config
  trustdesk run --config /etc/trustdesk/config.yaml

  # Override listen address
  trustdesk run --listen 0.0.0.0:8080

  # Validate config without starting the server
  trustdesk run --dry-run`,
	RunE: runServer,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&runFlags.listenAddress, "listen", "l", "", "override listen address")
	runCmd.Flags().StringVar(&runFlags.logLevel, "log-level", "", "override log level (debug, info, warn, error)")
	runCmd.Flags().BoolVar(&runFlags.dryRun, "dry-run", false, "validate config without starting server")
}

func runServer(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadOrDefault(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if runFlags.listenAddress != "" {
		cfg.Server.ListenAddress = runFlags.listenAddress
	}
	if runFlags.logLevel != "" {
		cfg.Telemetry.Logging.Level = runFlags.logLevel
	}
	if verbose {
		cfg.Telemetry.Logging.Level = "debug"
	}

	logger, err := buildLogger(cfg)
	if err != nil {
		return err
	}

	if runFlags.dryRun {
		fmt.Println("✓ Configuration valid")
		return nil
	}

	m := metrics.New(cfg.Telemetry.Metrics.Namespace)

	registryStore, auditStore, err := openStores(cfg)
	if err != nil {
		return err
	}
	defer registryStore.Close()
	defer auditStore.Close()

	recorder := audit.NewRecorder(auditStore, logger).WithCounter(m.AuditRecorded)

	retrier := retry.New(logger, retry.Options{
		MaxRetries:        cfg.Retry.MaxRetries,
		InitialDelay:      cfg.Retry.InitialDelay,
		MaxDelay:          cfg.Retry.MaxDelay,
		BackoffMultiplier: cfg.Retry.BackoffMultiplier,
	}).WithObserver(m)

	service := registry.NewService(registryStore, retrier, recorder, logger)

	index := trustcenter.NewIndex(cfg.TrustCenter.ContentDir, logger).
		WithReloadHook(m.SetTrustCenterArtifacts)

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	if cfg.TrustCenter.Watch {
		watcher, err := trustcenter.NewWatcher(index, logger)
		if err != nil {
			return fmt.Errorf("failed to create trust center watcher: %w", err)
		}
		go func() {
			if err := watcher.Watch(ctx); err != nil {
				logger.Error("trust center watcher exited", map[string]any{"error": err})
			}
		}()
		defer watcher.Stop()
	}

	scheduler := maintenance.NewScheduler(maintenance.Config{
		Schedule:           cfg.Maintenance.Schedule,
		ReviewSweepEnabled: cfg.Maintenance.ReviewSweepEnabled,
		AuditRetentionDays: cfg.Maintenance.AuditRetentionDays,
	}, service, auditStore, logger)
	if err := scheduler.Start(ctx); err != nil {
		return fmt.Errorf("failed to start maintenance scheduler: %w", err)
	}
	defer scheduler.Stop()

	srv := server.New(cfg, logger, m, service, auditStore, index)
	return srv.Start(ctx)
}

// buildLogger creates the sanitizing logger from the telemetry config.
func buildLogger(cfg *config.Config) (*logging.Logger, error) {
	sink, err := logging.NewSlogSink(logging.Config{
		Level:  cfg.Telemetry.Logging.Level,
		Format: cfg.Telemetry.Logging.Format,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to configure logging: %w", err)
	}
	return logging.New(sink), nil
}

// openStores opens the registry and audit databases, creating parent
// directories as needed.
func openStores(cfg *config.Config) (registry.Store, audit.Store, error) {
	for _, path := range []string{cfg.Database.RegistryPath, cfg.Database.AuditPath} {
		if path == ":memory:" {
			continue
		}
		if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
			return nil, nil, fmt.Errorf("failed to create data directory: %w", err)
		}
	}

	registryStore, err := storage.NewSQLiteStore(storage.SQLiteConfig{
		Path:         cfg.Database.RegistryPath,
		MaxOpenConns: cfg.Database.MaxOpenConns,
		MaxIdleConns: cfg.Database.MaxIdleConns,
		BusyTimeout:  cfg.Database.BusyTimeout,
	})
	if err != nil {
		return nil, nil, err
	}

	auditStore, err := audit.NewSQLiteStore(audit.SQLiteConfig{
		Path:         cfg.Database.AuditPath,
		MaxOpenConns: cfg.Database.MaxOpenConns,
		MaxIdleConns: cfg.Database.MaxIdleConns,
		BusyTimeout:  cfg.Database.BusyTimeout,
	})
	if err != nil {
		registryStore.Close()
		return nil, nil, err
	}

	return registryStore, auditStore, nil
}
