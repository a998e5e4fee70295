package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"paythru/trustdesk/pkg/audit"
	"paythru/trustdesk/pkg/config"
	"paythru/trustdesk/pkg/maintenance"
	"paythru/trustdesk/pkg/registry"
	"paythru/trustdesk/pkg/retry"
)

var maintainCmd = &cobra.Command{
	Use:   "maintain",
	Short: "Run one maintenance cycle and exit",
	Long: `Run the maintenance jobs once against the configured databases:
flag documents whose review date has passed and prune audit records past
the retention window.

Examples:
  # Run maintenance with the default config
  trustdesk maintain

  # Run against a specific config
  trustdesk maintain --config /etc/trustdesk/config.yaml`,
	RunE: runMaintenance,
}

func init() {
	rootCmd.AddCommand(maintainCmd)
}

func runMaintenance(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadOrDefault(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger, err := buildLogger(cfg)
	if err != nil {
		return err
	}

	registryStore, auditStore, err := openStores(cfg)
	if err != nil {
		return err
	}
	defer registryStore.Close()
	defer auditStore.Close()

	recorder := audit.NewRecorder(auditStore, logger)
	retrier := retry.New(logger, retry.Options{
		MaxRetries:        cfg.Retry.MaxRetries,
		InitialDelay:      cfg.Retry.InitialDelay,
		MaxDelay:          cfg.Retry.MaxDelay,
		BackoffMultiplier: cfg.Retry.BackoffMultiplier,
	})
	service := registry.NewService(registryStore, retrier, recorder, logger)

	scheduler := maintenance.NewScheduler(maintenance.Config{
		ReviewSweepEnabled: cfg.Maintenance.ReviewSweepEnabled,
		AuditRetentionDays: cfg.Maintenance.AuditRetentionDays,
	}, service, auditStore, logger)

	scheduler.Run(cmd.Context())
	fmt.Println("✓ Maintenance cycle complete")
	return nil
}
