package maintenance

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"paythru/trustdesk/pkg/audit"
	"paythru/trustdesk/pkg/registry"
	"paythru/trustdesk/pkg/telemetry/logging"
)

// Config contains configuration for the maintenance scheduler.
type Config struct {
	// Schedule is the cron expression for the maintenance run. Empty
	// disables the scheduler.
	Schedule string

	// ReviewSweepEnabled controls the document review sweep.
	ReviewSweepEnabled bool

	// AuditRetentionDays is how long audit records are kept. Zero
	// disables pruning.
	AuditRetentionDays int
}

// Scheduler runs the periodic maintenance jobs: the document review sweep
// and audit trail pruning.
type Scheduler struct {
	config   Config
	registry *registry.Service
	auditLog audit.Store
	logger   *logging.Logger
	cron     *cron.Cron

	mu      sync.Mutex
	running bool
}

// NewScheduler creates a maintenance scheduler.
func NewScheduler(config Config, svc *registry.Service, auditLog audit.Store, logger *logging.Logger) *Scheduler {
	return &Scheduler{
		config:   config,
		registry: svc,
		auditLog: auditLog,
		logger:   logger,
		cron:     cron.New(),
	}
}

// Start begins the scheduled maintenance runs. An empty schedule disables
// the scheduler. The scheduler stops itself when the context is
// cancelled.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.config.Schedule == "" {
		s.logger.Info("maintenance schedule not configured, skipping scheduler")
		return nil
	}

	if _, err := cron.ParseStandard(s.config.Schedule); err != nil {
		return fmt.Errorf("invalid cron schedule %q: %w", s.config.Schedule, err)
	}

	if _, err := s.cron.AddFunc(s.config.Schedule, func() {
		s.Run(ctx)
	}); err != nil {
		return fmt.Errorf("failed to schedule maintenance: %w", err)
	}

	s.cron.Start()
	s.running = true

	s.logger.Info("maintenance scheduler started", map[string]any{
		"schedule":             s.config.Schedule,
		"review_sweep":         s.config.ReviewSweepEnabled,
		"audit_retention_days": s.config.AuditRetentionDays,
	})

	go func() {
		<-ctx.Done()
		s.Stop()
	}()

	return nil
}

// Run executes one maintenance cycle immediately. It is called by the
// cron schedule and can also be invoked directly (e.g. from the CLI).
func (s *Scheduler) Run(ctx context.Context) {
	if s.config.ReviewSweepEnabled {
		flagged, err := s.registry.MarkOverdueReviews(ctx)
		if err != nil {
			s.logger.Error("review sweep failed", map[string]any{"error": err})
		} else if flagged > 0 {
			s.logger.Info("review sweep completed", map[string]any{
				"flagged": flagged,
			})
		}
	}

	if s.config.AuditRetentionDays > 0 {
		cutoff := time.Now().UTC().AddDate(0, 0, -s.config.AuditRetentionDays)
		deleted, err := s.auditLog.Prune(ctx, cutoff)
		if err != nil {
			s.logger.Error("audit pruning failed", map[string]any{"error": err})
		} else if deleted > 0 {
			s.logger.Info("audit pruning completed", map[string]any{
				"deleted": deleted,
			})
		}
	}
}

// Stop stops the scheduler and waits for any running jobs to complete.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cron != nil && s.running {
		ctx := s.cron.Stop()
		<-ctx.Done()
		s.running = false
		s.logger.Info("maintenance scheduler stopped")
	}
}

// IsRunning returns true if the scheduler is running.
func (s *Scheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// NextRun returns the next scheduled maintenance time, or nil when no run
// is scheduled.
func (s *Scheduler) NextRun() *time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries := s.cron.Entries()
	if len(entries) == 0 {
		return nil
	}
	next := entries[0].Next
	return &next
}
