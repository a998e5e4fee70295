package retry

import (
	"context"
	"fmt"
	"math"
	"time"

	"paythru/trustdesk/pkg/telemetry/logging"
)

// Options configures a Retrier. The zero value of a field selects its
// default; MaxRetries keeps an explicit zero (a single attempt, no retries).
type Options struct {
	// MaxRetries is the number of retries after the initial attempt.
	// Default: 3
	MaxRetries int

	// InitialDelay is the delay before the first retry.
	// Default: 100ms
	InitialDelay time.Duration

	// MaxDelay caps the computed backoff delay.
	// Default: 30s
	MaxDelay time.Duration

	// BackoffMultiplier grows the delay between attempts. Must be > 1.
	// Default: 2
	BackoffMultiplier float64
}

// DefaultOptions returns the default retry options.
func DefaultOptions() Options {
	return Options{
		MaxRetries:        3,
		InitialDelay:      100 * time.Millisecond,
		MaxDelay:          30 * time.Second,
		BackoffMultiplier: 2.0,
	}
}

// Observer receives notifications about retry activity. Implementations
// must be safe for concurrent use.
type Observer interface {
	// RetryAttempted is called before each retry wait.
	RetryAttempted()

	// RetriesExhausted is called when a transient failure has consumed
	// every retry.
	RetriesExhausted()
}

// Retrier wraps fallible operations with an exponential-backoff retry
// schedule. It holds no mutable state: concurrent Do calls each run their
// own schedule.
type Retrier struct {
	opts     Options
	logger   *logging.Logger
	observer Observer
}

// New creates a Retrier with the given options and logger. Zero-valued
// option fields are filled from DefaultOptions; a negative MaxRetries is
// treated as the default, an explicit zero means a single attempt.
func New(logger *logging.Logger, opts Options) *Retrier {
	defaults := DefaultOptions()
	if opts.MaxRetries < 0 {
		opts.MaxRetries = defaults.MaxRetries
	}
	if opts.InitialDelay <= 0 {
		opts.InitialDelay = defaults.InitialDelay
	}
	if opts.MaxDelay <= 0 {
		opts.MaxDelay = defaults.MaxDelay
	}
	if opts.BackoffMultiplier <= 1 {
		opts.BackoffMultiplier = defaults.BackoffMultiplier
	}
	return &Retrier{opts: opts, logger: logger}
}

// WithObserver attaches an observer for retry metrics and returns the
// Retrier for chaining.
func (r *Retrier) WithObserver(obs Observer) *Retrier {
	r.observer = obs
	return r
}

// Do invokes op until it succeeds, fails terminally, or exhausts the retry
// budget. The final failure is returned unchanged. An operation that
// succeeds on the first attempt produces no log entries; each retried
// attempt produces two warning entries (the failure and the computed
// delay); a final failure produces one error entry with the total attempt
// count. Failures with empty text are terminal and returned without
// logging.
//
// The backoff wait honors ctx cancellation; a started attempt is always
// allowed to settle before the next decision.
func (r *Retrier) Do(ctx context.Context, op func(context.Context) error) error {
	attempts := r.opts.MaxRetries + 1

	for attempt := 0; ; attempt++ {
		err := op(ctx)
		if err == nil {
			return nil
		}

		text := FailureText(err)
		if text == "" {
			return err
		}

		if !Transient(err) || attempt >= r.opts.MaxRetries {
			if r.observer != nil && attempt >= r.opts.MaxRetries && Transient(err) {
				r.observer.RetriesExhausted()
			}
			r.logger.Error(
				fmt.Sprintf("operation failed after %d attempt(s)", attempt+1),
				map[string]any{"error": err},
			)
			return err
		}

		if r.observer != nil {
			r.observer.RetryAttempted()
		}

		r.logger.Warn(
			fmt.Sprintf("attempt %d of %d failed", attempt+1, attempts),
			map[string]any{"error": err},
		)

		delay := r.backoff(attempt)
		r.logger.Warn(fmt.Sprintf("retrying in %s", delay))

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}
}

// backoff computes the deterministic delay for the given attempt counter:
// InitialDelay * BackoffMultiplier^attempt, capped at MaxDelay.
func (r *Retrier) backoff(attempt int) time.Duration {
	delay := float64(r.opts.InitialDelay) * math.Pow(r.opts.BackoffMultiplier, float64(attempt))
	if delay > float64(r.opts.MaxDelay) {
		delay = float64(r.opts.MaxDelay)
	}
	return time.Duration(delay)
}
