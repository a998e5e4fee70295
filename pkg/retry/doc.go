// Package retry wraps fallible operations with an exponential-backoff
// retry schedule.
//
// Failures are classified by their diagnostic text: timeouts and
// connection-level errors are transient and retried, everything else is
// terminal and surfaces to the caller unchanged. The schedule is
// deterministic given the options (no jitter), which keeps it testable:
// delay(n) = min(InitialDelay * BackoffMultiplier^n, MaxDelay).
//
//	retrier := retry.New(logger, retry.Options{MaxRetries: 3})
//	err := retrier.Do(ctx, func(ctx context.Context) error {
//	    return store.UpdateDocument(ctx, doc)
//	})
//
// The Retrier is stateless across calls; concurrent calls run independent
// schedules.
package retry
