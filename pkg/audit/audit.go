package audit

import (
	"context"
	"time"

	"github.com/google/uuid"

	"paythru/trustdesk/pkg/telemetry/logging"
)

// Action is the kind of mutation recorded in the audit trail.
type Action string

// Audit actions.
const (
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
	ActionSweep  Action = "review_sweep"
)

// Record is a single append-only audit trail entry.
type Record struct {
	ID         string    `json:"id"`
	Time       time.Time `json:"time"`
	Actor      string    `json:"actor"`
	Action     Action    `json:"action"`
	EntityKind string    `json:"entity_kind"`
	EntityID   string    `json:"entity_id"`
	Summary    string    `json:"summary"`
}

// Store is the persistence port for the audit trail.
type Store interface {
	// Append writes a record. Records are never updated or deleted
	// individually.
	Append(ctx context.Context, record *Record) error

	// Recent returns up to limit records, newest first.
	Recent(ctx context.Context, limit int) ([]*Record, error)

	// Prune deletes records older than the cutoff and returns the number
	// deleted.
	Prune(ctx context.Context, before time.Time) (int64, error)

	// Ping checks that the backend is reachable.
	Ping(ctx context.Context) error

	// Close releases backend resources.
	Close() error
}

type actorContextKey struct{}

// WithActor returns a context carrying the acting user for audit
// attribution.
func WithActor(ctx context.Context, actor string) context.Context {
	return context.WithValue(ctx, actorContextKey{}, actor)
}

// ActorFromContext returns the acting user from the context, or
// "anonymous" when none is set.
func ActorFromContext(ctx context.Context) string {
	if actor, ok := ctx.Value(actorContextKey{}).(string); ok && actor != "" {
		return actor
	}
	return "anonymous"
}

// Recorder writes audit records. Recording failures are logged and
// swallowed: the audit trail must never fail the mutation it describes.
type Recorder struct {
	store    Store
	logger   *logging.Logger
	onRecord func()
}

// NewRecorder creates a Recorder backed by the given store.
func NewRecorder(store Store, logger *logging.Logger) *Recorder {
	return &Recorder{store: store, logger: logger}
}

// WithCounter attaches a callback invoked after each successful record,
// and returns the Recorder for chaining.
func (r *Recorder) WithCounter(fn func()) *Recorder {
	r.onRecord = fn
	return r
}

// Record appends an audit entry for a mutation. The actor is taken from
// the context.
func (r *Recorder) Record(ctx context.Context, action Action, entityKind, entityID, summary string) {
	if r == nil || r.store == nil {
		return
	}

	record := &Record{
		ID:         uuid.NewString(),
		Time:       time.Now().UTC(),
		Actor:      ActorFromContext(ctx),
		Action:     action,
		EntityKind: entityKind,
		EntityID:   entityID,
		Summary:    summary,
	}

	if err := r.store.Append(ctx, record); err != nil {
		r.logger.Warn("failed to append audit record", map[string]any{
			"action":      string(action),
			"entity_kind": entityKind,
			"entity_id":   entityID,
			"error":       err,
		})
		return
	}

	if r.onRecord != nil {
		r.onRecord()
	}
}
