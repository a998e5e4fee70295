package audit

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"paythru/trustdesk/pkg/telemetry/logging"
)

func testLogger() *logging.Logger {
	sink, _ := logging.NewSlogSink(logging.Config{Level: "error", Writer: io.Discard})
	return logging.New(sink)
}

func TestWithActor(t *testing.T) {
	ctx := WithActor(context.Background(), "alice@paythru.example")
	if got := ActorFromContext(ctx); got != "alice@paythru.example" {
		t.Errorf("ActorFromContext() = %q, want alice@paythru.example", got)
	}
}

func TestActorFromContext_Default(t *testing.T) {
	if got := ActorFromContext(context.Background()); got != "anonymous" {
		t.Errorf("ActorFromContext() = %q, want anonymous", got)
	}
	if got := ActorFromContext(WithActor(context.Background(), "")); got != "anonymous" {
		t.Errorf("ActorFromContext() with empty actor = %q, want anonymous", got)
	}
}

func TestRecorder_Record(t *testing.T) {
	store := NewMemoryStore()
	recorder := NewRecorder(store, testLogger())

	ctx := WithActor(context.Background(), "bob@paythru.example")
	recorder.Record(ctx, ActionCreate, "document", "doc-1", "Access Control Policy")

	records, err := store.Recent(ctx, 10)
	if err != nil {
		t.Fatalf("Recent() error = %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("Recent() = %d records, want 1", len(records))
	}

	r := records[0]
	if r.ID == "" {
		t.Error("record ID is empty")
	}
	if r.Actor != "bob@paythru.example" {
		t.Errorf("actor = %q, want bob@paythru.example", r.Actor)
	}
	if r.Action != ActionCreate || r.EntityKind != "document" || r.EntityID != "doc-1" {
		t.Errorf("record = %+v, want create document doc-1", r)
	}
}

func TestRecorder_Counter(t *testing.T) {
	store := NewMemoryStore()
	count := 0
	recorder := NewRecorder(store, testLogger()).WithCounter(func() { count++ })

	recorder.Record(context.Background(), ActionUpdate, "risk", "risk-1", "")
	recorder.Record(context.Background(), ActionDelete, "risk", "risk-1", "")

	if count != 2 {
		t.Errorf("counter = %d, want 2", count)
	}
}

type failingStore struct {
	Store
}

func (failingStore) Append(context.Context, *Record) error {
	return errors.New("disk full")
}

func TestRecorder_AppendFailureSwallowed(t *testing.T) {
	recorder := NewRecorder(failingStore{}, testLogger())

	// Must not panic and must not propagate the error.
	recorder.Record(context.Background(), ActionCreate, "asset", "asset-1", "")
}

func TestRecorder_NilSafe(t *testing.T) {
	var recorder *Recorder
	recorder.Record(context.Background(), ActionCreate, "asset", "asset-1", "")
}

func TestMemoryStore_RecentOrderAndLimit(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	base := time.Now().UTC()

	for i := 0; i < 5; i++ {
		err := store.Append(ctx, &Record{
			ID:     string(rune('a' + i)),
			Time:   base.Add(time.Duration(i) * time.Minute),
			Actor:  "anonymous",
			Action: ActionCreate,
		})
		if err != nil {
			t.Fatalf("Append() error = %v", err)
		}
	}

	records, err := store.Recent(ctx, 3)
	if err != nil {
		t.Fatalf("Recent() error = %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("Recent(3) = %d records, want 3", len(records))
	}
	if records[0].ID != "e" || records[2].ID != "c" {
		t.Errorf("Recent() order = [%s %s %s], want newest first [e d c]",
			records[0].ID, records[1].ID, records[2].ID)
	}
}

func TestMemoryStore_Prune(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	now := time.Now().UTC()

	old := &Record{ID: "old", Time: now.Add(-48 * time.Hour), Actor: "anonymous", Action: ActionCreate}
	fresh := &Record{ID: "fresh", Time: now, Actor: "anonymous", Action: ActionCreate}
	for _, r := range []*Record{old, fresh} {
		if err := store.Append(ctx, r); err != nil {
			t.Fatalf("Append() error = %v", err)
		}
	}

	deleted, err := store.Prune(ctx, now.Add(-24*time.Hour))
	if err != nil {
		t.Fatalf("Prune() error = %v", err)
	}
	if deleted != 1 {
		t.Errorf("Prune() = %d deleted, want 1", deleted)
	}

	records, err := store.Recent(ctx, 10)
	if err != nil {
		t.Fatalf("Recent() error = %v", err)
	}
	if len(records) != 1 || records[0].ID != "fresh" {
		t.Errorf("after prune = %+v, want only fresh", records)
	}
}

func TestSQLiteStore_AppendRecentPrune(t *testing.T) {
	store, err := NewSQLiteStore(SQLiteConfig{Path: ":memory:"})
	if err != nil {
		t.Fatalf("NewSQLiteStore() error = %v", err)
	}
	defer store.Close()

	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Second)

	records := []*Record{
		{ID: "r1", Time: now.Add(-72 * time.Hour), Actor: "alice", Action: ActionCreate, EntityKind: "document", EntityID: "doc-1"},
		{ID: "r2", Time: now.Add(-time.Hour), Actor: "bob", Action: ActionUpdate, EntityKind: "document", EntityID: "doc-1", Summary: "bumped version"},
		{ID: "r3", Time: now, Actor: "bob", Action: ActionDelete, EntityKind: "risk", EntityID: "risk-9"},
	}
	for _, r := range records {
		if err := store.Append(ctx, r); err != nil {
			t.Fatalf("Append(%s) error = %v", r.ID, err)
		}
	}

	recent, err := store.Recent(ctx, 2)
	if err != nil {
		t.Fatalf("Recent() error = %v", err)
	}
	if len(recent) != 2 || recent[0].ID != "r3" || recent[1].ID != "r2" {
		t.Fatalf("Recent(2) = %+v, want [r3 r2]", recent)
	}
	if recent[1].Summary != "bumped version" {
		t.Errorf("summary = %q, want 'bumped version'", recent[1].Summary)
	}

	deleted, err := store.Prune(ctx, now.Add(-24*time.Hour))
	if err != nil {
		t.Fatalf("Prune() error = %v", err)
	}
	if deleted != 1 {
		t.Errorf("Prune() = %d deleted, want 1", deleted)
	}

	if err := store.Ping(ctx); err != nil {
		t.Errorf("Ping() error = %v", err)
	}
}
