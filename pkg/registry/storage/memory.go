package storage

import (
	"context"
	"sort"
	"sync"
	"time"

	"paythru/trustdesk/pkg/registry"
)

// MemoryStore implements registry.Store with in-memory maps. Intended for
// tests and ephemeral deployments.
type MemoryStore struct {
	mu        sync.RWMutex
	documents map[string]*registry.Document
	risks     map[string]*registry.Risk
	controls  map[string]*registry.Control
	assets    map[string]*registry.Asset
	suppliers map[string]*registry.Supplier
}

// NewMemoryStore creates an empty in-memory registry store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		documents: make(map[string]*registry.Document),
		risks:     make(map[string]*registry.Risk),
		controls:  make(map[string]*registry.Control),
		assets:    make(map[string]*registry.Asset),
		suppliers: make(map[string]*registry.Supplier),
	}
}

// Documents

func (s *MemoryStore) CreateDocument(_ context.Context, doc *registry.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *doc
	s.documents[doc.ID] = &copied
	return nil
}

func (s *MemoryStore) GetDocument(_ context.Context, id string) (*registry.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.documents[id]
	if !ok {
		return nil, registry.ErrNotFound
	}
	copied := *doc
	return &copied, nil
}

func (s *MemoryStore) ListDocuments(_ context.Context) ([]*registry.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*registry.Document, 0, len(s.documents))
	for _, doc := range s.documents {
		copied := *doc
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (s *MemoryStore) ListPublishedDocuments(ctx context.Context) ([]*registry.Document, error) {
	all, err := s.ListDocuments(ctx)
	if err != nil {
		return nil, err
	}
	out := all[:0]
	for _, doc := range all {
		if doc.Status == registry.DocumentPublished {
			out = append(out, doc)
		}
	}
	return out, nil
}

func (s *MemoryStore) ListDocumentsDueForReview(ctx context.Context, before time.Time) ([]*registry.Document, error) {
	all, err := s.ListDocuments(ctx)
	if err != nil {
		return nil, err
	}
	out := all[:0]
	for _, doc := range all {
		if !doc.NextReview.IsZero() && doc.NextReview.Before(before) && doc.Status != registry.DocumentArchived {
			out = append(out, doc)
		}
	}
	return out, nil
}

func (s *MemoryStore) UpdateDocument(_ context.Context, doc *registry.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.documents[doc.ID]; !ok {
		return registry.ErrNotFound
	}
	copied := *doc
	s.documents[doc.ID] = &copied
	return nil
}

func (s *MemoryStore) DeleteDocument(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.documents[id]; !ok {
		return registry.ErrNotFound
	}
	delete(s.documents, id)
	return nil
}

// Risks

func (s *MemoryStore) CreateRisk(_ context.Context, risk *registry.Risk) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *risk
	s.risks[risk.ID] = &copied
	return nil
}

func (s *MemoryStore) GetRisk(_ context.Context, id string) (*registry.Risk, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	risk, ok := s.risks[id]
	if !ok {
		return nil, registry.ErrNotFound
	}
	copied := *risk
	return &copied, nil
}

func (s *MemoryStore) ListRisks(_ context.Context) ([]*registry.Risk, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*registry.Risk, 0, len(s.risks))
	for _, risk := range s.risks {
		copied := *risk
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (s *MemoryStore) UpdateRisk(_ context.Context, risk *registry.Risk) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.risks[risk.ID]; !ok {
		return registry.ErrNotFound
	}
	copied := *risk
	s.risks[risk.ID] = &copied
	return nil
}

func (s *MemoryStore) DeleteRisk(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.risks[id]; !ok {
		return registry.ErrNotFound
	}
	delete(s.risks, id)
	return nil
}

// Controls

func (s *MemoryStore) CreateControl(_ context.Context, control *registry.Control) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *control
	s.controls[control.ID] = &copied
	return nil
}

func (s *MemoryStore) GetControl(_ context.Context, id string) (*registry.Control, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	control, ok := s.controls[id]
	if !ok {
		return nil, registry.ErrNotFound
	}
	copied := *control
	return &copied, nil
}

func (s *MemoryStore) ListControls(_ context.Context) ([]*registry.Control, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*registry.Control, 0, len(s.controls))
	for _, control := range s.controls {
		copied := *control
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, nil
}

func (s *MemoryStore) UpdateControl(_ context.Context, control *registry.Control) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.controls[control.ID]; !ok {
		return registry.ErrNotFound
	}
	copied := *control
	s.controls[control.ID] = &copied
	return nil
}

func (s *MemoryStore) DeleteControl(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.controls[id]; !ok {
		return registry.ErrNotFound
	}
	delete(s.controls, id)
	return nil
}

// Assets

func (s *MemoryStore) CreateAsset(_ context.Context, asset *registry.Asset) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *asset
	s.assets[asset.ID] = &copied
	return nil
}

func (s *MemoryStore) GetAsset(_ context.Context, id string) (*registry.Asset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	asset, ok := s.assets[id]
	if !ok {
		return nil, registry.ErrNotFound
	}
	copied := *asset
	return &copied, nil
}

func (s *MemoryStore) ListAssets(_ context.Context) ([]*registry.Asset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*registry.Asset, 0, len(s.assets))
	for _, asset := range s.assets {
		copied := *asset
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *MemoryStore) UpdateAsset(_ context.Context, asset *registry.Asset) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.assets[asset.ID]; !ok {
		return registry.ErrNotFound
	}
	copied := *asset
	s.assets[asset.ID] = &copied
	return nil
}

func (s *MemoryStore) DeleteAsset(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.assets[id]; !ok {
		return registry.ErrNotFound
	}
	delete(s.assets, id)
	return nil
}

// Suppliers

func (s *MemoryStore) CreateSupplier(_ context.Context, supplier *registry.Supplier) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *supplier
	s.suppliers[supplier.ID] = &copied
	return nil
}

func (s *MemoryStore) GetSupplier(_ context.Context, id string) (*registry.Supplier, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	supplier, ok := s.suppliers[id]
	if !ok {
		return nil, registry.ErrNotFound
	}
	copied := *supplier
	return &copied, nil
}

func (s *MemoryStore) ListSuppliers(_ context.Context) ([]*registry.Supplier, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*registry.Supplier, 0, len(s.suppliers))
	for _, supplier := range s.suppliers {
		copied := *supplier
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *MemoryStore) UpdateSupplier(_ context.Context, supplier *registry.Supplier) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.suppliers[supplier.ID]; !ok {
		return registry.ErrNotFound
	}
	copied := *supplier
	s.suppliers[supplier.ID] = &copied
	return nil
}

func (s *MemoryStore) DeleteSupplier(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.suppliers[id]; !ok {
		return registry.ErrNotFound
	}
	delete(s.suppliers, id)
	return nil
}

// Ping always succeeds.
func (s *MemoryStore) Ping(context.Context) error {
	return nil
}

// Close is a no-op.
func (s *MemoryStore) Close() error {
	return nil
}
