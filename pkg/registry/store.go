package registry

import (
	"context"
	"time"
)

// Store is the persistence port for the registry. Implementations live in
// pkg/registry/storage; callers should treat every method as potentially
// failing transiently (the service layer wraps calls in the retry policy).
type Store interface {
	// Documents
	CreateDocument(ctx context.Context, doc *Document) error
	GetDocument(ctx context.Context, id string) (*Document, error)
	ListDocuments(ctx context.Context) ([]*Document, error)
	ListPublishedDocuments(ctx context.Context) ([]*Document, error)
	ListDocumentsDueForReview(ctx context.Context, before time.Time) ([]*Document, error)
	UpdateDocument(ctx context.Context, doc *Document) error
	DeleteDocument(ctx context.Context, id string) error

	// Risks
	CreateRisk(ctx context.Context, risk *Risk) error
	GetRisk(ctx context.Context, id string) (*Risk, error)
	ListRisks(ctx context.Context) ([]*Risk, error)
	UpdateRisk(ctx context.Context, risk *Risk) error
	DeleteRisk(ctx context.Context, id string) error

	// Controls
	CreateControl(ctx context.Context, control *Control) error
	GetControl(ctx context.Context, id string) (*Control, error)
	ListControls(ctx context.Context) ([]*Control, error)
	UpdateControl(ctx context.Context, control *Control) error
	DeleteControl(ctx context.Context, id string) error

	// Assets
	CreateAsset(ctx context.Context, asset *Asset) error
	GetAsset(ctx context.Context, id string) (*Asset, error)
	ListAssets(ctx context.Context) ([]*Asset, error)
	UpdateAsset(ctx context.Context, asset *Asset) error
	DeleteAsset(ctx context.Context, id string) error

	// Suppliers
	CreateSupplier(ctx context.Context, supplier *Supplier) error
	GetSupplier(ctx context.Context, id string) (*Supplier, error)
	ListSuppliers(ctx context.Context) ([]*Supplier, error)
	UpdateSupplier(ctx context.Context, supplier *Supplier) error
	DeleteSupplier(ctx context.Context, id string) error

	// Ping checks that the backend is reachable.
	Ping(ctx context.Context) error

	// Close releases backend resources.
	Close() error
}
