package registry

import (
	"context"
	"fmt"
	"net/mail"
	"time"

	"github.com/google/uuid"

	"paythru/trustdesk/pkg/audit"
	"paythru/trustdesk/pkg/retry"
	"paythru/trustdesk/pkg/telemetry/logging"
)

// Service is the registry business layer. It validates entities before
// persistence, wraps every store call in the retry policy, and records an
// audit entry for each mutation.
type Service struct {
	store   Store
	retrier *retry.Retrier
	audit   *audit.Recorder
	logger  *logging.Logger
}

// NewService creates a Service on top of the given store.
func NewService(store Store, retrier *retry.Retrier, recorder *audit.Recorder, logger *logging.Logger) *Service {
	return &Service{
		store:   store,
		retrier: retrier,
		audit:   recorder,
		logger:  logger,
	}
}

// do runs a store operation under the retry policy.
func (s *Service) do(ctx context.Context, op func(context.Context) error) error {
	return s.retrier.Do(ctx, op)
}

// Documents

// CreateDocument validates and persists a new document. The ID and
// timestamps are assigned here; a missing status defaults to draft.
func (s *Service) CreateDocument(ctx context.Context, doc *Document) (*Document, error) {
	if doc.Status == "" {
		doc.Status = DocumentDraft
	}
	if err := validateDocument(doc); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	doc.ID = uuid.NewString()
	doc.CreatedAt = now
	doc.UpdatedAt = now

	if err := s.do(ctx, func(ctx context.Context) error {
		return s.store.CreateDocument(ctx, doc)
	}); err != nil {
		return nil, err
	}

	s.audit.Record(ctx, audit.ActionCreate, "document", doc.ID, doc.Title)
	return doc, nil
}

// GetDocument returns a document by ID.
func (s *Service) GetDocument(ctx context.Context, id string) (*Document, error) {
	var doc *Document
	err := s.do(ctx, func(ctx context.Context) error {
		var err error
		doc, err = s.store.GetDocument(ctx, id)
		return err
	})
	return doc, err
}

// ListDocuments returns all documents.
func (s *Service) ListDocuments(ctx context.Context) ([]*Document, error) {
	var docs []*Document
	err := s.do(ctx, func(ctx context.Context) error {
		var err error
		docs, err = s.store.ListDocuments(ctx)
		return err
	})
	return docs, err
}

// ListPublishedDocuments returns documents visible to the trust center.
func (s *Service) ListPublishedDocuments(ctx context.Context) ([]*Document, error) {
	var docs []*Document
	err := s.do(ctx, func(ctx context.Context) error {
		var err error
		docs, err = s.store.ListPublishedDocuments(ctx)
		return err
	})
	return docs, err
}

// UpdateDocument validates and persists changes to an existing document.
func (s *Service) UpdateDocument(ctx context.Context, doc *Document) (*Document, error) {
	if doc.ID == "" {
		return nil, &ValidationError{Entity: "document", Field: "id", Message: "is required"}
	}
	if err := validateDocument(doc); err != nil {
		return nil, err
	}

	existing, err := s.GetDocument(ctx, doc.ID)
	if err != nil {
		return nil, err
	}

	doc.CreatedAt = existing.CreatedAt
	doc.UpdatedAt = time.Now().UTC()

	if err := s.do(ctx, func(ctx context.Context) error {
		return s.store.UpdateDocument(ctx, doc)
	}); err != nil {
		return nil, err
	}

	s.audit.Record(ctx, audit.ActionUpdate, "document", doc.ID, doc.Title)
	return doc, nil
}

// DeleteDocument removes a document by ID.
func (s *Service) DeleteDocument(ctx context.Context, id string) error {
	if err := s.do(ctx, func(ctx context.Context) error {
		return s.store.DeleteDocument(ctx, id)
	}); err != nil {
		return err
	}

	s.audit.Record(ctx, audit.ActionDelete, "document", id, "")
	return nil
}

// MarkOverdueReviews flags every document whose next review date has
// passed and returns the number flagged. Invoked by the maintenance
// scheduler.
func (s *Service) MarkOverdueReviews(ctx context.Context) (int, error) {
	var due []*Document
	err := s.do(ctx, func(ctx context.Context) error {
		var err error
		due, err = s.store.ListDocumentsDueForReview(ctx, time.Now().UTC())
		return err
	})
	if err != nil {
		return 0, err
	}

	flagged := 0
	for _, doc := range due {
		if doc.ReviewOverdue {
			continue
		}
		doc.ReviewOverdue = true
		doc.UpdatedAt = time.Now().UTC()

		updateErr := s.do(ctx, func(ctx context.Context) error {
			return s.store.UpdateDocument(ctx, doc)
		})
		if updateErr != nil {
			s.logger.Warn("failed to flag overdue review", map[string]any{
				"document_id": doc.ID,
				"error":       updateErr,
			})
			continue
		}

		s.audit.Record(ctx, audit.ActionSweep, "document", doc.ID,
			fmt.Sprintf("review overdue since %s", doc.NextReview.Format(time.RFC3339)))
		flagged++
	}
	return flagged, nil
}

// Risks

// CreateRisk validates and persists a new risk.
func (s *Service) CreateRisk(ctx context.Context, risk *Risk) (*Risk, error) {
	if risk.Status == "" {
		risk.Status = RiskOpen
	}
	if err := validateRisk(risk); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	risk.ID = uuid.NewString()
	risk.CreatedAt = now
	risk.UpdatedAt = now

	if err := s.do(ctx, func(ctx context.Context) error {
		return s.store.CreateRisk(ctx, risk)
	}); err != nil {
		return nil, err
	}

	s.audit.Record(ctx, audit.ActionCreate, "risk", risk.ID, risk.Title)
	return risk, nil
}

// GetRisk returns a risk by ID.
func (s *Service) GetRisk(ctx context.Context, id string) (*Risk, error) {
	var risk *Risk
	err := s.do(ctx, func(ctx context.Context) error {
		var err error
		risk, err = s.store.GetRisk(ctx, id)
		return err
	})
	return risk, err
}

// ListRisks returns all risks.
func (s *Service) ListRisks(ctx context.Context) ([]*Risk, error) {
	var risks []*Risk
	err := s.do(ctx, func(ctx context.Context) error {
		var err error
		risks, err = s.store.ListRisks(ctx)
		return err
	})
	return risks, err
}

// UpdateRisk validates and persists changes to an existing risk.
func (s *Service) UpdateRisk(ctx context.Context, risk *Risk) (*Risk, error) {
	if risk.ID == "" {
		return nil, &ValidationError{Entity: "risk", Field: "id", Message: "is required"}
	}
	if err := validateRisk(risk); err != nil {
		return nil, err
	}

	existing, err := s.GetRisk(ctx, risk.ID)
	if err != nil {
		return nil, err
	}

	risk.CreatedAt = existing.CreatedAt
	risk.UpdatedAt = time.Now().UTC()

	if err := s.do(ctx, func(ctx context.Context) error {
		return s.store.UpdateRisk(ctx, risk)
	}); err != nil {
		return nil, err
	}

	s.audit.Record(ctx, audit.ActionUpdate, "risk", risk.ID, risk.Title)
	return risk, nil
}

// DeleteRisk removes a risk by ID.
func (s *Service) DeleteRisk(ctx context.Context, id string) error {
	if err := s.do(ctx, func(ctx context.Context) error {
		return s.store.DeleteRisk(ctx, id)
	}); err != nil {
		return err
	}

	s.audit.Record(ctx, audit.ActionDelete, "risk", id, "")
	return nil
}

// Controls

// CreateControl validates and persists a new control.
func (s *Service) CreateControl(ctx context.Context, control *Control) (*Control, error) {
	if control.Status == "" {
		control.Status = ControlPlanned
	}
	if err := validateControl(control); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	control.ID = uuid.NewString()
	control.CreatedAt = now
	control.UpdatedAt = now

	if err := s.do(ctx, func(ctx context.Context) error {
		return s.store.CreateControl(ctx, control)
	}); err != nil {
		return nil, err
	}

	s.audit.Record(ctx, audit.ActionCreate, "control", control.ID, control.Code)
	return control, nil
}

// GetControl returns a control by ID.
func (s *Service) GetControl(ctx context.Context, id string) (*Control, error) {
	var control *Control
	err := s.do(ctx, func(ctx context.Context) error {
		var err error
		control, err = s.store.GetControl(ctx, id)
		return err
	})
	return control, err
}

// ListControls returns all controls.
func (s *Service) ListControls(ctx context.Context) ([]*Control, error) {
	var controls []*Control
	err := s.do(ctx, func(ctx context.Context) error {
		var err error
		controls, err = s.store.ListControls(ctx)
		return err
	})
	return controls, err
}

// UpdateControl validates and persists changes to an existing control.
func (s *Service) UpdateControl(ctx context.Context, control *Control) (*Control, error) {
	if control.ID == "" {
		return nil, &ValidationError{Entity: "control", Field: "id", Message: "is required"}
	}
	if err := validateControl(control); err != nil {
		return nil, err
	}

	existing, err := s.GetControl(ctx, control.ID)
	if err != nil {
		return nil, err
	}

	control.CreatedAt = existing.CreatedAt
	control.UpdatedAt = time.Now().UTC()

	if err := s.do(ctx, func(ctx context.Context) error {
		return s.store.UpdateControl(ctx, control)
	}); err != nil {
		return nil, err
	}

	s.audit.Record(ctx, audit.ActionUpdate, "control", control.ID, control.Code)
	return control, nil
}

// DeleteControl removes a control by ID.
func (s *Service) DeleteControl(ctx context.Context, id string) error {
	if err := s.do(ctx, func(ctx context.Context) error {
		return s.store.DeleteControl(ctx, id)
	}); err != nil {
		return err
	}

	s.audit.Record(ctx, audit.ActionDelete, "control", id, "")
	return nil
}

// Assets

// CreateAsset validates and persists a new asset.
func (s *Service) CreateAsset(ctx context.Context, asset *Asset) (*Asset, error) {
	if err := validateAsset(asset); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	asset.ID = uuid.NewString()
	asset.CreatedAt = now
	asset.UpdatedAt = now

	if err := s.do(ctx, func(ctx context.Context) error {
		return s.store.CreateAsset(ctx, asset)
	}); err != nil {
		return nil, err
	}

	s.audit.Record(ctx, audit.ActionCreate, "asset", asset.ID, asset.Name)
	return asset, nil
}

// GetAsset returns an asset by ID.
func (s *Service) GetAsset(ctx context.Context, id string) (*Asset, error) {
	var asset *Asset
	err := s.do(ctx, func(ctx context.Context) error {
		var err error
		asset, err = s.store.GetAsset(ctx, id)
		return err
	})
	return asset, err
}

// ListAssets returns all assets.
func (s *Service) ListAssets(ctx context.Context) ([]*Asset, error) {
	var assets []*Asset
	err := s.do(ctx, func(ctx context.Context) error {
		var err error
		assets, err = s.store.ListAssets(ctx)
		return err
	})
	return assets, err
}

// UpdateAsset validates and persists changes to an existing asset.
func (s *Service) UpdateAsset(ctx context.Context, asset *Asset) (*Asset, error) {
	if asset.ID == "" {
		return nil, &ValidationError{Entity: "asset", Field: "id", Message: "is required"}
	}
	if err := validateAsset(asset); err != nil {
		return nil, err
	}

	existing, err := s.GetAsset(ctx, asset.ID)
	if err != nil {
		return nil, err
	}

	asset.CreatedAt = existing.CreatedAt
	asset.UpdatedAt = time.Now().UTC()

	if err := s.do(ctx, func(ctx context.Context) error {
		return s.store.UpdateAsset(ctx, asset)
	}); err != nil {
		return nil, err
	}

	s.audit.Record(ctx, audit.ActionUpdate, "asset", asset.ID, asset.Name)
	return asset, nil
}

// DeleteAsset removes an asset by ID.
func (s *Service) DeleteAsset(ctx context.Context, id string) error {
	if err := s.do(ctx, func(ctx context.Context) error {
		return s.store.DeleteAsset(ctx, id)
	}); err != nil {
		return err
	}

	s.audit.Record(ctx, audit.ActionDelete, "asset", id, "")
	return nil
}

// Suppliers

// CreateSupplier validates and persists a new supplier.
func (s *Service) CreateSupplier(ctx context.Context, supplier *Supplier) (*Supplier, error) {
	if supplier.Status == "" {
		supplier.Status = SupplierProspective
	}
	if err := validateSupplier(supplier); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	supplier.ID = uuid.NewString()
	supplier.CreatedAt = now
	supplier.UpdatedAt = now

	if err := s.do(ctx, func(ctx context.Context) error {
		return s.store.CreateSupplier(ctx, supplier)
	}); err != nil {
		return nil, err
	}

	s.audit.Record(ctx, audit.ActionCreate, "supplier", supplier.ID, supplier.Name)
	return supplier, nil
}

// GetSupplier returns a supplier by ID.
func (s *Service) GetSupplier(ctx context.Context, id string) (*Supplier, error) {
	var supplier *Supplier
	err := s.do(ctx, func(ctx context.Context) error {
		var err error
		supplier, err = s.store.GetSupplier(ctx, id)
		return err
	})
	return supplier, err
}

// ListSuppliers returns all suppliers.
func (s *Service) ListSuppliers(ctx context.Context) ([]*Supplier, error) {
	var suppliers []*Supplier
	err := s.do(ctx, func(ctx context.Context) error {
		var err error
		suppliers, err = s.store.ListSuppliers(ctx)
		return err
	})
	return suppliers, err
}

// UpdateSupplier validates and persists changes to an existing supplier.
func (s *Service) UpdateSupplier(ctx context.Context, supplier *Supplier) (*Supplier, error) {
	if supplier.ID == "" {
		return nil, &ValidationError{Entity: "supplier", Field: "id", Message: "is required"}
	}
	if err := validateSupplier(supplier); err != nil {
		return nil, err
	}

	existing, err := s.GetSupplier(ctx, supplier.ID)
	if err != nil {
		return nil, err
	}

	supplier.CreatedAt = existing.CreatedAt
	supplier.UpdatedAt = time.Now().UTC()

	if err := s.do(ctx, func(ctx context.Context) error {
		return s.store.UpdateSupplier(ctx, supplier)
	}); err != nil {
		return nil, err
	}

	s.audit.Record(ctx, audit.ActionUpdate, "supplier", supplier.ID, supplier.Name)
	return supplier, nil
}

// DeleteSupplier removes a supplier by ID.
func (s *Service) DeleteSupplier(ctx context.Context, id string) error {
	if err := s.do(ctx, func(ctx context.Context) error {
		return s.store.DeleteSupplier(ctx, id)
	}); err != nil {
		return err
	}

	s.audit.Record(ctx, audit.ActionDelete, "supplier", id, "")
	return nil
}

// Ping checks that the backing store is reachable.
func (s *Service) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}

// Validation. Failures here are detected before any store call, so they
// never consume a retry attempt.

func validateDocument(doc *Document) error {
	if doc.Title == "" {
		return &ValidationError{Entity: "document", Field: "title", Message: "is required"}
	}
	if doc.Owner == "" {
		return &ValidationError{Entity: "document", Field: "owner", Message: "is required"}
	}
	switch doc.Status {
	case DocumentDraft, DocumentInReview, DocumentApproved, DocumentPublished, DocumentArchived:
	default:
		return &ValidationError{Entity: "document", Field: "status",
			Message: fmt.Sprintf("must be one of draft, in_review, approved, published, archived (got %q)", doc.Status)}
	}
	return nil
}

func validateRisk(risk *Risk) error {
	if risk.Title == "" {
		return &ValidationError{Entity: "risk", Field: "title", Message: "is required"}
	}
	if risk.Likelihood < 1 || risk.Likelihood > 5 {
		return &ValidationError{Entity: "risk", Field: "likelihood", Message: "must be between 1 and 5"}
	}
	if risk.Impact < 1 || risk.Impact > 5 {
		return &ValidationError{Entity: "risk", Field: "impact", Message: "must be between 1 and 5"}
	}
	switch risk.Status {
	case RiskOpen, RiskMitigated, RiskAccepted, RiskClosed:
	default:
		return &ValidationError{Entity: "risk", Field: "status",
			Message: fmt.Sprintf("must be one of open, mitigated, accepted, closed (got %q)", risk.Status)}
	}
	return nil
}

func validateControl(control *Control) error {
	if control.Code == "" {
		return &ValidationError{Entity: "control", Field: "code", Message: "is required"}
	}
	if control.Name == "" {
		return &ValidationError{Entity: "control", Field: "name", Message: "is required"}
	}
	switch control.Status {
	case ControlPlanned, ControlImplemented, ControlIneffective, ControlRetired:
	default:
		return &ValidationError{Entity: "control", Field: "status",
			Message: fmt.Sprintf("must be one of planned, implemented, ineffective, retired (got %q)", control.Status)}
	}
	return nil
}

func validateAsset(asset *Asset) error {
	if asset.Name == "" {
		return &ValidationError{Entity: "asset", Field: "name", Message: "is required"}
	}
	return nil
}

func validateSupplier(supplier *Supplier) error {
	if supplier.Name == "" {
		return &ValidationError{Entity: "supplier", Field: "name", Message: "is required"}
	}
	if supplier.ContactEmail != "" {
		if _, err := mail.ParseAddress(supplier.ContactEmail); err != nil {
			return &ValidationError{Entity: "supplier", Field: "contact_email", Message: "must be a valid email address"}
		}
	}
	switch supplier.Status {
	case SupplierProspective, SupplierActive, SupplierOffboarded:
	default:
		return &ValidationError{Entity: "supplier", Field: "status",
			Message: fmt.Sprintf("must be one of prospective, active, offboarded (got %q)", supplier.Status)}
	}
	return nil
}
