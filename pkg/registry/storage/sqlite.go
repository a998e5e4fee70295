package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
	"paythru/trustdesk/pkg/registry"
)

// SQLiteConfig contains configuration for the SQLite registry backend.
type SQLiteConfig struct {
	// Path is the database file path. Use ":memory:" for an in-process
	// database.
	Path string

	// MaxOpenConns is the maximum number of open connections.
	// Default: 10
	MaxOpenConns int

	// MaxIdleConns is the maximum number of idle connections.
	// Default: 5
	MaxIdleConns int

	// BusyTimeout is the duration to wait when the database is locked.
	// Default: 5 seconds
	BusyTimeout time.Duration
}

// SQLiteStore implements registry.Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (creating if necessary) the registry database at
// the configured path, enables WAL mode, and initializes the schema.
func NewSQLiteStore(cfg SQLiteConfig) (*SQLiteStore, error) {
	if cfg.MaxOpenConns <= 0 {
		cfg.MaxOpenConns = 10
	}
	if cfg.MaxIdleConns <= 0 {
		cfg.MaxIdleConns = 5
	}
	if cfg.BusyTimeout <= 0 {
		cfg.BusyTimeout = 5 * time.Second
	}
	// An in-memory database exists per connection; keep a single one.
	if cfg.Path == ":memory:" {
		cfg.MaxOpenConns = 1
		cfg.MaxIdleConns = 1
	}

	db, err := sql.Open("sqlite3", cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open registry database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)

	pragmas := fmt.Sprintf("PRAGMA journal_mode=WAL; PRAGMA busy_timeout=%d; PRAGMA foreign_keys=ON;",
		cfg.BusyTimeout.Milliseconds())
	if _, err := db.Exec(pragmas); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to configure database: %w", err)
	}

	if err := applySchema(db); err != nil {
		db.Close()
		return nil, err
	}

	return &SQLiteStore{db: db}, nil
}

func applySchema(db *sql.DB) error {
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	var version int
	err := db.QueryRow(`SELECT version FROM schema_info LIMIT 1`).Scan(&version)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		if _, err := db.Exec(`INSERT INTO schema_info (version) VALUES (?)`, schemaVersion); err != nil {
			return fmt.Errorf("failed to record schema version: %w", err)
		}
	case err != nil:
		return fmt.Errorf("failed to read schema version: %w", err)
	case version > schemaVersion:
		return fmt.Errorf("database schema version %d is newer than supported version %d", version, schemaVersion)
	}
	return nil
}

func storageErr(op string, err error) error {
	return &registry.StorageError{Op: op, Cause: err}
}

// Documents

func (s *SQLiteStore) CreateDocument(ctx context.Context, doc *registry.Document) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO documents (id, title, category, version, owner, status, content,
		 next_review, review_overdue, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		doc.ID, doc.Title, doc.Category, doc.Version, doc.Owner, string(doc.Status),
		doc.Content, nullTime(doc.NextReview), doc.ReviewOverdue, doc.CreatedAt, doc.UpdatedAt,
	)
	if err != nil {
		return storageErr("create_document", err)
	}
	return nil
}

func (s *SQLiteStore) GetDocument(ctx context.Context, id string) (*registry.Document, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, title, category, version, owner, status, content,
		 next_review, review_overdue, created_at, updated_at
		 FROM documents WHERE id = ?`, id)
	doc, err := scanDocument(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, registry.ErrNotFound
	}
	if err != nil {
		return nil, storageErr("get_document", err)
	}
	return doc, nil
}

func (s *SQLiteStore) ListDocuments(ctx context.Context) ([]*registry.Document, error) {
	return s.queryDocuments(ctx, "list_documents",
		`SELECT id, title, category, version, owner, status, content,
		 next_review, review_overdue, created_at, updated_at
		 FROM documents ORDER BY created_at`)
}

func (s *SQLiteStore) ListPublishedDocuments(ctx context.Context) ([]*registry.Document, error) {
	return s.queryDocuments(ctx, "list_published_documents",
		`SELECT id, title, category, version, owner, status, content,
		 next_review, review_overdue, created_at, updated_at
		 FROM documents WHERE status = ? ORDER BY created_at`,
		string(registry.DocumentPublished))
}

func (s *SQLiteStore) ListDocumentsDueForReview(ctx context.Context, before time.Time) ([]*registry.Document, error) {
	return s.queryDocuments(ctx, "list_documents_due_for_review",
		`SELECT id, title, category, version, owner, status, content,
		 next_review, review_overdue, created_at, updated_at
		 FROM documents
		 WHERE next_review IS NOT NULL AND next_review < ? AND status != ?
		 ORDER BY next_review`,
		before, string(registry.DocumentArchived))
}

func (s *SQLiteStore) queryDocuments(ctx context.Context, op, query string, args ...any) ([]*registry.Document, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, storageErr(op, err)
	}
	defer rows.Close()

	var docs []*registry.Document
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, storageErr(op, err)
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr(op, err)
	}
	return docs, nil
}

func (s *SQLiteStore) UpdateDocument(ctx context.Context, doc *registry.Document) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE documents SET title = ?, category = ?, version = ?, owner = ?,
		 status = ?, content = ?, next_review = ?, review_overdue = ?, updated_at = ?
		 WHERE id = ?`,
		doc.Title, doc.Category, doc.Version, doc.Owner, string(doc.Status),
		doc.Content, nullTime(doc.NextReview), doc.ReviewOverdue, doc.UpdatedAt, doc.ID,
	)
	if err != nil {
		return storageErr("update_document", err)
	}
	return checkAffected(res, "update_document")
}

func (s *SQLiteStore) DeleteDocument(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM documents WHERE id = ?`, id)
	if err != nil {
		return storageErr("delete_document", err)
	}
	return checkAffected(res, "delete_document")
}

// Risks

func (s *SQLiteStore) CreateRisk(ctx context.Context, risk *registry.Risk) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO risks (id, title, description, owner, likelihood, impact, status,
		 created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		risk.ID, risk.Title, risk.Description, risk.Owner, risk.Likelihood,
		risk.Impact, string(risk.Status), risk.CreatedAt, risk.UpdatedAt,
	)
	if err != nil {
		return storageErr("create_risk", err)
	}
	return nil
}

func (s *SQLiteStore) GetRisk(ctx context.Context, id string) (*registry.Risk, error) {
	var r registry.Risk
	var status string
	err := s.db.QueryRowContext(ctx,
		`SELECT id, title, description, owner, likelihood, impact, status,
		 created_at, updated_at FROM risks WHERE id = ?`, id).
		Scan(&r.ID, &r.Title, &r.Description, &r.Owner, &r.Likelihood,
			&r.Impact, &status, &r.CreatedAt, &r.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, registry.ErrNotFound
	}
	if err != nil {
		return nil, storageErr("get_risk", err)
	}
	r.Status = registry.RiskStatus(status)
	return &r, nil
}

func (s *SQLiteStore) ListRisks(ctx context.Context) ([]*registry.Risk, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title, description, owner, likelihood, impact, status,
		 created_at, updated_at FROM risks ORDER BY created_at`)
	if err != nil {
		return nil, storageErr("list_risks", err)
	}
	defer rows.Close()

	var risks []*registry.Risk
	for rows.Next() {
		var r registry.Risk
		var status string
		if err := rows.Scan(&r.ID, &r.Title, &r.Description, &r.Owner,
			&r.Likelihood, &r.Impact, &status, &r.CreatedAt, &r.UpdatedAt); err != nil {
			return nil, storageErr("list_risks", err)
		}
		r.Status = registry.RiskStatus(status)
		risks = append(risks, &r)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("list_risks", err)
	}
	return risks, nil
}

func (s *SQLiteStore) UpdateRisk(ctx context.Context, risk *registry.Risk) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE risks SET title = ?, description = ?, owner = ?, likelihood = ?,
		 impact = ?, status = ?, updated_at = ? WHERE id = ?`,
		risk.Title, risk.Description, risk.Owner, risk.Likelihood, risk.Impact,
		string(risk.Status), risk.UpdatedAt, risk.ID,
	)
	if err != nil {
		return storageErr("update_risk", err)
	}
	return checkAffected(res, "update_risk")
}

func (s *SQLiteStore) DeleteRisk(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM risks WHERE id = ?`, id)
	if err != nil {
		return storageErr("delete_risk", err)
	}
	return checkAffected(res, "delete_risk")
}

// Controls

func (s *SQLiteStore) CreateControl(ctx context.Context, control *registry.Control) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO controls (id, code, name, description, framework, owner, status,
		 created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		control.ID, control.Code, control.Name, control.Description,
		control.Framework, control.Owner, string(control.Status),
		control.CreatedAt, control.UpdatedAt,
	)
	if err != nil {
		return storageErr("create_control", err)
	}
	return nil
}

func (s *SQLiteStore) GetControl(ctx context.Context, id string) (*registry.Control, error) {
	var c registry.Control
	var status string
	err := s.db.QueryRowContext(ctx,
		`SELECT id, code, name, description, framework, owner, status,
		 created_at, updated_at FROM controls WHERE id = ?`, id).
		Scan(&c.ID, &c.Code, &c.Name, &c.Description, &c.Framework,
			&c.Owner, &status, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, registry.ErrNotFound
	}
	if err != nil {
		return nil, storageErr("get_control", err)
	}
	c.Status = registry.ControlStatus(status)
	return &c, nil
}

func (s *SQLiteStore) ListControls(ctx context.Context) ([]*registry.Control, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, code, name, description, framework, owner, status,
		 created_at, updated_at FROM controls ORDER BY code`)
	if err != nil {
		return nil, storageErr("list_controls", err)
	}
	defer rows.Close()

	var controls []*registry.Control
	for rows.Next() {
		var c registry.Control
		var status string
		if err := rows.Scan(&c.ID, &c.Code, &c.Name, &c.Description,
			&c.Framework, &c.Owner, &status, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, storageErr("list_controls", err)
		}
		c.Status = registry.ControlStatus(status)
		controls = append(controls, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("list_controls", err)
	}
	return controls, nil
}

func (s *SQLiteStore) UpdateControl(ctx context.Context, control *registry.Control) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE controls SET code = ?, name = ?, description = ?, framework = ?,
		 owner = ?, status = ?, updated_at = ? WHERE id = ?`,
		control.Code, control.Name, control.Description, control.Framework,
		control.Owner, string(control.Status), control.UpdatedAt, control.ID,
	)
	if err != nil {
		return storageErr("update_control", err)
	}
	return checkAffected(res, "update_control")
}

func (s *SQLiteStore) DeleteControl(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM controls WHERE id = ?`, id)
	if err != nil {
		return storageErr("delete_control", err)
	}
	return checkAffected(res, "delete_control")
}

// Assets

func (s *SQLiteStore) CreateAsset(ctx context.Context, asset *registry.Asset) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO assets (id, name, type, classification, owner, notes,
		 created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		asset.ID, asset.Name, asset.Type, asset.Classification, asset.Owner,
		asset.Notes, asset.CreatedAt, asset.UpdatedAt,
	)
	if err != nil {
		return storageErr("create_asset", err)
	}
	return nil
}

func (s *SQLiteStore) GetAsset(ctx context.Context, id string) (*registry.Asset, error) {
	var a registry.Asset
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, type, classification, owner, notes, created_at, updated_at
		 FROM assets WHERE id = ?`, id).
		Scan(&a.ID, &a.Name, &a.Type, &a.Classification, &a.Owner, &a.Notes,
			&a.CreatedAt, &a.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, registry.ErrNotFound
	}
	if err != nil {
		return nil, storageErr("get_asset", err)
	}
	return &a, nil
}

func (s *SQLiteStore) ListAssets(ctx context.Context) ([]*registry.Asset, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, type, classification, owner, notes, created_at, updated_at
		 FROM assets ORDER BY name`)
	if err != nil {
		return nil, storageErr("list_assets", err)
	}
	defer rows.Close()

	var assets []*registry.Asset
	for rows.Next() {
		var a registry.Asset
		if err := rows.Scan(&a.ID, &a.Name, &a.Type, &a.Classification,
			&a.Owner, &a.Notes, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, storageErr("list_assets", err)
		}
		assets = append(assets, &a)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("list_assets", err)
	}
	return assets, nil
}

func (s *SQLiteStore) UpdateAsset(ctx context.Context, asset *registry.Asset) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE assets SET name = ?, type = ?, classification = ?, owner = ?,
		 notes = ?, updated_at = ? WHERE id = ?`,
		asset.Name, asset.Type, asset.Classification, asset.Owner, asset.Notes,
		asset.UpdatedAt, asset.ID,
	)
	if err != nil {
		return storageErr("update_asset", err)
	}
	return checkAffected(res, "update_asset")
}

func (s *SQLiteStore) DeleteAsset(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM assets WHERE id = ?`, id)
	if err != nil {
		return storageErr("delete_asset", err)
	}
	return checkAffected(res, "delete_asset")
}

// Suppliers

func (s *SQLiteStore) CreateSupplier(ctx context.Context, supplier *registry.Supplier) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO suppliers (id, name, contact_email, service, risk_tier, status,
		 dpa_signed, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		supplier.ID, supplier.Name, supplier.ContactEmail, supplier.Service,
		supplier.RiskTier, string(supplier.Status), supplier.DPASigned,
		supplier.CreatedAt, supplier.UpdatedAt,
	)
	if err != nil {
		return storageErr("create_supplier", err)
	}
	return nil
}

func (s *SQLiteStore) GetSupplier(ctx context.Context, id string) (*registry.Supplier, error) {
	var sp registry.Supplier
	var status string
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, contact_email, service, risk_tier, status, dpa_signed,
		 created_at, updated_at FROM suppliers WHERE id = ?`, id).
		Scan(&sp.ID, &sp.Name, &sp.ContactEmail, &sp.Service, &sp.RiskTier,
			&status, &sp.DPASigned, &sp.CreatedAt, &sp.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, registry.ErrNotFound
	}
	if err != nil {
		return nil, storageErr("get_supplier", err)
	}
	sp.Status = registry.SupplierStatus(status)
	return &sp, nil
}

func (s *SQLiteStore) ListSuppliers(ctx context.Context) ([]*registry.Supplier, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, contact_email, service, risk_tier, status, dpa_signed,
		 created_at, updated_at FROM suppliers ORDER BY name`)
	if err != nil {
		return nil, storageErr("list_suppliers", err)
	}
	defer rows.Close()

	var suppliers []*registry.Supplier
	for rows.Next() {
		var sp registry.Supplier
		var status string
		if err := rows.Scan(&sp.ID, &sp.Name, &sp.ContactEmail, &sp.Service,
			&sp.RiskTier, &status, &sp.DPASigned, &sp.CreatedAt, &sp.UpdatedAt); err != nil {
			return nil, storageErr("list_suppliers", err)
		}
		sp.Status = registry.SupplierStatus(status)
		suppliers = append(suppliers, &sp)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("list_suppliers", err)
	}
	return suppliers, nil
}

func (s *SQLiteStore) UpdateSupplier(ctx context.Context, supplier *registry.Supplier) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE suppliers SET name = ?, contact_email = ?, service = ?, risk_tier = ?,
		 status = ?, dpa_signed = ?, updated_at = ? WHERE id = ?`,
		supplier.Name, supplier.ContactEmail, supplier.Service, supplier.RiskTier,
		string(supplier.Status), supplier.DPASigned, supplier.UpdatedAt, supplier.ID,
	)
	if err != nil {
		return storageErr("update_supplier", err)
	}
	return checkAffected(res, "update_supplier")
}

func (s *SQLiteStore) DeleteSupplier(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM suppliers WHERE id = ?`, id)
	if err != nil {
		return storageErr("delete_supplier", err)
	}
	return checkAffected(res, "delete_supplier")
}

// Ping checks database reachability.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDocument(row rowScanner) (*registry.Document, error) {
	var d registry.Document
	var status string
	var nextReview sql.NullTime
	if err := row.Scan(&d.ID, &d.Title, &d.Category, &d.Version, &d.Owner,
		&status, &d.Content, &nextReview, &d.ReviewOverdue,
		&d.CreatedAt, &d.UpdatedAt); err != nil {
		return nil, err
	}
	d.Status = registry.DocumentStatus(status)
	if nextReview.Valid {
		d.NextReview = nextReview.Time
	}
	return &d, nil
}

func nullTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t
}

func checkAffected(res sql.Result, op string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return storageErr(op, err)
	}
	if n == 0 {
		return registry.ErrNotFound
	}
	return nil
}
