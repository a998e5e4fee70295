package registry

import "time"

// DocumentStatus is the lifecycle state of a compliance document.
type DocumentStatus string

// Document lifecycle states. Only published documents are visible to the
// trust center portal.
const (
	DocumentDraft     DocumentStatus = "draft"
	DocumentInReview  DocumentStatus = "in_review"
	DocumentApproved  DocumentStatus = "approved"
	DocumentPublished DocumentStatus = "published"
	DocumentArchived  DocumentStatus = "archived"
)

// Document is a versioned compliance document (policy, procedure,
// statement) with a review cadence.
type Document struct {
	ID         string         `json:"id"`
	Title      string         `json:"title"`
	Category   string         `json:"category"`
	Version    string         `json:"version"`
	Owner      string         `json:"owner"`
	Status     DocumentStatus `json:"status"`
	Content    string         `json:"content"`
	NextReview time.Time      `json:"next_review"`

	// ReviewOverdue is set by the maintenance sweep when NextReview has
	// passed without a new review.
	ReviewOverdue bool `json:"review_overdue"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// RiskStatus is the treatment state of a risk.
type RiskStatus string

// Risk treatment states.
const (
	RiskOpen      RiskStatus = "open"
	RiskMitigated RiskStatus = "mitigated"
	RiskAccepted  RiskStatus = "accepted"
	RiskClosed    RiskStatus = "closed"
)

// Risk is an identified risk with likelihood/impact scoring on a 1-5
// scale.
type Risk struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Owner       string     `json:"owner"`
	Likelihood  int        `json:"likelihood"`
	Impact      int        `json:"impact"`
	Status      RiskStatus `json:"status"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Score returns the inherent risk score (likelihood x impact).
func (r *Risk) Score() int {
	return r.Likelihood * r.Impact
}

// ControlStatus is the implementation state of a control.
type ControlStatus string

// Control implementation states.
const (
	ControlPlanned     ControlStatus = "planned"
	ControlImplemented ControlStatus = "implemented"
	ControlIneffective ControlStatus = "ineffective"
	ControlRetired     ControlStatus = "retired"
)

// Control is a security or compliance control mapped to an external
// framework reference (e.g. "ISO27001 A.5.1").
type Control struct {
	ID          string        `json:"id"`
	Code        string        `json:"code"`
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Framework   string        `json:"framework"`
	Owner       string        `json:"owner"`
	Status      ControlStatus `json:"status"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Asset is an inventoried asset with a data classification.
type Asset struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Type           string `json:"type"`
	Classification string `json:"classification"`
	Owner          string `json:"owner"`
	Notes          string `json:"notes"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SupplierStatus is the onboarding state of a supplier.
type SupplierStatus string

// Supplier onboarding states.
const (
	SupplierProspective SupplierStatus = "prospective"
	SupplierActive      SupplierStatus = "active"
	SupplierOffboarded  SupplierStatus = "offboarded"
)

// Supplier is a third-party service provider tracked for vendor risk.
type Supplier struct {
	ID           string         `json:"id"`
	Name         string         `json:"name"`
	ContactEmail string         `json:"contact_email"`
	Service      string         `json:"service"`
	RiskTier     string         `json:"risk_tier"`
	Status       SupplierStatus `json:"status"`
	DPASigned    bool           `json:"dpa_signed"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
