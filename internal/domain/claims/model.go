package claims

import (
	"time"

	"github.com/google/uuid"

	"github.com/rcmstack/rcm/internal/platform/ai"
)

// Claim statuses. Every claim moves through this single vocabulary;
// there is no separate workflow state elsewhere.
const (
	StatusSubmitted      = "submitted"
	StatusReviewRequired = "review_required"
	StatusProcessing     = "processing"
	StatusApproved       = "approved"
	StatusDenied         = "denied"
	StatusPaid           = "paid"
)

var validStatuses = map[string]bool{
	StatusSubmitted:      true,
	StatusReviewRequired: true,
	StatusProcessing:     true,
	StatusApproved:       true,
	StatusDenied:         true,
	StatusPaid:           true,
}

// Claim maps to the claims table.
type Claim struct {
	ID               uuid.UUID `db:"id" json:"id"`
	ClaimNumber      string    `db:"claim_number" json:"claim_number"`
	PatientCode      string    `db:"patient_code" json:"patient_id"`
	ProviderCode     string    `db:"provider_code" json:"insurance_provider,omitempty"`
	DiagnosisCodes   []string  `db:"diagnosis_codes" json:"diagnosis_codes"`
	ProcedureCodes   []string  `db:"procedure_codes" json:"procedure_codes"`
	Amount           float64   `db:"amount" json:"amount"`
	AllowedAmount    float64   `db:"allowed_amount" json:"allowed_amount"`
	PaidAmount       float64   `db:"paid_amount" json:"paid_amount"`
	Status           string    `db:"status" json:"status"`
	RiskScore        float64   `db:"risk_score" json:"risk_score"`
	ComplianceStatus string    `db:"compliance_status" json:"compliance_status"`
	DenialReason     string    `db:"denial_reason" json:"denial_reason,omitempty"`
	Notes            string    `db:"notes" json:"notes,omitempty"`
	SubmittedAt      time.Time `db:"submitted_at" json:"submitted_at"`
	UpdatedAt        time.Time `db:"updated_at" json:"updated_at"`
}

type SubmitRequest struct {
	PatientID      string   `json:"patient_id"`
	Provider       string   `json:"insurance_provider"`
	DiagnosisCodes []string `json:"diagnosis_codes"`
	ProcedureCodes []string `json:"procedure_codes"`
	Amount         float64  `json:"amount"`
}

type BatchSubmitRequest struct {
	Claims []SubmitRequest `json:"claims"`
}

// SubmitResult pairs the stored claim with its scrub outcome.
type SubmitResult struct {
	Claim *Claim         `json:"claim"`
	Scrub ai.ScrubResult `json:"scrub_result"`
}

// ListFilters narrows the claim list.
type ListFilters struct {
	Status string
	From   *time.Time
	To     *time.Time
}
