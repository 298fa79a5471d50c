package remittance

import (
	"time"

	"github.com/rcmstack/rcm/internal/platform/ai"
)

// Payment statuses.
const (
	StatusReceived = "received"
	StatusPosted   = "posted"
	StatusDenied   = "denied"
)

// Payment is one remittance line awaiting posting.
type Payment struct {
	ID          string     `json:"payment_id"`
	ClaimNumber string     `json:"claim_number"`
	Payer       string     `json:"payer"`
	Amount      float64    `json:"amount"`
	Status      string     `json:"status"`
	DenialCode  string     `json:"denial_code,omitempty"`
	ReceivedAt  time.Time  `json:"received_at"`
	PostedAt    *time.Time `json:"posted_at,omitempty"`
}

// ReconciliationSession records one auto-reconciliation run. Matching is
// simulated against the in-memory payment set.
type ReconciliationSession struct {
	ID                string                   `json:"session_id"`
	PaymentsReviewed  int                      `json:"payments_reviewed"`
	MatchedPayments   int                      `json:"matched_payments"`
	UnmatchedPayments int                      `json:"unmatched_payments"`
	TotalAmount       float64                  `json:"total_amount"`
	Summary           ai.ReconciliationSummary `json:"summary"`
	DataSource        string                   `json:"data_source"`
	CreatedAt         time.Time                `json:"created_at"`
}

type BatchPostRequest struct {
	PaymentIDs []string `json:"payment_ids"`
}

type DenialPredictionRequest struct {
	PatientID      string   `json:"patient_id"`
	DiagnosisCodes []string `json:"diagnosis_codes"`
	ProcedureCodes []string `json:"procedure_codes"`
	Amount         float64  `json:"amount"`
}
