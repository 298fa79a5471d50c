package priorauth

import (
	"time"

	"github.com/google/uuid"
)

// Authorization statuses.
const (
	StatusPending        = "pending"
	StatusApproved       = "approved"
	StatusDenied         = "denied"
	StatusMoreInfoNeeded = "more_info_needed"
)

var validStatuses = map[string]bool{
	StatusPending:        true,
	StatusApproved:       true,
	StatusDenied:         true,
	StatusMoreInfoNeeded: true,
}

// PriorAuthorization maps to the prior_authorizations table. Documents
// holds sanitized filenames only; file content is never stored.
type PriorAuthorization struct {
	ID                 uuid.UUID  `db:"id" json:"id"`
	AuthNumber         string     `db:"auth_number" json:"authorization_number"`
	PatientCode        string     `db:"patient_code" json:"patient_id"`
	Procedure          string     `db:"procedure" json:"procedure"`
	Diagnosis          string     `db:"diagnosis" json:"diagnosis"`
	MedicalHistory     string     `db:"medical_history" json:"medical_history,omitempty"`
	EstimatedCost      float64    `db:"estimated_cost" json:"estimated_cost"`
	Status             string     `db:"status" json:"status"`
	ApprovalLikelihood float64    `db:"approval_likelihood" json:"approval_likelihood"`
	RiskFactors        []string   `db:"risk_factors" json:"risk_factors"`
	Recommendations    []string   `db:"recommendations" json:"recommendations"`
	Documents          []string   `db:"documents" json:"documents"`
	SubmittedAt        time.Time  `db:"submitted_at" json:"submitted_at"`
	DecisionDate       *time.Time `db:"decision_date" json:"decision_date,omitempty"`
	UpdatedAt          time.Time  `db:"updated_at" json:"updated_at"`
}

type SubmitRequest struct {
	PatientID      string  `json:"patient_id"`
	Procedure      string  `json:"procedure"`
	Diagnosis      string  `json:"diagnosis"`
	MedicalHistory string  `json:"medical_history"`
	EstimatedCost  float64 `json:"estimated_cost"`
}

type UpdateStatusRequest struct {
	Status string `json:"status"`
}
