package eligibility

import (
	"time"

	"github.com/google/uuid"

	"github.com/rcmstack/rcm/internal/platform/ai"
)

// Patient maps to the patients table. PatientCode is the external
// identifier used by the front desk (P001 style); the UUID stays internal.
type Patient struct {
	ID                 uuid.UUID  `db:"id" json:"id"`
	PatientCode        string     `db:"patient_code" json:"patient_id"`
	FirstName          string     `db:"first_name" json:"first_name"`
	LastName           string     `db:"last_name" json:"last_name"`
	DateOfBirth        *time.Time `db:"date_of_birth" json:"date_of_birth,omitempty"`
	ProviderCode       string     `db:"provider_code" json:"insurance_provider"`
	PolicyNumber       string     `db:"policy_number" json:"policy_number"`
	PolicyStatus       string     `db:"policy_status" json:"policy_status"`
	CoveragePercentage float64    `db:"coverage_percentage" json:"coverage_percentage"`
	Copay              float64    `db:"copay" json:"copay"`
	Deductible         float64    `db:"deductible" json:"deductible"`
	CreatedAt          time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt          time.Time  `db:"updated_at" json:"updated_at"`
}

// FullName joins the name parts for display.
func (p *Patient) FullName() string {
	if p.FirstName == "" {
		return p.LastName
	}
	if p.LastName == "" {
		return p.FirstName
	}
	return p.FirstName + " " + p.LastName
}

// InsuranceProvider maps to the insurance_providers table.
type InsuranceProvider struct {
	ID           uuid.UUID `db:"id" json:"id"`
	Code         string    `db:"code" json:"code"`
	Name         string    `db:"name" json:"name"`
	Active       bool      `db:"active" json:"active"`
	ContactEmail string    `db:"contact_email" json:"contact_email,omitempty"`
	ContactPhone string    `db:"contact_phone" json:"contact_phone,omitempty"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// EligibilityCheck maps to the eligibility_checks table. The table is
// append-only; every verification leaves a row, including the full
// prediction so history reads do not re-run the model.
type EligibilityCheck struct {
	ID                   uuid.UUID             `db:"id" json:"id"`
	PatientCode          string                `db:"patient_code" json:"patient_id"`
	ProviderCode         string                `db:"provider_code" json:"insurance_provider"`
	ServiceType          string                `db:"service_type" json:"service_type"`
	Eligible             bool                  `db:"eligible" json:"eligible"`
	CoverageLikelihood   float64               `db:"coverage_likelihood" json:"coverage_likelihood"`
	EstimatedPatientCost float64               `db:"estimated_patient_cost" json:"estimated_patient_cost"`
	AIPrediction         ai.CoveragePrediction `db:"ai_prediction" json:"ai_prediction"`
	Recommendations      []string              `db:"recommendations" json:"recommendations"`
	ProviderResponse     ProviderResponse      `db:"provider_response" json:"provider_response"`
	ReferenceNumber      string                `db:"reference_number" json:"reference_number"`
	CheckedAt            time.Time             `db:"checked_at" json:"checked_at"`
}

type CheckRequest struct {
	PatientID   string `json:"patient_id"`
	ServiceType string `json:"service_type"`
}

// ProviderResponse mimics the payer clearinghouse acknowledgement. All
// values are simulated locally and labelled as such.
type ProviderResponse struct {
	ReferenceNumber string `json:"reference_number"`
	ResponseCode    string `json:"response_code"`
	ResponseTimeMs  int    `json:"response_time_ms"`
	DataSource      string `json:"data_source"`
}

// CheckResult is the full verification payload returned to the frontend.
type CheckResult struct {
	Eligible           bool                  `json:"eligible"`
	PatientID          string                `json:"patient_id"`
	PatientName        string                `json:"patient_name"`
	InsuranceProvider  string                `json:"insurance_provider"`
	PolicyNumber       string                `json:"policy_number"`
	PolicyStatus       string                `json:"policy_status"`
	ServiceType        string                `json:"service_type"`
	CoveragePrediction ai.CoveragePrediction `json:"coverage_prediction"`
	AIInsights         []ai.Insight          `json:"ai_insights"`
	Recommendations    []string              `json:"recommendations"`
	ProviderResponse   ProviderResponse      `json:"provider_response"`
	CheckedAt          time.Time             `json:"checked_at"`
}
