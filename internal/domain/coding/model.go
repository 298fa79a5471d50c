package coding

import "time"

// ICD10Code is one diagnosis catalog entry.
type ICD10Code struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

// CPTCode is one procedure catalog entry.
type CPTCode struct {
	Code        string  `json:"code"`
	Description string  `json:"description"`
	RVU         float64 `json:"rvu"`
}

// CodingSession records one coding pass over an encounter.
type CodingSession struct {
	ID             string    `json:"session_id"`
	PatientCode    string    `json:"patient_id"`
	ChiefComplaint string    `json:"chief_complaint"`
	DiagnosisCodes []string  `json:"diagnosis_codes"`
	ProcedureCodes []string  `json:"procedure_codes"`
	Confidence     float64   `json:"confidence"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"created_at"`
}

type SuggestRequest struct {
	ClinicalText string `json:"clinical_text"`
}

type ValidateRequest struct {
	DiagnosisCodes []string `json:"diagnosis_codes"`
	ProcedureCodes []string `json:"procedure_codes"`
}

// ValidationResult is the local rule-based code review. No model call is
// involved; these are deterministic edits.
type ValidationResult struct {
	Valid           bool     `json:"valid"`
	Errors          []string `json:"errors"`
	Warnings        []string `json:"warnings"`
	Suggestions     []string `json:"suggestions"`
	ComplianceScore float64  `json:"compliance_score"`
}

type SaveSessionRequest struct {
	PatientID      string   `json:"patient_id"`
	ChiefComplaint string   `json:"chief_complaint"`
	DiagnosisCodes []string `json:"diagnosis_codes"`
	ProcedureCodes []string `json:"procedure_codes"`
}
