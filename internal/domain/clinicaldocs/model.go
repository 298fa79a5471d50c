package clinicaldocs

import (
	"time"

	"github.com/rcmstack/rcm/internal/platform/ai"
)

// Template describes one note layout offered to clinicians.
type Template struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Category    string   `json:"category"`
	Description string   `json:"description"`
	Sections    []string `json:"sections"`
}

// ClinicalDocument is a drafted or signed note. The validation result is
// stored alongside so the frontend can show it without a second call.
type ClinicalDocument struct {
	ID           string                `json:"document_id"`
	TemplateType string                `json:"template_type"`
	PatientCode  string                `json:"patient_id"`
	Content      string                `json:"content"`
	Status       string                `json:"status"`
	Validation   ai.DocumentValidation `json:"validation"`
	CreatedAt    time.Time             `json:"created_at"`
	UpdatedAt    time.Time             `json:"updated_at"`
}

type AssistanceRequest struct {
	TemplateType string `json:"template_type"`
	PatientInfo  string `json:"patient_info"`
	ClinicalData string `json:"clinical_data"`
}

type SaveRequest struct {
	PatientID    string `json:"patient_id"`
	TemplateType string `json:"template_type"`
	Content      string `json:"content"`
}

type UpdateRequest struct {
	Content string `json:"content"`
	Status  string `json:"status"`
}

type ValidateRequest struct {
	Content      string `json:"content"`
	TemplateType string `json:"template_type"`
}
