package coding

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/rcmstack/rcm/internal/platform/ai"
)

var ErrSessionNotFound = errors.New("Coding session not found")

type Service struct {
	sessions SessionRepository
	gateway  *ai.Gateway
}

func NewService(sessions SessionRepository, gateway *ai.Gateway) *Service {
	return &Service{sessions: sessions, gateway: gateway}
}

// SearchResult groups catalog matches by code system.
type SearchResult struct {
	ICD10 []ICD10Code `json:"icd10"`
	CPT   []CPTCode   `json:"cpt"`
	Total int         `json:"total"`
}

// SearchCodes does a case-insensitive substring search over the code
// catalogs. codeType narrows to icd10 or cpt; anything else means both.
func (s *Service) SearchCodes(query, codeType string) (*SearchResult, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("query is required")
	}
	q := strings.ToLower(query)

	result := &SearchResult{ICD10: []ICD10Code{}, CPT: []CPTCode{}}
	if codeType == "" || codeType == "both" || codeType == "icd10" {
		for _, c := range icd10Catalog {
			if strings.Contains(strings.ToLower(c.Code), q) || strings.Contains(strings.ToLower(c.Description), q) {
				result.ICD10 = append(result.ICD10, c)
			}
		}
	}
	if codeType == "" || codeType == "both" || codeType == "cpt" {
		for _, c := range cptCatalog {
			if strings.Contains(strings.ToLower(c.Code), q) || strings.Contains(strings.ToLower(c.Description), q) {
				result.CPT = append(result.CPT, c)
			}
		}
	}
	result.Total = len(result.ICD10) + len(result.CPT)
	return result, nil
}

// Suggestions is the ai-suggest payload shaped for the coding screen.
type Suggestions struct {
	Suggestions struct {
		Diagnosis []ai.CodeSuggestion `json:"diagnosis"`
		Procedure []ai.CodeSuggestion `json:"procedure"`
	} `json:"suggestions"`
	Rationale       string `json:"rationale"`
	ComplianceNotes string `json:"compliance_notes"`
}

// Suggest proposes codes for free-text clinical notes.
func (s *Service) Suggest(ctx context.Context, req SuggestRequest) (*Suggestions, error) {
	if strings.TrimSpace(req.ClinicalText) == "" {
		return nil, fmt.Errorf("clinical_text is required")
	}

	raw, _ := s.gateway.SuggestCodes(ctx, req.ClinicalText)

	out := &Suggestions{Rationale: raw.Rationale, ComplianceNotes: raw.ComplianceNotes}
	out.Suggestions.Diagnosis = raw.DiagnosisCodes
	out.Suggestions.Procedure = raw.ProcedureCodes
	return out, nil
}

// Validate applies the local coding edits. Each error costs 0.3 and each
// warning 0.1 off the compliance score.
func (s *Service) Validate(req ValidateRequest) *ValidationResult {
	result := &ValidationResult{
		Errors:      []string{},
		Warnings:    []string{},
		Suggestions: []string{},
	}

	if len(req.DiagnosisCodes) == 0 {
		result.Errors = append(result.Errors, "At least one diagnosis code is required")
	}
	for _, code := range req.DiagnosisCodes {
		if !KnownICD10(code) {
			result.Errors = append(result.Errors, fmt.Sprintf("Unknown ICD-10 code: %s", code))
		}
	}
	for _, code := range req.ProcedureCodes {
		if !KnownCPT(code) {
			result.Errors = append(result.Errors, fmt.Sprintf("Unknown CPT code: %s", code))
		}
	}
	if len(req.ProcedureCodes) == 0 {
		result.Warnings = append(result.Warnings, "No procedure codes - the encounter cannot be billed")
	}

	hasMigraine := false
	for _, code := range req.DiagnosisCodes {
		if strings.HasPrefix(code, "G43") {
			hasMigraine = true
		}
	}
	hasOfficeVisit := false
	for _, code := range req.ProcedureCodes {
		if strings.HasPrefix(code, "9921") {
			hasOfficeVisit = true
		}
	}
	if hasMigraine && !hasOfficeVisit {
		result.Suggestions = append(result.Suggestions,
			"Migraine diagnosis usually pairs with an office visit code (99213-99215)")
	}

	score := 1.0 - 0.3*float64(len(result.Errors)) - 0.1*float64(len(result.Warnings))
	if score < 0 {
		score = 0
	}
	result.ComplianceScore = round2(score)
	result.Valid = len(result.Errors) == 0
	return result
}

// SaveSession stores a completed coding pass. Confidence grows with the
// amount of documentation captured, capped below certainty.
func (s *Service) SaveSession(ctx context.Context, req SaveSessionRequest) (*CodingSession, error) {
	if req.PatientID == "" {
		return nil, fmt.Errorf("patient_id is required")
	}

	confidence := 0.8
	if len(req.DiagnosisCodes) > 0 {
		confidence += 0.1
	}
	if len(req.ProcedureCodes) > 0 {
		confidence += 0.1
	}
	if req.ChiefComplaint != "" {
		confidence += 0.05
	}
	if confidence > 0.98 {
		confidence = 0.98
	}

	session := &CodingSession{
		ID:             newSessionID(),
		PatientCode:    req.PatientID,
		ChiefComplaint: req.ChiefComplaint,
		DiagnosisCodes: orEmpty(req.DiagnosisCodes),
		ProcedureCodes: orEmpty(req.ProcedureCodes),
		Confidence:     round2(confidence),
		Status:         "completed",
		CreatedAt:      time.Now().UTC(),
	}
	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

func newSessionID() string {
	raw := strings.ReplaceAll(uuid.NewString(), "-", "")
	return "CS" + strings.ToUpper(raw[:6])
}

func orEmpty(codes []string) []string {
	if codes == nil {
		return []string{}
	}
	return codes
}

func (s *Service) Sessions(ctx context.Context, patientCode string) ([]*CodingSession, error) {
	return s.sessions.List(ctx, patientCode)
}

func (s *Service) Session(ctx context.Context, id string) (*CodingSession, error) {
	return s.sessions.GetByID(ctx, id)
}

// Analytics is the coding throughput rollup.
type Analytics struct {
	TotalSessions     int     `json:"total_sessions"`
	CompletionRate    float64 `json:"completion_rate"`
	AverageConfidence float64 `json:"average_confidence"`
	AverageDiagnoses  float64 `json:"average_diagnoses_per_session"`
	AverageProcedures float64 `json:"average_procedures_per_session"`
}

func (s *Service) Analytics(ctx context.Context) (*Analytics, error) {
	sessions, err := s.sessions.List(ctx, "")
	if err != nil {
		return nil, err
	}

	a := &Analytics{TotalSessions: len(sessions)}
	if len(sessions) == 0 {
		return a, nil
	}

	var confidence float64
	var diagnoses, procedures, completed int
	for _, sess := range sessions {
		confidence += sess.Confidence
		diagnoses += len(sess.DiagnosisCodes)
		procedures += len(sess.ProcedureCodes)
		if sess.Status == "completed" {
			completed++
		}
	}
	n := float64(len(sessions))
	a.CompletionRate = round2(float64(completed) / n * 100)
	a.AverageConfidence = round2(confidence / n)
	a.AverageDiagnoses = round2(float64(diagnoses) / n)
	a.AverageProcedures = round2(float64(procedures) / n)
	return a, nil
}

func round2(v float64) float64 {
	return float64(int(v*100+0.5)) / 100
}
