package coding

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/rcmstack/rcm/internal/platform/ai"
)

type failingCompleter struct{}

func (failingCompleter) Complete(ctx context.Context, system, user string) (string, error) {
	return "", errors.New("model unavailable")
}

func newTestService() *Service {
	return NewService(NewSessionRepo(), ai.NewGateway(failingCompleter{}, zerolog.Nop()))
}

func TestSearchCodes(t *testing.T) {
	svc := newTestService()

	result, err := svc.SearchCodes("hypertension", "icd10")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.ICD10) != 1 || result.ICD10[0].Code != "I10" {
		t.Errorf("expected I10 for hypertension, got %v", result.ICD10)
	}
	if len(result.CPT) != 0 {
		t.Errorf("icd10 search must not return CPT codes, got %v", result.CPT)
	}

	result, err = svc.SearchCodes("office visit", "both")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.CPT) != 3 {
		t.Errorf("expected 3 office visit codes, got %v", result.CPT)
	}

	result, err = svc.SearchCodes("9921", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Total != 3 {
		t.Errorf("expected 3 matches on code prefix, got %d", result.Total)
	}
}

func TestSearchCodes_EmptyQuery(t *testing.T) {
	svc := newTestService()

	if _, err := svc.SearchCodes("", "both"); err == nil {
		t.Fatal("expected error for empty query")
	}
	if _, err := svc.SearchCodes("   ", "both"); err == nil {
		t.Fatal("expected error for blank query")
	}
}

func TestSuggest(t *testing.T) {
	svc := newTestService()

	suggestions, err := svc.Suggest(context.Background(), SuggestRequest{
		ClinicalText: "Patient presents with chest pain. EKG performed during office visit.",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	foundDx := false
	for _, d := range suggestions.Suggestions.Diagnosis {
		if d.Code == "I25.10" {
			foundDx = true
		}
	}
	if !foundDx {
		t.Errorf("expected I25.10 for chest pain, got %v", suggestions.Suggestions.Diagnosis)
	}

	foundEKG := false
	for _, p := range suggestions.Suggestions.Procedure {
		if p.Code == "93000" {
			foundEKG = true
		}
	}
	if !foundEKG {
		t.Errorf("expected 93000 for EKG, got %v", suggestions.Suggestions.Procedure)
	}
	if suggestions.Rationale == "" {
		t.Error("expected a rationale")
	}
}

func TestSuggest_EmptyText(t *testing.T) {
	svc := newTestService()

	if _, err := svc.Suggest(context.Background(), SuggestRequest{}); err == nil {
		t.Fatal("expected error for empty clinical text")
	}
}

func TestValidate_CleanCodes(t *testing.T) {
	svc := newTestService()

	result := svc.Validate(ValidateRequest{
		DiagnosisCodes: []string{"I10"},
		ProcedureCodes: []string{"99213"},
	})
	if !result.Valid {
		t.Errorf("expected valid, got errors %v", result.Errors)
	}
	if result.ComplianceScore != 1 {
		t.Errorf("expected compliance 1.0, got %v", result.ComplianceScore)
	}
}

func TestValidate_MissingDiagnosis(t *testing.T) {
	svc := newTestService()

	result := svc.Validate(ValidateRequest{ProcedureCodes: []string{"99213"}})
	if result.Valid {
		t.Error("expected invalid without diagnosis codes")
	}
	if result.ComplianceScore != 0.7 {
		t.Errorf("expected compliance 0.7 for one error, got %v", result.ComplianceScore)
	}
}

func TestValidate_UnknownCodesAndWarnings(t *testing.T) {
	svc := newTestService()

	result := svc.Validate(ValidateRequest{
		DiagnosisCodes: []string{"X99.99"},
	})
	if result.Valid {
		t.Error("expected invalid for unknown code")
	}

	foundUnknown := false
	for _, e := range result.Errors {
		if strings.Contains(e, "X99.99") {
			foundUnknown = true
		}
	}
	if !foundUnknown {
		t.Errorf("expected unknown-code error, got %v", result.Errors)
	}
	if len(result.Warnings) != 1 {
		t.Errorf("expected missing-procedure warning, got %v", result.Warnings)
	}
	// one error (unknown code), one warning: 1 - 0.3 - 0.1
	if result.ComplianceScore != 0.6 {
		t.Errorf("expected compliance 0.6, got %v", result.ComplianceScore)
	}
}

func TestValidate_MigraineSuggestion(t *testing.T) {
	svc := newTestService()

	result := svc.Validate(ValidateRequest{
		DiagnosisCodes: []string{"G43.909"},
		ProcedureCodes: []string{"70553"},
	})
	if len(result.Suggestions) != 1 {
		t.Fatalf("expected migraine pairing suggestion, got %v", result.Suggestions)
	}

	result = svc.Validate(ValidateRequest{
		DiagnosisCodes: []string{"G43.909"},
		ProcedureCodes: []string{"99214"},
	})
	if len(result.Suggestions) != 0 {
		t.Errorf("expected no suggestion with office visit present, got %v", result.Suggestions)
	}
}

func TestValidate_ScoreFloor(t *testing.T) {
	svc := newTestService()

	result := svc.Validate(ValidateRequest{
		DiagnosisCodes: []string{"A", "B", "C", "D"},
	})
	if result.ComplianceScore != 0 {
		t.Errorf("expected floor at 0, got %v", result.ComplianceScore)
	}
}

func TestSaveSession_Confidence(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	session, err := svc.SaveSession(ctx, SaveSessionRequest{
		PatientID:      "P001",
		ChiefComplaint: "headache",
		DiagnosisCodes: []string{"G43.909"},
		ProcedureCodes: []string{"99213"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(session.ID, "CS") || len(session.ID) != 8 {
		t.Errorf("unexpected session id %q", session.ID)
	}
	// 0.8 + 0.1 + 0.1 + 0.05 capped at 0.98
	if session.Confidence != 0.98 {
		t.Errorf("expected capped confidence 0.98, got %v", session.Confidence)
	}

	bare, err := svc.SaveSession(ctx, SaveSessionRequest{PatientID: "P001"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if bare.Confidence != 0.8 {
		t.Errorf("expected base confidence 0.8, got %v", bare.Confidence)
	}

	if _, err := svc.SaveSession(ctx, SaveSessionRequest{}); err == nil {
		t.Error("expected error for missing patient_id")
	}
}

func TestSessionsAndAnalytics(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	a, err := svc.Analytics(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.TotalSessions != 0 || a.AverageConfidence != 0 {
		t.Errorf("expected zeroed analytics, got %+v", a)
	}

	for _, pid := range []string{"P001", "P002"} {
		if _, err := svc.SaveSession(ctx, SaveSessionRequest{
			PatientID:      pid,
			DiagnosisCodes: []string{"I10"},
			ProcedureCodes: []string{"99213", "36415"},
		}); err != nil {
			t.Fatalf("save failed: %v", err)
		}
	}

	sessions, err := svc.Sessions(ctx, "P001")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sessions) != 1 {
		t.Errorf("expected 1 session for P001, got %d", len(sessions))
	}

	session, err := svc.Session(ctx, sessions[0].ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if session.PatientCode != "P001" {
		t.Errorf("unexpected session patient %q", session.PatientCode)
	}

	if _, err := svc.Session(ctx, "CS000000"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("expected ErrSessionNotFound, got %v", err)
	}

	a, err = svc.Analytics(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.TotalSessions != 2 {
		t.Errorf("expected 2 sessions, got %d", a.TotalSessions)
	}
	if a.AverageDiagnoses != 1 || a.AverageProcedures != 2 {
		t.Errorf("unexpected averages: %+v", a)
	}
	if a.CompletionRate != 100 {
		t.Errorf("expected completion rate 100, got %v", a.CompletionRate)
	}
}
