package eligibility

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/rcmstack/rcm/internal/platform/ai"
)

var ErrPatientNotFound = errors.New("Patient not found in system")

const defaultServiceType = "general_consultation"

// historyLimit caps how many prior checks the history endpoint returns.
const historyLimit = 20

type Service struct {
	patients  PatientRepository
	providers ProviderRepository
	checks    CheckRepository
	gateway   *ai.Gateway
}

func NewService(patients PatientRepository, providers ProviderRepository, checks CheckRepository, gateway *ai.Gateway) *Service {
	return &Service{patients: patients, providers: providers, checks: checks, gateway: gateway}
}

// CheckEligibility runs a coverage verification for one patient and
// service type, records the result and returns the full payload.
func (s *Service) CheckEligibility(ctx context.Context, req CheckRequest) (*CheckResult, error) {
	if req.PatientID == "" {
		return nil, fmt.Errorf("patient_id is required")
	}
	serviceType := req.ServiceType
	if serviceType == "" {
		serviceType = defaultServiceType
	}

	patient, err := s.patients.GetByCode(ctx, req.PatientID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPatientNotFound
		}
		return nil, err
	}

	providerName := patient.ProviderCode
	if provider, err := s.providers.GetByCode(ctx, patient.ProviderCode); err == nil {
		providerName = provider.Name
	}

	active := patient.PolicyStatus == "active"
	facts := ai.CoverageFacts{
		ServiceType:        serviceType,
		PolicyActive:       active,
		CoveragePercentage: patient.CoveragePercentage,
		Copay:              patient.Copay,
		Deductible:         patient.Deductible,
	}

	prediction, _ := s.gateway.PredictCoverage(ctx, facts)
	insights, _ := s.gateway.EligibilityInsights(ctx, facts)

	result := &CheckResult{
		Eligible:           active,
		PatientID:          patient.PatientCode,
		PatientName:        patient.FullName(),
		InsuranceProvider:  providerName,
		PolicyNumber:       patient.PolicyNumber,
		PolicyStatus:       patient.PolicyStatus,
		ServiceType:        serviceType,
		CoveragePrediction: prediction,
		AIInsights:         insights,
		Recommendations:    buildRecommendations(patient, serviceType, active),
		ProviderResponse:   simulateProviderResponse(active),
		CheckedAt:          time.Now().UTC(),
	}

	chk := &EligibilityCheck{
		PatientCode:          patient.PatientCode,
		ProviderCode:         patient.ProviderCode,
		ServiceType:          serviceType,
		Eligible:             active,
		CoverageLikelihood:   prediction.CoverageLikelihood,
		EstimatedPatientCost: prediction.EstimatedPatientCost,
		AIPrediction:         prediction,
		Recommendations:      result.Recommendations,
		ProviderResponse:     result.ProviderResponse,
		ReferenceNumber:      result.ProviderResponse.ReferenceNumber,
		CheckedAt:            result.CheckedAt,
	}
	if err := s.checks.Create(ctx, chk); err != nil {
		return nil, err
	}

	return result, nil
}

func buildRecommendations(p *Patient, serviceType string, active bool) []string {
	recs := []string{}
	if !active {
		recs = append(recs, "Policy is not active - confirm coverage with the payer before treatment")
	}
	if p.Copay > 0 {
		recs = append(recs, fmt.Sprintf("Collect copay of %.2f at time of service", p.Copay))
	}
	if p.Deductible > 1000 {
		recs = append(recs, "High deductible plan - collect estimated patient responsibility up front")
	}
	switch serviceType {
	case "surgery", "maternity":
		recs = append(recs, "Obtain prior authorization before scheduling this service")
	case "emergency":
		recs = append(recs, "Emergency services are covered without prior authorization")
	}
	return recs
}

// simulateProviderResponse fabricates a clearinghouse acknowledgement.
// There is no live payer connection; the payload is labelled simulated.
func simulateProviderResponse(eligible bool) ProviderResponse {
	code := "A1"
	if !eligible {
		code = "A6"
	}
	return ProviderResponse{
		ReferenceNumber: fmt.Sprintf("REF-%06d", rand.Intn(1000000)),
		ResponseCode:    code,
		ResponseTimeMs:  120 + rand.Intn(300),
		DataSource:      "simulated",
	}
}

// History returns the most recent checks for one patient, newest first.
func (s *Service) History(ctx context.Context, patientCode string) ([]*EligibilityCheck, error) {
	if patientCode == "" {
		return nil, fmt.Errorf("patient_id is required")
	}
	return s.checks.ListByPatient(ctx, patientCode, historyLimit)
}

// Providers returns the active payers keyed by provider code.
func (s *Service) Providers(ctx context.Context) (map[string]*InsuranceProvider, error) {
	providers, err := s.providers.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	byCode := make(map[string]*InsuranceProvider, len(providers))
	for _, p := range providers {
		byCode[p.Code] = p
	}
	return byCode, nil
}

func (s *Service) ListPatients(ctx context.Context, limit, offset int) ([]*Patient, int, error) {
	return s.patients.List(ctx, limit, offset)
}
