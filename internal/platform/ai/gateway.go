package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"strings"

	"github.com/rs/zerolog"
)

// Gateway wraps a Completer with the domain-specific AI operations. Every
// operation degrades gracefully: when the model is unreachable, times out, or
// returns unparseable output, a deterministic fallback payload with exactly
// the same shape is returned instead. Callers never see an upstream error.
type Gateway struct {
	client Completer
	log    zerolog.Logger
}

func NewGateway(client Completer, log zerolog.Logger) *Gateway {
	return &Gateway{client: client, log: log}
}

// assist runs one model call: prompt, complete, strip markdown fences,
// unmarshal into T. Any failure along the way yields the fallback value and
// degraded=true.
func assist[T any](ctx context.Context, g *Gateway, op, systemPrompt, userPrompt string, fallback func() T) (T, bool) {
	raw, err := g.client.Complete(ctx, systemPrompt, userPrompt)
	if err != nil {
		g.log.Debug().Err(err).Str("op", op).Msg("ai completion failed, using fallback")
		return fallback(), true
	}

	cleaned := stripFences(raw)
	var out T
	if err := json.Unmarshal([]byte(cleaned), &out); err != nil {
		g.log.Debug().Err(err).Str("op", op).Msg("ai response unparseable, using fallback")
		return fallback(), true
	}
	if msg := responseError(cleaned); msg != "" {
		g.log.Debug().Str("op", op).Str("error", msg).Msg("ai response reported an error, using fallback")
		return fallback(), true
	}
	return out, false
}

// responseError reports the value of a top-level "error" key. Models
// sometimes answer {"error": ...} instead of the requested shape; that
// parses into T but carries no usable fields.
func responseError(s string) string {
	var probe map[string]json.RawMessage
	if json.Unmarshal([]byte(s), &probe) != nil {
		return ""
	}
	raw, ok := probe["error"]
	if !ok {
		return ""
	}
	var msg string
	if json.Unmarshal(raw, &msg) != nil {
		return string(raw)
	}
	return msg
}

// stripFences removes a surrounding markdown code fence from model output.
// Models regularly wrap JSON in ```json ... ``` despite being asked not to.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		if i := strings.LastIndex(s, "```"); i >= 0 {
			s = s[:i]
		}
	}
	return strings.TrimSpace(s)
}

func marshalFacts(v interface{}) string {
	b, err := json.Marshal(v)
	if err != nil {
		return "{}"
	}
	return string(b)
}

// ===========================================================================
// Claim scrubbing
// ===========================================================================

// ClaimFacts is the subset of a claim the model needs for scrubbing and
// denial prediction.
type ClaimFacts struct {
	PatientID      string   `json:"patient_id"`
	DiagnosisCodes []string `json:"diagnosis_codes"`
	ProcedureCodes []string `json:"procedure_codes"`
	Amount         float64  `json:"claim_amount"`
}

// ScrubResult is returned by ScrubClaim; live and fallback payloads carry the
// same keys.
type ScrubResult struct {
	RiskScore        float64  `json:"risk_score"`
	Errors           []string `json:"errors"`
	Warnings         []string `json:"warnings"`
	MissingInfo      []string `json:"missing_info"`
	DenialRisks      []string `json:"denial_risks"`
	Recommendations  []string `json:"recommendations"`
	ComplianceStatus string   `json:"compliance_status"`
	ConfidenceScore  float64  `json:"confidence_score"`
}

const scrubSystemPrompt = `You are an expert medical claims auditor. Scrub the claim for errors,
missing information and denial risks before submission. Respond with JSON only, using the keys
risk_score, errors, warnings, missing_info, denial_risks, recommendations, compliance_status,
confidence_score.`

// ScrubClaim audits a claim before submission. The fallback applies the
// standard local edit rules.
func (g *Gateway) ScrubClaim(ctx context.Context, facts ClaimFacts) (ScrubResult, bool) {
	prompt := fmt.Sprintf("Scrub this claim:\n%s", marshalFacts(facts))
	return assist(ctx, g, "scrub_claim", scrubSystemPrompt, prompt, func() ScrubResult {
		return scrubFallback(facts)
	})
}

func scrubFallback(facts ClaimFacts) ScrubResult {
	confidence := 0.95
	errs := []string{}
	warnings := []string{}
	missing := []string{}

	if facts.PatientID == "" {
		missing = append(missing, "patient_id")
		errs = append(errs, "Missing required field: patient_id")
		confidence -= 0.2
	}
	if len(facts.DiagnosisCodes) == 0 {
		missing = append(missing, "diagnosis_codes")
		errs = append(errs, "Missing required field: diagnosis_codes")
		confidence -= 0.2
	}
	if len(facts.ProcedureCodes) == 0 {
		missing = append(missing, "procedure_codes")
		errs = append(errs, "Missing required field: procedure_codes")
		confidence -= 0.2
	}
	if facts.Amount == 0 {
		missing = append(missing, "claim_amount")
		errs = append(errs, "Missing required field: claim_amount")
		confidence -= 0.2
	}

	// Routine exam billed with MRI brain is the classic mismatch payers flag.
	if containsCode(facts.DiagnosisCodes, "Z00.00") && containsCode(facts.ProcedureCodes, "70553") {
		errs = append(errs, "Diagnosis-procedure mismatch: routine exam paired with MRI brain")
		confidence -= 0.3
	}

	if len(facts.DiagnosisCodes) > 3 {
		warnings = append(warnings, "High number of diagnosis codes may trigger payer review")
		confidence -= 0.1
	}
	if facts.Amount > 10000 {
		warnings = append(warnings, "High claim amount may require additional documentation")
		confidence -= 0.05
	}
	if facts.Amount <= 0 {
		errs = append(errs, "Invalid claim amount")
		confidence -= 0.3
	}

	if confidence < 0 {
		confidence = 0
	}

	denialRisks := []string{}
	if len(errs) > 0 {
		denialRisks = append(denialRisks, "Claim may be denied due to validation errors")
	}

	status := "Compliant"
	if len(errs) > 0 {
		status = "Review required"
	}

	return ScrubResult{
		RiskScore:   round2(1 - confidence),
		Errors:      errs,
		Warnings:    warnings,
		MissingInfo: missing,
		DenialRisks: denialRisks,
		Recommendations: []string{
			"AI scrubbing temporarily unavailable - claim checked against standard rules",
			"Manual review recommended before submission",
		},
		ComplianceStatus: status,
		ConfidenceScore:  round2(confidence),
	}
}

func containsCode(codes []string, code string) bool {
	for _, c := range codes {
		if c == code {
			return true
		}
	}
	return false
}

// ===========================================================================
// Prior authorization
// ===========================================================================

// PriorAuthFacts describes a prior authorization request for analysis.
type PriorAuthFacts struct {
	Procedure      string  `json:"procedure"`
	Diagnosis      string  `json:"diagnosis"`
	MedicalHistory string  `json:"medical_history"`
	EstimatedCost  float64 `json:"estimated_cost"`
}

// PriorAuthAnalysis is the payer-approval outlook for a request.
type PriorAuthAnalysis struct {
	ApprovalLikelihood float64  `json:"approval_likelihood"`
	RiskFactors        []string `json:"risk_factors"`
	Recommendations    []string `json:"recommendations"`
	ConfidenceScore    float64  `json:"confidence_score"`
}

const priorAuthSystemPrompt = `You are a prior authorization specialist. Estimate the likelihood
of payer approval for the requested service and identify risk factors and documentation gaps.
Respond with JSON only, using the keys approval_likelihood (0-100), risk_factors,
recommendations, confidence_score.`

// AnalyzePriorAuth estimates approval likelihood for a prior auth request.
func (g *Gateway) AnalyzePriorAuth(ctx context.Context, facts PriorAuthFacts) (PriorAuthAnalysis, bool) {
	prompt := fmt.Sprintf("Analyze this prior authorization request:\n%s", marshalFacts(facts))
	return assist(ctx, g, "analyze_prior_auth", priorAuthSystemPrompt, prompt, func() PriorAuthAnalysis {
		return priorAuthFallback(facts)
	})
}

func priorAuthFallback(facts PriorAuthFacts) PriorAuthAnalysis {
	likelihood := 85.0
	riskFactors := []string{}
	recommendations := []string{"AI analysis temporarily unavailable - manual review required"}

	procedure := strings.ToLower(facts.Procedure)
	if strings.Contains(procedure, "surgery") || strings.Contains(procedure, "operation") {
		likelihood -= 10
		riskFactors = append(riskFactors, "Surgical procedure requires stronger medical necessity evidence")
		recommendations = append(recommendations, "Detailed surgical plan required")
	}

	return PriorAuthAnalysis{
		ApprovalLikelihood: likelihood,
		RiskFactors:        riskFactors,
		Recommendations:    recommendations,
		ConfidenceScore:    0.70,
	}
}

// ===========================================================================
// Clinical documentation
// ===========================================================================

// DocumentationRequest carries the context for drafting assistance.
type DocumentationRequest struct {
	TemplateType string `json:"template_type"`
	PatientInfo  string `json:"patient_info"`
	ClinicalData string `json:"clinical_data"`
}

// GeneratedContent is the drafted note body.
type GeneratedContent struct {
	Assessment      string   `json:"assessment"`
	Plan            string   `json:"plan"`
	Recommendations []string `json:"recommendations"`
}

// DocumentationAssist is the drafting-assistance payload.
type DocumentationAssist struct {
	Suggestions      []string         `json:"suggestions"`
	GeneratedContent GeneratedContent `json:"generated_content"`
	ConfidenceScore  float64          `json:"confidence_score"`
	ComplianceNotes  string           `json:"compliance_notes"`
}

const documentationSystemPrompt = `You are a clinical documentation improvement specialist.
Draft assessment and plan content for the given encounter and suggest documentation improvements.
Respond with JSON only, using the keys suggestions, generated_content (with assessment, plan,
recommendations), confidence_score, compliance_notes.`

// GenerateDocumentation drafts note content for an encounter.
func (g *Gateway) GenerateDocumentation(ctx context.Context, req DocumentationRequest) (DocumentationAssist, bool) {
	prompt := fmt.Sprintf("Draft documentation for this encounter:\n%s", marshalFacts(req))
	return assist(ctx, g, "generate_documentation", documentationSystemPrompt, prompt, func() DocumentationAssist {
		return DocumentationAssist{
			Suggestions: []string{
				"Include chief complaint and history of present illness",
				"Document review of systems",
				"Record physical examination findings",
			},
			GeneratedContent: GeneratedContent{
				Assessment:      "Patient presents for evaluation. Clinical findings documented per examination.",
				Plan:            "Continue current management. Follow up as scheduled.",
				Recommendations: []string{"Complete all template sections before signing"},
			},
			ConfidenceScore: 0.85,
			ComplianceNotes: "Generated using standard clinical templates",
		}
	})
}

// DocumentValidation is the completeness review of a clinical document.
type DocumentValidation struct {
	CompletenessScore float64  `json:"completeness_score"`
	MissingElements   []string `json:"missing_elements"`
	ComplianceIssues  []string `json:"compliance_issues"`
	Recommendations   []string `json:"recommendations"`
	OverallQuality    string   `json:"overall_quality"`
}

const validateDocumentSystemPrompt = `You are a clinical documentation compliance reviewer.
Assess the document for completeness and compliance issues. Respond with JSON only, using the
keys completeness_score, missing_elements, compliance_issues, recommendations, overall_quality.`

// ValidateDocument reviews a clinical document for completeness.
func (g *Gateway) ValidateDocument(ctx context.Context, content, templateType string) (DocumentValidation, bool) {
	prompt := fmt.Sprintf("Validate this %s document:\n%s", templateType, content)
	return assist(ctx, g, "validate_document", validateDocumentSystemPrompt, prompt, func() DocumentValidation {
		return DocumentValidation{
			CompletenessScore: 0.85,
			MissingElements:   []string{},
			ComplianceIssues:  []string{},
			Recommendations:   []string{"Review documentation for completeness before signing"},
			OverallQuality:    "Good",
		}
	})
}

// ===========================================================================
// Medical coding
// ===========================================================================

// CodeSuggestion is one suggested billing code.
type CodeSuggestion struct {
	Code        string  `json:"code"`
	Description string  `json:"description"`
	Confidence  float64 `json:"confidence"`
}

// CodeSuggestions groups suggested diagnosis and procedure codes.
type CodeSuggestions struct {
	DiagnosisCodes  []CodeSuggestion `json:"diagnosis_codes"`
	ProcedureCodes  []CodeSuggestion `json:"procedure_codes"`
	Rationale       string           `json:"rationale"`
	ComplianceNotes string           `json:"compliance_notes"`
}

const suggestCodesSystemPrompt = `You are a certified medical coder. Suggest ICD-10 diagnosis
codes and CPT procedure codes for the clinical text. Respond with JSON only, using the keys
diagnosis_codes and procedure_codes (each a list of objects with code, description, confidence),
rationale, compliance_notes.`

// SuggestCodes proposes billing codes for free-text clinical notes. The
// fallback applies keyword rules against the common-code table.
func (g *Gateway) SuggestCodes(ctx context.Context, clinicalText string) (CodeSuggestions, bool) {
	prompt := fmt.Sprintf("Suggest billing codes for:\n%s", clinicalText)
	return assist(ctx, g, "suggest_codes", suggestCodesSystemPrompt, prompt, func() CodeSuggestions {
		return suggestCodesFallback(clinicalText)
	})
}

func suggestCodesFallback(clinicalText string) CodeSuggestions {
	text := strings.ToLower(clinicalText)
	var diagnosis, procedure []CodeSuggestion

	if strings.Contains(text, "chest pain") {
		diagnosis = append(diagnosis,
			CodeSuggestion{Code: "I25.10", Description: "Atherosclerotic heart disease of native coronary artery", Confidence: 0.8},
			CodeSuggestion{Code: "R06.02", Description: "Shortness of breath", Confidence: 0.8})
	}
	if strings.Contains(text, "headache") || strings.Contains(text, "migraine") {
		diagnosis = append(diagnosis,
			CodeSuggestion{Code: "G43.909", Description: "Migraine, unspecified, not intractable", Confidence: 0.8},
			CodeSuggestion{Code: "R51", Description: "Headache", Confidence: 0.8})
	}
	if strings.Contains(text, "hypertension") {
		diagnosis = append(diagnosis,
			CodeSuggestion{Code: "I10", Description: "Essential (primary) hypertension", Confidence: 0.9})
	}
	if strings.Contains(text, "office visit") {
		procedure = append(procedure,
			CodeSuggestion{Code: "99213", Description: "Office visit, established patient, low complexity", Confidence: 0.9},
			CodeSuggestion{Code: "99214", Description: "Office visit, established patient, moderate complexity", Confidence: 0.8})
	}
	if strings.Contains(text, "ekg") || strings.Contains(text, "ecg") {
		procedure = append(procedure,
			CodeSuggestion{Code: "93000", Description: "Electrocardiogram, routine ECG with interpretation", Confidence: 0.9})
	}

	if len(diagnosis) == 0 {
		diagnosis = append(diagnosis,
			CodeSuggestion{Code: "Z00.00", Description: "Encounter for general adult medical examination", Confidence: 0.8})
	}
	if len(procedure) == 0 {
		procedure = append(procedure,
			CodeSuggestion{Code: "99213", Description: "Office visit, established patient, low complexity", Confidence: 0.9})
	}

	return CodeSuggestions{
		DiagnosisCodes:  diagnosis,
		ProcedureCodes:  procedure,
		Rationale:       "Suggested based on keyword analysis of the clinical text",
		ComplianceNotes: "AI coding assistant temporarily unavailable - verify codes before billing",
	}
}

// ===========================================================================
// Denial prediction
// ===========================================================================

// DenialPrediction is the denial-risk outlook for a claim.
type DenialPrediction struct {
	DenialProbability     float64  `json:"denial_probability"`
	RiskLevel             string   `json:"risk_level"`
	RiskFactors           []string `json:"risk_factors"`
	PreventiveActions     []string `json:"preventive_actions"`
	ExpectedDenialReasons []string `json:"expected_denial_reasons"`
}

const denialSystemPrompt = `You are a revenue cycle analyst. Predict the probability that this
claim will be denied and identify the drivers. Respond with JSON only, using the keys
denial_probability (0-1), risk_level, risk_factors, preventive_actions, expected_denial_reasons.`

// PredictDenial estimates denial risk for a claim.
func (g *Gateway) PredictDenial(ctx context.Context, facts ClaimFacts) (DenialPrediction, bool) {
	prompt := fmt.Sprintf("Predict denial risk for this claim:\n%s", marshalFacts(facts))
	return assist(ctx, g, "predict_denial", denialSystemPrompt, prompt, func() DenialPrediction {
		return DenialPrediction{
			DenialProbability:     round2(0.3 + rand.Float64()*0.4),
			RiskLevel:             "Medium",
			RiskFactors:           []string{"Unable to assess - AI analysis temporarily unavailable"},
			PreventiveActions:     []string{"Manual review recommended before submission"},
			ExpectedDenialReasons: []string{},
		}
	})
}

// ===========================================================================
// Payment reconciliation
// ===========================================================================

// ReconciliationSummary is the outcome of matching remittance payments to claims.
type ReconciliationSummary struct {
	MatchedPayments   int      `json:"matched_payments"`
	UnmatchedPayments int      `json:"unmatched_payments"`
	Discrepancies     []string `json:"discrepancies"`
	Recommendations   []string `json:"recommendations"`
	Confidence        float64  `json:"confidence"`
}

const reconcileSystemPrompt = `You are a payment posting specialist. Match the remittance
payments against open claims and flag discrepancies. Respond with JSON only, using the keys
matched_payments, unmatched_payments, discrepancies, recommendations, confidence.`

// ReconcilePayments matches a remittance batch against open claims.
func (g *Gateway) ReconcilePayments(ctx context.Context, paymentCount int, totalAmount float64) (ReconciliationSummary, bool) {
	prompt := fmt.Sprintf("Reconcile %d payments totalling %.2f against open claims.", paymentCount, totalAmount)
	return assist(ctx, g, "reconcile_payments", reconcileSystemPrompt, prompt, func() ReconciliationSummary {
		return ReconciliationSummary{
			MatchedPayments:   paymentCount,
			UnmatchedPayments: 0,
			Discrepancies:     []string{},
			Recommendations:   []string{"AI reconciliation temporarily unavailable - verify postings manually"},
			Confidence:        0.95,
		}
	})
}

// ===========================================================================
// Coverage prediction and eligibility insights
// ===========================================================================

// CoverageFacts describes the patient's plan for a requested service.
type CoverageFacts struct {
	ServiceType        string  `json:"service_type"`
	PolicyActive       bool    `json:"policy_active"`
	CoveragePercentage float64 `json:"coverage_percentage"`
	Copay              float64 `json:"copay"`
	Deductible         float64 `json:"deductible"`
}

// CoveragePrediction is the cost and coverage outlook for a service.
type CoveragePrediction struct {
	CoverageLikelihood   float64  `json:"coverage_likelihood"`
	EstimatedPatientCost float64  `json:"estimated_patient_cost"`
	EstimatedTotalCost   float64  `json:"estimated_total_cost"`
	ConfidenceScore      float64  `json:"confidence_score"`
	AIInsights           []string `json:"ai_insights"`
}

// serviceBaseCosts holds typical billed amounts per service type, used for
// patient cost estimates when the model is unavailable.
var serviceBaseCosts = map[string]float64{
	"general_consultation":    200,
	"specialist_consultation": 500,
	"surgery":                 15000,
	"emergency":               1000,
	"diagnostic_imaging":      800,
	"laboratory_tests":        300,
	"physiotherapy":           150,
	"dental":                  400,
	"maternity":               8000,
	"pediatric":               250,
	"cardiology":              1200,
	"orthopedic":              2000,
	"dermatology":             350,
}

// serviceCoverageLikelihood holds typical approval likelihood per service type.
var serviceCoverageLikelihood = map[string]float64{
	"general_consultation":    95,
	"specialist_consultation": 85,
	"surgery":                 70,
	"emergency":               98,
	"diagnostic_imaging":      80,
	"laboratory_tests":        90,
	"physiotherapy":           75,
	"dental":                  70,
	"maternity":               85,
	"pediatric":               95,
	"cardiology":              80,
	"orthopedic":              75,
	"dermatology":             85,
}

const (
	defaultBaseCost           = 500.0
	defaultCoverageLikelihood = 90.0
)

const coverageSystemPrompt = `You are a benefits verification specialist. Predict coverage
likelihood and estimate patient cost for the requested service given the plan details.
Respond with JSON only, using the keys coverage_likelihood (0-100), estimated_patient_cost,
estimated_total_cost, confidence_score, ai_insights.`

// PredictCoverage estimates coverage likelihood and patient cost for a
// service. The fallback uses the standard benefit schedule tables.
func (g *Gateway) PredictCoverage(ctx context.Context, facts CoverageFacts) (CoveragePrediction, bool) {
	prompt := fmt.Sprintf("Predict coverage for this request:\n%s", marshalFacts(facts))
	return assist(ctx, g, "predict_coverage", coverageSystemPrompt, prompt, func() CoveragePrediction {
		return coverageFallback(facts)
	})
}

func coverageFallback(facts CoverageFacts) CoveragePrediction {
	totalCost, ok := serviceBaseCosts[facts.ServiceType]
	if !ok {
		totalCost = defaultBaseCost
	}
	likelihood, ok := serviceCoverageLikelihood[facts.ServiceType]
	if !ok {
		likelihood = defaultCoverageLikelihood
	}

	coveragePct := facts.CoveragePercentage
	if coveragePct <= 0 || coveragePct > 100 {
		coveragePct = 80
	}
	patientCost := totalCost * (1 - coveragePct/100)

	insights := []string{"Coverage estimate based on standard benefit schedules"}
	if !facts.PolicyActive {
		likelihood = 0
		patientCost = totalCost
		insights = append(insights, "Policy is inactive - services will not be covered")
	}

	return CoveragePrediction{
		CoverageLikelihood:   likelihood,
		EstimatedPatientCost: round2(patientCost),
		EstimatedTotalCost:   round2(totalCost),
		ConfidenceScore:      0.70,
		AIInsights:           insights,
	}
}

// Insight is one actionable observation surfaced to the frontend.
type Insight struct {
	InsightID          string `json:"insight_id"`
	InsightTitle       string `json:"insight_title"`
	InsightDescription string `json:"insight_description"`
	InsightCategory    string `json:"insight_category"`
	Priority           string `json:"priority"`
	AffectedModule     string `json:"affected_module"`
	Recommendation     string `json:"recommendation"`
}

const insightsSystemPrompt = `You are a revenue cycle advisor. Generate up to 4 actionable
insights for this eligibility check. Respond with a JSON array of objects using the keys
insight_id, insight_title, insight_description, insight_category, priority, affected_module,
recommendation.`

// EligibilityInsights generates advisory insights for an eligibility check.
// The fallback derives rule-based insights from the plan figures, capped at 4.
func (g *Gateway) EligibilityInsights(ctx context.Context, facts CoverageFacts) ([]Insight, bool) {
	prompt := fmt.Sprintf("Generate insights for this eligibility check:\n%s", marshalFacts(facts))
	return assist(ctx, g, "eligibility_insights", insightsSystemPrompt, prompt, func() []Insight {
		return eligibilityInsightsFallback(facts)
	})
}

func eligibilityInsightsFallback(facts CoverageFacts) []Insight {
	insights := []Insight{}

	if facts.Copay > 50 {
		insights = append(insights, Insight{
			InsightTitle:       "High copay amount",
			InsightDescription: fmt.Sprintf("The copay of %.2f is above typical plan levels.", facts.Copay),
			InsightCategory:    "cost_optimization",
			Priority:           "medium",
			Recommendation:     "Discuss payment options with the patient before the visit",
		})
	}
	if facts.Deductible > 200 {
		insights = append(insights, Insight{
			InsightTitle:       "Outstanding deductible",
			InsightDescription: fmt.Sprintf("A deductible of %.2f may apply before coverage begins.", facts.Deductible),
			InsightCategory:    "cost_optimization",
			Priority:           "medium",
			Recommendation:     "Verify remaining deductible with the payer",
		})
	}
	if facts.CoveragePercentage > 0 && facts.CoveragePercentage < 80 {
		insights = append(insights, Insight{
			InsightTitle:       "Limited coverage percentage",
			InsightDescription: fmt.Sprintf("The plan covers %.0f%% of allowed charges for this service.", facts.CoveragePercentage),
			InsightCategory:    "coverage",
			Priority:           "high",
			Recommendation:     "Provide the patient with a cost estimate before treatment",
		})
	}
	if facts.ServiceType == "surgery" || facts.ServiceType == "specialist_consultation" {
		insights = append(insights, Insight{
			InsightTitle:       "Prior authorization likely required",
			InsightDescription: fmt.Sprintf("Payers commonly require prior authorization for %s.", facts.ServiceType),
			InsightCategory:    "process",
			Priority:           "high",
			Recommendation:     "Submit a prior authorization request before scheduling",
		})
	}

	if len(insights) > 4 {
		insights = insights[:4]
	}
	for i := range insights {
		insights[i].InsightID = fmt.Sprintf("ELIG-%03d", i+1)
		insights[i].AffectedModule = "eligibility"
	}
	return insights
}

func round2(v float64) float64 {
	return float64(int(v*100+0.5)) / 100
}
