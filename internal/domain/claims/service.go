package claims

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/rcmstack/rcm/internal/platform/ai"
)

var ErrNotFound = errors.New("Claim not found")

type Service struct {
	repo    Repository
	gateway *ai.Gateway
}

func NewService(repo Repository, gateway *ai.Gateway) *Service {
	return &Service{repo: repo, gateway: gateway}
}

// Submit scrubs and stores a claim. Claims that fail scrubbing are not
// rejected; they land in review_required for a coder to fix.
func (s *Service) Submit(ctx context.Context, req SubmitRequest) (*SubmitResult, error) {
	if req.PatientID == "" && len(req.DiagnosisCodes) == 0 && len(req.ProcedureCodes) == 0 {
		return nil, fmt.Errorf("claim is empty")
	}

	scrub, _ := s.gateway.ScrubClaim(ctx, ai.ClaimFacts{
		PatientID:      req.PatientID,
		DiagnosisCodes: req.DiagnosisCodes,
		ProcedureCodes: req.ProcedureCodes,
		Amount:         req.Amount,
	})

	status := StatusSubmitted
	if len(scrub.Errors) > 0 {
		status = StatusReviewRequired
	}

	cl := &Claim{
		ClaimNumber:      newClaimNumber(),
		PatientCode:      req.PatientID,
		ProviderCode:     req.Provider,
		DiagnosisCodes:   orEmpty(req.DiagnosisCodes),
		ProcedureCodes:   orEmpty(req.ProcedureCodes),
		Amount:           req.Amount,
		AllowedAmount:    simulateAllowedAmount(req.Amount),
		Status:           status,
		RiskScore:        scrub.RiskScore,
		ComplianceStatus: scrub.ComplianceStatus,
		SubmittedAt:      time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, cl); err != nil {
		return nil, err
	}
	return &SubmitResult{Claim: cl, Scrub: scrub}, nil
}

func newClaimNumber() string {
	raw := strings.ReplaceAll(uuid.NewString(), "-", "")
	return "CLM" + strings.ToUpper(raw[:6])
}

func orEmpty(codes []string) []string {
	if codes == nil {
		return []string{}
	}
	return codes
}

// simulateAllowedAmount applies a contractual adjustment between 80% and
// 100% of billed charges. There is no payer fee schedule on file.
func simulateAllowedAmount(amount float64) float64 {
	if amount <= 0 {
		return 0
	}
	return round2(amount * (0.8 + rand.Float64()*0.2))
}

// BatchSubmit submits several claims in one call. Failures on one claim
// do not stop the rest.
func (s *Service) BatchSubmit(ctx context.Context, req BatchSubmitRequest) ([]*SubmitResult, error) {
	if len(req.Claims) == 0 {
		return nil, fmt.Errorf("claims list is empty")
	}

	results := make([]*SubmitResult, 0, len(req.Claims))
	for _, cr := range req.Claims {
		res, err := s.Submit(ctx, cr)
		if err != nil {
			continue
		}
		results = append(results, res)
	}
	if len(results) == 0 {
		return nil, fmt.Errorf("no claims could be submitted")
	}
	return results, nil
}

func (s *Service) Status(ctx context.Context, claimNumber string) (*Claim, error) {
	if claimNumber == "" {
		return nil, fmt.Errorf("claim number is required")
	}
	cl, err := s.repo.GetByClaimNumber(ctx, claimNumber)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return cl, nil
}

// ListSummary accompanies the claim list.
type ListSummary struct {
	TotalAmount     float64        `json:"total_amount"`
	TotalAllowed    float64        `json:"total_allowed"`
	PaidAmount      float64        `json:"paid_amount"`
	StatusBreakdown map[string]int `json:"status_breakdown"`
}

func (s *Service) List(ctx context.Context, f ListFilters, limit, offset int) ([]*Claim, int, *ListSummary, error) {
	if f.Status != "" && !validStatuses[f.Status] {
		return nil, 0, nil, fmt.Errorf("invalid status filter %q", f.Status)
	}

	list, total, err := s.repo.List(ctx, f, limit, offset)
	if err != nil {
		return nil, 0, nil, err
	}

	summary := &ListSummary{StatusBreakdown: map[string]int{}}
	for _, cl := range list {
		summary.TotalAmount += cl.Amount
		summary.TotalAllowed += cl.AllowedAmount
		summary.PaidAmount += cl.PaidAmount
		summary.StatusBreakdown[cl.Status]++
	}
	summary.TotalAmount = round2(summary.TotalAmount)
	summary.TotalAllowed = round2(summary.TotalAllowed)
	summary.PaidAmount = round2(summary.PaidAmount)
	return list, total, summary, nil
}

// Analytics is the claims performance rollup. Processing-time figures
// are simulated; there is no adjudication feed to measure against.
type Analytics struct {
	TotalClaims           int            `json:"total_claims"`
	StatusBreakdown       map[string]int `json:"status_breakdown"`
	DenialRate            float64        `json:"denial_rate"`
	ApprovalRate          float64        `json:"approval_rate"`
	TotalAmount           float64        `json:"total_amount"`
	TotalAllowed          float64        `json:"total_allowed"`
	TotalPaid             float64        `json:"total_paid"`
	AverageProcessingDays float64        `json:"average_processing_days"`
	DataSource            string         `json:"data_source"`
	Insights              []string       `json:"insights"`
}

func (s *Service) Analytics(ctx context.Context) (*Analytics, error) {
	counts, err := s.repo.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}
	amount, allowed, paid, err := s.repo.Totals(ctx)
	if err != nil {
		return nil, err
	}

	total := 0
	for _, n := range counts {
		total += n
	}

	a := &Analytics{
		TotalClaims:           total,
		StatusBreakdown:       counts,
		TotalAmount:           round2(amount),
		TotalAllowed:          round2(allowed),
		TotalPaid:             round2(paid),
		AverageProcessingDays: 8.5,
		DataSource:            "simulated",
		Insights:              []string{},
	}
	if total > 0 {
		a.DenialRate = round2(float64(counts[StatusDenied]) / float64(total) * 100)
		approved := counts[StatusApproved] + counts[StatusPaid]
		a.ApprovalRate = round2(float64(approved) / float64(total) * 100)
	}

	if a.DenialRate > 20 {
		a.Insights = append(a.Insights, "Denial rate is above 20% - review scrubbing results before submission")
	}
	if counts[StatusReviewRequired] > 0 {
		a.Insights = append(a.Insights,
			fmt.Sprintf("%d claims are waiting on coder review", counts[StatusReviewRequired]))
	}
	if total == 0 {
		a.Insights = append(a.Insights, "No claims submitted yet")
	}
	return a, nil
}

func round2(v float64) float64 {
	return float64(int(v*100+0.5)) / 100
}
