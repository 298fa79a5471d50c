package priorauth

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/rcmstack/rcm/internal/platform/ai"
)

var (
	ErrNotFound        = errors.New("Authorization not found")
	ErrInvalidStatus   = errors.New("Invalid status")
	ErrInvalidFileType = errors.New("File type not allowed")
)

// allowedExtensions are the document types accepted for supporting uploads.
var allowedExtensions = map[string]bool{
	".pdf":  true,
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".doc":  true,
	".docx": true,
}

// likelihoodCap is the ceiling after documentation boosts.
const likelihoodCap = 98.0

type Service struct {
	repo    Repository
	gateway *ai.Gateway
}

func NewService(repo Repository, gateway *ai.Gateway) *Service {
	return &Service{repo: repo, gateway: gateway}
}

// Submit files a new prior authorization request and runs the approval
// analysis on it.
func (s *Service) Submit(ctx context.Context, req SubmitRequest) (*PriorAuthorization, error) {
	if req.PatientID == "" {
		return nil, fmt.Errorf("patient_id is required")
	}
	if req.Procedure == "" {
		return nil, fmt.Errorf("procedure is required")
	}
	if req.Diagnosis == "" {
		return nil, fmt.Errorf("diagnosis is required")
	}

	analysis, _ := s.gateway.AnalyzePriorAuth(ctx, ai.PriorAuthFacts{
		Procedure:      req.Procedure,
		Diagnosis:      req.Diagnosis,
		MedicalHistory: req.MedicalHistory,
		EstimatedCost:  req.EstimatedCost,
	})

	pa := &PriorAuthorization{
		AuthNumber:         newAuthNumber(),
		PatientCode:        req.PatientID,
		Procedure:          req.Procedure,
		Diagnosis:          req.Diagnosis,
		MedicalHistory:     req.MedicalHistory,
		EstimatedCost:      req.EstimatedCost,
		Status:             StatusPending,
		ApprovalLikelihood: analysis.ApprovalLikelihood,
		RiskFactors:        analysis.RiskFactors,
		Recommendations:    analysis.Recommendations,
		Documents:          []string{},
		SubmittedAt:        time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, pa); err != nil {
		return nil, err
	}
	return pa, nil
}

func newAuthNumber() string {
	raw := strings.ReplaceAll(uuid.NewString(), "-", "")
	return "PA" + strings.ToUpper(raw[:6])
}

// AttachDocument records a supporting document against a request and
// re-scores the approval likelihood. Only the sanitized filename is kept.
func (s *Service) AttachDocument(ctx context.Context, authNumber, filename string) (*PriorAuthorization, []string, error) {
	pa, err := s.get(ctx, authNumber)
	if err != nil {
		return nil, nil, err
	}

	name := filepath.Base(filename)
	if name == "" || name == "." || name == string(filepath.Separator) {
		return nil, nil, fmt.Errorf("filename is required")
	}
	if !allowedExtensions[strings.ToLower(filepath.Ext(name))] {
		return nil, nil, ErrInvalidFileType
	}

	pa.Documents = append(pa.Documents, name)

	// Each supporting document strengthens the case, up to a point.
	boost := float64(5 * len(pa.Documents))
	if boost > 15 {
		boost = 15
	}
	pa.ApprovalLikelihood += boost
	if pa.ApprovalLikelihood > likelihoodCap {
		pa.ApprovalLikelihood = likelihoodCap
	}

	notes := documentNotes(name)
	if err := s.repo.Update(ctx, pa); err != nil {
		return nil, nil, err
	}
	return pa, notes, nil
}

func documentNotes(filename string) []string {
	name := strings.ToLower(filename)
	notes := []string{}
	if strings.Contains(name, "mri") {
		notes = append(notes, "Imaging report strengthens medical necessity")
	}
	if strings.Contains(name, "referral") {
		notes = append(notes, "Referral letter supports the request")
	}
	return notes
}

func (s *Service) Status(ctx context.Context, authNumber string) (*PriorAuthorization, error) {
	return s.get(ctx, authNumber)
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]*PriorAuthorization, int, error) {
	return s.repo.List(ctx, limit, offset)
}

// UpdateStatus moves a request through the review workflow. Terminal
// decisions stamp the decision date.
func (s *Service) UpdateStatus(ctx context.Context, authNumber, status string) (*PriorAuthorization, error) {
	if !validStatuses[status] {
		return nil, ErrInvalidStatus
	}

	pa, err := s.get(ctx, authNumber)
	if err != nil {
		return nil, err
	}

	pa.Status = status
	if status == StatusApproved || status == StatusDenied {
		now := time.Now().UTC()
		pa.DecisionDate = &now
	}
	if err := s.repo.Update(ctx, pa); err != nil {
		return nil, err
	}
	return pa, nil
}

func (s *Service) get(ctx context.Context, authNumber string) (*PriorAuthorization, error) {
	if authNumber == "" {
		return nil, fmt.Errorf("authorization number is required")
	}
	pa, err := s.repo.GetByAuthNumber(ctx, authNumber)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return pa, nil
}
