package clinicaldocs

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/rcmstack/rcm/internal/platform/ai"
)

var (
	ErrTemplateNotFound = errors.New("Template not found")
	ErrDocumentNotFound = errors.New("Document not found")
)

// Document statuses.
const (
	StatusDraft = "draft"
	StatusFinal = "final"
)

type Service struct {
	docs    DocumentRepository
	gateway *ai.Gateway
}

func NewService(docs DocumentRepository, gateway *ai.Gateway) *Service {
	return &Service{docs: docs, gateway: gateway}
}

// Templates returns the catalog, optionally narrowed to one category.
func (s *Service) Templates(category string) ([]*Template, []string) {
	all := AllTemplates()
	if category == "" {
		return all, Categories
	}
	filtered := []*Template{}
	for _, t := range all {
		if t.Category == category {
			filtered = append(filtered, t)
		}
	}
	return filtered, Categories
}

func (s *Service) Template(id string) (*Template, error) {
	t := TemplateByID(id)
	if t == nil {
		return nil, ErrTemplateNotFound
	}
	return t, nil
}

// Assist drafts note content for an encounter.
func (s *Service) Assist(ctx context.Context, req AssistanceRequest) (ai.DocumentationAssist, error) {
	if req.TemplateType == "" {
		return ai.DocumentationAssist{}, fmt.Errorf("template_type is required")
	}
	if TemplateByID(req.TemplateType) == nil {
		return ai.DocumentationAssist{}, ErrTemplateNotFound
	}

	assist, _ := s.gateway.GenerateDocumentation(ctx, ai.DocumentationRequest{
		TemplateType: req.TemplateType,
		PatientInfo:  req.PatientInfo,
		ClinicalData: req.ClinicalData,
	})
	return assist, nil
}

// Save stores a new document draft and runs the completeness review on it.
func (s *Service) Save(ctx context.Context, req SaveRequest) (*ClinicalDocument, error) {
	if req.PatientID == "" {
		return nil, fmt.Errorf("patient_id is required")
	}
	if req.Content == "" {
		return nil, fmt.Errorf("content is required")
	}
	if TemplateByID(req.TemplateType) == nil {
		return nil, ErrTemplateNotFound
	}

	validation, _ := s.gateway.ValidateDocument(ctx, req.Content, req.TemplateType)

	now := time.Now().UTC()
	doc := &ClinicalDocument{
		ID:           newDocumentID(),
		TemplateType: req.TemplateType,
		PatientCode:  req.PatientID,
		Content:      req.Content,
		Status:       StatusDraft,
		Validation:   validation,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.docs.Save(ctx, doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func newDocumentID() string {
	raw := strings.ReplaceAll(uuid.NewString(), "-", "")
	return "DOC" + strings.ToUpper(raw[:6])
}

func (s *Service) Get(ctx context.Context, id string) (*ClinicalDocument, error) {
	return s.docs.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, patientCode string) ([]*ClinicalDocument, error) {
	return s.docs.List(ctx, patientCode)
}

// UpdateDocument replaces content and re-runs validation. Finalizing a
// document is a status change through the same call.
func (s *Service) UpdateDocument(ctx context.Context, id string, req UpdateRequest) (*ClinicalDocument, error) {
	doc, err := s.docs.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Content != "" {
		doc.Content = req.Content
		validation, _ := s.gateway.ValidateDocument(ctx, doc.Content, doc.TemplateType)
		doc.Validation = validation
	}
	if req.Status != "" {
		if req.Status != StatusDraft && req.Status != StatusFinal {
			return nil, fmt.Errorf("invalid status %q", req.Status)
		}
		doc.Status = req.Status
	}
	doc.UpdatedAt = time.Now().UTC()

	if err := s.docs.Update(ctx, doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// Validate reviews ad-hoc content without storing anything.
func (s *Service) Validate(ctx context.Context, req ValidateRequest) (ai.DocumentValidation, error) {
	if req.Content == "" {
		return ai.DocumentValidation{}, fmt.Errorf("content is required")
	}
	validation, _ := s.gateway.ValidateDocument(ctx, req.Content, req.TemplateType)
	return validation, nil
}
