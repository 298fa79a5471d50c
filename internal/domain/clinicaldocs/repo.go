package clinicaldocs

import "context"

type DocumentRepository interface {
	Save(ctx context.Context, doc *ClinicalDocument) error
	GetByID(ctx context.Context, id string) (*ClinicalDocument, error)
	Update(ctx context.Context, doc *ClinicalDocument) error
	List(ctx context.Context, patientCode string) ([]*ClinicalDocument, error)
}
