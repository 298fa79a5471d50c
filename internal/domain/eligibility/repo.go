package eligibility

import (
	"context"

	"github.com/google/uuid"
)

type PatientRepository interface {
	Create(ctx context.Context, p *Patient) error
	GetByID(ctx context.Context, id uuid.UUID) (*Patient, error)
	GetByCode(ctx context.Context, code string) (*Patient, error)
	Update(ctx context.Context, p *Patient) error
	List(ctx context.Context, limit, offset int) ([]*Patient, int, error)
	Count(ctx context.Context) (int, error)
}

type ProviderRepository interface {
	Create(ctx context.Context, p *InsuranceProvider) error
	GetByCode(ctx context.Context, code string) (*InsuranceProvider, error)
	ListActive(ctx context.Context) ([]*InsuranceProvider, error)
}

type CheckRepository interface {
	Create(ctx context.Context, chk *EligibilityCheck) error
	ListByPatient(ctx context.Context, patientCode string, limit int) ([]*EligibilityCheck, error)
	ListRecent(ctx context.Context, limit int) ([]*EligibilityCheck, error)
	CountByEligible(ctx context.Context) (eligible int, total int, err error)
}
