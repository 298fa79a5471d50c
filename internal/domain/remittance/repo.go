package remittance

import "context"

type PaymentRepository interface {
	Save(ctx context.Context, p *Payment) error
	GetByID(ctx context.Context, id string) (*Payment, error)
	Update(ctx context.Context, p *Payment) error
	List(ctx context.Context) ([]*Payment, error)
}

type SessionRepository interface {
	Save(ctx context.Context, s *ReconciliationSession) error
	List(ctx context.Context) ([]*ReconciliationSession, error)
}
