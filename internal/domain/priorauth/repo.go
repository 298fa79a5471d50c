package priorauth

import "context"

type Repository interface {
	Create(ctx context.Context, pa *PriorAuthorization) error
	GetByAuthNumber(ctx context.Context, authNumber string) (*PriorAuthorization, error)
	Update(ctx context.Context, pa *PriorAuthorization) error
	List(ctx context.Context, limit, offset int) ([]*PriorAuthorization, int, error)
	ListRecent(ctx context.Context, limit int) ([]*PriorAuthorization, error)
	CountByStatus(ctx context.Context) (map[string]int, error)
	CountPendingOlderThan(ctx context.Context, days int) (int, error)
}
