package claims

import (
	"context"
	"time"
)

type Repository interface {
	Create(ctx context.Context, cl *Claim) error
	GetByClaimNumber(ctx context.Context, claimNumber string) (*Claim, error)
	Update(ctx context.Context, cl *Claim) error
	List(ctx context.Context, f ListFilters, limit, offset int) ([]*Claim, int, error)
	ListRecent(ctx context.Context, limit int) ([]*Claim, error)
	CountByStatus(ctx context.Context) (map[string]int, error)
	Totals(ctx context.Context) (totalAmount, totalAllowed, totalPaid float64, err error)
	CountSubmittedSince(ctx context.Context, since time.Time) (int, error)
}
