package coding

import "context"

type SessionRepository interface {
	Save(ctx context.Context, s *CodingSession) error
	GetByID(ctx context.Context, id string) (*CodingSession, error)
	List(ctx context.Context, patientCode string) ([]*CodingSession, error)
}
