package coding

import (
	"context"
	"sort"
	"sync"
)

type memSessionRepo struct {
	mu       sync.RWMutex
	sessions map[string]*CodingSession
}

func NewSessionRepo() SessionRepository {
	return &memSessionRepo{sessions: map[string]*CodingSession{}}
}

func (m *memSessionRepo) Save(ctx context.Context, s *CodingSession) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *s
	m.sessions[s.ID] = &cp
	return nil
}

func (m *memSessionRepo) GetByID(ctx context.Context, id string) (*CodingSession, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	cp := *s
	return &cp, nil
}

func (m *memSessionRepo) List(ctx context.Context, patientCode string) ([]*CodingSession, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := []*CodingSession{}
	for _, s := range m.sessions {
		if patientCode != "" && s.PatientCode != patientCode {
			continue
		}
		cp := *s
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}
