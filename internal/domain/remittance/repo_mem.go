package remittance

import (
	"context"
	"sort"
	"sync"
	"time"
)

type memPaymentRepo struct {
	mu       sync.RWMutex
	payments map[string]*Payment
}

// NewPaymentRepo returns an in-memory payment store preloaded with the
// demo remittance batch. There is no live ERA feed in this deployment.
func NewPaymentRepo() PaymentRepository {
	repo := &memPaymentRepo{payments: map[string]*Payment{}}
	now := time.Now().UTC()
	posted := now.Add(-24 * time.Hour)
	seed := []*Payment{
		{ID: "PAY001", ClaimNumber: "CLM001", Payer: "daman", Amount: 450, Status: StatusPosted, ReceivedAt: now.Add(-72 * time.Hour), PostedAt: &posted},
		{ID: "PAY002", ClaimNumber: "CLM002", Payer: "tawuniya", Amount: 1200, Status: StatusDenied, DenialCode: "CO-50", ReceivedAt: now.Add(-48 * time.Hour)},
		{ID: "PAY003", ClaimNumber: "CLM003", Payer: "bupa", Amount: 320, Status: StatusReceived, ReceivedAt: now.Add(-2 * time.Hour)},
	}
	for _, p := range seed {
		repo.payments[p.ID] = p
	}
	return repo
}

func (m *memPaymentRepo) Save(ctx context.Context, p *Payment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *p
	m.payments[p.ID] = &cp
	return nil
}

func (m *memPaymentRepo) GetByID(ctx context.Context, id string) (*Payment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.payments[id]
	if !ok {
		return nil, ErrPaymentNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *memPaymentRepo) Update(ctx context.Context, p *Payment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.payments[p.ID]; !ok {
		return ErrPaymentNotFound
	}
	cp := *p
	m.payments[p.ID] = &cp
	return nil
}

func (m *memPaymentRepo) List(ctx context.Context) ([]*Payment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*Payment, 0, len(m.payments))
	for _, p := range m.payments {
		cp := *p
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type memSessionRepo struct {
	mu       sync.RWMutex
	sessions []*ReconciliationSession
}

func NewSessionRepo() SessionRepository {
	return &memSessionRepo{}
}

func (m *memSessionRepo) Save(ctx context.Context, s *ReconciliationSession) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *s
	m.sessions = append(m.sessions, &cp)
	return nil
}

func (m *memSessionRepo) List(ctx context.Context) ([]*ReconciliationSession, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*ReconciliationSession, 0, len(m.sessions))
	for i := len(m.sessions) - 1; i >= 0; i-- {
		cp := *m.sessions[i]
		out = append(out, &cp)
	}
	return out, nil
}
