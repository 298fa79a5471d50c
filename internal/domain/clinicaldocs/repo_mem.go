package clinicaldocs

import (
	"context"
	"sort"
	"sync"
)

// memDocumentRepo keeps documents in memory. Clinical notes are demo
// data in this deployment and do not survive a restart.
type memDocumentRepo struct {
	mu   sync.RWMutex
	docs map[string]*ClinicalDocument
}

func NewDocumentRepo() DocumentRepository {
	return &memDocumentRepo{docs: map[string]*ClinicalDocument{}}
}

func (m *memDocumentRepo) Save(ctx context.Context, doc *ClinicalDocument) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *doc
	m.docs[doc.ID] = &cp
	return nil
}

func (m *memDocumentRepo) GetByID(ctx context.Context, id string) (*ClinicalDocument, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	doc, ok := m.docs[id]
	if !ok {
		return nil, ErrDocumentNotFound
	}
	cp := *doc
	return &cp, nil
}

func (m *memDocumentRepo) Update(ctx context.Context, doc *ClinicalDocument) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.docs[doc.ID]; !ok {
		return ErrDocumentNotFound
	}
	cp := *doc
	m.docs[doc.ID] = &cp
	return nil
}

func (m *memDocumentRepo) List(ctx context.Context, patientCode string) ([]*ClinicalDocument, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := []*ClinicalDocument{}
	for _, doc := range m.docs {
		if patientCode != "" && doc.PatientCode != patientCode {
			continue
		}
		cp := *doc
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}
