package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"consentd/internal/ledger"
)

// Memory is an in-memory Store used by unit tests and local development.
type Memory struct {
	mu      sync.RWMutex
	records []ledger.ConsentRecord
}

func NewMemory() *Memory {
	return &Memory{}
}

func (s *Memory) Save(_ context.Context, record *ledger.ConsentRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, *record)
	return nil
}

func (s *Memory) List(_ context.Context, emailFilter string) ([]*ledger.ConsentRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var records []*ledger.ConsentRecord
	for i := range s.records {
		r := s.records[i]
		if emailFilter != "" {
			if r.SubjectEmail == nil || *r.SubjectEmail != emailFilter {
				continue
			}
		}
		records = append(records, &r)
	}
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].CreatedAt.After(records[j].CreatedAt)
	})
	return records, nil
}

func (s *Memory) Revoke(_ context.Context, id uuid.UUID, revokedAt time.Time, note string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.records {
		r := &s.records[i]
		if r.ID != id || r.RevokedAt != nil {
			continue
		}
		r.Granted = false
		r.RevokedAt = &revokedAt
		r.RevocationNote = &note
		return true, nil
	}
	return false, nil
}
