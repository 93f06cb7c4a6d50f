package store

import (
	"context"
	"sort"
	"sync"

	"consentd/internal/consenttext"
	"consentd/pkg/platform/sentinel"
)

// Memory is an in-memory Store used by unit tests and local development.
type Memory struct {
	mu     sync.RWMutex
	nextID int64
	texts  []consenttext.ConsentText
}

func NewMemory() *Memory {
	return &Memory{nextID: 1}
}

func (s *Memory) Create(_ context.Context, text *consenttext.ConsentText) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	text.ID = s.nextID
	s.nextID++
	s.texts = append(s.texts, *text)
	return nil
}

// Latest picks the row with the maximum CreatedAt for the language, not the
// most recently inserted one.
func (s *Memory) Latest(_ context.Context, language string) (*consenttext.ConsentText, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var latest *consenttext.ConsentText
	for i := range s.texts {
		t := &s.texts[i]
		if t.Language != language {
			continue
		}
		if latest == nil || t.CreatedAt.After(latest.CreatedAt) {
			latest = t
		}
	}
	if latest == nil {
		return nil, sentinel.ErrNotFound
	}
	copied := *latest
	return &copied, nil
}

func (s *Memory) ListAll(_ context.Context) ([]*consenttext.ConsentText, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	texts := make([]*consenttext.ConsentText, 0, len(s.texts))
	for i := range s.texts {
		copied := s.texts[i]
		texts = append(texts, &copied)
	}
	sort.SliceStable(texts, func(i, j int) bool {
		return texts[i].CreatedAt.After(texts[j].CreatedAt)
	})
	return texts, nil
}
