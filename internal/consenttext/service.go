package consenttext

import (
	"context"
	"errors"
	"time"

	"consentd/internal/platform/metrics"
	dErrors "consentd/pkg/domain-errors"
	"consentd/pkg/platform/sentinel"
)

// Store persists consent text versions.
type Store interface {
	Create(ctx context.Context, text *ConsentText) error
	Latest(ctx context.Context, language string) (*ConsentText, error)
	ListAll(ctx context.Context) ([]*ConsentText, error)
}

// TxRunner provides a transactional boundary for store mutations.
type TxRunner interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Service versions the legal consent text and anchors each version with a
// content hash. It keeps orchestration out of handlers and domain logic thin.
type Service struct {
	store   Store
	tx      TxRunner
	metrics *metrics.Metrics
}

func NewService(store Store, tx TxRunner, m *metrics.Metrics) *Service {
	return &Service{store: store, tx: tx, metrics: m}
}

// Create inserts a new text version with a server-assigned UTC timestamp and
// the SHA-256 hash of the body. Duplicate version labels are permitted; every
// call produces a distinct permanent row.
func (s *Service) Create(ctx context.Context, version, language, title, body string) (*ConsentText, error) {
	text := &ConsentText{
		Version:   version,
		Language:  language,
		Title:     title,
		Body:      body,
		BodyHash:  HashBody(body),
		CreatedAt: time.Now().UTC(),
	}

	err := s.runInTx(ctx, func(ctx context.Context) error {
		return s.store.Create(ctx, text)
	})
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "failed to store consent text")
	}

	s.metrics.IncTextsCreated()
	return text, nil
}

// Latest returns the text with the maximum CreatedAt for the given language.
// An empty language falls back to DefaultLanguage. "No text configured yet"
// is an expected steady state reported as CodeNotFound.
func (s *Service) Latest(ctx context.Context, language string) (*ConsentText, error) {
	if language == "" {
		language = DefaultLanguage
	}

	text, err := s.store.Latest(ctx, language)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "no consent text configured for language "+language)
		}
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "failed to load latest consent text")
	}
	return text, nil
}

// ListAll returns the full version history, newest first, for audit display.
func (s *Service) ListAll(ctx context.Context) ([]*ConsentText, error) {
	texts, err := s.store.ListAll(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "failed to list consent texts")
	}
	return texts, nil
}

func (s *Service) runInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if s.tx == nil {
		return fn(ctx)
	}
	return s.tx.RunInTx(ctx, fn)
}
