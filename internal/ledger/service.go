package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"

	"consentd/internal/platform/metrics"
	dErrors "consentd/pkg/domain-errors"
)

// Store persists consent records.
type Store interface {
	Save(ctx context.Context, record *ConsentRecord) error
	List(ctx context.Context, emailFilter string) ([]*ConsentRecord, error)

	// Revoke applies the guarded one-way transition and reports whether a row
	// actually changed. Implementations must make the revoked_at IS NULL
	// guard atomic with the update.
	Revoke(ctx context.Context, id uuid.UUID, revokedAt time.Time, note string) (bool, error)
}

// TxRunner provides a transactional boundary for store mutations.
type TxRunner interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// SaveRequest carries a grant decision into the ledger. Text is the snapshot
// of the consent text the subject was actually shown; the ledger never
// re-fetches it, so a text updated mid-session cannot change what was agreed
// to.
type SaveRequest struct {
	SubjectEmail string
	SubjectName  string
	Purposes     Purposes
	Text         TextSnapshot
}

// Service is the append-mostly consent ledger. It trusts its caller: gating
// rules such as "at least one purpose selected" or acknowledgement checkboxes
// belong to the presentation layer, not here.
type Service struct {
	store   Store
	tx      TxRunner
	metrics *metrics.Metrics
}

func NewService(store Store, tx TxRunner, m *metrics.Metrics) *Service {
	return &Service{store: store, tx: tx, metrics: m}
}

// Save appends a new granted consent and returns its id, the subject's
// revocation handle.
func (s *Service) Save(ctx context.Context, req SaveRequest) (uuid.UUID, error) {
	record := &ConsentRecord{
		ID:        uuid.New(),
		CreatedAt: time.Now().UTC(),
		Purposes:  req.Purposes,
		Text:      req.Text,
		Granted:   true,
	}
	if req.SubjectEmail != "" {
		email := req.SubjectEmail
		record.SubjectEmail = &email
	}
	if req.SubjectName != "" {
		name := req.SubjectName
		record.SubjectName = &name
	}

	err := s.runInTx(ctx, func(ctx context.Context) error {
		return s.store.Save(ctx, record)
	})
	if err != nil {
		return uuid.Nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "failed to save consent")
	}

	s.metrics.IncConsentsSaved()
	return record.ID, nil
}

// List returns consent records newest first. A non-empty emailFilter keeps
// only records whose subject email exactly equals it, case-sensitive and
// unnormalized; records without an email are excluded.
func (s *Service) List(ctx context.Context, emailFilter string) ([]*ConsentRecord, error) {
	records, err := s.store.List(ctx, emailFilter)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "failed to list consents")
	}
	return records, nil
}

// Revoke marks a consent record revoked. Revoking an already-revoked or
// nonexistent record is a silent no-op; a malformed id cannot match any
// record and is treated the same way.
func (s *Service) Revoke(ctx context.Context, id string, note string) error {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil
	}
	if note == "" {
		note = DefaultRevocationNote
	}

	var applied bool
	err = s.runInTx(ctx, func(ctx context.Context) error {
		var revokeErr error
		applied, revokeErr = s.store.Revoke(ctx, parsed, time.Now().UTC(), note)
		return revokeErr
	})
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeUnavailable, "failed to revoke consent")
	}

	if applied {
		s.metrics.IncConsentsRevoked()
	}
	return nil
}

func (s *Service) runInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if s.tx == nil {
		return fn(ctx)
	}
	return s.tx.RunInTx(ctx, fn)
}
