package store

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"consentd/internal/ledger"
)

func newRecord(email string, createdAt time.Time) *ledger.ConsentRecord {
	record := &ledger.ConsentRecord{
		ID:        uuid.New(),
		CreatedAt: createdAt,
		Purposes:  ledger.Purposes{Newsletter: true},
		Text:      ledger.TextSnapshot{ID: 1, Version: "v1.0", Hash: "abc"},
		Granted:   true,
	}
	if email != "" {
		record.SubjectEmail = &email
	}
	return record
}

func TestMemoryListNewestFirst(t *testing.T) {
	ctx := context.Background()
	s := NewMemory()
	base := time.Date(2026, 1, 2, 12, 0, 0, 0, time.UTC)

	older := newRecord("", base)
	newer := newRecord("", base.Add(time.Hour))
	require.NoError(t, s.Save(ctx, older))
	require.NoError(t, s.Save(ctx, newer))

	records, err := s.List(ctx, "")
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, newer.ID, records[0].ID)
	assert.Equal(t, older.ID, records[1].ID)
}

func TestMemoryListEmailFilterExcludesAnonymous(t *testing.T) {
	ctx := context.Background()
	s := NewMemory()
	now := time.Now().UTC()

	matching := newRecord("a@example.com", now)
	require.NoError(t, s.Save(ctx, matching))
	require.NoError(t, s.Save(ctx, newRecord("b@example.com", now)))
	require.NoError(t, s.Save(ctx, newRecord("", now)))

	records, err := s.List(ctx, "a@example.com")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, matching.ID, records[0].ID)
}

func TestMemoryRevokeGuard(t *testing.T) {
	ctx := context.Background()
	s := NewMemory()

	record := newRecord("", time.Now().UTC())
	require.NoError(t, s.Save(ctx, record))

	first := time.Now().UTC()
	applied, err := s.Revoke(ctx, record.ID, first, "erster Widerruf")
	require.NoError(t, err)
	assert.True(t, applied)

	applied, err = s.Revoke(ctx, record.ID, first.Add(time.Minute), "zweiter Widerruf")
	require.NoError(t, err)
	assert.False(t, applied)

	records, err := s.List(ctx, "")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, first, *records[0].RevokedAt)
	assert.Equal(t, "erster Widerruf", *records[0].RevocationNote)
	assert.False(t, records[0].Granted)
}

func TestMemoryRevokeUnknownID(t *testing.T) {
	ctx := context.Background()
	s := NewMemory()

	applied, err := s.Revoke(ctx, uuid.New(), time.Now().UTC(), "note")
	require.NoError(t, err)
	assert.False(t, applied)
}
