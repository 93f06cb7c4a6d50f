package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"consentd/internal/consenttext"
	"consentd/pkg/platform/sentinel"
)

func newText(version, language string, createdAt time.Time) *consenttext.ConsentText {
	return &consenttext.ConsentText{
		Version:   version,
		Language:  language,
		Title:     "Einwilligung",
		Body:      "body " + version,
		BodyHash:  consenttext.HashBody("body " + version),
		CreatedAt: createdAt,
	}
}

func TestMemoryLatestPicksMaxCreatedAt(t *testing.T) {
	ctx := context.Background()
	s := NewMemory()
	base := time.Date(2026, 1, 2, 12, 0, 0, 0, time.UTC)

	require.NoError(t, s.Create(ctx, newText("v1.0", "de", base)))
	require.NoError(t, s.Create(ctx, newText("v2.0", "de", base.Add(time.Hour))))

	// An older-timestamped row inserted after a newer one must not win:
	// latest is max(created_at), not most-recent-insert.
	require.NoError(t, s.Create(ctx, newText("v0.9", "de", base.Add(-time.Hour))))

	latest, err := s.Latest(ctx, "de")
	require.NoError(t, err)
	assert.Equal(t, "v2.0", latest.Version)
}

func TestMemoryLatestIsPerLanguage(t *testing.T) {
	ctx := context.Background()
	s := NewMemory()
	base := time.Date(2026, 1, 2, 12, 0, 0, 0, time.UTC)

	require.NoError(t, s.Create(ctx, newText("v1.0", "de", base)))
	require.NoError(t, s.Create(ctx, newText("v9.0", "en", base.Add(time.Hour))))

	latest, err := s.Latest(ctx, "de")
	require.NoError(t, err)
	assert.Equal(t, "v1.0", latest.Version)

	_, err = s.Latest(ctx, "fr")
	assert.ErrorIs(t, err, sentinel.ErrNotFound)
}

func TestMemoryCreateAssignsSequentialIDs(t *testing.T) {
	ctx := context.Background()
	s := NewMemory()
	base := time.Now().UTC()

	first := newText("v1.0", "de", base)
	second := newText("v1.1", "de", base.Add(time.Minute))
	require.NoError(t, s.Create(ctx, first))
	require.NoError(t, s.Create(ctx, second))

	assert.Equal(t, int64(1), first.ID)
	assert.Equal(t, int64(2), second.ID)
}

func TestMemoryListAllNewestFirst(t *testing.T) {
	ctx := context.Background()
	s := NewMemory()
	base := time.Date(2026, 1, 2, 12, 0, 0, 0, time.UTC)

	require.NoError(t, s.Create(ctx, newText("v1.0", "de", base)))
	require.NoError(t, s.Create(ctx, newText("v2.0", "de", base.Add(time.Hour))))
	require.NoError(t, s.Create(ctx, newText("v1.5", "en", base.Add(30*time.Minute))))

	texts, err := s.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, texts, 3)
	assert.Equal(t, "v2.0", texts[0].Version)
	assert.Equal(t, "v1.5", texts[1].Version)
	assert.Equal(t, "v1.0", texts[2].Version)
}

func TestMemoryReturnsCopies(t *testing.T) {
	ctx := context.Background()
	s := NewMemory()

	require.NoError(t, s.Create(ctx, newText("v1.0", "de", time.Now().UTC())))

	latest, err := s.Latest(ctx, "de")
	require.NoError(t, err)
	latest.Body = "mutated"

	again, err := s.Latest(ctx, "de")
	require.NoError(t, err)
	assert.Equal(t, "body v1.0", again.Body)
}
