package consenttext_test

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"consentd/internal/consenttext"
	"consentd/internal/consenttext/store"
	dErrors "consentd/pkg/domain-errors"
)

func newTestService() *consenttext.Service {
	return consenttext.NewService(store.NewMemory(), nil, nil)
}

func TestCreateHashesExactBodyBytes(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()

	body := "Hello"
	text, err := svc.Create(ctx, "v1.0", "de", "Einwilligung", body)
	require.NoError(t, err)

	sum := sha256.Sum256([]byte(body))
	assert.Equal(t, hex.EncodeToString(sum[:]), text.BodyHash)
	assert.NotZero(t, text.ID)
	assert.False(t, text.CreatedAt.IsZero())
}

func TestCreateSameBodySameHashDistinctRows(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()

	first, err := svc.Create(ctx, "v1.0", "de", "Einwilligung", "identical body")
	require.NoError(t, err)
	second, err := svc.Create(ctx, "v1.1", "de", "Einwilligung", "identical body")
	require.NoError(t, err)

	assert.Equal(t, first.BodyHash, second.BodyHash)
	assert.NotEqual(t, first.ID, second.ID)

	texts, err := svc.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, texts, 2)
}

func TestCreateAllowsDuplicateVersionLabels(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()

	_, err := svc.Create(ctx, "v1.0", "de", "Einwilligung", "first body")
	require.NoError(t, err)
	_, err = svc.Create(ctx, "v1.0", "de", "Einwilligung", "second body")
	require.NoError(t, err)

	texts, err := svc.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, texts, 2)
}

func TestLatestDefaultsToGerman(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()

	_, err := svc.Create(ctx, "v1.0", "en", "Consent", "english body")
	require.NoError(t, err)
	_, err = svc.Create(ctx, "v1.0", "de", "Einwilligung", "deutscher Text")
	require.NoError(t, err)

	latest, err := svc.Latest(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, "de", latest.Language)
	assert.Equal(t, "deutscher Text", latest.Body)
}

func TestLatestReturnsNotFoundWhenNoTextConfigured(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()

	_, err := svc.Latest(ctx, "de")
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))
}

func TestLatestIgnoresOtherLanguages(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()

	_, err := svc.Create(ctx, "v2.0", "en", "Consent", "english body")
	require.NoError(t, err)

	_, err = svc.Latest(ctx, "de")
	assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))
}

func TestHashPreview(t *testing.T) {
	hash := consenttext.HashBody("Hello")
	assert.Equal(t, hash[:12], consenttext.HashPreview(hash, 12))
	assert.Equal(t, "short", consenttext.HashPreview("short", 12))
}
