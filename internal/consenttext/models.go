package consenttext

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// DefaultLanguage is the language the collection form is served in. The
// operator form accepts other languages, but the subject-facing flow reads
// this literal; kept as-is pending product clarification.
const DefaultLanguage = "de"

// ConsentText is one immutable version of the legal disclosure a subject is
// shown before deciding. Rows are never updated or deleted; "latest" is
// derived from CreatedAt per language.
type ConsentText struct {
	ID       int64
	Version  string
	Language string
	Title    string
	Body     string

	// BodyHash is the SHA-256 digest of Body's exact UTF-8 bytes at creation
	// time. It is never recomputed; consent records copy it as their
	// non-repudiation anchor.
	BodyHash  string
	CreatedAt time.Time
}

// HashBody computes the hex-encoded SHA-256 digest of the body's exact bytes.
func HashBody(body string) string {
	sum := sha256.Sum256([]byte(body))
	return hex.EncodeToString(sum[:])
}

// HashPreview returns the first n hex characters of a digest for display.
func HashPreview(hash string, n int) string {
	if len(hash) <= n {
		return hash
	}
	return hash[:n]
}
