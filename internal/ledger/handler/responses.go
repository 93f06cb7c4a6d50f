package handler

import (
	"time"

	"consentd/internal/ledger"
)

type saveConsentResponse struct {
	// ID is the subject's revocation handle.
	ID string `json:"id"`
}

type consentResponse struct {
	ID             string          `json:"id"`
	CreatedAt      time.Time       `json:"created_at"`
	SubjectEmail   *string         `json:"subject_email,omitempty"`
	SubjectName    *string         `json:"subject_name,omitempty"`
	Purposes       ledger.Purposes `json:"purposes"`
	TextID         int64           `json:"consent_text_id"`
	TextVersion    string          `json:"consent_text_version"`
	TextHash       string          `json:"consent_text_hash"`
	IsGranted      bool            `json:"is_granted"`
	Active         bool            `json:"active"`
	RevokedAt      *time.Time      `json:"revoked_at,omitempty"`
	RevocationNote *string         `json:"revocation_note,omitempty"`
}

type listConsentsResponse struct {
	Consents []consentResponse `json:"consents"`
}

func toConsentResponse(record *ledger.ConsentRecord) consentResponse {
	return consentResponse{
		ID:             record.ID.String(),
		CreatedAt:      record.CreatedAt,
		SubjectEmail:   record.SubjectEmail,
		SubjectName:    record.SubjectName,
		Purposes:       record.Purposes,
		TextID:         record.Text.ID,
		TextVersion:    record.Text.Version,
		TextHash:       record.Text.Hash,
		IsGranted:      record.Granted,
		Active:         record.Active(),
		RevokedAt:      record.RevokedAt,
		RevocationNote: record.RevocationNote,
	}
}
