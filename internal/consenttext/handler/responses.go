package handler

import (
	"time"

	"consentd/internal/consenttext"
)

const hashPreviewLen = 12

type textResponse struct {
	ID          int64     `json:"id"`
	Version     string    `json:"version"`
	Language    string    `json:"language"`
	Title       string    `json:"title"`
	Body        string    `json:"body"`
	BodyHash    string    `json:"body_hash"`
	HashPreview string    `json:"hash_preview"`
	CreatedAt   time.Time `json:"created_at"`
}

type listTextsResponse struct {
	Texts []textResponse `json:"texts"`
}

func toTextResponse(text *consenttext.ConsentText) textResponse {
	return textResponse{
		ID:          text.ID,
		Version:     text.Version,
		Language:    text.Language,
		Title:       text.Title,
		Body:        text.Body,
		BodyHash:    text.BodyHash,
		HashPreview: consenttext.HashPreview(text.BodyHash, hashPreviewLen),
		CreatedAt:   text.CreatedAt,
	}
}
