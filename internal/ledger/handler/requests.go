package handler

import "consentd/internal/ledger"

// saveConsentRequest carries a grant decision from the collection form. The
// text snapshot is what the subject was actually shown, captured at display
// time; the ledger freezes it without re-fetching.
type saveConsentRequest struct {
	SubjectEmail string              `json:"subject_email"`
	SubjectName  string              `json:"subject_name"`
	Purposes     ledger.Purposes     `json:"purposes"`
	Text         textSnapshotPayload `json:"text"`
}

type textSnapshotPayload struct {
	ID      int64  `json:"id"`
	Version string `json:"version"`
	Hash    string `json:"hash"`
}

type revokeConsentRequest struct {
	Note string `json:"note"`
}
