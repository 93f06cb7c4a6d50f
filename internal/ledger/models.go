package ledger

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Purpose keys the collection form writes. The set is fixed here but stored
// data may carry additional keys; see Purposes.Extra.
const (
	PurposeNewsletter      = "newsletter"
	PurposeProduktinfos    = "produktinfos"
	PurposeFeedbackKontakt = "feedback_kontakt"
	PurposeDatenanalyse    = "datenanalyse_aggregiert"
)

// DefaultRevocationNote is recorded when a revocation arrives without a reason.
const DefaultRevocationNote = "Widerruf durch Betroffene*n via UI"

// Purposes holds one opt-in decision per processing purpose. The four known
// purposes are typed fields; Extra round-trips stored keys this build does
// not know about so older records survive schema drift untouched.
type Purposes struct {
	Newsletter             bool
	Produktinfos           bool
	FeedbackKontakt        bool
	DatenanalyseAggregiert bool
	Extra                  map[string]bool
}

func (p Purposes) MarshalJSON() ([]byte, error) {
	m := map[string]bool{
		PurposeNewsletter:      p.Newsletter,
		PurposeProduktinfos:    p.Produktinfos,
		PurposeFeedbackKontakt: p.FeedbackKontakt,
		PurposeDatenanalyse:    p.DatenanalyseAggregiert,
	}
	for key, value := range p.Extra {
		if _, known := m[key]; !known {
			m[key] = value
		}
	}
	return json.Marshal(m)
}

func (p *Purposes) UnmarshalJSON(data []byte) error {
	var m map[string]bool
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}
	*p = Purposes{
		Newsletter:             m[PurposeNewsletter],
		Produktinfos:           m[PurposeProduktinfos],
		FeedbackKontakt:        m[PurposeFeedbackKontakt],
		DatenanalyseAggregiert: m[PurposeDatenanalyse],
	}
	for key, value := range m {
		switch key {
		case PurposeNewsletter, PurposeProduktinfos, PurposeFeedbackKontakt, PurposeDatenanalyse:
			continue
		}
		if p.Extra == nil {
			p.Extra = make(map[string]bool)
		}
		p.Extra[key] = value
	}
	return nil
}

// Any reports whether at least one purpose is opted in.
func (p Purposes) Any() bool {
	if p.Newsletter || p.Produktinfos || p.FeedbackKontakt || p.DatenanalyseAggregiert {
		return true
	}
	for _, value := range p.Extra {
		if value {
			return true
		}
	}
	return false
}

// TextSnapshot freezes which consent text a subject was shown at grant time.
// The version and hash are denormalized copies for audit durability; they
// must never drift from what was true when the consent was saved.
type TextSnapshot struct {
	ID      int64
	Version string
	Hash    string
}

// ConsentRecord is one subject's decision, immutably bound to one consent
// text snapshot. Records are never deleted; revocation is a one-way state
// transition from ACTIVE to REVOKED.
type ConsentRecord struct {
	ID        uuid.UUID
	CreatedAt time.Time

	// Subject identification is optional; consent may be anonymous.
	SubjectEmail *string
	SubjectName  *string

	Purposes Purposes
	Text     TextSnapshot

	Granted bool

	// RevokedAt is set exactly once and never cleared.
	RevokedAt      *time.Time
	RevocationNote *string
}

// Active reports whether the consent is currently in effect.
func (r ConsentRecord) Active() bool {
	return r.Granted && r.RevokedAt == nil
}
