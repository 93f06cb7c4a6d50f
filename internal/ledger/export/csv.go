// Package export renders consent records as a tabular CSV dump with
// human-readable column labels. This is a collaborator-owned surface, not
// part of the ledger contract.
package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	"consentd/internal/ledger"
)

// Filename is the suggested download name for the export.
const Filename = "consents_export.csv"

var header = []string{
	"Vorgangs-ID",
	"Erstellt (UTC)",
	"E-Mail",
	"Name",
	"Version",
	"Newsletter",
	"Produktinfos",
	"Feedback-Kontakt",
	"Anonymisierte Analyse",
	"Aktiv",
	"Widerrufen am (UTC)",
}

// CSV renders the records in list order with the original export's column
// labels. Optional fields render as empty cells.
func CSV(records []*ledger.ConsentRecord) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(header); err != nil {
		return nil, fmt.Errorf("write csv header: %w", err)
	}

	for _, record := range records {
		row := []string{
			record.ID.String(),
			record.CreatedAt.UTC().Format(time.RFC3339),
			stringOrEmpty(record.SubjectEmail),
			stringOrEmpty(record.SubjectName),
			record.Text.Version,
			strconv.FormatBool(record.Purposes.Newsletter),
			strconv.FormatBool(record.Purposes.Produktinfos),
			strconv.FormatBool(record.Purposes.FeedbackKontakt),
			strconv.FormatBool(record.Purposes.DatenanalyseAggregiert),
			strconv.FormatBool(record.Active()),
			timeOrEmpty(record.RevokedAt),
		}
		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("write csv row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}

func stringOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func timeOrEmpty(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
