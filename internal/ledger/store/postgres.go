package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"consentd/internal/ledger"
	txcontext "consentd/pkg/platform/tx"
)

// Postgres persists consent records in PostgreSQL.
type Postgres struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

type dbExecutor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

func (s *Postgres) execer(ctx context.Context) dbExecutor {
	if tx, ok := txcontext.From(ctx); ok {
		return tx
	}
	return s.db
}

// Save appends a consent record. The snapshot columns are written from the
// record as-is; there is no read back to consent_texts.
func (s *Postgres) Save(ctx context.Context, record *ledger.ConsentRecord) error {
	purposes, err := json.Marshal(record.Purposes)
	if err != nil {
		return fmt.Errorf("marshal purposes: %w", err)
	}

	query := `
		INSERT INTO consents (
			id, created_at, subject_email, subject_name, purposes_json,
			consent_text_id, consent_text_version, consent_text_hash,
			is_granted, revoked_at, revocation_note
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err = s.execer(ctx).ExecContext(ctx, query,
		record.ID,
		record.CreatedAt,
		record.SubjectEmail,
		record.SubjectName,
		purposes,
		record.Text.ID,
		record.Text.Version,
		record.Text.Hash,
		record.Granted,
		record.RevokedAt,
		record.RevocationNote,
	)
	if err != nil {
		return fmt.Errorf("insert consent: %w", err)
	}
	return nil
}

// List returns records newest first, optionally filtered by exact subject
// email equality.
func (s *Postgres) List(ctx context.Context, emailFilter string) ([]*ledger.ConsentRecord, error) {
	query := `
		SELECT id, created_at, subject_email, subject_name, purposes_json,
		       consent_text_id, consent_text_version, consent_text_hash,
		       is_granted, revoked_at, revocation_note
		FROM consents
	`
	var args []any
	if emailFilter != "" {
		query += ` WHERE subject_email = $1`
		args = append(args, emailFilter)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := s.execer(ctx).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query consents: %w", err)
	}
	defer rows.Close()

	return scanRecords(rows)
}

// Revoke executes the guarded one-way transition as a single conditional
// UPDATE so the revoked_at IS NULL check is atomic with the write. A second
// revoke, or a revoke of an unknown id, matches no row and changes nothing.
func (s *Postgres) Revoke(ctx context.Context, id uuid.UUID, revokedAt time.Time, note string) (bool, error) {
	query := `
		UPDATE consents
		SET is_granted = FALSE,
		    revoked_at = $2,
		    revocation_note = $3
		WHERE id = $1 AND revoked_at IS NULL
	`
	result, err := s.execer(ctx).ExecContext(ctx, query, id, revokedAt, note)
	if err != nil {
		return false, fmt.Errorf("revoke consent: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("revoke consent rows affected: %w", err)
	}
	return affected > 0, nil
}

func scanRecords(rows *sql.Rows) ([]*ledger.ConsentRecord, error) {
	var records []*ledger.ConsentRecord

	for rows.Next() {
		var (
			record   ledger.ConsentRecord
			purposes []byte
		)
		err := rows.Scan(
			&record.ID,
			&record.CreatedAt,
			&record.SubjectEmail,
			&record.SubjectName,
			&purposes,
			&record.Text.ID,
			&record.Text.Version,
			&record.Text.Hash,
			&record.Granted,
			&record.RevokedAt,
			&record.RevocationNote,
		)
		if err != nil {
			return nil, fmt.Errorf("scan consent: %w", err)
		}
		if err := json.Unmarshal(purposes, &record.Purposes); err != nil {
			return nil, fmt.Errorf("unmarshal purposes: %w", err)
		}
		records = append(records, &record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate consents: %w", err)
	}
	return records, nil
}
