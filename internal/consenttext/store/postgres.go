package store

import (
	"context"
	"database/sql"
	"fmt"

	"consentd/internal/consenttext"
	"consentd/pkg/platform/sentinel"
	txcontext "consentd/pkg/platform/tx"
)

// Postgres persists consent texts in PostgreSQL.
type Postgres struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

type dbExecutor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *Postgres) execer(ctx context.Context) dbExecutor {
	if tx, ok := txcontext.From(ctx); ok {
		return tx
	}
	return s.db
}

// Create inserts a new text version and assigns its surrogate id.
func (s *Postgres) Create(ctx context.Context, text *consenttext.ConsentText) error {
	query := `
		INSERT INTO consent_texts (version, language, title, body, body_hash, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`
	err := s.execer(ctx).QueryRowContext(ctx, query,
		text.Version,
		text.Language,
		text.Title,
		text.Body,
		text.BodyHash,
		text.CreatedAt,
	).Scan(&text.ID)
	if err != nil {
		return fmt.Errorf("insert consent text: %w", err)
	}
	return nil
}

// Latest returns the row with the maximum created_at for the language.
func (s *Postgres) Latest(ctx context.Context, language string) (*consenttext.ConsentText, error) {
	query := `
		SELECT id, version, language, title, body, body_hash, created_at
		FROM consent_texts
		WHERE language = $1
		ORDER BY created_at DESC
		LIMIT 1
	`
	var text consenttext.ConsentText
	err := s.execer(ctx).QueryRowContext(ctx, query, language).Scan(
		&text.ID,
		&text.Version,
		&text.Language,
		&text.Title,
		&text.Body,
		&text.BodyHash,
		&text.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("query latest consent text: %w", err)
	}
	return &text, nil
}

// ListAll returns the full version history, newest first.
func (s *Postgres) ListAll(ctx context.Context) ([]*consenttext.ConsentText, error) {
	query := `
		SELECT id, version, language, title, body, body_hash, created_at
		FROM consent_texts
		ORDER BY created_at DESC
	`
	rows, err := s.execer(ctx).QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query consent texts: %w", err)
	}
	defer rows.Close()

	var texts []*consenttext.ConsentText
	for rows.Next() {
		var text consenttext.ConsentText
		err := rows.Scan(
			&text.ID,
			&text.Version,
			&text.Language,
			&text.Title,
			&text.Body,
			&text.BodyHash,
			&text.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan consent text: %w", err)
		}
		texts = append(texts, &text)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate consent texts: %w", err)
	}
	return texts, nil
}
