package application

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"

	dErrors "greenleaf/pkg/domain-errors"
	"greenleaf/pkg/sentinel"
)

// identifierPattern limits configurable table names to plain identifiers;
// table names cannot be bound as query parameters.
var identifierPattern = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// PostgresStore persists applications in PostgreSQL. The unique index on
// email makes duplicate submissions lose cleanly even when two requests pass
// the read-then-write check at once.
type PostgresStore struct {
	db    *sql.DB
	table string
}

// NewPostgres constructs a PostgreSQL-backed application store over the given
// table.
func NewPostgres(db *sql.DB, table string) (*PostgresStore, error) {
	if !identifierPattern.MatchString(table) {
		return nil, dErrors.New(dErrors.CodeConfig, fmt.Sprintf("invalid applications table name %q", table))
	}
	return &PostgresStore{db: db, table: table}, nil
}

func (s *PostgresStore) Create(ctx context.Context, app *Application) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (id, name, email, phone_hash, phone_display, submitted_at, submitted_from, submitted_with, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (email) DO NOTHING
		RETURNING id
	`, s.table)
	var storedID string
	err := s.db.QueryRowContext(ctx, query,
		app.ID,
		app.Name,
		app.Email,
		app.PhoneHash,
		app.PhoneDisplay,
		app.SubmittedAt,
		app.SubmittedFrom,
		app.SubmittedWith,
		app.Status,
	).Scan(&storedID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return sentinel.ErrAlreadyExists
		}
		return fmt.Errorf("create application: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByEmail(ctx context.Context, email string) (*Application, error) {
	query := fmt.Sprintf(`
		SELECT id, name, email, phone_hash, phone_display, submitted_at, submitted_from, submitted_with, status
		FROM %s
		WHERE email = $1
	`, s.table)
	var app Application
	err := s.db.QueryRowContext(ctx, query, email).Scan(
		&app.ID,
		&app.Name,
		&app.Email,
		&app.PhoneHash,
		&app.PhoneDisplay,
		&app.SubmittedAt,
		&app.SubmittedFrom,
		&app.SubmittedWith,
		&app.Status,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find application: %w", err)
	}
	return &app, nil
}

func (s *PostgresStore) Count(ctx context.Context) (int, error) {
	query := fmt.Sprintf(`SELECT COUNT(*) FROM %s`, s.table)
	var count int
	if err := s.db.QueryRowContext(ctx, query).Scan(&count); err != nil {
		return 0, fmt.Errorf("count applications: %w", err)
	}
	return count, nil
}
