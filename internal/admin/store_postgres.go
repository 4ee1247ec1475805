package admin

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

// PostgresStore persists admin instances in PostgreSQL. The unique index on
// username backs up the singleton read-then-write check.
type PostgresStore struct {
	db    *sql.DB
	table string
}

// NewPostgres constructs a PostgreSQL-backed instance store over the given
// table.
func NewPostgres(db *sql.DB, table string) (*PostgresStore, error) {
	if !identifierPattern.MatchString(table) {
		return nil, dErrors.New(dErrors.CodeConfig, fmt.Sprintf("invalid instances table name %q", table))
	}
	return &PostgresStore{db: db, table: table}, nil
}

func (s *PostgresStore) Create(ctx context.Context, instance *Instance) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (id, username, password_hash, type, status, created_at, created_from)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (username) DO NOTHING
		RETURNING id
	`, s.table)
	var storedID string
	err := s.db.QueryRowContext(ctx, query,
		instance.ID,
		instance.Username,
		instance.PasswordHash,
		instance.Type,
		instance.Status,
		instance.CreatedAt,
		instance.CreatedFrom,
	).Scan(&storedID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return sentinel.ErrAlreadyExists
		}
		return fmt.Errorf("create admin instance: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByUsername(ctx context.Context, username string) (*Instance, error) {
	query := fmt.Sprintf(`
		SELECT id, username, password_hash, type, status, created_at, created_from
		FROM %s
		WHERE username = $1
	`, s.table)
	var instance Instance
	err := s.db.QueryRowContext(ctx, query, username).Scan(
		&instance.ID,
		&instance.Username,
		&instance.PasswordHash,
		&instance.Type,
		&instance.Status,
		&instance.CreatedAt,
		&instance.CreatedFrom,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find admin instance: %w", err)
	}
	return &instance, nil
}

func (s *PostgresStore) Count(ctx context.Context) (int, error) {
	query := fmt.Sprintf(`SELECT COUNT(*) FROM %s`, s.table)
	var count int
	if err := s.db.QueryRowContext(ctx, query).Scan(&count); err != nil {
		return 0, fmt.Errorf("count admin instances: %w", err)
	}
	return count, nil
}
