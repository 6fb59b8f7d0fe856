package primary

import (
	"context"
	"errors"
	"fmt"
	"time"

	"folio/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DB is the subset of *pgxpool.Pool the store uses. pgxmock pools satisfy it in tests.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
	Close()
}

// StoreImpl implements the content store interfaces using PostgreSQL.
type StoreImpl struct {
	db DB
}

// NewPrimaryStore creates a new PostgreSQL store backed by a connection pool.
func NewPrimaryStore(ctx context.Context, dsn string) (*StoreImpl, error) {
	if dsn == "" {
		return nil, errors.New("database DSN cannot be empty")
	}
	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("unable to parse database DSN: %w", err)
	}

	dbpool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("unable to create connection pool: %w", err)
	}

	if err := dbpool.Ping(ctx); err != nil {
		dbpool.Close()
		return nil, fmt.Errorf("unable to ping database: %w", err)
	}

	return &StoreImpl{db: dbpool}, nil
}

// NewWithDB wraps an existing connection (or mock pool).
func NewWithDB(db DB) *StoreImpl {
	return &StoreImpl{db: db}
}

// Ping checks the database connection.
func (s *StoreImpl) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

// Close closes the database connection pool.
func (s *StoreImpl) Close() {
	s.db.Close()
}

// contentColumns is the select list scanContent expects, in order.
const contentColumns = `id, title, description, content, category, tags, created_at, updated_at`

// scanContent scans the contentColumns of one row, plus any extra destinations.
func scanContent(row pgx.Row, dest *models.Content, extra ...any) error {
	var category string
	targets := append([]any{
		&dest.ID,
		&dest.Title,
		&dest.Description,
		&dest.Content,
		&category,
		&dest.Tags,
		&dest.CreatedAt,
		&dest.UpdatedAt,
	}, extra...)
	if err := row.Scan(targets...); err != nil {
		return err
	}
	dest.Category = models.Category(category)
	if dest.Tags == nil {
		dest.Tags = []string{}
	}
	return nil
}

func now() time.Time {
	return time.Now().UTC()
}
