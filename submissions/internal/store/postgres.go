package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/multillm/survey-stack/common/database"
	"github.com/multillm/survey-stack/common/models"
)

// PostgresStore stores submissions in the same table the hosted row-query API
// fronts, talking SQL directly. Postgres assigns ids from a sequence.
type PostgresStore struct {
	pool *pgxpool.Pool
	now  func() time.Time
}

// NewPostgresStore connects and pings. Connection failures are ErrStorageUnavailable.
func NewPostgresStore(ctx context.Context, connString string) (*PostgresStore, error) {
	config, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to parse database config: %v", ErrStorageUnavailable, err)
	}

	config.MaxConns = 10
	config.MinConns = 1
	config.MaxConnLifetime = 5 * time.Minute
	config.MaxConnIdleTime = 1 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create connection pool: %v", ErrStorageUnavailable, err)
	}

	pingCtx, cancel := database.PingContext(ctx)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("%w: failed to ping database: %v", ErrStorageUnavailable, err)
	}

	return &PostgresStore{pool: pool, now: time.Now}, nil
}

func (s *PostgresStore) Name() string { return "postgres" }

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func (s *PostgresStore) Append(ctx context.Context, payload models.Payload) (*models.Submission, error) {
	ctx, cancel := database.AppendContext(ctx)
	defer cancel()

	if payload == nil {
		payload = models.Payload{}
	}
	receivedAt := s.now().UTC().Truncate(time.Millisecond)

	query := `
		INSERT INTO submissions (payload, "receivedAt")
		VALUES ($1, $2)
		RETURNING id
	`

	var id int64
	if err := s.pool.QueryRow(ctx, query, payload, receivedAt).Scan(&id); err != nil {
		return nil, fmt.Errorf("%w: failed to insert submission: %v", ErrBackendError, err)
	}

	return &models.Submission{ID: id, ReceivedAt: receivedAt, Payload: payload}, nil
}

func (s *PostgresStore) List(ctx context.Context) ([]models.Submission, error) {
	ctx, cancel := database.ListContext(ctx)
	defer cancel()

	query := `
		SELECT id, "receivedAt", payload
		FROM submissions
		ORDER BY id ASC
	`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to list submissions: %v", ErrBackendError, err)
	}
	defer rows.Close()

	submissions := []models.Submission{}
	for rows.Next() {
		var sub models.Submission
		if err := rows.Scan(&sub.ID, &sub.ReceivedAt, &sub.Payload); err != nil {
			return nil, fmt.Errorf("%w: failed to scan submission: %v", ErrBackendError, err)
		}
		sub.ReceivedAt = sub.ReceivedAt.UTC()
		submissions = append(submissions, sub)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: failed to iterate submissions: %v", ErrBackendError, err)
	}

	return submissions, nil
}

// RunMigrations applies the SQL migrations found at sourceURL (e.g. "file://migrations").
func RunMigrations(sourceURL, connString string) error {
	m, err := migrate.New(sourceURL, connString)
	if err != nil {
		return fmt.Errorf("failed to initialize migrations: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}
