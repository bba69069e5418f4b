package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vaarthai/vithai/internal/metrics"
	"github.com/vaarthai/vithai/internal/models"
)

// PostgresStore keeps the catalog document in a single JSONB row.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a new PostgreSQL store with a connection pool
// and makes sure the document table exists.
func NewPostgresStore(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, err
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	s := &PostgresStore{pool: pool}
	if err := s.migrate(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return s, nil
}

func (s *PostgresStore) migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS catalog (
			id SMALLINT PRIMARY KEY CHECK (id = 1),
			document JSONB NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)
	`)
	if err != nil {
		return err
	}

	seed, err := json.Marshal(DemoCatalog())
	if err != nil {
		return err
	}
	_, err = s.pool.Exec(ctx, `
		INSERT INTO catalog (id, document) VALUES (1, $1)
		ON CONFLICT (id) DO NOTHING
	`, seed)
	return err
}

// Name identifies the backend in logs and health checks.
func (s *PostgresStore) Name() string {
	return "postgres"
}

// Close closes the database connection pool.
func (s *PostgresStore) Close() {
	s.pool.Close()
}

// Ping checks the database connection.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Load reads the catalog document.
func (s *PostgresStore) Load(ctx context.Context) (models.Catalog, error) {
	start := time.Now()
	defer func() {
		metrics.StoreLatency.WithLabelValues("postgres", "load").Observe(time.Since(start).Seconds())
	}()

	var doc []byte
	err := s.pool.QueryRow(ctx, `SELECT document FROM catalog WHERE id = 1`).Scan(&doc)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Catalog{Messages: []models.Message{}}, nil
		}
		return models.Catalog{}, err
	}

	var catalog models.Catalog
	if err := json.Unmarshal(doc, &catalog); err != nil {
		return models.Catalog{}, err
	}
	if catalog.Messages == nil {
		catalog.Messages = []models.Message{}
	}
	return catalog, nil
}

// Save replaces the catalog document.
func (s *PostgresStore) Save(ctx context.Context, catalog models.Catalog) error {
	start := time.Now()
	defer func() {
		metrics.StoreLatency.WithLabelValues("postgres", "save").Observe(time.Since(start).Seconds())
	}()

	if catalog.Messages == nil {
		catalog.Messages = []models.Message{}
	}
	doc, err := json.Marshal(catalog)
	if err != nil {
		return err
	}

	_, err = s.pool.Exec(ctx, `
		INSERT INTO catalog (id, document, updated_at) VALUES (1, $1, now())
		ON CONFLICT (id) DO UPDATE SET document = EXCLUDED.document, updated_at = now()
	`, doc)
	return err
}
