package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/vaarthai/vithai/internal/metrics"
	"github.com/vaarthai/vithai/internal/models"
)

// SQLiteStore keeps the catalog document in a single SQLite row.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new SQLite store.
// If dbPath is empty, defaults to "./data/vithai.db"
func NewSQLiteStore(ctx context.Context, dbPath string) (*SQLiteStore, error) {
	if dbPath == "" {
		dbPath = "./data/vithai.db"
	}

	// Ensure directory exists
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL")
	if err != nil {
		return nil, err
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}

	store := &SQLiteStore{db: db}

	if err := store.initSchema(ctx); err != nil {
		db.Close()
		return nil, err
	}

	return store, nil
}

// initSchema creates the document table and seeds it when empty.
func (s *SQLiteStore) initSchema(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS catalog (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		document TEXT NOT NULL,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	`
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return err
	}

	seed, err := json.Marshal(DemoCatalog())
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `INSERT OR IGNORE INTO catalog (id, document) VALUES (1, ?)`, string(seed))
	return err
}

// Name identifies the backend in logs and health checks.
func (s *SQLiteStore) Name() string {
	return "sqlite"
}

// Close closes the database connection.
func (s *SQLiteStore) Close() {
	s.db.Close()
}

// Ping checks the database connection.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Load reads the catalog document.
func (s *SQLiteStore) Load(ctx context.Context) (models.Catalog, error) {
	start := time.Now()
	defer func() {
		metrics.StoreLatency.WithLabelValues("sqlite", "load").Observe(time.Since(start).Seconds())
	}()

	var doc string
	err := s.db.QueryRowContext(ctx, `SELECT document FROM catalog WHERE id = 1`).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Catalog{Messages: []models.Message{}}, nil
	}
	if err != nil {
		return models.Catalog{}, err
	}

	var catalog models.Catalog
	if err := json.Unmarshal([]byte(doc), &catalog); err != nil {
		return models.Catalog{}, err
	}
	if catalog.Messages == nil {
		catalog.Messages = []models.Message{}
	}
	return catalog, nil
}

// Save replaces the catalog document.
func (s *SQLiteStore) Save(ctx context.Context, catalog models.Catalog) error {
	start := time.Now()
	defer func() {
		metrics.StoreLatency.WithLabelValues("sqlite", "save").Observe(time.Since(start).Seconds())
	}()

	if catalog.Messages == nil {
		catalog.Messages = []models.Message{}
	}
	doc, err := json.Marshal(catalog)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO catalog (id, document, updated_at) VALUES (1, ?, ?)
		ON CONFLICT(id) DO UPDATE SET document = excluded.document, updated_at = excluded.updated_at
	`, string(doc), time.Now())
	return err
}
