package store

import (
	"context"
	"errors"

	"github.com/vaarthai/vithai/internal/models"
)

var (
	// ErrNotFound is returned when no message has the requested id.
	ErrNotFound = errors.New("not found")
	// ErrInvalid wraps a validation failure on a write.
	ErrInvalid = errors.New("invalid message")
)

// Backend persists the catalog as a single document. Every mutation
// rewrites the whole document; concurrent writers in different processes
// are last-write-wins.
// FileBackend, SQLiteStore and PostgresStore implement this interface.
type Backend interface {
	// Connection management
	Name() string
	Close()
	Ping(ctx context.Context) error

	// Document operations
	Load(ctx context.Context) (models.Catalog, error)
	Save(ctx context.Context, catalog models.Catalog) error
}
