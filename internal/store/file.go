package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"

	"github.com/vaarthai/vithai/internal/metrics"
	"github.com/vaarthai/vithai/internal/models"
)

const lockRetryDelay = 10 * time.Millisecond

// FileBackend keeps the catalog in a JSON file. Each save is a single
// whole-file write taken under an advisory lock so two processes never
// interleave bytes.
type FileBackend struct {
	path string
	lock *flock.Flock
}

// NewFileBackend opens the document at path, writing the demo catalog if
// the file does not exist. If path is empty, defaults to "./data.json".
func NewFileBackend(ctx context.Context, path string) (*FileBackend, error) {
	if path == "" {
		path = "./data.json"
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, err
	}

	b := &FileBackend{
		path: path,
		lock: flock.New(path + ".lock"),
	}

	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		if err := b.Save(ctx, DemoCatalog()); err != nil {
			return nil, fmt.Errorf("seed catalog: %w", err)
		}
	} else if err != nil {
		return nil, err
	}

	return b, nil
}

// Name identifies the backend in logs and health checks.
func (b *FileBackend) Name() string {
	return "file"
}

// Close releases nothing; the lock is only held during a write.
func (b *FileBackend) Close() {}

// Ping checks the document is readable.
func (b *FileBackend) Ping(ctx context.Context) error {
	_, err := os.Stat(b.path)
	return err
}

// Load reads the whole document.
func (b *FileBackend) Load(ctx context.Context) (models.Catalog, error) {
	start := time.Now()
	defer func() {
		metrics.StoreLatency.WithLabelValues("file", "load").Observe(time.Since(start).Seconds())
	}()

	data, err := os.ReadFile(b.path)
	if err != nil {
		return models.Catalog{}, err
	}

	var catalog models.Catalog
	if err := json.Unmarshal(data, &catalog); err != nil {
		return models.Catalog{}, fmt.Errorf("decode %s: %w", b.path, err)
	}
	if catalog.Messages == nil {
		catalog.Messages = []models.Message{}
	}
	return catalog, nil
}

// Save rewrites the whole document.
func (b *FileBackend) Save(ctx context.Context, catalog models.Catalog) error {
	start := time.Now()
	defer func() {
		metrics.StoreLatency.WithLabelValues("file", "save").Observe(time.Since(start).Seconds())
	}()

	if catalog.Messages == nil {
		catalog.Messages = []models.Message{}
	}
	data, err := json.MarshalIndent(catalog, "", "  ")
	if err != nil {
		return err
	}

	locked, err := b.lock.TryLockContext(ctx, lockRetryDelay)
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !locked {
		return errors.New("acquire lock: not acquired")
	}
	defer b.lock.Unlock()

	return os.WriteFile(b.path, data, 0644)
}
