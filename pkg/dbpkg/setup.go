package dbpkg

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Supported database drivers.
const (
	DriverDuckDB   = "duckdb"
	DriverPostgres = "postgres"
)

// ErrStoreNotFound indicates that the store file does not exist.
var ErrStoreNotFound = errors.New("store file not found")

// Setup sets up connection with database.
//
// For file based drivers the parent directory of the file is created.
func Setup(driver, source string) (*sql.DB, error) {
	if p := FilePath(driver, source); p != "" {
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			return nil, err
		}
	}

	db, err := sql.Open(driver, source)
	if err != nil {
		return nil, err
	}

	if err = db.Ping(); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

// FilePath returns the file a file based data source points to, or "" when the
// driver is not file based or the source is in memory.
func FilePath(driver, source string) string {
	if driver != DriverDuckDB {
		return ""
	}

	p, _, _ := strings.Cut(source, "?")
	if p == "" || p == ":memory:" {
		return ""
	}

	return p
}

// ReadOnly returns source with DuckDB read-only access mode when it points to a file.
func ReadOnly(driver, source string) string {
	if FilePath(driver, source) == "" || strings.Contains(source, "?") {
		return source
	}

	return source + "?access_mode=read_only"
}

// Connector hands out connection pools to the store.
//
// A file store is opened on every Acquire and closed on release, so the file is
// never held open between requests and a writer process can take it over. Other
// stores share one pool opened on first use.
//
// It never creates a missing store file: while the file is absent Acquire fails with
// ErrStoreNotFound, so a read-only process can start before the first ingestion run.
type Connector struct {
	driver string
	source string
	onOpen func(ctx context.Context, db *sql.DB) error

	mu sync.Mutex
	db *sql.DB
}

// NewConnector returns a Connector. onOpen, if not nil, runs on every opened pool.
func NewConnector(driver, source string, onOpen func(ctx context.Context, db *sql.DB) error) *Connector {
	return &Connector{
		driver: driver,
		source: source,
		onOpen: onOpen,
	}
}

// Path returns the store file path, or the data source for non file stores.
func (c *Connector) Path() string {
	if p := FilePath(c.driver, c.source); p != "" {
		return p
	}

	return c.source
}

// Acquire returns a connection pool and the func releasing it.
func (c *Connector) Acquire(ctx context.Context) (*sql.DB, func(), error) {
	p := FilePath(c.driver, c.source)
	if p == "" {
		db, err := c.shared(ctx)
		return db, func() {}, err
	}

	if _, err := os.Stat(p); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrStoreNotFound, err)
	}

	db, err := c.open(ctx)
	if err != nil {
		return nil, nil, err
	}

	return db, func() { db.Close() }, nil
}

func (c *Connector) shared(ctx context.Context) (*sql.DB, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.db != nil {
		return c.db, nil
	}

	db, err := c.open(ctx)
	if err != nil {
		return nil, err
	}

	c.db = db

	return db, nil
}

func (c *Connector) open(ctx context.Context) (*sql.DB, error) {
	db, err := sql.Open(c.driver, c.source)
	if err != nil {
		return nil, err
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}

	if c.onOpen != nil {
		if err := c.onOpen(ctx, db); err != nil {
			db.Close()
			return nil, err
		}
	}

	return db, nil
}

// Close closes the shared pool if it is open.
func (c *Connector) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.db == nil {
		return nil
	}

	err := c.db.Close()
	c.db = nil

	return err
}
