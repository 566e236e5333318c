package reportservice

import (
	"context"
	"database/sql"
	"sync"

	"github.com/go-petr/akahu-finance/internal/domain"
	"github.com/go-petr/akahu-finance/internal/reportrepo"
	"github.com/go-petr/akahu-finance/internal/storeschema"
	"github.com/go-petr/akahu-finance/pkg/dbpkg"
)

// SQLStore opens report repos over a SQL store.
//
// A DuckDB file is opened read-only for the duration of one request. The view
// schema is resolved every time a connection pool is opened.
type SQLStore struct {
	conn       *dbpkg.Connector
	dataset    string
	viewSchema string

	mu     sync.Mutex
	tables storeschema.Tables
}

// NewSQLStore returns SQLStore. An empty viewSchema is detected when the store opens.
func NewSQLStore(driver, source, dataset, viewSchema string) *SQLStore {
	s := &SQLStore{
		dataset:    dataset,
		viewSchema: viewSchema,
	}

	s.conn = dbpkg.NewConnector(driver, dbpkg.ReadOnly(driver, source), s.resolve)

	return s
}

func (s *SQLStore) resolve(ctx context.Context, db *sql.DB) error {
	t, err := storeschema.Resolve(ctx, db, s.dataset, s.viewSchema)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.tables = t
	s.mu.Unlock()

	return nil
}

// Open returns a repo over a connection pool and the func releasing the pool.
func (s *SQLStore) Open(ctx context.Context) (Repo, func(), error) {
	db, release, err := s.conn.Acquire(ctx)
	if err != nil {
		return nil, nil, &domain.StoreUnavailableError{Path: s.conn.Path(), Err: err}
	}

	s.mu.Lock()
	t := s.tables
	s.mu.Unlock()

	return reportrepo.NewRepoSQL(db, t), release, nil
}

// Path returns the store location.
func (s *SQLStore) Path() string {
	return s.conn.Path()
}

// Tables returns the names resolved when the store was last opened.
func (s *SQLStore) Tables() storeschema.Tables {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.tables
}

// Close closes the shared pool.
func (s *SQLStore) Close() error {
	return s.conn.Close()
}

// StaticStore always opens the same Repo.
type StaticStore struct {
	Repo     Repo
	Location string
}

// Open returns the Repo.
func (s StaticStore) Open(context.Context) (Repo, func(), error) {
	return s.Repo, func() {}, nil
}

// Path returns Location.
func (s StaticStore) Path() string {
	return s.Location
}
