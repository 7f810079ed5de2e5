// Package sqlserver implements the user and catalog repositories on top
// of SQL Server stored procedures in the commette schema.
package sqlserver

import (
	"database/sql"

	_ "github.com/microsoft/go-mssqldb"
	"github.com/pkg/errors"
)

// Store owns the database handle and hands out the per-domain
// repositories that share it.
type Store struct {
	db *sql.DB
}

func Open(dsn string) (*Store, error) {
	db, err := sql.Open("sqlserver", dsn)
	if err != nil {
		return nil, errors.Wrap(err, "[sqlserver.Open]")
	}
	return NewWithDB(db), nil
}

func NewWithDB(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) Users() *UserStore {
	return &UserStore{db: s.db}
}

func (s *Store) Catalog() *CatalogStore {
	return &CatalogStore{db: s.db}
}
