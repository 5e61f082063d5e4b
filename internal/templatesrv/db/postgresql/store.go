// Package postgresql implements the datastore operations of the template
// service against PostgreSQL: the page, block, and auxiliary-record writes
// of the homepage publisher, and the institution-local template reads.
package postgresql

import (
	"github.com/campuscms/campuscms/internal/templatesrv/db/dbmanager"
)

// Store executes template service queries over a connection pool.
type Store struct {
	pool *dbmanager.Pool
}

// New creates a Store over the given pool.
func New(pool *dbmanager.Pool) *Store {
	return &Store{pool: pool}
}
