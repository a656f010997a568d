// Package store persists the reference catalog and submitted setups in Postgres.
package store

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"github.com/restynation/buythatworks/pkg/config"
)

// Stores groups every store the server uses.
type Stores struct {
	Catalog CatalogStore
	Setups  SetupStore
}

func New(db *sqlx.DB) Stores {
	return Stores{
		Catalog: NewCatalog(db),
		Setups:  NewSetups(db),
	}
}

// Open connects to Postgres and checks the connection.
func Open(cfg config.Database) (*sqlx.DB, error) {
	db, err := sqlx.Connect("postgres", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("connecting to database %s on %s: %w", cfg.DB, cfg.Host, err)
	}
	return db, nil
}
