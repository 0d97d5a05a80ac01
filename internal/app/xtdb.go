package app

import (
	"database/sql"
	"fmt"

	"github.com/bitempo/tradegen/config"

	_ "github.com/lib/pq" // Postgres wire driver; XTDB speaks pgwire
)

// sqlOpener is an indirection for unit testing; defaults to sql.Open.
var sqlOpener = sql.Open

// InitXTDB opens a connection to XTDB's Postgres wire server using the
// configured DSN and verifies connectivity with a ping.
func InitXTDB(cfg config.Config) (*sql.DB, error) {
	db, err := sqlOpener("postgres", cfg.Database.URL)
	if err != nil {
		return nil, fmt.Errorf("open xtdb: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping xtdb: %w", err)
	}
	return db, nil
}
