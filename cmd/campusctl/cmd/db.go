package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/campusshare/campusshare/internal/config"
	"github.com/campusshare/campusshare/internal/db"
	"github.com/jmoiron/sqlx"
)

// openDB connects with the DB_* settings only, so database tasks run
// without storage or OAuth credentials.
func openDB() (*sqlx.DB, string, error) {
	driver, connection := config.LoadDatabase()

	opts := db.DefaultOptions()
	opts.MaxOpenConns = 1

	database, err := db.Init(driver, connection, opts)
	if err != nil {
		return nil, "", fmt.Errorf("open %s database: %w", driver, err)
	}
	return database, driver, nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
