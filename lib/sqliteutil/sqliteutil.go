package sqliteutil

import (
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/tursodatabase/libsql-client-go/libsql"
	_ "modernc.org/sqlite"
)

func driverFor(url string) string {
	if strings.HasPrefix(url, "libsql://") ||
		strings.HasPrefix(url, "ws://") ||
		strings.HasPrefix(url, "wss://") {
		return "libsql"
	}
	return "sqlite"
}

// OpenDB opens a local sqlite or remote libsql database given a
// connection URL (`file:...`, `:memory:` or `libsql://...`) and applies
// the given schema. Re-applying a schema to an existing database is not
// an error.
func OpenDB(schema, url string) (*sql.DB, error) {
	db, err := sql.Open(driverFor(url), url)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", url, err)
	}
	_, err = db.Exec(schema)
	if err != nil && !strings.Contains(err.Error(), "already exists") {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return db, nil
}
