package repomanager

import (
	"fmt"
	"strings"
)

// Dialect names the SQL flavour behind a DSN.
type Dialect string

const (
	DialectPostgres Dialect = "postgres"
	DialectSQLite   Dialect = "sqlite"
)

// sqlitePragmas are applied to every SQLite connection.
const sqlitePragmas = "_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)"

// Source is a parsed DSN ready for sql.Open.
type Source struct {
	Dialect    Dialect
	DriverName string
	DataSource string
}

// ParseDSN maps a database URL onto a driver.
//
//	postgres://... postgresql://...   pgx
//	sqlite://./app.db                 modernc sqlite, relative path
//	sqlite:///./app.db                same, three-slash form
//	sqlite:////var/lib/app.db         absolute path
//	sqlite:app.db, file:app.db, :memory:
func ParseDSN(dsn string) (Source, error) {
	dsn = strings.TrimSpace(dsn)

	switch {
	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"):
		return Source{Dialect: DialectPostgres, DriverName: "pgx", DataSource: dsn}, nil

	case strings.HasPrefix(dsn, "sqlite://"):
		path := strings.TrimPrefix(dsn, "sqlite://")
		path = strings.TrimPrefix(path, "/")
		return sqliteSource(path)

	case strings.HasPrefix(dsn, "sqlite:"):
		return sqliteSource(strings.TrimPrefix(dsn, "sqlite:"))

	case strings.HasPrefix(dsn, "file:"), dsn == ":memory:":
		return sqliteSource(dsn)
	}

	return Source{}, fmt.Errorf("unsupported database DSN %q", redact(dsn))
}

func sqliteSource(path string) (Source, error) {
	if path == "" {
		return Source{}, fmt.Errorf("sqlite DSN without a path")
	}
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return Source{Dialect: DialectSQLite, DriverName: "sqlite", DataSource: path + sep + sqlitePragmas}, nil
}

// sqliteFile returns the database file behind a SQLite data source, or ""
// for in-memory and URI forms.
func sqliteFile(dataSource string) string {
	if strings.HasPrefix(dataSource, "file:") || strings.HasPrefix(dataSource, ":memory:") {
		return ""
	}
	path, _, _ := strings.Cut(dataSource, "?")
	return path
}

// redact hides credentials in error messages.
func redact(dsn string) string {
	at := strings.LastIndex(dsn, "@")
	scheme := strings.Index(dsn, "://")
	if at < 0 || scheme < 0 || at < scheme {
		return dsn
	}
	return dsn[:scheme+3] + "***" + dsn[at:]
}
