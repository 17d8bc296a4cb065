package repomanager

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/authkeeper/internal/dbx"
	"github.com/dmitrijs2005/authkeeper/internal/filex"
	"github.com/dmitrijs2005/authkeeper/internal/logging"
	"github.com/dmitrijs2005/authkeeper/internal/server/migrations"
	"github.com/dmitrijs2005/authkeeper/internal/server/repositories/users"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"
)

// goose keeps its dialect, filesystem and logger in package globals.
var gooseMu sync.Mutex

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// SQLRepositoryManager vends SQL-backed repositories for one database.
type SQLRepositoryManager struct {
	db      *sql.DB
	dialect Dialect
	logger  logging.Logger
}

// Open connects to dsn, verifies the connection and applies migrations.
func Open(ctx context.Context, dsn string, logger logging.Logger) (*SQLRepositoryManager, error) {
	src, err := ParseDSN(dsn)
	if err != nil {
		return nil, err
	}

	if src.Dialect == DialectSQLite {
		if err := filex.EnsureParentDir(sqliteFile(src.DataSource)); err != nil {
			return nil, fmt.Errorf("db open error: %w", err)
		}
	}

	db, err := sql.Open(src.DriverName, src.DataSource)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}
	if src.Dialect == DialectSQLite {
		// One writer at a time; also keeps :memory: databases alive.
		db.SetMaxOpenConns(1)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db ping error: %w", err)
	}

	m := NewSQLRepositoryManager(db, src.Dialect, logger)
	if err := m.RunMigrations(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migration error: %w", err)
	}

	logger.Info(ctx, "database ready", "dialect", string(src.Dialect))
	return m, nil
}

func NewSQLRepositoryManager(db *sql.DB, dialect Dialect, logger logging.Logger) *SQLRepositoryManager {
	return &SQLRepositoryManager{db: db, dialect: dialect, logger: logger.With("module", "repomanager")}
}

func (m *SQLRepositoryManager) Conn() *sql.DB {
	return m.db
}

func (m *SQLRepositoryManager) Dialect() Dialect {
	return m.dialect
}

// Users returns a users.Repository bound to the provided DBTX.
func (m *SQLRepositoryManager) Users(db dbx.DBTX) users.Repository {
	return users.NewSQLRepository(db)
}

// RunMigrations applies the embedded migrations for the manager's dialect.
func (m *SQLRepositoryManager) RunMigrations(ctx context.Context) error {
	gooseDialect, dir := "pgx", "postgres"
	if m.dialect == DialectSQLite {
		gooseDialect, dir = "sqlite3", "sqlite"
	}

	gooseMu.Lock()
	defer gooseMu.Unlock()

	goose.SetBaseFS(migrations.Migrations)
	goose.SetLogger(gooseLogger{ctx: ctx, l: m.logger})
	if err := goose.SetDialect(gooseDialect); err != nil {
		return err
	}
	return gooseUpContext(ctx, m.db, dir)
}

func (m *SQLRepositoryManager) Close() error {
	return m.db.Close()
}
