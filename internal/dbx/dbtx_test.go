package dbx

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "dbx.db"))
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })
	_, err = db.Exec(`CREATE TABLE flags (id INTEGER PRIMARY KEY, active BOOLEAN NOT NULL)`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO flags (id, active) VALUES (1, 1)`)
	require.NoError(t, err)
	return db
}

func isActive(t *testing.T, db *sql.DB) bool {
	t.Helper()
	var active bool
	require.NoError(t, db.QueryRow(`SELECT active FROM flags WHERE id = 1`).Scan(&active))
	return active
}

func deactivate(ctx context.Context, tx DBTX) error {
	_, err := tx.ExecContext(ctx, `UPDATE flags SET active = 0 WHERE id = 1`)
	return err
}

func TestWithTx_CommitsOnSuccess(t *testing.T) {
	db := setupDB(t)

	err := WithTx(context.Background(), db, nil, deactivate)
	require.NoError(t, err)
	require.False(t, isActive(t, db), "must commit on success")
}

func TestWithTx_RollbackOnFnError(t *testing.T) {
	db := setupDB(t)
	boom := errors.New("boom")

	err := WithTx(context.Background(), db, nil, func(ctx context.Context, tx DBTX) error {
		require.NoError(t, deactivate(ctx, tx))
		return boom
	})
	require.ErrorIs(t, err, boom)
	require.True(t, isActive(t, db), "must rollback when fn returns error")
}

func TestWithTx_RollbackOnPanic(t *testing.T) {
	db := setupDB(t)

	defer func() {
		if r := recover(); r == nil {
			t.Fatalf("expected panic to propagate")
		}
		require.True(t, isActive(t, db), "must rollback on panic")
	}()

	_ = WithTx(context.Background(), db, nil, func(ctx context.Context, tx DBTX) error {
		require.NoError(t, deactivate(ctx, tx))
		panic("kaput")
	})
}

func TestWithTx_BeginError(t *testing.T) {
	db := setupDB(t)
	require.NoError(t, db.Close())

	err := WithTx(context.Background(), db, nil, func(ctx context.Context, tx DBTX) error {
		t.Fatal("fn must not run")
		return nil
	})
	require.Error(t, err)
	require.Contains(t, err.Error(), "begin tx")
}
