package db

import (
	"context"
	"database/sql"
)

// DBTX is the querying surface the record repository needs. Both *sql.DB
// and *sql.Tx provide it, so record writes can later move inside a
// transaction without touching the repository.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

var (
	_ DBTX = (*sql.DB)(nil)
	_ DBTX = (*sql.Tx)(nil)
)
