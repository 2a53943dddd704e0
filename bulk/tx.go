package bulk

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// Execer runs one statement and reports the number of rows it touched.
type Execer interface {
	Exec(ctx context.Context, query string, args ...any) (int64, error)
}

// Transactor runs fn inside a single transaction. A Transactor that owns
// the transaction rolls it back when fn fails and commits otherwise; one
// running inside a caller's transaction only returns fn's error.
type Transactor interface {
	InTx(ctx context.Context, fn func(ctx context.Context, ex Execer) error) error
}

type sqlExecer struct {
	conn interface {
		ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	}
}

func (e sqlExecer) Exec(ctx context.Context, query string, args ...any) (int64, error) {
	res, err := e.conn.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("casebulk: rows affected: %w", err)
	}
	return n, nil
}

type dbTransactor struct {
	db *sql.DB
}

// DBTransactor opens a new database/sql transaction for every call.
func DBTransactor(db *sql.DB) Transactor {
	return dbTransactor{db: db}
}

func (t dbTransactor) InTx(ctx context.Context, fn func(context.Context, Execer) error) (err error) {
	tx, err := t.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("casebulk: begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()
	if err = fn(ctx, sqlExecer{conn: tx}); err != nil {
		return err
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("casebulk: commit: %w", err)
	}
	return nil
}

type txTransactor struct {
	tx *sql.Tx
}

// TxTransactor runs inside a transaction the caller already owns. It never
// commits or rolls back; a failure is returned and the caller decides.
func TxTransactor(tx *sql.Tx) Transactor {
	return txTransactor{tx: tx}
}

func (t txTransactor) InTx(ctx context.Context, fn func(context.Context, Execer) error) error {
	return fn(ctx, sqlExecer{conn: t.tx})
}

// PgxBeginner is satisfied by *pgx.Conn, *pgxpool.Pool and pgx.Tx (which
// begins a savepoint).
type PgxBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

type pgxExecer struct {
	tx pgx.Tx
}

func (e pgxExecer) Exec(ctx context.Context, query string, args ...any) (int64, error) {
	tag, err := e.tx.Exec(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

type pgxTransactor struct {
	conn PgxBeginner
}

// PgxTransactor runs each call in a native pgx transaction. Statements must
// be rendered by a PostgresVisitor.
func PgxTransactor(conn PgxBeginner) Transactor {
	return pgxTransactor{conn: conn}
}

func (t pgxTransactor) InTx(ctx context.Context, fn func(context.Context, Execer) error) (err error) {
	tx, err := t.conn.Begin(ctx)
	if err != nil {
		return fmt.Errorf("casebulk: begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			// the caller's context may already be done
			_ = tx.Rollback(context.WithoutCancel(ctx))
		}
	}()
	if err = fn(ctx, pgxExecer{tx: tx}); err != nil {
		return err
	}
	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("casebulk: commit: %w", err)
	}
	return nil
}
