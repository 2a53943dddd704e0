package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/bawdo/casebulk/bulk"
	"github.com/bawdo/casebulk/nodes"
)

// database/sql drivers; postgres goes through a native pgx pool instead.
var driverName = map[string]string{
	"mysql":  "mysql",
	"sqlite": "sqlite",
}

// catalog holds the queries that list an engine's tables and a table's
// columns (name and type, in declaration order).
type catalog struct {
	tables  string
	columns string
}

var catalogs = map[string]catalog{
	"postgres": {
		tables:  "SELECT table_name FROM information_schema.tables WHERE table_schema = current_schema() ORDER BY table_name",
		columns: "SELECT column_name, data_type FROM information_schema.columns WHERE table_schema = current_schema() AND table_name = $1 ORDER BY ordinal_position",
	},
	"mysql": {
		tables:  "SELECT table_name FROM information_schema.tables WHERE table_schema = DATABASE() ORDER BY table_name",
		columns: "SELECT column_name, data_type FROM information_schema.columns WHERE table_schema = DATABASE() AND table_name = ? ORDER BY ordinal_position",
	},
	"sqlite": {
		tables:  "SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%' ORDER BY name",
		columns: "SELECT name, type FROM pragma_table_info(?)",
	},
}

// schemaColumn is a column name and its database type name.
type schemaColumn struct {
	name     string
	dataType string
}

// dbConn is an open connection plus the schema seen through it.
type dbConn struct {
	db      *sql.DB
	pool    *pgxpool.Pool // postgres only
	tx      bulk.Transactor
	dsn     string
	engine  string
	tables  []string
	columns map[string][]schemaColumn
}

func connect(ctx context.Context, log *zap.Logger, engine, dsn string) (*dbConn, error) {
	conn := &dbConn{dsn: dsn, engine: engine, columns: make(map[string][]schemaColumn)}
	switch engine {
	case "postgres":
		pool, err := pgxpool.New(ctx, dsn)
		if err != nil {
			return nil, fmt.Errorf("open: %w", err)
		}
		conn.pool = pool
		conn.db = stdlib.OpenDBFromPool(pool)
		conn.tx = bulk.PgxTransactor(pool)
	default:
		driver, ok := driverName[engine]
		if !ok {
			return nil, fmt.Errorf("no driver for engine %q", engine)
		}
		db, err := sql.Open(driver, dsn)
		if err != nil {
			return nil, fmt.Errorf("open: %w", err)
		}
		if engine == "sqlite" {
			// every connection to :memory: is a separate database
			db.SetMaxOpenConns(1)
		}
		conn.db = db
		conn.tx = bulk.DBTransactor(db)
	}

	if err := conn.db.PingContext(ctx); err != nil {
		_ = conn.close()
		return nil, fmt.Errorf("ping: %w", err)
	}
	if err := conn.loadSchema(); err != nil {
		// completion works without it
		log.Warn("schema introspection failed", zap.String("engine", engine), zap.Error(err))
	}
	return conn, nil
}

func (c *dbConn) close() error {
	err := c.db.Close()
	if c.pool != nil {
		c.pool.Close()
	}
	return err
}

func (c *dbConn) execQuery(ctx context.Context, query string, params []any) (string, error) {
	rows, err := c.db.QueryContext(ctx, query, params...)
	if err != nil {
		return "", fmt.Errorf("query: %w", err)
	}
	defer func() { _ = rows.Close() }()
	return formatRows(rows)
}

func (c *dbConn) loadSchema() error {
	cat, ok := catalogs[c.engine]
	if !ok {
		return fmt.Errorf("unsupported engine: %s", c.engine)
	}
	rows, err := c.db.Query(cat.tables)
	if err != nil {
		return err
	}
	defer func() { _ = rows.Close() }()
	var tables []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return err
		}
		tables = append(tables, name)
	}
	if err := rows.Err(); err != nil {
		return err
	}
	c.tables = tables
	return nil
}

// refreshSchema drops cached columns and rereads the table list, after a
// statement that may have changed the schema.
func (c *dbConn) refreshSchema() error {
	clear(c.columns)
	return c.loadSchema()
}

func (c *dbConn) schemaTables() []string {
	return c.tables
}

// schemaColumns returns the table's columns in declaration order, caching
// the answer. A missing table, or a failed lookup, yields nil.
func (c *dbConn) schemaColumns(table string) []schemaColumn {
	if cols, ok := c.columns[table]; ok {
		return cols
	}
	cat, ok := catalogs[c.engine]
	if !ok {
		return nil
	}
	rows, err := c.db.Query(cat.columns, table)
	if err != nil {
		return nil
	}
	defer func() { _ = rows.Close() }()
	var cols []schemaColumn
	for rows.Next() {
		var col schemaColumn
		if err := rows.Scan(&col.name, &col.dataType); err != nil {
			return nil
		}
		cols = append(cols, col)
	}
	if rows.Err() != nil || len(cols) == 0 {
		return nil
	}
	c.columns[table] = cols
	return cols
}

// outputType maps a database type name to the output type used for casts.
// Unrecognised types map to unknown, which renders without a cast.
func outputType(dataType string) nodes.OutputType {
	t := strings.ToLower(dataType)
	switch {
	case t == "bigint" || t == "int8" || t == "bigserial":
		return nodes.TypeBigInt
	case strings.Contains(t, "int"):
		return nodes.TypeInteger
	case strings.Contains(t, "double") || strings.Contains(t, "real") || strings.Contains(t, "float"):
		return nodes.TypeFloat
	case strings.Contains(t, "numeric") || strings.Contains(t, "decimal"):
		return nodes.TypeDecimal
	case strings.Contains(t, "char") || strings.Contains(t, "text") || strings.Contains(t, "clob"):
		return nodes.TypeText
	case strings.HasPrefix(t, "bool"):
		return nodes.TypeBoolean
	case strings.HasPrefix(t, "timestamp") || t == "datetime":
		return nodes.TypeTimestamp
	case t == "date":
		return nodes.TypeDate
	case t == "uuid":
		return nodes.TypeUUID
	case t == "bytea" || strings.Contains(t, "blob") || strings.Contains(t, "binary"):
		return nodes.TypeBytes
	case strings.HasPrefix(t, "json"):
		return nodes.TypeJSON
	}
	return nodes.TypeUnknown
}

// sanitizeDSN masks the password in a URL, MySQL or key=value DSN for
// display. DSNs without one come back unchanged.
func sanitizeDSN(dsn string) string {
	const mask = "****"
	if u, err := url.Parse(dsn); err == nil && u.Scheme != "" && u.User != nil {
		if _, ok := u.User.Password(); !ok {
			return dsn
		}
		u.User = url.UserPassword(u.User.Username(), mask)
		return u.String()
	}
	if strings.Contains(dsn, "password=") {
		fields := strings.Fields(dsn)
		for i, f := range fields {
			if strings.HasPrefix(f, "password=") {
				fields[i] = "password=" + mask
			}
		}
		return strings.Join(fields, " ")
	}
	if strings.Contains(dsn, "@") {
		if cfg, err := mysql.ParseDSN(dsn); err == nil && cfg.Passwd != "" {
			cfg.Passwd = mask
			return cfg.FormatDSN()
		}
	}
	return dsn
}
