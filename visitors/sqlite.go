package visitors

import (
	"github.com/bawdo/casebulk/internal/quoting"
	"github.com/bawdo/casebulk/nodes"
)

// SQLiteMaxParams is SQLITE_MAX_VARIABLE_NUMBER for SQLite 3.32 and later.
// Older builds default to 999; use WithMaxParams for those.
const SQLiteMaxParams = 32766

var sqliteTypes = map[nodes.OutputType]string{
	nodes.TypeInteger:   "INTEGER",
	nodes.TypeBigInt:    "INTEGER",
	nodes.TypeFloat:     "REAL",
	nodes.TypeDecimal:   "NUMERIC",
	nodes.TypeText:      "TEXT",
	nodes.TypeBoolean:   "INTEGER",
	nodes.TypeTimestamp: "TEXT",
	nodes.TypeDate:      "TEXT",
	nodes.TypeUUID:      "TEXT",
	nodes.TypeBytes:     "BLOB",
	nodes.TypeJSON:      "TEXT",
}

// SQLiteVisitor generates SQLite-dialect SQL.
// Identifiers are quoted with double quotes: "table"."column" (ANSI SQL).
// CASE expressions are rendered without casts; column affinity applies the
// conversion on write.
type SQLiteVisitor struct {
	*baseVisitor
}

// NewSQLiteVisitor creates a SQLiteVisitor ready for use.
// Parameterized mode is enabled by default.
func NewSQLiteVisitor(opts ...Option) *SQLiteVisitor {
	v := &SQLiteVisitor{}
	v.baseVisitor = &baseVisitor{
		outer:        v,
		quote:        quoting.ANSI,
		placeholder:  func(_ int) string { return "?" },
		typeName:     func(t nodes.OutputType) string { return sqliteTypes[t] },
		parameterize: true,
		maxParams:    SQLiteMaxParams,
	}
	v.applyOptions(opts)
	return v
}
