package visitors

import (
	"fmt"

	"github.com/bawdo/casebulk/internal/quoting"
	"github.com/bawdo/casebulk/nodes"
)

// PostgresMaxParams is the wire protocol's limit on bind parameters.
const PostgresMaxParams = 65535

var postgresTypes = map[nodes.OutputType]string{
	nodes.TypeInteger:   "integer",
	nodes.TypeBigInt:    "bigint",
	nodes.TypeFloat:     "double precision",
	nodes.TypeDecimal:   "numeric",
	nodes.TypeText:      "text",
	nodes.TypeBoolean:   "boolean",
	nodes.TypeTimestamp: "timestamptz",
	nodes.TypeDate:      "date",
	nodes.TypeUUID:      "uuid",
	nodes.TypeBytes:     "bytea",
	nodes.TypeJSON:      "jsonb",
}

// PostgresVisitor generates PostgreSQL-dialect SQL.
// Identifiers are quoted with double quotes: "table"."column".
//
// A typed CASE is wrapped in CAST(... AS type), and typed literal
// placeholders are cast as well: PostgreSQL cannot infer the type of a bare
// $n in a THEN branch and would otherwise assume text.
type PostgresVisitor struct {
	*baseVisitor
}

// NewPostgresVisitor creates a PostgresVisitor ready for use.
// Parameterized mode is enabled by default.
func NewPostgresVisitor(opts ...Option) *PostgresVisitor {
	v := &PostgresVisitor{}
	v.baseVisitor = &baseVisitor{
		outer:             v,
		quote:             quoting.ANSI,
		placeholder:       func(i int) string { return fmt.Sprintf("$%d", i) },
		typeName:          func(t nodes.OutputType) string { return postgresTypes[t] },
		castCase:          true,
		castTypedLiterals: true,
		parameterize:      true,
		maxParams:         PostgresMaxParams,
	}
	v.applyOptions(opts)
	return v
}
