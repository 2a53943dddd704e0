package visitors

import (
	"github.com/bawdo/casebulk/internal/quoting"
	"github.com/bawdo/casebulk/nodes"
)

// MySQLMaxParams is the server's limit on placeholders per prepared statement.
const MySQLMaxParams = 65535

var mysqlTypes = map[nodes.OutputType]string{
	nodes.TypeInteger:   "SIGNED",
	nodes.TypeBigInt:    "SIGNED",
	nodes.TypeFloat:     "DOUBLE",
	nodes.TypeDecimal:   "DECIMAL(65,30)",
	nodes.TypeText:      "CHAR",
	nodes.TypeTimestamp: "DATETIME(6)",
	nodes.TypeDate:      "DATE",
	nodes.TypeUUID:      "CHAR(36)",
	nodes.TypeBytes:     "BINARY",
	nodes.TypeJSON:      "JSON",
}

// MySQLVisitor generates MySQL-dialect SQL.
// Identifiers are quoted with backticks: `table`.`column`.
// CASE expressions are never cast: MySQL coerces branch results to the
// target column on assignment.
type MySQLVisitor struct {
	*baseVisitor
}

// NewMySQLVisitor creates a MySQLVisitor ready for use.
// Parameterized mode is enabled by default for SQL injection protection.
// Pass WithoutParams() to disable (not recommended for production).
func NewMySQLVisitor(opts ...Option) *MySQLVisitor {
	v := &MySQLVisitor{}
	v.baseVisitor = &baseVisitor{
		outer:        v,
		quote:        quoting.MySQL,
		placeholder:  func(_ int) string { return "?" },
		typeName:     func(t nodes.OutputType) string { return mysqlTypes[t] },
		parameterize: true, // Enable by default
		maxParams:    MySQLMaxParams,
	}
	v.applyOptions(opts)
	return v
}

// VisitInfix renders string concatenation as CONCAT(): || is logical OR
// unless PIPES_AS_CONCAT is set.
func (v *MySQLVisitor) VisitInfix(n *nodes.InfixNode) string {
	if n.Op == nodes.OpConcat {
		return "CONCAT(" + n.Left.Accept(v) + ", " + n.Right.Accept(v) + ")"
	}
	return v.baseVisitor.VisitInfix(n)
}
