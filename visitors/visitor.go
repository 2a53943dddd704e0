// Package visitors renders node trees as SQL for PostgreSQL, MySQL and
// SQLite, collecting bind parameters in placeholder order.
package visitors

import (
	"database/sql/driver"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/bawdo/casebulk/internal/quoting"
	"github.com/bawdo/casebulk/nodes"
)

var infixOpSQL = [...]string{
	nodes.OpPlus:     "+",
	nodes.OpMinus:    "-",
	nodes.OpMultiply: "*",
	nodes.OpDivide:   "/",
	nodes.OpModulo:   "%",
	nodes.OpConcat:   "||",
}

// needsParens reports whether an infix operand must be parenthesized. Every
// nested infix is, so grouping never depends on operator precedence.
func needsParens(n nodes.Node) bool {
	_, ok := n.(*nodes.InfixNode)
	return ok
}

var comparisonOpSQL = [...]string{
	nodes.OpEq:              "=",
	nodes.OpNotEq:           "!=",
	nodes.OpGt:              ">",
	nodes.OpGtEq:            ">=",
	nodes.OpLt:              "<",
	nodes.OpLtEq:            "<=",
	nodes.OpLike:            "LIKE",
	nodes.OpNotLike:         "NOT LIKE",
	nodes.OpDistinctFrom:    "IS DISTINCT FROM",
	nodes.OpNotDistinctFrom: "IS NOT DISTINCT FROM",
}

// Option configures a visitor at construction time.
type Option func(*baseVisitor)

// WithParams renders values as placeholders and collects them. It is the
// default for every dialect.
func WithParams() Option {
	return func(b *baseVisitor) { b.parameterize = true }
}

// WithoutParams inlines values as escaped SQL literals. The output is for
// reading (dry runs, logs, the REPL's sql command), not for executing
// untrusted input.
func WithoutParams() Option {
	return func(b *baseVisitor) { b.parameterize = false }
}

// WithMaxParams overrides the dialect's maximum number of bound parameters
// per statement, e.g. for a SQLite build with a lower SQLITE_MAX_VARIABLE_NUMBER.
func WithMaxParams(n int) Option {
	return func(b *baseVisitor) {
		if n > 0 {
			b.maxParams = n
		}
	}
}

// baseVisitor holds the rendering shared by the dialects. Each dialect embeds
// it and points outer at itself; children are always rendered through outer
// so dialect overrides apply at every depth.
type baseVisitor struct {
	outer nodes.Visitor
	quote quoting.Style

	parameterize bool
	params       []any // in placeholder order
	paramIndex   int   // last placeholder number issued
	placeholder  func(int) string

	// typeName maps an output type to the dialect's CAST target, or "".
	typeName func(nodes.OutputType) string
	// castCase casts typed CASE expressions; castTypedLiterals casts typed
	// placeholders so the server can infer parameter types inside CASE.
	castCase          bool
	castTypedLiterals bool

	maxParams int
	err       error // first failure since Reset
}

func (b *baseVisitor) applyOptions(opts []Option) {
	for _, o := range opts {
		o(b)
	}
}

// Params returns the values bound since the last Reset.
func (b *baseVisitor) Params() []any {
	return b.params
}

// Reset clears collected parameters and errors for reuse.
func (b *baseVisitor) Reset() {
	b.params = nil
	b.paramIndex = 0
	b.err = nil
}

// Err returns the first error recorded since the last Reset.
func (b *baseVisitor) Err() error {
	return b.err
}

// MaxParams returns the maximum number of bound parameters the backend
// accepts in one statement.
func (b *baseVisitor) MaxParams() int {
	return b.maxParams
}

// fail records err if it is the first failure and returns an empty fragment.
func (b *baseVisitor) fail(err error) string {
	if b.err == nil {
		b.err = err
	}
	return ""
}

// bind appends a parameter and returns its placeholder.
func (b *baseVisitor) bind(val any) string {
	b.paramIndex++
	b.params = append(b.params, val)
	return b.placeholder(b.paramIndex)
}

// castWrap wraps sql in CAST(... AS type) for the dialect's name of t. It
// returns sql unchanged when t is unknown or the dialect has no name for it.
func (b *baseVisitor) castWrap(sql string, t nodes.OutputType) string {
	if t == nodes.TypeUnknown || b.typeName == nil {
		return sql
	}
	name := b.typeName(t)
	if name == "" {
		return sql
	}
	validateSQLTypeName(name)
	return "CAST(" + sql + " AS " + name + ")"
}

func (b *baseVisitor) VisitTable(n *nodes.Table) string {
	return b.quote.Ident(n.Name)
}

func (b *baseVisitor) VisitTableAlias(n *nodes.TableAlias) string {
	if tbl, ok := n.Relation.(*nodes.Table); ok {
		return b.quote.Ident(tbl.Name) + " AS " + b.quote.Ident(n.AliasName)
	}
	return "(" + b.render(n.Relation) + ") AS " + b.quote.Ident(n.AliasName)
}

func (b *baseVisitor) VisitAttribute(n *nodes.Attribute) string {
	return b.qualifierName(n.Relation) + "." + b.quote.Ident(n.Name)
}

// qualifierName returns the quoted name used to qualify a column reference.
func (b *baseVisitor) qualifierName(rel nodes.Node) string {
	return b.quote.Ident(nodes.RelationName(rel))
}

func (b *baseVisitor) VisitLiteral(n *nodes.LiteralNode) string {
	sql := b.literalToSQL(n.Value)
	if b.castTypedLiterals && n.Value != nil {
		return b.castWrap(sql, n.Type)
	}
	return sql
}

// literalToSQL binds val, or inlines it without params. nil is always the
// NULL keyword and never takes a placeholder.
func (b *baseVisitor) literalToSQL(val any) string {
	switch {
	case val == nil:
		return "NULL"
	case b.parameterize:
		return b.bind(val)
	}
	return b.inlineValue(val)
}

func (b *baseVisitor) inlineValue(val any) string {
	switch v := val.(type) {
	case nil:
		return "NULL"
	case string:
		return b.quote.String(v)
	case bool:
		if v {
			return "TRUE"
		}
		return "FALSE"
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return fmt.Sprintf("%d", v)
	case float32, float64:
		return fmt.Sprintf("%g", v)
	case time.Time:
		return "'" + v.UTC().Format("2006-01-02 15:04:05.999999") + "'"
	case []byte:
		return "X'" + hex.EncodeToString(v) + "'"
	case driver.Valuer:
		dv, err := v.Value()
		if err != nil {
			return b.fail(fmt.Errorf("casebulk: literal value: %w", err))
		}
		return b.inlineValue(dv)
	default:
		panic(fmt.Sprintf("casebulk: unsupported literal type %T", v))
	}
}

func (b *baseVisitor) VisitStar(n *nodes.StarNode) string {
	if n.Table != nil {
		return b.quote.Ident(n.Table.Name) + ".*"
	}
	return "*"
}

func (b *baseVisitor) VisitSqlLiteral(n *nodes.SqlLiteral) string {
	if b.parameterize && len(n.Binds) > 0 {
		b.params = append(b.params, n.Binds...)
		b.paramIndex += len(n.Binds)
	}
	return n.Raw
}

// render renders a child through the dialect.
func (b *baseVisitor) render(n nodes.Node) string { return n.Accept(b.outer) }

// list renders items left to right and joins them with sep.
func (b *baseVisitor) list(items []nodes.Node, sep string) string {
	parts := make([]string, len(items))
	for i, item := range items {
		parts[i] = b.render(item)
	}
	return strings.Join(parts, sep)
}

func (b *baseVisitor) VisitComparison(n *nodes.ComparisonNode) string {
	left := b.render(n.Left)
	return left + " " + comparisonOpSQL[n.Op] + " " + b.render(n.Right)
}

func (b *baseVisitor) VisitUnary(n *nodes.UnaryNode) string {
	switch n.Op {
	case nodes.OpIsNull:
		return b.render(n.Expr) + " IS NULL"
	case nodes.OpIsNotNull:
		return b.render(n.Expr) + " IS NOT NULL"
	}
	return b.render(n.Expr)
}

func (b *baseVisitor) VisitAnd(n *nodes.AndNode) string {
	left := b.render(n.Left)
	return left + " AND " + b.render(n.Right)
}

func (b *baseVisitor) VisitOr(n *nodes.OrNode) string {
	left := b.render(n.Left)
	return left + " OR " + b.render(n.Right)
}

func (b *baseVisitor) VisitNot(n *nodes.NotNode) string {
	return "NOT (" + b.render(n.Expr) + ")"
}

// negated prefixes keyword with NOT when neg is set.
func negated(keyword string, neg bool) string {
	if neg {
		return "NOT " + keyword
	}
	return keyword
}

func (b *baseVisitor) VisitIn(n *nodes.InNode) string {
	expr := b.render(n.Expr)
	return expr + " " + negated("IN", n.Negate) + " (" + b.list(n.Vals, ", ") + ")"
}

func (b *baseVisitor) VisitBetween(n *nodes.BetweenNode) string {
	expr := b.render(n.Expr)
	low := b.render(n.Low)
	return expr + " " + negated("BETWEEN", n.Negate) + " " + low + " AND " + b.render(n.High)
}

func (b *baseVisitor) VisitGrouping(n *nodes.GroupingNode) string {
	return "(" + b.render(n.Expr) + ")"
}

func (b *baseVisitor) VisitOrdering(n *nodes.OrderingNode) string {
	dir := " ASC"
	if n.Direction == nodes.Desc {
		dir = " DESC"
	}
	return b.render(n.Expr) + dir
}

func (b *baseVisitor) VisitUpdateStatement(n *nodes.UpdateStatement) string {
	sql := "UPDATE " + b.render(n.Table)
	if len(n.Assignments) > 0 {
		assigns := make([]nodes.Node, len(n.Assignments))
		for i, a := range n.Assignments {
			assigns[i] = a
		}
		sql += " SET " + b.list(assigns, ", ")
	}
	sql += b.clause(" WHERE ", n.Wheres, " AND ")
	return sql + b.clause(" RETURNING ", n.Returning, ", ")
}

// VisitAssignment renders col = value. The target column is unqualified:
// PostgreSQL and SQLite reject table-qualified SET targets.
func (b *baseVisitor) VisitAssignment(n *nodes.AssignmentNode) string {
	var left string
	if attr, ok := n.Left.(*nodes.Attribute); ok {
		left = b.quote.Ident(attr.Name)
	} else {
		left = b.render(n.Left)
	}
	right := b.render(n.Right)
	return left + " = " + right
}

func (b *baseVisitor) VisitInfix(n *nodes.InfixNode) string {
	left := b.operand(n.Left)
	return left + " " + infixOpSQL[n.Op] + " " + b.operand(n.Right)
}

func (b *baseVisitor) operand(n nodes.Node) string {
	if needsParens(n) {
		return "(" + b.render(n) + ")"
	}
	return b.render(n)
}

var aggregateFuncSQL = [...]string{
	nodes.AggCount: "COUNT",
	nodes.AggSum:   "SUM",
	nodes.AggAvg:   "AVG",
	nodes.AggMin:   "MIN",
	nodes.AggMax:   "MAX",
}

// VisitAggregate renders FUNC([DISTINCT] expr), or FUNC(*) without an
// expression.
func (b *baseVisitor) VisitAggregate(n *nodes.AggregateNode) string {
	arg := "*"
	if n.Expr != nil {
		arg = b.render(n.Expr)
	}
	if n.Distinct {
		arg = "DISTINCT " + arg
	}
	return aggregateFuncSQL[n.Func] + "(" + arg + ")"
}

// VisitCase renders a resolved CASE. With no branches it collapses to the
// default (or NULL) without a CASE wrapper. Placeholders are emitted, and
// parameters collected, strictly left to right: subject, then each branch's
// condition before its result, then the default.
func (b *baseVisitor) VisitCase(n *nodes.ResolvedCase) string {
	if len(n.Whens) == 0 {
		if n.Default != nil {
			return b.render(n.Default)
		}
		return "NULL"
	}
	var sb strings.Builder
	sb.WriteString("CASE")
	if n.Subject != nil {
		sb.WriteString(" " + b.render(n.Subject))
	}
	for _, w := range n.Whens {
		cond := b.render(w.Condition)
		sb.WriteString(" WHEN " + cond + " THEN " + b.render(w.Result))
	}
	if n.Default != nil {
		sb.WriteString(" ELSE " + b.render(n.Default))
	}
	sb.WriteString(" END")
	return b.wrapCase(sb.String(), n.OutputType)
}

// wrapCase applies the dialect's CASE cast, if any.
func (b *baseVisitor) wrapCase(sql string, t nodes.OutputType) string {
	if !b.castCase {
		return sql
	}
	return b.castWrap(sql, t)
}

func (b *baseVisitor) VisitAlias(n *nodes.AliasNode) string {
	return b.render(n.Expr) + " AS " + b.quote.Ident(n.Name)
}

// VisitBindParam binds even nil, unlike a literal.
func (b *baseVisitor) VisitBindParam(n *nodes.BindParamNode) string {
	if b.parameterize {
		return b.bind(n.Value)
	}
	return b.inlineValue(n.Value)
}

func (b *baseVisitor) VisitCasted(n *nodes.CastedNode) string {
	expr := b.render(n.Expr)
	if n.Type == nodes.TypeUnknown {
		return expr
	}
	if b.typeName == nil || b.typeName(n.Type) == "" {
		return b.fail(fmt.Errorf("casebulk: no %s type for cast to %s", b.dialect(), n.Type))
	}
	return b.castWrap(expr, n.Type)
}

// VisitUnresolved records a StateError: templates must be resolved against
// a scope before rendering.
func (b *baseVisitor) VisitUnresolved(n nodes.Node) string {
	var what string
	switch t := n.(type) {
	case *nodes.FieldRef:
		what = "field " + t.Name
	case *nodes.CaseNode:
		what = "CASE template"
	case *nodes.UpdateListNode:
		what = "update list"
	default:
		what = fmt.Sprintf("%T", n)
	}
	return b.fail(&nodes.StateError{Op: "render", Node: what, Reason: "node has not been resolved"})
}

func (b *baseVisitor) dialect() string {
	switch b.outer.(type) {
	case *PostgresVisitor:
		return "postgres"
	case *MySQLVisitor:
		return "mysql"
	case *SQLiteVisitor:
		return "sqlite"
	}
	return "sql"
}

// validateSQLTypeName panics on a CAST target outside letters, digits,
// underscore, space, parentheses and comma. Type names are spliced into
// the SQL unquoted.
func validateSQLTypeName(name string) {
	ok := func(c rune) bool {
		return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' ||
			strings.ContainsRune("_ (),", c)
	}
	for _, c := range name {
		if !ok(c) {
			panic(fmt.Sprintf("casebulk: invalid SQL type name character %q in %q", string(c), name))
		}
	}
}

func (b *baseVisitor) VisitSelectCore(n *nodes.SelectCore) string {
	sql := "SELECT "
	if n.Distinct {
		sql += "DISTINCT "
	}
	if len(n.Projections) == 0 {
		sql += "*"
	} else {
		sql += b.list(n.Projections, ", ")
	}
	if n.From != nil {
		sql += " FROM " + b.render(n.From)
	}
	sql += b.clause(" WHERE ", n.Wheres, " AND ")
	sql += b.clause(" GROUP BY ", n.Groups, ", ")
	sql += b.clause(" ORDER BY ", n.Orders, ", ")
	if n.Limit != nil {
		sql += " LIMIT " + b.render(n.Limit)
	}
	if n.Offset != nil {
		sql += " OFFSET " + b.render(n.Offset)
	}
	return sql
}

// clause renders keyword followed by items, or nothing when there are none.
func (b *baseVisitor) clause(keyword string, items []nodes.Node, sep string) string {
	if len(items) == 0 {
		return ""
	}
	return keyword + b.list(items, sep)
}
