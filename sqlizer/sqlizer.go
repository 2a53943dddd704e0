// Package sqlizer lets casebulk expressions be embedded in
// Masterminds/squirrel builders. An Expr renders with "?" placeholders, so
// the surrounding builder's PlaceholderFormat numbers them together with
// its own arguments:
//
//	label := nodes.NewCase().When(nodes.F("qty").Lt(2), "few").Else("many")
//	q := squirrel.Update("items").
//		Set("label", sqlizer.New(label, items.Scope())).
//		PlaceholderFormat(squirrel.Dollar)
package sqlizer

import (
	"github.com/Masterminds/squirrel"

	"github.com/bawdo/casebulk/managers"
	"github.com/bawdo/casebulk/nodes"
	"github.com/bawdo/casebulk/visitors"
)

// Expr adapts a node to squirrel.Sqlizer.
type Expr struct {
	node       nodes.Node
	scope      *nodes.Scope
	newVisitor func() nodes.Visitor
}

var _ squirrel.Sqlizer = (*Expr)(nil)

// Option configures an Expr.
type Option func(*Expr)

// WithVisitor sets the visitor constructor used for each render. The
// visitor must emit "?" placeholders; the default is a SQLite visitor,
// whose double-quoted identifiers PostgreSQL also accepts. Use a MySQL
// visitor for backtick quoting.
func WithVisitor(fn func() nodes.Visitor) Option {
	return func(e *Expr) { e.newVisitor = fn }
}

// New wraps n. Templates in n are resolved against scope on every call to
// ToSql; scope may be nil for a node that is already resolved.
func New(n nodes.Node, scope *nodes.Scope, opts ...Option) *Expr {
	e := &Expr{node: n, scope: scope, newVisitor: func() nodes.Visitor { return visitors.NewSQLiteVisitor() }}
	for _, o := range opts {
		o(e)
	}
	return e
}

// ToSql implements squirrel.Sqlizer.
func (e *Expr) ToSql() (string, []any, error) {
	n := e.node
	if e.scope != nil {
		var err error
		if n, err = nodes.Resolve(n, e.scope); err != nil {
			return "", nil, err
		}
	}
	return managers.Compile(e.newVisitor(), n)
}
