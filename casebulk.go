// Package casebulk writes many rows in a few statements: each batch of rows
// becomes one UPDATE whose SET clauses are CASE expressions keyed on the
// primary key.
//
// This package re-exports commonly used types and functions from subpackages
// for convenience. Advanced users can import subpackages directly:
//   - github.com/bawdo/casebulk/bulk (bulk updater, batching, transactions)
//   - github.com/bawdo/casebulk/schema (models and entities)
//   - github.com/bawdo/casebulk/nodes (CASE templates and AST nodes)
//   - github.com/bawdo/casebulk/managers (query builders)
//   - github.com/bawdo/casebulk/visitors (SQL generation)
//   - github.com/bawdo/casebulk/sqlizer (squirrel adapter)
package casebulk

import (
	"database/sql"

	"github.com/bawdo/casebulk/bulk"
	"github.com/bawdo/casebulk/managers"
	"github.com/bawdo/casebulk/nodes"
	"github.com/bawdo/casebulk/schema"
	"github.com/bawdo/casebulk/visitors"
)

// --- Bulk update ---

// Updater writes entities of one model in batched CASE updates.
type Updater = bulk.Updater

// Statement is one planned batch: its SQL and bind parameters.
type Statement = bulk.Statement

// Transactor runs a function inside a transaction.
type Transactor = bulk.Transactor

// NewUpdater creates an Updater for model, rendering with v and executing
// through tx.
func NewUpdater(model *schema.Model, v nodes.Visitor, tx bulk.Transactor, opts ...bulk.Option) *bulk.Updater {
	return bulk.New(model, v, tx, opts...)
}

// DBTransactor runs each bulk update in its own transaction on db.
func DBTransactor(db *sql.DB) bulk.Transactor {
	return bulk.DBTransactor(db)
}

// TxTransactor runs bulk updates inside a transaction the caller owns.
func TxTransactor(tx *sql.Tx) bulk.Transactor {
	return bulk.TxTransactor(tx)
}

// --- Models ---

// Model describes a table that can be bulk updated.
type Model = schema.Model

// Entity is one row to be written.
type Entity = schema.Entity

// Row is a map-backed Entity.
type Row = schema.Row

// Register builds a Model from a struct's db tags.
func Register(v any, opts ...schema.Option) (*schema.Model, error) {
	return schema.Register(v, opts...)
}

// WithTable overrides the table name derived from the struct name.
func WithTable(name string) schema.Option {
	return schema.WithTable(name)
}

// --- CASE expressions ---

// Node is the base interface all AST nodes implement.
type Node = nodes.Node

// When is one WHEN ... THEN ... pair.
type When = nodes.When

// F references a field by name, resolved against a model or table scope.
func F(name string) *nodes.FieldRef {
	return nodes.F(name)
}

// NewCase starts a fluent CASE template. With a subject it is a simple
// CASE, otherwise a searched one.
func NewCase(subject ...any) *nodes.CaseNode {
	return nodes.NewCase(subject...)
}

// SearchedCase builds CASE WHEN <predicate> THEN ... END.
func SearchedCase(whens []nodes.When, opts ...nodes.CaseOption) (*nodes.CaseNode, error) {
	return nodes.SearchedCase(whens, opts...)
}

// SimpleCase builds CASE <subject> WHEN <value> THEN ... END.
func SimpleCase(subject any, whens []nodes.When, opts ...nodes.CaseOption) (*nodes.CaseNode, error) {
	return nodes.SimpleCase(subject, whens, opts...)
}

// WithDefault sets the ELSE result. A nil default renders ELSE NULL.
func WithDefault(val any) nodes.CaseOption {
	return nodes.WithDefault(val)
}

// WithOutputType declares the SQL type of the CASE result.
func WithOutputType(t nodes.OutputType) nodes.CaseOption {
	return nodes.WithOutputType(t)
}

// --- Managers ---

// NewSelect creates a new SelectManager with the given table as FROM.
func NewSelect(from nodes.Node) *managers.SelectManager {
	return managers.NewSelectManager(from)
}

// NewUpdate creates a new UpdateManager for updating the given table.
func NewUpdate(table nodes.Node) *managers.UpdateManager {
	return managers.NewUpdateManager(table)
}

// NewTable creates a new table reference.
func NewTable(name string) *nodes.Table {
	return nodes.NewTable(name)
}

// --- Visitors ---

// NewSQLiteVisitor creates a new SQLite visitor.
func NewSQLiteVisitor(opts ...visitors.Option) *visitors.SQLiteVisitor {
	return visitors.NewSQLiteVisitor(opts...)
}

// NewPostgresVisitor creates a new PostgreSQL visitor.
func NewPostgresVisitor(opts ...visitors.Option) *visitors.PostgresVisitor {
	return visitors.NewPostgresVisitor(opts...)
}

// NewMySQLVisitor creates a new MySQL visitor.
func NewMySQLVisitor(opts ...visitors.Option) *visitors.MySQLVisitor {
	return visitors.NewMySQLVisitor(opts...)
}

// WithoutParams disables parameterised query mode.
//
// WARNING: values are inlined into the SQL. Only use for debugging or when
// every value is trusted.
func WithoutParams() visitors.Option {
	return visitors.WithoutParams()
}
