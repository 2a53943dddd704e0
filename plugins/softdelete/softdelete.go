// Package softdelete provides a Transformer that automatically injects
// "column IS NULL" conditions into SELECT and UPDATE statements, so
// soft-deleted rows are neither read nor rewritten by a bulk update.
//
// By default it appends WHERE "deleted_at" IS NULL for the table a
// statement reads from or writes to. Both the column name and the
// set of tables can be customised via options.
//
// # Basic usage
//
//	sd := softdelete.New()
//	query := managers.NewSelectManager(table)
//	query.Use(sd)
//	// SELECT * FROM "users" WHERE "users"."deleted_at" IS NULL
//
// # Custom column
//
//	sd := softdelete.New(softdelete.WithColumn("removed_at"))
//	// ... WHERE "users"."removed_at" IS NULL
//
// # Restrict to specific tables
//
// When only some tables use soft-delete:
//
//	sd := softdelete.New(softdelete.WithTables("users"))
//	// Only "users" gets the IS NULL condition; other tables are unchanged.
//
// # Per-table columns
//
// Different tables may use different column names for soft-delete:
//
//	sd := softdelete.New(
//	    softdelete.WithTableColumn("users", "deleted_at"),
//	    softdelete.WithTableColumn("posts", "removed_at"),
//	)
//	// users gets "deleted_at" IS NULL; posts gets "removed_at" IS NULL
//
// # Bulk updates
//
//	u := bulk.New(model, visitor, tx, bulk.WithTransformers(softdelete.New()))
//	// UPDATE "users" SET ... WHERE "users"."id" IN (...) AND "users"."deleted_at" IS NULL
package softdelete

import (
	"github.com/bawdo/casebulk/nodes"
	"github.com/bawdo/casebulk/plugins"
)

// SoftDelete guards statements with "<column> IS NULL". It applies to every
// table unless options name the tables.
type SoftDelete struct {
	plugins.BaseTransformer
	column string
	// only, when non-nil, lists the tables guarded, each with its column
	// ("" meaning the default column).
	only map[string]string
}

// Option configures a SoftDelete.
type Option func(*SoftDelete)

// WithColumn sets the default column. It is "deleted_at" otherwise.
func WithColumn(name string) Option {
	return func(sd *SoftDelete) { sd.column = name }
}

// WithTables guards only the named tables.
func WithTables(names ...string) Option {
	return func(sd *SoftDelete) {
		for _, n := range names {
			sd.guardTable(n, "")
		}
	}
}

// WithTableColumn guards table using column, and restricts the plugin to
// the tables it names.
func WithTableColumn(table, column string) Option {
	return func(sd *SoftDelete) { sd.guardTable(table, column) }
}

func (sd *SoftDelete) guardTable(table, column string) {
	if sd.only == nil {
		sd.only = make(map[string]string)
	}
	if column == "" {
		column = sd.only[table]
	}
	sd.only[table] = column
}

func New(opts ...Option) *SoftDelete {
	sd := &SoftDelete{column: "deleted_at"}
	for _, o := range opts {
		o(sd)
	}
	return sd
}

// TransformSelect hides soft-deleted rows from a read.
func (sd *SoftDelete) TransformSelect(core *nodes.SelectCore) (*nodes.SelectCore, error) {
	for _, ref := range plugins.CollectTables(core) {
		if cond, ok := sd.guard(ref); ok {
			core.Wheres = append(core.Wheres, cond)
		}
	}
	return core, nil
}

// TransformUpdate keeps a bulk update from rewriting soft-deleted rows.
func (sd *SoftDelete) TransformUpdate(stmt *nodes.UpdateStatement) (*nodes.UpdateStatement, error) {
	if ref, ok := plugins.TargetTable(stmt); ok {
		if cond, ok := sd.guard(ref); ok {
			stmt.Wheres = append(stmt.Wheres, cond)
		}
	}
	return stmt, nil
}

func (sd *SoftDelete) guard(ref plugins.TableRef) (nodes.Node, bool) {
	col := sd.column
	if sd.only != nil {
		c, ok := sd.only[ref.Name]
		if !ok {
			return nil, false
		}
		if c != "" {
			col = c
		}
	}
	return nodes.NewAttribute(ref.Relation, col).IsNull(), true
}
