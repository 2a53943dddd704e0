package softdelete

import (
	"testing"

	"github.com/bawdo/casebulk/internal/testutil"
	"github.com/bawdo/casebulk/nodes"
	"github.com/bawdo/casebulk/plugins"
	"github.com/bawdo/casebulk/visitors"
)

func pg() nodes.Visitor {
	return visitors.NewPostgresVisitor(visitors.WithoutParams())
}

// --- Default behaviour ---

func TestDefaultColumnDeletedAt(t *testing.T) {
	t.Parallel()
	users := nodes.NewTable("users")

	result, err := New().TransformSelect(&nodes.SelectCore{From: users})
	testutil.AssertNoError(t, err)
	testutil.AssertSQL(t, pg(), result, `SELECT * FROM "users" WHERE "users"."deleted_at" IS NULL`)
}

func TestCustomColumnName(t *testing.T) {
	t.Parallel()
	users := nodes.NewTable("users")

	result, err := New(WithColumn("removed_at")).TransformSelect(&nodes.SelectCore{From: users})
	testutil.AssertNoError(t, err)
	testutil.AssertSQL(t, pg(), result, `SELECT * FROM "users" WHERE "users"."removed_at" IS NULL`)
}

func TestPreservesExistingWheres(t *testing.T) {
	t.Parallel()
	users := nodes.NewTable("users")
	core := &nodes.SelectCore{
		From:   users,
		Wheres: []nodes.Node{users.Col("active").Eq(true)},
	}

	result, err := New().TransformSelect(core)
	testutil.AssertNoError(t, err)
	testutil.AssertSQL(t, pg(), result,
		`SELECT * FROM "users" WHERE "users"."active" = TRUE AND "users"."deleted_at" IS NULL`)
}

// --- Table alias ---

func TestAppliedToTableAlias(t *testing.T) {
	t.Parallel()
	u := nodes.NewTable("users").Alias("u")

	result, err := New().TransformSelect(&nodes.SelectCore{From: u})
	testutil.AssertNoError(t, err)
	// Column should be qualified with the alias
	testutil.AssertSQL(t, pg(), result, `SELECT * FROM "users" AS "u" WHERE "u"."deleted_at" IS NULL`)
}

func TestWithTablesMatchesByUnderlyingName(t *testing.T) {
	t.Parallel()
	u := nodes.NewTable("users").Alias("u")

	result, err := New(WithTables("users")).TransformSelect(&nodes.SelectCore{From: u})
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, len(result.Wheres), 1)
}

func TestWithTablesSkipsOtherTables(t *testing.T) {
	t.Parallel()
	posts := nodes.NewTable("posts")

	result, err := New(WithTables("users")).TransformSelect(&nodes.SelectCore{From: posts})
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, len(result.Wheres), 0)
}

func TestNoTablesIsNoOp(t *testing.T) {
	t.Parallel()
	result, err := New().TransformSelect(&nodes.SelectCore{})
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, len(result.Wheres), 0)
}

// --- Per-table column overrides ---

func TestWithTableColumn(t *testing.T) {
	t.Parallel()
	users := nodes.NewTable("users")

	result, err := New(WithTableColumn("users", "removed_at")).TransformSelect(&nodes.SelectCore{From: users})
	testutil.AssertNoError(t, err)
	testutil.AssertSQL(t, pg(), result, `SELECT * FROM "users" WHERE "users"."removed_at" IS NULL`)
}

func TestWithTableColumnFallsBackToDefault(t *testing.T) {
	t.Parallel()
	sd := New(
		WithTableColumn("posts", "removed_at"),
		WithTables("users", "posts"),
	)
	users := nodes.NewTable("users")
	result, err := sd.TransformSelect(&nodes.SelectCore{From: users})
	testutil.AssertNoError(t, err)
	testutil.AssertSQL(t, pg(), result, `SELECT * FROM "users" WHERE "users"."deleted_at" IS NULL`)

	posts := nodes.NewTable("posts")
	result, err = sd.TransformSelect(&nodes.SelectCore{From: posts})
	testutil.AssertNoError(t, err)
	testutil.AssertSQL(t, pg(), result, `SELECT * FROM "posts" WHERE "posts"."removed_at" IS NULL`)
}

// --- UPDATE ---

func TestTransformUpdateGuardsTarget(t *testing.T) {
	t.Parallel()
	users := nodes.NewTable("users")
	stmt := &nodes.UpdateStatement{
		Table:       users,
		Assignments: []*nodes.AssignmentNode{{Left: users.Col("age"), Right: nodes.Literal(3)}},
		Wheres:      []nodes.Node{users.Col("id").In(1, 2)},
	}

	result, err := New().TransformUpdate(stmt)
	testutil.AssertNoError(t, err)
	testutil.AssertSQL(t, pg(), result,
		`UPDATE "users" SET "age" = 3 WHERE "users"."id" IN (1, 2) AND "users"."deleted_at" IS NULL`)
}

func TestTransformUpdateRespectsTables(t *testing.T) {
	t.Parallel()
	stmt := &nodes.UpdateStatement{Table: nodes.NewTable("audit")}

	result, err := New(WithTables("users")).TransformUpdate(stmt)
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, len(result.Wheres), 0)
}

// --- Implements Transformer interface ---

func TestImplementsTransformer(t *testing.T) {
	t.Parallel()
	var _ plugins.Transformer = New()
}
