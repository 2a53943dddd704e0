package plugins

import (
	"testing"

	"github.com/bawdo/casebulk/nodes"
)

func TestCollectTablesFromTable(t *testing.T) {
	t.Parallel()
	users := nodes.NewTable("users")
	core := &nodes.SelectCore{From: users}

	refs := CollectTables(core)
	if len(refs) != 1 {
		t.Fatalf("expected 1 ref, got %d", len(refs))
	}
	if refs[0].Name != "users" {
		t.Errorf("expected name 'users', got %q", refs[0].Name)
	}
	if refs[0].Relation != users {
		t.Error("expected relation to be the table")
	}
}

func TestCollectTablesFromAlias(t *testing.T) {
	t.Parallel()
	u := nodes.NewTable("users").Alias("u")
	core := &nodes.SelectCore{From: u}

	refs := CollectTables(core)
	if len(refs) != 1 {
		t.Fatalf("expected 1 ref, got %d", len(refs))
	}
	if refs[0].Name != "users" {
		t.Errorf("expected underlying name 'users', got %q", refs[0].Name)
	}
	if refs[0].Relation != u {
		t.Error("expected relation to be the alias")
	}
}

func TestCollectTablesSkipsSubquery(t *testing.T) {
	t.Parallel()
	core := &nodes.SelectCore{From: &nodes.SelectCore{From: nodes.NewTable("posts")}}
	if refs := CollectTables(core); len(refs) != 0 {
		t.Fatalf("expected subquery skipped, got %d refs", len(refs))
	}
}

func TestCollectTablesNilFrom(t *testing.T) {
	t.Parallel()
	if refs := CollectTables(&nodes.SelectCore{}); len(refs) != 0 {
		t.Errorf("expected 0 refs, got %d", len(refs))
	}
}

func TestTargetTable(t *testing.T) {
	t.Parallel()
	users := nodes.NewTable("users")
	ref, ok := TargetTable(&nodes.UpdateStatement{Table: users})
	if !ok || ref.Name != "users" || ref.Relation != users {
		t.Errorf("unexpected ref %+v (ok=%v)", ref, ok)
	}
	if _, ok := TargetTable(&nodes.UpdateStatement{Table: nodes.NewSqlLiteral("x")}); ok {
		t.Error("expected raw SQL target to be skipped")
	}
}
