package plugins

import (
	"testing"

	"github.com/bawdo/casebulk/nodes"
)

// auditTransformer only overrides updates.
type auditTransformer struct {
	BaseTransformer
}

func (auditTransformer) TransformUpdate(s *nodes.UpdateStatement) (*nodes.UpdateStatement, error) {
	ref, _ := TargetTable(s)
	s.Assignments = append(s.Assignments, &nodes.AssignmentNode{
		Left:  nodes.NewAttribute(ref.Relation, "updated_by"),
		Right: nodes.Literal("bulk"),
	})
	return s, nil
}

func TestBaseTransformerPassesStatementsThrough(t *testing.T) {
	t.Parallel()
	var bt BaseTransformer
	items := nodes.NewTable("items")

	core := &nodes.SelectCore{From: items, Wheres: []nodes.Node{items.Col("id").Eq(1)}}
	gotCore, err := bt.TransformSelect(core)
	if err != nil || gotCore != core {
		t.Errorf("expected select unchanged, got %v (err %v)", gotCore, err)
	}

	stmt := &nodes.UpdateStatement{Table: items, Wheres: []nodes.Node{items.Col("id").In(1, 2)}}
	gotStmt, err := bt.TransformUpdate(stmt)
	if err != nil || gotStmt != stmt {
		t.Errorf("expected update unchanged, got %v (err %v)", gotStmt, err)
	}
}

func TestEmbeddedBaseFillsUnusedHooks(t *testing.T) {
	t.Parallel()
	var tr Transformer = auditTransformer{}
	items := nodes.NewTable("items")

	core := &nodes.SelectCore{From: items}
	if got, _ := tr.TransformSelect(core); got != core || len(got.Wheres) != 0 {
		t.Error("expected select hook to be a no-op")
	}

	stmt, err := tr.TransformUpdate(&nodes.UpdateStatement{Table: items})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(stmt.Assignments) != 1 {
		t.Fatalf("expected 1 assignment, got %d", len(stmt.Assignments))
	}
	if attr, ok := stmt.Assignments[0].Left.(*nodes.Attribute); !ok || attr.Name != "updated_by" {
		t.Errorf("unexpected assignment target %v", stmt.Assignments[0].Left)
	}
}
