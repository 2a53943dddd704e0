package managers

import (
	"fmt"

	"github.com/bawdo/casebulk/nodes"
	"github.com/bawdo/casebulk/plugins"
)

// UpdateManager provides a fluent API for building UPDATE statements.
// Targets, values and conditions may be unresolved templates (field
// references, CASE templates, update lists); ToSQL resolves them against
// the manager's scope before rendering.
type UpdateManager struct {
	treeManager
	Statement *nodes.UpdateStatement
}

// NewUpdateManager creates a new UpdateManager targeting the given table.
// Field references resolve against the table with no declared columns
// unless WithScope supplies a richer scope.
func NewUpdateManager(table nodes.Node) *UpdateManager {
	m := &UpdateManager{
		Statement: &nodes.UpdateStatement{Table: table},
	}
	m.scope = nodes.NewScope(table)
	return m
}

// WithScope sets the scope used to resolve the statement.
func (m *UpdateManager) WithScope(s *nodes.Scope) *UpdateManager {
	m.scope = s
	return m
}

// Set adds a column assignment to the SET clause. col is a field name or a
// Node; val can be a raw Go value or a Node.
func (m *UpdateManager) Set(col any, val any) *UpdateManager {
	var left nodes.Node
	switch c := col.(type) {
	case string:
		left = nodes.F(c)
	case nodes.Node:
		left = c
	default:
		panic(fmt.Sprintf("casebulk: Set column must be a string or Node, got %T", col))
	}
	m.Statement.Assignments = append(m.Statement.Assignments, &nodes.AssignmentNode{
		Left:  left,
		Right: nodes.Literal(val),
	})
	return m
}

// Where appends conditions to the WHERE clause.
func (m *UpdateManager) Where(conditions ...nodes.Node) *UpdateManager {
	m.Statement.Wheres = append(m.Statement.Wheres, conditions...)
	return m
}

// Returning sets the RETURNING clause columns.
func (m *UpdateManager) Returning(cols ...nodes.Node) *UpdateManager {
	m.Statement.Returning = cols
	return m
}

// Use registers a transformer plugin.
func (m *UpdateManager) Use(t plugins.Transformer) *UpdateManager {
	m.addTransformer(t)
	return m
}

// Build resolves the statement against the scope and runs the transformer
// pipeline. The manager's own statement is never modified.
func (m *UpdateManager) Build() (*nodes.UpdateStatement, error) {
	stmt, err := m.Statement.Resolve(m.scope)
	if err != nil {
		return nil, err
	}
	for _, t := range m.transformers {
		stmt, err = t.TransformUpdate(stmt)
		if err != nil {
			return nil, err
		}
	}
	return stmt, nil
}

// ToSQL builds the statement and renders it with v, returning the SQL and
// its parameters in placeholder order.
func (m *UpdateManager) ToSQL(v nodes.Visitor) (string, []any, error) {
	stmt, err := m.Build()
	if err != nil {
		return "", nil, err
	}
	return Compile(v, stmt)
}
