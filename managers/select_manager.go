package managers

import (
	"github.com/bawdo/casebulk/nodes"
	"github.com/bawdo/casebulk/plugins"
)

// SelectManager builds SELECT statements: reading rows back after a bulk
// update, and annotating or aggregating over CASE expressions.
type SelectManager struct {
	treeManager
	Core *nodes.SelectCore
}

// NewSelectManager reads from from, which also becomes the scope field
// references resolve against. A nil from leaves FROM and the scope unset.
func NewSelectManager(from nodes.Node) *SelectManager {
	m := &SelectManager{Core: &nodes.SelectCore{From: from}}
	if from != nil {
		m.scope = nodes.NewScope(from)
	}
	return m
}

// WithScope replaces the scope, typically with a model's.
func (m *SelectManager) WithScope(s *nodes.Scope) *SelectManager {
	m.scope = s
	return m
}

// Select replaces the projection list.
func (m *SelectManager) Select(projections ...nodes.Node) *SelectManager {
	m.Core.Projections = projections
	return m
}

// Project is Select.
func (m *SelectManager) Project(projections ...nodes.Node) *SelectManager {
	return m.Select(projections...)
}

// Distinct sets DISTINCT, or clears it with Distinct(false).
func (m *SelectManager) Distinct(on ...bool) *SelectManager {
	m.Core.Distinct = len(on) == 0 || on[0]
	return m
}

// Where adds conditions, ANDed with any already present.
func (m *SelectManager) Where(conditions ...nodes.Node) *SelectManager {
	m.Core.Wheres = append(m.Core.Wheres, conditions...)
	return m
}

func (m *SelectManager) Group(columns ...nodes.Node) *SelectManager {
	m.Core.Groups = append(m.Core.Groups, columns...)
	return m
}

func (m *SelectManager) Order(orderings ...nodes.Node) *SelectManager {
	m.Core.Orders = append(m.Core.Orders, orderings...)
	return m
}

func (m *SelectManager) Limit(n int) *SelectManager {
	m.Core.Limit = nodes.Literal(n)
	return m
}

func (m *SelectManager) Offset(n int) *SelectManager {
	m.Core.Offset = nodes.Literal(n)
	return m
}

// Use adds a transformer, run after resolution in the order added.
func (m *SelectManager) Use(t plugins.Transformer) *SelectManager {
	m.addTransformer(t)
	return m
}

// Build resolves a copy of the query and runs the transformers over it.
// The manager's own Core is never modified.
func (m *SelectManager) Build() (*nodes.SelectCore, error) {
	core, err := m.Core.Resolve(m.scope)
	if err != nil {
		return nil, err
	}
	for _, t := range m.transformers {
		if core, err = t.TransformSelect(core); err != nil {
			return nil, err
		}
	}
	return core, nil
}

// ToSQL builds the query and renders it with v, returning the SQL and its
// parameters in placeholder order.
func (m *SelectManager) ToSQL(v nodes.Visitor) (string, []any, error) {
	core, err := m.Build()
	if err != nil {
		return "", nil, err
	}
	return Compile(v, core)
}
