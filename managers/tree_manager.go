// Package managers provides high-level fluent APIs for building SQL ASTs and
// the rendering entry point shared by every statement.
package managers

import (
	"github.com/bawdo/casebulk/nodes"
	"github.com/bawdo/casebulk/plugins"
)

// treeManager is the shared base for all manager types. It holds the
// transformer pipeline and the scope statements are resolved against.
type treeManager struct {
	transformers []plugins.Transformer
	scope        *nodes.Scope
}

// addTransformer appends a transformer plugin to the pipeline.
func (tm *treeManager) addTransformer(t plugins.Transformer) {
	tm.transformers = append(tm.transformers, t)
}

// Transformers returns the registered transformer pipeline.
func (tm *treeManager) Transformers() []plugins.Transformer {
	return tm.transformers
}

// Scope returns the scope field references are resolved against.
func (tm *treeManager) Scope() *nodes.Scope {
	return tm.scope
}

// Compile renders an already resolved node with v and returns the SQL and
// its parameters in placeholder order. The visitor is reset first, so one
// visitor can compile many statements in turn. A failure the visitor
// recorded, such as an unresolved template, is returned as the error.
func Compile(v nodes.Visitor, n nodes.Node) (string, []any, error) {
	p, _ := v.(nodes.Parameterizer)
	if p != nil {
		p.Reset()
	}
	sql := n.Accept(v)
	if r, ok := v.(nodes.ErrorReporter); ok {
		if err := r.Err(); err != nil {
			return "", nil, err
		}
	}
	if p == nil {
		return sql, nil, nil
	}
	return sql, p.Params(), nil
}
