// Package plugins defines Transformer, the hook for rewriting statements
// after field references are resolved and before they are rendered.
//
// Because transformers run after resolution they see bound Attributes, and
// any condition they add is built directly on the statement's relation.
package plugins

import "github.com/bawdo/casebulk/nodes"

// Transformer rewrites SELECT and UPDATE statements. Managers apply
// transformers in the order they were added, to a copy of the statement.
type Transformer interface {
	TransformSelect(core *nodes.SelectCore) (*nodes.SelectCore, error)
	TransformUpdate(stmt *nodes.UpdateStatement) (*nodes.UpdateStatement, error)
}

// BaseTransformer returns every statement unchanged. Embed it and override
// the hooks a plugin needs.
type BaseTransformer struct{}

func (BaseTransformer) TransformSelect(c *nodes.SelectCore) (*nodes.SelectCore, error) {
	return c, nil
}

func (BaseTransformer) TransformUpdate(s *nodes.UpdateStatement) (*nodes.UpdateStatement, error) {
	return s, nil
}
