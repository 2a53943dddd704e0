package nodes

import "fmt"

// Scope is the query context expressions are resolved against. It names the
// relation column references bind to and, optionally, the set of columns
// that exist on it.
type Scope struct {
	Relation   Node // *Table or *TableAlias
	PrimaryKey string

	// columns maps a field name to its column. nil means any name is
	// accepted and used verbatim as the column name.
	columns map[string]column
}

type column struct {
	name string
	typ  OutputType
}

// ScopeOption configures a Scope.
type ScopeOption func(*Scope)

// WithPrimaryKey sets the column that the "pk" field name resolves to.
func WithPrimaryKey(col string) ScopeOption {
	return func(s *Scope) { s.PrimaryKey = col }
}

// WithColumn declares a field name, the column it maps to and its type.
// Once any column is declared, references to undeclared names fail.
func WithColumn(name, col string, typ OutputType) ScopeOption {
	return func(s *Scope) {
		if s.columns == nil {
			s.columns = make(map[string]column)
		}
		s.columns[name] = column{name: col, typ: typ}
	}
}

// NewScope creates a scope over relation.
func NewScope(relation Node, opts ...ScopeOption) *Scope {
	s := &Scope{Relation: relation}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Alias returns a copy of the scope whose references bind to the alias
// instead of the base relation. The column map is shared read-only.
func (s *Scope) Alias(alias *TableAlias) *Scope {
	return &Scope{Relation: alias, PrimaryKey: s.PrimaryKey, columns: s.columns}
}

// Column binds a field name to an Attribute on the scope's relation.
func (s *Scope) Column(name string) (*Attribute, error) {
	if s == nil || s.Relation == nil {
		return nil, &StateError{Op: "resolve", Node: "field " + name, Reason: "no scope to resolve against"}
	}
	if name == "pk" {
		if s.PrimaryKey == "" {
			return nil, fmt.Errorf("casebulk: scope %q has no primary key", RelationName(s.Relation))
		}
		name = s.PrimaryKey
	}
	if s.columns == nil {
		return NewAttribute(s.Relation, name), nil
	}
	c, ok := s.columns[name]
	if !ok {
		return nil, fmt.Errorf("casebulk: unknown field %q on %q", name, RelationName(s.Relation))
	}
	return NewAttribute(s.Relation, c.name).Typed(c.typ), nil
}
