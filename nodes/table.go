package nodes

// Table is the relation a bulk update writes to or a query reads from.
type Table struct {
	Name string
}

func NewTable(name string) *Table { return &Table{Name: name} }

func (t *Table) Accept(v Visitor) string { return v.VisitTable(t) }

// Col is a column already bound to t. Use F for names that still need a
// scope.
func (t *Table) Col(name string) *Attribute { return NewAttribute(t, name) }

func (t *Table) Alias(name string) *TableAlias {
	return &TableAlias{Relation: t, AliasName: name}
}

// Star is t.*.
func (t *Table) Star() *StarNode { return &StarNode{Table: t} }

// Scope creates a resolution scope whose field references bind to this table.
func (t *Table) Scope(opts ...ScopeOption) *Scope {
	return NewScope(t, opts...)
}

// TableAlias is "relation AS name". Columns bound to it are qualified with
// the alias.
type TableAlias struct {
	Relation  Node // *Table or any Node
	AliasName string
}

func (ta *TableAlias) Accept(v Visitor) string { return v.VisitTableAlias(ta) }

func (ta *TableAlias) Col(name string) *Attribute { return NewAttribute(ta, name) }

// Scope creates a resolution scope whose field references bind to the alias.
func (ta *TableAlias) Scope(opts ...ScopeOption) *Scope {
	return NewScope(ta, opts...)
}

// RelationName is the name columns of n are qualified with: the alias for a
// TableAlias, the table name for a Table.
func RelationName(n Node) string {
	switch r := n.(type) {
	case *Table:
		return r.Name
	case *TableAlias:
		return r.AliasName
	default:
		return ""
	}
}

// TableSourceName is the real table behind n, looking through an alias. An
// alias over anything other than a Table yields the alias name.
func TableSourceName(n Node) string {
	switch r := n.(type) {
	case *Table:
		return r.Name
	case *TableAlias:
		if tbl, ok := r.Relation.(*Table); ok {
			return tbl.Name
		}
		return r.AliasName
	default:
		return ""
	}
}
