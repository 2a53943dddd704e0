package nodes

// Attribute represents a column reference bound to a table or table alias.
// It is already resolved: resolving it again returns it unchanged.
type Attribute struct {
	Predications
	Arithmetics
	Combinable
	Name     string
	Relation Node       // *Table or *TableAlias
	Type     OutputType // semantic column type, if known
}

// NewAttribute creates an Attribute with Predications and Combinable
// properly initialized to reference the new Attribute as self.
func NewAttribute(relation Node, name string) *Attribute {
	a := &Attribute{Name: name, Relation: relation}
	a.Predications.self = a
	a.Arithmetics.self = a
	a.Combinable.self = a
	return a
}

func (a *Attribute) Accept(v Visitor) string { return v.VisitAttribute(a) }

// Typed returns a copy of the Attribute with Type set.
// The copy has its own Predications/Arithmetics/Combinable self pointers.
func (a *Attribute) Typed(typ OutputType) *Attribute {
	c := NewAttribute(a.Relation, a.Name)
	c.Type = typ
	return c
}

// Coerce wraps val as a literal tagged with the attribute's type.
// Nodes are returned unchanged.
func (a *Attribute) Coerce(val any) Node {
	if n, ok := val.(Node); ok {
		return n
	}
	return newLiteral(val, a.Type)
}
