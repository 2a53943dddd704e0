package nodes

// FieldRef is an unbound reference to a field by name. It is a template
// node: it must be resolved against a Scope, which turns it into an
// Attribute on the scope's relation.
type FieldRef struct {
	Predications
	Arithmetics
	Combinable
	Name string
}

// F creates a FieldRef. The special name "pk" refers to the scope's
// primary-key column.
func F(name string) *FieldRef {
	f := &FieldRef{Name: name}
	f.Predications.self = f
	f.Arithmetics.self = f
	f.Combinable.self = f
	return f
}

func (f *FieldRef) Accept(v Visitor) string { return v.VisitUnresolved(f) }

// Resolve returns the Attribute the name refers to in s.
func (f *FieldRef) Resolve(s *Scope) (Node, error) {
	return s.Column(f.Name)
}
