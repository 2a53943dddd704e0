package nodes

// SelectCore represents the data container for a SELECT clause.
// The fluent API for building queries lives in the managers package.
type SelectCore struct {
	From        Node
	Projections []Node
	Wheres      []Node
	Groups      []Node // GROUP BY expressions
	Orders      []Node // OrderingNode values
	Limit       Node   // nil or LiteralNode
	Offset      Node   // nil or LiteralNode
	Distinct    bool
}

func (n *SelectCore) Accept(v Visitor) string { return v.VisitSelectCore(n) }

// Resolve returns a copy of the core with projections, conditions, groups
// and orderings bound to s.
func (n *SelectCore) Resolve(s *Scope) (*SelectCore, error) {
	out := &SelectCore{From: n.From, Limit: n.Limit, Offset: n.Offset, Distinct: n.Distinct}
	var err error
	if out.Projections, err = resolveAll(n.Projections, s); err != nil {
		return nil, err
	}
	if out.Wheres, err = resolveAll(n.Wheres, s); err != nil {
		return nil, err
	}
	if out.Groups, err = resolveAll(n.Groups, s); err != nil {
		return nil, err
	}
	if out.Orders, err = resolveAll(n.Orders, s); err != nil {
		return nil, err
	}
	return out, nil
}
