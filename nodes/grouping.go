package nodes

// GroupingNode wraps an expression in parentheses for precedence control.
type GroupingNode struct {
	Predications
	Arithmetics
	Combinable
	Expr Node
}

func NewGroupingNode(expr Node) *GroupingNode {
	g := &GroupingNode{Expr: expr}
	g.Predications.self = g
	g.Arithmetics.self = g
	g.Combinable.self = g
	return g
}

// Group wraps expr in parentheses.
func Group(expr Node) *GroupingNode {
	return NewGroupingNode(expr)
}

func (n *GroupingNode) Accept(v Visitor) string { return v.VisitGrouping(n) }

func (n *GroupingNode) Resolve(s *Scope) (Node, error) {
	expr, err := Resolve(n.Expr, s)
	if err != nil {
		return nil, err
	}
	return NewGroupingNode(expr), nil
}
