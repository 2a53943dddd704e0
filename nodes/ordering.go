package nodes

// OrderDirection represents ASC or DESC ordering.
type OrderDirection int

const (
	Asc OrderDirection = iota
	Desc
)

// OrderingNode represents an ORDER BY expression with a direction.
type OrderingNode struct {
	Expr      Node
	Direction OrderDirection
}

func NewOrderingNode(expr Node, dir OrderDirection) *OrderingNode {
	return &OrderingNode{Expr: expr, Direction: dir}
}

func (n *OrderingNode) Accept(v Visitor) string { return v.VisitOrdering(n) }

func (n *OrderingNode) Resolve(s *Scope) (Node, error) {
	expr, err := Resolve(n.Expr, s)
	if err != nil {
		return nil, err
	}
	return NewOrderingNode(expr, n.Direction), nil
}
