package nodes

// InNode represents an IN or NOT IN set predicate.
type InNode struct {
	Combinable
	Expr   Node
	Vals   []Node
	Negate bool
}

func NewInNode(expr Node, vals []Node, negate bool) *InNode {
	n := &InNode{Expr: expr, Vals: vals, Negate: negate}
	n.self = n
	return n
}

func (n *InNode) Accept(v Visitor) string { return v.VisitIn(n) }

func (n *InNode) Resolve(s *Scope) (Node, error) {
	expr, err := Resolve(n.Expr, s)
	if err != nil {
		return nil, err
	}
	vals, err := resolveAll(n.Vals, s)
	if err != nil {
		return nil, err
	}
	return NewInNode(expr, vals, n.Negate), nil
}

// BetweenNode represents a BETWEEN or NOT BETWEEN range predicate.
type BetweenNode struct {
	Combinable
	Expr   Node
	Low    Node
	High   Node
	Negate bool
}

func NewBetweenNode(expr, low, high Node, negate bool) *BetweenNode {
	n := &BetweenNode{Expr: expr, Low: low, High: high, Negate: negate}
	n.self = n
	return n
}

func (n *BetweenNode) Accept(v Visitor) string { return v.VisitBetween(n) }

func (n *BetweenNode) Resolve(s *Scope) (Node, error) {
	expr, err := Resolve(n.Expr, s)
	if err != nil {
		return nil, err
	}
	low, high, err := resolvePair(n.Low, n.High, s)
	if err != nil {
		return nil, err
	}
	return NewBetweenNode(expr, low, high, n.Negate), nil
}
