package nodes

// AndNode represents a logical AND between two expressions.
type AndNode struct {
	Combinable
	Left  Node
	Right Node
}

func NewAndNode(left, right Node) *AndNode {
	n := &AndNode{Left: left, Right: right}
	n.self = n
	return n
}

func (n *AndNode) Accept(v Visitor) string { return v.VisitAnd(n) }

func (n *AndNode) Resolve(s *Scope) (Node, error) {
	left, right, err := resolvePair(n.Left, n.Right, s)
	if err != nil {
		return nil, err
	}
	return NewAndNode(left, right), nil
}

// OrNode represents a logical OR between two expressions.
type OrNode struct {
	Combinable
	Left  Node
	Right Node
}

func NewOrNode(left, right Node) *OrNode {
	n := &OrNode{Left: left, Right: right}
	n.self = n
	return n
}

func (n *OrNode) Accept(v Visitor) string { return v.VisitOr(n) }

func (n *OrNode) Resolve(s *Scope) (Node, error) {
	left, right, err := resolvePair(n.Left, n.Right, s)
	if err != nil {
		return nil, err
	}
	return NewOrNode(left, right), nil
}

// NotNode represents a logical NOT of an expression.
type NotNode struct {
	Combinable
	Expr Node
}

func NewNotNode(expr Node) *NotNode {
	n := &NotNode{Expr: expr}
	n.self = n
	return n
}

func (n *NotNode) Accept(v Visitor) string { return v.VisitNot(n) }

func (n *NotNode) Resolve(s *Scope) (Node, error) {
	expr, err := Resolve(n.Expr, s)
	if err != nil {
		return nil, err
	}
	return NewNotNode(expr), nil
}

// All joins predicates with AND. A single predicate is returned unchanged
// and no predicates yields nil.
func All(preds ...Node) Node {
	return chainAnd(preds)
}

// chainAnd chains nodes with AND.
// Returns nil if nds is empty.
func chainAnd(nds []Node) Node {
	if len(nds) == 0 {
		return nil
	}
	result := nds[0]
	for i := 1; i < len(nds); i++ {
		result = NewAndNode(result, nds[i])
	}
	return result
}

func resolvePair(a, b Node, s *Scope) (Node, Node, error) {
	ra, err := Resolve(a, s)
	if err != nil {
		return nil, nil, err
	}
	rb, err := Resolve(b, s)
	if err != nil {
		return nil, nil, err
	}
	return ra, rb, nil
}
