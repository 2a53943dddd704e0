package nodes

// UnaryOp represents a unary postfix operator.
type UnaryOp int

const (
	OpIsNull UnaryOp = iota
	OpIsNotNull
)

// UnaryNode represents a unary predicate: Expr IS NULL / IS NOT NULL.
type UnaryNode struct {
	Combinable
	Expr Node
	Op   UnaryOp
}

func NewUnaryNode(expr Node, op UnaryOp) *UnaryNode {
	n := &UnaryNode{Expr: expr, Op: op}
	n.self = n
	return n
}

func (n *UnaryNode) Accept(v Visitor) string { return v.VisitUnary(n) }

func (n *UnaryNode) Resolve(s *Scope) (Node, error) {
	expr, err := Resolve(n.Expr, s)
	if err != nil {
		return nil, err
	}
	return NewUnaryNode(expr, n.Op), nil
}
