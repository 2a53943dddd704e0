package nodes

// CastedNode represents an explicit CAST(expr AS type). The dialect maps Type
// to its own column type name.
type CastedNode struct {
	Predications
	Arithmetics
	Combinable
	Expr Node
	Type OutputType
}

func (n *CastedNode) Accept(v Visitor) string { return v.VisitCasted(n) }

// NewCasted creates a CastedNode with properly initialised embedded structs.
// Raw values are wrapped with Literal.
func NewCasted(expr any, typ OutputType) *CastedNode {
	n := &CastedNode{Expr: Literal(expr), Type: typ}
	n.Predications.self = n
	n.Arithmetics.self = n
	n.Combinable.self = n
	return n
}

// Resolve binds the cast operand.
func (n *CastedNode) Resolve(s *Scope) (Node, error) {
	expr, err := Resolve(n.Expr, s)
	if err != nil {
		return nil, err
	}
	return NewCasted(expr, n.Type), nil
}
