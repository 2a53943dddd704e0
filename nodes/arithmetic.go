package nodes

// InfixOp identifies the binary math or concat operator.
type InfixOp int

const (
	OpPlus InfixOp = iota
	OpMinus
	OpMultiply
	OpDivide
	OpModulo
	OpConcat
)

// InfixNode represents a binary math or concat expression.
type InfixNode struct {
	Predications
	Arithmetics
	Combinable
	Left  Node
	Right Node
	Op    InfixOp
}

func (n *InfixNode) Accept(v Visitor) string { return v.VisitInfix(n) }

// NewInfixNode creates an InfixNode with properly initialised embedded structs.
func NewInfixNode(left, right Node, op InfixOp) *InfixNode {
	n := &InfixNode{Left: left, Right: right, Op: op}
	n.Predications.self = n
	n.Arithmetics.self = n
	n.Combinable.self = n
	return n
}

// Resolve binds both operands.
func (n *InfixNode) Resolve(s *Scope) (Node, error) {
	left, err := Resolve(n.Left, s)
	if err != nil {
		return nil, err
	}
	right, err := Resolve(n.Right, s)
	if err != nil {
		return nil, err
	}
	return NewInfixNode(left, right, n.Op), nil
}
