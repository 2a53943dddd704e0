package nodes

// Arithmetics provides math methods to types that embed it.
// The self field must be set to the embedding node.
type Arithmetics struct {
	self Node
}

func (a Arithmetics) newInfix(op InfixOp, val any) *InfixNode {
	return NewInfixNode(a.self, Literal(val), op)
}

func (a Arithmetics) Plus(val any) *InfixNode     { return a.newInfix(OpPlus, val) }
func (a Arithmetics) Minus(val any) *InfixNode    { return a.newInfix(OpMinus, val) }
func (a Arithmetics) Multiply(val any) *InfixNode { return a.newInfix(OpMultiply, val) }
func (a Arithmetics) Divide(val any) *InfixNode   { return a.newInfix(OpDivide, val) }
func (a Arithmetics) Modulo(val any) *InfixNode   { return a.newInfix(OpModulo, val) }
func (a Arithmetics) Concat(val any) *InfixNode   { return a.newInfix(OpConcat, val) }
