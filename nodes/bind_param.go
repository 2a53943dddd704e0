package nodes

// BindParamNode forces its value through a placeholder, even nil, which a
// LiteralNode would render as NULL. With parameters disabled it is inlined.
type BindParamNode struct {
	Value any
}

func NewBindParam(value any) *BindParamNode { return &BindParamNode{Value: value} }

func (n *BindParamNode) Accept(v Visitor) string { return v.VisitBindParam(n) }
