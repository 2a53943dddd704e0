package nodes

// Predications is embedded by expression nodes to give them comparison,
// membership, aliasing and ordering builders. self is the embedding node
// and becomes the left operand of everything built here.
type Predications struct {
	self Node
}

func (p Predications) compare(op ComparisonOp, val any) *ComparisonNode {
	return NewComparisonNode(p.self, Literal(val), op)
}

// Comparisons. val is wrapped with Literal, so it may be a plain Go value
// or another node (a field reference, arithmetic, a CASE).

func (p Predications) Eq(val any) *ComparisonNode      { return p.compare(OpEq, val) }
func (p Predications) NotEq(val any) *ComparisonNode   { return p.compare(OpNotEq, val) }
func (p Predications) Gt(val any) *ComparisonNode      { return p.compare(OpGt, val) }
func (p Predications) GtEq(val any) *ComparisonNode    { return p.compare(OpGtEq, val) }
func (p Predications) Lt(val any) *ComparisonNode      { return p.compare(OpLt, val) }
func (p Predications) LtEq(val any) *ComparisonNode    { return p.compare(OpLtEq, val) }
func (p Predications) Like(val any) *ComparisonNode    { return p.compare(OpLike, val) }
func (p Predications) NotLike(val any) *ComparisonNode { return p.compare(OpNotLike, val) }

// IsDistinctFrom is a NULL-safe inequality.
func (p Predications) IsDistinctFrom(val any) *ComparisonNode {
	return p.compare(OpDistinctFrom, val)
}

// IsNotDistinctFrom is a NULL-safe equality.
func (p Predications) IsNotDistinctFrom(val any) *ComparisonNode {
	return p.compare(OpNotDistinctFrom, val)
}

// In builds self IN (vals...). The bulk updater uses it to restrict an
// UPDATE to the keys of one batch.
func (p Predications) In(vals ...any) *InNode {
	return NewInNode(p.self, literalList(vals), false)
}

func (p Predications) NotIn(vals ...any) *InNode {
	return NewInNode(p.self, literalList(vals), true)
}

// Between is inclusive on both ends.
func (p Predications) Between(low, high any) *BetweenNode {
	return NewBetweenNode(p.self, Literal(low), Literal(high), false)
}

func (p Predications) NotBetween(low, high any) *BetweenNode {
	return NewBetweenNode(p.self, Literal(low), Literal(high), true)
}

func (p Predications) IsNull() *UnaryNode    { return NewUnaryNode(p.self, OpIsNull) }
func (p Predications) IsNotNull() *UnaryNode { return NewUnaryNode(p.self, OpIsNotNull) }

// As names self in a projection, e.g. a CASE annotation.
func (p Predications) As(name string) *AliasNode { return NewAliasNode(p.self, name) }

func (p Predications) Asc() *OrderingNode  { return NewOrderingNode(p.self, Asc) }
func (p Predications) Desc() *OrderingNode { return NewOrderingNode(p.self, Desc) }

func literalList(vals []any) []Node {
	out := make([]Node, 0, len(vals))
	for _, v := range vals {
		out = append(out, Literal(v))
	}
	return out
}
