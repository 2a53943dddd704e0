package nodes

// AggregateFunc identifies the aggregate function.
type AggregateFunc int

const (
	AggCount AggregateFunc = iota
	AggSum
	AggAvg
	AggMin
	AggMax
)

// AggregateNode is an aggregate call. Its argument is usually a CASE, for
// conditional counts and sums such as SUM(CASE WHEN ... THEN 1 ELSE 0 END).
type AggregateNode struct {
	Predications
	Arithmetics
	Combinable
	Func     AggregateFunc
	Expr     Node // nil renders COUNT(*)
	Distinct bool
}

func (n *AggregateNode) Accept(v Visitor) string { return v.VisitAggregate(n) }

// NewAggregateNode wires the embedded builders to the new node.
func NewAggregateNode(fn AggregateFunc, expr Node) *AggregateNode {
	n := &AggregateNode{Func: fn, Expr: expr}
	n.Predications.self = n
	n.Arithmetics.self = n
	n.Combinable.self = n
	return n
}

func (n *AggregateNode) Resolve(s *Scope) (Node, error) {
	expr, err := Resolve(n.Expr, s)
	if err != nil {
		return nil, err
	}
	out := NewAggregateNode(n.Func, expr)
	out.Distinct = n.Distinct
	return out, nil
}

func Count(expr Node) *AggregateNode { return NewAggregateNode(AggCount, expr) }
func Sum(expr Node) *AggregateNode   { return NewAggregateNode(AggSum, expr) }
func Avg(expr Node) *AggregateNode   { return NewAggregateNode(AggAvg, expr) }
func Min(expr Node) *AggregateNode   { return NewAggregateNode(AggMin, expr) }
func Max(expr Node) *AggregateNode   { return NewAggregateNode(AggMax, expr) }

// CountDistinct is COUNT(DISTINCT expr).
func CountDistinct(expr Node) *AggregateNode {
	n := Count(expr)
	n.Distinct = true
	return n
}
