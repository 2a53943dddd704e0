package nodes

// Combinable gives predicate nodes And, Or and Not. self is the embedding
// node.
type Combinable struct {
	self Node
}

func (c Combinable) And(other Node) *AndNode { return NewAndNode(c.self, other) }

// Or is grouped so it keeps its precedence inside a larger AND.
func (c Combinable) Or(other Node) *GroupingNode {
	return NewGroupingNode(NewOrNode(c.self, other))
}

func (c Combinable) Not() *NotNode { return NewNotNode(c.self) }
