// Package nodes defines the AST node types used to represent SQL expressions,
// CASE constructs and UPDATE statements, together with the resolution pass
// that binds column references to a query scope.
package nodes

// Node is the interface that all AST nodes implement.
type Node interface {
	Accept(visitor Visitor) string
}

// Resolvable is implemented by nodes that must be bound to a Scope before
// they can be rendered. Resolve never mutates the receiver; it returns a
// freshly built node whose children are all resolved.
type Resolvable interface {
	Resolve(s *Scope) (Node, error)
}

// Visitor defines the interface for walking the AST and producing output.
// Concrete visitors (e.g., Postgres, MySQL) implement this interface.
type Visitor interface {
	VisitTable(node *Table) string
	VisitTableAlias(node *TableAlias) string
	VisitAttribute(node *Attribute) string
	VisitLiteral(node *LiteralNode) string
	VisitStar(node *StarNode) string
	VisitSqlLiteral(node *SqlLiteral) string
	VisitComparison(node *ComparisonNode) string
	VisitUnary(node *UnaryNode) string
	VisitAnd(node *AndNode) string
	VisitOr(node *OrNode) string
	VisitNot(node *NotNode) string
	VisitIn(node *InNode) string
	VisitBetween(node *BetweenNode) string
	VisitGrouping(node *GroupingNode) string
	VisitOrdering(node *OrderingNode) string
	VisitSelectCore(node *SelectCore) string
	VisitUpdateStatement(node *UpdateStatement) string
	VisitAssignment(node *AssignmentNode) string
	VisitInfix(node *InfixNode) string
	VisitAggregate(node *AggregateNode) string
	VisitCase(node *ResolvedCase) string
	VisitAlias(node *AliasNode) string
	VisitBindParam(node *BindParamNode) string
	VisitCasted(node *CastedNode) string
	// VisitUnresolved is called by template nodes (field references, CASE
	// templates) that reach a visitor without having been resolved.
	VisitUnresolved(node Node) string
}

// Parameterizer is implemented by visitors that support parameterized queries.
// Callers use type assertion to extract collected parameters after SQL generation.
type Parameterizer interface {
	Params() []any
	Reset()
}

// ErrorReporter is implemented by visitors that record the first rendering
// failure instead of panicking. Err is cleared by Reset.
type ErrorReporter interface {
	Err() error
}

// Resolve binds n to the scope. Resolvable nodes are rebuilt; bound leaves
// (literals, attributes, bind params) are returned unchanged since they are
// never mutated after construction.
func Resolve(n Node, s *Scope) (Node, error) {
	if n == nil {
		return nil, nil
	}
	if r, ok := n.(Resolvable); ok {
		return r.Resolve(s)
	}
	return n, nil
}

func resolveAll(ns []Node, s *Scope) ([]Node, error) {
	if ns == nil {
		return nil, nil
	}
	out := make([]Node, len(ns))
	for i, n := range ns {
		r, err := Resolve(n, s)
		if err != nil {
			return nil, err
		}
		out[i] = r
	}
	return out, nil
}

// AssignmentNode represents a column = value pair in SET clauses.
type AssignmentNode struct {
	Left  Node // column (Attribute)
	Right Node // value
}

func (n *AssignmentNode) Accept(v Visitor) string { return v.VisitAssignment(n) }

// Resolve binds both sides of the assignment.
func (n *AssignmentNode) Resolve(s *Scope) (*AssignmentNode, error) {
	left, err := Resolve(n.Left, s)
	if err != nil {
		return nil, err
	}
	right, err := Resolve(n.Right, s)
	if err != nil {
		return nil, err
	}
	return &AssignmentNode{Left: left, Right: right}, nil
}

// UpdateStatement represents UPDATE ... SET ... WHERE.
type UpdateStatement struct {
	Table       Node
	Assignments []*AssignmentNode
	Wheres      []Node
	Returning   []Node
}

func (n *UpdateStatement) Accept(v Visitor) string { return v.VisitUpdateStatement(n) }

// Resolve returns a copy of the statement with every assignment, condition
// and RETURNING column bound to s.
func (n *UpdateStatement) Resolve(s *Scope) (*UpdateStatement, error) {
	out := &UpdateStatement{Table: n.Table}
	out.Assignments = make([]*AssignmentNode, len(n.Assignments))
	for i, a := range n.Assignments {
		ra, err := a.Resolve(s)
		if err != nil {
			return nil, err
		}
		out.Assignments[i] = ra
	}
	var err error
	if out.Wheres, err = resolveAll(n.Wheres, s); err != nil {
		return nil, err
	}
	if out.Returning, err = resolveAll(n.Returning, s); err != nil {
		return nil, err
	}
	return out, nil
}
