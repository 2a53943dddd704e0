package visitors

import (
	"strings"

	"github.com/bawdo/casebulk/nodes"
)

// FormattingVisitor lays out SQL from a dialect visitor over several lines
// for display. It overrides SELECT, UPDATE and CASE; every other node goes
// to the embedded dialect visitor unchanged, so parameters are collected in
// the same order as the single-line rendering.
type FormattingVisitor struct {
	nodes.Visitor
}

var _ nodes.Visitor = (*FormattingVisitor)(nil)
var _ nodes.Parameterizer = (*FormattingVisitor)(nil)
var _ nodes.ErrorReporter = (*FormattingVisitor)(nil)

// caseWrapper is implemented by the dialect visitors in this package.
type caseWrapper interface {
	wrapCase(sql string, t nodes.OutputType) string
}

func NewFormattingVisitor(inner nodes.Visitor) *FormattingVisitor {
	if inner == nil {
		panic("casebulk: FormattingVisitor requires a non-nil inner visitor")
	}
	return &FormattingVisitor{Visitor: inner}
}

// Params, Reset, Err and MaxParams forward to the dialect visitor when it
// supports them.
func (f *FormattingVisitor) Params() []any {
	if p, ok := f.Visitor.(nodes.Parameterizer); ok {
		return p.Params()
	}
	return nil
}

func (f *FormattingVisitor) Reset() {
	if p, ok := f.Visitor.(nodes.Parameterizer); ok {
		p.Reset()
	}
}

func (f *FormattingVisitor) Err() error {
	if r, ok := f.Visitor.(nodes.ErrorReporter); ok {
		return r.Err()
	}
	return nil
}

func (f *FormattingVisitor) MaxParams() int {
	if l, ok := f.Visitor.(interface{ MaxParams() int }); ok {
		return l.MaxParams()
	}
	return 0
}

// VisitSelectCore starts each clause on a new line, with leading-comma
// projections and one AND per line.
func (f *FormattingVisitor) VisitSelectCore(node *nodes.SelectCore) string {
	var sb strings.Builder

	sb.WriteString("SELECT")
	if node.Distinct {
		sb.WriteString(" DISTINCT")
	}

	if len(node.Projections) == 0 {
		sb.WriteString(" *")
	} else {
		sb.WriteString(" ")
		sb.WriteString(node.Projections[0].Accept(f))
		for _, p := range node.Projections[1:] {
			sb.WriteString("\n\t,")
			sb.WriteString(p.Accept(f))
		}
	}

	if node.From != nil {
		sb.WriteString("\nFROM ")
		sb.WriteString(node.From.Accept(f.Visitor))
	}
	f.writeList(&sb, "\nWHERE ", "\n\tAND ", node.Wheres)
	f.writeList(&sb, "\nGROUP BY ", ", ", node.Groups)
	f.writeList(&sb, "\nORDER BY ", ", ", node.Orders)
	if node.Limit != nil {
		sb.WriteString("\nLIMIT ")
		sb.WriteString(node.Limit.Accept(f.Visitor))
	}
	if node.Offset != nil {
		sb.WriteString("\nOFFSET ")
		sb.WriteString(node.Offset.Accept(f.Visitor))
	}

	return sb.String()
}

// VisitUpdateStatement puts each clause and each extra assignment on its own
// line.
func (f *FormattingVisitor) VisitUpdateStatement(n *nodes.UpdateStatement) string {
	var sb strings.Builder
	sb.WriteString("UPDATE ")
	sb.WriteString(n.Table.Accept(f.Visitor))

	if len(n.Assignments) > 0 {
		sb.WriteString("\nSET ")
		for i, a := range n.Assignments {
			if i > 0 {
				sb.WriteString("\n\t,")
			}
			sb.WriteString(f.assignment(a))
		}
	}
	f.writeList(&sb, "\nWHERE ", "\n\tAND ", n.Wheres)
	f.writeList(&sb, "\nRETURNING ", "\n\t,", n.Returning)

	return sb.String()
}

// assignment keeps the target unqualified, as the dialect renders it, and
// lays a CASE value out one branch per line.
func (f *FormattingVisitor) assignment(a *nodes.AssignmentNode) string {
	rc, ok := a.Right.(*nodes.ResolvedCase)
	if !ok {
		return a.Accept(f.Visitor)
	}
	target := (&nodes.AssignmentNode{Left: a.Left, Right: nodes.NewSqlLiteral("")}).Accept(f.Visitor)
	return target + rc.Accept(f)
}

// VisitCase renders each WHEN on its own indented line.
func (f *FormattingVisitor) VisitCase(n *nodes.ResolvedCase) string {
	if len(n.Whens) == 0 {
		return f.Visitor.VisitCase(n)
	}
	var sb strings.Builder
	sb.WriteString("CASE")
	if n.Subject != nil {
		sb.WriteString(" ")
		sb.WriteString(n.Subject.Accept(f.Visitor))
	}
	for _, w := range n.Whens {
		sb.WriteString("\n\t\tWHEN ")
		sb.WriteString(w.Condition.Accept(f.Visitor))
		sb.WriteString(" THEN ")
		sb.WriteString(w.Result.Accept(f.Visitor))
	}
	if n.Default != nil {
		sb.WriteString("\n\t\tELSE ")
		sb.WriteString(n.Default.Accept(f.Visitor))
	}
	sb.WriteString("\n\tEND")
	if cw, ok := f.Visitor.(caseWrapper); ok {
		return cw.wrapCase(sb.String(), n.OutputType)
	}
	return sb.String()
}

func (f *FormattingVisitor) writeList(sb *strings.Builder, keyword, sep string, items []nodes.Node) {
	for i, item := range items {
		if i == 0 {
			sb.WriteString(keyword)
		} else {
			sb.WriteString(sep)
		}
		sb.WriteString(item.Accept(f.Visitor))
	}
}
