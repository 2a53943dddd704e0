package nodes

import "fmt"

// UpdateRow is one (key, value) pair of an update list: the row's primary
// key and the value its column should take.
type UpdateRow struct {
	Key   any
	Value any
}

// UpdateListNode maps many rows' keys to new values for a single column. It
// resolves to a simple CASE on the key column:
//
//	CASE "t"."id" WHEN $1 THEN $2 WHEN $3 THEN $4 ... END
//
// Keys are always literals, so conditions skip resolution entirely; only
// values that are themselves expressions are resolved.
type UpdateListNode struct {
	Subject    Node
	Rows       []UpdateRow
	OutputType OutputType
}

// NewUpdateList creates an update list keyed on subject (usually F("pk")).
func NewUpdateList(subject Node, rows []UpdateRow, typ OutputType) *UpdateListNode {
	return &UpdateListNode{Subject: subject, Rows: rows, OutputType: typ}
}

func (n *UpdateListNode) Accept(v Visitor) string { return v.VisitUnresolved(n) }

// Resolve builds the resolved simple CASE. An empty list resolves to a CASE
// with no branches and no default, which renders as NULL.
func (n *UpdateListNode) Resolve(s *Scope) (Node, error) {
	subj, err := Resolve(n.Subject, s)
	if err != nil {
		return nil, fmt.Errorf("update list key: %w", err)
	}
	out := &ResolvedCase{Subject: subj, OutputType: n.OutputType}
	if len(n.Rows) > 0 {
		out.Whens = make([]CaseWhen, len(n.Rows))
	}
	for i, r := range n.Rows {
		if !IsLiteral(r.Key) {
			return nil, &TypeMismatchError{Context: "update list key", Value: r.Key}
		}
		var res Node
		if expr, ok := r.Value.(Node); ok {
			if res, err = Resolve(expr, s); err != nil {
				return nil, fmt.Errorf("update list row %d: %w", i, err)
			}
		} else if IsLiteral(r.Value) {
			res = newLiteral(r.Value, n.OutputType)
		} else {
			return nil, &TypeMismatchError{Context: "update list value", Value: r.Value}
		}
		out.Whens[i] = CaseWhen{Condition: newLiteral(r.Key, TypeUnknown), Result: res}
	}
	out.init()
	return out, nil
}
