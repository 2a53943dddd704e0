package nodes

import "fmt"

// Condition guards one CASE branch. It is either a SearchCondition (a
// boolean predicate, used by searched CASE) or an EqualityCondition (a value
// compared against the subject, used by simple CASE).
type Condition interface {
	Node() Node
	isCondition()
}

// SearchCondition is a boolean predicate guarding a searched-CASE branch.
type SearchCondition struct {
	Predicate Node
}

func (c SearchCondition) Node() Node { return c.Predicate }
func (SearchCondition) isCondition() {}

// EqualityCondition is a value the simple-CASE subject is compared against.
type EqualityCondition struct {
	Value Node
}

func (c EqualityCondition) Node() Node { return c.Value }
func (EqualityCondition) isCondition() {}

// Branch is one WHEN ... THEN ... pair. Branch order is significant: the
// first matching branch wins.
type Branch struct {
	Condition Condition
	Result    Node
}

// When is the constructor input for a branch. Cond and Then accept Nodes or
// raw literal values; searched CASE requires Cond to be a Node.
type When struct {
	Cond any
	Then any
}

// CaseOption configures a CASE template.
type CaseOption func(*CaseNode) error

// WithDefault sets the ELSE value. WithDefault(nil) renders ELSE NULL, which
// differs from having no default at all.
func WithDefault(val any) CaseOption {
	return func(n *CaseNode) error {
		d, err := Value(val)
		if err != nil {
			return &TypeMismatchError{Context: "case default", Value: val}
		}
		n.Default = d
		return nil
	}
}

// WithOutputType sets the type the whole CASE evaluates to.
func WithOutputType(t OutputType) CaseOption {
	return func(n *CaseNode) error {
		n.OutputType = t
		return nil
	}
}

// CaseNode is an unresolved CASE template:
//
//	CASE [subject] WHEN cond THEN result ... [ELSE default] END
//
// Subject is nil for a searched CASE. A template cannot be rendered; Resolve
// produces a *ResolvedCase and leaves the template untouched, so one template
// can be resolved against any number of scopes.
type CaseNode struct {
	Predications
	Arithmetics
	Combinable
	Subject    Node
	Branches   []Branch
	Default    Node // nil when no ELSE was given
	OutputType OutputType

	err error // first error recorded by the fluent builder
}

func newCaseNode(subject Node) *CaseNode {
	n := &CaseNode{Subject: subject}
	n.Predications.self = n
	n.Arithmetics.self = n
	n.Combinable.self = n
	return n
}

// SearchedCase builds a searched CASE. Every When.Cond must be a predicate
// Node; use All to guard a branch with several predicates.
func SearchedCase(whens []When, opts ...CaseOption) (*CaseNode, error) {
	n := newCaseNode(nil)
	for _, w := range whens {
		if err := n.addBranch(w.Cond, w.Then); err != nil {
			return nil, err
		}
	}
	if err := n.apply(opts); err != nil {
		return nil, err
	}
	return n, nil
}

// SimpleCase builds a simple CASE over subject, which is either a field name
// or a Node. Conditions may be literals or Nodes.
func SimpleCase(subject any, whens []When, opts ...CaseOption) (*CaseNode, error) {
	subj, err := subjectNode(subject)
	if err != nil {
		return nil, err
	}
	n := newCaseNode(subj)
	for _, w := range whens {
		if err := n.addBranch(w.Cond, w.Then); err != nil {
			return nil, err
		}
	}
	if err := n.apply(opts); err != nil {
		return nil, err
	}
	return n, nil
}

// NewCase starts a fluent CASE template. Pass a subject (field name or Node)
// for a simple CASE, or nothing for a searched CASE. Construction errors are
// kept and reported by Err and Resolve.
func NewCase(subject ...any) *CaseNode {
	if len(subject) == 0 {
		return newCaseNode(nil)
	}
	subj, err := subjectNode(subject[0])
	n := newCaseNode(subj)
	n.err = err
	return n
}

// When appends a branch and returns the CaseNode for chaining.
func (n *CaseNode) When(cond, result any) *CaseNode {
	if n.err == nil {
		n.err = n.addBranch(cond, result)
	}
	return n
}

// Else sets the ELSE value and returns the CaseNode for chaining.
func (n *CaseNode) Else(result any) *CaseNode {
	if n.err == nil {
		n.err = WithDefault(result)(n)
	}
	return n
}

// Output sets the output type and returns the CaseNode for chaining.
func (n *CaseNode) Output(t OutputType) *CaseNode {
	n.OutputType = t
	return n
}

// Err returns the first error recorded while building the template.
func (n *CaseNode) Err() error { return n.err }

// Searched reports whether the template is a searched CASE.
func (n *CaseNode) Searched() bool { return n.Subject == nil }

func (n *CaseNode) Accept(v Visitor) string { return v.VisitUnresolved(n) }

func (n *CaseNode) apply(opts []CaseOption) error {
	for _, o := range opts {
		if err := o(n); err != nil {
			return err
		}
	}
	return nil
}

func (n *CaseNode) addBranch(cond, result any) error {
	var c Condition
	if n.Searched() {
		pred, ok := cond.(Node)
		if !ok || pred == nil {
			return &TypeMismatchError{Context: "searched case condition", Value: cond}
		}
		c = SearchCondition{Predicate: pred}
	} else {
		val, err := Value(cond)
		if err != nil {
			return &TypeMismatchError{Context: "simple case condition", Value: cond}
		}
		c = EqualityCondition{Value: val}
	}
	res, err := Value(result)
	if err != nil {
		return &TypeMismatchError{Context: "case result", Value: result}
	}
	n.Branches = append(n.Branches, Branch{Condition: c, Result: res})
	return nil
}

func subjectNode(subject any) (Node, error) {
	switch s := subject.(type) {
	case string:
		return F(s), nil
	case Node:
		if s != nil {
			return s, nil
		}
	}
	return nil, &TypeMismatchError{Context: "simple case subject", Value: subject}
}

// Resolve binds every branch, the default and the subject to s and returns a
// new *ResolvedCase. The receiver is not modified.
func (n *CaseNode) Resolve(s *Scope) (Node, error) {
	if n.err != nil {
		return nil, n.err
	}
	out := &ResolvedCase{OutputType: n.OutputType}
	if n.Subject != nil {
		subj, err := Resolve(n.Subject, s)
		if err != nil {
			return nil, fmt.Errorf("case subject: %w", err)
		}
		out.Subject = subj
	}
	if len(n.Branches) > 0 {
		out.Whens = make([]CaseWhen, len(n.Branches))
	}
	for i, b := range n.Branches {
		cond, err := Resolve(b.Condition.Node(), s)
		if err != nil {
			return nil, fmt.Errorf("case branch %d condition: %w", i, err)
		}
		res, err := Resolve(b.Result, s)
		if err != nil {
			return nil, fmt.Errorf("case branch %d result: %w", i, err)
		}
		out.Whens[i] = CaseWhen{Condition: cond, Result: res}
	}
	if n.Default != nil {
		d, err := Resolve(n.Default, s)
		if err != nil {
			return nil, fmt.Errorf("case default: %w", err)
		}
		out.Default = d
	}
	out.init()
	return out, nil
}

// CaseWhen is a resolved WHEN ... THEN ... pair. For a simple CASE the
// condition is the value compared against the subject; for a searched CASE
// it is a boolean predicate.
type CaseWhen struct {
	Condition Node
	Result    Node
}

// ResolvedCase is a CASE expression bound to one scope and ready to render.
// It can be rendered any number of times; resolving it again is a StateError.
type ResolvedCase struct {
	Predications
	Arithmetics
	Combinable
	Subject    Node // nil for a searched CASE
	Whens      []CaseWhen
	Default    Node // nil when there is no ELSE
	OutputType OutputType
}

func (n *ResolvedCase) init() {
	n.Predications.self = n
	n.Arithmetics.self = n
	n.Combinable.self = n
}

func (n *ResolvedCase) Accept(v Visitor) string { return v.VisitCase(n) }

// Resolve always fails: a resolved CASE is bound to the scope it was
// resolved against and is never re-bound.
func (n *ResolvedCase) Resolve(*Scope) (Node, error) {
	return nil, &StateError{Op: "resolve", Node: "CASE expression", Reason: "already resolved"}
}
