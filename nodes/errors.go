package nodes

import "fmt"

// TypeMismatchError is returned when a value handed to a CASE constructor or
// an update list is neither a Node nor a recognised literal type.
type TypeMismatchError struct {
	Context string // where the value was supplied, e.g. "searched case condition"
	Value   any
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("casebulk: %s: unsupported value of type %T", e.Context, e.Value)
}

// StateError reports an operation attempted in the wrong lifecycle state:
// rendering a template that was never resolved, or resolving a node that is
// already bound.
type StateError struct {
	Op     string
	Node   string
	Reason string
}

func (e *StateError) Error() string {
	return fmt.Sprintf("casebulk: cannot %s %s: %s", e.Op, e.Node, e.Reason)
}
