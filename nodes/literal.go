package nodes

import (
	"database/sql/driver"
	"reflect"
	"time"

	"github.com/google/uuid"
)

// LiteralNode wraps a raw Go value (string, int, float, bool, etc.) as an AST node.
// Type optionally tags the value with the output type of the column it is
// destined for; dialects that need explicit casts use it.
type LiteralNode struct {
	Predications
	Arithmetics
	Combinable
	Value any
	Type  OutputType
}

func (n *LiteralNode) Accept(v Visitor) string { return v.VisitLiteral(n) }

// Literal wraps a raw Go value into a LiteralNode. If val already
// implements Node, it is returned as-is.
func Literal(val any) Node {
	if n, ok := val.(Node); ok {
		return n
	}
	return newLiteral(val, TypeUnknown)
}

func newLiteral(val any, typ OutputType) *LiteralNode {
	if v, ok := scalar(val); ok {
		val = v
	}
	lit := &LiteralNode{Value: val, Type: typ}
	lit.Predications.self = lit
	lit.Arithmetics.self = lit
	lit.Combinable.self = lit
	return lit
}

// Value is the checked form of Literal used by CASE constructors and update
// lists: Nodes pass through, recognised literal types are wrapped, and any
// other value is a *TypeMismatchError.
func Value(val any) (Node, error) {
	return TypedValue(val, TypeUnknown)
}

// TypedValue is Value with the resulting literal tagged with typ.
func TypedValue(val any, typ OutputType) (Node, error) {
	if n, ok := val.(Node); ok {
		return n, nil
	}
	if !IsLiteral(val) {
		return nil, &TypeMismatchError{Context: "value", Value: val}
	}
	return newLiteral(val, typ), nil
}

// IsLiteral reports whether val is a Go value that can be bound as a query
// parameter. Named types over a scalar kind (type Status string) count.
func IsLiteral(val any) bool {
	_, ok := scalar(val)
	return ok
}

// scalar returns val as a bindable value. Named scalar types are converted
// to their base type, since drivers and inlining only know the base types.
func scalar(val any) (any, bool) {
	switch val.(type) {
	case nil, bool, string, []byte,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64,
		time.Time, uuid.UUID, driver.Valuer:
		return val, true
	}
	rv := reflect.ValueOf(val)
	switch rv.Kind() {
	case reflect.Bool:
		return rv.Bool(), true
	case reflect.String:
		return rv.String(), true
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int(), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return rv.Uint(), true
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	case reflect.Slice:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			return rv.Bytes(), true
		}
	}
	return val, false
}

// StarNode represents a SQL star (*) or qualified star (table.*).
type StarNode struct {
	Table *Table // nil for unqualified *
}

func (n *StarNode) Accept(v Visitor) string { return v.VisitStar(n) }

// SqlLiteral represents a raw SQL fragment injected verbatim into the query.
//
// SECURITY: The Raw field is rendered directly into SQL output without escaping
// or parameterization. Never pass user-controlled input to NewSqlLiteral or
// NewBoundSqlLiteral's raw parameter. Use parameterized queries (BindParam)
// for user-provided values.
type SqlLiteral struct {
	Predications
	Arithmetics
	Combinable
	Raw   string
	Binds []any // optional bind parameters for parameterized mode
}

func NewSqlLiteral(raw string) *SqlLiteral {
	n := &SqlLiteral{Raw: raw}
	n.Predications.self = n
	n.Arithmetics.self = n
	n.Combinable.self = n
	return n
}

func (n *SqlLiteral) Accept(v Visitor) string { return v.VisitSqlLiteral(n) }

// NewBoundSqlLiteral creates a SqlLiteral with bind parameters.
// In parameterized mode, the binds are added to the parameter list.
//
// SECURITY: Only the binds are parameterized. The raw string is injected
// verbatim into SQL output and must not contain user-controlled input.
func NewBoundSqlLiteral(raw string, binds ...any) *SqlLiteral {
	n := NewSqlLiteral(raw)
	n.Binds = binds
	return n
}

// Star returns an unqualified StarNode representing SQL *.
func Star() *StarNode {
	return &StarNode{}
}
