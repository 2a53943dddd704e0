package schema

import (
	"fmt"
	"reflect"

	"github.com/bawdo/casebulk/nodes"
)

// Entity is one row to be written: its primary key and the value of each
// field. A nil PrimaryKey marks an entity that has never been saved.
// Values may be literals or nodes.Node expressions.
type Entity interface {
	PrimaryKey() any
	Value(f *Field) any
}

// Row is a map-backed Entity. A field absent from Values keeps the row's
// current value; an explicit nil writes NULL.
type Row struct {
	PK     any
	Values map[string]any // keyed by field name or column
}

func (r Row) PrimaryKey() any { return r.PK }

func (r Row) Value(f *Field) any {
	if v, ok := r.Values[f.Name]; ok {
		return v
	}
	if v, ok := r.Values[f.Column]; ok {
		return v
	}
	return nodes.F(f.Column)
}

// structEntity adapts a struct registered with Register.
type structEntity struct {
	model *Model
	v     reflect.Value
}

func (e structEntity) PrimaryKey() any {
	fv := e.v.FieldByIndex(e.model.PK.index)
	if fv.IsZero() {
		return nil
	}
	return deref(fv)
}

func (e structEntity) Value(f *Field) any {
	if f.index == nil {
		return nil
	}
	return deref(e.v.FieldByIndex(f.index))
}

func deref(v reflect.Value) any {
	for v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return nil
		}
		v = v.Elem()
	}
	return v.Interface()
}

// Entity adapts a value of the registered struct type (or a pointer to one).
// A zero primary key reads as nil.
func (m *Model) Entity(v any) (Entity, error) {
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil, fmt.Errorf("casebulk: nil %s", m.Name)
		}
		rv = rv.Elem()
	}
	if m.typ == nil || rv.Type() != m.typ {
		return nil, fmt.Errorf("casebulk: %T is not a %s", v, m.Name)
	}
	return structEntity{model: m, v: rv}, nil
}

// Entities adapts every element of a slice of the registered struct type
// (or of pointers to it).
func (m *Model) Entities(slice any) ([]Entity, error) {
	rv := reflect.ValueOf(slice)
	if rv.Kind() != reflect.Slice {
		return nil, fmt.Errorf("casebulk: Entities wants a slice, got %T", slice)
	}
	out := make([]Entity, rv.Len())
	for i := range out {
		e, err := m.Entity(rv.Index(i).Interface())
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		out[i] = e
	}
	return out, nil
}
