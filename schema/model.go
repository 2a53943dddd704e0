// Package schema describes the tables bulk updates write to: a Model names
// the table, its primary key and its updatable fields, and adapts Go values
// into entities the bulk planner can read.
//
// Models are usually registered from tagged structs:
//
//	type Product struct {
//		ID    int64  `db:"id,pk"`
//		Name  string `db:"name"`
//		Stock int    `db:"stock,type=integer"`
//		Notes string `db:"-"`
//	}
//
//	model, err := schema.Register(Product{})
package schema

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/bawdo/casebulk/nodes"
)

// ErrInvalidTag is wrapped by every struct tag parsing failure.
var ErrInvalidTag = errors.New("casebulk: invalid db tag")

// Field describes one column of a model.
type Field struct {
	Name   string // Go field name, or the logical name for hand-built models
	Column string
	Type   nodes.OutputType
	PK     bool

	index []int // reflect field path; nil for hand-built models
}

// Model describes a table that can be bulk updated.
type Model struct {
	Name    string
	Table   *nodes.Table
	PK      *Field
	Fields  []*Field // every field, primary key included, in declaration order
	Parents []string // non-empty for multi-table inherited models

	typ reflect.Type
}

// Option configures Register.
type Option func(*Model)

// WithTable overrides the table name derived from the type name.
func WithTable(name string) Option {
	return func(m *Model) { m.Table = nodes.NewTable(name) }
}

// WithParents marks the model as inheriting from the named parent models,
// whose columns live in other tables.
func WithParents(parents ...string) Option {
	return func(m *Model) { m.Parents = parents }
}

// Register builds a Model from a struct value or pointer. Exported fields
// are mapped through the db tag; untagged fields use the snake_case field
// name, and embedded structs are flattened. Exactly one field must be
// tagged pk, or be named ID.
func Register(v any, opts ...Option) (*Model, error) {
	t := reflect.TypeOf(v)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil || t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("casebulk: register %T: not a struct", v)
	}
	m := &Model{Name: t.Name(), Table: nodes.NewTable(ToSnakeCase(t.Name())), typ: t}
	if err := m.parseFields(t, nil); err != nil {
		return nil, fmt.Errorf("casebulk: register %s: %w", t.Name(), err)
	}
	if m.PK == nil {
		for _, f := range m.Fields {
			if f.Name == "ID" {
				f.PK = true
				m.PK = f
				break
			}
		}
	}
	if m.PK == nil {
		return nil, fmt.Errorf("casebulk: register %s: no primary key field", t.Name())
	}
	for _, o := range opts {
		o(m)
	}
	return m, nil
}

// NewModel builds a Model by hand, for tables with no Go struct. The first
// field marked PK is the primary key.
func NewModel(table string, fields []*Field, opts ...Option) (*Model, error) {
	m := &Model{Name: table, Table: nodes.NewTable(table), Fields: fields}
	for _, f := range fields {
		if f.Name == "" {
			f.Name = f.Column
		}
		if f.PK && m.PK == nil {
			m.PK = f
		}
	}
	if m.PK == nil {
		return nil, fmt.Errorf("casebulk: model %s: no primary key field", table)
	}
	for _, o := range opts {
		o(m)
	}
	return m, nil
}

func (m *Model) parseFields(t reflect.Type, path []int) error {
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		idx := append(append([]int(nil), path...), i)
		if !sf.IsExported() {
			continue
		}
		if sf.Anonymous && sf.Type.Kind() == reflect.Struct && sf.Tag.Get("db") == "" {
			if err := m.parseFields(sf.Type, idx); err != nil {
				return err
			}
			continue
		}
		f, err := parseField(sf, idx)
		if err != nil {
			return err
		}
		if f == nil {
			continue
		}
		if f.PK {
			if m.PK != nil {
				return fmt.Errorf("%w: %s and %s are both tagged pk", ErrInvalidTag, m.PK.Name, f.Name)
			}
			m.PK = f
		}
		m.Fields = append(m.Fields, f)
	}
	return nil
}

func parseField(sf reflect.StructField, idx []int) (*Field, error) {
	tag := sf.Tag.Get("db")
	if tag == "-" {
		return nil, nil
	}
	f := &Field{Name: sf.Name, Column: ToSnakeCase(sf.Name), Type: inferType(sf.Type), index: idx}
	parts := strings.Split(tag, ",")
	if name := strings.TrimSpace(parts[0]); name != "" {
		f.Column = name
	}
	for _, part := range parts[1:] {
		part = strings.TrimSpace(part)
		switch {
		case part == "":
		case part == "pk":
			f.PK = true
		case strings.HasPrefix(part, "type="):
			f.Type = nodes.OutputType(strings.TrimPrefix(part, "type="))
			if !f.Type.Known() {
				return nil, fmt.Errorf("%w: unknown type %q on %s", ErrInvalidTag, f.Type, sf.Name)
			}
		default:
			return nil, fmt.Errorf("%w: unknown option %q on %s", ErrInvalidTag, part, sf.Name)
		}
	}
	return f, nil
}

var (
	timeType = reflect.TypeOf(time.Time{})
	uuidType = reflect.TypeOf(uuid.UUID{})
)

func inferType(t reflect.Type) nodes.OutputType {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	switch t {
	case timeType:
		return nodes.TypeTimestamp
	case uuidType:
		return nodes.TypeUUID
	}
	switch t.Kind() {
	case reflect.Bool:
		return nodes.TypeBoolean
	case reflect.Int8, reflect.Int16, reflect.Int32, reflect.Uint8, reflect.Uint16:
		return nodes.TypeInteger
	case reflect.Int, reflect.Int64, reflect.Uint, reflect.Uint32, reflect.Uint64:
		return nodes.TypeBigInt
	case reflect.Float32, reflect.Float64:
		return nodes.TypeFloat
	case reflect.String:
		return nodes.TypeText
	case reflect.Slice:
		if t.Elem().Kind() == reflect.Uint8 {
			return nodes.TypeBytes
		}
	}
	return nodes.TypeUnknown
}

// Inherited reports whether the model spans several tables.
func (m *Model) Inherited() bool {
	return len(m.Parents) > 0
}

// Scope returns a resolution scope over the model's table: "pk" resolves to
// the primary key, and every field is reachable by its name or its column.
func (m *Model) Scope() *nodes.Scope {
	opts := []nodes.ScopeOption{nodes.WithPrimaryKey(m.PK.Column)}
	for _, f := range m.Fields {
		opts = append(opts,
			nodes.WithColumn(f.Column, f.Column, f.Type),
			nodes.WithColumn(f.Name, f.Column, f.Type))
	}
	return m.Table.Scope(opts...)
}

// NonKeyFields returns every field except the primary key.
func (m *Model) NonKeyFields() []*Field {
	out := make([]*Field, 0, len(m.Fields))
	for _, f := range m.Fields {
		if !f.PK {
			out = append(out, f)
		}
	}
	return out
}

// Lookup returns the fields matching names, each matched by field name or
// column name, in the order given. No names selects every non-key field.
func (m *Model) Lookup(names ...string) ([]*Field, error) {
	if len(names) == 0 {
		return m.NonKeyFields(), nil
	}
	out := make([]*Field, 0, len(names))
	for _, name := range names {
		f := m.field(name)
		if f == nil {
			return nil, fmt.Errorf("casebulk: %s has no field %q", m.Name, name)
		}
		out = append(out, f)
	}
	return out, nil
}

func (m *Model) field(name string) *Field {
	for _, f := range m.Fields {
		if f.Name == name || f.Column == name {
			return f
		}
	}
	return nil
}
