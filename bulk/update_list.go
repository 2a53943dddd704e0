package bulk

import (
	"github.com/bawdo/casebulk/nodes"
	"github.com/bawdo/casebulk/schema"
)

// BuildUpdateList builds the resolved CASE that maps each entity's primary
// key to its value for field:
//
//	CASE "t"."pk" WHEN k1 THEN v1 WHEN k2 THEN v2 ... END
//
// Values that are expressions are resolved against scope; literals are
// tagged with the field's output type. Zero entities yield a CASE with no
// branches, which renders as NULL.
func BuildUpdateList(scope *nodes.Scope, model *schema.Model, entities []schema.Entity, field *schema.Field) (*nodes.ResolvedCase, error) {
	ul, err := updateList(model, entities, field)
	if err != nil {
		return nil, err
	}
	r, err := ul.Resolve(scope)
	if err != nil {
		return nil, err
	}
	return r.(*nodes.ResolvedCase), nil
}

// updateList is the unresolved form of BuildUpdateList, for statements that
// are resolved as a whole.
func updateList(model *schema.Model, entities []schema.Entity, field *schema.Field) (*nodes.UpdateListNode, error) {
	rows := make([]nodes.UpdateRow, len(entities))
	for i, e := range entities {
		pk := e.PrimaryKey()
		if pk == nil {
			return nil, &MissingKeyError{Index: i}
		}
		rows[i] = nodes.UpdateRow{Key: pk, Value: e.Value(field)}
	}
	return nodes.NewUpdateList(nodes.F(model.PK.Column), rows, field.Type), nil
}
