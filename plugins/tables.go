package plugins

import "github.com/bawdo/casebulk/nodes"

// TableRef is a relation a statement touches. Relation qualifies the
// columns a plugin adds, so an alias stays an alias; Name is the real table
// name plugins match their configuration against.
type TableRef struct {
	Relation nodes.Node // *nodes.Table or *nodes.TableAlias
	Name     string
}

// CollectTables returns the relation a SELECT reads from, or nothing for a
// subquery or a missing FROM.
func CollectTables(core *nodes.SelectCore) []TableRef {
	if ref, ok := tableRef(core.From); ok {
		return []TableRef{ref}
	}
	return nil
}

// TargetTable returns the table an UPDATE writes to.
func TargetTable(stmt *nodes.UpdateStatement) (TableRef, bool) {
	return tableRef(stmt.Table)
}

func tableRef(n nodes.Node) (TableRef, bool) {
	switch n.(type) {
	case *nodes.Table, *nodes.TableAlias:
		return TableRef{Relation: n, Name: nodes.TableSourceName(n)}, true
	}
	return TableRef{}, false
}
